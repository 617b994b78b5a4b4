// Package sched runs deferred callbacks on a virtual millisecond clock.
//
// A Queue holds one-shot callbacks ordered by deadline. Nothing fires on its
// own: the owner moves the clock forward with Advance, which runs every due
// callback in deadline order on the caller's goroutine. A callback may
// return a positive delay to be rescheduled under the same token, or zero to
// stop.
//
// Scheduling, cancelling and firing all happen on the owner's goroutine, so
// a cancelled token is guaranteed never to fire.
package sched

import (
	"container/heap"
	"errors"
	"time"
)

// ErrFull is returned when the queue already holds its maximum number of
// pending callbacks.
var ErrFull = errors.New("deferred callback queue is full")

// DefaultMax is the default capacity of a Queue.
const DefaultMax = 16

// Token identifies a scheduled callback. The zero Token is never issued.
type Token uint32

// InvalidToken is returned when nothing was scheduled.
const InvalidToken Token = 0

// Callback runs when a deadline passes. The returned duration reschedules
// the callback relative to its deadline; zero or negative stops it.
type Callback func(arg any) time.Duration

type task struct {
	token    Token
	deadline time.Duration
	seq      uint64
	cb       Callback
	arg      any
	index    int
}

// taskHeap orders tasks by deadline, then by scheduling order.
type taskHeap []*task

func (h taskHeap) Len() int { return len(h) }

func (h taskHeap) Less(i, j int) bool {
	if h[i].deadline != h[j].deadline {
		return h[i].deadline < h[j].deadline
	}
	return h[i].seq < h[j].seq
}

func (h taskHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *taskHeap) Push(x any) {
	t := x.(*task)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}

// Queue is a deadline-ordered set of deferred callbacks.
// It is not safe for concurrent use.
type Queue struct {
	now     time.Duration
	max     int
	last    Token
	seq     uint64
	tasks   taskHeap
	byToken map[Token]*task
	firing  *task
}

// NewQueue creates a queue holding at most max pending callbacks.
// A max of zero or less uses DefaultMax.
func NewQueue(max int) *Queue {
	if max <= 0 {
		max = DefaultMax
	}
	return &Queue{
		max:     max,
		byToken: make(map[Token]*task, max),
	}
}

// Now returns the current virtual time.
func (q *Queue) Now() time.Duration {
	return q.now
}

// Schedule arranges for cb(arg) to run delay after the current time.
// Returns ErrFull if the queue is at capacity.
func (q *Queue) Schedule(delay time.Duration, cb Callback, arg any) (Token, error) {
	if len(q.byToken) >= q.max {
		return InvalidToken, ErrFull
	}
	if delay < 0 {
		delay = 0
	}
	t := &task{
		token:    q.nextToken(),
		deadline: q.now + delay,
		cb:       cb,
		arg:      arg,
	}
	q.push(t)
	return t.token, nil
}

// Cancel removes a pending callback. Returns false if the token is not
// pending. Cancelling the callback that is currently firing stops it from
// being rescheduled.
func (q *Queue) Cancel(tok Token) bool {
	t, ok := q.byToken[tok]
	if !ok {
		return false
	}
	delete(q.byToken, tok)
	if t.index >= 0 {
		heap.Remove(&q.tasks, t.index)
	}
	return true
}

// Pending returns true if the token is scheduled or currently firing.
func (q *Queue) Pending(tok Token) bool {
	_, ok := q.byToken[tok]
	return ok
}

// Len returns the number of pending callbacks.
func (q *Queue) Len() int {
	return len(q.byToken)
}

// Next returns the earliest pending deadline.
func (q *Queue) Next() (time.Duration, bool) {
	if len(q.tasks) == 0 {
		return 0, false
	}
	return q.tasks[0].deadline, true
}

// Advance moves the clock to now, firing every callback whose deadline is at
// or before it. While a callback runs, Now reports its deadline. Callbacks
// rescheduled into the window fire within the same call. Returns the number
// of callbacks fired. Time never moves backwards.
func (q *Queue) Advance(now time.Duration) int {
	fired := 0
	for len(q.tasks) > 0 && q.tasks[0].deadline <= now {
		t := heap.Pop(&q.tasks).(*task)
		if t.deadline > q.now {
			q.now = t.deadline
		}

		q.firing = t
		d := t.cb(t.arg)
		q.firing = nil
		fired++

		if _, live := q.byToken[t.token]; !live {
			continue
		}
		if d <= 0 {
			delete(q.byToken, t.token)
			continue
		}
		t.deadline += d
		t.seq = q.nextSeq()
		heap.Push(&q.tasks, t)
	}
	if now > q.now {
		q.now = now
	}
	return fired
}

// Reset cancels every pending callback. The clock is left where it is.
func (q *Queue) Reset() {
	q.tasks = q.tasks[:0]
	clear(q.byToken)
}

// Firing returns the token of the callback currently running, or
// InvalidToken outside a callback.
func (q *Queue) Firing() Token {
	if q.firing == nil {
		return InvalidToken
	}
	return q.firing.token
}

func (q *Queue) push(t *task) {
	t.seq = q.nextSeq()
	q.byToken[t.token] = t
	heap.Push(&q.tasks, t)
}

func (q *Queue) nextSeq() uint64 {
	q.seq++
	return q.seq
}

func (q *Queue) nextToken() Token {
	for {
		q.last++
		if q.last == InvalidToken {
			continue
		}
		if _, used := q.byToken[q.last]; !used {
			return q.last
		}
	}
}
