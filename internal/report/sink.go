package report

import (
	"fmt"
	"io"
	"sync"
)

// Sink receives flushed reports.
type Sink interface {
	Send(r Report) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(r Report) error

// Send calls f(r).
func (f SinkFunc) Send(r Report) error { return f(r) }

// Discard drops every report.
var Discard Sink = SinkFunc(func(Report) error { return nil })

// HIDWriter writes encoded reports to a HID device, such as a Linux USB
// gadget node (/dev/hidg0).
type HIDWriter struct {
	w io.Writer
}

// NewHIDWriter creates a sink writing to w.
func NewHIDWriter(w io.Writer) *HIDWriter {
	return &HIDWriter{w: w}
}

// Send writes one encoded report.
func (h *HIDWriter) Send(r Report) error {
	b := r.Bytes()
	n, err := h.w.Write(b)
	if err != nil {
		return fmt.Errorf("write hid report: %w", err)
	}
	if n != len(b) {
		return fmt.Errorf("write hid report: %w", io.ErrShortWrite)
	}
	return nil
}

// Recorder keeps every report it receives. It is safe for concurrent use so
// tests can inspect it while a host loop runs.
type Recorder struct {
	mu      sync.Mutex
	reports []Report
}

// Send appends r.
func (rec *Recorder) Send(r Report) error {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.reports = append(rec.reports, r)
	return nil
}

// Reports returns a copy of the reports received so far.
func (rec *Recorder) Reports() []Report {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	out := make([]Report, len(rec.reports))
	copy(out, rec.reports)
	return out
}

// Strings returns the String form of each report received.
func (rec *Recorder) Strings() []string {
	reports := rec.Reports()
	out := make([]string, len(reports))
	for i, r := range reports {
		out[i] = r.String()
	}
	return out
}

// Len returns the number of reports received.
func (rec *Recorder) Len() int {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return len(rec.reports)
}

// Reset forgets every report.
func (rec *Recorder) Reset() {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.reports = nil
}

// Multi fans a report out to several sinks. Every sink is tried; the first
// error is returned.
func Multi(sinks ...Sink) Sink {
	return SinkFunc(func(r Report) error {
		var first error
		for _, s := range sinks {
			if err := s.Send(r); err != nil && first == nil {
				first = err
			}
		}
		return first
	})
}
