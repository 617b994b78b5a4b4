package report

import (
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/dshills/beamspring/internal/input/key"
)

// Buffer is the report being assembled for the next flush.
// It is not safe for concurrent use; the host loop owns it.
type Buffer struct {
	mods   key.Modifier
	keys   []key.Code
	nkro   bool
	sink   Sink
	clock  func() time.Duration
	last   Report
	sent   bool
	sends  uint64
	errors uint64
	logger zerolog.Logger
}

// Option configures a Buffer.
type Option func(*Buffer)

// WithNKRO selects the initial encoding.
func WithNKRO(on bool) Option {
	return func(b *Buffer) { b.nkro = on }
}

// WithClock stamps flushed reports with the given time source.
func WithClock(clock func() time.Duration) Option {
	return func(b *Buffer) { b.clock = clock }
}

// WithLogger sets the logger used for sink failures.
func WithLogger(logger zerolog.Logger) Option {
	return func(b *Buffer) { b.logger = logger }
}

// NewBuffer creates an empty buffer flushing to sink. A nil sink discards
// reports.
func NewBuffer(sink Sink, opts ...Option) *Buffer {
	if sink == nil {
		sink = Discard
	}
	b := &Buffer{
		sink:   sink,
		nkro:   true,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// AddKey marks code as held. Non-basic keycodes are ignored. In 6KRO mode a
// seventh simultaneous key is dropped.
func (b *Buffer) AddKey(code key.Code) {
	if code.IsModifier() {
		b.mods = b.mods.With(code.ModBit())
		return
	}
	if !code.IsBasic() {
		return
	}
	i, found := slices.BinarySearch(b.keys, code)
	if found {
		return
	}
	if !b.nkro && len(b.keys) >= BootKeys {
		b.logger.Debug().Stringer("key", code).Msg("6KRO rollover, key dropped")
		return
	}
	b.keys = slices.Insert(b.keys, i, code)
}

// DelKey marks code as released.
func (b *Buffer) DelKey(code key.Code) {
	if code.IsModifier() {
		b.mods = b.mods.Without(code.ModBit())
		return
	}
	if i, found := slices.BinarySearch(b.keys, code); found {
		b.keys = slices.Delete(b.keys, i, i+1)
	}
}

// Has returns true if code is held in the pending report.
func (b *Buffer) Has(code key.Code) bool {
	if code.IsModifier() {
		return b.mods.Has(code.ModBit())
	}
	_, found := slices.BinarySearch(b.keys, code)
	return found
}

// Clear releases every key without flushing.
func (b *Buffer) Clear() {
	b.mods = key.ModNone
	b.keys = b.keys[:0]
}

// Snapshot returns the pending report.
func (b *Buffer) Snapshot() Report {
	r := Report{
		Mods: b.mods,
		Keys: slices.Clone(b.keys),
		NKRO: b.nkro,
	}
	if b.clock != nil {
		r.Time = b.clock()
	}
	return r
}

// SendReport flushes the pending report to the sink. A report identical to
// the last one sent is not repeated. Sink failures are logged and counted.
func (b *Buffer) SendReport() {
	r := b.Snapshot()
	if b.sent && r.Equal(b.last) {
		return
	}
	b.last = r
	b.sent = true
	b.sends++
	if err := b.sink.Send(r); err != nil {
		b.errors++
		b.logger.Error().Err(err).Stringer("report", r).Msg("send report")
	}
}

// Last returns the most recently flushed report.
func (b *Buffer) Last() Report {
	return b.last
}

// Sends returns the number of reports flushed and how many of them failed.
func (b *Buffer) Sends() (sent, failed uint64) {
	return b.sends, b.errors
}

// NKRO returns true when the bitmap encoding is selected.
func (b *Buffer) NKRO() bool {
	return b.nkro
}

// SetNKRO switches encoding. Held keys are cleared and an empty report is
// flushed, matching how the host sees a protocol change.
func (b *Buffer) SetNKRO(on bool) {
	if b.nkro == on {
		return
	}
	b.Clear()
	b.SendReport()
	b.nkro = on
	b.logger.Debug().Bool("nkro", on).Msg("report encoding changed")
}
