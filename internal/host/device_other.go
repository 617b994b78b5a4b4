//go:build !linux

package host

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/dshills/beamspring/internal/layout"
	"github.com/dshills/beamspring/internal/report"
)

// ErrUnsupported is returned for device access on platforms without evdev.
var ErrUnsupported = errors.New("input devices are only supported on linux")

// Device is unavailable on this platform.
type Device struct{}

// OpenDevice always fails on this platform.
func OpenDevice(string, *layout.Keymap, bool, zerolog.Logger) (*Device, error) {
	return nil, ErrUnsupported
}

// Pump always fails on this platform.
func (*Device) Pump(context.Context, chan<- Transition) error { return ErrUnsupported }

// Close does nothing.
func (*Device) Close() error { return nil }

// UinputSink is unavailable on this platform.
type UinputSink struct{}

// NewUinputSink always fails on this platform.
func NewUinputSink(string) (*UinputSink, error) { return nil, ErrUnsupported }

// Send always fails on this platform.
func (*UinputSink) Send(report.Report) error { return ErrUnsupported }

// Close does nothing.
func (*UinputSink) Close() error { return nil }
