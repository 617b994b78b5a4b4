//go:build linux

package host

import (
	"errors"
	"fmt"

	evdev "github.com/holoplot/go-evdev"

	"github.com/dshills/beamspring/internal/input/key"
	"github.com/dshills/beamspring/internal/report"
)

// UinputID identifies the virtual keyboard.
var UinputID = evdev.InputID{
	BusType: 0x03, // USB
	Vendor:  0x4B50,
	Product: 0x0BEA,
	Version: 1,
}

// UinputSink turns flushed reports into key events on a virtual keyboard.
type UinputSink struct {
	dev  *evdev.InputDevice
	last report.Report
}

// NewUinputSink creates a virtual keyboard named name.
func NewUinputSink(name string) (*UinputSink, error) {
	evCodes := key.EvdevCodes()
	codes := make([]evdev.EvCode, len(evCodes))
	for i, c := range evCodes {
		codes[i] = evdev.EvCode(c)
	}

	dev, err := evdev.CreateDevice(name, UinputID, map[evdev.EvType][]evdev.EvCode{
		evdev.EV_KEY: codes,
	})
	if err != nil {
		return nil, fmt.Errorf("create uinput device: %w", err)
	}
	return &UinputSink{dev: dev}, nil
}

// Send emits the difference between r and the previous report, releases
// first, followed by one sync.
func (u *UinputSink) Send(r report.Report) error {
	pressed, released := r.Diff(u.last)
	u.last = r

	var errs []error
	for _, c := range released {
		errs = append(errs, u.write(c, 0))
	}
	for _, c := range pressed {
		errs = append(errs, u.write(c, 1))
	}
	errs = append(errs, u.dev.WriteOne(&evdev.InputEvent{Type: evdev.EV_SYN, Code: evdev.SYN_REPORT}))
	return errors.Join(errs...)
}

func (u *UinputSink) write(c key.Code, value int32) error {
	ev, ok := c.Evdev()
	if !ok {
		return nil
	}
	return u.dev.WriteOne(&evdev.InputEvent{
		Type:  evdev.EV_KEY,
		Code:  evdev.EvCode(ev),
		Value: value,
	})
}

// Close destroys the virtual keyboard.
func (u *UinputSink) Close() error {
	return u.dev.Close()
}
