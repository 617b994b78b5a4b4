//go:build linux

package host

import (
	"context"
	"errors"
	"fmt"

	evdev "github.com/holoplot/go-evdev"
	"github.com/rs/zerolog"

	"github.com/dshills/beamspring/internal/input/key"
	"github.com/dshills/beamspring/internal/layout"
)

// Device reads key transitions from a Linux input device and maps them
// onto matrix positions through the base layer.
type Device struct {
	dev     *evdev.InputDevice
	keymap  *layout.Keymap
	grabbed bool
	logger  zerolog.Logger
}

// OpenDevice opens an evdev node such as /dev/input/event3. With grab set
// the device is taken exclusively, so only the host's output reaches the
// system.
func OpenDevice(path string, km *layout.Keymap, grab bool, logger zerolog.Logger) (*Device, error) {
	dev, err := evdev.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input device %s: %w", path, err)
	}

	d := &Device{dev: dev, keymap: km, logger: logger}
	if grab {
		if err := dev.Grab(); err != nil {
			_ = dev.Close()
			return nil, fmt.Errorf("grab input device %s: %w", path, err)
		}
		d.grabbed = true
	}

	name, _ := dev.Name()
	logger.Info().Str("path", path).Str("name", name).Bool("grab", grab).Msg("input device opened")
	return d, nil
}

// Pump forwards transitions to out until the device fails or ctx is done.
// Kernel auto-repeat events are dropped; the host does its own repeating.
func (d *Device) Pump(ctx context.Context, out chan<- Transition) error {
	for {
		ev, err := d.dev.ReadOne()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			return fmt.Errorf("read input device: %w", err)
		}
		if ev.Type != evdev.EV_KEY || ev.Value > 1 {
			continue
		}

		code, ok := key.FromEvdev(uint16(ev.Code))
		if !ok {
			d.logger.Trace().Uint16("evdev", uint16(ev.Code)).Msg("unmapped key")
			continue
		}
		pos, ok := d.keymap.Locate(code)
		if !ok {
			d.logger.Trace().Stringer("code", code).Msg("key not on the base layer")
			continue
		}

		select {
		case out <- Transition{Pos: pos, Pressed: ev.Value == 1}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close releases the grab and closes the device. A blocked Pump returns.
func (d *Device) Close() error {
	var errs []error
	if d.grabbed {
		errs = append(errs, d.dev.Ungrab())
	}
	errs = append(errs, d.dev.Close())
	return errors.Join(errs...)
}
