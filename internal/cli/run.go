package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/beamspring/internal/config"
	"github.com/dshills/beamspring/internal/config/watcher"
	"github.com/dshills/beamspring/internal/host"
	"github.com/dshills/beamspring/internal/logging"
	"github.com/dshills/beamspring/internal/report"
)

type runOptions struct {
	device string
	hidg   string
	name   string
	grab   bool
	watch  bool
}

func newRunCmd(app *App) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the keymap on a live input device",
		Long: `Read key events from an evdev input device, run them through the keymap and
send the resulting reports to a uinput virtual keyboard, or to a USB HID
gadget endpoint when --hidg is given.

The config file is watched and reapplied when it changes. A reload releases
every held key; recorded macros are kept.

Examples:
  beamspring run --device /dev/input/by-id/usb-IBM_Beamspring-event-kbd
  beamspring run --device /dev/input/event3 --hidg /dev/hidg0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, app, app.Source(cmd), opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.device, "device", "d", "", "evdev input device")
	f.StringVar(&opts.hidg, "hidg", "", "HID gadget device to write reports to instead of uinput")
	f.StringVar(&opts.name, "name", "beamspring", "name of the uinput virtual keyboard")
	f.BoolVar(&opts.grab, "grab", true, "grab the input device exclusively")
	f.BoolVar(&opts.watch, "watch", true, "reload the config file when it changes")
	_ = cmd.MarkFlagRequired("device")
	addSettingFlags(f)
	return cmd
}

func run(ctx context.Context, app *App, src config.Source, opts runOptions) error {
	logger := app.Logger()

	sink, closeSink, err := openSink(opts)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeSink.Close(); err != nil {
			logger.Warn().Err(err).Msg("closing output")
		}
	}()

	h, err := host.New(app.Config(), sink, host.WithLogger(logger))
	if err != nil {
		return err
	}
	ctx = logging.WithSession(logging.WithContext(ctx, logger), h.ID())

	dev, err := host.OpenDevice(opts.device, h.Keymap(), opts.grab, logging.Component(logger, "device"))
	if err != nil {
		return err
	}
	var closeOnce sync.Once
	closeDev := func() {
		closeOnce.Do(func() {
			if err := dev.Close(); err != nil {
				logger.Warn().Err(err).Msg("closing input device")
			}
		})
	}
	defer closeDev()

	var reloads chan *config.Config
	if opts.watch && src.Path != "" {
		w, err := watcher.New(src.Path, watcher.WithLogger(logging.Component(logger, "watcher")))
		if err != nil {
			return fmt.Errorf("watching config: %w", err)
		}
		defer func() { _ = w.Close() }()

		reloads = make(chan *config.Config)
		go reloadOnChange(ctx, w, src, reloads)
	}

	transitions := make(chan host.Transition, 64)
	pumpErr := make(chan error, 1)
	go func() {
		defer close(transitions)
		pumpErr <- dev.Pump(ctx, transitions)
	}()

	err = h.Run(ctx, transitions, reloads)
	if errors.Is(err, context.Canceled) {
		err = nil
	}

	// Closing the device unblocks a pending read.
	closeDev()
	if perr := <-pumpErr; perr != nil && ctx.Err() == nil {
		err = errors.Join(err, fmt.Errorf("reading %s: %w", opts.device, perr))
	}
	return err
}

func openSink(opts runOptions) (report.Sink, io.Closer, error) {
	if opts.hidg != "" {
		f, err := os.OpenFile(opts.hidg, os.O_WRONLY, 0)
		if err != nil {
			return nil, nil, fmt.Errorf("opening HID gadget: %w", err)
		}
		return report.NewHIDWriter(f), f, nil
	}
	u, err := host.NewUinputSink(opts.name)
	if err != nil {
		return nil, nil, fmt.Errorf("creating uinput keyboard: %w", err)
	}
	return u, u, nil
}

// reloadOnChange loads src on every change the watcher reports and sends
// the result to out. Configs that fail to load are logged and skipped. It
// returns when ctx is done or the watcher closes.
func reloadOnChange(ctx context.Context, w *watcher.Watcher, src config.Source, out chan<- *config.Config) {
	logger := logging.FromContext(ctx)

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.Events():
			if !ok {
				return
			}
			if ev.Op == watcher.OpRemove {
				logger.Warn().Str("path", ev.Path).Msg("config file removed, keeping current settings")
				continue
			}
			cfg, err := src.Load()
			if err != nil {
				logger.Error().Err(err).Str("path", ev.Path).Msg("config reload failed")
				continue
			}
			logger.Info().Str("path", ev.Path).Stringer("op", ev.Op).Msg("config changed")
			select {
			case out <- cfg:
			case <-ctx.Done():
				return
			}

		case err, ok := <-w.Errors():
			if !ok {
				return
			}
			logger.Warn().Err(err).Msg("config watcher")
		}
	}
}
