package config

import (
	"fmt"
	"sort"
	"time"

	"github.com/dshills/beamspring/internal/input/key"
	"github.com/dshills/beamspring/internal/input/macro"
	"github.com/dshills/beamspring/internal/input/repeat"
	"github.com/dshills/beamspring/internal/input/socd"
	"github.com/dshills/beamspring/internal/logging"
	"github.com/dshills/beamspring/internal/sched"
)

// Config is the complete beamspring configuration.
type Config struct {
	Log    LogConfig    `toml:"log" yaml:"log" mapstructure:"log"`
	SOCD   SOCDConfig   `toml:"socd" yaml:"socd" mapstructure:"socd"`
	Macro  MacroConfig  `toml:"macro" yaml:"macro" mapstructure:"macro"`
	Repeat RepeatConfig `toml:"repeat" yaml:"repeat" mapstructure:"repeat"`
	Report ReportConfig `toml:"report" yaml:"report" mapstructure:"report"`
	Timers TimersConfig `toml:"timers" yaml:"timers" mapstructure:"timers"`
}

// LogConfig selects log level and output format.
type LogConfig struct {
	Level  string `toml:"level" yaml:"level" mapstructure:"level"`
	Format string `toml:"format" yaml:"format" mapstructure:"format"`
}

// SOCDConfig holds the SOCD filter settings.
type SOCDConfig struct {
	// Enabled is the filter state at startup.
	Enabled bool `toml:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// ResetOnEnable clears held flags whenever filtering is switched on.
	ResetOnEnable bool `toml:"reset_on_enable" yaml:"reset_on_enable" mapstructure:"reset_on_enable"`

	// Pairs are evaluated in order.
	Pairs []PairConfig `toml:"pairs" yaml:"pairs" mapstructure:"pairs"`
}

// PairConfig describes one pair of opposing keys.
type PairConfig struct {
	Name string   `toml:"name" yaml:"name" mapstructure:"name"`
	Keys []string `toml:"keys" yaml:"keys" mapstructure:"keys"`
	Mode string   `toml:"mode" yaml:"mode" mapstructure:"mode"`
}

// MacroConfig holds the dynamic macro settings.
type MacroConfig struct {
	// Confirm requires a second trigger press before replaying a slot.
	Confirm bool `toml:"confirm" yaml:"confirm" mapstructure:"confirm"`

	// Size is the event capacity shared by all slots.
	Size int `toml:"size" yaml:"size" mapstructure:"size"`

	// Slots maps base-layer key names under the trigger key to slots.
	Slots map[string]int `toml:"slots" yaml:"slots" mapstructure:"slots"`
}

// RepeatConfig holds the auto-repeat accelerator settings.
type RepeatConfig struct {
	Keys           []string `toml:"keys" yaml:"keys" mapstructure:"keys"`
	InitialDelayMS int      `toml:"initial_delay_ms" yaml:"initial_delay_ms" mapstructure:"initial_delay_ms"`
	CurveMS        []int    `toml:"curve_ms" yaml:"curve_ms" mapstructure:"curve_ms"`
}

// ReportConfig selects the report encoding.
type ReportConfig struct {
	NKRO bool `toml:"nkro" yaml:"nkro" mapstructure:"nkro"`
}

// TimersConfig bounds the deferred callback queue.
type TimersConfig struct {
	Max int `toml:"max" yaml:"max" mapstructure:"max"`
}

// Limits on numeric settings.
const (
	MaxMacroSize = 1024
	MaxTimers    = 256
	MaxDelayMS   = 10000
)

// Default returns the stock configuration.
func Default() *Config {
	curve := make([]int, len(repeat.DefaultCurve))
	for i, d := range repeat.DefaultCurve {
		curve[i] = int(d / time.Millisecond)
	}
	keys := make([]string, len(repeat.DefaultKeys))
	for i, c := range repeat.DefaultKeys {
		keys[i] = c.String()
	}
	slots := make(map[string]int)
	for c, s := range macro.DefaultSlots() {
		slots[c.String()] = int(s)
	}

	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		SOCD: SOCDConfig{
			Enabled:       false,
			ResetOnEnable: true,
			Pairs: []PairConfig{
				{Name: "vertical", Keys: []string{"W", "S"}, Mode: socd.ModeNeutral.String()},
				{Name: "horizontal", Keys: []string{"A", "D"}, Mode: socd.ModeLast.String()},
			},
		},
		Macro: MacroConfig{
			Confirm: false,
			Size:    macro.DefaultSize,
			Slots:   slots,
		},
		Repeat: RepeatConfig{
			Keys:           keys,
			InitialDelayMS: int(repeat.DefaultInitialDelay / time.Millisecond),
			CurveMS:        curve,
		},
		Report: ReportConfig{NKRO: true},
		Timers: TimersConfig{Max: sched.DefaultMax},
	}
}

// Validate checks every setting and returns the first failure as a
// *ValidationError.
func (c *Config) Validate() error {
	if _, err := c.Log.Build(); err != nil {
		return err
	}
	if _, err := c.SOCD.BuildPairs(); err != nil {
		return err
	}
	if _, err := c.Macro.BuildSlots(); err != nil {
		return err
	}
	if c.Macro.Size < 1 || c.Macro.Size > MaxMacroSize {
		return invalid("macro.size", ErrCodeOutOfRange, c.Macro.Size, nil,
			"must be between 1 and %d", MaxMacroSize)
	}
	if _, err := c.Repeat.Build(); err != nil {
		return err
	}
	if c.Timers.Max < 1 || c.Timers.Max > MaxTimers {
		return invalid("timers.max", ErrCodeOutOfRange, c.Timers.Max, nil,
			"must be between 1 and %d", MaxTimers)
	}
	return nil
}

// Build converts the log settings for the logging package.
func (l LogConfig) Build() (logging.Config, error) {
	cfg := logging.DefaultConfig()
	level, err := logging.ParseLevel(l.Level)
	if err != nil {
		return cfg, invalid("log.level", ErrCodeInvalidEnum, l.Level, err,
			"must be one of trace, debug, info, warn, error, off")
	}
	cfg.Level = level
	if l.Format != "" {
		if !logging.IsFormat(l.Format) {
			return cfg, invalid("log.format", ErrCodeInvalidEnum, l.Format, nil,
				"must be json or console")
		}
		cfg.Format = l.Format
	}
	return cfg, nil
}

// BuildPairs creates fresh SOCD pairs in configured order.
func (s SOCDConfig) BuildPairs() ([]*socd.Pair, error) {
	pairs := make([]*socd.Pair, 0, len(s.Pairs))
	names := make(map[string]bool, len(s.Pairs))
	watched := make(map[key.Code]string)

	for i, pc := range s.Pairs {
		path := fmt.Sprintf("socd.pairs[%d]", i)
		if pc.Name == "" {
			return nil, invalid(path+".name", ErrCodeRequiredMissing, pc.Name, nil, "pair needs a name")
		}
		if names[pc.Name] {
			return nil, invalid(path+".name", ErrCodeDuplicate, pc.Name, nil, "pair name used twice")
		}
		names[pc.Name] = true

		if len(pc.Keys) != 2 {
			return nil, invalid(path+".keys", ErrCodeOutOfRange, pc.Keys, nil, "pair needs exactly two keys")
		}
		var codes [2]key.Code
		for j, spec := range pc.Keys {
			kp := fmt.Sprintf("%s.keys[%d]", path, j)
			c, err := basicKey(kp, spec)
			if err != nil {
				return nil, err
			}
			if other, ok := watched[c]; ok {
				return nil, invalid(kp, ErrCodeDuplicate, spec, nil, "key already belongs to pair %q", other)
			}
			watched[c] = pc.Name
			codes[j] = c
		}

		mode, err := socd.ParseMode(pc.Mode)
		if err != nil {
			return nil, invalid(path+".mode", ErrCodeInvalidEnum, pc.Mode, err,
				"must be one of off, last, neutral, former, latter")
		}
		pairs = append(pairs, socd.NewPair(pc.Name, codes[0], codes[1], mode))
	}
	return pairs, nil
}

// BuildSlots resolves the slot table. Keys are base-layer key names.
func (m MacroConfig) BuildSlots() (map[key.Code]macro.Slot, error) {
	if len(m.Slots) == 0 {
		return macro.DefaultSlots(), nil
	}

	names := make([]string, 0, len(m.Slots))
	for name := range m.Slots {
		names = append(names, name)
	}
	sort.Strings(names)

	slots := make(map[key.Code]macro.Slot, len(m.Slots))
	used := make(map[macro.Slot]string, len(m.Slots))
	for _, name := range names {
		path := "macro.slots." + name
		c, err := key.Parse(name)
		if err != nil {
			return nil, invalid(path, ErrCodeInvalidKey, name, err, "unknown key")
		}
		n := m.Slots[name]
		s := macro.Slot(n)
		if n < 1 || n > macro.MaxSlots {
			return nil, invalid(path, ErrCodeOutOfRange, n, macro.ErrInvalidSlot,
				"slot must be between 1 and %d", macro.MaxSlots)
		}
		if prev, ok := used[s]; ok {
			return nil, invalid(path, ErrCodeDuplicate, n, nil, "slot already bound to %s", prev)
		}
		used[s] = name
		slots[c] = s
	}
	return slots, nil
}

// Build converts the repeat settings for the accelerator.
func (r RepeatConfig) Build() (repeat.Config, error) {
	var cfg repeat.Config

	for i, spec := range r.Keys {
		c, err := basicKey(fmt.Sprintf("repeat.keys[%d]", i), spec)
		if err != nil {
			return cfg, err
		}
		cfg.Keys = append(cfg.Keys, c)
	}

	if r.InitialDelayMS < 1 || r.InitialDelayMS > MaxDelayMS {
		return cfg, invalid("repeat.initial_delay_ms", ErrCodeOutOfRange, r.InitialDelayMS, nil,
			"must be between 1 and %d", MaxDelayMS)
	}
	cfg.InitialDelay = time.Duration(r.InitialDelayMS) * time.Millisecond

	for _, ms := range r.CurveMS {
		cfg.Curve = append(cfg.Curve, time.Duration(ms)*time.Millisecond)
	}
	if err := repeat.CheckCurve(cfg.InitialDelay, cfg.Curve); err != nil {
		return cfg, invalid("repeat.curve_ms", ErrCodeOutOfRange, r.CurveMS, err, "%v", err)
	}
	return cfg, nil
}

// basicKey parses a key name that must land in the HID report.
func basicKey(path, spec string) (key.Code, error) {
	c, err := key.Parse(spec)
	if err != nil {
		return key.KeyNone, invalid(path, ErrCodeInvalidKey, spec, err, "unknown key")
	}
	if !c.IsBasic() {
		return key.KeyNone, invalid(path, ErrCodeInvalidKey, spec, nil, "%s is not a basic key", c)
	}
	return c, nil
}
