package config

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/dshills/beamspring/internal/config/loader"
	"github.com/dshills/beamspring/internal/input/macro"
)

// EnvPrefix is the prefix of environment overrides, e.g.
// BEAMSPRING_SOCD_ENABLED=true.
const EnvPrefix = "BEAMSPRING"

// NewViper returns a viper instance carrying the defaults and reading
// BEAMSPRING_* environment variables.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, Default())
	return v
}

// setDefaults registers every leaf of cfg. Macro slots are left out so a
// file that rebinds them replaces the table instead of merging into it.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)

	v.SetDefault("socd.enabled", cfg.SOCD.Enabled)
	v.SetDefault("socd.reset_on_enable", cfg.SOCD.ResetOnEnable)
	pairs := make([]map[string]any, len(cfg.SOCD.Pairs))
	for i, p := range cfg.SOCD.Pairs {
		pairs[i] = map[string]any{"name": p.Name, "keys": p.Keys, "mode": p.Mode}
	}
	v.SetDefault("socd.pairs", pairs)

	v.SetDefault("macro.confirm", cfg.Macro.Confirm)
	v.SetDefault("macro.size", cfg.Macro.Size)

	v.SetDefault("repeat.keys", cfg.Repeat.Keys)
	v.SetDefault("repeat.initial_delay_ms", cfg.Repeat.InitialDelayMS)
	v.SetDefault("repeat.curve_ms", cfg.Repeat.CurveMS)

	v.SetDefault("report.nkro", cfg.Report.NKRO)
	v.SetDefault("timers.max", cfg.Timers.Max)
}

// ReadFile merges the file at path into v. The format follows the
// extension.
func ReadFile(v *viper.Viper, fsys loader.FileSystem, path string) error {
	m, err := loader.Load(fsys, path)
	if err != nil {
		return err
	}
	if m == nil {
		return fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	if err := v.MergeConfigMap(m); err != nil {
		return fmt.Errorf("merging %s: %w", path, err)
	}
	return nil
}

// Decode unmarshals and validates the settings held by v.
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if len(cfg.Macro.Slots) == 0 {
		cfg.Macro.Slots = make(map[string]int)
		for c, s := range macro.DefaultSlots() {
			cfg.Macro.Slots[c.String()] = int(s)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Source describes where configuration comes from. Load can be called
// repeatedly, which is how live reload picks up an edited file.
type Source struct {
	// Path is the config file. Empty means defaults only.
	Path string

	// FS reads Path. Nil means the OS file system.
	FS loader.FileSystem

	// Flags are bound by their setting names, e.g. "socd.enabled".
	Flags *pflag.FlagSet
}

// Load builds a fresh, validated Config from defaults, the file, the
// environment and the flags.
func (s Source) Load() (*Config, error) {
	v := NewViper()
	if s.Path != "" {
		if err := ReadFile(v, s.FS, s.Path); err != nil {
			return nil, err
		}
	}
	if s.Flags != nil {
		var bindErr error
		s.Flags.VisitAll(func(f *pflag.Flag) {
			if !strings.Contains(f.Name, ".") || bindErr != nil {
				return
			}
			bindErr = v.BindPFlag(f.Name, f)
		})
		if bindErr != nil {
			return nil, fmt.Errorf("binding flags: %w", bindErr)
		}
	}
	return Decode(v)
}

// Encode renders cfg in the given file format.
func (c *Config) Encode(format loader.Format) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case loader.FormatTOML:
		enc := toml.NewEncoder(&buf)
		enc.SetIndentTables(true)
		if err := enc.Encode(c); err != nil {
			return nil, err
		}
	case loader.FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, format)
	}
	return buf.Bytes(), nil
}
