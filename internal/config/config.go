// Public domain.

// Package config holds runtime configuration for the phasecurve command.
//
// Values come from built-in defaults, a TOML file .phasecurve.toml in the
// working or home directory, PHASECURVE_* environment variables, and
// command line flags bound by the caller, in increasing priority.
// Environment names replace dots with underscores, as in
// PHASECURVE_FIT_FAMILY.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/soniakeys/phasecurve/internal/fit"
	"github.com/soniakeys/phasecurve/internal/horizons"
	"github.com/soniakeys/phasecurve/internal/photometry"
)

// HorizonsConfig configures the ephemeris service.
type HorizonsConfig struct {
	URL     string        `mapstructure:"url"`
	Center  string        `mapstructure:"center"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// CacheConfig configures the ephemeris cache.  An empty path disables it.
type CacheConfig struct {
	Path string `mapstructure:"path"`
}

// InputConfig selects the observation file format, "table" or "mpc".
type InputConfig struct {
	Format string `mapstructure:"format"`
}

// OutputConfig selects the result format, "text" or "toml".
type OutputConfig struct {
	Format string `mapstructure:"format"`
}

// FitConfig holds fit parameters.  Nil and empty values take the defaults
// of the family.
type FitConfig struct {
	Family      string    `mapstructure:"family"`
	Simple      bool      `mapstructure:"simple"`
	G0          *float64  `mapstructure:"g0"`
	HRange      []float64 `mapstructure:"h_range"`
	GRange      []float64 `mapstructure:"g_range"`
	Simulations int       `mapstructure:"simulations"`
	Repeatable  bool      `mapstructure:"repeatable"`
}

// Config holds all runtime configuration.
type Config struct {
	Horizons HorizonsConfig `mapstructure:"horizons"`
	Cache    CacheConfig    `mapstructure:"cache"`
	DEFile   string         `mapstructure:"de_file"`
	Obscodes string         `mapstructure:"obscodes"`
	Input    InputConfig    `mapstructure:"input"`
	Output   OutputConfig   `mapstructure:"output"`
	Fit      FitConfig      `mapstructure:"fit"`
	Verbose  bool           `mapstructure:"verbose"`
}

// RepeatableSeed is the Monte Carlo seed used with fit.repeatable.
const RepeatableSeed = 3

// dataDir is where the cache and the observatory code file go by default.
func dataDir() string {
	d, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(d, "phasecurve")
}

// setDefaults sets built-in defaults on v.  The environment prefix must
// already be set.
func setDefaults(v *viper.Viper) {
	v.SetDefault("horizons.url", horizons.DefaultURL)
	v.SetDefault("horizons.center", horizons.DefaultCenter)
	v.SetDefault("horizons.timeout", horizons.DefaultTimeout)
	if d := dataDir(); d != "" {
		v.SetDefault("cache.path", filepath.Join(d, "ephem.db"))
		v.SetDefault("obscodes", filepath.Join(d, "obscodes.dat"))
	} else {
		v.SetDefault("cache.path", "")
		v.SetDefault("obscodes", "obscodes.dat")
	}
	v.SetDefault("de_file", "")
	v.SetDefault("input.format", "table")
	v.SetDefault("output.format", "text")
	v.SetDefault("fit.family", "hg")
	v.SetDefault("fit.simple", false)
	v.SetDefault("fit.simulations", fit.DefaultParams().Simulations)
	v.SetDefault("fit.repeatable", false)
	v.SetDefault("verbose", false)
	// keys without defaults still need to be known to the environment
	for _, k := range []string{"fit.g0", "fit.h_range", "fit.g_range"} {
		_ = v.BindEnv(k)
	}
}

// Load reads configuration into v and unmarshals it.  file names a config
// file; when empty, .phasecurve.toml is looked for in the working
// directory and then the home directory, and not finding one is not an
// error.
func Load(v *viper.Viper, file string) (Config, error) {
	v.SetEnvPrefix("PHASECURVE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(".phasecurve")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &nf) {
			return Config{}, fmt.Errorf("config: %w", err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, cfg.check()
}

func (c *Config) check() error {
	switch c.Input.Format {
	case "table", "mpc":
	default:
		return fmt.Errorf("config: input.format %q, want table or mpc", c.Input.Format)
	}
	switch c.Output.Format {
	case "text", "toml":
	default:
		return fmt.Errorf("config: output.format %q, want text or toml", c.Output.Format)
	}
	if _, err := fit.ParseFamily(c.Fit.Family); err != nil {
		return fmt.Errorf("config: fit.family: %w", err)
	}
	return nil
}

// Params returns the fit family and parameters selected by c.
func (c *FitConfig) Params() (fit.Family, fit.Params, error) {
	f, err := fit.ParseFamily(c.Family)
	if err != nil {
		return 0, fit.Params{}, err
	}
	p := fit.DefaultParamsFor(f)
	if c.Simple {
		p.Mode = photometry.Simple
	}
	if c.G0 != nil {
		p.G0 = *c.G0
	}
	if p.HRange, err = rangeOf("h_range", c.HRange, p.HRange); err != nil {
		return 0, p, err
	}
	if p.GRange, err = rangeOf("g_range", c.GRange, p.GRange); err != nil {
		return 0, p, err
	}
	p.Simulations = c.Simulations
	if c.Repeatable {
		p.Seed = RepeatableSeed
	}
	return f, p, nil
}

func rangeOf(key string, v []float64, def fit.Range) (fit.Range, error) {
	switch len(v) {
	case 0:
		return def, nil
	case 2:
		return fit.Range{Lo: v[0], Hi: v[1]}, nil
	}
	return def, fmt.Errorf("%w: fit.%s needs 2 values, got %v", fit.ErrConfig, key, v)
}
