package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hoppxi/kbdlight/pkg/backlight"
	"github.com/spf13/viper"
)

const (
	BackendSysfs  = "sysfs"
	BackendLogind = "logind"
)

type Config struct {
	Device     string
	LedsDir    string
	DefaultMax int
	Backend    string
	Notify     bool
	Verbose    bool

	// File is the config file that was read, empty if none.
	File string
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() *Config {
	return &Config{
		Device:     backlight.DefaultDevice,
		LedsDir:    backlight.DefaultLedsDir,
		DefaultMax: 100,
		Backend:    BackendSysfs,
	}
}

// New returns a viper instance reading KBDLIGHT_* variables and either
// file or kbdlight.yaml from the user config directory.
func New(file string) *viper.Viper {
	v := viper.New()

	d := Default()
	v.SetDefault("device", d.Device)
	v.SetDefault("leds_dir", d.LedsDir)
	v.SetDefault("default_max", d.DefaultMax)
	v.SetDefault("backend", d.Backend)
	v.SetDefault("notify", d.Notify)
	v.SetDefault("verbose", d.Verbose)

	v.SetEnvPrefix("kbdlight")
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		return v
	}

	v.SetConfigName("kbdlight")
	v.SetConfigType("yaml")
	if configDir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(configDir, "kbdlight"))
	}
	return v
}

// Load reads the config file if there is one and validates the result.
// A missing file is not an error unless it was named explicitly.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	c := &Config{
		Device:     v.GetString("device"),
		LedsDir:    v.GetString("leds_dir"),
		DefaultMax: v.GetInt("default_max"),
		Backend:    strings.ToLower(v.GetString("backend")),
		Notify:     v.GetBool("notify"),
		Verbose:    v.GetBool("verbose"),
		File:       v.ConfigFileUsed(),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	switch {
	case c.Device == "" || strings.ContainsRune(c.Device, filepath.Separator):
		return fmt.Errorf("invalid device name %q", c.Device)
	case c.LedsDir == "":
		return errors.New("leds_dir must not be empty")
	case c.DefaultMax <= 0:
		return fmt.Errorf("default_max must be positive, got %d", c.DefaultMax)
	case c.Backend != BackendSysfs && c.Backend != BackendLogind:
		return fmt.Errorf("unknown backend %q (use %s or %s)", c.Backend, BackendSysfs, BackendLogind)
	}
	return nil
}
