package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/pders01/copycode/internal/augment"
)

// Config is the typed view of the viper settings
type Config struct {
	Button      ButtonConfig      `mapstructure:"button"`
	Acknowledge AcknowledgeConfig `mapstructure:"acknowledge"`
	Augment     AugmentConfig     `mapstructure:"augment"`
	Log         LogConfig         `mapstructure:"log"`
}

type ButtonConfig struct {
	Label       string `mapstructure:"label"`
	CopiedLabel string `mapstructure:"copied_label"`
	AriaLabel   string `mapstructure:"aria_label"`
}

type AcknowledgeConfig struct {
	Delay time.Duration `mapstructure:"delay"`
}

type AugmentConfig struct {
	Include []string `mapstructure:"include"`
	Exclude []string `mapstructure:"exclude"`
	Workers int      `mapstructure:"workers"`
	IDs     bool     `mapstructure:"ids"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Defaults returns the default settings as nested sections, the shape written
// to config.toml
func Defaults() map[string]any {
	return map[string]any{
		"button": map[string]any{
			"label":        augment.DefaultLabel,
			"copied_label": augment.DefaultCopiedLabel,
			"aria_label":   augment.DefaultAriaLabel,
		},
		"acknowledge": map[string]any{
			"delay": augment.DefaultDelay.String(),
		},
		"augment": map[string]any{
			"include": []string{"**/*.html"},
			"exclude": []string{},
			"workers": 4,
			"ids":     false,
		},
		"log": map[string]any{
			"level": "warn",
		},
	}
}

// SetDefaults registers every default with v
func SetDefaults(v *viper.Viper) {
	for section, values := range Defaults() {
		for key, val := range values.(map[string]any) {
			v.SetDefault(section+"."+key, val)
		}
	}
}

// Load decodes the global viper settings
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom decodes the settings held by v
func LoadFrom(v *viper.Viper) (*Config, error) {
	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.Augment.Workers < 1 {
		cfg.Augment.Workers = 1
	}
	return &cfg, nil
}

// AugmentOptions converts the button and acknowledgment sections
func (c *Config) AugmentOptions() augment.Options {
	return augment.Options{
		Label:       c.Button.Label,
		CopiedLabel: c.Button.CopiedLabel,
		AriaLabel:   c.Button.AriaLabel,
		Delay:       c.Acknowledge.Delay,
		IDs:         c.Augment.IDs,
	}
}

// GetLogLevel returns the diagnostic log level
func GetLogLevel() string {
	return viper.GetString("log.level")
}

// EnvKeyReplacer maps nested keys to environment names, so acknowledge.delay
// is read from COPYCODE_ACKNOWLEDGE_DELAY
func EnvKeyReplacer() *strings.Replacer {
	return strings.NewReplacer(".", "_")
}
