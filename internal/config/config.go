// Package config loads tacbot settings from defaults, an optional JSON or
// YAML file and TACBOT_ environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/Garsondee/tacbot/internal/bot"
	"github.com/Garsondee/tacbot/internal/nav"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid")

// LogConfig holds logger settings.
type LogConfig struct {
	Level   string `json:"level" mapstructure:"level"`
	Console bool   `json:"console" mapstructure:"console"`
}

// BotConfig holds the decision core tunables.
type BotConfig struct {
	UpdateRate              float64 `json:"updateRate" mapstructure:"updateRate"`
	TickRate                float64 `json:"tickRate" mapstructure:"tickRate"`
	Difficulty              string  `json:"difficulty" mapstructure:"difficulty"`
	Chatter                 string  `json:"chatter" mapstructure:"chatter"`
	AllowSnipers            bool    `json:"allowSnipers" mapstructure:"allowSnipers"`
	DefuserPerfectKnowledge bool    `json:"defuserPerfectKnowledge" mapstructure:"defuserPerfectKnowledge"`
	MaxVisionDistance       float64 `json:"maxVisionDistance" mapstructure:"maxVisionDistance"`
}

// NavConfig holds path cost tunables.
type NavConfig struct {
	DangerDecayPerSecond float64 `json:"dangerDecayPerSecond" mapstructure:"dangerDecayPerSecond"`
	JitterBucketSeconds  float64 `json:"jitterBucketSeconds" mapstructure:"jitterBucketSeconds"`
}

// JournalConfig selects the match journal backend.
type JournalConfig struct {
	Driver string `json:"driver" mapstructure:"driver"` // none, sqlite or postgres
	DSN    string `json:"dsn" mapstructure:"dsn"`
}

// MetricsConfig toggles the OpenTelemetry counters.
type MetricsConfig struct {
	Enabled bool `json:"enabled" mapstructure:"enabled"`
}

// Config is the full settings tree.
type Config struct {
	Log     LogConfig     `json:"log" mapstructure:"log"`
	Bot     BotConfig     `json:"bot" mapstructure:"bot"`
	Nav     NavConfig     `json:"nav" mapstructure:"nav"`
	Journal JournalConfig `json:"journal" mapstructure:"journal"`
	Metrics MetricsConfig `json:"metrics" mapstructure:"metrics"`
}

// SetDefaults installs the stock values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.console", true)

	v.SetDefault("bot.updateRate", 10.0)
	v.SetDefault("bot.tickRate", 30.0)
	v.SetDefault("bot.difficulty", "normal")
	v.SetDefault("bot.chatter", "normal")
	v.SetDefault("bot.allowSnipers", true)
	v.SetDefault("bot.defuserPerfectKnowledge", false)
	v.SetDefault("bot.maxVisionDistance", 0.0)

	v.SetDefault("nav.dangerDecayPerSecond", nav.DefaultDangerDecay)
	v.SetDefault("nav.jitterBucketSeconds", 10.0)

	v.SetDefault("journal.driver", "none")
	v.SetDefault("journal.dsn", "")

	v.SetDefault("metrics.enabled", false)
}

// New returns a viper instance with defaults, environment overrides and,
// when path is not empty, the contents of that file.
func New(path string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix("TACBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if path == "" {
		return v, nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return v, nil
}

// Load reads and validates the configuration at path. An empty path
// yields the defaults.
func Load(path string) (*Config, error) {
	v, err := New(path)
	if err != nil {
		return nil, err
	}
	return Decode(v)
}

// Decode unmarshals and validates the settings held by v.
func Decode(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	c.Bot.Difficulty = strings.ToLower(strings.TrimSpace(c.Bot.Difficulty))
	c.Bot.Chatter = strings.ToLower(strings.TrimSpace(c.Bot.Chatter))
	c.Journal.Driver = strings.ToLower(strings.TrimSpace(c.Journal.Driver))
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate rejects non-positive rates and unknown names.
func (c *Config) Validate() error {
	var errs []error
	if c.Bot.UpdateRate <= 0 {
		errs = append(errs, fmt.Errorf("%w: bot.updateRate must be positive, got %v", ErrInvalid, c.Bot.UpdateRate))
	}
	if c.Bot.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("%w: bot.tickRate must be positive, got %v", ErrInvalid, c.Bot.TickRate))
	}
	if c.Bot.MaxVisionDistance < 0 {
		errs = append(errs, fmt.Errorf("%w: bot.maxVisionDistance is negative", ErrInvalid))
	}
	if _, ok := bot.ParseDifficulty(c.Bot.Difficulty); !ok {
		errs = append(errs, fmt.Errorf("%w: unknown bot.difficulty %q", ErrInvalid, c.Bot.Difficulty))
	}
	if _, ok := bot.ParseVerbosity(c.Bot.Chatter); !ok {
		errs = append(errs, fmt.Errorf("%w: unknown bot.chatter %q", ErrInvalid, c.Bot.Chatter))
	}
	if c.Nav.DangerDecayPerSecond <= 0 {
		errs = append(errs, fmt.Errorf("%w: nav.dangerDecayPerSecond must be positive", ErrInvalid))
	}
	if c.Nav.JitterBucketSeconds <= 0 {
		errs = append(errs, fmt.Errorf("%w: nav.jitterBucketSeconds must be positive", ErrInvalid))
	}
	switch c.Journal.Driver {
	case "none", "sqlite", "postgres":
	default:
		errs = append(errs, fmt.Errorf("%w: unknown journal.driver %q", ErrInvalid, c.Journal.Driver))
	}
	return errors.Join(errs...)
}

// BotSettings converts the validated config into decision core settings.
func (c *Config) BotSettings() bot.Settings {
	d, _ := bot.ParseDifficulty(c.Bot.Difficulty)
	v, _ := bot.ParseVerbosity(c.Bot.Chatter)
	return bot.Settings{
		UpdateRate:              c.Bot.UpdateRate,
		TickRate:                c.Bot.TickRate,
		Difficulty:              d,
		Chatter:                 v,
		AllowSnipers:            c.Bot.AllowSnipers,
		DefuserPerfectKnowledge: c.Bot.DefuserPerfectKnowledge,
		MaxVisionDistance:       c.Bot.MaxVisionDistance,
		DangerDecayPerSecond:    c.Nav.DangerDecayPerSecond,
		JitterBucketSeconds:     c.Nav.JitterBucketSeconds,
	}
}

// Watch reloads v whenever its file changes and hands the result to fn.
// A file that fails validation reaches fn as an error; the previous
// settings stay in force on the caller's side.
func Watch(v *viper.Viper, fn func(*Config, error)) {
	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		fn(Decode(v))
	})
	v.WatchConfig()
}
