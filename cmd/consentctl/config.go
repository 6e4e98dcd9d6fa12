package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/dmitrymomot/consent/pkg/logger"
)

// Config is read from the environment, an optional .env file and flags,
// in increasing order of precedence.
type Config struct {
	ProfileDir     string        `mapstructure:"CONSENT_PROFILE_DIR"`
	Locale         string        `mapstructure:"CONSENT_LOCALE"`
	Region         string        `mapstructure:"CONSENT_REGION"`
	SignalMode     string        `mapstructure:"CONSENT_SIGNAL_MODE" default:"immediate-default"`
	LogLevel       string        `mapstructure:"LOG_LEVEL" default:"warn"`
	Addr           string        `mapstructure:"CONSENT_ADDR" default:":8080"`
	CookieSecret   string        `mapstructure:"CONSENT_COOKIE_SECRET"`
	CookieDomain   string        `mapstructure:"CONSENT_COOKIE_DOMAIN"`
	CSRFKey        string        `mapstructure:"CONSENT_CSRF_KEY"`
	Translations   string        `mapstructure:"CONSENT_TRANSLATIONS_DIR"`
	CookieSecure   bool          `mapstructure:"CONSENT_COOKIE_SECURE"`
	ExpirationDays int           `mapstructure:"CONSENT_EXPIRATION_DAYS" default:"365"`
	WaitForUpdate  time.Duration `mapstructure:"CONSENT_WAIT_FOR_UPDATE" default:"500ms"`

	Sentry logger.SentryConfig `mapstructure:",squash"`
}

// flagKeys maps command line flags to config keys.
var flagKeys = map[string]string{
	"profile":         "CONSENT_PROFILE_DIR",
	"locale":          "CONSENT_LOCALE",
	"region":          "CONSENT_REGION",
	"signal-mode":     "CONSENT_SIGNAL_MODE",
	"log-level":       "LOG_LEVEL",
	"addr":            "CONSENT_ADDR",
	"translations":    "CONSENT_TRANSLATIONS_DIR",
	"expiration-days": "CONSENT_EXPIRATION_DAYS",
}

// registerFlags adds the config flags to fs. Flag defaults are empty so
// that only flags set on the command line override other sources.
func registerFlags(fs *pflag.FlagSet) {
	fs.String("profile", "", "directory holding the stored consent record")
	fs.String("locale", "", "banner locale, detected from LC_ALL/LANG when empty")
	fs.String("region", "", "ISO 3166 country code of the visitor")
	fs.String("signal-mode", "", "immediate-default or deferred")
	fs.String("log-level", "", "debug, info, warn or error")
	fs.String("addr", "", "listen address for serve")
	fs.String("translations", "", "directory of {lang}/{namespace}.yaml files overriding the bundled texts")
	fs.Int("expiration-days", 0, "record lifetime in days, clamped to 30..730")
}

// Load reads the configuration. path is searched for a .env file; a
// missing file is not an error.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	processTags(v, &cfg)

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if cfg.ProfileDir == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve profile dir: %w", err)
		}
		cfg.ProfileDir = filepath.Join(dir, "consent")
	}

	return &cfg, nil
}

// processTags binds every mapstructure key to the environment and
// registers the default tag values.
func processTags(v *viper.Viper, cfg any) {
	val := reflect.ValueOf(cfg)
	if val.Kind() == reflect.Pointer {
		val = val.Elem()
	}

	t := val.Type()
	for i := range t.NumField() {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			processTags(v, val.Field(i).Addr().Interface())
			continue
		}

		key := field.Tag.Get("mapstructure")
		if key == "" {
			continue
		}
		_ = v.BindEnv(key)
		if def := field.Tag.Get("default"); def != "" {
			v.SetDefault(key, def)
		}
	}
}
