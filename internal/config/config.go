// Package config reads the runtime configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

var (
	ErrAPIURLMissing   = errors.New("environment variable API_URL must be set")
	ErrAPIURLInvalid   = errors.New("environment variable API_URL must be a valid absolute URL")
	ErrPortInvalid     = errors.New("PORT must be a number between 1 and 65535")
	ErrLogFormat       = errors.New("LOG_FORMAT must be empty, 'human' or 'json'")
	ErrGinMode         = errors.New("GIN_MODE must be empty, 'debug', 'release' or 'test'")
	ErrLocaleInvalid   = errors.New("TELEGRAM_LOCALE is not a valid language tag")
	ErrMaxAgeInvalid   = errors.New("TELEGRAM_LOGIN_MAX_AGE must be a positive duration")
	ErrCurrencyInvalid = errors.New("DEFAULT_CURRENCY is not a valid ISO 4217 code")
)

type Config struct {
	APIURL    *url.URL
	Port      int
	DataDir   string
	GinMode   string
	LogFormat string

	TelegramBotToken      string
	TelegramWebhookSecret string
	TelegramLocale        string
	TelegramLoginMaxAge   time.Duration

	DefaultCurrency string

	// raw values that still need parsing in Validate
	apiURL string
	maxAge string
}

// TelegramEnabled reports if a bot token is configured.
func (c Config) TelegramEnabled() bool {
	return c.TelegramBotToken != ""
}

// Load reads the configuration.
//
// The given env files are loaded into the environment first, variables
// that are already set are not overridden. Without arguments, a .env
// file in the working directory is loaded if it exists.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("could not load .env: %w", err)
		}
	} else if err := godotenv.Load(envFiles...); err != nil {
		return Config{}, fmt.Errorf("could not load env files: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", 8080)
	v.SetDefault("DATA_DIR", "data")
	v.SetDefault("TELEGRAM_LOCALE", "ru")
	v.SetDefault("TELEGRAM_LOGIN_MAX_AGE", "24h")
	v.SetDefault("DEFAULT_CURRENCY", "RUB")

	c := Config{
		Port:                  v.GetInt("PORT"),
		DataDir:               v.GetString("DATA_DIR"),
		GinMode:               v.GetString("GIN_MODE"),
		LogFormat:             v.GetString("LOG_FORMAT"),
		TelegramBotToken:      strings.TrimSpace(v.GetString("TELEGRAM_BOT_TOKEN")),
		TelegramWebhookSecret: v.GetString("TELEGRAM_WEBHOOK_SECRET"),
		TelegramLocale:        v.GetString("TELEGRAM_LOCALE"),
		DefaultCurrency:       strings.ToUpper(strings.TrimSpace(v.GetString("DEFAULT_CURRENCY"))),
		apiURL:                v.GetString("API_URL"),
		maxAge:                v.GetString("TELEGRAM_LOGIN_MAX_AGE"),
	}

	// PORT=abc makes GetInt return 0, which Validate reports
	err := c.parse()
	return c, err
}

func (c *Config) parse() error {
	var errs []error

	if c.apiURL == "" {
		errs = append(errs, ErrAPIURLMissing)
	} else if u, err := url.Parse(c.apiURL); err != nil || !u.IsAbs() || u.Host == "" {
		errs = append(errs, fmt.Errorf("%w: %q", ErrAPIURLInvalid, c.apiURL))
	} else {
		// Links are built by appending paths
		u.Path = strings.TrimSuffix(u.Path, "/")
		c.APIURL = u
	}

	if d, err := time.ParseDuration(c.maxAge); err != nil || d <= 0 {
		errs = append(errs, fmt.Errorf("%w: %q", ErrMaxAgeInvalid, c.maxAge))
	} else {
		c.TelegramLoginMaxAge = d
	}

	return errors.Join(errs...)
}

// Validate reports all malformed values as one joined error.
func (c Config) Validate() error {
	var errs []error

	if c.APIURL == nil {
		errs = append(errs, ErrAPIURLMissing)
	}

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, ErrPortInvalid)
	}

	switch c.LogFormat {
	case "", "human", "json":
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrLogFormat, c.LogFormat))
	}

	switch c.GinMode {
	case "", "debug", "release", "test":
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrGinMode, c.GinMode))
	}

	if _, err := language.Parse(c.TelegramLocale); err != nil {
		errs = append(errs, fmt.Errorf("%w: %q", ErrLocaleInvalid, c.TelegramLocale))
	}

	if c.TelegramLoginMaxAge <= 0 {
		errs = append(errs, ErrMaxAgeInvalid)
	}

	if _, err := currency.ParseISO(c.DefaultCurrency); err != nil {
		errs = append(errs, fmt.Errorf("%w: %q", ErrCurrencyInvalid, c.DefaultCurrency))
	}

	return errors.Join(errs...)
}
