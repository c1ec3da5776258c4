package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// secretPath is the Docker secret checked when BOT_TOKEN is not set.
var secretPath = "/run/secrets/telegram_bot_token"

// Base is what every command needs: storage, catalog, timezone and logging.
type Base struct {
	DataDir       string `env:"DATA_DIR" envDefault:"data"`
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"json"` // json | sqlite
	CatalogFile   string `env:"CATALOG_FILE"`
	Timezone      string `env:"TIMEZONE" envDefault:"+03:00"` // IANA или ±HH:MM
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile       string `env:"LOG_FILE"`

	loc *time.Location
}

// Location is the administrative timezone resolved from Timezone.
func (b *Base) Location() *time.Location { return b.loc }

// Config is the full bot configuration.
type Config struct {
	Base

	BotToken     string        `env:"BOT_TOKEN"`
	AdminChatID  int64         `env:"ADMIN_CHAT_ID,required"` // Telegram user id of the admin, not a group
	SummaryTime  string        `env:"SUMMARY_TIME" envDefault:"20:00"`
	ResetTime    string        `env:"RESET_TIME" envDefault:"23:00"`
	TickInterval time.Duration `env:"TICK_INTERVAL" envDefault:"30s"`
	HTTPAddr     string        `env:"HTTP_ADDR" envDefault:":8080"`
	WebhookURL   string        `env:"WEBHOOK_URL"`
	WebhookPath  string        `env:"WEBHOOK_PATH" envDefault:"/webhook"`
}

// Load reads .env (if present) and the environment. Any error is fatal for
// the bot: it must not start partially configured.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return parse(env.Options{})
}

// LoadBase is Load for offline commands that never talk to Telegram.
func LoadBase() (*Base, error) {
	_ = godotenv.Load()
	return parseBase(env.Options{})
}

func parseBase(opts env.Options) (*Base, error) {
	var b Base
	if err := env.ParseWithOptions(&b, opts); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := b.resolve(); err != nil {
		return nil, err
	}
	return &b, nil
}

func parse(opts env.Options) (*Config, error) {
	var c Config
	if err := env.ParseWithOptions(&c, opts); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := c.resolve(); err != nil {
		return nil, err
	}

	c.BotToken = strings.TrimSpace(c.BotToken)
	if c.BotToken == "" {
		c.BotToken = readSecret()
	}
	if c.BotToken == "" {
		return nil, errors.New("config: BOT_TOKEN is not set (neither env nor Docker secret)")
	}
	if c.AdminChatID == 0 {
		return nil, errors.New("config: ADMIN_CHAT_ID must be non-zero")
	}
	if c.TickInterval <= 0 || c.TickInterval >= time.Minute {
		return nil, fmt.Errorf("config: TICK_INTERVAL %s must be between 0 and 1m", c.TickInterval)
	}
	if _, err := time.Parse("15:04", c.SummaryTime); err != nil {
		return nil, fmt.Errorf("config: SUMMARY_TIME %q: %w", c.SummaryTime, err)
	}
	if _, err := time.Parse("15:04", c.ResetTime); err != nil {
		return nil, fmt.Errorf("config: RESET_TIME %q: %w", c.ResetTime, err)
	}
	if !strings.HasPrefix(c.WebhookPath, "/") {
		c.WebhookPath = "/" + c.WebhookPath
	}
	c.WebhookURL = strings.TrimRight(c.WebhookURL, "/")
	return &c, nil
}

func (b *Base) resolve() error {
	loc, err := ParseLocation(b.Timezone)
	if err != nil {
		return err
	}
	b.loc = loc
	return nil
}

func readSecret() string {
	data, err := os.ReadFile(secretPath)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// ParseLocation accepts an IANA zone name or a fixed offset like "+03:00".
func ParseLocation(tz string) (*time.Location, error) {
	tz = strings.TrimSpace(tz)
	if tz == "" {
		return nil, errors.New("config: empty TIMEZONE")
	}
	if tz[0] == '+' || tz[0] == '-' {
		t, err := time.Parse("-07:00", tz)
		if err != nil {
			return nil, fmt.Errorf("config: TIMEZONE %q: %w", tz, err)
		}
		_, offset := t.Zone()
		return time.FixedZone("UTC"+tz, offset), nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("config: TIMEZONE %q: %w", tz, err)
	}
	return loc, nil
}
