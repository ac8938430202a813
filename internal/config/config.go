package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
	Discord DiscordConfig `mapstructure:"discord"`
	Webhook WebhookConfig `mapstructure:"webhook"`
	Notify  NotifyConfig  `mapstructure:"notify"`
	Status  StatusConfig  `mapstructure:"status"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type ServerConfig struct {
	HTTPAddr string `mapstructure:"http_addr"`
	// Port, when set, overrides the port of HTTPAddr.
	Port string `mapstructure:"port"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
	// Dir enables per-level log files plus all.log.
	Dir   string `mapstructure:"dir"`
	Debug bool   `mapstructure:"debug"`
}

type DiscordConfig struct {
	Token          string        `mapstructure:"token"`
	ClientID       string        `mapstructure:"client_id"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	GuildWait      time.Duration `mapstructure:"guild_wait"`
	Commands       bool          `mapstructure:"commands"`
}

type WebhookConfig struct {
	Secret       string `mapstructure:"secret"`
	MaxBodyBytes int64  `mapstructure:"max_body_bytes"`
}

type NotifyConfig struct {
	ChannelID  string        `mapstructure:"channel_id"`
	WebhookURL string        `mapstructure:"webhook_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type StatusConfig struct {
	ReportEvery string `mapstructure:"report_every"`
}

// Load reads an optional .env file, the YAML file at path (unless envOnly)
// and environment overrides prefixed with EB_.
func Load(path string, envOnly bool) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}

	v := viper.New()
	v.SetEnvPrefix("EB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()

	v.SetDefault("app.env", "development")
	v.SetDefault("server.http_addr", ":3000")
	v.SetDefault("server.port", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)
	v.SetDefault("log.dir", "")
	v.SetDefault("log.debug", false)
	v.SetDefault("discord.token", "")
	v.SetDefault("discord.client_id", "")
	v.SetDefault("discord.request_timeout", "0s")
	v.SetDefault("discord.guild_wait", "15s")
	v.SetDefault("discord.commands", true)
	v.SetDefault("webhook.secret", "")
	v.SetDefault("webhook.max_body_bytes", 1<<20)
	v.SetDefault("notify.channel_id", "")
	v.SetDefault("notify.webhook_url", "")
	v.SetDefault("notify.timeout", "5s")
	v.SetDefault("status.report_every", "@every 5m")

	// Plain names used by existing deployments.
	_ = v.BindEnv("discord.token", "EB_DISCORD_TOKEN", "DISCORD_BOT_TOKEN")
	_ = v.BindEnv("discord.client_id", "EB_DISCORD_CLIENT_ID", "DISCORD_CLIENT_ID")
	_ = v.BindEnv("notify.channel_id", "EB_NOTIFY_CHANNEL_ID", "NOTIFY_CHANNEL_ID")
	_ = v.BindEnv("server.port", "EB_SERVER_PORT", "PORT")
	_ = v.BindEnv("log.debug", "EB_LOG_DEBUG", "DEBUG")
	_ = v.BindEnv("app.env", "EB_APP_ENV", "APP_ENV", "NODE_ENV")

	if !envOnly {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	if p := strings.TrimSpace(c.Server.Port); p != "" {
		c.Server.HTTPAddr = ":" + strings.TrimPrefix(p, ":")
	}
	if c.Log.Debug {
		c.Log.Level = "debug"
	}
	c.Discord.Token = strings.TrimSpace(c.Discord.Token)
	c.Discord.ClientID = strings.TrimSpace(c.Discord.ClientID)
}

// Validate reports configuration that makes startup pointless.
func (c Config) Validate() error {
	var errs []error
	if c.Discord.Token == "" {
		errs = append(errs, errors.New("DISCORD_BOT_TOKEN is required"))
	}
	if c.Discord.ClientID == "" {
		errs = append(errs, errors.New("DISCORD_CLIENT_ID is required"))
	}
	if c.Webhook.MaxBodyBytes < 0 {
		errs = append(errs, errors.New("webhook.max_body_bytes must not be negative"))
	}
	return errors.Join(errs...)
}

// IsProduction reports whether the service runs with production settings.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.App.Env, "production") || strings.EqualFold(c.App.Env, "prod")
}
