package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Session    SessionConfig
	RateLimit  RateLimitConfig `mapstructure:"rate_limit"`
	LLM        LLMConfigs
	Monitoring MonitoringConfig
	Log        LogConfig
}

type ServerConfig struct {
	Port        int
	Environment string
	CorsOrigins []string `mapstructure:"cors_origins"`
	CSRF        bool
}

type SessionConfig struct {
	TTL        time.Duration
	CookieName string `mapstructure:"cookie_name"`
}

type RateLimitConfig struct {
	PerDay          int `mapstructure:"per_day"`
	PerHour         int `mapstructure:"per_hour"`
	RefinePerMinute int `mapstructure:"refine_per_minute"`
}

type LLMConfigs struct {
	Provider        string
	Temperature     float32
	MaxOutputTokens int `mapstructure:"max_output_tokens"`
	Timeout         time.Duration
	Gemini          GeminiConfig
	OpenAI          OpenAIConfig
	Claude          ClaudeConfig
}

type GeminiConfig struct {
	Key   string
	Model string
}

type OpenAIConfig struct {
	Key     string
	Model   string
	BaseURL string `mapstructure:"base_url"`
}

type ClaudeConfig struct {
	Key     string
	Model   string
	BaseURL string `mapstructure:"base_url"`
}

type MonitoringConfig struct {
	ProjectId    string        `mapstructure:"project_id"`
	JsonKey      string        `mapstructure:"json_key"`
	PushInterval time.Duration `mapstructure:"push_interval"`
}

type LogConfig struct {
	Level  string
	Pretty bool
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.cors_origins", []string{})
	v.SetDefault("server.csrf", true)

	v.SetDefault("session.ttl", "24h")
	v.SetDefault("session.cookie_name", "promptrefiner_session")

	v.SetDefault("rate_limit.per_day", 200)
	v.SetDefault("rate_limit.per_hour", 50)
	v.SetDefault("rate_limit.refine_per_minute", 10)

	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.temperature", 0.3)
	v.SetDefault("llm.max_output_tokens", 2000)
	v.SetDefault("llm.timeout", "20s")
	v.SetDefault("llm.gemini.key", "")
	v.SetDefault("llm.gemini.model", "gemini-1.5-flash")
	v.SetDefault("llm.openai.key", "")
	v.SetDefault("llm.openai.model", "gpt-4o-mini")
	v.SetDefault("llm.openai.base_url", "")
	v.SetDefault("llm.claude.key", "")
	v.SetDefault("llm.claude.model", "claude-3-5-haiku-latest")
	v.SetDefault("llm.claude.base_url", "")

	v.SetDefault("monitoring.project_id", "")
	v.SetDefault("monitoring.json_key", "")
	v.SetDefault("monitoring.push_interval", "60s")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
}

// LoadConfig reads <configName>.yaml from "." or "./config" when present and overlays the environment.
// A missing file is not an error; every setting has a default.
func LoadConfig(configName string) (*Config, error) {
	return load(viper.New(), configName)
}

func load(v *viper.Viper, configName string) (*Config, error) {
	var config Config

	setDefaults(v)

	v.SetConfigName(configName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindings := map[string]string{
		"llm.gemini.key":     "GEMINI_API_KEY",
		"llm.openai.key":     "OPENAI_API_KEY",
		"llm.claude.key":     "ANTHROPIC_API_KEY",
		"server.port":        "PORT",
		"server.environment": "APP_ENV",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, fmt.Errorf("error binding %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if config.Server.Port == 0 {
		config.Server.Port = 5001
		if config.IsProduction() {
			config.Server.Port = 5000
		}
	}

	return &config, nil
}

// IsProduction mirrors the deployment split between development and production defaults.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Environment, "production")
}
