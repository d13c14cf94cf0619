package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is built once at process start and passed down explicitly.
type Config struct {
	Port string `yaml:"port"`

	Provider    string        `yaml:"provider"` // deepseek | openai | gemini | none
	Timeout     time.Duration `yaml:"timeout"`
	Temperature float64       `yaml:"temperature"`
	MaxBytes    int64         `yaml:"max_response_bytes"`

	DeepseekAPIKey  string `yaml:"deepseek_api_key"`
	DeepseekModel   string `yaml:"deepseek_model"`
	DeepseekBaseURL string `yaml:"deepseek_base_url"`
	OpenAIAPIKey    string `yaml:"openai_api_key"`
	OpenAIModel     string `yaml:"openai_model"`
	OpenAIBaseURL   string `yaml:"openai_base_url"`
	GeminiAPIKey    string `yaml:"gemini_api_key"`
	GeminiModel     string `yaml:"gemini_model"`

	LogLevel  string `yaml:"log_level"`  // debug | info | warn | error
	LogFormat string `yaml:"log_format"` // json | console

	TelegramBotToken string `yaml:"telegram_bot_token"`
	WebhookURL       string `yaml:"webhook_url"`
}

func Default() *Config {
	return &Config{
		Port:            "8080",
		Provider:        "deepseek",
		Timeout:         75 * time.Second,
		Temperature:     0.2,
		MaxBytes:        4 << 20,
		DeepseekModel:   "deepseek-chat",
		DeepseekBaseURL: "https://api.deepseek.com",
		OpenAIModel:     "gpt-4o-mini",
		OpenAIBaseURL:   "https://api.openai.com/v1",
		GeminiModel:     "gemini-2.5-flash",
		LogLevel:        "info",
		LogFormat:       "json",
	}
}

// Load applies defaults, then the YAML file at path (a missing file is not an
// error), then environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.Provider = strings.ToLower(getEnv("LLM_PROVIDER", cfg.Provider))

	cfg.DeepseekAPIKey = getEnv("DEEPSEEK_API_KEY", cfg.DeepseekAPIKey)
	cfg.DeepseekModel = getEnv("DEEPSEEK_MODEL", cfg.DeepseekModel)
	cfg.DeepseekBaseURL = getEnv("DEEPSEEK_BASE_URL", cfg.DeepseekBaseURL)
	cfg.OpenAIAPIKey = getEnv("OPENAI_API_KEY", cfg.OpenAIAPIKey)
	cfg.OpenAIModel = getEnv("OPENAI_MODEL", cfg.OpenAIModel)
	cfg.OpenAIBaseURL = getEnv("OPENAI_BASE_URL", cfg.OpenAIBaseURL)
	cfg.GeminiAPIKey = getEnv("GEMINI_API_KEY", cfg.GeminiAPIKey)
	cfg.GeminiModel = getEnv("GEMINI_MODEL", cfg.GeminiModel)

	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)
	cfg.TelegramBotToken = getEnv("TELEGRAM_BOT_TOKEN", cfg.TelegramBotToken)
	cfg.WebhookURL = getEnv("WEBHOOK_URL", cfg.WebhookURL)

	if v := os.Getenv("LLM_TIMEOUT"); v != "" {
		d, err := parseDuration(v)
		if err != nil {
			return fmt.Errorf("LLM_TIMEOUT: %w", err)
		}
		cfg.Timeout = d
	}
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("LLM_TEMPERATURE: %w", err)
		}
		cfg.Temperature = f
	}
	return nil
}

// parseDuration accepts Go durations ("90s") and bare seconds ("90").
func parseDuration(v string) (time.Duration, error) {
	v = strings.TrimSpace(v)
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(v)
}

func getEnv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

// Validate checks the settings the analyzer needs. A provider without a key
// is an error; use provider "none" to run on local rules only.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be within [0,2], got %v", c.Temperature)
	}
	switch c.Provider {
	case "deepseek":
		if c.DeepseekAPIKey == "" {
			return errors.New("missing DEEPSEEK_API_KEY for provider deepseek")
		}
	case "openai", "gpt":
		if c.OpenAIAPIKey == "" {
			return errors.New("missing OPENAI_API_KEY for provider openai")
		}
	case "gemini":
		if c.GeminiAPIKey == "" {
			return errors.New("missing GEMINI_API_KEY for provider gemini")
		}
	case "none", "local":
	default:
		return fmt.Errorf("unknown provider %q", c.Provider)
	}
	return nil
}
