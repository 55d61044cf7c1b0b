// Package config loads cogniscreen settings from an optional YAML file,
// a .env file and COGNISCREEN_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/abhisek/cogniscreen/internal/assessment"
	"github.com/abhisek/cogniscreen/internal/llm"
)

// EnvPrefix prefixes every environment override, e.g. COGNISCREEN_LOG_LEVEL.
const EnvPrefix = "COGNISCREEN"

type Config struct {
	Log        LogConfig        `mapstructure:"log"`
	LLM        LLMConfig        `mapstructure:"llm"`
	Assessment AssessmentConfig `mapstructure:"assessment"`
	Reports    ReportsConfig    `mapstructure:"reports"`
	Clinic     ClinicConfig     `mapstructure:"clinic"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

type LLMConfig struct {
	// Provider is anthropic, openai, gemini, openrouter, mock or none.
	// Empty means discover from the standard *_API_KEY variables.
	Provider          string        `mapstructure:"provider"`
	Model             string        `mapstructure:"model"`
	APIKey            string        `mapstructure:"api_key"`
	BaseURL           string        `mapstructure:"base_url"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
}

type AssessmentConfig struct {
	TimeLimit time.Duration `mapstructure:"time_limit"`
}

type ReportsConfig struct {
	ExportDir       string `mapstructure:"export_dir"`
	DefaultTemplate string `mapstructure:"default_template"`
}

type ClinicConfig struct {
	Name string `mapstructure:"name"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("log.compress", true)

	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.timeout", 30*time.Second)
	v.SetDefault("llm.requests_per_minute", 20)

	v.SetDefault("assessment.time_limit", assessment.DefaultTimeLimit)

	v.SetDefault("reports.export_dir", ".")
	v.SetDefault("reports.default_template", "standard")

	v.SetDefault("clinic.name", "Unidad de Memoria")
}

// Load reads configuration. file is an explicit config path (may be empty);
// envFiles are dotenv files to load first, ".env" when none are given.
// Missing dotenv files and a missing default config file are not errors.
func Load(file string, envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file == "" {
		file = findConfigFile()
	} else if _, err := os.Stat(file); err != nil {
		return nil, fmt.Errorf("config file: %w", err)
	}
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.File = file

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var errs []string
	if c.Assessment.TimeLimit <= 0 {
		errs = append(errs, fmt.Sprintf("assessment.time_limit must be positive, got %s", c.Assessment.TimeLimit))
	}
	if c.LLM.Timeout <= 0 {
		errs = append(errs, fmt.Sprintf("llm.timeout must be positive, got %s", c.LLM.Timeout))
	}
	if c.LLM.RequestsPerMinute < 0 {
		errs = append(errs, fmt.Sprintf("llm.requests_per_minute must be >= 0, got %d", c.LLM.RequestsPerMinute))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("log.level must be debug, info, warn or error, got %q", c.Log.Level))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// findConfigFile returns the first existing default config file.
func findConfigFile() string {
	var candidates []string
	if dir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, "cogniscreen", "config.yaml"))
	}
	candidates = append(candidates, "cogniscreen.yaml")

	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

// ProviderConfig resolves the LLM settings into a provider configuration.
// It reports false when narratives should use templates only.
func (c LLMConfig) ProviderConfig() (llm.Config, bool) {
	switch c.Provider {
	case "none":
		return llm.Config{}, false
	case "":
		cfg, ok := llm.DiscoverConfig()
		if !ok {
			return llm.Config{}, false
		}
		c.applyTo(&cfg)
		return cfg, true
	}

	cfg := llm.DefaultConfig()
	cfg.Provider = c.Provider
	c.applyTo(&cfg)
	return cfg, true
}

func (c LLMConfig) applyTo(cfg *llm.Config) {
	if c.Timeout > 0 {
		cfg.Timeout = c.Timeout
	}
	cfg.RequestsPerMinute = c.RequestsPerMinute

	switch cfg.Provider {
	case "anthropic":
		setIf(&cfg.Anthropic.APIKey, c.APIKey)
		setIf(&cfg.Anthropic.Model, c.Model)
	case "openai":
		setIf(&cfg.OpenAI.APIKey, c.APIKey)
		setIf(&cfg.OpenAI.Model, c.Model)
		setIf(&cfg.OpenAI.BaseURL, c.BaseURL)
	case "gemini":
		setIf(&cfg.Gemini.APIKey, c.APIKey)
		setIf(&cfg.Gemini.Model, c.Model)
	case "openrouter":
		setIf(&cfg.OpenRouter.APIKey, c.APIKey)
		setIf(&cfg.OpenRouter.Model, c.Model)
		setIf(&cfg.OpenRouter.BaseURL, c.BaseURL)
	}
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
