package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Provider names accepted in llm.provider
const (
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
	ProviderOllama     = "ollama"
	ProviderOpenRouter = "openrouter"
)

// Output formats accepted in output.format
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

const envPrefix = "DATAGEN"

// Config holds all configuration for the application
type Config struct {
	Generator GeneratorConfig `mapstructure:"generator"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Output    OutputConfig    `mapstructure:"output"`
	Log       LogConfig       `mapstructure:"log"`
}

// GeneratorConfig holds what the dataset should contain
type GeneratorConfig struct {
	Theme      string `mapstructure:"theme"`
	Categories int    `mapstructure:"categories"`
	Products   int    `mapstructure:"products"`
	Users      int    `mapstructure:"users"`
}

// LLMConfig holds the text-generation endpoint configuration
type LLMConfig struct {
	Provider             string  `mapstructure:"provider"`
	BaseURL              string  `mapstructure:"base_url"`
	APIKey               string  `mapstructure:"api_key"`
	Model                string  `mapstructure:"model"`
	Timeout              int     `mapstructure:"timeout"`
	MaxTokens            int     `mapstructure:"max_tokens"`
	Temperature          float64 `mapstructure:"temperature"`
	MaxRetries           int     `mapstructure:"max_retries"`
	MaxRequestsPerSecond int     `mapstructure:"max_requests_per_second"`
	Proxy                string  `mapstructure:"proxy"`
}

// OutputConfig controls where the finished dataset is written
type OutputConfig struct {
	Path   string `mapstructure:"path"`
	Format string `mapstructure:"format"`
	Pretty bool   `mapstructure:"pretty"`
}

// LogConfig controls logrus
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"theme":      "generator.theme",
	"categories": "generator.categories",
	"products":   "generator.products",
	"users":      "generator.users",
	"provider":   "llm.provider",
	"model":      "llm.model",
	"base-url":   "llm.base_url",
	"timeout":    "llm.timeout",
	"output":     "output.path",
	"format":     "output.format",
	"log-level":  "log.level",
}

// Load reads configuration from an optional YAML file, environment variables
// (DATAGEN_LLM_API_KEY and so on) and any flags that were set explicitly.
// An empty path searches for config.yaml in the current directory; a missing
// file is not an error there.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	config.LLM.applyDefaults()

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("generator.theme", "Consumer Electronics")
	v.SetDefault("generator.categories", 10)
	v.SetDefault("generator.products", 100)
	v.SetDefault("generator.users", 10)

	v.SetDefault("llm.provider", ProviderOpenAI)
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.timeout", 120)
	v.SetDefault("llm.max_tokens", 8192)
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.max_retries", 0)
	v.SetDefault("llm.max_requests_per_second", 1)
	v.SetDefault("llm.proxy", "")

	v.SetDefault("output.path", "")
	v.SetDefault("output.format", FormatJSON)
	v.SetDefault("output.pretty", true)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// applyDefaults fills provider specific model and endpoint defaults.
func (c *LLMConfig) applyDefaults() {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))

	switch c.Provider {
	case ProviderOpenAI:
		if c.Model == "" {
			c.Model = "gpt-4o-mini"
		}
		if c.BaseURL == "" {
			c.BaseURL = "https://api.openai.com/v1"
		}
	case ProviderAnthropic:
		if c.Model == "" {
			c.Model = "claude-3-5-haiku-latest"
		}
		if c.BaseURL == "" {
			c.BaseURL = "https://api.anthropic.com/v1"
		}
	case ProviderOllama:
		if c.Model == "" {
			c.Model = "llama3.2"
		}
		if c.BaseURL == "" {
			c.BaseURL = "http://localhost:11434"
		}
	case ProviderOpenRouter:
		if c.Model == "" {
			c.Model = "google/gemini-2.5-flash"
		}
		if c.BaseURL == "" {
			c.BaseURL = "https://openrouter.ai/api/v1"
		}
	}

	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")
}

// Validate checks the values Load cannot default away.
func (c *Config) Validate() error {
	g := c.Generator
	if strings.TrimSpace(g.Theme) == "" {
		return errors.New("generator.theme is required")
	}
	if g.Categories <= 0 || g.Products <= 0 || g.Users <= 0 {
		return fmt.Errorf("generator counts must be positive (categories=%d, products=%d, users=%d)",
			g.Categories, g.Products, g.Users)
	}

	switch c.LLM.Provider {
	case ProviderOpenAI, ProviderAnthropic, ProviderOpenRouter:
		if c.LLM.APIKey == "" {
			return fmt.Errorf("llm.api_key is required for %s", c.LLM.Provider)
		}
	case ProviderOllama:
	default:
		return fmt.Errorf("unknown llm.provider %q", c.LLM.Provider)
	}

	if c.LLM.Timeout < 0 {
		return fmt.Errorf("llm.timeout must not be negative")
	}

	switch strings.ToLower(c.Output.Format) {
	case FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("unknown output.format %q", c.Output.Format)
	}

	return nil
}
