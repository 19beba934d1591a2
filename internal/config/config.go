// Package config resolves Vitacore's runtime configuration from the
// environment, an optional ~/.vitacore/config.toml, and defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	configName = "config"
	configType = "toml"
	configDir  = ".vitacore"
	dbFile     = "vitacore.sqlite"
)

// Providers.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Defaults.
const (
	DefaultProvider    = ProviderGemini
	DefaultGeminiModel = "gemini-2.0-flash"
	DefaultOpenAIModel = "gpt-4o-mini"
	DefaultTimeoutMS   = 60000
	DefaultUIPort      = 3780
	DefaultLogLevel    = "info"
)

// Keys and the environment variables bound to them. The first variable
// listed wins when several are set.
var bindings = map[string][]string{
	"db_path":         {"VITACORE_DB_PATH"},
	"provider":        {"VITACORE_PROVIDER"},
	"gemini_api_key":  {"GEMINI_API_KEY"},
	"gemini_model":    {"GEMINI_MODEL"},
	"openai_api_key":  {"OPENAI_API_KEY"},
	"openai_model":    {"OPENAI_MODEL"},
	"openai_base_url": {"OPENAI_BASE_URL"},
	"timeout_ms":      {"VITACORE_TIMEOUT_MS", "GEMINI_TIMEOUT_MS"},
	"ui_port":         {"UI_PORT"},
	"log_level":       {"VITACORE_LOG_LEVEL"},
}

// Config is the effective configuration.
type Config struct {
	DBPath        string `toml:"db_path" mapstructure:"db_path"`
	Provider      string `toml:"provider" mapstructure:"provider"`
	GeminiAPIKey  string `toml:"gemini_api_key" mapstructure:"gemini_api_key"`
	GeminiModel   string `toml:"gemini_model" mapstructure:"gemini_model"`
	OpenAIAPIKey  string `toml:"openai_api_key" mapstructure:"openai_api_key"`
	OpenAIModel   string `toml:"openai_model" mapstructure:"openai_model"`
	OpenAIBaseURL string `toml:"openai_base_url,omitempty" mapstructure:"openai_base_url"`
	TimeoutMS     int    `toml:"timeout_ms" mapstructure:"timeout_ms"`
	UIPort        int    `toml:"ui_port" mapstructure:"ui_port"`
	LogLevel      string `toml:"log_level" mapstructure:"log_level"`

	// File is the config file that was read, empty when none was found.
	File string `toml:"-" mapstructure:"-"`
}

// Load reads configuration with the given viper instance. A nil instance
// is replaced by a fresh one. A missing config file is not an error.
func Load(v *viper.Viper) (*Config, error) {
	if v == nil {
		v = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(filepath.Join(homeDir, configDir))

	v.SetDefault("db_path", filepath.Join(homeDir, configDir, dbFile))
	v.SetDefault("provider", DefaultProvider)
	v.SetDefault("gemini_model", DefaultGeminiModel)
	v.SetDefault("openai_model", DefaultOpenAIModel)
	v.SetDefault("timeout_ms", DefaultTimeoutMS)
	v.SetDefault("ui_port", DefaultUIPort)
	v.SetDefault("log_level", DefaultLogLevel)

	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	cfg.DBPath = expandHome(cfg.DBPath, homeDir)
	return cfg, nil
}

// Timeout returns the Cognitive Port call timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// Problem is one actionable configuration issue.
type Problem struct {
	Title       string
	Cause       string
	Remediation []string
}

// ValidationError collects every Problem found by Validate.
type ValidationError struct {
	Problems []Problem
}

func (e *ValidationError) Error() string {
	titles := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		titles = append(titles, p.Title)
	}
	return "invalid configuration: " + strings.Join(titles, "; ")
}

// Validate reports every problem that would stop the server from working.
// It returns nil or a *ValidationError.
func (c *Config) Validate() error {
	var problems []Problem

	switch c.Provider {
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			problems = append(problems, Problem{
				Title: "GEMINI_API_KEY is not set",
				Cause: "the gemini provider needs an API key to summarize sessions and answer questions",
				Remediation: []string{
					"Create a key at https://aistudio.google.com/apikey",
					"Export it: export GEMINI_API_KEY=...",
					"Or set gemini_api_key in ~/.vitacore/config.toml",
				},
			})
		}
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			problems = append(problems, Problem{
				Title: "OPENAI_API_KEY is not set",
				Cause: "the openai provider needs an API key",
				Remediation: []string{
					"Export it: export OPENAI_API_KEY=...",
					"Or set openai_api_key in ~/.vitacore/config.toml",
				},
			})
		}
	default:
		problems = append(problems, Problem{
			Title:       fmt.Sprintf("unknown provider %q", c.Provider),
			Cause:       "provider must be gemini or openai",
			Remediation: []string{"Set VITACORE_PROVIDER=gemini or VITACORE_PROVIDER=openai"},
		})
	}

	if c.TimeoutMS <= 0 {
		problems = append(problems, Problem{
			Title:       fmt.Sprintf("timeout_ms must be positive, got %d", c.TimeoutMS),
			Cause:       "every model call is bounded by this timeout",
			Remediation: []string{"Unset GEMINI_TIMEOUT_MS / VITACORE_TIMEOUT_MS or set it to a value like 60000"},
		})
	}

	if c.DBPath == "" {
		problems = append(problems, Problem{
			Title:       "db_path is empty",
			Cause:       "the database location could not be resolved",
			Remediation: []string{"Set VITACORE_DB_PATH to a file path or :memory:"},
		})
	}

	if c.UIPort <= 0 || c.UIPort > 65535 {
		problems = append(problems, Problem{
			Title:       fmt.Sprintf("ui_port %d is out of range", c.UIPort),
			Cause:       "the graph UI listens on this port",
			Remediation: []string{"Set UI_PORT to a value between 1 and 65535"},
		})
	}

	if len(problems) == 0 {
		return nil
	}
	return &ValidationError{Problems: problems}
}

// Masked returns a copy safe to print: API keys keep only their last four characters.
func (c *Config) Masked() Config {
	out := *c
	out.GeminiAPIKey = mask(c.GeminiAPIKey)
	out.OpenAIAPIKey = mask(c.OpenAIAPIKey)
	return out
}

// TOML renders the masked configuration as TOML.
func (c *Config) TOML() (string, error) {
	data, err := toml.Marshal(c.Masked())
	if err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return string(data), nil
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 4 {
		return "****"
	}
	return "****" + secret[len(secret)-4:]
}

func expandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
