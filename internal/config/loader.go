package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/viper"

	"github.com/abhisek/planbook/internal/export"
	"github.com/abhisek/planbook/internal/generator"
	"github.com/abhisek/planbook/internal/llm"
)

// EnvPrefix prefixes every environment override, e.g.
// PLANBOOK_LLM_PROVIDER or PLANBOOK_EXPORT_DIR.
const EnvPrefix = "PLANBOOK"

// DefaultPath returns $XDG_CONFIG_HOME/planbook/config.yaml, falling back
// to ~/.config/planbook/config.yaml.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "planbook", "config.yaml")
}

// Load reads configuration. An explicit path must exist; otherwise the
// default path is used when present.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)

	optional := path == ""
	if optional {
		path = DefaultPath()
	}
	if path != "" {
		if err := loadConfigFile(v, path, optional); err != nil {
			return nil, err
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = llm.ProviderGemini
	} else {
		cfg.ProviderExplicit = true
	}
	cfg.LLM.ApplyKeyDiscovery(cfg.ProviderExplicit)
	return &cfg, nil
}

func loadConfigFile(v *viper.Viper, path string, optional bool) error {
	content, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := v.ReadConfig(strings.NewReader(expandEnv(string(content)))); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	v.SetConfigFile(path)
	return nil
}

var envPlaceholder = regexp.MustCompile(`\$\{(\w+)(:([^}]*))?\}`)

// expandEnv replaces ${VAR} and ${VAR:default} placeholders. Unknown
// variables without a default are left as written.
func expandEnv(s string) string {
	return envPlaceholder.ReplaceAllStringFunc(s, func(match string) string {
		m := envPlaceholder.FindStringSubmatch(match)
		if val, ok := os.LookupEnv(m[1]); ok {
			return val
		}
		if m[2] != "" {
			return m[3]
		}
		return match
	})
}

// setDefaults registers every key so environment overrides reach
// Unmarshal even when no file sets them.
func setDefaults(v *viper.Viper) {
	l := llm.DefaultConfig()
	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.timeout", l.Timeout)
	v.SetDefault("llm.gemini.api_key", "")
	v.SetDefault("llm.gemini.model", l.Gemini.Model)
	v.SetDefault("llm.openai.api_key", "")
	v.SetDefault("llm.openai.model", l.OpenAI.Model)
	v.SetDefault("llm.openai.base_url", "")
	v.SetDefault("llm.anthropic.api_key", "")
	v.SetDefault("llm.anthropic.model", l.Anthropic.Model)
	v.SetDefault("llm.openrouter.api_key", "")
	v.SetDefault("llm.openrouter.model", l.OpenRouter.Model)
	v.SetDefault("llm.openrouter.base_url", "")
	v.SetDefault("llm.retry.max_attempts", l.Retry.MaxAttempts)
	v.SetDefault("llm.retry.initial_wait", l.Retry.InitialWait)
	v.SetDefault("llm.retry.max_wait", l.Retry.MaxWait)
	v.SetDefault("llm.retry.multiplier", l.Retry.Multiplier)

	g := generator.DefaultConfig()
	v.SetDefault("generation.max_tokens", g.MaxTokens)
	v.SetDefault("generation.temperature", g.Temperature)
	v.SetDefault("generation.timeout", g.Timeout)

	for _, k := range []string{"name", "address", "teacher_name", "term", "session", "subject", "class_name", "duration"} {
		v.SetDefault("school."+k, "")
	}
	v.SetDefault("school.week", 0)

	v.SetDefault("export.dir", ".")
	v.SetDefault("export.logo", "")
	v.SetDefault("export.print_command", export.DefaultPrintCommand)
	v.SetDefault("export.pdf_enabled", true)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.cors_origins", []string{})
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")

	v.SetDefault("db.path", "")
}
