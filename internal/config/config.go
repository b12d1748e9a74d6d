// Package config loads the application configuration and initializes the
// global logger.
package config

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/normaudit/insight-cli/internal/linguistic"
)

// Config holds the full application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
	NLP        NLPConfig        `yaml:"nlp" mapstructure:"nlp"`
	TextGen    TextGenConfig    `yaml:"textgen" mapstructure:"textgen"`
	Linguistic LinguisticConfig `yaml:"linguistic" mapstructure:"linguistic"`
}

// ServerConfig configures the insight server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// NLPConfig holds the linguistic annotation service settings.
type NLPConfig struct {
	BaseURL        string  `yaml:"base_url" mapstructure:"base_url"`
	RequestsPerSec float64 `yaml:"requests_per_sec" mapstructure:"requests_per_sec"`
	Burst          int     `yaml:"burst" mapstructure:"burst"`
}

// TextGenConfig holds the text-generation oracle settings.
type TextGenConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// LinguisticConfig configures the feature extractor.
type LinguisticConfig struct {
	// LexiconPath optionally overrides the built-in French lexicons with
	// a YAML file.
	LexiconPath  string `yaml:"lexicon_path" mapstructure:"lexicon_path"`
	MaxKeyTerms  int    `yaml:"max_key_terms" mapstructure:"max_key_terms"`
	MaxTopics    int    `yaml:"max_topics" mapstructure:"max_topics"`
	MaxRelations int    `yaml:"max_relations" mapstructure:"max_relations"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("INSIGHT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("nlp.base_url", "http://localhost:9000")
	v.SetDefault("nlp.requests_per_sec", 10)
	v.SetDefault("nlp.burst", 5)
	v.SetDefault("textgen.model", "claude-haiku-4-5-20251001")
	v.SetDefault("textgen.max_tokens", 1024)
	v.SetDefault("linguistic.max_key_terms", 15)
	v.SetDefault("linguistic.max_topics", 10)
	v.SetDefault("linguistic.max_relations", 5)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Lexicons returns the configured lexicons: the built-in French defaults,
// or the YAML override file when one is configured.
func (c *Config) Lexicons() (linguistic.Lexicons, error) {
	if c.Linguistic.LexiconPath == "" {
		return linguistic.DefaultLexicons(), nil
	}

	data, err := os.ReadFile(c.Linguistic.LexiconPath)
	if err != nil {
		return linguistic.Lexicons{}, eris.Wrap(err, "config: read lexicon file")
	}

	var lex linguistic.Lexicons
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return linguistic.Lexicons{}, eris.Wrap(err, "config: parse lexicon file")
	}
	return lex, nil
}

// ExtractorConfig maps the linguistic section onto the extractor limits.
func (c *Config) ExtractorConfig() linguistic.Config {
	cfg := linguistic.DefaultConfig()
	if c.Linguistic.MaxKeyTerms > 0 {
		cfg.MaxKeyTerms = c.Linguistic.MaxKeyTerms
	}
	if c.Linguistic.MaxTopics > 0 {
		cfg.MaxTopics = c.Linguistic.MaxTopics
	}
	if c.Linguistic.MaxRelations > 0 {
		cfg.MaxRelations = c.Linguistic.MaxRelations
	}
	return cfg
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
