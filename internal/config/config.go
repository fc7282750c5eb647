package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	v *viper.Viper
}

// New creates a new configuration instance
func New() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/email-munger/")
	v.AddConfigPath("$HOME/.email-munger")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	setDefaults(v)
	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file, defaults and environment only
	}

	return &Config{v: v}, nil
}

// NewFromFile creates a configuration instance from an explicit file
func NewFromFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	setDefaults(v)
	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return &Config{v: v}, nil
}

// NewFromViper creates a new configuration instance from an existing Viper instance
func NewFromViper(v *viper.Viper) *Config {
	return &Config{v: v}
}

// NewEmptyViper creates a new Viper instance with defaults
func NewEmptyViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix("MUNGER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// Heuristic defaults
	v.SetDefault("munge.redaction_sentinel", "(This info has been redacted)")
	v.SetDefault("munge.header_match_cutoff", 50)
	v.SetDefault("munge.merge_cutoff", 90)
	v.SetDefault("munge.redaction_cutoff", 90)
	v.SetDefault("munge.max_contact_length", 60)
	v.SetDefault("munge.use_threads", true)

	// Corpus defaults
	v.SetDefault("corpus.type", "local")
	v.SetDefault("corpus.locations", []string{})
	v.SetDefault("corpus.file_type", ".txt")
	v.SetDefault("corpus.region", "us-east-1")

	// Clustering defaults
	v.SetDefault("cluster.strategy", "best_first")
	v.SetDefault("cluster.snapshot_every", 0)

	// Snapshot store defaults
	v.SetDefault("snapshot.type", "memory")
	v.SetDefault("snapshot.sqlite_path", "/data/munger_snapshots.db")
	v.SetDefault("snapshot.mysql_dsn", "user:password@tcp(localhost:3306)/email_munger")

	// Contact review defaults
	v.SetDefault("review.enabled", false)
	v.SetDefault("review.provider", "bedrock")
	v.SetDefault("review.max_contacts", 50)

	// Bedrock defaults
	v.SetDefault("bedrock.region", "us-east-1")
	v.SetDefault("bedrock.model_id", "anthropic.claude-v2")
	v.SetDefault("bedrock.max_tokens", 1000)
	v.SetDefault("bedrock.temperature", 0.1)
	v.SetDefault("bedrock.top_p", 0.9)
	v.SetDefault("bedrock.max_body_size", 4096)

	// Gemini defaults
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model_name", "gemini-pro")
	v.SetDefault("gemini.max_tokens", 1000)
	v.SetDefault("gemini.temperature", 0.1)
	v.SetDefault("gemini.top_p", 0.9)
	v.SetDefault("gemini.max_body_size", 4096)

	// OpenAI defaults
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.base_url", "")
	v.SetDefault("openai.model_name", "gpt-4")
	v.SetDefault("openai.max_tokens", 1000)
	v.SetDefault("openai.temperature", 0.1)
	v.SetDefault("openai.top_p", 0.9)
	v.SetDefault("openai.max_body_size", 4096)

	// Report delivery defaults
	v.SetDefault("report.type", "console")
	v.SetDefault("smtp.address", "localhost:25")
	v.SetDefault("smtp.from", "munger@localhost")
	v.SetDefault("smtp.to", []string{})
	v.SetDefault("smtp.username", "")
	v.SetDefault("smtp.password", "")

	// Export defaults
	v.SetDefault("export.dir", "./export")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// GetString gets a string value from the configuration
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt gets an integer value from the configuration
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetFloat64 gets a float64 value from the configuration
func (c *Config) GetFloat64(key string) float64 {
	return c.v.GetFloat64(key)
}

// GetBool gets a boolean value from the configuration
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// GetStringSlice gets a string slice value from the configuration
func (c *Config) GetStringSlice(key string) []string {
	return c.v.GetStringSlice(key)
}

// Set overrides a value, taking precedence over file and environment
func (c *Config) Set(key string, value any) {
	c.v.Set(key, value)
}

// GetViper returns the underlying Viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.v
}
