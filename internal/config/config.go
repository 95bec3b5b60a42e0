package config

import (
	"fmt"
	"strings"
	"time"

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
	v.AddConfigPath("/etc/llm-email-analyzer/")
	v.AddConfigPath("$HOME/.llm-email-analyzer")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	setDefaults(v)

	// Environment variables
	v.AutomaticEnv()
	v.SetEnvPrefix("EMAIL_ANALYZER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// The Together key is also read from the conventional unprefixed name.
	if err := v.BindEnv("together.api_key", "TOGETHER_API_KEY", "EMAIL_ANALYZER_TOGETHER_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind together api key: %w", err)
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, using defaults
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

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// Model chain defaults
	v.SetDefault("llm.analysis_chain", []string{
		"together:meta-llama/Llama-3.3-70B-Instruct-Turbo",
		"together:mistralai/Mistral-7B-Instruct-v0.1",
		"together:togethercomputer/llama-2-7b-chat",
	})
	v.SetDefault("llm.reply_chain", []string{
		"together:mistralai/Mistral-7B-Instruct-v0.1",
		"together:togethercomputer/llama-2-7b-chat",
	})
	v.SetDefault("llm.timeout", "30s")
	v.SetDefault("llm.temperature", 0.2)
	v.SetDefault("llm.max_tokens", 1024)
	v.SetDefault("llm.max_body_size", 4096)

	// Analysis defaults
	v.SetDefault("analysis.max_keywords", 5)
	v.SetDefault("analysis.extract_max_keywords", 10)

	// Provider defaults
	v.SetDefault("together.api_key", "")
	v.SetDefault("together.base_url", "https://api.together.xyz/v1")
	v.SetDefault("openai.api_key", "")
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("bedrock.region", "us-east-1")

	// HTTP server defaults
	v.SetDefault("server.listen_address", "0.0.0.0:8080")

	// SMTP intake defaults
	v.SetDefault("smtp.enabled", false)
	v.SetDefault("smtp.listen_address", "0.0.0.0:10025")
	v.SetDefault("smtp.relay_address", "localhost:10026")
	v.SetDefault("smtp.domain", "localhost")
	v.SetDefault("smtp.max_message_bytes", 10485760)
	v.SetDefault("smtp.headers.intent", "X-Email-Intent")
	v.SetDefault("smtp.headers.urgency", "X-Email-Urgency")
	v.SetDefault("smtp.headers.sentiment", "X-Email-Sentiment")
	v.SetDefault("smtp.headers.entities", "X-Email-Entities")

	// Bypass defaults
	v.SetDefault("bypass.automated_prefixes", []string{
		"noreply@", "no-reply@", "mailer-daemon@", "postmaster@",
	})
	v.SetDefault("bypass.whitelisted_domains", []string{})

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

// GetDuration gets a duration value from the configuration
func (c *Config) GetDuration(key string) (time.Duration, error) {
	return time.ParseDuration(c.GetString(key))
}

// GetViper returns the underlying Viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.v
}
