package config

import "time"

// LLMConfig represents the model chain and generation settings
type LLMConfig struct {
	AnalysisChain []string
	ReplyChain    []string
	Timeout       time.Duration
	Temperature   float32
	MaxTokens     int
	MaxBodySize   int
}

// TogetherConfig represents the configuration for Together AI
type TogetherConfig struct {
	APIKey  string
	BaseURL string
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey string
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey string
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region string
}

// AnalysisConfig bounds the classification output
type AnalysisConfig struct {
	MaxKeywords        int
	ExtractMaxKeywords int
}

// ServerConfig represents the HTTP server configuration
type ServerConfig struct {
	ListenAddress string
}

// SMTPHeaders names the analysis headers stamped onto relayed messages
type SMTPHeaders struct {
	Intent    string
	Urgency   string
	Sentiment string
	Entities  string
}

// SMTPConfig represents the SMTP intake configuration
type SMTPConfig struct {
	Enabled         bool
	ListenAddress   string
	RelayAddress    string
	Domain          string
	MaxMessageBytes int
	Headers         SMTPHeaders
}

// BypassConfig represents the deterministic-only sender rules
type BypassConfig struct {
	AutomatedPrefixes  []string
	WhitelistedDomains []string
}

// GetLLM returns the model chain configuration. An unparseable timeout falls
// back to the 30s default rather than failing startup.
func (c *Config) GetLLM() LLMConfig {
	timeout, err := c.GetDuration("llm.timeout")
	if err != nil {
		timeout = 30 * time.Second
	}
	return LLMConfig{
		AnalysisChain: c.GetStringSlice("llm.analysis_chain"),
		ReplyChain:    c.GetStringSlice("llm.reply_chain"),
		Timeout:       timeout,
		Temperature:   float32(c.GetFloat64("llm.temperature")),
		MaxTokens:     c.GetInt("llm.max_tokens"),
		MaxBodySize:   c.GetInt("llm.max_body_size"),
	}
}

// GetTogether returns the Together AI configuration
func (c *Config) GetTogether() TogetherConfig {
	return TogetherConfig{
		APIKey:  c.GetString("together.api_key"),
		BaseURL: c.GetString("together.base_url"),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey: c.GetString("openai.api_key"),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey: c.GetString("gemini.api_key"),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region: c.GetString("bedrock.region"),
	}
}

// GetAnalysis returns the analysis bounds
func (c *Config) GetAnalysis() AnalysisConfig {
	return AnalysisConfig{
		MaxKeywords:        c.GetInt("analysis.max_keywords"),
		ExtractMaxKeywords: c.GetInt("analysis.extract_max_keywords"),
	}
}

// GetServer returns the HTTP server configuration
func (c *Config) GetServer() ServerConfig {
	return ServerConfig{
		ListenAddress: c.GetString("server.listen_address"),
	}
}

// GetSMTP returns the SMTP intake configuration
func (c *Config) GetSMTP() SMTPConfig {
	return SMTPConfig{
		Enabled:         c.GetBool("smtp.enabled"),
		ListenAddress:   c.GetString("smtp.listen_address"),
		RelayAddress:    c.GetString("smtp.relay_address"),
		Domain:          c.GetString("smtp.domain"),
		MaxMessageBytes: c.GetInt("smtp.max_message_bytes"),
		Headers: SMTPHeaders{
			Intent:    c.GetString("smtp.headers.intent"),
			Urgency:   c.GetString("smtp.headers.urgency"),
			Sentiment: c.GetString("smtp.headers.sentiment"),
			Entities:  c.GetString("smtp.headers.entities"),
		},
	}
}

// GetBypass returns the deterministic-only sender rules
func (c *Config) GetBypass() BypassConfig {
	return BypassConfig{
		AutomatedPrefixes:  c.GetStringSlice("bypass.automated_prefixes"),
		WhitelistedDomains: c.GetStringSlice("bypass.whitelisted_domains"),
	}
}
