package config

// ClassifierConfig selects the zero-shot classifier provider
type ClassifierConfig struct {
	Provider string
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxTextSize int
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxTextSize int
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxTextSize int
}

// TranscriberConfig represents the speech-to-text configuration
type TranscriberConfig struct {
	Provider  string
	ModelName string
}

// StorageConfig represents the analysis persistence configuration
type StorageConfig struct {
	Type        string
	Enabled     bool
	SQLitePath  string
	MySQLDSN    string
	PostgresDSN string
}

// TrustConfig represents the static allow-list configuration
type TrustConfig struct {
	Senders []string
	Domains []string
}

// GetClassifier returns the classifier configuration
func (c *Config) GetClassifier() ClassifierConfig {
	return ClassifierConfig{
		Provider: c.GetString("classifier.provider"),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
		TopP:        float32(c.GetFloat64("bedrock.top_p")),
		MaxTextSize: c.GetInt("bedrock.max_text_size"),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
		TopP:        float32(c.GetFloat64("gemini.top_p")),
		MaxTextSize: c.GetInt("gemini.max_text_size"),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		ModelName:   c.GetString("openai.model_name"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		TopP:        float32(c.GetFloat64("openai.top_p")),
		MaxTextSize: c.GetInt("openai.max_text_size"),
	}
}

// GetTranscriber returns the transcriber configuration
func (c *Config) GetTranscriber() TranscriberConfig {
	return TranscriberConfig{
		Provider:  c.GetString("transcriber.provider"),
		ModelName: c.GetString("transcriber.model_name"),
	}
}

// GetStorage returns the storage configuration
func (c *Config) GetStorage() StorageConfig {
	return StorageConfig{
		Type:        c.GetString("storage.type"),
		Enabled:     c.GetBool("storage.enabled"),
		SQLitePath:  c.GetString("storage.sqlite_path"),
		MySQLDSN:    c.GetString("storage.mysql_dsn"),
		PostgresDSN: c.GetString("storage.postgres_dsn"),
	}
}

// GetTrust returns the static allow-list configuration
func (c *Config) GetTrust() TrustConfig {
	return TrustConfig{
		Senders: c.GetStringSlice("trust.senders"),
		Domains: c.GetStringSlice("trust.domains"),
	}
}
