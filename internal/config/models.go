package config

// MungeConfig holds the parsing and clustering heuristics
type MungeConfig struct {
	RedactionSentinel string
	HeaderMatchCutoff int
	MergeCutoff       int
	RedactionCutoff   int
	MaxContactLength  int
	UseThreads        bool
}

// CorpusConfig says where the OCR text dumps live
type CorpusConfig struct {
	Type      string
	Locations []string
	FileType  string
	Region    string
}

// ClusterConfig represents the clustering run configuration
type ClusterConfig struct {
	Strategy      string
	SnapshotEvery int
}

// SnapshotConfig represents the snapshot store configuration
type SnapshotConfig struct {
	Type       string
	SQLitePath string
	MySQLDSN   string
}

// ReviewConfig represents the contact reviewer configuration
type ReviewConfig struct {
	Enabled     bool
	Provider    string
	MaxContacts int
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// SMTPConfig represents the report mail delivery configuration
type SMTPConfig struct {
	Address  string
	From     string
	To       []string
	Username string
	Password string
}

// ExportConfig represents the .eml export configuration
type ExportConfig struct {
	Dir string
}

// GetMunge returns the heuristics configuration
func (c *Config) GetMunge() MungeConfig {
	return MungeConfig{
		RedactionSentinel: c.GetString("munge.redaction_sentinel"),
		HeaderMatchCutoff: c.GetInt("munge.header_match_cutoff"),
		MergeCutoff:       c.GetInt("munge.merge_cutoff"),
		RedactionCutoff:   c.GetInt("munge.redaction_cutoff"),
		MaxContactLength:  c.GetInt("munge.max_contact_length"),
		UseThreads:        c.GetBool("munge.use_threads"),
	}
}

// GetCorpus returns the corpus configuration
func (c *Config) GetCorpus() CorpusConfig {
	return CorpusConfig{
		Type:      c.GetString("corpus.type"),
		Locations: c.GetStringSlice("corpus.locations"),
		FileType:  c.GetString("corpus.file_type"),
		Region:    c.GetString("corpus.region"),
	}
}

// GetCluster returns the clustering configuration
func (c *Config) GetCluster() ClusterConfig {
	return ClusterConfig{
		Strategy:      c.GetString("cluster.strategy"),
		SnapshotEvery: c.GetInt("cluster.snapshot_every"),
	}
}

// GetSnapshot returns the snapshot store configuration
func (c *Config) GetSnapshot() SnapshotConfig {
	return SnapshotConfig{
		Type:       c.GetString("snapshot.type"),
		SQLitePath: c.GetString("snapshot.sqlite_path"),
		MySQLDSN:   c.GetString("snapshot.mysql_dsn"),
	}
}

// GetReview returns the contact reviewer configuration
func (c *Config) GetReview() ReviewConfig {
	return ReviewConfig{
		Enabled:     c.GetBool("review.enabled"),
		Provider:    c.GetString("review.provider"),
		MaxContacts: c.GetInt("review.max_contacts"),
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
		MaxBodySize: c.GetInt("bedrock.max_body_size"),
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
		MaxBodySize: c.GetInt("gemini.max_body_size"),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		BaseURL:     c.GetString("openai.base_url"),
		ModelName:   c.GetString("openai.model_name"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		TopP:        float32(c.GetFloat64("openai.top_p")),
		MaxBodySize: c.GetInt("openai.max_body_size"),
	}
}

// GetSMTP returns the report mail configuration
func (c *Config) GetSMTP() SMTPConfig {
	return SMTPConfig{
		Address:  c.GetString("smtp.address"),
		From:     c.GetString("smtp.from"),
		To:       c.GetStringSlice("smtp.to"),
		Username: c.GetString("smtp.username"),
		Password: c.GetString("smtp.password"),
	}
}

// GetExport returns the export configuration
func (c *Config) GetExport() ExportConfig {
	return ExportConfig{
		Dir: c.GetString("export.dir"),
	}
}
