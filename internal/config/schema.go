package config

// Config holds docsift configuration.
// Stored at: ~/.docsift/config.yaml (or the path given on the command line).
type Config struct {
	Oracle   OracleCfg   `mapstructure:"oracle" yaml:"oracle"`
	Analysis AnalysisCfg `mapstructure:"analysis" yaml:"analysis"`
	Citation CitationCfg `mapstructure:"citation" yaml:"citation"`
	History  HistoryCfg  `mapstructure:"history" yaml:"history"`
	Logging  LoggingCfg  `mapstructure:"logging" yaml:"logging"`
}

// OracleCfg selects and configures the generation backend.
type OracleCfg struct {
	Provider       string  `mapstructure:"provider" yaml:"provider"` // "ollama" or "openai"
	Endpoint       string  `mapstructure:"endpoint" yaml:"endpoint"`
	Model          string  `mapstructure:"model" yaml:"model"`
	Temperature    float64 `mapstructure:"temperature" yaml:"temperature"`
	APIKey         string  `mapstructure:"api_key" yaml:"api_key"` // supports ${ENV_VAR} syntax
	TimeoutSeconds int     `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// AnalysisCfg tunes prompting, retries and segmentation.
type AnalysisCfg struct {
	MaxRetries    int `mapstructure:"max_retries" yaml:"max_retries"`
	MaxTokens     int `mapstructure:"max_tokens" yaml:"max_tokens"`
	MaxChunkChars int `mapstructure:"max_chunk_chars" yaml:"max_chunk_chars"`
	ChunkSize     int `mapstructure:"chunk_size" yaml:"chunk_size"`
	ChunkOverlap  int `mapstructure:"chunk_overlap" yaml:"chunk_overlap"`
}

// CitationCfg tunes phrase location.
type CitationCfg struct {
	Threshold    float64 `mapstructure:"threshold" yaml:"threshold"`
	ContextLines int     `mapstructure:"context_lines" yaml:"context_lines"`
}

// HistoryCfg locates the analysis record database.
type HistoryCfg struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// LoggingCfg controls log output.
type LoggingCfg struct {
	Level  string `mapstructure:"level" yaml:"level"`   // debug, info, warn, error
	Format string `mapstructure:"format" yaml:"format"` // text or json
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Oracle: OracleCfg{
			Provider:       "ollama",
			Endpoint:       "http://localhost:11434",
			Model:          "llama3.2:3b",
			Temperature:    0.2,
			APIKey:         "${OPENAI_API_KEY}",
			TimeoutSeconds: 120,
		},
		Analysis: AnalysisCfg{
			MaxRetries:    2,
			MaxTokens:     4000,
			MaxChunkChars: 30000,
			ChunkSize:     12000,
			ChunkOverlap:  200,
		},
		Citation: CitationCfg{
			Threshold:    0.7,
			ContextLines: 2,
		},
		History: HistoryCfg{
			Path: "", // empty means ~/.docsift/history.db
		},
		Logging: LoggingCfg{
			Level:  "info",
			Format: "text",
		},
	}
}
