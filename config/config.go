package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	RawDir              string              `mapstructure:"raw_dir"`
	AIBackend           string              `mapstructure:"ai_backend"` // openai or gemini
	AIEndpoint          string              `mapstructure:"ai_endpoint"`
	Model               string              `mapstructure:"model"`
	OpenAIAPIKey        string              `mapstructure:"OPENAI_API_KEY"`
	GeminiAPIKeys       []string            `mapstructure:"gemini_api_keys"`
	WeaviateStoreConfig WeaviateStoreConfig `mapstructure:"weaviate_store_config"`
	Ingest              IngestConfig        `mapstructure:"ingest"`
	Retrieval           RetrievalConfig     `mapstructure:"retrieval"`
	QueryParser         QueryParserConfig   `mapstructure:"query_parser"`
}

type WeaviateStoreConfig struct {
	Host         string       `mapstructure:"host"`
	APIKey       string       `mapstructure:"WEAVIATE_APIKEY"` // Changed to match env var
	Text2Vec     string       `mapstructure:"text2vec"`
	ModuleConfig ModuleConfig `mapstructure:"module_config"`
	BatchSize    int          `mapstructure:"batch_size"`
}

type ModuleConfig map[string]interface{}

type IngestConfig struct {
	MaxChunkSize int  `mapstructure:"max_chunk_size"` // embedding size budget in bytes
	BestEffort   bool `mapstructure:"best_effort"`
}

type RetrievalConfig struct {
	TopK          int     `mapstructure:"top_k"`
	MinSimilarity float64 `mapstructure:"min_similarity"`
}

type QueryParserConfig struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
	// DenyList holds all-caps words the fallback ticker scan must skip.
	// Kept configurable so real tickers colliding with common words can
	// be rescued by editing config instead of code.
	DenyList []string `mapstructure:"deny_list"`
}

func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// Set up Viper to read from config file
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// Set up Viper to read from environment variables
	v.AutomaticEnv()

	v.SetDefault("raw_dir", "data/raw")
	v.SetDefault("ai_backend", "openai")
	v.SetDefault("weaviate_store_config.batch_size", 200)
	v.SetDefault("ingest.max_chunk_size", 1024)
	v.SetDefault("ingest.best_effort", false)
	v.SetDefault("retrieval.top_k", 8)
	v.SetDefault("retrieval.min_similarity", 0.0)
	v.SetDefault("query_parser.timeout_seconds", 20)
	v.SetDefault("query_parser.deny_list", []string{"THE", "AND", "FOR", "WITH", "THIS", "THAT"})

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Bind environment variables
	v.BindEnv("OPENAI_API_KEY")
	v.BindEnv("WEAVIATE_APIKEY")

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}
