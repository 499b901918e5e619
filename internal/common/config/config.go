// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig               `mapstructure:"app"`
	Neo4j    Neo4jConfig             `mapstructure:"neo4j"`
	Database DatabaseConfig          `mapstructure:"database"`
	Cache    CacheConfig             `mapstructure:"cache"`
	QueryLog QueryLogConfig          `mapstructure:"querylog"`
	LLM      LLMConfig               `mapstructure:"llm"`
	NLP      NLPConfig               `mapstructure:"nlp"`
	Camunda  CamundaConfig           `mapstructure:"camunda"`
	Workers  map[string]WorkerConfig `mapstructure:"workers"`
	Server   ServerConfig            `mapstructure:"server"`
	Logging  LoggingConfig           `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// Neo4jConfig points at the financial knowledge graph.
type Neo4jConfig struct {
	URI                   string `mapstructure:"uri"`
	User                  string `mapstructure:"user"`
	Password              string `mapstructure:"password"`
	Database              string `mapstructure:"database"`
	MaxConnectionPoolSize int    `mapstructure:"max_connection_pool_size"`
	QueryTimeout          int    `mapstructure:"query_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CacheConfig controls the Redis-backed result-set cache in front of the graph.
type CacheConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	TTLSeconds int    `mapstructure:"ttl_seconds"`
	KeyPrefix  string `mapstructure:"key_prefix"`
}

type QueryLogConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// LLMConfig selects the text-generation provider. Provider "none" disables generation.
type LLMConfig struct {
	Provider          string  `mapstructure:"provider"`
	Model             string  `mapstructure:"model"`
	APIKey            string  `mapstructure:"api_key"`
	BaseURL           string  `mapstructure:"base_url"`
	Temperature       float64 `mapstructure:"temperature"`
	MaxTokens         int     `mapstructure:"max_tokens"`
	Timeout           int     `mapstructure:"timeout"` // milliseconds
	MaxRetries        int     `mapstructure:"max_retries"`
	RequestsPerMinute int     `mapstructure:"requests_per_minute"`
}

// Configured reports whether a generation backend can be built from this config.
func (l LLMConfig) Configured() bool {
	return l.Provider != "" && l.Provider != ProviderNone && l.APIKey != ""
}

// NLPConfig points at the NER and sentiment model-serving endpoints. Empty URLs disable them.
type NLPConfig struct {
	NERURL            string `mapstructure:"ner_url"`
	SentimentURL      string `mapstructure:"sentiment_url"`
	Timeout           int    `mapstructure:"timeout"` // milliseconds
	MaxRetries        int    `mapstructure:"max_retries"`
	MaxSentimentChars int    `mapstructure:"max_sentiment_chars"`
}

type CamundaConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"` // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"`
}

type ServerConfig struct {
	Address      string `mapstructure:"address"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // milliseconds
	WriteTimeout int    `mapstructure:"write_timeout"` // milliseconds
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderNone      = "none"
)
