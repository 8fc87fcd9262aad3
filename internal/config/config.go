// Package config loads depgraph's runtime configuration from the
// environment (optionally via a .env file), grounded on the teacher's
// internal/config: one struct per external dependency, each optional
// except Server.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Neo4j      Neo4jConfig
	Bedrock    BedrockConfig
	OpenRouter OpenRouterConfig
	Valkey     ValkeyConfig
	MinIO      MinIOConfig
	S3         S3Config
	Auth       AuthConfig
	MCP        MCPConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

// Neo4jConfig configures the optional lineage mirror (internal/mirror): the
// graph's source of truth stays in-process, Neo4j is only ever a projection
// of it.
type Neo4jConfig struct {
	URI      string
	User     string
	Password string
}

type BedrockConfig struct {
	Region  string
	ModelID string
}

// OpenRouterConfig configures the OpenAI-compatible OpenRouter embedding
// provider, preferred over Bedrock when an API key is present.
type OpenRouterConfig struct {
	APIKey            string
	Model             string
	BaseURL           string
	BaseURLEmbeddings string
	Dimensions        int
}

type ValkeyConfig struct {
	Addr     string
	Password string
	DB       int
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type S3Config struct {
	Region   string
	Bucket   string
	Prefix   string
	Endpoint string
}

type AuthConfig struct {
	IssuerURL string
	Audience  string
}

// MCPConfig configures the standalone MCP tool server (cmd/mcp).
type MCPConfig struct {
	Addr    string
	BaseURL string
}

// Load reads a .env file if present (ignored when absent — this is a
// convenience for local development, never required in production) then
// populates Config from the environment, falling back to depgraph's
// defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         getEnvInt("SERVER_PORT", 8080),
			ReadTimeout:  time.Duration(getEnvInt("SERVER_READ_TIMEOUT_SECS", 30)) * time.Second,
			WriteTimeout: time.Duration(getEnvInt("SERVER_WRITE_TIMEOUT_SECS", 60)) * time.Second,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "depgraph"),
			Password: getEnv("DB_PASSWORD", "depgraph"),
			Name:     getEnv("DB_NAME", "depgraph"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: int32(getEnvInt("DB_MAX_CONNS", 25)),
			MinConns: int32(getEnvInt("DB_MIN_CONNS", 5)),
		},
		Neo4j: Neo4jConfig{
			URI:      getEnv("NEO4J_URI", "bolt://localhost:7687"),
			User:     getEnv("NEO4J_USER", "neo4j"),
			Password: getEnv("NEO4J_PASSWORD", "depgraph"),
		},
		Bedrock: BedrockConfig{
			Region:  getEnv("BEDROCK_REGION", ""),
			ModelID: getEnv("BEDROCK_MODEL_ID", "cohere.embed-english-v4"),
		},
		OpenRouter: OpenRouterConfig{
			APIKey:            getEnv("OPENROUTER_API_KEY", ""),
			Model:             getEnv("OPENROUTER_MODEL", ""),
			BaseURL:           getEnv("OPENROUTER_BASE_URL", ""),
			BaseURLEmbeddings: getEnv("OPENROUTER_BASE_URL_EMBEDDINGS", ""),
			Dimensions:        getEnvInt("OPENROUTER_DIMENSIONS", 0),
		},
		Valkey: ValkeyConfig{
			Addr:     getEnv("VALKEY_ADDR", "localhost:6379"),
			Password: getEnv("VALKEY_PASSWORD", ""),
			DB:       getEnvInt("VALKEY_DB", 0),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "depgraph"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "depgraph123"),
			Bucket:    getEnv("MINIO_BUCKET", "depgraph"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		S3: S3Config{
			Region:   getEnv("S3_REGION", ""),
			Bucket:   getEnv("S3_BUCKET", ""),
			Prefix:   getEnv("S3_PREFIX", ""),
			Endpoint: getEnv("S3_ENDPOINT", ""),
		},
		Auth: AuthConfig{
			IssuerURL: getEnv("AUTH_ISSUER_URL", ""),
			Audience:  getEnv("AUTH_AUDIENCE", ""),
		},
		MCP: MCPConfig{
			Addr:    getEnv("MCP_ADDR", ":8081"),
			BaseURL: getEnv("MCP_BASE_URL", ""),
		},
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
