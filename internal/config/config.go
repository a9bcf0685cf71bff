package config

import (
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type LLMConfig struct {
	BaseURL string `yaml:"base_url"`
	Key     string `yaml:"key"`
	Model   string `yaml:"model"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type DatabaseConfig struct {
	DSN      string `yaml:"dsn"`
	Password string `yaml:"password"`
	Debug    bool   `yaml:"debug"`
}

type VectorConfig struct {
	Path       string `yaml:"path"`
	Collection string `yaml:"collection"`
	InMemory   bool   `yaml:"in_memory"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	LLM      LLMConfig      `yaml:"llm"`
	EmbedLLM LLMConfig      `yaml:"embed_llm"`
	Database DatabaseConfig `yaml:"database"`
	Vector   VectorConfig   `yaml:"vector"`
}

// LoadConfig reads the YAML config file and applies environment overrides.
// A .env file in the working directory is honored when present.
func LoadConfig(path string) (*Config, error) {
	// Missing .env is fine; explicit env vars still apply.
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyEnv()
	return &cfg, nil
}

func (c *Config) applyEnv() {
	overrideString(&c.Server.Addr, "SERVER_ADDR")
	overrideString(&c.LLM.BaseURL, "LLM_BASE_URL")
	overrideString(&c.LLM.Key, "LLM_API_KEY")
	overrideString(&c.LLM.Model, "LLM_MODEL")
	overrideString(&c.EmbedLLM.BaseURL, "EMBED_LLM_BASE_URL")
	overrideString(&c.EmbedLLM.Key, "EMBED_LLM_API_KEY")
	overrideString(&c.EmbedLLM.Model, "EMBED_LLM_MODEL")
	overrideString(&c.Database.DSN, "DATABASE_DSN")
	overrideString(&c.Database.Password, "DATABASE_PASSWORD")
	overrideString(&c.Vector.Path, "VECTOR_DB_PATH")
}

func overrideString(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}
