package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr          string        `yaml:"addr"`
	JWTSecret     string        `yaml:"jwt_secret"`
	APITimeout    time.Duration `yaml:"timeout"`
	DatabasePath  string        `yaml:"database_path"`
	TokenDuration time.Duration `yaml:"token_duration"`
	Avatar        AvatarConfig  `yaml:"avatar"`
	Upstream      ClientConfig  `yaml:"upstream"`
}

type AvatarConfig struct {
	Retention     time.Duration `yaml:"retention"`
	FetchRetries  int           `yaml:"fetch_retries"`
	FetchBackoff  time.Duration `yaml:"fetch_backoff"`
	FetchTimeout  time.Duration `yaml:"fetch_timeout"`
	MaxBlobSize   int64         `yaml:"max_blob_size"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

type ClientConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
	Retries int           `yaml:"retries"`
	Backoff time.Duration `yaml:"backoff"`
}

func LoadConfig(path string) (*Config, error) {
	apiTimeout := 15 * time.Second
	tokenDuration := 1 * time.Hour

	cfg := &Config{
		Addr:          getEnv("DOCLEARN_ADDR", ":8080"),
		JWTSecret:     getEnv("DOCLEARN_JWT_SECRET", "supersecretkey"),
		APITimeout:    apiTimeout,
		DatabasePath:  getEnv("DOCLEARN_DATABASE_PATH", "doclearn.db"),
		TokenDuration: tokenDuration,
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Validate checks required fields and fills in defaults for the avatar cache
// and upstream client sections. The default JWT secret is rejected unless
// DOCLEARN_ENV is "development".
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr must not be empty")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database_path must not be empty")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("jwt_secret must not be empty")
	}
	if c.JWTSecret == "supersecretkey" && os.Getenv("DOCLEARN_ENV") != "development" {
		return fmt.Errorf("jwt_secret uses the insecure default outside development")
	}
	if c.APITimeout <= 0 {
		c.APITimeout = 15 * time.Second
	}
	if c.TokenDuration <= 0 {
		c.TokenDuration = 1 * time.Hour
	}

	if c.Avatar.Retention <= 0 {
		c.Avatar.Retention = 7 * 24 * time.Hour
	}
	if c.Avatar.FetchRetries <= 0 {
		c.Avatar.FetchRetries = 3
	}
	if c.Avatar.FetchBackoff <= 0 {
		c.Avatar.FetchBackoff = time.Second
	}
	if c.Avatar.FetchTimeout <= 0 {
		c.Avatar.FetchTimeout = 15 * time.Second
	}
	if c.Avatar.MaxBlobSize <= 0 {
		c.Avatar.MaxBlobSize = 10 << 20
	}
	if c.Avatar.SweepInterval <= 0 {
		c.Avatar.SweepInterval = 24 * time.Hour
	}

	if c.Upstream.BaseURL == "" {
		c.Upstream.BaseURL = getEnv("DOCLEARN_UPSTREAM_URL", "https://api.doclearn.ru")
	}
	if c.Upstream.Timeout <= 0 {
		c.Upstream.Timeout = 15 * time.Second
	}
	if c.Upstream.Retries <= 0 {
		c.Upstream.Retries = 3
	}
	if c.Upstream.Backoff <= 0 {
		c.Upstream.Backoff = 500 * time.Millisecond
	}

	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}
