package doclearn

import "time"

// Config holds settings for the DocLearn API client.
type Config struct {
	// BaseURL is the HTTP endpoint of the DocLearn API, e.g. https://api.doclearn.ru
	BaseURL string `yaml:"base_url" json:"base_url"`
	// Timeout is the per-request timeout
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
	// Retries is number of retry attempts for transient read failures
	Retries int `yaml:"retries" json:"retries"`
	// Backoff is the base backoff between retries
	Backoff time.Duration `yaml:"backoff" json:"backoff"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL: "https://api.doclearn.ru",
		Timeout: 15 * time.Second,
		Retries: 3,
		Backoff: 500 * time.Millisecond,
	}
}
