package insights

import "time"

const (
	DefaultBaseURL         = "https://generativelanguage.googleapis.com/v1beta/openai/"
	DefaultModel           = "gemini-1.5-flash"
	DefaultTimeout         = 20 * time.Second
	DefaultTemperature     = 0.7
	DefaultTopK            = 40
	DefaultTopP            = 0.95
	DefaultMaxOutputTokens = 1024
)

// Config holds everything the generator needs to reach the AI provider.
// An empty APIKey disables the AI path.
type Config struct {
	APIKey            string
	BaseURL           string
	Model             string
	Timeout           time.Duration
	Temperature       float64
	TopK              int
	TopP              float64
	MaxOutputTokens   int
	RequestsPerMinute int // 0 means unlimited
}

// DefaultConfig returns a Config with the provider defaults and no API key.
func DefaultConfig() Config {
	return Config{
		BaseURL:         DefaultBaseURL,
		Model:           DefaultModel,
		Timeout:         DefaultTimeout,
		Temperature:     DefaultTemperature,
		TopK:            DefaultTopK,
		TopP:            DefaultTopP,
		MaxOutputTokens: DefaultMaxOutputTokens,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.BaseURL == "" {
		c.BaseURL = d.BaseURL
	}
	if c.Model == "" {
		c.Model = d.Model
	}
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	if c.Temperature <= 0 {
		c.Temperature = d.Temperature
	}
	if c.TopK <= 0 {
		c.TopK = d.TopK
	}
	if c.TopP <= 0 {
		c.TopP = d.TopP
	}
	if c.MaxOutputTokens <= 0 {
		c.MaxOutputTokens = d.MaxOutputTokens
	}
	return c
}
