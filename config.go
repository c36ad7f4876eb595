package client

import (
	"fmt"
	"net/url"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the settings NewFromEnv reads from ESCLIENT_* variables, e.g.
// ESCLIENT_URL=https://search.internal:9200 ESCLIENT_API_KEY=... .
type Config struct {
	URL         string        `split_words:"true" default:"http://localhost:9200"`
	Username    string        `split_words:"true"`
	Password    string        `split_words:"true"`
	APIKey      string        `split_words:"true"`
	Timeout     time.Duration `split_words:"true" default:"30s"`
	MaxRetries  int           `split_words:"true" default:"3"`
	BaseBackoff time.Duration `split_words:"true" default:"100ms"`
	MaxBackoff  time.Duration `split_words:"true" default:"5s"`
	Debug       bool          `split_words:"true" default:"false"`
}

// LoadConfig populates Config from environment variables (prefix ESCLIENT_).
func LoadConfig() (Config, error) {
	var c Config
	if err := envconfig.Process("ESCLIENT", &c); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return c, nil
}

// Validate checks the URL and that at most one credential kind is set.
func (c Config) Validate() error {
	u, err := url.Parse(c.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid URL %q", c.URL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported URL scheme %q", u.Scheme)
	}
	if c.APIKey != "" && c.Username != "" {
		return fmt.Errorf("set either USERNAME/PASSWORD or API_KEY, not both")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("MAX_RETRIES must be >= 0")
	}
	return nil
}

func (c Config) options() []Option {
	var opts []Option
	if c.Timeout > 0 {
		opts = append(opts, WithHTTPTimeout(c.Timeout))
	}
	if c.Username != "" {
		opts = append(opts, WithBasicAuth(c.Username, c.Password))
	}
	if c.APIKey != "" {
		opts = append(opts, WithAPIKey(c.APIKey))
	}
	opts = append(opts, WithMaxRetries(c.MaxRetries))
	if c.BaseBackoff > 0 && c.MaxBackoff >= c.BaseBackoff {
		opts = append(opts, WithBackoff(c.BaseBackoff, c.MaxBackoff))
	}
	if c.Debug {
		opts = append(opts, WithDebugLogging(true))
	}
	return opts
}
