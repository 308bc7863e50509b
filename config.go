package client

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultBaseURL     = "https://api.multicard.uz"
	DefaultTimeout     = 30 * time.Second
	DefaultOpenTimeout = 10 * time.Second
)

// Config holds the credentials and connection settings of a [Client].
// A Config is never modified after construction; use [Config.Merge] to
// derive a new one with some fields overridden.
type Config struct {
	ApplicationID string
	Secret        string
	BaseURL       string

	// Timeout bounds a whole request. Zero disables it.
	Timeout time.Duration
	// OpenTimeout bounds connection establishment. Zero disables it.
	OpenTimeout time.Duration

	// Logger receives request logs. Nil means no logging.
	Logger RequestLogger

	// StoreID is the default store (cash register) used by resource calls
	// that accept a store ID. Nil means none.
	StoreID *int64
}

// ConfigOption sets a single field of a [Config]. An option that is passed
// always wins, even when it sets a zero value; a field without an option
// keeps its current value.
type ConfigOption func(*Config)

// NewConfig returns a Config with defaults applied, then opts.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := &Config{
		BaseURL:     DefaultBaseURL,
		Timeout:     DefaultTimeout,
		OpenTimeout: DefaultOpenTimeout,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// Merge returns a copy of c with opts applied. c itself is left unchanged.
func (c *Config) Merge(opts ...ConfigOption) *Config {
	merged := *c
	if c.StoreID != nil {
		id := *c.StoreID
		merged.StoreID = &id
	}

	for _, opt := range opts {
		opt(&merged)
	}

	return &merged
}

// Validate checks that the credentials are present.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ApplicationID) == "" {
		return ErrMissingApplicationID
	}
	if strings.TrimSpace(c.Secret) == "" {
		return ErrMissingSecret
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative, got %v", c.Timeout)
	}
	if c.OpenTimeout < 0 {
		return fmt.Errorf("open timeout must be non-negative, got %v", c.OpenTimeout)
	}
	return nil
}

func WithApplicationID(id string) ConfigOption {
	return func(c *Config) {
		c.ApplicationID = id
	}
}

func WithSecret(secret string) ConfigOption {
	return func(c *Config) {
		c.Secret = secret
	}
}

func WithBaseURL(url string) ConfigOption {
	return func(c *Config) {
		c.BaseURL = strings.TrimRight(url, "/")
	}
}

func WithTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

func WithOpenTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.OpenTimeout = timeout
	}
}

// WithLogger sets the logger. Passing nil disables logging.
func WithLogger(logger RequestLogger) ConfigOption {
	return func(c *Config) {
		c.Logger = logger
	}
}

func WithStoreID(id int64) ConfigOption {
	return func(c *Config) {
		c.StoreID = &id
	}
}

// WithoutStoreID clears the default store ID.
func WithoutStoreID() ConfigOption {
	return func(c *Config) {
		c.StoreID = nil
	}
}

// ConfigFromEnv returns options for every MULTICARD_* variable that is set
// and non-empty:
//   - MULTICARD_APPLICATION_ID
//   - MULTICARD_SECRET
//   - MULTICARD_BASE_URL
//   - MULTICARD_STORE_ID (integer)
//   - MULTICARD_TIMEOUT, MULTICARD_OPEN_TIMEOUT (Go duration or whole seconds)
//
// Other variables produce no option, so the result can be passed to
// [Config.Merge] without clobbering other sources.
func ConfigFromEnv() ([]ConfigOption, error) {
	var opts []ConfigOption

	if v := os.Getenv("MULTICARD_APPLICATION_ID"); v != "" {
		opts = append(opts, WithApplicationID(v))
	}
	if v := os.Getenv("MULTICARD_SECRET"); v != "" {
		opts = append(opts, WithSecret(v))
	}
	if v := os.Getenv("MULTICARD_BASE_URL"); v != "" {
		opts = append(opts, WithBaseURL(v))
	}
	if v := os.Getenv("MULTICARD_STORE_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid MULTICARD_STORE_ID %q: %w", v, err)
		}
		opts = append(opts, WithStoreID(id))
	}
	if v := os.Getenv("MULTICARD_TIMEOUT"); v != "" {
		d, err := parseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid MULTICARD_TIMEOUT %q: %w", v, err)
		}
		opts = append(opts, WithTimeout(d))
	}
	if v := os.Getenv("MULTICARD_OPEN_TIMEOUT"); v != "" {
		d, err := parseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid MULTICARD_OPEN_TIMEOUT %q: %w", v, err)
		}
		opts = append(opts, WithOpenTimeout(d))
	}

	return opts, nil
}

func parseDuration(s string) (time.Duration, error) {
	if secs, err := strconv.Atoi(s); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(s)
}
