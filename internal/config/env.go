package config

import (
	"fmt"
	"time"

	env "github.com/Netflix/go-env"
)

// Overrides holds environment-driven settings. Set fields win over the file.
type Overrides struct {
	Server         string `env:"HOMEDASH_SERVER"`
	PollInterval   time.Duration `env:"HOMEDASH_POLL_INTERVAL"`
	RequestTimeout time.Duration `env:"HOMEDASH_REQUEST_TIMEOUT"`
	LogLevel       string        `env:"HOMEDASH_LOG_LEVEL"`
	LogFile        string        `env:"HOMEDASH_LOG_FILE"`
	MetricsAddr    string        `env:"HOMEDASH_METRICS_ADDR"`
	StrictOnMatch  bool          `env:"HOMEDASH_STRICT_ON_MATCH"`
}

// LoadOverrides reads the HOMEDASH_* environment variables.
func LoadOverrides() (*Overrides, error) {
	var o Overrides
	if _, err := env.UnmarshalFromEnviron(&o); err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}
	return &o, nil
}

// Apply copies every set override into c.
func (o *Overrides) Apply(c *Config) error {
	c.applyDefaults()
	p := c.Preferences

	if o.Server != "" {
		c.Server = o.Server
	}
	if o.PollInterval != 0 {
		if err := checkPositive("HOMEDASH_POLL_INTERVAL", o.PollInterval); err != nil {
			return err
		}
		p.PollInterval = o.PollInterval
	}
	if o.RequestTimeout != 0 {
		if err := checkPositive("HOMEDASH_REQUEST_TIMEOUT", o.RequestTimeout); err != nil {
			return err
		}
		p.RequestTimeout = o.RequestTimeout
	}
	if o.LogLevel != "" {
		p.LogLevel = o.LogLevel
	}
	if o.LogFile != "" {
		p.LogFile = o.LogFile
	}
	if o.MetricsAddr != "" {
		p.MetricsAddr = o.MetricsAddr
	}
	if o.StrictOnMatch {
		p.StrictOnMatch = true
	}
	return nil
}

// checkPositive rejects negative durations. Zero means unset.
func checkPositive(name string, d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("%s must be positive, got %s", name, d)
	}
	return nil
}
