package config

import (
	"sort"
	"time"
)

// CurrentVersion is the config file schema version.
const CurrentVersion = 1

// Defaults applied to a new or partially filled configuration.
const (
	DefaultServer         = "http://localhost:8080"
	DefaultPollInterval   = 2 * time.Second
	DefaultSearchDebounce = 300 * time.Millisecond
	DefaultRequestTimeout = 10 * time.Second
	DefaultScanTimeout    = 5 * time.Second
)

// Config represents the entire user configuration file.
type Config struct {
	Version     int                `yaml:"version"`
	Server      string             `yaml:"server,omitempty"` // Base URL of the dashboard server
	Preferences *Preferences       `yaml:"preferences,omitempty"`
	Servers     map[string]*Server `yaml:"servers,omitempty"` // Remembered servers keyed by base URL
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	PollInterval   time.Duration `yaml:"poll_interval"`   // How often the full state is fetched
	SearchDebounce time.Duration `yaml:"search_debounce"` // Quiet period before a search is sent
	RequestTimeout time.Duration `yaml:"request_timeout"` // Per-request timeout
	ScanTimeout    time.Duration `yaml:"scan_timeout"`    // mDNS discovery timeout
	StrictOnMatch  bool          `yaml:"strict_on_match"` // Match "ON" as a whole word only
	LogLevel       string        `yaml:"log_level,omitempty"`
	LogFile        string        `yaml:"log_file,omitempty"`
	MetricsAddr    string        `yaml:"metrics_addr,omitempty"` // e.g. ":9110"; empty disables
}

// Server is user metadata for a dashboard server seen before.
type Server struct {
	Nickname string    `yaml:"nickname,omitempty"`
	LastSeen time.Time `yaml:"last_seen,omitempty"`
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		Version:     CurrentVersion,
		Server:      DefaultServer,
		Preferences: defaultPreferences(),
		Servers:     make(map[string]*Server),
	}
}

func defaultPreferences() *Preferences {
	return &Preferences{
		PollInterval:   DefaultPollInterval,
		SearchDebounce: DefaultSearchDebounce,
		RequestTimeout: DefaultRequestTimeout,
		ScanTimeout:    DefaultScanTimeout,
	}
}

// applyDefaults fills zero values left by a partial file.
func (c *Config) applyDefaults() {
	if c.Server == "" {
		c.Server = DefaultServer
	}
	if c.Servers == nil {
		c.Servers = make(map[string]*Server)
	}
	if c.Preferences == nil {
		c.Preferences = defaultPreferences()
		return
	}
	d := defaultPreferences()
	if c.Preferences.PollInterval <= 0 {
		c.Preferences.PollInterval = d.PollInterval
	}
	if c.Preferences.SearchDebounce <= 0 {
		c.Preferences.SearchDebounce = d.SearchDebounce
	}
	if c.Preferences.RequestTimeout <= 0 {
		c.Preferences.RequestTimeout = d.RequestTimeout
	}
	if c.Preferences.ScanTimeout <= 0 {
		c.Preferences.ScanTimeout = d.ScanTimeout
	}
}

// RememberServer records that baseURL answered at time seen.
func (c *Config) RememberServer(baseURL string, seen time.Time) *Server {
	if c.Servers == nil {
		c.Servers = make(map[string]*Server)
	}
	s, ok := c.Servers[baseURL]
	if !ok {
		s = &Server{}
		c.Servers[baseURL] = s
	}
	s.LastSeen = seen
	return s
}

// KnownServers returns remembered server URLs, most recently seen first.
func (c *Config) KnownServers() []string {
	urls := make([]string, 0, len(c.Servers))
	for u := range c.Servers {
		urls = append(urls, u)
	}
	sort.Slice(urls, func(i, j int) bool {
		a, b := c.Servers[urls[i]].LastSeen, c.Servers[urls[j]].LastSeen
		if a.Equal(b) {
			return urls[i] < urls[j]
		}
		return a.After(b)
	})
	return urls
}
