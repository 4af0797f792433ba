package discovery

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/homedash/internal/logging"
)

const (
	// ServiceType is the mDNS service type dashboard servers advertise
	ServiceType = "_http._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for discovery
	DefaultScanTimeout = 5 * time.Second

	// DefaultPort is the dashboard server's default HTTP port
	DefaultPort = 8080

	// AppKey is the TXT record key a server sets to identify itself
	AppKey = "app"
)

// appValues are the TXT "app" values that identify a dashboard server.
var appValues = map[string]bool{
	"smarthome": true,
	"homedash":  true,
}

// instancePattern matches instance names of servers that do not set a TXT app key.
var instancePattern = regexp.MustCompile(`(?i)smart\s*home|home\s*dash`)

// Scanner handles mDNS server discovery
type Scanner struct {
	// Timeout is the maximum time to wait for responses
	Timeout time.Duration
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// Scan discovers dashboard servers until the timeout or ctx ends.
func (s *Scanner) Scan(ctx context.Context) ([]*Server, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)

	var (
		mu      sync.Mutex
		servers []*Server
		seen    = make(map[string]bool)
	)

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	go func() {
		for entry := range entries {
			srv := parseServiceEntry(entry)
			if srv == nil {
				continue
			}
			mu.Lock()
			if !seen[srv.BaseURL()] {
				seen[srv.BaseURL()] = true
				servers = append(servers, srv)
				logging.Debug("Discovered server", zap.String("url", srv.BaseURL()), zap.String("instance", srv.Instance))
			}
			mu.Unlock()
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()

	mu.Lock()
	defer mu.Unlock()
	return append([]*Server(nil), servers...), nil
}

// First returns the first server found, or an error if none answered in time.
func (s *Scanner) First(ctx context.Context) (*Server, error) {
	servers, err := s.Scan(ctx)
	if err != nil {
		return nil, err
	}
	if len(servers) == 0 {
		return nil, fmt.Errorf("no dashboard server found within %s", s.Timeout)
	}
	return servers[0], nil
}

// parseServiceEntry converts a zeroconf service entry to a Server.
// Returns nil if the entry is not a dashboard server.
func parseServiceEntry(entry *zeroconf.ServiceEntry) *Server {
	if entry == nil {
		return nil
	}

	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		parts := strings.SplitN(txt, "=", 2)
		if len(parts) == 2 {
			metadata[parts[0]] = parts[1]
		} else {
			metadata[parts[0]] = ""
		}
	}

	if !appValues[strings.ToLower(metadata[AppKey])] && !instancePattern.MatchString(entry.Instance) {
		return nil
	}

	var ip string
	for _, addr := range entry.AddrIPv4 {
		ip = addr.String()
		break
	}
	if ip == "" && len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	return &Server{
		Instance:     entry.Instance,
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         port,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}
