package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the AuditDesk console.
type Config struct {
	ServerEndpointAddr  string
	OnlineCheckInterval time.Duration
	DataDir             string
	EvidenceBaseURL     string
	// Category is the record set opened at start. Empty means the last one
	// used, falling back to internal.
	Category string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.OnlineCheckInterval = 3 * time.Second
	c.DataDir = ".auditdesk"
	c.EvidenceBaseURL = "http://127.0.0.1:8080"
	c.Category = ""
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags. It panics on unreadable input,
// like a flag.ExitOnError set would exit.
func LoadConfig() *Config {
	args := os.Args[1:]
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg, args)
	parseFlags(cfg, args)
	return cfg
}
