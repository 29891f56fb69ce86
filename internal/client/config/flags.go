package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/auditdesk/internal/flagx"
)

// parseFlags overlays cfg with the short flags this package owns. Other
// flags in args are ignored.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-i", "-d", "-b", "-t"})

	fs := flag.NewFlagSet("auditdesk", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port of the AuditDesk server")
	interval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	fs.StringVar(&cfg.EvidenceBaseURL, "b", cfg.EvidenceBaseURL, "evidence download base URL")
	fs.StringVar(&cfg.Category, "t", cfg.Category, "category to open at start (internal|external)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*interval) * time.Second
}
