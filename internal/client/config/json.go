package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/auditdesk/internal/flagx"
	"github.com/dmitrijs2005/auditdesk/internal/timex"
)

// JSONConfig is the on-disk form of Config.
type JSONConfig struct {
	ServerEndpointAddr  string         `json:"server_endpoint_addr"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	DataDir             string         `json:"data_dir"`
	EvidenceBaseURL     string         `json:"evidence_base_url"`
	Category            string         `json:"category"`
}

// parseJSON overlays cfg with the file named by -c/-config, if any. Read or
// decode errors panic.
func parseJSON(cfg *Config, args []string) {
	path := flagx.ConfigFile(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	var jc JSONConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.ServerEndpointAddr, jc.ServerEndpointAddr)
	setString(&cfg.DataDir, jc.DataDir)
	setString(&cfg.EvidenceBaseURL, jc.EvidenceBaseURL)
	setString(&cfg.Category, jc.Category)
	if jc.OnlineCheckInterval.Duration > 0 {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
