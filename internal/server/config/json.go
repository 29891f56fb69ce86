package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/auditdesk/internal/flagx"
	"github.com/dmitrijs2005/auditdesk/internal/timex"
)

// JSONConfig is the on-disk form of Config. Durations accept both strings
// such as "12h" and integer nanoseconds (see timex.Duration).
type JSONConfig struct {
	EndpointAddrGRPC            string         `json:"endpoint_addr_grpc"`
	EndpointAddrHTTP            string         `json:"endpoint_addr_http"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	S3RootUser                  string         `json:"s3_root_user"`
	S3RootPassword              string         `json:"s3_root_password"`
	S3Bucket                    string         `json:"s3_bucket"`
	S3Region                    string         `json:"s3_region"`
	S3BaseEndpoint              string         `json:"s3_base_endpoint"`
	MaxUploadMiB                int64          `json:"max_upload_mib"`
	AdminUser                   string         `json:"admin_user"`
	AdminPassword               string         `json:"admin_password"`
}

// parseJSON overlays config with the file given by -c or -config. Only
// values present in the file replace the current ones. If the file cannot be
// read or contains invalid JSON, the function panics.
func parseJSON(config *Config, args []string) {
	path := flagx.ConfigFile(args)
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JSONConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.AdminUser, c.AdminUser)
	setString(&config.AdminPassword, c.AdminPassword)
	if c.AccessTokenValidityDuration.Duration > 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.MaxUploadMiB > 0 {
		config.MaxUploadBytes = c.MaxUploadMiB << 20
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
