// Package config loads runtime configuration for the AuditDesk console.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJSON) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   address:port of the AuditDesk gRPC endpoint
//	-i int      online status check interval (seconds)
//	-d string   data directory (local database and log file)
//	-b string   base URL evidence files are downloaded from
//	-t string   record category to open at start (internal|external)
//
// # JSON schema
//
// Intervals use timex.Duration, so they may be strings like "3s" or integer
// nanoseconds. Empty or missing keys keep the default:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "online_check_interval": "3s",
//	  "data_dir": "~/.auditdesk",
//	  "evidence_base_url": "http://127.0.0.1:8080",
//	  "category": "internal"
//	}
package config
