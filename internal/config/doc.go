// Package config loads runtime configuration for the persistmap console.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-f string   path to the database journal file
//	-t int      journal compaction threshold (records)
//
// # JSON schema
//
//	{
//	  "db_path": "data/persistmap.db",
//	  "compact_threshold": 1024
//	}
//
// Primary API
//
//   - type Config                     — holds DBPath and CompactThreshold
//   - func LoadConfig() *Config       — builds Config by applying defaults, JSON, then flags
//   - func (*Config) LoadDefaults()   — sets sensible defaults
//
// Note: This package does not read environment variables; use the JSON file
// or flags to configure values.
package config
