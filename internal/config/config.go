package config

// Config holds runtime settings for the persistmap console.
//
// Fields:
//   - DBPath: location of the journal file holding the durable map.
//   - CompactThreshold: dead journal records tolerated before compaction.
type Config struct {
	DBPath           string
	CompactThreshold int
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DBPath = "data/persistmap.db"
	c.CompactThreshold = 1024
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
