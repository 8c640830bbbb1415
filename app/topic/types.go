package topic

// Configuration types for monitored topics. One YAML file per topic in the
// topics directory; the file name (without extension) becomes the topic name.

type Config struct {
	Name        string         // Derived from filename (without .yml extension)
	DisplayName string         `yaml:"display_name"`
	State       string         `yaml:"state"` // Two-letter jurisdiction code, optional
	Keywords    []string       `yaml:"keywords"`
	BillIDs     []string       `yaml:"bill_ids"`
	Settings    ConfigSettings `yaml:"settings"`
}

type ConfigSettings struct {
	Enabled       bool `yaml:"enabled"`
	SweepInterval int  `yaml:"sweep_interval"` // seconds
	MaxMentions   int  `yaml:"max_mentions"`   // per-sweep cap per provider
}

// HasSearchableTerms reports whether any query can be built for the topic.
// A topic with neither keywords nor bill identifiers is skipped by the sweep.
func (c *Config) HasSearchableTerms() bool {
	return len(c.Keywords) > 0 || len(c.BillIDs) > 0
}
