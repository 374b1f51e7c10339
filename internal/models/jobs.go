// Package models holds the job configuration schema.
package models

// Profile is a named, reusable argument template for the external tool.
type Profile struct {
	Name string   `toml:"name" yaml:"name"`
	Args []string `toml:"args" yaml:"args"`

	// Archive defaults to true when omitted.
	Archive *bool `toml:"archive" yaml:"archive"`
}

// ArchiveEnabled reports whether the job should track downloads in an archive file.
func (p Profile) ArchiveEnabled() bool {
	return p.Archive == nil || *p.Archive
}

// Download is a named download target run under one or more profiles.
//
// Two downloads sharing a name and a profile share one archive file.
type Download struct {
	Name     string     `toml:"name" yaml:"name"`
	Profiles StringList `toml:"profile" yaml:"profile"`
	URLs     StringList `toml:"url" yaml:"url"`
}

// TaskSource is one unresolved job source: the local configuration or a remote document.
type TaskSource struct {
	Profiles  []Profile  `toml:"profile" yaml:"profile"`
	Downloads []Download `toml:"download" yaml:"download"`
}

// Config is the top-level job configuration document.
type Config struct {
	BinName   string             `toml:"bin_name" yaml:"bin_name"`
	Interval  int64              `toml:"interval" yaml:"interval"`
	Profiles  []Profile          `toml:"profile" yaml:"profile"`
	Downloads []Download         `toml:"download" yaml:"download"`
	RemoteJob OptionalStringList `toml:"remote_job" yaml:"remote_job"`
}

// TaskSource returns the local job source declared in the configuration.
func (c *Config) TaskSource() TaskSource {
	return TaskSource{
		Profiles:  c.Profiles,
		Downloads: c.Downloads,
	}
}
