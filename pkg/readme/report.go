package readme

import "time"

// Report summarizes one generation.
type Report struct {
	Path        string    `json:"path" yaml:"path"`
	Command     string    `json:"command" yaml:"command"`
	Bytes       int       `json:"bytes" yaml:"bytes"`
	BodyBytes   int       `json:"body_bytes" yaml:"body_bytes"`
	BodyLines   int       `json:"body_lines" yaml:"body_lines"`
	Duration    string    `json:"duration" yaml:"duration"`
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
	DryRun      bool      `json:"dry_run" yaml:"dry_run"`
}
