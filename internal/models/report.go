package models

import "time"

// FileStatus describes what happened to a page during a pass
type FileStatus string

const (
	StatusAugmented FileStatus = "augmented"
	StatusUnchanged FileStatus = "unchanged"
	StatusFailed    FileStatus = "failed"
)

// FileReport is the outcome of augmenting one page
type FileReport struct {
	Path     string     `json:"path"`
	Status   FileStatus `json:"status"`
	Controls int        `json:"controls"`
	Skipped  int        `json:"skipped"`
	Bytes    int64      `json:"bytes,omitempty"`
	Error    string     `json:"error,omitempty"`
}

// Report summarizes a pass over a site
type Report struct {
	Root       string        `json:"root"`
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"duration"`
	DryRun     bool          `json:"dry_run,omitempty"`
	Files      []FileReport  `json:"files"`
	Augmented  int           `json:"augmented"`
	Unchanged  int           `json:"unchanged"`
	Failed     int           `json:"failed"`
	Controls   int           `json:"controls"`
	BytesTotal int64         `json:"bytes_total"`
}

// Tally recomputes the summary counters from Files
func (r *Report) Tally() {
	r.Augmented, r.Unchanged, r.Failed, r.Controls, r.BytesTotal = 0, 0, 0, 0, 0
	for _, f := range r.Files {
		switch f.Status {
		case StatusAugmented:
			r.Augmented++
		case StatusUnchanged:
			r.Unchanged++
		case StatusFailed:
			r.Failed++
		}
		r.Controls += f.Controls
		r.BytesTotal += f.Bytes
	}
}
