package domain

// Progress is the snapshot of the in-flight upload.
// Percent is -1 when no progress line has been seen.
type Progress struct {
	File    string `json:"file,omitempty"`
	Percent int    `json:"percent"`
}

// EmptyProgress returns the reset snapshot
func EmptyProgress() Progress {
	return Progress{Percent: -1}
}

// Known reports whether the snapshot carries any progress information
func (p Progress) Known() bool {
	return p.File != "" || p.Percent >= 0
}
