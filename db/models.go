package db

import "time"

// Export statuses.
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusError      = "error"
)

// Video represents a row in the videos table.
type Video struct {
	ID         int64
	Path       string
	Filename   string
	Extension  string
	Width      int
	Height     int
	DurationMs int64
	CreatedAt  time.Time
}

// Export represents a row in the exports table joined with its video path.
type Export struct {
	ID           int64
	VideoID      int64
	VideoPath    string
	StartMs      int64
	EndMs        int64
	Destination  string
	PublishedURI string
	Status       string
	StartedAt    *time.Time
	FinishedAt   *time.Time
	ErrorAt      *time.Time
	Log          string
}

// Output is where the clip ended up: the published URI when there is one.
func (e Export) Output() string {
	if e.PublishedURI != "" {
		return e.PublishedURI
	}
	return e.Destination
}
