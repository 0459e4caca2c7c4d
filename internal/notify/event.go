package notify

import (
	"time"

	"git.home.luguber.info/inful/postindex/internal/post"
)

// Event describes a snapshot that was just made current.
type Event struct {
	SnapshotID  string    `json:"snapshot_id"`
	Fingerprint string    `json:"fingerprint"`
	Posts       int       `json:"posts"`
	Tags        int       `json:"tags"`
	LoadedAt    time.Time `json:"loaded_at"`
	Source      string    `json:"source"`
}

// NewEvent summarizes idx.
func NewEvent(idx *post.Index) Event {
	if idx == nil {
		return Event{}
	}
	return Event{
		SnapshotID:  idx.SnapshotID(),
		Fingerprint: idx.Fingerprint(),
		Posts:       idx.Len(),
		Tags:        len(idx.Tags()),
		LoadedAt:    idx.LoadedAt(),
		Source:      idx.Source(),
	}
}
