package domain

// ListStatus mirrors the catalog's media-list status enum.
type ListStatus string

const (
	StatusCurrent   ListStatus = "CURRENT"
	StatusPlanning  ListStatus = "PLANNING"
	StatusCompleted ListStatus = "COMPLETED"
	StatusDropped   ListStatus = "DROPPED"
	StatusPaused    ListStatus = "PAUSED"
	StatusRepeating ListStatus = "REPEATING"
)

// HistoryEntry is one interaction between the user and a catalog entry.
// Score is the user's rating, 0 meaning unrated.
type HistoryEntry struct {
	Score    float64    `json:"score"`
	Progress int        `json:"progress"`
	Repeat   int        `json:"repeat"`
	Status   ListStatus `json:"status"`
	Media    Media      `json:"media"`
}

// FilterHistory drops entries whose status carries no watch signal.
// PLANNING entries were never watched and DROPPED entries are a
// negative signal the model does not use.
func FilterHistory(entries []HistoryEntry) []HistoryEntry {
	filtered := make([]HistoryEntry, 0, len(entries))
	for _, e := range entries {
		if e.Status == StatusPlanning || e.Status == StatusDropped {
			continue
		}
		filtered = append(filtered, e)
	}
	return filtered
}
