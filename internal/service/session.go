package service

import (
	"time"

	"github.com/kaedema/anirec/internal/domain"
	"github.com/kaedema/anirec/internal/engine"
)

// SessionState tracks where a session is in its lifecycle. A session
// moves through the fetch and scoring states once at creation; after
// that it only bounces between Ready and Scoring as the user removes
// factors. Any failure is terminal: the user starts a new session.
type SessionState string

const (
	StateIdle                     SessionState = "idle"
	StateFetchingHistory          SessionState = "fetching_history"
	StateBuildingProfiles         SessionState = "building_profiles"
	StateCollectingCandidateIDs   SessionState = "collecting_candidate_ids"
	StateFetchingCandidateDetails SessionState = "fetching_candidate_details"
	StateScoring                  SessionState = "scoring"
	StateReady                    SessionState = "ready"
	StateFailed                   SessionState = "failed"
)

// session is the working set of one recommendation session. Everything
// here is recomputed from a live fetch; nothing is persisted.
type session struct {
	id         string
	username   string
	state      SessionState
	lastAccess time.Time

	history    []domain.HistoryEntry
	profiles   *engine.ProfileSet
	candidates []domain.Media
	staffNames map[int64]string
	removed    engine.RemovedFactors
	ranked     []domain.ScoredCandidate
}

// SessionView is the snapshot handed to the presentation layer.
type SessionView struct {
	ID              string                   `json:"session_id"`
	Username        string                   `json:"username"`
	State           SessionState             `json:"state"`
	RemovedFactors  []string                 `json:"removed_factors"`
	Recommendations []domain.ScoredCandidate `json:"recommendations"`
}

func (s *session) view() *SessionView {
	return &SessionView{
		ID:              s.id,
		Username:        s.username,
		State:           s.state,
		RemovedFactors:  s.removed.Keys(),
		Recommendations: s.ranked,
	}
}

// findParent locates the first watched entry whose peer recommendations
// reference the candidate, along with the peer rating on that link.
func findParent(history []domain.HistoryEntry, candidateID int64) (*domain.HistoryEntry, int) {
	for i := range history {
		for _, rec := range history[i].Media.Recommendations {
			if rec.MediaID == candidateID {
				return &history[i], rec.Rating
			}
		}
	}
	return nil, 0
}
