package service

import (
	"context"
	"log"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kaedema/anirec/internal/domain"
	"github.com/kaedema/anirec/internal/engine"
)

const (
	maxRecommendations = 60
	defaultSessionTTL  = 30 * time.Minute
)

// Catalog is the remote fetch collaborator.
type Catalog interface {
	UserList(ctx context.Context, username string) ([]domain.HistoryEntry, error)
	MediaDetails(ctx context.Context, ids []int64) ([]domain.Media, error)
}

// FetchCache caches raw catalog responses. Optional.
type FetchCache interface {
	GetUserList(ctx context.Context, username string) ([]domain.HistoryEntry, bool, error)
	SetUserList(ctx context.Context, username string, entries []domain.HistoryEntry) error
	GetMediaDetails(ctx context.Context, ids []int64) ([]domain.Media, bool, error)
	SetMediaDetails(ctx context.Context, ids []int64, media []domain.Media) error
}

// NameResolver resolves staff ids to display names. Optional; when nil
// every staff factor carries a synthesized fallback name.
type NameResolver interface {
	StaffNames(ctx context.Context, ids []int64) (map[int64]string, error)
}

type Service struct {
	catalog    Catalog
	cache      FetchCache
	names      NameResolver
	sessionTTL time.Duration

	mu       sync.Mutex
	sessions map[string]*session
}

func NewService(catalog Catalog, cache FetchCache, names NameResolver, sessionTTL time.Duration) *Service {
	if sessionTTL <= 0 {
		sessionTTL = defaultSessionTTL
	}
	return &Service{
		catalog:    catalog,
		cache:      cache,
		names:      names,
		sessionTTL: sessionTTL,
		sessions:   make(map[string]*session),
	}
}

// StartSession runs the whole pipeline for a user handle: fetch the
// anime list, build preference profiles, collect unwatched peer
// recommendations, fetch their details, then score and rank them.
// Every failure is terminal for the session; none are retried here.
func (s *Service) StartSession(ctx context.Context, username string) (*SessionView, error) {
	sess := &session{
		id:       uuid.NewString(),
		username: username,
		state:    StateIdle,
		removed:  engine.NewRemovedFactors(),
	}

	sess.state = StateFetchingHistory
	entries, err := s.fetchUserList(ctx, username)
	if err != nil {
		return nil, err
	}

	filtered := domain.FilterHistory(entries)
	if len(filtered) == 0 {
		return nil, domain.ErrEmptyHistory
	}
	sess.history = filtered

	sess.state = StateBuildingProfiles
	sess.profiles = engine.BuildProfiles(filtered)

	sess.state = StateCollectingCandidateIDs
	candidateIDs := collectCandidateIDs(filtered, sess.profiles.WatchedIDs)
	if len(candidateIDs) == 0 {
		return nil, domain.ErrNoCandidates
	}

	sess.state = StateFetchingCandidateDetails
	candidates, err := s.fetchMediaDetails(ctx, candidateIDs)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, domain.ErrNoCandidates
	}
	sess.candidates = candidates
	sess.staffNames = s.resolveStaffNames(ctx, candidates)

	sess.state = StateScoring
	sess.ranked = rank(sess)
	sess.state = StateReady
	sess.lastAccess = time.Now()

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	return sess.view(), nil
}

// RemoveFactor suppresses one factor for the session and synchronously
// re-scores every candidate. Profiles are not rebuilt; suppression only
// gates the predictor.
func (s *Service) RemoveFactor(sessionID string, factor domain.Factor) (*SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSessionLocked(sessionID)
	if err != nil {
		return nil, err
	}

	sess.removed.Suppress(factor)
	sess.state = StateScoring
	sess.ranked = rank(sess)
	sess.state = StateReady

	return sess.view(), nil
}

// Rankings returns the session's current ranked list.
func (s *Service) Rankings(sessionID string) (*SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSessionLocked(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.view(), nil
}

// getSessionLocked looks a session up and lazily expires stale ones.
// Caller holds s.mu.
func (s *Service) getSessionLocked(sessionID string) (*session, error) {
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if time.Since(sess.lastAccess) > s.sessionTTL {
		delete(s.sessions, sessionID)
		return nil, domain.ErrSessionNotFound
	}
	sess.lastAccess = time.Now()
	return sess, nil
}

func (s *Service) fetchUserList(ctx context.Context, username string) ([]domain.HistoryEntry, error) {
	if s.cache != nil {
		cached, found, err := s.cache.GetUserList(ctx, username)
		if err != nil {
			log.Printf("[service] cache get error for user %s: %v", username, err)
		}
		if found {
			return cached, nil
		}
	}

	entries, err := s.catalog.UserList(ctx, username)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if cacheErr := s.cache.SetUserList(ctx, username, entries); cacheErr != nil {
			log.Printf("[service] cache set error for user %s: %v", username, cacheErr)
		}
	}
	return entries, nil
}

func (s *Service) fetchMediaDetails(ctx context.Context, ids []int64) ([]domain.Media, error) {
	if s.cache != nil {
		cached, found, err := s.cache.GetMediaDetails(ctx, ids)
		if err != nil {
			log.Printf("[service] cache get error for media details: %v", err)
		}
		if found {
			return cached, nil
		}
	}

	media, err := s.catalog.MediaDetails(ctx, ids)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if cacheErr := s.cache.SetMediaDetails(ctx, ids, media); cacheErr != nil {
			log.Printf("[service] cache set error for media details: %v", cacheErr)
		}
	}
	return media, nil
}

// resolveStaffNames looks up display names for every staff id on the
// candidate set, best effort. Failures only cost readable names.
func (s *Service) resolveStaffNames(ctx context.Context, candidates []domain.Media) map[int64]string {
	if s.names == nil {
		return nil
	}

	seen := make(map[int64]struct{})
	var ids []int64
	for _, m := range candidates {
		for _, id := range m.StaffIDs {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}

	names, err := s.names.StaffNames(ctx, ids)
	if err != nil {
		log.Printf("[service] staff name lookup failed: %v", err)
		return nil
	}
	return names
}

// collectCandidateIDs gathers peer-recommended ids from rated entries,
// excluding anything the user has already watched. The result is
// sorted so the detail fetch and its cache key are deterministic.
func collectCandidateIDs(history []domain.HistoryEntry, watched map[int64]struct{}) []int64 {
	seen := make(map[int64]struct{})
	var ids []int64
	for _, entry := range history {
		if entry.Score <= 0 {
			continue
		}
		for _, rec := range entry.Media.Recommendations {
			if rec.MediaID == 0 {
				continue
			}
			if _, ok := watched[rec.MediaID]; ok {
				continue
			}
			if _, ok := seen[rec.MediaID]; ok {
				continue
			}
			seen[rec.MediaID] = struct{}{}
			ids = append(ids, rec.MediaID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// rank scores every candidate and rebuilds the ranked list from
// scratch. Candidates missing display fields are dropped with a log
// line; candidates whose rating is not a number are dropped silently.
func rank(sess *session) []domain.ScoredCandidate {
	scored := make([]domain.ScoredCandidate, 0, len(sess.candidates))
	for _, media := range sess.candidates {
		if media.ID == 0 || media.Title == "" {
			log.Printf("[service] dropping candidate %d with missing display fields", media.ID)
			continue
		}

		parent, peerRating := findParent(sess.history, media.ID)
		pred := engine.Predict(media, sess.profiles, parent, sess.removed, sess.staffNames)
		if math.IsNaN(pred.Rating) {
			continue
		}

		scored = append(scored, domain.ScoredCandidate{
			ID:              media.ID,
			Title:           media.Title,
			PredictedRating: pred.Rating,
			CoverImage:      media.CoverImage,
			Factors:         pred.Factors,
			PeerRating:      peerRating,
		})
	}

	sort.Slice(scored, func(i, j int) bool {
		return scored[i].PredictedRating > scored[j].PredictedRating
	})
	if len(scored) > maxRecommendations {
		scored = scored[:maxRecommendations]
	}
	return scored
}
