package engine

import "github.com/kaedema/anirec/internal/domain"

// Suppression switches for the relational dimensions. Genre and tag
// factors are suppressed by their own display label instead.
const (
	SuppressStaff      = "Staff"
	SuppressStudio     = "Studio"
	SuppressVoiceActor = "Voice Actor"
	SuppressParent     = "Parent Recommendation"
)

// RemovedFactors is the set of suppression keys a user has chosen.
// It only ever grows within a session.
type RemovedFactors map[string]struct{}

func NewRemovedFactors() RemovedFactors {
	return RemovedFactors{}
}

func (r RemovedFactors) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// Suppress records the suppression key for a factor. Removing any
// staff, studio, voice-actor or parent factor disables that whole
// dimension; removing a genre or tag only removes that label.
func (r RemovedFactors) Suppress(f domain.Factor) {
	switch f.Kind {
	case domain.FactorStaff:
		r[SuppressStaff] = struct{}{}
	case domain.FactorStudio:
		r[SuppressStudio] = struct{}{}
	case domain.FactorVoiceActor:
		r[SuppressVoiceActor] = struct{}{}
	case domain.FactorParent:
		r[SuppressParent] = struct{}{}
	case domain.FactorGenre, domain.FactorTag:
		r[f.Name] = struct{}{}
	}
}

// Keys returns the suppression keys in no particular order.
func (r RemovedFactors) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	return keys
}
