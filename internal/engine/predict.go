package engine

import (
	"fmt"
	"math"
	"sort"

	"github.com/kaedema/anirec/internal/domain"
)

const (
	// Staff, studio and voice-actor matches carry half the weight of a
	// genre or tag match.
	relationDamping = 0.5
	maxFactors      = 10
)

// Prediction is the outcome of scoring one candidate: the predicted
// rating and the top contributing factors, influence-descending, with
// each influence rewritten to a signed percentage of the total score.
type Prediction struct {
	Rating  float64
	Factors []domain.Factor
}

// tally accumulates factor contributions while a candidate is scored.
type tally struct {
	score   float64
	weight  float64
	factors []domain.Factor
}

func (t *tally) add(f domain.Factor, weight float64) {
	t.score += f.Influence
	t.weight += weight
	t.factors = append(t.factors, f)
}

// Predict scores one candidate against the user's profiles. parent is
// the watched entry whose peer recommendations surfaced this candidate,
// nil if none. staffNames resolves staff ids to display names, best
// effort; unresolved ids fall back to a synthesized label. Pure
// function, deterministic given its inputs.
func Predict(media domain.Media, profiles *ProfileSet, parent *domain.HistoryEntry, removed RemovedFactors, staffNames map[int64]string) Prediction {
	var t tally

	for _, genre := range media.Genres {
		if removed.Has(genre) {
			continue
		}
		agg, ok := profiles.Genres[NormalizeLabel(genre)]
		if !ok {
			continue
		}
		t.add(domain.Factor{
			Name:      genre,
			Influence: agg.Score * agg.Hours,
			Kind:      domain.FactorGenre,
		}, agg.Hours)
	}

	for _, tag := range media.Tags {
		if removed.Has(tag.Name) {
			continue
		}
		agg, ok := profiles.Tags[NormalizeLabel(tag.Name)]
		if !ok {
			continue
		}
		relevance := float64(tag.Rank) / 100.0
		t.add(domain.Factor{
			Name:      tag.Name,
			Influence: agg.Score * agg.Hours * relevance,
			Kind:      domain.FactorTag,
		}, agg.Hours*relevance)
	}

	if !removed.Has(SuppressStaff) {
		for _, id := range media.StaffIDs {
			agg, ok := profiles.Staff[id]
			if !ok {
				continue
			}
			name := staffNames[id]
			if name == "" {
				name = fmt.Sprintf("Staff ID: %d", id)
			}
			t.add(domain.Factor{
				Name:      name,
				Influence: agg.Score * agg.Hours * relationDamping,
				SourceID:  id,
				Kind:      domain.FactorStaff,
			}, agg.Hours*relationDamping)
		}
	}

	if !removed.Has(SuppressStudio) {
		for _, id := range media.StudioIDs {
			agg, ok := profiles.Studios[id]
			if !ok {
				continue
			}
			t.add(domain.Factor{
				Name:      fmt.Sprintf("Studio ID: %d", id),
				Influence: agg.Score * agg.Hours * relationDamping,
				SourceID:  id,
				Kind:      domain.FactorStudio,
			}, agg.Hours*relationDamping)
		}
	}

	if !removed.Has(SuppressVoiceActor) {
		for _, actors := range media.CharacterVoiceActors {
			if len(actors) == 0 {
				continue
			}
			id := actors[0]
			agg, ok := profiles.VoiceActors[id]
			if !ok {
				continue
			}
			t.add(domain.Factor{
				Name:      fmt.Sprintf("Voice Actor ID: %d", id),
				Influence: agg.Score * agg.Hours * relationDamping,
				SourceID:  id,
				Kind:      domain.FactorVoiceActor,
			}, agg.Hours*relationDamping)
		}
	}

	if parent != nil && !removed.Has(SuppressParent) {
		// Parent exposure deliberately ignores the rewatch count.
		parentWeight := float64(parent.Media.Duration) * float64(parent.Progress) / 60.0
		t.add(domain.Factor{
			Name:      "Parent Recommendation: " + parent.Media.Title,
			Influence: parent.Score * parentWeight,
			SourceID:  parent.Media.ID,
			Kind:      domain.FactorParent,
		}, parentWeight)
	}

	rating := profiles.MeanScore
	if t.weight > 0 {
		rating += t.score / t.weight
	}

	return Prediction{
		Rating:  rating,
		Factors: normalizeFactors(t.factors, t.score),
	}
}

// normalizeFactors orders factors by raw influence, keeps the top ten
// and rewrites each influence as a rounded percentage of totalScore.
// The percentage is signed and deliberately unclamped: when totalScore
// is small or negative relative to one factor, individual percentages
// can exceed 100 or go negative.
func normalizeFactors(factors []domain.Factor, totalScore float64) []domain.Factor {
	sort.Slice(factors, func(i, j int) bool {
		return factors[i].Influence > factors[j].Influence
	})
	if len(factors) > maxFactors {
		factors = factors[:maxFactors]
	}
	for i := range factors {
		factors[i].Influence = math.Round(factors[i].Influence / totalScore * 100)
	}
	return factors
}
