package engine

import (
	"strings"
	"unicode"

	"github.com/kaedema/anirec/internal/domain"
)

// Aggregate accumulates a user's exposure to one profile key. During
// accumulation Score holds the running sum of (score - mean) * hours;
// finalize divides it by Hours, after which Score is the mean-centered,
// exposure-weighted preference strength for the key.
type Aggregate struct {
	Score float64 `json:"score"`
	Hours float64 `json:"hours"`
}

// LabelProfile keys aggregates by normalized genre or tag label.
type LabelProfile map[string]*Aggregate

// IDProfile keys aggregates by staff, studio or voice-actor id.
type IDProfile map[int64]*Aggregate

// ProfileSet is everything BuildProfiles derives from a watch history.
type ProfileSet struct {
	Genres      LabelProfile       `json:"genres"`
	Tags        LabelProfile       `json:"tags"`
	Staff       IDProfile          `json:"staff"`
	Studios     IDProfile          `json:"studios"`
	VoiceActors IDProfile          `json:"voice_actors"`
	MeanScore   float64            `json:"mean_score"`
	WatchedIDs  map[int64]struct{} `json:"-"`
}

// NormalizeLabel lowercases a label and strips all whitespace, so that
// labels differing only by case or spacing share a profile key.
func NormalizeLabel(label string) string {
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range strings.ToLower(label) {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (p LabelProfile) accumulate(key string, score, mean, hours float64) {
	agg, ok := p[key]
	if !ok {
		agg = &Aggregate{}
		p[key] = agg
	}
	agg.Score += (score - mean) * hours
	agg.Hours += hours
}

func (p IDProfile) accumulate(id int64, score, mean, hours float64) {
	agg, ok := p[id]
	if !ok {
		agg = &Aggregate{}
		p[id] = agg
	}
	agg.Score += (score - mean) * hours
	agg.Hours += hours
}

// BuildProfiles walks the filtered watch history once and produces the
// five dimension profiles plus the user's mean score and the set of
// already-watched media ids. Pure function of its input.
func BuildProfiles(history []domain.HistoryEntry) *ProfileSet {
	profiles := &ProfileSet{
		Genres:      LabelProfile{},
		Tags:        LabelProfile{},
		Staff:       IDProfile{},
		Studios:     IDProfile{},
		VoiceActors: IDProfile{},
		WatchedIDs:  make(map[int64]struct{}, len(history)),
	}

	var totalScore float64
	var rated int
	for _, entry := range history {
		if entry.Score > 0 {
			totalScore += entry.Score
			rated++
		}
	}
	if rated > 0 {
		profiles.MeanScore = totalScore / float64(rated)
	}

	for _, entry := range history {
		profiles.WatchedIDs[entry.Media.ID] = struct{}{}

		if entry.Score <= 0 {
			continue
		}

		watchHours := float64(entry.Media.Duration) * float64(entry.Progress) / 60.0
		exposure := watchHours * float64(entry.Repeat+1)

		for _, genre := range entry.Media.Genres {
			profiles.Genres.accumulate(NormalizeLabel(genre), entry.Score, profiles.MeanScore, exposure)
		}
		for _, tag := range entry.Media.Tags {
			profiles.Tags.accumulate(NormalizeLabel(tag.Name), entry.Score, profiles.MeanScore, exposure)
		}
		for _, id := range entry.Media.StaffIDs {
			profiles.Staff.accumulate(id, entry.Score, profiles.MeanScore, exposure)
		}
		for _, id := range entry.Media.StudioIDs {
			profiles.Studios.accumulate(id, entry.Score, profiles.MeanScore, exposure)
		}
		// Only the first voice actor of a character edge counts.
		for _, actors := range entry.Media.CharacterVoiceActors {
			if len(actors) > 0 {
				profiles.VoiceActors.accumulate(actors[0], entry.Score, profiles.MeanScore, exposure)
			}
		}
	}

	profiles.finalize()
	return profiles
}

// finalize converts every aggregate's running score sum into the
// exposure-weighted average. Keys only exist after an accumulation, so
// Hours is always positive here.
func (p *ProfileSet) finalize() {
	for _, agg := range p.Genres {
		agg.Score /= agg.Hours
	}
	for _, agg := range p.Tags {
		agg.Score /= agg.Hours
	}
	for _, agg := range p.Staff {
		agg.Score /= agg.Hours
	}
	for _, agg := range p.Studios {
		agg.Score /= agg.Hours
	}
	for _, agg := range p.VoiceActors {
		agg.Score /= agg.Hours
	}
}
