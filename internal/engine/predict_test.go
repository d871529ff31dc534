package engine

import (
	"fmt"
	"testing"

	"github.com/kaedema/anirec/internal/domain"
)

func testProfiles() *ProfileSet {
	return &ProfileSet{
		Genres: LabelProfile{
			"action": {Score: 1.5, Hours: 4},
		},
		Tags: LabelProfile{
			"timetravel": {Score: 2, Hours: 3},
		},
		Staff: IDProfile{
			7: {Score: 1, Hours: 6},
		},
		Studios: IDProfile{
			21: {Score: -0.5, Hours: 8},
		},
		VoiceActors: IDProfile{
			31: {Score: 0.5, Hours: 2},
		},
		MeanScore:  7,
		WatchedIDs: map[int64]struct{}{},
	}
}

func TestPredictNoMatches(t *testing.T) {
	candidate := domain.Media{
		ID:     500,
		Title:  "Unknown Show",
		Genres: []string{"Mecha"},
	}

	pred := Predict(candidate, testProfiles(), nil, NewRemovedFactors(), nil)

	if pred.Rating != 7 {
		t.Errorf("expected rating to fall back to mean score 7, got %f", pred.Rating)
	}
	if len(pred.Factors) != 0 {
		t.Errorf("expected no factors, got %v", pred.Factors)
	}
}

func TestPredictGenreMatch(t *testing.T) {
	candidate := domain.Media{
		ID:     500,
		Title:  "Action Show",
		Genres: []string{"Action"},
	}

	pred := Predict(candidate, testProfiles(), nil, NewRemovedFactors(), nil)

	// influence = 1.5 * 4 = 6, weight = 4, rating = 7 + 6/4
	if !almostEqual(pred.Rating, 8.5) {
		t.Errorf("expected rating 8.5, got %f", pred.Rating)
	}
	if len(pred.Factors) != 1 {
		t.Fatalf("expected 1 factor, got %d", len(pred.Factors))
	}
	f := pred.Factors[0]
	if f.Name != "Action" || f.Kind != domain.FactorGenre {
		t.Errorf("unexpected factor %+v", f)
	}
	// sole factor: 100% of total score
	if f.Influence != 100 {
		t.Errorf("expected influence 100%%, got %f", f.Influence)
	}
}

func TestPredictTagRankScaling(t *testing.T) {
	candidate := domain.Media{
		ID:    500,
		Title: "Tagged Show",
		Tags:  []domain.Tag{{Name: "Time Travel", Rank: 50}},
	}

	pred := Predict(candidate, testProfiles(), nil, NewRemovedFactors(), nil)

	// influence = 2 * 3 * 0.5 = 3, weight = 3 * 0.5 = 1.5
	if !almostEqual(pred.Rating, 7+3.0/1.5) {
		t.Errorf("expected rating 9, got %f", pred.Rating)
	}
}

func TestPredictRelationDamping(t *testing.T) {
	candidate := domain.Media{
		ID:       500,
		Title:    "Staffed Show",
		StaffIDs: []int64{7},
	}

	pred := Predict(candidate, testProfiles(), nil, NewRemovedFactors(), nil)

	// influence = 1 * 6 * 0.5 = 3, weight = 6 * 0.5 = 3, rating = 7 + 1
	if !almostEqual(pred.Rating, 8) {
		t.Errorf("expected rating 8, got %f", pred.Rating)
	}
	if pred.Factors[0].Name != "Staff ID: 7" {
		t.Errorf("expected synthesized staff name, got %q", pred.Factors[0].Name)
	}
	if pred.Factors[0].SourceID != 7 {
		t.Errorf("expected source id 7, got %d", pred.Factors[0].SourceID)
	}
}

func TestPredictStaffNameResolution(t *testing.T) {
	candidate := domain.Media{
		ID:       500,
		Title:    "Staffed Show",
		StaffIDs: []int64{7},
	}
	names := map[int64]string{7: "Yoko Kanno"}

	pred := Predict(candidate, testProfiles(), nil, NewRemovedFactors(), names)

	if pred.Factors[0].Name != "Yoko Kanno" {
		t.Errorf("expected resolved staff name, got %q", pred.Factors[0].Name)
	}
}

func TestPredictVoiceActorFirstOnly(t *testing.T) {
	candidate := domain.Media{
		ID:    500,
		Title: "Voiced Show",
		CharacterVoiceActors: [][]int64{
			{99, 31}, // 99 has no profile and 31 is not first, so no match
		},
	}

	pred := Predict(candidate, testProfiles(), nil, NewRemovedFactors(), nil)

	if len(pred.Factors) != 0 {
		t.Errorf("expected no factors when only a non-first actor matches, got %v", pred.Factors)
	}
}

func TestPredictParentIgnoresRewatch(t *testing.T) {
	candidate := domain.Media{ID: 500, Title: "Peer Show"}
	parent := &domain.HistoryEntry{
		Score:    9,
		Progress: 12,
		Repeat:   5,
		Media:    domain.Media{ID: 1, Title: "Parent Show", Duration: 24},
	}

	pred := Predict(candidate, testProfiles(), parent, NewRemovedFactors(), nil)

	// weight = 24 * 12 / 60 = 4.8 regardless of Repeat,
	// influence = 9 * 4.8, rating = 7 + 9
	if !almostEqual(pred.Rating, 16) {
		t.Errorf("expected rating 16, got %f", pred.Rating)
	}
	f := pred.Factors[0]
	if f.Kind != domain.FactorParent {
		t.Errorf("expected parent factor, got %+v", f)
	}
	if f.Name != "Parent Recommendation: Parent Show" {
		t.Errorf("unexpected parent factor name %q", f.Name)
	}
	if f.SourceID != 1 {
		t.Errorf("expected parent source id 1, got %d", f.SourceID)
	}
}

func TestPredictSuppression(t *testing.T) {
	candidate := domain.Media{
		ID:       500,
		Title:    "Action Show",
		Genres:   []string{"Action"},
		StaffIDs: []int64{7},
	}
	profiles := testProfiles()

	before := Predict(candidate, profiles, nil, NewRemovedFactors(), nil)

	removed := NewRemovedFactors()
	removed.Suppress(domain.Factor{Name: "Action", Kind: domain.FactorGenre})
	after := Predict(candidate, profiles, nil, removed, nil)

	if before.Rating == after.Rating {
		t.Error("expected suppression to change the rating")
	}
	for _, f := range after.Factors {
		if f.Name == "Action" {
			t.Error("suppressed genre still present in factors")
		}
	}

	// Relational suppression collapses the whole dimension.
	removed.Suppress(domain.Factor{Name: "Staff ID: 7", Kind: domain.FactorStaff})
	final := Predict(candidate, profiles, nil, removed, nil)
	if len(final.Factors) != 0 {
		t.Errorf("expected no factors after suppressing both dimensions, got %v", final.Factors)
	}
	if final.Rating != 7 {
		t.Errorf("expected rating to collapse to mean, got %f", final.Rating)
	}
}

func TestSuppressionMapping(t *testing.T) {
	removed := NewRemovedFactors()
	removed.Suppress(domain.Factor{Name: "Studio ID: 21", Kind: domain.FactorStudio})
	removed.Suppress(domain.Factor{Name: "Voice Actor ID: 31", Kind: domain.FactorVoiceActor})
	removed.Suppress(domain.Factor{Name: "Parent Recommendation: X", Kind: domain.FactorParent})
	removed.Suppress(domain.Factor{Name: "Time Travel", Kind: domain.FactorTag})

	for _, key := range []string{SuppressStudio, SuppressVoiceActor, SuppressParent, "Time Travel"} {
		if !removed.Has(key) {
			t.Errorf("expected suppression key %q", key)
		}
	}
	if removed.Has(SuppressStaff) {
		t.Error("staff must not be suppressed")
	}
}

func TestPredictTopTenFactors(t *testing.T) {
	genres := make([]string, 12)
	profiles := testProfiles()
	for i := range genres {
		genres[i] = fmt.Sprintf("Genre %d", i)
		profiles.Genres[NormalizeLabel(genres[i])] = &Aggregate{Score: float64(i + 1), Hours: 1}
	}
	candidate := domain.Media{ID: 500, Title: "Everything Show", Genres: genres}

	pred := Predict(candidate, profiles, nil, NewRemovedFactors(), nil)

	if len(pred.Factors) != 10 {
		t.Fatalf("expected factors capped at 10, got %d", len(pred.Factors))
	}
	// Descending by raw influence; highest-scoring genre first.
	if pred.Factors[0].Name != "Genre 11" {
		t.Errorf("expected Genre 11 first, got %q", pred.Factors[0].Name)
	}
	for i := 1; i < len(pred.Factors); i++ {
		if pred.Factors[i].Influence > pred.Factors[i-1].Influence {
			t.Errorf("factors not sorted at index %d", i)
		}
	}
}

func TestPredictSignedPercentages(t *testing.T) {
	// Two opposing factors nearly cancel: total score 6 - 4 = 2, so
	// the percentages are 300 and -200. Unclamped on purpose.
	profiles := &ProfileSet{
		Genres: LabelProfile{
			"up":   {Score: 3, Hours: 2},
			"down": {Score: -2, Hours: 2},
		},
		Tags:        LabelProfile{},
		Staff:       IDProfile{},
		Studios:     IDProfile{},
		VoiceActors: IDProfile{},
		MeanScore:   5,
	}
	candidate := domain.Media{ID: 500, Title: "Split Show", Genres: []string{"Up", "Down"}}

	pred := Predict(candidate, profiles, nil, NewRemovedFactors(), nil)

	if len(pred.Factors) != 2 {
		t.Fatalf("expected 2 factors, got %d", len(pred.Factors))
	}
	if pred.Factors[0].Influence != 300 {
		t.Errorf("expected +300%%, got %f", pred.Factors[0].Influence)
	}
	if pred.Factors[1].Influence != -200 {
		t.Errorf("expected -200%%, got %f", pred.Factors[1].Influence)
	}
}
