package domain

// FactorKind classifies which attribution axis produced a factor.
type FactorKind string

const (
	FactorGenre      FactorKind = "genre"
	FactorTag        FactorKind = "tag"
	FactorStaff      FactorKind = "staff"
	FactorStudio     FactorKind = "studio"
	FactorVoiceActor FactorKind = "voiceActor"
	FactorParent     FactorKind = "parent"
)

// Factor is one contribution to a predicted rating. Influence is raw
// while a prediction is being assembled and is rewritten to a signed
// percentage of the total score before the factor is returned.
type Factor struct {
	Name      string     `json:"name"`
	Influence float64    `json:"influence"`
	SourceID  int64      `json:"source_id,omitempty"`
	Kind      FactorKind `json:"kind"`
}

// ScoredCandidate is one ranked recommendation. Lists of these are
// rebuilt wholesale on every scoring pass, never mutated in place.
type ScoredCandidate struct {
	ID              int64    `json:"id"`
	Title           string   `json:"title"`
	PredictedRating float64  `json:"predicted_rating"`
	CoverImage      string   `json:"cover_image"`
	Factors         []Factor `json:"factors"`
	PeerRating      int      `json:"peer_rating"`
}
