package domain

// Tag is a catalog tag with a 0-100 relevance rank.
type Tag struct {
	Name string `json:"name"`
	Rank int    `json:"rank"`
}

// PeerRecommendation links a media entry to another title that the
// catalog community recommends alongside it.
type PeerRecommendation struct {
	MediaID int64 `json:"media_id"`
	Rating  int   `json:"rating"`
}

// Media is one catalog entry with the metadata the scoring engine
// attributes against.
type Media struct {
	ID         int64    `json:"id"`
	Title      string   `json:"title"`
	Genres     []string `json:"genres"`
	Tags       []Tag    `json:"tags"`
	MeanScore  float64  `json:"mean_score"`
	Duration   int      `json:"duration"` // minutes per episode
	Episodes   int      `json:"episodes"`
	CoverImage string   `json:"cover_image"`
	StaffIDs   []int64  `json:"staff_ids"`
	StudioIDs  []int64  `json:"studio_ids"`
	// One inner slice per character edge; only the first voice actor
	// of an edge counts toward scoring.
	CharacterVoiceActors [][]int64            `json:"character_voice_actors"`
	Recommendations      []PeerRecommendation `json:"recommendations"`
}
