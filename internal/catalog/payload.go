package catalog

import "github.com/kaedema/anirec/internal/domain"

// Wire shapes for the GraphQL responses, flattened into domain types
// before they leave this package.

type listEntry struct {
	Score    float64      `json:"score"`
	Progress int          `json:"progress"`
	Repeat   int          `json:"repeat"`
	Status   string       `json:"status"`
	Media    mediaPayload `json:"media"`
}

type mediaPayload struct {
	ID    int64 `json:"id"`
	Title struct {
		Romaji string `json:"romaji"`
	} `json:"title"`
	Genres []string `json:"genres"`
	Tags   []struct {
		Name string `json:"name"`
		Rank int    `json:"rank"`
	} `json:"tags"`
	MeanScore  float64 `json:"meanScore"`
	Duration   int     `json:"duration"`
	Episodes   int     `json:"episodes"`
	CoverImage struct {
		Medium string `json:"medium"`
	} `json:"coverImage"`
	Staff struct {
		Edges []idEdge `json:"edges"`
	} `json:"staff"`
	Studios struct {
		Edges []idEdge `json:"edges"`
	} `json:"studios"`
	Characters struct {
		Edges []struct {
			VoiceActors []idNode `json:"voiceActors"`
		} `json:"edges"`
	} `json:"characters"`
	Recommendations struct {
		Nodes []struct {
			MediaRecommendation *idNode `json:"mediaRecommendation"`
			Rating              int     `json:"rating"`
		} `json:"nodes"`
	} `json:"recommendations"`
}

type idEdge struct {
	Node idNode `json:"node"`
}

type idNode struct {
	ID int64 `json:"id"`
}

func (e listEntry) toDomain() domain.HistoryEntry {
	return domain.HistoryEntry{
		Score:    e.Score,
		Progress: e.Progress,
		Repeat:   e.Repeat,
		Status:   domain.ListStatus(e.Status),
		Media:    e.Media.toDomain(),
	}
}

func (m mediaPayload) toDomain() domain.Media {
	media := domain.Media{
		ID:         m.ID,
		Title:      m.Title.Romaji,
		Genres:     m.Genres,
		MeanScore:  m.MeanScore,
		Duration:   m.Duration,
		Episodes:   m.Episodes,
		CoverImage: m.CoverImage.Medium,
	}
	for _, t := range m.Tags {
		media.Tags = append(media.Tags, domain.Tag{Name: t.Name, Rank: t.Rank})
	}
	for _, edge := range m.Staff.Edges {
		media.StaffIDs = append(media.StaffIDs, edge.Node.ID)
	}
	for _, edge := range m.Studios.Edges {
		media.StudioIDs = append(media.StudioIDs, edge.Node.ID)
	}
	for _, edge := range m.Characters.Edges {
		actors := make([]int64, 0, len(edge.VoiceActors))
		for _, va := range edge.VoiceActors {
			actors = append(actors, va.ID)
		}
		media.CharacterVoiceActors = append(media.CharacterVoiceActors, actors)
	}
	for _, node := range m.Recommendations.Nodes {
		if node.MediaRecommendation == nil || node.MediaRecommendation.ID == 0 {
			continue
		}
		media.Recommendations = append(media.Recommendations, domain.PeerRecommendation{
			MediaID: node.MediaRecommendation.ID,
			Rating:  node.Rating,
		})
	}
	return media
}
