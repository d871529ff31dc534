package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kaedema/anirec/internal/domain"
)

const userListBody = `{
  "data": {
    "MediaListCollection": {
      "lists": [
        {
          "entries": [
            {
              "score": 8,
              "progress": 12,
              "repeat": 1,
              "status": "COMPLETED",
              "media": {
                "id": 100,
                "title": {"romaji": "Cowboy Bebop"},
                "genres": ["Action", "Sci-Fi"],
                "tags": [{"name": "Space", "rank": 90}],
                "meanScore": 86,
                "duration": 24,
                "episodes": 26,
                "staff": {"edges": [{"node": {"id": 11}}]},
                "studios": {"edges": [{"node": {"id": 21}}]},
                "characters": {"edges": [{"voiceActors": [{"id": 31}, {"id": 32}]}]},
                "recommendations": {"nodes": [
                  {"mediaRecommendation": {"id": 200}, "rating": 120},
                  {"mediaRecommendation": null, "rating": 5}
                ]}
              }
            }
          ]
        }
      ]
    }
  }
}`

func TestUserList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		var req gqlRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Variables["username"] != "spiegel" {
			t.Errorf("expected username variable, got %v", req.Variables)
		}
		w.Write([]byte(userListBody))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	entries, err := client.UserList(context.Background(), "spiegel")
	if err != nil {
		t.Fatalf("UserList failed: %v", err)
	}

	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e.Score != 8 || e.Progress != 12 || e.Repeat != 1 || e.Status != domain.StatusCompleted {
		t.Errorf("entry fields wrong: %+v", e)
	}
	if e.Media.Title != "Cowboy Bebop" {
		t.Errorf("expected romaji title, got %q", e.Media.Title)
	}
	if len(e.Media.CharacterVoiceActors) != 1 || e.Media.CharacterVoiceActors[0][0] != 31 {
		t.Errorf("voice actor edges wrong: %v", e.Media.CharacterVoiceActors)
	}
	// Null mediaRecommendation nodes are dropped.
	if len(e.Media.Recommendations) != 1 || e.Media.Recommendations[0].MediaID != 200 {
		t.Errorf("recommendations wrong: %v", e.Media.Recommendations)
	}
	if e.Media.Recommendations[0].Rating != 120 {
		t.Errorf("expected peer rating 120, got %d", e.Media.Recommendations[0].Rating)
	}
}

func TestUserListEmptyStructure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {"MediaListCollection": null}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	entries, err := client.UserList(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("empty structure must not be an error, got %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty list, got %d entries", len(entries))
	}
}

func TestUserListQueryError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors": [{"message": "User not found"}]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	_, err := client.UserList(context.Background(), "ghost")
	if err == nil {
		t.Fatal("expected error for GraphQL errors array")
	}
	if !domain.IsCatalogError(err) {
		t.Errorf("expected CatalogError, got %T", err)
	}
}

func TestUserListTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	_, err := client.UserList(context.Background(), "spiegel")
	if !domain.IsCatalogError(err) {
		t.Errorf("expected CatalogError for HTTP 502, got %v", err)
	}
}

func TestMediaDetailsChunking(t *testing.T) {
	var calls int
	var sizes []int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		var req gqlRequest
		json.NewDecoder(r.Body).Decode(&req)
		ids := req.Variables["ids"].([]any)
		sizes = append(sizes, len(ids))
		w.Write([]byte(`{"data": {"Page": {"media": [{"id": 1, "title": {"romaji": "X"}}]}}}`))
	}))
	defer srv.Close()

	ids := make([]int64, 120)
	for i := range ids {
		ids[i] = int64(i + 1)
	}

	client := NewClient(srv.URL, 5*time.Second)
	media, err := client.MediaDetails(context.Background(), ids)
	if err != nil {
		t.Fatalf("MediaDetails failed: %v", err)
	}

	if calls != 3 {
		t.Errorf("expected 3 pages for 120 ids, got %d", calls)
	}
	if sizes[0] != 50 || sizes[1] != 50 || sizes[2] != 20 {
		t.Errorf("unexpected page sizes %v", sizes)
	}
	if len(media) != 3 {
		t.Errorf("expected pages concatenated, got %d media", len(media))
	}
}

func TestMediaDetailsEmptyIDs(t *testing.T) {
	client := NewClient("http://unused.invalid", time.Second)
	media, err := client.MediaDetails(context.Background(), nil)
	if err != nil {
		t.Fatalf("expected no call and no error for empty ids, got %v", err)
	}
	if len(media) != 0 {
		t.Errorf("expected no media, got %d", len(media))
	}
}
