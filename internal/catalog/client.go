package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/kaedema/anirec/internal/domain"
)

// The detail query is paged; the catalog serves at most this many
// entries per page.
const detailPageSize = 50

const userListQuery = `query ($username: String!) {
  MediaListCollection(userName: $username, type: ANIME) {
    lists {
      entries {
        score
        progress
        repeat
        status
        media {
          id
          title { romaji }
          genres
          tags { name rank }
          meanScore
          duration
          episodes
          staff { edges { node { id } } }
          studios { edges { node { id } } }
          characters { edges { voiceActors { id } } }
          recommendations(sort: RATING_DESC, page: 1, perPage: 5) {
            nodes {
              mediaRecommendation { id }
              rating
            }
          }
        }
      }
    }
  }
}`

const mediaDetailsQuery = `query ($ids: [Int]) {
  Page(page: 1, perPage: 50) {
    media(id_in: $ids, type: ANIME) {
      id
      title { romaji }
      genres
      tags { name rank }
      meanScore
      coverImage { medium }
      staff { edges { node { id } } }
      studios { edges { node { id } } }
      characters { edges { voiceActors { id } } }
    }
  }
}`

// Client talks to an AniList-compatible GraphQL endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type gqlError struct {
	Message string `json:"message"`
}

// UserList fetches the user's full anime list. A missing or empty list
// structure is an empty result, not an error; transport and query
// failures surface as *domain.CatalogError.
func (c *Client) UserList(ctx context.Context, username string) ([]domain.HistoryEntry, error) {
	var resp struct {
		Data struct {
			MediaListCollection struct {
				Lists []struct {
					Entries []listEntry `json:"entries"`
				} `json:"lists"`
			} `json:"MediaListCollection"`
		} `json:"data"`
		Errors []gqlError `json:"errors"`
	}

	vars := map[string]any{"username": username}
	if err := c.do(ctx, "user list", userListQuery, vars, &resp); err != nil {
		return nil, err
	}
	if len(resp.Errors) > 0 {
		return nil, &domain.CatalogError{Op: "user list", Err: fmt.Errorf("query error: %s", resp.Errors[0].Message)}
	}

	var entries []domain.HistoryEntry
	for _, list := range resp.Data.MediaListCollection.Lists {
		for _, e := range list.Entries {
			entries = append(entries, e.toDomain())
		}
	}
	return entries, nil
}

// MediaDetails fetches candidate details, chunking the id list to the
// catalog's page size and concatenating the pages in order.
func (c *Client) MediaDetails(ctx context.Context, ids []int64) ([]domain.Media, error) {
	var media []domain.Media
	for start := 0; start < len(ids); start += detailPageSize {
		end := start + detailPageSize
		if end > len(ids) {
			end = len(ids)
		}
		page, err := c.mediaDetailsPage(ctx, ids[start:end])
		if err != nil {
			return nil, err
		}
		media = append(media, page...)
	}
	return media, nil
}

func (c *Client) mediaDetailsPage(ctx context.Context, ids []int64) ([]domain.Media, error) {
	var resp struct {
		Data struct {
			Page struct {
				Media []mediaPayload `json:"media"`
			} `json:"Page"`
		} `json:"data"`
		Errors []gqlError `json:"errors"`
	}

	vars := map[string]any{"ids": ids}
	if err := c.do(ctx, "media details", mediaDetailsQuery, vars, &resp); err != nil {
		return nil, err
	}
	if len(resp.Errors) > 0 {
		return nil, &domain.CatalogError{Op: "media details", Err: fmt.Errorf("query error: %s", resp.Errors[0].Message)}
	}

	media := make([]domain.Media, 0, len(resp.Data.Page.Media))
	for _, m := range resp.Data.Page.Media {
		media = append(media, m.toDomain())
	}
	return media, nil
}

func (c *Client) do(ctx context.Context, op, query string, vars map[string]any, out any) error {
	body, err := json.Marshal(gqlRequest{Query: query, Variables: vars})
	if err != nil {
		return &domain.CatalogError{Op: op, Err: fmt.Errorf("marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return &domain.CatalogError{Op: op, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domain.CatalogError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &domain.CatalogError{Op: op, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.CatalogError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
