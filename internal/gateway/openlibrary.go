package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"library-backend/internal/apperr"
)

type OpenLibrary struct {
	baseURL    string
	httpClient *http.Client
}

func NewOpenLibrary(baseURL string) (*OpenLibrary, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("open_library_api configuration is required")
	}
	return &OpenLibrary{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}, nil
}

// searchResponse matches search.json
type searchResponse struct {
	NumFound    int64 `json:"numFound"`
	NumFoundAlt int64 `json:"num_found"`
	Docs        []struct {
		Title       string   `json:"title"`
		AuthorNames []string `json:"author_name"`
	} `json:"docs"`
}

func (g *OpenLibrary) Search(ctx context.Context, q Query) (Result, error) {
	u := fmt.Sprintf("%s/search.json?q=%s&page=%d&limit=%d",
		g.baseURL, url.QueryEscape(q.Q), q.Page, q.Limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Result{}, apperr.ErrBadQuery("failed to search books")
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		// 上流固有のエラー形はこの境界から先へ漏らさない
		log.Printf("open library request failed: %v", err)
		return Result{}, apperr.ErrBadQuery("failed to search books")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		log.Printf("open library returned status %d", resp.StatusCode)
		return Result{}, apperr.ErrUpstreamUnavailable("open library api is unavailable")
	}
	if resp.StatusCode != http.StatusOK {
		log.Printf("open library returned status %d", resp.StatusCode)
		return Result{}, apperr.ErrBadQuery("failed to search books")
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		log.Printf("open library response decode failed: %v", err)
		return Result{}, apperr.ErrBadQuery("failed to search books")
	}

	docs := make([]Doc, 0, len(body.Docs))
	for _, d := range body.Docs {
		doc := Doc{Title: d.Title}
		if doc.Title == "" {
			doc.Title = "Unknown Title"
		}
		if len(d.AuthorNames) > 0 {
			a := d.AuthorNames[0]
			doc.Author = &a
		}
		docs = append(docs, doc)
	}

	total := body.NumFound
	if total == 0 {
		total = body.NumFoundAlt
	}
	return Result{Docs: docs, Total: total}, nil
}
