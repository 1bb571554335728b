package prismic

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Ref is a content release pointer returned by the API root.
type Ref struct {
	ID          string `json:"id"`
	Ref         string `json:"ref"`
	Label       string `json:"label"`
	IsMasterRef bool   `json:"isMasterRef"`
}

// API describes the repository root endpoint response.
type API struct {
	Refs []Ref `json:"refs"`
}

// Master returns the master ref.
func (a API) Master() (string, bool) {
	for _, r := range a.Refs {
		if r.IsMasterRef {
			return r.Ref, true
		}
	}
	return "", false
}

// Document is a single search result. Data holds the custom type fields as raw JSON.
type Document struct {
	ID                 string          `json:"id"`
	UID                string          `json:"uid"`
	Type               string          `json:"type"`
	Lang               string          `json:"lang"`
	Tags               []string        `json:"tags"`
	FirstPublicationAt Timestamp       `json:"first_publication_date"`
	LastPublicationAt  Timestamp       `json:"last_publication_date"`
	Data               json.RawMessage `json:"data"`
}

// Response is one page of search results.
type Response struct {
	Page             int        `json:"page"`
	ResultsPerPage   int        `json:"results_per_page"`
	ResultsSize      int        `json:"results_size"`
	TotalResultsSize int        `json:"total_results_size"`
	TotalPages       int        `json:"total_pages"`
	NextPage         *string    `json:"next_page"`
	Results          []Document `json:"results"`
}

// QueryOptions narrow a search.
type QueryOptions struct {
	Fetch    []string
	PageSize int
}

const prismicTimeLayout = "2006-01-02T15:04:05-0700"

// Timestamp accepts Prismic's "+0000" offsets as well as RFC 3339.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range []string{prismicTimeLayout, time.RFC3339} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("timestamp: unsupported format %q", raw)
}
