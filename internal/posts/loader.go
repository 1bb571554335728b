// Package posts loads the posts listing from the content source and projects
// each document into the fields the listing page displays.
package posts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/claudiobarsante/ignews-rest/internal/model"
	"github.com/claudiobarsante/ignews-rest/internal/prismic"
	"github.com/claudiobarsante/ignews-rest/internal/richtext"
)

const (
	// DocumentType is the custom type queried for the listing.
	DocumentType = "post"
	// PageSize is the single page of results requested per build.
	PageSize = 100
)

// Fields restricts the query to the fields the listing needs.
var Fields = []string{"post.title", "post.content"}

// Source runs a query against the content source.
type Source interface {
	Query(ctx context.Context, predicates []prismic.Predicate, opts prismic.QueryOptions) (*prismic.Response, error)
}

// DateFormatter renders a publication timestamp for display.
type DateFormatter interface {
	Long(t time.Time) string
}

// Flattener turns a rich-text field into plain text.
type Flattener func(blocks []richtext.Block) string

// Loader fetches and projects posts. It holds no state between calls.
type Loader struct {
	source  Source
	dates   DateFormatter
	flatten Flattener
	log     *slog.Logger
}

// Option customises a Loader.
type Option func(*Loader)

// WithFlattener replaces richtext.AsText.
func WithFlattener(f Flattener) Option {
	return func(l *Loader) { l.flatten = f }
}

// WithLogger attaches a logger.
func WithLogger(log *slog.Logger) Option {
	return func(l *Loader) { l.log = log }
}

// NewLoader creates a Loader reading from source and formatting dates with dates.
func NewLoader(source Source, dates DateFormatter, opts ...Option) *Loader {
	l := &Loader{
		source:  source,
		dates:   dates,
		flatten: richtext.AsText,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.log == nil {
		l.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return l
}

type postData struct {
	Title   []richtext.Block `json:"title"`
	Content []richtext.Block `json:"content"`
}

// Load issues one query for every post and returns them in the order the content
// source returned them. Any failure yields a *ContentFetchError and no posts.
func (l *Loader) Load(ctx context.Context) ([]model.Post, error) {
	resp, err := l.source.Query(ctx,
		[]prismic.Predicate{prismic.At("document.type", DocumentType)},
		prismic.QueryOptions{Fetch: Fields, PageSize: PageSize},
	)
	if err != nil {
		return nil, &ContentFetchError{Op: "query", Err: err}
	}
	if resp == nil {
		return nil, &ContentFetchError{Op: "query", Err: errors.New("empty response")}
	}

	posts := make([]model.Post, 0, len(resp.Results))
	for i, doc := range resp.Results {
		post, err := l.project(doc)
		if err != nil {
			return nil, &ContentFetchError{Op: fmt.Sprintf("decode document %d", i), Err: err}
		}
		posts = append(posts, post)
	}

	if resp.NextPage != nil {
		l.log.Warn("more posts available than one page",
			slog.Int("page_size", PageSize),
			slog.Int("total", resp.TotalResultsSize),
		)
	}
	l.log.Info("posts loaded", slog.Int("count", len(posts)))
	return posts, nil
}

func (l *Loader) project(doc prismic.Document) (model.Post, error) {
	if doc.UID == "" {
		return model.Post{}, fmt.Errorf("document %q has no uid", doc.ID)
	}
	if doc.LastPublicationAt.IsZero() {
		return model.Post{}, fmt.Errorf("document %q has no last publication date", doc.UID)
	}

	var data postData
	if len(doc.Data) > 0 {
		if err := json.Unmarshal(doc.Data, &data); err != nil {
			return model.Post{}, fmt.Errorf("document %q data: %w", doc.UID, err)
		}
	}

	excerpt := ""
	if b, ok := richtext.FirstOfType(data.Content, richtext.TypeParagraph); ok {
		excerpt = b.Text
	}

	return model.Post{
		Slug:      doc.UID,
		Title:     l.flatten(data.Title),
		Excerpt:   excerpt,
		UpdatedAt: l.dates.Long(doc.LastPublicationAt.Time),
	}, nil
}
