// Package pages collects the site's markdown pages (home, about...) from the content directory.
package pages

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/claudiobarsante/ignews-rest/internal/model"
)

// Collector converts markdown files into pages.
type Collector struct {
	md    goldmark.Markdown
	title cases.Caser
	log   *slog.Logger
}

// NewCollector creates a Collector. A nil logger discards output.
func NewCollector(log *slog.Logger) *Collector {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Collector{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(
				gmhtml.WithHardWraps(),
			),
		),
		title: cases.Title(language.English),
		log:   log,
	}
}

// Collect walks dir for .md files. A missing dir yields no pages.
func (c *Collector) Collect(dir string) ([]*model.Page, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		c.log.Debug("content directory not found, skipping pages", slog.String("dir", dir))
		return nil, nil
	}

	var pages []*model.Page
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return fmt.Errorf("access %s: %w", path, walkErr)
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return fmt.Errorf("relative path for %s: %w", path, err)
		}

		page, err := c.Parse(rel, raw)
		if err != nil {
			return err
		}
		page.SourcePath = path
		pages = append(pages, page)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("collect pages: %w", err)
	}

	c.log.Info("pages collected", slog.Int("count", len(pages)))
	return pages, nil
}

// Parse converts one markdown document whose path relative to the content root is rel.
func (c *Collector) Parse(rel string, raw []byte) (*model.Page, error) {
	var fm map[string]interface{}
	body, err := frontmatter.Parse(bytes.NewReader(raw), &fm)
	if err != nil {
		c.log.Warn("could not parse front matter, treating as plain markdown",
			slog.String("path", rel), slog.Any("err", err))
		body = raw
		fm = nil
	}
	if fm == nil {
		fm = make(map[string]interface{})
	}

	var html bytes.Buffer
	if err := c.md.Convert(body, &html); err != nil {
		return nil, fmt.Errorf("convert %s: %w", rel, err)
	}

	page := &model.Page{
		Title:       c.pageTitle(rel, fm),
		Permalink:   Permalink(rel),
		ContentHTML: template.HTML(html.String()),
		Frontmatter: fm,
	}
	if summary, ok := fm["summary"].(string); ok {
		page.Summary = summary
	}
	if layout, ok := fm["layout"].(string); ok {
		page.Layout = layout
	}
	return page, nil
}

func (c *Collector) pageTitle(rel string, fm map[string]interface{}) string {
	if title, ok := fm["title"].(string); ok && title != "" {
		return title
	}
	base := strings.TrimSuffix(filepath.Base(rel), filepath.Ext(rel))
	base = strings.NewReplacer("-", " ", "_", " ").Replace(base)
	return c.title.String(base)
}

// Permalink maps a content-relative path to its URL: about/team.md -> /about/team/.
// index.md files map to their directory.
func Permalink(rel string) string {
	p := filepath.ToSlash(strings.TrimSuffix(rel, filepath.Ext(rel)))
	if p == "index" {
		return "/"
	}
	p = strings.TrimSuffix(p, "/index")
	return "/" + strings.Trim(p, "/") + "/"
}
