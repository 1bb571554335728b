// Package site renders the static output: the posts listing, markdown pages,
// static assets and a build manifest.
package site

import (
	"fmt"
	"html/template"
	"io"

	"github.com/claudiobarsante/ignews-rest/internal/model"
)

// Renderer executes parsed layouts.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer wraps a parsed layout set.
func NewRenderer(tmpl *template.Template) *Renderer {
	return &Renderer{tmpl: tmpl}
}

// PostsTitle is the document title of the posts listing.
func PostsTitle(site *model.SiteData) string {
	return "Posts | " + site.Title
}

// RenderPosts writes the posts listing page.
func (r *Renderer) RenderPosts(w io.Writer, site *model.SiteData) error {
	if r.tmpl.Lookup(PostsLayout) == nil {
		return fmt.Errorf("layout %s not found", PostsLayout)
	}
	data := model.PageData{Site: site, PageTitle: PostsTitle(site)}
	if err := r.tmpl.ExecuteTemplate(w, PostsLayout, data); err != nil {
		return fmt.Errorf("execute %s: %w", PostsLayout, err)
	}
	return nil
}

// LayoutFor picks the page's front matter layout when it exists, else base.html.
func (r *Renderer) LayoutFor(page *model.Page) string {
	if page.Layout != "" && r.tmpl.Lookup(page.Layout) != nil {
		return page.Layout
	}
	return BaseLayout
}

// RenderPage writes a markdown page.
func (r *Renderer) RenderPage(w io.Writer, site *model.SiteData, page *model.Page) error {
	layout := r.LayoutFor(page)
	title := page.Title
	if site.Title != "" {
		title += " | " + site.Title
	}
	data := model.PageData{Site: site, PageTitle: title, Page: page}
	if err := r.tmpl.ExecuteTemplate(w, layout, data); err != nil {
		return fmt.Errorf("execute %s for %s: %w", layout, page.Permalink, err)
	}
	return nil
}
