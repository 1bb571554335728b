package model

import "html/template"

// Post is the display projection of a CMS post used by the posts listing.
type Post struct {
	Slug      string
	Title     string
	Excerpt   string
	UpdatedAt string
}

// Href is the detail page path for the post.
func (p Post) Href() string {
	return "/posts/" + p.Slug
}

// Page represents a markdown page from the content directory (e.g. home, about).
type Page struct {
	Title       string
	SourcePath  string
	Permalink   string
	ContentHTML template.HTML
	Frontmatter map[string]interface{}
	Summary     string
	Layout      string
}

// SiteData holds all site-wide data handed to templates.
type SiteData struct {
	Title   string
	BaseURL string
	Lang    string
	Params  map[string]interface{}
	Posts   []Post
	Pages   []*Page
}
