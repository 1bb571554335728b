package site

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"strings"
)

// Layout names looked up when rendering.
const (
	BaseLayout  = "base.html"
	PostsLayout = "posts.html"
)

//go:embed layouts
var embedded embed.FS

// DefaultLayouts returns the layouts shipped with the binary.
func DefaultLayouts() fs.FS {
	sub, err := fs.Sub(embedded, "layouts")
	if err != nil {
		panic(fmt.Sprintf("embedded layouts: %v", err))
	}
	return sub
}

// LayoutsFS returns the project's layouts directory, or the embedded defaults when it does not exist.
func LayoutsFS(dir string) (fsys fs.FS, custom bool) {
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return os.DirFS(dir), true
	}
	return DefaultLayouts(), false
}

func isPartial(p string) bool {
	return strings.HasPrefix(p, "partials/")
}

// ParseLayouts parses base.html together with partials/*.html first, then every other layout.
func ParseLayouts(fsys fs.FS) (*template.Template, error) {
	var (
		hasBase  bool
		partials []string
		others   []string
	)
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".html") {
			return nil
		}
		switch {
		case p == BaseLayout:
			hasBase = true
		case isPartial(p):
			partials = append(partials, p)
		default:
			others = append(others, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("find layouts: %w", err)
	}
	if !hasBase {
		return nil, fmt.Errorf("%s not found at the layouts root", BaseLayout)
	}

	tmpl, err := template.ParseFS(fsys, append([]string{BaseLayout}, partials...)...)
	if err != nil {
		return nil, fmt.Errorf("parse %s and partials: %w", BaseLayout, err)
	}
	if len(others) > 0 {
		if tmpl, err = tmpl.ParseFS(fsys, others...); err != nil {
			return nil, fmt.Errorf("parse layouts: %w", err)
		}
	}
	return tmpl, nil
}
