package site_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/claudiobarsante/ignews-rest/internal/model"
	"github.com/claudiobarsante/ignews-rest/internal/pages"
	"github.com/claudiobarsante/ignews-rest/internal/site"
)

func TestBuildWritesSite(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(root, "public")
	static := filepath.Join(root, "static")

	require.NoError(t, os.MkdirAll(filepath.Join(static, "images"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(static, "styles.css"), []byte("body{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(static, "images", "logo.svg"), []byte("<svg/>"), 0o644))

	require.NoError(t, os.MkdirAll(out, 0o755))
	stale := filepath.Join(out, "stale.html")
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0o644))

	data := sampleSite()
	data.Pages = []*model.Page{
		{Title: "Home", Permalink: "/", ContentHTML: "<p>home</p>"},
		{Title: "Sobre", Permalink: "/about/", ContentHTML: "<p>about</p>"},
	}

	b := site.NewBuilder(site.Options{
		OutputDir:  out,
		LayoutsDir: filepath.Join(root, "layouts"),
		StaticDir:  static,
	}, nil)

	manifest, err := b.Build(data)
	require.NoError(t, err)

	require.NoFileExists(t, stale)
	require.FileExists(t, filepath.Join(out, "styles.css"))
	require.FileExists(t, filepath.Join(out, "images", "logo.svg"))
	require.FileExists(t, filepath.Join(out, "index.html"))
	require.FileExists(t, filepath.Join(out, "about", "index.html"))

	postsHTML, err := os.ReadFile(filepath.Join(out, "posts", "index.html"))
	require.NoError(t, err)
	require.Contains(t, string(postsHTML), `href="/posts/react-hooks"`)

	require.Equal(t, 2, manifest.Posts)
	require.Equal(t, 2, manifest.Pages)
	require.Equal(t, "embedded", manifest.Layouts)
	require.Len(t, manifest.Generated, 3)
	_, err = uuid.Parse(manifest.BuildID)
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(out, site.ManifestFile))
	require.NoError(t, err)
	var onDisk site.Manifest
	require.NoError(t, json.Unmarshal(raw, &onDisk))
	require.Equal(t, manifest.BuildID, onDisk.BuildID)
}

func TestBuildUsesProjectLayouts(t *testing.T) {
	root := t.TempDir()
	layouts := filepath.Join(root, "layouts")
	require.NoError(t, os.MkdirAll(layouts, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(layouts, "base.html"), []byte("base"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(layouts, "posts.html"), []byte(`{{len .Site.Posts}} posts`), 0o644))

	out := filepath.Join(root, "public")
	manifest, err := site.NewBuilder(site.Options{OutputDir: out, LayoutsDir: layouts}, nil).Build(sampleSite())
	require.NoError(t, err)
	require.Equal(t, layouts, manifest.Layouts)

	got, err := os.ReadFile(filepath.Join(out, "posts", "index.html"))
	require.NoError(t, err)
	require.Equal(t, "2 posts", string(got))
}

func TestBuildFailsOnBrokenLayouts(t *testing.T) {
	root := t.TempDir()
	layouts := filepath.Join(root, "layouts")
	require.NoError(t, os.MkdirAll(layouts, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(layouts, "posts.html"), []byte("no base"), 0o644))

	out := filepath.Join(root, "public")
	_, err := site.NewBuilder(site.Options{OutputDir: out, LayoutsDir: layouts}, nil).Build(sampleSite())
	require.Error(t, err)
	require.NoDirExists(t, out)
}

func TestBuildRejectsPageOnPostsPath(t *testing.T) {
	for _, rel := range []string{"posts.md", "posts/index.md"} {
		t.Run(rel, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "public")
			data := sampleSite()
			data.Pages = []*model.Page{{Title: "Posts", SourcePath: rel, Permalink: pages.Permalink(rel)}}

			_, err := site.NewBuilder(site.Options{OutputDir: out}, nil).Build(data)
			require.ErrorContains(t, err, site.PostsPermalink)
			require.NoDirExists(t, out)
		})
	}
}

func TestBuildFailureKeepsPreviousOutput(t *testing.T) {
	root := t.TempDir()
	layouts := filepath.Join(root, "layouts")
	out := filepath.Join(root, "public")
	require.NoError(t, os.MkdirAll(layouts, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(layouts, "base.html"), []byte("base"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(layouts, "posts.html"), []byte(`{{range .Site.Posts}}[{{.Href}}]{{end}}`), 0o644))

	b := site.NewBuilder(site.Options{OutputDir: out, LayoutsDir: layouts}, nil)
	first, err := b.Build(sampleSite())
	require.NoError(t, err)

	postsPath := filepath.Join(out, "posts", "index.html")
	before, err := os.ReadFile(postsPath)
	require.NoError(t, err)
	require.Equal(t, "[/posts/react-hooks][/posts/sem-resumo]", string(before))

	require.NoError(t, os.WriteFile(filepath.Join(layouts, "posts.html"), []byte(`{{.Nope}}`), 0o644))
	_, err = b.Build(sampleSite())
	require.ErrorContains(t, err, "Nope")

	after, err := os.ReadFile(postsPath)
	require.NoError(t, err)
	require.Equal(t, string(before), string(after))

	raw, err := os.ReadFile(filepath.Join(out, site.ManifestFile))
	require.NoError(t, err)
	var manifest site.Manifest
	require.NoError(t, json.Unmarshal(raw, &manifest))
	require.Equal(t, first.BuildID, manifest.BuildID)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	require.ElementsMatch(t, []string{"layouts", "public"}, names)
}

func TestBuildReplacesPreviousOutput(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(root, "public")
	b := site.NewBuilder(site.Options{OutputDir: out}, nil)

	first, err := b.Build(sampleSite())
	require.NoError(t, err)
	second, err := b.Build(&model.SiteData{Title: "ignews"})
	require.NoError(t, err)
	require.NotEqual(t, first.BuildID, second.BuildID)

	html, err := os.ReadFile(filepath.Join(out, "posts", "index.html"))
	require.NoError(t, err)
	require.NotContains(t, string(html), "react-hooks")
	require.Equal(t, []string{filepath.Join(out, "posts", "index.html")}, second.Generated)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}
