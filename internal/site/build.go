package site

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/claudiobarsante/ignews-rest/internal/model"
)

const (
	// ManifestFile is written at the output root after every successful build.
	ManifestFile = "build.json"
	// PostsPermalink is where the posts listing is written. No markdown page may claim it.
	PostsPermalink = "/posts/"
)

// Options locate the build inputs and output.
type Options struct {
	OutputDir  string
	LayoutsDir string
	StaticDir  string
}

// Manifest describes one build.
type Manifest struct {
	BuildID   string    `json:"buildId"`
	BuiltAt   time.Time `json:"builtAt"`
	Posts     int       `json:"posts"`
	Pages     int       `json:"pages"`
	Layouts   string    `json:"layouts"`
	Generated []string  `json:"generated"`
}

// Builder writes a site to disk.
type Builder struct {
	opts Options
	log  *slog.Logger
	now  func() time.Time
}

// NewBuilder creates a Builder. A nil logger discards output.
func NewBuilder(opts Options, log *slog.Logger) *Builder {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Builder{opts: opts, log: log, now: time.Now}
}

// Build renders every page of the site into a staging directory and swaps it
// into the output directory only when the whole build succeeded.
func (b *Builder) Build(site *model.SiteData) (*Manifest, error) {
	for _, page := range site.Pages {
		if page.Permalink == PostsPermalink {
			return nil, fmt.Errorf("page %s: permalink %s is reserved for the posts listing", page.SourcePath, PostsPermalink)
		}
	}

	fsys, custom := LayoutsFS(b.opts.LayoutsDir)
	tmpl, err := ParseLayouts(fsys)
	if err != nil {
		return nil, err
	}
	r := NewRenderer(tmpl)

	manifest := &Manifest{
		BuildID: uuid.NewString(),
		BuiltAt: b.now().UTC(),
		Posts:   len(site.Posts),
		Pages:   len(site.Pages),
		Layouts: "embedded",
	}
	if custom {
		manifest.Layouts = b.opts.LayoutsDir
	}
	log := b.log.With(slog.String("build_id", manifest.BuildID))

	out := filepath.Clean(b.opts.OutputDir)
	if err := os.MkdirAll(filepath.Dir(out), os.ModePerm); err != nil {
		return nil, fmt.Errorf("create parent of %s: %w", out, err)
	}
	stage, err := os.MkdirTemp(filepath.Dir(out), "."+filepath.Base(out)+"-build-")
	if err != nil {
		return nil, fmt.Errorf("create staging directory: %w", err)
	}
	defer os.RemoveAll(stage)
	if err := os.Chmod(stage, 0o755); err != nil {
		return nil, fmt.Errorf("chmod staging directory: %w", err)
	}

	if info, err := os.Stat(b.opts.StaticDir); err == nil && info.IsDir() {
		if err := copyDirContents(b.opts.StaticDir, stage); err != nil {
			return nil, fmt.Errorf("copy static assets: %w", err)
		}
		log.Debug("static assets copied", slog.String("dir", b.opts.StaticDir))
	}

	postsRel := filepath.Join(filepath.FromSlash(PostsPermalink), "index.html")
	if err := writeFile(filepath.Join(stage, postsRel), func(w io.Writer) error { return r.RenderPosts(w, site) }); err != nil {
		return nil, err
	}
	manifest.Generated = append(manifest.Generated, filepath.Join(out, postsRel))

	for _, page := range site.Pages {
		pageRel := filepath.Join(filepath.FromSlash(page.Permalink), "index.html")
		if err := writeFile(filepath.Join(stage, pageRel), func(w io.Writer) error { return r.RenderPage(w, site, page) }); err != nil {
			return nil, err
		}
		manifest.Generated = append(manifest.Generated, filepath.Join(out, pageRel))
	}

	raw, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(stage, ManifestFile), raw, 0o644); err != nil {
		return nil, fmt.Errorf("write manifest: %w", err)
	}

	if err := swapDir(stage, out, manifest.BuildID); err != nil {
		return nil, err
	}

	log.Info("site built",
		slog.String("output", out),
		slog.Int("posts", manifest.Posts),
		slog.Int("pages", manifest.Pages),
		slog.String("layouts", manifest.Layouts),
	)
	return manifest, nil
}

// swapDir replaces out with the fully rendered stage directory. The previous
// output is only removed once the new one is in place.
func swapDir(stage, out, buildID string) error {
	old := ""
	if _, err := os.Lstat(out); err == nil {
		old = filepath.Join(filepath.Dir(out), "."+filepath.Base(out)+"-old-"+buildID)
		if err := os.Rename(out, old); err != nil {
			return fmt.Errorf("move previous output %s aside: %w", out, err)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat output directory %s: %w", out, err)
	}

	if err := os.Rename(stage, out); err != nil {
		if old != "" {
			_ = os.Rename(old, out)
		}
		return fmt.Errorf("move build into %s: %w", out, err)
	}

	if old != "" {
		if err := os.RemoveAll(old); err != nil {
			return fmt.Errorf("remove previous output %s: %w", old, err)
		}
	}
	return nil
}

func writeFile(path string, render func(w io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := render(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// copyDirContents recursively copies the contents of src into dst.
func copyDirContents(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return fmt.Errorf("relative path for %s: %w", path, err)
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			if err := os.MkdirAll(target, os.ModePerm); err != nil {
				return fmt.Errorf("create directory %s: %w", target, err)
			}
			return nil
		}
		if err := copyFile(path, target); err != nil {
			return fmt.Errorf("copy %s to %s: %w", path, target, err)
		}
		return nil
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
