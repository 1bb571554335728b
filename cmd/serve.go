package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
)

const debounceDuration = 500 * time.Millisecond

var serverPort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the site locally and rebuilds on changes",
	Long: `The serve command performs an initial build, then serves the output
directory and watches './content', './layouts' and './static', rebuilding the
site (including a fresh posts fetch) after each change.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		log.Info("performing initial build")
		if _, err := runBuildProcess(ctx, appConfig, siteParams, defaultDirs, log); err != nil {
			return fmt.Errorf("initial build failed: %w", err)
		}

		rb := &rebuilder{
			build: func() error {
				_, err := runBuildProcess(ctx, appConfig, siteParams, defaultDirs, log)
				return err
			},
			log: log,
		}

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("create file watcher: %w", err)
		}
		defer watcher.Close()

		for _, dir := range []string{defaultDirs.content, defaultDirs.layouts, defaultDirs.static} {
			watchTree(watcher, dir, log)
		}
		go watchLoop(ctx, watcher, rb, log)

		addr := fmt.Sprintf(":%d", serverPort)
		srv := &http.Server{
			Addr:              addr,
			Handler:           newServeRouter(appConfig.OutputDir),
			ReadHeaderTimeout: 5 * time.Second,
		}

		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error("server shutdown", slog.Any("err", err))
			}
		}()

		log.Info("serving site",
			slog.String("dir", appConfig.OutputDir),
			slog.String("url", "http://localhost"+addr),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	},
}

// newServeRouter serves dir without directory listings and with caching disabled.
func newServeRouter(dir string) http.Handler {
	files := http.FileServer(http.Dir(dir))

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(noCache)
	r.Get("/*", func(w http.ResponseWriter, req *http.Request) {
		if strings.HasSuffix(req.URL.Path, "/") && req.URL.Path != "/" {
			if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(req.URL.Path), "index.html")); err != nil {
				http.NotFound(w, req)
				return
			}
		}
		files.ServeHTTP(w, req)
	})
	return r
}

func noCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
		next.ServeHTTP(w, r)
	})
}

// rebuilder debounces change events into serialized rebuilds.
type rebuilder struct {
	build func() error
	log   *slog.Logger

	mu    sync.Mutex
	timer *time.Timer
	run   sync.Mutex
}

func (r *rebuilder) trigger(delay time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.timer != nil {
		r.timer.Stop()
	}
	r.timer = time.AfterFunc(delay, r.rebuild)
}

func (r *rebuilder) rebuild() {
	r.run.Lock()
	defer r.run.Unlock()

	r.log.Info("rebuilding site")
	if err := r.build(); err != nil {
		r.log.Error("rebuild failed, keeping previous output", slog.Any("err", err))
		return
	}
	r.log.Info("site rebuilt")
}

func watchLoop(ctx context.Context, watcher *fsnotify.Watcher, rb *rebuilder, log *slog.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			log.Debug("change detected", slog.String("path", event.Name), slog.String("op", event.Op.String()))

			if event.Has(fsnotify.Create) && isDir(event.Name) {
				if err := watcher.Add(event.Name); err != nil {
					log.Warn("watch new directory", slog.String("path", event.Name), slog.Any("err", err))
				}
			}
			rb.trigger(debounceDuration)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Warn("watcher error", slog.Any("err", err))
		}
	}
}

// watchTree adds root and all its subdirectories. Missing roots are skipped.
func watchTree(watcher *fsnotify.Watcher, root string, log *slog.Logger) {
	if !isDir(root) {
		log.Debug("directory not found, not watching", slog.String("dir", root))
		return
	}
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			log.Warn("walk", slog.String("path", path), slog.Any("err", err))
			return nil
		}
		if d.IsDir() {
			if err := watcher.Add(path); err != nil {
				log.Warn("watch directory", slog.String("path", path), slog.Any("err", err))
			}
		}
		return nil
	})
	if err != nil {
		log.Warn("walk watch tree", slog.String("dir", root), slog.Any("err", err))
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

func init() {
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 1313, "Port to serve the site on")
	rootCmd.AddCommand(serveCmd)
}
