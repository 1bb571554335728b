package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/claudiobarsante/ignews-rest/internal/config"
	"github.com/claudiobarsante/ignews-rest/internal/dateformat"
	"github.com/claudiobarsante/ignews-rest/internal/model"
	"github.com/claudiobarsante/ignews-rest/internal/pages"
	"github.com/claudiobarsante/ignews-rest/internal/posts"
	"github.com/claudiobarsante/ignews-rest/internal/prismic"
	"github.com/claudiobarsante/ignews-rest/internal/site"
)

const (
	conventionalContentDir = "content"
	conventionalLayoutsDir = "layouts"
	conventionalStaticDir  = "static"
)

// projectDirs locates the inputs of a build.
type projectDirs struct {
	content string
	layouts string
	static  string
}

var defaultDirs = projectDirs{
	content: conventionalContentDir,
	layouts: conventionalLayoutsDir,
	static:  conventionalStaticDir,
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Fetches posts and builds the static site",
	Long: `The build command queries the Prismic repository once for every post,
renders the posts listing to <outputDir>/posts/index.html, renders markdown
pages from './content/', copies './static/', and writes a build manifest.
The build fails if the posts cannot be fetched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := runBuildProcess(cmd.Context(), appConfig, siteParams, defaultDirs, log)
		return err
	},
}

func runBuildProcess(ctx context.Context, cfg config.Config, params map[string]interface{}, dirs projectDirs, log *slog.Logger) (*site.Manifest, error) {
	log.Info("starting build",
		slog.String("output_dir", cfg.OutputDir),
		slog.String("endpoint", cfg.Prismic.Endpoint),
		slog.String("locale", cfg.Locale),
	)

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	dates, err := dateformat.New(cfg.Locale, loc)
	if err != nil {
		return nil, err
	}

	client, err := prismic.New(cfg.Prismic.Endpoint,
		prismic.WithAccessToken(cfg.Prismic.AccessToken),
		prismic.WithHTTPClient(&http.Client{Timeout: cfg.Prismic.Timeout}),
		prismic.WithLogger(log),
	)
	if err != nil {
		return nil, fmt.Errorf("create prismic client: %w", err)
	}

	list, err := posts.NewLoader(client, dates, posts.WithLogger(log)).Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load posts: %w", err)
	}

	pageList, err := pages.NewCollector(log).Collect(dirs.content)
	if err != nil {
		return nil, err
	}

	data := &model.SiteData{
		Title:   cfg.SiteTitle,
		BaseURL: cfg.BaseURL,
		Lang:    dates.Locale(),
		Params:  params,
		Posts:   list,
		Pages:   pageList,
	}

	builder := site.NewBuilder(site.Options{
		OutputDir:  cfg.OutputDir,
		LayoutsDir: dirs.layouts,
		StaticDir:  dirs.static,
	}, log)
	return builder.Build(data)
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
