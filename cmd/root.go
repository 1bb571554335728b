package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/claudiobarsante/ignews-rest/internal/config"
	"github.com/claudiobarsante/ignews-rest/internal/logger"
)

var (
	cfgFile    string
	verbose    bool
	appConfig  config.Config
	siteParams map[string]interface{}
	log        = logger.New("ignews", "info")
)

var rootCmd = &cobra.Command{
	Use:   "ignews",
	Short: "Static builder for the ignews posts page",
	Long: `ignews fetches every post from the Prismic repository at build time
and renders the posts listing, together with any markdown pages under
./content, into a static site.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func initializeConfig(_ *cobra.Command) error {
	cfg, used, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	log = logger.New("ignews", level)

	if used != "" {
		log.Info("using config file", slog.String("path", used))
	} else {
		log.Info("no config file found, using defaults and IGNEWS_* environment variables")
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	params, err := config.LoadParams(used)
	if err != nil {
		return err
	}

	appConfig = *cfg
	siteParams = params
	return nil
}
