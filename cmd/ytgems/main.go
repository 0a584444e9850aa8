// Package main provides the ytgems CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rajibul-dev/find-youtube-gems/internal/config"
	"github.com/rajibul-dev/find-youtube-gems/internal/display"
	"github.com/rajibul-dev/find-youtube-gems/internal/keypool"
	"github.com/rajibul-dev/find-youtube-gems/internal/ranker"
	"github.com/rajibul-dev/find-youtube-gems/internal/votes"
	"github.com/rajibul-dev/find-youtube-gems/internal/youtube"
	"github.com/rajibul-dev/find-youtube-gems/pkg/browser"
)

// version is injected via -ldflags "-X main.version=v1.2.3".
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveVersion prefers the ldflags-injected version and falls back to the
// module version recorded by `go install`.
func resolveVersion(ldflagsVersion string, info *debug.BuildInfo) string {
	if ldflagsVersion != "dev" {
		return ldflagsVersion
	}
	if info == nil || info.Main.Version == "" || info.Main.Version == "(devel)" {
		return "dev"
	}
	return info.Main.Version
}

func buildInfo() *debug.BuildInfo {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return nil
	}
	return info
}

// newRootCmd creates the root command for the ytgems CLI.
func newRootCmd() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:     "ytgems",
		Short:   "Find hidden gems in YouTube search results",
		Long:    "ytgems searches YouTube and re-ranks the results by an engagement-based quality score built from like/dislike ratios, vote confidence, and view counts.",
		Version: resolveVersion(version, buildInfo()),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := zerolog.WarnLevel
			if verbose {
				level = zerolog.DebugLevel
			}
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).Level(level)
		},
	}

	rootCmd.SetVersionTemplate("ytgems version {{.Version}}\n")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(newRankCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// newRankCmd creates the rank subcommand.
func newRankCmd() *cobra.Command {
	var (
		limit    int
		fetch    int
		minLikes int64
		openTop  bool
	)

	cmd := &cobra.Command{
		Use:   "rank <query>",
		Short: "Search YouTube and rank the results by quality score",
		Long:  "Search YouTube for a query, fetch vote and metadata for every result, and print the videos ranked best-first.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// .env is optional; real environment variables win over it.
			_ = godotenv.Load()
			cfg := config.FromEnv()

			if fetch > 0 {
				cfg.TotalVideos = fetch
			}
			if cmd.Flags().Changed("min-likes") {
				cfg.MinLikes = minLikes
			}

			if len(cfg.APIKeys) == 0 {
				return fmt.Errorf("no API keys configured: set YTGEMS_API_KEYS (comma-separated) or add it to a .env file")
			}

			query := strings.Join(args, " ")

			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			pool := keypool.New(cfg.APIKeys)
			ytClient := youtube.NewClient(pool, youtube.WithBaseURL(cfg.APIBaseURL))
			voteClient := votes.NewClient(votes.WithBaseURL(cfg.VotesBaseURL))

			gems := ranker.New(ytClient, voteClient, ranker.Options{
				TotalVideos:         cfg.TotalVideos,
				PageSize:            cfg.PageSize,
				MinLikes:            cfg.MinLikes,
				FullConfidenceLikes: cfg.FullConfidenceLikes,
			})

			fmt.Fprintf(cmd.ErrOrStderr(), "Searching for %q...\n", query)
			ranked, err := gems.Rank(ctx, query)
			if err != nil {
				return fmt.Errorf("ranking failed: %w", err)
			}

			if limit > 0 && len(ranked) > limit {
				ranked = ranked[:limit]
			}

			formatter := display.NewTerminalFormatter()
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRanking(ranked))

			if openTop && len(ranked) > 0 {
				if err := browser.Open(ranked[0].URL); err != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "Could not open browser. Top result:\n%s\n", ranked[0].URL)
				}
			}

			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "Maximum number of videos to display (0 = all)")
	cmd.Flags().IntVar(&fetch, "fetch", 0, "How many search results to fetch before ranking")
	cmd.Flags().Int64Var(&minLikes, "min-likes", config.DefaultMinLikes, "Drop videos with fewer likes")
	cmd.Flags().BoolVarP(&openTop, "open", "o", false, "Open the top-ranked video in the browser")

	return cmd
}

// newConfigCmd creates the config subcommand.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long:  "Show the configuration ytgems resolves from the environment and .env file.",
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()
			cfg := config.FromEnv()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "API keys configured: %d\n", len(cfg.APIKeys))
			fmt.Fprintf(out, "YouTube API URL:     %s\n", cfg.APIBaseURL)
			fmt.Fprintf(out, "Votes API URL:       %s\n", cfg.VotesBaseURL)
			fmt.Fprintf(out, "Videos to fetch:     %d\n", cfg.TotalVideos)
			fmt.Fprintf(out, "Page size:           %d\n", cfg.PageSize)
			fmt.Fprintf(out, "Minimum likes:       %d\n", cfg.MinLikes)
			fmt.Fprintf(out, "Full confidence at:  %d likes\n", cfg.FullConfidenceLikes)
			return nil
		},
	}

	return cmd
}
