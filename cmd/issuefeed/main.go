// Package main provides the issuefeed CLI entry point.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"issuefeed/internal/config"
	"issuefeed/internal/extract"
	"issuefeed/internal/feed"
	"issuefeed/internal/flaresolverr"
)

var version = "dev"

// Channel-level feed metadata. The channel link is the scraped page itself.
const (
	feedTitle       = "Scientific American - Latest Issue"
	feedDescription = "Latest articles from Scientific American magazine"
	feedLanguage    = "en-us"
	fallbackAuthor  = "Scientific American"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd creates the root command for the issuefeed CLI.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "issuefeed",
		Short:   "Generate an RSS feed from a magazine's latest-issue page",
		Long:    "Issuefeed fetches the latest-issue page through a FlareSolverr proxy, extracts article metadata from the page's structured data, and writes an RSS feed file, merging against the previously generated feed.",
		Version: resolveVersion(version, readBuildInfo()),
	}

	rootCmd.SetVersionTemplate("issuefeed version {{.Version}}\n")

	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// newGenerateCmd creates the generate subcommand, the whole pipeline:
// fetch -> extract -> merge -> write.
func newGenerateCmd() *cobra.Command {
	var (
		output     string
		pageURL    string
		solverURL  string
		timeout    time.Duration
		maxEntries int
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Fetch the latest issue and write the RSS feed",
		Long:  "Fetch the latest-issue page via FlareSolverr, extract articles, merge with the previous feed, and overwrite the output file. The output file is untouched when any step fails.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("output") {
				cfg.OutputPath = output
			}
			if cmd.Flags().Changed("page-url") {
				cfg.PageURL = pageURL
			}
			if cmd.Flags().Changed("solver-url") {
				cfg.SolverURL = solverURL
			}
			if cmd.Flags().Changed("timeout") {
				cfg.Timeout = timeout
			}
			if cmd.Flags().Changed("max-entries") {
				cfg.MaxEntries = maxEntries
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			newCount, total, err := runGenerate(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s: %d articles (%d new)\n", cfg.OutputPath, total, newCount)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", config.DefaultOutputPath, "Output feed file path")
	cmd.Flags().StringVar(&pageURL, "page-url", config.DefaultPageURL, "Latest-issue page URL to scrape")
	cmd.Flags().StringVar(&solverURL, "solver-url", config.DefaultSolverURL, "FlareSolverr endpoint")
	cmd.Flags().DurationVar(&timeout, "timeout", config.DefaultTimeout, "Challenge-solving budget per fetch")
	cmd.Flags().IntVar(&maxEntries, "max-entries", config.DefaultMaxEntries, "Maximum entries retained in the feed")

	return cmd
}

// runGenerate executes one feed generation run. It returns the number of
// freshly extracted articles and the total entry count written.
func runGenerate(ctx context.Context, cfg config.Config) (newCount, total int, err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	// The solver enforces its own budget; the outer deadline is a backstop.
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout+30*time.Second)
	defer cancel()

	slog.Info("fetching page via solver", "url", cfg.PageURL, "solver", cfg.SolverURL)
	client := flaresolverr.NewClient(cfg.SolverURL, cfg.Timeout)
	html, err := client.Fetch(ctx, cfg.PageURL)
	if err != nil {
		slog.Error("fetch failed", "url", cfg.PageURL, "error", err)
		return 0, 0, err
	}

	articles, err := extract.FromHTML(html, cfg.BaseURL)
	if err != nil {
		slog.Error("extraction failed", "url", cfg.PageURL, "error", err)
		return 0, 0, err
	}
	slog.Info("extracted articles", "count", len(articles))

	previous, err := feed.LoadPrevious(cfg.OutputPath)
	if err != nil {
		// Not fatal: proceed with only the new articles.
		slog.Warn("ignoring unreadable previous feed", "path", cfg.OutputPath, "error", err)
	}

	doc := feed.Build(feedItems(articles), previous, feed.Options{
		Title:          feedTitle,
		Link:           cfg.PageURL,
		Description:    feedDescription,
		Language:       feedLanguage,
		SelfLink:       cfg.SelfLink,
		FallbackAuthor: fallbackAuthor,
		MaxEntries:     cfg.MaxEntries,
	})
	if err := doc.WriteFile(cfg.OutputPath); err != nil {
		slog.Error("writing feed failed", "path", cfg.OutputPath, "error", err)
		return 0, 0, err
	}

	slog.Info("feed written", "path", cfg.OutputPath, "entries", len(doc.Items), "new", len(articles))
	return len(articles), len(doc.Items), nil
}

// feedItems converts extracted articles into feed entries.
func feedItems(articles []extract.Article) []feed.Item {
	items := make([]feed.Item, 0, len(articles))
	for _, a := range articles {
		items = append(items, feed.Item{
			Title:       a.Title,
			Link:        a.URL,
			Description: a.Summary,
			Author:      a.Author,
			ImageURL:    a.ImageURL,
			PublishedAt: a.PublishedAt,
		})
	}
	return items
}

// newConfigCmd creates the config subcommand.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long:  "Print the configuration issuefeed would use for a run, after .env loading and environment overrides.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Solver URL:  %s\n", cfg.SolverURL)
			fmt.Fprintf(out, "Page URL:    %s\n", cfg.PageURL)
			fmt.Fprintf(out, "Base URL:    %s\n", cfg.BaseURL)
			fmt.Fprintf(out, "Output:      %s\n", cfg.OutputPath)
			fmt.Fprintf(out, "Timeout:     %s\n", cfg.Timeout)
			fmt.Fprintf(out, "Max entries: %d\n", cfg.MaxEntries)
			return nil
		},
	}

	return cmd
}
