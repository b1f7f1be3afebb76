// Package config loads issuefeed configuration from the environment.
//
// A .env file in the working directory is honored when present, so local runs
// and the container image share the same configuration surface.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Defaults for every configurable value. The solver URL matches FlareSolverr's
// stock listen address.
const (
	DefaultSolverURL  = "http://localhost:8191/v1"
	DefaultPageURL    = "https://www.scientificamerican.com/latest-issue/"
	DefaultBaseURL    = "https://www.scientificamerican.com"
	DefaultOutputPath = "feed.xml"
	DefaultTimeout    = 60 * time.Second
	DefaultMaxEntries = 100
)

// Config holds the effective settings for one run.
type Config struct {
	// SolverURL is the FlareSolverr endpoint used to fetch the page.
	SolverURL string

	// PageURL is the latest-issue listing to scrape.
	PageURL string

	// BaseURL resolves relative article and image URLs.
	BaseURL string

	// OutputPath is the feed file, read for merging and overwritten on success.
	OutputPath string

	// SelfLink is the public URL of the published feed, emitted as the
	// channel's atom:link rel=self. Optional; omitted from the feed when empty.
	SelfLink string

	// Timeout is the challenge-solving budget handed to the solver.
	Timeout time.Duration

	// MaxEntries caps the number of entries retained in the output feed.
	MaxEntries int
}

// Load reads configuration from a .env file (if any) and the environment,
// falling back to defaults. It returns an error for values that are present
// but invalid.
func Load() (Config, error) {
	// Missing .env is the normal case, not an error.
	_ = godotenv.Load()

	cfg := Config{
		SolverURL:  getenv("ISSUEFEED_SOLVER_URL", DefaultSolverURL),
		PageURL:    getenv("ISSUEFEED_PAGE_URL", DefaultPageURL),
		BaseURL:    getenv("ISSUEFEED_BASE_URL", DefaultBaseURL),
		OutputPath: getenv("ISSUEFEED_OUTPUT", DefaultOutputPath),
		SelfLink:   os.Getenv("ISSUEFEED_SELF_LINK"),
		Timeout:    DefaultTimeout,
		MaxEntries: DefaultMaxEntries,
	}

	if v := os.Getenv("ISSUEFEED_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid ISSUEFEED_TIMEOUT %q: %w", v, err)
		}
		cfg.Timeout = d
	}

	if v := os.Getenv("ISSUEFEED_MAX_ENTRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid ISSUEFEED_MAX_ENTRIES %q: %w", v, err)
		}
		cfg.MaxEntries = n
	}

	return cfg, cfg.Validate()
}

// Validate checks that the configuration is usable for a run.
func (c Config) Validate() error {
	if c.SolverURL == "" {
		return fmt.Errorf("solver URL must not be empty")
	}
	if c.PageURL == "" {
		return fmt.Errorf("page URL must not be empty")
	}
	if c.OutputPath == "" {
		return fmt.Errorf("output path must not be empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.MaxEntries <= 0 {
		return fmt.Errorf("max entries must be positive, got %d", c.MaxEntries)
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
