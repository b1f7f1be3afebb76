// Package feed builds and serializes the RSS output document.
//
// Merge logic is pure: Build takes the new articles and the previously
// published items as explicit arguments, so the file-reading side
// (LoadPrevious) stays out of the way of tests.
package feed

import "time"

// Item is one feed entry, either a freshly extracted article or an entry
// retained from the previous feed.
type Item struct {
	Title       string
	Link        string
	Description string
	Author      string
	ImageURL    string

	// PublishedAt is zero when unknown; rendering substitutes the document's
	// build time.
	PublishedAt time.Time
}

// Options holds the channel-level metadata and merge limits.
type Options struct {
	Title       string
	Link        string
	Description string
	Language    string

	// SelfLink is the atom:link rel=self target. Omitted from the output when
	// empty.
	SelfLink string

	// FallbackAuthor is emitted for items with no author of their own.
	FallbackAuthor string

	// MaxEntries caps the merged item count. Zero or negative means no cap.
	MaxEntries int

	// Now overrides the build timestamp; zero means time.Now. Tests use it.
	Now time.Time
}

// Document is the assembled feed, most-recent-first.
type Document struct {
	Options   Options
	BuildTime time.Time
	Items     []Item
}

// Build merges the new articles with the previous feed's items: new items
// first in extraction order, then previous items whose link is not in the new
// set, truncated to MaxEntries. Links de-duplicate; the first occurrence wins.
func Build(articles, previous []Item, opts Options) *Document {
	now := opts.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	seen := make(map[string]bool, len(articles))
	items := make([]Item, 0, len(articles)+len(previous))
	for _, a := range articles {
		if a.Link == "" || seen[a.Link] {
			continue
		}
		seen[a.Link] = true
		items = append(items, a)
	}
	for _, p := range previous {
		if p.Link == "" || seen[p.Link] {
			continue
		}
		seen[p.Link] = true
		items = append(items, p)
	}

	if opts.MaxEntries > 0 && len(items) > opts.MaxEntries {
		items = items[:opts.MaxEntries]
	}

	return &Document{
		Options:   opts,
		BuildTime: now,
		Items:     items,
	}
}
