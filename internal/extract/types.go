// Package extract turns a fetched latest-issue page into article records.
//
// Two sources of structured data are recognized, in order of preference:
// the page's window.__DATA__ payload (correct article URLs, rich metadata)
// and JSON-LD blocks (fallback; issue collections carry articles in hasPart).
package extract

import "time"

// Article is one normalized article from the latest-issue page. Records are
// built fresh on every run and never mutated afterwards.
type Article struct {
	// Title is the headline. Never empty; blank items are dropped upstream.
	Title string

	// URL is the absolute article link and doubles as the feed guid.
	URL string

	// Summary is the article description, HTML-stripped. May be empty.
	Summary string

	// Author is the first listed author name. May be empty.
	Author string

	// PublishedAt is zero when the upstream value is missing or unparsable;
	// the renderer substitutes the generation time.
	PublishedAt time.Time

	// ImageURL is the absolute thumbnail URL, or empty.
	ImageURL string
}

// ParseError reports that no usable articles could be extracted from the
// page. Reason distinguishes "no structured data at all" from "structured
// data present but empty" in logs, without splitting the error kind.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return "extract articles: " + e.Reason
}
