package extract

import (
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// FromHTML extracts articles from a latest-issue page. It prefers the
// window.__DATA__ payload and falls back to JSON-LD. Items without a title or
// link are skipped; duplicate links collapse to the first occurrence; output
// order matches source order. A page yielding no usable articles is a
// *ParseError, never a silently empty result.
func FromHTML(html, baseURL string) ([]Article, error) {
	articles, found := fromWindowData(html, baseURL)
	if len(articles) > 0 {
		return dedupe(articles), nil
	}

	ldArticles, ldFound := fromJSONLD(html, baseURL)
	if len(ldArticles) > 0 {
		return dedupe(ldArticles), nil
	}

	if found || ldFound {
		return nil, &ParseError{Reason: "structured data contained no usable articles"}
	}
	return nil, &ParseError{Reason: "no structured data found in page"}
}

// dedupe collapses duplicate article URLs to the first occurrence, preserving
// order.
func dedupe(articles []Article) []Article {
	seen := make(map[string]bool, len(articles))
	out := make([]Article, 0, len(articles))
	for _, a := range articles {
		if seen[a.URL] {
			continue
		}
		seen[a.URL] = true
		out = append(out, a)
	}
	return out
}

// resolveURL makes ref absolute against base. Unparsable inputs come back
// unchanged; the feed is still more useful with an odd link than without one.
func resolveURL(base, ref string) string {
	if ref == "" {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

// stripHTML drops markup from upstream text fields, which routinely carry
// inline tags like <em>.
func stripHTML(s string) string {
	if s == "" {
		return ""
	}
	if !strings.Contains(s, "<") {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(doc.Text())
}

// parseTimestamp accepts the timestamp shapes the site has been seen to emit.
// Anything else is a zero time, which the renderer replaces with the
// generation time.
func parseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	formats := []string{
		time.RFC3339,
		"2006-01-02T15:04:05", // no zone; treat as UTC
		"2006-01-02",
	}
	for _, f := range formats {
		if t, err := time.ParseInLocation(f, s, time.UTC); err == nil {
			return t
		}
	}
	return time.Time{}
}
