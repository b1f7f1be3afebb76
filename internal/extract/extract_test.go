// Package extract tests document the expected behavior of article extraction.
//
// Test requirements (this file serves as documentation):
// - window.__DATA__ is the preferred source; JSON-LD is the fallback
// - N valid structured-data items produce exactly N articles in source order
// - Items with an empty title or missing link are dropped, not fatal
// - A wrapping collection (hasPart) flattens to the same records as its inner list
// - Duplicate links collapse to the first occurrence
// - A page with no structured data fails with *ParseError
// - Structured data with zero usable items fails with *ParseError
package extract

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseURL = "https://www.scientificamerican.com"

func ldPage(payload string) string {
	return fmt.Sprintf(`<html><head><script type="application/ld+json">%s</script></head><body></body></html>`, payload)
}

// TestFromHTML_JSONLD_SourceOrder documents the basic contract:
// - N valid items yield N articles, in the order they appear
func TestFromHTML_JSONLD_SourceOrder(t *testing.T) {
	page := ldPage(`[
		{"headline":"First","url":"https://www.scientificamerican.com/article/first/"},
		{"headline":"Second","url":"https://www.scientificamerican.com/article/second/"},
		{"headline":"Third","url":"https://www.scientificamerican.com/article/third/"}
	]`)

	articles, err := FromHTML(page, baseURL)
	require.NoError(t, err)
	require.Len(t, articles, 3)
	assert.Equal(t, "First", articles[0].Title)
	assert.Equal(t, "Second", articles[1].Title)
	assert.Equal(t, "Third", articles[2].Title)
}

// TestFromHTML_DropsBlankItems documents the skip rule:
// - [{"headline":"A",...}, {"headline":"",...}] yields one article titled "A"
func TestFromHTML_DropsBlankItems(t *testing.T) {
	page := ldPage(`[
		{"headline":"A","url":"http://x/a"},
		{"headline":"","url":"http://x/b"},
		{"headline":"No Link"}
	]`)

	articles, err := FromHTML(page, baseURL)
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "A", articles[0].Title)
	assert.Equal(t, "http://x/a", articles[0].URL)
}

// TestFromHTML_FlattensCollection documents one-level flattening:
// - A PublicationIssue wrapping articles in hasPart produces the same records
//   as the inner list given directly
func TestFromHTML_FlattensCollection(t *testing.T) {
	inner := `[
		{"headline":"A","url":"http://x/a"},
		{"headline":"B","url":"http://x/b"}
	]`
	wrapped := ldPage(`{"@type":"PublicationIssue","hasPart":` + inner + `}`)
	direct := ldPage(inner)

	fromWrapped, err := FromHTML(wrapped, baseURL)
	require.NoError(t, err)
	fromDirect, err := FromHTML(direct, baseURL)
	require.NoError(t, err)

	assert.Equal(t, fromDirect, fromWrapped)
}

// TestFromHTML_GraphWrapper documents @graph handling.
func TestFromHTML_GraphWrapper(t *testing.T) {
	page := ldPage(`{"@graph":[
		{"@type":"PublicationIssue","hasPart":[{"headline":"A","url":"http://x/a"}]}
	]}`)

	articles, err := FromHTML(page, baseURL)
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "A", articles[0].Title)
}

// TestFromHTML_FieldNormalization documents per-item field extraction:
// - name falls back for headline, about object for description, first author
//   of a list, image object's url sub-field, relative links resolved
func TestFromHTML_FieldNormalization(t *testing.T) {
	page := ldPage(`[{
		"name":"Deep <em>Oceans</em>",
		"url":"/article/deep-oceans/",
		"about":{"description":"What lives below."},
		"author":[{"name":"Jane Doe"},{"name":"Someone Else"}],
		"datePublished":"2026-08-01T09:00:00Z",
		"image":{"url":"/images/oceans.jpg"}
	}]`)

	articles, err := FromHTML(page, baseURL)
	require.NoError(t, err)
	require.Len(t, articles, 1)

	a := articles[0]
	assert.Equal(t, "Deep Oceans", a.Title)
	assert.Equal(t, "https://www.scientificamerican.com/article/deep-oceans/", a.URL)
	assert.Equal(t, "What lives below.", a.Summary)
	assert.Equal(t, "Jane Doe", a.Author)
	assert.Equal(t, time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC), a.PublishedAt)
	assert.Equal(t, "https://www.scientificamerican.com/images/oceans.jpg", a.ImageURL)
}

// TestFromHTML_PlainStringImage documents the plain-string image fallback.
func TestFromHTML_PlainStringImage(t *testing.T) {
	page := ldPage(`[{"headline":"A","url":"http://x/a","image":"https://img.example.com/a.jpg"}]`)

	articles, err := FromHTML(page, baseURL)
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "https://img.example.com/a.jpg", articles[0].ImageURL)
}

// TestFromHTML_DeduplicatesLinks documents de-duplication:
// - Duplicate URLs collapse to the first occurrence
func TestFromHTML_DeduplicatesLinks(t *testing.T) {
	page := ldPage(`[
		{"headline":"Original","url":"http://x/a"},
		{"headline":"Duplicate","url":"http://x/a"},
		{"headline":"Other","url":"http://x/b"}
	]`)

	articles, err := FromHTML(page, baseURL)
	require.NoError(t, err)
	require.Len(t, articles, 2)
	assert.Equal(t, "Original", articles[0].Title)
	assert.Equal(t, "Other", articles[1].Title)
}

// TestFromHTML_WindowDataPreferred documents source precedence:
// - When window.__DATA__ yields articles, JSON-LD is not consulted
func TestFromHTML_WindowDataPreferred(t *testing.T) {
	payload := `{"initialData":{"issueData":{"article_previews":{
		"advances":[{"title":"From Window Data","url":"/article/window/","summary":"From the <b>payload</b>.","authors":[{"name":"Ada"}],"date_published":"2026-08-01"}],
		"departments":[],
		"features":[{"title":"Feature Story","url":"/article/feature/"}]
	}}}}`
	page := fmt.Sprintf(
		"<html><head><script>window.__DATA__ = JSON.parse(`%s`);</script>"+
			`<script type="application/ld+json">[{"headline":"From JSON-LD","url":"http://x/ld"}]</script>`+
			"</head></html>", payload)

	articles, err := FromHTML(page, baseURL)
	require.NoError(t, err)
	require.Len(t, articles, 2)

	assert.Equal(t, "From Window Data", articles[0].Title)
	assert.Equal(t, "https://www.scientificamerican.com/article/window/", articles[0].URL)
	assert.Equal(t, "From the payload.", articles[0].Summary)
	assert.Equal(t, "Ada", articles[0].Author)
	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), articles[0].PublishedAt)
	assert.Equal(t, "Feature Story", articles[1].Title)
}

// TestFromHTML_WindowDataPlainAssignment documents the second payload form:
// - A plain object assignment (no JSON.parse wrapper) is recognized too
func TestFromHTML_WindowDataPlainAssignment(t *testing.T) {
	page := `<html><script>window.__DATA__ = {"initialData":{"issueData":{"article_previews":{
		"advances":[{"display_title":"Display Title Fallback","url":"/article/a/"}]
	}}}};</script></html>`

	articles, err := FromHTML(page, baseURL)
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "Display Title Fallback", articles[0].Title)
}

// TestFromHTML_EmptyWindowDataFallsBack documents the fallback chain:
// - A present but article-free payload falls through to JSON-LD
func TestFromHTML_EmptyWindowDataFallsBack(t *testing.T) {
	page := `<html><script>window.__DATA__ = {"initialData":{}};</script>` +
		`<script type="application/ld+json">[{"headline":"LD","url":"http://x/ld"}]</script></html>`

	articles, err := FromHTML(page, baseURL)
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "LD", articles[0].Title)
}

// TestFromHTML_NoStructuredData documents the hard-failure contract:
// - No payload and no JSON-LD block is a *ParseError, not an empty result
func TestFromHTML_NoStructuredData(t *testing.T) {
	_, err := FromHTML("<html><body><p>plain page</p></body></html>", baseURL)

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, pe.Reason, "no structured data")
}

// TestFromHTML_StructuredDataButNoArticles documents the other failure message:
// - Structured data decoded fine but held nothing usable
func TestFromHTML_StructuredDataButNoArticles(t *testing.T) {
	page := ldPage(`[{"@type":"Organization","name":""}]`)

	_, err := FromHTML(page, baseURL)

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, pe.Reason, "no usable articles")
}

// TestFromHTML_MalformedJSONLD documents garbage tolerance:
// - An undecodable block is skipped; with nothing else present the result is
//   the "no structured data" error
func TestFromHTML_MalformedJSONLD(t *testing.T) {
	page := ldPage(`{not json at all`)

	_, err := FromHTML(page, baseURL)

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, pe.Reason, "no structured data")
}

// TestParseTimestamp documents the accepted timestamp shapes.
func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"rfc3339", "2026-08-01T09:30:00Z", time.Date(2026, 8, 1, 9, 30, 0, 0, time.UTC)},
		{"rfc3339 with offset", "2026-08-01T09:30:00+02:00", time.Date(2026, 8, 1, 7, 30, 0, 0, time.UTC)},
		{"no zone assumes UTC", "2026-08-01T09:30:00", time.Date(2026, 8, 1, 9, 30, 0, 0, time.UTC)},
		{"date only", "2026-08-01", time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)},
		{"garbage", "last Tuesday", time.Time{}},
		{"empty", "", time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseTimestamp(tt.in)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}
}
