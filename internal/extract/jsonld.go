package extract

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// fromJSONLD extracts articles from the page's JSON-LD blocks. found reports
// whether any block decoded to a non-empty payload, independent of whether
// usable articles came out of it.
func fromJSONLD(html, baseURL string) (articles []Article, found bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, false
	}

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		items := payloadItems([]byte(s.Text()))
		if len(items) == 0 {
			return
		}
		found = true
		for _, item := range items {
			a, ok := itemArticle(item, baseURL)
			if !ok {
				continue
			}
			articles = append(articles, a)
		}
	})
	return articles, found
}

// payloadItems resolves the dynamic shape of a JSON-LD payload, once, into a
// flat list of item maps. A payload is either a single object or an array; an
// object may wrap its members in @graph; and any element that is itself a
// collection (hasPart, e.g. a PublicationIssue) is flattened one level into
// its parts.
func payloadItems(raw []byte) []map[string]any {
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil
	}

	var elements []any
	switch v := payload.(type) {
	case []any:
		elements = v
	case map[string]any:
		if graph, ok := v["@graph"].([]any); ok {
			elements = graph
		} else {
			elements = []any{v}
		}
	default:
		return nil
	}

	var items []map[string]any
	for _, el := range elements {
		m, ok := el.(map[string]any)
		if !ok {
			continue
		}
		if parts, ok := m["hasPart"].([]any); ok {
			for _, part := range parts {
				if pm, ok := part.(map[string]any); ok {
					items = append(items, pm)
				}
			}
			continue
		}
		items = append(items, m)
	}
	return items
}

func itemArticle(item map[string]any, baseURL string) (Article, bool) {
	title := stripHTML(itemString(item, "headline", "name"))
	link := resolveURL(baseURL, itemString(item, "url"))
	if title == "" || link == "" {
		return Article{}, false
	}

	return Article{
		Title:       title,
		URL:         link,
		Summary:     stripHTML(itemDescription(item)),
		Author:      authorName(item["author"]),
		PublishedAt: parseTimestamp(itemString(item, "datePublished", "dateCreated")),
		ImageURL:    resolveURL(baseURL, imageURL(item["image"])),
	}, true
}

// itemString returns the first of the named fields that holds a non-empty
// string.
func itemString(item map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := item[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// itemDescription reads the description from about or description, either of
// which may be a plain string or a nested object keyed by description/name.
func itemDescription(item map[string]any) string {
	for _, k := range []string{"about", "description"} {
		switch v := item[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case map[string]any:
			if s, ok := v["description"].(string); ok && s != "" {
				return s
			}
			if s, ok := v["name"].(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

// authorName normalizes the author field, which appears as a string, an
// object with a name, or a list of either. The first usable name wins.
func authorName(v any) string {
	switch a := v.(type) {
	case string:
		return a
	case map[string]any:
		if s, ok := a["name"].(string); ok {
			return s
		}
	case []any:
		for _, el := range a {
			if s := authorName(el); s != "" {
				return s
			}
		}
	}
	return ""
}

// imageURL normalizes the image field: a structured object's url (fallback
// @id), a plain string, or the first element of a list.
func imageURL(v any) string {
	switch img := v.(type) {
	case string:
		return img
	case map[string]any:
		if s, ok := img["url"].(string); ok && s != "" {
			return s
		}
		if s, ok := img["@id"].(string); ok {
			return s
		}
	case []any:
		if len(img) > 0 {
			return imageURL(img[0])
		}
	}
	return ""
}
