package extract

import (
	"encoding/json"
	"regexp"
	"strings"
)

// The page inlines its data payload either as a JSON.parse call over a
// backtick string or as a plain object assignment.
var (
	reWindowDataParsed = regexp.MustCompile("(?s)window\\.__DATA__\\s*=\\s*JSON\\.parse\\(`(.*?)`\\)\\s*;")
	reWindowDataPlain  = regexp.MustCompile(`(?s)window\.__DATA__\s*=\s*(\{.*?\})\s*;`)
)

type windowData struct {
	InitialData struct {
		IssueData struct {
			ArticlePreviews struct {
				Advances    []articlePreview `json:"advances"`
				Departments []articlePreview `json:"departments"`
				Features    []articlePreview `json:"features"`
			} `json:"article_previews"`
		} `json:"issueData"`
	} `json:"initialData"`
}

type articlePreview struct {
	Title         string `json:"title"`
	DisplayTitle  string `json:"display_title"`
	Summary       string `json:"summary"`
	DatePublished string `json:"date_published"`
	ReleaseDate   string `json:"release_date"`
	URL           string `json:"url"`
	ImageURL      string `json:"image_url"`
	Authors       []struct {
		Name string `json:"name"`
	} `json:"authors"`
}

// fromWindowData extracts articles from the window.__DATA__ payload. found
// reports whether a payload was located at all, so the caller can tell
// "payload missing" from "payload present but empty".
func fromWindowData(html, baseURL string) (articles []Article, found bool) {
	raw, ok := locateWindowData(html)
	if !ok {
		return nil, false
	}

	var data windowData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, false
	}

	previews := data.InitialData.IssueData.ArticlePreviews
	sections := [][]articlePreview{previews.Advances, previews.Departments, previews.Features}
	for _, section := range sections {
		for _, p := range section {
			a, ok := previewArticle(p, baseURL)
			if !ok {
				continue
			}
			articles = append(articles, a)
		}
	}
	return articles, true
}

func locateWindowData(html string) ([]byte, bool) {
	if m := reWindowDataParsed.FindStringSubmatch(html); m != nil {
		// Literal backticks inside the template string arrive escaped.
		return []byte(strings.ReplaceAll(m[1], "\\`", "`")), true
	}
	if m := reWindowDataPlain.FindStringSubmatch(html); m != nil {
		return []byte(m[1]), true
	}
	return nil, false
}

func previewArticle(p articlePreview, baseURL string) (Article, bool) {
	title := stripHTML(p.Title)
	if title == "" {
		title = stripHTML(p.DisplayTitle)
	}
	link := resolveURL(baseURL, p.URL)
	if title == "" || link == "" {
		return Article{}, false
	}

	var author string
	for _, au := range p.Authors {
		if au.Name != "" {
			author = au.Name
			break
		}
	}

	published := p.DatePublished
	if published == "" {
		published = p.ReleaseDate
	}

	return Article{
		Title:       title,
		URL:         link,
		Summary:     stripHTML(p.Summary),
		Author:      author,
		PublishedAt: parseTimestamp(published),
		ImageURL:    resolveURL(baseURL, p.ImageURL),
	}, true
}
