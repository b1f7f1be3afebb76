package feed

import (
	"fmt"
	"os"

	"github.com/mmcdole/gofeed"
)

// LoadPrevious reads the previously generated feed so its entries can be
// retained across runs. A missing file returns no items and no error; a
// malformed file returns an error the caller is expected to log and ignore —
// the run proceeds with only the new articles either way.
func LoadPrevious(path string) ([]Item, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open previous feed: %w", err)
	}
	defer func() { _ = f.Close() }()

	parsed, err := gofeed.NewParser().Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse previous feed %s: %w", path, err)
	}

	items := make([]Item, 0, len(parsed.Items))
	for _, it := range parsed.Items {
		if it.Link == "" {
			continue
		}
		item := Item{
			Title:       it.Title,
			Link:        it.Link,
			Description: it.Description,
		}
		if len(it.Authors) > 0 && it.Authors[0] != nil {
			item.Author = it.Authors[0].Name
		}
		if it.PublishedParsed != nil {
			item.PublishedAt = *it.PublishedParsed
		}
		if len(it.Enclosures) > 0 && it.Enclosures[0] != nil {
			item.ImageURL = it.Enclosures[0].URL
		}
		items = append(items, item)
	}
	return items, nil
}
