package feed

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// XML mapping for RSS 2.0 with the atom, dc, and media namespaces the
// original feed carries. encoding/xml emits the prefixed names literally,
// which feed readers accept.
type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	AtomNS  string     `xml:"xmlns:atom,attr"`
	DCNS    string     `xml:"xmlns:dc,attr"`
	MediaNS string     `xml:"xmlns:media,attr"`
	Channel channelXML `xml:"channel"`
}

type channelXML struct {
	Title         string       `xml:"title"`
	Link          string       `xml:"link"`
	Description   string       `xml:"description"`
	Language      string       `xml:"language,omitempty"`
	LastBuildDate string       `xml:"lastBuildDate"`
	AtomLink      *atomLinkXML `xml:"atom:link"`
	Items         []itemXML    `xml:"item"`
}

type atomLinkXML struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type itemXML struct {
	Title       string           `xml:"title"`
	Link        string           `xml:"link"`
	Description string           `xml:"description,omitempty"`
	PubDate     string           `xml:"pubDate"`
	Creator     string           `xml:"dc:creator,omitempty"`
	Author      string           `xml:"author,omitempty"`
	GUID        guidXML          `xml:"guid"`
	Thumbnail   *mediaURLXML     `xml:"media:thumbnail"`
	Content     *mediaContentXML `xml:"media:content"`
	Enclosure   *enclosureXML    `xml:"enclosure"`
}

type guidXML struct {
	IsPermaLink string `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

type mediaURLXML struct {
	URL string `xml:"url,attr"`
}

type mediaContentXML struct {
	URL    string `xml:"url,attr"`
	Medium string `xml:"medium,attr"`
}

type enclosureXML struct {
	URL  string `xml:"url,attr"`
	Type string `xml:"type,attr"`
}

// Bytes renders the document as an indented RSS 2.0 file body.
func (d *Document) Bytes() ([]byte, error) {
	rss := rssXML{
		Version: "2.0",
		AtomNS:  "http://www.w3.org/2005/Atom",
		DCNS:    "http://purl.org/dc/elements/1.1/",
		MediaNS: "http://search.yahoo.com/mrss/",
		Channel: channelXML{
			Title:         d.Options.Title,
			Link:          d.Options.Link,
			Description:   d.Options.Description,
			Language:      d.Options.Language,
			LastBuildDate: d.BuildTime.Format(time.RFC1123Z),
		},
	}
	if d.Options.SelfLink != "" {
		rss.Channel.AtomLink = &atomLinkXML{
			Href: d.Options.SelfLink,
			Rel:  "self",
			Type: "application/rss+xml",
		}
	}

	for _, item := range d.Items {
		rss.Channel.Items = append(rss.Channel.Items, d.renderItem(item))
	}

	body, err := xml.MarshalIndent(rss, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal feed: %w", err)
	}
	out := append([]byte(xml.Header), body...)
	return append(out, '\n'), nil
}

func (d *Document) renderItem(item Item) itemXML {
	published := item.PublishedAt
	if published.IsZero() {
		published = d.BuildTime
	}

	author := item.Author
	if author == "" {
		author = d.Options.FallbackAuthor
	}

	x := itemXML{
		Title:       item.Title,
		Link:        item.Link,
		Description: item.Description,
		PubDate:     published.Format(time.RFC1123Z),
		Creator:     author,
		Author:      author,
		GUID:        guidXML{IsPermaLink: "true", Value: item.Link},
	}

	if item.ImageURL != "" {
		x.Thumbnail = &mediaURLXML{URL: item.ImageURL}
		x.Content = &mediaContentXML{URL: item.ImageURL, Medium: "image"}
		x.Enclosure = &enclosureXML{URL: item.ImageURL, Type: "image/jpeg"}
	}

	return x
}

// WriteFile writes the rendered feed to path through a temp file and rename,
// so a failed run never truncates the existing feed.
func (d *Document) WriteFile(path string) error {
	body, err := d.Bytes()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp feed file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(body); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write feed: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close feed file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace feed file: %w", err)
	}
	return nil
}
