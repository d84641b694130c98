// Package feed turns a resolved feed view into the RSS 2.0 document and
// serializes it. This stage performs no inference: absent optional fields
// produce no element at all.
package feed

import (
	"encoding/xml"
	"fmt"
	"os"

	"abooker/internal/models"
)

const (
	googlePlayNS = "http://www.google.com/schemas/play-podcasts/1.0"
	itunesNS     = "http://www.itunes.com/dtds/podcast-1.0.dtd"
)

type RSS struct {
	XMLName      xml.Name `xml:"rss"`
	Version      string   `xml:"version,attr"`
	GooglePlayNS string   `xml:"xmlns:googleplay,attr"`
	ITunesNS     string   `xml:"xmlns:itunes,attr"`
	Channel      Channel  `xml:"channel"`
}

type Channel struct {
	Title       string        `xml:"title,omitempty"`
	Author      string        `xml:"googleplay:author,omitempty"`
	Description string        `xml:"description,omitempty"`
	Image       *ImageHref    `xml:"googleplay:image"`
	ImageURL    *ChannelImage `xml:"image"`
	Language    string        `xml:"language,omitempty"`
	Link        string        `xml:"link,omitempty"`
	Items       []Item        `xml:"item"`
}

// ImageHref is the namespaced attribute form of the channel artwork.
type ImageHref struct {
	Href string `xml:"href,attr"`
}

// ChannelImage is the plain RSS image element kept alongside the
// namespaced form for reader compatibility.
type ChannelImage struct {
	URL string `xml:"url"`
}

type Item struct {
	Title     string    `xml:"title"`
	Enclosure Enclosure `xml:"enclosure"`
	Duration  string    `xml:"itunes:duration,omitempty"`
}

type Enclosure struct {
	URL  string `xml:"url,attr"`
	Type string `xml:"type,attr,omitempty"`
}

// Assemble maps the resolved feed onto the document tree, preserving the
// episode order exactly.
func Assemble(f *models.ResolvedFeed) *RSS {
	rss := &RSS{
		Version:      "2.0",
		GooglePlayNS: googlePlayNS,
		ITunesNS:     itunesNS,
		Channel: Channel{
			Title:       f.Title,
			Author:      f.Author,
			Description: f.Description,
			Language:    f.Language,
			Link:        f.Link,
		},
	}

	if f.Image != "" {
		rss.Channel.Image = &ImageHref{Href: f.Image}
		rss.Channel.ImageURL = &ChannelImage{URL: f.Image}
	}

	for _, ep := range f.Episodes {
		title := ep.Title
		if title == "" {
			title = ep.Filename
		}
		item := Item{
			Title:     title,
			Enclosure: Enclosure{URL: ep.URL, Type: ep.MIMEType},
		}
		if ep.DurationSeconds != nil {
			item.Duration = formatDuration(*ep.DurationSeconds)
		}
		rss.Channel.Items = append(rss.Channel.Items, item)
	}

	return rss
}

// Marshal renders the document as indented UTF-8 XML with a declaration.
func Marshal(rss *RSS) ([]byte, error) {
	output, err := xml.MarshalIndent(rss, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), output...), nil
}

// WriteFile assembles and writes the feed document. Unlike settings,
// failing to write the feed is fatal to the run.
func WriteFile(f *models.ResolvedFeed, path string) error {
	data, err := Marshal(Assemble(f))
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func formatDuration(seconds float64) string {
	if seconds <= 0 {
		return ""
	}
	total := int64(seconds + 0.5)
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
}
