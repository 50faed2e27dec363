package feed

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"ao3feed-backend/lib/scrapers/ao3"

	"github.com/gorilla/feeds"
)

// description used for works without a summary
const defaultDescription = "AO3 Fic"

const generator = "ao3feed-backend"

// rfc822 renders a calendar date anchored at midnight UTC, the layout
// feed readers expect for pubDate/lastBuildDate.
func rfc822(date time.Time) string {
	return date.UTC().Format("Mon, 02 Jan 2006 15:04:05 -0700")
}

// SynthesizeRSS serializes a complete Work into an RSS 2.0 document with
// chapter bodies carried in content:encoded. Identical works produce
// byte-identical output.
func SynthesizeRSS(work ao3.Work, base *url.URL) ([]byte, error) {
	description := work.Summary
	if description == "" {
		description = defaultDescription
	}

	channel := &feeds.RssFeed{
		Title:         work.Title,
		Link:          fmt.Sprintf("%s/works/%d", strings.TrimSuffix(base.String(), "/"), work.WorkId),
		Description:   description,
		PubDate:       rfc822(work.PublishDate),
		LastBuildDate: rfc822(work.UpdateDate),
		Generator:     generator,
	}

	for _, chapter := range work.Chapters {
		channel.Items = append(channel.Items, &feeds.RssItem{
			Title:       chapter.Title,
			Link:        chapter.Link,
			Description: chapter.Summary,
			Content:     &feeds.RssContent{Content: chapter.Content},
			Guid:        &feeds.RssGuid{Id: chapter.Link, IsPermaLink: "true"},
		})
	}

	out, err := feeds.ToXML(channel)
	if err != nil {
		// a complete Work always serializes, an error here is a
		// contract breach and not a user-facing condition
		return nil, fmt.Errorf("serialize feed: %w", err)
	}
	return []byte(out), nil
}
