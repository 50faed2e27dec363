package feed

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"ao3feed-backend/lib/scrapers/ao3"

	"github.com/stretchr/testify/require"
)

var testBase = &url.URL{Scheme: "https", Host: "archiveofourown.org"}

func sampleWork(t *testing.T) ao3.Work {
	published, err := time.ParseInLocation("2006-01-02", "2020-01-01", time.UTC)
	require.NoError(t, err)
	updated, err := time.ParseInLocation("2006-01-02", "2020-01-02", time.UTC)
	require.NoError(t, err)

	return ao3.Work{
		WorkId:      12345,
		Title:       "Sample Fic",
		Summary:     "A story about a sample.",
		PublishDate: published,
		UpdateDate:  updated,
		Chapters: []ao3.Chapter{
			{
				Title:   "Chapter 1: The Beginning",
				Link:    "https://archiveofourown.org/works/12345/chapters/111",
				Summary: "<p>Things begin.</p>",
				Content: "<p>Once upon a time there was a sample.</p>",
			},
			{
				Title:   "Chapter 2: The End",
				Link:    "https://archiveofourown.org/works/12345/chapters/222",
				Content: "<p>And then it ended.</p>",
			},
		},
	}
}

func TestSynthesizeRSS(t *testing.T) {
	out, err := SynthesizeRSS(sampleWork(t), testBase)
	require.NoError(t, err)
	rss := string(out)

	require.Contains(t, rss, `xmlns:content="http://purl.org/rss/1.0/modules/content/"`)
	require.Contains(t, rss, "<title>Sample Fic</title>")
	require.Contains(t, rss, "<description>A story about a sample.</description>")
	require.Contains(t, rss, "<link>https://archiveofourown.org/works/12345</link>")
	require.Contains(t, rss, "<pubDate>Wed, 01 Jan 2020 00:00:00 +0000</pubDate>")
	require.Contains(t, rss, "<lastBuildDate>Thu, 02 Jan 2020 00:00:00 +0000</lastBuildDate>")

	require.Equal(t, 2, strings.Count(rss, "<item>"))
	first := strings.Index(rss, "/works/12345/chapters/111")
	second := strings.Index(rss, "/works/12345/chapters/222")
	require.Greater(t, first, -1)
	require.Greater(t, second, first)

	require.Contains(t, rss, `<guid isPermaLink="true">https://archiveofourown.org/works/12345/chapters/111</guid>`)
	require.Contains(t, rss, "<content:encoded><![CDATA[<p>Once upon a time there was a sample.</p>]]></content:encoded>")
}

func TestSynthesizeRSSDefaultDescription(t *testing.T) {
	work := sampleWork(t)
	work.Summary = ""

	out, err := SynthesizeRSS(work, testBase)
	require.NoError(t, err)
	require.Contains(t, string(out), "<description>AO3 Fic</description>")
}

func TestSynthesizeRSSDeterministic(t *testing.T) {
	a, err := SynthesizeRSS(sampleWork(t), testBase)
	require.NoError(t, err)
	b, err := SynthesizeRSS(sampleWork(t), testBase)
	require.NoError(t, err)
	require.Equal(t, a, b)
}
