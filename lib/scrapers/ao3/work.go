package ao3

import (
	"net/url"
	"strings"
	"time"

	"ao3feed-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// AO3 renders work dates as plain calendar days, no time of day.
const dateLayout = "2006-01-02"

// Work is one scraped work. It only lives for the duration of a single
// request and is never mutated after extraction.
type Work struct {
	WorkId      uint64
	Title       string
	Summary     string // empty when the work has no summary
	PublishDate time.Time
	UpdateDate  time.Time
	Chapters    []Chapter
}

type Chapter struct {
	Title   string
	Link    string
	Summary string // html fragment, empty when absent
	Content string // html fragment
}

// ExtractWork projects a parsed work page into a Work. Matching is
// first-match, repeated class usage elsewhere in the page is ignored.
// Extraction fails on the first missing or malformed required field so
// an incomplete feed is never published.
func ExtractWork(doc *goquery.Document, base *url.URL, workId uint64) (Work, error) {
	title := doc.Find("h2.title").First()
	if title.Length() == 0 {
		return Work{}, MissingFieldError{Field: "title"}
	}

	publishDate, err := extractDate(doc, "dd.published", "published")
	if err != nil {
		return Work{}, err
	}
	updateDate, err := extractDate(doc, "dd.status", "updated")
	if err != nil {
		return Work{}, err
	}

	work := Work{
		WorkId:      workId,
		Title:       htmlutil.NormalizeText(title.Text()),
		Summary:     strings.TrimSpace(doc.Find("#workskin > .preface .userstuff").First().Text()),
		PublishDate: publishDate,
		UpdateDate:  updateDate,
	}

	chapters := doc.Find("#chapters > .chapter")
	for i := range chapters.Nodes {
		chapter, err := extractChapter(chapters.Eq(i), base)
		if err != nil {
			return Work{}, err
		}
		work.Chapters = append(work.Chapters, chapter)
	}

	return work, nil
}

func extractDate(doc *goquery.Document, selector, field string) (time.Time, error) {
	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return time.Time{}, MissingFieldError{Field: field}
	}
	raw := strings.TrimSpace(sel.Text())
	date, err := time.ParseInLocation(dateLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, FormatError{Field: field, Value: raw}
	}
	return date, nil
}

func extractChapter(sel *goquery.Selection, base *url.URL) (Chapter, error) {
	title := sel.Find(".title").First()
	if title.Length() == 0 {
		return Chapter{}, MissingFieldError{Field: "chapter.title"}
	}
	href := title.Find("a").First().AttrOr("href", "")
	if href == "" {
		return Chapter{}, MissingFieldError{Field: "chapter.link"}
	}
	ref, err := url.Parse(href)
	if err != nil {
		return Chapter{}, FormatError{Field: "chapter.link", Value: href}
	}

	chapter := Chapter{
		Title: htmlutil.NormalizeText(title.Text()),
		Link:  base.ResolveReference(ref).String(),
	}

	summary := sel.Find(".summary > .userstuff").First()
	if summary.Length() > 0 {
		fragment, err := summary.Html()
		if err != nil {
			return Chapter{}, err
		}
		chapter.Summary = strings.TrimSpace(fragment)
	}

	// the chapter body is the first userstuff block sitting directly
	// under the chapter container, nested ones belong to notes/summaries
	content := sel.ChildrenFiltered(".userstuff").First()
	if content.Length() == 0 {
		return Chapter{}, MissingFieldError{Field: "chapter.content"}
	}
	fragment, err := content.Html()
	if err != nil {
		return Chapter{}, err
	}
	chapter.Content = strings.TrimSpace(fragment)

	return chapter, nil
}
