package scraper

import (
	"github.com/PuerkitoBio/goquery"
)

// LocateCommentLinks finds the comment thread link for each story on the
// listing page. Sublines are enumerated 1-based in document order; that
// order is assumed to match the story ranks produced by DecodeRow, since
// both passes walk the same page top to bottom (nothing in the markup
// guarantees this, see the correlation test in scraper_test.go). A subline
// without enough anchors — a story whose comments link is absent — consumes
// its rank but contributes no entry.
func LocateCommentLinks(doc *goquery.Document, sel Selectors, baseURL string) map[int]string {
	links := make(map[int]string)

	rank := 0
	doc.Find(sel.SublineSelector).Each(func(_ int, subline *goquery.Selection) {
		rank++

		anchors := subline.Find("a")
		if anchors.Length() <= sel.CommentAnchorIndex {
			return
		}

		href, ok := anchors.Eq(sel.CommentAnchorIndex).Attr("href")
		if !ok {
			return
		}

		links[rank] = normalizeLink(href, sel.ThreadLinkPrefix, baseURL)
	})

	return links
}

// ExtractComments collects the text of every top-level comment body on a
// thread page, in document order. A missing comment tree or a thread with
// no comments yields an empty slice.
func ExtractComments(doc *goquery.Document, sel Selectors) []string {
	comments := []string{}

	tree := doc.Find(sel.TreeSelector).First()
	if tree.Length() == 0 {
		return comments
	}

	tree.Find(sel.CommentTextSelector).Each(func(_ int, body *goquery.Selection) {
		comments = append(comments, body.Text())
	})

	return comments
}
