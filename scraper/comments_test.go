package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocateCommentLinks(t *testing.T) {
	doc := mustParse(t, listingHTML)
	links := LocateCommentLinks(doc, DefaultSelectors(), testBaseURL)

	// story 1 has a full subline; story 2's subline is missing the comments
	// anchor, so rank 2 is consumed but absent from the mapping
	assert.Equal(t, map[int]string{
		1: "https://news.ycombinator.com/item?id=1",
	}, links)
}

func TestLocateCommentLinksRankConsumedOnSkip(t *testing.T) {
	// first subline is short, second is complete: the complete one must
	// still be rank 2, not shift down to rank 1
	html := `<html><body>
	<span class="subline"><a href="user?id=a">a</a> <a href="item?id=1">1 hour ago</a></span>
	<span class="subline"><a href="user?id=b">b</a> <a href="item?id=2">2 hours ago</a> <a href="item?id=2">5 comments</a></span>
	</body></html>`

	doc := mustParse(t, html)
	links := LocateCommentLinks(doc, DefaultSelectors(), testBaseURL)

	assert.Equal(t, map[int]string{
		2: "https://news.ycombinator.com/item?id=2",
	}, links)
}

func TestLocateCommentLinksNoSublines(t *testing.T) {
	doc := mustParse(t, `<html><body><table><tr><td>no sublines</td></tr></table></body></html>`)
	links := LocateCommentLinks(doc, DefaultSelectors(), testBaseURL)
	assert.Empty(t, links)
}

func TestExtractComments(t *testing.T) {
	doc := mustParse(t, threadHTML)
	comments := ExtractComments(doc, DefaultSelectors())

	// only top-level comment bodies, in document order
	assert.Equal(t, []string{"First comment", "Second comment"}, comments)
}

func TestExtractCommentsEmptyTree(t *testing.T) {
	doc := mustParse(t, emptyThreadHTML)
	comments := ExtractComments(doc, DefaultSelectors())
	assert.Equal(t, []string{}, comments)
}

func TestExtractCommentsMissingTree(t *testing.T) {
	doc := mustParse(t, `<html><body><table><tr><td>not a comment tree</td></tr></table></body></html>`)
	comments := ExtractComments(doc, DefaultSelectors())
	assert.Equal(t, []string{}, comments)
}
