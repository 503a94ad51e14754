package scraper

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
)

const testBaseURL = "https://news.ycombinator.com"

// listingHTML mirrors the front page structure: a page-level layout table,
// a header table, and then the listing as the third table. Story 1 has a
// site-relative link and a full subline; story 2 has an external link and a
// subline missing its comments anchor.
const listingHTML = `<html><head><title>Hacker News</title></head><body>
<table id="hnmain" border="0" cellpadding="0" cellspacing="0" width="85%">
<tr><td>
<table border="0" cellpadding="0" cellspacing="0" width="100%">
<tr><td class="pagetop"><b class="hnname"><a href="news">Hacker News</a></b></td></tr>
</table>
<table border="0" cellpadding="0" cellspacing="0">
<tr class="athing" id="1">
  <td align="right" valign="top" class="title"><span class="rank">1.</span></td>
  <td valign="top" class="votelinks"><a href="vote?id=1"><div class="votearrow" title="upvote"></div></a></td>
  <td class="title"><a href="item?id=1">A</a></td>
</tr>
<tr>
  <td colspan="2"></td>
  <td class="subtext"><span class="subline">
    <span class="score">120 points</span> by <a href="user?id=alice" class="hnuser">alice</a>
    <span class="age"><a href="item?id=1">3 hours ago</a></span> |
    <a href="item?id=1">33 comments</a>
  </span></td>
</tr>
<tr class="spacer" style="height:5px"></tr>
<tr class="athing" id="2">
  <td align="right" valign="top" class="title"><span class="rank">2.</span></td>
  <td valign="top" class="votelinks"><a href="vote?id=2"><div class="votearrow" title="upvote"></div></a></td>
  <td class="title"><a href="https://external.example/b">B</a></td>
</tr>
<tr>
  <td colspan="2"></td>
  <td class="subtext"><span class="subline">
    <span class="score">15 points</span> by <a href="user?id=bob" class="hnuser">bob</a>
    <span class="age"><a href="item?id=2">1 hour ago</a></span>
  </span></td>
</tr>
<tr class="morespace" style="height:10px"></tr>
</table>
</td></tr>
</table>
</body></html>`

// threadHTML is a comment thread page with two top-level comment bodies and
// one downweighted body that must not be extracted
const threadHTML = `<html><body>
<table id="hnmain" border="0" cellpadding="0" cellspacing="0" width="85%">
<tr><td>
<table class="fatitem" border="0">
<tr class="athing" id="1"><td class="title"><a href="https://external.example/a">A</a></td></tr>
</table>
<table border="0" class="comment-tree">
<tr class="athing comtr" id="11"><td>
  <div class="comment"><span class="commtext c00">First comment</span></div>
</td></tr>
<tr class="athing comtr" id="12"><td>
  <div class="comment"><span class="commtext c5a">A downweighted reply</span></div>
</td></tr>
<tr class="athing comtr" id="13"><td>
  <div class="comment"><span class="commtext c00">Second comment</span></div>
</td></tr>
</table>
</td></tr>
</table>
</body></html>`

// emptyThreadHTML has a comment tree with no comment bodies
const emptyThreadHTML = `<html><body>
<table id="hnmain"><tr><td>
<table border="0" class="comment-tree"></table>
</td></tr></table>
</body></html>`

func mustParse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}
	return doc
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return log
}
