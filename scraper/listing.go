package scraper

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/brettboylen/hn-scraper/models"
)

// ExtractRows locates the story listing region within the document and
// returns its rows. The listing is identified purely by position (see
// Selectors.ListingTableIndex); if the document has too few tables the
// listing is considered absent and an empty selection is returned.
func ExtractRows(doc *goquery.Document, sel Selectors, log *logrus.Logger) *goquery.Selection {
	tables := doc.Find("table")
	if tables.Length() <= sel.ListingTableIndex {
		log.WithFields(logrus.Fields{
			"tables_found": tables.Length(),
			"need_index":   sel.ListingTableIndex,
		}).Warn("Couldn't find the story listing table")
		return doc.Find("tr").Slice(0, 0)
	}

	return tables.Eq(sel.ListingTableIndex).Find("tr")
}

// DecodeRow converts one listing row into a Story. The second return value
// is false for anything that isn't a well-formed story row: missing marker
// class, missing cells, missing anchor, or an unparseable rank. Malformed
// rows are skipped, never reported as errors.
func DecodeRow(row *goquery.Selection, sel Selectors, baseURL string) (models.Story, bool) {
	var zero models.Story

	if !row.HasClass(sel.StoryRowClass) {
		return zero, false
	}

	cells := row.Find("td")
	if cells.Length() <= sel.RankCellIndex || cells.Length() <= sel.TitleCellIndex {
		return zero, false
	}

	rankText := strings.TrimSpace(cells.Eq(sel.RankCellIndex).Text())
	rank, err := strconv.Atoi(strings.TrimSuffix(rankText, "."))
	if err != nil || rank < 1 {
		return zero, false
	}

	anchor := cells.Eq(sel.TitleCellIndex).Find("a").First()
	if anchor.Length() == 0 {
		return zero, false
	}

	href, ok := anchor.Attr("href")
	if !ok {
		return zero, false
	}

	return models.Story{
		Rank:  rank,
		Title: anchor.Text(),
		Link:  normalizeLink(href, sel.ThreadLinkPrefix, baseURL),
	}, true
}

// normalizeLink rewrites site-relative thread links ("item?id=...") to
// absolute form; everything else (external story URLs) passes through
// unchanged.
func normalizeLink(href, threadPrefix, baseURL string) string {
	if strings.HasPrefix(href, threadPrefix) {
		return strings.TrimRight(baseURL, "/") + "/" + href
	}
	return href
}
