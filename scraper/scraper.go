package scraper

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/brettboylen/hn-scraper/models"
	"github.com/brettboylen/hn-scraper/report"
)

// Fetcher fetches the raw body of a page. Implemented by fetcher.Client;
// tests substitute a stub.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Scraper runs the extraction pipeline against the site. Every failure
// along the way degrades to a smaller-but-valid result; no method returns
// an error to the caller.
type Scraper struct {
	fetcher     Fetcher
	sel         Selectors
	baseURL     string
	listingURL  string
	concurrency int
	log         *logrus.Logger
}

// New creates a new scraper. concurrency bounds how many comment threads
// are fetched in parallel; 1 keeps the whole run sequential.
func New(fetcher Fetcher, sel Selectors, baseURL, listingURL string, concurrency int, log *logrus.Logger) *Scraper {
	if concurrency < 1 {
		concurrency = 1
	}

	return &Scraper{
		fetcher:     fetcher,
		sel:         sel,
		baseURL:     baseURL,
		listingURL:  listingURL,
		concurrency: concurrency,
		log:         log,
	}
}

// Run scrapes the front page and, when requested, every story's comment
// thread, returning the aggregated report. A failed listing fetch yields an
// empty report; failed thread fetches yield empty comment lists.
func (s *Scraper) Run(ctx context.Context, includeComments bool) report.Report {
	stories := s.FrontPage(ctx)

	var comments map[int][]string
	if includeComments {
		comments = s.CollectComments(ctx)
	}

	return report.Aggregate(stories, comments)
}

// FrontPage fetches the listing page and decodes its story rows, keyed by
// the rank displayed on the page.
func (s *Scraper) FrontPage(ctx context.Context) map[int]models.Story {
	stories := make(map[int]models.Story)

	doc, ok := s.fetchDocument(ctx, s.listingURL)
	if !ok {
		return stories
	}

	ExtractRows(doc, s.sel, s.log).Each(func(_ int, row *goquery.Selection) {
		if story, ok := DecodeRow(row, s.sel, s.baseURL); ok {
			stories[story.Rank] = story
		}
	})

	s.log.WithFields(logrus.Fields{
		"url":     s.listingURL,
		"stories": len(stories),
	}).Info("Front page scraped")

	return stories
}

// CommentLinks fetches the listing page and maps each story's position to
// its comment thread URL. This is a second, independent pass over the same
// page; see LocateCommentLinks for the ordering assumption.
func (s *Scraper) CommentLinks(ctx context.Context) map[int]string {
	doc, ok := s.fetchDocument(ctx, s.listingURL)
	if !ok {
		return map[int]string{}
	}

	return LocateCommentLinks(doc, s.sel, s.baseURL)
}

// ThreadComments fetches one comment thread page and extracts its top-level
// comment bodies. Any failure yields an empty list.
func (s *Scraper) ThreadComments(ctx context.Context, url string) []string {
	doc, ok := s.fetchDocument(ctx, url)
	if !ok {
		return []string{}
	}

	return ExtractComments(doc, s.sel)
}

// CollectComments fetches every located comment thread and returns the
// comment lists keyed by story position. Thread fetches run on a bounded
// worker pool; total latency still scales with story count.
func (s *Scraper) CollectComments(ctx context.Context) map[int][]string {
	links := s.CommentLinks(ctx)
	comments := make(map[int][]string, len(links))
	if len(links) == 0 {
		return comments
	}

	type result struct {
		rank     int
		comments []string
	}

	sem := make(chan struct{}, s.concurrency)
	done := make(chan result, len(links))

	for rank, url := range links {
		sem <- struct{}{}
		go func(rank int, url string) {
			defer func() { <-sem }()
			done <- result{rank: rank, comments: s.ThreadComments(ctx, url)}
		}(rank, url)
	}

	for i := 0; i < len(links); i++ {
		r := <-done
		comments[r.rank] = r.comments
	}

	s.log.WithField("threads", len(links)).Info("Comment threads scraped")

	return comments
}

// fetchDocument fetches a page and parses it. A fetch or parse failure is
// logged and reported as an absent document, never propagated.
func (s *Scraper) fetchDocument(ctx context.Context, url string) (*goquery.Document, bool) {
	body, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		s.log.WithError(err).WithField("url", url).Warn("Fetch failed")
		return nil, false
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		s.log.WithError(err).WithField("url", url).Warn("Failed to parse document")
		return nil, false
	}

	return doc, true
}
