package models

import (
	"time"
)

// Story represents one ranked entry on the front page listing
type Story struct {
	Rank  int    `json:"rank"`
	Title string `json:"title"`
	Link  string `json:"link"`
}

// ReportEntry is the per-story unit of the final report: the story metadata
// plus the top-level comments of its discussion thread. Comments is nil when
// comments were not requested, so the field drops out of the JSON output.
type ReportEntry struct {
	Title    string   `json:"title"`
	Link     string   `json:"link"`
	Comments []string `json:"comments,omitempty"`
}

// Run records one completed scrape in the database
type Run struct {
	ID           int64     `json:"id"`
	ListingURL   string    `json:"listing_url"`
	StoryCount   int       `json:"story_count"`
	WithComments bool      `json:"with_comments"`
	ScrapedAt    time.Time `json:"scraped_at"`
}
