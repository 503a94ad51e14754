// Package report builds and serializes the final scrape report: a mapping
// from story rank to title, link and (optionally) the story's comments.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/brettboylen/hn-scraper/models"
)

// Report is the aggregated scrape result, keyed by story rank
type Report map[int]models.ReportEntry

// Aggregate merges stories with their comment lists. The story ranks are
// authoritative for the key set: a story rank missing from comments gets an
// empty list, and comment ranks without a matching story are dropped. A nil
// comments map means comments were not requested at all, and the entries
// carry no comments field.
func Aggregate(stories map[int]models.Story, comments map[int][]string) Report {
	r := make(Report, len(stories))

	for rank, story := range stories {
		entry := models.ReportEntry{
			Title: story.Title,
			Link:  story.Link,
		}
		if comments != nil {
			entry.Comments = comments[rank]
			if entry.Comments == nil {
				entry.Comments = []string{}
			}
		}
		r[rank] = entry
	}

	return r
}

// MarshalJSON serializes the report with string rank keys in ascending rank
// order. A plain map marshal would order the keys lexically ("10" before
// "2"), so the object is assembled by hand.
func (r Report) MarshalJSON() ([]byte, error) {
	ranks := make([]int, 0, len(r))
	for rank := range r {
		ranks = append(ranks, rank)
	}
	sort.Ints(ranks)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, rank := range ranks {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(strconv.Itoa(rank))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		entry, err := marshalEntry(r[rank])
		if err != nil {
			return nil, err
		}
		buf.Write(entry)
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// marshalEntry emits the two report shapes: without comments the field is
// absent entirely, with comments it is always present, even when empty
func marshalEntry(entry models.ReportEntry) ([]byte, error) {
	if entry.Comments == nil {
		return json.Marshal(struct {
			Title string `json:"title"`
			Link  string `json:"link"`
		}{entry.Title, entry.Link})
	}

	return json.Marshal(struct {
		Title    string   `json:"title"`
		Link     string   `json:"link"`
		Comments []string `json:"comments"`
	}{entry.Title, entry.Link, entry.Comments})
}

// Write serializes the report to path as pretty-printed UTF-8 JSON with
// 4-space indentation.
func (r Report) Write(path string) error {
	data, err := json.MarshalIndent(r, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}

	return nil
}
