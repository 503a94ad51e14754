package scraper

// Selectors collects every structural assumption made about the site's
// markup in one place. The front page carries no semantic hooks for most of
// what we need, so several of these are positional (the listing is the third
// table on the page, the comments link is the third anchor in a subline).
// When the site's layout shifts, this is the only thing that should need
// updating.
type Selectors struct {
	// ListingTableIndex is the zero-based position of the story listing
	// among all <table> elements in the document.
	ListingTableIndex int

	// StoryRowClass marks a <tr> in the listing as an actual story row;
	// rows without it (spacers, sublines) are not stories.
	StoryRowClass string

	// RankCellIndex and TitleCellIndex are zero-based <td> positions
	// within a story row. The rank cell holds text like "1."; the title
	// cell holds the story anchor.
	RankCellIndex  int
	TitleCellIndex int

	// SublineSelector matches the metadata line under each story entry.
	// CommentAnchorIndex is the zero-based position of the comments link
	// among the subline's anchors; sublines with fewer anchors (a story
	// with no comments link) are skipped.
	SublineSelector    string
	CommentAnchorIndex int

	// TreeSelector matches the comment tree table on a thread page, and
	// CommentTextSelector the top-level comment bodies within it.
	TreeSelector        string
	CommentTextSelector string

	// ThreadLinkPrefix identifies site-relative thread links ("item?id=")
	// that must be rewritten against the base URL.
	ThreadLinkPrefix string
}

// DefaultSelectors returns the selectors matching the site's current markup
func DefaultSelectors() Selectors {
	return Selectors{
		ListingTableIndex:   2,
		StoryRowClass:       "athing",
		RankCellIndex:       0,
		TitleCellIndex:      2,
		SublineSelector:     "span.subline",
		CommentAnchorIndex:  2,
		TreeSelector:        "table.comment-tree",
		CommentTextSelector: "span.commtext.c00",
		ThreadLinkPrefix:    "item?id=",
	}
}
