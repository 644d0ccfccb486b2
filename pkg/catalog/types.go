// Package catalog loads article-to-dataset match records and indexes them
// for relation-map lookups.
package catalog

import "errors"

var (
	// ErrArticleNotFound is returned when an article id has no entry
	ErrArticleNotFound = errors.New("article not found")
	// ErrUnsupportedSource is returned for a source URI no loader understands
	ErrUnsupportedSource = errors.New("unsupported catalog source")
	// ErrInvalidRecord is returned when a record fails validation
	ErrInvalidRecord = errors.New("invalid catalog record")
)

// Match is one dataset scored against an article
type Match struct {
	OSDID      string  `json:"osd_id" validate:"omitempty,recordid"`
	Title      string  `json:"title"`
	Similarity float64 `json:"similarity"`
	Confidence string  `json:"confidence,omitempty"`
	Method     string  `json:"method,omitempty"`
	URL        string  `json:"url,omitempty"`
}

// MatchEntry is the full match list of one article
type MatchEntry struct {
	ArticleID         string  `json:"article_id" validate:"required,recordid"`
	ArticleTitle      string  `json:"article_title"`
	TotalOSDsCompared int     `json:"total_osds_compared" validate:"gte=0"`
	MatchesFound      int     `json:"matches_found" validate:"gte=0"`
	OSDMatches        []Match `json:"osd_matches" validate:"dive"`
}

// Query filters catalog entries. Zero fields are ignored.
type Query struct {
	ArticleID string  // exact article id
	OSDID     string  // keep articles matched to this dataset; "379" means "OSD-379"
	Text      string  // case-insensitive substring of "id title"
	Threshold float64 // keep matches with similarity >= Threshold
	Limit     int     // maximum entries returned
}

// LoadReport counts what indexing dropped or corrected
type LoadReport struct {
	Entries             int `json:"entries"`
	Matches             int `json:"matches"`
	MissingOSDID        int `json:"missing_osd_id"`
	CollapsedDuplicates int `json:"collapsed_duplicates"`
	DuplicateArticles   int `json:"duplicate_articles"`
	OutOfRange          int `json:"out_of_range"`
}
