// Package entity defines the transient values that flow through a summarization
// request: the request itself, the extracted article and the produced result.
// Nothing here is persisted.
package entity

import "time"

// Article is the readable content extracted from a web page.
// Text is plain text; an empty or whitespace-only Text means extraction failed.
type Article struct {
	URL      string
	Title    string
	Byline   string
	SiteName string
	Text     string
}

// Result is the outcome of one successful pipeline run.
type Result struct {
	URL    string
	Title  string
	Byline string

	// ArticleText is the full extracted text, shown in the original-article viewer.
	ArticleText string

	// InputText is the prefix of ArticleText that was handed to the model.
	InputText string
	Truncated bool

	Summary string
	Backend string
	Bounds  LengthBounds

	FetchDuration     time.Duration
	SummarizeDuration time.Duration
}
