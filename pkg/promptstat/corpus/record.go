// Package corpus holds the scraped prompt/tag records and the table that
// carries them, along with their derived columns, through the analysis.
package corpus

import (
	"strings"

	"github.com/cognicore/promptstat/pkg/promptstat/lexicon"
)

// Text is a cell that may be missing. A missing cell is distinct from an
// empty string.
type Text struct {
	String string
	Valid  bool
}

// Some wraps a present value.
func Some(s string) Text {
	return Text{String: s, Valid: true}
}

// Ptr returns nil for a missing value.
func (t Text) Ptr() *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}

// NonEmpty reports whether the cell is present and not blank.
func (t Text) NonEmpty() bool {
	return t.Valid && strings.TrimSpace(t.String) != ""
}

// Side selects the prompt or tag half of a record.
type Side string

const (
	SidePrompt Side = "prompt"
	SideTag    Side = "tag"
)

// Record is one scraped item plus derived fields. Ingested fields are never
// changed; stages add derived fields on a copy.
type Record struct {
	Row      int
	Title    Text
	Artist   Text
	Time     Text
	Duration Text
	SongPath Text
	Prompt   Text
	Tags     Text

	CleanedPrompt  Text
	CleanedTags    Text
	PromptLanguage Text

	PromptBuckets lexicon.Buckets
	TagBuckets    lexicon.Buckets
}

// Buckets returns the categorized buckets of one side, nil when that side
// was not categorized.
func (r Record) Buckets(side Side) lexicon.Buckets {
	if side == SideTag {
		return r.TagBuckets
	}
	return r.PromptBuckets
}

// Bucket returns the words of one category on one side.
func (r Record) Bucket(side Side, key string) ([]string, bool) {
	b := r.Buckets(side)
	if b == nil {
		return nil, false
	}
	words, ok := b[key]
	return words, ok
}

// TagList splits the raw tags cell on the scraper's '&' delimiter.
func (r Record) TagList() []string {
	if !r.Tags.Valid {
		return nil
	}
	parts := strings.Split(r.Tags.String, TagDelimiter)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// TagDelimiter joins tags in the raw tags column.
const TagDelimiter = "&"
