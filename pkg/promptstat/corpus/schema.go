package corpus

import (
	"strings"

	"github.com/cognicore/promptstat/pkg/promptstat/lexicon"
)

// Column names a table column.
type Column string

// Ingested and derived column names.
const (
	ColTitle          Column = "title"
	ColArtist         Column = "artist"
	ColTime           Column = "time"
	ColDuration       Column = "duration"
	ColSongPath       Column = "song_path"
	ColPrompt         Column = "prompt"
	ColTags           Column = "tags"
	ColCleanedPrompt  Column = "cleaned_prompt"
	ColCleanedTags    Column = "cleaned_tags"
	ColPromptLanguage Column = "prompt_language"
)

// BucketColumn names the derived column of one category on one side,
// e.g. prompt_genres or tag_other.
func BucketColumn(side Side, key string) Column {
	return Column(string(side) + "_" + key)
}

// ParseBucketColumn splits a bucket column name into side and key.
func ParseBucketColumn(c Column) (Side, string, bool) {
	name := string(c)
	if c == ColPromptLanguage {
		return "", "", false
	}
	for _, side := range []Side{SidePrompt, SideTag} {
		prefix := string(side) + "_"
		if strings.HasPrefix(name, prefix) && len(name) > len(prefix) {
			return side, strings.TrimPrefix(name, prefix), true
		}
	}
	return "", "", false
}

// Schema is the ordered set of columns a table carries.
type Schema struct {
	order []Column
	set   map[Column]struct{}
}

// NewSchema builds a schema; repeated columns are kept once.
func NewSchema(cols ...Column) Schema {
	return Schema{}.With(cols...)
}

// Has reports whether every given column is present.
func (s Schema) Has(cols ...Column) bool {
	for _, c := range cols {
		if _, ok := s.set[c]; !ok {
			return false
		}
	}
	return true
}

// Missing returns the given columns that are absent.
func (s Schema) Missing(cols ...Column) []Column {
	var out []Column
	for _, c := range cols {
		if !s.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

// With returns a new schema with cols appended.
func (s Schema) With(cols ...Column) Schema {
	next := Schema{
		order: append([]Column(nil), s.order...),
		set:   make(map[Column]struct{}, len(s.order)+len(cols)),
	}
	for _, c := range s.order {
		next.set[c] = struct{}{}
	}
	for _, c := range cols {
		if _, ok := next.set[c]; ok {
			continue
		}
		next.set[c] = struct{}{}
		next.order = append(next.order, c)
	}
	return next
}

// Columns returns the columns in order.
func (s Schema) Columns() []Column {
	return append([]Column(nil), s.order...)
}

// BucketKeys returns the category keys with a bucket column on side,
// in schema order.
func (s Schema) BucketKeys(side Side) []string {
	var keys []string
	for _, c := range s.order {
		if sd, key, ok := ParseBucketColumn(c); ok && sd == side {
			keys = append(keys, key)
		}
	}
	return keys
}

// BucketColumns lists the bucket columns for the dictionary keys plus Other.
func BucketColumns(side Side, keys []string) []Column {
	cols := make([]Column, 0, len(keys)+1)
	for _, k := range keys {
		cols = append(cols, BucketColumn(side, k))
	}
	return append(cols, BucketColumn(side, lexicon.Other))
}
