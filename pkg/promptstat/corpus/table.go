package corpus

import (
	"fmt"
	"strings"

	"github.com/cognicore/promptstat/pkg/promptstat/internalerr"
)

// Table is an immutable set of records plus the schema describing which
// columns they carry. Stages derive new tables instead of editing one.
type Table struct {
	Schema  Schema
	Records []Record
}

// Len returns the number of records.
func (t *Table) Len() int {
	return len(t.Records)
}

// Derive returns a new table with extra columns whose records are produced
// by fn from copies of the current ones.
func (t *Table) Derive(fn func(Record) Record, cols ...Column) *Table {
	out := &Table{Schema: t.Schema.With(cols...), Records: make([]Record, len(t.Records))}
	for i, r := range t.Records {
		out.Records[i] = fn(r)
	}
	return out
}

// Require returns ErrMissingColumn naming every absent column.
func (t *Table) Require(cols ...Column) error {
	missing := t.Schema.Missing(cols...)
	if len(missing) == 0 {
		return nil
	}
	names := make([]string, len(missing))
	for i, c := range missing {
		names[i] = string(c)
	}
	return fmt.Errorf("%s: %w", strings.Join(names, ", "), internalerr.ErrMissingColumn)
}

// Text returns the values of a scalar text column.
func (t *Table) Text(c Column) ([]Text, error) {
	if err := t.Require(c); err != nil {
		return nil, err
	}
	get, ok := textGetters[c]
	if !ok {
		return nil, fmt.Errorf("%s is not a text column: %w", c, internalerr.ErrInvalidInput)
	}
	out := make([]Text, len(t.Records))
	for i, r := range t.Records {
		out[i] = get(r)
	}
	return out, nil
}

// Tokens returns one token list per record for a column. Text columns are
// split on whitespace; bucket columns return the bucket words. Missing
// cells give nil entries.
func (t *Table) Tokens(c Column) ([][]string, error) {
	if err := t.Require(c); err != nil {
		return nil, err
	}
	if side, key, ok := ParseBucketColumn(c); ok {
		out := make([][]string, len(t.Records))
		for i, r := range t.Records {
			out[i], _ = r.Bucket(side, key)
		}
		return out, nil
	}
	texts, err := t.Text(c)
	if err != nil {
		return nil, err
	}
	out := make([][]string, len(texts))
	for i, tx := range texts {
		if tx.Valid {
			out[i] = strings.Fields(strings.ToLower(tx.String))
		}
	}
	return out, nil
}

var textGetters = map[Column]func(Record) Text{
	ColTitle:          func(r Record) Text { return r.Title },
	ColArtist:         func(r Record) Text { return r.Artist },
	ColTime:           func(r Record) Text { return r.Time },
	ColDuration:       func(r Record) Text { return r.Duration },
	ColSongPath:       func(r Record) Text { return r.SongPath },
	ColPrompt:         func(r Record) Text { return r.Prompt },
	ColTags:           func(r Record) Text { return r.Tags },
	ColCleanedPrompt:  func(r Record) Text { return r.CleanedPrompt },
	ColCleanedTags:    func(r Record) Text { return r.CleanedTags },
	ColPromptLanguage: func(r Record) Text { return r.PromptLanguage },
}

var textSetters = map[Column]func(*Record, Text){
	ColTitle:          func(r *Record, v Text) { r.Title = v },
	ColArtist:         func(r *Record, v Text) { r.Artist = v },
	ColTime:           func(r *Record, v Text) { r.Time = v },
	ColDuration:       func(r *Record, v Text) { r.Duration = v },
	ColSongPath:       func(r *Record, v Text) { r.SongPath = v },
	ColPrompt:         func(r *Record, v Text) { r.Prompt = v },
	ColTags:           func(r *Record, v Text) { r.Tags = v },
	ColCleanedPrompt:  func(r *Record, v Text) { r.CleanedPrompt = v },
	ColCleanedTags:    func(r *Record, v Text) { r.CleanedTags = v },
	ColPromptLanguage: func(r *Record, v Text) { r.PromptLanguage = v },
}

// NonEmpty counts records whose cell in c is present and not blank.
func (t *Table) NonEmpty(c Column) int {
	texts, err := t.Text(c)
	if err != nil {
		return 0
	}
	n := 0
	for _, tx := range texts {
		if tx.NonEmpty() {
			n++
		}
	}
	return n
}
