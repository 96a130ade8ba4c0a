package corpus

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/cognicore/promptstat/pkg/promptstat/internalerr"
	"github.com/cognicore/promptstat/pkg/promptstat/lexicon"
	"github.com/cognicore/promptstat/pkg/promptstat/tabular"
)

// Load reads a corpus from a CSV, XLSX or JSONL file. Known columns are
// mapped onto record fields; bucket columns (prompt_genres, tag_other, ...)
// are parsed back into buckets. Unknown columns are ignored.
func Load(path string) (*Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("input %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".ndjson":
		return LoadJSONL(path)
	default:
		sheet, err := tabular.Read(path)
		if err != nil {
			return nil, err
		}
		return FromSheet(sheet), nil
	}
}

// FromSheet converts a header+rows sheet into a table.
func FromSheet(sheet tabular.Sheet) *Table {
	idx := sheet.Index()

	var cols []Column
	type textCol struct {
		pos int
		set func(*Record, Text)
	}
	type bucketCol struct {
		pos  int
		side Side
		key  string
	}
	var texts []textCol
	var buckets []bucketCol

	// A side carries category buckets only when its other column is
	// present; prompt_id or tag_count alone are plain columns and ignored.
	categorized := make(map[Side]bool, 2)
	for _, side := range []Side{SidePrompt, SideTag} {
		_, categorized[side] = idx[string(BucketColumn(side, lexicon.Other))]
	}

	for _, name := range sheet.Header {
		c := Column(name)
		pos := idx[name]
		if set, ok := textSetters[c]; ok {
			texts = append(texts, textCol{pos: pos, set: set})
			cols = append(cols, c)
			continue
		}
		if side, key, ok := ParseBucketColumn(c); ok && categorized[side] {
			buckets = append(buckets, bucketCol{pos: pos, side: side, key: key})
			cols = append(cols, c)
		}
	}

	t := &Table{Schema: NewSchema(cols...), Records: make([]Record, len(sheet.Rows))}
	for i, row := range sheet.Rows {
		r := Record{Row: i}
		for _, tc := range texts {
			if v, ok := tabular.Cell(row, tc.pos); ok {
				tc.set(&r, Some(v))
			}
		}
		for _, bc := range buckets {
			words := []string{}
			if v, ok := tabular.Cell(row, bc.pos); ok {
				words = lexicon.SplitCell(v)
			}
			if bc.side == SideTag {
				if r.TagBuckets == nil {
					r.TagBuckets = lexicon.Buckets{}
				}
				r.TagBuckets[bc.key] = words
			} else {
				if r.PromptBuckets == nil {
					r.PromptBuckets = lexicon.Buckets{}
				}
				r.PromptBuckets[bc.key] = words
			}
		}
		t.Records[i] = r
	}
	return t
}

// LoadJSONL reads scraper output: one JSON object per line with title,
// artist, created_at (or time), duration, prompt, song_path and tags (an
// array or an '&'-joined string). Malformed lines are logged and skipped.
func LoadJSONL(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}
	defer f.Close()

	t := &Table{}
	seen := map[Column]bool{}
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		raw := strings.TrimSpace(sc.Text())
		if raw == "" {
			continue
		}
		var item map[string]interface{}
		if err := json.Unmarshal([]byte(raw), &item); err != nil {
			log.WithFields(log.Fields{"line": line, "path": path}).WithError(err).Warn("skipping malformed JSON line")
			continue
		}
		r := Record{Row: len(t.Records)}
		for key, v := range item {
			c := Column(key)
			if key == "created_at" {
				c = ColTime
			}
			set, ok := textSetters[c]
			if !ok {
				continue
			}
			if text, ok := jsonText(v); ok {
				set(&r, text)
				seen[c] = true
			}
		}
		t.Records = append(t.Records, r)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}
	if len(t.Records) == 0 {
		return nil, fmt.Errorf("no valid items found in %s: %w", path, internalerr.ErrInvalidInput)
	}

	var cols []Column
	for _, c := range []Column{ColTitle, ColArtist, ColTime, ColDuration, ColSongPath, ColPrompt, ColTags} {
		if seen[c] {
			cols = append(cols, c)
		}
	}
	t.Schema = NewSchema(cols...)
	return t, nil
}

func jsonText(v interface{}) (Text, bool) {
	switch x := v.(type) {
	case nil:
		return Text{}, true
	case string:
		return Some(x), true
	case float64:
		return Some(strconv.FormatFloat(x, 'f', -1, 64)), true
	case bool:
		return Some(strconv.FormatBool(x)), true
	case []interface{}:
		parts := make([]string, 0, len(x))
		for _, e := range x {
			if s, ok := e.(string); ok {
				parts = append(parts, s)
			}
		}
		return Some(strings.Join(parts, TagDelimiter)), true
	default:
		return Text{}, false
	}
}
