package corpus

import (
	"github.com/cognicore/promptstat/pkg/promptstat/tabular"
)

// Sheet renders the table with its schema columns in order. Bucket columns
// are joined with lexicon.BucketSeparator; missing cells are blank.
func (t *Table) Sheet(name string) tabular.Sheet {
	cols := t.Schema.Columns()
	sheet := tabular.Sheet{Name: name, Header: make([]string, len(cols)), Rows: make([][]string, len(t.Records))}
	for i, c := range cols {
		sheet.Header[i] = string(c)
	}
	for ri, r := range t.Records {
		row := make([]string, len(cols))
		for i, c := range cols {
			row[i] = cellOf(r, c)
		}
		sheet.Rows[ri] = row
	}
	return sheet
}

func cellOf(r Record, c Column) string {
	if get, ok := textGetters[c]; ok {
		return get(r).String
	}
	if side, key, ok := ParseBucketColumn(c); ok {
		if b := r.Buckets(side); b != nil {
			return b.Join(key)
		}
	}
	return ""
}

// Write stores the table as CSV or XLSX depending on the extension.
func Write(path string, t *Table) error {
	return tabular.Write(path, t.Sheet("corpus"))
}
