package analytics

// Default cutoffs for frequency tables.
const (
	DefaultTopWords         = 30
	DefaultTopCategoryWords = 20
)

// WordCount is one row of a frequency table.
type WordCount struct {
	Word  string
	Count int
}

// FrequencyTable is the ranked word counts of one column.
type FrequencyTable struct {
	Column     string
	Rows       []WordCount
	TotalWords int // tokens counted before the cutoff
	Documents  int // records that contributed at least one token
}

// Top returns the highest ranked word, or "" for an empty table.
func (f FrequencyTable) Top() string {
	if len(f.Rows) == 0 {
		return ""
	}
	return f.Rows[0].Word
}

// CountWords counts every token of every record and keeps the topN most
// frequent. Equal counts keep the order words were first met across the
// scan. Nil or empty records are skipped; topN <= 0 keeps every word.
func CountWords(docs [][]string, topN int) FrequencyTable {
	counter := newOrderedCounter[string]()
	table := FrequencyTable{}
	for _, doc := range docs {
		contributed := false
		for _, w := range doc {
			if w == "" {
				continue
			}
			counter.add(w)
			table.TotalWords++
			contributed = true
		}
		if contributed {
			table.Documents++
		}
	}

	ranked := counter.top(topN)
	table.Rows = make([]WordCount, len(ranked))
	for i, pos := range ranked {
		table.Rows[i] = WordCount{Word: counter.keys[pos], Count: counter.counts[pos]}
	}
	return table
}
