package analytics

import (
	"sort"

	"github.com/cognicore/promptstat/pkg/promptstat/pmi"
)

// DefaultTopPairs is the default cutoff for pair tables.
const DefaultTopPairs = 30

// pair is an unordered word pair stored with A < B.
type pair struct {
	A string
	B string
}

func newPair(a, b string) pair {
	if a > b {
		a, b = b, a
	}
	return pair{A: a, B: b}
}

// PairCount is one row of a co-occurrence table. Word1 sorts before Word2.
type PairCount struct {
	Word1 string
	Word2 string
	Count int
	NPMI  float64 // association strength in [-1, 1]
}

// PairTable is the ranked within-record co-occurrences of one column.
type PairTable struct {
	Column     string
	Rows       []PairCount
	TotalPairs int // pair instances counted before the cutoff
	Documents  int // records with at least one token
}

// CountPairs counts, for every record, each unordered pair of distinct
// words once, however often the words repeat in that record. The topN most
// frequent pairs are kept; equal counts keep first-encounter order.
func CountPairs(docs [][]string, topN int) PairTable {
	counter := newOrderedCounter[pair]()
	df := make(map[string]int64)
	table := PairTable{}

	for _, doc := range docs {
		unique := uniqueSorted(doc)
		if len(unique) == 0 {
			continue
		}
		table.Documents++
		for _, w := range unique {
			df[w]++
		}
		for i := 0; i < len(unique); i++ {
			for j := i + 1; j < len(unique); j++ {
				counter.add(pair{A: unique[i], B: unique[j]})
				table.TotalPairs++
			}
		}
	}

	calc := pmi.NewCalculator(0)
	n := int64(table.Documents)
	ranked := counter.top(topN)
	table.Rows = make([]PairCount, len(ranked))
	for i, pos := range ranked {
		p := counter.keys[pos]
		count := counter.counts[pos]
		table.Rows[i] = PairCount{
			Word1: p.A,
			Word2: p.B,
			Count: count,
			NPMI:  calc.NPMI(int64(count), df[p.A], df[p.B], n),
		}
	}
	return table
}

// AtLeast drops rows seen fewer than min times. Rows are ranked by count,
// so the kept rows stay a prefix of the table.
func (t PairTable) AtLeast(min int) PairTable {
	out := t
	out.Rows = nil
	for _, r := range t.Rows {
		if r.Count < min {
			break
		}
		out.Rows = append(out.Rows, r)
	}
	return out
}

// Count returns the count of the pair {a, b} among the kept rows.
func (t PairTable) Count(a, b string) int {
	p := newPair(a, b)
	for _, r := range t.Rows {
		if r.Word1 == p.A && r.Word2 == p.B {
			return r.Count
		}
	}
	return 0
}

func uniqueSorted(words []string) []string {
	seen := make(map[string]struct{}, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w == "" {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}
