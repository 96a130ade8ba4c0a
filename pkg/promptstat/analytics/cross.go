package analytics

// CrossPair is a directional pair: Left comes from the left column, Right
// from the right column. Left and Right may be the same word.
type CrossPair struct {
	Left  string
	Right string
	Count int
}

// CrossTable is the ranked cross-column pairs of two columns.
type CrossTable struct {
	LeftColumn  string
	RightColumn string
	Rows        []CrossPair
	TotalPairs  int
	Documents   int // records where both columns had words
}

// CrossPairs forms, for every record where both sides hold words, the full
// product of left words and right words (each side deduplicated first),
// and keeps the topN most frequent pairs with first-encounter tie-breaks.
// Records beyond the shorter input are ignored.
func CrossPairs(left, right [][]string, topN int) CrossTable {
	counter := newOrderedCounter[CrossPair]()
	table := CrossTable{}

	n := len(left)
	if len(right) < n {
		n = len(right)
	}
	for i := 0; i < n; i++ {
		a, b := uniqueOrdered(left[i]), uniqueOrdered(right[i])
		if len(a) == 0 || len(b) == 0 {
			continue
		}
		table.Documents++
		for _, wa := range a {
			for _, wb := range b {
				counter.add(CrossPair{Left: wa, Right: wb})
				table.TotalPairs++
			}
		}
	}

	ranked := counter.top(topN)
	table.Rows = make([]CrossPair, len(ranked))
	for i, pos := range ranked {
		p := counter.keys[pos]
		p.Count = counter.counts[pos]
		table.Rows[i] = p
	}
	return table
}

func uniqueOrdered(words []string) []string {
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
	return out
}
