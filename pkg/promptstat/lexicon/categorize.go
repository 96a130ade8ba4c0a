package lexicon

import "strings"

// BucketSeparator joins bucket words when a bucket is stored as one cell.
const BucketSeparator = ", "

// Buckets holds the words of one text grouped by category key. Every
// dictionary key and Other are present, possibly empty.
type Buckets map[string][]string

// Categorize splits tokens into category buckets plus Other. Each bucket
// keeps first-occurrence order without repeats; a token lands in exactly
// one bucket.
func (d *Dictionary) Categorize(tokens []string) Buckets {
	b := make(Buckets, len(d.categories)+1)
	for _, c := range d.categories {
		b[c.Key] = []string{}
	}
	b[Other] = []string{}

	seen := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		tok = strings.ToLower(tok)
		if tok == "" {
			continue
		}
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}

		key := Other
		if pos, ok := d.index[tok]; ok {
			key = d.categories[pos].Key
		}
		b[key] = append(b[key], tok)
	}
	return b
}

// CategorizeText splits text on whitespace and categorizes the tokens.
func (d *Dictionary) CategorizeText(text string) Buckets {
	return d.Categorize(strings.Fields(text))
}

// Join returns the bucket for key as a single cell value.
func (b Buckets) Join(key string) string {
	return strings.Join(b[key], BucketSeparator)
}

// Len returns the total number of words across all buckets.
func (b Buckets) Len() int {
	n := 0
	for _, words := range b {
		n += len(words)
	}
	return n
}

// SplitCell parses a stored bucket cell back into words, dropping blank
// entries.
func SplitCell(cell string) []string {
	parts := strings.Split(cell, strings.TrimSpace(BucketSeparator))
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
