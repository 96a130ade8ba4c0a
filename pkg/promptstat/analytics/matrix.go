package analytics

// Matrix is a symmetric word-by-word co-occurrence grid.
type Matrix struct {
	Words []string
	Cells [][]int
}

// CoMatrix builds a matrix over the words of rows, in the order they first
// appear in rows. Cell [i][j] and [j][i] hold the pair count; the diagonal
// and unlisted pairs are 0.
func CoMatrix(rows []PairCount) Matrix {
	pos := make(map[string]int)
	var words []string
	for _, r := range rows {
		for _, w := range [2]string{r.Word1, r.Word2} {
			if _, ok := pos[w]; !ok {
				pos[w] = len(words)
				words = append(words, w)
			}
		}
	}

	cells := make([][]int, len(words))
	for i := range cells {
		cells[i] = make([]int, len(words))
	}
	for _, r := range rows {
		i, j := pos[r.Word1], pos[r.Word2]
		if i == j {
			continue
		}
		cells[i][j] = r.Count
		cells[j][i] = r.Count
	}
	return Matrix{Words: words, Cells: cells}
}

// Get returns the cell for two words, 0 when either is absent.
func (m Matrix) Get(a, b string) int {
	i, j := -1, -1
	for k, w := range m.Words {
		if w == a {
			i = k
		}
		if w == b {
			j = k
		}
	}
	if i < 0 || j < 0 {
		return 0
	}
	return m.Cells[i][j]
}
