package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixtureDocs builds 100 records where alpha..epsilon occur in 10, 8, 6, 4
// and 2 records. Rarer words are listed first in every record so
// first-encounter order differs from the expected ranking.
func fixtureDocs() [][]string {
	words := []string{"alpha", "beta", "gamma", "delta", "epsilon"}
	counts := []int{10, 8, 6, 4, 2}
	docs := make([][]string, 100)
	for i := range docs {
		for k := len(words) - 1; k >= 0; k-- {
			if i < counts[k] {
				docs[i] = append(docs[i], words[k])
			}
		}
	}
	return docs
}

func TestCountWordsFixture(t *testing.T) {
	table := CountWords(fixtureDocs(), 30)
	assert.Equal(t, []WordCount{
		{"alpha", 10}, {"beta", 8}, {"gamma", 6}, {"delta", 4}, {"epsilon", 2},
	}, table.Rows)
	assert.Equal(t, 30, table.TotalWords)
	assert.Equal(t, 10, table.Documents)
	assert.Equal(t, "alpha", table.Top())
}

func TestCountWordsCutoffAndTies(t *testing.T) {
	docs := [][]string{{"b", "a"}, {"a", "b", "c"}, nil, {}}
	table := CountWords(docs, 0)
	assert.Equal(t, []WordCount{{"b", 2}, {"a", 2}, {"c", 1}}, table.Rows)
	assert.Equal(t, 2, table.Documents)

	top := CountWords(docs, 2)
	require.Len(t, top.Rows, 2)
	assert.Equal(t, "a", top.Rows[1].Word)
	assert.Equal(t, 5, top.TotalWords, "total counts before cutoff")
}

func TestCountWordsEmpty(t *testing.T) {
	table := CountWords(nil, 20)
	assert.Empty(t, table.Rows)
	assert.Zero(t, table.TotalWords)
	assert.Zero(t, table.Documents)
	assert.Empty(t, table.Top())
}

func TestCountWordsIdempotent(t *testing.T) {
	docs := fixtureDocs()
	assert.Equal(t, CountWords(docs, 3), CountWords(docs, 3))
}

func TestCountPairsCollapsesRepeats(t *testing.T) {
	table := CountPairs([][]string{{"a", "a", "b", "c"}}, 30)
	assert.Equal(t, []PairCount{
		{Word1: "a", Word2: "b", Count: 1, NPMI: 1},
		{Word1: "a", Word2: "c", Count: 1, NPMI: 1},
		{Word1: "b", Word2: "c", Count: 1, NPMI: 1},
	}, table.Rows)
	assert.Equal(t, 3, table.TotalPairs)
}

func TestCountPairsRanking(t *testing.T) {
	docs := [][]string{
		{"rock", "pop"},
		{"sad", "rock"},
		{"pop", "rock", "sad"},
		{"solo"},
		nil,
	}
	table := CountPairs(docs, 2)
	require.Len(t, table.Rows, 2)

	assert.Equal(t, "pop", table.Rows[0].Word1)
	assert.Equal(t, "rock", table.Rows[0].Word2)
	assert.Equal(t, 2, table.Rows[0].Count)
	assert.Equal(t, "rock", table.Rows[1].Word1)
	assert.Equal(t, "sad", table.Rows[1].Word2)
	assert.Equal(t, 2, table.Rows[1].Count)
	assert.Equal(t, 4, table.Documents)
	assert.Equal(t, 2, table.Count("rock", "pop"))
	assert.Zero(t, table.Count("pop", "sad"), "pair below cutoff")
}

func TestCountPairsNPMI(t *testing.T) {
	table := CountPairs([][]string{{"a", "b"}, {"b", "a"}, {"c"}}, 0)
	require.Len(t, table.Rows, 1)
	assert.InDelta(t, 1, table.Rows[0].NPMI, 1e-9)
}

func TestPairTableAtLeast(t *testing.T) {
	docs := [][]string{{"a", "b"}, {"a", "b"}, {"b", "c"}}
	table := CountPairs(docs, 0).AtLeast(2)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "a", table.Rows[0].Word1)
	assert.Equal(t, 2, table.Rows[0].Count)
	assert.Equal(t, 3, table.TotalPairs, "totals kept")
}

func TestCoMatrix(t *testing.T) {
	m := CoMatrix([]PairCount{
		{Word1: "a", Word2: "b", Count: 3},
		{Word1: "b", Word2: "c", Count: 1},
	})
	assert.Equal(t, []string{"a", "b", "c"}, m.Words)
	assert.Equal(t, [][]int{
		{0, 3, 0},
		{3, 0, 1},
		{0, 1, 0},
	}, m.Cells)
	assert.Equal(t, 1, m.Get("c", "b"))
	assert.Zero(t, m.Get("a", "zzz"))
}

func TestCoMatrixEmpty(t *testing.T) {
	m := CoMatrix(nil)
	assert.Empty(t, m.Words)
	assert.Empty(t, m.Cells)
}

func TestCrossPairs(t *testing.T) {
	left := [][]string{{"pop", "rock", "pop"}, {"jazz"}, nil}
	right := [][]string{{"sad"}, {}, {"happy"}}
	table := CrossPairs(left, right, 30)
	assert.Equal(t, []CrossPair{
		{Left: "pop", Right: "sad", Count: 1},
		{Left: "rock", Right: "sad", Count: 1},
	}, table.Rows)
	assert.Equal(t, 1, table.Documents)
	assert.Equal(t, 2, table.TotalPairs)
}

func TestCrossPairsDirectionalAndSelf(t *testing.T) {
	left := [][]string{{"house"}, {"dark"}, {"house"}}
	right := [][]string{{"house"}, {"house"}, {"house"}}
	table := CrossPairs(left, right, 30)
	assert.Equal(t, []CrossPair{
		{Left: "house", Right: "house", Count: 2},
		{Left: "dark", Right: "house", Count: 1},
	}, table.Rows)
}

func TestProfilePrompts(t *testing.T) {
	prof := ProfilePrompts([]string{"Chill Lofi beats", "", "  ", "lofi & jazz!"}, 20, 1)
	require.Equal(t, 2, prof.Prompts)
	assert.Equal(t, 14.0, prof.AverageLength)
	require.NotEmpty(t, prof.TopWords)
	assert.Equal(t, WordCount{"lofi", 2}, prof.TopWords[0])
	assert.Equal(t, []string{"Chill Lofi beats"}, prof.Samples)
}
