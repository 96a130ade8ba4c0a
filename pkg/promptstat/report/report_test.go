package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/cognicore/promptstat/pkg/promptstat/analytics"
	"github.com/cognicore/promptstat/pkg/promptstat/consistency"
	"github.com/cognicore/promptstat/pkg/promptstat/corpus"
	"github.com/cognicore/promptstat/pkg/promptstat/lexicon"
	"github.com/cognicore/promptstat/pkg/promptstat/tabular"
)

func sampleAnalysis() *Analysis {
	prompts := [][]string{{"chill", "lofi", "beats"}, {"lofi", "jazz"}, {"dark", "techno"}}
	genres := [][]string{{"lofi"}, {"lofi", "jazz"}, {"techno"}}
	emotions := [][]string{{"chill"}, nil, {"dark"}}

	freq := analytics.CountWords(prompts, 30)
	freq.Column = string(corpus.ColCleanedPrompt)
	genreFreq := analytics.CountWords(genres, 20)
	genreFreq.Column = string(corpus.BucketColumn(corpus.SidePrompt, lexicon.Genres))
	pairs := analytics.CountPairs(prompts, 30)
	pairs.Column = string(corpus.ColCleanedPrompt)
	cross := analytics.CrossPairs(genres, emotions, 30)
	cross.LeftColumn = string(corpus.BucketColumn(corpus.SidePrompt, lexicon.Genres))
	cross.RightColumn = string(corpus.BucketColumn(corpus.SidePrompt, lexicon.Emotions))

	d, _ := consistency.Compare([]string{"house", "pop"}, []string{"house", "rock"})
	d.Category = lexicon.Genres
	details := []consistency.Detail{d}

	return &Analysis{
		RunID:           "01HZX",
		Input:           "songs.csv",
		GeneratedAt:     time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Records:         3,
		ValidPrompts:    3,
		AvgPromptLength: 12.5,
		Frequencies:     []analytics.FrequencyTable{freq, genreFreq},
		Pairs:           []analytics.PairTable{pairs},
		Cross:           []analytics.CrossTable{cross},
		Consistency: &consistency.Result{
			Details:   details,
			Summaries: []consistency.Summary{consistency.Summarize(lexicon.Genres, details)},
		},
		Languages: []analytics.WordCount{{Word: "en", Count: 3}},
	}
}

func TestSummary(t *testing.T) {
	s := sampleAnalysis().Summary()
	assert.Equal(t, "lofi", s.TopWord)
	assert.Equal(t, "lofi", s.TopGenre)
	assert.Equal(t, Unknown, s.TopEmotion)
	assert.Equal(t, Unknown, s.TopNarrative)
	require.Len(t, s.Consistency, 1)
	assert.InDelta(t, 1.0/3.0, s.Consistency[0].JaccardMean, 1e-12)
}

func TestSheets(t *testing.T) {
	var names []string
	for _, sh := range sampleAnalysis().Sheets() {
		names = append(names, sh.Name)
		assert.LessOrEqual(t, len([]rune(sh.Name)), tabular.MaxSheetName)
	}
	assert.Equal(t, []string{
		"summary",
		"cleaned_prompt_freq",
		"prompt_genres_freq",
		"cleaned_prompt_pairs",
		"cooccurrence_cleaned_prompt",
		"prompt_genres_x_prompt_emotions",
		"consistency_summary",
		"consistency_details",
		"languages",
		"info",
	}, names)
}

func TestSheetsSkipMissingParts(t *testing.T) {
	a := &Analysis{RunID: "r", GeneratedAt: time.Now()}
	sheets := a.Sheets()
	require.Len(t, sheets, 2)
	assert.Equal(t, "summary", sheets[0].Name)
	assert.Equal(t, "info", sheets[1].Name)
	assert.Equal(t, []string{"top word", Unknown}, sheets[0].Rows[3])
}

func TestUniqueNames(t *testing.T) {
	long := strings.Repeat("x", 40)
	sheets := uniqueNames([]tabular.Sheet{{Name: long}, {Name: long}, {Name: "a"}})
	assert.Equal(t, strings.Repeat("x", 31), sheets[0].Name)
	assert.Equal(t, strings.Repeat("x", 29)+"_2", sheets[1].Name)
	assert.Equal(t, "a", sheets[2].Name)
}

func TestWriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), WorkbookFile)
	require.NoError(t, WriteWorkbook(path, sampleAnalysis()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Contains(t, f.GetSheetList(), "consistency_details")
	rows, err := f.GetRows("cooccurrence_cleaned_prompt")
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.Equal(t, []string{"", "beats", "chill", "lofi", "jazz", "dark", "techno"}, rows[0])
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), SummaryFile)
	require.NoError(t, WriteJSON(path, sampleAnalysis()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var back Summary
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, "01HZX", back.RunID)
	assert.Equal(t, 3, back.TotalRows)
	assert.Equal(t, "lofi", back.TopWord)
	require.Len(t, back.Consistency, 1)
	assert.Equal(t, lexicon.Genres, back.Consistency[0].Category)
}

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	Print(&buf, sampleAnalysis())
	out := buf.String()
	assert.Contains(t, out, "Top words: cleaned_prompt")
	assert.Contains(t, out, "lofi")
	assert.Contains(t, out, "Prompt/tag consistency")
	assert.Contains(t, out, "0.3333")
}
