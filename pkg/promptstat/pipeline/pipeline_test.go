package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/promptstat/pkg/promptstat/analytics"
	"github.com/cognicore/promptstat/pkg/promptstat/config"
	"github.com/cognicore/promptstat/pkg/promptstat/corpus"
	"github.com/cognicore/promptstat/pkg/promptstat/lexicon"
	"github.com/cognicore/promptstat/pkg/promptstat/normalize"
	"github.com/cognicore/promptstat/pkg/promptstat/report"
	"github.com/cognicore/promptstat/pkg/promptstat/store/memstore"
)

// writeFixture writes 100 records. alpha..epsilon occur in 10, 8, 6, 4 and
// 2 prompts, rows 50-52 compare "pop house" prompts with "House&Rock"
// tags, row 60 holds a lone emotion and row 99 has no prompt. Every other
// prompt is a single unknown word that cleaning drops.
func writeFixture(t *testing.T, withTags bool) string {
	t.Helper()
	words := []string{"alpha", "beta", "gamma", "delta", "epsilon"}
	counts := []int{10, 8, 6, 4, 2}

	var b strings.Builder
	if withTags {
		b.WriteString("title,artist,prompt,tags\n")
	} else {
		b.WriteString("title,artist,prompt\n")
	}
	for i := 0; i < 100; i++ {
		prompt, tags := "Xylophonequux!", ""
		switch {
		case i < 10:
			var ws []string
			for k := len(words) - 1; k >= 0; k-- {
				if i < counts[k] {
					ws = append(ws, strings.ToUpper(words[k][:1])+words[k][1:]+",")
				}
			}
			prompt = strings.Join(ws, " ")
		case i >= 50 && i <= 52:
			prompt, tags = "Pop house", "House&Rock"
		case i == 60:
			prompt = "sad"
		case i == 99:
			prompt = ""
		}
		fmt.Fprintf(&b, "song %d,artist %d,%q", i, i%7, prompt)
		if withTags {
			fmt.Fprintf(&b, ",%s", tags)
		}
		b.WriteString("\n")
	}

	path := filepath.Join(t.TempDir(), "songs.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func testOptions(t *testing.T, input string) (Options, *memstore.Store) {
	t.Helper()
	cfg := config.Default()
	cfg.Report.Database = false
	st := memstore.New()
	return Options{
		Input:     input,
		OutputDir: filepath.Join(t.TempDir(), "out"),
		Config:    cfg,
		Normalizer: normalize.New(normalize.Options{
			Vocabulary: normalize.NewWordList("alpha", "beta", "gamma", "delta", "epsilon", "pop", "house", "rock", "sad"),
		}),
		Dictionary: lexicon.Default(),
		Store:      st,
		Now:        func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) },
	}, st
}

func TestExecuteEndToEnd(t *testing.T) {
	opts, st := testOptions(t, writeFixture(t, true))
	out, err := Execute(context.Background(), opts)
	require.NoError(t, err)

	for _, res := range out.Results {
		assert.Equal(t, StatusOK, res.Status, res.String())
	}
	assert.True(t, out.OK())
	assert.NoError(t, out.PersistErr)
	assert.Equal(t, 100, out.Table.Len())

	prompt, ok := out.Analysis.Frequency(corpus.ColCleanedPrompt)
	require.True(t, ok)
	assert.Equal(t, []analytics.WordCount{
		{Word: "alpha", Count: 10},
		{Word: "beta", Count: 8},
		{Word: "gamma", Count: 6},
		{Word: "delta", Count: 4},
		{Word: "pop", Count: 3},
		{Word: "house", Count: 3},
		{Word: "epsilon", Count: 2},
		{Word: "sad", Count: 1},
	}, prompt.Rows)

	tags, ok := out.Analysis.Frequency(corpus.ColCleanedTags)
	require.True(t, ok)
	assert.Equal(t, []analytics.WordCount{{Word: "house", Count: 3}, {Word: "rock", Count: 3}}, tags.Rows)

	genres, ok := out.Analysis.Frequency(corpus.BucketColumn(corpus.SidePrompt, lexicon.Genres))
	require.True(t, ok)
	assert.Equal(t, "pop", genres.Top())

	require.NotEmpty(t, out.Analysis.Pairs)
	assert.Equal(t, analytics.PairCount{Word1: "alpha", Word2: "beta", Count: 8, NPMI: out.Analysis.Pairs[0].Rows[0].NPMI}, out.Analysis.Pairs[0].Rows[0])

	require.NotNil(t, out.Analysis.Consistency)
	summaries := out.Analysis.Consistency.Summaries
	require.Len(t, summaries, 1)
	assert.Equal(t, lexicon.Genres, summaries[0].Category)
	assert.Equal(t, 3, summaries[0].Count)
	assert.InDelta(t, 1.0/3.0, summaries[0].JaccardMean, 1e-12)
	assert.InDelta(t, 0.5, summaries[0].OverlapMedian, 1e-12)
	assert.InDelta(t, 0, summaries[0].JaccardStd, 1e-12)

	assert.Equal(t, 14, out.Analysis.ValidPrompts)

	for _, name := range []string{CategorizedFile, DictionaryFile, report.WorkbookFile, report.SummaryFile} {
		assert.FileExists(t, filepath.Join(out.OutputDir, name))
	}

	runs, err := st.Runs(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, out.RunID, runs[0].ID)
	assert.Len(t, runs[0].Stages, len(Stages))
	stored, err := st.Frequencies(context.Background(), out.RunID, string(corpus.ColCleanedPrompt))
	require.NoError(t, err)
	assert.Equal(t, "alpha", stored[0].Word)
}

func TestExecuteCategorizedRoundTrip(t *testing.T) {
	opts, _ := testOptions(t, writeFixture(t, true))
	first, err := Execute(context.Background(), opts)
	require.NoError(t, err)

	// A categorized corpus can be analysed again without cleaning.
	again, _ := testOptions(t, filepath.Join(first.OutputDir, CategorizedFile))
	again.Skip = []Stage{StageClean, StageCategorize}
	second, err := Execute(context.Background(), again)
	require.NoError(t, err)

	res, _ := second.Result(StageFrequency)
	assert.Equal(t, StatusOK, res.Status)
	a, _ := first.Analysis.Frequency(corpus.ColCleanedPrompt)
	b, _ := second.Analysis.Frequency(corpus.ColCleanedPrompt)
	assert.Equal(t, a.Rows, b.Rows)
	assert.Equal(t, first.Analysis.Consistency.Summaries, second.Analysis.Consistency.Summaries)
}

func TestExecuteMissingInput(t *testing.T) {
	opts, _ := testOptions(t, filepath.Join(t.TempDir(), "missing.csv"))
	_, err := Execute(context.Background(), opts)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestExecuteSkipStages(t *testing.T) {
	opts, _ := testOptions(t, writeFixture(t, true))
	opts.Skip = []Stage{StageReport, StageConsistency}
	out, err := Execute(context.Background(), opts)
	require.NoError(t, err)

	res, ok := out.Result(StageReport)
	require.True(t, ok)
	assert.Equal(t, StatusSkipped, res.Status)
	res, _ = out.Result(StageConsistency)
	assert.Equal(t, StatusSkipped, res.Status)
	assert.Nil(t, out.Analysis.Consistency)
	assert.NoFileExists(t, filepath.Join(out.OutputDir, report.WorkbookFile))
}

func TestExecuteStageFailureIsLocal(t *testing.T) {
	opts, _ := testOptions(t, writeFixture(t, true))
	// A directory where the categorized workbook should go makes the
	// write fail.
	require.NoError(t, os.MkdirAll(filepath.Join(opts.OutputDir, CategorizedFile), 0o755))

	out, err := Execute(context.Background(), opts)
	require.NoError(t, err)

	res, _ := out.Result(StageCategorize)
	assert.Equal(t, StatusFailed, res.Status)
	assert.Error(t, res.Err)
	assert.False(t, out.OK())
	require.Len(t, out.Failures(), 1)

	for _, s := range []Stage{StageFrequency, StageConsistency, StageReport} {
		res, _ := out.Result(s)
		assert.Equal(t, StatusOK, res.Status, s)
	}
}

func TestExecuteWithoutTags(t *testing.T) {
	opts, _ := testOptions(t, writeFixture(t, false))
	out, err := Execute(context.Background(), opts)
	require.NoError(t, err)

	res, _ := out.Result(StageConsistency)
	assert.Equal(t, StatusSkipped, res.Status)
	_, ok := out.Analysis.Frequency(corpus.ColCleanedTags)
	assert.False(t, ok)
	assert.True(t, out.OK())
}

func TestExecuteDefaultOutputDir(t *testing.T) {
	opts, _ := testOptions(t, writeFixture(t, true))
	opts.OutputDir = ""
	opts.Skip = Stages
	wd, err := os.Getwd()
	require.NoError(t, err)
	tmp := t.TempDir()
	require.NoError(t, os.Chdir(tmp))
	defer os.Chdir(wd)

	out, err := Execute(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, "analysis_results_20240501_120000", out.OutputDir)
	assert.DirExists(t, filepath.Join(tmp, out.OutputDir))
}

func TestExecuteCanceled(t *testing.T) {
	opts, _ := testOptions(t, writeFixture(t, true))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out, err := Execute(ctx, opts)
	require.NoError(t, err)
	for _, res := range out.Results {
		assert.Equal(t, StatusSkipped, res.Status)
	}
}

func TestParseStages(t *testing.T) {
	stages, err := ParseStages([]string{"clean", " Report ", ""})
	require.NoError(t, err)
	assert.Equal(t, []Stage{StageClean, StageReport}, stages)

	_, err = ParseStages([]string{"scrape"})
	assert.Error(t, err)
}
