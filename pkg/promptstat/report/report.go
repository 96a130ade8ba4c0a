// Package report assembles the outputs of an analysis run into a
// workbook, a JSON summary and console tables.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/cognicore/promptstat/pkg/promptstat/analytics"
	"github.com/cognicore/promptstat/pkg/promptstat/consistency"
	"github.com/cognicore/promptstat/pkg/promptstat/corpus"
	"github.com/cognicore/promptstat/pkg/promptstat/lexicon"
)

// Output file names inside the run directory.
const (
	WorkbookFile = "analysis_report.xlsx"
	SummaryFile  = "summary.json"
)

// Unknown fills summary fields that no table could answer.
const Unknown = "unknown"

// Analysis collects everything a run produced. Nil or empty parts belong
// to stages that were skipped or failed.
type Analysis struct {
	RunID       string
	Input       string
	GeneratedAt time.Time

	Records         int
	ValidPrompts    int
	AvgPromptLength float64 // characters per cleaned prompt

	Frequencies []analytics.FrequencyTable
	Pairs       []analytics.PairTable
	Cross       []analytics.CrossTable
	Consistency *consistency.Result
	Languages   []analytics.WordCount
}

// Frequency returns the frequency table of a column.
func (a *Analysis) Frequency(column corpus.Column) (analytics.FrequencyTable, bool) {
	for _, f := range a.Frequencies {
		if f.Column == string(column) {
			return f, true
		}
	}
	return analytics.FrequencyTable{}, false
}

// Summary is the headline view of a run.
type Summary struct {
	RunID           string                `json:"run_id"`
	Input           string                `json:"input"`
	GeneratedAt     time.Time             `json:"generated_at"`
	TotalRows       int                   `json:"total_rows"`
	ValidPrompts    int                   `json:"valid_prompts"`
	AvgPromptLength float64               `json:"avg_prompt_length"`
	TopWord         string                `json:"top_word"`
	TopGenre        string                `json:"top_genre"`
	TopEmotion      string                `json:"top_emotion"`
	TopNarrative    string                `json:"top_narrative"`
	Consistency     []ConsistencySummary  `json:"consistency,omitempty"`
	Languages       []analytics.WordCount `json:"-"`
}

// ConsistencySummary is the JSON form of a consistency.Summary.
type ConsistencySummary struct {
	Category      string  `json:"category"`
	Count         int     `json:"count"`
	JaccardMean   float64 `json:"jaccard_mean"`
	JaccardMedian float64 `json:"jaccard_median"`
	JaccardStd    float64 `json:"jaccard_std"`
	OverlapMean   float64 `json:"overlap_mean"`
	OverlapMedian float64 `json:"overlap_median"`
	OverlapStd    float64 `json:"overlap_std"`
}

// Summary derives the headline metrics.
func (a *Analysis) Summary() Summary {
	s := Summary{
		RunID:           a.RunID,
		Input:           a.Input,
		GeneratedAt:     a.GeneratedAt,
		TotalRows:       a.Records,
		ValidPrompts:    a.ValidPrompts,
		AvgPromptLength: a.AvgPromptLength,
		TopWord:         a.top(corpus.ColCleanedPrompt),
		TopGenre:        a.top(corpus.BucketColumn(corpus.SidePrompt, lexicon.Genres)),
		TopEmotion:      a.top(corpus.BucketColumn(corpus.SidePrompt, lexicon.Emotions)),
		TopNarrative:    a.top(corpus.BucketColumn(corpus.SidePrompt, lexicon.Narrative)),
		Languages:       a.Languages,
	}
	if a.Consistency != nil {
		for _, c := range a.Consistency.Summaries {
			s.Consistency = append(s.Consistency, ConsistencySummary(c))
		}
	}
	return s
}

func (a *Analysis) top(c corpus.Column) string {
	f, ok := a.Frequency(c)
	if !ok || f.Top() == "" {
		return Unknown
	}
	return f.Top()
}

// WriteJSON writes the summary as indented JSON.
func WriteJSON(path string, a *Analysis) error {
	data, err := json.MarshalIndent(a.Summary(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}
