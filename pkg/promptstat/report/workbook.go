package report

import (
	"strconv"
	"strings"
	"time"

	"github.com/cognicore/promptstat/pkg/promptstat/analytics"
	"github.com/cognicore/promptstat/pkg/promptstat/consistency"
	"github.com/cognicore/promptstat/pkg/promptstat/lexicon"
	"github.com/cognicore/promptstat/pkg/promptstat/tabular"
)

// Sheets lays the analysis out as workbook sheets: the summary first, then
// frequency, pair, matrix and cross tables, consistency, languages and run
// info.
func (a *Analysis) Sheets() []tabular.Sheet {
	var sheets []tabular.Sheet
	sheets = append(sheets, a.summarySheet())

	for _, f := range a.Frequencies {
		sheets = append(sheets, frequencySheet(f))
	}
	for _, p := range a.Pairs {
		sheets = append(sheets, pairSheet(p))
		if len(p.Rows) > 0 {
			sheets = append(sheets, matrixSheet(p.Column, analytics.CoMatrix(p.Rows)))
		}
	}
	for _, c := range a.Cross {
		sheets = append(sheets, crossSheet(c))
	}
	if a.Consistency != nil && len(a.Consistency.Summaries) > 0 {
		sheets = append(sheets, consistencySummarySheet(a.Summary().Consistency), consistencyDetailSheet(a.Consistency.Details))
	}
	if len(a.Languages) > 0 {
		sheets = append(sheets, languageSheet(a.Languages))
	}
	sheets = append(sheets, a.infoSheet())
	return uniqueNames(sheets)
}

// WriteWorkbook writes the analysis workbook to path.
func WriteWorkbook(path string, a *Analysis) error {
	return tabular.WriteWorkbook(path, a.Sheets())
}

func (a *Analysis) summarySheet() tabular.Sheet {
	s := a.Summary()
	return tabular.Sheet{
		Name:   "summary",
		Header: []string{"metric", "value"},
		Rows: [][]string{
			{"total rows", strconv.Itoa(s.TotalRows)},
			{"valid prompts", strconv.Itoa(s.ValidPrompts)},
			{"average prompt length", strconv.FormatFloat(s.AvgPromptLength, 'f', 1, 64) + " chars"},
			{"top word", s.TopWord},
			{"top genre", s.TopGenre},
			{"top emotion", s.TopEmotion},
			{"top narrative element", s.TopNarrative},
		},
	}
}

func frequencySheet(f analytics.FrequencyTable) tabular.Sheet {
	sh := tabular.Sheet{
		Name:    f.Column + "_freq",
		Header:  []string{"word", "count"},
		Numeric: []int{1},
	}
	for _, r := range f.Rows {
		sh.Rows = append(sh.Rows, []string{r.Word, strconv.Itoa(r.Count)})
	}
	return sh
}

func pairSheet(p analytics.PairTable) tabular.Sheet {
	sh := tabular.Sheet{
		Name:    p.Column + "_pairs",
		Header:  []string{"word1", "word2", "count", "npmi"},
		Numeric: []int{2, 3},
	}
	for _, r := range p.Rows {
		sh.Rows = append(sh.Rows, []string{r.Word1, r.Word2, strconv.Itoa(r.Count), formatScore(r.NPMI)})
	}
	return sh
}

func matrixSheet(column string, m analytics.Matrix) tabular.Sheet {
	sh := tabular.Sheet{
		Name:   "cooccurrence_" + column,
		Header: append([]string{""}, m.Words...),
	}
	for i := range m.Words {
		sh.Numeric = append(sh.Numeric, i+1)
	}
	for i, w := range m.Words {
		row := make([]string, 0, len(m.Words)+1)
		row = append(row, w)
		for _, c := range m.Cells[i] {
			row = append(row, strconv.Itoa(c))
		}
		sh.Rows = append(sh.Rows, row)
	}
	return sh
}

func crossSheet(c analytics.CrossTable) tabular.Sheet {
	sh := tabular.Sheet{
		Name:    c.LeftColumn + "_x_" + c.RightColumn,
		Header:  []string{c.LeftColumn, c.RightColumn, "count"},
		Numeric: []int{2},
	}
	for _, r := range c.Rows {
		sh.Rows = append(sh.Rows, []string{r.Left, r.Right, strconv.Itoa(r.Count)})
	}
	return sh
}

func consistencySummarySheet(rows []ConsistencySummary) tabular.Sheet {
	sh := tabular.Sheet{
		Name: "consistency_summary",
		Header: []string{"category", "count", "jaccard_mean", "jaccard_median", "jaccard_std",
			"overlap_mean", "overlap_median", "overlap_std"},
		Numeric: []int{1, 2, 3, 4, 5, 6, 7},
	}
	for _, r := range rows {
		sh.Rows = append(sh.Rows, []string{
			r.Category, strconv.Itoa(r.Count),
			formatScore(r.JaccardMean), formatScore(r.JaccardMedian), formatScore(r.JaccardStd),
			formatScore(r.OverlapMean), formatScore(r.OverlapMedian), formatScore(r.OverlapStd),
		})
	}
	return sh
}

func consistencyDetailSheet(details []consistency.Detail) tabular.Sheet {
	sh := tabular.Sheet{
		Name: "consistency_details",
		Header: []string{"row", "category", "prompt_words", "tag_words", "common_words",
			"prompt_count", "tag_count", "common_count", "jaccard", "overlap"},
		Numeric: []int{0, 5, 6, 7, 8, 9},
	}
	for _, d := range details {
		sh.Rows = append(sh.Rows, []string{
			strconv.Itoa(d.Row), d.Category,
			joinWords(d.PromptWords), joinWords(d.TagWords), joinWords(d.CommonWords),
			strconv.Itoa(len(d.PromptWords)), strconv.Itoa(len(d.TagWords)), strconv.Itoa(len(d.CommonWords)),
			formatScore(d.Jaccard), formatScore(d.Overlap),
		})
	}
	return sh
}

func languageSheet(langs []analytics.WordCount) tabular.Sheet {
	sh := tabular.Sheet{
		Name:    "languages",
		Header:  []string{"language", "prompts"},
		Numeric: []int{1},
	}
	for _, l := range langs {
		sh.Rows = append(sh.Rows, []string{l.Word, strconv.Itoa(l.Count)})
	}
	return sh
}

func (a *Analysis) infoSheet() tabular.Sheet {
	return tabular.Sheet{
		Name:   "info",
		Header: []string{"key", "value"},
		Rows: [][]string{
			{"run id", a.RunID},
			{"input file", a.Input},
			{"generated at", a.GeneratedAt.Format(time.RFC3339)},
		},
	}
}

// uniqueNames truncates sheet names to the workbook limit and suffixes
// repeats.
func uniqueNames(sheets []tabular.Sheet) []tabular.Sheet {
	seen := make(map[string]bool, len(sheets))
	for i := range sheets {
		name := tabular.SheetName(sheets[i].Name)
		for n := 2; seen[name]; n++ {
			suffix := "_" + strconv.Itoa(n)
			base := []rune(sheets[i].Name)
			if keep := tabular.MaxSheetName - len(suffix); len(base) > keep {
				base = base[:keep]
			}
			name = string(base) + suffix
		}
		seen[name] = true
		sheets[i].Name = name
	}
	return sheets
}

func joinWords(words []string) string {
	return strings.Join(words, lexicon.BucketSeparator)
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
