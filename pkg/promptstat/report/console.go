package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/cognicore/promptstat/pkg/promptstat/analytics"
	"github.com/cognicore/promptstat/pkg/promptstat/corpus"
)

// consoleRows caps the rows printed per table.
const consoleRows = 15

// Print writes the headline figures, the top prompt and tag words and the
// consistency summary to w.
func Print(w io.Writer, a *Analysis) {
	s := a.Summary()
	heading := color.New(color.FgCyan, color.Bold)

	heading.Fprintln(w, "Summary")
	fmt.Fprintf(w, "  records:        %s\n", humanize.Comma(int64(s.TotalRows)))
	fmt.Fprintf(w, "  valid prompts:  %s\n", humanize.Comma(int64(s.ValidPrompts)))
	fmt.Fprintf(w, "  avg prompt:     %.1f chars\n", s.AvgPromptLength)
	fmt.Fprintf(w, "  top word:       %s\n", highlight(s.TopWord))
	fmt.Fprintf(w, "  top genre:      %s\n", highlight(s.TopGenre))
	fmt.Fprintf(w, "  top emotion:    %s\n", highlight(s.TopEmotion))
	fmt.Fprintf(w, "  top narrative:  %s\n", highlight(s.TopNarrative))

	for _, c := range []corpus.Column{corpus.ColCleanedPrompt, corpus.ColCleanedTags} {
		if f, ok := a.Frequency(c); ok && len(f.Rows) > 0 {
			fmt.Fprintln(w)
			heading.Fprintf(w, "Top words: %s\n", c)
			printFrequency(w, f)
		}
	}

	if len(s.Consistency) > 0 {
		fmt.Fprintln(w)
		heading.Fprintln(w, "Prompt/tag consistency")
		table := newTable(w, []string{"Category", "Rows", "Jaccard mean", "Jaccard median", "Overlap mean", "Overlap median"})
		for _, c := range s.Consistency {
			table.Append([]string{
				c.Category,
				strconv.Itoa(c.Count),
				formatScore(c.JaccardMean),
				formatScore(c.JaccardMedian),
				formatScore(c.OverlapMean),
				formatScore(c.OverlapMedian),
			})
		}
		table.Render()
	}
}

func printFrequency(w io.Writer, f analytics.FrequencyTable) {
	table := newTable(w, []string{"#", "Word", "Count"})
	for i, r := range f.Rows {
		if i == consoleRows {
			break
		}
		table.Append([]string{strconv.Itoa(i + 1), r.Word, humanize.Comma(int64(r.Count))})
	}
	table.Render()
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	return table
}

func highlight(v string) string {
	if v == Unknown {
		return color.YellowString(v)
	}
	return color.GreenString(v)
}
