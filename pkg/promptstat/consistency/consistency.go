// Package consistency measures how well a prompt's categorized vocabulary
// agrees with its tags' vocabulary.
package consistency

import (
	"sort"
	"strings"

	"github.com/montanaflynn/stats"
	log "github.com/sirupsen/logrus"

	"github.com/cognicore/promptstat/pkg/promptstat/corpus"
	"github.com/cognicore/promptstat/pkg/promptstat/lexicon"
)

// DefaultCategories are the categories scored when none are configured.
var DefaultCategories = []string{lexicon.Genres, lexicon.Emotions, lexicon.Narrative}

// Detail is the comparison of one record in one category.
type Detail struct {
	Row         int
	Category    string
	PromptWords []string
	TagWords    []string
	CommonWords []string
	Jaccard     float64
	Overlap     float64
}

// UnionCount is the size of the union of both word sets.
func (d Detail) UnionCount() int {
	return len(d.PromptWords) + len(d.TagWords) - len(d.CommonWords)
}

// Summary aggregates the details of one category.
type Summary struct {
	Category      string
	Count         int
	JaccardMean   float64
	JaccardMedian float64
	JaccardStd    float64
	OverlapMean   float64
	OverlapMedian float64
	OverlapStd    float64
}

// Result holds every scored detail, one summary per scored category and the
// categories that could not be scored because a column was absent.
type Result struct {
	Details   []Detail
	Summaries []Summary
	Skipped   []string
}

// Summary returns the summary of a category.
func (r Result) Summary(category string) (Summary, bool) {
	for _, s := range r.Summaries {
		if s.Category == category {
			return s, true
		}
	}
	return Summary{}, false
}

// Compare scores two word lists. Blank entries are ignored and repeats
// collapse. ok is false when either set ends up empty.
func Compare(prompt, tag []string) (d Detail, ok bool) {
	p, t := wordSet(prompt), wordSet(tag)
	if len(p) == 0 || len(t) == 0 {
		return Detail{}, false
	}
	var common []string
	for w := range p {
		if _, ok := t[w]; ok {
			common = append(common, w)
		}
	}
	sort.Strings(common)

	inter := float64(len(common))
	union := float64(len(p) + len(t) - len(common))
	smaller := len(p)
	if len(t) < smaller {
		smaller = len(t)
	}

	d = Detail{
		PromptWords: sortedKeys(p),
		TagWords:    sortedKeys(t),
		CommonWords: common,
		Jaccard:     inter / union,
	}
	if smaller > 0 {
		d.Overlap = inter / float64(smaller)
	}
	return d, true
}

// Score compares the prompt and tag buckets of every record for each
// category. A category whose prompt or tag bucket column is absent is
// skipped with a notice.
func Score(table *corpus.Table, categories []string) Result {
	if len(categories) == 0 {
		categories = DefaultCategories
	}
	var res Result
	for _, cat := range categories {
		pc := corpus.BucketColumn(corpus.SidePrompt, cat)
		tc := corpus.BucketColumn(corpus.SideTag, cat)
		if err := table.Require(pc, tc); err != nil {
			log.WithField("category", cat).Infof("skipping consistency: %v", err)
			res.Skipped = append(res.Skipped, cat)
			continue
		}

		var details []Detail
		for _, r := range table.Records {
			pw, _ := r.Bucket(corpus.SidePrompt, cat)
			tw, _ := r.Bucket(corpus.SideTag, cat)
			d, ok := Compare(pw, tw)
			if !ok {
				continue
			}
			d.Row = r.Row
			d.Category = cat
			details = append(details, d)
		}
		if len(details) == 0 {
			log.WithField("category", cat).Info("no records to compare")
			continue
		}
		res.Details = append(res.Details, details...)
		res.Summaries = append(res.Summaries, Summarize(cat, details))
		log.WithFields(log.Fields{"category": cat, "rows": len(details)}).Debug("scored consistency")
	}
	return res
}

// Summarize aggregates details into mean, median and sample standard
// deviation. Std is 0 with fewer than two rows; every figure is 0 with none.
func Summarize(category string, details []Detail) Summary {
	s := Summary{Category: category, Count: len(details)}
	if len(details) == 0 {
		return s
	}
	jac := make([]float64, len(details))
	ovl := make([]float64, len(details))
	for i, d := range details {
		jac[i] = d.Jaccard
		ovl[i] = d.Overlap
	}
	s.JaccardMean, s.JaccardMedian, s.JaccardStd = describe(jac)
	s.OverlapMean, s.OverlapMedian, s.OverlapStd = describe(ovl)
	return s
}

func describe(xs []float64) (mean, median, std float64) {
	data := stats.Float64Data(xs)
	mean, _ = stats.Mean(data)
	median, _ = stats.Median(data)
	if len(xs) > 1 {
		std, _ = stats.StandardDeviationSample(data)
	}
	return mean, median, std
}

func wordSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		set[w] = struct{}{}
	}
	return set
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for w := range set {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}
