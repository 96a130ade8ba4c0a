package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"

	"github.com/cognicore/promptstat/pkg/promptstat/analytics"
	"github.com/cognicore/promptstat/pkg/promptstat/consistency"
	"github.com/cognicore/promptstat/pkg/promptstat/corpus"
	"github.com/cognicore/promptstat/pkg/promptstat/lexicon"
	"github.com/cognicore/promptstat/pkg/promptstat/normalize"
	"github.com/cognicore/promptstat/pkg/promptstat/report"
)

// clean derives cleaned_prompt and cleaned_tags, plus prompt_language when
// a detector is configured. Raw tags are split on '&' first so adjacent
// tags are not glued together by punctuation removal.
func (r *runner) clean(ctx context.Context) Result {
	hasPrompt := r.table.Schema.Has(corpus.ColPrompt)
	hasTags := r.table.Schema.Has(corpus.ColTags)
	if !hasPrompt && !hasTags {
		return Skipped(StageClean, "input has neither prompt nor tags")
	}

	norm := r.normalizer()
	if norm.Permissive() {
		log.Warn("cleaning without a vocabulary; non-alphabetic tokens are dropped")
	}
	detect := r.detector()

	var cols []corpus.Column
	if hasPrompt {
		cols = append(cols, corpus.ColCleanedPrompt)
		if detect != nil {
			cols = append(cols, corpus.ColPromptLanguage)
		}
	}
	if hasTags {
		cols = append(cols, corpus.ColCleanedTags)
	}

	r.table = r.table.Derive(func(rec corpus.Record) corpus.Record {
		if hasPrompt {
			rec.CleanedPrompt = corpus.Some(norm.Value(rec.Prompt.Ptr()))
			if detect != nil && rec.Prompt.NonEmpty() {
				rec.PromptLanguage = corpus.Some(detect.Detect(normalize.StripMarkup(rec.Prompt.String)))
			}
		}
		if hasTags {
			var raw interface{}
			if rec.Tags.Valid {
				raw = strings.Join(rec.TagList(), " ")
			}
			rec.CleanedTags = corpus.Some(norm.Value(raw))
		}
		return rec
	}, cols...)

	fields := log.Fields{}
	if hasPrompt {
		fields["prompts"] = humanize.Comma(int64(r.table.NonEmpty(corpus.ColCleanedPrompt)))
	}
	if hasTags {
		fields["tags"] = humanize.Comma(int64(r.table.NonEmpty(corpus.ColCleanedTags)))
	}
	log.WithFields(fields).Info("cleaned text")
	return Ok(StageClean)
}

// categorize derives one bucket column per dictionary category and side,
// then writes the categorized corpus and the dictionary used.
func (r *runner) categorize(ctx context.Context) Result {
	var sides []corpus.Side
	if r.table.Schema.Has(corpus.ColCleanedPrompt) {
		sides = append(sides, corpus.SidePrompt)
	}
	if r.table.Schema.Has(corpus.ColCleanedTags) {
		sides = append(sides, corpus.SideTag)
	}
	if len(sides) == 0 {
		return Skipped(StageCategorize, "no cleaned text columns")
	}

	dict := r.dictionary()
	var cols []corpus.Column
	for _, side := range sides {
		cols = append(cols, corpus.BucketColumns(side, dict.Keys())...)
	}

	r.table = r.table.Derive(func(rec corpus.Record) corpus.Record {
		for _, side := range sides {
			text := rec.CleanedPrompt
			if side == corpus.SideTag {
				text = rec.CleanedTags
			}
			b := dict.CategorizeText(text.String)
			if side == corpus.SideTag {
				rec.TagBuckets = b
			} else {
				rec.PromptBuckets = b
			}
		}
		return rec
	}, cols...)

	var errs []error
	if err := lexicon.Export(r.path(DictionaryFile), dict); err != nil {
		errs = append(errs, err)
	}
	if err := corpus.Write(r.path(CategorizedFile), r.table); err != nil {
		errs = append(errs, fmt.Errorf("write categorized corpus: %w", err))
	}
	if len(errs) > 0 {
		return Failed(StageCategorize, errors.Join(errs...))
	}
	log.WithFields(log.Fields{
		"categories": strings.Join(dict.Keys(), ","),
		"output":     r.path(CategorizedFile),
	}).Info("categorized text")
	return Ok(StageCategorize)
}

// crossColumns are the category pairs compared across prompt buckets.
var crossColumns = [][2]corpus.Column{
	{corpus.BucketColumn(corpus.SidePrompt, lexicon.Genres), corpus.BucketColumn(corpus.SidePrompt, lexicon.Emotions)},
	{corpus.BucketColumn(corpus.SidePrompt, lexicon.Genres), corpus.BucketColumn(corpus.SidePrompt, lexicon.Narrative)},
}

// frequency counts words per text and bucket column, pairs within the
// cleaned text columns, cross-category pairs and detected languages.
// Absent columns are skipped with a notice.
func (r *runner) frequency(ctx context.Context) Result {
	t := r.table
	a := r.analysis
	counted := 0

	for _, c := range []corpus.Column{corpus.ColCleanedPrompt, corpus.ColCleanedTags} {
		docs, err := t.Tokens(c)
		if err != nil {
			log.WithField("column", c).Infof("skipping frequency: %v", err)
			continue
		}
		f := analytics.CountWords(docs, r.cfg.Frequency.TopN)
		f.Column = string(c)
		a.Frequencies = append(a.Frequencies, f)

		p := analytics.CountPairs(docs, r.cfg.Pairs.TopN).AtLeast(r.cfg.Pairs.MinCount)
		p.Column = string(c)
		a.Pairs = append(a.Pairs, p)
		counted++
		log.WithFields(log.Fields{
			"column": c,
			"words":  humanize.Comma(int64(f.TotalWords)),
			"pairs":  humanize.Comma(int64(p.TotalPairs)),
		}).Info("counted words")
	}

	for _, side := range []corpus.Side{corpus.SidePrompt, corpus.SideTag} {
		for _, key := range t.Schema.BucketKeys(side) {
			c := corpus.BucketColumn(side, key)
			docs, err := t.Tokens(c)
			if err != nil {
				continue
			}
			f := analytics.CountWords(docs, r.cfg.Frequency.CategoryTopN)
			f.Column = string(c)
			a.Frequencies = append(a.Frequencies, f)
			counted++
		}
	}

	for _, pair := range crossColumns {
		if !t.Schema.Has(pair[0], pair[1]) {
			log.Infof("skipping cross pairs %s x %s: column missing", pair[0], pair[1])
			continue
		}
		left, _ := t.Tokens(pair[0])
		right, _ := t.Tokens(pair[1])
		x := analytics.CrossPairs(left, right, r.cfg.Pairs.CrossTopN)
		x.LeftColumn, x.RightColumn = string(pair[0]), string(pair[1])
		a.Cross = append(a.Cross, x)
	}

	if langs, err := t.Text(corpus.ColPromptLanguage); err == nil {
		docs := make([][]string, 0, len(langs))
		for _, l := range langs {
			if l.NonEmpty() {
				docs = append(docs, []string{l.String})
			}
		}
		a.Languages = analytics.CountWords(docs, 0).Rows
	}

	if counted == 0 {
		return Skipped(StageFrequency, "no text or category columns")
	}
	return Ok(StageFrequency)
}

// consistency scores prompt/tag agreement per configured category.
func (r *runner) consistency(ctx context.Context) Result {
	cats := r.cfg.Consistency.Categories
	if len(cats) == 0 {
		cats = consistency.DefaultCategories
	}
	res := consistency.Score(r.table, cats)
	if len(res.Skipped) == len(cats) {
		return Skipped(StageConsistency, "no category columns on both sides")
	}
	r.analysis.Consistency = &res
	for _, s := range res.Summaries {
		log.WithFields(log.Fields{
			"category":     s.Category,
			"rows":         s.Count,
			"jaccard_mean": fmt.Sprintf("%.3f", s.JaccardMean),
			"overlap_mean": fmt.Sprintf("%.3f", s.OverlapMean),
		}).Info("consistency")
	}
	return Ok(StageConsistency)
}

// report fills the headline figures and writes the configured outputs.
func (r *runner) report(ctx context.Context) Result {
	a := r.analysis
	if texts, err := r.table.Text(corpus.ColCleanedPrompt); err == nil {
		chars, present := 0, 0
		for _, tx := range texts {
			if !tx.Valid {
				continue
			}
			present++
			chars += utf8.RuneCountInString(tx.String)
			if tx.NonEmpty() {
				a.ValidPrompts++
			}
		}
		if present > 0 {
			a.AvgPromptLength = float64(chars) / float64(present)
		}
	}

	var errs []error
	if r.cfg.Report.Workbook {
		if err := report.WriteWorkbook(r.path(report.WorkbookFile), a); err != nil {
			errs = append(errs, fmt.Errorf("write workbook: %w", err))
		}
	}
	if r.cfg.Report.JSON {
		if err := report.WriteJSON(r.path(report.SummaryFile), a); err != nil {
			errs = append(errs, err)
		}
	}
	if r.opts.Console != nil {
		report.Print(r.opts.Console, a)
	}
	if len(errs) > 0 {
		return Failed(StageReport, errors.Join(errs...))
	}
	return Ok(StageReport)
}
