// Package pipeline runs the analysis stages over a corpus file: clean,
// categorize, frequency, consistency and report. Each stage consumes the
// table produced so far and yields a new one; only failing to load the
// input stops a run.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"

	"github.com/cognicore/promptstat/pkg/promptstat/config"
	"github.com/cognicore/promptstat/pkg/promptstat/corpus"
	"github.com/cognicore/promptstat/pkg/promptstat/lexicon"
	"github.com/cognicore/promptstat/pkg/promptstat/normalize"
	"github.com/cognicore/promptstat/pkg/promptstat/report"
	"github.com/cognicore/promptstat/pkg/promptstat/store"
)

// Artifacts written into the output directory besides the report.
const (
	CategorizedFile = "categorized.xlsx"
	DictionaryFile  = "word_categories.csv"
)

// OutputDirLayout is the time layout of generated output directories.
const OutputDirLayout = "analysis_results_20060102_150405"

// Options configures a run. Zero-valued collaborators are built from
// Config.
type Options struct {
	Input     string
	OutputDir string // defaults to Config.OutputDir, then a timestamped dir
	Skip      []Stage
	Config    config.Config

	Dictionary *lexicon.Dictionary
	Normalizer *normalize.Normalizer
	Detector   normalize.LanguageDetector
	// Store receives the run results. When nil and Config.Report.Database
	// is set, the SQLite database at Config.Database() is used.
	Store store.Store
	// Console receives the printed summary; nil prints nothing.
	Console io.Writer
	Now     func() time.Time
}

// Outcome is what a run produced.
type Outcome struct {
	RunID      string
	OutputDir  string
	Table      *corpus.Table
	Analysis   *report.Analysis
	Results    []Result
	PersistErr error
}

// Result returns the result of a stage.
func (o *Outcome) Result(stage Stage) (Result, bool) {
	for _, r := range o.Results {
		if r.Stage == stage {
			return r, true
		}
	}
	return Result{}, false
}

// Failures returns the failed stages.
func (o *Outcome) Failures() []Result {
	var out []Result
	for _, r := range o.Results {
		if r.Status == StatusFailed {
			out = append(out, r)
		}
	}
	return out
}

// OK reports whether no stage failed.
func (o *Outcome) OK() bool {
	return len(o.Failures()) == 0
}

type runner struct {
	opts     Options
	cfg      config.Config
	outDir   string
	skip     map[Stage]bool
	table    *corpus.Table
	analysis *report.Analysis
	dict     *lexicon.Dictionary
}

// Execute loads the input and runs every stage not listed in Skip. The
// returned error is non-nil only when the input cannot be loaded or the
// output directory cannot be created; stage failures are reported in the
// outcome.
func Execute(ctx context.Context, opts Options) (*Outcome, error) {
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	started := now()

	table, err := corpus.Load(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("load input: %w", err)
	}
	log.WithFields(log.Fields{
		"input":   opts.Input,
		"records": humanize.Comma(int64(table.Len())),
	}).Info("loaded corpus")

	outDir := opts.OutputDir
	if outDir == "" {
		outDir = opts.Config.OutputDir
	}
	if outDir == "" {
		outDir = started.Format(OutputDirLayout)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	r := &runner{
		opts:   opts,
		cfg:    opts.Config,
		outDir: outDir,
		skip:   make(map[Stage]bool, len(opts.Skip)),
		table:  table,
		analysis: &report.Analysis{
			RunID:       store.NewRunID(),
			Input:       opts.Input,
			GeneratedAt: started,
			Records:     table.Len(),
		},
	}
	for _, s := range opts.Skip {
		r.skip[s] = true
	}

	out := &Outcome{RunID: r.analysis.RunID, OutputDir: outDir}
	steps := []struct {
		stage Stage
		fn    func(context.Context) Result
	}{
		{StageClean, r.clean},
		{StageCategorize, r.categorize},
		{StageFrequency, r.frequency},
		{StageConsistency, r.consistency},
		{StageReport, r.report},
	}
	for _, step := range steps {
		res := r.runStage(ctx, step.stage, step.fn)
		out.Results = append(out.Results, res)
	}

	out.Table = r.table
	out.Analysis = r.analysis
	out.PersistErr = r.persist(ctx, out.Results)
	if out.PersistErr != nil {
		log.WithError(out.PersistErr).Warn("run results not stored")
	}
	return out, nil
}

// runStage runs one stage. A panic inside the stage becomes a failed
// result so later stages still run.
func (r *runner) runStage(ctx context.Context, stage Stage, fn func(context.Context) Result) (res Result) {
	if r.skip[stage] {
		res = Skipped(stage, "skipped on request")
		log.WithField("stage", stage).Info("stage skipped on request")
		return res
	}
	if err := ctx.Err(); err != nil {
		return Skipped(stage, err.Error())
	}

	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			res = Failed(stage, fmt.Errorf("panic: %v", p))
		}
		entry := log.WithFields(log.Fields{"stage": stage, "status": res.Status, "elapsed": time.Since(start).Round(time.Millisecond)})
		switch res.Status {
		case StatusFailed:
			entry.WithError(res.Err).Error("stage failed")
		case StatusSkipped:
			entry.Info(res.Reason)
		default:
			entry.Info("stage done")
		}
	}()

	res = fn(ctx)
	res.Stage = stage
	return res
}

func (r *runner) path(name string) string {
	return filepath.Join(r.outDir, name)
}

func (r *runner) dictionary() *lexicon.Dictionary {
	if r.dict != nil {
		return r.dict
	}
	r.dict = r.opts.Dictionary
	if r.dict == nil {
		r.dict = lexicon.Load(r.cfg.DictionaryPath)
	}
	return r.dict
}

func (r *runner) normalizer() *normalize.Normalizer {
	if r.opts.Normalizer != nil {
		return r.opts.Normalizer
	}
	return normalize.New(normalize.Options{
		Vocabulary:  normalize.ResolveVocabulary(r.cfg.VocabularyPath),
		StripMarkup: r.cfg.StripMarkup,
		Memoize:     true,
	})
}

func (r *runner) detector() normalize.LanguageDetector {
	if r.opts.Detector != nil {
		return r.opts.Detector
	}
	if r.cfg.DetectLanguage {
		return normalize.NewLanguageDetector()
	}
	return nil
}
