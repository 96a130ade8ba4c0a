package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cognicore/promptstat/pkg/promptstat/store"
	"github.com/cognicore/promptstat/pkg/promptstat/store/sqlite"
)

// persist stores the run and its tables. It does nothing when no store is
// given and the database output is disabled.
func (r *runner) persist(ctx context.Context, results []Result) error {
	st := r.opts.Store
	if st == nil {
		if !r.cfg.Report.Database {
			return nil
		}
		path := r.cfg.Database()
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("create database dir: %w", err)
		}
		opened, err := sqlite.OpenSQLite(ctx, path)
		if err != nil {
			return err
		}
		defer opened.Close()
		st = opened
	}

	a := r.analysis
	run := store.Run{
		ID:        a.RunID,
		Input:     a.Input,
		OutputDir: r.outDir,
		StartedAt: a.GeneratedAt,
		Records:   a.Records,
	}
	for _, res := range results {
		o := store.StageOutcome{Stage: string(res.Stage), Status: string(res.Status), Reason: res.Reason}
		if res.Err != nil {
			o.Reason = res.Err.Error()
		}
		run.Stages = append(run.Stages, o)
	}
	if err := st.SaveRun(ctx, run); err != nil {
		return fmt.Errorf("save run: %w", err)
	}

	for _, f := range a.Frequencies {
		rows := make([]store.WordCount, len(f.Rows))
		for i, wc := range f.Rows {
			rows[i] = store.WordCount{Word: wc.Word, Count: wc.Count}
		}
		if err := st.SaveFrequencies(ctx, run.ID, f.Column, rows); err != nil {
			return fmt.Errorf("save frequencies %s: %w", f.Column, err)
		}
	}
	for _, p := range a.Pairs {
		rows := make([]store.Pair, len(p.Rows))
		for i, pc := range p.Rows {
			rows[i] = store.Pair{Word1: pc.Word1, Word2: pc.Word2, Count: pc.Count, NPMI: pc.NPMI}
		}
		if err := st.SavePairs(ctx, run.ID, p.Column, rows); err != nil {
			return fmt.Errorf("save pairs %s: %w", p.Column, err)
		}
	}
	for _, x := range a.Cross {
		column := x.LeftColumn + "_x_" + x.RightColumn
		rows := make([]store.Pair, len(x.Rows))
		for i, cp := range x.Rows {
			rows[i] = store.Pair{Word1: cp.Left, Word2: cp.Right, Count: cp.Count}
		}
		if err := st.SavePairs(ctx, run.ID, column, rows); err != nil {
			return fmt.Errorf("save pairs %s: %w", column, err)
		}
	}
	if a.Consistency != nil {
		rows := make([]store.Consistency, len(a.Consistency.Summaries))
		for i, s := range a.Consistency.Summaries {
			rows[i] = store.Consistency(s)
		}
		if err := st.SaveConsistency(ctx, run.ID, rows); err != nil {
			return fmt.Errorf("save consistency: %w", err)
		}
	}
	return nil
}
