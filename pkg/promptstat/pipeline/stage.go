package pipeline

import (
	"fmt"
	"strings"

	"github.com/cognicore/promptstat/pkg/promptstat/internalerr"
)

// Stage names one step of the analysis.
type Stage string

const (
	StageClean       Stage = "clean"
	StageCategorize  Stage = "categorize"
	StageFrequency   Stage = "frequency"
	StageConsistency Stage = "consistency"
	StageReport      Stage = "report"
)

// Stages lists every stage in execution order.
var Stages = []Stage{StageClean, StageCategorize, StageFrequency, StageConsistency, StageReport}

// ParseStage validates a stage name.
func ParseStage(name string) (Stage, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, s := range Stages {
		if string(s) == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown stage %q (want one of %s): %w", name, stageNames(), internalerr.ErrInvalidInput)
}

// ParseStages validates a list of stage names.
func ParseStages(names []string) ([]Stage, error) {
	var out []Stage
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			continue
		}
		s, err := ParseStage(n)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func stageNames() string {
	names := make([]string, len(Stages))
	for i, s := range Stages {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// Status is the outcome of a stage.
type Status string

const (
	StatusOK      Status = "ok"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Result reports how a stage ended. Err is set only for failures and Reason
// only for skips.
type Result struct {
	Stage  Stage
	Status Status
	Err    error
	Reason string
}

// Ok is a successful result.
func Ok(stage Stage) Result {
	return Result{Stage: stage, Status: StatusOK}
}

// Failed is a failed result.
func Failed(stage Stage, err error) Result {
	return Result{Stage: stage, Status: StatusFailed, Err: err}
}

// Skipped is a result for a stage that did not run.
func Skipped(stage Stage, reason string) Result {
	return Result{Stage: stage, Status: StatusSkipped, Reason: reason}
}

// String renders the result for logs.
func (r Result) String() string {
	switch r.Status {
	case StatusFailed:
		return fmt.Sprintf("%s: failed: %v", r.Stage, r.Err)
	case StatusSkipped:
		return fmt.Sprintf("%s: skipped (%s)", r.Stage, r.Reason)
	default:
		return fmt.Sprintf("%s: ok", r.Stage)
	}
}
