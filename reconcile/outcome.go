package reconcile

import (
	"strings"

	"github.com/charmbracelet/log"
)

// Outcome is the terminal state reached by one managed file
type Outcome int

const (
	// Unchanged means the local copy was already current or an update was declined
	Unchanged Outcome = iota
	// Created means a missing local copy was written from fresh remote content
	Created
	// Updated means the local copy was overwritten with fresh remote content
	Updated
	// FallbackUsed means the remote failed and the repository copy was applied
	FallbackUsed
	// Failed means the remote failed and no fallback was applied
	Failed
	// Skipped means creating a missing local copy was declined
	Skipped
)

func (o Outcome) String() string {
	switch o {
	case Unchanged:
		return "unchanged"
	case Created:
		return "created"
	case Updated:
		return "updated"
	case FallbackUsed:
		return "fallback"
	case Failed:
		return "failed"
	case Skipped:
		return "skipped"
	}
	return "unknown"
}

// Result collects the outcome of a run.
// Updated, Unchanged and Failed are disjoint and keep the processing order,
// skipped files appear in none of them.
type Result struct {
	Updated   []string
	Unchanged []string
	Failed    []string
	Outcomes  map[string]Outcome
}

func newResult() *Result {
	return &Result{Outcomes: map[string]Outcome{}}
}

func (r *Result) record(name string, outcome Outcome) {
	r.Outcomes[name] = outcome
	switch outcome {
	case Created, Updated, FallbackUsed:
		r.Updated = append(r.Updated, name)
	case Unchanged:
		r.Unchanged = append(r.Unchanged, name)
	case Failed:
		r.Failed = append(r.Failed, name)
	}
}

// HasFailures reports whether any file failed to update
func (r *Result) HasFailures() bool {
	return len(r.Failed) > 0
}

// Log writes the run summary
func (r *Result) Log(logger *log.Logger) {
	if len(r.Updated) > 0 {
		logger.Infof("Updated configs: %s", strings.Join(r.Updated, ", "))
	}
	if len(r.Unchanged) > 0 {
		logger.Infof("Already up-to-date: %s", strings.Join(r.Unchanged, ", "))
	}
	if len(r.Failed) > 0 {
		logger.Warnf("Failed to update: %s", strings.Join(r.Failed, ", "))
	}

	switch {
	case len(r.Updated) == 0 && len(r.Unchanged) == 0 && len(r.Failed) == 0:
		logger.Info("No configs processed.")
	case len(r.Updated) == 0 && len(r.Unchanged) == 0:
		logger.Info("No configs updated due to errors.")
	case len(r.Updated) == 0:
		logger.Info("No configs needed updating.")
	}
}
