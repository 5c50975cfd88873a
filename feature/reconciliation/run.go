package reconciliation

import (
	"time"

	"ledger-reconciler/core/reconcile"
	"ledger-reconciler/feature/output"
)

// Run is one completed reconciliation.
type Run struct {
	ID          string
	GeneratedAt time.Time
	Tolerance   reconcile.Tolerance
	Result      *reconcile.Result
	// Files are the written output paths; empty for uploaded runs.
	Files []string
	// Objects are the mirrored object keys.
	Objects []string
}

// Document returns the summary.json content of the run.
func (r *Run) Document() output.Document {
	return output.NewDocument(r.ID, r.GeneratedAt, r.Result.Summary)
}

// Response is the JSON view of a run.
type Response struct {
	RunID       string            `json:"run_id"`
	GeneratedAt time.Time         `json:"generated_at"`
	Summary     reconcile.Summary `json:"summary"`
	Exceptions  []output.Row      `json:"exceptions"`
}

// NewResponse builds the JSON view of a run.
func NewResponse(run *Run) Response {
	return Response{
		RunID:       run.ID,
		GeneratedAt: run.GeneratedAt,
		Summary:     run.Result.Summary,
		Exceptions:  output.FlattenAll(run.Result.Exceptions),
	}
}
