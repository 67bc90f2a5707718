package types

import "time"

// Phase names for the orchestration log.
const (
	PhasePlan    = "plan"
	PhaseReflect = "reflect"
	PhaseVerify  = "verify"
)

// Log entry statuses.
const (
	StatusSuccess = "success"
	StatusWarning = "warning"
	StatusFailure = "failure"
)

// PhaseLog is one structured entry in the orchestration log.
type PhaseLog struct {
	Phase     string    `json:"phase"`
	Attempt   int       `json:"attempt"`
	Status    string    `json:"status"`
	Detail    string    `json:"detail"`
	Timestamp time.Time `json:"timestamp"`
}

// GenerationAttempt captures one cycle of the repair loop. Attempts are
// created and discarded within a single orchestration call and never
// persisted.
type GenerationAttempt struct {
	Index    int    `json:"index"`
	Prompt   string `json:"-"`
	RawText  string `json:"-"`
	Parsed   bool   `json:"parsed"`
	Issues   Issues `json:"issues,omitempty"`
	ErrorMsg string `json:"error,omitempty"`
}

// PlanResult is the terminal outcome of one orchestration run. On success Plan
// is non-nil and Issues is empty; on failure Plan is nil and Issues holds the
// violations from the final attempt only.
type PlanResult struct {
	Plan     *TrainingPlan `json:"plan,omitempty"`
	Issues   Issues        `json:"issues,omitempty"`
	Attempts int           `json:"attempts"`
	Log      []PhaseLog    `json:"log"`
	Warnings []string      `json:"warnings,omitempty"`

	// RawOutput is the unmodified model output from the last generation
	// call, kept for artifact storage and debugging.
	RawOutput string `json:"raw_output,omitempty"`
}

// Succeeded reports whether the run produced a validated plan.
func (r *PlanResult) Succeeded() bool {
	return r.Plan != nil
}
