package planner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonathan/course-planner/internal/llm"
	"github.com/jonathan/course-planner/internal/prompts"
	"github.com/jonathan/course-planner/internal/schemas"
	"github.com/jonathan/course-planner/internal/types"
	"github.com/jonathan/course-planner/internal/validation"
)

const defaultPlanMaxTokens = 8192

// Options configures an Orchestrator.
type Options struct {
	// MaxAttempts is the total attempt budget: one initial generation plus
	// MaxAttempts-1 repairs. Zero means the default of 3.
	MaxAttempts int
	// Timeout bounds the wall-clock time of one full run, covering every
	// attempt and every backoff delay. Zero means the default of 5 minutes.
	Timeout time.Duration
	// Reflect enables the advisory second model call that asks whether the
	// draft has gaps before verification.
	Reflect bool
	// Tier selects the model tier for generation calls.
	Tier llm.ModelTier
}

func (o Options) withDefaults() Options {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 3
	}
	if o.Timeout <= 0 {
		o.Timeout = 5 * time.Minute
	}
	if o.Tier == "" {
		o.Tier = llm.TierStandard
	}
	return o
}

// Orchestrator drives the generate, reflect, verify loop for one intake
// record at a time. It holds no per-run state, so one instance may be
// shared, but each Run is strictly sequential internally.
type Orchestrator struct {
	client llm.Client
	opts   Options
}

// New returns an Orchestrator using the given generation client.
func New(client llm.Client, opts Options) *Orchestrator {
	return &Orchestrator{client: client, opts: opts.withDefaults()}
}

// Run generates a validated training plan for the intake record. The
// returned PlanResult always carries the full phase log, success or not.
// On failure the result's Issues hold the violations from the final
// attempt and the error describes the terminal condition.
func (o *Orchestrator) Run(ctx context.Context, intake *types.IntakeRecord) (*types.PlanResult, error) {
	intake.Normalize()
	if err := intake.Validate(); err != nil {
		return nil, fmt.Errorf("invalid intake: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, o.opts.Timeout)
	defer cancel()

	result := &types.PlanResult{}
	logPhase := func(phase string, attempt int, status, detail string) {
		result.Log = append(result.Log, types.PhaseLog{
			Phase:     phase,
			Attempt:   attempt,
			Status:    status,
			Detail:    detail,
			Timestamp: time.Now(),
		})
	}

	var (
		priorError string
		lastErr    error
	)
	for attemptNo := 1; attemptNo <= o.opts.MaxAttempts; attemptNo++ {
		result.Attempts = attemptNo
		attempt := types.GenerationAttempt{Index: attemptNo, Prompt: BuildPrompt(intake, priorError)}

		raw, err := o.client.GenerateJSON(ctx, llm.Request{
			System:      SystemPrompt(),
			Prompt:      attempt.Prompt,
			Tier:        o.opts.Tier,
			MaxTokens:   defaultPlanMaxTokens,
			Temperature: llm.DefaultJSONTemperature,
		})
		if err != nil {
			attempt.ErrorMsg = err.Error()
			logPhase(types.PhasePlan, attemptNo, types.StatusFailure, err.Error())
			if ctx.Err() != nil {
				return result, &TimeoutError{Cause: err}
			}
			var reqErr *llm.RequestError
			if errors.As(err, &reqErr) {
				// Auth and malformed-request rejections will not improve
				// with another attempt.
				return result, err
			}
			lastErr = err
			priorError = "the generation service failed on the previous attempt; regenerate the complete plan"
			continue
		}
		attempt.RawText = raw
		result.RawOutput = raw
		logPhase(types.PhasePlan, attemptNo, types.StatusSuccess, fmt.Sprintf("received %d characters", len(raw)))
		lastErr = nil

		extracted := llm.ExtractJSONObject(raw)
		attempt.Parsed = extracted != ""
		if !attempt.Parsed {
			result.Issues = types.Issues{{
				Path:     "",
				Message:  "no parseable JSON object in model output",
				Expected: "object",
				Received: "prose",
			}}
			logPhase(types.PhaseVerify, attemptNo, types.StatusFailure, "no parseable JSON object in model output")
			priorError = prompts.MustGet(promptFile, "json-only-correction")
			continue
		}

		var reflectNote string
		reflectGaps := false
		if o.opts.Reflect {
			reflectNote, reflectGaps = reflectOnDraft(ctx, o.client, o.opts.Tier, extracted)
			if reflectGaps {
				logPhase(types.PhaseReflect, attemptNo, types.StatusWarning, reflectNote)
			} else {
				logPhase(types.PhaseReflect, attemptNo, types.StatusSuccess, "no gaps reported")
			}
		}

		if err := schemas.Validate(schemas.PlanSchema, []byte(extracted)); err != nil {
			var schemaErr *schemas.ValidationError
			if !errors.As(err, &schemaErr) {
				// A schema that cannot be loaded is a build defect, not
				// something another attempt can repair.
				return result, err
			}
			issues := schemaIssues(schemaErr)
			attempt.Issues = issues
			result.Issues = issues
			logPhase(types.PhaseVerify, attemptNo, types.StatusFailure, fmt.Sprintf("%d schema violations", len(issues)))
			priorError = issues.FormatForPrompt()
			continue
		}

		plan, issues := validation.ValidateJSON([]byte(extracted))
		attempt.Issues = issues
		if len(issues) > 0 {
			result.Issues = issues
			logPhase(types.PhaseVerify, attemptNo, types.StatusFailure, fmt.Sprintf("%d validation issues", len(issues)))
			priorError = issues.FormatForPrompt()
			continue
		}

		if reflectGaps && attemptNo < o.opts.MaxAttempts {
			// The draft is structurally valid but the model flagged gaps,
			// so spend a remaining attempt on another pass.
			priorError = "a review of the draft raised these concerns:\n" + reflectNote
			continue
		}
		if reflectGaps {
			result.Warnings = append(result.Warnings, "review flagged possible gaps: "+reflectNote)
		}
		if warning, drifted := validation.CheckHourTotals(plan); drifted {
			result.Warnings = append(result.Warnings, warning)
			logPhase(types.PhaseVerify, attemptNo, types.StatusWarning, warning)
		}

		result.Plan = plan
		result.Issues = nil
		logPhase(types.PhaseVerify, attemptNo, types.StatusSuccess, "plan validated")
		return result, nil
	}

	if lastErr != nil {
		// The final attempt died in transport, not validation; surface
		// that error verbatim.
		return result, lastErr
	}
	return result, &ExhaustedError{Attempts: o.opts.MaxAttempts, Issues: result.Issues}
}

// schemaIssues converts structural schema violations into the issue form
// the repair prompt and rule validation share.
func schemaIssues(err *schemas.ValidationError) types.Issues {
	issues := make(types.Issues, 0, len(err.Errors))
	for _, fieldErr := range err.Errors {
		path := fieldErr.Field
		if path == "(root)" {
			path = ""
		}
		issues = append(issues, types.Issue{
			Path:    path,
			Message: fieldErr.Message,
		})
	}
	return issues
}
