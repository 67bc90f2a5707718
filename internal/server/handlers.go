package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/jonathan/course-planner/internal/pipeline"
	"github.com/jonathan/course-planner/internal/types"
)

// PlanRequest represents the request body for /plans
type PlanRequest struct {
	Intake       *types.IntakeRecord `json:"intake"`
	CatalogueURL string              `json:"catalogue_url,omitempty"`
	Model        string              `json:"model,omitempty"`
	MaxAttempts  int                 `json:"max_attempts,omitempty"`
	Reflect      bool                `json:"reflect,omitempty"`
	UseBrowser   bool                `json:"use_browser,omitempty"`
}

// PlanRunResponse represents the response for /plans
type PlanRunResponse struct {
	RunID  string `json:"run_id"`
	Status string `json:"status"`
}

// StatusResponse represents the response for /runs/{id}
type StatusResponse struct {
	RunID             string `json:"run_id"`
	QualificationName string `json:"qualification_name"`
	QualificationCode string `json:"qualification_code"`
	DeliveryMode      string `json:"delivery_mode"`
	Status            string `json:"status"`
	CreatedAt         string `json:"created_at"`
}

// ArtifactResponse represents the response for /runs/{id}/artifacts/{step}
type ArtifactResponse struct {
	RunID   string          `json:"run_id"`
	Step    string          `json:"step"`
	Content json.RawMessage `json:"content"`
}

// pipelineOptions builds pipeline options from a plan request
func (s *Server) pipelineOptions(req *PlanRequest) pipeline.RunOptions {
	return pipeline.RunOptions{
		IntakeData:   req.Intake,
		CatalogueURL: req.CatalogueURL,
		Model:        req.Model,
		MaxAttempts:  req.MaxAttempts,
		Reflect:      req.Reflect,
		UseBrowser:   req.UseBrowser,
		OutDir:       "exports",
		Format:       "markdown",
		APIKey:       s.apiKey,
		DatabaseURL:  s.databaseURL,
		Verbose:      true,
	}
}

// handleCreatePlan starts a new plan generation run
func (s *Server) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	var req PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Intake == nil {
		s.errorResponse(w, http.StatusBadRequest, "intake is required")
		return
	}
	req.Intake.Normalize()
	if err := req.Intake.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid intake: "+err.Error())
		return
	}

	// The run ID is minted here and handed to the pipeline, so the ID in
	// the response is the one GET /runs/{id} will find.
	runID := uuid.New()
	opts := s.pipelineOptions(&req)
	opts.RunID = runID

	log.Printf("Starting plan run %s", runID)

	// Run pipeline in background
	go func() {
		ctx := context.Background()
		if err := pipeline.RunPipeline(ctx, opts); err != nil {
			log.Printf("Plan run %s failed: %v", runID, err)
		}
	}()

	s.jsonResponse(w, http.StatusAccepted, PlanRunResponse{
		RunID:  runID.String(),
		Status: "started",
	})
}

// handleCreatePlanStream starts a plan run and streams progress via SSE
func (s *Server) handleCreatePlanStream(w http.ResponseWriter, r *http.Request) {
	var req PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Intake == nil {
		s.errorResponse(w, http.StatusBadRequest, "intake is required")
		return
	}
	req.Intake.Normalize()
	if err := req.Intake.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid intake: "+err.Error())
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	runID := uuid.New()
	log.Printf("Starting streaming plan run %s", runID)

	opts := s.pipelineOptions(&req)
	opts.RunID = runID
	opts.OnProgress = func(event pipeline.ProgressEvent) {
		if err := sse.WriteEvent("step", event); err != nil {
			log.Printf("Error writing SSE event: %v", err)
		}
	}

	// Run pipeline synchronously (blocking until complete)
	ctx := r.Context()
	if err := pipeline.RunPipeline(ctx, opts); err != nil {
		log.Printf("Plan run %s failed: %v", runID, err)
		sse.WriteError(err.Error())
		return
	}

	sse.WriteComplete(runID.String(), "completed")
	log.Printf("Streaming plan run %s completed", runID)
}

// handleRunStatus returns the status of a plan run
func (s *Server) handleRunStatus(w http.ResponseWriter, r *http.Request) {
	runID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid run ID format")
		return
	}

	run, err := s.db.GetRun(r.Context(), runID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if run == nil {
		s.errorResponse(w, http.StatusNotFound, "Run not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, StatusResponse{
		RunID:             run.ID.String(),
		QualificationName: run.QualificationName,
		QualificationCode: run.QualificationCode,
		DeliveryMode:      run.DeliveryMode,
		Status:            run.Status,
		CreatedAt:         run.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}
