package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/jonathan/course-planner/internal/db"
	"github.com/jonathan/course-planner/internal/pipeline/steps"
	"github.com/jonathan/course-planner/internal/rendering"
	"github.com/jonathan/course-planner/internal/types"
)

// handleListRuns returns recent plan runs
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.errorResponse(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	runs, err := s.db.ListRuns(r.Context(), limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"runs": runs, "count": len(runs)})
}

// handleDeleteRun deletes a run and its artifacts
func (s *Server) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	runID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid run ID format")
		return
	}

	if err := s.db.DeleteRun(r.Context(), runID); err != nil {
		s.errorResponse(w, http.StatusNotFound, "Run not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleRunPlan returns the validated plan for a run
func (s *Server) handleRunPlan(w http.ResponseWriter, r *http.Request) {
	runID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid run ID format")
		return
	}

	plan, err := s.db.GetPlanByRun(r.Context(), runID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if plan == nil {
		s.errorResponse(w, http.StatusNotFound, "No plan for this run")
		return
	}

	s.jsonResponse(w, http.StatusOK, plan)
}

// handleRunSteps returns the steps that can currently be executed for a run
func (s *Server) handleRunSteps(w http.ResponseWriter, r *http.Request) {
	runID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid run ID format")
		return
	}

	available, err := steps.GetAvailableSteps(r.Context(), s.db, runID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"available": available})
}

// handleRunArtifact returns a stored artifact for a run by step name
func (s *Server) handleRunArtifact(w http.ResponseWriter, r *http.Request) {
	runID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid run ID format")
		return
	}

	step := r.PathValue("step")
	if _, ok := steps.StepRegistry[step]; !ok {
		s.errorResponse(w, http.StatusBadRequest, "Unknown step: "+step)
		return
	}

	content, err := s.db.GetArtifact(r.Context(), runID, step)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if content == nil {
		s.errorResponse(w, http.StatusNotFound, "Artifact not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, ArtifactResponse{
		RunID:   runID.String(),
		Step:    step,
		Content: content,
	})
}

// handleRunExport renders the run's plan in the requested format
func (s *Server) handleRunExport(w http.ResponseWriter, r *http.Request) {
	runID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid run ID format")
		return
	}

	format := r.PathValue("format")

	// The plan artifact must exist before anything can be exported
	if err := steps.ValidateDependencies(r.Context(), s.db, runID, db.StepMarkdown); err != nil {
		var depErr *steps.DependencyError
		if errors.As(err, &depErr) {
			s.errorResponse(w, http.StatusConflict, "Run has no validated plan yet: "+depErr.Error())
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	plan, err := s.db.GetPlanByRun(r.Context(), runID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if plan == nil {
		s.errorResponse(w, http.StatusNotFound, "No plan for this run")
		return
	}

	data, contentType, ext, err := renderExport(plan, format)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", runID.String()+ext))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// renderExport produces the document bytes for one export format
func renderExport(plan *types.TrainingPlan, format string) (data []byte, contentType, ext string, err error) {
	switch format {
	case "markdown":
		md, err := rendering.RenderMarkdown(plan)
		if err != nil {
			return nil, "", "", err
		}
		return []byte(md), "text/markdown; charset=utf-8", ".md", nil
	case "html":
		html, err := rendering.RenderHTML(plan)
		if err != nil {
			return nil, "", "", err
		}
		return []byte(html), "text/html; charset=utf-8", ".html", nil
	case "docx":
		docx, err := rendering.RenderDOCX(plan)
		if err != nil {
			return nil, "", "", err
		}
		return docx, "application/vnd.openxmlformats-officedocument.wordprocessingml.document", ".docx", nil
	case "json":
		raw, err := json.MarshalIndent(plan, "", "  ")
		if err != nil {
			return nil, "", "", err
		}
		return raw, "application/json", ".json", nil
	default:
		return nil, "", "", fmt.Errorf("unknown export format: %s", format)
	}
}

// handleListPlans returns the stored plan history
func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.errorResponse(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	records, err := s.db.ListPlanHistory(r.Context(), limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"plans": records, "count": len(records)})
}

// handleGetPlan returns a stored plan by its ID
func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	planID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid plan ID format")
		return
	}

	plan, err := s.db.GetPlan(r.Context(), planID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if plan == nil {
		s.errorResponse(w, http.StatusNotFound, "Plan not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, plan)
}
