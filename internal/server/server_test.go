package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

// testServer creates a server without a database for exercising the
// validation paths that never reach storage
func newTestServer() *Server {
	return &Server{apiKey: "test-api-key"}
}

// TestHealthEndpoint tests the /health endpoint
func TestHealthEndpoint(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	s.handleHealth(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}

	if resp["status"] != "ok" {
		t.Errorf("expected status 'ok', got '%s'", resp["status"])
	}
}

// TestCreatePlan_MissingIntake tests /plans with no intake record
func TestCreatePlan_MissingIntake(t *testing.T) {
	s := newTestServer()

	body := `{"catalogue_url": "https://training.gov.au/Training/Details/CPC30220"}`
	req := httptest.NewRequest(http.MethodPost, "/plans", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	s.handleCreatePlan(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp["error"] == "" {
		t.Error("expected error message in response")
	}
}

// TestCreatePlan_InvalidBody tests /plans with malformed JSON
func TestCreatePlan_InvalidBody(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/plans", bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()

	s.handleCreatePlan(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

// TestCreatePlan_InvalidIntake tests /plans with an incomplete intake
func TestCreatePlan_InvalidIntake(t *testing.T) {
	s := newTestServer()

	body := `{"intake": {"qualification_name": "Certificate III in Carpentry"}}`
	req := httptest.NewRequest(http.MethodPost, "/plans", bytes.NewBufferString(body))
	w := httptest.NewRecorder()

	s.handleCreatePlan(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

// TestCreatePlan_ReturnsUsableRunID tests the accepted response for a
// valid intake; the run_id it carries is handed to the pipeline as
// RunOptions.RunID
func TestCreatePlan_ReturnsUsableRunID(t *testing.T) {
	s := newTestServer()

	body := `{"intake": {
		"qualification_name": "Certificate III in Carpentry",
		"qualification_code": "CPC30220",
		"delivery_mode": "in_person",
		"duration": {"weeks": 2, "total_hours": 80},
		"cohort_profile": "12 adult apprentices with no prior trade experience"
	}}`
	req := httptest.NewRequest(http.MethodPost, "/plans", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	s.handleCreatePlan(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d: %s", w.Code, w.Body.String())
	}

	var resp PlanRunResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Status != "started" {
		t.Errorf("expected status 'started', got '%s'", resp.Status)
	}
	if _, err := uuid.Parse(resp.RunID); err != nil {
		t.Errorf("run_id %q is not a UUID: %v", resp.RunID, err)
	}
}

// TestRunStatus_InvalidID tests /runs/{id} with a malformed UUID
func TestRunStatus_InvalidID(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/runs/not-a-uuid", nil)
	req.SetPathValue("id", "not-a-uuid")
	w := httptest.NewRecorder()

	s.handleRunStatus(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

// TestRunArtifact_UnknownStep tests /runs/{id}/artifacts/{step} with a bad step name
func TestRunArtifact_UnknownStep(t *testing.T) {
	s := newTestServer()

	runID := uuid.New().String()
	req := httptest.NewRequest(http.MethodGet, "/runs/"+runID+"/artifacts/bogus", nil)
	req.SetPathValue("id", runID)
	req.SetPathValue("step", "bogus")
	w := httptest.NewRecorder()

	s.handleRunArtifact(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

// TestCORSPreflight tests the OPTIONS handling in the CORS middleware
func TestCORSPreflight(t *testing.T) {
	s := newTestServer()

	handler := s.withCORS(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Error("next handler should not run for preflight")
	}))

	req := httptest.NewRequest(http.MethodOptions, "/plans", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("expected CORS origin header")
	}
}

// TestExtractClientID tests client IP extraction
func TestExtractClientID(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "203.0.113.7:51234"
	if got := s.extractClientID(req); got != "203.0.113.7" {
		t.Errorf("expected 203.0.113.7, got %s", got)
	}

	req.RemoteAddr = "garbage"
	if got := s.extractClientID(req); got != "garbage" {
		t.Errorf("expected fallback to RemoteAddr, got %s", got)
	}
}

// TestRenderExport_UnknownFormat tests export format validation
func TestRenderExport_UnknownFormat(t *testing.T) {
	_, _, _, err := renderExport(nil, "pdf")
	if err == nil {
		t.Fatal("expected error for unknown format")
	}
}
