package command

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	model "github.com/Batoli19/cavista/internal/model/dialog"
	dialogService "github.com/Batoli19/cavista/internal/service/dialog"
	"github.com/Batoli19/cavista/internal/service/export"
)

type stubAI struct{}

func (stubAI) GenerateText(ctx context.Context, prompt string) string {
	return "Short answer."
}

func (stubAI) GenerateVision(ctx context.Context, prompt string, files []model.FileRef) string {
	return "Image description."
}

func setupRouter(t *testing.T) (*chi.Mux, *export.Service) {
	t.Helper()
	exports := export.NewService(t.TempDir())
	orch := dialogService.New(dialogService.Deps{
		Builder: dialogService.NewBuilder("standard"),
		AI:      stubAI{},
		Exports: exports,
	})
	handler := New(orch, exports, map[string]string{"ark": "fail", "gemini": "ok"})

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, exports
}

func TestCommandReturnsContractShape(t *testing.T) {
	r, _ := setupRouter(t)

	payload, _ := json.Marshal(map[string]string{"command": "hello"})
	req := httptest.NewRequest(http.MethodPost, "/api/command", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var contract model.Contract
	if err := json.Unmarshal(resp.Body.Bytes(), &contract); err != nil {
		t.Fatalf("invalid contract JSON: %v", err)
	}
	if contract.SayText == "" || contract.ShowText == "" {
		t.Fatalf("empty text fields: %+v", contract)
	}
	if contract.Meta.Intent != "greeting" {
		t.Fatalf("intent = %q, want greeting", contract.Meta.Intent)
	}

	// Collections must serialize as arrays, never null.
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(resp.Body.Bytes(), &raw); err != nil {
		t.Fatalf("unmarshal raw: %v", err)
	}
	for _, field := range []string{"evidence", "files", "actions"} {
		if string(raw[field]) == "null" {
			t.Fatalf("field %s serialized as null", field)
		}
	}
}

func TestCommandRejectsEmptyBody(t *testing.T) {
	r, _ := setupRouter(t)

	payload, _ := json.Marshal(map[string]string{})
	req := httptest.NewRequest(http.MethodPost, "/api/command", bytes.NewReader(payload))
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestCommandRejectsInvalidJSON(t *testing.T) {
	r, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/command", bytes.NewReader([]byte("{not json")))
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestHealthReportsCapabilities(t *testing.T) {
	r, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body struct {
		Status              string            `json:"status"`
		InstalledExportDeps map[string]bool   `json:"installed_export_deps"`
		AIProviders         map[string]string `json:"ai_providers"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid health JSON: %v", err)
	}
	if body.Status != "ok" {
		t.Fatalf("status = %q, want ok", body.Status)
	}
	for _, kind := range []string{"docx", "pptx", "xlsx"} {
		if !body.InstalledExportDeps[kind] {
			t.Fatalf("export kind %s missing from health report: %+v", kind, body.InstalledExportDeps)
		}
	}
	if body.AIProviders["ark"] != "fail" || body.AIProviders["gemini"] != "ok" {
		t.Fatalf("unexpected provider status: %+v", body.AIProviders)
	}
}

func TestDownloadUnknownID(t *testing.T) {
	r, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/download/does-not-exist", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestDownloadServesExportedFile(t *testing.T) {
	r, exports := setupRouter(t)

	meta, err := exports.Export("docx", &model.Research{Topic: "Download Check"})
	if err != nil {
		t.Fatalf("Export err: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/download/"+meta.ID, nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if cd := resp.Header().Get("Content-Disposition"); !bytes.Contains([]byte(cd), []byte(meta.Name)) {
		t.Fatalf("Content-Disposition = %q, want file name %q", cd, meta.Name)
	}
}
