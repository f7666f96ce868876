// Package command exposes the assistant's HTTP surface: the command
// endpoint, artifact downloads, and the health check.
package command

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	model "github.com/Batoli19/cavista/internal/model/dialog"
	dialogService "github.com/Batoli19/cavista/internal/service/dialog"
	"github.com/Batoli19/cavista/internal/service/export"
	"github.com/Batoli19/cavista/pkg/utils"
)

// Handler serves command turns and artifact downloads.
type Handler struct {
	orchestrator *dialogService.Orchestrator
	exports      *export.Service
	aiProviders  map[string]string
}

// New creates the command handler. aiProviders maps provider names to their
// key status ("ok" or "fail") for the health report.
func New(orchestrator *dialogService.Orchestrator, exports *export.Service, aiProviders map[string]string) *Handler {
	if aiProviders == nil {
		aiProviders = map[string]string{}
	}
	return &Handler{orchestrator: orchestrator, exports: exports, aiProviders: aiProviders}
}

// RegisterRoutes mounts the API routes on the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/api/command", h.handleCommand)
	r.Get("/api/health", h.handleHealth)
	r.Get("/download/{fileID}", h.handleDownload)
}

type commandRequest struct {
	Command string          `json:"command"`
	Files   []model.FileRef `json:"files,omitempty"`
}

// handleCommand runs one dialogue turn. A turn always answers 200 with a
// response contract; orchestration failures surface as an apology contract,
// never as a transport error.
func (h *Handler) handleCommand(w http.ResponseWriter, r *http.Request) {
	var req commandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Command == "" {
		utils.RespondError(w, http.StatusBadRequest, "command is required")
		return
	}

	contract := h.orchestrator.HandleCommand(r.Context(), req.Command, req.Files)
	utils.RespondJSON(w, http.StatusOK, contract)
}

type healthResponse struct {
	Status              string            `json:"status"`
	InstalledExportDeps map[string]bool   `json:"installed_export_deps"`
	AIProviders         map[string]string `json:"ai_providers"`
}

// handleHealth reports export capability and AI provider key status so a
// client can tell which features are available before issuing commands.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	exportDeps := map[string]bool{}
	for _, kind := range h.exports.Kinds() {
		exportDeps[kind] = true
	}
	utils.RespondJSON(w, http.StatusOK, healthResponse{
		Status:              "ok",
		InstalledExportDeps: exportDeps,
		AIProviders:         h.aiProviders,
	})
}

// handleDownload serves a previously exported artifact by registry ID.
func (h *Handler) handleDownload(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "fileID")
	meta, ok := h.exports.Lookup(fileID)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "file not found")
		return
	}

	log.Printf("[command] download id=%s name=%s", fileID, meta.Name)
	w.Header().Set("Content-Disposition", `attachment; filename="`+meta.Name+`"`)
	http.ServeFile(w, r, meta.Path)
}
