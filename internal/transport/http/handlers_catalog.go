// Package httptransport is the thin HTTP layer. It delegates to domain
// services without embedding business logic so transport concerns remain
// isolated.
package httptransport

import (
	"log/slog"
	"net/http"

	"degreefinder/internal/admissions"
	"degreefinder/internal/catalog"
	"degreefinder/internal/transport/http/json"
	"degreefinder/internal/transport/http/shared"
)

// Handler serves the catalog and eligibility endpoints.
type Handler struct {
	eligibility EligibilityService
	loader      catalog.Loader
	logger      *slog.Logger
}

// NewHandler creates the HTTP handler over its collaborators.
func NewHandler(eligibility EligibilityService, loader catalog.Loader, logger *slog.Logger) *Handler {
	return &Handler{
		eligibility: eligibility,
		loader:      loader,
		logger:      logger,
	}
}

// handleInstitutions lists the supported institution tags.
func (h *Handler) handleInstitutions(w http.ResponseWriter, _ *http.Request) {
	institutions := admissions.SupportedInstitutions()
	out := make([]string, 0, len(institutions))
	for _, inst := range institutions {
		out = append(out, string(inst))
	}
	json.WriteJSON(w, http.StatusOK, out)
}

// handleSubjects returns an institution's subject catalog. Without an
// institution parameter it falls back to the Technion catalog so the UI can
// offer subject entry up front.
func (h *Handler) handleSubjects(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("institution")
	if raw == "" {
		raw = string(admissions.InstitutionTechnion)
	}
	institution, err := admissions.ParseInstitution(raw)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	bundle, err := h.loader.Load(institution)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	json.WriteJSON(w, http.StatusOK, bundle.Subjects)
}

// ProgramSummary is one program listing entry for the UI.
type ProgramSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Faculty     string `json:"faculty"`
	Institution string `json:"institution"`
}

// handlePrograms lists an institution's degree programs.
func (h *Handler) handlePrograms(w http.ResponseWriter, r *http.Request) {
	institution, err := admissions.ParseInstitution(r.URL.Query().Get("institution"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	bundle, err := h.loader.Load(institution)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	out := make([]ProgramSummary, 0, len(bundle.Programs))
	for _, p := range bundle.Programs {
		out = append(out, ProgramSummary{
			ID:          p.ID,
			Name:        p.Name,
			Faculty:     p.Faculty,
			Institution: string(institution),
		})
	}
	json.WriteJSON(w, http.StatusOK, out)
}
