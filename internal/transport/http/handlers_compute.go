package httptransport

import (
	"context"
	encjson "encoding/json"
	"net/http"

	"degreefinder/internal/admissions"
	"degreefinder/internal/eligibility"
	"degreefinder/internal/transport/http/json"
	"degreefinder/internal/transport/http/shared"
	dErrors "degreefinder/pkg/domain-errors"
)

// EligibilityService evaluates one applicant across institutions.
type EligibilityService interface {
	Evaluate(ctx context.Context, req eligibility.EvaluateRequest) ([]eligibility.ProgramResult, error)
}

// SubjectInput is one matriculation subject in the compute request.
type SubjectInput struct {
	Name  string  `json:"name"`
	Units int     `json:"units"`
	Score float64 `json:"score"`
}

// ComputeRequest is the compute endpoint's request body. Grades and the
// psychometric total are entered once and evaluated against every named
// institution; ProgramIDs optionally narrows the result to selected degrees.
type ComputeRequest struct {
	Institutions      []string       `json:"institutions"`
	PsychometricTotal int            `json:"psychometric_total"`
	Subjects          []SubjectInput `json:"subjects"`
	ProgramIDs        []string       `json:"program_ids,omitempty"`
}

// ComputeResultItem is one program verdict in the aggregated response.
// The optional numeric keys mirror the engine's details payload.
type ComputeResultItem struct {
	Institution  string   `json:"institution"`
	ProgramID    string   `json:"program_id"`
	ProgramName  string   `json:"program_name"`
	Faculty      string   `json:"faculty,omitempty"`
	Passed       bool     `json:"passed"`
	Explanations []string `json:"explanations"`
	D            *float64 `json:"D,omitempty"`
	P            *float64 `json:"P,omitempty"`
	S            *float64 `json:"S,omitempty"`
	Threshold    *float64 `json:"threshold,omitempty"`
}

// handleCompute evaluates the applicant across one or more institutions.
// Malformed bodies and unsupported institutions are rejected before any core
// computation runs.
func (h *Handler) handleCompute(w http.ResponseWriter, r *http.Request) {
	var req ComputeRequest
	if err := encjson.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid request body"))
		return
	}
	if len(req.Institutions) == 0 {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "no institutions provided"))
		return
	}

	institutions := make([]admissions.Institution, 0, len(req.Institutions))
	for _, raw := range req.Institutions {
		institution, err := admissions.ParseInstitution(raw)
		if err != nil {
			shared.WriteError(w, err)
			return
		}
		institutions = append(institutions, institution)
	}

	subjects := make([]admissions.SubjectGrade, 0, len(req.Subjects))
	for _, s := range req.Subjects {
		subjects = append(subjects, admissions.SubjectGrade{
			Name:  s.Name,
			Units: s.Units,
			Score: s.Score,
		})
	}

	results, err := h.eligibility.Evaluate(r.Context(), eligibility.EvaluateRequest{
		Institutions: institutions,
		Applicant: admissions.Applicant{
			Bagrut:       admissions.BagrutRecord{Subjects: subjects},
			Psychometric: admissions.PsychometricScore{Total: req.PsychometricTotal},
		},
		ProgramIDs: req.ProgramIDs,
	})
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	out := make([]ComputeResultItem, 0, len(results))
	for _, r := range results {
		item := ComputeResultItem{
			Institution:  string(r.Institution),
			ProgramID:    r.ProgramID,
			ProgramName:  r.ProgramName,
			Faculty:      r.Faculty,
			Passed:       r.Passed,
			Explanations: r.Explanations,
			D:            detail(r.Details, "D"),
			P:            detail(r.Details, "P"),
			S:            detail(r.Details, "S"),
			Threshold:    detail(r.Details, "threshold"),
		}
		out = append(out, item)
	}
	json.WriteJSON(w, http.StatusOK, out)
}

func detail(details map[string]float64, key string) *float64 {
	if details == nil {
		return nil
	}
	v, ok := details[key]
	if !ok {
		return nil
	}
	return &v
}
