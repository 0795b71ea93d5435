package admissions

import (
	"strings"

	dErrors "degreefinder/pkg/domain-errors"
)

// AcademicScorer is the capability of computing the weighted academic score
// ("D") from a bagrut record, with human-readable breakdown notes.
// Not every institution exposes D independently of its composite score.
type AcademicScorer interface {
	ComputeAcademicScore(record BagrutRecord) (float64, []string)
}

// CompositeScorer is the capability of computing the composite admission
// score ("S", the sakem) from a bagrut record and a psychometric total.
// Every institution policy implements this.
type CompositeScorer interface {
	ComputeSakem(record BagrutRecord, psychometricTotal int) float64
}

// Institution identifies a supported institution policy.
type Institution string

const (
	InstitutionTechnion Institution = "technion"
	InstitutionHUJI     Institution = "huji"
	InstitutionBGU      Institution = "bgu"
)

// SupportedInstitutions lists institutions with a registered policy, in
// stable presentation order.
func SupportedInstitutions() []Institution {
	return []Institution{InstitutionTechnion, InstitutionHUJI, InstitutionBGU}
}

// ParseInstitution validates and normalizes an institution identifier.
//
// Usage: call at trust boundaries for external input.
//
// Errors: returns CodeBadRequest for unsupported institutions.
func ParseInstitution(s string) (Institution, error) {
	normalized := Institution(strings.ToLower(strings.TrimSpace(s)))
	switch normalized {
	case InstitutionTechnion, InstitutionHUJI, InstitutionBGU:
		return normalized, nil
	default:
		return "", dErrors.New(dErrors.CodeBadRequest, "unsupported institution: "+s)
	}
}
