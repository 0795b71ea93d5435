package admissions

import (
	"fmt"

	dErrors "degreefinder/pkg/domain-errors"
)

// Rule types accepted in program catalogs.
const (
	RuleTypeSubjectRequirement = "subject_requirement"
	RuleTypeSakemThreshold     = "sakem_threshold"
)

// RuleSpec is the declarative description of one admission rule as it
// appears in an institution's program catalog.
type RuleSpec struct {
	Type      string   `json:"type"`
	Subject   string   `json:"subject,omitempty"`
	MinUnits  int      `json:"min_units,omitempty"`
	MinScore  *float64 `json:"min_score,omitempty"`
	Threshold float64  `json:"threshold,omitempty"`
}

// ProgramSpec is the declarative description of one degree program.
type ProgramSpec struct {
	ID      string     `json:"id"`
	Name    string     `json:"name"`
	Faculty string     `json:"faculty"`
	Rules   []RuleSpec `json:"rules"`
}

// RuleFactory turns rule specs into rule instances, binding threshold rules
// to the owning institution's composite scoring policy. An unrecognized rule
// type or a missing policy dependency is a configuration error: the catalog
// is wrong and must fail loudly at compile time, never be skipped.
type RuleFactory struct {
	institution Institution
	composite   CompositeScorer
}

// NewRuleFactory creates a factory for one institution's rules.
func NewRuleFactory(institution Institution, composite CompositeScorer) *RuleFactory {
	return &RuleFactory{institution: institution, composite: composite}
}

// Build maps a rule spec to a concrete rule.
//
// Errors: returns CodeConfiguration for unknown rule types or when a
// threshold rule is requested without a bound composite policy.
func (f *RuleFactory) Build(spec RuleSpec) (Rule, error) {
	switch spec.Type {
	case RuleTypeSubjectRequirement:
		if spec.Subject == "" {
			return nil, dErrors.New(dErrors.CodeConfiguration,
				fmt.Sprintf("%s: subject_requirement rule without a subject", f.institution))
		}
		return SubjectRequirementRule{
			Subject:  spec.Subject,
			MinUnits: spec.MinUnits,
			MinScore: spec.MinScore,
		}, nil

	case RuleTypeSakemThreshold:
		if f.composite == nil {
			return nil, dErrors.New(dErrors.CodeConfiguration,
				fmt.Sprintf("%s: sakem_threshold rule requires a composite scoring policy", f.institution))
		}
		return SakemThresholdRule{
			Scorer:    f.composite,
			Threshold: spec.Threshold,
		}, nil

	default:
		return nil, dErrors.New(dErrors.CodeConfiguration,
			fmt.Sprintf("%s: unsupported rule type %q", f.institution, spec.Type))
	}
}
