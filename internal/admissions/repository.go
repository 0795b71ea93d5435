package admissions

import (
	"fmt"

	dErrors "degreefinder/pkg/domain-errors"
)

// ProgramRepository compiles declarative program specs into Program entities
// with a single top-level AndRule each. Programs live for one evaluation
// pass; callers that want caching do it themselves.
type ProgramRepository struct {
	specs   []ProgramSpec
	factory *RuleFactory
}

// NewProgramRepository creates a repository over a program catalog.
func NewProgramRepository(specs []ProgramSpec, factory *RuleFactory) *ProgramRepository {
	return &ProgramRepository{specs: specs, factory: factory}
}

// ListPrograms compiles every program's rule list via the factory.
//
// Errors: one program failing to compile fails the whole catalog with a
// CodeConfiguration error. An unevaluable program is worse than a loud
// failure, so nothing is skipped.
func (r *ProgramRepository) ListPrograms() ([]Program, error) {
	programs := make([]Program, 0, len(r.specs))
	for _, spec := range r.specs {
		rules := make([]Rule, 0, len(spec.Rules))
		for _, ruleSpec := range spec.Rules {
			rule, err := r.factory.Build(ruleSpec)
			if err != nil {
				return nil, dErrors.Wrap(err, dErrors.CodeConfiguration,
					fmt.Sprintf("program %s: %v", spec.ID, err))
			}
			rules = append(rules, rule)
		}
		programs = append(programs, Program{
			ID:      spec.ID,
			Name:    spec.Name,
			Faculty: spec.Faculty,
			Rule:    NewAndRule(rules...),
		})
	}
	return programs, nil
}
