package admissions

// Engine runs every program's compiled rule tree against one applicant and
// assembles structured per-program results. It is stateless and safe to
// discard after one evaluation pass.
type Engine struct {
	programs []Program
	policy   CompositeScorer
}

// NewEngine creates an engine over compiled programs bound to one
// institution's policy.
func NewEngine(programs []Program, policy CompositeScorer) *Engine {
	return &Engine{programs: programs, policy: policy}
}

// EvaluateApplicant produces one EligibilityResult per program, in program
// order. D and P are computed once and reused across programs; S and the
// threshold are surfaced by the threshold rules through their structured
// score details.
func (e *Engine) EvaluateApplicant(applicant Applicant) []EligibilityResult {
	// Capability probe by interface, not by runtime attribute inspection.
	// BGU reports D only through its composite score, so it stays absent.
	var dValue *float64
	if scorer, ok := e.policy.(AcademicScorer); ok {
		d, _ := scorer.ComputeAcademicScore(applicant.Bagrut)
		dValue = &d
	}
	pValue := float64(applicant.Psychometric.Total)

	results := make([]EligibilityResult, 0, len(e.programs))
	for _, program := range e.programs {
		rr := program.Rule.Evaluate(applicant)

		details := map[string]float64{"P": pValue}
		if dValue != nil {
			details["D"] = *dValue
		}
		if rr.Scores != nil {
			details["S"] = rr.Scores.Sakem
			details["threshold"] = rr.Scores.Threshold
		}

		results = append(results, EligibilityResult{
			Program:      program,
			Passed:       rr.Passed,
			Explanations: rr.Explanations,
			Details:      details,
		})
	}
	return results
}
