package admissions

import (
	"fmt"
	"strconv"
)

// Rule is one admission predicate. Rules are pure: evaluating the same
// applicant always yields the same result.
type Rule interface {
	Evaluate(applicant Applicant) RuleResult
}

// SubjectRequirementRule passes when the named subject exists in the record
// with at least MinUnits units and, when MinScore is set, at least that score.
type SubjectRequirementRule struct {
	Subject  string
	MinUnits int
	MinScore *float64
}

func (r SubjectRequirementRule) Evaluate(applicant Applicant) RuleResult {
	s, ok := applicant.Bagrut.Find(r.Subject)
	if !ok {
		return failure(fmt.Sprintf("%s: missing", r.Subject))
	}
	if s.Units < r.MinUnits {
		return failure(fmt.Sprintf("%s: units %d < required %d", r.Subject, s.Units, r.MinUnits))
	}
	if r.MinScore != nil && s.Score < *r.MinScore {
		return failure(fmt.Sprintf("%s: score %s < required %s",
			r.Subject, formatScore(s.Score), formatScore(*r.MinScore)))
	}
	return RuleResult{
		Passed:       true,
		Explanations: []string{fmt.Sprintf("%s OK (units=%d, score=%s)", r.Subject, s.Units, formatScore(s.Score))},
	}
}

// SakemThresholdRule compares the institution's composite score against a
// minimum. The explanation embeds the numbers in the fixed
// "S=<value> {≥|<} threshold=<value>" pattern; the same values are also
// returned structurally in ScoreDetails, so no caller has to parse them back
// out of the text.
type SakemThresholdRule struct {
	Scorer    CompositeScorer
	Threshold float64
}

func (r SakemThresholdRule) Evaluate(applicant Applicant) RuleResult {
	s := r.Scorer.ComputeSakem(applicant.Bagrut, applicant.Psychometric.Total)
	passed := s >= r.Threshold

	comparator := "≥"
	if !passed {
		comparator = "<"
	}

	return RuleResult{
		Passed:       passed,
		Explanations: []string{fmt.Sprintf("S=%.3f %s threshold=%s", s, comparator, formatScore(r.Threshold))},
		Scores:       &ScoreDetails{Sakem: s, Threshold: r.Threshold},
	}
}

// AndRule evaluates children in declared order and short-circuits at the
// first failure. Explanations of unevaluated children are omitted; that
// truncation is part of the observable contract, not an artifact.
type AndRule struct {
	children []Rule
}

// NewAndRule builds a conjunction over the given rules.
func NewAndRule(children ...Rule) AndRule {
	return AndRule{children: children}
}

func (r AndRule) Evaluate(applicant Applicant) RuleResult {
	var explanations []string
	var scores *ScoreDetails

	for _, child := range r.children {
		rr := child.Evaluate(applicant)
		explanations = append(explanations, rr.Explanations...)
		if scores == nil && rr.Scores != nil {
			scores = rr.Scores
		}
		if !rr.Passed {
			return RuleResult{Passed: false, Explanations: explanations, Scores: scores}
		}
	}

	return RuleResult{Passed: true, Explanations: explanations, Scores: scores}
}

func failure(explanation string) RuleResult {
	return RuleResult{Passed: false, Explanations: []string{explanation}}
}

// formatScore renders a score without trailing zeros (95, 82.5).
func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
