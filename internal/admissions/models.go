// Package admissions holds the core eligibility domain: the applicant model,
// the admission rule model, the rule factory, the program repository, and the
// eligibility engine. Everything here is pure computation with no I/O.
package admissions

import "strings"

// SubjectGrade is one matriculation subject result. Units is the weighting
// credit (typically 1-5); Score is the raw 0-100 grade. Immutable once built.
type SubjectGrade struct {
	Name  string  `json:"name"`
	Units int     `json:"units"`
	Score float64 `json:"score"`
}

// BagrutRecord is an applicant's full set of matriculation subjects.
// Subject names are expected to be unique within a policy's normalization
// scheme; lookups are exact, case-insensitive matching is a policy concern.
type BagrutRecord struct {
	Subjects []SubjectGrade `json:"subjects"`
}

// Find returns the subject with the given name, or false if absent.
func (r BagrutRecord) Find(name string) (SubjectGrade, bool) {
	for _, s := range r.Subjects {
		if s.Name == name {
			return s, true
		}
	}
	return SubjectGrade{}, false
}

// FindFold returns the subject whose name matches case-insensitively, for
// policies that normalize subject names.
func (r BagrutRecord) FindFold(name string) (SubjectGrade, bool) {
	for _, s := range r.Subjects {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return SubjectGrade{}, false
}

// PsychometricScore is the applicant's standardized aptitude test total.
type PsychometricScore struct {
	Total int `json:"total"`
}

// Applicant owns exactly one bagrut record and one psychometric score.
// It is constructed once per evaluation request and never mutated.
type Applicant struct {
	Bagrut       BagrutRecord
	Psychometric PsychometricScore
}

// Program is a degree program with its compiled admission rule tree.
// Programs are built once per evaluation pass and are not cached.
type Program struct {
	ID      string
	Name    string
	Faculty string
	Rule    Rule
}

// ScoreDetails carries the numeric values a threshold rule computed, so the
// engine does not have to parse them back out of the explanation text.
type ScoreDetails struct {
	Sakem     float64
	Threshold float64
}

// RuleResult is the atomic evaluation output of any rule node. Explanations
// preserve evaluation order; a composite rule truncates them at the first
// failing child.
type RuleResult struct {
	Passed       bool
	Explanations []string
	Scores       *ScoreDetails
}

// EligibilityResult is one program's verdict for one applicant. Details holds
// the optional numeric keys "D", "P", "S" and "threshold"; absent values are
// simply omitted.
type EligibilityResult struct {
	Program      Program
	Passed       bool
	Explanations []string
	Details      map[string]float64
}
