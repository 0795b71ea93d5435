// Package huji implements the Hebrew University admission policy: an
// always-included core plus optimal elective selection under a 20-unit
// floor, per-subject bonuses, and the 50/50 standardized sechem formula.
package huji

import (
	"fmt"
	"math"
	"sort"

	"degreefinder/internal/admissions"
)

// Linear holds the a*x + b constants of one standardization step.
type Linear struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// SechemConstants scales and shifts the combined standardized components.
type SechemConstants struct {
	Alpha float64 `json:"alpha"`
	Beta  float64 `json:"beta"`
}

// Config is the HUJI policy parameter set loaded from policy.json.
type Config struct {
	MinTotalUnits      int                 `json:"min_total_units"`
	BonusGroups        map[string][]string `json:"bonus_groups"`
	MandatoryAlways    []string            `json:"mandatory_always"`
	LanguageCandidates []string            `json:"language_mandatory_candidates"`
	PsychometricStd    Linear              `json:"psychometric_std"`
	BagrutStd          Linear              `json:"bagrut_std"`
	Sechem             SechemConstants     `json:"sechem"`
}

const bonusMinScore = 60.0

// Policy computes the HUJI weighted academic score and sechem. Bonus group
// sets are built once at construction; a Policy is safe for concurrent use.
type Policy struct {
	cfg     Config
	core25  map[string]struct{}
	other20 map[string]struct{}
}

// New builds a policy from its parameter set.
func New(cfg Config) *Policy {
	if cfg.MinTotalUnits == 0 {
		cfg.MinTotalUnits = 20
	}
	return &Policy{
		cfg:     cfg,
		core25:  toSet(cfg.BonusGroups["core_25"]),
		other20: toSet(cfg.BonusGroups["other_20"]),
	}
}

var (
	_ admissions.AcademicScorer  = (*Policy)(nil)
	_ admissions.CompositeScorer = (*Policy)(nil)
)

// ComputeSakem standardizes both components independently, mixes them 50/50,
// scales, shifts, and rounds to 3 decimals.
func (p *Policy) ComputeSakem(record admissions.BagrutRecord, psychometricTotal int) float64 {
	d, _ := p.ComputeAcademicScore(record)
	psychStd := p.cfg.PsychometricStd.A*float64(psychometricTotal) + p.cfg.PsychometricStd.B
	bagrutStd := p.cfg.BagrutStd.A*(d/10.0) - p.cfg.BagrutStd.B
	s := ((0.5*bagrutStd + 0.5*psychStd) * p.cfg.Sechem.Alpha) - p.cfg.Sechem.Beta
	return math.Round(s*1000) / 1000
}

// ComputeAcademicScore computes D in two phases: first add the
// highest-effective-score electives until the unit floor is reached even if
// the average drops, then keep scanning and add only improving electives.
func (p *Policy) ComputeAcademicScore(record admissions.BagrutRecord) (float64, []string) {
	var notes []string

	included := p.collectAlwaysIncluded(record)
	includedNames := make(map[string]struct{}, len(included))
	for _, sg := range included {
		includedNames[sg.Name] = struct{}{}
	}

	var pool []admissions.SubjectGrade
	for _, sg := range record.Subjects {
		if _, ok := includedNames[sg.Name]; !ok {
			pool = append(pool, sg)
		}
	}

	sumW := 0.0
	sumWS := 0.0
	for _, sg := range included {
		w := float64(sg.Units)
		eff := p.effectiveScore(sg)
		sumW += w
		sumWS += w * eff
		notes = append(notes, fmt.Sprintf("MAND %s: units=%d, eff=%.2f", sg.Name, sg.Units, eff))
	}

	sort.SliceStable(pool, func(i, j int) bool {
		effI := p.effectiveScore(pool[i])
		effJ := p.effectiveScore(pool[j])
		if effI != effJ {
			return effI > effJ
		}
		return pool[i].Units > pool[j].Units
	})

	// Phase 1: reach the unit floor even at the cost of the average.
	idx := 0
	for sumW < float64(p.cfg.MinTotalUnits) && idx < len(pool) {
		cand := pool[idx]
		w := float64(cand.Units)
		eff := p.effectiveScore(cand)
		sumWS += w * eff
		sumW += w
		notes = append(notes, fmt.Sprintf("ADD to reach %d: %s eff=%.2f, w=%g", p.cfg.MinTotalUnits, cand.Name, eff, w))
		idx++
	}

	// Phase 2: past the floor, add only if the average improves.
	for ; idx < len(pool); idx++ {
		cand := pool[idx]
		w := float64(cand.Units)
		eff := p.effectiveScore(cand)
		currentAvg := 0.0
		if sumW != 0 {
			currentAvg = sumWS / sumW
		}
		newAvg := (sumWS + w*eff) / (sumW + w)
		if newAvg > currentAvg {
			sumWS += w * eff
			sumW += w
			notes = append(notes, fmt.Sprintf("IMPROVE %s: %.2f→%.2f", cand.Name, currentAvg, newAvg))
		}
	}

	d := 0.0
	if sumW != 0 {
		d = sumWS / sumW
	}
	notes = append(notes, fmt.Sprintf("D (0-100+ scale) = %.6f, units=%.2f", d, sumW))
	return d, notes
}

// collectAlwaysIncluded resolves the always-included core plus the language
// mandatory. Candidates are taken in configured order, so Hebrew Expression
// wins over Arabic Language and Literature when both are present. Absent
// subjects are omitted without error.
func (p *Policy) collectAlwaysIncluded(record admissions.BagrutRecord) []admissions.SubjectGrade {
	var included []admissions.SubjectGrade
	seen := make(map[string]struct{})

	for _, name := range p.cfg.MandatoryAlways {
		sg, ok := record.Find(name)
		if !ok {
			continue
		}
		if _, dup := seen[sg.Name]; dup {
			continue
		}
		seen[sg.Name] = struct{}{}
		included = append(included, sg)
	}

	for _, name := range p.cfg.LanguageCandidates {
		sg, ok := record.Find(name)
		if !ok {
			continue
		}
		if _, dup := seen[sg.Name]; !dup {
			seen[sg.Name] = struct{}{}
			included = append(included, sg)
		}
		break
	}

	return included
}

func (p *Policy) effectiveScore(sg admissions.SubjectGrade) float64 {
	return sg.Score + p.bonusFor(sg)
}

// bonusFor applies the HUJI bonus table. Non-stacking, by priority:
// Mathematics, English, the core-25 group, then the other-20 group.
func (p *Policy) bonusFor(sg admissions.SubjectGrade) float64 {
	if sg.Units < 4 || sg.Score < bonusMinScore {
		return 0
	}

	switch sg.Name {
	case "Mathematics":
		if sg.Units >= 5 {
			return 35
		}
		return 15
	case "English":
		if sg.Units >= 5 {
			return 25
		}
		return 15
	}

	if _, ok := p.core25[sg.Name]; ok {
		if sg.Units >= 5 {
			return 25
		}
		return 15
	}
	if _, ok := p.other20[sg.Name]; ok {
		if sg.Units >= 5 {
			return 20
		}
		return 10
	}
	return 0
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}
