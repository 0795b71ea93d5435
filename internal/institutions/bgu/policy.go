// Package bgu implements the Ben-Gurion admission policy: a two-phase
// optimal bagrut average with bonuses (capped at 120), normalized to
// B = 650 + 10*(D-100), then the 50/50 sakem S = (B + P) / 2.
//
// BGU reports D only through its composite score, so the policy deliberately
// does not implement admissions.AcademicScorer.
package bgu

import (
	"strings"

	"degreefinder/internal/admissions"
)

// Config is the BGU policy parameter set. Subject names are matched
// case-insensitively in their normalized (lower-case, snake_case) form.
type Config struct {
	MandatorySubjects []string `json:"mandatory_subjects"`
	Plus25FiveUnits   []string `json:"plus25_five_units"`
	NoBonusSubjects   []string `json:"no_bonus_subjects"`
	MinTotalUnits     int      `json:"min_total_units"`
	MaxD              float64  `json:"max_D"`
}

func (c *Config) applyDefaults() {
	if len(c.MandatorySubjects) == 0 {
		c.MandatorySubjects = []string{"english", "mathematics", "history", "civics", "hebrew_expression"}
	}
	if len(c.Plus25FiveUnits) == 0 {
		c.Plus25FiveUnits = []string{"physics", "chemistry", "biology", "literature", "bible", "history", "computer_science"}
	}
	if len(c.NoBonusSubjects) == 0 {
		c.NoBonusSubjects = []string{"interdisciplinary", "multi_disciplinary", "interdisciplinary_studies"}
	}
	if c.MinTotalUnits == 0 {
		c.MinTotalUnits = 20
	}
	if c.MaxD == 0 {
		c.MaxD = 120.0
	}
}

// Policy computes the BGU sakem. Safe for concurrent use.
type Policy struct {
	cfg       Config
	mandatory map[string]struct{}
	plus25    map[string]struct{}
	noBonus   map[string]struct{}
}

// New builds a policy, falling back to the canonical BGU tables for any
// unset config section.
func New(cfg Config) *Policy {
	cfg.applyDefaults()
	return &Policy{
		cfg:       cfg,
		mandatory: toSet(cfg.MandatorySubjects),
		plus25:    toSet(cfg.Plus25FiveUnits),
		noBonus:   toSet(cfg.NoBonusSubjects),
	}
}

var _ admissions.CompositeScorer = (*Policy)(nil)

// ComputeSakem computes the optimal bagrut average, normalizes it to the
// 650-point bagrut component, and averages with the psychometric total.
func (p *Policy) ComputeSakem(record admissions.BagrutRecord, psychometricTotal int) float64 {
	d := p.computeOptimalAverage(record)
	bagrutComponent := 650.0 + 10.0*(d-100.0)
	return (bagrutComponent + float64(psychometricTotal)) / 2.0
}

// computeOptimalAverage runs the two-phase selection. Phase 1 greedily
// reaches the unit floor by always taking the candidate that maximizes the
// resulting average (not the candidate's own score). Phase 2 repeatedly adds
// the remaining candidate with the largest strictly-positive average gain
// until no addition improves the average.
func (p *Policy) computeOptimalAverage(record admissions.BagrutRecord) float64 {
	var included, electives []admissions.SubjectGrade
	for _, sg := range record.Subjects {
		if _, ok := p.mandatory[normalize(sg.Name)]; ok {
			included = append(included, sg)
		} else {
			electives = append(electives, sg)
		}
	}

	taken := make([]bool, len(electives))
	sum, units := p.sumAndUnits(included)

	// Phase 1: fill up to the unit floor. A mandatory set already at the
	// floor forces nothing in.
	for units < p.cfg.MinTotalUnits {
		bestIdx := -1
		bestAvg := 0.0
		for i, cand := range electives {
			if taken[i] {
				continue
			}
			trialSum := sum + p.weightedScore(cand)
			trialUnits := units + cand.Units
			trialAvg := averageFrom(trialSum, trialUnits)
			if bestIdx == -1 || trialAvg > bestAvg {
				bestIdx = i
				bestAvg = trialAvg
			}
		}
		if bestIdx == -1 {
			break
		}
		taken[bestIdx] = true
		sum += p.weightedScore(electives[bestIdx])
		units += electives[bestIdx].Units
	}

	// Phase 2: improvement passes until a fixpoint.
	for {
		baseAvg := averageFrom(sum, units)
		bestIdx := -1
		bestGain := 0.0
		for i, cand := range electives {
			if taken[i] {
				continue
			}
			trialAvg := averageFrom(sum+p.weightedScore(cand), units+cand.Units)
			if gain := trialAvg - baseAvg; gain > bestGain {
				bestGain = gain
				bestIdx = i
			}
		}
		if bestIdx == -1 {
			break
		}
		taken[bestIdx] = true
		sum += p.weightedScore(electives[bestIdx])
		units += electives[bestIdx].Units
	}

	d := averageFrom(sum, units)
	if d > p.cfg.MaxD {
		d = p.cfg.MaxD
	}
	return d
}

func (p *Policy) sumAndUnits(subjects []admissions.SubjectGrade) (float64, int) {
	sum := 0.0
	units := 0
	for _, sg := range subjects {
		sum += p.weightedScore(sg)
		units += sg.Units
	}
	return sum, units
}

func (p *Policy) weightedScore(sg admissions.SubjectGrade) float64 {
	return (sg.Score + p.bonusFor(sg)) * float64(sg.Units)
}

func averageFrom(sum float64, units int) float64 {
	if units == 0 {
		return 0
	}
	return sum / float64(units)
}

// bonusFor applies the BGU bonus table. Bonuses require a raw score of at
// least 60 and exactly 4 or 5 units; the interdisciplinary group gets none.
func (p *Policy) bonusFor(sg admissions.SubjectGrade) float64 {
	name := normalize(sg.Name)
	if sg.Score < 60 || sg.Units < 4 {
		return 0
	}
	if _, ok := p.noBonus[name]; ok {
		return 0
	}

	switch name {
	case "mathematics", "math":
		switch sg.Units {
		case 5:
			return 35
		case 4:
			return 20
		}
		return 0
	case "english":
		switch sg.Units {
		case 5:
			return 25
		case 4:
			return 15
		}
		return 0
	case "arabic":
		// Jewish-track Arabic keeps the general table, not the +25 group.
		switch sg.Units {
		case 5:
			return 20
		case 4:
			return 10
		}
		return 0
	}

	if _, ok := p.plus25[name]; ok {
		switch sg.Units {
		case 5:
			return 25
		case 4:
			return 10
		}
		return 0
	}

	switch sg.Units {
	case 5:
		return 20
	case 4:
		return 10
	}
	return 0
}

func normalize(name string) string {
	return strings.ToLower(name)
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[strings.ToLower(n)] = struct{}{}
	}
	return set
}
