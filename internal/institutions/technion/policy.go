// Package technion implements the Technion admission policy: optimal
// weighted subset selection with per-subject bonuses, double-weighted
// mathematics, and the 0.5*D + 0.075*P - 19 composite formula.
package technion

import (
	"fmt"
	"sort"

	"degreefinder/internal/admissions"
)

// DropCondition allows dropping Jewish Philosophy from the mandatory set
// when another subject meets a minimum unit threshold.
type DropCondition struct {
	Subject  string `json:"subject"`
	MinUnits int    `json:"min_units"`
}

// BonusBase is the bonus-by-units table applied to any subject scoring at
// least MinScore.
type BonusBase struct {
	MinScore  float64 `json:"min_score"`
	FourUnits float64 `json:"4u"`
	FiveUnits float64 `json:"5u"`
}

// BonusExtra is the additional 5-unit category bonus table. At most one
// entry applies per subject, by priority: Mathematics, then the scientific
// or technological category. When the aggregate condition holds (math at 5u
// together with two scientific 5u subjects, or one scientific plus one
// technological), the category bonus is bumped to AggregateBump instead.
type BonusExtra struct {
	Math5            float64  `json:"math_5u"`
	Scientific5      float64  `json:"scientific_5u"`
	Technological5   float64  `json:"technological_5u"`
	AggregateBump    float64  `json:"aggregate_bump"`
	ScientificSet    []string `json:"scientific_set"`
	TechnologicalSet []string `json:"technological_set"`
}

// Config is the Technion policy parameter set loaded from policy.json.
type Config struct {
	DoubleWeightSubjects        []string       `json:"double_weight_subjects"`
	MinTotalUnits               int            `json:"min_total_units"`
	MaxD                        float64        `json:"max_D"`
	AllowDropJewishPhilosophyIf *DropCondition `json:"allow_drop_jewish_philosophy_if"`
	BonusBase                   BonusBase      `json:"bonus_base"`
	BonusExtra                  BonusExtra     `json:"bonus_extra"`
}

func (c *Config) applyDefaults() {
	if c.MinTotalUnits == 0 {
		c.MinTotalUnits = 20
	}
	if c.MaxD == 0 {
		c.MaxD = 119.0
	}
	if c.BonusBase.MinScore == 0 {
		c.BonusBase.MinScore = 60
	}
	if c.BonusBase.FourUnits == 0 {
		c.BonusBase.FourUnits = 10
	}
	if c.BonusBase.FiveUnits == 0 {
		c.BonusBase.FiveUnits = 20
	}
	if c.BonusExtra.Math5 == 0 {
		c.BonusExtra.Math5 = 30
	}
	if c.BonusExtra.Scientific5 == 0 {
		c.BonusExtra.Scientific5 = 25
	}
	if c.BonusExtra.Technological5 == 0 {
		c.BonusExtra.Technological5 = 25
	}
	if c.BonusExtra.AggregateBump == 0 {
		c.BonusExtra.AggregateBump = 30
	}
}

// Policy computes the Technion weighted academic score and sakem.
// All category sets are built once at construction and never mutated, so a
// single Policy is safe for concurrent use.
type Policy struct {
	cfg           Config
	mandatory     []string
	doubleWeight  map[string]struct{}
	scientific    map[string]struct{}
	technological map[string]struct{}
}

// New builds a policy from its parameter set and the mandatory subject names
// of the institution's subjects catalog.
func New(cfg Config, mandatorySubjects []string) *Policy {
	cfg.applyDefaults()
	return &Policy{
		cfg:           cfg,
		mandatory:     mandatorySubjects,
		doubleWeight:  toSet(cfg.DoubleWeightSubjects),
		scientific:    toSet(cfg.BonusExtra.ScientificSet),
		technological: toSet(cfg.BonusExtra.TechnologicalSet),
	}
}

var (
	_ admissions.AcademicScorer  = (*Policy)(nil)
	_ admissions.CompositeScorer = (*Policy)(nil)
)

// ComputeSakem combines D with the psychometric total using the Technion
// composite formula.
func (p *Policy) ComputeSakem(record admissions.BagrutRecord, psychometricTotal int) float64 {
	d, _ := p.ComputeAcademicScore(record)
	return 0.5*d + 0.075*float64(psychometricTotal) - 19.0
}

// ComputeAcademicScore computes D: seed the weighted sum with the mandatory
// set, then scan the elective pool sorted by (effective score desc, weight
// desc) admitting each candidate that strictly improves the running average.
// The scan never cuts off at the unit floor; an improving elective past the
// floor is still admitted.
func (p *Policy) ComputeAcademicScore(record admissions.BagrutRecord) (float64, []string) {
	var notes []string
	mandatory := p.collectMandatory(record)

	// The aggregate condition depends on the whole record, so it is settled
	// once before any subject's bonus is computed.
	hasMath5 := p.hasMath5(record)
	sci, tech := p.fiveUnitCategoryCounts(record)
	aggregate := sci >= 2 || (sci >= 1 && tech >= 1)

	totalW := 0.0
	totalWS := 0.0
	for _, sg := range mandatory {
		w := p.effectiveWeight(sg)
		eff := p.effectiveScore(sg, hasMath5, aggregate)
		totalW += w
		totalWS += w * eff
		notes = append(notes, fmt.Sprintf("MAND %s: units=%d, effScore=%.2f, weight=%g", sg.Name, sg.Units, eff, w))
	}

	mandatoryNames := make(map[string]struct{}, len(mandatory))
	for _, sg := range mandatory {
		mandatoryNames[sg.Name] = struct{}{}
	}
	var pool []admissions.SubjectGrade
	for _, sg := range record.Subjects {
		if _, ok := mandatoryNames[sg.Name]; !ok {
			pool = append(pool, sg)
		}
	}

	sort.SliceStable(pool, func(i, j int) bool {
		effI := p.effectiveScore(pool[i], hasMath5, aggregate)
		effJ := p.effectiveScore(pool[j], hasMath5, aggregate)
		if effI != effJ {
			return effI > effJ
		}
		return p.effectiveWeight(pool[i]) > p.effectiveWeight(pool[j])
	})

	for _, cand := range pool {
		currentAvg := 0.0
		if totalW != 0 {
			currentAvg = totalWS / totalW
		}
		w := p.effectiveWeight(cand)
		eff := p.effectiveScore(cand, hasMath5, aggregate)
		newAvg := (totalWS + w*eff) / (totalW + w)
		if newAvg > currentAvg {
			totalWS += w * eff
			totalW += w
			notes = append(notes, fmt.Sprintf("ADD ELEC %s: effScore=%.2f, weight=%g -> avg %.2f→%.2f",
				cand.Name, eff, w, currentAvg, newAvg))
		}
	}

	d := 0.0
	if totalW != 0 {
		d = totalWS / totalW
	}
	if d > p.cfg.MaxD {
		notes = append(notes, fmt.Sprintf("D capped %.2f→%.2f", d, p.cfg.MaxD))
		d = p.cfg.MaxD
	}
	return d, notes
}

// collectMandatory resolves the mandatory set against the record. An absent
// mandatory subject is simply excluded; that permissive behavior is
// deliberate.
func (p *Policy) collectMandatory(record admissions.BagrutRecord) []admissions.SubjectGrade {
	var included []admissions.SubjectGrade
	for _, name := range p.mandatory {
		sg, ok := record.Find(name)
		if !ok {
			continue
		}
		if sg.Name == "Jewish Philosophy" && p.allowDropJewishPhilosophy(record) {
			continue
		}
		included = append(included, sg)
	}
	return included
}

func (p *Policy) allowDropJewishPhilosophy(record admissions.BagrutRecord) bool {
	cond := p.cfg.AllowDropJewishPhilosophyIf
	if cond == nil {
		return false
	}
	sg, ok := record.Find(cond.Subject)
	if !ok {
		return false
	}
	return sg.Units >= cond.MinUnits
}

func (p *Policy) hasMath5(record admissions.BagrutRecord) bool {
	sg, ok := record.Find("Mathematics")
	return ok && sg.Units >= 5
}

// fiveUnitCategoryCounts counts bonus-eligible 5-unit subjects in the
// scientific and technological categories.
func (p *Policy) fiveUnitCategoryCounts(record admissions.BagrutRecord) (sci, tech int) {
	for _, sg := range record.Subjects {
		if sg.Units < 5 || sg.Score < p.cfg.BonusBase.MinScore {
			continue
		}
		if _, ok := p.scientific[sg.Name]; ok {
			sci++
		}
		if _, ok := p.technological[sg.Name]; ok {
			tech++
		}
	}
	return sci, tech
}

func (p *Policy) effectiveWeight(sg admissions.SubjectGrade) float64 {
	if _, ok := p.doubleWeight[sg.Name]; ok {
		return float64(sg.Units) * 2.0
	}
	return float64(sg.Units)
}

func (p *Policy) effectiveScore(sg admissions.SubjectGrade, hasMath5, aggregate bool) float64 {
	return sg.Score + p.baseBonus(sg) + p.extraBonus(sg, hasMath5, aggregate)
}

func (p *Policy) baseBonus(sg admissions.SubjectGrade) float64 {
	if sg.Score < p.cfg.BonusBase.MinScore {
		return 0
	}
	switch {
	case sg.Units >= 5:
		return p.cfg.BonusBase.FiveUnits
	case sg.Units == 4:
		return p.cfg.BonusBase.FourUnits
	default:
		return 0
	}
}

// extraBonus applies the 5-unit category table. Non-stacking: the highest
// priority matching category wins.
func (p *Policy) extraBonus(sg admissions.SubjectGrade, hasMath5, aggregate bool) float64 {
	if sg.Score < p.cfg.BonusBase.MinScore || sg.Units < 5 {
		return 0
	}
	if sg.Name == "Mathematics" {
		return p.cfg.BonusExtra.Math5
	}
	_, isScientific := p.scientific[sg.Name]
	_, isTechnological := p.technological[sg.Name]
	if !isScientific && !isTechnological {
		return 0
	}
	if hasMath5 && aggregate {
		return p.cfg.BonusExtra.AggregateBump
	}
	if isScientific {
		return p.cfg.BonusExtra.Scientific5
	}
	return p.cfg.BonusExtra.Technological5
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}
