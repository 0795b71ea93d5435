package huji

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"degreefinder/internal/admissions"
)

type PolicySuite struct {
	suite.Suite

	policy *Policy
}

func TestPolicySuite(t *testing.T) {
	suite.Run(t, new(PolicySuite))
}

func (s *PolicySuite) SetupTest() {
	s.policy = New(Config{
		MandatoryAlways:    []string{"Mathematics", "English"},
		LanguageCandidates: []string{"Hebrew Expression", "Arabic Language and Literature"},
		BonusGroups: map[string][]string{
			"core_25":  {"Physics", "Chemistry", "Biology", "Bible"},
			"other_20": {"History", "Geography"},
		},
		PsychometricStd: Linear{A: 0.01, B: 0},
		BagrutStd:       Linear{A: 1, B: 0},
		Sechem:          SechemConstants{Alpha: 1, Beta: 0},
	})
}

func record(subjects ...admissions.SubjectGrade) admissions.BagrutRecord {
	return admissions.BagrutRecord{Subjects: subjects}
}

func (s *PolicySuite) TestEmptyRecord() {
	d, _ := s.policy.ComputeAcademicScore(record())
	s.Equal(0.0, d)
}

func (s *PolicySuite) TestBonusTable() {
	cases := []struct {
		name  string
		sg    admissions.SubjectGrade
		bonus float64
	}{
		{"math 5u", admissions.SubjectGrade{Name: "Mathematics", Units: 5, Score: 90}, 35},
		{"math 4u", admissions.SubjectGrade{Name: "Mathematics", Units: 4, Score: 90}, 15},
		{"english 5u", admissions.SubjectGrade{Name: "English", Units: 5, Score: 90}, 25},
		{"english 4u", admissions.SubjectGrade{Name: "English", Units: 4, Score: 90}, 15},
		{"core group 5u", admissions.SubjectGrade{Name: "Physics", Units: 5, Score: 90}, 25},
		{"core group 4u", admissions.SubjectGrade{Name: "Physics", Units: 4, Score: 90}, 15},
		{"other group 5u", admissions.SubjectGrade{Name: "History", Units: 5, Score: 90}, 20},
		{"other group 4u", admissions.SubjectGrade{Name: "History", Units: 4, Score: 90}, 10},
		{"ungrouped", admissions.SubjectGrade{Name: "Cinema", Units: 5, Score: 90}, 0},
		{"below 4 units", admissions.SubjectGrade{Name: "Mathematics", Units: 3, Score: 90}, 0},
		{"below min score", admissions.SubjectGrade{Name: "Mathematics", Units: 5, Score: 59}, 0},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			s.Equal(tc.bonus, s.policy.bonusFor(tc.sg))
		})
	}
}

func (s *PolicySuite) TestLanguagePreference() {
	s.Run("first present candidate wins", func() {
		included := s.policy.collectAlwaysIncluded(record(
			admissions.SubjectGrade{Name: "Hebrew Expression", Units: 2, Score: 70},
			admissions.SubjectGrade{Name: "Arabic Language and Literature", Units: 2, Score: 95},
		))
		names := subjectNames(included)
		s.Contains(names, "Hebrew Expression")
		s.NotContains(names, "Arabic Language and Literature")
	})

	s.Run("fallback to the next candidate", func() {
		included := s.policy.collectAlwaysIncluded(record(
			admissions.SubjectGrade{Name: "Arabic Language and Literature", Units: 2, Score: 95},
		))
		s.Contains(subjectNames(included), "Arabic Language and Literature")
	})
}

func (s *PolicySuite) TestAlwaysIncludedDeduplicates() {
	p := New(Config{
		MandatoryAlways:    []string{"Hebrew Expression"},
		LanguageCandidates: []string{"Hebrew Expression"},
	})
	included := p.collectAlwaysIncluded(record(
		admissions.SubjectGrade{Name: "Hebrew Expression", Units: 2, Score: 70},
	))
	s.Len(included, 1)
}

func (s *PolicySuite) TestFloorReachedEvenWhenAverageDrops() {
	p := New(Config{
		MandatoryAlways: []string{"Mathematics"},
		BonusGroups: map[string][]string{
			"other_20": {"History", "Geography"},
		},
	})

	d, notes := p.ComputeAcademicScore(record(
		admissions.SubjectGrade{Name: "Mathematics", Units: 5, Score: 95},
		admissions.SubjectGrade{Name: "History", Units: 5, Score: 80},
		admissions.SubjectGrade{Name: "Geography", Units: 5, Score: 70},
		admissions.SubjectGrade{Name: "Art", Units: 5, Score: 50},
	))

	// Art drags the average down but the 20-unit floor forces it in:
	// (5*130 + 5*100 + 5*90 + 5*50) / 20.
	s.InDelta(92.5, d, 1e-9)
	s.Contains(strings.Join(notes, "\n"), "ADD to reach 20: Art")
}

func (s *PolicySuite) TestImproveOnlyPastFloor() {
	p := New(Config{
		MandatoryAlways: []string{"Hebrew Expression"},
		BonusGroups: map[string][]string{
			"other_20": {"History", "Geography"},
		},
	})

	d, notes := p.ComputeAcademicScore(record(
		admissions.SubjectGrade{Name: "Hebrew Expression", Units: 10, Score: 40},
		admissions.SubjectGrade{Name: "History", Units: 5, Score: 60},
		admissions.SubjectGrade{Name: "Geography", Units: 5, Score: 62},
		admissions.SubjectGrade{Name: "Bible", Units: 2, Score: 70},
	))

	// Geography and History reach the floor (average 60.5); Bible at eff 70
	// still improves it afterwards: 1350 / 22.
	s.InDelta(1350.0/22.0, d, 1e-9)
	s.Contains(strings.Join(notes, "\n"), "IMPROVE Bible")
}

func (s *PolicySuite) TestWorseElectiveSkippedPastFloor() {
	p := New(Config{MandatoryAlways: []string{"Mathematics"}})

	d, notes := p.ComputeAcademicScore(record(
		admissions.SubjectGrade{Name: "Mathematics", Units: 5, Score: 95},
		admissions.SubjectGrade{Name: "Cinema", Units: 15, Score: 90},
		admissions.SubjectGrade{Name: "Art", Units: 2, Score: 30},
	))

	// Cinema reaches the floor; Art would lower the average and stays out.
	s.InDelta((5*130.0+15*90.0)/20.0, d, 1e-9)
	s.NotContains(strings.Join(notes, "\n"), "IMPROVE Art")
}

func (s *PolicySuite) TestHigherScoreNeverLowersD() {
	lower, _ := s.policy.ComputeAcademicScore(record(
		admissions.SubjectGrade{Name: "Mathematics", Units: 5, Score: 85},
	))
	higher, _ := s.policy.ComputeAcademicScore(record(
		admissions.SubjectGrade{Name: "Mathematics", Units: 5, Score: 95},
	))
	s.Greater(higher, lower)
}

func (s *PolicySuite) TestComputeSakemRoundsToThreeDecimals() {
	p := New(Config{
		MandatoryAlways: []string{"Mathematics"},
		PsychometricStd: Linear{A: 0.01, B: 0},
		BagrutStd:       Linear{A: 1, B: 0},
		Sechem:          SechemConstants{Alpha: 1, Beta: 0.1234},
	})

	got := p.ComputeSakem(record(
		admissions.SubjectGrade{Name: "Mathematics", Units: 5, Score: 95},
	), 700)

	// D = 130, so 0.5*13 + 0.5*7 - 0.1234 = 9.8766, rounded to 9.877.
	s.InDelta(9.877, got, 1e-9)
}

func subjectNames(subjects []admissions.SubjectGrade) []string {
	names := make([]string, 0, len(subjects))
	for _, sg := range subjects {
		names = append(names, sg.Name)
	}
	return names
}
