package admissions

import (
	"testing"

	"github.com/stretchr/testify/suite"

	dErrors "degreefinder/pkg/domain-errors"
)

type FactorySuite struct {
	suite.Suite

	factory *RuleFactory
}

func TestFactorySuite(t *testing.T) {
	suite.Run(t, new(FactorySuite))
}

func (s *FactorySuite) SetupTest() {
	s.factory = NewRuleFactory(InstitutionTechnion, stubScorer{sakem: 90})
}

func (s *FactorySuite) TestBuildSubjectRequirement() {
	minScore := 85.0
	rule, err := s.factory.Build(RuleSpec{
		Type:     RuleTypeSubjectRequirement,
		Subject:  "Physics",
		MinUnits: 5,
		MinScore: &minScore,
	})
	s.Require().NoError(err)

	sr, ok := rule.(SubjectRequirementRule)
	s.Require().True(ok)
	s.Equal("Physics", sr.Subject)
	s.Equal(5, sr.MinUnits)
	s.Require().NotNil(sr.MinScore)
	s.Equal(85.0, *sr.MinScore)
}

func (s *FactorySuite) TestBuildSakemThreshold() {
	rule, err := s.factory.Build(RuleSpec{
		Type:      RuleTypeSakemThreshold,
		Threshold: 84.5,
	})
	s.Require().NoError(err)

	st, ok := rule.(SakemThresholdRule)
	s.Require().True(ok)
	s.Equal(84.5, st.Threshold)
	s.NotNil(st.Scorer)
}

func (s *FactorySuite) TestRejectsSubjectRequirementWithoutSubject() {
	_, err := s.factory.Build(RuleSpec{Type: RuleTypeSubjectRequirement, MinUnits: 4})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConfiguration))
}

func (s *FactorySuite) TestRejectsThresholdWithoutPolicy() {
	factory := NewRuleFactory(InstitutionBGU, nil)
	_, err := factory.Build(RuleSpec{Type: RuleTypeSakemThreshold, Threshold: 650})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConfiguration))
}

func (s *FactorySuite) TestRejectsUnknownRuleType() {
	_, err := s.factory.Build(RuleSpec{Type: "or"})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConfiguration))
	s.Contains(err.Error(), `unsupported rule type "or"`)
}
