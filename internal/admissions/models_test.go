package admissions

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type ModelsSuite struct {
	suite.Suite
}

func TestModelsSuite(t *testing.T) {
	suite.Run(t, new(ModelsSuite))
}

func (s *ModelsSuite) TestBagrutFind() {
	record := BagrutRecord{Subjects: []SubjectGrade{
		{Name: "Mathematics", Units: 5, Score: 95},
		{Name: "English", Units: 4, Score: 80},
	}}

	s.Run("finds an existing subject", func() {
		sg, ok := record.Find("Mathematics")
		s.True(ok)
		s.Equal(5, sg.Units)
		s.Equal(95.0, sg.Score)
	})

	s.Run("lookup is exact by default", func() {
		_, ok := record.Find("mathematics")
		s.False(ok)
	})

	s.Run("missing subject returns false", func() {
		_, ok := record.Find("Physics")
		s.False(ok)
	})
}

func (s *ModelsSuite) TestBagrutFindFold() {
	record := BagrutRecord{Subjects: []SubjectGrade{
		{Name: "Hebrew Expression", Units: 2, Score: 70},
	}}

	sg, ok := record.FindFold("hebrew expression")
	s.True(ok)
	s.Equal("Hebrew Expression", sg.Name)

	_, ok = record.FindFold("physics")
	s.False(ok)
}

func (s *ModelsSuite) TestParseInstitution() {
	s.Run("accepts supported tags with normalization", func() {
		inst, err := ParseInstitution("  Technion ")
		s.Require().NoError(err)
		s.Equal(InstitutionTechnion, inst)
	})

	s.Run("rejects unknown institutions", func() {
		_, err := ParseInstitution("oxford")
		s.Error(err)
	})
}
