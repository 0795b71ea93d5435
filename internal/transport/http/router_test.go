package httptransport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"degreefinder/internal/admissions"
	"degreefinder/internal/catalog"
	"degreefinder/internal/eligibility"
	"degreefinder/internal/eligibility/mocks"
	"degreefinder/internal/platform/health"
	dErrors "degreefinder/pkg/domain-errors"
)

// stubService records the request and returns canned results.
type stubService struct {
	results []eligibility.ProgramResult
	err     error
	got     eligibility.EvaluateRequest
}

func (s *stubService) Evaluate(_ context.Context, req eligibility.EvaluateRequest) ([]eligibility.ProgramResult, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return s.results, nil
}

type RouterSuite struct {
	suite.Suite

	ctrl    *gomock.Controller
	loader  *mocks.MockLoader
	service *stubService
	router  http.Handler
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.loader = mocks.NewMockLoader(s.ctrl)
	s.service = &stubService{}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHandler(s.service, s.loader, logger)
	s.router = NewRouter(handler, health.New("test"), logger, nil, 5*time.Second)
}

func (s *RouterSuite) do(method, target string, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *RouterSuite) TestInstitutions() {
	rec := s.do(http.MethodGet, "/institutions", "")
	s.Equal(http.StatusOK, rec.Code)

	var got []string
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Equal([]string{"technion", "huji", "bgu"}, got)
}

func (s *RouterSuite) TestSubjectsDefaultsToTechnion() {
	s.loader.EXPECT().Load(admissions.InstitutionTechnion).Return(catalog.Bundle{
		Subjects: catalog.Subjects{Mandatory: []catalog.Subject{{Name: "Mathematics"}}},
	}, nil)

	rec := s.do(http.MethodGet, "/subjects", "")
	s.Equal(http.StatusOK, rec.Code)

	var got catalog.Subjects
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Equal([]string{"Mathematics"}, got.MandatoryNames())
}

func (s *RouterSuite) TestSubjectsRejectsUnknownInstitution() {
	rec := s.do(http.MethodGet, "/subjects?institution=oxford", "")
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(rec.Body.String(), "bad_request")
}

func (s *RouterSuite) TestProgramsRequiresInstitution() {
	rec := s.do(http.MethodGet, "/programs", "")
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *RouterSuite) TestProgramsListsSummaries() {
	s.loader.EXPECT().Load(admissions.InstitutionHUJI).Return(catalog.Bundle{
		Institution: admissions.InstitutionHUJI,
		Programs: []admissions.ProgramSpec{
			{ID: "law", Name: "Law", Faculty: "Law"},
		},
	}, nil)

	rec := s.do(http.MethodGet, "/programs?institution=huji", "")
	s.Equal(http.StatusOK, rec.Code)

	var got []ProgramSummary
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Require().Len(got, 1)
	s.Equal("law", got[0].ID)
	s.Equal("huji", got[0].Institution)
}

func (s *RouterSuite) TestProgramsMissingCatalog() {
	s.loader.EXPECT().Load(admissions.InstitutionBGU).
		Return(catalog.Bundle{}, dErrors.New(dErrors.CodeNotFound, "missing programs.json"))

	rec := s.do(http.MethodGet, "/programs?institution=bgu", "")
	s.Equal(http.StatusNotFound, rec.Code)
	s.Contains(rec.Body.String(), "not_found")
}

func (s *RouterSuite) TestComputeRejectsMalformedBody() {
	rec := s.do(http.MethodPost, "/compute", `{"institutions": [`)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(rec.Body.String(), "invalid_input")
}

func (s *RouterSuite) TestComputeRequiresInstitutions() {
	rec := s.do(http.MethodPost, "/compute", `{"institutions": [], "subjects": []}`)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *RouterSuite) TestComputeRejectsUnknownInstitution() {
	rec := s.do(http.MethodPost, "/compute", `{"institutions": ["oxford"]}`)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(rec.Body.String(), "unsupported institution")
}

func (s *RouterSuite) TestComputeRejectsWrongContentType() {
	req := httptest.NewRequest(http.MethodPost, "/compute", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Equal(http.StatusUnsupportedMediaType, rec.Code)
}

func (s *RouterSuite) TestComputeHappyPath() {
	d, p, sakem, threshold := 119.0, 700.0, 93.0, 84.5
	s.service.results = []eligibility.ProgramResult{
		{
			Institution:  admissions.InstitutionTechnion,
			ProgramID:    "cs",
			ProgramName:  "Computer Science",
			Faculty:      "Computer Science",
			Passed:       true,
			Explanations: []string{"Mathematics OK (units=5, score=95)", "S=93.000 ≥ threshold=84.5"},
			Details:      map[string]float64{"D": d, "P": p, "S": sakem, "threshold": threshold},
		},
		{
			Institution:  admissions.InstitutionBGU,
			ProgramID:    "cs",
			ProgramName:  "Computer Science",
			Passed:       false,
			Explanations: []string{"S=640.000 < threshold=670"},
			Details:      map[string]float64{"P": p, "S": 640, "threshold": 670},
		},
	}

	rec := s.do(http.MethodPost, "/compute", `{
		"institutions": ["Technion", "bgu"],
		"psychometric_total": 700,
		"subjects": [{"name": "Mathematics", "units": 5, "score": 95}],
		"program_ids": ["cs"]
	}`)
	s.Require().Equal(http.StatusOK, rec.Code)

	// Request mapping into the domain types.
	s.Equal([]admissions.Institution{admissions.InstitutionTechnion, admissions.InstitutionBGU}, s.service.got.Institutions)
	s.Equal(700, s.service.got.Applicant.Psychometric.Total)
	s.Require().Len(s.service.got.Applicant.Bagrut.Subjects, 1)
	s.Equal("Mathematics", s.service.got.Applicant.Bagrut.Subjects[0].Name)
	s.Equal([]string{"cs"}, s.service.got.ProgramIDs)

	var got []ComputeResultItem
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Require().Len(got, 2)

	tech := got[0]
	s.True(tech.Passed)
	s.Require().NotNil(tech.D)
	s.Equal(119.0, *tech.D)
	s.Require().NotNil(tech.S)
	s.Equal(93.0, *tech.S)
	s.Require().NotNil(tech.Threshold)
	s.Equal(84.5, *tech.Threshold)

	bgu := got[1]
	s.False(bgu.Passed)
	s.Nil(bgu.D, "no D for composite-only institutions")
	s.Require().NotNil(bgu.S)
	s.Equal(640.0, *bgu.S)
}

func (s *RouterSuite) TestComputeServiceError() {
	s.service.err = dErrors.New(dErrors.CodeConfiguration, "program broken: unsupported rule type")

	rec := s.do(http.MethodPost, "/compute", `{"institutions": ["technion"]}`)
	s.Equal(http.StatusInternalServerError, rec.Code)
	s.Contains(rec.Body.String(), "configuration_error")
}

func (s *RouterSuite) TestHealthEndpoints() {
	rec := s.do(http.MethodGet, "/health/live", "")
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "alive")

	rec = s.do(http.MethodGet, "/health", "")
	s.Equal(http.StatusOK, rec.Code)
}

func (s *RouterSuite) TestRequestIDPropagated() {
	req := httptest.NewRequest(http.MethodGet, "/institutions", nil)
	req.Header.Set("X-Request-ID", "test-id-42")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Equal("test-id-42", rec.Header().Get("X-Request-ID"))
}
