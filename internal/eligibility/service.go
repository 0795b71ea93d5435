// Package eligibility orchestrates one applicant's evaluation across
// institutions: loading each institution's configuration, compiling its
// programs, running the engine, and merging results in stable order.
package eligibility

//go:generate mockgen -destination=mocks/loader_mock.go -package=mocks degreefinder/internal/catalog Loader

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"degreefinder/internal/admissions"
	"degreefinder/internal/catalog"
	"degreefinder/internal/institutions/bgu"
	"degreefinder/internal/institutions/huji"
	"degreefinder/internal/institutions/technion"
	"degreefinder/internal/platform/metrics"
	dErrors "degreefinder/pkg/domain-errors"
)

// EvaluateRequest is the domain-level input for one evaluation pass.
type EvaluateRequest struct {
	Institutions []admissions.Institution
	Applicant    admissions.Applicant
	ProgramIDs   []string
}

// ProgramResult is one program's verdict, re-associated with its institution.
type ProgramResult struct {
	Institution  admissions.Institution
	ProgramID    string
	ProgramName  string
	Faculty      string
	Passed       bool
	Explanations []string
	Details      map[string]float64
}

// Service runs evaluations. It holds no per-request state and is safe for
// concurrent use.
type Service struct {
	loader  catalog.Loader
	metrics *metrics.Metrics
	logger  *slog.Logger
	tracer  trace.Tracer
}

// Option configures the Service.
type Option func(*Service)

// WithMetrics sets the metrics collector for the service.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithLogger sets the logger for the service.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// New creates an eligibility service. Panics if the loader is nil - fail
// fast at startup.
func New(loader catalog.Loader, opts ...Option) *Service {
	if loader == nil {
		panic("eligibility.New: catalog loader is required")
	}
	s := &Service{
		loader: loader,
		tracer: otel.Tracer("degreefinder/eligibility"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Evaluate runs the applicant against every named institution's programs.
// Institutions are evaluated concurrently; each one's work is independent.
// Results are merged in request institution order, program order within, so
// output is reproducible across runs.
//
// Errors: CodeBadRequest when no institution is named; configuration errors
// from any institution fail the whole batch.
func (s *Service) Evaluate(ctx context.Context, req EvaluateRequest) ([]ProgramResult, error) {
	if len(req.Institutions) == 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "no institutions provided")
	}

	ctx, span := s.tracer.Start(ctx, "eligibility.Evaluate",
		trace.WithAttributes(
			attribute.Int("institutions", len(req.Institutions)),
			attribute.Int("subjects", len(req.Applicant.Bagrut.Subjects)),
			attribute.Int("psychometric", req.Applicant.Psychometric.Total),
		))
	defer span.End()

	// One slot per institution; each goroutine writes only its own slot.
	slots := make([][]ProgramResult, len(req.Institutions))
	g, ctx := errgroup.WithContext(ctx)
	for i, institution := range req.Institutions {
		i, institution := i, institution
		g.Go(func() error {
			results, err := s.evaluateInstitution(ctx, institution, req)
			if err != nil {
				return err
			}
			slots[i] = results
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	var merged []ProgramResult
	for _, slot := range slots {
		merged = append(merged, slot...)
	}
	return merged, nil
}

func (s *Service) evaluateInstitution(ctx context.Context, institution admissions.Institution, req EvaluateRequest) ([]ProgramResult, error) {
	start := time.Now()
	_, span := s.tracer.Start(ctx, "eligibility.evaluateInstitution",
		trace.WithAttributes(attribute.String("institution", string(institution))))
	defer span.End()
	defer func() {
		if s.metrics != nil {
			s.metrics.ObserveEvaluationLatency(string(institution), time.Since(start))
		}
	}()

	bundle, err := s.loader.Load(institution)
	if err != nil {
		if s.metrics != nil {
			s.metrics.IncrementCatalogLoadErrors(string(institution))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	policy, err := buildPolicy(bundle)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	factory := admissions.NewRuleFactory(institution, policy)
	repo := admissions.NewProgramRepository(bundle.Programs, factory)
	programs, err := repo.ListPrograms()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	engine := admissions.NewEngine(programs, policy)
	results := engine.EvaluateApplicant(req.Applicant)

	selected := make(map[string]struct{}, len(req.ProgramIDs))
	for _, id := range req.ProgramIDs {
		selected[id] = struct{}{}
	}

	out := make([]ProgramResult, 0, len(results))
	for _, r := range results {
		if len(selected) > 0 {
			if _, ok := selected[r.Program.ID]; !ok {
				continue
			}
		}
		if s.metrics != nil {
			s.metrics.IncrementEvaluations(string(institution), outcome(r.Passed))
		}
		out = append(out, ProgramResult{
			Institution:  institution,
			ProgramID:    r.Program.ID,
			ProgramName:  r.Program.Name,
			Faculty:      r.Program.Faculty,
			Passed:       r.Passed,
			Explanations: r.Explanations,
			Details:      r.Details,
		})
	}

	if s.metrics != nil {
		s.metrics.AddProgramsEvaluated(string(institution), len(results))
	}
	span.SetAttributes(attribute.Int("programs", len(results)))

	if s.logger != nil {
		s.logger.InfoContext(ctx, "institution evaluated",
			"institution", institution,
			"programs", len(results),
			"returned", len(out),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
	return out, nil
}

// buildPolicy decodes the institution-specific policy payload and constructs
// the matching policy implementation. Selection is by institution tag, never
// by probing the payload.
func buildPolicy(bundle catalog.Bundle) (admissions.CompositeScorer, error) {
	switch bundle.Institution {
	case admissions.InstitutionTechnion:
		var cfg technion.Config
		if err := decodePolicy(bundle.Policy, &cfg, bundle.Institution); err != nil {
			return nil, err
		}
		return technion.New(cfg, bundle.Subjects.MandatoryNames()), nil

	case admissions.InstitutionHUJI:
		var cfg huji.Config
		if err := decodePolicy(bundle.Policy, &cfg, bundle.Institution); err != nil {
			return nil, err
		}
		return huji.New(cfg), nil

	case admissions.InstitutionBGU:
		var cfg bgu.Config
		if err := decodePolicy(bundle.Policy, &cfg, bundle.Institution); err != nil {
			return nil, err
		}
		return bgu.New(cfg), nil

	default:
		return nil, dErrors.New(dErrors.CodeBadRequest, "unsupported institution: "+string(bundle.Institution))
	}
}

func decodePolicy(raw json.RawMessage, v any, institution admissions.Institution) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return dErrors.Wrap(err, dErrors.CodeConfiguration,
			fmt.Sprintf("%s: decoding policy config: %v", institution, err))
	}
	return nil
}

func outcome(passed bool) string {
	if passed {
		return "pass"
	}
	return "fail"
}
