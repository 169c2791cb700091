package integrity

import (
	"context"
	"errors"
	"time"

	"github.com/campusforge/ttcore/internal/domain"
	"github.com/campusforge/ttcore/internal/metrics"
	appErrors "github.com/campusforge/ttcore/pkg/errors"
)

// reportCache is the narrow cache dependency the service needs — just
// enough to do get-or-compute, matching the teacher's CacheRepository
// shape without binding integrity to the repository package directly.
type reportCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// Service wraps a Verifier with a short-TTL cache-aside layer: a
// dataset snapshot is identified by an opaque key the caller derives
// (e.g. a hash of the uploaded batch), and repeated verification calls
// against the same key skip recomputation.
type Service struct {
	verifier *Verifier
	cache    reportCache
	ttl      time.Duration
	metrics  *metrics.Service
}

// NewService builds a cached integrity service. A nil cache makes
// every call recompute — useful for tests and for deployments without
// Redis configured.
func NewService(verifier *Verifier, cache reportCache, ttl time.Duration) *Service {
	return &Service{verifier: verifier, cache: cache, ttl: ttl}
}

// WithMetrics attaches a metrics service that records the most recent
// overall health score as a gauge. Returns the receiver for chaining
// at the wiring site.
func (s *Service) WithMetrics(m *metrics.Service) *Service {
	s.metrics = m
	return s
}

// Verify returns the cached report for key if present, otherwise
// computes it, caches it, and returns it.
func (s *Service) Verify(
	ctx context.Context,
	key string,
	faculty []domain.Faculty,
	courses []domain.Course,
	rooms []domain.Room,
	sections []domain.Section,
	requirements []domain.Requirement,
) (Report, error) {
	if s.cache != nil {
		var cached Report
		err := s.cache.Get(ctx, cacheKey(key), &cached)
		if err == nil {
			s.metrics.SetIntegrityHealthScore(cached.OverallScore)
			return cached, nil
		}
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			return Report{}, err
		}
	}

	report := s.verifier.VerifyAll(faculty, courses, rooms, sections, requirements)
	s.metrics.SetIntegrityHealthScore(report.OverallScore)

	if s.cache != nil {
		_ = s.cache.Set(ctx, cacheKey(key), report, s.ttl)
	}
	return report, nil
}

func cacheKey(key string) string {
	return "integrity:report:" + key
}
