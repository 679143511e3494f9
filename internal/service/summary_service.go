package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/eduscan-api/internal/models"
	"github.com/noah-isme/eduscan-api/internal/records"
	appErrors "github.com/noah-isme/eduscan-api/pkg/errors"
	"github.com/noah-isme/eduscan-api/pkg/summary"
)

// fallbackSummary is stored when the provider answers with empty text.
const fallbackSummary = "Analisis selesai."

const summaryPrompt = "Analisis rapor siswa %s berdasarkan kategori akademik (Tugas, Ulangan Harian, UTS) dan kehadiran (Hadir/Tanpa Kehadiran):\n%s\nBerikan ringkasan akhir perkembangan belajar dan saran peningkatan konkret per kategori. Gunakan Bahasa Indonesia formal dan memotivasi."

// SummaryConfig tunes summary generation.
type SummaryConfig struct {
	Timeout  time.Duration
	CacheTTL time.Duration
}

// SummaryService produces narrative progress summaries. Results live only in
// the cache and never touch the record store.
type SummaryService struct {
	students  studentLookup
	generator summary.Generator
	cache     *CacheService
	metrics   *MetricsService
	logger    *zap.Logger
	cfg       SummaryConfig
	now       func() time.Time
}

// NewSummaryService constructs the service. A nil generator disables generation.
func NewSummaryService(students studentLookup, generator summary.Generator, cache *CacheService, metrics *MetricsService, cfg SummaryConfig, logger *zap.Logger) *SummaryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &SummaryService{
		students:  students,
		generator: generator,
		cache:     cache,
		metrics:   metrics,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

// BuildPrompt renders the provider prompt for one student.
func BuildPrompt(st models.Student) string {
	return fmt.Sprintf(summaryPrompt, st.Name, records.Digest(st))
}

// Generate asks the provider for a fresh summary and caches it.
func (s *SummaryService) Generate(ctx context.Context, studentID string) (*models.StudentSummary, error) {
	st, ok := s.students.FindStudentByID(studentID)
	if !ok {
		return nil, studentNotFound(studentID)
	}
	if s.generator == nil {
		return nil, appErrors.Clone(appErrors.ErrUnavailable, "summary generation is not configured")
	}

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()
	text, err := s.generator.Generate(callCtx, BuildPrompt(st))
	if err != nil {
		s.metrics.RecordSummary("error")
		s.logger.Warn("summary generation failed", zap.String("student_id", st.ID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "summary provider failed")
	}
	s.metrics.RecordSummary("ok")

	text = strings.TrimSpace(text)
	if text == "" {
		text = fallbackSummary
	}
	result := &models.StudentSummary{StudentID: st.ID, Text: text, GeneratedAt: s.now().UTC()}
	if err := s.cache.Set(ctx, summaryCacheKey(st.ID), result, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("summary not cached", zap.String("student_id", st.ID), zap.Error(err))
	}
	return result, nil
}

// Get returns the last generated summary for a student.
func (s *SummaryService) Get(ctx context.Context, studentID string) (*models.StudentSummary, error) {
	if _, ok := s.students.FindStudentByID(studentID); !ok {
		return nil, studentNotFound(studentID)
	}
	var cached models.StudentSummary
	hit, err := s.cache.Get(ctx, summaryCacheKey(studentID), &cached)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read summary cache")
	}
	if !hit {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no summary generated for this student")
	}
	cached.Cached = true
	return &cached, nil
}

func summaryCacheKey(studentID string) string {
	return "summary:" + studentID
}
