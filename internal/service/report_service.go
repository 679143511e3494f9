package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/eduscan-api/internal/dto"
	"github.com/noah-isme/eduscan-api/internal/models"
	"github.com/noah-isme/eduscan-api/internal/records"
	appErrors "github.com/noah-isme/eduscan-api/pkg/errors"
	"github.com/noah-isme/eduscan-api/pkg/export"
	"github.com/noah-isme/eduscan-api/pkg/storage"
)

// ReportSheetName is the worksheet name used for spreadsheet exports.
const ReportSheetName = "Review Raport"

var reportHeaders = []string{
	"Nama Siswa",
	"ID Siswa",
	"Kelas",
	"Mata Pelajaran",
	"Rerata Nilai Tugas",
	"Rerata Nilai Ulangan Harian",
	"Rerata Nilai UTS",
	"Jumlah Kehadiran (H)",
	"Tanpa Kehadiran (A)",
	"Skor Sikap",
	"Status Akademik",
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type xlsxRenderer interface {
	Render(data export.Dataset, sheetName string) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ReportConfig tunes export behaviour.
type ReportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ReportService builds report rows and dashboard overviews and renders them
// to downloadable files.
type ReportService struct {
	store     recordStore
	storage   fileStorage
	signer    *storage.SignedURLSigner
	csv       csvRenderer
	xlsx      xlsxRenderer
	pdf       pdfRenderer
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ReportConfig
	now       func() time.Time
}

// NewReportService constructs a ReportService with the default renderers.
func NewReportService(store recordStore, files fileStorage, signer *storage.SignedURLSigner, cfg ReportConfig, validate *validator.Validate, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	return &ReportService{
		store:     store,
		storage:   files,
		signer:    signer,
		csv:       export.NewCSVExporter(),
		xlsx:      export.NewXLSXExporter(),
		pdf:       export.NewPDFExporter(),
		validator: registerValidators(validate),
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Rows returns one report row per matching student and subject record.
func (s *ReportService) Rows(filter models.StudentFilter) []models.ReportRow {
	filter = filter.Normalize()
	return records.BuildReportRows(s.store.Snapshot(), filter.ClassGroup, filter.SubjectName)
}

// Overview summarises the filter set for the dashboard. An empty date means today.
func (s *ReportService) Overview(query dto.ReportQuery) (*models.Overview, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, invalidPayload(err, "invalid overview query")
	}
	date := query.Date
	if date == "" {
		date = today(s.now)
	}
	filter := query.Filter()
	ov := records.Overview(s.store.Snapshot(), filter.ClassGroup, filter.SubjectName, date)
	return &ov, nil
}

// Export renders the report rows and returns a signed download link.
func (s *ReportService) Export(ctx context.Context, req dto.ExportRequest) (*models.ExportResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err, "invalid export payload")
	}
	format := req.Format
	if format == "" {
		format = models.ExportFormatXLSX
	}
	filter := req.Filter()
	rows := records.BuildReportRows(s.store.Snapshot(), filter.ClassGroup, filter.SubjectName)
	dataset := reportDataset(rows)

	var (
		payload []byte
		err     error
	)
	switch format {
	case models.ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case models.ExportFormatXLSX:
		payload, err = s.xlsx.Render(dataset, ReportSheetName)
	case models.ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, fmt.Sprintf("Laporan Raport %s - %s", filter.SubjectName, filter.ClassGroup))
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported format %s", format))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}

	fileID := uuid.NewString()
	fileName := s.buildFilename(filter, format)
	relPath, err := s.storage.Save(fileID+"/"+fileName, payload)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store report")
	}
	token, expiresAt, err := s.signer.Generate(fileID, relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download link")
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}

	s.logger.Info("report exported",
		zap.String("file", relPath),
		zap.String("format", string(format)),
		zap.Int("rows", len(rows)),
	)
	return &models.ExportResult{
		FileName:  fileName,
		Format:    format,
		Rows:      len(rows),
		URL:       fmt.Sprintf("%s/export/%s", prefix, token),
		ExpiresAt: expiresAt,
	}, nil
}

// ParseToken validates a download token and returns the stored path.
func (s *ReportService) ParseToken(token string) (string, error) {
	_, relPath, _, err := s.signer.Parse(token)
	switch {
	case err == nil:
		return relPath, nil
	case errors.Is(err, storage.ErrTokenExpired):
		return "", appErrors.Clone(appErrors.ErrNotFound, "download link expired")
	default:
		return "", appErrors.Clone(appErrors.ErrNotFound, "download link invalid")
	}
}

// Open returns a handle to the stored file.
func (s *ReportService) Open(relPath string) (*os.File, error) {
	f, err := s.storage.Open(relPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) || errors.Is(err, storage.ErrInvalidPath) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "report file no longer available")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open report")
	}
	return f, nil
}

// Cleanup removes files older than the configured result TTL.
func (s *ReportService) Cleanup(ctx context.Context) error {
	removed, err := s.storage.CleanupOlderThan(s.cfg.ResultTTL)
	if err != nil {
		return err
	}
	if len(removed) > 0 {
		s.logger.Info("expired reports removed", zap.Int("count", len(removed)))
	}
	return nil
}

func (s *ReportService) buildFilename(filter models.StudentFilter, format models.ExportFormat) string {
	timestamp := s.now().UTC().Format("20060102_150405")
	return fmt.Sprintf("LaporanRaport_%s_%s_%s.%s",
		sanitizeFilename(filter.SubjectName),
		sanitizeFilename(filter.ClassGroup),
		timestamp,
		format,
	)
}

func passStatusLabel(status models.PassStatus) string {
	if status == models.PassStatusPassing {
		return "Tuntas"
	}
	return "Remedial"
}

func reportDataset(rows []models.ReportRow) export.Dataset {
	out := make([][]interface{}, 0, len(rows))
	for _, r := range rows {
		out = append(out, []interface{}{
			r.Name,
			r.ID,
			r.ClassGroup,
			r.SubjectName,
			r.AssignmentAvg,
			r.ExamAvg,
			r.MidTermAvg,
			r.PresentCount,
			r.AbsentCount,
			r.BehaviorScore,
			passStatusLabel(r.PassStatusLabel),
		})
	}
	return export.Dataset{Headers: reportHeaders, Rows: out}
}

const maxFilenameRunes = 100

// sanitizeFilename makes raw safe for a path segment and a quoted
// Content-Disposition filename.
func sanitizeFilename(raw string) string {
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_", "\"", "", ";", "")
	result := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, replacer.Replace(raw))
	if result == "" {
		return "na"
	}
	if runes := []rune(result); len(runes) > maxFilenameRunes {
		return string(runes[:maxFilenameRunes])
	}
	return result
}
