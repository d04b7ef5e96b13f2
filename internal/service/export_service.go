package service

import (
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/mun-club-api/internal/models"
	appErrors "github.com/noah-isme/mun-club-api/pkg/errors"
	"github.com/noah-isme/mun-club-api/pkg/export"
	"github.com/noah-isme/mun-club-api/pkg/storage"
)

type fileStorage interface {
	Save(name string, data []byte) (string, error)
	Open(name string) (io.ReadCloser, error)
	Delete(name string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type tableRenderer interface {
	ContentType() string
	Extension() string
	Render(table export.Table) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// RenderedReport is an attendance report serialised in one format.
type RenderedReport struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportResult captures a stored export and its signed download link.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	ExpiresAt    time.Time
}

// ExportService renders attendance reports and persists them for signed downloads.
type ExportService struct {
	storage   fileStorage
	renderers map[models.ReportFormat]tableRenderer
	signer    *storage.SignedURLSigner
	metrics   *MetricsService
	logger    *zap.Logger
	cfg       ExportConfig
}

// NewExportService constructs an ExportService. storage and signer may be nil when only
// synchronous rendering is needed.
func NewExportService(store fileStorage, signer *storage.SignedURLSigner, metrics *MetricsService, cfg ExportConfig, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	return &ExportService{
		storage: store,
		renderers: map[models.ReportFormat]tableRenderer{
			models.ReportFormatCSV: export.NewCSVExporter(),
			models.ReportFormatPDF: export.NewPDFExporter(),
		},
		signer:  signer,
		metrics: metrics,
		logger:  logger,
		cfg:     cfg,
	}
}

// ParseFormat normalises a format query value. Empty means csv.
func ParseFormat(raw string) (models.ReportFormat, error) {
	switch models.ReportFormat(strings.ToLower(strings.TrimSpace(raw))) {
	case "", models.ReportFormatCSV:
		return models.ReportFormatCSV, nil
	case models.ReportFormatPDF:
		return models.ReportFormatPDF, nil
	}
	return "", appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
}

// Render serialises the report.
func (s *ExportService) Render(report *models.AttendanceReport, format models.ReportFormat) (*RenderedReport, error) {
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported format %s", format))
	}
	data, err := renderer.Render(ReportTable(report))
	if err != nil {
		return nil, appErrors.Internal(err, "failed to render report")
	}
	s.metrics.RecordReport(string(format))
	return &RenderedReport{
		Filename:    reportFilename(report, renderer.Extension()),
		ContentType: renderer.ContentType(),
		Data:        data,
	}, nil
}

// Store renders the report, saves it under exportID and signs a download link for it.
func (s *ExportService) Store(exportID string, report *models.AttendanceReport, format models.ReportFormat) (*ExportResult, error) {
	if s.storage == nil || s.signer == nil {
		return nil, fmt.Errorf("export storage is not configured")
	}
	rendered, err := s.Render(report, format)
	if err != nil {
		return nil, err
	}
	relPath, err := s.storage.Save(exportID+"/"+rendered.Filename, rendered.Data)
	if err != nil {
		return nil, fmt.Errorf("save export: %w", err)
	}
	token, expiresAt, err := s.signer.Generate(exportID, relPath)
	if err != nil {
		return nil, fmt.Errorf("sign export: %w", err)
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}
	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          fmt.Sprintf("%s/exports/%s", prefix, token),
		ExpiresAt:    expiresAt,
	}, nil
}

// ParseToken validates a download token.
func (s *ExportService) ParseToken(token string, allowExpired bool) (storage.SignedToken, error) {
	if s.signer == nil {
		return storage.SignedToken{}, storage.ErrInvalidToken
	}
	return s.signer.Parse(token, allowExpired)
}

// Open returns a reader for a stored export.
func (s *ExportService) Open(relPath string) (io.ReadCloser, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl, or the configured result TTL when ttl <= 0.
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if s.storage == nil {
		return nil, nil
	}
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func reportFilename(report *models.AttendanceReport, ext string) string {
	return fmt.Sprintf("attendance_%s_%s.%s", report.StartDate.Format("20060102"), report.EndDate.Format("20060102"), ext)
}
