package service

import (
	"context"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/mun-club-api/internal/authz"
	"github.com/noah-isme/mun-club-api/internal/models"
	"github.com/noah-isme/mun-club-api/internal/repository"
	appErrors "github.com/noah-isme/mun-club-api/pkg/errors"
	"github.com/noah-isme/mun-club-api/pkg/jobs"
)

// JobKindAttendanceReport identifies attendance export jobs on the worker queue.
const JobKindAttendanceReport = "attendance_report"

type reportSource interface {
	GetReport(ctx context.Context, caller *models.Caller, start, end time.Time) (*models.AttendanceReport, error)
}

type reportStore interface {
	Create(ctx context.Context, record *models.ReportExport) error
	FindByID(ctx context.Context, id string) (*models.ReportExport, error)
	ListByCreator(ctx context.Context, userID string) ([]models.ReportExport, error)
	Update(ctx context.Context, id string, params repository.UpdateReportExportParams) error
	ListPending(ctx context.Context, limit int) ([]models.ReportExport, error)
	ListExpired(ctx context.Context, now, cutoff time.Time, limit int) ([]models.ReportExport, error)
	Delete(ctx context.Context, id string) error
}

type jobDispatcher interface {
	Enqueue(ctx context.Context, job jobs.Job) error
}

// CreateExportRequest asks for an attendance report to be rendered in the background.
type CreateExportRequest struct {
	StartDate time.Time           `json:"start_date" validate:"required"`
	EndDate   time.Time           `json:"end_date" validate:"required"`
	Format    models.ReportFormat `json:"format" validate:"required,oneof=csv pdf"`
}

// ReportServiceConfig governs export retention.
type ReportServiceConfig struct {
	ResultTTL       time.Duration
	CleanupInterval time.Duration
}

// ReportDownload is a resolved export ready to stream.
type ReportDownload struct {
	File      io.ReadCloser
	Filename  string
	Format    models.ReportFormat
	ExpiresAt time.Time
}

// ReportService tracks background attendance exports. Export records are persisted so status,
// listings and signed downloads survive restarts and work across replicas.
type ReportService struct {
	store    reportStore
	source   reportSource
	exporter *ExportService
	queue    jobDispatcher
	logger   *zap.Logger
	cfg      ReportServiceConfig
	now      func() time.Time
}

// NewReportService constructs the report service. Attach a queue with UseQueue before creating exports.
func NewReportService(store reportStore, source reportSource, exporter *ExportService, logger *zap.Logger, cfg ReportServiceConfig) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	return &ReportService{
		store:    store,
		source:   source,
		exporter: exporter,
		logger:   logger,
		cfg:      cfg,
		now:      time.Now,
	}
}

// UseQueue sets the dispatcher export jobs are sent to.
func (s *ReportService) UseQueue(queue jobDispatcher) {
	s.queue = queue
}

// CreateExport registers an export and queues it for rendering.
func (s *ReportService) CreateExport(ctx context.Context, caller *models.Caller, req CreateExportRequest) (*models.ReportExport, error) {
	if err := authz.Check(caller, authz.AttendanceReport); err != nil {
		return nil, err
	}
	if req.Format != models.ReportFormatCSV && req.Format != models.ReportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() || !req.StartDate.Before(req.EndDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start date must be before end date")
	}
	if s.queue == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "report exports are disabled")
	}

	record := &models.ReportExport{
		ID:        uuid.NewString(),
		Format:    req.Format,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Status:    models.ReportStatusQueued,
		CreatedBy: caller.UserID,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.Create(ctx, record); err != nil {
		return nil, appErrors.Internal(err, "failed to create report export")
	}

	if err := s.queue.Enqueue(ctx, jobs.Job{ID: record.ID, Kind: JobKindAttendanceReport, Payload: *caller}); err != nil {
		s.fail(ctx, record.ID, "failed to enqueue export")
		return nil, appErrors.Internal(err, "failed to enqueue report export")
	}
	return record, nil
}

// GetExport returns the export's current status. Teachers only see their own exports.
func (s *ReportService) GetExport(ctx context.Context, caller *models.Caller, id string) (*models.ReportExport, error) {
	if err := authz.Check(caller, authz.ReportDownload); err != nil {
		return nil, err
	}
	if err := requireID("export id", id); err != nil {
		return nil, err
	}
	record, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.CreatedBy != caller.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "export belongs to another user")
	}
	return record, nil
}

// ResolveDownload validates the signed token and opens the stored file.
func (s *ReportService) ResolveDownload(ctx context.Context, caller *models.Caller, token string) (*ReportDownload, error) {
	if err := authz.Check(caller, authz.ReportDownload); err != nil {
		return nil, err
	}
	parsed, err := s.exporter.ParseToken(token, false)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "invalid or expired download token")
	}
	record, err := s.load(ctx, parsed.ExportID)
	if err != nil {
		return nil, err
	}
	if record.Status != models.ReportStatusFinished || record.FilePath != parsed.Path {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "export not ready")
	}
	file, err := s.exporter.Open(parsed.Path)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to open export file")
	}
	return &ReportDownload{
		File:      file,
		Filename:  path.Base(parsed.Path),
		Format:    record.Format,
		ExpiresAt: parsed.ExpiresAt,
	}, nil
}

// Process is the queue handler that renders and stores one export.
func (s *ReportService) Process(ctx context.Context, job jobs.Job) error {
	caller, ok := job.Payload.(models.Caller)
	if !ok {
		s.fail(ctx, job.ID, "malformed export job")
		return nil
	}
	record, err := s.store.FindByID(ctx, job.ID)
	if err != nil {
		if isNoRows(err) {
			return nil
		}
		return err
	}
	processing := models.ReportStatusProcessing
	if err := s.store.Update(ctx, job.ID, repository.UpdateReportExportParams{Status: &processing}); err != nil {
		return err
	}

	report, err := s.source.GetReport(ctx, &caller, record.StartDate, record.EndDate)
	if err != nil {
		return err
	}
	result, err := s.exporter.Store(record.ID, report, record.Format)
	if err != nil {
		return err
	}
	finished := s.now().UTC()
	status := models.ReportStatusFinished
	if err := s.store.Update(ctx, job.ID, repository.UpdateReportExportParams{
		Status:      &status,
		FilePath:    &result.RelativePath,
		DownloadURL: &result.URL,
		ExpiresAt:   &result.ExpiresAt,
		FinishedAt:  &finished,
		ClearError:  true,
	}); err != nil {
		return err
	}
	s.logger.Info("report export finished", zap.String("export_id", job.ID), zap.Int("rows", len(report.Rows)))
	return nil
}

// MarkExhausted records a job that failed on every attempt. It matches jobs.ExhaustedFunc.
func (s *ReportService) MarkExhausted(job jobs.Job, err error) {
	s.logger.Warn("report export failed", zap.String("export_id", job.ID), zap.Int("attempt", job.Attempt), zap.Error(err))
	s.fail(context.Background(), job.ID, appErrors.FromError(err).Message)
}

// Recover queues exports left unfinished by a previous process. The creator's role at request
// time is not stored; only teachers can create exports, so jobs run as a teacher.
func (s *ReportService) Recover(ctx context.Context) (int, error) {
	if s.queue == nil {
		return 0, nil
	}
	pending, err := s.store.ListPending(ctx, 100)
	if err != nil {
		return 0, err
	}
	for _, record := range pending {
		owner := models.Caller{UserID: record.CreatedBy, Role: models.RoleTeacher}
		if err := s.queue.Enqueue(ctx, jobs.Job{ID: record.ID, Kind: JobKindAttendanceReport, Payload: owner}); err != nil {
			return 0, err
		}
	}
	if len(pending) > 0 {
		s.logger.Info("requeued unfinished report exports", zap.Int("count", len(pending)))
	}
	return len(pending), nil
}

// List returns the caller's exports, newest first.
func (s *ReportService) List(ctx context.Context, caller *models.Caller) ([]models.ReportExport, error) {
	if err := authz.Check(caller, authz.ReportDownload); err != nil {
		return nil, err
	}
	records, err := s.store.ListByCreator(ctx, caller.UserID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list report exports")
	}
	return records, nil
}

// StartCleanup purges expired exports every CleanupInterval until ctx is done.
func (s *ReportService) StartCleanup(ctx context.Context) {
	if s.cfg.CleanupInterval <= 0 {
		return
	}
	ticker := time.NewTicker(s.cfg.CleanupInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.CleanupExpired(ctx)
			}
		}
	}()
}

// CleanupExpired drops export records past their expiry together with their files.
func (s *ReportService) CleanupExpired(ctx context.Context) int {
	now := s.now().UTC()
	expired, err := s.store.ListExpired(ctx, now, now.Add(-s.cfg.ResultTTL), 100)
	if err != nil {
		s.logger.Warn("list expired exports failed", zap.Error(err))
		return 0
	}

	removed := 0
	for _, record := range expired {
		if record.FilePath != "" {
			if err := s.exporter.Delete(record.FilePath); err != nil {
				s.logger.Warn("cleanup delete failed", zap.String("export_id", record.ID), zap.Error(err))
			}
		}
		if err := s.store.Delete(ctx, record.ID); err != nil {
			s.logger.Warn("cleanup record delete failed", zap.String("export_id", record.ID), zap.Error(err))
			continue
		}
		removed++
	}
	if _, err := s.exporter.Cleanup(s.cfg.ResultTTL); err != nil {
		s.logger.Warn("filesystem cleanup failed", zap.Error(err))
	}
	return removed
}

func (s *ReportService) load(ctx context.Context, id string) (*models.ReportExport, error) {
	record, err := s.store.FindByID(ctx, id)
	if err != nil {
		if isNoRows(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "export not found")
		}
		return nil, appErrors.Internal(err, "failed to load report export")
	}
	return record, nil
}

func (s *ReportService) fail(ctx context.Context, id, message string) {
	finished := s.now().UTC()
	status := models.ReportStatusFailed
	if err := s.store.Update(ctx, id, repository.UpdateReportExportParams{
		Status:       &status,
		ErrorMessage: &message,
		FinishedAt:   &finished,
	}); err != nil {
		s.logger.Warn("mark export failed", zap.String("export_id", id), zap.Error(err))
	}
}
