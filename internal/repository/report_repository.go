package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/mun-club-api/internal/models"
)

const reportExportColumns = `id, format, start_date, end_date, status, created_by, created_at, finished_at, file_path, download_url, expires_at, error_message`

// ReportRepository persists background attendance export records.
type ReportRepository struct {
	db *sqlx.DB
	sb squirrel.StatementBuilderType
}

// NewReportRepository constructs the repository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db, sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)}
}

// Create inserts a new export row with generated defaults.
func (r *ReportRepository) Create(ctx context.Context, record *models.ReportExport) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.Status == "" {
		record.Status = models.ReportStatusQueued
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO report_exports (` + reportExportColumns + `)
VALUES (:id, :format, :start_date, :end_date, :status, :created_by, :created_at, :finished_at, :file_path, :download_url, :expires_at, :error_message)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("create report export: %w", err)
	}
	return nil
}

// FindByID returns an export. Missing rows surface as sql.ErrNoRows.
func (r *ReportRepository) FindByID(ctx context.Context, id string) (*models.ReportExport, error) {
	const query = `SELECT ` + reportExportColumns + ` FROM report_exports WHERE id = $1`
	var record models.ReportExport
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		return nil, err
	}
	return &record, nil
}

// ListByCreator returns a user's exports, newest first.
func (r *ReportRepository) ListByCreator(ctx context.Context, userID string) ([]models.ReportExport, error) {
	const query = `SELECT ` + reportExportColumns + ` FROM report_exports WHERE created_by = $1 ORDER BY created_at DESC, id ASC`
	records := make([]models.ReportExport, 0)
	if err := r.db.SelectContext(ctx, &records, query, userID); err != nil {
		return nil, fmt.Errorf("list report exports: %w", err)
	}
	return records, nil
}

// UpdateReportExportParams defines the mutable fields. Nil fields are left unchanged.
type UpdateReportExportParams struct {
	Status       *models.ReportStatus
	FilePath     *string
	DownloadURL  *string
	ExpiresAt    *time.Time
	ErrorMessage *string
	FinishedAt   *time.Time
	// ClearError resets error_message to NULL when ErrorMessage is nil.
	ClearError bool
}

// Update persists the provided changes for an export row.
func (r *ReportRepository) Update(ctx context.Context, id string, params UpdateReportExportParams) error {
	set := map[string]interface{}{}
	if params.Status != nil {
		set["status"] = *params.Status
	}
	if params.FilePath != nil {
		set["file_path"] = *params.FilePath
	}
	if params.DownloadURL != nil {
		set["download_url"] = *params.DownloadURL
	}
	if params.ExpiresAt != nil {
		set["expires_at"] = *params.ExpiresAt
	}
	if params.ErrorMessage != nil {
		set["error_message"] = *params.ErrorMessage
	} else if params.ClearError {
		set["error_message"] = nil
	}
	if params.FinishedAt != nil {
		set["finished_at"] = *params.FinishedAt
	}
	if len(set) == 0 {
		return nil
	}

	query, args, err := r.sb.Update("report_exports").SetMap(set).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build report export update: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update report export: %w", err)
	}
	return nil
}

// ListPending fetches exports that never finished, oldest first. Used for cold start recovery.
func (r *ReportRepository) ListPending(ctx context.Context, limit int) ([]models.ReportExport, error) {
	if limit <= 0 {
		limit = 20
	}
	const query = `SELECT ` + reportExportColumns + ` FROM report_exports
WHERE status IN ('QUEUED', 'PROCESSING') ORDER BY created_at ASC LIMIT $1`
	records := make([]models.ReportExport, 0)
	if err := r.db.SelectContext(ctx, &records, query, limit); err != nil {
		return nil, fmt.Errorf("list pending report exports: %w", err)
	}
	return records, nil
}

// ListExpired returns exports whose download link lapsed before now, plus finished or failed
// exports without a link created before cutoff.
func (r *ReportRepository) ListExpired(ctx context.Context, now, cutoff time.Time, limit int) ([]models.ReportExport, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `SELECT ` + reportExportColumns + ` FROM report_exports
WHERE (expires_at IS NOT NULL AND expires_at < $1)
   OR (expires_at IS NULL AND status IN ('FINISHED', 'FAILED') AND created_at < $2)
ORDER BY created_at ASC LIMIT $3`
	records := make([]models.ReportExport, 0)
	if err := r.db.SelectContext(ctx, &records, query, now, cutoff, limit); err != nil {
		return nil, fmt.Errorf("list expired report exports: %w", err)
	}
	return records, nil
}

// Delete removes an export row.
func (r *ReportRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM report_exports WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete report export: %w", err)
	}
	return nil
}
