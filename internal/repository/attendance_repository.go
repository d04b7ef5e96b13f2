package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/mun-club-api/internal/models"
	"github.com/noah-isme/mun-club-api/pkg/database"
)

// AttendanceRepository maintains the lesson_attendance ledger.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository creates a new repository instance.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// Mark records the user as present. Marking twice is a no-op.
func (r *AttendanceRepository) Mark(ctx context.Context, lessonID, userID string, markedBy *string) error {
	const query = `INSERT INTO lesson_attendance (lesson_id, user_id, marked_by, marked_at) VALUES ($1, $2, $3, $4) ON CONFLICT (lesson_id, user_id) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, lessonID, userID, markedBy, time.Now().UTC()); err != nil {
		return fmt.Errorf("mark attendance: %w", err)
	}
	return nil
}

// Unmark removes the user's presence. Removing an absent mark is a no-op.
func (r *AttendanceRepository) Unmark(ctx context.Context, lessonID, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM lesson_attendance WHERE lesson_id = $1 AND user_id = $2`, lessonID, userID); err != nil {
		return fmt.Errorf("unmark attendance: %w", err)
	}
	return nil
}

// Replace sets the lesson's present set to exactly userIDs in one transaction.
func (r *AttendanceRepository) Replace(ctx context.Context, lessonID string, userIDs []string, markedBy *string) error {
	now := time.Now().UTC()
	return database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM lesson_attendance WHERE lesson_id = $1`, lessonID); err != nil {
			return fmt.Errorf("clear lesson attendance: %w", err)
		}
		if len(userIDs) == 0 {
			return nil
		}
		rows := make([]models.AttendanceMark, 0, len(userIDs))
		for _, id := range userIDs {
			rows = append(rows, models.AttendanceMark{LessonID: lessonID, UserID: id, MarkedBy: markedBy, MarkedAt: now})
		}
		const query = `INSERT INTO lesson_attendance (lesson_id, user_id, marked_by, marked_at) VALUES (:lesson_id, :user_id, :marked_by, :marked_at)`
		if _, err := tx.NamedExecContext(ctx, query, rows); err != nil {
			return fmt.Errorf("insert lesson attendance: %w", err)
		}
		return nil
	})
}
