package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/mun-club-api/internal/models"
	"github.com/noah-isme/mun-club-api/pkg/database"
)

var lessonColumns = []string{"l.id", "l.location", "l.date", "l.date_key", "l.topic_id", "l.created_at", "l.updated_at"}

const lessonAttendanceAgg = `COALESCE(ARRAY_AGG(a.user_id::text ORDER BY a.user_id) FILTER (WHERE a.user_id IS NOT NULL), '{}') AS attendance`

// LessonRepository persists lessons. Attendance is read from lesson_attendance.
type LessonRepository struct {
	db *sqlx.DB
	sb squirrel.StatementBuilderType
}

// NewLessonRepository creates a new repository instance.
func NewLessonRepository(db *sqlx.DB) *LessonRepository {
	return &LessonRepository{db: db, sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)}
}

func (r *LessonRepository) withAttendance() squirrel.SelectBuilder {
	return r.sb.Select(lessonColumns...).
		Column(lessonAttendanceAgg).
		From("lessons l").
		LeftJoin("lesson_attendance a ON a.lesson_id = l.id").
		GroupBy("l.id")
}

// List returns lessons ordered by date without attendance.
func (r *LessonRepository) List(ctx context.Context, order models.SortOrder) ([]models.Lesson, error) {
	direction := "DESC"
	if order == models.SortAsc {
		direction = "ASC"
	}
	query, args, err := r.sb.Select(lessonColumns...).
		From("lessons l").
		OrderBy("l.date " + direction).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list lessons: %w", err)
	}
	lessons := make([]models.Lesson, 0)
	if err := r.db.SelectContext(ctx, &lessons, query, args...); err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	return lessons, nil
}

// FindByID returns a lesson with its attendee ids. Missing rows surface as sql.ErrNoRows.
func (r *LessonRepository) FindByID(ctx context.Context, id string) (*models.Lesson, error) {
	query, args, err := r.withAttendance().Where(squirrel.Eq{"l.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find lesson: %w", err)
	}
	var lesson models.Lesson
	if err := r.db.GetContext(ctx, &lesson, query, args...); err != nil {
		return nil, err
	}
	return &lesson, nil
}

// FindByDateKey returns the lesson scheduled on the calendar day key.
func (r *LessonRepository) FindByDateKey(ctx context.Context, key string) (*models.Lesson, error) {
	query, args, err := r.sb.Select(lessonColumns...).
		From("lessons l").
		Where(squirrel.Eq{"l.date_key": key}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find lesson by date: %w", err)
	}
	var lesson models.Lesson
	if err := r.db.GetContext(ctx, &lesson, query, args...); err != nil {
		return nil, err
	}
	return &lesson, nil
}

// ListInRange returns lessons with from <= date < to, oldest first, including attendance.
func (r *LessonRepository) ListInRange(ctx context.Context, from, to time.Time) ([]models.Lesson, error) {
	query, args, err := r.withAttendance().
		Where(squirrel.GtOrEq{"l.date": from}).
		Where(squirrel.Lt{"l.date": to}).
		OrderBy("l.date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build lessons in range: %w", err)
	}
	lessons := make([]models.Lesson, 0)
	if err := r.db.SelectContext(ctx, &lessons, query, args...); err != nil {
		return nil, fmt.Errorf("list lessons in range: %w", err)
	}
	return lessons, nil
}

// Create persists a new lesson.
func (r *LessonRepository) Create(ctx context.Context, lesson *models.Lesson) error {
	if lesson.ID == "" {
		lesson.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if lesson.CreatedAt.IsZero() {
		lesson.CreatedAt = now
	}
	lesson.UpdatedAt = now

	const query = `INSERT INTO lessons (id, location, date, date_key, topic_id, created_at, updated_at) VALUES (:id, :location, :date, :date_key, :topic_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, lesson); err != nil {
		return fmt.Errorf("create lesson: %w", err)
	}
	return nil
}

// Update replaces the lesson's schedule fields.
func (r *LessonRepository) Update(ctx context.Context, lesson *models.Lesson) error {
	lesson.UpdatedAt = time.Now().UTC()
	const query = `UPDATE lessons SET location = :location, date = :date, date_key = :date_key, topic_id = :topic_id, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, lesson); err != nil {
		return fmt.Errorf("update lesson: %w", err)
	}
	return nil
}

// Delete removes the lesson and its attendance rows in one transaction.
func (r *LessonRepository) Delete(ctx context.Context, id string) error {
	return database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM lesson_attendance WHERE lesson_id = $1`, id); err != nil {
			return fmt.Errorf("delete lesson attendance: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM lessons WHERE id = $1`, id); err != nil {
			return fmt.Errorf("delete lesson: %w", err)
		}
		return nil
	})
}
