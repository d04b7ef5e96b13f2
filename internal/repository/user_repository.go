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

var userColumns = []string{"u.id", "u.name", "u.email", "u.image", "u.role", "u.created_at", "u.updated_at"}

const userAttendanceAgg = `COALESCE(ARRAY_AGG(a.lesson_id::text ORDER BY a.lesson_id) FILTER (WHERE a.lesson_id IS NOT NULL), '{}') AS attendance`

// UserRepository provides database access for club members.
type UserRepository struct {
	db *sqlx.DB
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db, sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)}
}

func (r *UserRepository) withAttendance() squirrel.SelectBuilder {
	return r.sb.Select(userColumns...).
		Column(userAttendanceAgg).
		From("users u").
		LeftJoin("lesson_attendance a ON a.user_id = u.id").
		GroupBy("u.id")
}

// List returns users ordered by name, optionally restricted to roles.
func (r *UserRepository) List(ctx context.Context, filter models.UserFilter) ([]models.User, error) {
	builder := r.withAttendance().OrderBy("u.name ASC", "u.id ASC")
	if len(filter.Roles) > 0 {
		roles := make([]string, len(filter.Roles))
		for i, role := range filter.Roles {
			roles[i] = string(role)
		}
		builder = builder.Where(squirrel.Eq{"u.role": roles})
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list users: %w", err)
	}
	users := make([]models.User, 0)
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// FindByID returns a user with attended lesson ids. Missing rows surface as sql.ErrNoRows.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	query, args, err := r.withAttendance().Where(squirrel.Eq{"u.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find user: %w", err)
	}
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, args...); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByIDs returns the users matching ids without attendance. Unknown ids are skipped.
func (r *UserRepository) FindByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	users := make([]models.User, 0, len(ids))
	if len(ids) == 0 {
		return users, nil
	}
	query, args, err := r.sb.Select(userColumns...).
		From("users u").
		Where(squirrel.Eq{"u.id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find users: %w", err)
	}
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	return users, nil
}

// UpdateRole changes a user's role. When clearAttendance is set the user's attendance rows are
// removed in the same transaction.
func (r *UserRepository) UpdateRole(ctx context.Context, id string, role models.UserRole, clearAttendance bool) error {
	return database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if clearAttendance {
			if _, err := tx.ExecContext(ctx, `DELETE FROM lesson_attendance WHERE user_id = $1`, id); err != nil {
				return fmt.Errorf("clear user attendance: %w", err)
			}
		}
		const query = `UPDATE users SET role = $2, updated_at = $3 WHERE id = $1`
		if _, err := tx.ExecContext(ctx, query, id, role, time.Now().UTC()); err != nil {
			return fmt.Errorf("update user role: %w", err)
		}
		return nil
	})
}

// Delete removes the user with its attendance rows and delegation memberships.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	return database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM lesson_attendance WHERE user_id = $1`, id); err != nil {
			return fmt.Errorf("delete user attendance: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM country_members WHERE user_id = $1`, id); err != nil {
			return fmt.Errorf("delete user memberships: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})
}

// CreateAuditLog stores an audit record.
func (r *UserRepository) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO audit_logs (id, user_id, action, resource, resource_id, old_values, new_values, ip_address, user_agent, created_at) VALUES (:id, :user_id, :action, :resource, :resource_id, :old_values, :new_values, :ip_address, :user_agent, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, log); err != nil {
		return fmt.Errorf("create audit log: %w", err)
	}
	return nil
}
