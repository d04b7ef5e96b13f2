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

var countryColumns = []string{"c.id", "c.name", "c.position", "c.topic_id", "c.created_at", "c.updated_at"}

const countryMembersAgg = `COALESCE(ARRAY_AGG(m.user_id::text ORDER BY m.joined_at, m.user_id) FILTER (WHERE m.user_id IS NOT NULL), '{}') AS student_ids`

// ConstraintCountryMemberTopic is the unique (topic_id, user_id) constraint on country_members.
const ConstraintCountryMemberTopic = "country_members_topic_user_key"

// CountryRepository persists delegations and their rosters.
type CountryRepository struct {
	db *sqlx.DB
	sb squirrel.StatementBuilderType
}

// NewCountryRepository creates a new repository instance.
func NewCountryRepository(db *sqlx.DB) *CountryRepository {
	return &CountryRepository{db: db, sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)}
}

func (r *CountryRepository) withMembers() squirrel.SelectBuilder {
	return r.sb.Select(countryColumns...).
		Column(countryMembersAgg).
		From("countries c").
		LeftJoin("country_members m ON m.country_id = c.id").
		GroupBy("c.id")
}

// ListByTopic returns the topic's countries ordered by name.
func (r *CountryRepository) ListByTopic(ctx context.Context, topicID string) ([]models.Country, error) {
	query, args, err := r.withMembers().
		Where(squirrel.Eq{"c.topic_id": topicID}).
		OrderBy("c.name ASC", "c.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list countries: %w", err)
	}
	countries := make([]models.Country, 0)
	if err := r.db.SelectContext(ctx, &countries, query, args...); err != nil {
		return nil, fmt.Errorf("list countries: %w", err)
	}
	return countries, nil
}

// FindByID returns a country with its roster. Missing rows surface as sql.ErrNoRows.
func (r *CountryRepository) FindByID(ctx context.Context, id string) (*models.Country, error) {
	query, args, err := r.withMembers().Where(squirrel.Eq{"c.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find country: %w", err)
	}
	var country models.Country
	if err := r.db.GetContext(ctx, &country, query, args...); err != nil {
		return nil, err
	}
	return &country, nil
}

// FindByMember returns the country within the topic that lists userID. Missing rows surface as sql.ErrNoRows.
func (r *CountryRepository) FindByMember(ctx context.Context, topicID, userID string) (*models.Country, error) {
	query, args, err := r.withMembers().
		Where(squirrel.Eq{"c.topic_id": topicID}).
		Where(squirrel.Expr("EXISTS (SELECT 1 FROM country_members x WHERE x.country_id = c.id AND x.user_id = ?)", userID)).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find country by member: %w", err)
	}
	var country models.Country
	if err := r.db.GetContext(ctx, &country, query, args...); err != nil {
		return nil, err
	}
	return &country, nil
}

// Memberships maps each of userIDs that already belongs to a country of the topic to that country's id.
func (r *CountryRepository) Memberships(ctx context.Context, topicID string, userIDs []string) (map[string]string, error) {
	result := make(map[string]string)
	if len(userIDs) == 0 {
		return result, nil
	}
	query, args, err := r.sb.Select("user_id", "country_id").
		From("country_members").
		Where(squirrel.Eq{"topic_id": topicID, "user_id": userIDs}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build memberships: %w", err)
	}
	var rows []struct {
		UserID    string `db:"user_id"`
		CountryID string `db:"country_id"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	for _, row := range rows {
		result[row.UserID] = row.CountryID
	}
	return result, nil
}

// Create inserts the country and its initial roster in one transaction.
func (r *CountryRepository) Create(ctx context.Context, country *models.Country) error {
	if country.ID == "" {
		country.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if country.CreatedAt.IsZero() {
		country.CreatedAt = now
	}
	country.UpdatedAt = now

	return database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		const query = `INSERT INTO countries (id, name, position, topic_id, created_at, updated_at) VALUES (:id, :name, :position, :topic_id, :created_at, :updated_at)`
		if _, err := tx.NamedExecContext(ctx, query, country); err != nil {
			return fmt.Errorf("create country: %w", err)
		}
		return insertMembers(ctx, tx, country.ID, country.TopicID, country.StudentIDs, now)
	})
}

// Update writes name and position. When replaceRoster is set the roster is replaced with country.StudentIDs.
func (r *CountryRepository) Update(ctx context.Context, country *models.Country, replaceRoster bool) error {
	now := time.Now().UTC()
	country.UpdatedAt = now
	return database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		const query = `UPDATE countries SET name = :name, position = :position, updated_at = :updated_at WHERE id = :id`
		if _, err := tx.NamedExecContext(ctx, query, country); err != nil {
			return fmt.Errorf("update country: %w", err)
		}
		if !replaceRoster {
			return nil
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM country_members WHERE country_id = $1`, country.ID); err != nil {
			return fmt.Errorf("clear country members: %w", err)
		}
		return insertMembers(ctx, tx, country.ID, country.TopicID, country.StudentIDs, now)
	})
}

// Delete removes the country. Memberships and documents cascade.
func (r *CountryRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM countries WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete country: %w", err)
	}
	return nil
}

// AddMember puts userID on the roster. Re-adding an existing member is a no-op; membership in another
// country of the same topic fails with a unique violation on ConstraintCountryMemberTopic.
func (r *CountryRepository) AddMember(ctx context.Context, countryID, topicID, userID string) error {
	const query = `INSERT INTO country_members (country_id, topic_id, user_id, joined_at) VALUES ($1, $2, $3, $4) ON CONFLICT (country_id, user_id) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, countryID, topicID, userID, time.Now().UTC()); err != nil {
		return fmt.Errorf("add country member: %w", err)
	}
	return nil
}

// RemoveMember takes userID off the roster.
func (r *CountryRepository) RemoveMember(ctx context.Context, countryID, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM country_members WHERE country_id = $1 AND user_id = $2`, countryID, userID); err != nil {
		return fmt.Errorf("remove country member: %w", err)
	}
	return nil
}

func insertMembers(ctx context.Context, tx *sqlx.Tx, countryID, topicID string, userIDs []string, joinedAt time.Time) error {
	if len(userIDs) == 0 {
		return nil
	}
	builder := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Insert("country_members").
		Columns("country_id", "topic_id", "user_id", "joined_at")
	for _, id := range userIDs {
		builder = builder.Values(countryID, topicID, id, joinedAt)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("build insert members: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert country members: %w", err)
	}
	return nil
}
