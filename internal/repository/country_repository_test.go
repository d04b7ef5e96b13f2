package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mun-club-api/internal/models"
)

func TestCountryRepositoryCreateWithRoster(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCountryRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO countries").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO country_members \(country_id,topic_id,user_id,joined_at\) VALUES \(\$1,\$2,\$3,\$4\),\(\$5,\$6,\$7,\$8\)`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	country := &models.Country{Name: "France", Position: models.PositionFor, TopicID: "t1", StudentIDs: []string{"u1", "u2"}}
	require.NoError(t, repo.Create(context.Background(), country))
	assert.NotEmpty(t, country.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountryRepositoryUpdateKeepsRoster(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCountryRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE countries SET name").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Update(context.Background(), &models.Country{ID: "c1", Name: "Chad", Position: models.PositionNeutral}, false))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountryRepositoryFindByMember(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCountryRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "name", "position", "topic_id", "created_at", "updated_at", "student_ids"}).
		AddRow("c1", "France", "FOR", "t1", now, now, "{u1}")
	mock.ExpectQuery(`WHERE c.topic_id = \$1 AND EXISTS \(SELECT 1 FROM country_members x WHERE x.country_id = c.id AND x.user_id = \$2\)`).
		WithArgs("t1", "u1").
		WillReturnRows(rows)

	country, err := repo.FindByMember(context.Background(), "t1", "u1")
	require.NoError(t, err)
	assert.True(t, country.HasMember("u1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountryRepositoryMemberships(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCountryRepository(db)

	mock.ExpectQuery(`SELECT user_id, country_id FROM country_members WHERE topic_id = \$1 AND user_id IN \(\$2,\$3\)`).
		WithArgs("t1", "u1", "u2").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "country_id"}).AddRow("u2", "c9"))

	memberships, err := repo.Memberships(context.Background(), "t1", []string{"u1", "u2"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"u2": "c9"}, memberships)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountryRepositoryAddMemberIgnoresDuplicate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCountryRepository(db)

	mock.ExpectExec(`ON CONFLICT \(country_id, user_id\) DO NOTHING`).
		WithArgs("c1", "t1", "u1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.AddMember(context.Background(), "c1", "t1", "u1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
