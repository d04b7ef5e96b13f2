package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mun-club-api/internal/models"
	appErrors "github.com/noah-isme/mun-club-api/pkg/errors"
)

var testMeta = models.RequestMeta{IP: "127.0.0.1", UserAgent: "go-test"}

func TestUserServiceGetAllFiltersByRole(t *testing.T) {
	svc := NewUserService(memUsers{seededStore()}, nil, nil)
	ctx := context.Background()

	all, err := svc.GetAll(ctx, teacherCaller, models.UserFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	students, err := svc.GetAll(ctx, teacherCaller, models.UserFilter{Roles: []models.UserRole{models.RoleStudent}})
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, "Ada Lovelace", students[0].Name)

	_, err = svc.GetAll(ctx, teacherCaller, models.UserFilter{Roles: []models.UserRole{"ADMIN"}})
	require.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.GetAll(ctx, secGenCaller, models.UserFilter{})
	require.ErrorIs(t, err, appErrors.ErrForbidden)
}

func TestUserServicePromotionToTeacherClearsAttendance(t *testing.T) {
	store := seededStore()
	topic := store.addTopic("Climate")
	lesson := store.addLesson(topic.ID, time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC), studentAID, studentBID)
	svc := NewUserService(memUsers{store}, nil, nil)
	ctx := context.Background()

	promoted, err := svc.UpdateRole(ctx, teacherCaller, studentAID, UpdateRoleRequest{Role: models.RoleTeacher}, testMeta)
	require.NoError(t, err)
	assert.Equal(t, models.RoleTeacher, promoted.Role)
	assert.Empty(t, promoted.Attendance)
	assert.Equal(t, map[string]bool{studentBID: true}, store.attendance[lesson.ID])

	require.Len(t, store.audits, 1)
	audit := store.audits[0]
	assert.Equal(t, models.AuditActionUserRoleUpdate, audit.Action)
	require.NotNil(t, audit.UserID)
	assert.Equal(t, teacherID, *audit.UserID)
	var oldValues map[string]string
	require.NoError(t, json.Unmarshal(audit.OldValues, &oldValues))
	assert.Equal(t, "STUDENT", oldValues["role"])

	secGen, err := svc.UpdateRole(ctx, teacherCaller, studentBID, UpdateRoleRequest{Role: models.RoleSecretaryGeneral}, testMeta)
	require.NoError(t, err)
	assert.Equal(t, []string{lesson.ID}, []string(secGen.Attendance), "tracked roles keep attendance")
}

func TestUserServiceUpdateRoleErrors(t *testing.T) {
	svc := NewUserService(memUsers{seededStore()}, nil, nil)
	ctx := context.Background()

	_, err := svc.UpdateRole(ctx, teacherCaller, studentAID, UpdateRoleRequest{Role: "OWNER"}, testMeta)
	require.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.UpdateRole(ctx, teacherCaller, unknownID, UpdateRoleRequest{Role: models.RoleStudent}, testMeta)
	require.ErrorIs(t, err, appErrors.ErrUserNotFound)

	_, err = svc.UpdateRole(ctx, secGenCaller, studentAID, UpdateRoleRequest{Role: models.RoleTeacher}, testMeta)
	require.ErrorIs(t, err, appErrors.ErrForbidden)
}

func TestUserServiceDeleteCascades(t *testing.T) {
	store := seededStore()
	topic := store.addTopic("Climate")
	lesson := store.addLesson(topic.ID, time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC), studentAID)
	countries := newCountryServiceForTest(store)
	ctx := context.Background()
	france, err := countries.Create(ctx, teacherCaller, CreateCountryRequest{Name: "France", Position: models.PositionFor, TopicID: topic.ID, StudentIDs: []string{studentAID, studentBID}})
	require.NoError(t, err)

	svc := NewUserService(memUsers{store}, nil, nil)
	deleted, err := svc.Delete(ctx, teacherCaller, studentAID, testMeta)
	require.NoError(t, err)
	assert.Equal(t, []string{lesson.ID}, []string(deleted.Attendance))

	lessonView, err := memLessons{store}.FindByID(ctx, lesson.ID)
	require.NoError(t, err)
	assert.Empty(t, lessonView.Attendance)

	country, err := countries.GetByID(ctx, teacherCaller, france.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{studentBID}, []string(country.StudentIDs))

	require.Len(t, store.audits, 1)
	assert.Equal(t, models.AuditActionUserDelete, store.audits[0].Action)

	_, err = svc.Delete(ctx, teacherCaller, studentAID, testMeta)
	require.ErrorIs(t, err, appErrors.ErrUserNotFound)
}
