package service

import (
	"context"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mun-club-api/internal/models"
	appErrors "github.com/noah-isme/mun-club-api/pkg/errors"
)

func newLessonServiceForTest(store *memStore, metrics *MetricsService, loc *time.Location) *LessonService {
	return NewLessonService(memLessons{store}, memTopics{store}, nil, metrics, nil, nil, loc)
}

func TestLessonServiceCreateRejectsSameCalendarDay(t *testing.T) {
	store := seededStore()
	topic := store.addTopic("Disarmament")
	metrics := NewMetricsService()
	svc := newLessonServiceForTest(store, metrics, time.UTC)
	ctx := context.Background()

	lesson, err := svc.Create(ctx, secGenCaller, LessonRequest{Location: "Room 5", Date: time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC), TopicID: topic.ID})
	require.NoError(t, err)
	assert.Equal(t, "2024-04-01", lesson.DateKey)
	assert.Empty(t, lesson.Attendance)

	_, err = svc.Create(ctx, teacherCaller, LessonRequest{Location: "Hall", Date: time.Date(2024, 4, 1, 18, 30, 0, 0, time.UTC), TopicID: topic.ID})
	require.ErrorIs(t, err, appErrors.ErrDateConflict)
	assert.Equal(t, "Lesson already exists on date Mon Apr 01 2024", appErrors.FromError(err).Message)
	assert.Equal(t, uint64(1), metrics.Snapshot().DateConflicts)

	_, err = svc.Create(ctx, teacherCaller, LessonRequest{Location: "Hall", Date: time.Date(2024, 4, 2, 9, 0, 0, 0, time.UTC), TopicID: topic.ID})
	require.NoError(t, err)
}

func TestLessonServiceCalendarDayFollowsLessonZone(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	store := seededStore()
	topic := store.addTopic("Disarmament")
	svc := newLessonServiceForTest(store, nil, loc)
	ctx := context.Background()

	evening := time.Date(2024, 4, 1, 23, 0, 0, 0, loc)
	lesson, err := svc.Create(ctx, teacherCaller, LessonRequest{Location: "Room 5", Date: evening, TopicID: topic.ID})
	require.NoError(t, err)
	assert.Equal(t, "2024-04-01", lesson.DateKey, "UTC is already April 2 but the lesson zone is not")

	morning := time.Date(2024, 4, 1, 8, 0, 0, 0, loc)
	_, err = svc.Create(ctx, teacherCaller, LessonRequest{Location: "Room 6", Date: morning, TopicID: topic.ID})
	require.ErrorIs(t, err, appErrors.ErrDateConflict)
}

func TestLessonServiceCreateValidation(t *testing.T) {
	store := seededStore()
	topic := store.addTopic("Disarmament")
	svc := newLessonServiceForTest(store, nil, time.UTC)
	ctx := context.Background()
	date := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)

	_, err := svc.Create(ctx, teacherCaller, LessonRequest{Location: "  ", Date: date, TopicID: topic.ID})
	require.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Create(ctx, teacherCaller, LessonRequest{Location: "Room 5", Date: date, TopicID: "not-a-uuid"})
	require.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Create(ctx, teacherCaller, LessonRequest{Location: "Room 5", Date: date, TopicID: unknownID})
	require.ErrorIs(t, err, appErrors.ErrTopicNotFound)

	_, err = svc.Create(ctx, studentCaller, LessonRequest{Location: "Room 5", Date: date, TopicID: topic.ID})
	require.ErrorIs(t, err, appErrors.ErrForbidden)
}

func TestLessonServiceCreateMapsUniqueViolation(t *testing.T) {
	store := seededStore()
	topic := store.addTopic("Disarmament")
	store.lessonWriteErr = &pq.Error{Code: "23505", Constraint: "lessons_date_key_key"}
	svc := newLessonServiceForTest(store, nil, time.UTC)

	_, err := svc.Create(context.Background(), teacherCaller, LessonRequest{Location: "Room 5", Date: time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC), TopicID: topic.ID})
	require.ErrorIs(t, err, appErrors.ErrDateConflict)
	assert.Contains(t, err.Error(), "Sun Mar 10 2024")
}

func TestLessonServiceEditExcludesSelf(t *testing.T) {
	store := seededStore()
	topic := store.addTopic("Disarmament")
	other := store.addTopic("Trade")
	first := store.addLesson(topic.ID, time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC))
	store.addLesson(topic.ID, time.Date(2024, 4, 8, 9, 0, 0, 0, time.UTC))
	svc := newLessonServiceForTest(store, nil, time.UTC)
	ctx := context.Background()

	updated, err := svc.Edit(ctx, teacherCaller, first.ID, LessonRequest{Location: "Library", Date: first.Date, TopicID: other.ID})
	require.NoError(t, err)
	assert.Equal(t, "Library", updated.Location)
	assert.Equal(t, other.ID, updated.TopicID)

	moved, err := svc.Edit(ctx, teacherCaller, first.ID, LessonRequest{Location: "Library", Date: time.Date(2024, 4, 1, 15, 0, 0, 0, time.UTC), TopicID: other.ID})
	require.NoError(t, err, "moving within the same day only collides with itself")
	assert.Equal(t, "2024-04-01", moved.DateKey)

	_, err = svc.Edit(ctx, teacherCaller, first.ID, LessonRequest{Location: "Library", Date: time.Date(2024, 4, 8, 18, 0, 0, 0, time.UTC), TopicID: other.ID})
	require.ErrorIs(t, err, appErrors.ErrDateConflict)

	_, err = svc.Edit(ctx, teacherCaller, unknownID, LessonRequest{Location: "Library", Date: first.Date, TopicID: other.ID})
	require.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestLessonServiceGetByIDHidesAttendanceFromNonTeachers(t *testing.T) {
	store := seededStore()
	topic := store.addTopic("Disarmament")
	lesson := store.addLesson(topic.ID, time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC), studentAID)
	svc := newLessonServiceForTest(store, nil, time.UTC)
	ctx := context.Background()

	public, err := svc.GetByID(ctx, nil, lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, "Disarmament", public.Topic.Title)
	assert.Nil(t, public.Lesson.Attendance)

	detail, err := svc.GetByID(ctx, teacherCaller, lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{studentAID}, []string(detail.Lesson.Attendance))

	_, err = svc.GetByID(ctx, nil, unknownID)
	require.ErrorIs(t, err, appErrors.ErrLessonNotFound)

	delete(store.topics, topic.ID)
	_, err = svc.GetByID(ctx, nil, lesson.ID)
	require.ErrorIs(t, err, appErrors.ErrTopicNotFound)
}

func TestLessonServiceDeleteClearsBothSides(t *testing.T) {
	store := seededStore()
	topic := store.addTopic("Disarmament")
	lesson := store.addLesson(topic.ID, time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC), studentAID, studentBID)
	svc := newLessonServiceForTest(store, nil, time.UTC)
	users := memUsers{store}
	ctx := context.Background()

	before, err := users.FindByID(ctx, studentAID)
	require.NoError(t, err)
	assert.Contains(t, before.Attendance, lesson.ID)

	deleted, err := svc.Delete(ctx, teacherCaller, lesson.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{studentAID, studentBID}, deleted.Attendance)

	after, err := users.FindByID(ctx, studentAID)
	require.NoError(t, err)
	assert.NotContains(t, after.Attendance, lesson.ID)

	_, err = svc.Delete(ctx, teacherCaller, lesson.ID)
	require.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestLessonServiceGetAllOrders(t *testing.T) {
	store := seededStore()
	topic := store.addTopic("Disarmament")
	early := store.addLesson(topic.ID, time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	late := store.addLesson(topic.ID, time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC))
	svc := newLessonServiceForTest(store, nil, time.UTC)

	desc, _, err := svc.GetAll(context.Background(), nil, models.SortDesc)
	require.NoError(t, err)
	require.Len(t, desc, 2)
	assert.Equal(t, late.ID, desc[0].ID)

	asc, _, err := svc.GetAll(context.Background(), nil, models.SortAsc)
	require.NoError(t, err)
	assert.Equal(t, early.ID, asc[0].ID)
}

func TestParseOrder(t *testing.T) {
	order, err := ParseOrder("")
	require.NoError(t, err)
	assert.Equal(t, models.SortDesc, order)

	order, err = ParseOrder("ASC")
	require.NoError(t, err)
	assert.Equal(t, models.SortAsc, order)

	_, err = ParseOrder("sideways")
	require.ErrorIs(t, err, appErrors.ErrValidation)
}
