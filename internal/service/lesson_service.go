package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/mun-club-api/internal/authz"
	"github.com/noah-isme/mun-club-api/internal/models"
	"github.com/noah-isme/mun-club-api/pkg/database"
	appErrors "github.com/noah-isme/mun-club-api/pkg/errors"
	"github.com/noah-isme/mun-club-api/pkg/validation"
)

const constraintLessonDateKey = "lessons_date_key_key"

type lessonRepository interface {
	List(ctx context.Context, order models.SortOrder) ([]models.Lesson, error)
	FindByID(ctx context.Context, id string) (*models.Lesson, error)
	FindByDateKey(ctx context.Context, key string) (*models.Lesson, error)
	Create(ctx context.Context, lesson *models.Lesson) error
	Update(ctx context.Context, lesson *models.Lesson) error
	Delete(ctx context.Context, id string) error
}

type topicLookup interface {
	FindByID(ctx context.Context, id string) (*models.Topic, error)
}

// LessonRequest is the payload for scheduling or rescheduling a lesson.
type LessonRequest struct {
	Location string    `json:"location" validate:"notblank,max=200"`
	Date     time.Time `json:"date" validate:"required"`
	TopicID  string    `json:"topic_id" validate:"required,uuid"`
}

// LessonService schedules lessons. At most one lesson may fall on a calendar day in the lesson zone.
type LessonService struct {
	repo      lessonRepository
	topics    topicLookup
	cache     *CacheService
	metrics   *MetricsService
	validator *validation.Validator
	logger    *zap.Logger
	loc       *time.Location
}

// NewLessonService constructs a LessonService. A nil location uses the process local zone.
func NewLessonService(repo lessonRepository, topics topicLookup, cache *CacheService, metrics *MetricsService, v *validation.Validator, logger *zap.Logger, loc *time.Location) *LessonService {
	if v == nil {
		v = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}
	return &LessonService{repo: repo, topics: topics, cache: cache, metrics: metrics, validator: v, logger: logger, loc: loc}
}

// Location returns the zone lesson days are computed in.
func (s *LessonService) Location() *time.Location {
	return s.loc
}

// ParseOrder normalises a sort order query value. Empty means descending.
func ParseOrder(raw string) (models.SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", string(models.SortDesc):
		return models.SortDesc, nil
	case string(models.SortAsc):
		return models.SortAsc, nil
	}
	return "", appErrors.Clone(appErrors.ErrValidation, "order must be asc or desc")
}

// GetAll lists lessons by date without attendance.
func (s *LessonService) GetAll(ctx context.Context, caller *models.Caller, order models.SortOrder) ([]models.Lesson, bool, error) {
	if err := authz.Check(caller, authz.LessonGetAll); err != nil {
		return nil, false, err
	}
	if order != models.SortAsc {
		order = models.SortDesc
	}
	key := cacheKeyLessonsPrefix + string(order)
	var cached []models.Lesson
	if s.cache.Get(ctx, key, &cached) {
		return cached, true, nil
	}
	lessons, err := s.repo.List(ctx, order)
	if err != nil {
		return nil, false, appErrors.Internal(err, "failed to list lessons")
	}
	s.cache.Set(ctx, key, lessons, 0)
	return lessons, false, nil
}

// GetByID returns the lesson with its topic. Attendance is only included for callers allowed to read it.
func (s *LessonService) GetByID(ctx context.Context, caller *models.Caller, id string) (*models.LessonDetail, error) {
	if err := authz.Check(caller, authz.LessonGetByID); err != nil {
		return nil, err
	}
	if err := requireID("lesson id", id); err != nil {
		return nil, err
	}
	lesson, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if isNoRows(err) {
			return nil, appErrors.Clone(appErrors.ErrLessonNotFound, "lesson not found")
		}
		return nil, appErrors.Internal(err, "failed to load lesson")
	}
	topic, err := s.topics.FindByID(ctx, lesson.TopicID)
	if err != nil {
		if isNoRows(err) {
			return nil, appErrors.Clone(appErrors.ErrTopicNotFound, "topic not found")
		}
		return nil, appErrors.Internal(err, "failed to load topic")
	}
	if authz.Check(caller, authz.AttendanceGet) != nil {
		lesson.Attendance = nil
	}
	return &models.LessonDetail{Lesson: *lesson, Topic: *topic}, nil
}

// Create schedules a lesson on a free calendar day.
func (s *LessonService) Create(ctx context.Context, caller *models.Caller, req LessonRequest) (*models.Lesson, error) {
	if err := authz.Check(caller, authz.LessonCreate); err != nil {
		return nil, err
	}
	req.Location = strings.TrimSpace(req.Location)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(s.validator, err, "invalid lesson payload")
	}
	lesson := &models.Lesson{
		Location: req.Location,
		Date:     req.Date.UTC(),
		DateKey:  models.CalendarKey(req.Date, s.loc),
		TopicID:  req.TopicID,
	}
	if err := s.ensureDayFree(ctx, lesson, ""); err != nil {
		return nil, err
	}
	if err := s.ensureTopic(ctx, req.TopicID); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, lesson); err != nil {
		return nil, s.mapWriteError(err, lesson, "failed to create lesson")
	}
	lesson.Attendance = []string{}
	s.cache.Invalidate(ctx, cacheKeyLessonsAll)
	s.logger.Info("lesson created", zap.String("lesson_id", lesson.ID), zap.String("date_key", lesson.DateKey))
	return lesson, nil
}

// Edit replaces location, timestamp and topic. The day check runs only when the timestamp changes.
func (s *LessonService) Edit(ctx context.Context, caller *models.Caller, id string, req LessonRequest) (*models.Lesson, error) {
	if err := authz.Check(caller, authz.LessonEdit); err != nil {
		return nil, err
	}
	req.Location = strings.TrimSpace(req.Location)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(s.validator, err, "invalid lesson payload")
	}
	if err := requireID("lesson id", id); err != nil {
		return nil, err
	}
	lesson, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if isNoRows(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "lesson not found")
		}
		return nil, appErrors.Internal(err, "failed to load lesson")
	}

	rescheduled := !lesson.Date.Equal(req.Date)
	lesson.Location = req.Location
	if rescheduled {
		lesson.Date = req.Date.UTC()
		lesson.DateKey = models.CalendarKey(req.Date, s.loc)
		if err := s.ensureDayFree(ctx, lesson, lesson.ID); err != nil {
			return nil, err
		}
	}
	if lesson.TopicID != req.TopicID {
		if err := s.ensureTopic(ctx, req.TopicID); err != nil {
			return nil, err
		}
		lesson.TopicID = req.TopicID
	}

	if err := s.repo.Update(ctx, lesson); err != nil {
		return nil, s.mapWriteError(err, lesson, "failed to update lesson")
	}
	s.cache.Invalidate(ctx, cacheKeyLessonsAll)
	return lesson, nil
}

// Delete removes a lesson and every attendance mark pointing at it. The returned lesson carries
// the attendees it had.
func (s *LessonService) Delete(ctx context.Context, caller *models.Caller, id string) (*models.Lesson, error) {
	if err := authz.Check(caller, authz.LessonDelete); err != nil {
		return nil, err
	}
	if err := requireID("lesson id", id); err != nil {
		return nil, err
	}
	lesson, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if isNoRows(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "lesson not found")
		}
		return nil, appErrors.Internal(err, "failed to load lesson")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, appErrors.Internal(err, "failed to delete lesson")
	}
	s.cache.Invalidate(ctx, cacheKeyLessonsAll)
	s.logger.Info("lesson deleted", zap.String("lesson_id", id), zap.Int("attendees", len(lesson.Attendance)))
	return lesson, nil
}

func (s *LessonService) ensureDayFree(ctx context.Context, lesson *models.Lesson, selfID string) error {
	existing, err := s.repo.FindByDateKey(ctx, lesson.DateKey)
	if err != nil {
		if isNoRows(err) {
			return nil
		}
		return appErrors.Internal(err, "failed to check lesson date")
	}
	if existing.ID == selfID {
		return nil
	}
	return s.dateConflict(lesson.Date)
}

func (s *LessonService) ensureTopic(ctx context.Context, topicID string) error {
	if _, err := s.topics.FindByID(ctx, topicID); err != nil {
		if isNoRows(err) {
			return appErrors.Clone(appErrors.ErrTopicNotFound, "topic not found")
		}
		return appErrors.Internal(err, "failed to load topic")
	}
	return nil
}

func (s *LessonService) mapWriteError(err error, lesson *models.Lesson, message string) error {
	switch {
	case database.IsUniqueViolation(err, constraintLessonDateKey):
		return s.dateConflict(lesson.Date)
	case database.IsForeignKeyViolation(err, ""):
		return appErrors.Clone(appErrors.ErrTopicNotFound, "topic not found")
	}
	return appErrors.Internal(err, message)
}

func (s *LessonService) dateConflict(ts time.Time) error {
	s.metrics.RecordDateConflict()
	return appErrors.Clone(appErrors.ErrDateConflict, "Lesson already exists on date "+models.DateLabel(ts, s.loc))
}
