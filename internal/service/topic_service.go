package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/mun-club-api/internal/authz"
	"github.com/noah-isme/mun-club-api/internal/models"
	"github.com/noah-isme/mun-club-api/pkg/database"
	appErrors "github.com/noah-isme/mun-club-api/pkg/errors"
	"github.com/noah-isme/mun-club-api/pkg/validation"
)

const constraintTopicTitle = "topics_title_key"

type topicRepository interface {
	List(ctx context.Context) ([]models.Topic, error)
	FindByID(ctx context.Context, id string) (*models.Topic, error)
	FindByTitle(ctx context.Context, title string) (*models.Topic, error)
	Create(ctx context.Context, topic *models.Topic) error
	Update(ctx context.Context, topic *models.Topic) error
	Delete(ctx context.Context, id string) error
	CountDependents(ctx context.Context, id string) (int, error)
}

// TopicRequest is the payload for creating or editing a topic.
type TopicRequest struct {
	Title       string `json:"title" validate:"notblank,max=200"`
	Description string `json:"description" validate:"max=5000"`
}

// TopicService manages debate topics.
type TopicService struct {
	repo      topicRepository
	cache     *CacheService
	validator *validation.Validator
	logger    *zap.Logger
}

// NewTopicService constructs a TopicService.
func NewTopicService(repo topicRepository, cache *CacheService, v *validation.Validator, logger *zap.Logger) *TopicService {
	if v == nil {
		v = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TopicService{repo: repo, cache: cache, validator: v, logger: logger}
}

// GetAll lists topics newest first.
func (s *TopicService) GetAll(ctx context.Context, caller *models.Caller) ([]models.Topic, bool, error) {
	if err := authz.Check(caller, authz.TopicGetAll); err != nil {
		return nil, false, err
	}
	var cached []models.Topic
	if s.cache.Get(ctx, cacheKeyTopics, &cached) {
		return cached, true, nil
	}
	topics, err := s.repo.List(ctx)
	if err != nil {
		return nil, false, appErrors.Internal(err, "failed to list topics")
	}
	s.cache.Set(ctx, cacheKeyTopics, topics, 0)
	return topics, false, nil
}

// GetByID returns a single topic.
func (s *TopicService) GetByID(ctx context.Context, caller *models.Caller, id string) (*models.Topic, error) {
	if err := authz.Check(caller, authz.TopicGetByID); err != nil {
		return nil, err
	}
	if err := requireID("topic id", id); err != nil {
		return nil, err
	}
	topic, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if isNoRows(err) {
			return nil, appErrors.Clone(appErrors.ErrTopicNotFound, "topic not found")
		}
		return nil, appErrors.Internal(err, "failed to load topic")
	}
	return topic, nil
}

// GetByTitle returns the topic with exactly this title.
func (s *TopicService) GetByTitle(ctx context.Context, caller *models.Caller, title string) (*models.Topic, error) {
	if err := authz.Check(caller, authz.TopicGetByName); err != nil {
		return nil, err
	}
	if strings.TrimSpace(title) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "title is required")
	}
	topic, err := s.repo.FindByTitle(ctx, title)
	if err != nil {
		if isNoRows(err) {
			return nil, appErrors.Clone(appErrors.ErrTopicNotFound, "topic not found")
		}
		return nil, appErrors.Internal(err, "failed to load topic")
	}
	return topic, nil
}

// Create adds a topic. Titles are unique and compared case-sensitively.
func (s *TopicService) Create(ctx context.Context, caller *models.Caller, req TopicRequest) (*models.Topic, error) {
	if err := authz.Check(caller, authz.TopicCreate); err != nil {
		return nil, err
	}
	req.Title = strings.TrimSpace(req.Title)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(s.validator, err, "invalid topic payload")
	}
	if err := s.ensureTitleFree(ctx, req.Title, ""); err != nil {
		return nil, err
	}

	topic := &models.Topic{Title: req.Title, Description: req.Description}
	if err := s.repo.Create(ctx, topic); err != nil {
		if database.IsUniqueViolation(err, constraintTopicTitle) {
			return nil, duplicateTitle(req.Title)
		}
		return nil, appErrors.Internal(err, "failed to create topic")
	}
	s.cache.Invalidate(ctx, cacheKeyTopicsPattern)
	s.logger.Info("topic created", zap.String("topic_id", topic.ID), zap.String("title", topic.Title))
	return topic, nil
}

// Edit replaces a topic's title and description.
func (s *TopicService) Edit(ctx context.Context, caller *models.Caller, id string, req TopicRequest) (*models.Topic, error) {
	if err := authz.Check(caller, authz.TopicEdit); err != nil {
		return nil, err
	}
	req.Title = strings.TrimSpace(req.Title)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(s.validator, err, "invalid topic payload")
	}
	if err := requireID("topic id", id); err != nil {
		return nil, err
	}
	topic, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if isNoRows(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "topic not found")
		}
		return nil, appErrors.Internal(err, "failed to load topic")
	}
	if topic.Title != req.Title {
		if err := s.ensureTitleFree(ctx, req.Title, topic.ID); err != nil {
			return nil, err
		}
	}

	topic.Title = req.Title
	topic.Description = req.Description
	if err := s.repo.Update(ctx, topic); err != nil {
		if database.IsUniqueViolation(err, constraintTopicTitle) {
			return nil, duplicateTitle(req.Title)
		}
		return nil, appErrors.Internal(err, "failed to update topic")
	}
	s.cache.Invalidate(ctx, cacheKeyTopicsPattern)
	return topic, nil
}

// Delete removes a topic that no lesson or delegation references.
func (s *TopicService) Delete(ctx context.Context, caller *models.Caller, id string) (*models.Topic, error) {
	if err := authz.Check(caller, authz.TopicDelete); err != nil {
		return nil, err
	}
	if err := requireID("topic id", id); err != nil {
		return nil, err
	}
	topic, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if isNoRows(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "topic not found")
		}
		return nil, appErrors.Internal(err, "failed to load topic")
	}
	dependents, err := s.repo.CountDependents(ctx, id)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to inspect topic usage")
	}
	if dependents > 0 {
		return nil, appErrors.ErrTopicInUse
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if database.IsForeignKeyViolation(err, "") {
			return nil, appErrors.ErrTopicInUse
		}
		return nil, appErrors.Internal(err, "failed to delete topic")
	}
	s.cache.Invalidate(ctx, cacheKeyTopicsPattern)
	s.logger.Info("topic deleted", zap.String("topic_id", id))
	return topic, nil
}

func (s *TopicService) ensureTitleFree(ctx context.Context, title, selfID string) error {
	existing, err := s.repo.FindByTitle(ctx, title)
	if err != nil {
		if isNoRows(err) {
			return nil
		}
		return appErrors.Internal(err, "failed to check topic title")
	}
	if existing.ID != selfID {
		return duplicateTitle(title)
	}
	return nil
}

func duplicateTitle(title string) error {
	return appErrors.Clone(appErrors.ErrDuplicateTitle, "topic \""+title+"\" already exists")
}
