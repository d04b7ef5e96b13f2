package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/mun-club-api/internal/authz"
	"github.com/noah-isme/mun-club-api/internal/models"
	"github.com/noah-isme/mun-club-api/internal/repository"
	"github.com/noah-isme/mun-club-api/pkg/database"
	appErrors "github.com/noah-isme/mun-club-api/pkg/errors"
	"github.com/noah-isme/mun-club-api/pkg/validation"
)

type countryRepository interface {
	ListByTopic(ctx context.Context, topicID string) ([]models.Country, error)
	FindByID(ctx context.Context, id string) (*models.Country, error)
	FindByMember(ctx context.Context, topicID, userID string) (*models.Country, error)
	Memberships(ctx context.Context, topicID string, userIDs []string) (map[string]string, error)
	Create(ctx context.Context, country *models.Country) error
	Update(ctx context.Context, country *models.Country, replaceRoster bool) error
	Delete(ctx context.Context, id string) error
	AddMember(ctx context.Context, countryID, topicID, userID string) error
	RemoveMember(ctx context.Context, countryID, userID string) error
}

type userBatchLookup interface {
	FindByIDs(ctx context.Context, ids []string) ([]models.User, error)
}

// CreateCountryRequest is the payload for creating a delegation.
type CreateCountryRequest struct {
	Name       string          `json:"name" validate:"notblank,max=120"`
	Position   models.Position `json:"position" validate:"required,position"`
	TopicID    string          `json:"topic_id" validate:"required,uuid"`
	StudentIDs []string        `json:"student_ids" validate:"omitempty,dive,uuid"`
}

// UpdateCountryRequest edits a delegation. A nil StudentIDs keeps the roster unchanged.
type UpdateCountryRequest struct {
	Name       string          `json:"name" validate:"notblank,max=120"`
	Position   models.Position `json:"position" validate:"required,position"`
	StudentIDs *[]string       `json:"student_ids" validate:"omitempty,dive,uuid"`
}

// CountryService manages delegations and their rosters. A student belongs to at most one
// delegation per topic.
type CountryService struct {
	repo      countryRepository
	topics    topicLookup
	users     userBatchLookup
	validator *validation.Validator
	logger    *zap.Logger
}

// NewCountryService constructs a CountryService.
func NewCountryService(repo countryRepository, topics topicLookup, users userBatchLookup, v *validation.Validator, logger *zap.Logger) *CountryService {
	if v == nil {
		v = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CountryService{repo: repo, topics: topics, users: users, validator: v, logger: logger}
}

// GetByTopic lists the delegations of a topic.
func (s *CountryService) GetByTopic(ctx context.Context, caller *models.Caller, topicID string) ([]models.Country, error) {
	if err := authz.Check(caller, authz.CountryGetByTopic); err != nil {
		return nil, err
	}
	if err := requireID("topic id", topicID); err != nil {
		return nil, err
	}
	countries, err := s.repo.ListByTopic(ctx, topicID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list countries")
	}
	return countries, nil
}

// GetUserCountry returns the caller's delegation in the topic, or nil when they have none.
func (s *CountryService) GetUserCountry(ctx context.Context, caller *models.Caller, topicID string) (*models.Country, error) {
	if err := authz.Check(caller, authz.CountryGetUserCountry); err != nil {
		return nil, err
	}
	if err := requireID("topic id", topicID); err != nil {
		return nil, err
	}
	country, err := s.repo.FindByMember(ctx, topicID, caller.UserID)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, appErrors.Internal(err, "failed to load country")
	}
	return country, nil
}

// GetByID returns a delegation.
func (s *CountryService) GetByID(ctx context.Context, caller *models.Caller, id string) (*models.Country, error) {
	if err := authz.Check(caller, authz.CountryGetByID); err != nil {
		return nil, err
	}
	return s.load(ctx, id)
}

// Create adds a delegation with an optional initial roster.
func (s *CountryService) Create(ctx context.Context, caller *models.Caller, req CreateCountryRequest) (*models.Country, error) {
	if err := authz.Check(caller, authz.CountryCreate); err != nil {
		return nil, err
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(s.validator, err, "invalid country payload")
	}
	if _, err := s.topics.FindByID(ctx, req.TopicID); err != nil {
		if isNoRows(err) {
			return nil, appErrors.Clone(appErrors.ErrTopicNotFound, "topic not found")
		}
		return nil, appErrors.Internal(err, "failed to load topic")
	}
	roster := dedupe(req.StudentIDs)
	if err := s.ensureAssignable(ctx, req.TopicID, "", roster); err != nil {
		return nil, err
	}

	country := &models.Country{Name: req.Name, Position: req.Position, TopicID: req.TopicID, StudentIDs: roster}
	if err := s.repo.Create(ctx, country); err != nil {
		return nil, mapRosterError(err, "failed to create country")
	}
	s.logger.Info("country created", zap.String("country_id", country.ID), zap.String("topic_id", country.TopicID))
	return country, nil
}

// Update renames a delegation, changes its position and optionally replaces its roster.
func (s *CountryService) Update(ctx context.Context, caller *models.Caller, id string, req UpdateCountryRequest) (*models.Country, error) {
	if err := authz.Check(caller, authz.CountryEdit); err != nil {
		return nil, err
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(s.validator, err, "invalid country payload")
	}
	country, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	country.Name = req.Name
	country.Position = req.Position
	replace := req.StudentIDs != nil
	if replace {
		roster := dedupe(*req.StudentIDs)
		if err := s.ensureAssignable(ctx, country.TopicID, country.ID, roster); err != nil {
			return nil, err
		}
		country.StudentIDs = roster
	}
	if err := s.repo.Update(ctx, country, replace); err != nil {
		return nil, mapRosterError(err, "failed to update country")
	}
	return country, nil
}

// Delete removes a delegation. Its documents go with it.
func (s *CountryService) Delete(ctx context.Context, caller *models.Caller, id string) (*models.Country, error) {
	if err := authz.Check(caller, authz.CountryDelete); err != nil {
		return nil, err
	}
	country, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, appErrors.Internal(err, "failed to delete country")
	}
	s.logger.Info("country deleted", zap.String("country_id", id))
	return country, nil
}

// Join adds the caller to the delegation. Joining one's own delegation again is a no-op.
func (s *CountryService) Join(ctx context.Context, caller *models.Caller, id string) (*models.Country, error) {
	if err := authz.Check(caller, authz.CountryJoin); err != nil {
		return nil, err
	}
	country, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if country.HasMember(caller.UserID) {
		return country, nil
	}
	current, err := s.repo.FindByMember(ctx, country.TopicID, caller.UserID)
	switch {
	case err == nil && current.ID != country.ID:
		return nil, appErrors.Clone(appErrors.ErrAlreadyDelegated, "already a member of "+current.Name+" for this topic")
	case err != nil && !isNoRows(err):
		return nil, appErrors.Internal(err, "failed to check delegation")
	}
	if err := s.repo.AddMember(ctx, country.ID, country.TopicID, caller.UserID); err != nil {
		return nil, mapRosterError(err, "failed to join country")
	}
	return s.load(ctx, id)
}

// Leave removes the caller from the delegation. Leaving when not a member is a no-op.
func (s *CountryService) Leave(ctx context.Context, caller *models.Caller, id string) (*models.Country, error) {
	if err := authz.Check(caller, authz.CountryLeave); err != nil {
		return nil, err
	}
	country, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !country.HasMember(caller.UserID) {
		return country, nil
	}
	if err := s.repo.RemoveMember(ctx, country.ID, caller.UserID); err != nil {
		return nil, appErrors.Internal(err, "failed to leave country")
	}
	return s.load(ctx, id)
}

func (s *CountryService) load(ctx context.Context, id string) (*models.Country, error) {
	if err := requireID("country id", id); err != nil {
		return nil, err
	}
	country, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if isNoRows(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "country not found")
		}
		return nil, appErrors.Internal(err, "failed to load country")
	}
	return country, nil
}

// ensureAssignable verifies every student exists and is not delegated elsewhere in the topic.
func (s *CountryService) ensureAssignable(ctx context.Context, topicID, countryID string, studentIDs []string) error {
	if len(studentIDs) == 0 {
		return nil
	}
	users, err := s.users.FindByIDs(ctx, studentIDs)
	if err != nil {
		return appErrors.Internal(err, "failed to load users")
	}
	known := make(map[string]struct{}, len(users))
	for _, user := range users {
		known[user.ID] = struct{}{}
	}
	for _, id := range studentIDs {
		if _, ok := known[id]; !ok {
			return appErrors.Clone(appErrors.ErrUserNotFound, "user "+id+" not found")
		}
	}
	memberships, err := s.repo.Memberships(ctx, topicID, studentIDs)
	if err != nil {
		return appErrors.Internal(err, "failed to check delegations")
	}
	for _, id := range studentIDs {
		if current, ok := memberships[id]; ok && current != countryID {
			return appErrors.Clone(appErrors.ErrAlreadyDelegated, "user "+id+" already belongs to another delegation for this topic")
		}
	}
	return nil
}

func mapRosterError(err error, message string) error {
	if database.IsUniqueViolation(err, repository.ConstraintCountryMemberTopic) {
		return appErrors.ErrAlreadyDelegated
	}
	if database.IsForeignKeyViolation(err, "") {
		return appErrors.Clone(appErrors.ErrNotFound, "referenced user or topic not found")
	}
	return appErrors.Internal(err, message)
}
