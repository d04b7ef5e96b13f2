package service

import (
	"context"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/mun-club-api/internal/authz"
	"github.com/noah-isme/mun-club-api/internal/models"
	appErrors "github.com/noah-isme/mun-club-api/pkg/errors"
	"github.com/noah-isme/mun-club-api/pkg/validation"
)

type documentRepository interface {
	FindByID(ctx context.Context, id string) (*models.Document, error)
	ListByCountry(ctx context.Context, countryID string) ([]models.Document, error)
	ListByTopic(ctx context.Context, topicID string) ([]models.Document, error)
	Create(ctx context.Context, doc *models.Document) error
	Delete(ctx context.Context, id string) error
}

type countryLookup interface {
	FindByID(ctx context.Context, id string) (*models.Country, error)
}

// CreateDocumentRequest attaches an external reference to a delegation.
type CreateDocumentRequest struct {
	CountryID string `json:"country_id" validate:"required,uuid"`
	TopicID   string `json:"topic_id" validate:"omitempty,uuid"`
	URI       string `json:"uri" validate:"required,url,max=2048"`
	Name      string `json:"name" validate:"max=200"`
}

// DocumentService manages delegation documents. Only current members may add or remove them.
type DocumentService struct {
	repo      documentRepository
	countries countryLookup
	validator *validation.Validator
	logger    *zap.Logger
}

// NewDocumentService constructs a DocumentService.
func NewDocumentService(repo documentRepository, countries countryLookup, v *validation.Validator, logger *zap.Logger) *DocumentService {
	if v == nil {
		v = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentService{repo: repo, countries: countries, validator: v, logger: logger}
}

// Create stores a document reference. The caller must be on the country's roster at call time.
func (s *DocumentService) Create(ctx context.Context, caller *models.Caller, req CreateDocumentRequest) (*models.Document, error) {
	if err := authz.Check(caller, authz.DocumentCreate); err != nil {
		return nil, err
	}
	req.URI = strings.TrimSpace(req.URI)
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(s.validator, err, "invalid document payload")
	}
	parsed, err := url.Parse(req.URI)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "uri must be an absolute http or https URL")
	}

	country, err := s.countries.FindByID(ctx, req.CountryID)
	if err != nil {
		if isNoRows(err) {
			return nil, appErrors.ErrUnauthorized
		}
		return nil, appErrors.Internal(err, "failed to load country")
	}
	if !country.HasMember(caller.UserID) {
		return nil, appErrors.ErrUnauthorized
	}
	if req.TopicID != "" && req.TopicID != country.TopicID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "topic_id does not match the country's topic")
	}

	name := req.Name
	if name == "" {
		name = parsed.Host
	}
	doc := &models.Document{
		CountryID: country.ID,
		TopicID:   country.TopicID,
		URI:       req.URI,
		Name:      name,
		CreatedBy: callerIDPtr(caller),
	}
	if err := s.repo.Create(ctx, doc); err != nil {
		return nil, appErrors.Internal(err, "failed to create document")
	}
	s.logger.Info("document created", zap.String("document_id", doc.ID), zap.String("country_id", doc.CountryID))
	return doc, nil
}

// Delete removes a document. The caller must currently belong to the owning country.
func (s *DocumentService) Delete(ctx context.Context, caller *models.Caller, id string) (*models.Document, error) {
	if err := authz.Check(caller, authz.DocumentDelete); err != nil {
		return nil, err
	}
	doc, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	country, err := s.countries.FindByID(ctx, doc.CountryID)
	if err != nil {
		if isNoRows(err) {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "not a member of this delegation")
		}
		return nil, appErrors.Internal(err, "failed to load country")
	}
	if !country.HasMember(caller.UserID) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not a member of this delegation")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, appErrors.Internal(err, "failed to delete document")
	}
	return doc, nil
}

// GetByCountry lists a delegation's documents.
func (s *DocumentService) GetByCountry(ctx context.Context, caller *models.Caller, countryID string) ([]models.Document, error) {
	if err := authz.Check(caller, authz.DocumentGetByCountry); err != nil {
		return nil, err
	}
	if err := requireID("country id", countryID); err != nil {
		return nil, err
	}
	docs, err := s.repo.ListByCountry(ctx, countryID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list documents")
	}
	return docs, nil
}

// GetByTopic lists every document filed under a topic.
func (s *DocumentService) GetByTopic(ctx context.Context, caller *models.Caller, topicID string) ([]models.Document, error) {
	if err := authz.Check(caller, authz.DocumentGetByTopic); err != nil {
		return nil, err
	}
	if err := requireID("topic id", topicID); err != nil {
		return nil, err
	}
	docs, err := s.repo.ListByTopic(ctx, topicID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list documents")
	}
	return docs, nil
}

// GetByID returns a document.
func (s *DocumentService) GetByID(ctx context.Context, caller *models.Caller, id string) (*models.Document, error) {
	if err := authz.Check(caller, authz.DocumentGetByID); err != nil {
		return nil, err
	}
	return s.load(ctx, id)
}

func (s *DocumentService) load(ctx context.Context, id string) (*models.Document, error) {
	if err := requireID("document id", id); err != nil {
		return nil, err
	}
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if isNoRows(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "document not found")
		}
		return nil, appErrors.Internal(err, "failed to load document")
	}
	return doc, nil
}
