package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mun-club-api/internal/models"
	"github.com/noah-isme/mun-club-api/internal/service"
	"github.com/noah-isme/mun-club-api/pkg/response"
)

type documentService interface {
	Create(ctx context.Context, caller *models.Caller, req service.CreateDocumentRequest) (*models.Document, error)
	Delete(ctx context.Context, caller *models.Caller, id string) (*models.Document, error)
	GetByCountry(ctx context.Context, caller *models.Caller, countryID string) ([]models.Document, error)
	GetByTopic(ctx context.Context, caller *models.Caller, topicID string) ([]models.Document, error)
	GetByID(ctx context.Context, caller *models.Caller, id string) (*models.Document, error)
}

// DocumentHandler handles delegation document endpoints.
type DocumentHandler struct {
	service documentService
}

// NewDocumentHandler constructs a document handler.
func NewDocumentHandler(svc documentService) *DocumentHandler {
	return &DocumentHandler{service: svc}
}

// ListByCountry godoc
// @Summary Documents of a delegation
// @Tags Documents
// @Produce json
// @Param id path string true "Country ID"
// @Success 200 {object} response.Envelope
// @Router /countries/{id}/documents [get]
func (h *DocumentHandler) ListByCountry(c *gin.Context) {
	docs, err := h.service.GetByCountry(c.Request.Context(), callerFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, docs)
}

// ListByTopic godoc
// @Summary Documents of a topic
// @Tags Documents
// @Produce json
// @Param id path string true "Topic ID"
// @Success 200 {object} response.Envelope
// @Router /topics/{id}/documents [get]
func (h *DocumentHandler) ListByTopic(c *gin.Context) {
	docs, err := h.service.GetByTopic(c.Request.Context(), callerFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, docs)
}

// Get godoc
// @Summary Get document
// @Tags Documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} response.Envelope
// @Router /documents/{id} [get]
func (h *DocumentHandler) Get(c *gin.Context) {
	doc, err := h.service.GetByID(c.Request.Context(), callerFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, doc)
}

// Create godoc
// @Summary Attach a document to a delegation
// @Tags Documents
// @Accept json
// @Produce json
// @Param payload body service.CreateDocumentRequest true "Document payload"
// @Success 201 {object} response.Envelope
// @Router /documents [post]
func (h *DocumentHandler) Create(c *gin.Context) {
	var req service.CreateDocumentRequest
	if !bindJSON(c, &req) {
		return
	}
	doc, err := h.service.Create(c.Request.Context(), callerFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, doc)
}

// Delete godoc
// @Summary Delete document
// @Tags Documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} response.Envelope
// @Router /documents/{id} [delete]
func (h *DocumentHandler) Delete(c *gin.Context) {
	doc, err := h.service.Delete(c.Request.Context(), callerFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, doc)
}
