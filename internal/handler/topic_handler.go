package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mun-club-api/internal/middleware"
	"github.com/noah-isme/mun-club-api/internal/models"
	"github.com/noah-isme/mun-club-api/internal/service"
	"github.com/noah-isme/mun-club-api/pkg/response"
)

type topicService interface {
	GetAll(ctx context.Context, caller *models.Caller) ([]models.Topic, bool, error)
	GetByID(ctx context.Context, caller *models.Caller, id string) (*models.Topic, error)
	GetByTitle(ctx context.Context, caller *models.Caller, title string) (*models.Topic, error)
	Create(ctx context.Context, caller *models.Caller, req service.TopicRequest) (*models.Topic, error)
	Edit(ctx context.Context, caller *models.Caller, id string, req service.TopicRequest) (*models.Topic, error)
	Delete(ctx context.Context, caller *models.Caller, id string) (*models.Topic, error)
}

// TopicHandler handles topic endpoints.
type TopicHandler struct {
	service topicService
}

// NewTopicHandler constructs a topic handler.
func NewTopicHandler(svc topicService) *TopicHandler {
	return &TopicHandler{service: svc}
}

// List godoc
// @Summary List topics
// @Description Newest first, ties broken by title.
// @Tags Topics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /topics [get]
func (h *TopicHandler) List(c *gin.Context) {
	topics, hit, err := h.service.GetAll(c.Request.Context(), callerFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, topics, middleware.ExtractMeta(c))
}

// Get godoc
// @Summary Get topic by id
// @Tags Topics
// @Produce json
// @Param id path string true "Topic ID"
// @Success 200 {object} response.Envelope
// @Router /topics/{id} [get]
func (h *TopicHandler) Get(c *gin.Context) {
	topic, err := h.service.GetByID(c.Request.Context(), callerFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, topic)
}

// GetByTitle godoc
// @Summary Get topic by exact title
// @Tags Topics
// @Produce json
// @Param title query string true "Topic title"
// @Success 200 {object} response.Envelope
// @Router /topics/by-title [get]
func (h *TopicHandler) GetByTitle(c *gin.Context) {
	topic, err := h.service.GetByTitle(c.Request.Context(), callerFromContext(c), c.Query("title"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, topic)
}

// Create godoc
// @Summary Create topic
// @Tags Topics
// @Accept json
// @Produce json
// @Param payload body service.TopicRequest true "Topic payload"
// @Success 201 {object} response.Envelope
// @Router /topics [post]
func (h *TopicHandler) Create(c *gin.Context) {
	var req service.TopicRequest
	if !bindJSON(c, &req) {
		return
	}
	topic, err := h.service.Create(c.Request.Context(), callerFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, topic)
}

// Update godoc
// @Summary Edit topic
// @Tags Topics
// @Accept json
// @Produce json
// @Param id path string true "Topic ID"
// @Param payload body service.TopicRequest true "Topic payload"
// @Success 200 {object} response.Envelope
// @Router /topics/{id} [put]
func (h *TopicHandler) Update(c *gin.Context) {
	var req service.TopicRequest
	if !bindJSON(c, &req) {
		return
	}
	topic, err := h.service.Edit(c.Request.Context(), callerFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, topic)
}

// Delete godoc
// @Summary Delete topic
// @Tags Topics
// @Produce json
// @Param id path string true "Topic ID"
// @Success 200 {object} response.Envelope
// @Router /topics/{id} [delete]
func (h *TopicHandler) Delete(c *gin.Context) {
	topic, err := h.service.Delete(c.Request.Context(), callerFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, topic)
}
