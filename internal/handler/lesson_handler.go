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

type lessonService interface {
	GetAll(ctx context.Context, caller *models.Caller, order models.SortOrder) ([]models.Lesson, bool, error)
	GetByID(ctx context.Context, caller *models.Caller, id string) (*models.LessonDetail, error)
	Create(ctx context.Context, caller *models.Caller, req service.LessonRequest) (*models.Lesson, error)
	Edit(ctx context.Context, caller *models.Caller, id string, req service.LessonRequest) (*models.Lesson, error)
	Delete(ctx context.Context, caller *models.Caller, id string) (*models.Lesson, error)
}

// LessonHandler handles lesson endpoints.
type LessonHandler struct {
	service lessonService
}

// NewLessonHandler constructs a lesson handler.
func NewLessonHandler(svc lessonService) *LessonHandler {
	return &LessonHandler{service: svc}
}

// List godoc
// @Summary List lessons
// @Tags Lessons
// @Produce json
// @Param order query string false "asc or desc (default desc)"
// @Success 200 {object} response.Envelope
// @Router /lessons [get]
func (h *LessonHandler) List(c *gin.Context) {
	order, err := service.ParseOrder(c.Query("order"))
	if err != nil {
		response.Error(c, err)
		return
	}
	lessons, hit, err := h.service.GetAll(c.Request.Context(), callerFromContext(c), order)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, lessons, middleware.ExtractMeta(c))
}

// Get godoc
// @Summary Get lesson with its topic
// @Tags Lessons
// @Produce json
// @Param id path string true "Lesson ID"
// @Success 200 {object} response.Envelope
// @Router /lessons/{id} [get]
func (h *LessonHandler) Get(c *gin.Context) {
	detail, err := h.service.GetByID(c.Request.Context(), callerFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, detail)
}

// Create godoc
// @Summary Schedule lesson
// @Tags Lessons
// @Accept json
// @Produce json
// @Param payload body service.LessonRequest true "Lesson payload"
// @Success 201 {object} response.Envelope
// @Router /lessons [post]
func (h *LessonHandler) Create(c *gin.Context) {
	var req service.LessonRequest
	if !bindJSON(c, &req) {
		return
	}
	lesson, err := h.service.Create(c.Request.Context(), callerFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, lesson)
}

// Update godoc
// @Summary Edit lesson
// @Tags Lessons
// @Accept json
// @Produce json
// @Param id path string true "Lesson ID"
// @Param payload body service.LessonRequest true "Lesson payload"
// @Success 200 {object} response.Envelope
// @Router /lessons/{id} [put]
func (h *LessonHandler) Update(c *gin.Context) {
	var req service.LessonRequest
	if !bindJSON(c, &req) {
		return
	}
	lesson, err := h.service.Edit(c.Request.Context(), callerFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, lesson)
}

// Delete godoc
// @Summary Delete lesson
// @Tags Lessons
// @Produce json
// @Param id path string true "Lesson ID"
// @Success 200 {object} response.Envelope
// @Router /lessons/{id} [delete]
func (h *LessonHandler) Delete(c *gin.Context) {
	lesson, err := h.service.Delete(c.Request.Context(), callerFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, lesson)
}
