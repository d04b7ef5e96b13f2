package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mun-club-api/internal/models"
	"github.com/noah-isme/mun-club-api/internal/service"
	"github.com/noah-isme/mun-club-api/pkg/response"
)

type countryService interface {
	GetByTopic(ctx context.Context, caller *models.Caller, topicID string) ([]models.Country, error)
	GetUserCountry(ctx context.Context, caller *models.Caller, topicID string) (*models.Country, error)
	GetByID(ctx context.Context, caller *models.Caller, id string) (*models.Country, error)
	Create(ctx context.Context, caller *models.Caller, req service.CreateCountryRequest) (*models.Country, error)
	Update(ctx context.Context, caller *models.Caller, id string, req service.UpdateCountryRequest) (*models.Country, error)
	Delete(ctx context.Context, caller *models.Caller, id string) (*models.Country, error)
	Join(ctx context.Context, caller *models.Caller, id string) (*models.Country, error)
	Leave(ctx context.Context, caller *models.Caller, id string) (*models.Country, error)
}

// CountryHandler handles delegation endpoints.
type CountryHandler struct {
	service countryService
}

// NewCountryHandler constructs a country handler.
func NewCountryHandler(svc countryService) *CountryHandler {
	return &CountryHandler{service: svc}
}

// ListByTopic godoc
// @Summary Delegations of a topic
// @Tags Countries
// @Produce json
// @Param id path string true "Topic ID"
// @Success 200 {object} response.Envelope
// @Router /topics/{id}/countries [get]
func (h *CountryHandler) ListByTopic(c *gin.Context) {
	countries, err := h.service.GetByTopic(c.Request.Context(), callerFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, countries)
}

// Mine godoc
// @Summary The caller's delegation for a topic
// @Description Data is null when the caller has not joined a delegation.
// @Tags Countries
// @Produce json
// @Param id path string true "Topic ID"
// @Success 200 {object} response.Envelope
// @Router /topics/{id}/countries/mine [get]
func (h *CountryHandler) Mine(c *gin.Context) {
	country, err := h.service.GetUserCountry(c.Request.Context(), callerFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, country)
}

// Get godoc
// @Summary Get delegation
// @Tags Countries
// @Produce json
// @Param id path string true "Country ID"
// @Success 200 {object} response.Envelope
// @Router /countries/{id} [get]
func (h *CountryHandler) Get(c *gin.Context) {
	country, err := h.service.GetByID(c.Request.Context(), callerFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, country)
}

// Create godoc
// @Summary Create delegation
// @Tags Countries
// @Accept json
// @Produce json
// @Param payload body service.CreateCountryRequest true "Country payload"
// @Success 201 {object} response.Envelope
// @Router /countries [post]
func (h *CountryHandler) Create(c *gin.Context) {
	var req service.CreateCountryRequest
	if !bindJSON(c, &req) {
		return
	}
	country, err := h.service.Create(c.Request.Context(), callerFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, country)
}

// Update godoc
// @Summary Edit delegation
// @Tags Countries
// @Accept json
// @Produce json
// @Param id path string true "Country ID"
// @Param payload body service.UpdateCountryRequest true "Country payload"
// @Success 200 {object} response.Envelope
// @Router /countries/{id} [put]
func (h *CountryHandler) Update(c *gin.Context) {
	var req service.UpdateCountryRequest
	if !bindJSON(c, &req) {
		return
	}
	country, err := h.service.Update(c.Request.Context(), callerFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, country)
}

// Delete godoc
// @Summary Delete delegation
// @Tags Countries
// @Produce json
// @Param id path string true "Country ID"
// @Success 200 {object} response.Envelope
// @Router /countries/{id} [delete]
func (h *CountryHandler) Delete(c *gin.Context) {
	country, err := h.service.Delete(c.Request.Context(), callerFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, country)
}

// Join godoc
// @Summary Join delegation
// @Tags Countries
// @Produce json
// @Param id path string true "Country ID"
// @Success 200 {object} response.Envelope
// @Router /countries/{id}/join [post]
func (h *CountryHandler) Join(c *gin.Context) {
	country, err := h.service.Join(c.Request.Context(), callerFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, country)
}

// Leave godoc
// @Summary Leave delegation
// @Tags Countries
// @Produce json
// @Param id path string true "Country ID"
// @Success 200 {object} response.Envelope
// @Router /countries/{id}/leave [post]
func (h *CountryHandler) Leave(c *gin.Context) {
	country, err := h.service.Leave(c.Request.Context(), callerFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, country)
}
