package handler

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mun-club-api/internal/models"
	"github.com/noah-isme/mun-club-api/internal/service"
	"github.com/noah-isme/mun-club-api/pkg/response"
)

type userService interface {
	GetAll(ctx context.Context, caller *models.Caller, filter models.UserFilter) ([]models.User, error)
	UpdateRole(ctx context.Context, caller *models.Caller, id string, req service.UpdateRoleRequest, meta models.RequestMeta) (*models.User, error)
	Delete(ctx context.Context, caller *models.Caller, id string, meta models.RequestMeta) (*models.User, error)
}

// UserHandler handles user management endpoints.
type UserHandler struct {
	service userService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(svc userService) *UserHandler {
	return &UserHandler{service: svc}
}

// List godoc
// @Summary List users
// @Description Optionally narrowed to one or more roles.
// @Tags Users
// @Produce json
// @Param role query []string false "Role filter" collectionFormat(multi)
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /users [get]
func (h *UserHandler) List(c *gin.Context) {
	var filter models.UserFilter
	for _, raw := range c.QueryArray("role") {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				filter.Roles = append(filter.Roles, models.UserRole(strings.ToUpper(part)))
			}
		}
	}

	users, err := h.service.GetAll(c.Request.Context(), callerFromContext(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, users)
}

// UpdateRole godoc
// @Summary Change a user's role
// @Description Promoting to TEACHER clears the user's attendance history.
// @Tags Users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param payload body service.UpdateRoleRequest true "Role payload"
// @Success 200 {object} response.Envelope
// @Router /users/{id}/role [put]
func (h *UserHandler) UpdateRole(c *gin.Context) {
	var req service.UpdateRoleRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.service.UpdateRole(c.Request.Context(), callerFromContext(c), c.Param("id"), req, requestMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, user)
}

// Delete godoc
// @Summary Delete user
// @Description Removes the account and its attendance marks.
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Envelope
// @Router /users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	user, err := h.service.Delete(c.Request.Context(), callerFromContext(c), c.Param("id"), requestMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, user)
}
