package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/noah-isme/mun-club-api/internal/authz"
	"github.com/noah-isme/mun-club-api/internal/models"
	appErrors "github.com/noah-isme/mun-club-api/pkg/errors"
	"github.com/noah-isme/mun-club-api/pkg/validation"
)

type userRepository interface {
	List(ctx context.Context, filter models.UserFilter) ([]models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	UpdateRole(ctx context.Context, id string, role models.UserRole, clearAttendance bool) error
	Delete(ctx context.Context, id string) error
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// UpdateRoleRequest changes a user's role.
type UpdateRoleRequest struct {
	Role models.UserRole `json:"role" validate:"required,role"`
}

// UserService handles role management for provisioned accounts.
type UserService struct {
	repo      userRepository
	validator *validation.Validator
	logger    *zap.Logger
}

// NewUserService creates an instance of UserService.
func NewUserService(repo userRepository, v *validation.Validator, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if v == nil {
		v = validation.New()
	}
	return &UserService{repo: repo, validator: v, logger: logger}
}

// GetAll lists users by name, optionally restricted to some roles.
func (s *UserService) GetAll(ctx context.Context, caller *models.Caller, filter models.UserFilter) ([]models.User, error) {
	if err := authz.Check(caller, authz.UserGetAll); err != nil {
		return nil, err
	}
	for _, role := range filter.Roles {
		if !role.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown role "+string(role))
		}
	}
	users, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list users")
	}
	return users, nil
}

// UpdateRole assigns a new role. Teachers are not tracked, so promotion to TEACHER clears the
// user's attendance.
func (s *UserService) UpdateRole(ctx context.Context, caller *models.Caller, id string, req UpdateRoleRequest, meta models.RequestMeta) (*models.User, error) {
	if err := authz.Check(caller, authz.UserUpdateRole); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(s.validator, err, "invalid role payload")
	}
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := user.Role
	clearAttendance := req.Role == models.RoleTeacher
	if err := s.repo.UpdateRole(ctx, id, req.Role, clearAttendance); err != nil {
		return nil, appErrors.Internal(err, "failed to update role")
	}
	user.Role = req.Role
	if clearAttendance {
		user.Attendance = []string{}
	}

	oldPayload, _ := json.Marshal(map[string]interface{}{"role": previous})
	newPayload, _ := json.Marshal(map[string]interface{}{"role": user.Role})
	s.audit(ctx, caller, models.AuditActionUserRoleUpdate, user.ID, oldPayload, newPayload, meta)
	s.logger.Info("user role updated", zap.String("user_id", user.ID), zap.String("from", string(previous)), zap.String("to", string(user.Role)))
	return user, nil
}

// Delete removes a user together with their attendance and delegation memberships.
func (s *UserService) Delete(ctx context.Context, caller *models.Caller, id string, meta models.RequestMeta) (*models.User, error) {
	if err := authz.Check(caller, authz.UserDelete); err != nil {
		return nil, err
	}
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, appErrors.Internal(err, "failed to delete user")
	}

	oldPayload, _ := json.Marshal(map[string]interface{}{"name": user.Name, "role": user.Role, "attendance": len(user.Attendance)})
	s.audit(ctx, caller, models.AuditActionUserDelete, user.ID, oldPayload, nil, meta)
	s.logger.Info("user deleted", zap.String("user_id", user.ID))
	return user, nil
}

func (s *UserService) load(ctx context.Context, id string) (*models.User, error) {
	if err := requireID("user id", id); err != nil {
		return nil, err
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if isNoRows(err) {
			return nil, appErrors.Clone(appErrors.ErrUserNotFound, "user not found")
		}
		return nil, appErrors.Internal(err, "failed to load user")
	}
	return user, nil
}

func (s *UserService) audit(ctx context.Context, caller *models.Caller, action, resourceID string, oldValues, newValues []byte, meta models.RequestMeta) {
	if err := s.repo.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     callerIDPtr(caller),
		Action:     action,
		Resource:   "users",
		ResourceID: &resourceID,
		OldValues:  oldValues,
		NewValues:  newValues,
		IPAddress:  meta.IP,
		UserAgent:  meta.UserAgent,
	}); err != nil {
		s.logger.Warn("failed to record audit log", zap.String("action", action), zap.Error(err))
	}
}
