package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/noah-isme/mun-club-api/internal/models"
	appErrors "github.com/noah-isme/mun-club-api/pkg/errors"
)

type authUserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// AuthConfig defines how access tokens are verified.
type AuthConfig struct {
	Secret     string
	Issuer     string
	Expiration time.Duration
}

// AuthService turns bearer tokens issued by the sign-in provider into callers.
type AuthService struct {
	users  authUserRepository
	logger *zap.Logger
	config AuthConfig
	now    func() time.Time
}

// NewAuthService constructs an AuthService. users may be nil, in which case the role carried by
// the token is trusted as is.
func NewAuthService(users authUserRepository, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Expiration <= 0 {
		config.Expiration = 24 * time.Hour
	}
	return &AuthService{users: users, logger: logger, config: config, now: time.Now}
}

// IssueToken signs an access token for the user.
func (s *AuthService) IssueToken(user *models.User) (string, time.Time, error) {
	if user == nil || user.ID == "" {
		return "", time.Time{}, fmt.Errorf("user required")
	}
	now := s.now().UTC()
	expiresAt := now.Add(s.config.Expiration)
	claims := &models.JWTClaims{
		UserID: user.ID,
		Role:   user.Role,
		Name:   user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    s.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// ValidateToken verifies the signature, issuer and expiry of an access token.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	claims := &models.JWTClaims{}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	}
	if s.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.config.Issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(s.config.Secret), nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, appErrors.Clone(appErrors.ErrUnauthenticated, "token expired")
		}
		return nil, appErrors.Clone(appErrors.ErrUnauthenticated, "invalid token")
	}
	if !token.Valid || claims.UserID == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthenticated, "invalid token")
	}
	if !claims.Role.Valid() {
		return nil, appErrors.Clone(appErrors.ErrUnauthenticated, "invalid token role")
	}
	return claims, nil
}

// Authenticate validates the token and resolves the caller. When a user store is configured the
// current role is read from it so role changes apply to tokens already issued.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*models.Caller, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	caller := claims.Caller()
	if s.users == nil {
		return caller, nil
	}
	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if isNoRows(err) {
			return nil, appErrors.Clone(appErrors.ErrUnauthenticated, "account no longer exists")
		}
		s.logger.Warn("failed to resolve caller", zap.String("user_id", claims.UserID), zap.Error(err))
		return nil, appErrors.Internal(err, "failed to resolve caller")
	}
	caller.Role = user.Role
	return caller, nil
}
