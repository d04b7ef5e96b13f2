package models

import "github.com/golang-jwt/jwt/v5"

// Caller is the identity attached to a request. A nil *Caller means the request is unauthenticated.
type Caller struct {
	UserID string   `json:"user_id"`
	Role   UserRole `json:"role"`
}

// JWTClaims is the access token payload issued by the sign-in provider.
type JWTClaims struct {
	UserID string   `json:"user_id"`
	Role   UserRole `json:"role"`
	Name   string   `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Caller projects the claims onto a request identity.
func (c *JWTClaims) Caller() *Caller {
	if c == nil {
		return nil
	}
	return &Caller{UserID: c.UserID, Role: c.Role}
}
