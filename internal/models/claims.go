package models

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

type UserClaims struct {
	jwt.RegisteredClaims
	UserID       uuid.UUID `json:"user_id"`
	Phone        string    `json:"phone"`
	Role         Role      `json:"role"`
	TokenVersion int       `json:"token_version"`
	TokenType    string    `json:"token_type"`
}

func (c *UserClaims) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// HasRole reports whether the claims carry one of roles.
func (c *UserClaims) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if c.Role == r {
			return true
		}
	}
	return false
}

// Actor is the authenticated caller of a service operation.
type Actor struct {
	UserID uuid.UUID
	Role   Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

func (c *UserClaims) Actor() Actor {
	return Actor{UserID: c.UserID, Role: c.Role}
}
