package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role identifies who is acting on the API.
type Role string

const (
	RoleAdmin       Role = "ADMIN"
	RoleCampManager Role = "CAMP_MANAGER"
)

// JWTClaims represents the JWT payload for access tokens. CampID is set only
// for camp managers and scopes every camp-level operation they perform.
type JWTClaims struct {
	Role   Role   `json:"role"`
	CampID string `json:"campId,omitempty"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// CanAccessCamp reports whether the caller may act on campID.
func (c *JWTClaims) CanAccessCamp(campID string) bool {
	if c == nil {
		return false
	}
	if c.Role == RoleAdmin {
		return true
	}
	return c.Role == RoleCampManager && c.CampID != "" && c.CampID == campID
}

// LoginResponse is returned by both admin and camp manager logins.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresIn int64     `json:"expiresIn"`
	Role      Role      `json:"role"`
	CampID    string    `json:"campId,omitempty"`
	CampName  string    `json:"campName,omitempty"`
	IssuedAt  time.Time `json:"issuedAt"`
}
