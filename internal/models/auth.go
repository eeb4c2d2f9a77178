package models

import "github.com/golang-jwt/jwt/v5"

// SessionClaims are the JWT claims carried by a moderator session token.
type SessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// RoleModerator is the only role the directory knows.
const RoleModerator = "moderator"
