package models

import "github.com/golang-jwt/jwt/v5"

// TokenClaims are the JWT claims carried by access and refresh tokens.
// Subject holds the user id; DeviceID identifies the issuing device so
// that sync operations can attribute changes without extra headers.
type TokenClaims struct {
	jwt.RegisteredClaims
	DeviceID string `json:"deviceId,omitempty"`
}

// Token is a parsed, validated JWT together with the identities it carries.
type Token struct {
	*jwt.Token
	SignedString string
	UserID       string
	DeviceID     string
}
