package models

import "github.com/golang-jwt/jwt/v5"

// AccessClaims represents the JWT claims issued by the upstream identity
// provider. Only the subject is load-bearing here: the core treats the user
// id as already authenticated and opaque.
type AccessClaims struct {
	jwt.RegisteredClaims        // Standard JWT claims (sub, iss, aud, exp, iat, etc.)
	Email                string `json:"email"`
	Role                 string `json:"role"` // "authenticated" or "anon"
}

// GetUserID returns the user ID from the JWT subject claim.
func (c *AccessClaims) GetUserID() string {
	return c.Subject
}
