package models

import "github.com/golang-jwt/jwt/v5"

// Claims is the JWT claim set accepted by the API.
// Tokens either carry the user in the standard subject or in an "id" claim.
type Claims struct {
	jwt.RegisteredClaims        // Standard JWT claims (sub, iss, aud, exp, iat, etc.)
	UserID               string `json:"id,omitempty"`
	Email                string `json:"email,omitempty"`
	Role                 string `json:"role,omitempty"`
}

// GetUserID returns the authenticated user identifier
func (c *Claims) GetUserID() string {
	if c.Subject != "" {
		return c.Subject
	}
	return c.UserID
}
