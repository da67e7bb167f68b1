package auth

import "cloudstorage/internal/domain/models"

// JWTVerifier verifies access tokens. The middleware depends only on this interface.
type JWTVerifier interface {
	// VerifyToken validates a JWT token string and returns the parsed claims.
	// Invalid, expired or badly signed tokens yield domain.ErrUnauthenticated.
	VerifyToken(tokenString string) (*models.Claims, error)

	// Close releases any resources held by the verifier
	Close() error
}
