package auth

import (
	"errors"
	"time"

	"cloudstorage/internal/domain"
	"cloudstorage/internal/domain/models"
	"cloudstorage/internal/logger"

	"github.com/golang-jwt/jwt/v5"
)

// HMACVerifier verifies HS256 tokens signed with a shared secret
type HMACVerifier struct {
	secret []byte
	logger *logger.Logger
}

// NewHMACVerifier creates a verifier for tokens signed with secret
func NewHMACVerifier(secret string, log *logger.Logger) (*HMACVerifier, error) {
	if secret == "" {
		return nil, errors.New("JWT secret cannot be empty")
	}
	return &HMACVerifier{secret: []byte(secret), logger: log}, nil
}

func (v *HMACVerifier) VerifyToken(tokenString string) (*models.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.Claims{}, func(*jwt.Token) (any, error) {
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		v.logger.Debug().Err(err).Msg("token rejected")
		return nil, domain.ErrUnauthenticated
	}

	claims, ok := token.Claims.(*models.Claims)
	if !ok || claims.GetUserID() == "" {
		return nil, domain.ErrUnauthenticated
	}
	return claims, nil
}

// Sign issues an HS256 token for userID. Used by the seed tool and tests.
func (v *HMACVerifier) Sign(userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := models.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

func (v *HMACVerifier) Close() error {
	return nil
}
