package auth

import (
	"context"
	"errors"
	"fmt"

	"cloudstorage/internal/domain"
	"cloudstorage/internal/domain/models"
	"cloudstorage/internal/logger"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// JWKSVerifier verifies asymmetric tokens against keys from a JWKS endpoint
type JWKSVerifier struct {
	jwks   keyfunc.Keyfunc
	cancel context.CancelFunc
	logger *logger.Logger
}

// NewJWKSVerifier fetches keys from jwksURL. keyfunc caches and refreshes
// them in the background until Close.
func NewJWKSVerifier(jwksURL string, log *logger.Logger) (*JWKSVerifier, error) {
	if jwksURL == "" {
		return nil, errors.New("JWKS URL cannot be empty")
	}

	ctx, cancel := context.WithCancel(context.Background())
	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create JWKS client: %w", err)
	}

	log.Info().Str("jwks_url", jwksURL).Msg("JWT verifier initialized")

	return &JWKSVerifier{jwks: jwks, cancel: cancel, logger: log}, nil
}

// VerifyToken validates signature, expiry and subject
func (v *JWKSVerifier) VerifyToken(tokenString string) (*models.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.Claims{}, v.jwks.Keyfunc,
		jwt.WithValidMethods([]string{"RS256", "ES256"}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		v.logger.Debug().Err(err).Msg("token rejected")
		return nil, domain.ErrUnauthenticated
	}

	claims, ok := token.Claims.(*models.Claims)
	if !ok || claims.GetUserID() == "" {
		v.logger.Debug().Msg("token missing user claim")
		return nil, domain.ErrUnauthenticated
	}

	// reject anonymous sessions when the issuer sets a role
	if claims.Role != "" && claims.Role != "authenticated" {
		v.logger.Debug().Str("role", claims.Role).Msg("token has non-authenticated role")
		return nil, domain.ErrUnauthenticated
	}

	return claims, nil
}

// Close stops the background key refresh
func (v *JWKSVerifier) Close() error {
	v.cancel()
	v.logger.Info().Msg("JWT verifier closed")
	return nil
}
