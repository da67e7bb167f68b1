package auth

import (
	"fmt"
	"net/http"
	"strings"

	"cloudstorage/internal/domain"

	"github.com/google/uuid"
)

// DefaultCookieName is the cookie browsers send the access token in
const DefaultCookieName = "accessToken"

// CallerResolver turns a request into a verified owner id
type CallerResolver struct {
	verifier   JWTVerifier
	cookieName string
}

// NewCallerResolver creates a resolver reading the bearer header, then cookieName
func NewCallerResolver(verifier JWTVerifier, cookieName string) *CallerResolver {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	return &CallerResolver{verifier: verifier, cookieName: cookieName}
}

// ResolveCaller returns the owner id or domain.ErrUnauthenticated
func (c *CallerResolver) ResolveCaller(r *http.Request) (uuid.UUID, error) {
	token := c.tokenFromRequest(r)
	if token == "" {
		return uuid.Nil, fmt.Errorf("%w: missing access token", domain.ErrUnauthenticated)
	}

	claims, err := c.verifier.VerifyToken(token)
	if err != nil {
		return uuid.Nil, err
	}

	owner, err := uuid.Parse(claims.GetUserID())
	if err != nil || owner == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: malformed user id", domain.ErrUnauthenticated)
	}
	return owner, nil
}

func (c *CallerResolver) tokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}

	if cookie, err := r.Cookie(c.cookieName); err == nil {
		return cookie.Value
	}
	return ""
}
