package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/kindnest/kindnest-api/internal/model"
	"github.com/kindnest/kindnest-api/internal/service"
	"github.com/kindnest/kindnest-api/pkg/apperror"
	"github.com/kindnest/kindnest-api/pkg/response"
)

// AuthMiddleware walks a request through the auth state machine: bearer
// extraction, signature/expiry verification against the identity
// provider's key set, user resolution by token subject, then permission
// checks. Each step short-circuits with its own error; nothing is
// retried within a request.
type AuthMiddleware struct {
	users    service.UserService
	keyfunc  jwt.Keyfunc
	audience string
	issuer   string
}

// NewAuthMiddleware fetches the provider's JWKS and keeps it refreshed in
// the background.
func NewAuthMiddleware(users service.UserService, domain, audience string) (*AuthMiddleware, error) {
	jwksURL := fmt.Sprintf("https://%s/.well-known/jwks.json", domain)
	kf, err := keyfunc.NewDefault([]string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("failed to load JWKS from %s: %w", jwksURL, err)
	}
	return NewAuthMiddlewareWithKeyfunc(users, kf.Keyfunc, audience, "https://"+domain+"/"), nil
}

// NewAuthMiddlewareWithKeyfunc wires an explicit key resolver; tests use
// this to verify against a local key pair.
func NewAuthMiddlewareWithKeyfunc(users service.UserService, kf jwt.Keyfunc, audience, issuer string) *AuthMiddleware {
	return &AuthMiddleware{
		users:    users,
		keyfunc:  kf,
		audience: audience,
		issuer:   issuer,
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.AbortError(c, apperror.Unauthorized("authorization header is expected"))
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) == 0 || parts[0] != "Bearer" {
			response.AbortError(c, apperror.Unauthorized("authorization header must start with Bearer"))
			return
		}
		if len(parts) != 2 {
			response.AbortError(c, apperror.Unauthorized("authorization header must be a Bearer token"))
			return
		}

		token, err := jwt.ParseWithClaims(parts[1], &jwt.RegisteredClaims{}, m.keyfunc,
			jwt.WithValidMethods([]string{"RS256"}),
			jwt.WithAudience(m.audience),
			jwt.WithIssuer(m.issuer),
			jwt.WithExpirationRequired(),
		)
		if err != nil || !token.Valid {
			response.AbortError(c, apperror.Unauthorized(verificationMessage(err)))
			return
		}

		claims, ok := token.Claims.(*jwt.RegisteredClaims)
		if !ok || claims.Subject == "" {
			response.AbortError(c, apperror.Unauthorized("token is missing a subject"))
			return
		}

		c.Set("token_subject", claims.Subject)

		// The user row may not exist yet: first login creates it via
		// POST /users, which only needs a verified token. Routes that
		// need an account go through RequirePermission.
		user, err := m.users.ResolveByExternalID(c.Request.Context(), claims.Subject)
		if err == nil {
			c.Set("user", user)
		} else if !errors.Is(err, apperror.ErrNotFound) {
			response.AbortError(c, err)
			return
		}

		c.Next()
	}
}

// verificationMessage keeps the user-facing distinction between the ways
// a token can fail verification.
func verificationMessage(err error) string {
	switch {
	case err == nil:
		return "token is invalid"
	case errors.Is(err, jwt.ErrTokenExpired):
		return "token is expired"
	case errors.Is(err, jwt.ErrTokenMalformed):
		return "token is malformed"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "token signature is invalid"
	case errors.Is(err, jwt.ErrTokenInvalidAudience):
		return "token audience is invalid"
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return "token issuer is invalid"
	default:
		return "token is invalid"
	}
}

// RequirePermission gates a route on the caller holding at least one of
// the named permissions (OR semantics).
func (m *AuthMiddleware) RequirePermission(perms ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			response.AbortError(c, apperror.Unauthorized("no account is linked to this token"))
			return
		}

		if !user.Role.HasAnyPermission(perms...) {
			response.AbortError(c, apperror.Forbidden("you do not have permission to access this resource"))
			return
		}

		c.Next()
	}
}

// CurrentUser returns the resolved user, or nil when the token has no
// account yet.
func CurrentUser(c *gin.Context) *model.User {
	value, exists := c.Get("user")
	if !exists {
		return nil
	}
	user, ok := value.(*model.User)
	if !ok {
		return nil
	}
	return user
}

// TokenSubject returns the verified token subject set by RequireAuth.
func TokenSubject(c *gin.Context) string {
	return c.GetString("token_subject")
}
