package middleware

import (
	"strings"

	"github.com/dmitrymomot/restkit/core/response"
	"github.com/dmitrymomot/restkit/core/router"
	"github.com/dmitrymomot/restkit/pkg/jwt"
)

// AuthConfig configures the bearer token middleware.
type AuthConfig struct {
	// Skip bypasses authentication for specific requests.
	Skip func(ctx *router.Context) bool
	// Service verifies tokens. Required.
	Service *jwt.Service
	// ClaimsFactory allocates the claims value a token is parsed into. The
	// parsed claims become the request principal. Defaults to
	// *jwt.StandardClaims.
	ClaimsFactory func() any
	// Optional lets unauthenticated requests through with a nil principal
	// instead of rejecting them. Invalid tokens are still rejected.
	Optional bool
}

// Auth authenticates requests with a bearer JWT and attaches the parsed
// claims as the request principal. Requests without a valid token are
// rejected with 401.
func Auth(service *jwt.Service) router.Middleware {
	return AuthWithConfig(AuthConfig{Service: service})
}

// AuthWithConfig is Auth with custom configuration.
func AuthWithConfig(cfg AuthConfig) router.Middleware {
	if cfg.Service == nil {
		panic("auth middleware: jwt service is required")
	}
	if cfg.ClaimsFactory == nil {
		cfg.ClaimsFactory = func() any { return &jwt.StandardClaims{} }
	}

	return func(ctx *router.Context, next router.Next) (router.Response, error) {
		if cfg.Skip != nil && cfg.Skip(ctx) {
			return next()
		}

		token, ok := bearerToken(ctx.Header("Authorization"))
		if !ok {
			if cfg.Optional {
				return next()
			}
			return nil, response.ErrUnauthorized.WithMessage("missing bearer token")
		}

		claims := cfg.ClaimsFactory()
		if err := cfg.Service.Parse(token, claims); err != nil {
			return nil, response.ErrUnauthorized.WithMessage("invalid or expired token").WithError(err)
		}

		ctx.SetPrincipal(claims)
		return next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
