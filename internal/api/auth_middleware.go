package api

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"github.com/querygate-io/querygate/internal/config"
	"github.com/querygate-io/querygate/internal/query"
)

const principalLocal = "principal"

// tokenPrincipal adapts verified JWT claims to the query.Principal
// contract. The role claim decides owner-scope exemption.
type tokenPrincipal struct {
	claims    jwt.MapClaims
	adminRole string
}

func (p *tokenPrincipal) Attribute(name string) (any, bool) {
	v, ok := p.claims[name]
	if !ok {
		return nil, false
	}
	// JSON numbers decode as float64; integral ids compare more
	// predictably as int64.
	if f, isFloat := v.(float64); isFloat && f == float64(int64(f)) {
		return int64(f), true
	}
	return v, true
}

func (p *tokenPrincipal) IsExempt() bool {
	if admin, ok := p.claims["is_admin"].(bool); ok && admin {
		return true
	}
	role, _ := p.claims["role"].(string)
	return role != "" && role == p.adminRole
}

// Authenticate extracts a principal from a bearer token. Requests
// without a valid token proceed unauthenticated; whether that matters is
// decided per model by the owner scope.
func Authenticate(cfg *config.Config) fiber.Handler {
	return func(c fiber.Ctx) error {
		header := c.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			return c.Next()
		}
		raw := strings.TrimPrefix(header, "Bearer ")

		token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(cfg.Auth.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			log.Debug().Err(err).Msg("Rejected bearer token")
			return c.Next()
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return c.Next()
		}
		c.Locals(principalLocal, &tokenPrincipal{claims: claims, adminRole: cfg.Auth.AdminRole})
		return c.Next()
	}
}

// PrincipalFromCtx returns the authenticated principal, or nil for
// public requests.
func PrincipalFromCtx(c fiber.Ctx) query.Principal {
	if p, ok := c.Locals(principalLocal).(query.Principal); ok {
		return p
	}
	return nil
}
