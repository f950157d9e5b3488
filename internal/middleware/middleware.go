package middleware

import (
	"crypto/subtle"
	"strings"

	"our-recipes/domain"
	"our-recipes/internal/api/presenters"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"golang.org/x/crypto/bcrypt"
)

const Realm = "Our Recipes"

type (
	Middleware interface {
		BasicAuth(username, password string) fiber.Handler
		RequireReady(ready func() error) fiber.Handler
	}

	middleware struct{}
)

func NewMiddleware() Middleware {
	return &middleware{}
}

// BasicAuth guards every route registered after it. Without both a username
// and a password configured every request is refused.
func (m *middleware) BasicAuth(username, password string) fiber.Handler {
	if username == "" || password == "" {
		log.Error("BASIC_AUTH_USERNAME or BASIC_AUTH_PASSWORD is not set, refusing all protected routes")
		return func(c *fiber.Ctx) error {
			return unauthorized(c, domain.ErrAuthNotConfigured)
		}
	}

	return basicauth.New(basicauth.Config{
		Realm: Realm,
		Authorizer: func(user, pass string) bool {
			return CheckCredentials(username, password, user, pass)
		},
		Unauthorized: func(c *fiber.Ctx) error {
			return unauthorized(c, domain.ErrInvalidPassword)
		},
	})
}

func unauthorized(c *fiber.Ctx, err error) error {
	c.Set(fiber.HeaderWWWAuthenticate, `Basic realm="`+Realm+`"`)
	return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageUnauthorized, err)
}

func (m *middleware) RequireReady(ready func() error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := ready(); err != nil {
			return presenters.ErrorResponse(c, fiber.StatusServiceUnavailable, domain.MessageServiceNotReady, err)
		}
		return c.Next()
	}
}

// CheckCredentials compares the supplied pair with the configured one. A
// configured password that looks like a bcrypt hash is verified as such.
func CheckCredentials(wantUser, wantPass, user, pass string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(wantUser)) == 1

	var passOK bool
	if isBcryptHash(wantPass) {
		passOK = bcrypt.CompareHashAndPassword([]byte(wantPass), []byte(pass)) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(pass), []byte(wantPass)) == 1
	}
	return userOK && passOK
}

func isBcryptHash(s string) bool {
	return len(s) == 60 && (strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$"))
}
