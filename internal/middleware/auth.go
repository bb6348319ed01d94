package middleware

import (
	"strings"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/vkopaniev/contacts-api/internal/config"
	"github.com/vkopaniev/contacts-api/internal/dto"
	"github.com/vkopaniev/contacts-api/internal/models"
	"github.com/vkopaniev/contacts-api/internal/store"
)

const currentUserKey = "currentUser"

// JWTProtected rejects requests without a well-formed, correctly signed,
// unexpired bearer token.
func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Not authorized",
			})
		},
	})
}

// RequireUser resolves the bearer token into a live user record. The
// presented token must equal the one stored on the user row; a token
// invalidated by logout or superseded by a newer login fails here even
// though its signature is still valid.
func RequireUser(users store.UserStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := userIDFromClaims(c)
		if err != nil {
			return unauthorized(c)
		}

		user, err := users.FindByID(userID)
		if err != nil {
			return unauthorized(c)
		}

		raw := bearerToken(c)
		if raw == "" || user.Token == nil || *user.Token != raw {
			return unauthorized(c)
		}

		c.Locals(currentUserKey, user)
		return c.Next()
	}
}

// CurrentUser returns the user loaded by RequireUser, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(currentUserKey).(*models.User)
	return user
}

func userIDFromClaims(c *fiber.Ctx) (uuid.UUID, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return uuid.Nil, jwt.ErrTokenMalformed
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, jwt.ErrTokenInvalidClaims
	}

	id, ok := claims["id"].(string)
	if !ok {
		return uuid.Nil, jwt.ErrTokenInvalidClaims
	}

	return uuid.Parse(id)
}

func bearerToken(c *fiber.Ctx) string {
	auth := c.Get(fiber.HeaderAuthorization)
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}
	return strings.TrimPrefix(auth, prefix)
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error:   true,
		Message: "Not authorized",
	})
}
