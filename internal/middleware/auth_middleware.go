package middleware

import (
	"strings"

	"go-hpp-engine/internal/repository"
	"go-hpp-engine/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	LocalOwnerID   = "owner_id"
	LocalUserEmail = "user_email"
	LocalUserName  = "user_name"
)

// RequireAuth is middleware that validates JWT token and sets user info in context
func RequireAuth(tokens *jwt.Manager, userRepo repository.UserRepository) fiber.Handler {
	return authenticate(tokens, userRepo, func(c *fiber.Ctx) (string, string) {
		// Get Authorization header
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return "", "Missing authorization token"
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return "", "Invalid authorization format. Use: Bearer <token>"
		}
		return parts[1], ""
	})
}

// RequireWSAuth authenticates a websocket upgrade; browsers cannot set
// headers there, so the token comes from ?token=.
func RequireWSAuth(tokens *jwt.Manager, userRepo repository.UserRepository) fiber.Handler {
	return authenticate(tokens, userRepo, func(c *fiber.Ctx) (string, string) {
		token := c.Query("token")
		if token == "" {
			return "", "Missing authorization token"
		}
		return token, ""
	})
}

func authenticate(tokens *jwt.Manager, userRepo repository.UserRepository, extract func(*fiber.Ctx) (string, string)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, problem := extract(c)
		if problem != "" {
			return c.Status(401).JSON(fiber.Map{"error": problem})
		}

		// Validate token
		claims, err := tokens.ValidateToken(tokenString)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		// Check strict session against DB
		user, err := userRepo.FindByID(claims.UserID)
		if err != nil || !user.IsActive {
			return c.Status(401).JSON(fiber.Map{"error": "User not found"})
		}

		if user.TokenVersion != claims.TokenVersion {
			return c.Status(401).JSON(fiber.Map{"error": "Session expired (logged in on another device)"})
		}

		// Owner scoping for every downstream handler
		c.Locals(LocalOwnerID, claims.UserID)
		c.Locals(LocalUserEmail, claims.Email)
		c.Locals(LocalUserName, claims.Name)

		return c.Next()
	}
}

// OwnerID returns the authenticated owner. ok is false outside RequireAuth.
func OwnerID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals(LocalOwnerID).(uuid.UUID)
	return id, ok && id != uuid.Nil
}

// Actor is the value written to the audit columns.
func Actor(c *fiber.Ctx) string {
	if email, ok := c.Locals(LocalUserEmail).(string); ok && email != "" {
		return email
	}
	return "system"
}
