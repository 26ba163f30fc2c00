package middlewares

import (
	"database/sql"
	"strconv"

	"github.com/LakshyaP28/examportal_backend/models"
	"github.com/LakshyaP28/examportal_backend/util"
	"github.com/gofiber/fiber/v2"
)

func NotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"status":  "error",
		"message": "Not Found",
	})
}

// Protected verifies the bearer token, loads the caller's user row and
// stores it under c.Locals("user"). Missing, tampered and expired tokens
// are all rejected with the same message.
func Protected() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := util.VerifyJwtToken(c.Get("Authorization"))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  "error",
				"message": "invalid token",
			})
		}

		idClaim, ok := claims["id"].(string)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  "error",
				"message": "invalid token",
			})
		}
		userID, err := strconv.Atoi(idClaim)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  "error",
				"message": "invalid token",
			})
		}

		var user models.User
		query := `SELECT user_id, name, email, password, role, branch, enrollment_number,
		          computer_code, wallet_address, digital_id_hash, is_active, last_login, created_at
		          FROM users WHERE user_id = $1 AND is_active = TRUE`
		row := util.DB.QueryRow(query, userID)
		err = row.Scan(
			&user.UserID, &user.Name, &user.Email, &user.Password, &user.Role,
			&user.Branch, &user.EnrollmentNumber, &user.ComputerCode, &user.WalletAddress,
			&user.DigitalIDHash, &user.IsActive, &user.LastLogin, &user.CreatedAt,
		)
		if err != nil {
			if err == sql.ErrNoRows {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"status":  "error",
					"message": "invalid token",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"status":  "error",
				"message": "Database error",
			})
		}

		c.Locals("user", user)
		return c.Next()
	}
}

// RequireRoles rejects authenticated callers whose role is not in the
// allowed set. Must run after Protected.
func RequireRoles(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := c.Locals("user").(models.User)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  "error",
				"message": "invalid token",
			})
		}
		for _, role := range roles {
			if user.Role == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"status":  "error",
			"message": "insufficient permissions",
		})
	}
}
