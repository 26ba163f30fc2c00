package controllers

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/LakshyaP28/examportal_backend/models"
	"github.com/LakshyaP28/examportal_backend/util"
	"github.com/gofiber/fiber/v2"
)

// GetAllUsers lists users, optionally filtered by role. Admin only (gated
// by the router).
func GetAllUsers(c *fiber.Ctx) error {
	query := `SELECT user_id, name, email, password, role, branch, enrollment_number,
	          computer_code, wallet_address, digital_id_hash, is_active, last_login, created_at
	          FROM users`
	var args []interface{}
	if role := c.Query("role"); role != "" {
		query += ` WHERE role = $1`
		args = append(args, role)
	}
	query += ` ORDER BY user_id`

	rows, err := util.DB.Query(query, args...)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to fetch users",
		})
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var user models.User
		if err := rows.Scan(
			&user.UserID, &user.Name, &user.Email, &user.Password, &user.Role,
			&user.Branch, &user.EnrollmentNumber, &user.ComputerCode, &user.WalletAddress,
			&user.DigitalIDHash, &user.IsActive, &user.LastLogin, &user.CreatedAt,
		); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"status":  "error",
				"message": "Failed to read user row",
			})
		}
		users = append(users, user)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "success",
		"users":  users,
		"count":  len(users),
	})
}

// UpdateUser applies a partial update over the whitelist fields. Callers
// may update themselves; Admins may update anyone.
func UpdateUser(c *fiber.Ctx) error {
	currentUser, ok := c.Locals("user").(models.User)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status":  "error",
			"message": "invalid token",
		})
	}

	userID, err := c.ParamsInt("user_id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid user id",
		})
	}

	if currentUser.UserID != userID && currentUser.Role != models.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"status":  "error",
			"message": "insufficient permissions",
		})
	}

	type updateInput struct {
		Name             *string `json:"name"`
		Branch           *string `json:"branch"`
		EnrollmentNumber *string `json:"enrollment_number"`
		ComputerCode     *string `json:"computer_code"`
		WalletAddress    *string `json:"wallet_address"`
	}
	var input updateInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to parse request body",
		})
	}

	var setClauses []string
	var args []interface{}
	argCount := 1
	addField := func(column string, value *string) {
		if value != nil {
			setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argCount))
			args = append(args, *value)
			argCount++
		}
	}
	addField("name", input.Name)
	addField("branch", input.Branch)
	addField("enrollment_number", input.EnrollmentNumber)
	addField("computer_code", input.ComputerCode)
	addField("wallet_address", input.WalletAddress)

	if len(setClauses) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "No updatable fields provided",
		})
	}

	args = append(args, userID)
	query := fmt.Sprintf("UPDATE users SET %s WHERE user_id = $%d", strings.Join(setClauses, ", "), argCount)

	res, err := util.DB.Exec(query, args...)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to update user",
		})
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":  "error",
			"message": "User not found",
		})
	}

	user, err := fetchUserByID(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to fetch updated user",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "success",
		"user":   user,
	})
}

func setUserActive(c *fiber.Ctx, active bool) error {
	userID, err := c.ParamsInt("user_id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid user id",
		})
	}

	res, err := util.DB.Exec(`UPDATE users SET is_active = $1 WHERE user_id = $2`, active, userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to update user",
		})
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":  "error",
			"message": "User not found",
		})
	}

	message := "User deactivated"
	if active {
		message = "User activated"
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "success",
		"message": message,
	})
}

// ActivateUser re-enables a deactivated account. Admin only.
func ActivateUser(c *fiber.Ctx) error {
	return setUserActive(c, true)
}

// DeactivateUser disables an account without deleting it. Admin only.
func DeactivateUser(c *fiber.Ctx) error {
	return setUserActive(c, false)
}

// GetUserByDigitalID looks a user up by the digital ID hash. Admin only.
func GetUserByDigitalID(c *fiber.Ctx) error {
	hash := c.Params("digital_id_hash")

	var user models.User
	err := util.DB.QueryRow(
		`SELECT user_id, name, email, password, role, branch, enrollment_number,
		 computer_code, wallet_address, digital_id_hash, is_active, last_login, created_at
		 FROM users WHERE digital_id_hash = $1`, hash,
	).Scan(
		&user.UserID, &user.Name, &user.Email, &user.Password, &user.Role,
		&user.Branch, &user.EnrollmentNumber, &user.ComputerCode, &user.WalletAddress,
		&user.DigitalIDHash, &user.IsActive, &user.LastLogin, &user.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"status":  "error",
				"message": "User not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Database error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "success",
		"user":   user,
	})
}
