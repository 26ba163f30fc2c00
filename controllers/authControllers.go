package controllers

import (
	"database/sql"
	"errors"

	"github.com/LakshyaP28/examportal_backend/models"
	"github.com/LakshyaP28/examportal_backend/util"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/lib/pq"
)

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func fetchUserByID(userID int) (models.User, error) {
	var user models.User
	err := util.DB.QueryRow(
		`SELECT user_id, name, email, password, role, branch, enrollment_number,
		 computer_code, wallet_address, digital_id_hash, is_active, last_login, created_at
		 FROM users WHERE user_id = $1`, userID,
	).Scan(
		&user.UserID, &user.Name, &user.Email, &user.Password, &user.Role,
		&user.Branch, &user.EnrollmentNumber, &user.ComputerCode, &user.WalletAddress,
		&user.DigitalIDHash, &user.IsActive, &user.LastLogin, &user.CreatedAt,
	)
	return user, err
}

// Register creates a Student account. The role cannot be chosen by the
// caller; Admin and Examiner accounts are seeded out-of-band.
func Register(c *fiber.Ctx) error {
	validate := validator.New()

	type registerInput struct {
		Name             string `json:"name" validate:"required"`
		Email            string `json:"email" validate:"required,email"`
		Password         string `json:"password" validate:"required"`
		EnrollmentNumber string `json:"enrollment_number"`
		Branch           string `json:"branch"`
		ComputerCode     string `json:"computer_code"`
	}

	var input registerInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to parse request body",
		})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}

	var existing string
	err := util.DB.QueryRow(`SELECT email FROM users WHERE email = $1`, input.Email).Scan(&existing)
	if err == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Email already exists",
		})
	}
	if err != sql.ErrNoRows {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Database error",
		})
	}

	digitalID := util.GenerateDigitalID(input.Email, input.EnrollmentNumber)

	var userID int
	err = util.DB.QueryRow(
		`INSERT INTO users (name, email, password, role, branch, enrollment_number, computer_code, digital_id_hash)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING user_id`,
		input.Name, input.Email, util.HashPassword(input.Password), models.RoleStudent,
		nullable(input.Branch), nullable(input.EnrollmentNumber), nullable(input.ComputerCode), digitalID,
	).Scan(&userID)
	if err != nil {
		// The unique index is the authority: a registration racing past the
		// pre-check above still reports the duplicate, not a server error.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status":  "error",
				"message": "Email already exists",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to create user",
		})
	}

	user, err := fetchUserByID(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to fetch created user",
		})
	}

	token, err := util.JwtGenerate(user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to sign token",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status": "success",
		"user":   user,
		"token":  token,
	})
}

// Login verifies credentials and issues a session token. Unknown email and
// wrong password are indistinguishable to the caller.
func Login(c *fiber.Ctx) error {
	validate := validator.New()

	type loginInput struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	var input loginInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to parse request body",
		})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}

	var user models.User
	err := util.DB.QueryRow(
		`SELECT user_id, name, email, password, role, branch, enrollment_number,
		 computer_code, wallet_address, digital_id_hash, is_active, last_login, created_at
		 FROM users WHERE email = $1 AND password = $2 AND is_active = TRUE`,
		input.Email, util.HashPassword(input.Password),
	).Scan(
		&user.UserID, &user.Name, &user.Email, &user.Password, &user.Role,
		&user.Branch, &user.EnrollmentNumber, &user.ComputerCode, &user.WalletAddress,
		&user.DigitalIDHash, &user.IsActive, &user.LastLogin, &user.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  "error",
				"message": "invalid credentials",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Database error",
		})
	}

	_, err = util.DB.Exec(`UPDATE users SET last_login = CURRENT_TIMESTAMP WHERE user_id = $1`, user.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to update last login",
		})
	}

	token, err := util.JwtGenerate(user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to sign token",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "success",
		"user":   user,
		"token":  token,
	})
}

// Profile returns the authenticated caller's own record.
func Profile(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(models.User)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status":  "error",
			"message": "invalid token",
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "success",
		"user":   user,
	})
}
