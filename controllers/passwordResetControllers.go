package controllers

import (
	"crypto/rand"
	"database/sql"
	"fmt"
	"time"

	"github.com/LakshyaP28/examportal_backend/util"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

const otpLength = 6
const otpTTL = 10 * time.Minute

// generateOTP produces a fixed-length numeric one-time password from
// crypto/rand.
func generateOTP(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("invalid otp length")
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i := range buf {
		buf[i] = '0' + (buf[i] % 10)
	}
	return string(buf), nil
}

// RequestPasswordReset issues a fresh OTP for a registered email. Any prior
// pending token for the email is deleted first, so at most one unconsumed,
// unexpired code exists per email. Unlike login, this endpoint does reveal
// whether the email is registered.
func RequestPasswordReset(c *fiber.Ctx) error {
	validate := validator.New()

	type resetRequestInput struct {
		Email string `json:"email" validate:"required,email"`
	}
	var input resetRequestInput
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

	var userID int
	err := util.DB.QueryRow(`SELECT user_id FROM users WHERE email = $1`, input.Email).Scan(&userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"status":  "error",
				"message": "Email not registered in our system",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Database error",
		})
	}

	otp, err := generateOTP(otpLength)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to generate OTP",
		})
	}

	tx, err := util.DB.Begin()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to start transaction",
		})
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM password_reset_tokens WHERE email = $1`, input.Email); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to invalidate previous tokens",
		})
	}
	// expires_at is computed on the database clock so the comparison in
	// VerifyOTP never depends on the app host's time zone.
	_, err = tx.Exec(
		`INSERT INTO password_reset_tokens (email, token, expires_at)
		 VALUES ($1, $2, NOW() + make_interval(mins => $3))`,
		input.Email, otp, int(otpTTL.Minutes()),
	)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to store token",
		})
	}
	if err := tx.Commit(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to commit transaction",
		})
	}

	// Delivery failure does not fail the request: the token is already
	// persisted and verifiable.
	if err := util.SendOTPEmail(input.Email, otp); err != nil {
		if util.DemoMode {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"status":   "success",
				"message":  "OTP sent to email (demo fallback)",
				"otp_demo": otp,
			})
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "success",
			"message": "OTP generated but email delivery failed. Please contact support.",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "success",
		"message": "OTP has been sent to your registered email address. Please check your inbox and spam folder.",
	})
}

// VerifyOTP checks an OTP and consumes it on success; the same code cannot
// be verified twice. Attempts are throttled per email when redis is
// configured.
func VerifyOTP(c *fiber.Ctx) error {
	validate := validator.New()

	type verifyInput struct {
		Email string `json:"email" validate:"required,email"`
		OTP   string `json:"otp" validate:"required"`
	}
	var input verifyInput
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

	allowed, err := util.OTPAttemptAllowed(c.Context(), util.Redis, input.Email)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to check attempt limit",
		})
	}
	if !allowed {
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"status":  "error",
			"message": "Too many attempts. Try again later.",
		})
	}

	// Check and consume in one statement so concurrent verifies of the
	// same code cannot both succeed.
	var tokenID int
	err = util.DB.QueryRow(
		`UPDATE password_reset_tokens SET is_used = TRUE
		 WHERE email = $1 AND token = $2 AND is_used = FALSE AND expires_at > NOW()
		 RETURNING id`,
		input.Email, input.OTP,
	).Scan(&tokenID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status":  "error",
				"valid":   false,
				"message": "Invalid or expired OTP",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Database error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "success",
		"valid":  true,
	})
}

// ResetPassword rewrites the password digest for the email. The three
// reset endpoints are independent: this one does not check that an OTP was
// verified first.
func ResetPassword(c *fiber.Ctx) error {
	validate := validator.New()

	type resetInput struct {
		Email       string `json:"email" validate:"required,email"`
		NewPassword string `json:"new_password" validate:"required"`
	}
	var input resetInput
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

	res, err := util.DB.Exec(
		`UPDATE users SET password = $1 WHERE email = $2`,
		util.HashPassword(input.NewPassword), input.Email,
	)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to reset password",
		})
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Email not registered in our system",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "success",
		"message": "Password has been reset successfully",
	})
}
