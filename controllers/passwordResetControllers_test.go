package controllers

import (
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"

	"github.com/LakshyaP28/examportal_backend/util"
)

func TestGenerateOTP(t *testing.T) {
	otp, err := generateOTP(otpLength)
	if err != nil {
		t.Fatalf("generateOTP: %v", err)
	}
	if len(otp) != otpLength {
		t.Fatalf("otp length = %d, want %d", len(otp), otpLength)
	}
	for i, ch := range otp {
		if ch < '0' || ch > '9' {
			t.Fatalf("otp[%d] = %q, want a digit", i, ch)
		}
	}
}

func TestGenerateOTP_InvalidLength(t *testing.T) {
	for _, n := range []int{0, -1} {
		if _, err := generateOTP(n); err == nil {
			t.Fatalf("generateOTP(%d): expected error", n)
		}
	}
}

func TestGenerateOTP_NotConstant(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		otp, err := generateOTP(otpLength)
		if err != nil {
			t.Fatalf("generateOTP: %v", err)
		}
		seen[otp] = true
	}
	if len(seen) == 1 {
		t.Fatal("20 generated OTPs were all identical")
	}
}

func TestRequestPasswordReset_ReplacesPriorToken(t *testing.T) {
	mock := newMockDB(t)
	prevHost, prevDemo := util.SMTPHost, util.DemoMode
	util.SMTPHost, util.DemoMode = "", false
	t.Cleanup(func() { util.SMTPHost, util.DemoMode = prevHost, prevDemo })

	mock.ExpectQuery("SELECT user_id FROM users").
		WithArgs("student@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(7))
	mock.ExpectBegin()
	// prior codes are removed before the new one lands, so at most one
	// verifiable code exists per email
	mock.ExpectExec("DELETE FROM password_reset_tokens").
		WithArgs("student@example.com").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO password_reset_tokens").
		WithArgs("student@example.com", sqlmock.AnyArg(), int(otpTTL.Minutes())).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	app := fiber.New()
	app.Post("/api/password/reset-request", RequestPasswordReset)

	resp, err := app.Test(jsonRequest("POST", "/api/password/reset-request",
		`{"email":"student@example.com"}`))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, fiber.StatusOK)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("token replacement sequence not honored: %v", err)
	}
}

func TestVerifyOTP_SingleUse(t *testing.T) {
	mock := newMockDB(t)
	// the consume statement matches a live row exactly once
	mock.ExpectQuery("UPDATE password_reset_tokens SET is_used").
		WithArgs("student@example.com", "482916").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))
	// replaying the same code, or presenting one past expires_at, finds
	// no row to consume
	mock.ExpectQuery("UPDATE password_reset_tokens SET is_used").
		WithArgs("student@example.com", "482916").
		WillReturnError(sql.ErrNoRows)

	app := fiber.New()
	app.Post("/api/password/verify-otp", VerifyOTP)
	payload := `{"email":"student@example.com","otp":"482916"}`

	resp, err := app.Test(jsonRequest("POST", "/api/password/verify-otp", payload))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("first attempt status = %d, want %d", resp.StatusCode, fiber.StatusOK)
	}
	var first struct {
		Valid bool `json:"valid"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&first); err != nil {
		t.Fatalf("decode first response: %v", err)
	}
	if !first.Valid {
		t.Fatal("first verification of a live code should succeed")
	}

	resp, err = app.Test(jsonRequest("POST", "/api/password/verify-otp", payload))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("second attempt status = %d, want %d", resp.StatusCode, fiber.StatusBadRequest)
	}
	var second struct {
		Valid bool `json:"valid"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&second); err != nil {
		t.Fatalf("decode second response: %v", err)
	}
	if second.Valid {
		t.Fatal("consumed code must not verify again")
	}
}
