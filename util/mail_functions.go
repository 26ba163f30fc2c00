package util

import (
	"errors"
	"fmt"

	"gopkg.in/gomail.v2"
)

// SendOTPEmail delivers a password-reset OTP to the given address over SMTP.
func SendOTPEmail(toEmail, otp string) error {
	if SMTPHost == "" || SMTPUser == "" || EmailFrom == "" {
		return errors.New("email config missing")
	}
	if toEmail == "" {
		return errors.New("empty recipient")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", EmailFrom)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Password Reset OTP - Exam Portal")

	html := fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
  <div style="max-width: 520px; margin: 0 auto; padding: 16px;">
    <h2>Password Reset Request</h2>
    <p>You requested to reset your Exam Portal password. Your One-Time Password is:</p>
    <div style="font-size: 32px; font-weight: bold; letter-spacing: 6px;">%s</div>
    <p>This OTP expires in 10 minutes. Do not share it with anyone.</p>
    <p>If you did not request this, please ignore this email.</p>
  </div>
</body>
</html>`, otp)
	m.SetBody("text/plain", fmt.Sprintf(
		"Your Exam Portal password reset OTP is: %s\nIt expires in 10 minutes. Do not share it with anyone.", otp))
	m.AddAlternative("text/html", html)

	d := gomail.NewDialer(SMTPHost, SMTPPort, SMTPUser, SMTPPass)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}
