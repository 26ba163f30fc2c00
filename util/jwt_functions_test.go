package util

import (
	"testing"
	"time"

	"github.com/LakshyaP28/examportal_backend/models"
	"github.com/golang-jwt/jwt/v5"
)

func TestJwtGenerateAndVerify(t *testing.T) {
	JWTSecret = "test-secret"

	user := models.User{UserID: 7, Email: "student@example.com", Role: models.RoleStudent}
	token, err := JwtGenerate(user)
	if err != nil {
		t.Fatalf("JwtGenerate: %v", err)
	}

	claims, err := VerifyJwtToken(token)
	if err != nil {
		t.Fatalf("VerifyJwtToken: %v", err)
	}
	if claims["id"] != "7" {
		t.Errorf("id claim = %v, want \"7\"", claims["id"])
	}
	if claims["email"] != "student@example.com" {
		t.Errorf("email claim = %v", claims["email"])
	}
	if claims["role"] != models.RoleStudent {
		t.Errorf("role claim = %v, want %q", claims["role"], models.RoleStudent)
	}
}

func TestVerifyJwtToken_BearerPrefix(t *testing.T) {
	JWTSecret = "test-secret"

	token, err := JwtGenerate(models.User{UserID: 1, Email: "a@b.com", Role: models.RoleAdmin})
	if err != nil {
		t.Fatalf("JwtGenerate: %v", err)
	}
	if _, err := VerifyJwtToken("Bearer " + token); err != nil {
		t.Fatalf("VerifyJwtToken with bearer prefix: %v", err)
	}
}

func TestVerifyJwtToken_Rejections(t *testing.T) {
	JWTSecret = "test-secret"

	valid, err := JwtGenerate(models.User{UserID: 1, Email: "a@b.com", Role: models.RoleStudent})
	if err != nil {
		t.Fatalf("JwtGenerate: %v", err)
	}

	wrongSecret := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id": "1", "email": "a@b.com", "role": models.RoleAdmin,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	forged, err := wrongSecret.SignedString([]byte("other-secret"))
	if err != nil {
		t.Fatalf("sign forged token: %v", err)
	}

	expiredToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id": "1", "email": "a@b.com", "role": models.RoleStudent,
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	expired, err := expiredToken.SignedString([]byte(JWTSecret))
	if err != nil {
		t.Fatalf("sign expired token: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not.a.token"},
		{name: "tampered", token: valid + "x"},
		{name: "wrong secret", token: forged},
		{name: "expired", token: expired},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := VerifyJwtToken(tc.token)
			if err == nil {
				t.Fatal("expected rejection, token verified")
			}
			if err.Error() != "invalid token" {
				t.Fatalf("error = %q, want uniform \"invalid token\"", err.Error())
			}
		})
	}
}
