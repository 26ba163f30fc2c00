package util

import (
	"errors"
	"strconv"
	"time"

	"github.com/LakshyaP28/examportal_backend/models"
	"github.com/golang-jwt/jwt/v5"
)

// JwtGenerate signs a stateless session token for the user. The token
// carries id, email and role and expires 24 hours after issue.
func JwtGenerate(user models.User) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)
	claims := token.Claims.(jwt.MapClaims)
	claims["id"] = strconv.Itoa(user.UserID)
	claims["email"] = user.Email
	claims["role"] = user.Role
	claims["iat"] = time.Now().Unix()
	claims["exp"] = time.Now().Add(24 * time.Hour).Unix()
	t, err := token.SignedString([]byte(JWTSecret))
	return t, err
}

// VerifyJwtToken verifies signature and expiry and returns the claims.
// Tampered, expired and malformed tokens all come back as the same
// "invalid token" error.
func VerifyJwtToken(tokenString string) (jwt.MapClaims, error) {
	if len(tokenString) > 7 && tokenString[:7] == "Bearer " {
		tokenString = tokenString[7:]
	}
	if tokenString == "" {
		return nil, errors.New("invalid token")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(JWTSecret), nil
	})
	if err != nil {
		return nil, errors.New("invalid token")
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}
