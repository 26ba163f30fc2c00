package util

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

var DB *sql.DB
var JWTSecret string
var SMTPHost string
var SMTPPort int
var SMTPUser string
var SMTPPass string
var EmailFrom string
var RedisAddr string
var RedisPassword string
var DemoMode bool

func getDBCredentialsAndPopulateConfig() (string, error) {
	// .env is optional; plain environment variables work the same way.
	_ = godotenv.Load()

	dbUser := os.Getenv("DB_USER")
	dbPass := os.Getenv("DB_PASS")
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbName := os.Getenv("DB_NAME")
	sslMode := os.Getenv("SSL_MODE")
	if dbHost == "" {
		dbHost = "localhost"
	}
	if dbPort == "" {
		dbPort = "5432"
	}
	if sslMode == "" {
		sslMode = "disable"
	}

	JWTSecret = os.Getenv("JWT_SECRET")
	if JWTSecret == "" {
		return "", errors.New("JWT_SECRET is not set")
	}

	SMTPHost = os.Getenv("SMTP_HOST")
	SMTPUser = os.Getenv("SMTP_USER")
	SMTPPass = os.Getenv("SMTP_PASS")
	EmailFrom = os.Getenv("EMAIL_FROM")
	if portStr := os.Getenv("SMTP_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			SMTPPort = port
		}
	}
	if SMTPPort == 0 {
		SMTPPort = 587
	}

	RedisAddr = os.Getenv("REDIS_ADDR")
	RedisPassword = os.Getenv("REDIS_PASSWORD")
	DemoMode = os.Getenv("DEMO_MODE") == "true"

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		dbHost, dbPort, dbUser, dbPass, dbName, sslMode), nil
}

func DBConnectAndPopulateDBVar() error {
	connectString, err := getDBCredentialsAndPopulateConfig()
	if err != nil {
		return err
	}
	DB, err = sql.Open("postgres", connectString)
	if err != nil {
		return err
	}
	if err = DB.Ping(); err != nil {
		return err
	}
	return nil
}
