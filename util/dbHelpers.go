package util

import (
	"fmt"
)

func ddlStrings() []string {
	sqlStrings := []string{}
	sqlStrings = append(sqlStrings,
		`CREATE TABLE IF NOT EXISTS users (
    user_id SERIAL PRIMARY KEY,
    name VARCHAR(100) NOT NULL,
    email VARCHAR(100) UNIQUE NOT NULL,
    password VARCHAR(64) NOT NULL,
    role VARCHAR(20) NOT NULL CHECK (role IN ('Student', 'Examiner', 'Admin')) DEFAULT 'Student',
    branch VARCHAR(50),
    enrollment_number VARCHAR(50),
    computer_code VARCHAR(20),
    wallet_address VARCHAR(42) UNIQUE,
    digital_id_hash VARCHAR(64) UNIQUE NOT NULL,
    is_active BOOLEAN DEFAULT TRUE,
    last_login TIMESTAMP,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
		`CREATE TABLE IF NOT EXISTS exams (
    id SERIAL PRIMARY KEY,
    title VARCHAR(255) NOT NULL,
    start_time TIMESTAMP NOT NULL,
    end_time TIMESTAMP NOT NULL,
    duration INT NOT NULL
)`,
		`CREATE TABLE IF NOT EXISTS questions (
    id SERIAL PRIMARY KEY,
    exam_id INT NOT NULL,
    q_text TEXT NOT NULL,
    q_type VARCHAR(20) NOT NULL CHECK (q_type IN ('mcq', 'truefalse')),
    marks INT NOT NULL DEFAULT 1,
    negative INT NOT NULL DEFAULT 0,
    difficulty VARCHAR(20),
    options TEXT[] NOT NULL,
    correct TEXT[] NOT NULL DEFAULT '{}',
    FOREIGN KEY (exam_id) REFERENCES exams(id) ON DELETE CASCADE
)`,
		`CREATE TABLE IF NOT EXISTS password_reset_tokens (
    id SERIAL PRIMARY KEY,
    email VARCHAR(100) NOT NULL,
    token VARCHAR(6) NOT NULL,
    expires_at TIMESTAMP NOT NULL,
    is_used BOOLEAN DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`)
	return sqlStrings
}

func CreateTableIfNotExists() error {
	sqlStrings := ddlStrings()
	for i, sql := range sqlStrings {
		_, err := DB.Exec(sql)
		if err != nil {
			return fmt.Errorf("error creating table %d: %w", i, err)
		}
	}
	return nil
}

// SeedDefaultAccounts inserts the out-of-band Admin and Examiner accounts.
// Re-running against an existing database is a no-op.
func SeedDefaultAccounts() error {
	type seedAccount struct {
		name       string
		email      string
		password   string
		role       string
		branch     *string
		enrollment string
	}
	branch := "Computer Science"
	accounts := []seedAccount{
		{name: "System Admin", email: "admin@examsystem.com", password: "admin123", role: "Admin", enrollment: "ADMIN001"},
		{name: "Exam Controller", email: "examiner@examsystem.com", password: "examiner123", role: "Examiner", branch: &branch, enrollment: "EXAM001"},
	}
	for _, a := range accounts {
		_, err := DB.Exec(`INSERT INTO users (name, email, password, role, branch, digital_id_hash, is_active)
			VALUES ($1, $2, $3, $4, $5, $6, TRUE)
			ON CONFLICT (email) DO NOTHING`,
			a.name, a.email, HashPassword(a.password), a.role, a.branch, GenerateDigitalID(a.email, a.enrollment))
		if err != nil {
			return fmt.Errorf("error seeding account %s: %w", a.email, err)
		}
	}
	return nil
}

// ResetTables drops every table in foreign-key-safe order. Only for
// scratch databases; nothing in the server calls this.
func ResetTables() error {
	drops := []string{
		"DROP TABLE IF EXISTS password_reset_tokens",
		"DROP TABLE IF EXISTS questions",
		"DROP TABLE IF EXISTS exams",
		"DROP TABLE IF EXISTS users",
	}
	for _, sql := range drops {
		if _, err := DB.Exec(sql); err != nil {
			return fmt.Errorf("error dropping table: %w", err)
		}
	}
	return nil
}
