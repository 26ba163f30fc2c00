package models

import (
	"time"

	"github.com/lib/pq"
)

// Roles accepted by the users table. Only Student accounts can be created
// through the public registration endpoint; Admin and Examiner accounts are
// seeded at startup.
const (
	RoleStudent  = "Student"
	RoleExaminer = "Examiner"
	RoleAdmin    = "Admin"
)

// Question types
const (
	QuestionTypeMCQ       = "mcq"
	QuestionTypeTrueFalse = "truefalse"
)

// User model
type User struct {
	UserID           int        `json:"userId"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	Password         string     `json:"-"`
	Role             string     `json:"role"`
	Branch           *string    `json:"branch"`
	EnrollmentNumber *string    `json:"enrollmentNumber"`
	ComputerCode     *string    `json:"computerCode"`
	WalletAddress    *string    `json:"walletAddress"`
	DigitalIDHash    string     `json:"digitalIdHash"`
	IsActive         bool       `json:"isActive"`
	LastLogin        *time.Time `json:"lastLogin"`
	CreatedAt        time.Time  `json:"createdAt"`
}

// Exam model. Duration is stored redundantly in whole minutes and must stay
// consistent with StartTime/EndTime.
type Exam struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Duration  int       `json:"duration"`
}

// Question model. Correct holds the authoritative answer key; it is stripped
// from candidate-facing responses before serialization.
type Question struct {
	ID         int            `json:"id"`
	ExamID     int            `json:"examId"`
	Text       string         `json:"text"`
	Type       string         `json:"type"`
	Marks      int            `json:"marks"`
	Negative   int            `json:"negative"`
	Difficulty *string        `json:"difficulty"`
	Options    pq.StringArray `json:"options"`
	Correct    pq.StringArray `json:"correct"`
}

// PasswordResetToken model. At most one unconsumed, unexpired token exists
// per email; issuing a new one deletes the previous rows for that email.
type PasswordResetToken struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	IsUsed    bool      `json:"isUsed"`
	CreatedAt time.Time `json:"createdAt"`
}
