package model

import "time"

type SubscriptionStatus string

const (
	SubscriptionActive  SubscriptionStatus = "active"
	SubscriptionExpired SubscriptionStatus = "expired"
)

type Subscription struct {
	ID        string             `json:"subscription_id"`
	UserID    string             `json:"user_id"`
	PlanName  string             `json:"plan_name"`
	Status    SubscriptionStatus `json:"status"`
	ExpiresAt time.Time          `json:"expires_at"`
	CreatedAt time.Time          `json:"created_at"`
}

// PracticeSession records one subject-practice draw, used to enforce
// the daily free-tier practice limits.
type PracticeSession struct {
	ID            string    `json:"practice_session_id"`
	UserID        string    `json:"user_id"`
	SubjectID     string    `json:"subject_id"`
	QuestionCount int       `json:"question_count"`
	StartedAt     time.Time `json:"started_at"`
}
