package model

import "time"

type AttemptStatus string

const (
	AttemptInProgress AttemptStatus = "in_progress"
	AttemptCompleted  AttemptStatus = "completed"
	AttemptAbandoned  AttemptStatus = "abandoned"
)

// SubmittedAnswer is a raw answer as sent by the client. SelectedOption
// is a pointer so an unanswered question survives the round trip; the
// scorer treats nil or out-of-range as incorrect, never as an error.
type SubmittedAnswer struct {
	QuestionID     string `json:"question_id"`
	SelectedOption *int   `json:"selected_option"`
}

// AnswerRecord is the denormalized snapshot frozen at scoring time, so
// results stay readable even if the question is later edited or deleted.
type AnswerRecord struct {
	QuestionID     string   `json:"question_id"`
	SelectedOption *int     `json:"selected_option"`
	IsCorrect      bool     `json:"is_correct"`
	CorrectAnswer  int      `json:"correct_answer"`
	SubjectName    string   `json:"subject_name"`
	Explanation    string   `json:"explanation"`
	QuestionText   string   `json:"question_text"`
	Options        []string `json:"options"`
}

type SubjectScore struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

type SavedProgress struct {
	CurrentQuestion int               `json:"current_question"`
	TimeRemaining   int               `json:"time_remaining"` // seconds
	Answers         []SubmittedAnswer `json:"answers"`
}

type Attempt struct {
	ID              string        `json:"attempt_id"`
	SimulatorID     string        `json:"simulator_id"`
	UserID          string        `json:"user_id"`
	Status          AttemptStatus `json:"status"`
	StartedAt       time.Time     `json:"started_at"`
	FinishedAt      *time.Time    `json:"finished_at,omitempty"`
	AbandonedAt     *time.Time    `json:"abandoned_at,omitempty"`
	Score           *int          `json:"score,omitempty"`
	TotalQuestions  int           `json:"total_questions"`
	DurationMinutes int           `json:"duration_minutes"`

	// QuestionIDs is fixed at creation and defines the exam order.
	// It is never rewritten; resuming always replays the same sequence.
	QuestionIDs []string `json:"question_ids"`

	Answers            []AnswerRecord          `json:"answers,omitempty"`
	SubjectScores      map[string]SubjectScore `json:"subject_scores,omitempty"`
	SavedProgress      *SavedProgress          `json:"saved_progress,omitempty"`
	TimeTakenMinutes   *float64                `json:"time_taken_minutes,omitempty"`
	CompletedPartially bool                    `json:"completed_partially,omitempty"`
}
