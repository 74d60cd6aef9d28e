package model

import "time"

type Subject struct {
	ID        string    `json:"subject_id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

// SubjectWithCount is the listing shape: a subject plus how many
// questions currently reference it.
type SubjectWithCount struct {
	Subject
	QuestionCount int `json:"question_count"`
}
