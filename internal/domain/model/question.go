package model

import "time"

type Question struct {
	ID            string    `json:"question_id"`
	SubjectID     string    `json:"subject_id"`
	Topic         string    `json:"topic"`
	Text          string    `json:"text"`
	Options       []string  `json:"options"` // Exactly 4
	CorrectAnswer int       `json:"correct_answer"` // 0-3
	Explanation   string    `json:"explanation"`
	ImageURL      *string   `json:"image_url,omitempty"`
	OptionImages  []*string `json:"option_images,omitempty"`
	ReadingTextID *string   `json:"reading_text_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// QuestionView is the student-facing shape: no correct answer, no
// explanation, subject name denormalized for display.
type QuestionView struct {
	QuestionID   string    `json:"question_id"`
	SubjectID    string    `json:"subject_id"`
	SubjectName  string    `json:"subject_name"`
	Topic        string    `json:"topic"`
	Text         string    `json:"text"`
	Options      []string  `json:"options"`
	ImageURL     *string   `json:"image_url,omitempty"`
	OptionImages []*string `json:"option_images,omitempty"`
	ReadingText  *string   `json:"reading_text"`
}

type ReadingText struct {
	ID        string    `json:"reading_text_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	SubjectID *string   `json:"subject_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
