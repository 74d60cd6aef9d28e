package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"prepsim/internal/common"
	"prepsim/internal/domain/model"
)

type QuestionRepository interface {
	FindByID(ctx context.Context, id string) (*model.Question, error)
	ListBySubject(ctx context.Context, subjectID string) ([]model.Question, error)
	List(ctx context.Context, subjectID string, limit int) ([]model.Question, error)
	RandomBySubject(ctx context.Context, subjectID string, limit int) ([]model.Question, error)
	FindReadingText(ctx context.Context, id string) (*model.ReadingText, error)
}

type pgQuestionRepository struct {
	db *sql.DB
}

func NewPgQuestionRepository(db *sql.DB) QuestionRepository {
	return &pgQuestionRepository{db: db}
}

const questionColumns = `id, subject_id, topic, text, options, correct_answer, explanation,
	image_url, option_images, reading_text_id, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanQuestion(row rowScanner) (*model.Question, error) {
	q := &model.Question{}
	var options, optionImages []byte
	err := row.Scan(
		&q.ID, &q.SubjectID, &q.Topic, &q.Text, &options, &q.CorrectAnswer,
		&q.Explanation, &q.ImageURL, &optionImages, &q.ReadingTextID,
		&q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(options, &q.Options); err != nil {
		return nil, fmt.Errorf("decode options for question %s: %w", q.ID, err)
	}
	if len(optionImages) > 0 {
		if err := json.Unmarshal(optionImages, &q.OptionImages); err != nil {
			return nil, fmt.Errorf("decode option_images for question %s: %w", q.ID, err)
		}
	}
	return q, nil
}

func (r *pgQuestionRepository) FindByID(ctx context.Context, id string) (*model.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE id = $1`
	q, err := scanQuestion(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgQuestionRepository.FindByID: %w", err)
	}
	return q, nil
}

func (r *pgQuestionRepository) ListBySubject(ctx context.Context, subjectID string) ([]model.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE subject_id = $1`
	return r.queryQuestions(ctx, "ListBySubject", query, subjectID)
}

func (r *pgQuestionRepository) List(ctx context.Context, subjectID string, limit int) ([]model.Question, error) {
	if subjectID != "" {
		query := `SELECT ` + questionColumns + ` FROM questions WHERE subject_id = $1 ORDER BY created_at DESC LIMIT $2`
		return r.queryQuestions(ctx, "List", query, subjectID, limit)
	}
	query := `SELECT ` + questionColumns + ` FROM questions ORDER BY created_at DESC LIMIT $1`
	return r.queryQuestions(ctx, "List", query, limit)
}

// RandomBySubject draws a uniform sample for practice mode. The draw is
// server-side; exam selection uses the injectable RNG path instead.
func (r *pgQuestionRepository) RandomBySubject(ctx context.Context, subjectID string, limit int) ([]model.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE subject_id = $1 ORDER BY random() LIMIT $2`
	return r.queryQuestions(ctx, "RandomBySubject", query, subjectID, limit)
}

func (r *pgQuestionRepository) queryQuestions(ctx context.Context, method, query string, args ...interface{}) ([]model.Question, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pgQuestionRepository.%s query: %w", method, err)
	}
	defer rows.Close()

	questions := []model.Question{}
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("pgQuestionRepository.%s scan: %w", method, err)
		}
		questions = append(questions, *q)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgQuestionRepository.%s rows.Err: %w", method, err)
	}
	return questions, nil
}

func (r *pgQuestionRepository) FindReadingText(ctx context.Context, id string) (*model.ReadingText, error) {
	query := `SELECT id, title, content, subject_id, created_at FROM reading_texts WHERE id = $1`
	rt := &model.ReadingText{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&rt.ID, &rt.Title, &rt.Content, &rt.SubjectID, &rt.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgQuestionRepository.FindReadingText: %w", err)
	}
	return rt, nil
}
