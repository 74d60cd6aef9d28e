package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"prepsim/internal/common"
	"prepsim/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

// AttemptRepository owns attempt persistence. The at-most-one
// in-progress attempt per (user, simulator) invariant is enforced by a
// partial unique index in the database; InsertIfAbsent is the single
// seam where a lost creation race is detected and recovered.
type AttemptRepository interface {
	// InsertIfAbsent inserts a new in-progress attempt. If another
	// request already holds the in-progress slot for this
	// (user, simulator), it returns that attempt with created=false
	// instead of an error.
	InsertIfAbsent(ctx context.Context, attempt *model.Attempt) (result *model.Attempt, created bool, err error)

	FindInProgress(ctx context.Context, userID, simulatorID string) (*model.Attempt, error)
	FindByIDForUser(ctx context.Context, id, userID string) (*model.Attempt, error)
	ListByUser(ctx context.Context, userID string) ([]model.Attempt, error)

	UpdateProgress(ctx context.Context, id string, progress model.SavedProgress) error

	// CompleteIfInProgress writes the scored, completed attempt only if
	// it is still in progress. Returns false when the status check
	// fails, i.e. another request finished the attempt first.
	CompleteIfInProgress(ctx context.Context, attempt *model.Attempt) (bool, error)

	// AbandonIfInProgress flips an unanswered attempt straight to
	// abandoned, same compare-and-swap rule.
	AbandonIfInProgress(ctx context.Context, id string, at time.Time) (bool, error)

	CountCompletedByArea(ctx context.Context, userID string) (map[string]int, error)
	CountCompleted(ctx context.Context, userID string) (int, error)
}

type pgAttemptRepository struct {
	db *sql.DB
}

func NewPgAttemptRepository(db *sql.DB) AttemptRepository {
	return &pgAttemptRepository{db: db}
}

const attemptColumns = `id, simulator_id, user_id, status, started_at, finished_at, abandoned_at,
	score, total_questions, duration_minutes, question_ids, answers, subject_scores,
	saved_progress, time_taken_minutes, completed_partially`

func (r *pgAttemptRepository) InsertIfAbsent(ctx context.Context, a *model.Attempt) (*model.Attempt, bool, error) {
	questionIDs, err := json.Marshal(a.QuestionIDs)
	if err != nil {
		return nil, false, fmt.Errorf("pgAttemptRepository.InsertIfAbsent encode question_ids: %w", err)
	}
	progress, err := json.Marshal(a.SavedProgress)
	if err != nil {
		return nil, false, fmt.Errorf("pgAttemptRepository.InsertIfAbsent encode saved_progress: %w", err)
	}

	query := `INSERT INTO attempts (id, simulator_id, user_id, status, started_at,
	            total_questions, duration_minutes, question_ids, saved_progress)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err = r.db.ExecContext(ctx, query,
		a.ID, a.SimulatorID, a.UserID, a.Status, a.StartedAt,
		a.TotalQuestions, a.DurationMinutes, questionIDs, progress,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// Lost the creation race: the partial unique index rejected a
			// second in-progress attempt. Return the winner's row.
			existing, ferr := r.FindInProgress(ctx, a.UserID, a.SimulatorID)
			if ferr != nil {
				return nil, false, fmt.Errorf("pgAttemptRepository.InsertIfAbsent refetch: %w", ferr)
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("pgAttemptRepository.InsertIfAbsent: %w", err)
	}
	return a, true, nil
}

func (r *pgAttemptRepository) FindInProgress(ctx context.Context, userID, simulatorID string) (*model.Attempt, error) {
	query := `SELECT ` + attemptColumns + ` FROM attempts
	          WHERE user_id = $1 AND simulator_id = $2 AND status = $3`
	a, err := scanAttempt(r.db.QueryRowContext(ctx, query, userID, simulatorID, model.AttemptInProgress))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgAttemptRepository.FindInProgress: %w", err)
	}
	return a, nil
}

func (r *pgAttemptRepository) FindByIDForUser(ctx context.Context, id, userID string) (*model.Attempt, error) {
	query := `SELECT ` + attemptColumns + ` FROM attempts WHERE id = $1 AND user_id = $2`
	a, err := scanAttempt(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgAttemptRepository.FindByIDForUser: %w", err)
	}
	return a, nil
}

func (r *pgAttemptRepository) ListByUser(ctx context.Context, userID string) ([]model.Attempt, error) {
	query := `SELECT ` + attemptColumns + ` FROM attempts
	          WHERE user_id = $1 ORDER BY started_at DESC LIMIT 100`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("pgAttemptRepository.ListByUser query: %w", err)
	}
	defer rows.Close()

	attempts := []model.Attempt{}
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, fmt.Errorf("pgAttemptRepository.ListByUser scan: %w", err)
		}
		attempts = append(attempts, *a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgAttemptRepository.ListByUser rows.Err: %w", err)
	}
	return attempts, nil
}

func (r *pgAttemptRepository) UpdateProgress(ctx context.Context, id string, progress model.SavedProgress) error {
	encoded, err := json.Marshal(progress)
	if err != nil {
		return fmt.Errorf("pgAttemptRepository.UpdateProgress encode: %w", err)
	}
	query := `UPDATE attempts SET saved_progress = $1 WHERE id = $2`
	if _, err := r.db.ExecContext(ctx, query, encoded, id); err != nil {
		return fmt.Errorf("pgAttemptRepository.UpdateProgress: %w", err)
	}
	return nil
}

func (r *pgAttemptRepository) CompleteIfInProgress(ctx context.Context, a *model.Attempt) (bool, error) {
	answers, err := json.Marshal(a.Answers)
	if err != nil {
		return false, fmt.Errorf("pgAttemptRepository.CompleteIfInProgress encode answers: %w", err)
	}
	subjectScores, err := json.Marshal(a.SubjectScores)
	if err != nil {
		return false, fmt.Errorf("pgAttemptRepository.CompleteIfInProgress encode subject_scores: %w", err)
	}

	query := `UPDATE attempts SET
	            status = $1, finished_at = $2, score = $3, answers = $4,
	            subject_scores = $5, time_taken_minutes = $6, completed_partially = $7
	          WHERE id = $8 AND status = $9`
	res, err := r.db.ExecContext(ctx, query,
		model.AttemptCompleted, a.FinishedAt, a.Score, answers,
		subjectScores, a.TimeTakenMinutes, a.CompletedPartially,
		a.ID, model.AttemptInProgress,
	)
	if err != nil {
		return false, fmt.Errorf("pgAttemptRepository.CompleteIfInProgress: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("pgAttemptRepository.CompleteIfInProgress rows affected: %w", err)
	}
	return affected == 1, nil
}

func (r *pgAttemptRepository) AbandonIfInProgress(ctx context.Context, id string, at time.Time) (bool, error) {
	query := `UPDATE attempts SET status = $1, abandoned_at = $2 WHERE id = $3 AND status = $4`
	res, err := r.db.ExecContext(ctx, query, model.AttemptAbandoned, at, id, model.AttemptInProgress)
	if err != nil {
		return false, fmt.Errorf("pgAttemptRepository.AbandonIfInProgress: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("pgAttemptRepository.AbandonIfInProgress rows affected: %w", err)
	}
	return affected == 1, nil
}

func (r *pgAttemptRepository) CountCompletedByArea(ctx context.Context, userID string) (map[string]int, error) {
	query := `
        SELECT s.area, COUNT(*)
        FROM attempts a
        JOIN simulators s ON s.id = a.simulator_id
        WHERE a.user_id = $1 AND a.status = $2
        GROUP BY s.area`
	rows, err := r.db.QueryContext(ctx, query, userID, model.AttemptCompleted)
	if err != nil {
		return nil, fmt.Errorf("pgAttemptRepository.CountCompletedByArea query: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var area string
		var count int
		if err := rows.Scan(&area, &count); err != nil {
			return nil, fmt.Errorf("pgAttemptRepository.CountCompletedByArea scan: %w", err)
		}
		counts[area] = count
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgAttemptRepository.CountCompletedByArea rows.Err: %w", err)
	}
	return counts, nil
}

func (r *pgAttemptRepository) CountCompleted(ctx context.Context, userID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM attempts WHERE user_id = $1 AND status = $2`
	if err := r.db.QueryRowContext(ctx, query, userID, model.AttemptCompleted).Scan(&count); err != nil {
		return 0, fmt.Errorf("pgAttemptRepository.CountCompleted: %w", err)
	}
	return count, nil
}

func scanAttempt(row rowScanner) (*model.Attempt, error) {
	a := &model.Attempt{}
	var questionIDs, answers, subjectScores, savedProgress []byte
	err := row.Scan(
		&a.ID, &a.SimulatorID, &a.UserID, &a.Status, &a.StartedAt, &a.FinishedAt,
		&a.AbandonedAt, &a.Score, &a.TotalQuestions, &a.DurationMinutes,
		&questionIDs, &answers, &subjectScores, &savedProgress,
		&a.TimeTakenMinutes, &a.CompletedPartially,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(questionIDs, &a.QuestionIDs); err != nil {
		return nil, fmt.Errorf("decode question_ids for attempt %s: %w", a.ID, err)
	}
	if len(answers) > 0 {
		if err := json.Unmarshal(answers, &a.Answers); err != nil {
			return nil, fmt.Errorf("decode answers for attempt %s: %w", a.ID, err)
		}
	}
	if len(subjectScores) > 0 {
		if err := json.Unmarshal(subjectScores, &a.SubjectScores); err != nil {
			return nil, fmt.Errorf("decode subject_scores for attempt %s: %w", a.ID, err)
		}
	}
	if len(savedProgress) > 0 {
		if err := json.Unmarshal(savedProgress, &a.SavedProgress); err != nil {
			return nil, fmt.Errorf("decode saved_progress for attempt %s: %w", a.ID, err)
		}
	}
	return a, nil
}
