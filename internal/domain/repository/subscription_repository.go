package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"prepsim/internal/common"
	"prepsim/internal/domain/model"
)

type SubscriptionRepository interface {
	FindActiveByUser(ctx context.Context, userID string) (*model.Subscription, error)
	MarkExpired(ctx context.Context, subscriptionID string) error

	CreatePracticeSession(ctx context.Context, session *model.PracticeSession) error
	// PracticeUsageSince returns the number of practice sessions and the
	// total questions drawn since the given cutoff.
	PracticeUsageSince(ctx context.Context, userID string, since time.Time) (sessions int, questions int, err error)
}

type pgSubscriptionRepository struct {
	db *sql.DB
}

func NewPgSubscriptionRepository(db *sql.DB) SubscriptionRepository {
	return &pgSubscriptionRepository{db: db}
}

func (r *pgSubscriptionRepository) FindActiveByUser(ctx context.Context, userID string) (*model.Subscription, error) {
	query := `SELECT id, user_id, plan_name, status, expires_at, created_at
	          FROM subscriptions WHERE user_id = $1 AND status = $2
	          ORDER BY expires_at DESC LIMIT 1`
	s := &model.Subscription{}
	err := r.db.QueryRowContext(ctx, query, userID, model.SubscriptionActive).Scan(
		&s.ID, &s.UserID, &s.PlanName, &s.Status, &s.ExpiresAt, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgSubscriptionRepository.FindActiveByUser: %w", err)
	}
	return s, nil
}

func (r *pgSubscriptionRepository) MarkExpired(ctx context.Context, subscriptionID string) error {
	query := `UPDATE subscriptions SET status = $1 WHERE id = $2`
	if _, err := r.db.ExecContext(ctx, query, model.SubscriptionExpired, subscriptionID); err != nil {
		return fmt.Errorf("pgSubscriptionRepository.MarkExpired: %w", err)
	}
	return nil
}

func (r *pgSubscriptionRepository) CreatePracticeSession(ctx context.Context, s *model.PracticeSession) error {
	query := `INSERT INTO practice_sessions (id, user_id, subject_id, question_count, started_at)
	          VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query, s.ID, s.UserID, s.SubjectID, s.QuestionCount, s.StartedAt)
	if err != nil {
		return fmt.Errorf("pgSubscriptionRepository.CreatePracticeSession: %w", err)
	}
	return nil
}

func (r *pgSubscriptionRepository) PracticeUsageSince(ctx context.Context, userID string, since time.Time) (int, int, error) {
	query := `SELECT COUNT(*), COALESCE(SUM(question_count), 0)
	          FROM practice_sessions WHERE user_id = $1 AND started_at >= $2`
	var sessions, questions int
	if err := r.db.QueryRowContext(ctx, query, userID, since).Scan(&sessions, &questions); err != nil {
		return 0, 0, fmt.Errorf("pgSubscriptionRepository.PracticeUsageSince: %w", err)
	}
	return sessions, questions, nil
}
