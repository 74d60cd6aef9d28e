package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"prepsim/internal/common"
	"prepsim/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type SubjectRepository interface {
	Create(ctx context.Context, subject *model.Subject) error
	FindByID(ctx context.Context, id string) (*model.Subject, error)
	FindBySlug(ctx context.Context, slug string) (*model.Subject, error)
	ListWithCounts(ctx context.Context) ([]model.SubjectWithCount, error)
}

type pgSubjectRepository struct {
	db *sql.DB
}

func NewPgSubjectRepository(db *sql.DB) SubjectRepository {
	return &pgSubjectRepository{db: db}
}

func (r *pgSubjectRepository) Create(ctx context.Context, s *model.Subject) error {
	query := `INSERT INTO subjects (id, name, slug) VALUES ($1, $2, $3)`
	_, err := r.db.ExecContext(ctx, query, s.ID, s.Name, s.Slug)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("subject with this slug already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgSubjectRepository.Create: %w", err)
	}
	return nil
}

func (r *pgSubjectRepository) FindByID(ctx context.Context, id string) (*model.Subject, error) {
	return r.findOne(ctx, `SELECT id, name, slug, created_at FROM subjects WHERE id = $1`, id)
}

func (r *pgSubjectRepository) FindBySlug(ctx context.Context, slug string) (*model.Subject, error) {
	return r.findOne(ctx, `SELECT id, name, slug, created_at FROM subjects WHERE slug = $1`, slug)
}

func (r *pgSubjectRepository) findOne(ctx context.Context, query, arg string) (*model.Subject, error) {
	subject := &model.Subject{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&subject.ID, &subject.Name, &subject.Slug, &subject.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgSubjectRepository.findOne: %w", err)
	}
	return subject, nil
}

func (r *pgSubjectRepository) ListWithCounts(ctx context.Context) ([]model.SubjectWithCount, error) {
	query := `
        SELECT s.id, s.name, s.slug, s.created_at, COUNT(q.id) AS question_count
        FROM subjects s
        LEFT JOIN questions q ON q.subject_id = s.id
        GROUP BY s.id, s.name, s.slug, s.created_at
        ORDER BY s.name ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgSubjectRepository.ListWithCounts query: %w", err)
	}
	defer rows.Close()

	subjects := []model.SubjectWithCount{}
	for rows.Next() {
		var s model.SubjectWithCount
		if err := rows.Scan(&s.ID, &s.Name, &s.Slug, &s.CreatedAt, &s.QuestionCount); err != nil {
			return nil, fmt.Errorf("pgSubjectRepository.ListWithCounts scan: %w", err)
		}
		subjects = append(subjects, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgSubjectRepository.ListWithCounts rows.Err: %w", err)
	}
	return subjects, nil
}
