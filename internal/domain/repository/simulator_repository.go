package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"prepsim/internal/common"
	"prepsim/internal/domain/model"
)

type SimulatorRepository interface {
	FindByID(ctx context.Context, id string) (*model.Simulator, error)
	List(ctx context.Context) ([]model.Simulator, error)
}

type pgSimulatorRepository struct {
	db *sql.DB
}

func NewPgSimulatorRepository(db *sql.DB) SimulatorRepository {
	return &pgSimulatorRepository{db: db}
}

func (r *pgSimulatorRepository) FindByID(ctx context.Context, id string) (*model.Simulator, error) {
	query := `SELECT id, name, area, description, created_at FROM simulators WHERE id = $1`
	s := &model.Simulator{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.Name, &s.Area, &s.Description, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgSimulatorRepository.FindByID: %w", err)
	}
	return s, nil
}

func (r *pgSimulatorRepository) List(ctx context.Context) ([]model.Simulator, error) {
	query := `SELECT id, name, area, description, created_at FROM simulators ORDER BY area ASC, name ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgSimulatorRepository.List query: %w", err)
	}
	defer rows.Close()

	simulators := []model.Simulator{}
	for rows.Next() {
		var s model.Simulator
		if err := rows.Scan(&s.ID, &s.Name, &s.Area, &s.Description, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgSimulatorRepository.List scan: %w", err)
		}
		simulators = append(simulators, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgSimulatorRepository.List rows.Err: %w", err)
	}
	return simulators, nil
}
