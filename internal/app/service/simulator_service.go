package service

import (
	"context"

	"prepsim/internal/app/exam"
	"prepsim/internal/domain/model"
	"prepsim/internal/domain/repository"
)

type SimulatorService struct {
	simulatorRepo repository.SimulatorRepository
	examCfg       *exam.Config
}

func NewSimulatorService(simulatorRepo repository.SimulatorRepository, examCfg *exam.Config) *SimulatorService {
	return &SimulatorService{simulatorRepo: simulatorRepo, examCfg: examCfg}
}

// SimulatorView is a simulator enriched with its area's display info
// and the nominal exam parameters.
type SimulatorView struct {
	*model.Simulator
	AreaName        string `json:"area_name"`
	AreaColor       string `json:"area_color"`
	TotalQuestions  int    `json:"total_questions"`
	DurationMinutes int    `json:"duration_minutes"`
}

func (s *SimulatorService) view(sim *model.Simulator) SimulatorView {
	v := SimulatorView{
		Simulator:       sim,
		TotalQuestions:  exam.TotalQuestions,
		DurationMinutes: exam.ExamDurationMinutes,
	}
	if area, ok := s.examCfg.Area(sim.Area); ok {
		v.AreaName = area.Name
		v.AreaColor = area.Color
	}
	return v
}

func (s *SimulatorService) List(ctx context.Context) ([]SimulatorView, error) {
	sims, err := s.simulatorRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]SimulatorView, 0, len(sims))
	for i := range sims {
		out = append(out, s.view(&sims[i]))
	}
	return out, nil
}

func (s *SimulatorService) Get(ctx context.Context, id string) (*SimulatorView, error) {
	sim, err := s.simulatorRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	v := s.view(sim)
	return &v, nil
}
