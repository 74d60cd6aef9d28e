package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"prepsim/internal/common"
	"prepsim/internal/domain/model"
	"prepsim/internal/domain/repository"
	"prepsim/internal/platform/config"
)

const premiumMaxPracticeQuestions = 30

// SubscriptionService is the entitlement checker: it decides whether a
// user may start a simulator attempt or a practice draw, based on an
// active subscription or the free-tier counters.
type SubscriptionService struct {
	subscriptionRepo repository.SubscriptionRepository
	attemptRepo      repository.AttemptRepository
	cfg              *config.Config
}

func NewSubscriptionService(
	subscriptionRepo repository.SubscriptionRepository,
	attemptRepo repository.AttemptRepository,
	cfg *config.Config,
) *SubscriptionService {
	return &SubscriptionService{
		subscriptionRepo: subscriptionRepo,
		attemptRepo:      attemptRepo,
		cfg:              cfg,
	}
}

type SubscriptionStatus struct {
	IsPremium bool       `json:"is_premium"`
	PlanName  *string    `json:"plan_name"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// Status reports whether the user currently holds a live subscription.
// An active row past its expiry is flipped to expired lazily here.
func (s *SubscriptionService) Status(ctx context.Context, userID string) (SubscriptionStatus, error) {
	sub, err := s.subscriptionRepo.FindActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return SubscriptionStatus{}, nil
		}
		return SubscriptionStatus{}, err
	}
	if sub.ExpiresAt.After(time.Now().UTC()) {
		return SubscriptionStatus{
			IsPremium: true,
			PlanName:  &sub.PlanName,
			ExpiresAt: &sub.ExpiresAt,
		}, nil
	}
	if err := s.subscriptionRepo.MarkExpired(ctx, sub.ID); err != nil {
		return SubscriptionStatus{}, err
	}
	return SubscriptionStatus{}, nil
}

// CheckSimulatorAccess decides whether the user may start an attempt in
// the given area: admins and premium users always may; free users are
// held to the per-area and total completed-simulator limits.
func (s *SubscriptionService) CheckSimulatorAccess(ctx context.Context, user *model.User, area string) (bool, error) {
	if user.Role == model.RoleAdmin {
		return true, nil
	}
	status, err := s.Status(ctx, user.ID)
	if err != nil {
		return false, err
	}
	if status.IsPremium {
		return true, nil
	}

	byArea, err := s.attemptRepo.CountCompletedByArea(ctx, user.ID)
	if err != nil {
		return false, err
	}
	if byArea[area] >= s.cfg.FreeSimulatorsPerArea {
		return false, nil
	}

	total, err := s.attemptRepo.CountCompleted(ctx, user.ID)
	if err != nil {
		return false, err
	}
	return total < s.cfg.FreeTotalSimulatorsLimit, nil
}

// SimulatorAccessDeniedMessage is the user-facing explanation when
// CheckSimulatorAccess returns false.
func (s *SubscriptionService) SimulatorAccessDeniedMessage() string {
	return fmt.Sprintf(
		"Has alcanzado el límite de %d simulacros gratuitos para esta área. Suscríbete para acceso ilimitado.",
		s.cfg.FreeSimulatorsPerArea,
	)
}

type PracticeAccess struct {
	CanAccess    bool    `json:"can_access"`
	IsPremium    bool    `json:"is_premium"`
	MaxQuestions int     `json:"max_questions"`
	LimitReason  *string `json:"limit_reason"`
}

// CheckPracticeAccess decides whether the user may draw practice
// questions right now and how many at most. Free users get capped, not
// rejected, while daily headroom remains.
func (s *SubscriptionService) CheckPracticeAccess(ctx context.Context, user *model.User, requested int) (PracticeAccess, error) {
	if user.Role == model.RoleAdmin {
		return PracticeAccess{CanAccess: true, IsPremium: true, MaxQuestions: premiumMaxPracticeQuestions}, nil
	}
	status, err := s.Status(ctx, user.ID)
	if err != nil {
		return PracticeAccess{}, err
	}
	if status.IsPremium {
		return PracticeAccess{CanAccess: true, IsPremium: true, MaxQuestions: premiumMaxPracticeQuestions}, nil
	}

	sessions, questions, err := s.practiceUsageToday(ctx, user.ID)
	if err != nil {
		return PracticeAccess{}, err
	}

	if sessions >= s.cfg.FreePracticeAttemptsPerDay {
		reason := fmt.Sprintf(
			"Has alcanzado el límite de %d prácticas por día. Suscríbete para práctica ilimitada.",
			s.cfg.FreePracticeAttemptsPerDay,
		)
		return PracticeAccess{LimitReason: &reason}, nil
	}

	remaining := s.cfg.FreePracticeQuestionsPerDay - questions
	if remaining <= 0 {
		reason := fmt.Sprintf(
			"Has alcanzado el límite de %d preguntas de práctica por día. Suscríbete para práctica ilimitada.",
			s.cfg.FreePracticeQuestionsPerDay,
		)
		return PracticeAccess{LimitReason: &reason}, nil
	}

	allowed := requested
	if allowed > remaining {
		allowed = remaining
	}
	return PracticeAccess{CanAccess: true, MaxQuestions: allowed}, nil
}

func (s *SubscriptionService) practiceUsageToday(ctx context.Context, userID string) (int, int, error) {
	now := time.Now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return s.subscriptionRepo.PracticeUsageSince(ctx, userID, dayStart)
}

// RecordPracticeSession books a practice draw against the daily quota.
func (s *SubscriptionService) RecordPracticeSession(ctx context.Context, userID, subjectID string, questionCount int) error {
	return s.subscriptionRepo.CreatePracticeSession(ctx, &model.PracticeSession{
		ID:            newID("practice_"),
		UserID:        userID,
		SubjectID:     subjectID,
		QuestionCount: questionCount,
		StartedAt:     time.Now().UTC(),
	})
}

type UsageLimits struct {
	IsPremium  bool                   `json:"is_premium"`
	Simulators map[string]interface{} `json:"simulators"`
	Practice   map[string]interface{} `json:"practice"`
}

// Limits summarizes a user's remaining free-tier allowance.
func (s *SubscriptionService) Limits(ctx context.Context, userID string) (*UsageLimits, error) {
	status, err := s.Status(ctx, userID)
	if err != nil {
		return nil, err
	}
	if status.IsPremium {
		return &UsageLimits{
			IsPremium:  true,
			Simulators: map[string]interface{}{"limit": "unlimited"},
			Practice:   map[string]interface{}{"limit": "unlimited"},
		}, nil
	}

	byArea, err := s.attemptRepo.CountCompletedByArea(ctx, userID)
	if err != nil {
		return nil, err
	}
	total := 0
	remainingPerArea := map[string]int{}
	for area, count := range byArea {
		total += count
		remaining := s.cfg.FreeSimulatorsPerArea - count
		if remaining < 0 {
			remaining = 0
		}
		remainingPerArea[area] = remaining
	}

	sessions, questions, err := s.practiceUsageToday(ctx, userID)
	if err != nil {
		return nil, err
	}

	totalRemaining := s.cfg.FreeTotalSimulatorsLimit - total
	if totalRemaining < 0 {
		totalRemaining = 0
	}
	attemptsRemaining := s.cfg.FreePracticeAttemptsPerDay - sessions
	if attemptsRemaining < 0 {
		attemptsRemaining = 0
	}
	questionsRemaining := s.cfg.FreePracticeQuestionsPerDay - questions
	if questionsRemaining < 0 {
		questionsRemaining = 0
	}

	return &UsageLimits{
		Simulators: map[string]interface{}{
			"used_by_area":       byArea,
			"limit_per_area":     s.cfg.FreeSimulatorsPerArea,
			"remaining_per_area": remainingPerArea,
			"total_used":         total,
			"total_limit":        s.cfg.FreeTotalSimulatorsLimit,
			"total_remaining":    totalRemaining,
		},
		Practice: map[string]interface{}{
			"attempts_today":      sessions,
			"attempts_limit":      s.cfg.FreePracticeAttemptsPerDay,
			"attempts_remaining":  attemptsRemaining,
			"questions_today":     questions,
			"questions_limit":     s.cfg.FreePracticeQuestionsPerDay,
			"questions_remaining": questionsRemaining,
		},
	}, nil
}
