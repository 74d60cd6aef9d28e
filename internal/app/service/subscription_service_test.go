package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"prepsim/internal/domain/model"
	"prepsim/internal/platform/config"
)

func testLimitsConfig() *config.Config {
	return &config.Config{
		FreeSimulatorsPerArea:       3,
		FreeTotalSimulatorsLimit:    12,
		FreePracticeAttemptsPerDay:  5,
		FreePracticeQuestionsPerDay: 10,
	}
}

func completedAttempt(id, userID, simID string) *model.Attempt {
	return &model.Attempt{
		ID: id, UserID: userID, SimulatorID: simID,
		Status: model.AttemptCompleted, StartedAt: time.Now().UTC(),
	}
}

func TestStatusActiveSubscription(t *testing.T) {
	subRepo := &fakeSubscriptionRepo{active: &model.Subscription{
		ID: "sub1", UserID: "u1", PlanName: "mensual",
		Status:    model.SubscriptionActive,
		ExpiresAt: time.Now().UTC().Add(24 * time.Hour),
	}}
	svc := NewSubscriptionService(subRepo, newFakeAttemptRepo(), testLimitsConfig())

	status, err := svc.Status(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !status.IsPremium {
		t.Error("expected premium")
	}
	if status.PlanName == nil || *status.PlanName != "mensual" {
		t.Errorf("plan = %v", status.PlanName)
	}
}

func TestStatusLazilyExpiresStaleSubscription(t *testing.T) {
	subRepo := &fakeSubscriptionRepo{active: &model.Subscription{
		ID: "sub1", UserID: "u1",
		Status:    model.SubscriptionActive,
		ExpiresAt: time.Now().UTC().Add(-time.Hour),
	}}
	svc := NewSubscriptionService(subRepo, newFakeAttemptRepo(), testLimitsConfig())

	status, err := svc.Status(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.IsPremium {
		t.Error("expired subscription must not grant premium")
	}
	if len(subRepo.expired) != 1 || subRepo.expired[0] != "sub1" {
		t.Errorf("expected sub1 marked expired, got %v", subRepo.expired)
	}
}

func TestCheckSimulatorAccessFreeTier(t *testing.T) {
	attemptRepo := newFakeAttemptRepo()
	attemptRepo.simAreas["sim1"] = "area_1"
	svc := NewSubscriptionService(&fakeSubscriptionRepo{}, attemptRepo, testLimitsConfig())
	user := &model.User{ID: "u1", Role: model.RoleUser}

	ok, err := svc.CheckSimulatorAccess(context.Background(), user, "area_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("fresh free user should have access")
	}

	for i := 0; i < 3; i++ {
		attemptRepo.attempts[fmt.Sprintf("a%d", i)] = completedAttempt(fmt.Sprintf("a%d", i), "u1", "sim1")
	}

	ok, err = svc.CheckSimulatorAccess(context.Background(), user, "area_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("per-area limit reached, access should be denied")
	}
}

func TestCheckSimulatorAccessTotalLimit(t *testing.T) {
	attemptRepo := newFakeAttemptRepo()
	// Two completed in each of six areas: under every per-area cap but at
	// the total cap of twelve.
	for area := 0; area < 6; area++ {
		simID := fmt.Sprintf("sim%d", area)
		attemptRepo.simAreas[simID] = fmt.Sprintf("area_%d", area)
		for i := 0; i < 2; i++ {
			id := fmt.Sprintf("a%d-%d", area, i)
			attemptRepo.attempts[id] = completedAttempt(id, "u1", simID)
		}
	}
	svc := NewSubscriptionService(&fakeSubscriptionRepo{}, attemptRepo, testLimitsConfig())

	ok, err := svc.CheckSimulatorAccess(context.Background(), &model.User{ID: "u1", Role: model.RoleUser}, "area_9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("total limit reached, access should be denied")
	}
}

func TestCheckSimulatorAccessBypasses(t *testing.T) {
	attemptRepo := newFakeAttemptRepo()
	attemptRepo.simAreas["sim1"] = "area_1"
	for i := 0; i < 20; i++ {
		id := fmt.Sprintf("a%d", i)
		attemptRepo.attempts[id] = completedAttempt(id, "u1", "sim1")
	}

	subRepo := &fakeSubscriptionRepo{active: &model.Subscription{
		ID: "sub1", UserID: "u1",
		Status:    model.SubscriptionActive,
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}}
	svc := NewSubscriptionService(subRepo, attemptRepo, testLimitsConfig())

	ok, err := svc.CheckSimulatorAccess(context.Background(), &model.User{ID: "u1", Role: model.RoleUser}, "area_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("premium user should bypass limits")
	}

	svcFree := NewSubscriptionService(&fakeSubscriptionRepo{}, attemptRepo, testLimitsConfig())
	ok, err = svcFree.CheckSimulatorAccess(context.Background(), &model.User{ID: "u1", Role: model.RoleAdmin}, "area_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("admin should bypass limits")
	}
}

func TestCheckPracticeAccessCapsToRemaining(t *testing.T) {
	subRepo := &fakeSubscriptionRepo{}
	svc := NewSubscriptionService(subRepo, newFakeAttemptRepo(), testLimitsConfig())
	user := &model.User{ID: "u1", Role: model.RoleUser}

	if err := svc.RecordPracticeSession(context.Background(), "u1", "subj_a", 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	access, err := svc.CheckPracticeAccess(context.Background(), user, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !access.CanAccess {
		t.Fatal("expected access")
	}
	// 7 of 10 daily questions used, so the draw is capped at 3.
	if access.MaxQuestions != 3 {
		t.Errorf("max questions = %d, want 3", access.MaxQuestions)
	}
}

func TestCheckPracticeAccessSessionLimit(t *testing.T) {
	subRepo := &fakeSubscriptionRepo{}
	svc := NewSubscriptionService(subRepo, newFakeAttemptRepo(), testLimitsConfig())
	user := &model.User{ID: "u1", Role: model.RoleUser}

	for i := 0; i < 5; i++ {
		if err := svc.RecordPracticeSession(context.Background(), "u1", "subj_a", 1); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	access, err := svc.CheckPracticeAccess(context.Background(), user, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if access.CanAccess {
		t.Error("session limit reached, access should be denied")
	}
	if access.LimitReason == nil {
		t.Error("expected a limit reason")
	}
}

func TestCheckPracticeAccessPremiumUncapped(t *testing.T) {
	subRepo := &fakeSubscriptionRepo{active: &model.Subscription{
		ID: "sub1", UserID: "u1",
		Status:    model.SubscriptionActive,
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}}
	svc := NewSubscriptionService(subRepo, newFakeAttemptRepo(), testLimitsConfig())

	access, err := svc.CheckPracticeAccess(context.Background(), &model.User{ID: "u1", Role: model.RoleUser}, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !access.CanAccess || !access.IsPremium {
		t.Errorf("access = %+v", access)
	}
	if access.MaxQuestions != premiumMaxPracticeQuestions {
		t.Errorf("max questions = %d, want %d", access.MaxQuestions, premiumMaxPracticeQuestions)
	}
}

func TestLimitsSummary(t *testing.T) {
	attemptRepo := newFakeAttemptRepo()
	attemptRepo.simAreas["sim1"] = "area_1"
	attemptRepo.attempts["a1"] = completedAttempt("a1", "u1", "sim1")

	subRepo := &fakeSubscriptionRepo{}
	svc := NewSubscriptionService(subRepo, attemptRepo, testLimitsConfig())
	if err := svc.RecordPracticeSession(context.Background(), "u1", "subj_a", 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	limits, err := svc.Limits(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if limits.IsPremium {
		t.Error("free user reported premium")
	}
	if got := limits.Simulators["total_remaining"]; got != 11 {
		t.Errorf("total remaining = %v, want 11", got)
	}
	if got := limits.Practice["questions_remaining"]; got != 6 {
		t.Errorf("questions remaining = %v, want 6", got)
	}
	if got := limits.Practice["attempts_remaining"]; got != 4 {
		t.Errorf("attempts remaining = %v, want 4", got)
	}
}
