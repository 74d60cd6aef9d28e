package service

import (
	"context"
	"sort"
	"time"

	"prepsim/internal/common"
	"prepsim/internal/domain/model"
)

// In-memory repository fakes mirroring the Postgres implementations'
// contracts, including the partial-unique-index semantics of
// InsertIfAbsent and the compare-and-swap completion methods.

func intPtr(n int) *int { return &n }

type fakeAttemptRepo struct {
	attempts map[string]*model.Attempt
	simAreas map[string]string // simulator ID -> area, for the counters

	// afterFind runs after FindByIDForUser has taken its snapshot,
	// letting tests interleave a concurrent state change between a
	// service's read and its compare-and-swap write.
	afterFind func()

	// afterFindInProgress runs when FindInProgress comes up empty,
	// letting tests land a competing attempt between the creation
	// pre-check and the insert.
	afterFindInProgress func()

	// findInProgressErr, when set, is returned by FindInProgress in
	// place of a lookup, simulating a storage failure.
	findInProgressErr error
}

func newFakeAttemptRepo() *fakeAttemptRepo {
	return &fakeAttemptRepo{
		attempts: map[string]*model.Attempt{},
		simAreas: map[string]string{},
	}
}

func (f *fakeAttemptRepo) InsertIfAbsent(_ context.Context, attempt *model.Attempt) (*model.Attempt, bool, error) {
	for _, existing := range f.attempts {
		if existing.UserID == attempt.UserID &&
			existing.SimulatorID == attempt.SimulatorID &&
			existing.Status == model.AttemptInProgress {
			cp := *existing
			return &cp, false, nil
		}
	}
	cp := *attempt
	f.attempts[attempt.ID] = &cp
	out := cp
	return &out, true, nil
}

func (f *fakeAttemptRepo) FindInProgress(_ context.Context, userID, simulatorID string) (*model.Attempt, error) {
	if f.findInProgressErr != nil {
		return nil, f.findInProgressErr
	}
	for _, a := range f.attempts {
		if a.UserID == userID && a.SimulatorID == simulatorID && a.Status == model.AttemptInProgress {
			cp := *a
			return &cp, nil
		}
	}
	if f.afterFindInProgress != nil {
		f.afterFindInProgress()
	}
	return nil, common.ErrNotFound
}

func (f *fakeAttemptRepo) FindByIDForUser(_ context.Context, id, userID string) (*model.Attempt, error) {
	a, ok := f.attempts[id]
	if !ok || a.UserID != userID {
		return nil, common.ErrNotFound
	}
	cp := *a
	if f.afterFind != nil {
		f.afterFind()
	}
	return &cp, nil
}

func (f *fakeAttemptRepo) ListByUser(_ context.Context, userID string) ([]model.Attempt, error) {
	var out []model.Attempt
	for _, a := range f.attempts {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	return out, nil
}

func (f *fakeAttemptRepo) UpdateProgress(_ context.Context, id string, progress model.SavedProgress) error {
	a, ok := f.attempts[id]
	if !ok {
		return common.ErrNotFound
	}
	a.SavedProgress = &progress
	return nil
}

func (f *fakeAttemptRepo) CompleteIfInProgress(_ context.Context, attempt *model.Attempt) (bool, error) {
	stored, ok := f.attempts[attempt.ID]
	if !ok || stored.Status != model.AttemptInProgress {
		return false, nil
	}
	cp := *attempt
	f.attempts[attempt.ID] = &cp
	return true, nil
}

func (f *fakeAttemptRepo) AbandonIfInProgress(_ context.Context, id string, at time.Time) (bool, error) {
	stored, ok := f.attempts[id]
	if !ok || stored.Status != model.AttemptInProgress {
		return false, nil
	}
	stored.Status = model.AttemptAbandoned
	stored.AbandonedAt = &at
	return true, nil
}

func (f *fakeAttemptRepo) CountCompletedByArea(_ context.Context, userID string) (map[string]int, error) {
	out := map[string]int{}
	for _, a := range f.attempts {
		if a.UserID == userID && a.Status == model.AttemptCompleted {
			out[f.simAreas[a.SimulatorID]]++
		}
	}
	return out, nil
}

func (f *fakeAttemptRepo) CountCompleted(_ context.Context, userID string) (int, error) {
	count := 0
	for _, a := range f.attempts {
		if a.UserID == userID && a.Status == model.AttemptCompleted {
			count++
		}
	}
	return count, nil
}

type fakeSimulatorRepo struct {
	sims map[string]*model.Simulator

	// findErr, when set, is returned by FindByID in place of a lookup.
	findErr error
}

func (f *fakeSimulatorRepo) FindByID(_ context.Context, id string) (*model.Simulator, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	s, ok := f.sims[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSimulatorRepo) List(_ context.Context) ([]model.Simulator, error) {
	out := make([]model.Simulator, 0, len(f.sims))
	for _, s := range f.sims {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeSubjectRepo struct {
	byID   map[string]*model.Subject
	bySlug map[string]*model.Subject
}

func newFakeSubjectRepo(subjects ...*model.Subject) *fakeSubjectRepo {
	f := &fakeSubjectRepo{byID: map[string]*model.Subject{}, bySlug: map[string]*model.Subject{}}
	for _, s := range subjects {
		f.byID[s.ID] = s
		f.bySlug[s.Slug] = s
	}
	return f
}

func (f *fakeSubjectRepo) Create(_ context.Context, subject *model.Subject) error {
	if _, ok := f.bySlug[subject.Slug]; ok {
		return common.ErrConflict
	}
	cp := *subject
	f.byID[subject.ID] = &cp
	f.bySlug[subject.Slug] = &cp
	return nil
}

func (f *fakeSubjectRepo) FindByID(_ context.Context, id string) (*model.Subject, error) {
	s, ok := f.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSubjectRepo) FindBySlug(_ context.Context, slug string) (*model.Subject, error) {
	s, ok := f.bySlug[slug]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSubjectRepo) ListWithCounts(_ context.Context) ([]model.SubjectWithCount, error) {
	out := make([]model.SubjectWithCount, 0, len(f.byID))
	for _, s := range f.byID {
		out = append(out, model.SubjectWithCount{Subject: *s})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeQuestionRepo struct {
	questions    map[string]*model.Question
	bySubject    map[string][]model.Question
	readingTexts map[string]*model.ReadingText
}

func newFakeQuestionRepo() *fakeQuestionRepo {
	return &fakeQuestionRepo{
		questions:    map[string]*model.Question{},
		bySubject:    map[string][]model.Question{},
		readingTexts: map[string]*model.ReadingText{},
	}
}

func (f *fakeQuestionRepo) add(q model.Question) {
	cp := q
	f.questions[q.ID] = &cp
	f.bySubject[q.SubjectID] = append(f.bySubject[q.SubjectID], cp)
}

func (f *fakeQuestionRepo) FindByID(_ context.Context, id string) (*model.Question, error) {
	q, ok := f.questions[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *q
	return &cp, nil
}

func (f *fakeQuestionRepo) ListBySubject(_ context.Context, subjectID string) ([]model.Question, error) {
	return append([]model.Question(nil), f.bySubject[subjectID]...), nil
}

func (f *fakeQuestionRepo) List(_ context.Context, subjectID string, limit int) ([]model.Question, error) {
	var pool []model.Question
	if subjectID != "" {
		pool = f.bySubject[subjectID]
	} else {
		for _, qs := range f.bySubject {
			pool = append(pool, qs...)
		}
	}
	if limit > 0 && limit < len(pool) {
		pool = pool[:limit]
	}
	return append([]model.Question(nil), pool...), nil
}

func (f *fakeQuestionRepo) RandomBySubject(_ context.Context, subjectID string, limit int) ([]model.Question, error) {
	pool := f.bySubject[subjectID]
	if limit > 0 && limit < len(pool) {
		pool = pool[:limit]
	}
	return append([]model.Question(nil), pool...), nil
}

func (f *fakeQuestionRepo) FindReadingText(_ context.Context, id string) (*model.ReadingText, error) {
	rt, ok := f.readingTexts[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *rt
	return &cp, nil
}

type fakeSubscriptionRepo struct {
	active   *model.Subscription
	expired  []string
	sessions []model.PracticeSession
}

func (f *fakeSubscriptionRepo) FindActiveByUser(_ context.Context, userID string) (*model.Subscription, error) {
	if f.active == nil || f.active.UserID != userID {
		return nil, common.ErrNotFound
	}
	cp := *f.active
	return &cp, nil
}

func (f *fakeSubscriptionRepo) MarkExpired(_ context.Context, subscriptionID string) error {
	f.expired = append(f.expired, subscriptionID)
	if f.active != nil && f.active.ID == subscriptionID {
		f.active = nil
	}
	return nil
}

func (f *fakeSubscriptionRepo) CreatePracticeSession(_ context.Context, session *model.PracticeSession) error {
	f.sessions = append(f.sessions, *session)
	return nil
}

func (f *fakeSubscriptionRepo) PracticeUsageSince(_ context.Context, userID string, since time.Time) (int, int, error) {
	sessions, questions := 0, 0
	for _, s := range f.sessions {
		if s.UserID == userID && !s.StartedAt.Before(since) {
			sessions++
			questions += s.QuestionCount
		}
	}
	return sessions, questions, nil
}

type fakeUserRepo struct {
	byID    map[string]*model.User
	byEmail map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[string]*model.User{}, byEmail: map[string]*model.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	if _, ok := f.byEmail[user.Email]; ok {
		return common.ErrConflict
	}
	cp := *user
	f.byID[user.ID] = &cp
	f.byEmail[user.Email] = &cp
	return nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *u
	return &cp, nil
}
