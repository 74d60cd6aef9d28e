package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gosimple/slug"

	"prepsim/internal/common"
	"prepsim/internal/domain/model"
	"prepsim/internal/domain/repository"
)

const defaultPracticeQuestions = 10

type SubjectService struct {
	subjectRepo     repository.SubjectRepository
	questionRepo    repository.QuestionRepository
	subscriptionSvc *SubscriptionService
}

func NewSubjectService(
	subjectRepo repository.SubjectRepository,
	questionRepo repository.QuestionRepository,
	subscriptionSvc *SubscriptionService,
) *SubjectService {
	return &SubjectService{
		subjectRepo:     subjectRepo,
		questionRepo:    questionRepo,
		subscriptionSvc: subscriptionSvc,
	}
}

func (s *SubjectService) List(ctx context.Context) ([]model.SubjectWithCount, error) {
	return s.subjectRepo.ListWithCounts(ctx)
}

// Get resolves a subject by ID, falling back to slug lookup so URLs can
// use either form.
func (s *SubjectService) Get(ctx context.Context, idOrSlug string) (*model.Subject, error) {
	subject, err := s.subjectRepo.FindByID(ctx, idOrSlug)
	if err == nil {
		return subject, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}
	return s.subjectRepo.FindBySlug(ctx, idOrSlug)
}

// PracticeQuestion is a practice-mode question: unlike a live exam the
// correct answer and explanation ship with it for immediate feedback.
type PracticeQuestion struct {
	model.Question
	SubjectName string  `json:"subject_name"`
	ReadingText *string `json:"reading_text"`
}

type PracticeDraw struct {
	Subject   *model.Subject     `json:"subject"`
	Questions []PracticeQuestion `json:"questions"`
	IsPremium bool               `json:"is_premium"`
}

// PracticeQuestions draws a random practice set for a subject, capped by
// the caller's entitlement, and books the draw against the daily quota.
func (s *SubjectService) PracticeQuestions(ctx context.Context, user *model.User, idOrSlug string, requested int) (*PracticeDraw, error) {
	if requested <= 0 {
		requested = defaultPracticeQuestions
	}

	subject, err := s.Get(ctx, idOrSlug)
	if err != nil {
		return nil, err
	}

	access, err := s.subscriptionSvc.CheckPracticeAccess(ctx, user, requested)
	if err != nil {
		return nil, err
	}
	if !access.CanAccess {
		reason := "practice limit reached"
		if access.LimitReason != nil {
			reason = *access.LimitReason
		}
		return nil, fmt.Errorf("%w: %s", common.ErrForbidden, reason)
	}

	questions, err := s.questionRepo.RandomBySubject(ctx, subject.ID, access.MaxQuestions)
	if err != nil {
		return nil, err
	}

	readingCache := map[string]*string{}
	out := make([]PracticeQuestion, 0, len(questions))
	for _, q := range questions {
		pq := PracticeQuestion{Question: q, SubjectName: subject.Name}
		if q.ReadingTextID != nil {
			if content, ok := readingCache[*q.ReadingTextID]; ok {
				pq.ReadingText = content
			} else if rt, err := s.questionRepo.FindReadingText(ctx, *q.ReadingTextID); err == nil {
				pq.ReadingText = &rt.Content
				readingCache[*q.ReadingTextID] = &rt.Content
			}
		}
		out = append(out, pq)
	}

	if !access.IsPremium && len(out) > 0 {
		if err := s.subscriptionSvc.RecordPracticeSession(ctx, user.ID, subject.ID, len(out)); err != nil {
			return nil, err
		}
	}

	return &PracticeDraw{Subject: subject, Questions: out, IsPremium: access.IsPremium}, nil
}

// subjectSlug normalizes a display name to the slug form the exam
// weight tables key on ("Historia Universal" -> "historia_universal").
func subjectSlug(name string) string {
	return strings.ReplaceAll(slug.Make(name), "-", "_")
}

// EnsureDefaults seeds the canonical subject catalog on first boot.
// Existing subjects are left untouched.
func (s *SubjectService) EnsureDefaults(ctx context.Context, names []string) error {
	for _, name := range names {
		sl := subjectSlug(name)
		if _, err := s.subjectRepo.FindBySlug(ctx, sl); err == nil {
			continue
		} else if !errors.Is(err, common.ErrNotFound) {
			return err
		}
		subject := &model.Subject{
			ID:        newID("subject_"),
			Name:      name,
			Slug:      sl,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.subjectRepo.Create(ctx, subject); err != nil && !errors.Is(err, common.ErrConflict) {
			return err
		}
	}
	return nil
}

// DefaultSubjectNames is the UNAM admission exam subject catalog.
// slug.Make maps these onto the slugs the exam weight tables use.
func DefaultSubjectNames() []string {
	return []string{
		"Español",
		"Física",
		"Matemáticas",
		"Literatura",
		"Geografía",
		"Biología",
		"Química",
		"Historia Universal",
		"Historia México",
		"Filosofía",
	}
}
