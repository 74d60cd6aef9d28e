package service

import (
	"context"

	"prepsim/internal/domain/model"
	"prepsim/internal/domain/repository"
)

const maxQuestionListLimit = 100

type QuestionService struct {
	questionRepo repository.QuestionRepository
	subjectRepo  repository.SubjectRepository
}

func NewQuestionService(questionRepo repository.QuestionRepository, subjectRepo repository.SubjectRepository) *QuestionService {
	return &QuestionService{questionRepo: questionRepo, subjectRepo: subjectRepo}
}

// List returns questions for browsing. Admins see the full record;
// everyone else gets the student-facing view with the answer key and
// explanation stripped.
func (s *QuestionService) List(ctx context.Context, role, subjectID string, limit int) (interface{}, error) {
	if limit <= 0 || limit > maxQuestionListLimit {
		limit = maxQuestionListLimit
	}
	questions, err := s.questionRepo.List(ctx, subjectID, limit)
	if err != nil {
		return nil, err
	}
	if role == model.RoleAdmin {
		return questions, nil
	}

	subjectNames := map[string]string{}
	views := make([]model.QuestionView, 0, len(questions))
	for i := range questions {
		views = append(views, s.view(ctx, &questions[i], subjectNames))
	}
	return views, nil
}

// Get returns one question, stripped for non-admins.
func (s *QuestionService) Get(ctx context.Context, role, id string) (interface{}, error) {
	q, err := s.questionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role == model.RoleAdmin {
		return q, nil
	}
	view := s.view(ctx, q, map[string]string{})
	return &view, nil
}

func (s *QuestionService) view(ctx context.Context, q *model.Question, subjectNames map[string]string) model.QuestionView {
	name, ok := subjectNames[q.SubjectID]
	if !ok {
		if subject, err := s.subjectRepo.FindByID(ctx, q.SubjectID); err == nil {
			name = subject.Name
		}
		subjectNames[q.SubjectID] = name
	}

	view := model.QuestionView{
		QuestionID:   q.ID,
		SubjectID:    q.SubjectID,
		SubjectName:  name,
		Topic:        q.Topic,
		Text:         q.Text,
		Options:      q.Options,
		ImageURL:     q.ImageURL,
		OptionImages: q.OptionImages,
	}
	if q.ReadingTextID != nil {
		if rt, err := s.questionRepo.FindReadingText(ctx, *q.ReadingTextID); err == nil {
			view.ReadingText = &rt.Content
		}
	}
	return view
}
