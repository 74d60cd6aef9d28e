package service

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"prepsim/internal/app/exam"
	"prepsim/internal/common"
	"prepsim/internal/domain/model"
	"prepsim/internal/domain/repository"
)

// AttemptService owns the attempt lifecycle: creation (with the
// allocation and selection pipeline), progress saves, submission,
// abandonment and result reads.
type AttemptService struct {
	attemptRepo   repository.AttemptRepository
	simulatorRepo repository.SimulatorRepository
	subjectRepo   repository.SubjectRepository
	questionRepo  repository.QuestionRepository
	examCfg       *exam.Config

	// rng drives exam selection. *rand.Rand is not safe for concurrent
	// use, so draws take the mutex. Tests inject a seeded source.
	rngMu sync.Mutex
	rng   *rand.Rand
}

func NewAttemptService(
	attemptRepo repository.AttemptRepository,
	simulatorRepo repository.SimulatorRepository,
	subjectRepo repository.SubjectRepository,
	questionRepo repository.QuestionRepository,
	examCfg *exam.Config,
	rng *rand.Rand,
) *AttemptService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &AttemptService{
		attemptRepo:   attemptRepo,
		simulatorRepo: simulatorRepo,
		subjectRepo:   subjectRepo,
		questionRepo:  questionRepo,
		examCfg:       examCfg,
		rng:           rng,
	}
}

// questionSource adapts the repositories to the selector's read contract.
type questionSource struct {
	subjects  repository.SubjectRepository
	questions repository.QuestionRepository
}

func (s questionSource) SubjectBySlug(ctx context.Context, slug string) (*model.Subject, error) {
	return s.subjects.FindBySlug(ctx, slug)
}

func (s questionSource) QuestionsBySubject(ctx context.Context, subjectID string) ([]model.Question, error) {
	return s.questions.ListBySubject(ctx, subjectID)
}

type CreateAttemptRequest struct {
	SimulatorID   string `json:"simulator_id"`
	QuestionCount int    `json:"question_count"`
}

type AttemptSummary struct {
	AttemptID      string                `json:"attempt_id"`
	SimulatorID    string                `json:"simulator_id"`
	SimulatorName  string                `json:"simulator_name"`
	UserID         string                `json:"user_id"`
	StartedAt      time.Time             `json:"started_at"`
	FinishedAt     *time.Time            `json:"finished_at,omitempty"`
	Score          *int                  `json:"score,omitempty"`
	TotalQuestions int                   `json:"total_questions"`
	Status         model.AttemptStatus   `json:"status"`
	SavedProgress  *model.SavedProgress  `json:"saved_progress,omitempty"`
}

// Create starts a new attempt, or hands back the caller's existing
// in-progress attempt for this simulator. The entitlement check is the
// caller's responsibility and must have passed already.
func (s *AttemptService) Create(ctx context.Context, userID string, req CreateAttemptRequest) (*model.Attempt, *model.Simulator, error) {
	count := req.QuestionCount
	if count == 0 {
		count = exam.TotalQuestions
	}
	if !exam.ValidQuestionCount(count) {
		return nil, nil, common.Errorf("question count must be 40, 80 or 120: %w", common.ErrValidation)
	}

	simulator, err := s.simulatorRepo.FindByID(ctx, req.SimulatorID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil, common.Errorf("simulator not found: %w", err)
		}
		return nil, nil, err
	}

	// Fast path: a resumable attempt already exists. Only a clean miss
	// proceeds to creation; a storage failure must not spawn a duplicate.
	existing, err := s.attemptRepo.FindInProgress(ctx, userID, simulator.ID)
	if err == nil {
		return existing, simulator, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, nil, err
	}

	area, ok := s.examCfg.Area(simulator.Area)
	if !ok {
		return nil, nil, common.Errorf("simulator references unknown area %q: %w", simulator.Area, common.ErrNotFound)
	}

	alloc := exam.Allocate(s.examCfg.OrderedWeights(area), count)
	picked, err := s.selectQuestions(ctx, alloc, count)
	if err != nil {
		return nil, nil, err
	}

	questionIDs := make([]string, len(picked))
	for i, p := range picked {
		questionIDs[i] = p.Question.ID
	}

	durationMinutes := len(questionIDs) * 3 / 2
	attempt := &model.Attempt{
		ID:              newID("attempt_"),
		SimulatorID:     simulator.ID,
		UserID:          userID,
		Status:          model.AttemptInProgress,
		StartedAt:       time.Now().UTC(),
		TotalQuestions:  len(questionIDs),
		DurationMinutes: durationMinutes,
		QuestionIDs:     questionIDs,
		SavedProgress: &model.SavedProgress{
			CurrentQuestion: 0,
			TimeRemaining:   durationMinutes * 60,
			Answers:         []model.SubmittedAnswer{},
		},
	}

	// The partial unique index arbitrates concurrent creates; on a lost
	// race the repository returns the winner's attempt and both callers
	// observe the same one.
	result, _, err := s.attemptRepo.InsertIfAbsent(ctx, attempt)
	if err != nil {
		return nil, nil, err
	}
	return result, simulator, nil
}

// SimulatorArea resolves a simulator's area ID, for entitlement checks
// that run before an attempt is created.
func (s *AttemptService) SimulatorArea(ctx context.Context, simulatorID string) (string, error) {
	simulator, err := s.simulatorRepo.FindByID(ctx, simulatorID)
	if err != nil {
		return "", err
	}
	return simulator.Area, nil
}

func (s *AttemptService) selectQuestions(ctx context.Context, alloc []exam.SubjectCount, target int) ([]exam.Picked, error) {
	src := questionSource{subjects: s.subjectRepo, questions: s.questionRepo}
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return exam.SelectQuestions(ctx, src, alloc, target, s.rng)
}

// GenerateQuestions produces a full question set for an area without
// persisting anything; used for simulator previews.
func (s *AttemptService) GenerateQuestions(ctx context.Context, areaID string, count int) ([]model.QuestionView, error) {
	area, ok := s.examCfg.Area(areaID)
	if !ok {
		return nil, common.Errorf("invalid area %q: %w", areaID, common.ErrNotFound)
	}
	if !exam.ValidQuestionCount(count) {
		count = exam.TotalQuestions
	}

	alloc := exam.Allocate(s.examCfg.OrderedWeights(area), count)
	picked, err := s.selectQuestions(ctx, alloc, count)
	if err != nil {
		return nil, err
	}

	views := make([]model.QuestionView, 0, len(picked))
	readingTexts := map[string]*string{}
	for _, p := range picked {
		views = append(views, s.questionView(ctx, p.Question, p.SubjectName, readingTexts))
	}
	return views, nil
}

func (s *AttemptService) questionView(ctx context.Context, q model.Question, subjectName string, cache map[string]*string) model.QuestionView {
	var readingText *string
	if q.ReadingTextID != nil {
		id := *q.ReadingTextID
		if cached, ok := cache[id]; ok {
			readingText = cached
		} else {
			if rt, err := s.questionRepo.FindReadingText(ctx, id); err == nil {
				readingText = &rt.Content
			}
			cache[id] = readingText
		}
	}
	return model.QuestionView{
		QuestionID:   q.ID,
		SubjectID:    q.SubjectID,
		SubjectName:  subjectName,
		Topic:        q.Topic,
		Text:         q.Text,
		Options:      q.Options,
		ImageURL:     q.ImageURL,
		OptionImages: q.OptionImages,
		ReadingText:  readingText,
	}
}

type AttemptQuestionsResponse struct {
	Simulator      SimulatorSummary     `json:"simulator"`
	Questions      []model.QuestionView `json:"questions"`
	TotalQuestions int                  `json:"total_questions"`
	SavedProgress  *model.SavedProgress `json:"saved_progress,omitempty"`
}

type SimulatorSummary struct {
	SimulatorID     string `json:"simulator_id"`
	Name            string `json:"name"`
	Area            string `json:"area"`
	AreaName        string `json:"area_name"`
	DurationMinutes int    `json:"duration_minutes"`
}

// Questions returns the attempt's question set in its fixed order, for
// resuming. Calling it repeatedly always yields the same sequence
// because the stored question_ids never change.
func (s *AttemptService) Questions(ctx context.Context, userID, attemptID string) (*AttemptQuestionsResponse, error) {
	attempt, err := s.attemptRepo.FindByIDForUser(ctx, attemptID, userID)
	if err != nil {
		return nil, common.Errorf("attempt not found: %w", err)
	}
	simulator, err := s.simulatorRepo.FindByID(ctx, attempt.SimulatorID)
	if err != nil {
		return nil, common.Errorf("simulator not found: %w", err)
	}
	if len(attempt.QuestionIDs) == 0 {
		return nil, common.Errorf("no questions found for this attempt: %w", common.ErrBadRequest)
	}

	subjectNames := map[string]string{}
	readingTexts := map[string]*string{}
	views := make([]model.QuestionView, 0, len(attempt.QuestionIDs))
	for _, qid := range attempt.QuestionIDs {
		q, err := s.questionRepo.FindByID(ctx, qid)
		if err != nil {
			// Deleted since generation; the exam is simply shorter.
			continue
		}
		name, ok := subjectNames[q.SubjectID]
		if !ok {
			name = "Unknown"
			if subject, err := s.subjectRepo.FindByID(ctx, q.SubjectID); err == nil {
				name = subject.Name
			}
			subjectNames[q.SubjectID] = name
		}
		views = append(views, s.questionView(ctx, *q, name, readingTexts))
	}

	areaName := "Unknown"
	if area, ok := s.examCfg.Area(simulator.Area); ok {
		areaName = area.Name
	}

	return &AttemptQuestionsResponse{
		Simulator: SimulatorSummary{
			SimulatorID:     simulator.ID,
			Name:            simulator.Name,
			Area:            simulator.Area,
			AreaName:        areaName,
			DurationMinutes: attempt.DurationMinutes,
		},
		Questions:      views,
		TotalQuestions: len(views),
		SavedProgress:  attempt.SavedProgress,
	}, nil
}

type SaveProgressRequest struct {
	Answers         []model.SubmittedAnswer `json:"answers"`
	CurrentQuestion int                     `json:"current_question"`
	TimeRemaining   int                     `json:"time_remaining"`
}

// SaveProgress overwrites the attempt's saved progress wholesale;
// last write wins.
func (s *AttemptService) SaveProgress(ctx context.Context, userID, attemptID string, req SaveProgressRequest) error {
	attempt, err := s.attemptRepo.FindByIDForUser(ctx, attemptID, userID)
	if err != nil {
		return common.Errorf("attempt not found: %w", err)
	}
	if attempt.Status != model.AttemptInProgress {
		return common.Errorf("cannot save progress on a %s attempt: %w", attempt.Status, common.ErrInvalidState)
	}

	answers := req.Answers
	if answers == nil {
		answers = []model.SubmittedAnswer{}
	}
	return s.attemptRepo.UpdateProgress(ctx, attemptID, model.SavedProgress{
		CurrentQuestion: req.CurrentQuestion,
		TimeRemaining:   req.TimeRemaining,
		Answers:         answers,
	})
}

type SubmitRequest struct {
	Answers []model.SubmittedAnswer `json:"answers"`
}

type SubmitResult struct {
	AttemptID        string                        `json:"attempt_id"`
	SimulatorID      string                        `json:"simulator_id"`
	SimulatorName    string                        `json:"simulator_name"`
	Area             string                        `json:"area"`
	AreaName         string                        `json:"area_name"`
	UserID           string                        `json:"user_id"`
	StartedAt        time.Time                     `json:"started_at"`
	FinishedAt       time.Time                     `json:"finished_at"`
	Score            int                           `json:"score"`
	TotalQuestions   int                           `json:"total_questions"`
	Percentage       float64                       `json:"percentage"`
	TimeTakenMinutes int                           `json:"time_taken_minutes"`
	SubjectScores    map[string]model.SubjectScore `json:"subject_scores"`
}

// Submit scores the submitted answers and completes the attempt. The
// completion is a compare-and-swap on status, so of two racing submits
// the first wins and the second sees InvalidState.
func (s *AttemptService) Submit(ctx context.Context, userID, attemptID string, req SubmitRequest) (*SubmitResult, error) {
	attempt, err := s.attemptRepo.FindByIDForUser(ctx, attemptID, userID)
	if err != nil {
		return nil, common.Errorf("attempt not found: %w", err)
	}
	if attempt.Status != model.AttemptInProgress {
		return nil, common.Errorf("attempt already %s: %w", attempt.Status, common.ErrInvalidState)
	}
	if len(req.Answers) == 0 {
		return nil, common.ErrEmptySubmission
	}

	simulator, err := s.simulatorRepo.FindByID(ctx, attempt.SimulatorID)
	if err != nil {
		return nil, common.Errorf("simulator not found: %w", err)
	}

	now := time.Now().UTC()
	timeTaken := s.timeTakenFromRemaining(attempt)

	res := exam.Score(req.Answers, s.scoringLookup(ctx, req.Answers))

	score := res.Score
	timeTakenMinutes := float64(int(timeTaken))
	attempt.Status = model.AttemptCompleted
	attempt.FinishedAt = &now
	attempt.Score = &score
	attempt.Answers = res.Answers
	attempt.SubjectScores = res.SubjectScores
	attempt.TimeTakenMinutes = &timeTakenMinutes
	attempt.CompletedPartially = false

	ok, err := s.attemptRepo.CompleteIfInProgress(ctx, attempt)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.Errorf("attempt already completed: %w", common.ErrInvalidState)
	}

	areaName := "Unknown"
	if area, found := s.examCfg.Area(simulator.Area); found {
		areaName = area.Name
	}

	return &SubmitResult{
		AttemptID:        attempt.ID,
		SimulatorID:      simulator.ID,
		SimulatorName:    simulator.Name,
		Area:             simulator.Area,
		AreaName:         areaName,
		UserID:           userID,
		StartedAt:        attempt.StartedAt,
		FinishedAt:       now,
		Score:            res.Score,
		TotalQuestions:   res.Processed(),
		Percentage:       res.Percentage(),
		TimeTakenMinutes: int(timeTaken),
		SubjectScores:    res.SubjectScores,
	}, nil
}

// timeTakenFromRemaining derives elapsed exam minutes from the last
// reported countdown value, clamped to [0, duration] so a tampered or
// stale time_remaining can't produce negative or inflated durations.
func (s *AttemptService) timeTakenFromRemaining(attempt *model.Attempt) float64 {
	duration := attempt.DurationMinutes
	remaining := duration * 60
	if attempt.SavedProgress != nil {
		remaining = attempt.SavedProgress.TimeRemaining
	}
	taken := float64(duration) - float64(remaining)/60
	if taken < 0 {
		return 0
	}
	if taken > float64(duration) {
		return float64(duration)
	}
	return taken
}

// scoringLookup resolves questions and subject names for the scorer,
// fetching each question and subject at most once.
func (s *AttemptService) scoringLookup(ctx context.Context, answers []model.SubmittedAnswer) exam.QuestionLookup {
	questions := map[string]*model.Question{}
	subjectNames := map[string]string{}
	for _, a := range answers {
		if _, seen := questions[a.QuestionID]; seen {
			continue
		}
		q, err := s.questionRepo.FindByID(ctx, a.QuestionID)
		if err != nil {
			questions[a.QuestionID] = nil
			continue
		}
		questions[a.QuestionID] = q
		if _, ok := subjectNames[q.SubjectID]; !ok {
			name := "Unknown"
			if subject, err := s.subjectRepo.FindByID(ctx, q.SubjectID); err == nil {
				name = subject.Name
			}
			subjectNames[q.SubjectID] = name
		}
	}
	return func(questionID string) (exam.ScoredQuestion, bool) {
		q := questions[questionID]
		if q == nil {
			return exam.ScoredQuestion{}, false
		}
		return exam.ScoredQuestion{Question: *q, SubjectName: subjectNames[q.SubjectID]}, true
	}
}

type AbandonResult struct {
	Message        string  `json:"message"`
	Score          *int    `json:"score,omitempty"`
	TotalQuestions int     `json:"total_questions,omitempty"`
	Percentage     float64 `json:"percentage,omitempty"`
}

// Abandon closes an in-progress attempt. With no saved answers it goes
// straight to abandoned, unscored. With saved answers it is scored like
// a submit and completed partially; elapsed time comes from the wall
// clock because the client never reported a final countdown.
func (s *AttemptService) Abandon(ctx context.Context, userID, attemptID string) (*AbandonResult, error) {
	attempt, err := s.attemptRepo.FindByIDForUser(ctx, attemptID, userID)
	if err != nil {
		return nil, common.Errorf("attempt not found: %w", err)
	}
	if attempt.Status != model.AttemptInProgress {
		return nil, common.Errorf("attempt is not in progress: %w", common.ErrInvalidState)
	}

	now := time.Now().UTC()
	var saved []model.SubmittedAnswer
	if attempt.SavedProgress != nil {
		saved = attempt.SavedProgress.Answers
	}

	if len(saved) == 0 {
		ok, err := s.attemptRepo.AbandonIfInProgress(ctx, attemptID, now)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, common.Errorf("attempt is not in progress: %w", common.ErrInvalidState)
		}
		return &AbandonResult{Message: "Attempt abandoned - no answers to save"}, nil
	}

	res := exam.Score(saved, s.scoringLookup(ctx, saved))

	score := res.Score
	timeTaken := now.Sub(attempt.StartedAt).Minutes()
	attempt.Status = model.AttemptCompleted
	attempt.FinishedAt = &now
	attempt.Score = &score
	attempt.Answers = res.Answers
	attempt.SubjectScores = res.SubjectScores
	attempt.TimeTakenMinutes = &timeTaken
	attempt.CompletedPartially = true

	ok, err := s.attemptRepo.CompleteIfInProgress(ctx, attempt)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.Errorf("attempt is not in progress: %w", common.ErrInvalidState)
	}

	return &AbandonResult{
		Message:        "Attempt marked as completed with partial answers",
		Score:          &score,
		TotalQuestions: res.Processed(),
		Percentage:     res.Percentage(),
	}, nil
}

type EnrichedAnswer struct {
	model.AnswerRecord
	ReadingText *string `json:"reading_text"`
	Topic       *string `json:"topic"`
	ImageURL    *string `json:"image_url"`
}

type ResultDetail struct {
	AttemptID        string                        `json:"attempt_id"`
	SimulatorID      string                        `json:"simulator_id"`
	SimulatorName    string                        `json:"simulator_name"`
	Area             string                        `json:"area"`
	AreaName         string                        `json:"area_name"`
	UserID           string                        `json:"user_id"`
	StartedAt        time.Time                     `json:"started_at"`
	FinishedAt       *time.Time                    `json:"finished_at"`
	Score            int                           `json:"score"`
	TotalQuestions   int                           `json:"total_questions"`
	Percentage       float64                       `json:"percentage"`
	TimeTakenMinutes float64                       `json:"time_taken_minutes"`
	SubjectScores    map[string]model.SubjectScore `json:"subject_scores"`
	Answers          []EnrichedAnswer              `json:"answers"`
}

// Results returns the full scored results of a completed attempt,
// answers enriched with reading texts and current question metadata.
func (s *AttemptService) Results(ctx context.Context, userID, attemptID string) (*ResultDetail, error) {
	attempt, err := s.attemptRepo.FindByIDForUser(ctx, attemptID, userID)
	if err != nil || attempt.Status != model.AttemptCompleted {
		return nil, common.Errorf("completed attempt not found: %w", common.ErrNotFound)
	}
	simulator, err := s.simulatorRepo.FindByID(ctx, attempt.SimulatorID)
	if err != nil {
		return nil, common.Errorf("simulator not found: %w", err)
	}

	timeTaken := 0.0
	if attempt.TimeTakenMinutes != nil {
		timeTaken = *attempt.TimeTakenMinutes
	} else {
		// Older attempts predate the stored value.
		timeTaken = s.timeTakenFromRemaining(attempt)
	}

	readingTexts := map[string]*string{}
	enriched := make([]EnrichedAnswer, 0, len(attempt.Answers))
	for _, answer := range attempt.Answers {
		ea := EnrichedAnswer{AnswerRecord: answer}
		if q, err := s.questionRepo.FindByID(ctx, answer.QuestionID); err == nil {
			ea.Topic = &q.Topic
			ea.ImageURL = q.ImageURL
			if q.ReadingTextID != nil {
				id := *q.ReadingTextID
				if cached, ok := readingTexts[id]; ok {
					ea.ReadingText = cached
				} else {
					if rt, err := s.questionRepo.FindReadingText(ctx, id); err == nil {
						ea.ReadingText = &rt.Content
					}
					readingTexts[id] = ea.ReadingText
				}
			}
		}
		enriched = append(enriched, ea)
	}

	score := 0
	if attempt.Score != nil {
		score = *attempt.Score
	}
	percentage := 0.0
	if len(attempt.Answers) > 0 {
		percentage = exam.Round2(float64(score) / float64(len(attempt.Answers)) * 100)
	}

	areaName := "Unknown"
	if area, ok := s.examCfg.Area(simulator.Area); ok {
		areaName = area.Name
	}

	return &ResultDetail{
		AttemptID:        attempt.ID,
		SimulatorID:      simulator.ID,
		SimulatorName:    simulator.Name,
		Area:             simulator.Area,
		AreaName:         areaName,
		UserID:           userID,
		StartedAt:        attempt.StartedAt,
		FinishedAt:       attempt.FinishedAt,
		Score:            score,
		TotalQuestions:   len(attempt.Answers),
		Percentage:       percentage,
		TimeTakenMinutes: timeTaken,
		SubjectScores:    attempt.SubjectScores,
		Answers:          enriched,
	}, nil
}

// List returns the user's attempts, newest first.
func (s *AttemptService) List(ctx context.Context, userID string) ([]AttemptSummary, error) {
	attempts, err := s.attemptRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	simulatorNames := map[string]string{}
	summaries := make([]AttemptSummary, 0, len(attempts))
	for _, a := range attempts {
		name, ok := simulatorNames[a.SimulatorID]
		if !ok {
			name = "Unknown"
			if sim, err := s.simulatorRepo.FindByID(ctx, a.SimulatorID); err == nil {
				name = sim.Name
			}
			simulatorNames[a.SimulatorID] = name
		}
		summaries = append(summaries, AttemptSummary{
			AttemptID:      a.ID,
			SimulatorID:    a.SimulatorID,
			SimulatorName:  name,
			UserID:         a.UserID,
			StartedAt:      a.StartedAt,
			FinishedAt:     a.FinishedAt,
			Score:          a.Score,
			TotalQuestions: a.TotalQuestions,
			Status:         a.Status,
			SavedProgress:  a.SavedProgress,
		})
	}
	return summaries, nil
}

type AttemptDetail struct {
	AttemptID       string                        `json:"attempt_id"`
	SimulatorID     string                        `json:"simulator_id"`
	SimulatorName   string                        `json:"simulator_name"`
	Status          model.AttemptStatus           `json:"status"`
	StartedAt       time.Time                     `json:"started_at"`
	TotalQuestions  int                           `json:"total_questions"`
	DurationMinutes int                           `json:"duration_minutes"`
	SavedProgress   *model.SavedProgress          `json:"saved_progress,omitempty"`
	Score           *int                          `json:"score,omitempty"`
	Answers         []model.AnswerRecord          `json:"answers"`
	SubjectScores   map[string]model.SubjectScore `json:"subject_scores,omitempty"`
}

// Detail returns one attempt owned by the caller.
func (s *AttemptService) Detail(ctx context.Context, userID, attemptID string) (*AttemptDetail, error) {
	attempt, err := s.attemptRepo.FindByIDForUser(ctx, attemptID, userID)
	if err != nil {
		return nil, common.Errorf("attempt not found: %w", err)
	}

	name := "Unknown"
	if sim, err := s.simulatorRepo.FindByID(ctx, attempt.SimulatorID); err == nil {
		name = sim.Name
	}

	answers := attempt.Answers
	if answers == nil {
		answers = []model.AnswerRecord{}
	}
	return &AttemptDetail{
		AttemptID:       attempt.ID,
		SimulatorID:     attempt.SimulatorID,
		SimulatorName:   name,
		Status:          attempt.Status,
		StartedAt:       attempt.StartedAt,
		TotalQuestions:  attempt.TotalQuestions,
		DurationMinutes: attempt.DurationMinutes,
		SavedProgress:   attempt.SavedProgress,
		Score:           attempt.Score,
		Answers:         answers,
		SubjectScores:   attempt.SubjectScores,
	}, nil
}
