package exam

import (
	"math"

	"prepsim/internal/domain/model"
)

// ScoredQuestion pairs a question with its subject's display name for
// scoring lookups.
type ScoredQuestion struct {
	Question    model.Question
	SubjectName string
}

// QuestionLookup resolves a question ID at scoring time. A miss means
// the question was deleted since the attempt was generated; the answer
// is skipped entirely.
type QuestionLookup func(questionID string) (ScoredQuestion, bool)

type ScoreResult struct {
	Score         int
	Answers       []model.AnswerRecord
	SubjectScores map[string]model.SubjectScore
	SubjectOrder  []string // subject names in first-seen order
}

// Score grades a set of submitted answers. Pure: same answers and
// lookup give the same result. A nil or out-of-range selected option is
// simply wrong, never an error.
func Score(answers []model.SubmittedAnswer, lookup QuestionLookup) ScoreResult {
	res := ScoreResult{
		Answers:       make([]model.AnswerRecord, 0, len(answers)),
		SubjectScores: make(map[string]model.SubjectScore),
	}

	for _, answer := range answers {
		sq, ok := lookup(answer.QuestionID)
		if !ok {
			continue
		}
		q := sq.Question

		isCorrect := answer.SelectedOption != nil &&
			*answer.SelectedOption >= 0 && *answer.SelectedOption <= 3 &&
			*answer.SelectedOption == q.CorrectAnswer
		if isCorrect {
			res.Score++
		}

		ss, seen := res.SubjectScores[sq.SubjectName]
		if !seen {
			res.SubjectOrder = append(res.SubjectOrder, sq.SubjectName)
		}
		ss.Total++
		if isCorrect {
			ss.Correct++
		}
		res.SubjectScores[sq.SubjectName] = ss

		res.Answers = append(res.Answers, model.AnswerRecord{
			QuestionID:     answer.QuestionID,
			SelectedOption: answer.SelectedOption,
			IsCorrect:      isCorrect,
			CorrectAnswer:  q.CorrectAnswer,
			SubjectName:    sq.SubjectName,
			Explanation:    q.Explanation,
			QuestionText:   q.Text,
			Options:        q.Options,
		})
	}

	return res
}

// Processed is the number of answers that matched a known question.
func (r ScoreResult) Processed() int {
	return len(r.Answers)
}

// Percentage is the score as a percentage of processed answers, rounded
// to two decimals. Zero when nothing was processed.
func (r ScoreResult) Percentage() float64 {
	if len(r.Answers) == 0 {
		return 0
	}
	return Round2(float64(r.Score) / float64(len(r.Answers)) * 100)
}

func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
