package exam

import (
	"context"
	"errors"
	"math/rand"

	"prepsim/internal/common"
	"prepsim/internal/domain/model"
)

// QuestionSource is the read contract the selector needs from the
// question repository.
type QuestionSource interface {
	SubjectBySlug(ctx context.Context, slug string) (*model.Subject, error)
	QuestionsBySubject(ctx context.Context, subjectID string) ([]model.Question, error)
}

// Picked is one selected question together with its subject's display
// name. The slice order returned by SelectQuestions becomes the
// attempt's fixed question order.
type Picked struct {
	Question    model.Question
	SubjectName string
}

// SelectQuestions realizes an allocation into concrete question picks:
// a uniform draw without replacement per subject, de-duplicated across
// the whole exam, followed by a fill pass in canonical order when some
// subject's pool was short. If the store simply does not hold enough
// questions the result is shorter than target; that is a soft
// degradation, not an error.
func SelectQuestions(ctx context.Context, src QuestionSource, alloc []SubjectCount, target int, rng *rand.Rand) ([]Picked, error) {
	picked := make([]Picked, 0, target)
	used := make(map[string]bool, target)

	for _, sc := range alloc {
		subject, questions, err := subjectPool(ctx, src, sc.Slug)
		if err != nil {
			return nil, err
		}
		if subject == nil {
			continue
		}

		available := unused(questions, used)
		if len(available) == 0 {
			continue
		}

		n := sc.Count
		if n > len(available) {
			n = len(available)
		}
		for _, idx := range rng.Perm(len(available))[:n] {
			q := available[idx]
			used[q.ID] = true
			picked = append(picked, Picked{Question: q, SubjectName: subject.Name})
		}
	}

	// Fill pass: top up from subjects that still have unused questions.
	if len(picked) < target {
		for _, sc := range alloc {
			if len(picked) >= target {
				break
			}
			subject, questions, err := subjectPool(ctx, src, sc.Slug)
			if err != nil {
				return nil, err
			}
			if subject == nil {
				continue
			}

			available := unused(questions, used)
			needed := target - len(picked)
			if needed > len(available) {
				needed = len(available)
			}
			for _, idx := range rng.Perm(len(available))[:needed] {
				q := available[idx]
				used[q.ID] = true
				picked = append(picked, Picked{Question: q, SubjectName: subject.Name})
			}
		}
	}

	return picked, nil
}

func subjectPool(ctx context.Context, src QuestionSource, slug string) (*model.Subject, []model.Question, error) {
	subject, err := src.SubjectBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	questions, err := src.QuestionsBySubject(ctx, subject.ID)
	if err != nil {
		return nil, nil, err
	}
	return subject, questions, nil
}

func unused(questions []model.Question, used map[string]bool) []model.Question {
	out := make([]model.Question, 0, len(questions))
	for _, q := range questions {
		if !used[q.ID] {
			out = append(out, q)
		}
	}
	return out
}
