package memory

import (
	"context"
	"sync"

	"github.com/porrapolo/match-engine/internal/domain/question"
)

type QuestionRepository struct {
	mu        sync.RWMutex
	forms     map[string]question.Form
	questions map[string][]question.Question
	orders    []string
}

func NewQuestionRepository(forms []question.Form, questions []question.Question) *QuestionRepository {
	formsByID := make(map[string]question.Form, len(forms))
	orders := make([]string, 0, len(forms))
	for _, f := range forms {
		formsByID[f.ID] = f
		orders = append(orders, f.ID)
	}

	questionsByForm := make(map[string][]question.Question, len(forms))
	for _, q := range questions {
		questionsByForm[q.FormID] = append(questionsByForm[q.FormID], q)
	}

	return &QuestionRepository{
		forms:     formsByID,
		questions: questionsByForm,
		orders:    orders,
	}
}

func (r *QuestionRepository) ListForms(_ context.Context) ([]question.Form, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]question.Form, 0, len(r.orders))
	for _, id := range r.orders {
		out = append(out, r.forms[id])
	}
	return out, nil
}

func (r *QuestionRepository) GetForm(_ context.Context, formID string) (question.Form, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.forms[formID]
	if !ok {
		return question.Form{}, false, nil
	}
	return f, true, nil
}

func (r *QuestionRepository) ListByForm(_ context.Context, formID string) ([]question.Question, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.questions[formID]
	out := make([]question.Question, len(items))
	copy(out, items)
	return out, nil
}
