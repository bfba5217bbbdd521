package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/porrapolo/match-engine/internal/domain/question"
)

// FormService serves the read side of prediction forms.
type FormService struct {
	questions question.Repository
}

func NewFormService(questions question.Repository) *FormService {
	return &FormService{questions: questions}
}

func (s *FormService) List(ctx context.Context) ([]question.Form, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FormService.List")
	defer span.End()

	if s.questions == nil {
		return nil, fmt.Errorf("%w: form service is not fully configured", ErrDependencyUnavailable)
	}

	forms, err := s.questions.ListForms(ctx)
	if err != nil {
		return nil, fmt.Errorf("list forms: %w", err)
	}
	sort.SliceStable(forms, func(i, j int) bool {
		if !forms[i].Deadline.Equal(forms[j].Deadline) {
			return forms[i].Deadline.Before(forms[j].Deadline)
		}
		return forms[i].ID < forms[j].ID
	})
	return forms, nil
}

func (s *FormService) Questions(ctx context.Context, formID string) (question.Form, []question.Question, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FormService.Questions")
	defer span.End()

	formID = strings.TrimSpace(formID)
	if formID == "" {
		return question.Form{}, nil, fmt.Errorf("%w: form id is required", ErrInvalidInput)
	}
	if s.questions == nil {
		return question.Form{}, nil, fmt.Errorf("%w: form service is not fully configured", ErrDependencyUnavailable)
	}

	form, found, err := s.questions.GetForm(ctx, formID)
	if err != nil {
		return question.Form{}, nil, fmt.Errorf("get form id=%s: %w", formID, err)
	}
	if !found {
		return question.Form{}, nil, fmt.Errorf("%w: form id=%s", ErrNotFound, formID)
	}

	items, err := s.questions.ListByForm(ctx, formID)
	if err != nil {
		return question.Form{}, nil, fmt.Errorf("list questions form=%s: %w", formID, err)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].MatchNumber < items[j].MatchNumber
	})
	return form, items, nil
}
