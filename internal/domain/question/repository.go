package question

import "context"

type Repository interface {
	ListForms(ctx context.Context) ([]Form, error)
	GetForm(ctx context.Context, formID string) (Form, bool, error)
	ListByForm(ctx context.Context, formID string) ([]Question, error)
}
