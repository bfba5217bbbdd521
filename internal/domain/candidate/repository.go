package candidate

import "context"

type Repository interface {
	// ReplaceByForm swaps the stored proposal set for a form atomically;
	// confirmed rows survive the swap.
	ReplaceByForm(ctx context.Context, formID string, items []MatchCandidate) error
	ListByForm(ctx context.Context, formID string) ([]MatchCandidate, error)
	Confirm(ctx context.Context, formID string, matchNumber int) (MatchCandidate, bool, error)
}
