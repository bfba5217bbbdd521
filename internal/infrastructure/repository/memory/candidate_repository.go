package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/porrapolo/match-engine/internal/domain/candidate"
)

type CandidateRepository struct {
	mu    sync.RWMutex
	items map[string]map[int]candidate.MatchCandidate
}

func NewCandidateRepository() *CandidateRepository {
	return &CandidateRepository{
		items: make(map[string]map[int]candidate.MatchCandidate),
	}
}

func (r *CandidateRepository) ReplaceByForm(_ context.Context, formID string, items []candidate.MatchCandidate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := make(map[int]candidate.MatchCandidate, len(items))
	for number, existing := range r.items[formID] {
		if existing.Confirmed {
			next[number] = existing
		}
	}
	for _, item := range items {
		if _, locked := next[item.MatchNumber]; locked {
			continue
		}
		item.FormID = formID
		item.Confirmed = false
		next[item.MatchNumber] = item
	}

	r.items[formID] = next
	return nil
}

func (r *CandidateRepository) ListByForm(_ context.Context, formID string) ([]candidate.MatchCandidate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]candidate.MatchCandidate, 0, len(r.items[formID]))
	for _, item := range r.items[formID] {
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MatchNumber < out[j].MatchNumber
	})
	return out, nil
}

func (r *CandidateRepository) Confirm(_ context.Context, formID string, matchNumber int) (candidate.MatchCandidate, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	byNumber, ok := r.items[formID]
	if !ok {
		return candidate.MatchCandidate{}, false, nil
	}
	item, ok := byNumber[matchNumber]
	if !ok {
		return candidate.MatchCandidate{}, false, nil
	}

	item.Confirmed = true
	byNumber[matchNumber] = item
	return item, true, nil
}
