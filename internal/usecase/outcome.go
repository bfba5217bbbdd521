package usecase

import (
	"fmt"

	"github.com/porrapolo/match-engine/internal/domain/candidate"
	"github.com/porrapolo/match-engine/internal/domain/question"
	"github.com/porrapolo/match-engine/internal/domain/result"
)

// GoalBuckets maps a goal count onto one of three labels for the goal-total
// sub-question: at most LowMax, the inclusive mid range, or at least HighMin.
// Bounds differ by sport, so they are configuration, not constants.
type GoalBuckets struct {
	LowMax    int
	HighMin   int
	LowLabel  string
	MidLabel  string
	HighLabel string
}

func NewGoalBuckets(lowMax, highMin int) (GoalBuckets, error) {
	if lowMax < 0 {
		return GoalBuckets{}, fmt.Errorf("%w: goal bucket low bound cannot be negative", ErrInvalidInput)
	}
	if highMin <= lowMax+1 {
		return GoalBuckets{}, fmt.Errorf("%w: goal bucket mid range %d..%d is empty", ErrInvalidInput, lowMax+1, highMin-1)
	}

	midLabel := fmt.Sprintf("%d/%d", lowMax+1, highMin-1)
	if lowMax+1 == highMin-1 {
		midLabel = fmt.Sprintf("%d", lowMax+1)
	}

	return GoalBuckets{
		LowMax:    lowMax,
		HighMin:   highMin,
		LowLabel:  fmt.Sprintf("0-%d", lowMax),
		MidLabel:  midLabel,
		HighLabel: fmt.Sprintf("%d+", highMin),
	}, nil
}

// DefaultGoalBuckets carries the product defaults: water polo scores cluster
// around the low teens, so 11/12 is the meaningful mid range there.
func DefaultGoalBuckets(gameType question.GameType) GoalBuckets {
	switch gameType {
	case question.GameTypeFootball:
		buckets, _ := NewGoalBuckets(1, 4)
		return buckets
	default:
		buckets, _ := NewGoalBuckets(10, 13)
		return buckets
	}
}

func (b GoalBuckets) Label(goals int) string {
	switch {
	case goals <= b.LowMax:
		return b.LowLabel
	case goals >= b.HighMin:
		return b.HighLabel
	default:
		return b.MidLabel
	}
}

// ResolveOutcome derives the discrete outcome and the effective score from one
// observation. A shootout with regulation scores resolves to a draw on the
// regulation line: the prediction game scores the draw that sent the match to
// penalties, and penalty goals never count toward any goal total.
func ResolveOutcome(r result.RawResult) (candidate.Outcome, int, int) {
	homeGoals := r.HomeScore
	awayGoals := r.AwayScore

	if r.Status == result.StatusShootout && r.HasRegulationScores() {
		return candidate.OutcomeDraw, *r.HomeRegulationScore, *r.AwayRegulationScore
	}

	switch {
	case homeGoals > awayGoals:
		return candidate.OutcomeHomeWin, homeGoals, awayGoals
	case homeGoals < awayGoals:
		return candidate.OutcomeAwayWin, homeGoals, awayGoals
	default:
		return candidate.OutcomeDraw, homeGoals, awayGoals
	}
}
