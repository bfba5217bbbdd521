package question

import (
	"errors"
	"strings"
	"time"
)

type GameType string

const (
	GameTypeWaterpolo GameType = "waterpolo"
	GameTypeFootball  GameType = "football"
)

var (
	ErrEmptyTeamName      = errors.New("question team name is empty")
	ErrInvalidMatchNumber = errors.New("question match number must be greater than zero")
)

// Form is one prediction round. Questions are authored once, when the form is
// published, and are immutable afterwards.
type Form struct {
	ID        string
	Name      string
	GameType  GameType
	Season    string
	Deadline  time.Time
	CreatedAt time.Time
}

// Question is one fixture slot in a form, ordered by MatchNumber. The team
// names stored here are the ground truth that scraped results match against.
type Question struct {
	FormID      string
	MatchNumber int
	HomeTeam    string
	AwayTeam    string
	// GoalBonus marks the slot that carries the extra goal-total sub-question.
	GoalBonus bool
}

func (q Question) Validate() error {
	if q.MatchNumber <= 0 {
		return ErrInvalidMatchNumber
	}
	if strings.TrimSpace(q.HomeTeam) == "" || strings.TrimSpace(q.AwayTeam) == "" {
		return ErrEmptyTeamName
	}
	return nil
}

func NormalizeGameType(value string) GameType {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case string(GameTypeFootball):
		return GameTypeFootball
	default:
		return GameTypeWaterpolo
	}
}
