package candidate

import "time"

type Outcome string

const (
	OutcomeHomeWin Outcome = "homeWin"
	OutcomeAwayWin Outcome = "awayWin"
	OutcomeDraw    Outcome = "draw"
)

// MatchCandidate is a proposed binding of one scraped result to one question
// slot. It is a proposal only: it becomes a user answer exclusively through
// the explicit confirmation step, never automatically.
type MatchCandidate struct {
	FormID      string
	MatchNumber int
	SourceID    string
	// Confidence is the 0-100 pair score the reviewer sees next to the
	// proposal, so low-confidence hits are distinguishable from no hit.
	Confidence int
	Outcome    Outcome
	HomeGoals  int
	AwayGoals  int
	// Bucket labels are populated only for the slot carrying the goal-total
	// sub-question.
	HomeGoalsBucket string
	AwayGoalsBucket string
	// Raw team names and kickoff from the winning observation, shown to the
	// reviewer so a wrong match is easy to spot before confirming.
	ResultHomeTeam string
	ResultAwayTeam string
	KickoffAt      time.Time
	Confirmed      bool
}

// Diagnostic reports a question slot that could not participate in a matching
// run. It is per-slot on purpose: one malformed question never aborts the rest
// of the form.
type Diagnostic struct {
	MatchNumber int
	Reason      string
}
