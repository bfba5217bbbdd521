package postgres

import (
	"time"

	"github.com/porrapolo/match-engine/internal/domain/candidate"
)

type candidateTableModel struct {
	ID              int64      `db:"id"`
	FormID          string     `db:"form_public_id"`
	MatchNumber     int        `db:"match_number"`
	SourceID        string     `db:"source_id"`
	Confidence      int        `db:"confidence"`
	Outcome         string     `db:"outcome"`
	HomeGoals       int        `db:"home_goals"`
	AwayGoals       int        `db:"away_goals"`
	HomeGoalsBucket string     `db:"home_goals_bucket"`
	AwayGoalsBucket string     `db:"away_goals_bucket"`
	ResultHomeTeam  string     `db:"result_home_team"`
	ResultAwayTeam  string     `db:"result_away_team"`
	KickoffAt       time.Time  `db:"kickoff_at"`
	Confirmed       bool       `db:"confirmed"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
	DeletedAt       *time.Time `db:"deleted_at"`
}

type candidateInsertModel struct {
	FormID          string    `db:"form_public_id"`
	MatchNumber     int       `db:"match_number"`
	SourceID        string    `db:"source_id"`
	Confidence      int       `db:"confidence"`
	Outcome         string    `db:"outcome"`
	HomeGoals       int       `db:"home_goals"`
	AwayGoals       int       `db:"away_goals"`
	HomeGoalsBucket string    `db:"home_goals_bucket"`
	AwayGoalsBucket string    `db:"away_goals_bucket"`
	ResultHomeTeam  string    `db:"result_home_team"`
	ResultAwayTeam  string    `db:"result_away_team"`
	KickoffAt       time.Time `db:"kickoff_at"`
	Confirmed       bool      `db:"confirmed"`
}

func mapCandidateRow(row candidateTableModel) candidate.MatchCandidate {
	return candidate.MatchCandidate{
		FormID:          row.FormID,
		MatchNumber:     row.MatchNumber,
		SourceID:        row.SourceID,
		Confidence:      row.Confidence,
		Outcome:         candidate.Outcome(row.Outcome),
		HomeGoals:       row.HomeGoals,
		AwayGoals:       row.AwayGoals,
		HomeGoalsBucket: row.HomeGoalsBucket,
		AwayGoalsBucket: row.AwayGoalsBucket,
		ResultHomeTeam:  row.ResultHomeTeam,
		ResultAwayTeam:  row.ResultAwayTeam,
		KickoffAt:       row.KickoffAt,
		Confirmed:       row.Confirmed,
	}
}
