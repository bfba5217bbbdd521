package postgres

import "time"

type formTableModel struct {
	ID        int64      `db:"id"`
	PublicID  string     `db:"public_id"`
	Name      string     `db:"name"`
	GameType  string     `db:"game_type"`
	Season    string     `db:"season"`
	Deadline  time.Time  `db:"deadline"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type questionTableModel struct {
	ID          int64      `db:"id"`
	FormID      string     `db:"form_public_id"`
	MatchNumber int        `db:"match_number"`
	HomeTeam    string     `db:"home_team"`
	AwayTeam    string     `db:"away_team"`
	GoalBonus   bool       `db:"goal_bonus"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
	DeletedAt   *time.Time `db:"deleted_at"`
}
