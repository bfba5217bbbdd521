package memory

import (
	"time"

	"github.com/porrapolo/match-engine/internal/domain/question"
)

const (
	FormIDJornada12  = "wp-div-honor-2026-j12"
	FormIDEuroWeek08 = "wp-champions-2026-w08"
)

func SeedForms() []question.Form {
	return []question.Form{
		{
			ID:        FormIDJornada12,
			Name:      "Divisió d'Honor - Jornada 12",
			GameType:  question.GameTypeWaterpolo,
			Season:    "2025/2026",
			Deadline:  time.Date(2026, time.February, 7, 12, 0, 0, 0, time.UTC),
			CreatedAt: time.Date(2026, time.February, 1, 9, 0, 0, 0, time.UTC),
		},
		{
			ID:        FormIDEuroWeek08,
			Name:      "Champions League - Week 8",
			GameType:  question.GameTypeWaterpolo,
			Season:    "2025/2026",
			Deadline:  time.Date(2026, time.February, 11, 17, 0, 0, 0, time.UTC),
			CreatedAt: time.Date(2026, time.February, 4, 9, 0, 0, 0, time.UTC),
		},
	}
}

func SeedQuestions() []question.Question {
	return []question.Question{
		{FormID: FormIDJornada12, MatchNumber: 1, HomeTeam: "CN Atlètic-Barceloneta", AwayTeam: "CN Sabadell"},
		{FormID: FormIDJornada12, MatchNumber: 2, HomeTeam: "CN Barcelona", AwayTeam: "CE Mediterrani"},
		{FormID: FormIDJornada12, MatchNumber: 3, HomeTeam: "CN Terrassa", AwayTeam: "CN Mataró", GoalBonus: true},
		{FormID: FormIDJornada12, MatchNumber: 4, HomeTeam: "WP Navarra", AwayTeam: "CN Sant Andreu"},
		{FormID: FormIDEuroWeek08, MatchNumber: 1, HomeTeam: "Pro Recco", AwayTeam: "Olympiacos"},
		{FormID: FormIDEuroWeek08, MatchNumber: 2, HomeTeam: "Ferencváros", AwayTeam: "Jug Dubrovnik", GoalBonus: true},
	}
}
