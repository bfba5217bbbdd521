package result

import (
	"strings"
	"time"
)

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusFinished  Status = "finished"
	StatusAET       Status = "aet"
	StatusShootout  Status = "shootout"
)

// RawResult is one scraped match observation from a single source. It is
// ephemeral: built per fetch cycle, consumed by one matching run, discarded.
type RawResult struct {
	SourceID            string
	HomeTeamRaw         string
	AwayTeamRaw         string
	HomeScore           int
	AwayScore           int
	HomeRegulationScore *int
	AwayRegulationScore *int
	Status              Status
	KickoffAt           time.Time
	ChampionsLeague     bool
}

// NormalizeStatus maps the status spellings seen across feeds onto the small
// internal set. Unknown values stay scheduled so they never become matchable.
func NormalizeStatus(value string) Status {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "FINISHED", "FT", "FULL_TIME", "FULLTIME", "ENDED":
		return StatusFinished
	case "AET", "AFTER_EXTRA_TIME", "ET_FINISHED":
		return StatusAET
	case "SHOOTOUT", "PEN", "PENALTIES", "AP", "AFTER_PENALTIES":
		return StatusShootout
	default:
		return StatusScheduled
	}
}

// Matchable reports whether the observation is mature enough to be offered to
// the matching engine. Scheduled rows are never matchable.
func (r RawResult) Matchable() bool {
	switch r.Status {
	case StatusFinished, StatusAET, StatusShootout:
		return true
	default:
		return false
	}
}

func (r RawResult) HasRegulationScores() bool {
	return r.HomeRegulationScore != nil && r.AwayRegulationScore != nil
}

// CompletenessRank orders duplicate observations of the same fixture: a
// shootout/extra-time record with regulation scores beats a plain full-time
// record from a source that only carries the final line.
func (r RawResult) CompletenessRank() int {
	rank := 0
	switch r.Status {
	case StatusShootout:
		rank = 2
	case StatusAET:
		rank = 1
	}
	if r.HasRegulationScores() {
		rank += 2
	}
	return rank
}

func CloneScore(value *int) *int {
	if value == nil {
		return nil
	}
	v := *value
	return &v
}
