package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/porrapolo/match-engine/internal/domain/candidate"
	qb "github.com/porrapolo/match-engine/internal/platform/querybuilder"
)

type CandidateRepository struct {
	db *sqlx.DB
}

func NewCandidateRepository(db *sqlx.DB) *CandidateRepository {
	return &CandidateRepository{db: db}
}

// ReplaceByForm swaps the unconfirmed proposal set for a form in one
// transaction. Confirmed rows are left untouched and shadow any fresh
// proposal for the same slot.
func (r *CandidateRepository) ReplaceByForm(ctx context.Context, formID string, items []candidate.MatchCandidate) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace candidates: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	clearQuery, clearArgs, err := qb.Update("match_candidates").
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("form_public_id", formID),
			qb.Eq("confirmed", false),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear candidates query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
		return fmt.Errorf("clear unconfirmed candidates form=%s: %w", formID, err)
	}

	confirmedQuery, confirmedArgs, err := qb.Select("match_number").From("match_candidates").
		Where(
			qb.Eq("form_public_id", formID),
			qb.Eq("confirmed", true),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build select confirmed candidates query: %w", err)
	}
	var confirmedNumbers []int
	if err := tx.SelectContext(ctx, &confirmedNumbers, confirmedQuery, confirmedArgs...); err != nil {
		return fmt.Errorf("select confirmed candidates form=%s: %w", formID, err)
	}
	confirmed := make(map[int]struct{}, len(confirmedNumbers))
	for _, number := range confirmedNumbers {
		confirmed[number] = struct{}{}
	}

	for _, item := range items {
		if _, locked := confirmed[item.MatchNumber]; locked {
			continue
		}

		insertModel := candidateInsertModel{
			FormID:          formID,
			MatchNumber:     item.MatchNumber,
			SourceID:        item.SourceID,
			Confidence:      item.Confidence,
			Outcome:         string(item.Outcome),
			HomeGoals:       item.HomeGoals,
			AwayGoals:       item.AwayGoals,
			HomeGoalsBucket: item.HomeGoalsBucket,
			AwayGoalsBucket: item.AwayGoalsBucket,
			ResultHomeTeam:  item.ResultHomeTeam,
			ResultAwayTeam:  item.ResultAwayTeam,
			KickoffAt:       item.KickoffAt,
			Confirmed:       false,
		}
		query, args, err := qb.InsertModel("match_candidates", insertModel, "")
		if err != nil {
			return fmt.Errorf("build insert candidate query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("candidate slot already stored form=%s match=%d: %w", formID, item.MatchNumber, err)
			}
			return fmt.Errorf("insert candidate form=%s match=%d: %w", formID, item.MatchNumber, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace candidates tx: %w", err)
	}
	return nil
}

func (r *CandidateRepository) ListByForm(ctx context.Context, formID string) ([]candidate.MatchCandidate, error) {
	query, args, err := qb.Select("*").From("match_candidates").
		Where(
			qb.Eq("form_public_id", formID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("match_number").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select candidates query: %w", err)
	}

	var rows []candidateTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select candidates by form: %w", err)
	}

	out := make([]candidate.MatchCandidate, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapCandidateRow(row))
	}
	return out, nil
}

func (r *CandidateRepository) Confirm(ctx context.Context, formID string, matchNumber int) (candidate.MatchCandidate, bool, error) {
	query, args, err := qb.Update("match_candidates").
		Set("confirmed", true).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("form_public_id", formID),
			qb.Eq("match_number", matchNumber),
			qb.IsNull("deleted_at"),
		).
		Suffix("RETURNING *").
		ToSQL()
	if err != nil {
		return candidate.MatchCandidate{}, false, fmt.Errorf("build confirm candidate query: %w", err)
	}

	var row candidateTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return candidate.MatchCandidate{}, false, nil
		}
		return candidate.MatchCandidate{}, false, fmt.Errorf("confirm candidate: %w", err)
	}
	return mapCandidateRow(row), true, nil
}
