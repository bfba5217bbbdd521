package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/porrapolo/match-engine/internal/domain/question"
	qb "github.com/porrapolo/match-engine/internal/platform/querybuilder"
)

type QuestionRepository struct {
	db *sqlx.DB
}

func NewQuestionRepository(db *sqlx.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

func (r *QuestionRepository) ListForms(ctx context.Context) ([]question.Form, error) {
	query, args, err := qb.Select("*").From("forms").
		Where(qb.IsNull("deleted_at")).
		OrderBy("deadline", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select forms query: %w", err)
	}

	var rows []formTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select forms: %w", err)
	}

	out := make([]question.Form, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapFormRow(row))
	}
	return out, nil
}

func (r *QuestionRepository) GetForm(ctx context.Context, formID string) (question.Form, bool, error) {
	query, args, err := qb.Select("*").From("forms").
		Where(
			qb.Eq("public_id", formID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return question.Form{}, false, fmt.Errorf("build get form by id query: %w", err)
	}

	var row formTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return question.Form{}, false, nil
		}
		return question.Form{}, false, fmt.Errorf("get form by id: %w", err)
	}
	return mapFormRow(row), true, nil
}

func (r *QuestionRepository) ListByForm(ctx context.Context, formID string) ([]question.Question, error) {
	query, args, err := qb.Select("*").From("questions").
		Where(
			qb.Eq("form_public_id", formID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("match_number").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select questions query: %w", err)
	}

	var rows []questionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select questions by form: %w", err)
	}

	out := make([]question.Question, 0, len(rows))
	for _, row := range rows {
		out = append(out, question.Question{
			FormID:      row.FormID,
			MatchNumber: row.MatchNumber,
			HomeTeam:    row.HomeTeam,
			AwayTeam:    row.AwayTeam,
			GoalBonus:   row.GoalBonus,
		})
	}
	return out, nil
}

func mapFormRow(row formTableModel) question.Form {
	return question.Form{
		ID:        row.PublicID,
		Name:      row.Name,
		GameType:  question.NormalizeGameType(row.GameType),
		Season:    row.Season,
		Deadline:  row.Deadline,
		CreatedAt: row.CreatedAt,
	}
}
