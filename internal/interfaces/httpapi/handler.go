package httpapi

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/porrapolo/match-engine/internal/domain/candidate"
	"github.com/porrapolo/match-engine/internal/domain/question"
	"github.com/porrapolo/match-engine/internal/usecase"
)

type Handler struct {
	formService     *usecase.FormService
	proposalService *usecase.ProposalService
	logger          *slog.Logger
	validator       *validator.Validate
}

func NewHandler(
	formService *usecase.FormService,
	proposalService *usecase.ProposalService,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		formService:     formService,
		proposalService: proposalService,
		logger:          logger,
		validator:       validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListForms(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListForms")
	defer span.End()

	forms, err := h.formService.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list forms failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]formDTO, 0, len(forms))
	for _, f := range forms {
		items = append(items, formToDTO(f))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListFormQuestions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFormQuestions")
	defer span.End()

	formID := r.PathValue("formID")
	form, questions, err := h.formService.Questions(ctx, formID)
	if err != nil {
		h.logger.WarnContext(ctx, "list form questions failed", "form_id", formID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]questionDTO, 0, len(questions))
	for _, q := range questions {
		items = append(items, questionDTO{
			MatchNumber: q.MatchNumber,
			HomeTeam:    q.HomeTeam,
			AwayTeam:    q.AwayTeam,
			GoalBonus:   q.GoalBonus,
		})
	}
	writeSuccess(ctx, w, http.StatusOK, formQuestionsDTO{
		Form:      formToDTO(form),
		Questions: items,
	})
}

func (h *Handler) ListFormCandidates(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFormCandidates")
	defer span.End()

	formID := r.PathValue("formID")
	candidates, err := h.proposalService.Candidates(ctx, formID)
	if err != nil {
		h.logger.WarnContext(ctx, "list form candidates failed", "form_id", formID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]candidateDTO, 0, len(candidates))
	for _, c := range candidates {
		items = append(items, candidateToDTO(c))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ConfirmCandidate(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ConfirmCandidate")
	defer span.End()

	formID := r.PathValue("formID")
	matchNumber, err := strconv.Atoi(r.PathValue("matchNumber"))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: match number must be an integer", usecase.ErrInvalidInput))
		return
	}

	confirmed, err := h.proposalService.Confirm(ctx, formID, matchNumber)
	if err != nil {
		h.logger.WarnContext(ctx, "confirm candidate failed", "form_id", formID, "match_number", matchNumber, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, candidateToDTO(confirmed))
}

func (h *Handler) RunMatchJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunMatchJob")
	defer span.End()

	if h.proposalService == nil {
		writeError(ctx, w, fmt.Errorf("%w: proposal service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	req, err := h.decodeMatchRunRequest(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	input := usecase.RunInput{
		MaxWorkers: req.MaxWorkers,
		DryRun:     req.DryRun,
	}

	var report usecase.RunReport
	if req.FormID != "" {
		report, err = h.proposalService.RunForm(ctx, req.FormID, input)
	} else {
		report, err = h.proposalService.RunAll(ctx, input)
	}
	if err != nil {
		h.logger.WarnContext(ctx, "match run failed", "form_id", req.FormID, "dry_run", req.DryRun, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, report)
}

type matchRunRequest struct {
	FormID     string `json:"formId"`
	MaxWorkers int    `json:"maxWorkers" validate:"gte=0,lte=32"`
	DryRun     bool   `json:"dryRun"`
}

func (h *Handler) decodeMatchRunRequest(ctx context.Context, r *http.Request) (matchRunRequest, error) {
	var req matchRunRequest
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		return matchRunRequest{}, fmt.Errorf("%w: read request body: %v", usecase.ErrInvalidInput, err)
	}
	if len(body) > 0 {
		if err := sonic.Unmarshal(body, &req); err != nil {
			return matchRunRequest{}, fmt.Errorf("%w: decode request body: %v", usecase.ErrInvalidInput, err)
		}
	}
	if err := h.validator.StructCtx(ctx, req); err != nil {
		return matchRunRequest{}, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}
	return req, nil
}

type formDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	GameType  string    `json:"gameType"`
	Season    string    `json:"season"`
	Deadline  time.Time `json:"deadline"`
	CreatedAt time.Time `json:"createdAt"`
}

type questionDTO struct {
	MatchNumber int    `json:"matchNumber"`
	HomeTeam    string `json:"homeTeam"`
	AwayTeam    string `json:"awayTeam"`
	GoalBonus   bool   `json:"goalBonus"`
}

type formQuestionsDTO struct {
	Form      formDTO       `json:"form"`
	Questions []questionDTO `json:"questions"`
}

type candidateDTO struct {
	MatchNumber     int       `json:"matchNumber"`
	SourceID        string    `json:"sourceId"`
	Confidence      int       `json:"confidence"`
	Outcome         string    `json:"outcome"`
	HomeGoals       int       `json:"homeGoals"`
	AwayGoals       int       `json:"awayGoals"`
	HomeGoalsBucket string    `json:"homeGoalsBucket,omitempty"`
	AwayGoalsBucket string    `json:"awayGoalsBucket,omitempty"`
	ResultHomeTeam  string    `json:"resultHomeTeam"`
	ResultAwayTeam  string    `json:"resultAwayTeam"`
	KickoffAt       time.Time `json:"kickoffAt"`
	Confirmed       bool      `json:"confirmed"`
}

func formToDTO(f question.Form) formDTO {
	return formDTO{
		ID:        f.ID,
		Name:      f.Name,
		GameType:  string(f.GameType),
		Season:    f.Season,
		Deadline:  f.Deadline,
		CreatedAt: f.CreatedAt,
	}
}

func candidateToDTO(c candidate.MatchCandidate) candidateDTO {
	return candidateDTO{
		MatchNumber:     c.MatchNumber,
		SourceID:        c.SourceID,
		Confidence:      c.Confidence,
		Outcome:         string(c.Outcome),
		HomeGoals:       c.HomeGoals,
		AwayGoals:       c.AwayGoals,
		HomeGoalsBucket: c.HomeGoalsBucket,
		AwayGoalsBucket: c.AwayGoalsBucket,
		ResultHomeTeam:  c.ResultHomeTeam,
		ResultAwayTeam:  c.ResultAwayTeam,
		KickoffAt:       c.KickoffAt,
		Confirmed:       c.Confirmed,
	}
}
