package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/porrapolo/match-engine/internal/domain/candidate"
	"github.com/porrapolo/match-engine/internal/domain/question"
	idgen "github.com/porrapolo/match-engine/internal/platform/id"
	"github.com/porrapolo/match-engine/internal/platform/logging"
)

const (
	runStatusSuccess = "success"
	runStatusFailed  = "failed"
	runStatusSkipped = "skipped"
)

type RunInput struct {
	MaxWorkers int
	// DryRun computes candidates without replacing stored ones.
	DryRun bool
}

type RunReport struct {
	RunID         string          `json:"run_id,omitempty"`
	FormCount     int             `json:"form_count"`
	SuccessCount  int             `json:"success_count"`
	FailedCount   int             `json:"failed_count"`
	SkippedCount  int             `json:"skipped_count"`
	WorkerCount   int             `json:"worker_count"`
	SnapshotAt    time.Time       `json:"snapshot_at"`
	ResultCount   int             `json:"result_count"`
	FailedSources []string        `json:"failed_sources,omitempty"`
	Forms         []FormRunReport `json:"forms"`
}

type FormRunReport struct {
	FormID      string                 `json:"form_id"`
	Status      string                 `json:"status"`
	Candidates  int                    `json:"candidates"`
	Diagnostics []candidate.Diagnostic `json:"diagnostics,omitempty"`
	DurationMs  int64                  `json:"duration_ms"`
	Message     string                 `json:"message,omitempty"`
}

// ProposalService turns scraped results into per-form candidate proposals.
// Candidates are proposals only; a human confirms them before anything is
// filled into an answer sheet.
type ProposalService struct {
	questions      question.Repository
	candidates     candidate.Repository
	aggregator     *AggregatorService
	matcher        *MatchService
	policy         ThresholdPolicy
	defaultWorkers int
	ids            idgen.Generator
	logger         *logging.Logger
}

func NewProposalService(
	questions question.Repository,
	candidates candidate.Repository,
	aggregator *AggregatorService,
	matcher *MatchService,
	policy ThresholdPolicy,
	defaultWorkers int,
	ids idgen.Generator,
	logger *logging.Logger,
) *ProposalService {
	if defaultWorkers < 1 {
		defaultWorkers = 4
	}
	if ids == nil {
		ids = idgen.NewRandomGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ProposalService{
		questions:      questions,
		candidates:     candidates,
		aggregator:     aggregator,
		matcher:        matcher,
		policy:         NormalizeThresholdPolicy(policy),
		defaultWorkers: defaultWorkers,
		ids:            ids,
		logger:         logger,
	}
}

// newRunID labels a run for log correlation. Failing to mint one never
// fails the run itself.
func (s *ProposalService) newRunID(ctx context.Context) string {
	runID, err := s.ids.NewID()
	if err != nil {
		s.logger.WarnContext(ctx, "run id generation failed", "error", err)
		return ""
	}
	return runID
}

// RunForm recomputes candidates for a single form from a fresh snapshot.
func (s *ProposalService) RunForm(ctx context.Context, formID string, input RunInput) (RunReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProposalService.RunForm")
	defer span.End()

	formID = strings.TrimSpace(formID)
	if formID == "" {
		return RunReport{}, fmt.Errorf("%w: form id is required", ErrInvalidInput)
	}
	if err := s.ready(); err != nil {
		return RunReport{}, err
	}

	form, found, err := s.questions.GetForm(ctx, formID)
	if err != nil {
		return RunReport{}, fmt.Errorf("get form id=%s: %w", formID, err)
	}
	if !found {
		return RunReport{}, fmt.Errorf("%w: form id=%s", ErrNotFound, formID)
	}

	snapshot, err := s.aggregator.Snapshot(ctx, time.Now().UTC())
	if err != nil {
		return RunReport{}, err
	}

	report := RunReport{
		RunID:         s.newRunID(ctx),
		FormCount:     1,
		WorkerCount:   1,
		SnapshotAt:    snapshot.TakenAt,
		ResultCount:   len(snapshot.Results),
		FailedSources: snapshot.FailedSources,
		Forms:         make([]FormRunReport, 0, 1),
	}

	row := s.runForm(ctx, form, snapshot, input.DryRun)
	report.Forms = append(report.Forms, row)
	switch row.Status {
	case runStatusSuccess:
		report.SuccessCount = 1
	case runStatusSkipped:
		report.SkippedCount = 1
	default:
		report.FailedCount = 1
	}
	return report, nil
}

// RunAll recomputes candidates for every open form. One snapshot is taken up
// front and shared across the whole run; individual form failures are
// reported per form and never abort the rest.
func (s *ProposalService) RunAll(ctx context.Context, input RunInput) (RunReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProposalService.RunAll")
	defer span.End()

	if err := s.ready(); err != nil {
		return RunReport{}, err
	}

	forms, err := s.questions.ListForms(ctx)
	if err != nil {
		return RunReport{}, fmt.Errorf("list forms: %w", err)
	}

	requested := input.MaxWorkers
	if requested <= 0 {
		requested = s.defaultWorkers
	}
	workerCount := normalizeRunWorkerCount(requested, len(forms))
	report := RunReport{
		RunID:       s.newRunID(ctx),
		FormCount:   len(forms),
		WorkerCount: workerCount,
		Forms:       make([]FormRunReport, 0, len(forms)),
	}
	if len(forms) == 0 {
		return report, nil
	}

	snapshot, err := s.aggregator.Snapshot(ctx, time.Now().UTC())
	if err != nil {
		return RunReport{}, err
	}
	report.SnapshotAt = snapshot.TakenAt
	report.ResultCount = len(snapshot.Results)
	report.FailedSources = snapshot.FailedSources

	rows := make(chan FormRunReport, len(forms))

	var successCount atomic.Int32
	var failedCount atomic.Int32
	var skippedCount atomic.Int32

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return RunReport{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for _, form := range forms {
		form := form
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			row := s.runForm(ctx, form, snapshot, input.DryRun)
			switch row.Status {
			case runStatusSuccess:
				successCount.Add(1)
			case runStatusSkipped:
				skippedCount.Add(1)
			default:
				failedCount.Add(1)
			}
			rows <- row
		}); err != nil {
			workers.Done()
			return RunReport{}, fmt.Errorf("submit form to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(rows)

	for row := range rows {
		report.Forms = append(report.Forms, row)
	}
	sort.SliceStable(report.Forms, func(i, j int) bool {
		return report.Forms[i].FormID < report.Forms[j].FormID
	})

	report.SuccessCount = int(successCount.Load())
	report.FailedCount = int(failedCount.Load())
	report.SkippedCount = int(skippedCount.Load())

	s.logger.InfoContext(ctx, "match run finished",
		"run_id", report.RunID,
		"forms", report.FormCount,
		"success", report.SuccessCount,
		"failed", report.FailedCount,
		"skipped", report.SkippedCount,
		"workers", report.WorkerCount,
		"dry_run", input.DryRun,
	)
	return report, nil
}

func (s *ProposalService) runForm(
	ctx context.Context,
	form question.Form,
	snapshot Snapshot,
	dryRun bool,
) FormRunReport {
	start := time.Now()
	row := FormRunReport{FormID: form.ID}

	questions, err := s.questions.ListByForm(ctx, form.ID)
	if err != nil {
		row.Status = runStatusFailed
		row.Message = fmt.Sprintf("list questions: %v", err)
		row.DurationMs = time.Since(start).Milliseconds()
		return row
	}
	if len(questions) == 0 {
		row.Status = runStatusSkipped
		row.Message = "form has no questions"
		row.DurationMs = time.Since(start).Milliseconds()
		return row
	}

	candidates, diagnostics, err := s.matcher.Match(ctx, form, questions, snapshot.Results, s.policy)
	if err != nil {
		row.Status = runStatusFailed
		row.Message = fmt.Sprintf("match form: %v", err)
		row.DurationMs = time.Since(start).Milliseconds()
		return row
	}
	row.Candidates = len(candidates)
	row.Diagnostics = diagnostics

	if !dryRun {
		if err := s.candidates.ReplaceByForm(ctx, form.ID, candidates); err != nil {
			row.Status = runStatusFailed
			row.Message = fmt.Sprintf("store candidates: %v", err)
			row.DurationMs = time.Since(start).Milliseconds()
			return row
		}
	}

	s.logger.InfoContext(ctx, "form matched",
		"form_id", form.ID,
		"questions", len(questions),
		"candidates", len(candidates),
		"diagnostics", len(diagnostics),
		"dry_run", dryRun,
	)

	row.Status = runStatusSuccess
	row.DurationMs = time.Since(start).Milliseconds()
	return row
}

// Candidates lists the stored proposals for one form, slot order.
func (s *ProposalService) Candidates(ctx context.Context, formID string) ([]candidate.MatchCandidate, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProposalService.Candidates")
	defer span.End()

	formID = strings.TrimSpace(formID)
	if formID == "" {
		return nil, fmt.Errorf("%w: form id is required", ErrInvalidInput)
	}
	if s.questions == nil || s.candidates == nil {
		return nil, fmt.Errorf("%w: proposal service is not fully configured", ErrDependencyUnavailable)
	}

	_, found, err := s.questions.GetForm(ctx, formID)
	if err != nil {
		return nil, fmt.Errorf("get form id=%s: %w", formID, err)
	}
	if !found {
		return nil, fmt.Errorf("%w: form id=%s", ErrNotFound, formID)
	}

	items, err := s.candidates.ListByForm(ctx, formID)
	if err != nil {
		return nil, fmt.Errorf("list candidates form=%s: %w", formID, err)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].MatchNumber < items[j].MatchNumber
	})
	return items, nil
}

// Confirm marks one candidate as human-approved. Confirmed candidates survive
// later runs; the engine never overwrites a human decision.
func (s *ProposalService) Confirm(ctx context.Context, formID string, matchNumber int) (candidate.MatchCandidate, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProposalService.Confirm")
	defer span.End()

	formID = strings.TrimSpace(formID)
	if formID == "" {
		return candidate.MatchCandidate{}, fmt.Errorf("%w: form id is required", ErrInvalidInput)
	}
	if matchNumber <= 0 {
		return candidate.MatchCandidate{}, fmt.Errorf("%w: match number must be greater than zero", ErrInvalidInput)
	}
	if s.candidates == nil {
		return candidate.MatchCandidate{}, fmt.Errorf("%w: proposal service is not fully configured", ErrDependencyUnavailable)
	}

	confirmed, found, err := s.candidates.Confirm(ctx, formID, matchNumber)
	if err != nil {
		return candidate.MatchCandidate{}, fmt.Errorf("confirm candidate form=%s match=%d: %w", formID, matchNumber, err)
	}
	if !found {
		return candidate.MatchCandidate{}, fmt.Errorf("%w: candidate form=%s match=%d", ErrNotFound, formID, matchNumber)
	}
	return confirmed, nil
}

func (s *ProposalService) ready() error {
	if s.questions == nil || s.candidates == nil || s.aggregator == nil || s.matcher == nil {
		return fmt.Errorf("%w: proposal service is not fully configured", ErrDependencyUnavailable)
	}
	return nil
}

func normalizeRunWorkerCount(value int, formCount int) int {
	if formCount <= 0 {
		return 1
	}
	if value <= 0 {
		value = 4
	}
	if value > formCount {
		value = formCount
	}
	return value
}
