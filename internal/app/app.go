package app

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	_ "github.com/lib/pq"

	"github.com/jmoiron/sqlx"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.12.0"

	"github.com/porrapolo/match-engine/external/lenfeed"
	"github.com/porrapolo/match-engine/external/vpstats"
	"github.com/porrapolo/match-engine/internal/config"
	"github.com/porrapolo/match-engine/internal/domain/candidate"
	"github.com/porrapolo/match-engine/internal/domain/question"
	"github.com/porrapolo/match-engine/internal/infrastructure/repository/memory"
	"github.com/porrapolo/match-engine/internal/infrastructure/repository/postgres"
	"github.com/porrapolo/match-engine/internal/interfaces/httpapi"
	idgen "github.com/porrapolo/match-engine/internal/platform/id"
	"github.com/porrapolo/match-engine/internal/platform/logging"
	"github.com/porrapolo/match-engine/internal/platform/resilience"
	"github.com/porrapolo/match-engine/internal/usecase"
)

// Application bundles the HTTP server with the resources it owns.
type Application struct {
	Server *http.Server
	db     *sqlx.DB
}

func NewApplication(cfg config.Config, logger *slog.Logger, zlog *logging.Logger) (*Application, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if zlog == nil {
		zlog = logging.Default()
	}

	var (
		db            *sqlx.DB
		questionRepo  question.Repository
		candidateRepo candidate.Repository
	)
	if cfg.DBEnabled {
		opened, err := openDB(cfg)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		db = opened
		questionRepo = postgres.NewQuestionRepository(db)
		candidateRepo = postgres.NewCandidateRepository(db)
	} else {
		questionRepo = memory.NewQuestionRepository(memory.SeedForms(), memory.SeedQuestions())
		candidateRepo = memory.NewCandidateRepository()
	}

	fetchers := buildFetchers(cfg, zlog)

	policy := usecase.NormalizeThresholdPolicy(usecase.ThresholdPolicy{
		Default:         cfg.MatchThresholdDefault,
		ChampionsLeague: cfg.MatchThresholdChampions,
		SimilarityFloor: cfg.MatchSimilarityFloor,
	})

	buckets, err := bucketsFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	aggregator := usecase.NewAggregatorService(fetchers, cfg.ResultWindowDays, cfg.SourceFetchTimeout, zlog)
	matcher := usecase.NewMatchService(buckets, zlog)
	formSvc := usecase.NewFormService(questionRepo)
	proposalSvc := usecase.NewProposalService(
		questionRepo,
		candidateRepo,
		aggregator,
		matcher,
		policy,
		cfg.MatchRunWorkers,
		idgen.NewRandomGenerator(),
		zlog,
	)

	handler := httpapi.NewHandler(formSvc, proposalSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return &Application{Server: server, db: db}, nil
}

// Close releases resources that outlive the HTTP server shutdown.
func (a *Application) Close() error {
	if a == nil || a.db == nil {
		return nil
	}

	return a.db.Close()
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

func buildFetchers(cfg config.Config, zlog *logging.Logger) []usecase.Fetcher {
	var fetchers []usecase.Fetcher

	if cfg.VPStatsEnabled {
		fetchers = append(fetchers, vpstats.NewClient(vpstats.ClientConfig{
			BaseURL:     cfg.VPStatsBaseURL,
			Token:       cfg.VPStatsToken,
			Competition: cfg.VPStatsCompetition,
			WindowDays:  cfg.ResultWindowDays,
			Timeout:     cfg.VPStatsTimeout,
			MaxRetries:  cfg.VPStatsMaxRetries,
			Logger:      zlog,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.VPStatsCircuitEnabled,
				FailureThreshold: cfg.VPStatsCircuitFailureCount,
				OpenTimeout:      cfg.VPStatsCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.VPStatsCircuitHalfOpenMaxReq,
			},
		}))
	}

	if cfg.LENFeedEnabled {
		fetchers = append(fetchers, lenfeed.NewClient(lenfeed.ClientConfig{
			BaseURL:    cfg.LENFeedBaseURL,
			APIKey:     cfg.LENFeedAPIKey,
			Season:     cfg.LENFeedSeason,
			Timeout:    cfg.LENFeedTimeout,
			MaxRetries: cfg.LENFeedMaxRetries,
			Logger:     zlog,
		}))
	}

	return fetchers
}

func bucketsFromConfig(cfg config.Config) (map[question.GameType]usecase.GoalBuckets, error) {
	waterpolo, err := usecase.NewGoalBuckets(cfg.WaterpoloBuckets.LowMax, cfg.WaterpoloBuckets.HighMin)
	if err != nil {
		return nil, fmt.Errorf("waterpolo goal buckets: %w", err)
	}
	football, err := usecase.NewGoalBuckets(cfg.FootballBuckets.LowMax, cfg.FootballBuckets.HighMin)
	if err != nil {
		return nil, fmt.Errorf("football goal buckets: %w", err)
	}

	return map[question.GameType]usecase.GoalBuckets{
		question.GameTypeWaterpolo: waterpolo,
		question.GameTypeFootball:  football,
	}, nil
}
