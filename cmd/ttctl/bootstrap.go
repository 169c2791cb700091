package main

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/campusforge/ttcore/internal/metrics"
	"github.com/campusforge/ttcore/internal/orchestrator"
	"github.com/campusforge/ttcore/internal/repository"
	"github.com/campusforge/ttcore/internal/solver"
	"github.com/campusforge/ttcore/pkg/config"
	"github.com/campusforge/ttcore/pkg/database"
	"github.com/campusforge/ttcore/pkg/logger"
)

// env bundles the dependencies every subcommand needs so each one only
// wires what it actually calls.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *sqlx.DB
	reader *repository.EntityReader
}

func newEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return &env{cfg: cfg, logger: logr, db: db, reader: repository.NewEntityReader(db)}, nil
}

func (e *env) close() {
	_ = e.db.Close()
	_ = e.logger.Sync()
}

// newOrchestrator wires an orchestrator.Service over this env's
// database, mirroring the solver/fallback selection
// cmd/api-gateway/main.go would use if generation were exposed over
// HTTP in this deployment.
func (e *env) newOrchestrator(metricsSvc *metrics.Service) *orchestrator.Service {
	var primary solver.Solver = solver.PrimarySolver{}
	var fallback solver.Solver = solver.FallbackSolver{}
	if e.cfg.Solver.WallClockTimeout > 0 {
		primary = solver.TimeBounded{Inner: primary, Timeout: e.cfg.Solver.WallClockTimeout}
		fallback = solver.TimeBounded{Inner: fallback, Timeout: e.cfg.Solver.WallClockTimeout}
	}
	return orchestrator.NewService(
		e.reader,
		repository.NewAssignmentRepository(e.db),
		repository.NewVersionRepository(e.db),
		e.db,
		orchestrator.Config{
			Primary:         primary,
			Fallback:        fallback,
			FallbackEnabled: e.cfg.Solver.FallbackEnabled,
			MaxDailyCap:     e.cfg.Solver.MaxDailyCourseSlots,
			Metrics:         metricsSvc,
		},
		e.logger,
	)
}
