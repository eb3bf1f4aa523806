package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"qbench/adapters/excel"
	"qbench/adapters/postgres"
	"qbench/adapters/report"
	"qbench/adapters/sim"
	"qbench/app"
	"qbench/domain/bench"
	"qbench/internal"
	"qbench/internal/config"
	"qbench/internal/errors"
	"qbench/internal/migration"
	"qbench/ports"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// defaultSuite is the benchmark set the pipeline runs when invoked without
// arguments: every family at small sizes, swept over depolarizing strengths.
func defaultSuite() app.SweepRequest {
	return app.SweepRequest{
		Benchmarks: []bench.Spec{
			{Family: bench.FamilyGHZ, Qubits: 3},
			{Family: bench.FamilyGHZ, Qubits: 5},
			{Family: bench.FamilyMerminBell, Qubits: 3},
			{Family: bench.FamilyMerminBell, Qubits: 4},
			{Family: bench.FamilyQAOAVanilla, Qubits: 4, Seed: 1},
			{Family: bench.FamilyQAOAVanilla, Qubits: 6, Seed: 1},
			{Family: bench.FamilyQAOAFermionicSwap, Qubits: 4, Seed: 1},
			{Family: bench.FamilyVQEProxy, Qubits: 4, Layers: 1, Seed: 1},
			{Family: bench.FamilyVQEProxy, Qubits: 4, Layers: 2, Seed: 1},
			{Family: bench.FamilyBitCode, Qubits: 3, Rounds: 2, State: []int{1, 0, 1}},
			{Family: bench.FamilyPhaseCode, Qubits: 3, Rounds: 2, State: []int{0, 1, 0}},
		},
		NoiseProbs: []float64{0, 0.001, 0.005, 0.01, 0.05, 0.1},
	}
}

func initDatabase(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}
	migrator := migration.NewRunner()
	if err := migrator.Run(context.Background(), db); err != nil {
		return nil, errors.Wrap(err, "database migration failed")
	}
	return db, nil
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := internal.NewDefaultLogger()

	if err := run(cfg, logger); err != nil {
		logger.Error("pipeline failed: %v", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *internal.Logger) error {
	ctx := context.Background()

	engine, err := sim.NewEngine(cfg.Simulator.MaxQubits)
	if err != nil {
		return errors.Wrap(err, "failed to create simulation engine")
	}
	sweepSvc, err := app.NewSweepService(engine, logger, cfg.Sweep.Workers, cfg.Sweep.RunTimeout)
	if err != nil {
		return errors.Wrap(err, "failed to create sweep service")
	}

	sweep, err := sweepSvc.Run(ctx, defaultSuite())
	if err != nil {
		return errors.Wrap(err, "sweep execution failed")
	}

	corrSvc := app.NewCorrelationService(logger)
	analysis, err := corrSvc.Correlate(sweep.Records)
	if err != nil {
		logger.Warn("correlation skipped: %v", err)
		analysis = nil
	}

	if cfg.Database.URL != "" {
		db, err := initDatabase(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		var repo ports.ResultRepository = postgres.NewResultRepository(db)
		if err := repo.SaveSweep(ctx, sweep); err != nil {
			return errors.Wrap(err, "failed to persist sweep")
		}
		logger.Info("sweep %s persisted", sweep.ID)
	}

	if cfg.Output.ExcelFile != "" {
		if err := excel.WriteWorkbook(cfg.Output.ExcelFile, sweep, analysis); err != nil {
			return errors.ExportError("excel", err)
		}
		logger.Info("workbook written to %s", cfg.Output.ExcelFile)
	}

	if cfg.Output.ReportFile != "" {
		if err := report.Write(cfg.Output.ReportFile, sweep, analysis); err != nil {
			return errors.ExportError("report", err)
		}
		logger.Info("report written to %s", cfg.Output.ReportFile)
	} else {
		fmt.Print(report.Markdown(sweep, analysis))
	}

	return nil
}
