package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/SrCloock/Asientos-Contables-ADIS-sub000/src/internal/adapter/http/controller"
	"github.com/SrCloock/Asientos-Contables-ADIS-sub000/src/internal/adapter/http/middleware"
	"github.com/SrCloock/Asientos-Contables-ADIS-sub000/src/internal/adapter/http/router"
	"github.com/SrCloock/Asientos-Contables-ADIS-sub000/src/internal/adapter/repository/memory"
	"github.com/SrCloock/Asientos-Contables-ADIS-sub000/src/internal/adapter/repository/postgres"
	"github.com/SrCloock/Asientos-Contables-ADIS-sub000/src/internal/adapter/repository/repo_interfaces"
	"github.com/SrCloock/Asientos-Contables-ADIS-sub000/src/internal/adapter/repository/sqlite"
	"github.com/SrCloock/Asientos-Contables-ADIS-sub000/src/internal/config"
	"github.com/SrCloock/Asientos-Contables-ADIS-sub000/src/internal/domain"
	"github.com/SrCloock/Asientos-Contables-ADIS-sub000/src/internal/logger"
	"github.com/SrCloock/Asientos-Contables-ADIS-sub000/src/internal/usecase/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	entryRepo, sequenceRepo, err := buildStorage(ctx, cfg)
	if err != nil {
		log.Fatalf("storage setup: %v", err)
	}

	masterDataRepo, err := buildMasterData(cfg)
	if err != nil {
		log.Fatalf("master data setup: %v", err)
	}

	sessionRepo := memory.NewSessionRepository(domain.AnalyticContext{
		AnalyticDimensions: domain.AnalyticDimensions{Channel: cfg.ChannelID},
		DefaultCashAccount: cfg.Accounts.Cash,
	})
	attachmentStore := memory.NewAttachmentStore()

	entryService := services.NewEntryService(
		entryRepo,
		sequenceRepo,
		masterDataRepo,
		sessionRepo,
		attachmentStore,
		services.NewTaxCalculator(),
		services.NewPostingResolver(),
		services.NewBalanceValidator(),
		cfg.CompanyCode,
		domain.AccountSelection{
			Cash:                  cfg.Accounts.Cash,
			VATDeductible:         cfg.Accounts.VATDeductible,
			VATOutput:             cfg.Accounts.VATOutput,
			WithholdingPayable:    cfg.Accounts.WithholdingPayable,
			WithholdingReceivable: cfg.Accounts.WithholdingReceivable,
		},
	)
	entryQueryService := services.NewEntryQueryService(entryRepo, cfg.CompanyCode)

	entryController := controller.NewEntryController(entryService, entryQueryService)
	authMiddleware := middleware.BasicAuth(cfg.ChannelID, cfg.ChannelKey, cfg.ChannelKeyHash)
	mux := router.New(entryController, authMiddleware)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.Info("http server starting", logger.Fields{
			"addr":   cfg.HTTPAddr,
			"driver": cfg.DatabaseDriver,
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		logger.Info("http server shutting down", nil)
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Fatalf("server: %v", err)
	}
}

func buildStorage(ctx context.Context, cfg config.Config) (repo_interfaces.EntryRepository, repo_interfaces.SequenceRepository, error) {
	switch cfg.DatabaseDriver {
	case "postgres":
		setupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		db, err := postgres.Open(setupCtx, cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.RunMigrations(setupCtx, db, cfg.MigrationsDir); err != nil {
			return nil, nil, err
		}
		return postgres.NewEntryRepository(db), postgres.NewSequenceRepository(db), nil

	case "sqlite":
		setupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		db, err := sqlite.Open(setupCtx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if err := sqlite.EnsureSchema(setupCtx, db); err != nil {
			return nil, nil, err
		}
		return sqlite.NewEntryRepository(db), sqlite.NewSequenceRepository(db), nil

	case "memory":
		sequences := memory.NewSequenceRepository()
		return memory.NewEntryRepository(sequences), sequences, nil

	default:
		return nil, nil, errors.New("unsupported DB_DRIVER: " + cfg.DatabaseDriver)
	}
}

func buildMasterData(cfg config.Config) (repo_interfaces.MasterDataRepository, error) {
	if cfg.MasterDataFile != "" {
		return memory.NewMasterDataRepositoryFromFile(cfg.MasterDataFile)
	}
	return memory.NewMasterDataRepository(), nil
}
