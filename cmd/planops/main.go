package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/alexanderramin/planops/internal/cli"
	"github.com/alexanderramin/planops/internal/cli/formatter"
	"github.com/alexanderramin/planops/internal/config"
	"github.com/alexanderramin/planops/internal/db"
	"github.com/alexanderramin/planops/internal/httpapi"
	"github.com/alexanderramin/planops/internal/logging"
	"github.com/alexanderramin/planops/internal/repository"
	"github.com/alexanderramin/planops/internal/service"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		formatter.DisableColor()
	}

	var (
		database *sql.DB
		logger   *zap.Logger
	)
	defer func() {
		if database != nil {
			database.Close()
		}
		if logger != nil {
			_ = logger.Sync()
		}
	}()

	app := &cli.App{}
	app.Setup = func(ctx context.Context, configPath string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		logger, err = logging.New(cfg.Log.Logging())
		if err != nil {
			return fmt.Errorf("building logger: %w", err)
		}

		database, err = db.OpenDB(cfg.DB.Path)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}

		// Wire repositories
		customerRepo := repository.NewSQLiteCustomerRepo(database)
		planRepo := repository.NewSQLitePlanRepo(database)
		catalogRepo := repository.NewSQLiteCatalogRepo(database)
		uow := db.NewSQLiteUnitOfWork(database)

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metricsObserver, err := service.NewMetricsUseCaseObserver(reg)
		if err != nil {
			return fmt.Errorf("registering use-case metrics: %w", err)
		}
		observers := []service.UseCaseObserver{service.NewZapUseCaseObserver(logger), metricsObserver}

		settings := service.Settings{
			DuePolicy:       cfg.Plan.DuePolicy(),
			BatchSize:       cfg.Plan.BatchSize,
			ReadConcurrency: cfg.Plan.ReadConcurrency,
		}

		// Wire services
		planSvc := service.NewPlanService(customerRepo, planRepo, catalogRepo, settings, observers...)
		app.Customers = service.NewCustomerService(customerRepo, uow, observers...)
		app.Plans = planSvc
		app.Rules = service.NewRuleService(customerRepo, planRepo, catalogRepo, uow, settings, observers...)
		app.Overview = service.NewOverviewService(customerRepo, planSvc, settings, observers...)
		app.Actor = cfg.Auth.CLIActor

		secret := []byte(cfg.Auth.JWTSecret.Value())
		app.IssueToken = func(email string, ttl time.Duration) (string, error) {
			if len(secret) == 0 {
				return "", errors.New("auth.jwt_secret is not set")
			}
			return httpapi.IssueToken(secret, email, ttl)
		}

		app.Serve = func(ctx context.Context) error {
			if missing, err := app.Rules.MissingPackageCatalogs(ctx); err != nil {
				return err
			} else if len(missing) > 0 {
				logger.Warn("packages without a rule catalog fall back to default", zap.Strings("catalogs", missing))
			}

			srv, err := httpapi.NewServer(httpapi.Services{
				Customers: app.Customers,
				Plans:     app.Plans,
				Rules:     app.Rules,
				Overview:  app.Overview,
			}, reg, logger, &httpapi.Config{
				Host:      cfg.Server.Host,
				Port:      cfg.Server.Port,
				JWTSecret: secret,
			})
			if err != nil {
				return err
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(srv.Start)
			g.Go(func() error {
				<-gctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})
			return g.Wait()
		}
		return nil
	}

	// Execute root command
	rootCmd := cli.NewRootCmd(app)
	return rootCmd.ExecuteContext(context.Background())
}
