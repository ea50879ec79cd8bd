package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadp "lendledger/internal/adapter/http"
	"lendledger/internal/adapter/middleware"
	"lendledger/internal/infrastructure/cache"
	"lendledger/internal/infrastructure/db"
	"lendledger/internal/infrastructure/metrics"
	"lendledger/internal/infrastructure/scheduler"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

var (
	autoMigrate bool
	noScheduler bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the job scheduler",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&autoMigrate, "migrate", false, "apply migrations before serving")
	serveCmd.Flags().BoolVar(&noScheduler, "no-scheduler", false, "do not run periodic jobs in this process")
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	if autoMigrate {
		if err := db.Migrate(a.db); err != nil {
			return err
		}
	}

	rdb, err := cache.OpenRedis(ctx, cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		return err
	}
	defer rdb.Close()

	sched := scheduler.New(log.Named("scheduler"), time.Duration(cfg.JobTimeoutSecs)*time.Second)
	if !noScheduler {
		if err := sched.Add("accrue", cfg.AccrualSchedule, discardIDs(a.repayments.AccrueAll)); err != nil {
			return err
		}
		if err := sched.Add("check_defaults", cfg.DefaultCheckSchedule, discardIDs(a.loans.CheckForDefault)); err != nil {
			return err
		}
		sched.Start()
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, log.Named("ratelimit"))

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Recover(), middleware.AccessLog(log.Named("http")))

	var jobs *httpadp.JobHandler
	if cfg.OperatorToken != "" {
		jobs = httpadp.NewJobHandler(a.loans, a.repayments)
	} else {
		log.Warn("OPERATOR_TOKEN unset; /jobs routes disabled")
	}

	httpadp.Router{
		Health: httpadp.NewHandler(map[string]httpadp.Check{
			"db": func(ctx context.Context) error {
				sqlDB, err := a.db.DB()
				if err != nil {
					return err
				}
				return sqlDB.PingContext(ctx)
			},
			"redis": func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		}),
		Users:      httpadp.NewUserHandler(a.users),
		Loans:      httpadp.NewLoanHandler(a.loans),
		Repayments: httpadp.NewRepaymentHandler(a.repayments),
		Jobs:       jobs,
		Metrics:    metrics.Handler(),

		JobMiddleware: []echo.MiddlewareFunc{
			middleware.OperatorToken(cfg.OperatorToken),
			limiter.Middleware(),
		},
	}.Register(e,
		limiter.Middleware(),
		middleware.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second, log.Named("idempotency")),
	)

	go func() {
		t := time.NewTicker(time.Minute)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				limiter.Cleanup()
			}
		}
	}()

	errc := make(chan error, 1)
	go func() {
		addr := ":" + cfg.AppPort
		log.Info("listening", zap.String("addr", addr))
		errc <- e.Start(addr)
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutCtx); err != nil {
		log.Warn("http shutdown", zap.Error(err))
	}
	sched.Stop(shutCtx)
	return nil
}

func discardIDs(fn func(context.Context) ([]string, error)) scheduler.Job {
	return func(ctx context.Context) error {
		_, err := fn(ctx)
		return err
	}
}
