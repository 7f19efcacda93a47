package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"payout/internal/config"
	"payout/internal/gateway/paystream"
	httphandler "payout/internal/handler/http"
	"payout/internal/repository/migration"
	"payout/internal/repository/postgresql"
	"payout/internal/service"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

func main() {
	logrus.SetFormatter(new(logrus.JSONFormatter))

	if err := godotenv.Load(); err != nil {
		logrus.Infof("no .env file loaded: %s", err)
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load configuration: %s", err)
	}

	if level, err := logrus.ParseLevel(cfg.Logger.LoggerLevel); err == nil {
		logrus.SetLevel(level)
	}

	db, err := postgresql.NewPostgresDB(cfg.DB)
	if err != nil {
		logrus.Fatalf("failed to connect to database: %s", err)
	}
	defer db.Close()

	if err := migration.RunMigrations(db); err != nil {
		logrus.Fatalf("failed to run migrations: %s", err)
	}

	withdrawalRepo := postgresql.NewWithdrawalRepository(db)
	ledgerRepo := postgresql.NewLedgerRepository(db)
	txManager := postgresql.NewTxManager(db)

	gateway := paystream.NewClient(cfg.Provider)

	withdrawalSvc := service.NewWithdrawalService(withdrawalRepo, ledgerRepo, txManager)
	reconcileSvc := service.NewReconcileService(withdrawalRepo, ledgerRepo, txManager, gateway, cfg.Reconciler.StaleAfter)
	adminSvc := service.NewAdminService(withdrawalRepo, ledgerRepo, txManager, gateway)

	handler := httphandler.NewHandler(withdrawalSvc, adminSvc, reconcileSvc, gateway, cfg.Token.AuthToken, cfg.Token.AdminToken)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler.InitRoutes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go runReconciler(ctx, reconcileSvc.ReconcileStale, cfg.Reconciler.Interval)

	go func() {
		logrus.Infof("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Errorf("server stopped: %s", err)
			stop()
		}
	}()

	<-ctx.Done()
	logrus.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("shutdown error: %s", err)
		os.Exit(1)
	}
}

func runReconciler(ctx context.Context, reconcile func(context.Context) error, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := reconcile(ctx); err != nil {
				logrus.Errorf("reconciliation pass failed: %s", err)
			}
		}
	}
}
