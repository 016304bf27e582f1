package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/terraincognita07/fetalrisk/internal/api"
	"github.com/terraincognita07/fetalrisk/internal/config"
	"github.com/terraincognita07/fetalrisk/internal/db"
	"github.com/terraincognita07/fetalrisk/internal/llm"
	"github.com/terraincognita07/fetalrisk/internal/logger"
	"github.com/terraincognita07/fetalrisk/internal/metrics"
	"github.com/terraincognita07/fetalrisk/internal/notify"
	"github.com/terraincognita07/fetalrisk/internal/predictor"
	"github.com/terraincognita07/fetalrisk/internal/resilient"
	"github.com/terraincognita07/fetalrisk/internal/tracing"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func runServe(ctx context.Context, configFile string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() {
		_ = log.Sync()
	}()

	tracerProvider, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		return fmt.Errorf("tracing init failed: %w", err)
	}

	database, err := db.OpenSQLite(cfg.DBPath, log)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	defer closeDatabase(database)

	collector := metrics.NewCollector()
	httpClient := &http.Client{}

	backend, err := predictor.New(cfg.Predictor, httpClient)
	if err != nil {
		return fmt.Errorf("predictor init failed: %w", err)
	}
	riskPredictor := predictor.NewService(backend, cfg.Predictor, log, collector)

	emailSender, err := notify.NewEmailSender(cfg.Email, httpClient, log)
	if err != nil {
		return fmt.Errorf("email sender init failed: %w", err)
	}
	emailQueue := notify.NewEmailQueue(emailSender, cfg.Email.QueueSize, cfg.Email.SendTimeout, log, collector)

	smsSender, err := notify.NewSMSSender(cfg.SMS, httpClient, log)
	if err != nil {
		return fmt.Errorf("sms sender init failed: %w", err)
	}
	alerts := notify.NewAlertDispatcher(emailQueue, smsSender, cfg.SMS.Timeout, log, collector)

	chat := llm.New(cfg.AI, httpClient)
	chatCaller := resilient.NewCaller[string](resilient.Policy{Name: "llm", Timeout: cfg.AI.Timeout}, log, collector)

	location := cfg.Location()
	handler, err := api.NewHandler(database, api.Options{
		SecretKey:       cfg.SecretKey,
		TokenTTL:        cfg.TokenTTL,
		Location:        location,
		AIRatePerMinute: cfg.AI.RatePerMinute,
		Logger:          log,
		Metrics:         collector,
		Predictor:       riskPredictor,
		Alerts:          alerts,
		Chat:            chat,
		ChatCaller:      chatCaller,
	})
	if err != nil {
		return fmt.Errorf("handler init failed: %w", err)
	}
	app := api.NewApp(handler, cfg.CORSOrigins)

	signalCtx, stopSignals := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stopSignals()
	group, groupCtx := errgroup.WithContext(signalCtx)

	group.Go(func() error {
		log.Info("fetalrisk listening",
			zap.String("addr", ":"+cfg.Port),
			zap.String("db", cfg.DBPath),
			zap.String("tz", location.String()),
			zap.String("predictor_mode", cfg.Predictor.Mode),
			zap.Bool("ai_enabled", chat.Enabled()),
		)
		if err := app.Listen(":" + cfg.Port); err != nil {
			return fmt.Errorf("server exited: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var errs []error
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("server shutdown: %w", err))
		}
		if err := emailQueue.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("email queue shutdown: %w", err))
		}
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
		return errors.Join(errs...)
	})

	return group.Wait()
}
