package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/xavierca1/lead-portal/internal/config"
	"github.com/xavierca1/lead-portal/internal/entity"
	"github.com/xavierca1/lead-portal/internal/infra/database"
	"github.com/xavierca1/lead-portal/internal/infra/database/memory"
	"github.com/xavierca1/lead-portal/internal/infra/http/handlers"
	"github.com/xavierca1/lead-portal/internal/infra/integration/kommo"
	"github.com/xavierca1/lead-portal/internal/infra/mail"
	"github.com/xavierca1/lead-portal/internal/infra/queue"
	"github.com/xavierca1/lead-portal/internal/infra/worker"
	"github.com/xavierca1/lead-portal/internal/session"
	"github.com/xavierca1/lead-portal/internal/usecase"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("no .env file found, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}

	log := newLogger(cfg)

	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

func newLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

func run(cfg *config.Config, log *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Repositories
	var (
		db           *sql.DB
		leadRepo     entity.LeadRepository
		settingsRepo entity.SettingsRepository
	)
	if cfg.DatabaseURL != "" {
		var err error
		db, err = database.NewDBConnection(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := database.Migrate(ctx, db); err != nil {
			return err
		}
		leadRepo = database.NewLeadRepository(db)
		settingsRepo = database.NewSettingsRepository(db, entity.DefaultSettings())
		log.Info("using PostgreSQL store")
	} else {
		mem := memory.Open(entity.DefaultSettings())
		leadRepo = memory.NewLeadRepository(mem)
		settingsRepo = memory.NewSettingsRepository(mem)
		log.Warn("DATABASE_URL not set, leads are kept in memory")
	}

	// 2. Notification dispatch and CRM sync
	var mailer queue.CouponMailer
	if cfg.MailEnabled() {
		mailer = mail.NewEmailSender(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPassword, cfg.MailFrom, cfg.MailTimeout)
	} else {
		mailer = mail.NewConsoleSender(log)
	}

	var crm queue.CRMClient
	if cfg.KommoAPIToken != "" {
		crm = kommo.NewClient(cfg.KommoAPIToken, cfg.KommoBaseURL, log)
	}

	var (
		dispatcher usecase.CouponDispatcher = mailer
		events     usecase.EventPublisher
		rabbitConn *amqp.Connection
	)
	if cfg.RabbitMQURL != "" {
		rabbit, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			return err
		}
		defer rabbit.Close()
		rabbitConn = rabbit.Conn

		producer := queue.NewProducer(rabbit.Ch)
		dispatcher = producer
		events = producer

		consumerCh, err := rabbit.Conn.Channel()
		if err != nil {
			return err
		}
		defer consumerCh.Close()

		// 3. Workers
		consumer := queue.NewWorker(consumerCh, mailer, crm, log)
		go func() {
			if err := consumer.Start(ctx); err != nil {
				log.WithError(err).Error("worker stopped")
			}
		}()
	}

	go worker.NewPriorityMonitor(leadRepo, cfg.PriorityResponseWindow, log).Start(ctx)

	sessions, err := session.NewProvider(cfg.JWTSecret, cfg.SessionTTL, cfg.AdminID, cfg.AdminSecret)
	if err != nil {
		return err
	}

	// 4. Use cases
	couponUC := usecase.NewRequestCouponUseCase(leadRepo, settingsRepo, dispatcher, log)
	assistedUC := usecase.NewRequestAssistedSaleUseCase(leadRepo, settingsRepo, events, log)
	leadsUC := usecase.NewLeadsUseCase(leadRepo, log)
	settingsUC := usecase.NewSettingsUseCase(settingsRepo, log)
	authUC := usecase.NewAuthUseCase(sessions, log)
	dashboardUC := usecase.NewDashboardUseCase(leadRepo, settingsRepo)

	// 5. Handlers
	limiter := handlers.NewRateLimiter(cfg.IntakeRateLimit, time.Minute)
	go limiter.Cleanup(10*time.Minute, ctx.Done())

	router := handlers.Router{
		Auth:      handlers.NewAuthHandler(authUC, log),
		Leads:     handlers.NewLeadHandler(couponUC, assistedUC, leadsUC, limiter, log),
		Settings:  handlers.NewSettingsHandler(settingsUC, log),
		Dashboard: handlers.NewDashboardHandler(dashboardUC, log),
		Health: handlers.NewHealthHandler(db, rabbitConn, map[string]bool{
			"smtp":  cfg.MailEnabled(),
			"kommo": crm != nil,
		}),
		Sessions:          sessions,
		AllowedOrigins:    cfg.AllowedOrigins,
		TrustProxyHeaders: cfg.TrustProxyHeaders,
		Log:               log,
	}

	// 6. Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{
			"port":        cfg.Port,
			"environment": cfg.Environment,
		}).Info("lead portal listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
