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

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/sync/errgroup"

	"business-visa-backend/docs"
	"business-visa-backend/internal/common/config"
	"business-visa-backend/internal/common/logger"
	"business-visa-backend/internal/common/metrics"
	"business-visa-backend/internal/common/middleware"
	"business-visa-backend/internal/common/secret"
	applicanthttp "business-visa-backend/internal/features/applicant/delivery/http"
	applicantqueue "business-visa-backend/internal/features/applicant/delivery/queue"
	applicantRepo "business-visa-backend/internal/features/applicant/repository/postgres"
	applicantService "business-visa-backend/internal/features/applicant/service"
	"business-visa-backend/internal/features/notifications"
	"business-visa-backend/internal/features/reconcile"
	userRepo "business-visa-backend/internal/features/user/repository/postgres"
	"business-visa-backend/internal/platform/mailer"
	"business-visa-backend/internal/platform/postgres"
	"business-visa-backend/internal/platform/queue"
	"business-visa-backend/internal/platform/redis"
	"business-visa-backend/internal/platform/underdog"
)

const serviceName = "business-visa-backend"

// @title           Business Visa API
// @version         1.0
// @description     Accepts approved applicants and mints their business visa NFTs. Every endpoint is gated on the shared secret.

// @host      localhost:8080
// @BasePath  /api/v1

// @tag.name applicants
// @tag.description Applicant acceptance and visa minting

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(serviceName, cfg.Debug)
	logger.Info().
		Bool("debug", cfg.Debug).
		Str("network", cfg.SolanaNetwork).
		Msg("Starting business visa backend")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.Fatal().Err(err).Msg("Service stopped with error")
	}
	logger.Info().Msg("Service exited")
}

func run(ctx context.Context, cfg *config.Config) error {
	postgresClient, err := postgres.NewClient(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer postgresClient.Close()
	logger.Info().Msg("Database connection established")

	if cfg.Postgres.AutoMigrate {
		if err := postgres.ApplyMigrations(postgresClient.DB()); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
		logger.Info().Msg("Migrations applied")
	}

	redisClient, err := redis.Open(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer redisClient.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	addr, password, db := redisClient.ConnOpts()
	asynqOpt := asynq.RedisClientOpt{Addr: addr, Password: password, DB: db}
	publisher := queue.NewPublisher(asynq.NewClient(asynqOpt), cfg.Queue.MintMaxRetry, m)
	defer publisher.Close()

	nftClient := underdog.NewClient(underdog.Options{
		BaseURL:    cfg.UnderdogBaseURL(),
		APIKey:     cfg.Underdog.APIKey,
		ProjectID:  cfg.Underdog.ProjectID,
		RatePerSec: cfg.Underdog.RatePerSec,
		Timeout:    cfg.Underdog.Timeout,
	})
	notifier := notifications.NewService(
		mailer.NewResendSender(cfg.Email.ResendAPIKey, cfg.Email.From),
		cfg.Email.From,
		cfg.Email.PaymentLinkURL,
	)

	applicantRepository := applicantRepo.NewPostgresRepository(postgresClient.DB())
	userRepository := userRepo.NewPostgresRepository(postgresClient.DB())

	applicantSvc := applicantService.NewApplicantService(applicantService.Deps{
		Gate:       secret.NewGate(cfg.AppSecret),
		Applicants: applicantRepository,
		Minter:     nftClient,
		Publisher:  publisher,
		Notifier:   notifier,
		Locker:     redis.NewLocker(redisClient, "visa:lock:"),
		Metrics:    m,
	}, applicantService.Settings{
		ClaimNetwork: cfg.ClaimNetwork(),
		Validity:     cfg.VisaValidity(),
	})

	queueServer := queue.NewServer(asynqOpt, cfg.Queue.Concurrency)
	queueServer.Handle(queue.TopicMintVisa, applicantqueue.NewMintVisaConsumer(applicantSvc))

	scheduler := reconcile.NewScheduler(redis.NewLocker(redisClient, "reconcile:lock:"), cfg.Jobs.LockTTL)
	jobs := []struct {
		spec string
		task reconcile.Task
	}{
		{cfg.Jobs.ExpireStatusSpec, reconcile.NewExpireStatusJob(userRepository, nftClient, notifier, time.Now, m)},
		{cfg.Jobs.ClaimStatusSpec, reconcile.NewClaimStatusJob(applicantRepository, userRepository, nftClient, notifier, m)},
		{cfg.Jobs.PendingMintSpec, reconcile.NewPendingMintJob(applicantRepository, applicantSvc, cfg.Jobs.PendingMintGrace, time.Now, m)},
	}
	for _, j := range jobs {
		if err := scheduler.Add(j.spec, j.task); err != nil {
			return err
		}
	}

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(m))
	router.Use(middleware.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.Origin}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Accept", "X-Request-ID"}
	router.Use(cors.New(corsConfig))

	v1 := router.Group("/api/v1")
	applicanthttp.NewApplicantHandler(applicantSvc).RegisterRoutes(v1)
	setupOpsRoutes(router, registry, postgresClient, redisClient)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return queueServer.Run(gctx)
	})
	g.Go(func() error {
		return scheduler.Run(gctx)
	})

	return g.Wait()
}

func setupOpsRoutes(router *gin.Engine, registry *prometheus.Registry, postgresClient *postgres.Client, redisClient *redis.Client) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
			"service":   serviceName,
		})
	})

	router.GET("/live", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := postgresClient.HealthCheck(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unready",
				"error":   "postgres unavailable",
				"details": err.Error(),
			})
			return
		}

		if err := redisClient.Ping(ctx).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unready",
				"error":   "redis unavailable",
				"details": err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "ready",
			"timestamp": time.Now().UTC(),
			"service":   serviceName,
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	docs.SwaggerInfo.BasePath = "/api/v1"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
