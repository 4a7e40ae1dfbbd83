package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeconnect/internal/api"
	"codeconnect/internal/app/service"
	"codeconnect/internal/app/worker"
	"codeconnect/internal/common/security"
	"codeconnect/internal/domain/repository"
	"codeconnect/internal/platform/config"
	"codeconnect/internal/platform/database"
	"codeconnect/internal/platform/judge"
	"codeconnect/internal/platform/logger"
	"codeconnect/internal/platform/queue"
	"codeconnect/internal/platform/storage"
)

func main() {
	config.Load()

	appLog, err := logger.New(config.AppConfig.AppEnv)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLog.Sync()

	security.InitJWT()

	database.Connect()
	defer database.Close()
	appLog.Info("Database connected")

	queue.ConnectRedis()
	defer queue.CloseRedis()
	appLog.Info("Redis connected")

	// Repositories
	userRepo := repository.NewPgUserRepository(database.DB)
	profileRepo := repository.NewPgProfileRepository(database.DB)
	problemRepo := repository.NewPgProblemRepository(database.DB)
	challengeRepo := repository.NewPgChallengeRepository(database.DB)
	submissionRepo := repository.NewPgSubmissionRepository(database.DB)
	notificationRepo := repository.NewPgNotificationRepository(database.DB)
	contactRepo := repository.NewPgContactRepository(database.DB)

	// Platform clients
	publisher := queue.NewRedisPublisher(queue.RDB, config.AppConfig.NotificationQueueName)
	judgeClient := judge.NewClient(
		config.AppConfig.JudgeAPIURL,
		time.Duration(config.AppConfig.JudgeTimeoutSecs)*time.Second,
	)
	bucketService, err := storage.NewBucketService(
		context.Background(),
		config.AppConfig.UploadBucketName,
		config.AppConfig.UploadCDNDomain,
	)
	if err != nil {
		appLog.Warn("Object storage unavailable, uploads disabled", "error", err)
	}

	// Services
	rewardService := service.NewRewardService(submissionRepo, profileRepo, publisher, appLog)
	svcs := api.Services{
		Auth:         service.NewAuthService(userRepo, profileRepo, submissionRepo, notificationRepo, database.DB),
		Problem:      service.NewProblemService(problemRepo),
		Challenge:    service.NewChallengeService(challengeRepo, profileRepo, userRepo, publisher, appLog),
		Submission:   service.NewSubmissionService(submissionRepo, problemRepo, challengeRepo, rewardService, appLog),
		Profile:      service.NewProfileService(profileRepo),
		Stats:        service.NewStatsService(submissionRepo, challengeRepo, profileRepo, userRepo),
		Notification: service.NewNotificationService(notificationRepo),
		Contact:      service.NewContactService(contactRepo),
		Judge:        judgeClient,
		Bucket:       bucketService,
	}

	// Notification worker drains the outbox queue in the background.
	notificationWorker := worker.NewNotificationWorker(
		queue.RDB,
		config.AppConfig.NotificationQueueName,
		notificationRepo,
		userRepo,
		appLog,
	)
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	go notificationWorker.Start(workerCtx)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      api.NewRouter(svcs),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		appLog.Info("Server starting", "port", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal("Could not start server", "error", err)
		}
	}()

	<-stop

	appLog.Info("Shutting down server")
	workerCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLog.Fatal("Server shutdown failed", "error", err)
	}
	appLog.Info("Server and worker stopped gracefully")
}
