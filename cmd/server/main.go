package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"prepsim/internal/api"
	"prepsim/internal/app/exam"
	"prepsim/internal/app/service"
	"prepsim/internal/common/security"
	"prepsim/internal/domain/repository"
	"prepsim/internal/platform/cache"
	"prepsim/internal/platform/config"
	"prepsim/internal/platform/database"
	"prepsim/internal/platform/logger"
)

func main() {
	config.Load()

	log, err := logger.New(config.AppConfig.LogMode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log.Info("configuration loaded")

	security.InitJWT()

	database.Connect()
	defer database.Close()
	log.Info("database connected")

	cache.ConnectRedis()
	defer cache.CloseRedis()
	log.Info("redis connected")

	userRepo := repository.NewPgUserRepository(database.DB)
	subjectRepo := repository.NewPgSubjectRepository(database.DB)
	questionRepo := repository.NewPgQuestionRepository(database.DB)
	simulatorRepo := repository.NewPgSimulatorRepository(database.DB)
	attemptRepo := repository.NewPgAttemptRepository(database.DB)
	subscriptionRepo := repository.NewPgSubscriptionRepository(database.DB)

	examCfg := exam.DefaultConfig()

	authService := service.NewAuthService(userRepo)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo, attemptRepo, config.AppConfig)
	subjectService := service.NewSubjectService(subjectRepo, questionRepo, subscriptionService)
	questionService := service.NewQuestionService(questionRepo, subjectRepo)
	simulatorService := service.NewSimulatorService(simulatorRepo, examCfg)
	attemptService := service.NewAttemptService(attemptRepo, simulatorRepo, subjectRepo, questionRepo, examCfg, nil)

	seedCtx, seedCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := subjectService.EnsureDefaults(seedCtx, service.DefaultSubjectNames()); err != nil {
		seedCancel()
		log.Fatal("subject seeding failed", "error", err)
	}
	seedCancel()
	log.Info("subject catalog ready")

	router := api.NewRouter(
		authService,
		simulatorService,
		subjectService,
		questionService,
		attemptService,
		subscriptionService,
	)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info("server starting", "port", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("listen failed", "port", config.AppConfig.APIPort, "error", err)
		}
	}()

	<-stop

	log.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal("server shutdown failed", "error", err)
	}
	log.Info("server stopped gracefully")
}
