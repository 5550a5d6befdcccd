package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/yungbote/campussim-backend/internal/actors"
	"github.com/yungbote/campussim-backend/internal/courseprofile"
	"github.com/yungbote/campussim-backend/internal/db"
	"github.com/yungbote/campussim-backend/internal/engagement"
	"github.com/yungbote/campussim-backend/internal/handlers"
	"github.com/yungbote/campussim-backend/internal/logger"
	"github.com/yungbote/campussim-backend/internal/observability"
	"github.com/yungbote/campussim-backend/internal/platform/lms"
	"github.com/yungbote/campussim-backend/internal/platform/redislock"
	"github.com/yungbote/campussim-backend/internal/repos"
	"github.com/yungbote/campussim-backend/internal/scheduler"
	"github.com/yungbote/campussim-backend/internal/server"
	"github.com/yungbote/campussim-backend/internal/services"
	"github.com/yungbote/campussim-backend/internal/stats"
	"github.com/yungbote/campussim-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	tokenTTL := utils.GetEnvAsDuration("SIM_TOKEN_TTL", 15*time.Minute, log)
	seed := utils.GetEnvAsInt("SIM_SEED", int(time.Now().UnixNano()), log)
	testMode := utils.GetEnvAsBool("SIM_TEST_MODE", false, log)
	maxBackfillDays := utils.GetEnvAsInt("SIM_MAX_BACKFILL_DAYS", 60, log)
	rerunScope := utils.GetEnv("SIM_RERUN_SCOPE", services.RerunScopeAll, log)
	tickInterval := utils.GetEnvAsDuration("SIM_TICK_INTERVAL", 0, log)
	profileOverlay := utils.GetEnv("SIM_PROFILE_OVERLAY", "", log)
	redisAddr := utils.GetEnv("REDIS_ADDR", "", log)

	// Tracing
	shutdownOTel := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: "campussim",
		Environment: utils.GetEnv("APP_ENV", "development", log),
		Version:     utils.GetEnv("APP_VERSION", "dev", log),
	})
	if shutdownOTel != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdownOTel(ctx)
		}()
	}

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	termRepo := repos.NewTermRepo(thePG, log)
	windowRepo := repos.NewWindowRepo(thePG, log)
	simUserRepo := repos.NewSimUserRepo(thePG, log)
	learnerProfileRepo := repos.NewLearnerProfileRepo(thePG, log)
	runLogRepo := repos.NewRunLogRepo(thePG, log)
	courseRepo := repos.NewCourseRepo(thePG, log)
	activityRepo := repos.NewActivityRepo(thePG, log)
	discussionRepo := repos.NewDiscussionRepo(thePG, log)
	enrollmentRepo := repos.NewEnrollmentRepo(thePG, log)
	submissionRepo := repos.NewSubmissionRepo(thePG, log)

	// Course profiles
	registry := courseprofile.NewRegistry()
	if profileOverlay != "" {
		if err := registry.LoadOverlay(profileOverlay); err != nil {
			log.Error("Profile overlay load failed", "path", profileOverlay, "error", err)
			os.Exit(1)
		}
	}

	// Platform bindings
	discovery := lms.NewDiscovery(thePG, log, courseRepo, activityRepo, discussionRepo)
	recorder := lms.NewRecorder(thePG, log, runLogRepo, discussionRepo)
	gateway := lms.NewGateway(thePG, log, discussionRepo, submissionRepo)
	identity := lms.NewTokenSwitcher(log, jwtSecretKey, tokenTTL)
	directory := lms.NewDirectory(thePG, log, enrollmentRepo)

	// Core engine
	model := engagement.NewModel(int64(seed))
	sampler := stats.NewSampler(int64(seed) + 1)
	studentActor := actors.NewStudentActor(model, discovery, recorder, gateway, identity, log)
	instructorActor := actors.NewInstructorActor(model, discovery, recorder, gateway, identity, log)

	// Scheduler and services
	schedService := scheduler.NewService(thePG, log, scheduler.Config{
		MaxBackfillDays: maxBackfillDays,
		TestMode:        testMode,
	}, registry, termRepo, windowRepo)
	provisionService := services.NewProvisionService(thePG, log, simUserRepo, learnerProfileRepo, enrollmentRepo, courseRepo, activityRepo, sampler, int64(seed)+2)
	simulationService := services.NewSimulationService(log, services.SimulationConfig{RerunScope: rerunScope},
		schedService, registry, courseRepo, learnerProfileRepo, runLogRepo, directory, studentActor, instructorActor)

	// Tick lock
	var tickLock *redislock.TickLock
	if redisAddr != "" {
		tickLock, err = redislock.NewTickLock(log, redisAddr, "campussim:tick", 10*time.Minute)
		if err != nil {
			log.Error("Redis tick lock init failed", "error", err)
			os.Exit(1)
		}
		defer tickLock.Close()
	} else {
		log.Warn("REDIS_ADDR not set, running without the tick lock")
	}

	// Handlers
	termHandler := handlers.NewTermHandler(log, schedService, provisionService, registry, termRepo, windowRepo)
	windowHandler := handlers.NewWindowHandler(log, schedService, testMode)
	tickHandler := handlers.NewTickHandler(log, simulationService, tickLock)
	runLogHandler := handlers.NewRunLogHandler(log, runLogRepo)

	// Background ticker
	if tickInterval > 0 {
		go runTicker(context.Background(), log, simulationService, tickLock, tickInterval)
	}

	// Router
	router := server.NewRouter(server.RouterConfig{
		TermHandler:   termHandler,
		WindowHandler: windowHandler,
		TickHandler:   tickHandler,
		RunLogHandler: runLogHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

// runTicker drives the simulation on a fixed cadence. Each cycle takes
// the distributed lock first, so cron-style and HTTP-triggered ticks
// never overlap.
func runTicker(ctx context.Context, log *logger.Logger, simulation services.SimulationService, lock *redislock.TickLock, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if lock != nil {
				ok, err := lock.Acquire(ctx)
				if err != nil {
					log.Error("tick lock acquire failed", "error", err)
					continue
				}
				if !ok {
					log.Debug("tick already in progress elsewhere, skipping cycle")
					continue
				}
			}
			if _, err := simulation.Tick(ctx); err != nil {
				log.Error("scheduled tick failed", "error", err)
			}
			if lock != nil {
				if err := lock.Release(ctx); err != nil {
					log.Warn("tick lock release failed", "error", err)
				}
			}
		}
	}
}
