package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/yungbote/campussim-backend/internal/actors"
	"github.com/yungbote/campussim-backend/internal/courseprofile"
	"github.com/yungbote/campussim-backend/internal/db"
	"github.com/yungbote/campussim-backend/internal/engagement"
	"github.com/yungbote/campussim-backend/internal/logger"
	"github.com/yungbote/campussim-backend/internal/platform/lms"
	"github.com/yungbote/campussim-backend/internal/repos"
	"github.com/yungbote/campussim-backend/internal/scheduler"
	"github.com/yungbote/campussim-backend/internal/services"
	"github.com/yungbote/campussim-backend/internal/stats"
	"github.com/yungbote/campussim-backend/internal/utils"
)

// backfill_term creates a backdated term and drains every elapsed window
// in one run. Useful for seeding a fresh database with weeks of history.
func main() {
	var profileKey string
	var startStr string
	var name string
	var maxCycles int
	flag.StringVar(&profileKey, "profile", "standard_term", "course profile key")
	flag.StringVar(&startStr, "start", "", "term start, RFC3339 (required, may be in the past)")
	flag.StringVar(&name, "name", "", "term name (optional)")
	flag.IntVar(&maxCycles, "max-cycles", 10, "safety cap on tick cycles")
	flag.Parse()

	if startStr == "" {
		fmt.Println("missing required -start flag")
		os.Exit(1)
	}
	startAt, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		fmt.Printf("parse -start: %v\n", err)
		os.Exit(1)
	}

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

	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	seed := utils.GetEnvAsInt("SIM_SEED", int(time.Now().UnixNano()), log)
	maxBackfillDays := utils.GetEnvAsInt("SIM_MAX_BACKFILL_DAYS", 60, log)

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

	registry := courseprofile.NewRegistry()
	discovery := lms.NewDiscovery(thePG, log, courseRepo, activityRepo, discussionRepo)
	recorder := lms.NewRecorder(thePG, log, runLogRepo, discussionRepo)
	gateway := lms.NewGateway(thePG, log, discussionRepo, submissionRepo)
	identity := lms.NewTokenSwitcher(log, jwtSecretKey, 15*time.Minute)
	directory := lms.NewDirectory(thePG, log, enrollmentRepo)

	model := engagement.NewModel(int64(seed))
	sampler := stats.NewSampler(int64(seed) + 1)
	studentActor := actors.NewStudentActor(model, discovery, recorder, gateway, identity, log)
	instructorActor := actors.NewInstructorActor(model, discovery, recorder, gateway, identity, log)

	schedService := scheduler.NewService(thePG, log, scheduler.Config{MaxBackfillDays: maxBackfillDays}, registry, termRepo, windowRepo)
	provisionService := services.NewProvisionService(thePG, log, simUserRepo, learnerProfileRepo, enrollmentRepo, courseRepo, activityRepo, sampler, int64(seed)+2)
	simulationService := services.NewSimulationService(log, services.SimulationConfig{},
		schedService, registry, courseRepo, learnerProfileRepo, runLogRepo, directory, studentActor, instructorActor)

	ctx := context.Background()
	term, err := schedService.CreateTerm(ctx, scheduler.CreateTermInput{
		Name:       name,
		ProfileKey: profileKey,
		StartAt:    startAt,
		Backfill:   true,
	})
	if err != nil {
		log.Error("term creation failed", "error", err)
		os.Exit(1)
	}
	profile, err := registry.ProfileFor(term.ProfileKey)
	if err != nil {
		log.Error("profile lookup failed", "error", err)
		os.Exit(1)
	}
	if err := provisionService.EnsureTermPool(ctx, term, profile); err != nil {
		log.Error("term pool provisioning failed", "error", err)
		os.Exit(1)
	}

	// Each tick drains every window due so far; extra cycles only pick
	// up windows left pending by failures.
	for cycle := 1; cycle <= maxCycles; cycle++ {
		summary, err := simulationService.Tick(ctx)
		if err != nil {
			log.Error("tick failed", "cycle", cycle, "error", err)
			os.Exit(1)
		}
		fmt.Printf("cycle %d: %d windows, %d actions, %d failures\n",
			cycle, summary.WindowsProcessed, summary.ActionsEmitted, summary.UserFailures)
		if summary.WindowsProcessed == 0 {
			break
		}
	}
	fmt.Printf("term %s (%s) backfilled\n", term.ID, term.WeekAnchor)
}
