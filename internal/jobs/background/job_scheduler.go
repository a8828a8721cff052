package background

import (
	"context"
	"log"
	"sync"
	"time"

	"agrilink/internal/services"

	"github.com/go-co-op/gocron/v2"
)

// JobScheduler manages recurring background jobs
type JobScheduler struct {
	scheduler        gocron.Scheduler
	inventoryService services.InventoryService
	authService      services.AuthService
	dashboardService services.DashboardService
	jobs             map[string]gocron.Job
	mu               sync.RWMutex
}

// NewJobScheduler creates a new job scheduler
func NewJobScheduler(inventoryService services.InventoryService, authService services.AuthService,
	dashboardService services.DashboardService) *JobScheduler {

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	js := &JobScheduler{
		scheduler:        scheduler,
		inventoryService: inventoryService,
		authService:      authService,
		dashboardService: dashboardService,
		jobs:             make(map[string]gocron.Job),
	}

	js.registerJobs()

	return js
}

// Start starts the job scheduler
func (js *JobScheduler) Start() error {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
	return nil
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

// registerJobs registers all background jobs
func (js *JobScheduler) registerJobs() {
	// Expired reservation sweep, every 15 minutes. Fresh produce past its
	// validity window gives its reserved stock back.
	reservationJob, err := js.scheduler.NewJob(
		gocron.DurationJob(15*time.Minute),
		gocron.NewTask(js.releaseExpiredReservations),
		gocron.WithName("expired-reservation-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create reservation sweep job: %v", err)
	} else {
		js.jobs["reservation-sweep"] = reservationJob
	}

	// Refresh token cleanup, every hour.
	tokenJob, err := js.scheduler.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(js.cleanupExpiredTokens),
		gocron.WithName("token-cleanup"),
	)
	if err != nil {
		log.Printf("Failed to create token cleanup job: %v", err)
	} else {
		js.jobs["token-cleanup"] = tokenJob
	}

	// Dashboard cache refresh, every 5 minutes.
	dashboardJob, err := js.scheduler.NewJob(
		gocron.DurationJob(5*time.Minute),
		gocron.NewTask(js.refreshDashboard),
		gocron.WithName("dashboard-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create dashboard refresh job: %v", err)
	} else {
		js.jobs["dashboard-refresh"] = dashboardJob
	}

	log.Printf("Registered %d background jobs", len(js.jobs))
}

func (js *JobScheduler) releaseExpiredReservations() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	released, err := js.inventoryService.ReleaseExpiredReservations(ctx)
	if err != nil {
		log.Printf("Expired reservation sweep failed: %v", err)
		return err
	}
	if released > 0 {
		log.Printf("Released %d expired reservations", released)
	}
	return nil
}

func (js *JobScheduler) cleanupExpiredTokens() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	deleted, err := js.authService.CleanupExpiredTokens(ctx)
	if err != nil {
		log.Printf("Token cleanup failed: %v", err)
		return err
	}
	if deleted > 0 {
		log.Printf("Deleted %d expired refresh tokens", deleted)
	}
	return nil
}

func (js *JobScheduler) refreshDashboard() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := js.dashboardService.Refresh(ctx); err != nil {
		log.Printf("Dashboard refresh failed: %v", err)
		return err
	}
	return nil
}

// AddJob adds a custom job to the scheduler
func (js *JobScheduler) AddJob(name string, interval time.Duration, taskFn interface{}, params ...interface{}) error {
	js.mu.Lock()
	defer js.mu.Unlock()

	job, err := js.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(taskFn, params...),
		gocron.WithName(name),
	)
	if err != nil {
		return err
	}

	js.jobs[name] = job
	return nil
}

// GetJobStatus returns the names of the scheduled jobs
func (js *JobScheduler) GetJobStatus() map[string]interface{} {
	js.mu.RLock()
	defer js.mu.RUnlock()

	names := make([]string, 0, len(js.jobs))
	for name := range js.jobs {
		names = append(names, name)
	}

	return map[string]interface{}{
		"total_jobs": len(js.jobs),
		"jobs":       names,
	}
}
