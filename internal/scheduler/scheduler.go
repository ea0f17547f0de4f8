package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/weather-dashboard/internal/observability"
	"github.com/i474232898/weather-dashboard/internal/prefs"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

const fetchTimeout = 30 * time.Second

// Scheduler periodically refreshes the snapshot for the logged-in session's
// saved location, keeping the latest-snapshot store warm.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *weather.Service
	prefs     *prefs.Store
	snapshots *store.SnapshotStore
	metrics   *observability.Metrics
	interval  time.Duration
}

// New creates a Scheduler.
func New(service *weather.Service, prefsStore *prefs.Store, snapshots *store.SnapshotStore, metrics *observability.Metrics, interval time.Duration) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		service:   service,
		prefs:     prefsStore,
		snapshots: snapshots,
		metrics:   metrics,
		interval:  interval,
	}
}

// Start schedules the periodic refresh job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 15
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(s.refresh)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

func (s *Scheduler) refresh() {
	state := s.prefs.State()
	if state.Session == nil || state.Session.LocationQuery == "" {
		// Nothing to refresh until a user picks a location.
		s.metrics.RefreshRuns.WithLabelValues("skipped").Inc()
		return
	}
	query := state.Session.LocationQuery

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	snapshot, err := s.service.GetSnapshot(ctx, query)
	if err != nil {
		log.Printf("scheduler: refresh failed for %q: %v", query, err)
		s.metrics.RefreshRuns.WithLabelValues("error").Inc()
		return
	}

	s.snapshots.Put(query, snapshot)
	s.metrics.RefreshRuns.WithLabelValues("success").Inc()
	log.Printf("scheduler: refreshed snapshot for %q", query)
}
