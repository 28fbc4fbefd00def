// Package scheduler runs periodic housekeeping on a cron schedule.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"zapway/pkg/errors"
	"zapway/pkg/logger"
)

// SweepFunc removes stale state as of now and reports how much it removed.
type SweepFunc func(now time.Time) int

type job struct {
	name  string
	sweep SweepFunc
}

// Scheduler runs every registered sweep on one cron schedule.
type Scheduler struct {
	spec   string
	cron   *cron.Cron
	logger logger.Logger
	now    func() time.Time

	mu      sync.Mutex
	jobs    []job
	lastRun time.Time
}

func NewScheduler(spec string, log logger.Logger) *Scheduler {
	return &Scheduler{
		spec:   spec,
		cron:   cron.New(),
		logger: log,
		now:    time.Now,
	}
}

// Register adds a sweep. Sweeps run in registration order.
func (s *Scheduler) Register(name string, fn SweepFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, job{name: name, sweep: fn})
}

// Start begins running sweeps on the schedule.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.RunOnce() }); err != nil {
		return errors.Wrap(err, "invalid janitor schedule")
	}
	s.cron.Start()
	s.logger.Info("Janitor scheduler started", map[string]interface{}{
		"schedule": s.spec,
	})
	return nil
}

// Stop halts the schedule. The returned context is done once a running
// sweep has finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// RunOnce runs every sweep now and returns the per-job removal counts.
func (s *Scheduler) RunOnce() map[string]int {
	s.mu.Lock()
	jobs := append([]job(nil), s.jobs...)
	now := s.now()
	s.lastRun = now
	s.mu.Unlock()

	results := make(map[string]int, len(jobs))
	for _, j := range jobs {
		results[j.name] = s.run(j, now)
	}
	return results
}

func (s *Scheduler) run(j job, now time.Time) (removed int) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Janitor job panicked", map[string]interface{}{
				"job":   j.name,
				"panic": r,
			})
			removed = 0
		}
	}()

	removed = j.sweep(now)
	if removed > 0 {
		s.logger.Info("Janitor job removed stale entries", map[string]interface{}{
			"job":     j.name,
			"removed": removed,
		})
	}
	return removed
}

// LastRun reports when sweeps last ran.
func (s *Scheduler) LastRun() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun
}
