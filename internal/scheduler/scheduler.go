package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/hinata/kanaflash/internal/logger"
	"github.com/hinata/kanaflash/internal/repository"
	"github.com/hinata/kanaflash/internal/services"
)

// Scheduler runs the periodic housekeeping jobs: purging expired auth
// sessions and evicting idle practice sessions.
type Scheduler struct {
	scheduler *gocron.Scheduler
	users     repository.UserRepository
	practice  services.PracticeService
	idleAfter time.Duration
	log       *logger.Logger
}

// New creates a scheduler running each job every interval.
func New(users repository.UserRepository, practice services.PracticeService, interval, idleAfter time.Duration) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	sched := &Scheduler{
		scheduler: s,
		users:     users,
		practice:  practice,
		idleAfter: idleAfter,
		log:       logger.Default().WithPrefix("scheduler"),
	}
	s.Every(interval).Do(sched.purgeExpiredSessions)
	s.Every(interval).Do(sched.evictIdlePractice)
	return sched
}

// Start begins running the jobs without blocking.
func (s *Scheduler) Start() {
	s.log.Info("starting housekeeping scheduler")
	s.scheduler.StartAsync()
}

// Stop terminates all scheduled jobs.
func (s *Scheduler) Stop() {
	s.log.Info("stopping housekeeping scheduler")
	s.scheduler.Stop()
}

func (s *Scheduler) purgeExpiredSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := s.users.DeleteExpiredSessions(ctx, time.Now()); err != nil {
		s.log.Error("failed to purge expired auth sessions: %v", err)
	}
}

func (s *Scheduler) evictIdlePractice() {
	s.practice.EvictIdle(s.idleAfter)
}
