package syncer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron"
	log "github.com/sirupsen/logrus"
)

type remoteSyncer interface {
	SyncRemote(ctx context.Context, userID string) (*Result, error)
}

// Scheduler runs a remote sync for one user on a cron schedule.
// Runs never overlap; a tick that fires while a sync is in progress is dropped.
type Scheduler struct {
	cron       *cron.Cron
	syncer     remoteSyncer
	userID     string
	runTimeout time.Duration

	mu      sync.Mutex
	running bool
}

func NewScheduler(syncer remoteSyncer, userID, schedule string, runTimeout time.Duration) (*Scheduler, error) {
	if userID == "" {
		return nil, fmt.Errorf("scheduled sync: user id not set")
	}
	if runTimeout <= 0 {
		runTimeout = 5 * time.Minute
	}

	s := &Scheduler{
		cron:       cron.New(),
		syncer:     syncer,
		userID:     userID,
		runTimeout: runTimeout,
	}
	if err := s.cron.AddFunc(schedule, s.tick); err != nil {
		return nil, fmt.Errorf("scheduled sync: invalid schedule %q: %w", schedule, err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	log.Infof("scheduled sync started for user %s", s.userID)
	s.cron.Start()
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Debugln("scheduled sync stopped")
}

func (s *Scheduler) tick() {
	if !s.tryAcquire() {
		log.Warnf("scheduled sync for %s skipped, previous run still in progress", s.userID)
		return
	}
	defer s.release()

	ctx, cancel := context.WithTimeout(context.Background(), s.runTimeout)
	defer cancel()

	result, err := s.syncer.SyncRemote(ctx, s.userID)
	if err != nil {
		log.Errorf("scheduled sync for %s: %s", s.userID, err)
		return
	}
	log.Debugf("scheduled sync for %s: %s", s.userID, result.Message)
}

func (s *Scheduler) tryAcquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return false
	}
	s.running = true
	return true
}

func (s *Scheduler) release() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}
