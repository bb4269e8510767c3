// Package scheduler triggers the daily push: one recurring timer task that
// fires at the configured wall-clock time in the campaign time zone and
// queues a broadcast job onto the delivery dispatcher.
package scheduler

import (
	"sync"
	"time"

	"advent-bot/internal/config"
	"advent-bot/internal/service"
	"advent-bot/pkg/logger"
)

// Scheduler runs the recurring daily-push timer
type Scheduler struct {
	dispatcher *service.Dispatcher
	sendTime   config.SendTime
	location   *time.Location
	log        *logger.Logger

	now  func() time.Time
	stop chan struct{}
	wg   sync.WaitGroup

	mu        sync.Mutex
	isRunning bool
}

// New creates a daily-push scheduler
func New(dispatcher *service.Dispatcher, sendTime config.SendTime, location *time.Location, log *logger.Logger) *Scheduler {
	return &Scheduler{
		dispatcher: dispatcher,
		sendTime:   sendTime,
		location:   location,
		log:        log,
		now:        time.Now,
		stop:       make(chan struct{}),
	}
}

// Start launches the timer loop
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return
	}

	s.wg.Add(1)
	go s.run()

	s.isRunning = true
	s.log.WithFields(map[string]interface{}{
		"send_time": s.sendTime,
		"timezone":  s.location.String(),
	}).Info("Daily push scheduler started")
}

// Stop terminates the timer loop
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	close(s.stop)
	s.wg.Wait()
	s.isRunning = false
	s.log.Info("Daily push scheduler stopped")
}

func (s *Scheduler) run() {
	defer s.wg.Done()

	for {
		next := nextRun(s.now(), s.sendTime, s.location)
		wait := next.Sub(s.now())
		s.log.WithField("next_run", next.Format(time.RFC3339)).Info("Daily push scheduled")

		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
			s.log.Info("Daily push triggered")
			s.dispatcher.Enqueue(service.Job{Broadcast: true})
		case <-s.stop:
			timer.Stop()
			return
		}
	}
}

// nextRun computes the next occurrence of the send time in the given zone,
// strictly after now.
func nextRun(now time.Time, at config.SendTime, loc *time.Location) time.Time {
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), at.Hour, at.Minute, 0, 0, loc)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
