package service

import (
	"context"
	"sync"
	"time"

	"advent-bot/internal/domain"
	"advent-bot/internal/repository"
	"advent-bot/pkg/logger"
)

// Job is one unit of delivery work passed to the dispatcher worker
type Job struct {
	// Broadcast pushes the current campaign day to every subscriber.
	// When false the job is a catch-up range for a single chat.
	Broadcast bool

	ChatID   int64
	StartDay int
	EndDay   int

	// DoneText, when set, is sent to ChatID after the range completes
	DoneText string
}

// Dispatcher owns the single delivery worker. Daily pushes from the
// scheduler and catch-up requests from the bot are queued onto one channel
// and executed sequentially.
type Dispatcher struct {
	sequencer *Sequencer
	deliverer Deliverer
	repo      repository.SubscriberRepository
	campaign  *domain.Campaign
	log       *logger.Logger

	jobs   chan Job
	now    func() time.Time
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu        sync.Mutex
	isRunning bool
}

// NewDispatcher creates a delivery dispatcher
func NewDispatcher(sequencer *Sequencer, deliverer Deliverer, repo repository.SubscriberRepository, campaign *domain.Campaign, log *logger.Logger) *Dispatcher {
	return &Dispatcher{
		sequencer: sequencer,
		deliverer: deliverer,
		repo:      repo,
		campaign:  campaign,
		log:       log,
		jobs:      make(chan Job, 64),
		now:       time.Now,
	}
}

// Start launches the delivery worker
func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.isRunning {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.wg.Add(1)
	go d.worker(ctx)

	d.isRunning = true
	d.log.Info("Delivery dispatcher started")
}

// Stop shuts the worker down. The job in flight finishes its current send;
// queued jobs are dropped.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.isRunning {
		return
	}

	d.cancel()
	d.wg.Wait()
	d.isRunning = false
	d.log.Info("Delivery dispatcher stopped")
}

// Enqueue queues a job for the worker. Returns false when the queue is full;
// the job is dropped and logged, delivery is best effort.
func (d *Dispatcher) Enqueue(job Job) bool {
	select {
	case d.jobs <- job:
		return true
	default:
		d.log.WithField("chat_id", job.ChatID).Warn("Delivery queue full, dropping job")
		return false
	}
}

func (d *Dispatcher) worker(ctx context.Context) {
	defer d.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case job := <-d.jobs:
			if job.Broadcast {
				d.runBroadcast(ctx)
			} else {
				d.runRange(ctx, job)
			}
		}
	}
}

// runRange executes one catch-up job for a single chat
func (d *Dispatcher) runRange(ctx context.Context, job Job) {
	delivered := d.sequencer.DeliverRange(ctx, job.ChatID, job.StartDay, job.EndDay)

	d.log.WithFields(map[string]interface{}{
		"chat_id":   job.ChatID,
		"start_day": job.StartDay,
		"end_day":   job.EndDay,
		"delivered": delivered,
	}).Info("Catch-up sequence finished")

	if job.DoneText != "" && ctx.Err() == nil {
		if err := d.deliverer.SendText(ctx, job.ChatID, job.DoneText); err != nil {
			d.log.WithError(err).WithField("chat_id", job.ChatID).Error("Failed to send completion message")
		}
	}
}

// runBroadcast pushes the current day's episode to every subscriber in
// sequence. A failing recipient delays but never prevents the next one;
// only the failure count survives the batch.
func (d *Dispatcher) runBroadcast(ctx context.Context) {
	now := d.now()
	day := d.campaign.CurrentDay(now)
	// CurrentDay clamps to TotalDays, so the end of the campaign needs its
	// own check or the last day would repeat forever.
	if day < 1 || d.campaign.Ended(now) {
		d.log.WithField("day", day).Info("Campaign not active, skipping daily push")
		return
	}

	subscribers, err := d.repo.ListSubscribed(ctx)
	if err != nil {
		d.log.WithError(err).Error("Failed to list subscribers for daily push")
		return
	}

	failed := 0
	for _, sub := range subscribers {
		if ctx.Err() != nil {
			return
		}

		chatID, err := domain.ChatID(sub.ID)
		if err != nil {
			d.log.WithError(err).WithField("user_id", sub.ID).Error("Bad subscriber ID, skipping")
			failed++
			continue
		}

		if d.sequencer.DeliverRange(ctx, chatID, day, day) == 0 {
			failed++
			continue
		}

		d.log.WithFields(map[string]interface{}{
			"user_id": sub.ID,
			"day":     day,
		}).Info("Delivered daily episode")
	}

	if failed > 0 {
		d.log.WithFields(map[string]interface{}{
			"day":    day,
			"failed": failed,
		}).Warn("Daily push finished with failures")
	} else {
		d.log.WithFields(map[string]interface{}{
			"day":         day,
			"subscribers": len(subscribers),
		}).Info("Daily push finished")
	}
}
