package service

import (
	"context"
	"time"

	"advent-bot/pkg/logger"
)

// DefaultPace is the pause between successive sends within one sequence
const DefaultPace = 500 * time.Millisecond

// Sequencer delivers episodes for a day range in ascending order with a
// fixed pause between sends. It backs both the daily push and catch-up.
type Sequencer struct {
	composer  *Composer
	deliverer Deliverer
	totalDays int
	pace      time.Duration
	log       *logger.Logger
}

// NewSequencer creates a delivery sequencer
func NewSequencer(composer *Composer, deliverer Deliverer, totalDays int, log *logger.Logger) *Sequencer {
	return &Sequencer{
		composer:  composer,
		deliverer: deliverer,
		totalDays: totalDays,
		pace:      DefaultPace,
		log:       log,
	}
}

// DeliverRange composes and delivers episodes for days startDay..endDay
// inclusive. Transport failures are logged and skipped; the sequence always
// runs to the end of the range. Returns the number of episodes delivered.
// An inverted range is a no-op; callers report "nothing to send" themselves.
func (s *Sequencer) DeliverRange(ctx context.Context, chatID int64, startDay, endDay int) int {
	delivered := 0
	for day := startDay; day <= endDay; day++ {
		if day < 1 || day > s.totalDays {
			continue
		}

		episode := s.composer.Compose(day)
		if err := s.deliverer.SendEpisode(ctx, chatID, episode); err != nil {
			s.log.WithError(err).WithFields(map[string]interface{}{
				"chat_id": chatID,
				"day":     day,
			}).Error("Failed to deliver episode")
		} else {
			delivered++
		}

		if day < endDay {
			if !s.pause(ctx) {
				break
			}
		}
	}
	return delivered
}

// pause sleeps for the pacing interval; returns false when the context is
// cancelled during the wait.
func (s *Sequencer) pause(ctx context.Context) bool {
	timer := time.NewTimer(s.pace)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
