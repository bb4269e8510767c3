package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"advent-bot/internal/domain"
	"advent-bot/pkg/logger"
)

// fakeDeliverer records sends and can be told to fail specific days
type fakeDeliverer struct {
	mu       sync.Mutex
	episodes []domain.Episode
	texts    []string
	chatIDs  []int64
	failDays map[int]bool
	failAll  bool
}

func (f *fakeDeliverer) SendEpisode(_ context.Context, chatID int64, episode domain.Episode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll || f.failDays[episode.Day] {
		return errors.New("transport error")
	}
	f.episodes = append(f.episodes, episode)
	f.chatIDs = append(f.chatIDs, chatID)
	return nil
}

func (f *fakeDeliverer) SendText(_ context.Context, chatID int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, text)
	f.chatIDs = append(f.chatIDs, chatID)
	return nil
}

func (f *fakeDeliverer) sentDays() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	days := make([]int, 0, len(f.episodes))
	for _, e := range f.episodes {
		days = append(days, e.Day)
	}
	return days
}

func newTestSequencer(t *testing.T, deliverer Deliverer) *Sequencer {
	t.Helper()
	log, _ := logger.New("error", "development")
	seq := NewSequencer(NewComposer(newTestStore(t)), deliverer, 21, log)
	seq.pace = time.Millisecond // keep tests fast
	return seq
}

func TestSequencer_DeliversAscendingRange(t *testing.T) {
	deliverer := &fakeDeliverer{}
	seq := newTestSequencer(t, deliverer)

	delivered := seq.DeliverRange(context.Background(), 100, 1, 4)

	assert.Equal(t, 4, delivered)
	assert.Equal(t, []int{1, 2, 3, 4}, deliverer.sentDays())
}

func TestSequencer_InvertedRangeIsNoOp(t *testing.T) {
	deliverer := &fakeDeliverer{}
	seq := newTestSequencer(t, deliverer)

	delivered := seq.DeliverRange(context.Background(), 100, 1, 0)

	assert.Equal(t, 0, delivered)
	assert.Empty(t, deliverer.sentDays())
}

func TestSequencer_SkipsOutOfRangeDays(t *testing.T) {
	deliverer := &fakeDeliverer{}
	seq := newTestSequencer(t, deliverer)

	delivered := seq.DeliverRange(context.Background(), 100, -2, 2)

	assert.Equal(t, 2, delivered)
	assert.Equal(t, []int{1, 2}, deliverer.sentDays())
}

func TestSequencer_FailureDoesNotAbortSequence(t *testing.T) {
	deliverer := &fakeDeliverer{failDays: map[int]bool{2: true}}
	seq := newTestSequencer(t, deliverer)

	delivered := seq.DeliverRange(context.Background(), 100, 1, 3)

	assert.Equal(t, 2, delivered)
	assert.Equal(t, []int{1, 3}, deliverer.sentDays())
}

func TestSequencer_CancelStopsBetweenSends(t *testing.T) {
	deliverer := &fakeDeliverer{}
	seq := newTestSequencer(t, deliverer)
	seq.pace = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	delivered := seq.DeliverRange(ctx, 100, 1, 10)

	assert.Less(t, delivered, 10)
	assert.GreaterOrEqual(t, delivered, 1)
}
