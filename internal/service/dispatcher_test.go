package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"advent-bot/internal/domain"
	"advent-bot/internal/repository"
	"advent-bot/pkg/logger"
)

func newTestDispatcher(t *testing.T, deliverer Deliverer, now time.Time) (*Dispatcher, repository.SubscriberRepository) {
	t.Helper()

	log, _ := logger.New("error", "development")
	repo, err := repository.NewFileRepository(filepath.Join(t.TempDir(), "users.json"), time.UTC)
	require.NoError(t, err)

	campaign := domain.NewCampaign(time.Date(2025, 12, 8, 0, 0, 0, 0, time.UTC), 21, time.UTC)
	seq := NewSequencer(NewComposer(newTestStore(t)), deliverer, 21, log)
	seq.pace = time.Millisecond

	d := NewDispatcher(seq, deliverer, repo, campaign, log)
	d.now = func() time.Time { return now }
	return d, repo
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestDispatcher_RangeJobWithCompletionText(t *testing.T) {
	deliverer := &fakeDeliverer{}
	d, _ := newTestDispatcher(t, deliverer, time.Date(2025, 12, 12, 10, 0, 0, 0, time.UTC))

	d.Start()
	defer d.Stop()

	ok := d.Enqueue(Job{ChatID: 55, StartDay: 1, EndDay: 4, DoneText: "done"})
	require.True(t, ok)

	waitFor(t, func() bool {
		deliverer.mu.Lock()
		defer deliverer.mu.Unlock()
		return len(deliverer.texts) == 1
	})

	assert.Equal(t, []int{1, 2, 3, 4}, deliverer.sentDays())
	assert.Equal(t, []string{"done"}, deliverer.texts)
}

func TestDispatcher_BroadcastDeliversToSubscribedOnly(t *testing.T) {
	deliverer := &fakeDeliverer{}
	// Dec 12 is campaign day 5
	d, repo := newTestDispatcher(t, deliverer, time.Date(2025, 12, 12, 10, 0, 0, 0, time.UTC))
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, domain.NewSubscriber("100", time.Now(), 0)))
	require.NoError(t, repo.Put(ctx, domain.NewSubscriber("200", time.Now(), 0)))
	require.NoError(t, repo.Put(ctx, domain.NewSubscriber("300", time.Now(), 0)))
	require.NoError(t, repo.SetSubscribed(ctx, "100", true))
	require.NoError(t, repo.SetSubscribed(ctx, "300", true))

	d.Start()
	defer d.Stop()

	require.True(t, d.Enqueue(Job{Broadcast: true}))

	waitFor(t, func() bool {
		deliverer.mu.Lock()
		defer deliverer.mu.Unlock()
		return len(deliverer.episodes) == 2
	})

	assert.Equal(t, []int{5, 5}, deliverer.sentDays())
	deliverer.mu.Lock()
	defer deliverer.mu.Unlock()
	assert.Equal(t, []int64{100, 300}, deliverer.chatIDs)
}

func TestDispatcher_BroadcastSkipsWhenNotStarted(t *testing.T) {
	deliverer := &fakeDeliverer{}
	d, repo := newTestDispatcher(t, deliverer, time.Date(2025, 12, 1, 10, 0, 0, 0, time.UTC))
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, domain.NewSubscriber("100", time.Now(), 0)))
	require.NoError(t, repo.SetSubscribed(ctx, "100", true))

	d.Start()
	defer d.Stop()

	require.True(t, d.Enqueue(Job{Broadcast: true}))
	// Let the worker pick the job up
	time.Sleep(50 * time.Millisecond)

	assert.Empty(t, deliverer.sentDays())
}

func TestDispatcher_BroadcastSkipsAfterCampaignEnds(t *testing.T) {
	deliverer := &fakeDeliverer{}
	// Campaign ends Dec 28; well past it nothing may be resent.
	d, repo := newTestDispatcher(t, deliverer, time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC))
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, domain.NewSubscriber("100", time.Now(), 0)))
	require.NoError(t, repo.SetSubscribed(ctx, "100", true))

	d.Start()
	defer d.Stop()

	require.True(t, d.Enqueue(Job{Broadcast: true}))
	time.Sleep(50 * time.Millisecond)

	assert.Empty(t, deliverer.sentDays())
}

func TestDispatcher_BroadcastCountsFailures(t *testing.T) {
	deliverer := &fakeDeliverer{failAll: true}
	d, repo := newTestDispatcher(t, deliverer, time.Date(2025, 12, 12, 10, 0, 0, 0, time.UTC))
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, domain.NewSubscriber("100", time.Now(), 0)))
	require.NoError(t, repo.SetSubscribed(ctx, "100", true))

	d.Start()
	defer d.Stop()

	require.True(t, d.Enqueue(Job{Broadcast: true}))
	time.Sleep(50 * time.Millisecond)

	// No deliveries recorded, no panic, the worker is still alive
	assert.Empty(t, deliverer.sentDays())
	require.True(t, d.Enqueue(Job{ChatID: 1, StartDay: 0, EndDay: -1}))
}
