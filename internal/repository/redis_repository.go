package repository

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"advent-bot/internal/domain"
	"advent-bot/pkg/redis"
)

// Hash fields of one subscriber record
const (
	fieldJoinedDate = "joined_date"
	fieldCurrentDay = "current_day"
	fieldSubscribed = "subscribed"
)

// redisRepository stores each subscriber as a hash plus a set of known IDs,
// all under the environment key prefix.
type redisRepository struct {
	client *redis.Client
}

// NewRedisRepository creates a Redis-backed subscriber repository
func NewRedisRepository(client *redis.Client) SubscriberRepository {
	return &redisRepository{client: client}
}

func (r *redisRepository) Get(ctx context.Context, id string) (*domain.Subscriber, error) {
	fields, err := r.client.HGetAll(ctx, r.client.KeyBuilder.KeySubscriber(id))
	if err != nil {
		return nil, fmt.Errorf("failed to get subscriber %s: %w", id, err)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	return subscriberFromFields(id, fields)
}

func (r *redisRepository) Put(ctx context.Context, subscriber *domain.Subscriber) error {
	key := r.client.KeyBuilder.KeySubscriber(subscriber.ID)
	err := r.client.HSet(ctx, key,
		fieldJoinedDate, subscriber.JoinedDate.Format(time.RFC3339),
		fieldCurrentDay, subscriber.CurrentDay,
		fieldSubscribed, subscriber.Subscribed,
	)
	if err != nil {
		return fmt.Errorf("failed to store subscriber %s: %w", subscriber.ID, err)
	}

	if err := r.client.SAdd(ctx, r.client.KeyBuilder.KeySubscriberIDs(), subscriber.ID); err != nil {
		return fmt.Errorf("failed to index subscriber %s: %w", subscriber.ID, err)
	}
	return nil
}

func (r *redisRepository) SetSubscribed(ctx context.Context, id string, subscribed bool) error {
	existing, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("%w: %s", ErrUnknownSubscriber, id)
	}

	key := r.client.KeyBuilder.KeySubscriber(id)
	if err := r.client.HSet(ctx, key, fieldSubscribed, subscribed); err != nil {
		return fmt.Errorf("failed to update subscription for %s: %w", id, err)
	}
	return nil
}

func (r *redisRepository) ListSubscribed(ctx context.Context) ([]*domain.Subscriber, error) {
	ids, err := r.client.SMembers(ctx, r.client.KeyBuilder.KeySubscriberIDs())
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriber IDs: %w", err)
	}
	sort.Strings(ids)

	var subscribers []*domain.Subscriber
	for _, id := range ids {
		sub, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if sub != nil && sub.Subscribed {
			subscribers = append(subscribers, sub)
		}
	}
	return subscribers, nil
}

func (r *redisRepository) Health(ctx context.Context) error {
	return r.client.Health(ctx)
}

func (r *redisRepository) Close() error {
	return r.client.Close()
}

// subscriberFromFields rebuilds a record from its hash representation
func subscriberFromFields(id string, fields map[string]string) (*domain.Subscriber, error) {
	joined, err := time.Parse(time.RFC3339, fields[fieldJoinedDate])
	if err != nil {
		return nil, fmt.Errorf("bad joined_date for subscriber %s: %w", id, err)
	}
	currentDay, err := strconv.Atoi(fields[fieldCurrentDay])
	if err != nil {
		return nil, fmt.Errorf("bad current_day for subscriber %s: %w", id, err)
	}
	subscribed, err := strconv.ParseBool(fields[fieldSubscribed])
	if err != nil {
		return nil, fmt.Errorf("bad subscribed flag for subscriber %s: %w", id, err)
	}

	return &domain.Subscriber{
		ID:         id,
		JoinedDate: joined,
		CurrentDay: currentDay,
		Subscribed: subscribed,
	}, nil
}
