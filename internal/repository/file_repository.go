package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"advent-bot/internal/domain"
)

// fileRepository keeps the registry in memory behind a mutex and persists a
// full indented-JSON snapshot on every mutation. The file is an object keyed
// by user ID, compatible with the original users.json layout.
type fileRepository struct {
	path string
	loc  *time.Location

	mu          sync.RWMutex
	subscribers map[string]*domain.Subscriber
}

// NewFileRepository creates a file-backed subscriber repository. A missing
// file is treated as an empty registry. Offset-less joined_date timestamps in
// an existing registry are interpreted in loc.
func NewFileRepository(path string, loc *time.Location) (SubscriberRepository, error) {
	r := &fileRepository{
		path:        path,
		loc:         loc,
		subscribers: make(map[string]*domain.Subscriber),
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create registry directory: %w", err)
	}
	if err := r.load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load subscriber registry: %w", err)
	}

	return r, nil
}

func (r *fileRepository) Get(_ context.Context, id string) (*domain.Subscriber, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sub, ok := r.subscribers[id]
	if !ok {
		return nil, nil
	}
	copied := *sub
	return &copied, nil
}

func (r *fileRepository) Put(_ context.Context, subscriber *domain.Subscriber) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *subscriber
	r.subscribers[subscriber.ID] = &copied
	return r.persist()
}

func (r *fileRepository) SetSubscribed(_ context.Context, id string, subscribed bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, ok := r.subscribers[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSubscriber, id)
	}
	sub.Subscribed = subscribed
	return r.persist()
}

func (r *fileRepository) ListSubscribed(_ context.Context) ([]*domain.Subscriber, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var subscribed []*domain.Subscriber
	for _, sub := range r.subscribers {
		if sub.Subscribed {
			copied := *sub
			subscribed = append(subscribed, &copied)
		}
	}
	// Map order is random; daily pushes should walk users deterministically
	sort.Slice(subscribed, func(i, j int) bool {
		return subscribed[i].ID < subscribed[j].ID
	})
	return subscribed, nil
}

func (r *fileRepository) Health(_ context.Context) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, err := os.Stat(filepath.Dir(r.path)); err != nil {
		return fmt.Errorf("registry directory unavailable: %w", err)
	}
	return nil
}

func (r *fileRepository) Close() error {
	return nil
}

// fileRecord is the on-disk shape of one subscriber. joined_date is kept as
// a string so registries written by older deployments, whose timestamps carry
// no UTC offset, still load.
type fileRecord struct {
	JoinedDate string `json:"joined_date"`
	CurrentDay int    `json:"current_day"`
	Subscribed bool   `json:"subscribed"`
}

// load must be called with the write lock held (or before publication)
func (r *fileRepository) load() error {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		return err
	}

	records := make(map[string]*fileRecord)
	if err := json.Unmarshal(raw, &records); err != nil {
		return fmt.Errorf("parse %s: %w", r.path, err)
	}

	for id, rec := range records {
		joined, err := r.parseJoinedDate(rec.JoinedDate)
		if err != nil {
			return fmt.Errorf("parse %s: subscriber %s: %w", r.path, id, err)
		}
		r.subscribers[id] = &domain.Subscriber{
			ID:         id,
			JoinedDate: joined,
			CurrentDay: rec.CurrentDay,
			Subscribed: rec.Subscribed,
		}
	}
	return nil
}

// parseJoinedDate accepts RFC 3339 timestamps and the offset-less
// ISO 8601 form older registries contain, resolved in the campaign zone.
func (r *fileRepository) parseJoinedDate(s string) (time.Time, error) {
	if joined, err := time.Parse(time.RFC3339, s); err == nil {
		return joined, nil
	}
	joined, err := time.ParseInLocation("2006-01-02T15:04:05.999999999", s, r.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid joined_date %q: %w", s, err)
	}
	return joined, nil
}

// persist writes the whole registry as an indented JSON snapshot with HTML
// escaping off, so non-ASCII content survives untouched. Must be called with
// the write lock held.
func (r *fileRepository) persist() error {
	tmp, err := os.CreateTemp(filepath.Dir(r.path), "users-*.json")
	if err != nil {
		return fmt.Errorf("create registry temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r.subscribers); err != nil {
		tmp.Close()
		return fmt.Errorf("encode registry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("flush registry: %w", err)
	}

	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("replace registry file: %w", err)
	}
	return nil
}
