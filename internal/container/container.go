package container

import (
	"context"
	"fmt"

	"advent-bot/internal/config"
	"advent-bot/internal/content"
	"advent-bot/internal/domain"
	"advent-bot/internal/repository"
	"advent-bot/pkg/database"
	"advent-bot/pkg/logger"
	"advent-bot/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config   *config.Config
	Logger   *logger.Logger
	Campaign *domain.Campaign
	Store    *content.Store
	Repo     repository.SubscriberRepository

	backend string
}

// New creates a new dependency injection container. The content store is a
// startup precondition: a missing dataset fails here and the process never
// starts. The registry backend is picked from configuration: Postgres when
// DATABASE_URL is set, else Redis when REDIS_URL is set, else the flat file.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	store, err := content.New(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("content datasets: %w", err)
	}

	repo, backend, err := newRepository(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	log.WithField("backend", backend).Info("Subscriber registry initialized")

	return &Container{
		Config:   cfg,
		Logger:   log,
		Campaign: domain.NewCampaign(cfg.StartDate, cfg.TotalDays, cfg.Location),
		Store:    store,
		Repo:     repo,
		backend:  backend,
	}, nil
}

func newRepository(ctx context.Context, cfg *config.Config, log *logger.Logger) (repository.SubscriberRepository, string, error) {
	if cfg.DatabaseURL != "" {
		db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, "", fmt.Errorf("connect to Postgres: %w", err)
		}
		repo, err := repository.NewPostgresRepository(ctx, db)
		if err != nil {
			db.Close()
			return nil, "", err
		}
		return repo, "postgres", nil
	}

	if cfg.RedisURL != "" {
		client, err := redis.NewClient(cfg.RedisURL, cfg.Environment, log.Logger)
		if err != nil {
			return nil, "", fmt.Errorf("connect to Redis: %w", err)
		}
		return repository.NewRedisRepository(client), "redis", nil
	}

	repo, err := repository.NewFileRepository(cfg.UsersFile, cfg.Location)
	if err != nil {
		return nil, "", err
	}
	return repo, "file", nil
}

// GetConfig returns the configuration
func (c *Container) GetConfig() *config.Config {
	return c.Config
}

// GetLogger returns the logger
func (c *Container) GetLogger() *logger.Logger {
	return c.Logger
}

// GetCampaign returns the campaign configuration
func (c *Container) GetCampaign() *domain.Campaign {
	return c.Campaign
}

// GetStore returns the content store
func (c *Container) GetStore() *content.Store {
	return c.Store
}

// GetRepository returns the subscriber registry
func (c *Container) GetRepository() repository.SubscriberRepository {
	return c.Repo
}

// Backend names the registry backend in use (file, postgres or redis)
func (c *Container) Backend() string {
	return c.backend
}
