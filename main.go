package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"advent-bot/internal/bot"
	"advent-bot/internal/config"
	"advent-bot/internal/container"
	"advent-bot/internal/domain"
	"advent-bot/internal/handler"
	"advent-bot/internal/scheduler"
	"advent-bot/internal/service"
	"advent-bot/pkg/logger"
)

// Resources holds all resources that need cleanup
type Resources struct {
	bot        *bot.Bot
	scheduler  *scheduler.Scheduler
	dispatcher *service.Dispatcher
	container  *container.Container
	server     *http.Server
	log        *logger.Logger
	mu         sync.Mutex
	closed     bool
}

// Cleanup gracefully closes all resources
func (r *Resources) Cleanup(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	var errors []error

	r.log.Info("Starting graceful shutdown...")

	// Stop the inbound surfaces first so no new work arrives
	if r.server != nil {
		if err := r.server.Shutdown(ctx); err != nil {
			r.log.WithError(err).Error("Failed to shutdown HTTP server")
			errors = append(errors, fmt.Errorf("HTTP server shutdown: %w", err))
		}
	}
	if r.bot != nil {
		r.bot.Stop()
	}
	if r.scheduler != nil {
		r.scheduler.Stop()
	}

	// Then the delivery worker, then the registry
	if r.dispatcher != nil {
		r.dispatcher.Stop()
	}
	if r.container != nil {
		if err := r.container.GetRepository().Close(); err != nil {
			r.log.WithError(err).Error("Failed to close subscriber registry")
			errors = append(errors, fmt.Errorf("registry close: %w", err))
		}
	}

	if len(errors) > 0 {
		r.log.WithField("error_count", len(errors)).Error("Cleanup completed with errors")
		return fmt.Errorf("cleanup completed with %d errors: %v", len(errors), errors)
	}

	r.log.Info("Graceful shutdown completed successfully")
	return nil
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log.WithFields(map[string]interface{}{
		"start_date":  cfg.StartDate.Format("2006-01-02"),
		"total_days":  cfg.TotalDays,
		"send_time":   fmt.Sprintf("%02d:%02d", cfg.SendTime.Hour, cfg.SendTime.Minute),
		"timezone":    cfg.Location.String(),
		"environment": cfg.Environment,
	}).Info("Starting advent-bot")

	// Create dependency injection container; a missing dataset or an
	// unreachable registry backend is fatal here.
	ctx := context.Background()
	c, err := container.New(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to create container")
	}

	// Delivery pipeline: composer -> sequencer -> single-worker dispatcher.
	// The sequencer and the dispatcher send through the bot, and the bot
	// enqueues onto the dispatcher; a late-bound deliverer breaks the cycle.
	composer := service.NewComposer(c.GetStore())
	deliverer := &lateBoundDeliverer{}
	sequencer := service.NewSequencer(composer, deliverer, cfg.TotalDays, log.Named("sequencer"))
	dispatcher := service.NewDispatcher(sequencer, deliverer, c.GetRepository(), c.GetCampaign(), log.Named("dispatcher"))

	telegramBot, err := bot.New(cfg.BotToken, c.GetCampaign(), c.GetStore(), c.GetRepository(), dispatcher, log.Named("bot"))
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to Telegram")
	}
	deliverer.bind(telegramBot)

	dispatcher.Start()
	telegramBot.Start()

	dailyScheduler := scheduler.New(dispatcher, cfg.SendTime, cfg.Location, log.Named("scheduler"))
	dailyScheduler.Start()

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      setupRouter(c),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	resources := &Resources{
		bot:        telegramBot,
		scheduler:  dailyScheduler,
		dispatcher: dispatcher,
		container:  c,
		server:     server,
		log:        log,
	}

	// Setup graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)

	defer func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := resources.Cleanup(cleanupCtx); err != nil {
			log.WithError(err).Error("Cleanup completed with errors")
		}
	}()

	// Start the health server in a goroutine
	serverErrChan := make(chan error, 1)
	go func() {
		log.Info("Health server starting on port " + cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("Health server error occurred")
			serverErrChan <- err
		}
	}()

	log.WithField("bot", telegramBot.Username()).Info("Bot is running")

	// Wait for interrupt signal or server error
	select {
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("Received shutdown signal")
	case err := <-serverErrChan:
		log.WithError(err).Error("Health server failed, initiating shutdown")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer cancel()

	if err := resources.Cleanup(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown completed with errors")
		os.Exit(1)
	}

	log.Info("Application shutdown complete")
}

// setupRouter configures and returns the HTTP router
func setupRouter(c *container.Container) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(15 * time.Second))

	healthHandler := handler.NewHealthHandler(c)
	r.Get("/health", healthHandler.Check)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success":false,"error":{"type":"not_found","message":"Endpoint not found"}}`))
	})

	return r
}

// lateBoundDeliverer forwards sends to the bot once it exists. It must be
// bound before the dispatcher starts.
type lateBoundDeliverer struct {
	mu  sync.RWMutex
	bot *bot.Bot
}

func (d *lateBoundDeliverer) bind(b *bot.Bot) {
	d.mu.Lock()
	d.bot = b
	d.mu.Unlock()
}

func (d *lateBoundDeliverer) SendEpisode(ctx context.Context, chatID int64, episode domain.Episode) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.bot.SendEpisode(ctx, chatID, episode)
}

func (d *lateBoundDeliverer) SendText(ctx context.Context, chatID int64, text string) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.bot.SendText(ctx, chatID, text)
}
