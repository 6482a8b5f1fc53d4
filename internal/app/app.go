package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/Smartoire/Contentoire/internal/config"
	"github.com/Smartoire/Contentoire/internal/infrastructure/feed"
	"github.com/Smartoire/Contentoire/internal/infrastructure/provider"
	"github.com/Smartoire/Contentoire/internal/infrastructure/render"
	"github.com/Smartoire/Contentoire/internal/infrastructure/scheduler"
	"github.com/Smartoire/Contentoire/internal/infrastructure/storage"
	"github.com/Smartoire/Contentoire/internal/infrastructure/telegram"
	"github.com/Smartoire/Contentoire/internal/logging"
	"github.com/Smartoire/Contentoire/internal/ports"
	"github.com/Smartoire/Contentoire/internal/source"
	"github.com/Smartoire/Contentoire/internal/usecase"
)

// Application wires configuration to the ingestion pipeline and lifecycle.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	db       *sql.DB
	ingestor *usecase.Ingestor
}

// New builds a runnable application instance. Errors here are fatal
// configuration problems detected before any work begins.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	if cfg.Database.DSN == "" {
		return nil, fmt.Errorf("database DSN is not configured")
	}

	db, err := storage.Open(ctx, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("connect store: %w", err)
	}

	store := storage.NewPostgresStore(db)
	if err := store.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate store: %w", err)
	}

	window := cfg.Ingest.Window()
	client := provider.NewClient(0, cfg.Ingest.RequestsPerSecond, cfg.Ingest.APIRetries,
		baseLogger.With("component", "provider.client"))

	registry := source.NewRegistry()
	registry.Register(provider.NewNewsAPI(client, window))
	registry.Register(provider.NewCurrents(client, window))
	registry.Register(provider.NewNewsData(client))
	registry.Register(provider.NewWorldNews(client, window))
	registry.Register(provider.NewGNews(client, window))

	renderer := render.NewChromeRenderer(cfg.Ingest.BrowserSessions,
		baseLogger.With("component", "renderer"))

	feedAdapter := feed.NewAdapter(renderer, store,
		baseLogger.With("component", "feed"),
		feed.Options{
			LoadTimeout:      cfg.Ingest.PageLoadTimeout(),
			RenderRetries:    cfg.Ingest.RenderRetries,
			EntryConcurrency: cfg.Ingest.BrowserSessions,
		})

	var notifier ports.Notifier
	if tg := cfg.Notifications.Telegram; tg.BotToken != "" && tg.ChatID != "" {
		notifier = telegram.NewNotifier(tg.BotToken, tg.ChatID)
	}

	ingestor := usecase.NewIngestor(usecase.IngestorDeps{
		Registry:    registry,
		FeedAdapter: feedAdapter,
		Store:       store,
		Notifier:    notifier,
		Logger:      baseLogger.With("component", "ingestor"),
		Providers:   cfg.Providers,
		Feeds:       cfg.Feeds,
		Concurrency: cfg.Ingest.Concurrency,
	})

	return &Application{cfg: cfg, logger: baseLogger, db: db, ingestor: ingestor}, nil
}

// RunOnce executes a single ingestion pass for the family.
func (a *Application) RunOnce(ctx context.Context, family usecase.Family) error {
	_, err := a.ingestor.Run(ctx, family)
	return err
}

// RunDaemon keeps the process resident and runs the family on the configured
// cron schedule until ctx is cancelled.
func (a *Application) RunDaemon(ctx context.Context, family usecase.Family) error {
	driver := scheduler.NewCronScheduler(a.cfg.Scheduler.CronExpression, a.cfg.Scheduler.Location())
	sched := usecase.NewScheduler(driver, a.ingestor, family)

	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	a.logger.Info("scheduler started", "cron", a.cfg.Scheduler.CronExpression, "family", family)
	<-ctx.Done()

	stopCtx := context.Background()
	return sched.Stop(stopCtx)
}

// Close releases the store connection.
func (a *Application) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
