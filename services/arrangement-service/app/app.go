package app

import (
	"context"
	"fmt"
	"time"

	"github.com/burakmert236/arrangement/common/cache"
	"github.com/burakmert236/arrangement/common/config"
	"github.com/burakmert236/arrangement/common/database"
	apperrors "github.com/burakmert236/arrangement/common/errors"
	commonevents "github.com/burakmert236/arrangement/common/events"
	"github.com/burakmert236/arrangement/common/logger"
	"github.com/burakmert236/arrangement/common/natsjetstream"
	"github.com/burakmert236/arrangement/services/arrangement-service/internal/assignment"
	"github.com/burakmert236/arrangement/services/arrangement-service/internal/athletecache"
	"github.com/burakmert236/arrangement/services/arrangement-service/internal/board"
	"github.com/burakmert236/arrangement/services/arrangement-service/internal/catalog"
	publisher "github.com/burakmert236/arrangement/services/arrangement-service/internal/events/publisher"
	"github.com/burakmert236/arrangement/services/arrangement-service/internal/handoff"
	"github.com/burakmert236/arrangement/services/arrangement-service/internal/lifecycle"
	"github.com/burakmert236/arrangement/services/arrangement-service/internal/normalizer"
	"github.com/burakmert236/arrangement/services/arrangement-service/internal/realtime"
	"github.com/burakmert236/arrangement/services/arrangement-service/internal/repository"
	"github.com/burakmert236/arrangement/services/arrangement-service/internal/service"
)

type App struct {
	cfg            *config.Config
	db             *database.DynamoDBClient
	natsClient     *natsjetstream.Client
	redisClient    *cache.RedisClient
	logger         *logger.Logger
	store          *repository.Store
	eventPublisher *publisher.EventPublisher
	arrangement    *service.Arrangement

	cleanup []func() error
}

func New(ctx context.Context, cfg *config.Config) (*App, *apperrors.AppError) {
	app := &App{
		cfg:     cfg,
		cleanup: make([]func() error, 0),
	}

	app.initLogger()

	if err := app.initDatabase(ctx); err != nil {
		return nil, app.abort(apperrors.Wrap(err, apperrors.CodeInternalServer, "failed to init database"))
	}

	if err := app.initNATS(ctx); err != nil {
		return nil, app.abort(apperrors.Wrap(err, apperrors.CodeInternalServer, "failed to init nats client"))
	}

	if err := app.initRedis(ctx); err != nil {
		return nil, app.abort(apperrors.Wrap(err, apperrors.CodeInternalServer, "failed to init redis client"))
	}

	app.initMessagePublisher()
	app.initArrangement()

	return app, nil
}

func (a *App) initLogger() {
	a.logger = logger.New(logger.Config{
		Level:       a.cfg.Server.LogLevel,
		Format:      a.cfg.Server.LogFormat,
		ServiceName: a.cfg.Server.ServiceName,
	})
	a.cleanup = append(a.cleanup, func() error {
		_ = a.logger.Sync()
		return nil
	})
}

func (a *App) initDatabase(ctx context.Context) error {
	dynamoClient, err := database.NewDynamoDBClient(ctx, a.cfg)
	if err != nil {
		a.logger.Error("Failed to create DynamoDB client", "error", err)
		return err
	}

	a.db = dynamoClient
	a.store = repository.NewStore(dynamoClient, a.cfg.DynamoDB.ParticipantPage)
	a.logger.Info("DynamoDB ready", "table", dynamoClient.TableName)
	return nil
}

func (a *App) initNATS(ctx context.Context) *apperrors.AppError {
	natsClient, err := natsjetstream.NewClient(&natsjetstream.Config{
		URL:           a.cfg.NATS.URL,
		MaxReconnect:  a.cfg.NATS.MaxReconnect,
		ReconnectWait: time.Duration(a.cfg.NATS.ReconnectWaitSeconds) * time.Second,
		Timeout:       time.Duration(a.cfg.NATS.TimeoutSeconds) * time.Second,
	}, a.logger)
	if err != nil {
		return err
	}

	a.natsClient = natsClient
	a.cleanup = append(a.cleanup, natsClient.Close)

	streams := []natsjetstream.StreamConfig{
		{
			Name:     a.cfg.NATS.StatusStream,
			Subjects: []string{commonevents.PerformanceStatusWildcard},
		},
		{
			Name:     a.cfg.NATS.PresentationStream,
			Subjects: []string{commonevents.PresentationWildcard},
		},
	}

	for _, stream := range streams {
		if err := a.natsClient.EnsureStream(ctx, stream); err != nil {
			a.logger.Error("Failed to create stream",
				"error", err,
				"stream", stream.Name,
			)
			return err
		}
		a.logger.Info("Stream ready", "stream", stream.Name)
	}

	return nil
}

func (a *App) initRedis(ctx context.Context) error {
	redisClient, err := cache.NewRedisClient(ctx, config.LoadRedis(a.cfg.Redis))
	if err != nil {
		a.logger.Error("Failed to connect to Redis", "error", err)
		return err
	}

	a.redisClient = redisClient
	a.cleanup = append(a.cleanup, redisClient.Close)
	return nil
}

func (a *App) initMessagePublisher() {
	a.eventPublisher = publisher.NewEventPublisher(a.natsClient, a.logger)
}

func (a *App) initArrangement() {
	engineCfg := a.cfg.Engine

	matches := board.New()
	resolver := lifecycle.NewResolver(a.store, a.logger)
	engine := assignment.NewEngine(a.store, resolver, a.logger)
	handoffStore := handoff.NewRedisStore(a.redisClient, engineCfg.HandoffTTL, a.logger)

	controller := lifecycle.NewController(
		a.store,
		resolver,
		engine,
		handoffStore,
		a.eventPublisher,
		matches,
		engineCfg.DefaultTimerSeconds,
		engineCfg.MinTimerSeconds,
		a.logger,
	)

	statusSubscriber := natsjetstream.NewStatusSubscriber(a.natsClient, a.cfg.NATS.StatusStream, a.logger)

	a.arrangement = service.NewArrangement(service.Components{
		Matches:    a.store,
		Catalog:    catalog.New(a.store, a.logger),
		Athletes:   athletecache.New(a.store, a.logger),
		Normalizer: normalizer.New(engineCfg.TeamEmailDomain, engineCfg.DefaultTimerSeconds, a.logger),
		Board:      matches,
		Engine:     engine,
		Lifecycle:  controller,
		Bridge:     realtime.NewBridge(statusSubscriber, matches, a.logger),
	}, a.logger)
}

func (a *App) Arrangement() *service.Arrangement {
	return a.arrangement
}

func (a *App) Logger() *logger.Logger {
	return a.logger
}

// Start opens the initial tournament when one is given.
func (a *App) Start(ctx context.Context, tournamentId string) *apperrors.AppError {
	if tournamentId != "" {
		if err := a.arrangement.SelectTournament(ctx, tournamentId); err != nil {
			return err
		}
		a.logger.Info("Tournament selected",
			"tournament_id", tournamentId,
			"visible_matches", len(a.arrangement.Visible()),
		)
	}

	a.logger.Info("Application started successfully")
	return nil
}

func (a *App) Stop() *apperrors.AppError {
	a.logger.Info("Stopping application...")

	if a.arrangement != nil {
		a.arrangement.Close()
	}

	// Close in reverse order so the logger is flushed last.
	for i := len(a.cleanup) - 1; i >= 0; i-- {
		if err := a.cleanup[i](); err != nil {
			a.logger.Error(fmt.Sprintf("Cleanup error: %v", err))
		}
	}

	a.logger.Info("Application stopped")
	return nil
}

// abort releases whatever was opened before a failed init step.
func (a *App) abort(err *apperrors.AppError) *apperrors.AppError {
	for i := len(a.cleanup) - 1; i >= 0; i-- {
		_ = a.cleanup[i]()
	}
	return err
}
