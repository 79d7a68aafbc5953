// Package server wires the tripshare backend together: configuration,
// PostgreSQL and migrations, the optional seed, the staleness store, the
// schedule archive, and the gRPC and REST front ends.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/tripshare/internal/logging"
	"github.com/dmitrijs2005/tripshare/internal/server/archive"
	"github.com/dmitrijs2005/tripshare/internal/server/config"
	"github.com/dmitrijs2005/tripshare/internal/server/repositories/planupdates"
	"github.com/dmitrijs2005/tripshare/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/tripshare/internal/server/rest"
	"github.com/dmitrijs2005/tripshare/internal/server/secrets"
	"github.com/dmitrijs2005/tripshare/internal/server/seed"
	"github.com/dmitrijs2005/tripshare/internal/server/services"

	gs "github.com/dmitrijs2005/tripshare/internal/server/grpc"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	rdb      *redis.Client
	services *services.Registry
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	key, err := secrets.SigningKey(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("signing key error: %w", err)
	}
	c.SecretKey = key

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	app := &App{config: c, logger: logger, db: db}
	if err := app.init(ctx); err != nil {
		app.close()
		return nil, err
	}
	return app, nil
}

func (app *App) init(ctx context.Context) error {
	var m repomanager.RepositoryManager = repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, app.db); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	if app.config.SeedFile != "" {
		f, err := seed.Load(app.config.SeedFile)
		if err != nil {
			return err
		}
		if _, err := seed.Apply(ctx, app.db, m, f, app.logger); err != nil {
			return fmt.Errorf("seed error: %w", err)
		}
	}

	switch app.config.StalenessBackend {
	case config.StalenessRedis:
		app.rdb = redis.NewClient(&redis.Options{Addr: app.config.RedisAddr})
		if err := app.rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis error: %w", err)
		}
		m = repomanager.WithPlanUpdates(m, planupdates.NewRedisStore(app.rdb))
	case config.StalenessPostgres, "":
	default:
		return fmt.Errorf("unknown staleness backend %q", app.config.StalenessBackend)
	}

	var a archive.Archiver = archive.Disabled{}
	if app.config.ArchiveEnabled {
		s3a, err := archive.NewS3Archive(ctx, app.config)
		if err != nil {
			return fmt.Errorf("archive init error: %w", err)
		}
		a = s3a
	}

	app.services = services.NewRegistry(app.db, m, a, app.config, app.logger)
	return nil
}

func (app *App) close() {
	if app.rdb != nil {
		_ = app.rdb.Close()
	}
	_ = app.db.Close()
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves gRPC and, when an address is configured, REST until a signal
// arrives or either server fails.
func (app *App) Run(ctx context.Context) error {
	defer app.close()

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(cancelFunc)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.services, app.config.SecretKey)
		return s.Run(gctx)
	})

	if app.config.EndpointAddrREST != "" {
		g.Go(func() error {
			return rest.NewServer(app.config.EndpointAddrREST, app.logger, app.services, app.config.SecretKey).Run(gctx)
		})
	}

	err := g.Wait()
	if err != nil {
		app.logger.Error(ctx, err.Error())
	}
	app.logger.Info(ctx, "App stopped")
	return err
}
