package main

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	cacheadapter "github.com/gauss2302/jobhub/internal/adapter/cache"
	oauthadapter "github.com/gauss2302/jobhub/internal/adapter/oauth"
	"github.com/gauss2302/jobhub/internal/bootstrap"
	"github.com/gauss2302/jobhub/internal/config"
	httptransport "github.com/gauss2302/jobhub/internal/http"
	"github.com/gauss2302/jobhub/internal/http/handler"
	httpmiddleware "github.com/gauss2302/jobhub/internal/http/middleware"
	"github.com/gauss2302/jobhub/internal/jwt"
	"github.com/gauss2302/jobhub/internal/repository"
	"github.com/gauss2302/jobhub/internal/server"
	"github.com/gauss2302/jobhub/internal/service"
	authservice "github.com/gauss2302/jobhub/internal/service/auth"
	"github.com/gauss2302/jobhub/internal/telemetry"
)

func main() {
	app := fx.New(
		fx.Provide(
			newConfig,
			newLogger,
			newTelemetry,
			newSnowflake,
			newPGXPool,
			newRedisClient,
			newUserRepository,
			newCompanyRepository,
			newRecruiterRepository,
			newJobRepository,
			newApplicationRepository,
			newOAuthStateStore,
			newRefreshTokenStore,
			newOAuthProviderClient,
			newTokenGenerator,
			service.NewAuthService,
			newTokenIssuer,
			authservice.NewOAuthService,
			service.NewUserService,
			service.NewCompanyService,
			service.NewJobService,
			service.NewApplicationService,
			handler.NewAuthHandler,
			handler.NewUserHandler,
			handler.NewCompanyHandler,
			handler.NewJobHandler,
			handler.NewApplicationHandler,
			newHandlers,
			newAuthMiddleware,
			httptransport.NewRouter,
			server.NewHTTPServer,
		),
		fx.Invoke(useTelemetry, bootstrap.EnsureAdmin, startHTTPServer),
	)

	app.Run()
}

func newConfig() (config.Config, error) {
	return config.Load()
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.Environment == "development" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}

func newTelemetry(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) (*telemetry.Provider, error) {
	provider, err := telemetry.New(context.Background(), cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("telemetry init: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			return provider.Shutdown(stopCtx)
		},
	})

	return provider, nil
}

func newSnowflake() (*snowflake.Node, error) {
	node, err := snowflake.NewNode(1)
	return node, err
}

func newPGXPool(lc fx.Lifecycle, cfg config.Config) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			pool.Close()
			return nil
		},
	})

	return pool, nil
}

func newRedisClient(lc fx.Lifecycle, cfg config.Config) (redis.UniversalClient, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	return client, nil
}

func newUserRepository(pool *pgxpool.Pool) repository.UserRepository {
	return repository.NewPostgresUserRepo(pool)
}

func newCompanyRepository(pool *pgxpool.Pool) repository.CompanyRepository {
	return repository.NewPostgresCompanyRepo(pool)
}

func newRecruiterRepository(pool *pgxpool.Pool) repository.RecruiterRepository {
	return repository.NewPostgresRecruiterRepo(pool)
}

func newJobRepository(pool *pgxpool.Pool) repository.JobRepository {
	return repository.NewPostgresJobRepo(pool)
}

func newApplicationRepository(pool *pgxpool.Pool) repository.ApplicationRepository {
	return repository.NewPostgresApplicationRepo(pool)
}

func newOAuthStateStore(client redis.UniversalClient) repository.OAuthStateStore {
	return cacheadapter.NewRedisStateStore(client)
}

func newRefreshTokenStore(client redis.UniversalClient) repository.RefreshTokenStore {
	return cacheadapter.NewRedisTokenStore(client)
}

func newOAuthProviderClient() oauthadapter.ProviderClient {
	return oauthadapter.NewHTTPProviderClient(nil)
}

func newTokenGenerator(cfg config.Config) *jwt.Generator {
	return jwt.NewGenerator([]byte(cfg.SecretKey), cfg.ServiceName, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
}

func newTokenIssuer(auth *service.AuthService) authservice.TokenIssuer {
	return auth
}

func newHandlers(
	auth *handler.AuthHandler,
	users *handler.UserHandler,
	companies *handler.CompanyHandler,
	jobs *handler.JobHandler,
	applications *handler.ApplicationHandler,
) httptransport.Handlers {
	return httptransport.Handlers{
		Auth:         auth,
		Users:        users,
		Companies:    companies,
		Jobs:         jobs,
		Applications: applications,
	}
}

func newAuthMiddleware(generator *jwt.Generator) *httpmiddleware.Auth {
	return &httpmiddleware.Auth{JWT: generator}
}

func startHTTPServer(lc fx.Lifecycle, srv *server.HTTPServer, cfg config.Config, logger *zap.Logger) {
	addr := ":" + cfg.HTTPPort
	var (
		cancel context.CancelFunc
		done   chan struct{}
	)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			runCtx, stop := context.WithCancel(context.Background())
			cancel = stop
			done = make(chan struct{})

			go func() {
				if err := srv.Run(runCtx, addr); err != nil {
					logger.Error("http server stopped", zap.Error(err))
				}
				close(done)
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			if cancel != nil {
				cancel()
			}
			if done == nil {
				return nil
			}
			select {
			case <-done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})
}

func useTelemetry(*telemetry.Provider) {}
