package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/stockboard/stockboard/handlers"
	"github.com/stockboard/stockboard/internal/config"
	"github.com/stockboard/stockboard/internal/database"
	"github.com/stockboard/stockboard/internal/oidc"
	"github.com/stockboard/stockboard/internal/stock/handler"
	"github.com/stockboard/stockboard/internal/stock/repository"
	"github.com/stockboard/stockboard/internal/stock/service"
	"github.com/stockboard/stockboard/internal/storage"
	"github.com/stockboard/stockboard/internal/tokens"
	"github.com/stockboard/stockboard/pkg/logger"
	"github.com/stockboard/stockboard/pkg/middleware"
)

// Store is an opened stock repository plus whatever must be released with it.
type Store struct {
	Repo     repository.Repository
	Backend  string
	Location string
	closers  []func(context.Context) error
}

// Close releases connections held by the store.
func (s *Store) Close(ctx context.Context) error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i](ctx))
	}
	return errors.Join(errs...)
}

// OpenStore builds the repository selected by cfg.Store.
func OpenStore(ctx context.Context, cfg *config.Config) (*Store, error) {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		return &Store{Repo: repository.NewMemoryRepo(), Backend: config.BackendMemory, Location: "memory"}, nil

	case config.BackendMongo:
		client, err := database.ConnectWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, 5, time.Second, func(attempt int, err error) {
			logger.Warnf("attempt %d: failed to connect to MongoDB: %v", attempt, err)
		})
		if err != nil {
			return nil, err
		}
		col := client.Database(cfg.MongoDB.Database).Collection(cfg.MongoDB.Collection)
		return &Store{
			Repo:     repository.NewMongoRepo(col),
			Backend:  config.BackendMongo,
			Location: fmt.Sprintf("mongodb://%s.%s", cfg.MongoDB.Database, cfg.MongoDB.Collection),
			closers:  []func(context.Context) error{client.Disconnect},
		}, nil

	case config.BackendXML:
		var blob storage.Blob
		switch cfg.Store.XMLLocation {
		case config.LocationMinIO:
			ms, err := storage.NewMinIOStorage(ctx, cfg.MinIO)
			if err != nil {
				return nil, err
			}
			blob = ms.Object(cfg.Store.XMLObjectKey)
		default:
			blob = storage.NewFileBlob(cfg.Store.XMLPath)
		}
		repo := repository.NewXMLRepo(blob)
		return &Store{Repo: repo, Backend: config.BackendXML, Location: repo.Location()}, nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}

// WriteGuards returns the middleware protecting POST /api/add-stock.
// With rdb set, revoked JWT write tokens are rejected.
func WriteGuards(ctx context.Context, cfg *config.Config, rdb *redis.Client) ([]gin.HandlerFunc, error) {
	switch cfg.Auth.Mode {
	case config.AuthJWT:
		ver := tokens.NewHS256Verifier(cfg.Auth.JWTSecret).WithRevocations(tokens.NewRevocations(rdb))
		return []gin.HandlerFunc{middleware.AuthMiddleware(ver)}, nil
	case config.AuthOIDC:
		ver, err := oidc.NewVerifier(ctx, cfg.Auth.OIDCIssuer, cfg.Auth.OIDCClientID)
		if err != nil {
			return nil, err
		}
		return []gin.HandlerFunc{middleware.AuthMiddleware(ver)}, nil
	}
	return nil, nil
}

// NewRedisClient returns a client when Redis is configured, nil otherwise.
func NewRedisClient(cfg *config.Config) *redis.Client {
	if cfg.Redis.Addr() == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

// RouterDeps are the collaborators NewRouter mounts.
type RouterDeps struct {
	Service     *service.Service
	Redis       *redis.Client
	WriteGuards []gin.HandlerFunc
	Gatherer    prometheus.Gatherer
}

// NewRouter assembles the HTTP surface: stock API, probes, docs, metrics and the static UI.
func NewRouter(cfg *config.Config, deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestLogger(), gin.Recovery(), middleware.CORS())

	probes := map[string]handlers.Probe{"store": deps.Service.Check}
	if deps.Redis != nil {
		probes["redis"] = func(ctx context.Context) error { return deps.Redis.Ping(ctx).Err() }
	}
	handlers.RegisterHealth(r, probes, 2*time.Second)
	handlers.RegisterSwagger(r)

	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	api := r.Group("/")
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && deps.Redis != nil {
			api.Use(middleware.RedisRateLimitMiddleware(deps.Redis, cfg.RateLimit.RPS, cfg.RateLimit.Burst, cfg.RateLimit.Window))
		} else {
			api.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}
	handler.RegisterStockRoutes(api, deps.Service, handler.Options{
		MaxBodyBytes: cfg.Store.MaxBodyBytes,
		WriteGuards:  deps.WriteGuards,
	})

	handlers.RegisterStatic(r, cfg.Store.StaticDir)
	return r
}

// NewServer wraps the router in an http.Server with the configured timeouts.
func NewServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           h,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}
}
