package factory

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/redis/go-redis/v9"

	"toolhub/internal/concurrent"
	"toolhub/internal/config"
	"toolhub/internal/domain"
	"toolhub/internal/repository"
	"toolhub/internal/service"
	"toolhub/pkg/cache"
	"toolhub/pkg/logger"
)

type Factory interface {
	GetLogger() logger.Logger
	GetConfig() *config.Config
	GetDB() *sql.DB
	GetRedisClient() *redis.Client
	GetCache() cache.Cache
	GetCacheManager() cache.CacheStrategy
	GetWarmUpManager() *cache.WarmUpManager
	GetRecomputePool() *concurrent.RecomputePool

	GetUserRepository() domain.UserRepository
	GetToolRepository() domain.ToolRepository
	GetRatingRepository() domain.RatingRepository
	GetBookmarkRepository() domain.BookmarkRepository
	GetAuditLogRepository() domain.AuditLogRepository

	GetUserService() domain.UserService
	GetToolService() domain.ToolService
	GetRatingService() domain.RatingService
	GetBookmarkService() domain.BookmarkService
	GetAuthService() domain.AuthService
	GetAuditLogService() domain.AuditLogService
}

type AppFactory struct {
	config        *config.Config
	logger        logger.Logger
	db            *sql.DB
	redisClient   *redis.Client
	cache         cache.Cache
	cacheManager  cache.CacheStrategy
	warmUpManager *cache.WarmUpManager
	recomputePool *concurrent.RecomputePool

	userRepository     domain.UserRepository
	toolRepository     domain.ToolRepository
	ratingRepository   domain.RatingRepository
	bookmarkRepository domain.BookmarkRepository
	auditLogRepository domain.AuditLogRepository

	userService       domain.UserService
	toolService       domain.ToolService
	baseRatingService *service.RatingService
	ratingService     domain.RatingService
	bookmarkService   domain.BookmarkService
	authService       domain.AuthService
	auditLogService   domain.AuditLogService
}

func NewFactory() (Factory, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log := logger.New(logger.LogLevel(cfg.LogLevel), nil)

	db, err := sql.Open("sqlite3", cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("veritabanı bağlantısı kurulamadı: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("veritabanı bağlantısı test edilemedi: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx := context.Background()
	if _, err := redisClient.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("Redis bağlantısı kurulamadı: %w", err)
	}

	// Initialize cache
	cacheInstance := cache.NewRedisCache(redisClient, log, "toolhub")
	cacheManager := cache.NewCacheManager(cacheInstance, log)

	factory := &AppFactory{
		config:       cfg,
		logger:       log,
		db:           db,
		redisClient:  redisClient,
		cache:        cacheInstance,
		cacheManager: cacheManager,
	}

	factory.initRepositories()
	factory.initServices()
	factory.initRecomputePool()
	factory.initCacheManagers()

	return factory, nil
}

func (f *AppFactory) initRepositories() {
	f.userRepository = repository.NewUserRepository(f.db, f.logger)
	f.toolRepository = repository.NewToolRepository(f.db, f.logger)
	f.ratingRepository = repository.NewRatingRepository(f.db, f.logger)
	f.bookmarkRepository = repository.NewBookmarkRepository(f.db, f.logger)
	f.auditLogRepository = repository.NewAuditLogRepository(f.db, f.logger)
}

func (f *AppFactory) initServices() {
	f.auditLogService = service.NewAuditLogService(f.auditLogRepository, f.logger)

	f.authService = service.NewAuthService(
		f.userRepository,
		f.config.Auth.JWTSecret,
		f.config.Auth.TokenTTL,
		f.logger,
	)

	f.userService = service.NewUserService(f.userRepository, f.auditLogRepository, f.logger)

	// Create base tool service first
	baseToolService := service.NewToolService(f.toolRepository, f.auditLogRepository, f.logger)
	// Wrap with caching
	f.toolService = service.NewCachedToolService(baseToolService, f.cache, f.cacheManager, f.logger)

	baseRatingService := service.NewRatingService(
		f.ratingRepository,
		f.toolRepository,
		f.auditLogRepository,
		f.logger,
	)
	f.baseRatingService = baseRatingService
	f.ratingService = service.NewCachedRatingService(baseRatingService, f.cache, f.cacheManager, f.logger)

	f.bookmarkService = service.NewBookmarkService(
		f.bookmarkRepository,
		f.toolRepository,
		f.auditLogRepository,
		f.logger,
	)
}

func (f *AppFactory) initRecomputePool() {
	recompute := func(toolID int64) error {
		_, err := f.toolRepository.RecomputeAverageRating(toolID)
		return err
	}

	sweep := func() ([]int64, error) {
		tools, err := f.toolRepository.FindAll()
		if err != nil {
			return nil, err
		}

		ids := make([]int64, 0, len(tools))
		for _, tool := range tools {
			ids = append(ids, tool.ID)
		}
		return ids, nil
	}

	f.recomputePool = concurrent.NewRecomputePool(
		f.config.Reconciler.Workers,
		f.config.Reconciler.QueueSize,
		recompute,
		sweep,
		f.config.Reconciler.SweepInterval,
		f.logger,
	)

	f.baseRatingService.SetRecomputeQueue(f.recomputePool)
}

func (f *AppFactory) initCacheManagers() {
	f.warmUpManager = cache.NewWarmUpManager(
		f.cache,
		f.logger,
		f.toolService,
		f.ratingService,
	)
}

func (f *AppFactory) GetLogger() logger.Logger {
	return f.logger
}

func (f *AppFactory) GetConfig() *config.Config {
	return f.config
}

func (f *AppFactory) GetDB() *sql.DB {
	return f.db
}

func (f *AppFactory) GetRedisClient() *redis.Client {
	return f.redisClient
}

func (f *AppFactory) GetCache() cache.Cache {
	return f.cache
}

func (f *AppFactory) GetCacheManager() cache.CacheStrategy {
	return f.cacheManager
}

func (f *AppFactory) GetWarmUpManager() *cache.WarmUpManager {
	return f.warmUpManager
}

func (f *AppFactory) GetRecomputePool() *concurrent.RecomputePool {
	return f.recomputePool
}

func (f *AppFactory) GetUserRepository() domain.UserRepository {
	return f.userRepository
}

func (f *AppFactory) GetToolRepository() domain.ToolRepository {
	return f.toolRepository
}

func (f *AppFactory) GetRatingRepository() domain.RatingRepository {
	return f.ratingRepository
}

func (f *AppFactory) GetBookmarkRepository() domain.BookmarkRepository {
	return f.bookmarkRepository
}

func (f *AppFactory) GetAuditLogRepository() domain.AuditLogRepository {
	return f.auditLogRepository
}

func (f *AppFactory) GetUserService() domain.UserService {
	return f.userService
}

func (f *AppFactory) GetToolService() domain.ToolService {
	return f.toolService
}

func (f *AppFactory) GetRatingService() domain.RatingService {
	return f.ratingService
}

func (f *AppFactory) GetBookmarkService() domain.BookmarkService {
	return f.bookmarkService
}

func (f *AppFactory) GetAuthService() domain.AuthService {
	return f.authService
}

func (f *AppFactory) GetAuditLogService() domain.AuditLogService {
	return f.auditLogService
}
