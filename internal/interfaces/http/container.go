package http

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/orris-inc/ticketflow/internal/domain/user"
	"github.com/orris-inc/ticketflow/internal/infrastructure/auth"
	"github.com/orris-inc/ticketflow/internal/infrastructure/config"
	"github.com/orris-inc/ticketflow/internal/infrastructure/lock"
	permissioninfra "github.com/orris-inc/ticketflow/internal/infrastructure/permission"
	"github.com/orris-inc/ticketflow/internal/infrastructure/pubsub"
	"github.com/orris-inc/ticketflow/internal/infrastructure/ratelimit"
	"github.com/orris-inc/ticketflow/internal/interfaces/http/middleware"
	sharedConfig "github.com/orris-inc/ticketflow/internal/shared/config"
	"github.com/orris-inc/ticketflow/internal/shared/logger"
)

// Container holds infrastructure components, repositories, use cases and
// handlers, and wires them together. Shutdown releases what it opened.
type Container struct {
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	repos    *repositories
	enforcer *permissioninfra.Enforcer
	locker   lock.Locker
	jwtSvc   *auth.JWTService
	eventBus *pubsub.RedisTicketEventBus

	ucs   *UseCases
	hdlrs *allHandlers

	authMiddleware       *middleware.AuthMiddleware
	permissionMiddleware *middleware.PermissionMiddleware
	rateLimitMiddleware  *middleware.RateLimitMiddleware
}

// NewContainer builds every component the server and CLI commands need.
// Redis is only dialed when the lock driver, event fan-out or rate limiting asks for it.
func NewContainer(db *gorm.DB, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine: gin.New(),
		db:     db,
		cfg:    cfg,
		log:    log,
	}

	if err := c.initInfrastructure(); err != nil {
		c.Shutdown()
		return nil, err
	}
	c.initUseCases()
	c.initHandlers()

	return c, nil
}

func (c *Container) initInfrastructure() error {
	cfg := c.cfg

	if cfg.RedisRequired() {
		client, err := initRedis(cfg, c.log)
		if err != nil {
			return err
		}
		c.redis = client
	}

	c.repos = newRepositories(c.db, c.log)

	enforcer, err := permissioninfra.NewEnforcer(c.db, c.log)
	if err != nil {
		return fmt.Errorf("failed to create permission enforcer: %w", err)
	}
	c.enforcer = enforcer

	wait := time.Duration(cfg.Lock.WaitTimeoutMs) * time.Millisecond
	if cfg.Lock.Driver == sharedConfig.LockDriverRedis {
		ttl := time.Duration(cfg.Lock.TTLSeconds) * time.Second
		c.locker = lock.NewRedisLocker(c.redis, ttl, wait, c.log)
	} else {
		c.locker = lock.NewMemoryLocker(wait)
	}

	if cfg.Events.Enabled {
		c.eventBus = pubsub.NewRedisTicketEventBus(c.redis, c.log)
	}

	c.jwtSvc = auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.Issuer, cfg.Auth.JWT.AccessExpMinutes)
	c.authMiddleware = middleware.NewAuthMiddleware(c.jwtSvc, c.log)
	c.permissionMiddleware = middleware.NewPermissionMiddleware(c.enforcer, c.log)

	if cfg.RateLimit.Enabled {
		c.rateLimitMiddleware = middleware.NewRateLimitMiddleware(
			ratelimit.NewRedisLimiter(c.redis),
			ratelimit.Limit{PerMinute: cfg.RateLimit.PerMinute, PerHour: cfg.RateLimit.PerHour},
			c.log,
		)
	}
	return nil
}

// initRedis creates and tests the Redis client connection.
func initRedis(cfg *config.Config, log logger.Interface) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.GetAddr(), err)
	}
	log.Infow("Redis connection established successfully", "addr", cfg.Redis.GetAddr())

	return client, nil
}

// InitPermissions seeds the admin policies and drops role grants whose role
// row no longer exists.
func (c *Container) InitPermissions() error {
	adminRole := c.cfg.Permission.AdminRole
	if err := permissioninfra.InitPolicies(c.enforcer, adminRole, c.log); err != nil {
		return err
	}
	pruned, err := permissioninfra.NewGrantSync(c.db, c.enforcer, adminRole, c.log).Prune()
	if err != nil {
		return err
	}
	if pruned > 0 {
		c.log.Infow("pruned stale role grants", "count", pruned)
	}
	return nil
}

func (c *Container) UseCases() *UseCases {
	return c.ucs
}

func (c *Container) JWTService() *auth.JWTService {
	return c.jwtSvc
}

// Users exposes the directory for commands that resolve identities directly.
func (c *Container) Users() user.Repository {
	return c.repos.userRepo
}

func (c *Container) Enforcer() *permissioninfra.Enforcer {
	return c.enforcer
}

// EventBus is nil unless events are enabled.
func (c *Container) EventBus() *pubsub.RedisTicketEventBus {
	return c.eventBus
}

// Shutdown closes the redis client. The database is owned by the caller.
func (c *Container) Shutdown() {
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.log.Warnw("failed to close redis client", "error", err)
		}
		c.redis = nil
	}
}
