package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"teslo/internal/config"
	"teslo/internal/database"
	"teslo/internal/handlers"
	"teslo/internal/repositories"
	"teslo/internal/seed"
	"teslo/internal/services"
	"teslo/pkg/cache"
	"teslo/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// application owns every long-lived resource of the process.
type application struct {
	http     *fiber.App
	db       *gorm.DB
	users    repositories.UserRepository
	products *services.ProductService
	mq       *rabbitmq.Client
	cache    *cache.Cache
	logger   *zap.Logger
}

// newApplication opens the store and the optional broker and cache, then
// builds the HTTP app on top of them.
func newApplication(ctx context.Context, cfg *config.Config, log *zap.Logger) (*application, error) {
	db, err := database.OpenAndMigrate(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	a := &application{db: db, logger: log}

	productOpts := []services.ProductOption{
		services.WithPageSize(cfg.DefaultPerPage, cfg.MaxPerPage),
	}

	if cfg.RabbitMQURL != "" {
		mq, err := rabbitmq.NewClient(rabbitmq.Config{
			URL:      cfg.RabbitMQURL,
			Exchange: services.CatalogExchange,
			Logger:   log.Named("rabbitmq"),
		})
		if err != nil {
			_ = a.close()
			return nil, err
		}
		a.mq = mq
		productOpts = append(productOpts, services.WithEvents(mq))
	} else {
		log.Info("RABBITMQ_URL not set, catalog events disabled")
	}

	if cfg.RedisAddr != "" {
		c, err := cache.Dial(ctx, cfg.RedisAddr, cfg.CachePrefix, cfg.CacheTTL)
		if err != nil {
			_ = a.close()
			return nil, err
		}
		a.cache = c
		productOpts = append(productOpts, services.WithCache(c))
	} else {
		log.Info("REDIS_ADDR not set, product cache disabled")
	}

	a.users = repositories.NewGORMUserRepository(db)
	a.products = services.NewProductService(repositories.NewGORMProductRepository(db), log, productOpts...)
	authService := services.NewAuthService(a.users, cfg.JWTSecret, log,
		services.WithTokenTTL(cfg.JWTTTL),
		services.WithBcryptCost(cfg.BcryptCost),
	)

	a.http = newFiberApp(handlers.Dependencies{
		Auth:     authService,
		Products: a.products,
		Logger:   log,
	})
	return a, nil
}

// newFiberApp creates the Fiber app with the request logger, panic recovery
// and all routes.
func newFiberApp(deps handlers.Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "teslo",
	})
	app.Use(recover.New())
	app.Use(logger.New())
	handlers.Register(app, deps)
	return app
}

// seedOnStart seeds the catalog on behalf of the user registered as ownerEmail.
// A missing owner only skips seeding.
func (a *application) seedOnStart(ctx context.Context, ownerEmail string) error {
	owner, err := a.users.GetByEmail(ctx, ownerEmail)
	if errors.Is(err, repositories.ErrNotFound) {
		a.logger.Warn("seed owner not found, skipping seed", zap.String("email", ownerEmail))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load seed owner: %w", err)
	}
	_, err = seed.Run(ctx, a.products, owner, a.logger.Named("seed"))
	return err
}

// startConsumer logs every catalog event that reaches the queue.
func (a *application) startConsumer() error {
	if a.mq == nil {
		return nil
	}
	return a.mq.ConsumeCatalogEvents(catalogEventLogger(a.logger.Named("consumer")))
}

func catalogEventLogger(log *zap.Logger) func(amqp.Delivery) error {
	return func(msg amqp.Delivery) error {
		var evt services.ProductEvent
		if err := json.Unmarshal(msg.Body, &evt); err != nil {
			return fmt.Errorf("malformed catalog event: %w", err)
		}
		log.Info("catalog event received",
			zap.String("routing_key", msg.RoutingKey),
			zap.String("type", evt.Type),
			zap.String("product_id", evt.ID),
			zap.String("slug", evt.Slug),
			zap.Int64("count", evt.Count),
		)
		return nil
	}
}

// close releases the broker, the cache and the database, in that order.
func (a *application) close() error {
	var errs []error
	if a.mq != nil {
		errs = append(errs, a.mq.Close())
	}
	if a.cache != nil {
		errs = append(errs, a.cache.Close())
	}
	if a.db != nil {
		errs = append(errs, database.Close(a.db))
	}
	return errors.Join(errs...)
}
