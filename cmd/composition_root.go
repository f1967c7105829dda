package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	bakeryhttp "bakery/internal/adapters/in/http"
	"bakery/internal/adapters/out/objectstorage"
	"bakery/internal/adapters/out/postgres"
	"bakery/internal/adapters/out/postgres/userrepo"
	"bakery/internal/adapters/out/session"
	"bakery/internal/core/application/access"
	"bakery/internal/core/application/usecases/commands"
	"bakery/internal/core/application/usecases/queries"
	"bakery/internal/core/ports"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type CompositionRoot struct {
	cfg      Config
	log      *logrus.Logger
	clock    ports.Clock
	location *time.Location

	gormDB     *gorm.DB
	redis      *redis.Client
	uowFactory *postgres.GormUnitOfWorkFactory
	sessions   *session.Provider
	storage    *objectstorage.S3InvoiceStorage
}

// NewCompositionRoot connects to postgres, redis and the invoice bucket and
// migrates the schema.
func NewCompositionRoot(ctx context.Context, cfg Config, log *logrus.Logger) (*CompositionRoot, error) {
	gormDB, err := gorm.Open(gormpostgres.Open(cfg.DSN()), &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(log, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err = gormDB.Use(otelgorm.NewPlugin()); err != nil {
		return nil, fmt.Errorf("install tracing plugin: %w", err)
	}
	if err = postgres.Migrate(gormDB); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err = redisClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	clock := ports.SystemClock{}
	sessions, err := session.NewProvider(
		cfg.SessionSecret,
		cfg.SessionIssuer,
		session.NewRedisStore(redisClient, log),
		clock,
		log,
	)
	if err != nil {
		return nil, err
	}

	s3Client, err := objectstorage.NewClient(ctx, objectstorage.Config{
		Bucket:    cfg.InvoiceBucket,
		Endpoint:  cfg.InvoiceEndpoint,
		Region:    cfg.InvoiceRegion,
		AccessKey: cfg.InvoiceAccessKey,
		SecretKey: cfg.InvoiceSecretKey,
		PublicURL: cfg.InvoicePublicURL,
	})
	if err != nil {
		return nil, err
	}

	return &CompositionRoot{
		cfg:        cfg,
		log:        log,
		clock:      clock,
		location:   cfg.Location(),
		gormDB:     gormDB,
		redis:      redisClient,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		sessions:   sessions,
		storage:    objectstorage.NewS3InvoiceStorage(s3Client, cfg.InvoiceBucket, cfg.InvoicePublicURL),
	}, nil
}

// Close releases the database pool and the redis client.
func (c *CompositionRoot) Close() error {
	var closeErrs []error
	if sqlDB, err := c.gormDB.DB(); err == nil {
		closeErrs = append(closeErrs, sqlDB.Close())
	}
	closeErrs = append(closeErrs, c.redis.Close())
	return errors.Join(closeErrs...)
}

func (c *CompositionRoot) Sessions() *session.Provider {
	return c.sessions
}

func (c *CompositionRoot) orderUoWs() commands.OrderUoWFactory {
	return commands.OrderUoWFactoryFunc(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) transitionUoWs() commands.TransitionUoWFactory {
	return commands.TransitionUoWFactoryFunc(func() commands.TransitionUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) adminUoWs() commands.AdminUoWFactory {
	return commands.AdminUoWFactoryFunc(func() commands.AdminUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) businessDayUoWs() commands.BusinessDayUoWFactory {
	return commands.BusinessDayUoWFactoryFunc(func() commands.BusinessDayUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() *commands.CreateOrderCommandHandler {
	h := commands.NewCreateOrderCommandHandler(c.orderUoWs(), c.clock, c.location)
	return &h
}

func (c *CompositionRoot) CreateChangeOrderItemsCommandHandler() *commands.ChangeOrderItemsCommandHandler {
	h := commands.NewChangeOrderItemsCommandHandler(c.orderUoWs(), c.clock)
	return &h
}

func (c *CompositionRoot) CreateApplyTransitionCommandHandler() *commands.ApplyTransitionCommandHandler {
	h := commands.NewApplyTransitionCommandHandler(c.transitionUoWs(), c.storage, c.clock, c.location)
	return &h
}

func (c *CompositionRoot) CreateCreateRouteCommandHandler() *commands.CreateRouteCommandHandler {
	h := commands.NewCreateRouteCommandHandler(c.adminUoWs(), c.clock)
	return &h
}

func (c *CompositionRoot) CreateDeactivateRouteCommandHandler() *commands.DeactivateRouteCommandHandler {
	h := commands.NewDeactivateRouteCommandHandler(c.adminUoWs(), c.clock)
	return &h
}

func (c *CompositionRoot) CreateCreateUserCommandHandler() *commands.CreateUserCommandHandler {
	h := commands.NewCreateUserCommandHandler(c.adminUoWs(), c.clock)
	return &h
}

func (c *CompositionRoot) CreateUpdateUserCommandHandler() *commands.UpdateUserCommandHandler {
	h := commands.NewUpdateUserCommandHandler(c.adminUoWs(), c.clock)
	return &h
}

func (c *CompositionRoot) CreateDeactivateUserCommandHandler() *commands.DeactivateUserCommandHandler {
	h := commands.NewDeactivateUserCommandHandler(c.adminUoWs(), c.clock)
	return &h
}

func (c *CompositionRoot) CreateCreateProductCommandHandler() *commands.CreateProductCommandHandler {
	h := commands.NewCreateProductCommandHandler(c.adminUoWs(), c.clock)
	return &h
}

func (c *CompositionRoot) CreateCloseBusinessDayCommandHandler() *commands.CloseBusinessDayCommandHandler {
	h := commands.NewCloseBusinessDayCommandHandler(c.businessDayUoWs(), c.clock, c.location)
	return &h
}

func (c *CompositionRoot) CreateGetDailyCountsQueryHandler() queries.GetDailyCountsQueryHandler {
	return queries.NewGetDailyCountsQueryHandler(c.gormDB, c.location)
}

func (c *CompositionRoot) CreateGetWorkQueueQueryHandler() queries.GetWorkQueueQueryHandler {
	return queries.NewGetWorkQueueQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListActiveProductsQueryHandler() queries.ListActiveProductsQueryHandler {
	return queries.NewListActiveProductsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListRoutesQueryHandler() queries.ListRoutesQueryHandler {
	return queries.NewListRoutesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListBusinessDaysQueryHandler() queries.ListBusinessDaysQueryHandler {
	return queries.NewListBusinessDaysQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateAccessGuard() *access.Guard {
	return access.NewGuard(c.sessions, userrepo.NewGormUserRepository(c.gormDB))
}

// CreateHTTPServer wires every handler into the HTTP adapter.
func (c *CompositionRoot) CreateHTTPServer() *bakeryhttp.Server {
	return bakeryhttp.NewServer(
		bakeryhttp.Handlers{
			CreateOrder:      c.CreateCreateOrderCommandHandler(),
			ChangeOrderItems: c.CreateChangeOrderItemsCommandHandler(),
			Transition:       c.CreateApplyTransitionCommandHandler(),
			CreateRoute:      c.CreateCreateRouteCommandHandler(),
			DeactivateRoute:  c.CreateDeactivateRouteCommandHandler(),
			CreateUser:       c.CreateCreateUserCommandHandler(),
			UpdateUser:       c.CreateUpdateUserCommandHandler(),
			DeactivateUser:   c.CreateDeactivateUserCommandHandler(),
			CreateProduct:    c.CreateCreateProductCommandHandler(),
			CloseBusinessDay: c.CreateCloseBusinessDayCommandHandler(),
			DailyCounts:      c.CreateGetDailyCountsQueryHandler(),
			WorkQueue:        c.CreateGetWorkQueueQueryHandler(),
			Products:         c.CreateListActiveProductsQueryHandler(),
			Routes:           c.CreateListRoutesQueryHandler(),
			BusinessDays:     c.CreateListBusinessDaysQueryHandler(),
		},
		c.CreateAccessGuard(),
		c.sessions,
		bakeryhttp.NewMetrics(),
		c.clock,
		c.location,
		c.log,
	)
}
