package cmd

import (
	"context"
	"errors"
	"log/slog"
	"time"

	kitchenhttp "kitchen/internal/adapters/in/http"
	"kitchen/internal/adapters/observability"
	"kitchen/internal/adapters/out/events"
	"kitchen/internal/adapters/out/memory"
	"kitchen/internal/adapters/out/menufile"
	"kitchen/internal/adapters/out/postgres"
	"kitchen/internal/adapters/out/postgres/orderrepo"
	"kitchen/internal/adapters/out/rabbitmq"
	"kitchen/internal/core/application/dashboard"
	"kitchen/internal/core/application/lifecycle"
	"kitchen/internal/core/application/usecases/commands"
	"kitchen/internal/core/application/usecases/queries"
	"kitchen/internal/core/domain/model/kernel"
	"kitchen/internal/core/domain/services"
	"kitchen/internal/core/ports"
	"kitchen/internal/jobs"
	platform "kitchen/internal/platform/observability"
	"kitchen/internal/pkg/cache"
	"kitchen/internal/pkg/keylock"

	"github.com/labstack/echo/v4"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const serviceName = "kitchen"

type CompositionRoot struct {
	cfg         Config
	instruments *platform.Instruments
	logger      *slog.Logger

	gormDB     *gorm.DB
	rabbit     *rabbitmq.Client
	uowFactory ports.UnitOfWorkFactory
	orders     queries.OrderReader

	dashboard *dashboard.View
	numbers   *services.OrderNumberSequence
	locker    *keylock.Keyed[kernel.UUID]
	menuCache *cache.Cache[string, *menufile.Menu]
	catalog   *menufile.Catalog
}

// NewCompositionRoot opens the configured storage and broker and builds the
// shared state every handler works on.
func NewCompositionRoot(cfg Config, instruments *platform.Instruments) (*CompositionRoot, error) {
	c := &CompositionRoot{
		cfg:         cfg,
		instruments: instruments,
		logger:      instruments.Logger,
		dashboard:   dashboard.NewView(),
		numbers:     services.NewOrderNumberSequence(0),
		locker:      keylock.New[kernel.UUID](),
		menuCache:   cache.New[string, *menufile.Menu](cfg.MenuCacheTTL),
	}
	c.catalog = menufile.NewCatalog(cfg.MenuFile, c.menuCache)

	dispatcher, err := c.newDispatcher()
	if err != nil {
		return nil, err
	}

	if cfg.UsesPostgres() {
		db, openErr := gorm.Open(gormpostgres.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
		if openErr != nil {
			_ = c.Close()
			return nil, openErr
		}
		if migrateErr := db.AutoMigrate(&orderrepo.OrderDTO{}, &orderrepo.OrderItemDTO{}); migrateErr != nil {
			_ = c.Close()
			return nil, migrateErr
		}
		c.gormDB = db
		factory := postgres.NewGormUnitOfWorkFactory(db, dispatcher)
		c.uowFactory = factory
		c.orders = factory.Create().OrderRepository()
		c.logger.Info("Orders are stored in PostgreSQL", "host", cfg.DBHost, "database", cfg.DBName)
	} else {
		store := memory.NewOrderStore()
		c.uowFactory = memory.NewUnitOfWorkFactory(store, dispatcher)
		c.orders = store
		c.logger.Warn("DB_HOST is not set, orders are kept in memory and lost on restart")
	}

	return c, nil
}

func (c *CompositionRoot) newDispatcher() (*events.Dispatcher, error) {
	if c.cfg.RabbitMQURL == "" {
		return events.NewDispatcher(events.NewLogPublisher(c.logger), c.logger), nil
	}

	client, err := rabbitmq.Dial(c.cfg.RabbitMQURL)
	if err != nil {
		return nil, err
	}
	if err = client.DeclareExchange(rabbitmq.DefaultExchange); err != nil {
		_ = client.Close()
		return nil, err
	}
	c.rabbit = client
	c.logger.Info("Order events are published to RabbitMQ", "exchange", rabbitmq.DefaultExchange)
	return events.NewDispatcher(rabbitmq.NewPublisher(client, rabbitmq.DefaultExchange), c.logger), nil
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateSubmitOrderCommandHandler() commands.SubmitOrderCommandHandler {
	return commands.NewSubmitOrderCommandHandler(c.orderUoWFactory(), c.catalog, c.numbers, c.dashboard)
}

func (c *CompositionRoot) CreateUpdateItemStatusCommandHandler() commands.UpdateItemStatusCommandHandler {
	return commands.NewUpdateItemStatusCommandHandler(c.orderUoWFactory(), c.locker, c.dashboard)
}

func (c *CompositionRoot) CreateCompleteOrderCommandHandler() commands.CompleteOrderCommandHandler {
	return commands.NewCompleteOrderCommandHandler(c.orderUoWFactory(), c.locker, c.dashboard)
}

func (c *CompositionRoot) CreateRestoreKitchenStateCommandHandler() commands.RestoreKitchenStateCommandHandler {
	return commands.NewRestoreKitchenStateCommandHandler(c.orderUoWFactory(), c.numbers, c.dashboard)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.orders)
}

func (c *CompositionRoot) CreateListActiveOrdersQueryHandler() queries.ListActiveOrdersQueryHandler {
	return queries.NewListActiveOrdersQueryHandler(c.dashboard)
}

func (c *CompositionRoot) CreateListMenuQueryHandler() queries.ListMenuQueryHandler {
	return queries.NewListMenuQueryHandler(c.catalog)
}

// CreateLifecycleService returns the controller wrapped with tracing,
// metrics and logging.
func (c *CompositionRoot) CreateLifecycleService() lifecycle.Service {
	controller := lifecycle.NewController(lifecycle.Handlers{
		SubmitOrder:      c.CreateSubmitOrderCommandHandler(),
		UpdateItemStatus: c.CreateUpdateItemStatusCommandHandler(),
		CompleteOrder:    c.CreateCompleteOrderCommandHandler(),
		GetOrder:         c.CreateGetOrderQueryHandler(),
		ListActiveOrders: c.CreateListActiveOrdersQueryHandler(),
		ListMenu:         c.CreateListMenuQueryHandler(),
	})

	return observability.New(controller,
		observability.WithLogger(c.logger),
		observability.WithTracer(c.instruments.Tracer(serviceName)),
		observability.WithMeter(c.instruments.Meter(serviceName)),
	)
}

func (c *CompositionRoot) CreateEcho() (*echo.Echo, error) {
	server := kitchenhttp.NewServer(c.CreateLifecycleService(), c.menuCache)
	return kitchenhttp.NewEcho(server, c.logger)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.menuCache, c.CreateListActiveOrdersQueryHandler(), c.cfg.OverdueAfter, c.logger)
}

// RestoreKitchenState seeds the order number sequence and the dashboard
// from storage. It must run before the HTTP server accepts requests.
func (c *CompositionRoot) RestoreKitchenState(ctx context.Context) error {
	handler := c.CreateRestoreKitchenStateCommandHandler()
	restored, err := handler.Handle(ctx, commands.NewRestoreKitchenStateCommand())
	if err != nil {
		return err
	}
	c.logger.InfoContext(ctx, "Kitchen state restored",
		"active_orders", restored,
		"last_order_number", c.numbers.Last())
	return nil
}

// Close releases the broker connection and the database pool.
func (c *CompositionRoot) Close() error {
	var errList []error
	if c.rabbit != nil {
		errList = append(errList, c.rabbit.Close())
	}
	if c.gormDB != nil {
		sqlDB, err := c.gormDB.DB()
		if err == nil {
			err = sqlDB.Close()
		}
		errList = append(errList, err)
	}
	return errors.Join(errList...)
}

// ShutdownTimeout bounds graceful shutdown of the HTTP server and the
// telemetry providers.
const ShutdownTimeout = 10 * time.Second

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
