package appcontext

import (
	"context"
	"log"
	"time"

	"github.com/RoyceAzure/lab/bookstore/internal/config"
	"github.com/RoyceAzure/lab/bookstore/internal/infra/producer"
	"github.com/RoyceAzure/lab/bookstore/internal/infra/producer/balancer"
	"github.com/RoyceAzure/lab/bookstore/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/bookstore/internal/infra/repository/redis_repo"
	"github.com/RoyceAzure/lab/bookstore/internal/service"
	kafka_config "github.com/RoyceAzure/lab/rj_kafka/kafka/config"
	kafka_producer "github.com/RoyceAzure/lab/rj_kafka/kafka/producer"
	"github.com/RoyceAzure/lab/rj_redis/pkg/redis_client"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const notifyPartitions = 6

type ApplicationContext struct {
	Cf                 *config.Config
	DbConn             *gorm.DB
	Store              db.Store
	RedisClient        *redis.Client
	NotifyProducer     producer.IOrderNotifyProducer
	CartService        service.ICartService
	OrderService       service.IOrderService
	FulfillmentService service.IFulfillmentService
	PurchaseService    service.IPurchaseService
}

func NewApplicationContext(cf *config.Config) (*ApplicationContext, error) {
	app := ApplicationContext{
		Cf: cf,
	}
	err := app.Init()
	if err != nil {
		return nil, err
	}

	return &app, nil
}

func (app *ApplicationContext) Init() error {
	err := app.setUpDbConn()
	if err != nil {
		return err
	}
	err = app.setUpStore()
	if err != nil {
		return err
	}
	err = app.setUpRedisClient()
	if err != nil {
		return err
	}
	err = app.setUpNotifyProducer()
	if err != nil {
		return err
	}
	err = app.setUpServices()
	if err != nil {
		return err
	}
	return nil
}

func (app *ApplicationContext) setUpDbConn() error {
	log.Printf("Start setup db conn")
	conn, err := db.GetDbConn(app.Cf.DbName, app.Cf.DbHost, app.Cf.DbPort, app.Cf.DbUser, app.Cf.DbPas)
	if err != nil {
		return err
	}
	app.DbConn = conn
	log.Printf("Finish setup db conn")
	return nil
}

func (app *ApplicationContext) setUpStore() error {
	store := db.NewStore(app.DbConn)
	if err := store.InitMigrate(); err != nil {
		return err
	}
	app.Store = store
	return nil
}

func (app *ApplicationContext) setUpRedisClient() error {
	log.Printf("Start setup redis client")
	opts := []redis_client.Option{}
	if app.Cf.RedisPas != "" {
		opts = append(opts, redis_client.WithPassword(app.Cf.RedisPas))
	}
	if app.Cf.RedisDB != 0 {
		opts = append(opts, redis_client.WithDB(app.Cf.RedisDB))
	}
	client, err := redis_client.GetRedisClient(app.Cf.RedisAddr, opts...)
	if err != nil {
		return err
	}
	app.RedisClient = client
	log.Printf("Finish setup redis client")
	return nil
}

func (app *ApplicationContext) setUpNotifyProducer() error {
	log.Printf("Start setup notify producer")
	kafkaCf := &kafka_config.Config{
		Brokers:        app.Cf.KafkaBrokers,
		Topic:          app.Cf.NotifyTopic,
		Partition:      notifyPartitions,
		RetryAttempts:  3,
		BatchTimeout:   time.Second,
		BatchSize:      1,
		RequiredAcks:   1,
		CommitInterval: time.Second,
		ReadTimeout:    5 * time.Second,
		WriteTimeout:   5 * time.Second,
		Balancer:       balancer.NewMemberBalancer(notifyPartitions),
	}
	p, err := kafka_producer.New(kafkaCf)
	if err != nil {
		return err
	}
	app.NotifyProducer = producer.NewOrderNotifyProducer(p)
	log.Printf("Finish setup notify producer")
	return nil
}

func (app *ApplicationContext) setUpServices() error {
	tokenRepo := redis_repo.NewCheckoutTokenRepo(app.RedisClient, app.Cf.CheckoutTokenTTL)

	app.CartService = service.NewCartService(app.Store)
	app.OrderService = service.NewOrderService(app.Store,
		service.WithCheckoutTokenRepo(tokenRepo),
		service.WithRestockOnCancel(app.Cf.RestockOnCancel),
	)
	app.FulfillmentService = service.NewFulfillmentService(app.Store, app.NotifyProducer)
	app.PurchaseService = service.NewPurchaseService(app.Store)
	return nil
}

func (app *ApplicationContext) Shutdown(ctx context.Context) error {
	if app.NotifyProducer != nil {
		if err := app.NotifyProducer.Close(); err != nil {
			log.Printf("notify producer close error: %v", err)
		}
	}
	if app.RedisClient != nil {
		if err := app.RedisClient.Close(); err != nil {
			log.Printf("redis client close error: %v", err)
		}
	}
	if app.DbConn != nil {
		sqlDB, err := app.DbConn.DB()
		if err == nil {
			return sqlDB.Close()
		}
	}
	return nil
}
