package main

import (
	"context"
	"database/sql"
	"time"

	dashApp "github.com/davicafu/tiendalab/internal/dashboard/application"
	dashDomain "github.com/davicafu/tiendalab/internal/dashboard/domain"
	dashEvents "github.com/davicafu/tiendalab/internal/dashboard/infra/inbound/events"
	dashHttp "github.com/davicafu/tiendalab/internal/dashboard/infra/inbound/http"
	dashClickhouse "github.com/davicafu/tiendalab/internal/dashboard/infra/outbound/analytics/clickhouse"
	dashCache "github.com/davicafu/tiendalab/internal/dashboard/infra/outbound/cache"
	dashMongo "github.com/davicafu/tiendalab/internal/dashboard/infra/outbound/db/mongodb"
	dashSqlite "github.com/davicafu/tiendalab/internal/dashboard/infra/outbound/db/sqlite"
	notifApp "github.com/davicafu/tiendalab/internal/notification/application"
	notifDomain "github.com/davicafu/tiendalab/internal/notification/domain"
	notifEvents "github.com/davicafu/tiendalab/internal/notification/infra/inbound/events"
	notifMail "github.com/davicafu/tiendalab/internal/notification/infra/outbound/mail"
	orderApp "github.com/davicafu/tiendalab/internal/order/application"
	orderHttp "github.com/davicafu/tiendalab/internal/order/infra/inbound/http"
	orderClients "github.com/davicafu/tiendalab/internal/order/infra/outbound/clients"
	orderRepo "github.com/davicafu/tiendalab/internal/order/infra/outbound/db/postgre"
	paymentApp "github.com/davicafu/tiendalab/internal/payment/application"
	paymentHttp "github.com/davicafu/tiendalab/internal/payment/infra/inbound/http"
	paymentRepo "github.com/davicafu/tiendalab/internal/payment/infra/outbound/db/postgre"
	productApp "github.com/davicafu/tiendalab/internal/product/application"
	productEvents "github.com/davicafu/tiendalab/internal/product/infra/inbound/events"
	productHttp "github.com/davicafu/tiendalab/internal/product/infra/inbound/http"
	productRepo "github.com/davicafu/tiendalab/internal/product/infra/outbound/db/mongodb"

	config "github.com/davicafu/tiendalab/internal/config"
	sharedBroker "github.com/davicafu/tiendalab/internal/shared/infra/broker"
	sharedMongo "github.com/davicafu/tiendalab/internal/shared/infra/db/mongodb"
	sharedPostgres "github.com/davicafu/tiendalab/internal/shared/infra/db/postgres"
	infraEvents "github.com/davicafu/tiendalab/internal/shared/infra/events"
	infraRelayer "github.com/davicafu/tiendalab/internal/shared/infra/relayer"
	sharedBus "github.com/davicafu/tiendalab/internal/shared/platform/bus"
	sharedCache "github.com/davicafu/tiendalab/internal/shared/platform/cache"
	"github.com/davicafu/tiendalab/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/segmentio/kafka-go"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// ---------------- Main ----------------
func main() {
	logger.Init()          // inicializa zap
	log := logger.Logger() // obtiene logger estructurado
	defer log.Sync()       // flush buffers al salir

	ctx := context.Background()
	cfg := config.LoadConfig()

	// ---------------- Broker ----------------
	var broker sharedBus.Broker
	if cfg.LocalDeployment {
		log.Info("⚡️Usando broker en memoria (sin RabbitMQ)")
		broker = sharedBroker.NewInMemoryBroker(cfg.MaxAttempts, log)
	} else {
		log.Info("🚀 Usando RabbitMQ como broker", zap.String("url", cfg.BrokerURL))
		rabbit := sharedBroker.NewRabbitClient(cfg.BrokerURL, cfg.MaxAttempts, log)
		rabbit.MustConnect()
		broker = rabbit
	}

	if cfg.KafkaMirror {
		// Copia best-effort de cada evento publicado al firehose de Kafka.
		firehoseWriter := kafka.NewWriter(kafka.WriterConfig{
			Brokers: cfg.KafkaBrokers,
			Topic:   cfg.KafkaFirehose,
		})
		defer firehoseWriter.Close()

		broker = infraEvents.NewKafkaMirror(broker, firehoseWriter, log)
		log.Info("✅ Mirror de eventos a Kafka habilitado", zap.String("topic", cfg.KafkaFirehose))
	}

	// ---------------- Postgres (pedidos y pagos) ----------------
	pgDB, err := sql.Open("pgx", cfg.PostgresDSN)
	if err != nil {
		log.Fatal("failed to open Postgres", zap.Error(err))
	}
	defer pgDB.Close()

	if err := pgDB.PingContext(ctx); err != nil {
		log.Fatal("failed to ping Postgres", zap.Error(err))
	}
	if err := orderRepo.InitPostgres(pgDB); err != nil {
		log.Fatal("failed to initialize orders schema", zap.Error(err))
	}
	if err := paymentRepo.InitPostgres(pgDB); err != nil {
		log.Fatal("failed to initialize payments schema", zap.Error(err))
	}

	orderRepoPostgres := orderRepo.NewOrderRepoPostgres(pgDB)
	paymentRepoPostgres := paymentRepo.NewPaymentRepoPostgres(pgDB)

	// ---------------- MongoDB (catálogo) ----------------
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer mongoClient.Disconnect(ctx)

	productRepoMongo, err := productRepo.NewProductRepoMongoDB(ctx, mongoClient, cfg.MongoDBName)
	if err != nil {
		log.Fatal("failed to initialize product repository", zap.Error(err))
	}

	// ---------------- Proyecciones del dashboard ----------------
	var projectionRepo dashDomain.ProjectionRepository
	if cfg.LocalDeployment {
		sqliteDB, err := sql.Open("sqlite", cfg.SQLitePath)
		if err != nil {
			log.Fatal("failed to open SQLite", zap.Error(err))
		}
		defer sqliteDB.Close()

		if err := dashSqlite.InitSQLite(sqliteDB); err != nil {
			log.Fatal("failed to initialize SQLite projections", zap.Error(err))
		}
		projectionRepo = dashSqlite.NewProjectionRepoSQLite(sqliteDB)
	} else {
		repo, err := dashMongo.NewProjectionRepoMongoDB(ctx, mongoClient, cfg.MongoDBName)
		if err != nil {
			log.Fatal("failed to initialize projection repository", zap.Error(err))
		}
		projectionRepo = repo
	}

	// ---------------- ClickHouse (analítica, opcional) ----------------
	var eventLog dashDomain.EventLogger
	if chRepo, err := dashClickhouse.NewEventLogRepo(cfg.ClickHouseAddr, cfg.ClickHouseDB); err != nil {
		log.Warn("⚠️ ClickHouse no disponible, sin registro analítico de eventos", zap.Error(err))
	} else {
		eventLog = chRepo
		log.Info("✅ ClickHouse conectado, registro analítico habilitado")
	}

	// ---------------- Cache ----------------
	var cacheInstance sharedCache.Cache
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("⚠️ Redis no disponible, cache en memoria:", zap.Error(err))
		cacheInstance = dashCache.NewInMemoryCache(cfg.CacheTTL, 3*cfg.CacheTTL)
	} else {
		cacheInstance = dashCache.NewRedisCache(rdb)
		log.Info("✅ Redis conectado, cache habilitado")
	}

	// ---------------- Mailer ----------------
	var mailer notifDomain.Mailer
	if cfg.LocalDeployment {
		mailer = notifMail.NewLogMailer(log)
	} else {
		mailer = notifMail.NewSMTPMailer(cfg.SMTPAddr, cfg.SMTPFrom, cfg.SMTPUser, cfg.SMTPPassword)
	}

	// --------------- Servicios --------------
	cartClient := orderClients.NewCartHTTPClient(cfg.CartServiceURL)
	catalogClient := orderClients.NewCatalogHTTPClient(cfg.ProductBaseURL)

	orderService := orderApp.NewOrderService(orderRepoPostgres, cartClient, catalogClient, cfg.DefaultCurrency, log)
	productService := productApp.NewProductService(productRepoMongo, log)
	paymentService := paymentApp.NewPaymentService(paymentRepoPostgres, log)
	projectionService := dashApp.NewProjectionService(projectionRepo, cacheInstance, log)
	queryService := dashApp.NewQueryService(projectionRepo, cacheInstance, eventLog, int(cfg.CacheTTL/time.Second), log)
	notificationService := notifApp.NewNotificationService(mailer, log)

	// ---------------- Consumidores ----------------
	stockConsumer := productEvents.NewOrderConsumer(productService, log)
	if err := stockConsumer.Start(ctx, broker); err != nil {
		log.Fatal("failed to start stock consumer", zap.Error(err))
	}

	dashboardConsumer := dashEvents.NewDashboardConsumer(projectionService, eventLog, log)
	if err := dashboardConsumer.Start(ctx, broker); err != nil {
		log.Fatal("failed to start dashboard consumer", zap.Error(err))
	}

	notificationConsumer := notifEvents.NewNotificationConsumer(notificationService, log)
	if err := notificationConsumer.Start(ctx, broker); err != nil {
		log.Fatal("failed to start notification consumer", zap.Error(err))
	}

	// ------------ Outbox Workers ------------
	// Un relayer por almacén de outbox: Postgres (pedidos y pagos) y
	// MongoDB (catálogo).
	outboxRepoPostgres := sharedPostgres.NewOutboxRepoPostgres(pgDB)
	infraRelayer.NewOutboxWorker(outboxRepoPostgres, broker, cfg.OutboxPeriod, cfg.OutboxLimit, log).Start(ctx)

	outboxRepoMongo := sharedMongo.NewOutboxRepoMongoDB(mongoClient, cfg.MongoDBName)
	infraRelayer.NewOutboxWorker(outboxRepoMongo, broker, cfg.OutboxPeriod, cfg.OutboxLimit, log).Start(ctx)

	// ---------------- HTTP ----------------
	router := gin.Default()
	orderHttp.RegisterOrderRoutes(router, orderHttp.NewOrderHandler(orderService))
	productHttp.RegisterProductRoutes(router, productHttp.NewProductHandler(productService))
	paymentHttp.RegisterPaymentRoutes(router, paymentHttp.NewPaymentHandler(paymentService))
	dashHttp.RegisterDashboardRoutes(router, dashHttp.NewDashboardHandler(queryService))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	log.Info("🚀 Server running",
		zap.String("url", "http://localhost:"+cfg.HTTPPort),
	)
	if err := router.Run(":" + cfg.HTTPPort); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}
