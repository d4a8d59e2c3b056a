package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/flightcatalog/api"
	"github.com/Domenick1991/flightcatalog/config"
	"github.com/Domenick1991/flightcatalog/internal/bootstrap"
	"github.com/Domenick1991/flightcatalog/internal/cache"
	"github.com/Domenick1991/flightcatalog/internal/events"
	"github.com/Domenick1991/flightcatalog/internal/kafka"
	"github.com/Domenick1991/flightcatalog/internal/repository"
	"github.com/Domenick1991/flightcatalog/internal/service/flights"
	"github.com/Domenick1991/flightcatalog/internal/service/users"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		logger.Fatal("connect postgres", zap.Error(err))
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Flights.CacheTTLSeconds)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	flightRepo := repository.NewFlightRepository(pool)
	seqRepo := repository.NewSequenceRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	busPublisher := events.NewBusPublisher(producer, cfg.Kafka.FlightsTopic, logger)
	builder := events.NewBuilder(cfg.Events.Producer, cfg.Flights.DefaultCurrency)
	webhook := events.NewHTTPPublisher(cfg.Events, builder)

	flightService := flights.NewFlightService(flightRepo, redisCache, busPublisher, webhook, flights.Policy{
		UniqueCode:      cfg.Flights.UniqueCode,
		AllowPastSearch: cfg.Flights.AllowPastSearch,
		DefaultCurrency: cfg.Flights.DefaultCurrency,
	}, logger)
	codeService := flights.NewFlightCodeService(seqRepo)
	userService := users.NewUserService(userRepo, logger)

	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authed := router.Group("/", api.APIKeyAuth(cfg.Auth.APIKeys))
	api.NewFlightHandler(flightService, codeService, webhook, cfg.Flights.PageSize).Register(authed.Group("/flights"))
	api.NewUserHandler(userService).Register(authed.Group("/users"))
	api.NewAuxHandler(flightRepo, seqRepo).Register(authed.Group("/aux"))

	logger.Info("starting flight catalog", zap.String("address", cfg.HTTP.Address))
	if err := bootstrap.Run(ctx, cfg, router); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
