package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"storefront/internal/addresses"
	"storefront/internal/carts"
	"storefront/internal/catalog"
	"storefront/internal/checkout"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/events"
	"storefront/internal/orders"
	"storefront/internal/payments"
	"storefront/internal/routes"
	"storefront/internal/telemetry"
	"storefront/internal/users"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	cfg := config.AppEnv
	if missing := cfg.Validate(); len(missing) > 0 {
		return fmt.Errorf("missing required settings: %s", strings.Join(missing, ", "))
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.InitTracerProvider(ctx, cfg.OTLPEndpoint, cfg.ServiceVersion)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	metricsHandler, shutdownMetrics, err := telemetry.InitMeterProvider(cfg.ServiceVersion)
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(flushCtx)
		_ = shutdownMetrics(flushCtx)
	}()

	client, err := database.Connect(cfg.MongoURI)
	if err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	db := client.Database(cfg.DBName)
	log.Println("[DB] [INFO] using database:", db.Name())

	if err := database.EnsureIndexes(db); err != nil {
		log.Printf("[DB] [WARN] index setup: %v", err)
	}

	hub := events.NewHub(cfg.CORSOrigins)
	defer hub.Close()

	publishers := events.Multi{hub}
	if len(cfg.KafkaBrokers) > 0 {
		producer := events.NewKafkaProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer func() { _ = producer.Close() }()
		publishers = append(publishers, producer)
		log.Printf("[EVENTS] [INFO] publishing to kafka topic %s", cfg.KafkaTopic)
	}

	metrics := telemetry.NewMetrics()

	catalogStore := catalog.NewStore(db)
	paymentService := payments.NewService(db, cfg.Currency, publishers, metrics)
	orderService := orders.NewService(db, catalogStore, paymentService, cfg.ShippingFee, publishers, metrics)
	addressStore := addresses.NewStore(db)
	cartStore := carts.NewStore(db, catalogStore)
	userService := users.NewService(db, cfg.JWTSecret, cfg.AccessTokenTTL)
	checkoutService := checkout.NewService(
		checkout.MongoTransactor(client),
		orderService,
		paymentService,
		addressStore,
		cartStore,
		publishers,
		metrics,
	)

	r := gin.Default()
	routes.Setup(r, routes.Deps{
		JWTSecret:         cfg.JWTSecret,
		CORSOrigins:       cfg.CORSOrigins,
		LowStockThreshold: cfg.LowStockThreshold,
		Users:             userService,
		Catalog:           catalogStore,
		Orders:            orderService,
		Statistics:        orderService,
		Payments:          paymentService,
		Checkout:          checkoutService,
		Addresses:         addressStore,
		Carts:             cartStore,
		Feed:              hub,
		Ping: func(ctx context.Context) error {
			return database.Ping(ctx, db)
		},
		Metrics: metricsHandler,
	})

	server := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: otelhttp.NewHandler(r, appName,
			otelhttp.WithSpanNameFormatter(func(_ string, req *http.Request) string {
				return req.Method + " " + req.URL.Path
			}),
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("[HTTP] [INFO] listening on :%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Println("[HTTP] [INFO] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
