package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/retrostylings/shop/internal/httpserver"
	"github.com/retrostylings/shop/internal/models"
	"github.com/retrostylings/shop/internal/notify"
	"github.com/retrostylings/shop/internal/repo"
	"github.com/retrostylings/shop/internal/search"
	"github.com/retrostylings/shop/internal/service/admin"
	"github.com/retrostylings/shop/internal/service/auth"
	"github.com/retrostylings/shop/internal/service/cart"
	"github.com/retrostylings/shop/internal/service/catalog"
	"github.com/retrostylings/shop/internal/service/order"
	"github.com/retrostylings/shop/pkg/config"
	pkgdb "github.com/retrostylings/shop/pkg/db"
	"github.com/retrostylings/shop/pkg/kafka"
	"github.com/retrostylings/shop/pkg/logging"
	"github.com/retrostylings/shop/pkg/middleware/csrf"
	loggingmw "github.com/retrostylings/shop/pkg/middleware/logging"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTAccessSecret, "JWT_SECRET")
	config.MustOneOf(cfg.MissingProductPolicy, "CHECKOUT_MISSING_PRODUCT", string(order.SkipMissing), string(order.FailMissing))

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	r := repo.New(db)

	var notifiers notify.Multi
	if cfg.SMTPHost != "" {
		notifiers = append(notifiers, notify.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom))
	}
	var producer *kafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaOrderTopic)
		notifiers = append(notifiers, notify.NewEventPublisher(producer))
	}
	var dispatcher *notify.Dispatcher
	orderSvc := &order.OrderService{
		Repo: r,
		Pricing: order.Pricing{
			FreeShippingThreshold: cfg.FreeShippingThreshold,
			ShippingFee:           cfg.ShippingFee,
		},
		MissingProduct: order.MissingProductPolicy(cfg.MissingProductPolicy),
		Timeout:        cfg.CheckoutTimeout,
		AdminEmail:     cfg.AdminEmail,
	}
	if len(notifiers) > 0 {
		dispatcher = notify.NewDispatcher(notifiers, cfg.NotifyWorkers, cfg.NotifyQueue, cfg.NotifyTimeout, logger)
		orderSvc.Notifier = dispatcher
	} else {
		logger.Warn("notifications_disabled", "reason", "neither SMTP_HOST nor KAFKA_BROKERS is set")
	}

	catalogSvc := &catalog.CatalogService{Repo: r}
	if cfg.ESURL != "" {
		es, err := search.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			logger.Warn("search_disabled", "reason", "elasticsearch unreachable", "error", err)
		} else {
			catalogSvc.Search = search.New(es, cfg.ESIndex)
		}
	}

	pricing := orderSvc.Pricing

	e := echo.New()
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	csrfCfg := csrf.DefaultConfig()
	csrfCfg.Secure = cfg.CookieSecure
	csrfCfg.SkipPaths = []string{"/health/live", "/health/ready", "/api/v1/auth/login", "/api/v1/auth/register"}
	e.Use(csrf.Middleware(csrfCfg))

	httpserver.Register(e, &httpserver.Deps{
		Auth: &httpserver.AuthHTTP{
			Svc:          &auth.AuthService{Repo: r, JWTSecret: cfg.JWTAccessSecret, AccessTTL: cfg.AccessTokenTTL},
			SecureCookie: cfg.CookieSecure,
		},
		Catalog:   &httpserver.CatalogHTTP{Svc: catalogSvc},
		Cart:      &httpserver.CartHTTP{Svc: &cart.CartService{Repo: r, Pricing: pricing}},
		Wishlist:  &httpserver.WishlistHTTP{Svc: &cart.WishlistService{Repo: r}},
		Orders:    &httpserver.OrderHTTP{Svc: orderSvc},
		Admin:     &httpserver.AdminHTTP{Svc: &admin.AdminService{Repo: r}},
		JWTSecret: cfg.JWTAccessSecret,
		Ready: func(ctx context.Context) error {
			return pkgdb.Ping(ctx, db)
		},
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("server_listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)

	// Requests are drained, so no new notifications can be queued.
	if dispatcher != nil {
		if err := dispatcher.Close(shutdownCtx); err != nil {
			logger.Warn("notify_shutdown", "error", err)
		}
	}
	if producer != nil {
		_ = producer.Close()
	}
	pkgdb.Close(db)

	logger.Info("server_stopped")
}
