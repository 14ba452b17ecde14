package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/Skotchmaster/marketplace/internal/config"
	"github.com/Skotchmaster/marketplace/internal/db"
	"github.com/Skotchmaster/marketplace/internal/es"
	"github.com/Skotchmaster/marketplace/internal/httpserver"
	"github.com/Skotchmaster/marketplace/internal/logging"
	"github.com/Skotchmaster/marketplace/internal/metrics"
	mw "github.com/Skotchmaster/marketplace/internal/middleware/auth"
	loggingmw "github.com/Skotchmaster/marketplace/internal/middleware/logging"
	"github.com/Skotchmaster/marketplace/internal/mykafka"
	"github.com/Skotchmaster/marketplace/internal/notify"
	"github.com/Skotchmaster/marketplace/internal/otp"
	"github.com/Skotchmaster/marketplace/internal/ratelimit"
	"github.com/Skotchmaster/marketplace/internal/repo"
	"github.com/Skotchmaster/marketplace/internal/service"
	"github.com/Skotchmaster/marketplace/internal/storage"
	"github.com/Skotchmaster/marketplace/internal/tokens"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.Service)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.Open(ctx, cfg.DB)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	var events mykafka.Publisher = mykafka.Nop{}
	if len(cfg.Kafka.Brokers) > 0 {
		events = mykafka.NewProducer(cfg.Kafka.Brokers)
		logger.Info("kafka producer enabled", "brokers", cfg.Kafka.Brokers)
	}

	r := repo.New(gdb)
	issuer := tokens.NewIssuer(cfg.JWT)

	dispatcher := notify.NewDispatcher(m)
	if cfg.SMTP.Enabled() {
		dispatcher.Register(notify.ChannelEmail, notify.NewSMTPMailer(cfg.SMTP))
	} else {
		logger.Warn("SMTP_HOST is not set, otp emails cannot be delivered")
	}
	if cfg.OTP.SMSEnabled {
		dispatcher.Register(notify.ChannelSMS, notify.NewEskizSMS(cfg.SMS))
	}

	authSvc := &service.AuthService{
		Repo:     r,
		Tokens:   issuer,
		OTP:      otp.New(cfg.OTP.Secret, cfg.OTP.Step),
		Notifier: dispatcher,
		Events:   events,
	}
	if cfg.Redis.URL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		rdb, err := ratelimit.NewRedisClient(ctx, cfg.Redis.URL)
		cancel()
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer rdb.Close()
		authSvc.Limiter = ratelimit.NewFixedWindow(rdb, cfg.OTP.RateLimit, cfg.OTP.RateWindow)
	}

	productSvc := &service.ProductService{Repo: r, Events: events}
	if cfg.ES.URL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		client, err := es.NewClient(ctx, cfg.ES, logger)
		cancel()
		if err != nil {
			log.Fatalf("elasticsearch: %v", err)
		}
		productSvc.Index = &es.ProductIndex{Client: client, Index: cfg.ES.Index}
	}

	store, err := storage.NewLocal(cfg.Upload.Dir, cfg.Upload.BaseURL, cfg.Upload.MaxSize)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(m.Middleware())
	e.Use(echomw.CORS())
	e.Use(echomw.BodyLimit("10M"))

	httpserver.Register(e, &httpserver.Deps{
		DB:      gdb,
		Guard:   mw.NewGuard(issuer),
		Metrics: m,

		AuthHandler:     &httpserver.AuthHTTP{Svc: authSvc},
		UserHandler:     &httpserver.UserHTTP{Svc: &service.UserService{Repo: r, Products: productSvc}},
		ProductHandler:  &httpserver.ProductHTTP{Svc: productSvc},
		CategoryHandler: &httpserver.CategoryHTTP{Svc: &service.CategoryService{Repo: r, Products: productSvc}},
		CommentHandler:  &httpserver.CommentHTTP{Svc: &service.CommentService{Repo: r}},
		OrderHandler:    &httpserver.OrderHTTP{Svc: &service.OrderService{Repo: r, Events: events}},
		RegionHandler:   &httpserver.RegionHTTP{Svc: &service.RegionService{Repo: r, Products: productSvc}},
		UploadHandler:   &httpserver.UploadHTTP{Store: store},

		UploadDir: cfg.Upload.Dir,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("marketplace listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
	if err := events.Close(); err != nil {
		logger.Error("kafka close", "error", err)
	}
	db.Close(gdb)

	logger.Info("marketplace stopped")
}
