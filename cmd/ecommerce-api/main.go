package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/MikeMC777/ordenes-ecom/internal/billing"
	"github.com/MikeMC777/ordenes-ecom/internal/config"
	"github.com/MikeMC777/ordenes-ecom/internal/customer"
	"github.com/MikeMC777/ordenes-ecom/internal/db"
	"github.com/MikeMC777/ordenes-ecom/internal/health"
	"github.com/MikeMC777/ordenes-ecom/internal/httpx"
	"github.com/MikeMC777/ordenes-ecom/internal/idempotency"
	"github.com/MikeMC777/ordenes-ecom/internal/logging"
	"github.com/MikeMC777/ordenes-ecom/internal/order"
	"github.com/MikeMC777/ordenes-ecom/internal/product"
)

const (
	shutdownTimeout = 20 * time.Second
	healthInterval  = 15 * time.Second
)

// @title       E-commerce API
// @version     1.0
// @description Customers, products and orders, with electronic invoicing through Billme.
// @BasePath    /
func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("ecommerce-api stopped", "err", err)
		os.Exit(1)
	}
	log.Info("ecommerce-api shutdown")
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	otel.SetTextMapPropagator(propagation.TraceContext{})

	pool, err := db.Connect(ctx, cfg.DB, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	if cfg.DB.MigrationsRun {
		if err := db.Migrate(ctx, pool); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		log.Info("schema applied")
	}

	var idem httpx.KeyStore
	if cfg.RedisURL != "" {
		rdb, err := idempotency.Connect(ctx, cfg.RedisURL)
		if err != nil {
			log.Warn("redis unavailable, Idempotency-Key disabled", "addr", cfg.RedisURL, "err", err)
		} else {
			defer rdb.Close()
			idem = idempotency.NewStore(rdb, cfg.IdempotencyTTL)
		}
	}

	customers := customer.NewService(customer.NewPGRepo(pool), log)
	products := product.NewService(product.NewPGRepo(pool), log)
	records := billing.NewPGRepo(pool)
	dispatcher := billing.NewDispatcher(
		billing.NewClient(cfg.Billing.APIURL, cfg.Billing.APIKey),
		records, cfg.Company, cfg.Billing, log,
	)
	orders := order.NewService(order.NewPGRepo(pool), order.Ext{
		Customers: customers,
		Products:  products,
		Billing:   dispatcher,
	}, log)
	hs := health.NewService(pool, log)

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: newRouter(deps{
			customers: customers,
			products:  products,
			orders:    orders,
			billing:   records,
			health:    hs,
			idem:      idem,
			log:       log,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}
	gs := grpc.NewServer()
	hs.Register(gs)

	// The dispatcher outlives the HTTP server so late Dispatch calls still land.
	dctx, stopDispatch := context.WithCancel(context.WithoutCancel(ctx))
	defer stopDispatch()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		lis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			return err
		}
		log.Info("grpc health listening", "addr", cfg.GRPCAddr)
		return gs.Serve(lis)
	})
	g.Go(func() error { return hs.Watch(gctx, healthInterval) })
	g.Go(func() error { return dispatcher.Run(dctx) })
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := srv.Shutdown(sctx)
		gs.GracefulStop()
		stopDispatch()
		return err
	})
	return g.Wait()
}
