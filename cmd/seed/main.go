// Command seed fills an ecommerce database with demo customers, products and
// orders. With -reset it empties every table first.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/MikeMC777/ordenes-ecom/internal/config"
	"github.com/MikeMC777/ordenes-ecom/internal/customer"
	"github.com/MikeMC777/ordenes-ecom/internal/db"
	"github.com/MikeMC777/ordenes-ecom/internal/logging"
	"github.com/MikeMC777/ordenes-ecom/internal/order"
	"github.com/MikeMC777/ordenes-ecom/internal/product"
	"github.com/MikeMC777/ordenes-ecom/internal/seed"
)

func main() {
	cfg := config.Load()

	reset := flag.Bool("reset", false, "truncate every table before seeding")
	migrate := flag.Bool("migrate", cfg.DB.MigrationsRun, "apply the schema before seeding")
	only := flag.Bool("reset-only", false, "truncate every table and exit")
	flag.Parse()

	log := logging.New(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log, *migrate, *reset || *only, !*only); err != nil {
		log.Error("seed failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger, migrate, reset, load bool) error {
	pool, err := db.Connect(ctx, cfg.DB, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	if migrate {
		if err := db.Migrate(ctx, pool); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		log.Info("schema applied")
	}
	if reset {
		if err := db.Reset(ctx, pool); err != nil {
			return err
		}
		log.Info("all tables emptied")
	}
	if !load {
		return nil
	}

	customers := customer.NewService(customer.NewPGRepo(pool), log)
	products := product.NewService(product.NewPGRepo(pool), log)
	orders := order.NewService(order.NewPGRepo(pool), order.Ext{
		Customers: customers,
		Products:  products,
		Billing:   seed.SkipBilling{Log: log},
	}, log)

	sum, err := seed.New(customers, products, orders, log).Run(ctx)
	if err != nil {
		return err
	}
	log.Info("seed completed", "customers", sum.Customers, "products", sum.Products, "orders", sum.Orders)
	return nil
}
