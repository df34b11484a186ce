// Command server runs the storefront: catalog, shopping sessions, ticket
// lifecycle, and order settlement behind an HTTP API. Storage backends
// are picked from configuration; with no external services configured the
// binary is fully self-contained.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"shopfront/internal/cart"
	catalogsvc "shopfront/internal/catalog/service"
	catalogstore "shopfront/internal/catalog/store"
	memgw "shopfront/internal/gateway/memory"
	"shopfront/internal/order"
	"shopfront/internal/platform/audit"
	"shopfront/internal/platform/config"
	"shopfront/internal/platform/httpserver"
	"shopfront/internal/platform/logger"
	"shopfront/internal/platform/metrics"
	platformredis "shopfront/internal/platform/redis"
	"shopfront/internal/session"
	"shopfront/internal/shop"
	"shopfront/internal/ticket"
	httptransport "shopfront/internal/transport/http"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	catStore, cleanup, err := newCatalogStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	table, rdb, err := newSessionTable(cfg)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
		log.Info("session table backed by redis")
	}

	auditStore := audit.NewInMemoryStore()
	publisher := audit.NewChannelPublisher(256)
	worker := audit.NewWorker(auditStore, publisher.Inbox(), log)

	catalog, err := catalogsvc.New(catStore, cfg.Namespaces,
		catalogsvc.WithLogger(log),
		catalogsvc.WithAuditPublisher(publisher),
		catalogsvc.WithMetrics(m),
	)
	if err != nil {
		return err
	}

	carts, err := cart.New(catalog, table, cart.WithLogger(log))
	if err != nil {
		return err
	}

	gateway := memgw.NewGateway()
	logRef, err := gateway.CreatePrivateChannel(ctx, "system", cfg.LogChannel, "Closed ticket transcripts")
	if err != nil {
		return err
	}

	// The public storefront channel greets shoppers with the catalog
	// selection.
	frontRef, err := gateway.CreatePrivateChannel(ctx, "system", "storefront", "Open a shop ticket to start shopping")
	if err != nil {
		return err
	}
	if err := gateway.Post(ctx, frontRef, shop.NamespaceSelect(catalog.Namespaces()).PlainText()); err != nil {
		log.Warn("failed to post storefront greeting", "error", err)
	}
	sink, err := ticket.NewChannelSink(gateway, logRef)
	if err != nil {
		return err
	}

	tickets, err := ticket.New(table, gateway, sink,
		ticket.WithLogger(log),
		ticket.WithAuditPublisher(publisher),
		ticket.WithMetrics(m),
		ticket.WithFileThreshold(cfg.TranscriptFileThreshold),
	)
	if err != nil {
		return err
	}

	orders, err := order.New(catalog, table, tickets,
		order.WithLogger(log),
		order.WithAuditPublisher(publisher),
		order.WithMetrics(m),
		order.WithMinimum(cfg.MinimumOrder),
	)
	if err != nil {
		return err
	}

	if cfg.AdminToken == "" {
		log.Warn("admin token not configured; admin endpoints will reject all requests")
	}

	handler := httptransport.New(catalog, carts, tickets, orders, table, auditStore, log)
	srv := httpserver.New(cfg.Addr, httptransport.NewRouter(handler, cfg.AdminToken))

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		log.Info("starting shopfront", "addr", cfg.Addr, "namespaces", cfg.Namespaces)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// newCatalogStore picks postgres when a database URL is configured and
// the JSON file store otherwise.
func newCatalogStore(ctx context.Context, cfg config.Server) (catalogstore.Store, func(), error) {
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.New(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, nil, err
		}
		pg := catalogstore.NewPostgres(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return pg, pool.Close, nil
	}

	fs, err := catalogstore.NewFileStore(cfg.DataDir)
	if err != nil {
		return nil, nil, err
	}
	return fs, func() {}, nil
}

// newSessionTable picks redis when configured and the in-process table
// otherwise. The returned client is nil for the in-process case.
func newSessionTable(cfg config.Server) (session.Table, *platformredis.Client, error) {
	rdb, err := platformredis.New(cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	if rdb == nil {
		return session.NewInMemoryTable(), nil, nil
	}
	return session.NewRedisTable(rdb.Client), rdb, nil
}
