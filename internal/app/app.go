// Package app wires configuration, storage, the broker and the message
// pipeline into a running debts worker.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/debts-worker/internal/adapter/amqp"
	"github.com/heartmarshall/debts-worker/internal/adapter/postgres"
	debtrepo "github.com/heartmarshall/debts-worker/internal/adapter/postgres/debt"
	"github.com/heartmarshall/debts-worker/internal/adapter/transaction"
	"github.com/heartmarshall/debts-worker/internal/config"
	"github.com/heartmarshall/debts-worker/internal/service/debt"
	"github.com/heartmarshall/debts-worker/internal/transport/message"
	"github.com/heartmarshall/debts-worker/internal/transport/middleware"
	"github.com/heartmarshall/debts-worker/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, connects to
// PostgreSQL and RabbitMQ, and consumes the debt queue until ctx is cancelled
// or a component fails.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)
	version := BuildVersion()

	logger.Info("starting debts worker",
		slog.String("version", version),
		slog.String("queue", cfg.Worker.QueueName),
		slog.String("transaction_queue", cfg.Worker.TransactionQueue),
		slog.String("log_level", cfg.Log.Level),
	)

	// Database
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, pool, logger); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	// Broker
	conn, err := amqp.Dial(cfg.AMQP, logger)
	if err != nil {
		return err
	}
	defer conn.Close()

	consumeCh, err := conn.Channel()
	if err != nil {
		return err
	}
	if err := conn.DeclareQueue(consumeCh, cfg.Worker.QueueName); err != nil {
		return err
	}

	rpcCh, err := conn.Channel()
	if err != nil {
		return err
	}
	if err := conn.DeclareQueue(rpcCh, cfg.Worker.TransactionQueue); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	requestor, err := amqp.NewRequestor(gctx, rpcCh, cfg.AMQP.Exchange, cfg.AMQP.RequestTimeout, logger)
	if err != nil {
		return err
	}

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	promauto.With(reg).NewGaugeFunc(prometheus.GaugeOpts{
		Name: "debts_worker_pending_requests",
		Help: "Requests to peer services awaiting a reply.",
	}, func() float64 { return float64(requestor.Pending()) })

	// Services
	txm := postgres.NewTxManager(pool)
	debts := debtrepo.New(pool)
	transactions := transaction.New(requestor, cfg.Worker.TransactionQueue, logger)
	debtService := debt.NewService(logger, debts, txm, transactions, debt.Config{
		PaymentCategoryID: cfg.Worker.PaymentCategory,
	})

	// Message pipeline
	dispatcher := message.NewDispatcher(logger)
	message.RegisterDebtRoutes(dispatcher, debtService)

	handler := middleware.Chain(
		middleware.RequestID(),
		middleware.Recovery(logger),
		middleware.Logger(logger),
		middleware.Metrics(reg),
	)(dispatcher)

	consumer := amqp.NewConsumer(consumeCh, handler, amqp.ConsumerConfig{
		Queue:       cfg.Worker.QueueName,
		Prefetch:    cfg.AMQP.Prefetch,
		Concurrency: cfg.Worker.Concurrency,
	}, logger)

	// HTTP probes and metrics
	health := rest.NewHealthHandler(version,
		rest.Component{Name: "database", Pinger: pool},
		rest.Component{Name: "amqp", Pinger: conn},
	)
	srv := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      rest.NewRouter(health, reg),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	g.Go(func() error { return requestor.Run(gctx) })
	g.Go(func() error { return consumer.Run(gctx) })
	g.Go(func() error {
		select {
		case <-gctx.Done():
			return nil
		case amqpErr, ok := <-conn.NotifyClose():
			if !ok || amqpErr == nil {
				return amqp.ErrConnectionClosed
			}
			return fmt.Errorf("%w: %s", amqp.ErrConnectionClosed, amqpErr.Reason)
		}
	})
	g.Go(func() error {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	logger.Info("debts worker stopped")
	return err
}
