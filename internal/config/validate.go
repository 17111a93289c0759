package config

import (
	"fmt"
	"slices"
	"strings"
)

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"json", "text"}
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if err := c.Database.validate(); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if strings.TrimSpace(c.AMQP.Exchange) == "" {
		return fmt.Errorf("amqp.exchange must not be empty")
	}
	if c.AMQP.Prefetch < 1 {
		return fmt.Errorf("amqp.prefetch must be >= 1 (got %d)", c.AMQP.Prefetch)
	}
	if c.AMQP.RequestTimeout <= 0 {
		return fmt.Errorf("amqp.request_timeout must be > 0 (got %v)", c.AMQP.RequestTimeout)
	}

	if err := c.Worker.validate(); err != nil {
		return fmt.Errorf("worker: %w", err)
	}

	if c.HTTP.Port < 1 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be in 1..65535 (got %d)", c.HTTP.Port)
	}

	if !slices.Contains(logLevels, strings.ToLower(c.Log.Level)) {
		return fmt.Errorf("log.level must be one of %v (got %q)", logLevels, c.Log.Level)
	}
	if !slices.Contains(logFormats, strings.ToLower(c.Log.Format)) {
		return fmt.Errorf("log.format must be one of %v (got %q)", logFormats, c.Log.Format)
	}

	return nil
}

func (d *DatabaseConfig) validate() error {
	if d.MinConns > d.MaxConns {
		return fmt.Errorf("min_conns (%d) must not exceed max_conns (%d)", d.MinConns, d.MaxConns)
	}
	return nil
}

func (w *WorkerConfig) validate() error {
	w.QueueName = strings.TrimSpace(w.QueueName)
	w.TransactionQueue = strings.TrimSpace(w.TransactionQueue)

	if w.QueueName == "" {
		return fmt.Errorf("queue_name must not be empty")
	}
	if w.TransactionQueue == "" {
		return fmt.Errorf("transaction_queue must not be empty")
	}
	// Consuming our own requests would make the worker answer itself.
	if w.QueueName == w.TransactionQueue {
		return fmt.Errorf("queue_name and transaction_queue must differ (both %q)", w.QueueName)
	}
	if strings.TrimSpace(w.PaymentCategory) == "" {
		return fmt.Errorf("payment_category must not be empty")
	}
	if w.Concurrency < 1 {
		return fmt.Errorf("concurrency must be >= 1 (got %d)", w.Concurrency)
	}
	return nil
}
