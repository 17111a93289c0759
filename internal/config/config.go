package config

import (
	"fmt"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	AMQP     AMQPConfig     `yaml:"amqp"`
	Worker   WorkerConfig   `yaml:"worker"`
	HTTP     HTTPConfig     `yaml:"http"`
	Log      LogConfig      `yaml:"log"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	URL             string        `yaml:"url"                env:"DATABASE_URL"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	AutoMigrate     bool          `yaml:"auto_migrate"       env:"DATABASE_AUTO_MIGRATE"       env-default:"true"`
}

// AMQPConfig holds RabbitMQ connection and RPC settings.
type AMQPConfig struct {
	URL            string        `yaml:"url"             env:"AMQP_URL"             env-required:"true"`
	Exchange       string        `yaml:"exchange"        env:"AMQP_EXCHANGE"        env-default:"exchange"`
	Prefetch       int           `yaml:"prefetch"        env:"AMQP_PREFETCH"        env-default:"16"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"AMQP_REQUEST_TIMEOUT" env-default:"10s"`
}

// WorkerConfig holds queue names and business settings of the debt worker.
type WorkerConfig struct {
	QueueName        string `yaml:"queue_name"        env:"QUEUE_NAME"           env-default:"debtQueue"`
	TransactionQueue string `yaml:"transaction_queue" env:"TRANSACTION_QUEUE"    env-default:"transactionQueue"`
	PaymentCategory  string `yaml:"payment_category"  env:"OTHER_CATEGORYID_OUT" env-required:"true"`
	Concurrency      int    `yaml:"concurrency"       env:"WORKER_CONCURRENCY"   env-default:"4"`
}

// HTTPConfig holds the health/metrics HTTP server settings.
type HTTPConfig struct {
	Host            string        `yaml:"host"             env:"HTTP_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"HTTP_PORT"             env-default:"8081"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"HTTP_READ_TIMEOUT"     env-default:"5s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"HTTP_WRITE_TIMEOUT"    env-default:"10s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// Addr returns the listen address in host:port form.
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}
