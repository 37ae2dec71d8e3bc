package cmd

import (
	"fmt"
	"time"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	// RabbitMQURL is an amqp:// URL. Empty means events are only logged.
	RabbitMQURL string
	// MenuFile is a YAML catalog. Empty means the built-in menu.
	MenuFile     string
	MenuCacheTTL time.Duration
	// OverdueAfter is the age at which an active order is reported overdue.
	OverdueAfter time.Duration
	LogLevel     string
	OtelStdout   bool
}

// UsesPostgres reports whether orders are persisted in PostgreSQL rather
// than kept in memory.
func (c Config) UsesPostgres() bool {
	return c.DBHost != ""
}

func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}
