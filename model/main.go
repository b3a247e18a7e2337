// Package model implements the persistent store: the credential table and
// the direct credit ledger. Both live in the same Postgres (Supabase)
// database; when no DSN is configured the store is simply absent and callers
// fall back to their HTTP paths.
package model

import (
	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/kortix-ai/gateway/common/logger"
)

// DB is the shared gorm handle. Nil when no store is configured.
var DB *gorm.DB

// StoreEnabled reports whether the direct credential store / ledger is available.
func StoreEnabled() bool {
	return DB != nil
}

// InitDB opens the Postgres connection when a DSN is configured. An empty DSN
// is not an error: the gateway runs with the HTTP ledger and legacy auth.
func InitDB(dsn string) error {
	if dsn == "" {
		logger.Logger.Info("no database configured; credential store and direct ledger disabled")
		return nil
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return errors.Wrap(err, "open postgres")
	}

	DB = db
	logger.Logger.Info("database connected", zap.String("dialect", "postgres"))
	return nil
}
