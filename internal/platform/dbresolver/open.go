package dbresolver

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	// Drivers for the two supported schemes.
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	"github.com/tasknest/tasknest-api/internal/platform/logger"
	"github.com/tasknest/tasknest-api/internal/redact"
)

// Pool settings for networked stores. SQLite gets a single connection
// since the file store serializes writes anyway.
const (
	maxOpenConns    = 25
	maxIdleConns    = 5
	connMaxLifetime = 30 * time.Minute
	pingTimeout     = 5 * time.Second
)

// Open establishes a connection at the resolved address and verifies it
// with a ping. If that fails for any reason it retries once at the
// emergency local address instead of failing process startup; only when
// the emergency store is also unusable does it return an error. The
// returned Address reports where the connection actually landed.
func Open(ctx context.Context, addr Address) (*sql.DB, Address, error) {
	log := logger.FromContext(ctx)

	db, err := open(ctx, addr)
	if err == nil {
		return db, addr, nil
	}

	log.Error("failed to open store, retrying at emergency fallback address",
		"error", redact.Error(err),
		"driver", addr.Driver,
		"fallback", EmergencyAddress)

	emergency := mustParse(EmergencyAddress)
	db, ferr := open(ctx, emergency)
	if ferr != nil {
		return nil, Address{}, fmt.Errorf(
			"failed to open store (%v) and emergency fallback: %w", err, ferr)
	}

	return db, emergency, nil
}

func open(ctx context.Context, addr Address) (*sql.DB, error) {
	db, err := sql.Open(addr.Driver, addr.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", addr.Driver, err)
	}

	if addr.IsLocal() {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(maxOpenConns)
		db.SetMaxIdleConns(maxIdleConns)
		db.SetConnMaxLifetime(connMaxLifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping %s store: %w", addr.Driver, err)
	}

	return db, nil
}
