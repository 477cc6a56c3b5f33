// Package store implements Postgres persistence for Zebra Board.
// All SQL is explicit; repositories translate driver errors into the
// domain sentinels the flows rely on.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/zebraboard/zebra-board-api/pkg/domain"
)

// Config holds database connection configuration.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int
}

// NewDB opens a pooled connection and verifies connectivity with a ping.
// The caller owns the handle and must Close it at shutdown.
func NewDB(cfg Config) (*sql.DB, error) {
	if cfg.MaxConns == 0 {
		cfg.MaxConns = 10
	}
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxConns)
	db.SetMaxIdleConns(cfg.MaxConns)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return db, nil
}

// mapError translates lib/pq errors into domain sentinels. SQLSTATE
// 23505 is the unique-violation signal the OAuth linker treats as
// "someone else created it first".
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrUserNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return fmt.Errorf("%w: %s", domain.ErrDuplicate, pqErr.Constraint)
	}
	return err
}
