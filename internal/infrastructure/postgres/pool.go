package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alnnovate/academy/config"
)

// LedgerOptions tunes the pool behind the payments ledger and audit log.
type LedgerOptions struct {
	DSN             string
	AppName         string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	PingTimeout     time.Duration
}

// LedgerOptionsFrom reads the DB_* settings.
func LedgerOptionsFrom(cfg *config.Config) LedgerOptions {
	return LedgerOptions{
		DSN:             cfg.PostgresDSN(),
		AppName:         cfg.AppName,
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnLifetime: cfg.DBMaxConnLife,
		PingTimeout:     5 * time.Second,
	}
}

func ledgerPoolConfig(o LedgerOptions) (*pgxpool.Config, error) {
	pc, err := pgxpool.ParseConfig(o.DSN)
	if err != nil {
		return nil, err
	}
	if o.MaxConns > 0 {
		pc.MaxConns = o.MaxConns
	}
	// MinConns above MaxConns is rejected by pgxpool
	if o.MinConns > 0 && o.MinConns <= pc.MaxConns {
		pc.MinConns = o.MinConns
	}
	if o.MaxConnLifetime > 0 {
		pc.MaxConnLifetime = o.MaxConnLifetime
	}
	if o.AppName != "" {
		pc.ConnConfig.RuntimeParams["application_name"] = o.AppName
	}
	return pc, nil
}

// OpenLedger connects the ledger pool and pings it before returning.
func OpenLedger(ctx context.Context, o LedgerOptions) (*pgxpool.Pool, error) {
	pc, err := ledgerPoolConfig(o)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, err
	}
	timeout := o.PingTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	pctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := pool.Ping(pctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
