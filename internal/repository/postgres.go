package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/elperroloc0/InvoiceScanner/internal/common"
	"github.com/elperroloc0/InvoiceScanner/internal/entity"
)

// PostgresConfig mirrors the pool knobs exposed through the environment.
type PostgresConfig struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	DialTimeout     time.Duration
}

// PostgresStore persists scans in a receipts table with items as jsonb.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

const pgSchema = `
CREATE TABLE IF NOT EXISTS receipts (
	id             UUID PRIMARY KEY,
	store          TEXT NOT NULL,
	items          JSONB NOT NULL,
	total          DOUBLE PRECISION,
	source         TEXT NOT NULL,
	avg_confidence DOUBLE PRECISION NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL
)`

// OpenPostgres creates the pgx pool and ensures the schema exists.
func OpenPostgres(ctx context.Context, cfg PostgresConfig, logger *slog.Logger) (*PostgresStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("connecting to database", "dsn", cfg.DSN)

	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		logger.Error("failed to parse database config", "error", err)
		return nil, err
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		pc.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		pc.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	}
	pc.ConnConfig.RuntimeParams["application_name"] = "invoice-scanner"

	dialCtx := ctx
	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	pool, err := pgxpool.NewWithConfig(dialCtx, pc)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return nil, fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}

	if _, err := pool.Exec(ctx, pgSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	logger.Info("successfully connected to database")
	return &PostgresStore{pool: pool, logger: logger}, nil
}

// HealthCheck pings the pool, catching DSN issues early.
func (s *PostgresStore) HealthCheck(ctx context.Context, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Save(ctx context.Context, rec *ScanRecord) error {
	rec.ensureDefaults()

	items, err := json.Marshal(rec.Receipt.Items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO receipts (id, store, items, total, source, avg_confidence, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ID, rec.Receipt.Store, items, rec.Receipt.Total, rec.Source, rec.AvgConfidence, rec.CreatedAt,
	)
	if err != nil {
		s.logger.Error("failed to save receipt", "id", rec.ID, "error", err)
		return fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, limit int) ([]ScanRecord, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, store, items, total, source, avg_confidence, created_at
		 FROM receipts ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		s.logger.Error("failed to list receipts", "error", err)
		return nil, fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}
	defer rows.Close()

	var out []ScanRecord
	for rows.Next() {
		var (
			rec   ScanRecord
			items []byte
		)
		if err := rows.Scan(&rec.ID, &rec.Receipt.Store, &items, &rec.Receipt.Total,
			&rec.Source, &rec.AvgConfidence, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if err := json.Unmarshal(items, &rec.Receipt.Items); err != nil {
			return nil, fmt.Errorf("unmarshal items: %w", err)
		}
		if rec.Receipt.Items == nil {
			rec.Receipt.Items = []entity.Item{}
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Close() error {
	s.logger.Info("closing database connections")
	s.pool.Close()
	return nil
}
