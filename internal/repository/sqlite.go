package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"

	"github.com/elperroloc0/InvoiceScanner/internal/common"
	"github.com/elperroloc0/InvoiceScanner/internal/entity"
)

// SQLiteStore keeps scans in a local file so the CLI works without a
// database server. Items are stored as a JSON column.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS receipts (
	id             TEXT PRIMARY KEY,
	store          TEXT NOT NULL,
	items          TEXT NOT NULL,
	total          REAL,
	source         TEXT NOT NULL,
	avg_confidence REAL NOT NULL,
	created_at     TIMESTAMP NOT NULL
)`

// OpenSQLite opens (creating if needed) the database at path. Use
// ":memory:" for an ephemeral store.
func OpenSQLite(path string, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite %s: %v", common.ErrDatabase, path, err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	logger.Info("sqlite store ready", "path", path)
	return &SQLiteStore{db: db, logger: logger}, nil
}

func (s *SQLiteStore) Save(ctx context.Context, rec *ScanRecord) error {
	rec.ensureDefaults()

	items, err := json.Marshal(rec.Receipt.Items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO receipts (id, store, items, total, source, avg_confidence, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID.String(), rec.Receipt.Store, string(items), rec.Receipt.Total,
		rec.Source, rec.AvgConfidence, rec.CreatedAt,
	)
	if err != nil {
		s.logger.Error("failed to save receipt", "id", rec.ID, "error", err)
		return fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context, limit int) ([]ScanRecord, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, store, items, total, source, avg_confidence, created_at
		 FROM receipts ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			s.logger.Warn("rows close error", "error", cerr)
		}
	}()

	var out []ScanRecord
	for rows.Next() {
		var (
			rec   ScanRecord
			id    string
			items string
			total sql.NullFloat64
		)
		if err := rows.Scan(&id, &rec.Receipt.Store, &items, &total,
			&rec.Source, &rec.AvgConfidence, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if rec.ID, err = parseUUID(id); err != nil {
			return nil, err
		}
		if total.Valid {
			rec.Receipt.Total = &total.Float64
		}
		if err := json.Unmarshal([]byte(items), &rec.Receipt.Items); err != nil {
			return nil, fmt.Errorf("unmarshal items: %w", err)
		}
		if rec.Receipt.Items == nil {
			rec.Receipt.Items = []entity.Item{}
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
