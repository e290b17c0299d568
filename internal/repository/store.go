// Package repository persists scan results. Two implementations back the
// ReceiptStore interface: a pgx Postgres pool for the daemon and a SQLite
// file for the single-binary CLI.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/elperroloc0/InvoiceScanner/internal/entity"
)

// ScanRecord is one persisted scan.
type ScanRecord struct {
	ID            uuid.UUID      `json:"id"`
	Receipt       entity.Receipt `json:"receipt"`
	Source        string         `json:"source"`
	AvgConfidence float64        `json:"avg_confidence"`
	CreatedAt     time.Time      `json:"created_at"`
}

// ReceiptStore is the persistence interface the server and CLI depend on.
type ReceiptStore interface {
	// Save persists the record, assigning ID and CreatedAt when unset.
	Save(ctx context.Context, rec *ScanRecord) error

	// List returns the most recent records, newest first.
	List(ctx context.Context, limit int) ([]ScanRecord, error)

	Close() error
}

func (r *ScanRecord) ensureDefaults() {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
}

const defaultListLimit = 100

func parseUUID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("parse id %q: %w", s, err)
	}
	return id, nil
}
