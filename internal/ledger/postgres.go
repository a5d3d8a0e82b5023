package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"lead-qualifier/internal/models"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS classification_records (
	id          TEXT PRIMARY KEY,
	recorded_at TIMESTAMPTZ NOT NULL,
	industry_id TEXT NOT NULL,
	status      TEXT NOT NULL,
	confidence  DOUBLE PRECISION NOT NULL,
	reasons     JSONB NOT NULL,
	lead        JSONB NOT NULL,
	metadata    JSONB NOT NULL,
	transcript  JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS classification_records_recorded_at_idx ON classification_records (recorded_at DESC);`

const insertSQL = `INSERT INTO classification_records
	(id, recorded_at, industry_id, status, confidence, reasons, lead, metadata, transcript)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (id) DO NOTHING`

const recentSQL = `SELECT id, recorded_at, industry_id, status, confidence, reasons, lead, metadata, transcript
	FROM classification_records
	ORDER BY recorded_at DESC
	LIMIT $1`

type PostgresLedger struct {
	db *sql.DB
}

func NewPostgresLedger(db *sql.DB) *PostgresLedger {
	return &PostgresLedger{db: db}
}

func (l *PostgresLedger) EnsureSchema(ctx context.Context) error {
	if _, err := l.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create classification_records: %w", err)
	}
	return nil
}

func (l *PostgresLedger) Append(ctx context.Context, record models.ClassificationRecord) error {
	reasons, err := json.Marshal(record.Reasons)
	if err != nil {
		return fmt.Errorf("encode reasons: %w", err)
	}
	lead, err := json.Marshal(record.Lead)
	if err != nil {
		return fmt.Errorf("encode lead: %w", err)
	}
	metadata, err := json.Marshal(record.Metadata)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	transcript, err := json.Marshal(record.Transcript)
	if err != nil {
		return fmt.Errorf("encode transcript: %w", err)
	}

	res, err := l.db.ExecContext(ctx, insertSQL,
		record.ID, record.Timestamp, record.IndustryID, string(record.Status), record.Confidence,
		reasons, lead, metadata, transcript,
	)
	if err != nil {
		return fmt.Errorf("insert classification record: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrDuplicateRecord
	}
	return nil
}

func (l *PostgresLedger) Recent(ctx context.Context, n int) ([]models.ClassificationRecord, error) {
	rows, err := l.db.QueryContext(ctx, recentSQL, normalizeLimit(n))
	if err != nil {
		return nil, fmt.Errorf("query classification records: %w", err)
	}
	defer rows.Close()

	out := []models.ClassificationRecord{}
	for rows.Next() {
		var (
			r                                   models.ClassificationRecord
			status                              string
			reasons, lead, metadata, transcript []byte
		)
		if err := rows.Scan(&r.ID, &r.Timestamp, &r.IndustryID, &status, &r.Confidence,
			&reasons, &lead, &metadata, &transcript); err != nil {
			return nil, fmt.Errorf("scan classification record: %w", err)
		}
		r.Status = models.LeadStatus(status)

		for _, col := range []struct {
			name string
			raw  []byte
			dst  interface{}
		}{
			{"reasons", reasons, &r.Reasons},
			{"lead", lead, &r.Lead},
			{"metadata", metadata, &r.Metadata},
			{"transcript", transcript, &r.Transcript},
		} {
			if err := json.Unmarshal(col.raw, col.dst); err != nil {
				return nil, fmt.Errorf("decode %s of record %s: %w", col.name, r.ID, err)
			}
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate classification records: %w", err)
	}
	return out, nil
}
