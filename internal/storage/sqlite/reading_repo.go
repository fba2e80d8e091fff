package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"sysmon-agent/internal/sampler"
	"sysmon-agent/internal/storage"
)

// ReadingRepository persists the last reading of each monitor. Rows are
// overwritten on every write; no history is kept.
type ReadingRepository struct {
	db *sql.DB
}

func NewReadingRepository(db *sql.DB) *ReadingRepository {
	return &ReadingRepository{db: db}
}

func (r *ReadingRepository) Upsert(ctx context.Context, reading sampler.Reading) error {
	query := `
	INSERT INTO latest_readings (monitor, kind, format, int_value, float_value, is_float, warmup, reason, recorded_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(monitor) DO UPDATE SET
		kind = excluded.kind,
		format = excluded.format,
		int_value = excluded.int_value,
		float_value = excluded.float_value,
		is_float = excluded.is_float,
		warmup = excluded.warmup,
		reason = excluded.reason,
		recorded_at = excluded.recorded_at
	`

	_, err := r.db.ExecContext(ctx, query,
		reading.Monitor,
		string(reading.Kind),
		string(reading.Format),
		reading.Int,
		reading.Float,
		reading.IsFloat,
		reading.Warmup,
		reading.Reason,
		reading.RecordedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert reading %s: %w", reading.Monitor, err)
	}
	return nil
}

func (r *ReadingRepository) Latest(ctx context.Context, monitor string) (sampler.Reading, error) {
	row := r.db.QueryRowContext(ctx, selectReadings+" WHERE monitor = ?", monitor)

	reading, err := scanReading(row)
	if errors.Is(err, sql.ErrNoRows) {
		return sampler.Reading{}, storage.ErrNotFound
	}
	if err != nil {
		return sampler.Reading{}, fmt.Errorf("failed to get reading %s: %w", monitor, err)
	}
	return reading, nil
}

func (r *ReadingRepository) List(ctx context.Context) ([]sampler.Reading, error) {
	rows, err := r.db.QueryContext(ctx, selectReadings+" ORDER BY monitor")
	if err != nil {
		return nil, fmt.Errorf("failed to query readings: %w", err)
	}
	defer rows.Close()

	var readings []sampler.Reading
	for rows.Next() {
		reading, err := scanReading(rows)
		if err != nil {
			return nil, err
		}
		readings = append(readings, reading)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return readings, nil
}

const selectReadings = `SELECT monitor, kind, format, int_value, float_value, is_float, warmup, reason, recorded_at FROM latest_readings`

type scanner interface {
	Scan(dest ...any) error
}

func scanReading(s scanner) (sampler.Reading, error) {
	var (
		reading    sampler.Reading
		kind       string
		format     string
		recordedAt int64
	)

	err := s.Scan(
		&reading.Monitor,
		&kind,
		&format,
		&reading.Int,
		&reading.Float,
		&reading.IsFloat,
		&reading.Warmup,
		&reading.Reason,
		&recordedAt,
	)
	if err != nil {
		return sampler.Reading{}, err
	}

	reading.Kind = sampler.Kind(kind)
	reading.Format = sampler.Format(format)
	reading.RecordedAt = time.Unix(0, recordedAt).UTC()
	return reading, nil
}
