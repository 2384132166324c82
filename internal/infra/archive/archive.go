// Package archive persists streamed wind samples to PostgreSQL, giving the
// advisory client a local observation history independent of the backend.
package archive

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx via database/sql
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"

	"github.com/windlane/gustline/internal/core/domain"
	"github.com/windlane/gustline/internal/metrics"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Config holds PostgreSQL connection configuration.
type Config struct {
	URL      string `yaml:"url"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// Archive wraps the PostgreSQL connection.
type Archive struct {
	db *sqlx.DB
}

// Open connects to the archive database without touching the schema.
// Read-only consumers (the status command) use it directly.
func Open(ctx context.Context, cfg Config) (*Archive, error) {
	db, err := sqlx.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.MaxConns > 0 {
		db.SetMaxOpenConns(cfg.MaxConns)
	} else {
		db.SetMaxOpenConns(10)
	}
	if cfg.MinConns > 0 {
		db.SetMaxIdleConns(cfg.MinConns)
	} else {
		db.SetMaxIdleConns(2)
	}
	db.SetConnMaxLifetime(time.Hour)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Archive{db: db}, nil
}

// New opens the archive database and runs pending migrations.
func New(ctx context.Context, cfg Config) (*Archive, error) {
	a, err := Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		_ = a.Close()
		return nil, err
	}
	if err := goose.Up(a.db.DB, "migrations"); err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return a, nil
}

// Close closes the database connection.
func (a *Archive) Close() error {
	return a.db.Close()
}

// Ping checks if the database is reachable.
func (a *Archive) Ping(ctx context.Context) error {
	return a.db.PingContext(ctx)
}

// InsertSample appends one observed sample.
func (a *Archive) InsertSample(ctx context.Context, s domain.WindSample) error {
	const q = `
		INSERT INTO wind_samples (observed_at, speed_kts, gust_kts, direction_deg, temp_c, humidity, pressure_hpa)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := a.db.ExecContext(ctx, q,
		s.Time.Time, s.SpeedKts, s.GustKts, s.DirectionDeg,
		s.TempC, s.Humidity, s.PressureHPa,
	)
	if err != nil {
		return fmt.Errorf("insert sample: %w", err)
	}
	metrics.ArchiveInsertsTotal.Inc()
	return nil
}

type dayRow struct {
	Day      time.Time       `db:"day"`
	AvgSpeed sql.NullFloat64 `db:"avg_speed"`
	PeakGust sql.NullFloat64 `db:"peak_gust"`
}

// RecentDays returns per-day aggregates for the most recent n days that
// have observations, oldest first.
func (a *Archive) RecentDays(ctx context.Context, n int) ([]domain.HistoryDay, error) {
	// Bucket on UTC days regardless of the session time zone.
	const q = `
		SELECT date_trunc('day', observed_at AT TIME ZONE 'utc') AS day,
		       avg(speed_kts)                                    AS avg_speed,
		       max(gust_kts)                                     AS peak_gust
		FROM wind_samples
		GROUP BY day
		ORDER BY day DESC
		LIMIT $1`

	var rows []dayRow
	if err := a.db.SelectContext(ctx, &rows, q, n); err != nil {
		return nil, fmt.Errorf("query recent days: %w", err)
	}

	days := make([]domain.HistoryDay, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		r := rows[i]
		day := domain.HistoryDay{Date: domain.Time{Time: r.Day}}
		if r.AvgSpeed.Valid {
			v := r.AvgSpeed.Float64
			day.AvgSpeedKts = &v
		}
		if r.PeakGust.Valid {
			v := r.PeakGust.Float64
			day.PeakGustKts = &v
		}
		days = append(days, day)
	}
	return days, nil
}
