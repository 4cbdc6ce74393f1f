// Package store persists color frequencies to PostgreSQL.
package store

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/KaramelBytes/shirtstats/internal/analysis"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrUnavailable indicates the database could not be reached.
var ErrUnavailable = errors.New("database unavailable")

// MergePolicy decides how an upsert treats a color that is already stored.
type MergePolicy string

const (
	// Overwrite replaces the stored count with the latest run's count.
	Overwrite MergePolicy = "overwrite"
	// Increment adds the latest run's count to the stored count.
	Increment MergePolicy = "increment"
)

// ParseMergePolicy accepts "overwrite" or "increment"; empty means Overwrite.
func ParseMergePolicy(s string) (MergePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(Overwrite):
		return Overwrite, nil
	case string(Increment):
		return Increment, nil
	default:
		return "", fmt.Errorf("invalid merge policy: %s (use overwrite or increment)", s)
	}
}

// upsertSQL returns the statement for policy. Parameters: color, frequency, run_id.
func upsertSQL(policy MergePolicy) string {
	set := "frequency = EXCLUDED.frequency"
	if policy == Increment {
		set = "frequency = color_frequencies.frequency + EXCLUDED.frequency"
	}
	return `INSERT INTO color_frequencies (color, frequency, run_id, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (color) DO UPDATE
		SET ` + set + `, run_id = EXCLUDED.run_id, updated_at = now()`
}

// DB is the subset of pgxpool.Pool used by Sink.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Config configures Open.
type Config struct {
	URL     string
	Policy  MergePolicy
	Timeout time.Duration
}

// Sink upserts frequency maps into color_frequencies.
type Sink struct {
	db     DB
	pool   *pgxpool.Pool
	policy MergePolicy
}

// New wraps an existing connection.
func New(db DB, policy MergePolicy) *Sink {
	if policy == "" {
		policy = Overwrite
	}
	return &Sink{db: db, policy: policy}
}

// Open connects to cfg.URL and verifies the connection with a ping.
func Open(ctx context.Context, cfg Config) (*Sink, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, fmt.Errorf("%w: no database_url configured", ErrUnavailable)
	}
	pcfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	pcfg.MaxConns = 2
	if cfg.Timeout > 0 {
		pcfg.ConnConfig.ConnectTimeout = cfg.Timeout
	}
	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("%w: create pool: %v", ErrUnavailable, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: ping: %v", ErrUnavailable, err)
	}
	s := New(pool, cfg.Policy)
	s.pool = pool
	return s, nil
}

// Migrate applies the embedded schema migrations over the pool opened by
// Open, so any connection string accepted by Open also works here.
func (s *Sink) Migrate() error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("%w: migrate needs a sink opened with Open", ErrUnavailable)
	}
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("migration source: %w", err)
	}
	db := stdlib.OpenDBFromPool(s.pool)
	driver, err := migratepgx.WithInstance(db, &migratepgx.Config{})
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("%w: migration driver: %v", ErrUnavailable, err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "pgx5", driver)
	if err != nil {
		_ = driver.Close()
		return fmt.Errorf("create migrator: %w", err)
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// Policy returns the merge policy used by Save.
func (s *Sink) Policy() MergePolicy { return s.policy }

// Close releases the pool opened by Open.
func (s *Sink) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

// Save upserts every label of freq in one transaction, in first-seen order,
// and returns the number of rows written.
func (s *Sink) Save(ctx context.Context, freq analysis.FrequencyMap, runID uuid.UUID) (int, error) {
	q := upsertSQL(s.policy)
	written := 0
	err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		for _, kv := range freq.Entries() {
			if _, err := tx.Exec(ctx, q, string(kv.Value), kv.Count, runID); err != nil {
				return fmt.Errorf("upsert %s: %w", kv.Value, err)
			}
			written++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return written, nil
}

// Counts returns the stored frequencies ordered by count, then color.
func (s *Sink) Counts(ctx context.Context) ([]analysis.CategoryCount, error) {
	rows, err := s.db.Query(ctx, `SELECT color, frequency FROM color_frequencies ORDER BY frequency DESC, color`)
	if err != nil {
		return nil, fmt.Errorf("query counts: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (analysis.CategoryCount, error) {
		var c analysis.CategoryCount
		var color string
		if err := row.Scan(&color, &c.Count); err != nil {
			return c, err
		}
		c.Value = analysis.Label(color)
		return c, nil
	})
}
