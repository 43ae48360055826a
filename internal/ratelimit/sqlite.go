package ratelimit

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3" // Required by the library implementation.
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteStore keeps rate buckets in a sqlite file so counters survive
// restarts. It is the step toward a shared external counter; the semantics
// are still single-instance.
type SQLiteStore struct {
	db  *sql.DB
	log *slog.Logger
}

func NewSQLiteStore(ctx context.Context, path string, log *slog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open DB file: %w", err)
	}

	// sqlite allows one writer at a time; a single connection serializes
	// the read-test-increment so Take stays atomic across goroutines.
	db.SetMaxOpenConns(1)

	if err := migrateSchema(ctx, db, path, log); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db, log: log}, nil
}

func migrateSchema(ctx context.Context, db *sql.DB, path string, log *slog.Logger) error {
	dbInstance, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("create DB instance: %w", err)
	}

	srcInstance, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create source instance: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", srcInstance, "sqlite3", dbInstance)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil {
		if !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("apply migrations: %w", err)
		}

		log.InfoContext(ctx, "No migrations to apply",
			"dbPath", path)

		return nil
	}

	log.InfoContext(ctx, "Rate bucket store is migrated",
		"dbPath", path)

	return nil
}

func (s *SQLiteStore) Take(
	ctx context.Context,
	key string,
	limit int,
	now time.Time,
	resetAt time.Time,
) (Decision, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Decision{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var (
		count      int
		resetAtMs  int64
		foundReset = resetAt
	)

	row := tx.QueryRowContext(ctx,
		"select count, reset_at from rate_buckets where key = ?", key)
	scanErr := row.Scan(&count, &resetAtMs)

	switch {
	case errors.Is(scanErr, sql.ErrNoRows):
		count = 0
	case scanErr != nil:
		return Decision{}, fmt.Errorf("read bucket: %w", scanErr)
	case resetAtMs <= now.UnixMilli():
		// Expired bucket counts as fresh.
		count = 0
	default:
		foundReset = time.UnixMilli(resetAtMs)
	}

	allowed := count < limit
	if allowed {
		count++
	}

	_, err = tx.ExecContext(ctx,
		`insert into rate_buckets (key, count, reset_at) values (?, ?, ?)
		 on conflict(key) do update set count = excluded.count, reset_at = excluded.reset_at`,
		key, count, foundReset.UnixMilli())
	if err != nil {
		return Decision{}, fmt.Errorf("write bucket: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Decision{}, fmt.Errorf("commit tx: %w", err)
	}

	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}

	return Decision{
		Allowed:   allowed,
		Remaining: remaining,
		ResetAt:   foundReset,
	}, nil
}

func (s *SQLiteStore) Sweep(ctx context.Context, now time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx,
		"delete from rate_buckets where reset_at <= ?", now.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("sweep buckets: %w", err)
	}

	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count swept buckets: %w", err)
	}

	return int(removed), nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
