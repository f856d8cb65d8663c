package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/trace"

	"newsdesk/internal/domain"
)

type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// FlagRepository persists per-item user state (read, bookmarked, hidden).
// Items themselves are never stored; flags are keyed by item id and joined
// onto the stream at read time.
type FlagRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewFlagRepository(pool PgxPool, tracer trace.Tracer) *FlagRepository {
	return &FlagRepository{pool: pool, tracer: tracer}
}

func (r *FlagRepository) RunMigrations(ctx context.Context) error {
	_, span := r.tracer.Start(ctx, "flag-repo.run-migrations")
	defer span.End()

	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS news_item_flags (
			item_id    TEXT PRIMARY KEY,
			read       BOOLEAN NOT NULL DEFAULT FALSE,
			bookmarked BOOLEAN NOT NULL DEFAULT FALSE,
			hidden     BOOLEAN NOT NULL DEFAULT FALSE,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	return err
}

// setFlag upserts a single boolean column. column is always one of the
// fixed names passed by the exported setters, never user input.
func (r *FlagRepository) setFlag(ctx context.Context, column, itemID string, value bool) error {
	sql := fmt.Sprintf(`
		INSERT INTO news_item_flags (item_id, %[1]s, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (item_id)
		DO UPDATE SET %[1]s = $2, updated_at = NOW()`, column)
	_, err := r.pool.Exec(ctx, sql, itemID, value)
	return err
}

func (r *FlagRepository) SetRead(ctx context.Context, itemID string, read bool) error {
	_, span := r.tracer.Start(ctx, "flag-repo.set-read")
	defer span.End()
	return r.setFlag(ctx, "read", itemID, read)
}

func (r *FlagRepository) SetBookmarked(ctx context.Context, itemID string, bookmarked bool) error {
	_, span := r.tracer.Start(ctx, "flag-repo.set-bookmarked")
	defer span.End()
	return r.setFlag(ctx, "bookmarked", itemID, bookmarked)
}

func (r *FlagRepository) SetHidden(ctx context.Context, itemID string, hidden bool) error {
	_, span := r.tracer.Start(ctx, "flag-repo.set-hidden")
	defer span.End()
	return r.setFlag(ctx, "hidden", itemID, hidden)
}

// Flags returns the stored flags for the given item ids. Items without a
// row are simply absent from the map.
func (r *FlagRepository) Flags(ctx context.Context, itemIDs []string) (map[string]domain.ItemFlags, error) {
	_, span := r.tracer.Start(ctx, "flag-repo.flags")
	defer span.End()

	if len(itemIDs) == 0 {
		return map[string]domain.ItemFlags{}, nil
	}
	rows, err := r.pool.Query(ctx,
		`SELECT item_id, read, bookmarked, hidden
		 FROM news_item_flags
		 WHERE item_id = ANY($1)`,
		itemIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flags := make(map[string]domain.ItemFlags)
	for rows.Next() {
		var id string
		var f domain.ItemFlags
		if err := rows.Scan(&id, &f.Read, &f.Bookmarked, &f.Hidden); err != nil {
			return nil, err
		}
		flags[id] = f
	}
	return flags, rows.Err()
}

// BookmarkedIDs returns the ids of all bookmarked items, newest first.
func (r *FlagRepository) BookmarkedIDs(ctx context.Context) ([]string, error) {
	_, span := r.tracer.Start(ctx, "flag-repo.bookmarked-ids")
	defer span.End()

	rows, err := r.pool.Query(ctx,
		`SELECT item_id FROM news_item_flags
		 WHERE bookmarked = TRUE
		 ORDER BY updated_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
