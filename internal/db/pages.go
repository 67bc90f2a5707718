package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// DefaultPageCacheTTL is how long a cached catalogue page stays fresh.
const DefaultPageCacheTTL = 7 * 24 * time.Hour

// GetFreshCataloguePage returns a cached page younger than maxAge, or nil.
func (db *DB) GetFreshCataloguePage(ctx context.Context, pageURL string, maxAge time.Duration) (*CataloguePage, error) {
	var page CataloguePage
	err := db.pool.QueryRow(ctx,
		`SELECT id, url, catalogue, text_content, fetched_at
		 FROM catalogue_pages
		 WHERE url = $1 AND fetched_at > NOW() - $2::interval`,
		pageURL, maxAge.String(),
	).Scan(&page.ID, &page.URL, &page.Catalogue, &page.Text, &page.FetchedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cached page: %w", err)
	}
	return &page, nil
}

// UpsertCataloguePage stores or refreshes a fetched catalogue page.
func (db *DB) UpsertCataloguePage(ctx context.Context, page *CataloguePage) error {
	if page.ID == uuid.Nil {
		page.ID = uuid.New()
	}
	_, err := db.pool.Exec(ctx,
		`INSERT INTO catalogue_pages (id, url, catalogue, text_content, fetched_at)
		 VALUES ($1, $2, $3, $4, NOW())
		 ON CONFLICT (url) DO UPDATE SET catalogue = $3, text_content = $4, fetched_at = NOW()`,
		page.ID, page.URL, page.Catalogue, page.Text,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert catalogue page: %w", err)
	}
	return nil
}

// DeleteExpiredPages removes catalogue pages older than the cache TTL.
func (db *DB) DeleteExpiredPages(ctx context.Context) (int64, error) {
	result, err := db.pool.Exec(ctx,
		`DELETE FROM catalogue_pages WHERE fetched_at < NOW() - $1::interval`,
		DefaultPageCacheTTL.String(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired pages: %w", err)
	}
	return result.RowsAffected(), nil
}
