// Package fetch - cached.go wraps catalogue fetching with database-backed
// caching so repeat plans for the same qualification skip the network.
package fetch

import (
	"context"
	"time"

	"github.com/jonathan/course-planner/internal/db"
)

// CachedFetcher wraps URL fetching with a catalogue page cache.
type CachedFetcher struct {
	db        *db.DB
	options   *Options
	cacheTTL  time.Duration
	skipCache bool // for testing or forcing fresh fetches
}

// CachedFetcherConfig holds configuration for the cached fetcher.
type CachedFetcherConfig struct {
	CacheTTL  time.Duration
	SkipCache bool
	Options   *Options
}

// NewCachedFetcher creates a new cached fetcher. A nil database disables
// caching and every call fetches fresh content.
func NewCachedFetcher(database *db.DB, config *CachedFetcherConfig) *CachedFetcher {
	if config == nil {
		config = &CachedFetcherConfig{}
	}
	if config.Options == nil {
		config.Options = DefaultOptions()
	}
	if config.CacheTTL == 0 {
		config.CacheTTL = db.DefaultPageCacheTTL
	}
	return &CachedFetcher{
		db:        database,
		options:   config.Options,
		cacheTTL:  config.CacheTTL,
		skipCache: config.SkipCache,
	}
}

// CachedText holds extracted page text with cache metadata.
type CachedText struct {
	URL       string
	Catalogue Catalogue
	Text      string
	FromCache bool
}

// FetchText retrieves the extracted main text of a catalogue page, serving
// it from cache when a fresh copy exists. Cache writes are best-effort.
func (f *CachedFetcher) FetchText(ctx context.Context, urlStr string) (*CachedText, error) {
	catalogue := DetectCatalogue(urlStr)

	if !f.skipCache && f.db != nil {
		page, err := f.db.GetFreshCataloguePage(ctx, urlStr, f.cacheTTL)
		if err == nil && page != nil {
			return &CachedText{
				URL:       urlStr,
				Catalogue: Catalogue(page.Catalogue),
				Text:      page.Text,
				FromCache: true,
			}, nil
		}
	}

	result, err := URL(ctx, urlStr, f.options)
	if err != nil {
		return nil, err
	}

	text, err := ExtractMainText(result.HTML, CatalogueContentSelectors(catalogue), CatalogueNoiseSelectors(catalogue)...)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "content extraction failed", Cause: err}
	}

	if f.db != nil {
		_ = f.db.UpsertCataloguePage(ctx, &db.CataloguePage{
			URL:       urlStr,
			Catalogue: string(catalogue),
			Text:      text,
		})
	}

	return &CachedText{
		URL:       urlStr,
		Catalogue: catalogue,
		Text:      text,
		FromCache: false,
	}, nil
}
