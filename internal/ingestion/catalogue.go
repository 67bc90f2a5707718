package ingestion

import (
	"context"
	"fmt"
	"log"

	"github.com/jonathan/course-planner/internal/db"
	"github.com/jonathan/course-planner/internal/fetch"
)

var (
	// ErrHTTPRequestFailed is returned when the catalogue fetch fails
	ErrHTTPRequestFailed = fmt.Errorf("HTTP request failed")
	// ErrContentExtractionFailed is returned when content extraction fails
	ErrContentExtractionFailed = fmt.Errorf("content extraction failed")
	// ErrNoUnitsFound is returned when a page yields no unit references
	ErrNoUnitsFound = fmt.Errorf("no unit references found")
)

// IngestCatalogueURL fetches a catalogue page, extracts its main text using
// host-specific selectors and parses out unit references. When database is
// non-nil the page is served from the catalogue cache if a fresh copy
// exists, and fresh fetches are written back to it. If useBrowser is true
// and the plain fetch yields too little text, the page is re-rendered in a
// headless browser before giving up.
func IngestCatalogueURL(ctx context.Context, database *db.DB, urlStr string, useBrowser, verbose bool) (string, []UnitRef, error) {
	catalogue := fetch.DetectCatalogue(urlStr)
	if verbose {
		log.Printf("[VERBOSE] URL: %s", urlStr)
		log.Printf("[VERBOSE] Detected catalogue: %s", catalogue)
	}

	fetcher := fetch.NewCachedFetcher(database, nil)
	page, err := fetcher.FetchText(ctx, urlStr)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrHTTPRequestFailed, err)
	}
	text := page.Text
	if verbose {
		if page.FromCache {
			log.Printf("[VERBOSE] Served from catalogue cache: %d chars", len(text))
		} else {
			log.Printf("[VERBOSE] Extracted text: %d chars", len(text))
		}
	}

	if !page.FromCache && useBrowser && fetch.ShouldUseBrowser(text) {
		if verbose {
			log.Printf("[VERBOSE] Content too short (%d chars), falling back to browser rendering", len(text))
		}
		browserHTML, browserErr := fetch.BrowserSimple(ctx, urlStr, verbose)
		if browserErr != nil {
			if verbose {
				log.Printf("[VERBOSE] Browser rendering failed: %v, using HTTP content", browserErr)
			}
		} else {
			contentSelectors := fetch.CatalogueContentSelectors(catalogue)
			noiseSelectors := fetch.CatalogueNoiseSelectors(catalogue)
			rendered, extractErr := fetch.ExtractMainText(browserHTML, contentSelectors, noiseSelectors...)
			if extractErr == nil && len(rendered) > len(text) {
				text = rendered
				if database != nil {
					// Replace the short cached copy with the rendered text.
					_ = database.UpsertCataloguePage(ctx, &db.CataloguePage{
						URL:       urlStr,
						Catalogue: string(catalogue),
						Text:      text,
					})
				}
			}
		}
	}

	refs := ParseUnitRefs(text)
	if len(refs) == 0 {
		return text, nil, fmt.Errorf("%w in %s", ErrNoUnitsFound, urlStr)
	}
	return text, refs, nil
}

// IngestCatalogueURLs fetches several catalogue pages concurrently and
// merges their unit references, deduplicated by code in first-seen order.
// Fetched pages are written to the catalogue cache when database is non-nil.
func IngestCatalogueURLs(ctx context.Context, database *db.DB, urls []string, verbose bool) ([]UnitRef, error) {
	results, err := fetch.All(ctx, urls, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrHTTPRequestFailed, err)
	}

	var merged []UnitRef
	seen := make(map[string]bool)
	for i, result := range results {
		catalogue := fetch.DetectCatalogue(urls[i])
		text, err := fetch.ExtractMainText(result.HTML, fetch.CatalogueContentSelectors(catalogue), fetch.CatalogueNoiseSelectors(catalogue)...)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrContentExtractionFailed, err)
		}
		if verbose {
			log.Printf("[VERBOSE] %s: %d chars", urls[i], len(text))
		}
		if database != nil {
			_ = database.UpsertCataloguePage(ctx, &db.CataloguePage{
				URL:       urls[i],
				Catalogue: string(catalogue),
				Text:      text,
			})
		}
		for _, ref := range ParseUnitRefs(text) {
			if seen[ref.Code] {
				continue
			}
			seen[ref.Code] = true
			merged = append(merged, ref)
		}
	}

	if len(merged) == 0 {
		return nil, fmt.Errorf("%w in %d page(s)", ErrNoUnitsFound, len(urls))
	}
	return merged, nil
}
