// ABOUTME: Location upsert workflow
// ABOUTME: Clears the previous "latest" record, fetches a fresh location, and writes it back

package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/harper/adot/internal/config"
	"github.com/harper/adot/internal/models"
	"github.com/harper/adot/internal/storage"
)

// LocationResult describes a completed location refresh.
type LocationResult struct {
	Record *models.LocationRecord
	Stored storage.Document
	// ClearedPrevious is true when a prior "latest" record was deleted.
	ClearedPrevious bool
}

// RefreshLocation replaces the "latest" location record with the caller's
// current location. Steps run strictly in order:
//
//  1. capture the observation time once
//  2. resolve configuration (no network before this succeeds)
//  3. clearLatest: best-effort delete of the prior record
//  4. fetch the location; failure aborts with nothing written
//  5. insert the record under "latest"
//
// From step 3 until step 5 succeeds no "latest" record exists. A failed fetch
// or insert leaves it that way; the prior record is not restored.
func RefreshLocation(ctx context.Context, d Deps) (*LocationResult, error) {
	logger := d.logger()
	observedAt := d.now()

	cfg, store, err := d.openStore(ctx, config.RequireStore|config.RequireGeoToken)
	if err != nil {
		return nil, err
	}
	defer func() { _ = store.Close() }()

	logger.Info("Cleaning up existing location entry...")
	cleared := clearLatest(ctx, d, store)

	logger.Info("Fetching location data from ipinfo.io...")
	record, err := d.NewLocator(cfg).FetchLocation(ctx, cfg.IPInfoToken, observedAt)
	if err != nil {
		return nil, fmt.Errorf("fetch location: %w", err)
	}

	stored, err := store.Insert(ctx, models.LocationCollection, models.LatestLocationID, record.Document())
	if err != nil {
		return nil, err
	}
	logger.Debug("stored location", "city", record.City, "observed_at", models.FormatTimestamp(observedAt))

	return &LocationResult{Record: record, Stored: stored, ClearedPrevious: cleared}, nil
}

// clearLatest deletes the "latest" location record. Every error is ignored:
// not-found is the first-run case, and any other failure is logged and the
// workflow proceeds to re-populate the record.
func clearLatest(ctx context.Context, d Deps, store storage.DocumentStore) bool {
	err := store.Delete(ctx, models.LocationCollection, models.LatestLocationID)
	switch {
	case err == nil:
		d.logger().Info("Deleted existing 'latest' entry")
		return true
	case errors.Is(err, storage.ErrNotFound):
		d.logger().Debug("no existing 'latest' entry")
	default:
		d.logger().Warn("could not delete existing 'latest' entry, continuing", "err", err)
	}
	return false
}
