// ABOUTME: Dependencies shared by the adot workflows
// ABOUTME: Wires config resolution, store construction, and the geolocation client

package workflow

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harper/adot/internal/config"
	"github.com/harper/adot/internal/geo"
	"github.com/harper/adot/internal/models"
	"github.com/harper/adot/internal/storage"
)

// Locator resolves the caller's current location.
type Locator interface {
	FetchLocation(ctx context.Context, token string, observedAt time.Time) (*models.LocationRecord, error)
}

// Deps are the collaborators a workflow runs against. Each step is a
// function so tests can observe ordering and substitute fakes.
type Deps struct {
	// LoadConfig resolves configuration with the given requirements.
	LoadConfig func(req config.Requirement) (*config.Config, error)
	// OpenStore constructs the document store from resolved configuration.
	OpenStore func(ctx context.Context, cfg *config.Config) (storage.DocumentStore, error)
	// NewLocator constructs the geolocation client from resolved configuration.
	NewLocator func(cfg *config.Config) Locator
	// Now returns the current time.
	Now func() time.Time
	// Logger receives step progress. Nil discards.
	Logger *log.Logger
}

// DefaultDeps returns the production wiring: configuration from the
// environment, the configured store backend, and ipinfo.io.
func DefaultDeps(opts config.LoadOptions, logger *log.Logger) Deps {
	return Deps{
		LoadConfig: func(req config.Requirement) (*config.Config, error) {
			o := opts
			o.Require = req
			return config.Load(o)
		},
		OpenStore: func(ctx context.Context, cfg *config.Config) (storage.DocumentStore, error) {
			return cfg.OpenStorage(ctx)
		},
		NewLocator: func(cfg *config.Config) Locator {
			return geo.NewClient(cfg.IPInfoURL, nil)
		},
		Now:    time.Now,
		Logger: logger,
	}
}

func (d Deps) logger() *log.Logger {
	if d.Logger == nil {
		return log.New(io.Discard)
	}
	return d.Logger
}

func (d Deps) now() time.Time {
	if d.Now == nil {
		return time.Now().UTC()
	}
	return d.Now().UTC()
}

// openStore resolves configuration and only then constructs the store.
func (d Deps) openStore(ctx context.Context, req config.Requirement) (*config.Config, storage.DocumentStore, error) {
	cfg, err := d.LoadConfig(req)
	if err != nil {
		return nil, nil, err
	}
	store, err := d.OpenStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	d.logger().Debug("opened store", "backend", cfg.Store)
	return cfg, store, nil
}
