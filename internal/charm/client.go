// ABOUTME: Charm KV client wrapper using transactional Do API
// ABOUTME: Short-lived connections so concurrent adot runs don't contend for the lock

package charm

import (
	"errors"
	"os"

	"github.com/charmbracelet/charm/kv"
)

const (
	// DBName is the name of the Charm KV database for adot documents.
	DBName = "adot"

	// DefaultCharmHost is the default Charm server to use.
	DefaultCharmHost = "charm.2389.dev"
)

// ErrMissingKey is returned by Delete when the key does not exist.
var ErrMissingKey = kv.ErrMissingKey

// Client holds configuration for KV operations.
// It does NOT hold a persistent connection: each operation opens the
// database, performs the operation, and closes it.
type Client struct {
	dbName   string
	autoSync bool
}

// Config holds client configuration options.
type Config struct {
	// CharmHost is the Charm server to use (default: charm.2389.dev).
	CharmHost string
	// AutoSync enables automatic sync after writes.
	AutoSync bool
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *Config {
	host := os.Getenv("CHARM_HOST")
	if host == "" {
		host = DefaultCharmHost
	}
	return &Config{
		CharmHost: host,
		AutoSync:  true,
	}
}

// NewClient creates a new client with the given config.
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.CharmHost == "" {
		cfg.CharmHost = DefaultCharmHost
	}

	// The kv package only reads its server from CHARM_HOST.
	if err := os.Setenv("CHARM_HOST", cfg.CharmHost); err != nil {
		return nil, err
	}

	return &Client{
		dbName:   DBName,
		autoSync: cfg.AutoSync,
	}, nil
}

// NewTestClient creates a client on dbName with auto-sync disabled.
// Opening the database still authenticates against the Charm host.
func NewTestClient(dbName string) *Client {
	return &Client{
		dbName:   dbName,
		autoSync: false,
	}
}

// Set stores a value with the given key.
func (c *Client) Set(key, value []byte) error {
	return c.Do(func(k *kv.KV) error {
		return k.Set(key, value)
	})
}

// Delete removes a key, returning ErrMissingKey if it was not present.
func (c *Client) Delete(key []byte) error {
	return c.Do(func(k *kv.KV) error {
		if _, err := k.Get(key); err != nil {
			return err
		}
		return k.Delete(key)
	})
}

// Do executes a function with write access to the database and syncs
// afterwards when auto-sync is enabled.
func (c *Client) Do(fn func(k *kv.KV) error) error {
	return kv.Do(c.dbName, func(k *kv.KV) error {
		if err := fn(k); err != nil {
			return err
		}
		if c.autoSync {
			return k.Sync()
		}
		return nil
	})
}

// IsMissingKey reports whether err means the key was absent.
func IsMissingKey(err error) bool {
	return errors.Is(err, kv.ErrMissingKey)
}
