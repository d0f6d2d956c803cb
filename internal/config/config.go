// ABOUTME: adot configuration resolution from environment, .env, and config file
// ABOUTME: Fails fast with ConfigError naming the missing variable, builds store options

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/harper/adot/internal/storage"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment variable names.
const (
	EnvProjectID       = "PROJECT_ID"
	EnvCredentials     = "GOOGLE_APPLICATION_CREDENTIALS"
	EnvIPInfoToken     = "IPINFO_TOKEN"
	EnvIPInfoURL       = "IPINFO_URL"
	EnvStore           = "ADOT_STORE"
	EnvLogLevel        = "ADOT_LOG_LEVEL"
	EnvSQLitePath      = "ADOT_SQLITE_PATH"
	EnvMongoURI        = "MONGODB_URI"
	EnvMongoDatabase   = "MONGODB_DATABASE"
	EnvRedisAddr       = "REDIS_ADDR"
	EnvRedisPassword   = "REDIS_PASSWORD"
	EnvRedisDB         = "REDIS_DB"
	EnvCharmHost       = "CHARM_HOST"
	EnvS3Endpoint      = "S3_ENDPOINT"
	EnvS3Bucket        = "S3_BUCKET"
	EnvS3AccessKey     = "S3_ACCESS_KEY"
	EnvS3SecretKey     = "S3_SECRET_KEY"
	EnvS3UseSSL        = "S3_USE_SSL"
	DefaultIPInfoURL   = "https://ipinfo.io"
	DefaultStore       = storage.BackendFirestore
	DefaultMongoDBName = "adot"
)

// keys maps viper keys (also the config file keys) to their environment variables.
var keys = map[string]string{
	"project_id":                     EnvProjectID,
	"google_application_credentials": EnvCredentials,
	"ipinfo_token":                   EnvIPInfoToken,
	"ipinfo_url":                     EnvIPInfoURL,
	"store":                          EnvStore,
	"log_level":                      EnvLogLevel,
	"sqlite_path":                    EnvSQLitePath,
	"mongodb_uri":                    EnvMongoURI,
	"mongodb_database":               EnvMongoDatabase,
	"redis_addr":                     EnvRedisAddr,
	"redis_password":                 EnvRedisPassword,
	"redis_db":                       EnvRedisDB,
	"charm_host":                     EnvCharmHost,
	"s3_endpoint":                    EnvS3Endpoint,
	"s3_bucket":                      EnvS3Bucket,
	"s3_access_key":                  EnvS3AccessKey,
	"s3_secret_key":                  EnvS3SecretKey,
	"s3_use_ssl":                     EnvS3UseSSL,
}

// Requirement selects which variables Load must find.
type Requirement int

const (
	// RequireStore requires the variables of the selected store backend.
	RequireStore Requirement = 1 << iota
	// RequireGeoToken requires the geolocation API token.
	RequireGeoToken
)

// ConfigError reports a missing or invalid configuration variable.
type ConfigError struct {
	Var    string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s not found: set it in the environment, a .env file, or %s", e.Var, GetConfigPath())
	}
	return fmt.Sprintf("invalid %s: %s", e.Var, e.Reason)
}

// Config is the resolved adot configuration.
type Config struct {
	ProjectID       string
	CredentialsPath string
	IPInfoToken     string
	IPInfoURL       string
	Store           string
	LogLevel        string

	SQLitePath    string
	MongoURI      string
	MongoDatabase string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CharmHost     string
	S3Endpoint    string
	S3Bucket      string
	S3AccessKey   string
	S3SecretKey   string
	S3UseSSL      bool

	// ConfigFile is the config file that was read, empty if none existed.
	ConfigFile string
}

// LoadOptions controls how Load resolves configuration.
type LoadOptions struct {
	// Require lists the variables that must be present.
	Require Requirement
	// Store overrides the configured backend when non-empty (the --store flag).
	Store string
	// DotenvPath is the .env file to load. Defaults to ".env" in the working directory.
	DotenvPath string
	// ConfigPath is the YAML config file to read. Defaults to GetConfigPath().
	ConfigPath string
}

// Load resolves configuration. Precedence, highest first: process environment,
// .env file, config file, defaults. The .env file never overrides variables
// already present in the environment.
func Load(opts LoadOptions) (*Config, error) {
	dotenv := opts.DotenvPath
	if dotenv == "" {
		dotenv = ".env"
	}
	if _, err := os.Stat(dotenv); err == nil {
		if err := godotenv.Load(dotenv); err != nil {
			return nil, fmt.Errorf("load %s: %w", dotenv, err)
		}
	}

	v := viper.New()
	for key, env := range keys {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}
	v.SetDefault("ipinfo_url", DefaultIPInfoURL)
	v.SetDefault("store", DefaultStore)
	v.SetDefault("log_level", "info")
	v.SetDefault("sqlite_path", filepath.Join(defaultDataDir(), "adot.db"))
	v.SetDefault("mongodb_database", DefaultMongoDBName)
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("charm_host", storage.DefaultCharmHost)

	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = GetConfigPath()
	}
	var configFile string
	info, err := os.Stat(configPath)
	switch {
	case err == nil && info.IsDir():
		return nil, fmt.Errorf("config path %s is a directory, not a file", configPath)
	case err == nil:
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configPath, err)
		}
		configFile = configPath
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("check config %s: %w", configPath, err)
	}

	redisDB, err := intSetting(v, "redis_db")
	if err != nil {
		return nil, err
	}
	s3UseSSL, err := boolSetting(v, "s3_use_ssl")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ProjectID:       v.GetString("project_id"),
		CredentialsPath: ExpandPath(v.GetString("google_application_credentials")),
		IPInfoToken:     v.GetString("ipinfo_token"),
		IPInfoURL:       strings.TrimRight(v.GetString("ipinfo_url"), "/"),
		Store:           strings.ToLower(v.GetString("store")),
		LogLevel:        v.GetString("log_level"),
		SQLitePath:      ExpandPath(v.GetString("sqlite_path")),
		MongoURI:        v.GetString("mongodb_uri"),
		MongoDatabase:   v.GetString("mongodb_database"),
		RedisAddr:       v.GetString("redis_addr"),
		RedisPassword:   v.GetString("redis_password"),
		RedisDB:         redisDB,
		CharmHost:       v.GetString("charm_host"),
		S3Endpoint:      v.GetString("s3_endpoint"),
		S3Bucket:        v.GetString("s3_bucket"),
		S3AccessKey:     v.GetString("s3_access_key"),
		S3SecretKey:     v.GetString("s3_secret_key"),
		S3UseSSL:        s3UseSSL,
		ConfigFile:      configFile,
	}
	if opts.Store != "" {
		cfg.Store = strings.ToLower(opts.Store)
	}

	if err := cfg.check(opts.Require); err != nil {
		return nil, err
	}
	return cfg, nil
}

// rawSetting returns the trimmed text of a setting, empty when unset.
func rawSetting(v *viper.Viper, key string) string {
	raw := v.Get(key)
	if raw == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(raw))
}

func intSetting(v *viper.Viper, key string) (int, error) {
	raw := rawSetting(v, key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ConfigError{Var: keys[key], Reason: fmt.Sprintf("%q is not an integer", raw)}
	}
	return n, nil
}

func boolSetting(v *viper.Viper, key string) (bool, error) {
	raw := rawSetting(v, key)
	if raw == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, &ConfigError{Var: keys[key], Reason: fmt.Sprintf("%q is not a boolean", raw)}
	}
	return b, nil
}

// check reports the first missing variable, store variables before the token.
func (c *Config) check(req Requirement) error {
	if req&RequireStore != 0 {
		required, err := c.storeVars()
		if err != nil {
			return err
		}
		for _, r := range required {
			if r.value == "" {
				return &ConfigError{Var: r.env}
			}
		}
	}
	if req&RequireGeoToken != 0 && c.IPInfoToken == "" {
		return &ConfigError{Var: EnvIPInfoToken}
	}
	return nil
}

type requiredVar struct {
	env   string
	value string
}

func (c *Config) storeVars() ([]requiredVar, error) {
	switch c.Store {
	case storage.BackendFirestore:
		return []requiredVar{
			{EnvProjectID, c.ProjectID},
			{EnvCredentials, c.CredentialsPath},
		}, nil
	case storage.BackendMongo:
		return []requiredVar{{EnvMongoURI, c.MongoURI}}, nil
	case storage.BackendS3:
		return []requiredVar{
			{EnvS3Endpoint, c.S3Endpoint},
			{EnvS3Bucket, c.S3Bucket},
			{EnvS3AccessKey, c.S3AccessKey},
			{EnvS3SecretKey, c.S3SecretKey},
		}, nil
	case storage.BackendRedis, storage.BackendSQLite, storage.BackendCharm, storage.BackendMemory:
		return nil, nil
	default:
		return nil, &ConfigError{
			Var:    EnvStore,
			Reason: fmt.Sprintf("unknown backend %q (want one of %s)", c.Store, strings.Join(storage.Backends(), ", ")),
		}
	}
}

// StoreOptions returns the options for constructing the configured store.
func (c *Config) StoreOptions() storage.Options {
	return storage.Options{
		Backend: c.Store,
		Firestore: storage.FirestoreOptions{
			ProjectID:       c.ProjectID,
			CredentialsFile: c.CredentialsPath,
		},
		Mongo: storage.MongoOptions{
			URI:      c.MongoURI,
			Database: c.MongoDatabase,
		},
		Redis: storage.RedisOptions{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
		},
		SQLite: storage.SQLiteOptions{
			Path: c.SQLitePath,
		},
		Charm: storage.CharmOptions{
			Host:     c.CharmHost,
			AutoSync: true,
		},
		S3: storage.S3Options{
			Endpoint:  c.S3Endpoint,
			Bucket:    c.S3Bucket,
			AccessKey: c.S3AccessKey,
			SecretKey: c.S3SecretKey,
			UseSSL:    c.S3UseSSL,
		},
	}
}

// OpenStorage constructs the configured document store.
func (c *Config) OpenStorage(ctx context.Context) (storage.DocumentStore, error) {
	return storage.Open(ctx, c.StoreOptions())
}

// defaultDataDir returns the default XDG data directory for adot.
func defaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "adot")
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "adot", "config.yaml")
}
