package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/matzehuels/layoutdsl/pkg/cache"
	"github.com/matzehuels/layoutdsl/pkg/server"
	"github.com/matzehuels/layoutdsl/pkg/store"
)

// Cache backends.
const (
	backendFile   = "file"
	backendMemory = "memory"
	backendRedis  = "redis"
	backendMongo  = "mongo"
	backendNone   = "none"
)

// envPrefix prefixes every environment override.
const envPrefix = "LAYOUTDSL_"

// Config is the layoutdsl configuration file.
//
//	[cache]
//	backend = "redis"
//	[cache.redis]
//	addr = "localhost:6379"
//
//	[store]
//	backend = "mongo"
//	[store.mongo]
//	uri = "mongodb://localhost:27017"
//
//	[server]
//	addr = ":8080"
type Config struct {
	Cache  CacheConfig   `toml:"cache"`
	Store  StoreConfig   `toml:"store"`
	Server server.Config `toml:"server"`
	Render RenderConfig  `toml:"render"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	// Backend is one of file, memory, redis or none.
	Backend    string            `toml:"backend"`
	Dir        string            `toml:"dir"`
	MemorySize int               `toml:"memory_size"`
	Redis      cache.RedisConfig `toml:"redis"`
}

// StoreConfig selects the interpretation history backend used by serve.
type StoreConfig struct {
	// Backend is one of memory, mongo or none.
	Backend string `toml:"backend"`
	// MemorySize caps the records kept by the memory backend.
	MemorySize int               `toml:"memory_size"`
	Mongo      store.MongoConfig `toml:"mongo"`
}

// RenderConfig holds render defaults.
type RenderConfig struct {
	RankDir string `toml:"rank_dir"`
}

// defaultConfig returns the configuration used when no file exists.
func defaultConfig() Config {
	return Config{
		Cache: CacheConfig{Backend: backendFile},
		Store: StoreConfig{Backend: backendMemory},
	}
}

// configPath returns the config file location using XDG standard
// (~/.config/layoutdsl/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// loadConfig reads the config file at path, then applies environment
// overrides. A missing file is not an error unless the path was given
// explicitly. Unknown keys are logged and ignored.
func loadConfig(path string, explicit bool, logger *log.Logger) (Config, error) {
	cfg := defaultConfig()

	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		switch {
		case err == nil:
			for _, key := range md.Undecoded() {
				logger.Warn("unknown config key", "key", key.String(), "file", path)
			}
			logger.Debug("loaded config", "file", path)
		case errors.Is(err, fs.ErrNotExist) && !explicit:
		default:
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg, os.Getenv); err != nil {
		return cfg, err
	}
	return cfg, cfg.validate()
}

// loadDotEnv loads .env from the working directory when present. Variables
// already set in the environment win.
func loadDotEnv(logger *log.Logger) {
	if err := godotenv.Load(); err == nil {
		logger.Debug("loaded .env")
	} else if !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("ignoring .env", "err", err)
	}
}

// applyEnv overrides cfg from LAYOUTDSL_* variables.
func applyEnv(cfg *Config, getenv func(string) string) error {
	str := func(name string, dst *string) {
		if v := getenv(envPrefix + name); v != "" {
			*dst = v
		}
	}
	integer := func(name string, dst *int) error {
		v := getenv(envPrefix + name)
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s%s: %q is not an integer", envPrefix, name, v)
		}
		*dst = n
		return nil
	}

	str("CACHE_BACKEND", &cfg.Cache.Backend)
	str("CACHE_DIR", &cfg.Cache.Dir)
	str("REDIS_ADDR", &cfg.Cache.Redis.Addr)
	str("REDIS_PASSWORD", &cfg.Cache.Redis.Password)
	str("REDIS_PREFIX", &cfg.Cache.Redis.Prefix)
	str("STORE_BACKEND", &cfg.Store.Backend)
	str("MONGO_URI", &cfg.Store.Mongo.URI)
	str("MONGO_DATABASE", &cfg.Store.Mongo.Database)
	str("ADDR", &cfg.Server.Addr)
	str("RANK_DIR", &cfg.Render.RankDir)

	if v := getenv(envPrefix + "ALLOWED_ORIGINS"); v != "" {
		cfg.Server.AllowedOrigins = nil
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.Server.AllowedOrigins = append(cfg.Server.AllowedOrigins, o)
			}
		}
	}
	if err := integer("REDIS_DB", &cfg.Cache.Redis.DB); err != nil {
		return err
	}
	if err := integer("CACHE_MEMORY_SIZE", &cfg.Cache.MemorySize); err != nil {
		return err
	}
	return integer("STORE_MEMORY_SIZE", &cfg.Store.MemorySize)
}

func (c *Config) validate() error {
	c.Cache.Backend = strings.ToLower(c.Cache.Backend)
	switch c.Cache.Backend {
	case backendFile, backendMemory, backendRedis, backendNone:
	default:
		return fmt.Errorf("cache.backend: unknown backend %q (use file, memory, redis or none)", c.Cache.Backend)
	}
	c.Store.Backend = strings.ToLower(c.Store.Backend)
	switch c.Store.Backend {
	case backendMemory, backendMongo, backendNone:
	default:
		return fmt.Errorf("store.backend: unknown backend %q (use memory, mongo or none)", c.Store.Backend)
	}
	return nil
}

// openCache builds the configured cache. noCache forces a NullCache.
func openCache(ctx context.Context, cfg CacheConfig, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Backend {
	case backendNone:
		return cache.NewNullCache(), nil
	case backendMemory:
		return cache.NewMemoryCache(cfg.MemorySize)
	case backendRedis:
		return cache.NewRedisCache(ctx, cfg.Redis)
	default:
		dir := cfg.Dir
		if dir == "" {
			d, err := cacheDir()
			if err != nil {
				return cache.NewNullCache(), nil
			}
			dir = d
		}
		return cache.NewFileCache(dir)
	}
}

// openStore builds the configured history store. It returns nil for the
// none backend.
func openStore(ctx context.Context, cfg StoreConfig) (store.Store, error) {
	switch cfg.Backend {
	case backendNone:
		return nil, nil
	case backendMongo:
		return store.NewMongoStore(ctx, cfg.Mongo)
	default:
		st, err := store.NewMemoryStore(cfg.MemorySize)
		if err != nil {
			return nil, err
		}
		return st, nil
	}
}
