// Package config resolves service settings from defaults, an optional
// YAML file, a .env file and the process environment, in that order.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/therealmvp/cache"
	"github.com/therealmvp/data"
	"gopkg.in/yaml.v2"
)

// DefaultEChartsURL is the ECharts build go-echarts pages load by default.
const DefaultEChartsURL = "https://go-echarts.github.io/go-echarts-assets/assets/echarts.min.js"

type Config struct {
	Addr           string      `yaml:"addr"`
	Source         string      `yaml:"source"`
	Season         string      `yaml:"season"`
	EChartsURL     string      `yaml:"echarts_url"`
	AllowedOrigins []string    `yaml:"allowed_origins"`
	LogDir         string      `yaml:"log_dir"`
	Debug          bool        `yaml:"debug"`
	OpenBrowser    bool        `yaml:"open_browser"`
	Cache          CacheConfig `yaml:"cache"`
}

type CacheConfig struct {
	Backend    string        `yaml:"backend"`
	Dir        string        `yaml:"dir"`
	RedisAddr  string        `yaml:"redis_addr"`
	SQLitePath string        `yaml:"sqlite_path"`
	TTL        time.Duration `yaml:"ttl"`
}

// Store converts the cache section into the cache package's settings.
func (c CacheConfig) Store() cache.Config {
	return cache.Config{
		Backend:    c.Backend,
		Dir:        c.Dir,
		RedisAddr:  c.RedisAddr,
		SQLitePath: c.SQLitePath,
		TTL:        c.TTL,
	}
}

func Default() Config {
	return Config{
		Addr:           ":8080",
		Source:         data.DefaultPath,
		Season:         "2018-2019 Regular Season",
		EChartsURL:     DefaultEChartsURL,
		AllowedOrigins: []string{"http://localhost:3000"},
		LogDir:         "logs",
		Cache: CacheConfig{
			Backend:    cache.BackendNone,
			Dir:        "mvp_data",
			RedisAddr:  "localhost:6379",
			SQLitePath: "./therealmvp.db",
			TTL:        2 * time.Hour,
		},
	}
}

// Load builds the configuration. configPath may be empty. envFiles default
// to ".env"; missing env files are not an error.
func Load(configPath string, envFiles ...string) (Config, error) {
	cfg := Default()

	if configPath != "" {
		raw, err := os.ReadFile(configPath)
		if err != nil {
			return cfg, errors.Wrapf(err, "failed to read config file %s", configPath)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, errors.Wrapf(err, "failed to parse config file %s", configPath)
		}
	}

	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, errors.Wrapf(err, "failed to load env file %s", f)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Addr = getEnv("MVP_ADDR", cfg.Addr)
	cfg.Source = getEnv("MVP_SOURCE", cfg.Source)
	cfg.Season = getEnv("MVP_SEASON", cfg.Season)
	cfg.EChartsURL = getEnv("MVP_ECHARTS_URL", cfg.EChartsURL)
	cfg.LogDir = getEnv("MVP_LOG_DIR", cfg.LogDir)
	cfg.Debug = getEnvBool("MVP_DEBUG", cfg.Debug)
	cfg.OpenBrowser = getEnvBool("MVP_OPEN_BROWSER", cfg.OpenBrowser)
	if origins := os.Getenv("MVP_ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = strings.Split(origins, ",")
	}

	cfg.Cache.Backend = getEnv("MVP_CACHE_BACKEND", cfg.Cache.Backend)
	cfg.Cache.Dir = getEnv("MVP_CACHE_DIR", cfg.Cache.Dir)
	cfg.Cache.RedisAddr = getEnv("MVP_REDIS_ADDR", cfg.Cache.RedisAddr)
	cfg.Cache.SQLitePath = getEnv("MVP_SQLITE_PATH", cfg.Cache.SQLitePath)
	cfg.Cache.TTL = getEnvDuration("MVP_CACHE_TTL", cfg.Cache.TTL)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
