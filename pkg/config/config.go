package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	once    sync.Once
	initErr error
)

// Init initializes the configuration system
// This should be called once at application startup
func Init() error {
	once.Do(func() {
		initErr = load()
	})

	return initErr
}

// load reads defaults, .env, the optional settings file and the environment
func load() error {
	setDefaults()

	// A missing .env is the normal case outside local development
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error reading .env file: %w", err)
	}

	viper.SetEnvPrefix("HEROTREND")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	configPath := filepath.Clean("./config/settings.yaml")
	viper.SetConfigFile(configPath)

	if err := viper.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("error reading config file %s: %w", configPath, err)
		}
	}

	if err := validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// GetConfig returns the current configuration as a struct
// Init() must be called before using this
func GetConfig() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &config, nil
}

// GetString returns a string config value
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetDuration returns a time.Duration config value
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}

// validate validates the configuration using Viper values
func validate() error {
	port := viper.GetInt("server.port")
	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid server port: %d", port)
	}

	if viper.GetString("storage.cache_dir") == "" {
		return fmt.Errorf("storage.cache_dir must not be empty")
	}

	if viper.GetDuration("storage.cleanup_interval") <= 0 {
		viper.Set("storage.cleanup_interval", 15*time.Minute)
	}

	switch viper.GetString("fetch.backend") {
	case FetchBackendYTDL, FetchBackendHTTP:
	default:
		return fmt.Errorf("unknown fetch backend: %q", viper.GetString("fetch.backend"))
	}

	if viper.GetString("fetch.backend") == FetchBackendHTTP &&
		!strings.Contains(viper.GetString("fetch.url_template"), "{id}") {
		return fmt.Errorf("fetch.url_template must contain {id} when using the http backend")
	}

	if viper.GetInt("processing.sample_rate") < 0 || viper.GetInt("processing.channels") < 0 {
		return fmt.Errorf("processing.sample_rate and processing.channels must not be negative")
	}

	switch viper.GetString("processing.window") {
	case WindowAnchored, WindowAligned:
	default:
		return fmt.Errorf("unknown processing window: %q", viper.GetString("processing.window"))
	}

	// Auto-correct an invalid rate limit
	if viper.GetInt("rate_limiting.requests_per_second") <= 0 {
		viper.Set("rate_limiting.requests_per_second", 5)
	}

	return nil
}

// Validate validates a Config struct (for testing)
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Storage.CacheDir == "" {
		return fmt.Errorf("storage.cache_dir must not be empty")
	}

	if c.Fetch.Backend != FetchBackendYTDL && c.Fetch.Backend != FetchBackendHTTP {
		return fmt.Errorf("unknown fetch backend: %q", c.Fetch.Backend)
	}

	if c.Processing.Window != WindowAnchored && c.Processing.Window != WindowAligned {
		return fmt.Errorf("unknown processing window: %q", c.Processing.Window)
	}

	if c.RateLimiting.RequestsPerSecond <= 0 {
		c.RateLimiting.RequestsPerSecond = 5
	}

	return nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("environment", "development")

	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	// Pipeline runs are synchronous and can take minutes on long tracks
	viper.SetDefault("server.write_timeout", 0)
	viper.SetDefault("server.shutdown_timeout", 10*time.Second)
	viper.SetDefault("server.max_header_bytes", 1048576)

	// Database defaults
	viper.SetDefault("database.path", "./data/herotrend.db")
	viper.SetDefault("database.verbose", false)

	// Storage defaults
	viper.SetDefault("storage.cache_dir", "./cache")
	viper.SetDefault("storage.temp_max_age", time.Hour)
	viper.SetDefault("storage.cleanup_interval", 15*time.Minute)

	// Fetch defaults
	viper.SetDefault("fetch.backend", FetchBackendYTDL)
	viper.SetDefault("fetch.ytdl_path", "yt-dlp")
	viper.SetDefault("fetch.format", "18")
	viper.SetDefault("fetch.write_info_json", true)
	viper.SetDefault("fetch.url_template", "")
	viper.SetDefault("fetch.timeout", 0)
	viper.SetDefault("fetch.max_size", 2147483648)
	viper.SetDefault("fetch.user_agent", "herotrend/1.0")

	// Processing defaults
	viper.SetDefault("processing.ffmpeg_path", "ffmpeg")
	viper.SetDefault("processing.ffprobe_path", "ffprobe")
	viper.SetDefault("processing.window", WindowAnchored)
	viper.SetDefault("processing.sample_rate", 0)
	viper.SetDefault("processing.channels", 0)

	// Pipeline defaults
	viper.SetDefault("pipeline.version", "")

	// Rate limiting defaults
	viper.SetDefault("rate_limiting.enabled", true)
	viper.SetDefault("rate_limiting.requests_per_second", 5)
	viper.SetDefault("rate_limiting.burst", 10)

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "console")
	viper.SetDefault("logging.output", "file")
	viper.SetDefault("logging.dir", "./logs")
	viper.SetDefault("logging.max_size", 100)
	viper.SetDefault("logging.max_backups", 10)
	viper.SetDefault("logging.max_age", 30)
	viper.SetDefault("logging.compress", false)
}
