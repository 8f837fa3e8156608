package config

import "time"

// Fetch backends
const (
	FetchBackendYTDL = "ytdl"
	FetchBackendHTTP = "http"
)

// Loudness window modes
const (
	WindowAnchored = "anchored"
	WindowAligned  = "aligned"
)

// Config represents the complete application configuration
type Config struct {
	Environment  string           `mapstructure:"environment"`
	Server       ServerConfig     `mapstructure:"server"`
	Database     DatabaseConfig   `mapstructure:"database"`
	Storage      StorageConfig    `mapstructure:"storage"`
	Fetch        FetchConfig      `mapstructure:"fetch"`
	Processing   ProcessingConfig `mapstructure:"processing"`
	Pipeline     PipelineConfig   `mapstructure:"pipeline"`
	RateLimiting RateLimitConfig  `mapstructure:"rate_limiting"`
	Logging      LoggingConfig    `mapstructure:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxHeaderBytes  int           `mapstructure:"max_header_bytes"`
}

// DatabaseConfig contains analysis ledger settings. An empty path disables the ledger.
type DatabaseConfig struct {
	Path    string `mapstructure:"path"`
	Verbose bool   `mapstructure:"verbose"`
}

// StorageConfig contains storage settings
type StorageConfig struct {
	CacheDir string `mapstructure:"cache_dir"`
	// Temporary files older than TempMaxAge are swept by the server and the clean command
	TempMaxAge      time.Duration `mapstructure:"temp_max_age"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// FetchConfig contains media fetcher settings
type FetchConfig struct {
	Backend       string        `mapstructure:"backend"`
	YTDLPath      string        `mapstructure:"ytdl_path"`
	Format        string        `mapstructure:"format"`
	WriteInfoJSON bool          `mapstructure:"write_info_json"`
	URLTemplate   string        `mapstructure:"url_template"`
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxSize       int64         `mapstructure:"max_size"`
	UserAgent     string        `mapstructure:"user_agent"`
}

// ProcessingConfig contains transcoding and summarizing settings
type ProcessingConfig struct {
	FFmpegPath  string `mapstructure:"ffmpeg_path"`
	FFprobePath string `mapstructure:"ffprobe_path"`
	Window      string `mapstructure:"window"`
	// Zero keeps what the loudnorm filter produces
	SampleRate int `mapstructure:"sample_rate"`
	Channels   int `mapstructure:"channels"`
}

// PipelineConfig contains cache keying settings
type PipelineConfig struct {
	// Version namespaces derived artifacts; empty keeps the plain <id>.<ext> names
	Version string `mapstructure:"version"`
}

// RateLimitConfig contains per-client HTTP rate limiting settings
type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerSecond int  `mapstructure:"requests_per_second"`
	Burst             int  `mapstructure:"burst"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	Dir        string `mapstructure:"dir"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}
