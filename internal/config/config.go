package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Log
		Auth
		Reading
		Reports
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path        string
		BusyTimeout time.Duration
	}
	Log struct {
		Level      string
		File       string // Empty disables the rotating file sink
		MaxSizeMB  int
		MaxBackups int
		MaxAgeDays int
		Compress   bool
	}
	Auth struct {
		SessionSecret   string
		SessionLifetime time.Duration
		BcryptCost      int
		SecureCookies   bool // Set to false for local dev without HTTPS

		LoginRatePerMinute float64 // Sustained login attempts per IP+username
		LoginBurst         int
	}
	Reading struct {
		MinSessionDuration time.Duration
		MaxSessionDuration time.Duration
	}
	Reports struct {
		RecentWindowDays int
		NewReleasesLimit int
		TopBooksLimit    int
	}
)

// NewConfig builds the configuration from defaults and environment variables.
func NewConfig() *Config {
	cfg, _ := Load("")
	return cfg
}

// Load reads an optional config file and then applies environment overrides.
func Load(file string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return fromViper(v), fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	return fromViper(v), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 8190)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 5)

	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_busy_timeout", "5s")

	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", DefaultLogFile)
	v.SetDefault("log_max_size_mb", 50)
	v.SetDefault("log_max_backups", 3)
	v.SetDefault("log_max_age_days", 28)
	v.SetDefault("log_compress", true)

	// Auth defaults
	v.SetDefault("auth_session_secret", "")      // Auto-generated if empty
	v.SetDefault("auth_session_lifetime", "24h") // 24 hours
	v.SetDefault("auth_bcrypt_cost", 12)         // bcrypt cost factor
	v.SetDefault("auth_secure_cookies", true)    // HTTPS-only cookies
	v.SetDefault("auth_login_rate_per_minute", 5)
	v.SetDefault("auth_login_burst", 5)

	v.SetDefault("reading_min_session_duration", DefaultMinSessionDuration.String())
	v.SetDefault("reading_max_session_duration", DefaultMaxSessionDuration.String())

	v.SetDefault("reports_recent_window_days", DefaultRecentWindowDays)
	v.SetDefault("reports_new_releases_limit", DefaultNewReleasesLimit)
	v.SetDefault("reports_top_books_limit", DefaultTopBooksLimit)
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path:        v.GetString("DATABASE_PATH"),
			BusyTimeout: v.GetDuration("DATABASE_BUSY_TIMEOUT"),
		},
		Log: Log{
			Level:      v.GetString("LOG_LEVEL"),
			File:       v.GetString("LOG_FILE"),
			MaxSizeMB:  v.GetInt("LOG_MAX_SIZE_MB"),
			MaxBackups: v.GetInt("LOG_MAX_BACKUPS"),
			MaxAgeDays: v.GetInt("LOG_MAX_AGE_DAYS"),
			Compress:   v.GetBool("LOG_COMPRESS"),
		},
		Auth: Auth{
			SessionSecret:      v.GetString("AUTH_SESSION_SECRET"),
			SessionLifetime:    v.GetDuration("AUTH_SESSION_LIFETIME"),
			BcryptCost:         v.GetInt("AUTH_BCRYPT_COST"),
			SecureCookies:      v.GetBool("AUTH_SECURE_COOKIES"),
			LoginRatePerMinute: v.GetFloat64("AUTH_LOGIN_RATE_PER_MINUTE"),
			LoginBurst:         v.GetInt("AUTH_LOGIN_BURST"),
		},
		Reading: Reading{
			MinSessionDuration: v.GetDuration("READING_MIN_SESSION_DURATION"),
			MaxSessionDuration: v.GetDuration("READING_MAX_SESSION_DURATION"),
		},
		Reports: Reports{
			RecentWindowDays: v.GetInt("REPORTS_RECENT_WINDOW_DAYS"),
			NewReleasesLimit: v.GetInt("REPORTS_NEW_RELEASES_LIMIT"),
			TopBooksLimit:    v.GetInt("REPORTS_TOP_BOOKS_LIMIT"),
		},
	}
}
