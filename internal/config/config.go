package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Audit
		Tasks
		Sessions
		CSRF
		Metrics
		Editor
		Export
	}

	HTTP struct {
		Port               int32
		Host               string
		CORSAllowedOrigins []string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Driver string // sqlite or postgres
		Path   string
		DSN    string
		Seed   bool // Insert sample records into an empty store on start
	}
	Audit struct {
		RetentionDays   int    // Days to keep audit events (default: 90)
		CleanupSchedule string // Cron format: "0 3 * * *" = daily at 03:00
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	Sessions struct {
		DatabasePath  string
		Lifetime      time.Duration
		SecureCookies bool // Set to false for local dev without HTTPS
	}
	CSRF struct {
		Secret string // 32 bytes; CSRF protection is off when empty
	}
	Metrics struct {
		Enabled bool
	}
	Editor struct {
		IdleTimeout   time.Duration
		SweepSchedule string
	}
	Export struct {
		Dir          string
		Format       string // json, yaml or markdown
		Keep         int    // Snapshots retained; 0 keeps all
		Schedule     string // Empty disables scheduled exports
		S3Bucket     string
		S3Prefix     string
		S3Region     string
		S3Endpoint   string
		S3PathStyle  bool
		S3AccessKey  string
		S3SecretKey  string
		S3Configured bool
	}
)

// LoadDotEnv loads key=value pairs from the given files into the process
// environment without overriding variables that are already set. Missing
// files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{DefaultDotEnvFile}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
		log.Printf("Loaded environment from %s", p)
	}
	return nil
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8189)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 5)
	v.SetDefault("cors_allowed_origins", "")

	v.SetDefault("database_driver", "sqlite")
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_dsn", "")
	v.SetDefault("database_seed", true)

	v.SetDefault("audit_retention_days", 90)
	v.SetDefault("audit_cleanup_schedule", "0 3 * * *") // Daily at 03:00

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	// Session defaults
	v.SetDefault("sessions_database_path", DefaultSessionsDatabasePath)
	v.SetDefault("session_lifetime", "12h")
	v.SetDefault("session_secure_cookies", false)

	v.SetDefault("csrf_secret", "")
	v.SetDefault("metrics_enabled", true)

	v.SetDefault("editor_idle_timeout", "30m")
	v.SetDefault("editor_sweep_schedule", "*/5 * * * *")

	// Snapshot export defaults
	v.SetDefault("export_dir", DefaultExportDir)
	v.SetDefault("export_format", "json")
	v.SetDefault("export_keep", 14)
	v.SetDefault("export_schedule", "")
	v.SetDefault("export_s3_bucket", "")
	v.SetDefault("export_s3_prefix", "snapshots")
	v.SetDefault("export_s3_region", "us-east-1")
	v.SetDefault("export_s3_endpoint", "")
	v.SetDefault("export_s3_path_style", false)
	v.SetDefault("export_s3_access_key_id", "")
	v.SetDefault("export_s3_secret_access_key", "")

	bucket := v.GetString("EXPORT_S3_BUCKET")

	return &Config{
		HTTP: HTTP{
			Port:               v.GetInt32("PORT"),
			Host:               v.GetString("HOST"),
			CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Driver: v.GetString("DATABASE_DRIVER"),
			Path:   v.GetString("DATABASE_PATH"),
			DSN:    v.GetString("DATABASE_DSN"),
			Seed:   v.GetBool("DATABASE_SEED"),
		},
		Audit: Audit{
			RetentionDays:   v.GetInt("AUDIT_RETENTION_DAYS"),
			CleanupSchedule: v.GetString("AUDIT_CLEANUP_SCHEDULE"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Sessions: Sessions{
			DatabasePath:  v.GetString("SESSIONS_DATABASE_PATH"),
			Lifetime:      v.GetDuration("SESSION_LIFETIME"),
			SecureCookies: v.GetBool("SESSION_SECURE_COOKIES"),
		},
		CSRF: CSRF{
			Secret: v.GetString("CSRF_SECRET"),
		},
		Metrics: Metrics{
			Enabled: v.GetBool("METRICS_ENABLED"),
		},
		Editor: Editor{
			IdleTimeout:   v.GetDuration("EDITOR_IDLE_TIMEOUT"),
			SweepSchedule: v.GetString("EDITOR_SWEEP_SCHEDULE"),
		},
		Export: Export{
			Dir:          v.GetString("EXPORT_DIR"),
			Format:       v.GetString("EXPORT_FORMAT"),
			Keep:         v.GetInt("EXPORT_KEEP"),
			Schedule:     v.GetString("EXPORT_SCHEDULE"),
			S3Bucket:     bucket,
			S3Prefix:     v.GetString("EXPORT_S3_PREFIX"),
			S3Region:     v.GetString("EXPORT_S3_REGION"),
			S3Endpoint:   v.GetString("EXPORT_S3_ENDPOINT"),
			S3PathStyle:  v.GetBool("EXPORT_S3_PATH_STYLE"),
			S3AccessKey:  v.GetString("EXPORT_S3_ACCESS_KEY_ID"),
			S3SecretKey:  v.GetString("EXPORT_S3_SECRET_ACCESS_KEY"),
			S3Configured: bucket != "",
		},
	}
}

// splitList parses a comma-separated env value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
