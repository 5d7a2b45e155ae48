package entrypoint

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/sync/errgroup"

	"github.com/mrlokans/university/internal/audit"
	"github.com/mrlokans/university/internal/config"
	"github.com/mrlokans/university/internal/database"
	auditrepo "github.com/mrlokans/university/internal/database/audit"
	"github.com/mrlokans/university/internal/editor"
	"github.com/mrlokans/university/internal/exporters"
	http_controllers "github.com/mrlokans/university/internal/http"
	"github.com/mrlokans/university/internal/metrics"
	"github.com/mrlokans/university/internal/scheduler"
	"github.com/mrlokans/university/internal/search"
	"github.com/mrlokans/university/internal/tasks"
	"github.com/mrlokans/university/internal/validation"
)

// Names of the maintenance jobs, as shown by /api/tasks/jobs.
const (
	JobAuditCleanup   = "audit_cleanup"
	JobEditorSweep    = "editor_sweep"
	JobExportSnapshot = "export_snapshot"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until ctx is cancelled, then shuts it down
// within the configured timeout. onShutdown runs before the server stops
// accepting requests.
func Serve(ctx context.Context, handler http.Handler, cfg *config.Config, onShutdown ShutdownFunc) error {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		log.Printf("Shutdown Server, waiting %v before killing", timeout)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		// Call shutdown callback first (e.g., to stop task queue)
		if onShutdown != nil {
			onShutdown(shutdownCtx)
		}
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		log.Println("Server exiting")
		return nil
	})

	return eg.Wait()
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting University v%s", version)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := database.Open(database.Options{
		Driver: cfg.Database.Driver,
		Path:   cfg.Database.Path,
		DSN:    cfg.Database.DSN,
	})
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	if cfg.Database.Seed {
		if _, err := db.Seed(); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
	}

	store := database.NewStore(db.DB)
	auditService := audit.NewService(auditrepo.NewRepository(db.DB))
	defer auditService.Wait()

	editorObservers := []editor.Observer{auditService}
	searchObservers := []search.Observer{auditService}
	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
		editorObservers = append(editorObservers, m)
		searchObservers = append(searchObservers, m)
	}

	ed := editor.New(editor.Stores{
		Students:   store.Students,
		Subjects:   store.Subjects,
		Books:      store.Books,
		Classrooms: store.Classrooms,
	}, validation.NewEngine(nil), editorObservers...)

	// Snapshot exporter, local directory or S3 bucket
	dest, err := exporters.OpenDestination(ctx, cfg.Export, "")
	if err != nil {
		log.Fatalf("Failed to open export destination: %v", err)
	}
	snapshotExporter, err := exporters.NewSnapshotExporter(store, dest.Client, dest.Prefix, cfg.Export.Format, cfg.Export.Keep)
	if err != nil {
		log.Fatalf("Failed to initialize snapshot exporter: %v", err)
	}
	log.Printf("Snapshots are written to %s", dest.Location)

	routerCfg := http_controllers.RouterConfig{
		Store:           store,
		Database:        db,
		Editor:          ed,
		SearchObservers: searchObservers,
		Audit:           auditService,
		Metrics:         m,
		SecureCookies:   cfg.Sessions.SecureCookies,
		Snapshots:       snapshotExporter,
		Version:         version,
	}

	// Initialize task queue and maintenance scheduler if enabled
	var taskClient *tasks.Client
	var maintenance *scheduler.MaintenanceScheduler
	taskCtx, taskCtxCancel := context.WithCancel(context.Background())
	defer taskCtxCancel()

	if cfg.Tasks.Enabled {
		taskCfg := tasks.DefaultConfig()
		taskCfg.Workers = cfg.Tasks.Workers
		taskCfg.ReleaseAfter = cfg.Tasks.ReleaseAfter
		taskCfg.CleanupInterval = cfg.Tasks.CleanupInterval
		taskCfg.AuditRetentionDays = cfg.Audit.RetentionDays
		taskCfg.EditorIdleTimeout = cfg.Editor.IdleTimeout

		recordsPath := ""
		if cfg.Database.Driver != database.DriverPostgres {
			recordsPath = cfg.Database.Path
		}
		taskClient, err = tasks.NewClient(tasks.DBPathFor(recordsPath, "."), taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		var sweepRecorder tasks.SweepRecorder
		if m != nil {
			sweepRecorder = m
		}
		taskClient.Register(
			tasks.NewCleanupAuditEventsQueue(auditService, taskCfg.AuditRetentionDays),
			tasks.NewSweepEditorSessionsQueue(ed, taskCfg.EditorIdleTimeout, sweepRecorder),
			tasks.NewExportSnapshotQueue(snapshotExporter),
		)
		taskClient.Start(taskCtx)

		maintenance = scheduler.NewMaintenanceScheduler(taskClient,
			scheduler.Job{
				Name:     JobAuditCleanup,
				Schedule: cfg.Audit.CleanupSchedule,
				Task:     tasks.CleanupAuditEventsTask{RetentionDays: cfg.Audit.RetentionDays},
			},
			scheduler.Job{
				Name:     JobEditorSweep,
				Schedule: cfg.Editor.SweepSchedule,
				Task:     tasks.SweepEditorSessionsTask{IdleSeconds: int(cfg.Editor.IdleTimeout.Seconds())},
			},
			scheduler.Job{
				Name:     JobExportSnapshot,
				Schedule: cfg.Export.Schedule,
				Task:     tasks.ExportSnapshotTask{Reason: "schedule"},
			},
		)
		if err := maintenance.Start(taskCtx); err != nil {
			log.Fatalf("Failed to start maintenance scheduler: %v", err)
		}

		routerCfg.TaskStatus = taskClient
		routerCfg.TaskQueue = taskClient
		routerCfg.Jobs = maintenance
	} else {
		log.Printf("Task queue disabled: exports run inline, maintenance jobs are not scheduled")
	}

	// Browser sessions keep each visitor's search selection
	sessionsDB, err := openSessionsDB(cfg.Sessions.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open sessions database: %v", err)
	}
	defer sessionsDB.Close()

	sessionManager, err := http_controllers.NewSessionManager(sessionsDB, cfg.Sessions)
	if err != nil {
		log.Fatalf("Failed to initialize session manager: %v", err)
	}
	routerCfg.SessionManager = sessionManager

	if cfg.CSRF.Secret != "" {
		routerCfg.CSRFSecret = decodeSecret(cfg.CSRF.Secret)
	} else {
		log.Printf("WARNING: CSRF protection is disabled. Set 'CSRF_SECRET' to a 32-byte value to enable it.")
	}

	router := http_controllers.NewRouter(routerCfg)
	handler := http_controllers.WrapCORS(router, cfg.HTTP.CORSAllowedOrigins)

	// Shutdown callback for graceful cleanup
	onShutdown := func(ctx context.Context) {
		if maintenance != nil {
			maintenance.Stop()
		}
		if taskClient != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	if err := Serve(ctx, handler, cfg, onShutdown); err != nil {
		log.Printf("Server error: %v", err)
	}
}

// openSessionsDB opens the sqlite file backing scs, creating its directory.
func openSessionsDB(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create sessions directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path+"?_journal=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// decodeSecret accepts a hex-encoded key and falls back to the raw bytes.
func decodeSecret(secret string) []byte {
	if key, err := hex.DecodeString(secret); err == nil {
		return key
	}
	return []byte(secret)
}
