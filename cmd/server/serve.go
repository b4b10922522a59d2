package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/Luismorlan/tunemux/app_config"
	"github.com/Luismorlan/tunemux/auth"
	"github.com/Luismorlan/tunemux/file_store"
	"github.com/Luismorlan/tunemux/repository"
	"github.com/Luismorlan/tunemux/server"
	"github.com/Luismorlan/tunemux/service"
	"github.com/Luismorlan/tunemux/utils"
	. "github.com/Luismorlan/tunemux/utils/log"
	"github.com/Luismorlan/tunemux/worker"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"
)

const (
	shutdownTimeout = 10 * time.Second
)

// newFileStore returns the configured store, and the folder to serve under
// /assets when files are kept locally.
func newFileStore(config app_config.ServerAppConfig) (file_store.FileStore, string, error) {
	if config.STORAGE_BACKEND == app_config.StorageS3 {
		store, err := file_store.NewS3FileStore(config.S3_BUCKET, config.S3_REGION, config.S3_BUCKET_BASE_URL)
		return store, "", err
	}
	store, err := file_store.NewLocalFileStore(config.LOCAL_STORAGE_DIR, config.LOCAL_STORAGE_BASE_URL)
	if err != nil {
		return nil, "", err
	}
	return store, store.FolderName(), nil
}

func jwtSecret(config app_config.ServerAppConfig) (string, error) {
	if config.JWT_SECRET != "" {
		return config.JWT_SECRET, nil
	}
	if utils.IsProdEnv() {
		return "", errors.New("JWT_SECRET is required in production")
	}
	Log.Warn("JWT_SECRET is not set, tokens will not survive a restart")
	return uuid.NewString(), nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if config.DATADOG_ENABLED {
		utils.StartTracer(config.SERVICE_NAME)
		defer utils.CloseTracer()
		if err := utils.StartProfiler(config.SERVICE_NAME); err != nil {
			Log.Warnf("fail to start profiler: %s", err)
		}
		defer utils.CloseProfiler()
	}

	db, err := utils.OpenDatabase(config.DATABASE_DRIVER, config.SQLITE_PATH)
	if err != nil {
		return errors.Wrap(err, "fail to connect to database")
	}
	if config.AUTO_MIGRATE {
		if err := utils.DatabaseSetupAndMigration(db); err != nil {
			return err
		}
	}

	secret, err := jwtSecret(config)
	if err != nil {
		return err
	}
	tokens := auth.NewJWTManager(secret, config.TokenTTL())

	store, assetsDir, err := newFileStore(config)
	if err != nil {
		return errors.Wrap(err, "fail to set up file store")
	}

	tx := repository.NewTransactor(db)
	edges := repository.NewEdgeManager(db)
	users := repository.NewUserRepository(db, edges)
	songs := repository.NewSongRepository(db, edges)
	playlists := repository.NewPlaylistRepository(db, edges)
	jobs := service.NewAssetJobService(tx, repository.NewAssetJobRepository(db), songs, store, config.SPOOL_DIR)
	songService := service.NewSongService(tx, songs, users, store)

	// Jobs of a previous process cannot be resumed, their spooled files are
	// owned by nobody anymore.
	if n, err := jobs.FailUnfinished(ctx); err != nil {
		return err
	} else if n > 0 {
		Log.Warnf("marked %d unfinished asset job(s) as failed", n)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	engine, orchestrator := startWorker(config, jobs)
	select {
	case <-orchestrator.Ready():
	case <-ctx.Done():
		engine.Shutdown()
		return nil
	}
	if config.ASSET_PROCESSING == app_config.AssetProcessingAsync {
		songService.WithAssetJobs(jobs)
	}

	router := server.NewRouter(server.RouterConfig{
		ServiceName:    config.SERVICE_NAME,
		AllowedOrigins: config.CORS_ALLOWED_ORIGINS,
		Tracing:        config.DATADOG_ENABLED,
		AssetsDir:      assetsDir,
	}, server.Services{
		Auth:      service.NewAuthService(users, tokens, tokens),
		Songs:     songService,
		Playlists: service.NewPlaylistService(tx, playlists, songs),
		Users:     service.NewUserService(tx, users, store),
		Jobs:      jobs,
	})
	srv := &http.Server{Addr: config.HTTP_ADDR, Handler: router}

	served := make(chan error, 1)
	go func() {
		served <- srv.ListenAndServe()
	}()
	Log.Infof("api server starts up on %s", config.HTTP_ADDR)

	select {
	case err = <-served:
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err = srv.Shutdown(shutdownCtx)
	}
	// The worker outlives the HTTP server so accepted uploads still get
	// enqueued while requests drain.
	engine.Shutdown()

	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	Log.Info("api server shutdown")
	return nil
}

// startWorker runs the asset job pipeline in the background and wires the job
// service to it.
func startWorker(config app_config.ServerAppConfig, jobs *service.AssetJobService) (*worker.Engine, *worker.Orchestrator) {
	eventbus := worker.NewEventBus()
	jobs.SetQueue(worker.NewAssetJobDoer(eventbus))

	orchestrator := worker.NewOrchestrator(worker.OrchestratorConfig{
		Name: "asset_job_orchestrator",
		Retry: worker.RetryPolicy{
			MaxAttempts:    config.JOB_MAX_ATTEMPTS,
			AttemptTimeout: config.JobAttemptTimeout(),
			Backoff:        config.JobRetryBackoff(),
		},
	}, jobs, eventbus)

	var stats worker.Statsd
	if config.DATADOG_ENABLED {
		client, err := statsd.New(config.STATSD_ADDR)
		if err != nil {
			Log.Warnf("fail to create statsd client: %s", err)
		} else {
			stats = client
		}
	}
	reporter := worker.NewReporter(worker.ReporterConfig{Name: "asset_job_reporter"}, stats, eventbus)

	ctx, cancel := context.WithCancel(context.Background())
	engine := worker.NewEngine([]worker.Module{orchestrator, reporter}, ctx, cancel, eventbus)
	engine.Start()
	return engine, orchestrator
}
