// Composition root. Owns infrastructure (Redis, Postgres, storage, layout
// engine) and wires the extraction driver, job queue and HTTP API.
package main

import (
	"context"
	"io"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/Abraxas-365/docextract/pkg/config"
	"github.com/Abraxas-365/docextract/pkg/extract"
	"github.com/Abraxas-365/docextract/pkg/extract/extractinfra"
	"github.com/Abraxas-365/docextract/pkg/fsx"
	"github.com/Abraxas-365/docextract/pkg/jobs"
	"github.com/Abraxas-365/docextract/pkg/jobs/jobsredis"
	"github.com/Abraxas-365/docextract/pkg/layout"
	"github.com/Abraxas-365/docextract/pkg/layout/layouthttp"
	"github.com/Abraxas-365/docextract/pkg/layout/layouttess"
	"github.com/Abraxas-365/docextract/pkg/logx"
	"github.com/Abraxas-365/docextract/pkg/sheet"
	"github.com/Abraxas-365/docextract/pkg/storage"
)

// Container holds shared infrastructure and the composed services.
type Container struct {
	Config *config.Config

	// Infrastructure
	DB        *sqlx.DB
	Redis     *redis.Client
	Uploads   fsx.FileSystem
	Artifacts *storage.ArtifactStore
	Engine    layout.Engine

	// Services
	Driver  *extract.Driver
	Queue   *jobsredis.RedisQueue
	Results extract.ResultRepository
	Worker  *jobs.Worker
	API     *ExtractionAPI

	workerDone chan struct{}
}

func NewContainer(cfg *config.Config) *Container {
	logx.Info("🔧 Initializing application container...")

	c := &Container{Config: cfg}

	c.initInfrastructure()
	c.initModules()

	logx.Info("✅ Application container initialized")
	return c
}

// ---------------------------------------------------------------------------
// Infrastructure
// ---------------------------------------------------------------------------

func (c *Container) initInfrastructure() {
	logx.Info("🏗️ Initializing infrastructure...")
	ctx := context.Background()

	// 1. Database (optional, results are also kept on the job record)
	if c.Config.Database.Enabled {
		db, err := sqlx.Connect("postgres", c.Config.Database.DSN())
		if err != nil {
			logx.Fatalf("Failed to connect to database: %v", err)
		}
		db.SetMaxOpenConns(c.Config.Database.MaxOpenConns)
		db.SetMaxIdleConns(c.Config.Database.MaxIdleConns)
		db.SetConnMaxLifetime(c.Config.Database.ConnMaxLifetime)
		c.DB = db
		logx.Info("  ✅ Database connected")
	}

	// 2. Redis
	c.Redis = redis.NewClient(&redis.Options{
		Addr:     c.Config.Redis.Address(),
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.DB,
	})
	if _, err := c.Redis.Ping(ctx).Result(); err != nil {
		logx.Fatalf("Failed to connect to Redis: %v (Redis is required)", err)
	}
	logx.Info("  ✅ Redis connected")

	// 3. File storage
	sc := c.Config.Storage
	uploads, err := storage.OpenFileSystem(ctx, storage.Config{
		Backend:  sc.Backend,
		Bucket:   sc.Bucket,
		Region:   sc.Region,
		LocalDir: sc.UploadDir,
	})
	if err != nil {
		logx.Fatalf("Failed to initialize upload storage: %v", err)
	}
	c.Uploads = uploads

	c.Artifacts, err = storage.Open(ctx, storage.Config{
		Backend:       sc.Backend,
		Bucket:        sc.Bucket,
		Region:        sc.Region,
		Prefix:        sc.Prefix,
		LocalDir:      sc.OutputDir,
		PresignExpiry: sc.PresignExpiry,
		Retries:       sc.Retries,
		RetryBackoff:  sc.RetryBackoff,
	})
	if err != nil {
		logx.Fatalf("Failed to initialize artifact storage: %v", err)
	}
	logx.Infof("  ✅ Storage configured (backend: %s)", sc.Backend)

	// 4. Layout engine
	c.Engine = newEngine(c.Config.Engine)

	logx.Info("✅ Infrastructure initialized")
}

func newEngine(cfg config.EngineConfig) layout.Engine {
	switch cfg.Backend {
	case "tesseract":
		engine, err := layouttess.New()
		if err != nil {
			logx.Fatalf("Failed to initialize Tesseract engine: %v", err)
		}
		logx.Info("  ✅ Tesseract layout engine ready")
		return engine
	case "http", "":
		logx.Infof("  ✅ Layout service at %s%s", cfg.URL, cfg.Endpoint)
		return layouthttp.NewClient(cfg.URL,
			layouthttp.WithEndpoint(cfg.Endpoint),
			layouthttp.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
			layouthttp.WithMaxRetries(cfg.MaxRetries),
			layouthttp.WithCropPadding(cfg.CropPadding),
		)
	default:
		logx.Fatalf("Unknown ENGINE_BACKEND: %s (use 'http' or 'tesseract')", cfg.Backend)
		return nil
	}
}

// ---------------------------------------------------------------------------
// Modules
// ---------------------------------------------------------------------------

func (c *Container) initModules() {
	logx.Info("📦 Initializing modules...")
	ctx := context.Background()

	ec := c.Config.Extraction
	c.Driver = extract.NewDriver(c.Engine, c.Artifacts, sheet.NewConverter(),
		extract.WithSizeFilter(extract.NewMinSizeFilter(ec.MinFigureSide)),
		extract.WithRunStore(func(runID string) extract.Store { return c.Artifacts.ForRun(runID) }),
		extract.WithTempRoot(ec.TempDir),
	)
	logx.Info("  ✅ Extraction driver ready")

	if c.DB != nil {
		repo := extractinfra.NewPostgresResultRepository(c.DB)
		if err := repo.EnsureSchema(ctx); err != nil {
			logx.Fatalf("Failed to prepare results schema: %v", err)
		}
		c.Results = repo
		logx.Info("  ✅ Result repository ready")
	}

	c.Queue = jobsredis.NewRedisQueue(c.Redis, c.Config.Redis.Namespace)

	jc := c.Config.Jobs
	c.Worker = jobs.NewWorker(c.Queue, NewJobHandler(c.Uploads, c.Driver, c.Results, ec.TempDir),
		jobs.WithQueues(jc.Queues...),
		jobs.WithConcurrency(jc.Concurrency),
		jobs.WithPollInterval(jc.PollInterval),
		jobs.WithShutdownTimeout(jc.ShutdownTimeout),
		jobs.WithDequeueTimeout(jc.DequeueTimeout),
		jobs.WithRetryDelay(jc.RetryDelay),
	)

	c.API = NewExtractionAPI(c.Queue, c.Uploads, c.Results, ec, jc)
	logx.Info("  ✅ Job queue ready")
}

// ---------------------------------------------------------------------------
// Lifecycle
// ---------------------------------------------------------------------------

// StartBackgroundServices runs the job worker until ctx is cancelled.
func (c *Container) StartBackgroundServices(ctx context.Context) {
	logx.Info("🔄 Starting background services...")
	c.workerDone = make(chan struct{})
	go func() {
		defer close(c.workerDone)
		if err := c.Worker.Start(ctx); err != nil {
			logx.WithError(err).Error("job worker stopped")
		}
	}()
}

func (c *Container) Cleanup() {
	logx.Info("🧹 Cleaning up resources...")

	if c.workerDone != nil {
		<-c.workerDone
		logx.Info("  ✅ Job worker stopped")
	}

	if closer, ok := c.Engine.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			logx.Errorf("Error closing layout engine: %v", err)
		}
	}

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			logx.Errorf("Error closing database: %v", err)
		} else {
			logx.Info("  ✅ Database connection closed")
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logx.Errorf("Error closing Redis: %v", err)
		} else {
			logx.Info("  ✅ Redis connection closed")
		}
	}

	logx.Info("✅ Cleanup complete")
}
