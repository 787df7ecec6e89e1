// Package bootstrap wires configuration into the services and router shared
// by cmd/api and cmd/lambda-http.
package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"resume-builder/internal/autofill"
	"resume-builder/internal/autofill/ocr"
	"resume-builder/internal/autofill/pdfdoc"
	"resume-builder/internal/catalog"
	"resume-builder/internal/host"
	"resume-builder/internal/llm"
	"resume-builder/internal/llm/gemini"
	"resume-builder/internal/llm/openai"
	"resume-builder/internal/relay"
	"resume-builder/internal/session"
	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/server"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/storage/db"
	localstore "resume-builder/internal/shared/storage/object/local"
	s3store "resume-builder/internal/shared/storage/object/s3"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/snapshot"
	"resume-builder/resume/preview"
	"resume-builder/resume/render"
)

const defaultOpenAIModel = "gpt-4o-mini"

// App holds shared dependencies.
type App struct {
	Config    config.Config
	Router    *gin.Engine
	DB        *sql.DB
	Redis     *redis.Client
	Upstream  llm.Suggester
	Catalog   *catalog.Service
	Snapshots *snapshot.Cache
	Nonces    relay.NonceStore
	Host      *host.Service
	Sessions  *session.Service

	closers []func() error
}

// Build validates cfg and prepares every dependency and the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ctx := context.Background()
	app := &App{Config: cfg}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.DB = sqlDB

	if strings.TrimSpace(cfg.RedisURL) != "" {
		client, err := buildRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		app.Redis = client
		app.closers = append(app.closers, client.Close)
	}

	store, err := buildSnapshotStore(ctx, cfg, app.Redis)
	if err != nil {
		return nil, err
	}
	app.Snapshots = snapshot.NewCache(store, time.Now)

	if app.Redis != nil {
		app.Nonces = relay.NewRedisNonces(app.Redis, cfg.NonceTTL)
	} else {
		app.Nonces = relay.NewMemoryNonces(cfg.NonceTTL, time.Now)
	}

	upstream, err := buildUpstream(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if c, ok := upstream.(interface{ Close() error }); ok {
		app.closers = append(app.closers, c.Close)
	}
	app.Upstream = upstream

	catalogSvc, err := buildCatalog(ctx, cfg, app.DB)
	if err != nil {
		return nil, err
	}
	app.Catalog = catalogSvc

	app.Host = &host.Service{Catalog: catalogSvc, Nonces: app.Nonces, AjaxURL: cfg.RelayURL()}
	app.Sessions = session.NewService(sessionDeps(cfg, catalogSvc, app.Snapshots, upstream))

	app.Router = server.NewRouter(server.RouterDeps{
		Config:  cfg,
		Host:    &host.Handler{Svc: app.Host},
		Relay:   relay.NewHandler(app.Nonces, upstream),
		Catalog: catalog.NewHandler(catalogSvc),
		Session: session.NewHandler(app.Sessions),
		Limiter: middleware.NewRateLimiter(nil),
	})

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":            cfg.Env,
		"snapshot_store": cfg.SnapshotStore,
		"llm_provider":   cfg.LLMProvider,
		"ocr_engine":     cfg.OCREngine,
		"database":       app.DB != nil,
		"redis":          app.Redis != nil,
	})
	return app, nil
}

// Close releases clients opened by Build.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	if a.DB != nil && !db.IsLambdaRuntime() {
		if err := a.DB.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Info("bootstrap.database_skipped", map[string]any{"reason": "DATABASE_URL empty; using in-memory templates"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	var (
		sqlDB *sql.DB
		err   error
	)
	if db.IsLambdaRuntime() {
		opts := db.OptionsFromEnv(db.DefaultLambdaOptions())
		sqlDB, err = db.GetSingleton(ctx, cfg.DatabaseURL, opts)
	} else {
		opts := db.OptionsFromEnv(db.DefaultServerOptions())
		sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, opts)
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.database_fallback", map[string]any{"error": err.Error()})
			return nil, nil
		}
		return nil, err
	}

	if isDevLike(cfg.Env) {
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			telemetry.Warn("bootstrap.migrations_failed", map[string]any{"error": err.Error()})
			_ = sqlDB.Close()
			return nil, nil
		}
	}
	return sqlDB, nil
}

func buildRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return client, nil
}

func buildSnapshotStore(ctx context.Context, cfg config.Config, client *redis.Client) (snapshot.Store, error) {
	switch cfg.SnapshotStore {
	case "redis":
		if client == nil {
			return nil, fmt.Errorf("SNAPSHOT_STORE=redis requires REDIS_URL")
		}
		return snapshot.NewRedisStore(client, snapshot.Expiry), nil
	case "s3":
		objects, err := s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
		if err != nil {
			return nil, err
		}
		return snapshot.NewObjectStore(objects), nil
	case "local":
		return snapshot.NewObjectStore(localstore.New(cfg.LocalStoreDir)), nil
	default:
		return snapshot.NewMemoryStore(), nil
	}
}

// buildUpstream returns the provider the relay forwards to. A missing key
// leaves the relay unconfigured rather than failing startup.
func buildUpstream(ctx context.Context, cfg config.Config) (llm.Suggester, error) {
	key := cfg.UpstreamAPIKey()
	if strings.TrimSpace(key) == "" {
		telemetry.Warn("bootstrap.llm_unconfigured", map[string]any{"provider": cfg.LLMProvider})
		return llm.Unconfigured{}, nil
	}
	switch cfg.LLMProvider {
	case "openai":
		model := cfg.LLMModel
		if strings.TrimSpace(model) == "" {
			model = defaultOpenAIModel
		}
		return openai.NewClient(key, model)
	default:
		return gemini.NewClient(ctx, key, cfg.LLMModel)
	}
}

func buildCatalog(ctx context.Context, cfg config.Config, sqlDB *sql.DB) (*catalog.Service, error) {
	var repo catalog.TemplatesRepo
	if sqlDB != nil {
		repo = &catalog.PGRepo{DB: sqlDB}
	} else {
		repo = catalog.NewMemoryRepo()
	}
	svc := catalog.NewService(repo)

	var (
		templates []catalog.Template
		err       error
	)
	if strings.TrimSpace(cfg.TemplatesFile) != "" {
		templates, err = catalog.LoadSeedFile(cfg.TemplatesFile)
	} else {
		templates, err = catalog.DefaultSeed()
	}
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	if err := svc.Seed(ctx, templates); err != nil {
		return nil, err
	}
	return svc, nil
}

func sessionDeps(cfg config.Config, catalogSvc *catalog.Service, snapshots *snapshot.Cache, upstream llm.Suggester) session.Deps {
	engine := ocr.New(cfg.OCREngine, cfg.TesseractPath)
	var raster pdfdoc.Rasterizer = pdfdoc.NoRaster{}
	if engine.NeedsRaster() {
		raster = pdfdoc.NewPdftoppm(cfg.PdftoppmPath)
	}
	chrome := render.NewChrome(cfg.ChromePath)

	return session.Deps{
		Catalog:   catalogSvc,
		Snapshots: snapshots,
		Suggester: upstream,
		Docx:      render.NewDocxRenderer(),
		Pdf:       render.NewPdfRenderer(chrome),
		Surface: func(html []byte) render.Surface {
			return &render.HTMLSurface{Chrome: chrome, HTML: string(html), Selector: preview.RootSelector}
		},
		NewPipeline: func() *autofill.Pipeline {
			return autofill.New(raster, engine, upstream)
		},
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local", "test":
		return true
	default:
		return false
	}
}
