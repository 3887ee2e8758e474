package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"google.golang.org/genai"

	"a11y-backend/internal/analysis"
	"a11y-backend/internal/artifacts"
	"a11y-backend/internal/imagegen"
	geminiimg "a11y-backend/internal/imagegen/gemini"
	openaiimg "a11y-backend/internal/imagegen/openai"
	"a11y-backend/internal/llm"
	"a11y-backend/internal/llm/gemini"
	"a11y-backend/internal/llm/openai"
	"a11y-backend/internal/shared/config"
	"a11y-backend/internal/shared/metrics"
	"a11y-backend/internal/shared/resilience"
	"a11y-backend/internal/shared/server"
	"a11y-backend/internal/shared/storage/db"
	"a11y-backend/internal/shared/storage/object"
	localstore "a11y-backend/internal/shared/storage/object/local"
	miniostore "a11y-backend/internal/shared/storage/object/minio"
	s3store "a11y-backend/internal/shared/storage/object/s3"
	"a11y-backend/internal/shared/telemetry"
)

// App holds shared dependencies.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	DB              *sql.DB
	Store           object.ObjectStore
	Metrics         *metrics.Metrics
	LLM             llm.Client
	ImageGen        imagegen.Generator
	ArtifactsRepo   artifacts.Repo
	ArtifactsSvc    *artifacts.Service
	AnalysisService *analysis.Service
	AnalysisHandler *analysis.Handler
}

// Build prepares every dependency and the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:  cfg,
		DB:      sqlDB,
		Store:   store,
		Metrics: metrics.New(),
	}

	genaiClient, err := buildLLM(ctx, app)
	if err != nil {
		return nil, err
	}
	if err := buildImageGen(ctx, app, genaiClient); err != nil {
		return nil, err
	}
	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		Metrics:         app.Metrics,
		AnalysisHandler: app.AnalysisHandler,
		DB:              app.DB,
	})

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":          cfg.Env,
		"store":        store.Provider(),
		"database":     sqlDB != nil,
		"llm_provider": cfg.LLMProvider,
		"llm_model":    cfg.LLMModel,
		"imagegen":     cfg.ImageGenProvider,
		"breaker":      cfg.ModelBreakerEnabled,
	})
	return app, nil
}

// Close releases the database pool.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		telemetry.Info("bootstrap.memory_repositories", map[string]any{"reason": "DATABASE_URL empty"})
		return nil, nil
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err == nil {
		err = db.RunMigrations(ctx, sqlDB)
		if err != nil {
			_ = sqlDB.Close()
		}
	}
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.memory_repositories", map[string]any{"reason": "database unavailable", "error": err.Error()})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	case "minio":
		return miniostore.New(ctx, miniostore.Options{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			Region:    cfg.MinioRegion,
			UseSSL:    cfg.MinioUseSSL,
		})
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

// buildLLM selects the model provider, then layers metrics and the optional
// circuit breaker on top. The genai client is returned for reuse by Imagen.
func buildLLM(ctx context.Context, app *App) (*genai.Client, error) {
	cfg := app.Config
	var (
		client      llm.Client
		genaiClient *genai.Client
	)
	switch cfg.LLMProvider {
	case config.ProviderGemini:
		g, err := gemini.NewClient(ctx, gemini.Options{APIKey: cfg.GeminiAPIKey, Model: cfg.LLMModel})
		if err != nil {
			return nil, fmt.Errorf("gemini client: %w", err)
		}
		client, genaiClient = g, g.API()
	case config.ProviderOpenAI:
		o, err := openai.NewClient(openai.Options{APIKey: cfg.OpenAIAPIKey, Model: cfg.LLMModel})
		if err != nil {
			return nil, fmt.Errorf("openai client: %w", err)
		}
		client = o
	default:
		client = llm.PlaceholderClient{}
	}

	breaker := resilience.DefaultConfig()
	breaker.BreakerEnabled = cfg.ModelBreakerEnabled
	app.LLM = resilience.NewGuard(llm.WithObserver(client, app.Metrics), breaker)
	return genaiClient, nil
}

func buildImageGen(ctx context.Context, app *App, genaiClient *genai.Client) error {
	cfg := app.Config
	switch cfg.ImageGenProvider {
	case config.ProviderGemini:
		var (
			g   *geminiimg.Generator
			err error
		)
		if genaiClient != nil {
			g, err = geminiimg.New(genaiClient, cfg.ImageGenModel)
		} else {
			g, err = geminiimg.NewFromKey(ctx, cfg.GeminiAPIKey, cfg.ImageGenModel, "")
		}
		if err != nil {
			return fmt.Errorf("gemini image generator: %w", err)
		}
		app.ImageGen = g
	case config.ProviderOpenAI:
		g, err := openaiimg.New(cfg.OpenAIAPIKey, cfg.ImageGenModel, "")
		if err != nil {
			return fmt.Errorf("openai image generator: %w", err)
		}
		app.ImageGen = g
	default:
		app.ImageGen = imagegen.Disabled{}
	}
	return nil
}

func buildServices(app *App) {
	if app.DB != nil {
		app.ArtifactsRepo = &artifacts.PGRepo{DB: app.DB}
	} else {
		app.ArtifactsRepo = artifacts.NewMemoryRepo()
	}
	app.ArtifactsSvc = &artifacts.Service{Store: app.Store, Repo: app.ArtifactsRepo}

	app.AnalysisService = &analysis.Service{
		LLM:       app.LLM,
		Images:    app.ImageGen,
		Artifacts: app.ArtifactsSvc,
		Metrics:   app.Metrics,
		Timeout:   time.Duration(app.Config.ModelTimeoutSeconds) * time.Second,
	}
	app.AnalysisHandler = analysis.NewHandler(app.AnalysisService, app.Config.MaxUploadBytes)
}
