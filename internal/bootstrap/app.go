// Package bootstrap assembles the application: configuration in,
// wired router out. Postgres and the Document AI OCR backend are
// optional; absent either, the app degrades to in-memory repositories
// and digital-only extraction.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"justiplay-backend/internal/analyses"
	googleauth "justiplay-backend/internal/auth"
	"justiplay-backend/internal/documents"
	"justiplay-backend/internal/extract"
	"justiplay-backend/internal/llm"
	"justiplay-backend/internal/llm/gemini"
	"justiplay-backend/internal/report"
	"justiplay-backend/internal/shared/config"
	"justiplay-backend/internal/shared/server"
	"justiplay-backend/internal/shared/storage/db"
	"justiplay-backend/internal/shared/storage/object"
	localstore "justiplay-backend/internal/shared/storage/object/local"
	s3store "justiplay-backend/internal/shared/storage/object/s3"
	"justiplay-backend/internal/shared/telemetry"
	"justiplay-backend/internal/users"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore

	DocumentsRepo documents.DocumentsRepo
	AnalysesRepo  analyses.Repo
	UsersRepo     users.Repo

	DocumentsService *documents.Service
	AnalysesService  *analyses.Service
	UsersService     *users.Service
	Reports          *report.Generator

	DocumentsHandler *documents.Handler
	AnalysisHandler  *analyses.Handler
	UsersHandler     *users.Handler
	GoogleAuth       *googleauth.GoogleService
}

// Build prepares all dependencies and the router.
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
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
	}

	if err := buildServices(ctx, app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		AnalysisHandler: app.AnalysisHandler,
		DocumentHandler: app.DocumentsHandler,
		UserHandler:     app.UsersHandler,
		GoogleAuth:      app.GoogleAuth,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildExtractor(ctx context.Context, cfg config.Config) *extract.Router {
	if cfg.GCPProjectID == "" || cfg.DocOCRProcessorID == "" {
		log.Printf("bootstrap: Document AI not configured; scanned documents will be rejected")
		return &extract.Router{}
	}
	ocr, err := extract.NewDocAIClient(ctx, cfg.GCPProjectID, cfg.GCPLocation, cfg.DocOCRProcessorID)
	if err != nil {
		telemetry.Error("bootstrap.docai_unavailable", map[string]any{"error": err.Error()})
		return &extract.Router{}
	}
	return &extract.Router{OCR: ocr}
}

func buildLLM(cfg config.Config) llm.Client {
	if cfg.GeminiAPIKey == "" {
		log.Printf("bootstrap: GEMINI_API_KEY empty; analysis will degrade to fallback results")
		return llm.PlaceholderClient{}
	}
	client, err := gemini.NewClient(cfg.GeminiAPIKey, cfg.LLMModel)
	if err != nil {
		telemetry.Error("bootstrap.gemini_unavailable", map[string]any{"error": err.Error()})
		return llm.PlaceholderClient{}
	}
	return client
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildServices(ctx context.Context, app *App) error {
	if app.DB != nil {
		app.DocumentsRepo = &documents.PGRepo{DB: app.DB}
		app.AnalysesRepo = &analyses.PGRepo{DB: app.DB}
		app.UsersRepo = &users.PGRepo{DB: app.DB}
	} else {
		app.DocumentsRepo = documents.NewMemoryRepo()
		app.AnalysesRepo = analyses.NewMemoryRepo()
		app.UsersRepo = users.NewMemoryRepo()
	}

	app.UsersService = users.NewService(app.UsersRepo)
	app.DocumentsService = &documents.Service{Repo: app.DocumentsRepo}

	if saver, ok := app.Store.(report.ObjectSaver); ok {
		app.Reports = report.NewGenerator(saver)
	}

	analysisSvc := &analyses.Service{
		Repo:      app.AnalysesRepo,
		DocRepo:   app.DocumentsRepo,
		Store:     app.Store,
		Extractor: buildExtractor(ctx, app.Config),
		Analyzer:  &analyses.Analyzer{LLM: buildLLM(app.Config)},
		Progress:  app.UsersService,
		Provider:  app.Config.LLMProvider,
		Model:     app.Config.LLMModel,
	}
	if app.Reports != nil {
		analysisSvc.Reports = app.Reports
	}
	app.AnalysesService = analysisSvc

	app.DocumentsHandler = documents.NewHandler(app.DocumentsService)
	app.AnalysisHandler = analyses.NewHandler(app.AnalysesService)
	app.UsersHandler = users.NewHandler(app.UsersService)
	app.GoogleAuth = googleauth.NewGoogleService(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
		app.UsersService,
	)

	return nil
}
