package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mindmentor/study-craft/internal/ai"
	"mindmentor/study-craft/internal/api"
	"mindmentor/study-craft/internal/cache"
	"mindmentor/study-craft/internal/config"
	"mindmentor/study-craft/internal/logger"
	"mindmentor/study-craft/internal/repository/mongo"
	"mindmentor/study-craft/internal/search"
	"mindmentor/study-craft/internal/service"
	"mindmentor/study-craft/internal/storage"
	"mindmentor/study-craft/internal/tracing"

	"github.com/gin-gonic/gin"
)

// @title Study Craft API
// @version 1.0
// @description AI study plans and curated learning resources.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		panic("could not load config: " + err.Error())
	}

	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		panic("could not build logger: " + err.Error())
	}
	defer log.Sync()
	log.Info("Starting Study Craft server...", "address", cfg.Server.Address, "gin_mode", cfg.Server.Mode)

	// --- Tracing ---
	shutdownTracing, err := tracing.Init(context.Background(), cfg.Tracing, log)
	if err != nil {
		log.Fatal("Could not initialize tracing", "error", err)
	}

	// --- Database Connection ---
	connectCtx, cancelConnect := context.WithTimeout(context.Background(), 10*time.Second)
	dbClient, err := mongo.ConnectDB(connectCtx, cfg.Database.URI)
	cancelConnect()
	if err != nil {
		log.Fatal("Could not connect to MongoDB", "error", err)
	}
	defer func() {
		log.Info("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Error("Failed to disconnect MongoDB", "error", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Info("Database connection established.", "database", cfg.Database.Name)

	// --- Ensure Indexes ---
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := mongo.EnsureIndexes(ctx, appDB); err != nil {
			log.Error("Index creation failed", "error", err)
			return
		}
		log.Info("Index creation process completed.")
	}()

	// --- Search ---
	searchCache, err := cache.New(cfg.Cache.Driver, cfg.Cache.RedisURL)
	if err != nil {
		log.Fatal("Could not initialize search cache", "error", err, "driver", cfg.Cache.Driver)
	}
	if closer, ok := searchCache.(io.Closer); ok {
		defer closer.Close()
	}
	if pinger, ok := searchCache.(interface{ Ping(context.Context) error }); ok {
		pingCtx, cancelPing := context.WithTimeout(context.Background(), 3*time.Second)
		if err := pinger.Ping(pingCtx); err != nil {
			log.Warn("Search cache unreachable, lookups will miss until it recovers", "error", err)
		}
		cancelPing()
	}
	searcher := search.NewTavilyClient(cfg.Tavily, searchCache, cfg.Cache.TTL, log)
	if cfg.Tavily.APIKey == "" {
		log.Warn("TAVILY_API_KEY is not set, generation will run without search context")
	}

	// --- Generative model ---
	generator, err := ai.NewGeminiGenerator(context.Background(), cfg.Gemini, log)
	if err != nil {
		log.Fatal("Could not initialize Gemini client", "error", err)
	}
	defer generator.Close()
	engine := ai.NewEngine(generator, log)

	// --- Storage (optional, powers plan export) ---
	var fileStorage storage.FileStorage
	if cfg.S3.Enabled() {
		fileStorage, err = storage.NewS3Storage(context.Background(), cfg.S3, log)
		if err != nil {
			log.Fatal("Failed to initialize S3 storage", "error", err)
		}
	} else {
		log.Warn("S3 is not configured, plan export is disabled")
	}

	// --- Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	planRepo := mongo.NewMongoStudyPlanRepository(appDB)
	resourceRepo := mongo.NewMongoResourceSetRepository(appDB)
	sessionRepo := mongo.NewMongoStudySessionRepository(appDB)

	// --- Services ---
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	resourceService := service.NewResourceService(resourceRepo, searcher, engine, cfg.Generation.Timeout, log)
	planService := service.NewPlanService(service.PlanServiceDeps{
		Repo:          planRepo,
		Searcher:      searcher,
		Generator:     engine,
		Files:         fileStorage,
		Timeout:       cfg.Generation.Timeout,
		PresignExpiry: cfg.S3.PresignExpiry,
		Log:           log,
	})
	sessionService := service.NewSessionService(sessionRepo, log)

	// --- Scheduler ---
	var scheduler *service.SchedulerService
	if cfg.Scheduler.Enabled {
		scheduler, err = service.NewSchedulerService(planService, cfg.Scheduler.Timezone, log)
		if err != nil {
			log.Fatal("Could not create scheduler", "error", err)
		}
		if err := scheduler.ScheduleDeactivation(cfg.Scheduler.DeactivateAt); err != nil {
			log.Fatal("Could not schedule plan expiry", "error", err)
		}
		scheduler.Start()
	}

	// --- HTTP ---
	gin.SetMode(cfg.Server.Mode)
	router := api.NewRouter(api.RouterDeps{
		Log:             log,
		AuthService:     authService,
		PlanService:     planService,
		ResourceService: resourceService,
		SessionService:  sessionService,
		DBHealth: func(ctx context.Context) error {
			return mongo.Ping(ctx, dbClient)
		},
		ServiceName: cfg.Tracing.ServiceName,
		CORSOrigins: cfg.Server.CORSOrigins,
	})

	server := &http.Server{
		Addr:        cfg.Server.Address,
		Handler:     router,
		ReadTimeout: 10 * time.Second,
		// generation requests can take up to generation.timeout
		WriteTimeout: cfg.Generation.Timeout + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// --- Graceful Shutdown ---
	go func() {
		log.Info("Server listening", "address", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("ListenAndServe error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}
	if scheduler != nil {
		scheduler.Stop(ctxShutdown)
	}
	if err := shutdownTracing(ctxShutdown); err != nil {
		log.Error("Tracing shutdown failed", "error", err)
	}

	log.Info("Server exiting.")
}
