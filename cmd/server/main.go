package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/crosscast/crosscast-api/configs"
	"github.com/crosscast/crosscast-api/internal/api/handlers"
	"github.com/crosscast/crosscast-api/internal/api/middleware"
	job "github.com/crosscast/crosscast-api/internal/jobs"
	"github.com/crosscast/crosscast-api/internal/platform"
	"github.com/crosscast/crosscast-api/internal/queue"
	"github.com/crosscast/crosscast-api/internal/repository"
	"github.com/crosscast/crosscast-api/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB(db)

	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		BodyLimit:    100 * 1024 * 1024, // 100 MB
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	registry := platform.NewRegistry(*cfg)
	videoClient := platform.NewVideoClient(*cfg)
	captionGenerator := platform.NewCaptionGenerator(*cfg)
	imgbbClient := platform.NewImgbbClient()

	userRepo := repository.NewUserRepository(db)
	accountRepo := repository.NewConnectedAccountRepository(db)
	ruleRepo := repository.NewAutomationRuleRepository(db)
	contentRepo := repository.NewPostedContentRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	apiKeyRepo := repository.NewApiKeyRepository(db)
	serviceKeyRepo := repository.NewServiceKeyRepository(db)

	authService := service.NewAuthService(*cfg, userRepo)
	userService := service.NewUserService(userRepo)
	accountService := service.NewAccountService(*cfg, registry, accountRepo)
	automationService := service.NewAutomationService(*cfg, registry, ruleRepo, accountRepo, contentRepo, settingsRepo, videoClient, captionGenerator)
	contentService := service.NewContentService(*cfg, registry, accountRepo, contentRepo, settingsRepo, videoClient)
	videoService := service.NewVideoService(videoClient)
	captionService := service.NewCaptionService(captionGenerator)
	uploadService := service.NewUploadService(*cfg, serviceKeyRepo, imgbbClient)
	settingsService := service.NewSettingsService(settingsRepo)
	apiKeyService := service.NewApiKeyService(apiKeyRepo)
	serviceKeyService := service.NewServiceKeyService(*cfg, serviceKeyRepo)

	authMiddleware := middleware.NewAuthMiddleware(*cfg, apiKeyService)

	auth := handlers.NewAuthHandler(*cfg, authService)
	app.Get("/login", auth.Login)
	app.Get("/login/callback", auth.LoginCallbackHandler)
	app.Get("/logout", auth.Logout)

	account := handlers.NewAccountHandler(*cfg, accountService)
	app.Get("/auth/:platform/callback", account.CallbackHandler)

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	// connecting needs a logged-in user, the callback carries state instead
	api.Get("/auth/:platform", account.ConnectAccount)

	user := handlers.NewUserHandler(userService)
	api.Get("/user/info", user.GetUserInfo)
	api.Post("/user/remove", user.RemoveUser)

	api.Get("/accounts", account.ListAccounts)
	api.Post("/accounts/remove", account.DisconnectAccount)

	automation := handlers.NewAutomationHandler(automationService, client)
	api.Post("/automations/create", automation.CreateRule)
	api.Get("/automations", automation.ListRules)
	api.Post("/automations/status", automation.UpdateRuleStatus)
	api.Post("/automations/remove", automation.RemoveRule)
	api.Post("/automations/execute", automation.ExecuteRule)
	api.Post("/automations/schedule", automation.ScheduleRule)

	content := handlers.NewContentHandler(contentService)
	api.Get("/content", content.ListContent)
	api.Post("/content/post", content.CreateManualPost)

	video := handlers.NewVideoHandler(videoService)
	api.Get("/videos/info", video.GetVideoInfo)
	api.Get("/videos/search", video.SearchVideos)

	caption := handlers.NewCaptionHandler(captionService)
	api.Post("/captions/generate", caption.GenerateCaption)

	upload := handlers.NewUploadHandler(uploadService)
	api.Post("/uploads/image", upload.UploadImage)

	settings := handlers.NewSettingsHandler(settingsService)
	api.Get("/settings/info", settings.GetSettingsInfo)
	api.Post("/settings/update", settings.UpdateSettings)

	apiKeys := handlers.NewApiKeyHandler(apiKeyService)
	api.Post("/api_key/new", apiKeys.CreateApiKey)
	api.Get("/api_key/list", apiKeys.ListKeys)
	api.Post("/api_key/remove", apiKeys.RemoveAPIKey)

	serviceKeys := handlers.NewServiceKeyHandler(serviceKeyService)
	api.Post("/service_key/save", serviceKeys.SaveServiceKey)
	api.Get("/service_key/list", serviceKeys.ListServiceKeys)
	api.Post("/service_key/remove", serviceKeys.RemoveServiceKey)

	// cron jobs
	refreshTokenJob := job.NewTokenRefreshJob(*cfg, registry, accountRepo)

	//queue
	queueW := queue.NewQueue(automationService)

	c := cron.New()
	c.AddFunc("@every 00h10m00s", refreshTokenJob.RefreshTokens)
	c.Start()

	go func() {
		server := asynq.NewServer(redisConn, asynq.Config{
			Concurrency: 10,
		})

		mux := asynq.NewServeMux()
		mux.HandleFunc(queue.TaskTypeExecuteAutomation, queueW.HandleExecuteAutomationTask)

		log.Println("Starting the Asynq server...")
		if err := server.Run(mux); err != nil {
			log.Fatalf("Could not start Asynq server: %v", err)
		}
	}()

	go func() {
		if err := app.Listen(":3000"); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Println("Server is running on http://localhost:3000")

	gracefulShutdown(app, db)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, db *sql.DB) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	closeDB(db)
	log.Println("Server shutdown complete.")
}
