package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/robfig/cron"

	config "threadflow/configs"
	"threadflow/internal/api/handlers"
	"threadflow/internal/api/middleware"
	job "threadflow/internal/jobs"
	"threadflow/internal/kvstore"
	"threadflow/internal/queue"
	"threadflow/internal/repository"
	"threadflow/internal/service"
	"threadflow/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()
	ctx := context.Background()

	rowStore, err := store.NewSheetStore(ctx, cfg.GoogleCredentialsFile, cfg.SpreadsheetID)
	if err != nil {
		log.Fatalf("Failed to connect to spreadsheet: %v", err)
	}

	kv, err := kvstore.NewRedisStore(ctx, cfg.RedisURI)
	if err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}
	defer kv.Close()

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 10 * time.Minute,
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
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-API-Key",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	accountRepo := repository.NewAccountRepository(rowStore)
	contentRepo := repository.NewContentRepository(rowStore)
	affiliateRepo := repository.NewAffiliateRepository(rowStore)
	scheduleRepo := repository.NewScheduleRepository(rowStore)
	logRepo := repository.NewLogRepository(rowStore)

	accountService := service.NewAccountService(*cfg, accountRepo, kv)
	selectionService := service.NewSelectionService(*cfg, contentRepo, affiliateRepo, kv)
	cloudinaryService := service.NewCloudinaryService(*cfg)
	threadsService := service.NewThreadsService(*cfg, cloudinaryService, accountRepo, contentRepo)

	replyQueue := queue.NewQueue(client, scheduleRepo, logRepo, accountService, selectionService, threadsService)

	autopostService := service.NewAutopostService(*cfg, accountService, selectionService, threadsService, replyQueue, logRepo)
	statusService := service.NewStatusService(*cfg, accountService, accountRepo, contentRepo, scheduleRepo, logRepo)

	scheduledJob := job.NewScheduledPostJob(*cfg, kv, autopostService, logRepo)
	cleanupJob := job.NewCleanupJob(kv)

	authMiddleware := middleware.NewAuthMiddleware(*cfg)

	auth := handlers.NewAuthHandler(*cfg)
	app.Post("/login", auth.Login)
	app.Post("/logout", auth.Logout)

	admin := handlers.NewAdminHandler(accountService, selectionService, autopostService, statusService, replyQueue, scheduledJob)
	app.Get("/health", admin.Health)

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	api.Get("/status", admin.GetStatus)
	api.Post("/posts/batch", admin.TriggerBatch)
	api.Post("/posts/single", admin.TriggerSingle)
	api.Post("/replies/sweep", admin.TriggerReplySweep)
	api.Post("/schedule/check", admin.TriggerScheduleCheck)
	api.Post("/accounts/token", admin.SetToken)
	api.Post("/accounts/token/remove", admin.RemoveToken)
	api.Post("/history/clear", admin.ClearHistory)

	c := cron.New()
	c.AddFunc("@every 00h01m00s", func() { scheduledJob.CheckAndRun() })
	c.AddFunc("@every 24h00m00s", cleanupJob.RemoveStaleFlags)
	c.Start()

	go func() {
		server := asynq.NewServer(redisConn, asynq.Config{
			// Replies are delivered one at a time to respect platform
			// rate limits.
			Concurrency: 1,
		})

		mux := asynq.NewServeMux()
		mux.HandleFunc(queue.TaskTypeAffiliateReply, replyQueue.HandleReplyTask)

		log.Println("Starting the Asynq server...")
		if err := server.Run(mux); err != nil {
			log.Fatalf("Could not start Asynq server: %v", err)
		}
	}()

	go func() {
		if err := app.Listen(cfg.ListenAddr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Printf("Server is running on %s", cfg.ListenAddr)

	gracefulShutdown(app)
}

func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	log.Println("Server shutdown complete.")
}
