package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/tdakarsh8-beep/cropeye-server/internal/config"
	"github.com/tdakarsh8-beep/cropeye-server/internal/database/postgres"
	redisdb "github.com/tdakarsh8-beep/cropeye-server/internal/database/redis"
	"github.com/tdakarsh8-beep/cropeye-server/internal/event"
	"github.com/tdakarsh8-beep/cropeye-server/internal/handlers"
	"github.com/tdakarsh8-beep/cropeye-server/internal/repository"
	"github.com/tdakarsh8-beep/cropeye-server/internal/services"

	"github.com/gofiber/fiber/v3"
)

func setupLogging() (*os.File, error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("Recovered from panic: %v\n", r)
		}
	}()

	logDir := filepath.Join("/cropeye", "log", "server")
	fmt.Println("Log directory:", logDir)
	err := os.MkdirAll(logDir, 0o755)
	if err != nil {
		return nil, fmt.Errorf("failed to create log directory: %v", err)
	}

	currentTime := time.Now()
	logFileName := fmt.Sprintf("log_%s.log", currentTime.Format("2006-01-02"))
	logFile := filepath.Join(logDir, logFileName)

	file, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %v", err)
	}

	log.SetOutput(file)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	return file, nil
}

func main() {
	logFile, err := setupLogging()
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logFile.Close()
	cfg := config.New()
	log.Printf("Connecting to PostgreSQL with: host=%s, port=%s, user=%s, dbname=%s",
		cfg.PostgresCfg.Host, cfg.PostgresCfg.Port, cfg.PostgresCfg.Username, cfg.PostgresCfg.DBname)
	db, err := postgres.ConnectAndCreateDB(cfg.PostgresCfg)
	if err != nil {
		log.Printf("error connect to database: %s", err)
		go postgres.RetryConnectOnFailed(30*time.Second, &db, cfg.PostgresCfg)
	}

	// Redis only caches plot sync reports; the dispatcher tolerates a nil
	// client, so a failed connect is a warning, not a fatal.
	redisClient, err := redisdb.NewRedisClient(cfg.RedisCfg.Host, cfg.RedisCfg.Port, cfg.RedisCfg.Password, cfg.RedisCfg.DB)
	if err != nil {
		log.Printf("error connect to redis, sync reports will not be cached: %s", err)
		redisClient = nil
	}

	// Lifecycle events are best-effort too.
	var publisher *event.RegistrationPublisher
	rabbitConn, err := event.ConnectRabbitMQ(cfg.RabbitMQCfg)
	if err != nil {
		log.Printf("error connect to RabbitMQ, lifecycle events disabled: %s", err)
	} else {
		defer rabbitConn.Close()
		publisher = event.NewRegistrationPublisher(rabbitConn)
	}

	userRepository := repository.NewUserRepository(db)
	plotRepository := repository.NewPlotRepository(db)
	farmRepository := repository.NewFarmRepository(db)
	irrigationRepository := repository.NewIrrigationRepository(db)
	lookupRepository := repository.NewLookupRepository(db)

	dispatcher := services.NewPlotSyncDispatcher(cfg.SyncCfg, redisClient)
	assignmentService := services.NewAssignmentService(userRepository)
	registrationService := services.NewRegistrationService(
		userRepository,
		plotRepository,
		farmRepository,
		irrigationRepository,
		lookupRepository,
		assignmentService,
		dispatcher,
		publisher,
	)
	cascadeService := services.NewCascadeService(
		userRepository,
		plotRepository,
		farmRepository,
		dispatcher,
		publisher,
	)

	registrationHandler := handlers.NewRegistrationHandler(registrationService, assignmentService, userRepository)
	plotHandler := handlers.NewPlotHandler(plotRepository, userRepository, registrationService, cascadeService, dispatcher)
	farmerHandler := handlers.NewFarmerHandler(cascadeService)

	app := fiber.New()
	app.Get("/checkhealth", func(c fiber.Ctx) error {
		return c.Status(fiber.StatusOK).SendString("Cropeye server is healthy")
	})

	registrationHandler.RegisterRoutes(app)
	plotHandler.RegisterRoutes(app)
	farmerHandler.RegisterRoutes(app)

	log.Printf("Cropeye server listening on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
