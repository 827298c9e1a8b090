package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"runtime"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/hireflow-ai/hireflow/internal/agent"
	"github.com/hireflow-ai/hireflow/internal/config"
	"github.com/hireflow-ai/hireflow/internal/domain/fiber/handler"
	applogger "github.com/hireflow-ai/hireflow/internal/logger"
	"github.com/hireflow-ai/hireflow/internal/matching"
	"github.com/hireflow-ai/hireflow/internal/middleware"
	"github.com/hireflow-ai/hireflow/internal/model"
	"github.com/hireflow-ai/hireflow/internal/repository"
	"github.com/hireflow-ai/hireflow/internal/service"
	"github.com/hireflow-ai/hireflow/internal/task"
	"github.com/hireflow-ai/hireflow/internal/usecase"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	ctx := context.Background()
	if err := godotenv.Load(); err != nil {
		log.Println("Could not load .env file")
	}

	appConfig := config.LoadAppConfig()
	production := appConfig.Env == "production"

	zlog, err := applogger.New(production, !production)
	if err != nil {
		log.Fatal(err)
	}
	defer zlog.Sync()

	app := fiber.New(fiber.Config{
		AppName: appConfig.Name,
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			message := err.Error()
			if message == "" {
				message = "Internal Server Error"
			}
			return ctx.Status(code).JSON(fiber.Map{"error": message})
		},
	})
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))
	app.Use(recover.New(recover.Config{
		EnableStackTrace: !production,
	}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(pprof.New(pprof.Config{
		Next: func(c *fiber.Ctx) bool {
			return production
		},
	}))
	app.Use(healthcheck.New())
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))
	app.Use(middleware.RateLimiter(50, 1*time.Minute))

	db := ConnectDB()

	gemini, err := service.NewGeminiService(config.LoadGeminiConfig(), zlog)
	if err != nil {
		zlog.Fatal("gemini service init failed", zap.Error(err))
	}
	mailer := service.NewMailerService(config.LoadSendgridConfig(), zlog)

	jobRepo := repository.NewJobRepository(db)
	candidateRepo := repository.NewCandidateRepository(db)
	jobCandidateRepo := repository.NewJobCandidateRepository(db)
	interviewRepo := repository.NewInterviewRepository(db)
	indexRepo := repository.NewResumeIndexRepository(db, gemini)

	ranker := matching.NewRanker(indexRepo, gemini, zlog)
	dispatcher := agent.NewDispatcher(gemini, ranker, agent.NewResumeStore(), agent.NewReportStore(), zlog)
	dispatcher.Start(ctx)

	tasks := task.NewQueue(128, 2, zlog)
	defer tasks.Close()

	uc := usecase.NewRecruitmentUsecase(usecase.RecruitmentUsecaseDeps{
		Jobs:       jobRepo,
		Candidates: candidateRepo,
		JobCands:   jobCandidateRepo,
		Interviews: interviewRepo,
		Index:      indexRepo,
		Agents:     dispatcher,
		Invoker:    gemini,
		Mailer:     mailer,
		Tasks:      tasks,
		AppConfig:  appConfig,
		Logger:     zlog,
	})

	h := handler.NewRecruitmentHandler(uc)
	h.RegisterRoutes(app)

	// Monitor goroutine count
	go func() {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			zlog.Debug("runtime stats", zap.Int("goroutines", runtime.NumGoroutine()))
		}
	}()

	zlog.Info("server running", zap.String("port", appConfig.Port))
	if err := app.Listen(appConfig.Port); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}

func ConnectDB() *gorm.DB {
	dbConfig := config.LoadDBConfig()
	appConfig := config.LoadAppConfig()

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		dbConfig.Host,
		dbConfig.User,
		dbConfig.Password,
		dbConfig.Name,
		dbConfig.Port,
		dbConfig.SSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}
	pgDB, err := db.DB()
	if err != nil {
		log.Fatalf("Could not get database instance: %v", err)
	}
	if appConfig.Env != "production" {
		pgDB.SetMaxIdleConns(5)
		pgDB.SetMaxOpenConns(10)
		pgDB.SetConnMaxLifetime(30 * time.Minute)
	} else {
		pgDB.SetMaxIdleConns(20)
		pgDB.SetMaxOpenConns(200)
		pgDB.SetConnMaxLifetime(time.Hour)
	}

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		log.Fatal("uuid extension: ", err)
	}
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		log.Fatal("vector extension: ", err)
	}

	err = db.AutoMigrate(
		&model.Job{},
		&model.CandidateProfile{},
		&model.JobCandidate{},
		&model.InterviewSession{},
		&model.ResumeBlob{},
		&model.ResumeDocument{},
	)
	if err != nil {
		log.Fatal("migration failed: ", err)
	}
	return db
}
