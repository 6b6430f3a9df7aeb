package main

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/fadilmartias/evaltrack/internal/config"
	"github.com/fadilmartias/evaltrack/internal/domain/fiber/handler"
	"github.com/fadilmartias/evaltrack/internal/middleware"
	"github.com/fadilmartias/evaltrack/internal/model"
	"github.com/fadilmartias/evaltrack/internal/repository"
	"github.com/fadilmartias/evaltrack/internal/service"
	"github.com/fadilmartias/evaltrack/internal/usecase"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Could not load .env file")
	}

	appConfig := config.LoadAppConfig()

	var zapLogger *zap.Logger
	var err error
	if appConfig.Env == "production" {
		zapLogger, err = zap.NewProduction()
	} else {
		zapLogger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatal(err)
	}
	defer zapLogger.Sync()

	app := fiber.New(fiber.Config{
		AppName: appConfig.Name,
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			// Status code defaults to 500
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
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))
	app.Use(recover.New(recover.Config{
		EnableStackTrace: appConfig.Env != "production",
	}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed, // 1
	}))
	app.Use(pprof.New(pprof.Config{
		Next: func(c *fiber.Ctx) bool {
			return appConfig.Env != "production"
		},
	}))
	app.Use(healthcheck.New())
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))
	app.Use(middleware.RateLimiter(50, 1*time.Minute))
	app.Use(middleware.ActorContext())

	db := ConnectDB()

	periodRepo := repository.NewPeriodRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	templateRepo := repository.NewTemplateRepository(db)
	evaluationRepo := repository.NewEvaluationRepository(db)
	presetRepo := repository.NewPresetRepository(db)

	auditSink := service.NewAuditService(zapLogger)

	lifecycleUC := usecase.NewLifecycleUsecase(evaluationRepo, employeeRepo, periodRepo, templateRepo)
	reportUC := usecase.NewReportUsecase(evaluationRepo, employeeRepo, periodRepo, presetRepo)
	exportUC := usecase.NewExportUsecase(reportUC, evaluationRepo, auditSink, appConfig.BaseURL)

	handler.NewEvaluationHandler(lifecycleUC).RegisterRoutes(app)
	handler.NewReportHandler(reportUC, exportUC).RegisterRoutes(app)
	handler.NewPeriodHandler(periodRepo).RegisterRoutes(app)

	log.Println("Server running on ", appConfig.Port)
	if err := app.Listen(appConfig.Port); err != nil {
		log.Fatal(err)
	}
}

func ConnectDB() *gorm.DB {
	dbConfig := config.LoadDBConfig()
	appConfig := config.LoadAppConfig()

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		dbConfig.Host,
		dbConfig.User,
		dbConfig.Password,
		dbConfig.Name,
		dbConfig.Port,
		dbConfig.SSLMode,
	)

	// TranslateError turns the (employee, period) unique violation into
	// gorm.ErrDuplicatedKey, which the lifecycle relies on to resolve
	// concurrent creation races.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
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

	err = db.AutoMigrate(
		&model.Department{},
		&model.Position{},
		&model.Employee{},
		&model.EvaluationPeriod{},
		&model.EvaluationTemplate{},
		&model.TemplateSection{},
		&model.TemplateQuestion{},
		&model.TemplateBlock{},
		&model.TemplateItem{},
		&model.Evaluation{},
		&model.EvaluationItem{},
		&model.EvaluationBlockComment{},
		&model.EvaluationScore{},
		&model.ReportFilterPreset{},
	)
	if err != nil {
		log.Fatal("migration failed: ", err)
	}
	return db
}
