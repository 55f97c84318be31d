package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/qlgl/catechism-backend/internal/app/controllers"
	appMigrations "github.com/qlgl/catechism-backend/internal/app/migrations"
	appRepos "github.com/qlgl/catechism-backend/internal/app/repositories"
	appRoutes "github.com/qlgl/catechism-backend/internal/app/routes"
	appServices "github.com/qlgl/catechism-backend/internal/app/services"
	"github.com/qlgl/catechism-backend/internal/config"
	"github.com/qlgl/catechism-backend/internal/db"
	appMiddleware "github.com/qlgl/catechism-backend/internal/middleware"
	pkgAuth "github.com/qlgl/catechism-backend/internal/pkg/auth"
	"github.com/qlgl/catechism-backend/internal/pkg/helpers"
	"github.com/qlgl/catechism-backend/internal/pkg/logger"
	"github.com/qlgl/catechism-backend/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos      *appRepos.Repositories
	JWTService *pkgAuth.JWTService

	AuthService       *appServices.AuthService
	StudentService    *appServices.StudentService
	ParishService     *appServices.ParishService
	ClassService      *appServices.ClassService
	AttendanceService *appServices.AttendanceService
	GradeService      *appServices.GradeService
	ScheduleService   *appServices.ScheduleService

	AuthController       *appControllers.AuthController
	StudentController    *appControllers.StudentController
	ParishController     *appControllers.ParishController
	ClassController      *appControllers.ClassController
	AttendanceController *appControllers.AttendanceController
	GradeController      *appControllers.GradeController
	ScheduleController   *appControllers.ScheduleController

	AuthMiddleware *appMiddleware.AuthMiddleware
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds default data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}
	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), database.Pool, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return database, nil
}

// BuildDependencies initializes repositories, services and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		AccessSecret:    cfg.JWT.Secret,
		RefreshSecret:   cfg.JWT.RefreshSecret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 15*time.Minute),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 168*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	deps.AuthService = appServices.NewAuthService(deps.Repos.Users, deps.JWTService, lgr)
	deps.StudentService = appServices.NewStudentService(deps.Repos.Students, deps.Repos.Parishes, lgr)
	deps.ParishService = appServices.NewParishService(deps.Repos.Parishes, lgr)
	deps.ClassService = appServices.NewClassService(deps.Repos.Classes, deps.Repos.Users, deps.Repos.Students, lgr)
	deps.AttendanceService = appServices.NewAttendanceService(deps.Repos.Sessions, deps.Repos.Classes, lgr)
	deps.GradeService = appServices.NewGradeService(deps.Repos.Grades, deps.Repos.Classes, lgr)
	deps.ScheduleService = appServices.NewScheduleService(deps.Repos.Schedules, deps.Repos.Classes, deps.Repos.Users, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService)
	deps.StudentController = appControllers.NewStudentController(deps.StudentService)
	deps.ParishController = appControllers.NewParishController(deps.ParishService)
	deps.ClassController = appControllers.NewClassController(deps.ClassService)
	deps.AttendanceController = appControllers.NewAttendanceController(deps.AttendanceService)
	deps.GradeController = appControllers.NewGradeController(deps.GradeService)
	deps.ScheduleController = appControllers.NewScheduleController(deps.ScheduleService)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.StudentController,
		deps.ParishController,
		deps.ClassController,
		deps.AttendanceController,
		deps.GradeController,
		deps.ScheduleController,
		deps.AuthMiddleware,
	)

	return router
}
