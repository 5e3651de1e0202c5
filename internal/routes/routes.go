package routes

import (
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inspection-system/internal/checklist"
	"inspection-system/internal/controllers"
	"inspection-system/internal/listeners"
	"inspection-system/internal/report"
	"inspection-system/internal/repositories"
	"inspection-system/internal/services"
	"inspection-system/pkg/config"
	"inspection-system/pkg/eventbus"
	"inspection-system/pkg/filestorage"
	"inspection-system/pkg/middleware"
	"inspection-system/pkg/service"
)

type Loggers struct {
	Main       *zap.Logger
	Inspection *zap.Logger
	Report     *zap.Logger
}

// Controllers groups every HTTP handler set mounted under /api.
type Controllers struct {
	Auth       *controllers.AuthController
	Checklist  *controllers.ChecklistController
	Inspection *controllers.InspectionController
	Report     *controllers.ReportController
	Service    *controllers.ServiceController
}

// Infrastructure is what InitRouter needs from main. Redis may be nil.
type Infrastructure struct {
	DB       *pgxpool.Pool
	Redis    *redis.Client
	Storage  filestorage.FileStorageInterface
	Printer  report.Printer
	Bus      *eventbus.Bus
	JWT      service.JWTService
	Location *time.Location
}

func InitRouter(e *echo.Echo, infra Infrastructure, loggers *Loggers, cfg *config.Config) error {
	loggers.Main.Info("InitRouter: criando rotas")

	// --- 1. REPOSITÓRIOS ---
	txManager := repositories.NewTxManager(infra.DB)
	checklistRepo := repositories.NewChecklistRepository(infra.DB)
	serviceRepo := repositories.NewServiceRepository(infra.DB)
	vehicleRepo := repositories.NewVehicleRepository(infra.DB)
	userRepo := repositories.NewUserRepository(infra.DB)
	var cacheRepo repositories.CacheRepositoryInterface
	if infra.Redis != nil {
		cacheRepo = repositories.NewRedisCacheRepository(infra.Redis)
	}

	// --- 2. SERVIÇOS ---
	renderer, err := report.NewRenderer(infra.Printer)
	if err != nil {
		return fmt.Errorf("renderer: %w", err)
	}
	layout := report.LayoutOptions{
		PageBreakThresholdMM: cfg.Report.PageBreakThresholdMM,
		Location:             infra.Location,
	}
	engine := checklist.NewEngine(nil)
	checklistService := services.NewChecklistService(txManager, checklistRepo, cacheRepo, cfg.Redis.ChecklistTTL, loggers.Main)
	reportService := services.NewReportService(serviceRepo, checklistService, renderer, infra.Storage, engine, layout, loggers.Report)
	inspectionService := services.NewInspectionService(
		txManager, serviceRepo, vehicleRepo, checklistService, reportService, engine, loggers.Inspection,
	)
	recordService := services.NewServiceRecordService(serviceRepo, infra.Bus, loggers.Main)
	authService := services.NewAuthService(userRepo, loggers.Main)

	listeners.NewReportCleanupListener(infra.Storage, loggers.Report).Register(infra.Bus)

	// --- 3. CONTROLLERS ---
	ctrls := Controllers{
		Auth:       controllers.NewAuthController(authService, infra.JWT, loggers.Main),
		Checklist:  controllers.NewChecklistController(checklistService, loggers.Main),
		Inspection: controllers.NewInspectionController(inspectionService, cfg.Report.ChromeTimeout, loggers.Inspection),
		Report:     controllers.NewReportController(reportService, cfg.Report.ChromeTimeout, loggers.Report),
		Service:    controllers.NewServiceController(recordService, infra.Location, loggers.Main),
	}

	// --- 4. ROTAS ---
	authMW := middleware.NewAuthMiddleware(infra.JWT, loggers.Main)
	RegisterRoutes(e, ctrls, authMW)

	loggers.Main.Info("InitRouter: rotas criadas")
	return nil
}

// RegisterRoutes mounts every handler under /api. Only login is public.
func RegisterRoutes(e *echo.Echo, ctrls Controllers, authMW *middleware.AuthMiddleware) {
	api := e.Group("/api")
	api.POST("/auth/login", ctrls.Auth.Login)

	secureGroup := api.Group("", authMW.Auth)

	runServiceRouter(secureGroup, ctrls.Service, ctrls.Inspection, authMW)
	runReportRouter(secureGroup, ctrls.Report, authMW)
	runChecklistRouter(secureGroup, ctrls.Checklist, authMW)
}
