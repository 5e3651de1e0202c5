package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"inspection-system/internal/report"
	"inspection-system/internal/routes"
	"inspection-system/pkg/config"
	"inspection-system/pkg/customvalidator"
	"inspection-system/pkg/database/postgresql"
	apperrors "inspection-system/pkg/errors"
	"inspection-system/pkg/eventbus"
	"inspection-system/pkg/filestorage"
	applogger "inspection-system/pkg/logger"
	"inspection-system/pkg/middleware"
	"inspection-system/pkg/service"
	"inspection-system/pkg/utils"
)

func main() {
	// 1. Configuração e logger
	cfg := config.New()
	logger := applogger.NewLogger(cfg.Server.LogFile)
	defer func() { _ = logger.Sync() }()

	loggers := &routes.Loggers{
		Main:       logger,
		Inspection: logger.Named("inspection"),
		Report:     logger.Named("report"),
	}

	location, err := time.LoadLocation(cfg.Server.Timezone)
	if err != nil {
		logger.Warn("fuso horário inválido, usando UTC", zap.String("timezone", cfg.Server.Timezone), zap.Error(err))
		location = time.UTC
	}

	// 2. Echo + middlewares
	e := echo.New()
	e.HideBanner = true

	e.Use(echomiddleware.RecoverWithConfig(echomiddleware.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("PANIC capturado",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				httpErr := apperrors.NewHttpError(http.StatusInternalServerError, "Erro interno do servidor", err, nil)
				_ = utils.ErrorResponse(c, httpErr, logger)
			}
			return err
		},
	}))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		ExposeHeaders: []string{"Content-Disposition"},
	}))
	e.Use(middleware.InjectLogger(logger))

	v := validator.New()
	if err := customvalidator.RegisterCustomValidations(v); err != nil {
		logger.Fatal("erro ao registrar validações customizadas", zap.Error(err))
	}
	e.Validator = utils.NewValidator(v)

	// 3. Banco, cache e armazenamento
	ctx := context.Background()
	boot := postgresql.NewBootstrap(cfg.Postgres.DSN, logger)
	dbConn, err := boot.Open(ctx)
	if err != nil {
		logger.Fatal("falha ao inicializar o banco", zap.Error(err))
	}
	defer boot.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis indisponível, checklist será lido direto do banco", zap.String("address", cfg.Redis.Address), zap.Error(err))
		_ = redisClient.Close()
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	storage, err := filestorage.New(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal("falha ao inicializar o armazenamento de relatórios", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	if cfg.Storage.Driver == "" || cfg.Storage.Driver == "local" {
		absPath, err := filepath.Abs(cfg.Storage.LocalPath)
		if err != nil {
			logger.Fatal("caminho do armazenamento local inválido", zap.Error(err))
		}
		e.Static(cfg.Storage.PublicBaseURL, absPath)
	}

	var chromeOpts []chromedp.ExecAllocatorOption
	if cfg.Report.ChromePath != "" {
		chromeOpts = append(chromeOpts, chromedp.ExecPath(cfg.Report.ChromePath))
	}
	printer := report.NewChromePrinter(loggers.Report, chromeOpts...)

	bus := eventbus.New(logger)
	jwtSvc := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL)

	// 4. Rotas
	infra := routes.Infrastructure{
		DB:       dbConn,
		Redis:    redisClient,
		Storage:  storage,
		Printer:  printer,
		Bus:      bus,
		JWT:      jwtSvc,
		Location: location,
	}
	if err := routes.InitRouter(e, infra, loggers, cfg); err != nil {
		logger.Fatal("falha ao montar as rotas", zap.Error(err))
	}

	// 5. Servidor com desligamento gracioso
	go func() {
		logger.Info("🚀 servidor iniciado", zap.String("port", cfg.Server.Port))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("erro ao iniciar o servidor", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("desligando o servidor...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("erro no desligamento", zap.Error(err))
	}
	bus.Wait()
	logger.Info("servidor encerrado")
}
