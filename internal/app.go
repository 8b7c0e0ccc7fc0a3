package internal

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dushixiang/argus/internal/config"
	"github.com/dushixiang/argus/internal/handler"
	argusmw "github.com/dushixiang/argus/internal/middleware"
	"github.com/dushixiang/argus/internal/models"
	"github.com/dushixiang/argus/internal/service"
	"github.com/dushixiang/argus/pkg/nostd"
	"github.com/go-orz/orz"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func Run(configPath string) error {
	app := NewArgusApp()

	framework, err := orz.NewFramework(
		orz.WithConfig(configPath),
		orz.WithLoggerFromConfig(),
		orz.WithDatabase(),
		orz.WithHTTP(),
		orz.WithApplication(app),
	)
	if err != nil {
		return err
	}

	return framework.Run()
}

func NewArgusApp() orz.Application {
	return &ArgusApp{}
}

var _ orz.Application = (*ArgusApp)(nil)

type AppComponents struct {
	RiskHandler  *handler.RiskHandler
	AdminHandler *handler.AdminHandler

	// Risk pipeline services
	RiskLoop          *service.RiskLoop
	RiskConfigService *service.RiskConfigService
	AccountService    *service.AccountService
	SnapshotService   *service.SnapshotService
	ReportService     *service.ReportService
}

type ArgusApp struct {
	components *AppComponents
	conf       *config.Config
}

// GetComponents 获取应用组件
func (r *ArgusApp) GetComponents() *AppComponents {
	return r.components
}

func (r *ArgusApp) Configure(app *orz.App) error {
	logger := app.Logger()
	e := app.GetEcho()
	db := app.GetDatabase()

	var conf config.Config
	err := app.GetConfig().App.Unmarshal(&conf)
	if err != nil {
		return fmt.Errorf("failed to unmarshal config: %v", err)
	}

	components, err := InitializeApp(logger, db, &conf)
	if err != nil {
		return fmt.Errorf("failed to initialize app: %v", err)
	}
	r.components = components
	r.conf = &conf

	if err := db.AutoMigrate(
		models.Account{}, models.Trade{}, models.RiskSnapshot{}, models.RiskConfig{},
	); err != nil {
		logger.Fatal("database auto migrate failed", zap.Error(err))
	}

	if err := r.Init(logger); err != nil {
		logger.Fatal("app init failed", zap.Error(err))
	}

	e.HidePort = true
	e.HideBanner = true

	e.Use(middleware.Gzip())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		Skipper:      middleware.DefaultSkipper,
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
	}))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			sugar := logger.Sugar()
			sugar.Error(fmt.Sprintf("[PANIC RECOVER] %v %s\n", err, stack))
			return err
		},
	}))
	e.Use(WithErrorHandler(logger))
	customValidator := nostd.CustomValidator{Validator: validator.New()}
	if err := customValidator.TransInit(); err != nil {
		logger.Sugar().Fatal("failed to init custom validator", zap.Error(err))
	}
	e.Validator = &customValidator

	api := e.Group("/api")
	{
		r.components.RiskHandler.RegisterRoutes(api)

		api.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

		admin := api.Group("/admin", argusmw.TokenAuth(argusmw.TokenAuthConfig{
			Admin:  conf.Admin,
			Logger: logger,
		}))
		r.components.AdminHandler.RegisterRoutes(admin)
	}

	return nil
}

func (r *ArgusApp) Init(logger *zap.Logger) error {
	logger.Info("=================================================")
	logger.Info("Argus Risk Scoring System Starting...")
	logger.Info("=================================================")

	components := r.GetComponents()
	if components == nil {
		return fmt.Errorf("components not initialized")
	}

	if err := components.RiskConfigService.Initialize(context.Background()); err != nil {
		return fmt.Errorf("failed to initialize risk config: %w", err)
	}

	if components.RiskLoop == nil {
		return fmt.Errorf("risk loop not available")
	}

	logger.Info("risk loop initialized, starting...")

	go func() {
		if err := components.RiskLoop.Start(context.Background()); err != nil {
			logger.Error("risk loop error", zap.Error(err))
		}
	}()
	return nil
}
