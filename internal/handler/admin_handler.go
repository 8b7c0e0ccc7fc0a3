package handler

import (
	"context"
	"net/http"

	"github.com/dushixiang/argus/internal/service"
	"github.com/dushixiang/argus/internal/xe"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AdminHandler 管理接口，需令牌认证
type AdminHandler struct {
	logger        *zap.Logger
	configService *service.RiskConfigService
	riskLoop      *service.RiskLoop
}

func NewAdminHandler(
	logger *zap.Logger,
	configService *service.RiskConfigService,
	riskLoop *service.RiskLoop,
) *AdminHandler {
	return &AdminHandler{
		logger:        logger,
		configService: configService,
		riskLoop:      riskLoop,
	}
}

// GetRiskConfig 获取当前风控配置
// GET /api/admin/risk-config
func (h *AdminHandler) GetRiskConfig(c echo.Context) error {
	ctx := c.Request().Context()

	conf, err := h.configService.GetRiskConfig(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, conf)
}

// UpdateRiskConfig 部分更新风控配置，下一轮计算生效
// PUT /api/admin/risk-config
func (h *AdminHandler) UpdateRiskConfig(c echo.Context) error {
	ctx := c.Request().Context()

	var update service.RiskConfigUpdate
	if err := c.Bind(&update); err != nil {
		return err
	}
	if err := c.Validate(&update); err != nil {
		return err
	}

	conf, err := h.configService.UpdateRiskConfig(ctx, update)
	if err != nil {
		return err
	}

	h.logger.Info("risk config updated via admin api")
	return c.JSON(http.StatusOK, conf)
}

// TriggerRun 手动触发一轮风控计算，已有一轮在执行时返回错误
// POST /api/admin/run
func (h *AdminHandler) TriggerRun(c echo.Context) error {
	if h.riskLoop.IsRunning() {
		return xe.ErrRunInProgress
	}

	// 请求返回后计算仍需继续，脱离请求上下文执行
	ctx := context.WithoutCancel(c.Request().Context())
	go func() {
		if err := h.riskLoop.RunOnce(ctx); err != nil {
			h.logger.Error("manual risk run failed", zap.Error(err))
		}
	}()

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "风控计算已触发",
	})
}

// RegisterRoutes 注册路由
func (h *AdminHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/risk-config", h.GetRiskConfig)
	g.PUT("/risk-config", h.UpdateRiskConfig)
	g.POST("/run", h.TriggerRun)
}
