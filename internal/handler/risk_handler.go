package handler

import (
	"net/http"

	"github.com/dushixiang/argus/internal/service"
	"github.com/dushixiang/argus/internal/xe"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
	"go.uber.org/zap"
)

// RiskHandler 风险报告查询接口
type RiskHandler struct {
	logger        *zap.Logger
	reportService *service.ReportService
	riskLoop      *service.RiskLoop
}

func NewRiskHandler(
	logger *zap.Logger,
	reportService *service.ReportService,
	riskLoop *service.RiskLoop,
) *RiskHandler {
	return &RiskHandler{
		logger:        logger,
		reportService: reportService,
		riskLoop:      riskLoop,
	}
}

// GetRiskReport 获取账户的最新风险报告
// GET /api/risk-report/:login
func (h *RiskHandler) GetRiskReport(c echo.Context) error {
	ctx := c.Request().Context()

	login := cast.ToInt64(c.Param("login"))
	if login <= 0 {
		return xe.ErrInvalidParams
	}

	report, err := h.reportService.GetAccountReport(ctx, login)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}

// GetUserRiskReport 即时计算用户维度的合并风险报告
// GET /api/risk/users/:user_id
func (h *RiskHandler) GetUserRiskReport(c echo.Context) error {
	ctx := c.Request().Context()

	userId := cast.ToInt64(c.Param("user_id"))
	if userId <= 0 {
		return xe.ErrInvalidParams
	}

	report, err := h.reportService.GetUserReport(ctx, userId)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}

// GetChallengeRiskReport 即时计算挑战维度的合并风险报告
// GET /api/risk/challenges/:challenge_id
func (h *RiskHandler) GetChallengeRiskReport(c echo.Context) error {
	ctx := c.Request().Context()

	challengeId := cast.ToInt64(c.Param("challenge_id"))
	if challengeId <= 0 {
		return xe.ErrInvalidParams
	}

	report, err := h.reportService.GetChallengeReport(ctx, challengeId)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}

// GetStatus 获取调度器状态
// GET /api/risk/status
func (h *RiskHandler) GetStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, h.riskLoop.GetStatus())
}

// Health 健康检查
// GET /api/health
func (h *RiskHandler) Health(c echo.Context) error {
	status := "idle"
	if h.riskLoop.IsRunning() {
		status = "running"
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":     "ok",
		"background": status,
	})
}

// RegisterRoutes 注册路由
func (h *RiskHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/health", h.Health)
	g.GET("/risk-report/:login", h.GetRiskReport)

	riskGroup := g.Group("/risk")
	riskGroup.GET("/users/:user_id", h.GetUserRiskReport)
	riskGroup.GET("/challenges/:challenge_id", h.GetChallengeRiskReport)
	riskGroup.GET("/status", h.GetStatus)
}
