package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/dushixiang/argus/internal/config"
	"github.com/dushixiang/argus/pkg/nostd"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// TokenAuthConfig 管理接口令牌认证配置
type TokenAuthConfig struct {
	Admin  config.AdminConf
	Logger *zap.Logger
}

// TokenAuth 管理接口令牌认证中间件，
// 配置了 token_bcrypt 时按哈希比对，否则按明文常量时间比对
func TokenAuth(conf TokenAuthConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := nostd.GetToken(c)
			if token == "" {
				conf.Logger.Warn("admin token missing",
					zap.String("path", c.Request().URL.Path),
					zap.String("remote_ip", c.RealIP()))
				return c.JSON(http.StatusUnauthorized, map[string]interface{}{
					"error": "未授权：缺少令牌",
				})
			}

			if !matchToken(conf.Admin, token) {
				conf.Logger.Warn("admin token invalid",
					zap.String("path", c.Request().URL.Path),
					zap.String("remote_ip", c.RealIP()))
				return c.JSON(http.StatusForbidden, map[string]interface{}{
					"error": "未授权：令牌错误",
				})
			}

			return next(c)
		}
	}
}

func matchToken(admin config.AdminConf, token string) bool {
	if admin.TokenBcrypt != "" {
		return nostd.BcryptMatch([]byte(admin.TokenBcrypt), []byte(token)) == nil
	}
	if admin.Token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(admin.Token), []byte(token)) == 1
}
