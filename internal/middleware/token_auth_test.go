package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dushixiang/argus/internal/config"
	"github.com/dushixiang/argus/pkg/nostd"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func invokeTokenAuth(t *testing.T, admin config.AdminConf, token string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/risk-config", nil)
	if token != "" {
		req.Header.Set(nostd.Token, token)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := TokenAuth(TokenAuthConfig{Admin: admin, Logger: zap.NewNop()})
	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	return rec
}

func TestTokenAuthMissingToken(t *testing.T) {
	rec := invokeTokenAuth(t, config.AdminConf{Token: "secret"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTokenAuthWrongToken(t *testing.T) {
	rec := invokeTokenAuth(t, config.AdminConf{Token: "secret"}, "wrong")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestTokenAuthPlainToken(t *testing.T) {
	rec := invokeTokenAuth(t, config.AdminConf{Token: "secret"}, "secret")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTokenAuthBcryptToken(t *testing.T) {
	hash, err := nostd.BcryptEncode([]byte("secret"))
	require.NoError(t, err)

	admin := config.AdminConf{TokenBcrypt: string(hash)}
	assert.Equal(t, http.StatusOK, invokeTokenAuth(t, admin, "secret").Code)
	assert.Equal(t, http.StatusForbidden, invokeTokenAuth(t, admin, "wrong").Code)
}

func TestTokenAuthNoTokenConfigured(t *testing.T) {
	// 未配置令牌时一律拒绝，避免空配置放行
	rec := invokeTokenAuth(t, config.AdminConf{}, "anything")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
