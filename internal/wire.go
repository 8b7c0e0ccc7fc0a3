//go:build wireinject
// +build wireinject

package internal

import (
	"net/http"
	"time"

	"github.com/google/wire"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dushixiang/argus/internal/config"
	"github.com/dushixiang/argus/internal/handler"
	"github.com/dushixiang/argus/internal/notify"
	"github.com/dushixiang/argus/internal/service"
)

const telegramHTTPTimeout = 10 * time.Second

var (
	handlerSet = wire.NewSet(
		handler.NewRiskHandler,
		handler.NewAdminHandler,
	)

	riskSet = wire.NewSet(
		provideDispatcher,
		service.NewRiskConfigService,
		service.NewAccountService,
		service.NewSnapshotService,
		service.NewReportService,
		service.NewRiskLoop,
	)
)

// InitializeApp 初始化应用
func InitializeApp(logger *zap.Logger, db *gorm.DB, conf *config.Config) (*AppComponents, error) {
	wire.Build(
		handlerSet,
		riskSet,
		wire.Struct(new(AppComponents), "*"),
	)
	return nil, nil
}

// provideDispatcher provides the alert dispatcher with all configured channels
func provideDispatcher(logger *zap.Logger, conf *config.Config) *notify.Dispatcher {
	var channels []notify.Channel

	if conf.Webhook.URL != "" {
		timeout := time.Duration(conf.Webhook.TimeoutOrDefault()) * time.Second
		channels = append(channels, notify.NewWebhook(logger, conf.Webhook.URL, timeout))
	} else {
		logger.Warn("webhook url not configured, risk alerts will not be delivered")
	}

	if conf.Telegram.Enabled {
		tg, err := notify.NewTelegram(logger, notify.TelegramSettings{
			Token:  conf.Telegram.Token,
			ChatID: conf.Telegram.ChatID,
			Client: &http.Client{Timeout: telegramHTTPTimeout},
		})
		if err != nil {
			logger.Error("failed to init telegram channel", zap.Error(err))
		} else {
			channels = append(channels, tg)
		}
	}

	return notify.NewDispatcher(logger, channels...)
}
