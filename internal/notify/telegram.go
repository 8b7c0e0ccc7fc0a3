package notify

import (
	"context"
	_ "embed"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/valyala/fasttemplate"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

//go:embed templates/alert_message.txt
var alertMessageTemplate string

// Telegram 风险警报的 Telegram 通道
type Telegram struct {
	logger   *zap.Logger
	settings TelegramSettings
	client   *tele.Bot
	tmpl     *fasttemplate.Template
}

type TelegramSettings struct {
	Token  string
	ChatID string
	Client *http.Client
}

func NewTelegram(logger *zap.Logger, settings TelegramSettings) (*Telegram, error) {
	client, err := tele.NewBot(tele.Settings{
		ParseMode: tele.ModeMarkdown,
		Token:     settings.Token,
		Client:    settings.Client,
	})
	if err != nil {
		return nil, err
	}

	return &Telegram{
		logger:   logger,
		settings: settings,
		client:   client,
		tmpl:     fasttemplate.New(alertMessageTemplate, "{{", "}}"),
	}, nil
}

func (t *Telegram) Name() string {
	return "telegram"
}

// Notify 渲染警报消息并发送到配置的会话
func (t *Telegram) Notify(ctx context.Context, alert Alert) error {
	lastTradeAt := "-"
	if alert.LastTradeAt != nil {
		lastTradeAt = alert.LastTradeAt.Format(time.RFC3339)
	}
	signals := "-"
	if len(alert.RiskSignals) > 0 {
		signals = strings.Join(alert.RiskSignals, ", ")
	}

	msg := t.tmpl.ExecuteString(map[string]interface{}{
		"login":         fmt.Sprintf("%d", alert.TradingAccountLogin),
		"score":         fmt.Sprintf("%.2f", alert.RiskScore),
		"signals":       signals,
		"last_trade_at": lastTradeAt,
	})

	chatId := cast.ToInt64(t.settings.ChatID)
	_, err := t.client.Send(tele.ChatID(chatId), msg, &tele.SendOptions{ParseMode: tele.ModeMarkdown})
	return err
}
