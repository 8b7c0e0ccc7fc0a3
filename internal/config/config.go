package config

type Config struct {
	Webhook   WebhookConf   `json:"webhook"`
	Telegram  TelegramConf  `json:"telegram"`
	Admin     AdminConf     `json:"admin"`
	Scheduler SchedulerConf `json:"scheduler"`
}

type WebhookConf struct {
	URL            string `json:"url"`             // 警报接收地址
	TimeoutSeconds int    `json:"timeout_seconds"` // 请求超时（秒），默认5
}

type TelegramConf struct {
	Enabled bool   `json:"enabled"`
	Token   string `json:"token"`
	ChatID  string `json:"chat_id"`
}

type AdminConf struct {
	Token       string `json:"token"`        // 管理接口令牌（明文比对）
	TokenBcrypt string `json:"token_bcrypt"` // 管理接口令牌的 bcrypt 哈希，配置后优先生效
}

type SchedulerConf struct {
	IntervalMinutes       int `json:"interval_minutes"`        // 风控计算周期（分钟），默认15
	Workers               int `json:"workers"`                 // 并发处理账户数，默认4
	AccountTimeoutSeconds int `json:"account_timeout_seconds"` // 单账户处理超时（秒），默认10
}

// IntervalMinutesOrDefault 周期缺省为15分钟
func (c SchedulerConf) IntervalMinutesOrDefault() int {
	if c.IntervalMinutes <= 0 {
		return 15
	}
	return c.IntervalMinutes
}

// WorkersOrDefault 并发数缺省为4
func (c SchedulerConf) WorkersOrDefault() int {
	if c.Workers <= 0 {
		return 4
	}
	return c.Workers
}

// AccountTimeoutOrDefault 单账户超时缺省为10秒
func (c SchedulerConf) AccountTimeoutOrDefault() int {
	if c.AccountTimeoutSeconds <= 0 {
		return 10
	}
	return c.AccountTimeoutSeconds
}

// TimeoutOrDefault 警报超时缺省为5秒
func (c WebhookConf) TimeoutOrDefault() int {
	if c.TimeoutSeconds <= 0 {
		return 5
	}
	return c.TimeoutSeconds
}
