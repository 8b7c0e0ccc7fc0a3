package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dushixiang/argus/internal/config"
	"github.com/dushixiang/argus/internal/models"
	"github.com/dushixiang/argus/internal/notify"
	"github.com/dushixiang/argus/internal/risk"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RiskLoop 风控计算调度器：周期性遍历所有账户，
// 计算指标、评分、信号，批量写入快照，超阈值时发出警报。
// 同一时间至多一轮计算在执行，重入触发直接跳过
type RiskLoop struct {
	conf            config.SchedulerConf
	configService   *RiskConfigService
	accountService  *AccountService
	snapshotService *SnapshotService
	dispatcher      *notify.Dispatcher
	logger          *zap.Logger

	running   atomic.Bool // 单飞闸门
	startTime time.Time
	stopChan  chan struct{}

	mu      sync.Mutex // 保护 cron、entryID、cancel、lastRun
	cron    *cron.Cron
	entryID cron.EntryID
	cancel  context.CancelFunc
	lastRun *RunSummary
}

func NewRiskLoop(
	conf *config.Config,
	configService *RiskConfigService,
	accountService *AccountService,
	snapshotService *SnapshotService,
	dispatcher *notify.Dispatcher,
	logger *zap.Logger,
) *RiskLoop {
	return &RiskLoop{
		conf:            conf.Scheduler,
		configService:   configService,
		accountService:  accountService,
		snapshotService: snapshotService,
		dispatcher:      dispatcher,
		logger:          logger,
		startTime:       time.Now(),
		stopChan:        make(chan struct{}),
	}
}

// RunSummary 一轮计算的结果摘要
type RunSummary struct {
	StartedAt   time.Time     `json:"started_at"`
	Duration    time.Duration `json:"duration"`
	Accounts    int           `json:"accounts"`
	Processed   int           `json:"processed"`
	Skipped     int           `json:"skipped"`
	Failed      int           `json:"failed"`
	AlertsSent  int           `json:"alerts_sent"`
	AlertsError int           `json:"alerts_error"`
	Error       string        `json:"error,omitempty"`
}

// Start 启动周期调度，立即执行第一轮，之后每 N 分钟整点触发
func (l *RiskLoop) Start(ctx context.Context) error {
	interval := l.conf.IntervalMinutesOrDefault()
	cronExpr := fmt.Sprintf("*/%d * * * *", interval)

	runCtx, cancel := context.WithCancel(ctx)

	l.logger.Info("risk loop started",
		zap.Int("interval_minutes", interval),
		zap.String("cron_expression", cronExpr),
		zap.Int("workers", l.conf.WorkersOrDefault()))

	c := cron.New()
	entryID, err := c.AddFunc(cronExpr, func() {
		if err := l.RunOnce(runCtx); err != nil {
			l.logger.Error("risk run failed", zap.Error(err))
		}
	})
	if err != nil {
		cancel()
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	l.mu.Lock()
	l.cron = c
	l.entryID = entryID
	l.cancel = cancel
	l.mu.Unlock()
	c.Start()

	// 启动后立即执行第一轮
	go func() {
		if err := l.RunOnce(runCtx); err != nil {
			l.logger.Error("first risk run failed", zap.Error(err))
		}
	}()

	select {
	case <-l.stopChan:
		l.logger.Info("risk loop stopped by user")
		return nil
	case <-ctx.Done():
		l.logger.Info("risk loop stopped by context")
		return ctx.Err()
	}
}

// Stop 停止调度，等待进行中的任务结束
func (l *RiskLoop) Stop() {
	l.logger.Info("stopping risk loop...")

	l.mu.Lock()
	c := l.cron
	cancel := l.cancel
	l.mu.Unlock()

	if c != nil {
		ctx := c.Stop()
		<-ctx.Done()
		l.logger.Info("cron scheduler stopped")
	}
	if cancel != nil {
		cancel()
	}
	close(l.stopChan)
	l.logger.Info("risk loop stopped")
}

// RunOnce 执行一轮全量风控计算。
// 已有一轮在执行时本次触发为空操作；配置错误中止整轮；
// 单个账户的错误只影响该账户，不中断其余账户也不丢弃已缓冲的写入
func (l *RiskLoop) RunOnce(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		l.logger.Warn("risk run already in progress, trigger skipped")
		metricRunsTotal.WithLabelValues("skipped").Inc()
		return nil
	}
	defer l.running.Store(false)

	summary := &RunSummary{StartedAt: time.Now()}
	err := l.runOnce(ctx, summary)
	summary.Duration = time.Since(summary.StartedAt)

	if err != nil {
		summary.Error = err.Error()
		metricRunsTotal.WithLabelValues("failed").Inc()
	} else {
		metricRunsTotal.WithLabelValues("ok").Inc()
	}
	metricRunDuration.Observe(summary.Duration.Seconds())

	l.mu.Lock()
	l.lastRun = summary
	l.mu.Unlock()

	l.logger.Info("========== RISK RUN END ==========",
		zap.Duration("duration", summary.Duration),
		zap.Int("accounts", summary.Accounts),
		zap.Int("processed", summary.Processed),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
		zap.Int("alerts_sent", summary.AlertsSent),
		zap.Int("alerts_error", summary.AlertsError))

	return err
}

func (l *RiskLoop) runOnce(ctx context.Context, summary *RunSummary) error {
	l.logger.Info("========== RISK RUN START ==========",
		zap.Time("start_time", summary.StartedAt))

	// 每轮读取一次配置快照，运行期间不感知变更
	conf, err := l.configService.GetRiskConfig(ctx)
	if err != nil {
		return fmt.Errorf("failed to read risk config: %w", err)
	}
	if err := ValidateRiskConfig(conf); err != nil {
		return err
	}

	accounts, err := l.accountService.ListAccounts(ctx)
	if err != nil {
		return fmt.Errorf("failed to list accounts: %w", err)
	}
	summary.Accounts = len(accounts)
	l.logger.Info("processing accounts", zap.Int("count", len(accounts)))

	batch := l.snapshotService.NewBatch(conf.BatchSize)

	var processed, skipped, failed, alertsSent, alertsError atomic.Int64

	g := new(errgroup.Group)
	g.SetLimit(l.conf.WorkersOrDefault())

	for i := range accounts {
		// 取消只在账户边界生效，已提交的写入保持不变
		if ctx.Err() != nil {
			l.logger.Warn("risk run cancelled, stopping early",
				zap.Int("remaining", len(accounts)-i))
			break
		}

		account := accounts[i]
		g.Go(func() error {
			result := l.processAccount(ctx, account, conf, batch)
			switch result {
			case accountProcessed:
				processed.Add(1)
				metricAccountsTotal.WithLabelValues("processed").Inc()
			case accountSkipped:
				skipped.Add(1)
				metricAccountsTotal.WithLabelValues("skipped").Inc()
			case accountFailed:
				failed.Add(1)
				metricAccountsTotal.WithLabelValues("failed").Inc()
			case accountAlerted:
				processed.Add(1)
				alertsSent.Add(1)
				metricAccountsTotal.WithLabelValues("processed").Inc()
				metricAlertsTotal.WithLabelValues("sent").Inc()
			case accountAlertFailed:
				processed.Add(1)
				alertsError.Add(1)
				metricAccountsTotal.WithLabelValues("processed").Inc()
				metricAlertsTotal.WithLabelValues("failed").Inc()
			}
			return nil
		})
	}

	_ = g.Wait()

	// 刷写最后一批未提交的快照
	if err := batch.Flush(context.WithoutCancel(ctx)); err != nil {
		l.logger.Error("failed to flush final snapshot batch", zap.Error(err))
	}

	summary.Processed = int(processed.Load())
	summary.Skipped = int(skipped.Load())
	summary.Failed = int(failed.Load())
	summary.AlertsSent = int(alertsSent.Load())
	summary.AlertsError = int(alertsError.Load())
	return nil
}

type accountResult int

const (
	accountProcessed accountResult = iota
	accountSkipped
	accountFailed
	accountAlerted
	accountAlertFailed
)

// processAccount 单个账户的完整链路：取窗口 → 算指标 → 评分/信号 → 缓冲写入 → 警报。
// 任何异常都不向上传播
func (l *RiskLoop) processAccount(ctx context.Context, account models.Account, conf models.RiskConfig, batch *SnapshotBatch) (result accountResult) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("panic while processing account",
				zap.Int64("account_login", account.Login),
				zap.Any("panic", r))
			result = accountFailed
		}
	}()

	accountCtx, cancel := context.WithTimeout(ctx, time.Duration(l.conf.AccountTimeoutOrDefault())*time.Second)
	defer cancel()

	trades, err := l.accountService.RecentClosedTrades(accountCtx, account.Login, conf.WindowSize)
	if err != nil {
		l.logger.Error("failed to fetch trade window",
			zap.Int64("account_login", account.Login),
			zap.Error(err))
		return accountFailed
	}
	if len(trades) == 0 {
		// 窗口为空不算失败，跳过即可
		return accountSkipped
	}

	metrics, err := risk.Calculate(trades, conf.InitialBalance, time.Duration(conf.HFTDurationSeconds)*time.Second)
	if err != nil {
		l.logger.Error("failed to calculate metrics",
			zap.Int64("account_login", account.Login),
			zap.Int("trades", len(trades)),
			zap.Error(err))
		return accountFailed
	}

	score := risk.Score(metrics)
	signals := risk.Signals(metrics, risk.Thresholds{
		WinRatio:   conf.WinRatioThreshold,
		Drawdown:   conf.DrawdownThreshold,
		StopLoss:   conf.StopLossThreshold,
		TakeProfit: conf.TakeProfitThreshold,
	})

	snapshot := l.snapshotService.BuildSnapshot(account.Login, metrics, score, signals)
	if err := batch.Add(accountCtx, snapshot); err != nil {
		// 快照留在缓冲中由后续刷写重试，这里只记录
		l.logger.Warn("snapshot batch commit deferred",
			zap.Int64("account_login", account.Login),
			zap.Error(err))
	}

	if score <= conf.RiskThreshold {
		return accountProcessed
	}

	// 警报尽力而为，失败不回滚也不影响后续账户
	lastTradeAt := metrics.LastTradeAt
	delivered := l.dispatcher.Dispatch(accountCtx, notify.Alert{
		TradingAccountLogin: account.Login,
		RiskSignals:         signals,
		RiskScore:           score,
		LastTradeAt:         &lastTradeAt,
	})
	if !delivered {
		return accountAlertFailed
	}
	return accountAlerted
}

// IsRunning 是否有一轮计算正在执行
func (l *RiskLoop) IsRunning() bool {
	return l.running.Load()
}

// GetStatus 调度器状态，供健康检查接口读取
func (l *RiskLoop) GetStatus() map[string]interface{} {
	status := map[string]interface{}{
		"is_running":       l.running.Load(),
		"start_time":       l.startTime,
		"interval_minutes": l.conf.IntervalMinutesOrDefault(),
		"workers":          l.conf.WorkersOrDefault(),
	}

	l.mu.Lock()
	if l.cron != nil {
		entry := l.cron.Entry(l.entryID)
		status["schedule_id"] = int(entry.ID)
		status["next_fire_time"] = entry.Next
	}
	if l.lastRun != nil {
		status["last_run"] = l.lastRun
	}
	l.mu.Unlock()

	return status
}
