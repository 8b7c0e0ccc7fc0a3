package service

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/dushixiang/argus/internal/models"
	"github.com/dushixiang/argus/internal/repo"
	"github.com/dushixiang/argus/internal/risk"
	"github.com/go-orz/orz"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SnapshotService 风控快照存储服务
type SnapshotService struct {
	logger *zap.Logger

	*orz.Service
	*repo.RiskSnapshotRepo
}

func NewSnapshotService(logger *zap.Logger, db *gorm.DB) *SnapshotService {
	return &SnapshotService{
		logger:           logger,
		Service:          orz.NewService(db),
		RiskSnapshotRepo: repo.NewRiskSnapshotRepo(db),
	}
}

// BuildSnapshot 由指标、评分和信号组装快照记录
func (s *SnapshotService) BuildSnapshot(login int64, m *risk.Metrics, score float64, signals []string) models.RiskSnapshot {
	// +Inf 无法序列化，落库前替换为哨兵值
	profitFactor := m.ProfitFactor
	if math.IsInf(profitFactor, 1) {
		profitFactor = risk.MaxProfitFactor
	}

	return models.RiskSnapshot{
		ID:             ulid.Make().String(),
		AccountLogin:   login,
		Timestamp:      time.Now().UTC(),
		WinRatio:       m.WinRatio,
		ProfitFactor:   profitFactor,
		MaxDrawdown:    m.MaxDrawdown,
		StopLossUsed:   m.StopLossUsed,
		TakeProfitUsed: m.TakeProfitUsed,
		HFTCount:       m.HFTCount,
		MaxLayering:    m.MaxLayering,
		RiskScore:      score,
		RiskSignals:    datatypes.NewJSONSlice(signals),
		LastTradeAt:    m.LastTradeAt,
	}
}

// Upsert 写入单个账户的快照，已存在则原地覆盖
func (s *SnapshotService) Upsert(ctx context.Context, snapshot models.RiskSnapshot) error {
	return s.RiskSnapshotRepo.UpsertBatch(ctx, []models.RiskSnapshot{snapshot})
}

// NewBatch 创建一个按 size 累积提交的写入缓冲，供单轮计算使用。
// 缓冲并发安全，刷写在单个事务内完成
func (s *SnapshotService) NewBatch(size int) *SnapshotBatch {
	return &SnapshotBatch{svc: s, size: size}
}

// SnapshotBatch 单轮计算的快照写入缓冲
type SnapshotBatch struct {
	svc  *SnapshotService
	size int

	mu      sync.Mutex
	pending []models.RiskSnapshot
	flushed int
}

// Add 缓冲一个快照，累积到批大小时自动刷写。
// 刷写失败的快照留在缓冲中，由后续 Add 或 Flush 重试
func (b *SnapshotBatch) Add(ctx context.Context, snapshot models.RiskSnapshot) error {
	b.mu.Lock()
	b.pending = append(b.pending, snapshot)
	var batch []models.RiskSnapshot
	if len(b.pending) >= b.size {
		batch = b.pending
		b.pending = nil
	}
	b.mu.Unlock()

	if batch == nil {
		return nil
	}
	return b.flush(ctx, batch)
}

// Flush 刷写剩余未提交的快照
func (b *SnapshotBatch) Flush(ctx context.Context) error {
	b.mu.Lock()
	batch := b.pending
	b.pending = nil
	b.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}
	return b.flush(ctx, batch)
}

// Flushed 已成功提交的快照数
func (b *SnapshotBatch) Flushed() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.flushed
}

func (b *SnapshotBatch) flush(ctx context.Context, batch []models.RiskSnapshot) error {
	err := b.svc.Transaction(ctx, func(ctx context.Context) error {
		return b.svc.UpsertBatch(ctx, batch)
	})
	if err != nil {
		// 提交失败不丢弃，放回缓冲等待下一次刷写重试
		b.mu.Lock()
		b.pending = append(batch, b.pending...)
		b.mu.Unlock()
		return err
	}

	b.mu.Lock()
	b.flushed += len(batch)
	b.mu.Unlock()

	b.svc.logger.Debug("risk snapshots committed", zap.Int("count", len(batch)))
	return nil
}
