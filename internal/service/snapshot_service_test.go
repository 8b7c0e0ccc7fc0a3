package service

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/dushixiang/argus/internal/models"
	"github.com/dushixiang/argus/internal/risk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBuildSnapshot(t *testing.T) {
	db := newTestDB(t)
	svc := NewSnapshotService(zap.NewNop(), db)

	lastTradeAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	metrics := &risk.Metrics{
		WinRatio:       0.6,
		ProfitFactor:   1.5,
		MaxDrawdown:    0.1,
		StopLossUsed:   0.8,
		TakeProfitUsed: 0.4,
		HFTCount:       2,
		MaxLayering:    3,
		LastTradeAt:    lastTradeAt,
	}

	snapshot := svc.BuildSnapshot(1001, metrics, 42.5, []string{risk.SignalHFT})
	assert.Len(t, snapshot.ID, 26)
	assert.EqualValues(t, 1001, snapshot.AccountLogin)
	assert.Equal(t, 0.6, snapshot.WinRatio)
	assert.Equal(t, 1.5, snapshot.ProfitFactor)
	assert.Equal(t, 42.5, snapshot.RiskScore)
	assert.Equal(t, []string{risk.SignalHFT}, []string(snapshot.RiskSignals))
	assert.Equal(t, lastTradeAt, snapshot.LastTradeAt)
}

func TestBuildSnapshotReplacesInfProfitFactor(t *testing.T) {
	db := newTestDB(t)
	svc := NewSnapshotService(zap.NewNop(), db)

	metrics := &risk.Metrics{ProfitFactor: math.Inf(1)}
	snapshot := svc.BuildSnapshot(1001, metrics, 100, nil)
	assert.Equal(t, float64(risk.MaxProfitFactor), snapshot.ProfitFactor)
	assert.False(t, math.IsInf(snapshot.ProfitFactor, 1))
	// 哨兵值必须能存入 decimal(20,8) 列
	assert.Less(t, snapshot.ProfitFactor, 1e12)
}

func TestUpsertKeepsLatestOnly(t *testing.T) {
	db := newTestDB(t)
	svc := NewSnapshotService(zap.NewNop(), db)
	ctx := context.Background()

	first := svc.BuildSnapshot(2001, &risk.Metrics{WinRatio: 0.5}, 30, []string{risk.SignalLowWinRatio})
	require.NoError(t, svc.Upsert(ctx, first))

	second := svc.BuildSnapshot(2001, &risk.Metrics{WinRatio: 0.9}, 70, nil)
	require.NoError(t, svc.Upsert(ctx, second))

	var count int64
	require.NoError(t, db.Model(&models.RiskSnapshot{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	stored, err := svc.FindByAccountLogin(ctx, 2001)
	require.NoError(t, err)
	assert.Equal(t, 70.0, stored.RiskScore)
	assert.Equal(t, 0.9, stored.WinRatio)
	assert.Empty(t, []string(stored.RiskSignals))
	// 覆盖保留原主键
	assert.Equal(t, first.ID, stored.ID)
}

func TestSnapshotBatchAutoFlush(t *testing.T) {
	db := newTestDB(t)
	svc := NewSnapshotService(zap.NewNop(), db)
	ctx := context.Background()

	batch := svc.NewBatch(2)
	require.NoError(t, batch.Add(ctx, svc.BuildSnapshot(1, &risk.Metrics{}, 10, nil)))
	assert.Equal(t, 0, batch.Flushed())

	// 第二次写入达到批大小，自动提交
	require.NoError(t, batch.Add(ctx, svc.BuildSnapshot(2, &risk.Metrics{}, 20, nil)))
	assert.Equal(t, 2, batch.Flushed())

	require.NoError(t, batch.Add(ctx, svc.BuildSnapshot(3, &risk.Metrics{}, 30, nil)))
	require.NoError(t, batch.Flush(ctx))
	assert.Equal(t, 3, batch.Flushed())

	var count int64
	require.NoError(t, db.Model(&models.RiskSnapshot{}).Count(&count).Error)
	assert.EqualValues(t, 3, count)
}

func TestSnapshotBatchRetainsPendingOnFlushFailure(t *testing.T) {
	db := newTestDB(t)
	svc := NewSnapshotService(zap.NewNop(), db)
	ctx := context.Background()

	batch := svc.NewBatch(2)
	require.NoError(t, batch.Add(ctx, svc.BuildSnapshot(1, &risk.Metrics{}, 10, nil)))

	// 表不存在时刷写失败，缓冲中的快照不能丢
	require.NoError(t, db.Migrator().DropTable(&models.RiskSnapshot{}))
	err := batch.Add(ctx, svc.BuildSnapshot(2, &risk.Metrics{}, 20, nil))
	require.Error(t, err)
	assert.Equal(t, 0, batch.Flushed())

	require.NoError(t, db.AutoMigrate(&models.RiskSnapshot{}))
	require.NoError(t, batch.Flush(ctx))
	assert.Equal(t, 2, batch.Flushed())

	var count int64
	require.NoError(t, db.Model(&models.RiskSnapshot{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestSnapshotBatchFlushEmpty(t *testing.T) {
	db := newTestDB(t)
	svc := NewSnapshotService(zap.NewNop(), db)

	batch := svc.NewBatch(10)
	require.NoError(t, batch.Flush(context.Background()))
	assert.Equal(t, 0, batch.Flushed())
}
