package risk

import (
	"math"
	"testing"
	"time"

	"github.com/dushixiang/argus/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func makeTrade(id string, profit float64, openedAt, closedAt time.Time) models.Trade {
	return models.Trade{
		Identifier:          id,
		Symbol:              "EURUSD",
		Profit:              profit,
		OpenedAt:            openedAt,
		ClosedAt:            closedAt,
		TradingAccountLogin: 100001,
	}
}

func TestCalculateEmptyWindow(t *testing.T) {
	m, err := Calculate(nil, 100000, 60*time.Second)
	assert.Nil(t, m)
	assert.ErrorIs(t, err, ErrEmptyWindow)
}

func TestCalculateInvalidInterval(t *testing.T) {
	trades := []models.Trade{
		makeTrade("t1", 10, baseTime.Add(time.Hour), baseTime), // opened after closed
	}
	m, err := Calculate(trades, 100000, 60*time.Second)
	assert.Nil(t, m)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmptyWindow)
}

func TestCalculateDrawdownScenario(t *testing.T) {
	// +100, -50, -50 按平仓顺序回放，初始余额 1000：
	// 峰值 1100，最低 1000，最大回撤 100/1100
	trades := []models.Trade{
		makeTrade("t1", 100, baseTime, baseTime.Add(10*time.Minute)),
		makeTrade("t2", -50, baseTime.Add(15*time.Minute), baseTime.Add(20*time.Minute)),
		makeTrade("t3", -50, baseTime.Add(25*time.Minute), baseTime.Add(30*time.Minute)),
	}

	m, err := Calculate(trades, 1000, 60*time.Second)
	require.NoError(t, err)

	assert.InDelta(t, 1.0/3.0, m.WinRatio, 1e-9)
	assert.InDelta(t, 1.0, m.ProfitFactor, 1e-9) // 100/100
	assert.InDelta(t, 100.0/1100.0, m.MaxDrawdown, 1e-9)
	assert.Equal(t, baseTime.Add(30*time.Minute), m.LastTradeAt)
}

func TestCalculateDrawdownZeroWhenMonotonic(t *testing.T) {
	trades := []models.Trade{
		makeTrade("t1", 10, baseTime, baseTime.Add(5*time.Minute)),
		makeTrade("t2", 20, baseTime.Add(6*time.Minute), baseTime.Add(10*time.Minute)),
		makeTrade("t3", 0, baseTime.Add(11*time.Minute), baseTime.Add(15*time.Minute)),
	}

	m, err := Calculate(trades, 1000, 60*time.Second)
	require.NoError(t, err)
	assert.Zero(t, m.MaxDrawdown)
}

func TestCalculateProfitFactorInfinite(t *testing.T) {
	trades := []models.Trade{
		makeTrade("t1", 10, baseTime, baseTime.Add(5*time.Minute)),
		makeTrade("t2", 0, baseTime.Add(6*time.Minute), baseTime.Add(10*time.Minute)),
	}

	m, err := Calculate(trades, 1000, 60*time.Second)
	require.NoError(t, err)
	assert.True(t, math.IsInf(m.ProfitFactor, 1))
	assert.InDelta(t, 0.5, m.WinRatio, 1e-9)
}

func TestCalculateWinRatioZeroWithoutWinners(t *testing.T) {
	trades := []models.Trade{
		makeTrade("t1", -10, baseTime, baseTime.Add(5*time.Minute)),
		makeTrade("t2", 0, baseTime.Add(6*time.Minute), baseTime.Add(10*time.Minute)),
	}

	m, err := Calculate(trades, 1000, 60*time.Second)
	require.NoError(t, err)
	assert.Zero(t, m.WinRatio)
}

func TestCalculateLayeringOverlap(t *testing.T) {
	// A 10:00-10:10 与 B 10:05-10:20 重叠，最大同时持仓 2
	trades := []models.Trade{
		makeTrade("a", 10, baseTime, baseTime.Add(10*time.Minute)),
		makeTrade("b", -5, baseTime.Add(5*time.Minute), baseTime.Add(20*time.Minute)),
	}

	m, err := Calculate(trades, 1000, 60*time.Second)
	require.NoError(t, err)
	assert.Equal(t, 2, m.MaxLayering)
}

func TestCalculateLayeringCloseBeforeOpenTieBreak(t *testing.T) {
	// B 恰好在 A 平仓的时间点开仓，先平后开，不算同时持仓
	trades := []models.Trade{
		makeTrade("a", 10, baseTime, baseTime.Add(10*time.Minute)),
		makeTrade("b", 10, baseTime.Add(10*time.Minute), baseTime.Add(20*time.Minute)),
	}

	m, err := Calculate(trades, 1000, 60*time.Second)
	require.NoError(t, err)
	assert.Equal(t, 1, m.MaxLayering)
}

func TestCalculateLayeringAtLeastOne(t *testing.T) {
	trades := []models.Trade{
		makeTrade("a", 1, baseTime, baseTime.Add(time.Minute)),
	}
	m, err := Calculate(trades, 1000, 60*time.Second)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, m.MaxLayering, 1)
}

func TestCalculateHFTZeroDuration(t *testing.T) {
	// 开平同一时刻，时长 0 < 60s，计入高频交易
	trades := []models.Trade{
		makeTrade("a", 1, baseTime, baseTime),
	}
	m, err := Calculate(trades, 1000, 60*time.Second)
	require.NoError(t, err)
	assert.Equal(t, 1, m.HFTCount)
}

func TestCalculateHFTStrictlyLess(t *testing.T) {
	trades := []models.Trade{
		makeTrade("fast", 1, baseTime, baseTime.Add(59*time.Second)),
		makeTrade("edge", 1, baseTime.Add(time.Hour), baseTime.Add(time.Hour+60*time.Second)),
		makeTrade("slow", 1, baseTime.Add(2*time.Hour), baseTime.Add(3*time.Hour)),
	}
	m, err := Calculate(trades, 1000, 60*time.Second)
	require.NoError(t, err)
	assert.Equal(t, 1, m.HFTCount)
}

func TestCalculateStopLossTakeProfitUsage(t *testing.T) {
	sl := 1.05
	tp := 1.15
	trades := []models.Trade{
		{Identifier: "t1", Profit: 1, OpenedAt: baseTime, ClosedAt: baseTime.Add(time.Minute), PriceSL: &sl, PriceTP: &tp},
		{Identifier: "t2", Profit: 1, OpenedAt: baseTime.Add(2 * time.Minute), ClosedAt: baseTime.Add(3 * time.Minute), PriceSL: &sl},
		{Identifier: "t3", Profit: 1, OpenedAt: baseTime.Add(4 * time.Minute), ClosedAt: baseTime.Add(5 * time.Minute)},
		{Identifier: "t4", Profit: 1, OpenedAt: baseTime.Add(6 * time.Minute), ClosedAt: baseTime.Add(7 * time.Minute)},
	}

	m, err := Calculate(trades, 1000, 60*time.Second)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, m.StopLossUsed, 1e-9)
	assert.InDelta(t, 0.25, m.TakeProfitUsed, 1e-9)
}

func TestCalculateInputOrderIndependent(t *testing.T) {
	// 窗口按平仓时间倒序取出，指标计算内部自行排序
	asc := []models.Trade{
		makeTrade("t1", 100, baseTime, baseTime.Add(10*time.Minute)),
		makeTrade("t2", -50, baseTime.Add(15*time.Minute), baseTime.Add(20*time.Minute)),
		makeTrade("t3", -50, baseTime.Add(25*time.Minute), baseTime.Add(30*time.Minute)),
	}
	desc := []models.Trade{asc[2], asc[1], asc[0]}

	m1, err := Calculate(asc, 1000, 60*time.Second)
	require.NoError(t, err)
	m2, err := Calculate(desc, 1000, 60*time.Second)
	require.NoError(t, err)
	assert.Equal(t, m1, m2)
}
