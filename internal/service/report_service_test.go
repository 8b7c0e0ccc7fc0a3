package service

import (
	"context"
	"testing"
	"time"

	"github.com/dushixiang/argus/internal/models"
	"github.com/dushixiang/argus/internal/risk"
	"github.com/dushixiang/argus/internal/xe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestReportService(t *testing.T, db *gorm.DB) (*ReportService, *SnapshotService) {
	t.Helper()

	logger := zap.NewNop()
	configService := NewRiskConfigService(logger, db)
	require.NoError(t, configService.Initialize(context.Background()))

	snapshotService := NewSnapshotService(logger, db)
	reportService := NewReportService(logger, NewAccountService(logger, db), snapshotService, configService)
	return reportService, snapshotService
}

func TestGetAccountReport(t *testing.T) {
	db := newTestDB(t)
	reportService, snapshotService := newTestReportService(t, db)
	ctx := context.Background()

	seedAccount(t, db, 100)
	snapshot := snapshotService.BuildSnapshot(100, &risk.Metrics{
		WinRatio:    0.4,
		LastTradeAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}, 55, []string{risk.SignalLowWinRatio})
	require.NoError(t, snapshotService.Upsert(ctx, snapshot))

	report, err := reportService.GetAccountReport(ctx, 100)
	require.NoError(t, err)
	assert.EqualValues(t, 100, report.TradingAccountLogin)
	assert.Equal(t, 55.0, report.RiskScore)
	assert.Equal(t, []string{risk.SignalLowWinRatio}, report.RiskSignals)
}

func TestGetAccountReportNotFound(t *testing.T) {
	db := newTestDB(t)
	reportService, _ := newTestReportService(t, db)
	ctx := context.Background()

	// 账户不存在
	_, err := reportService.GetAccountReport(ctx, 999)
	assert.ErrorIs(t, err, xe.ErrAccountNotFound)

	// 账户存在但尚未产生快照
	seedAccount(t, db, 100)
	_, err = reportService.GetAccountReport(ctx, 100)
	assert.ErrorIs(t, err, xe.ErrNoRiskSnapshot)
}

func TestGetUserReportAggregatesAccounts(t *testing.T) {
	db := newTestDB(t)
	reportService, _ := newTestReportService(t, db)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&models.Account{Login: 100, UserID: 7}).Error)
	require.NoError(t, db.Create(&models.Account{Login: 101, UserID: 7}).Error)
	seedTrade(t, db, 100, "t1", 100, base, base.Add(time.Hour))
	seedTrade(t, db, 101, "t2", -50, base.Add(2*time.Hour), base.Add(3*time.Hour))

	report, err := reportService.GetUserReport(ctx, 7)
	require.NoError(t, err)
	assert.EqualValues(t, 7, report.TradingAccountLogin)
	assert.Equal(t, base.Add(3*time.Hour), report.LastTradeAt.UTC())
	assert.GreaterOrEqual(t, report.RiskScore, 0.0)
	assert.LessOrEqual(t, report.RiskScore, 100.0)
}

func TestGetUserReportNotFound(t *testing.T) {
	db := newTestDB(t)
	reportService, _ := newTestReportService(t, db)

	_, err := reportService.GetUserReport(context.Background(), 42)
	assert.ErrorIs(t, err, xe.ErrUserNotFound)
}

func TestGetUserReportNoTrades(t *testing.T) {
	db := newTestDB(t)
	reportService, _ := newTestReportService(t, db)

	require.NoError(t, db.Create(&models.Account{Login: 100, UserID: 7}).Error)
	_, err := reportService.GetUserReport(context.Background(), 7)
	assert.ErrorIs(t, err, xe.ErrNoTradesFound)
}

func TestGetChallengeReport(t *testing.T) {
	db := newTestDB(t)
	reportService, _ := newTestReportService(t, db)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	challengeId := int64(9)
	require.NoError(t, db.Create(&models.Account{Login: 100, UserID: 1, ChallengeID: &challengeId}).Error)
	seedTrade(t, db, 100, "t1", 100, base, base.Add(time.Hour))

	report, err := reportService.GetChallengeReport(ctx, 9)
	require.NoError(t, err)
	assert.EqualValues(t, 9, report.TradingAccountLogin)

	_, err = reportService.GetChallengeReport(ctx, 10)
	assert.ErrorIs(t, err, xe.ErrChallengeNotFound)
}
