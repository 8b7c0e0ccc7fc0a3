package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/dushixiang/argus/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	databasePath string
	accountsCSV  string
	tradesCSV    string
	replace      bool
)

var rootCmd = &cobra.Command{
	Use:   "load",
	Short: "从 CSV 导入账户和交易数据",
	Long:  ``,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&databasePath, "database", "d", "argus.db", "数据库文件路径")
	rootCmd.PersistentFlags().StringVar(&accountsCSV, "accounts", "accounts.csv", "账户 CSV 路径")
	rootCmd.PersistentFlags().StringVar(&tradesCSV, "trades", "trades.csv", "交易 CSV 路径")
	rootCmd.PersistentFlags().BoolVar(&replace, "replace", false, "导入前清空已有数据")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	zlog, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer func() { _ = zlog.Sync() }()

	db, err := gorm.Open(sqlite.Open(databasePath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	if replace {
		if err := db.Migrator().DropTable(models.Account{}, models.Trade{}); err != nil {
			return fmt.Errorf("failed to drop tables: %w", err)
		}
		zlog.Info("existing account and trade tables dropped")
	}
	if err := db.AutoMigrate(models.Account{}, models.Trade{}); err != nil {
		return fmt.Errorf("failed to migrate tables: %w", err)
	}

	accounts, err := readAccounts(accountsCSV)
	if err != nil {
		return err
	}
	if err := db.CreateInBatches(accounts, 500).Error; err != nil {
		return fmt.Errorf("failed to insert accounts: %w", err)
	}
	zlog.Info("accounts loaded", zap.Int("count", len(accounts)))

	trades, err := readTrades(tradesCSV)
	if err != nil {
		return err
	}
	if err := db.CreateInBatches(trades, 500).Error; err != nil {
		return fmt.Errorf("failed to insert trades: %w", err)
	}
	zlog.Info("trades loaded", zap.Int("count", len(trades)))

	return nil
}

// readAccounts 读取账户 CSV，按 login 去重，保留首次出现的行
func readAccounts(path string) ([]models.Account, error) {
	rows, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	if err := requireColumns(header, "login", "account_size", "platform", "phase", "user_id", "challenge_id"); err != nil {
		return nil, fmt.Errorf("accounts csv: %w", err)
	}

	seen := make(map[int64]struct{})
	accounts := make([]models.Account, 0, len(rows))
	for _, row := range rows {
		login := cast.ToInt64(row["login"])
		if login == 0 {
			continue
		}
		if _, ok := seen[login]; ok {
			continue
		}
		seen[login] = struct{}{}

		account := models.Account{
			Login:       login,
			AccountSize: cast.ToFloat64(row["account_size"]),
			Platform:    cast.ToInt(row["platform"]),
			Phase:       models.Phase(cast.ToInt(row["phase"])),
			UserID:      cast.ToInt64(row["user_id"]),
		}
		if v := row["challenge_id"]; v != "" {
			challengeId := cast.ToInt64(v)
			account.ChallengeID = &challengeId
		}
		accounts = append(accounts, account)
	}
	return accounts, nil
}

// readTrades 读取交易 CSV，按 identifier 去重，时间解析失败的行跳过
func readTrades(path string) ([]models.Trade, error) {
	rows, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	if err := requireColumns(header,
		"identifier", "trading_account_login", "opened_at", "closed_at",
		"action", "open_price", "close_price", "lot_size", "profit", "symbol",
	); err != nil {
		return nil, fmt.Errorf("trades csv: %w", err)
	}

	seen := make(map[string]struct{})
	trades := make([]models.Trade, 0, len(rows))
	for _, row := range rows {
		identifier := row["identifier"]
		if identifier == "" {
			continue
		}
		if _, ok := seen[identifier]; ok {
			continue
		}
		seen[identifier] = struct{}{}

		openedAt, err := parseTime(row["opened_at"])
		if err != nil {
			continue
		}
		closedAt, err := parseTime(row["closed_at"])
		if err != nil {
			continue
		}

		trade := models.Trade{
			Identifier:          identifier,
			Action:              models.Action(cast.ToInt(row["action"])),
			Reason:              cast.ToInt(row["reason"]),
			OpenPrice:           cast.ToFloat64(row["open_price"]),
			ClosePrice:          cast.ToFloat64(row["close_price"]),
			Commission:          cast.ToFloat64(row["commission"]),
			LotSize:             cast.ToFloat64(row["lot_size"]),
			OpenedAt:            openedAt,
			ClosedAt:            closedAt,
			Pips:                cast.ToFloat64(row["pips"]),
			Profit:              cast.ToFloat64(row["profit"]),
			Swap:                cast.ToFloat64(row["swap"]),
			Symbol:              row["symbol"],
			ContractSize:        cast.ToFloat64(row["contract_size"]),
			ProfitRate:          cast.ToFloat64(row["profit_rate"]),
			Platform:            cast.ToInt(row["platform"]),
			TradingAccountLogin: cast.ToInt64(row["trading_account_login"]),
		}
		if v := row["price_sl"]; v != "" {
			priceSL := cast.ToFloat64(v)
			trade.PriceSL = &priceSL
		}
		if v := row["price_tp"]; v != "" {
			priceTP := cast.ToFloat64(v)
			trade.PriceTP = &priceTP
		}
		trades = append(trades, trade)
	}
	return trades, nil
}

// readCSV 整表读取，返回按列名索引的行
func readCSV(path string) ([]map[string]string, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open csv: %w", err)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	var rows []map[string]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read csv row: %w", err)
		}
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, header, nil
}

func requireColumns(header []string, required ...string) error {
	present := make(map[string]struct{}, len(header))
	for _, col := range header {
		present[col] = struct{}{}
	}
	for _, col := range required {
		if _, ok := present[col]; !ok {
			return fmt.Errorf("missing column %q", col)
		}
	}
	return nil
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseTime(value string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time format: %q", value)
}
