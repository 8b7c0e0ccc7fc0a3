package repo

import (
	"context"

	"github.com/dushixiang/argus/internal/models"
	"github.com/go-orz/orz"
	"gorm.io/gorm"
)

func NewRiskConfigRepo(db *gorm.DB) *RiskConfigRepo {
	return &RiskConfigRepo{
		Repository: orz.NewRepository[models.RiskConfig, string](db),
	}
}

type RiskConfigRepo struct {
	orz.Repository[models.RiskConfig, string]
}

// FindOne 获取单行配置记录
func (r RiskConfigRepo) FindOne(ctx context.Context) (m models.RiskConfig, err error) {
	db := r.GetDB(ctx)
	err = db.Table(r.GetTableName()).First(&m).Error
	return m, err
}
