package repo

import (
	"context"

	"github.com/dushixiang/argus/internal/models"
	"github.com/go-orz/orz"
	"gorm.io/gorm"
)

func NewAccountRepo(db *gorm.DB) *AccountRepo {
	return &AccountRepo{
		Repository: orz.NewRepository[models.Account, int64](db),
	}
}

type AccountRepo struct {
	orz.Repository[models.Account, int64]
}

// FindByUserId 查找用户名下的所有账户
func (r AccountRepo) FindByUserId(ctx context.Context, userId int64) ([]models.Account, error) {
	var accounts []models.Account
	db := r.GetDB(ctx)
	err := db.Table(r.GetTableName()).
		Where("user_id = ?", userId).
		Find(&accounts).Error
	return accounts, err
}

// FindByChallengeId 查找挑战名下的所有账户
func (r AccountRepo) FindByChallengeId(ctx context.Context, challengeId int64) ([]models.Account, error) {
	var accounts []models.Account
	db := r.GetDB(ctx)
	err := db.Table(r.GetTableName()).
		Where("challenge_id = ?", challengeId).
		Find(&accounts).Error
	return accounts, err
}
