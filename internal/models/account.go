package models

import (
	"time"
)

// Phase 账户阶段
type Phase int

const (
	PhaseStudent Phase = iota
	PhasePractitioner
	PhaseSenior
	PhaseMaster
)

// Account 交易账户，由外部开户流程创建，风控流水线只读
type Account struct {
	Login       int64     `gorm:"primaryKey" json:"login"`
	AccountSize float64   `gorm:"type:decimal(20,8)" json:"account_size"` // 账户规模
	Platform    int       `gorm:"type:int" json:"platform"`               // 交易平台
	Phase       Phase     `gorm:"type:int" json:"phase"`                  // 账户阶段
	UserID      int64     `gorm:"index;not null" json:"user_id"`          // 所属用户
	ChallengeID *int64    `gorm:"index" json:"challenge_id,omitempty"`    // 所属挑战（可选）
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 指定表名
func (Account) TableName() string {
	return "accounts"
}
