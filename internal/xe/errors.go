package xe

import "github.com/go-orz/orz"

var (
	ErrInvalidParams     = orz.NewError(10400, "参数无效")
	ErrInvalidToken      = orz.NewError(10403, "令牌无效")
	ErrAccountNotFound   = orz.NewError(10001, "账户不存在")
	ErrUserNotFound      = orz.NewError(10002, "用户不存在")
	ErrChallengeNotFound = orz.NewError(10003, "挑战不存在")
	ErrNoTradesFound     = orz.NewError(10004, "没有交易记录")
	ErrNoRiskSnapshot    = orz.NewError(10005, "暂无风控快照")
	ErrRunInProgress     = orz.NewError(10006, "风控计算正在进行中")
	ErrInvalidRiskConfig = orz.NewError(10007, "风控配置无效")
)
