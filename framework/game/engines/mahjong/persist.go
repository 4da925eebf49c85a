package mahjong

import (
	"context"
)

// Recorder 记录每局执行过的动作和结果，实现见 framework/game/record
type Recorder interface {
	RecordAction(ctx context.Context, gctx *GameContext, action Action) error
	RecordResult(ctx context.Context, gctx *GameContext) error
	// RecordAbort 一局因取消或出错没有结果时调用，用于清理这一局的记录状态
	RecordAbort(gctx *GameContext, cause error)
}
