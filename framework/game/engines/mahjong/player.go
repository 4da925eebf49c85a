package mahjong

import (
	"context"
)

// Player 座位上的决策者（机器人或远端玩家）
type Player interface {
	Name() string

	// ChooseAction 在给定的动作类型中选择一个动作，可被 ctx 取消
	// 返回 nil 表示没有动作，由引擎走默认动作
	ChooseAction(ctx context.Context, view *ContextView, types []*ActionType) (*Action, error)

	// ChooseActionAfterIllegal 上一次选择的动作不合法时调用
	ChooseActionAfterIllegal(ctx context.Context, view *ContextView, types []*ActionType, illegal Action) (*Action, error)

	// ActionDone 通知：某个动作已经执行
	ActionDone(view *ContextView, action Action)

	// TimeLimit 通知：本次决策还剩多少秒
	TimeLimit(view *ContextView, secondsToGo int)
}
