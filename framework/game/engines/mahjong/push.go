package mahjong

import (
	"gomahjong/common/log"
	"gomahjong/framework/game/share"
)

// broadcastActionDone 把执行过的动作通知给每个座位
func broadcastActionDone(ctx *GameContext, action Action) {
	for _, seat := range share.AllSeats {
		player := ctx.Table.Player(seat)
		if player == nil {
			log.Warn("座位 %s 没有玩家，跳过动作通知", seat)
			continue
		}
		player.ActionDone(ctx.View(seat), action)
	}
}

// pushTimeLimit 倒计时通知
func pushTimeLimit(ctx *GameContext, seat share.Seat, player Player) func(secondsToGo int) {
	view := ctx.View(seat)
	return func(secondsToGo int) {
		player.TimeLimit(view, secondsToGo)
	}
}
