package mahjong

import (
	"gomahjong/framework/game/share"
)

// SeatOffers 一个座位在本次事件中可以做的动作
type SeatOffers struct {
	Seat    share.Seat
	Types   []*ActionType // 至少有一个合法动作的类型
	Actions []Action      // 按牌型组成去重后的合法动作
}

// Empty 没有任何可选动作
func (o SeatOffers) Empty() bool {
	return len(o.Actions) == 0
}

// Single 只有一个可选动作时返回它，不需要询问玩家
func (o SeatOffers) Single() (Action, bool) {
	if len(o.Actions) != 1 {
		return Action{}, false
	}
	return o.Actions[0], true
}

// Match 按牌型组成在可选动作中查找玩家给出的动作，返回引擎计算出的那个实例
func (o SeatOffers) Match(action Action) (Action, bool) {
	if action.Seat != o.Seat {
		return Action{}, false
	}
	sig := action.Signature()
	for _, offer := range o.Actions {
		if offer.Signature() == sig {
			return offer, true
		}
	}
	return Action{}, false
}

// CalculateOffers 计算座位在给定动作类型下的全部可选动作
func CalculateOffers(ctx *GameContext, seat share.Seat, types []*ActionType) SeatOffers {
	view := ctx.View(seat)
	offers := SeatOffers{Seat: seat}
	for _, t := range types {
		if !t.IsPlayerAction() {
			continue
		}
		legal := t.LegalTiles(view)
		if len(legal) == 0 {
			continue
		}
		offers.Types = append(offers.Types, t)
		for _, tiles := range legal {
			offers.Actions = append(offers.Actions, NewPlayerAction(seat, t, tiles...))
		}
	}
	offers.Actions = DistinctByTileTypes(offers.Actions)
	return offers
}

// calculateAllOffers 计算四个座位的可选动作
func calculateAllOffers(ctx *GameContext, types []*ActionType) [share.SeatCount]SeatOffers {
	var all [share.SeatCount]SeatOffers
	for _, seat := range share.AllSeats {
		all[seat] = CalculateOffers(ctx, seat, types)
	}
	return all
}
