package mahjong

import (
	"slices"

	"gomahjong/framework/game/share"
)

// aliveMod 手牌数模 3：1 表示等待摸牌或别人出牌，2 表示该自己出牌
func aliveMod(p *PlayerImage) int {
	return len(p.AliveTiles) % 3
}

func hasFlower(tiles []share.Tile) bool {
	return slices.ContainsFunc(tiles, func(t share.Tile) bool { return t.Type.IsFlower() })
}

// isWaiting 手牌再加任意一张普通牌能否和牌
func isWaiting(v *ContextView, hand []share.Tile, fixedMelds int) bool {
	work := make([]share.Tile, len(hand)+1)
	copy(work, hand)
	for tileType := share.Man1; tileType <= share.Red; tileType++ {
		if share.CountType(hand, tileType) >= 4 {
			continue
		}
		work[len(hand)] = share.Tile{Type: tileType}
		if v.IsWin(work, fixedMelds) {
			return true
		}
	}
	return false
}

// CanChi 能否吃上家打出的牌
func CanChi(view *ContextView) bool {
	return Chi.IsLegal(view)
}

// CanPeng 能否碰别人打出的牌
func CanPeng(view *ContextView) bool {
	return Peng.IsLegal(view)
}

// CanGang 能否直杠、补杠或暗杠
func CanGang(view *ContextView) bool {
	return Zhigang.IsLegal(view) || Bugang.IsLegal(view) || Angang.IsLegal(view)
}

// CanHu 能否和牌（自摸或点炮）
func CanHu(view *ContextView) bool {
	return Win.IsLegal(view)
}

// IsTenpai 手牌是否听牌
func IsTenpai(view *ContextView) bool {
	me := view.me()
	return aliveMod(me) == 1 && isWaiting(view, me.AliveTiles, me.FixedMelds())
}
