package mahjong

import (
	"errors"
	"fmt"
	"slices"

	"gomahjong/framework/game/share"
)

var ErrIllegalTiles = errors.New("动作携带的牌不合法")

// 玩家动作
var (
	Chi             = &ActionType{name: "CHI", player: true, needTiles: true}
	Peng            = &ActionType{name: "PENG", player: true, needTiles: true}
	Zhigang         = &ActionType{name: "ZHIGANG", player: true, needTiles: true}
	Bugang          = &ActionType{name: "BUGANG", player: true, needTiles: true}
	Angang          = &ActionType{name: "ANGANG", player: true, needTiles: true}
	Win             = &ActionType{name: "WIN", player: true}
	Draw            = &ActionType{name: "DRAW", player: true}
	DrawBottom      = &ActionType{name: "DRAW_BOTTOM", player: true}
	Discard         = &ActionType{name: "DISCARD", player: true, needTiles: true}
	DiscardWithTing = &ActionType{name: "DISCARD_WITH_TING", player: true, needTiles: true}
	Buhua           = &ActionType{name: "BUHUA", player: true, needTiles: true}
	Pass            = &ActionType{name: "PASS", player: true}
)

// 自动动作
var (
	Deal  = &ActionType{name: "DEAL"}
	Liuju = &ActionType{name: "LIUJU"}
)

// PlayerActionTypes 所有玩家动作类型，按固定顺序
var PlayerActionTypes = []*ActionType{
	Chi, Peng, Zhigang, Bugang, Angang, Win, Draw, DrawBottom, Discard, DiscardWithTing, Buhua, Pass,
}

// DealCount 每个座位起手的张数
const DealCount = 13

// legal/apply 在 init 中绑定，避免包级变量的初始化环
func init() {
	Chi.legal, Chi.apply = legalChi, applyClaim(MeldChi)
	Peng.legal, Peng.apply = legalSameType(2), applyClaim(MeldPeng)
	Zhigang.legal, Zhigang.apply = legalSameType(3), applyClaim(MeldGang)
	Bugang.legal, Bugang.apply = legalBugang, applyBugang
	Angang.legal, Angang.apply = legalAngang, applyAngang
	Win.legal, Win.apply = legalWin, applyWin
	Draw.legal, Draw.apply = legalDraw, applyDraw(false)
	DrawBottom.legal, DrawBottom.apply = legalDrawBottom, applyDraw(true)
	Discard.legal, Discard.apply = legalDiscard, applyDiscard(false)
	DiscardWithTing.legal, DiscardWithTing.apply = legalDiscardWithTing, applyDiscard(true)
	Buhua.legal, Buhua.apply = legalBuhua, applyBuhua
	Pass.legal, Pass.apply = legalPass, func(*GameContext, Action) error { return nil }

	Deal.apply = applyDeal
	Liuju.apply = applyLiuju
}

var noTiles = [][]share.Tile{{}}

func legalPass(v *ContextView) [][]share.Tile {
	if aliveMod(v.me()) != 1 {
		return nil
	}
	return noTiles
}

// legalChi 只有出牌者的下家可以吃，手里两张牌和打出的牌组成顺子
func legalChi(v *ContextView) [][]share.Tile {
	me := v.me()
	tile, from, ok := v.lastDiscard()
	if !ok || aliveMod(me) != 1 || from.Next() != v.seat || !tile.Type.IsNumbered() {
		return nil
	}
	rank := tile.Type.Rank()
	var out [][]share.Tile
	for _, offsets := range [][2]int{{-2, -1}, {-1, 1}, {1, 2}} {
		r1, r2 := rank+offsets[0], rank+offsets[1]
		if r1 < 1 || r2 > 9 {
			continue
		}
		a := share.TilesOfType(me.AliveTiles, tile.Type+share.TileType(offsets[0]))
		b := share.TilesOfType(me.AliveTiles, tile.Type+share.TileType(offsets[1]))
		if len(a) == 0 || len(b) == 0 {
			continue
		}
		out = append(out, []share.Tile{a[0], b[0]})
	}
	return out
}

// legalSameType 别人打出的牌，手里有 n 张同类型的牌（碰为 2，直杠为 3）
func legalSameType(n int) func(v *ContextView) [][]share.Tile {
	return func(v *ContextView) [][]share.Tile {
		me := v.me()
		tile, _, ok := v.lastDiscard()
		if !ok || aliveMod(me) != 1 {
			return nil
		}
		same := share.TilesOfType(me.AliveTiles, tile.Type)
		if len(same) < n {
			return nil
		}
		return [][]share.Tile{same[:n]}
	}
}

func legalAngang(v *ContextView) [][]share.Tile {
	me := v.me()
	if aliveMod(me) != 2 {
		return nil
	}
	var out [][]share.Tile
	for tileType := share.Man1; tileType <= share.Red; tileType++ {
		same := share.TilesOfType(me.AliveTiles, tileType)
		if len(same) == 4 {
			out = append(out, same)
		}
	}
	return out
}

func legalBugang(v *ContextView) [][]share.Tile {
	me := v.me()
	if aliveMod(me) != 2 {
		return nil
	}
	var out [][]share.Tile
	for _, meld := range me.Melds {
		if meld.Type != MeldPeng {
			continue
		}
		same := share.TilesOfType(me.AliveTiles, meld.Tiles[0].Type)
		if len(same) > 0 {
			out = append(out, same[:1])
		}
	}
	return out
}

// legalWin 自摸：刚摸过牌（或刚补过牌）且手牌和牌；点炮：别人打出的牌加上手牌和牌
func legalWin(v *ContextView) [][]share.Tile {
	me := v.me()
	if hasFlower(me.AliveTiles) {
		return nil
	}
	switch aliveMod(me) {
	case 2:
		last := v.ctx.LastAction
		if last == nil || last.Seat != v.seat || (last.Type != Draw && last.Type != DrawBottom) {
			return nil
		}
		if v.IsWin(me.AliveTiles, me.FixedMelds()) {
			return noTiles
		}
	case 1:
		tile, _, ok := v.lastDiscard()
		if !ok {
			return nil
		}
		hand := append(slices.Clone(me.AliveTiles), tile)
		if v.IsWin(hand, me.FixedMelds()) {
			return noTiles
		}
	}
	return nil
}

// legalDraw 上家打牌后，或开局时的庄家
func legalDraw(v *ContextView) [][]share.Tile {
	me := v.me()
	if aliveMod(me) != 1 || v.WallSize() <= 0 {
		return nil
	}
	last := v.ctx.LastAction
	switch {
	case last == nil || last.Type == Deal:
		if v.seat != v.ctx.Dealer {
			return nil
		}
	case last.Type == Discard || last.Type == DiscardWithTing:
		if last.Seat != v.seat.Prev() {
			return nil
		}
	default:
		return nil
	}
	return noTiles
}

// legalDrawBottom 自己杠牌或补花之后从牌墙尾部补牌
func legalDrawBottom(v *ContextView) [][]share.Tile {
	me := v.me()
	if aliveMod(me) != 1 || v.WallSize() <= 0 {
		return nil
	}
	last := v.ctx.LastAction
	if last == nil || last.Seat != v.seat {
		return nil
	}
	switch last.Type {
	case Zhigang, Bugang, Angang, Buhua:
		return noTiles
	}
	return nil
}

func legalDiscard(v *ContextView) [][]share.Tile {
	me := v.me()
	if aliveMod(me) != 2 {
		return nil
	}
	var out [][]share.Tile
	for _, t := range share.SortedTiles(me.AliveTiles) {
		if !t.Type.IsFlower() {
			out = append(out, []share.Tile{t})
		}
	}
	return out
}

// legalDiscardWithTing 打出后手牌至少听一张牌，已经报听的不能再报
func legalDiscardWithTing(v *ContextView) [][]share.Tile {
	me := v.me()
	if me.IsTing || hasFlower(me.AliveTiles) {
		return nil
	}
	var out [][]share.Tile
	for _, candidate := range legalDiscard(v) {
		rest, _ := share.RemoveTiles(me.AliveTiles, candidate...)
		if isWaiting(v, rest, me.FixedMelds()) {
			out = append(out, candidate)
		}
	}
	return out
}

func legalBuhua(v *ContextView) [][]share.Tile {
	me := v.me()
	if aliveMod(me) != 2 {
		return nil
	}
	var out [][]share.Tile
	for _, t := range share.SortedTiles(me.AliveTiles) {
		if t.Type.IsFlower() {
			out = append(out, []share.Tile{t})
		}
	}
	return out
}

// applyClaim 吃、碰、直杠：从出牌者的牌河取走那张牌，和手里的牌组成面子
func applyClaim(meldType MeldType) func(ctx *GameContext, action Action) error {
	return func(ctx *GameContext, action Action) error {
		tile, from, ok := ctx.View(action.Seat).lastDiscard()
		if !ok {
			return fmt.Errorf("%s: 没有可以认领的出牌", action.Type)
		}
		me := ctx.Player(action.Seat)
		if !me.RemoveTiles(action.Tiles...) {
			return fmt.Errorf("%s %v: %w", action.Type, action.Tiles, ErrIllegalTiles)
		}
		discarder := ctx.Player(from)
		if n := len(discarder.DiscardPile); n > 0 && discarder.DiscardPile[n-1] == tile {
			discarder.DiscardPile = discarder.DiscardPile[:n-1]
		}
		meldTiles := share.SortedTiles(append(slices.Clone(action.Tiles), tile))
		me.Melds = append(me.Melds, Meld{Type: meldType, Tiles: meldTiles, From: from})
		return nil
	}
}

func applyAngang(ctx *GameContext, action Action) error {
	me := ctx.Player(action.Seat)
	if !me.RemoveTiles(action.Tiles...) {
		return fmt.Errorf("%s %v: %w", action.Type, action.Tiles, ErrIllegalTiles)
	}
	me.Melds = append(me.Melds, Meld{Type: MeldAngang, Tiles: share.SortedTiles(action.Tiles), From: share.NoSeat})
	return nil
}

func applyBugang(ctx *GameContext, action Action) error {
	me := ctx.Player(action.Seat)
	if len(action.Tiles) != 1 {
		return fmt.Errorf("%s %v: %w", action.Type, action.Tiles, ErrIllegalTiles)
	}
	tile := action.Tiles[0]
	for i, meld := range me.Melds {
		if meld.Type != MeldPeng || meld.Tiles[0].Type != tile.Type {
			continue
		}
		if !me.RemoveTiles(tile) {
			break
		}
		me.Melds[i] = Meld{Type: MeldGang, Tiles: share.SortedTiles(append(meld.Tiles, tile)), From: meld.From}
		return nil
	}
	return fmt.Errorf("%s %v: %w", action.Type, action.Tiles, ErrIllegalTiles)
}

func applyWin(ctx *GameContext, action Action) error {
	me := ctx.Player(action.Seat)
	result := &GameResult{Winner: action.Seat, FromSeat: share.NoSeat}
	hand := slices.Clone(me.AliveTiles)
	if tile, from, ok := ctx.View(action.Seat).lastDiscard(); ok {
		hand = append(hand, tile)
		result.FromSeat = from
	}
	result.WinTiles = share.SortedTiles(hand)
	ctx.Result = result
	return nil
}

func applyDraw(bottom bool) func(ctx *GameContext, action Action) error {
	return func(ctx *GameContext, action Action) error {
		wall := ctx.Wall()
		var tile share.Tile
		var ok bool
		if bottom {
			tile, ok = wall.DrawBottom()
		} else {
			tile, ok = wall.Draw()
		}
		if !ok {
			return fmt.Errorf("%s: 牌墙已空", action.Type)
		}
		ctx.Player(action.Seat).DrawTile(tile)
		return nil
	}
}

func applyDiscard(ting bool) func(ctx *GameContext, action Action) error {
	return func(ctx *GameContext, action Action) error {
		me := ctx.Player(action.Seat)
		if len(action.Tiles) != 1 || !me.DiscardTile(action.Tiles[0]) {
			return fmt.Errorf("%s %v: %w", action.Type, action.Tiles, ErrIllegalTiles)
		}
		if ting {
			me.IsTing = true
		}
		return nil
	}
}

func applyBuhua(ctx *GameContext, action Action) error {
	me := ctx.Player(action.Seat)
	if len(action.Tiles) != 1 || !action.Tiles[0].Type.IsFlower() || !me.RemoveTiles(action.Tiles[0]) {
		return fmt.Errorf("%s %v: %w", action.Type, action.Tiles, ErrIllegalTiles)
	}
	me.FlowerTiles = append(me.FlowerTiles, action.Tiles[0])
	return nil
}

// applyDeal 从庄家开始，每个座位依次摸 DealCount 张
func applyDeal(ctx *GameContext, _ Action) error {
	wall := ctx.Wall()
	if wall.Size() < DealCount*share.SeatCount {
		return fmt.Errorf("%s: 牌墙只剩 %d 张", Deal, wall.Size())
	}
	dealer := ctx.Dealer
	if !dealer.Valid() {
		dealer = share.SeatEast
	}
	for i := 0; i < DealCount; i++ {
		seat := dealer
		for range share.SeatCount {
			tile, _ := wall.Draw()
			ctx.Player(seat).AddTile(tile)
			seat = seat.Next()
		}
	}
	return nil
}

func applyLiuju(ctx *GameContext, _ Action) error {
	ctx.Result = &GameResult{Winner: share.NoSeat, FromSeat: share.NoSeat, Draw: true}
	return nil
}
