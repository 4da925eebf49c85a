package mahjong

import (
	"slices"

	"gomahjong/framework/game/share"

	"github.com/google/uuid"
)

// GameContext 一局游戏的全部可变状态，只由引擎（Game）在单个 goroutine 中修改
type GameContext struct {
	RoundID   string
	Table     *Table
	Strategy  GameStrategy
	TimeLimit TimeLimitStrategy

	StageName  string
	Dealer     share.Seat
	LastAction *Action
	Players    [share.SeatCount]*PlayerImage
	Result     *GameResult

	DoneActions []Action

	// 上一局的庄家和结果，用于决定本局庄家
	PrevDealer share.Seat
	PrevResult *GameResult
}

// NewGameContext 创建一局新的上下文，previous 为上一局（第一局为 nil）
func NewGameContext(table *Table, strategy GameStrategy, timeLimit TimeLimitStrategy, previous *GameContext) *GameContext {
	if timeLimit == nil {
		timeLimit = NoLimit{}
	}
	ctx := &GameContext{
		RoundID:    uuid.NewString(),
		Table:      table,
		Strategy:   strategy,
		TimeLimit:  timeLimit,
		Dealer:     share.NoSeat,
		PrevDealer: share.NoSeat,
	}
	if previous != nil {
		ctx.PrevDealer = previous.Dealer
		ctx.PrevResult = previous.Result
	}
	for _, seat := range share.AllSeats {
		ctx.Players[seat] = NewPlayerImage(seat)
	}
	return ctx
}

// Player 某个座位的可变状态
func (ctx *GameContext) Player(seat share.Seat) *PlayerImage {
	if !seat.Valid() {
		return nil
	}
	return ctx.Players[seat]
}

// LastActionSeat 最近一个被执行动作的座位，没有时为 NoSeat
func (ctx *GameContext) LastActionSeat() share.Seat {
	if ctx.LastAction == nil {
		return share.NoSeat
	}
	return ctx.LastAction.Seat
}

// Wall 本局使用的牌墙，由桌子持有
func (ctx *GameContext) Wall() *Wall {
	if ctx.Table == nil {
		return nil
	}
	return ctx.Table.Wall()
}

// WallSize 牌墙剩余张数
func (ctx *GameContext) WallSize() int {
	return ctx.Wall().Size()
}

// View 某个座位的只读视图
func (ctx *GameContext) View(seat share.Seat) *ContextView {
	return &ContextView{ctx: ctx, seat: seat}
}

func (ctx *GameContext) done(action Action) {
	a := action
	a.Tiles = slices.Clone(action.Tiles)
	ctx.LastAction = &a
	ctx.DoneActions = append(ctx.DoneActions, a)
}

// ContextView 某个座位看到的只读上下文
// 只暴露自己的手牌，其他座位只能看到公开部分
type ContextView struct {
	ctx  *GameContext
	seat share.Seat
}

func (v *ContextView) MySeat() share.Seat {
	return v.seat
}

// MyInfo 自己的状态（副本）
func (v *ContextView) MyInfo() PlayerImage {
	return v.ctx.Players[v.seat].Clone()
}

// PublicInfo 任意座位的公开状态
func (v *ContextView) PublicInfo(seat share.Seat) PublicImage {
	return v.ctx.Players[seat].Public()
}

// LastAction 最近一个被执行的动作（副本），没有时为 nil
func (v *ContextView) LastAction() *Action {
	if v.ctx.LastAction == nil {
		return nil
	}
	a := *v.ctx.LastAction
	a.Tiles = slices.Clone(a.Tiles)
	return &a
}

func (v *ContextView) LastActionSeat() share.Seat {
	return v.ctx.LastActionSeat()
}

func (v *ContextView) WallSize() int {
	return v.ctx.WallSize()
}

func (v *ContextView) Dealer() share.Seat {
	return v.ctx.Dealer
}

func (v *ContextView) StageName() string {
	return v.ctx.StageName
}

func (v *ContextView) RoundID() string {
	return v.ctx.RoundID
}

// IsWin 用当前规则判断一组手牌是否和牌
func (v *ContextView) IsWin(tiles []share.Tile, fixedMelds int) bool {
	return v.ctx.Strategy.IsWin(tiles, fixedMelds)
}

// me 引擎内部直接访问自己的状态，不拷贝
func (v *ContextView) me() *PlayerImage {
	return v.ctx.Players[v.seat]
}

// lastDiscard 最近一个动作是别人的打牌时返回那张牌
func (v *ContextView) lastDiscard() (share.Tile, share.Seat, bool) {
	last := v.ctx.LastAction
	if last == nil || (last.Type != Discard && last.Type != DiscardWithTing) || len(last.Tiles) != 1 {
		return share.Tile{}, share.NoSeat, false
	}
	if last.Seat == v.seat {
		return share.Tile{}, share.NoSeat, false
	}
	return last.Tiles[0], last.Seat, true
}
