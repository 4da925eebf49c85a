package mahjong

import (
	"errors"
	"fmt"

	"gomahjong/framework/game/share"
)

var ErrInvalidStage = errors.New("阶段定义不合法")

// GameStrategy 一种具体规则：阶段、坐庄、优先级、默认动作、结束判定
// 构造完成后只读，可以被多个 goroutine 同时使用
type GameStrategy interface {
	// RoundReady 桌子是否可以开局
	RoundReady(table *Table) bool

	// AllTiles 一局使用的全部牌
	AllTiles() []share.Tile

	// StageByName 按名字查找阶段，不存在时返回 false
	StageByName(name string) (Stage, bool)

	// PrepareRound 开局前设置庄家、初始阶段并洗牌
	PrepareRound(ctx *GameContext)

	PriorityComparator() Comparator

	// PlayerDefaultAction 座位需要动作却没有给出时的默认动作，无法确定时返回 nil
	PlayerDefaultAction(ctx *GameContext, seat share.Seat, types []*ActionType) *Action

	// TableDefaultAction 桌面强制动作，不为 nil 时跳过所有玩家的选择
	TableDefaultAction(ctx *GameContext) *Action

	// RoundEnded 本局是否结束
	RoundEnded(ctx *GameContext) bool

	// IsWin 手牌是否和牌，fixedMelds 为已经副露的面子数
	IsWin(tiles []share.Tile, fixedMelds int) bool
}

// WinChecker 和牌判定，牌型和番种计算在规则之外
type WinChecker interface {
	IsWin(tiles []share.Tile, fixedMelds int) bool
}

// DealerRule 根据上一局决定本局庄家
type DealerRule func(ctx *GameContext) share.Seat

// KeepDealerOnWin 第一局东家坐庄；庄家和牌连庄，否则下家坐庄
func KeepDealerOnWin(ctx *GameContext) share.Seat {
	if !ctx.PrevDealer.Valid() {
		return share.SeatEast
	}
	if ctx.PrevResult != nil && !ctx.PrevResult.Draw && ctx.PrevResult.Winner == ctx.PrevDealer {
		return ctx.PrevDealer
	}
	return ctx.PrevDealer.Next()
}

// BaseStrategy 常用规则的公共部分，具体规则提供阶段、坐庄规则和和牌判定
type BaseStrategy struct {
	stages       map[string]Stage
	initialStage string
	dealerRule   DealerRule
	winChecker   WinChecker
	comparator   Comparator
	withFlowers  bool
}

// BaseOptions 构造 BaseStrategy 的参数
type BaseOptions struct {
	Stages       []Stage
	InitialStage string
	DealerRule   DealerRule   // 为空时使用 KeepDealerOnWin
	WinChecker   WinChecker   // 为空时任何手牌都不和
	PriorityList []*ActionType // 为空时使用 DefaultPriorityList
	WithFlowers  bool
}

// NewBaseStrategy 一次性构建阶段表，之后只读
func NewBaseStrategy(opts BaseOptions) (*BaseStrategy, error) {
	stages := make(map[string]Stage, len(opts.Stages))
	for _, stage := range opts.Stages {
		if stage == nil || stage.Name() == "" {
			return nil, fmt.Errorf("%w: 阶段名为空", ErrInvalidStage)
		}
		if _, exists := stages[stage.Name()]; exists {
			return nil, fmt.Errorf("%w: 阶段 %s 重复", ErrInvalidStage, stage.Name())
		}
		stages[stage.Name()] = stage
	}
	if _, ok := stages[opts.InitialStage]; !ok {
		return nil, fmt.Errorf("%w: 初始阶段 %q 不存在", ErrInvalidStage, opts.InitialStage)
	}

	s := &BaseStrategy{
		stages:       stages,
		initialStage: opts.InitialStage,
		dealerRule:   opts.DealerRule,
		winChecker:   opts.WinChecker,
		withFlowers:  opts.WithFlowers,
	}
	if s.dealerRule == nil {
		s.dealerRule = KeepDealerOnWin
	}
	priorityList := opts.PriorityList
	if len(priorityList) == 0 {
		priorityList = DefaultPriorityList
	}
	s.comparator = NewPriorityComparator(priorityList)
	return s, nil
}

// RoundReady 四个座位都有玩家
func (s *BaseStrategy) RoundReady(table *Table) bool {
	if table == nil {
		return false
	}
	for _, seat := range share.AllSeats {
		if !table.Occupied(seat) {
			return false
		}
	}
	return true
}

func (s *BaseStrategy) AllTiles() []share.Tile {
	return share.AllTiles(s.withFlowers)
}

func (s *BaseStrategy) StageByName(name string) (Stage, bool) {
	stage, ok := s.stages[name]
	return stage, ok
}

func (s *BaseStrategy) PrepareRound(ctx *GameContext) {
	ctx.Dealer = s.dealerRule(ctx)
	ctx.StageName = s.initialStage
	if ctx.Table != nil {
		ctx.Table.ResetWall(s.AllTiles())
	}
}

func (s *BaseStrategy) PriorityComparator() Comparator {
	return s.comparator
}

// PlayerDefaultAction 补牌 > 摸牌 > 打牌
// 打牌时，上一个动作是自己摸牌就打出摸到的牌，否则打出排序后的第一张
func (s *BaseStrategy) PlayerDefaultAction(ctx *GameContext, seat share.Seat, types []*ActionType) *Action {
	view := ctx.View(seat)
	for _, t := range []*ActionType{DrawBottom, Draw} {
		if ContainsType(types, t) && t.IsLegal(view) {
			a := NewPlayerAction(seat, t)
			return &a
		}
	}
	if !ContainsType(types, Discard) {
		return nil
	}
	me := ctx.Player(seat)
	if me == nil {
		return nil
	}
	last := ctx.LastAction
	if last != nil && last.Seat == seat && (last.Type == Draw || last.Type == DrawBottom) &&
		me.LastDrawnTile != nil && !me.LastDrawnTile.Type.IsFlower() {
		a := NewPlayerAction(seat, Discard, *me.LastDrawnTile)
		return &a
	}
	for _, t := range share.SortedTiles(me.AliveTiles) {
		if !t.Type.IsFlower() {
			a := NewPlayerAction(seat, Discard, t)
			return &a
		}
	}
	return nil
}

// TableDefaultAction 牌墙摸完时流局
func (s *BaseStrategy) TableDefaultAction(ctx *GameContext) *Action {
	if ctx.Table != nil && ctx.WallSize() == 0 {
		a := NewAutoAction(Liuju)
		return &a
	}
	return nil
}

func (s *BaseStrategy) RoundEnded(ctx *GameContext) bool {
	return ctx.Result != nil
}

func (s *BaseStrategy) IsWin(tiles []share.Tile, fixedMelds int) bool {
	if s.winChecker == nil {
		return false
	}
	return s.winChecker.IsWin(tiles, fixedMelds)
}
