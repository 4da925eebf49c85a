package mahjong

import (
	"fmt"
	"slices"
	"strings"

	"gomahjong/framework/game/share"
)

// ActionType 动作类型，不可变的描述符
// legal 只读取 ContextView 计算当前可选的牌组；apply 由引擎在动作被选中后执行
type ActionType struct {
	name      string
	player    bool // 是否为玩家动作（否则为自动动作，如发牌、流局）
	needTiles bool // 动作是否必须携带牌
	legal     func(view *ContextView) [][]share.Tile
	apply     func(ctx *GameContext, action Action) error
}

func (t *ActionType) Name() string {
	return t.name
}

func (t *ActionType) String() string {
	return t.name
}

// IsPlayerAction 是否为玩家动作
func (t *ActionType) IsPlayerAction() bool {
	return t.player
}

// NeedTiles 动作是否必须携带牌组
func (t *ActionType) NeedTiles() bool {
	return t.needTiles
}

// LegalTiles 返回该动作类型当前所有合法的牌组（可能为空）
// 不需要牌的动作合法时返回一个空牌组
func (t *ActionType) LegalTiles(view *ContextView) [][]share.Tile {
	if t.legal == nil {
		return nil
	}
	return t.legal(view)
}

// IsLegal 判断某个座位当前能否做这个动作
func (t *ActionType) IsLegal(view *ContextView) bool {
	return len(t.LegalTiles(view)) > 0
}

// Action 动作：座位 + 类型 + 可选牌组
type Action struct {
	Type  *ActionType
	Seat  share.Seat
	Tiles []share.Tile
}

// NewPlayerAction 创建玩家动作
func NewPlayerAction(seat share.Seat, actionType *ActionType, tiles ...share.Tile) Action {
	return Action{Type: actionType, Seat: seat, Tiles: tiles}
}

// NewAutoAction 创建没有座位的自动动作
func NewAutoAction(actionType *ActionType) Action {
	return Action{Type: actionType, Seat: share.NoSeat}
}

// IsPass 是否为过
func (a Action) IsPass() bool {
	return a.Type == Pass
}

// Signature 动作签名：类型 + 牌型组成，用于去重和合法性校验
func (a Action) Signature() string {
	if a.Type == nil {
		return ""
	}
	return a.Type.name + "|" + share.Signature(a.Tiles)
}

func (a Action) String() string {
	var b strings.Builder
	if a.Seat.Valid() {
		b.WriteString(a.Seat.String())
		b.WriteByte(' ')
	}
	if a.Type == nil {
		b.WriteString("<nil>")
	} else {
		b.WriteString(a.Type.name)
	}
	if len(a.Tiles) > 0 {
		fmt.Fprintf(&b, " %v", a.Tiles)
	}
	return b.String()
}

// DistinctByTileTypes 按牌型组成去重，保留第一次出现的动作
// 牌的实体不同但类型组成相同的候选（例如两张不同的三万）是同一个选择
func DistinctByTileTypes(actions []Action) []Action {
	seen := make(map[string]struct{}, len(actions))
	out := make([]Action, 0, len(actions))
	for _, a := range actions {
		key := a.Signature()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, a)
	}
	return out
}

// ContainsType 判断动作类型集合中是否包含 t
func ContainsType(types []*ActionType, t *ActionType) bool {
	return slices.Contains(types, t)
}

// LegalActions 计算某座位在给定动作类型下的所有合法动作（已去重）
func LegalActions(view *ContextView, types []*ActionType) []Action {
	var actions []Action
	for _, t := range types {
		for _, tiles := range t.LegalTiles(view) {
			actions = append(actions, NewPlayerAction(view.MySeat(), t, tiles...))
		}
	}
	return DistinctByTileTypes(actions)
}

// PassAction 手牌数模 3 余 1 时（没有刚摸牌、没有必须做的动作）可以过
func PassAction(view *ContextView) (Action, bool) {
	if !Pass.IsLegal(view) {
		return Action{}, false
	}
	return NewPlayerAction(view.MySeat(), Pass), true
}
