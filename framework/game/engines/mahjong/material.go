package mahjong

import (
	"math/rand"
	"slices"

	"gomahjong/framework/game/share"
)

// Wall 牌墙：普通摸牌从头部取，补牌（杠后、补花后）从尾部取
type Wall struct {
	tiles []share.Tile
	head  int
	tail  int // 尾部下一张的位置（不含）
}

// NewWall 用给定的牌和随机源洗牌生成牌墙
func NewWall(tiles []share.Tile, rng *rand.Rand) *Wall {
	w := &Wall{tiles: slices.Clone(tiles)}
	if rng != nil {
		rng.Shuffle(len(w.tiles), func(i, j int) {
			w.tiles[i], w.tiles[j] = w.tiles[j], w.tiles[i]
		})
	}
	w.tail = len(w.tiles)
	return w
}

// Size 剩余张数
func (w *Wall) Size() int {
	if w == nil {
		return 0
	}
	return w.tail - w.head
}

// Draw 从牌墙头部摸一张
func (w *Wall) Draw() (share.Tile, bool) {
	if w.Size() <= 0 {
		return share.Tile{}, false
	}
	t := w.tiles[w.head]
	w.head++
	return t, true
}

// DrawBottom 从牌墙尾部补一张
func (w *Wall) DrawBottom() (share.Tile, bool) {
	if w.Size() <= 0 {
		return share.Tile{}, false
	}
	w.tail--
	return w.tiles[w.tail], true
}

type MeldType int

const (
	MeldChi    MeldType = iota // 吃
	MeldPeng                   // 碰
	MeldGang                   // 明杠（直杠、补杠）
	MeldAngang                 // 暗杠
)

func (m MeldType) String() string {
	switch m {
	case MeldChi:
		return "Chi"
	case MeldPeng:
		return "Peng"
	case MeldGang:
		return "Gang"
	case MeldAngang:
		return "Angang"
	default:
		return "Unknown"
	}
}

type Meld struct {
	Type  MeldType
	Tiles []share.Tile
	From  share.Seat // 从哪个玩家那里获得，暗杠为 NoSeat
}

// GameResult 一局的结果，和牌评分不在这里计算
type GameResult struct {
	Winner   share.Seat // 流局时为 NoSeat
	FromSeat share.Seat // 点炮者，自摸或流局时为 NoSeat
	WinTiles []share.Tile
	Draw     bool // 是否流局
}
