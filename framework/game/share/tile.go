package share

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

type TileType int

const (
	// 万子 (0-8)
	Man1 TileType = iota
	Man2
	Man3
	Man4
	Man5
	Man6
	Man7
	Man8
	Man9

	// 筒子 (9-17)
	Pin1
	Pin2
	Pin3
	Pin4
	Pin5
	Pin6
	Pin7
	Pin8
	Pin9

	// 索子 (18-26)
	So1
	So2
	So3
	So4
	So5
	So6
	So7
	So8
	So9

	// 字牌 (27-33)
	East
	South
	West
	North
	White
	Green
	Red

	// 花牌 (34-41)，只能补花
	Spring
	Summer
	Autumn
	Winter
	Plum
	Orchid
	Bamboo
	Chrysanthemum
)

const (
	OrdinaryTypeCount = 34  // 普通牌种类数
	TileTypeCount     = 42  // 含花牌的种类数
	TileLimit         = 144 // 含花牌的总张数
)

// Suit 花色
type Suit int

const (
	SuitMan Suit = iota
	SuitPin
	SuitSo
	SuitHonor
	SuitFlower
)

type Tile struct {
	Type TileType
	ID   int // 用于区分相同的牌（0-3），花牌只有一张，ID 为 0
}

func (t TileType) IsNumbered() bool {
	return t >= Man1 && t <= So9
}

func (t TileType) IsHonor() bool {
	return t >= East && t <= Red
}

func (t TileType) IsFlower() bool {
	return t >= Spring && t <= Chrysanthemum
}

func (t TileType) Suit() Suit {
	switch {
	case t >= Man1 && t <= Man9:
		return SuitMan
	case t >= Pin1 && t <= Pin9:
		return SuitPin
	case t >= So1 && t <= So9:
		return SuitSo
	case t.IsHonor():
		return SuitHonor
	default:
		return SuitFlower
	}
}

// Rank 数牌点数（1-9），非数牌返回 0
func (t TileType) Rank() int {
	if !t.IsNumbered() {
		return 0
	}
	return int(t)%9 + 1
}

var honorNames = [...]string{"东", "南", "西", "北", "白", "发", "中"}
var flowerNames = [...]string{"春", "夏", "秋", "冬", "梅", "兰", "竹", "菊"}
var suitNames = [...]string{"万", "筒", "索"}

func (t TileType) String() string {
	switch {
	case t.IsNumbered():
		return strconv.Itoa(t.Rank()) + suitNames[t.Suit()]
	case t.IsHonor():
		return honorNames[t-East]
	case t.IsFlower():
		return flowerNames[t-Spring]
	default:
		return fmt.Sprintf("TileType(%d)", int(t))
	}
}

func (t Tile) String() string {
	return t.Type.String()
}

// AllTiles 生成整副牌，withFlowers 为 true 时包含 8 张花牌
func AllTiles(withFlowers bool) []Tile {
	tiles := make([]Tile, 0, TileLimit)
	for tileType := Man1; tileType <= Red; tileType++ {
		for i := 0; i < 4; i++ {
			tiles = append(tiles, Tile{Type: tileType, ID: i})
		}
	}
	if withFlowers {
		for tileType := Spring; tileType <= Chrysanthemum; tileType++ {
			tiles = append(tiles, Tile{Type: tileType})
		}
	}
	return tiles
}

// CompareTiles 牌的固定排序：先按类型，再按 ID
func CompareTiles(a, b Tile) int {
	if a.Type != b.Type {
		return int(a.Type) - int(b.Type)
	}
	return a.ID - b.ID
}

// SortedTiles 返回排序后的副本
func SortedTiles(tiles []Tile) []Tile {
	out := slices.Clone(tiles)
	slices.SortFunc(out, CompareTiles)
	return out
}

// Signature 牌型组成签名：只看牌的类型（花色+点数）的多重集合，不看具体是哪一张
// 签名相同的两组牌视为重复候选
func Signature(tiles []Tile) string {
	types := make([]int, len(tiles))
	for i, t := range tiles {
		types[i] = int(t.Type)
	}
	slices.Sort(types)
	var b strings.Builder
	for i, tt := range types {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(tt))
	}
	return b.String()
}

// ContainsTile 按实体（类型+ID）判断是否包含
func ContainsTile(tiles []Tile, tile Tile) bool {
	return slices.Contains(tiles, tile)
}

// RemoveTiles 按实体移除，返回新切片；任意一张不存在时返回 false
func RemoveTiles(tiles []Tile, remove ...Tile) ([]Tile, bool) {
	out := slices.Clone(tiles)
	for _, r := range remove {
		idx := slices.Index(out, r)
		if idx < 0 {
			return tiles, false
		}
		out = slices.Delete(out, idx, idx+1)
	}
	return out, true
}

// CountType 统计某种牌的张数
func CountType(tiles []Tile, tileType TileType) int {
	n := 0
	for _, t := range tiles {
		if t.Type == tileType {
			n++
		}
	}
	return n
}

// TilesOfType 返回某种牌的所有实体，按 ID 排序
func TilesOfType(tiles []Tile, tileType TileType) []Tile {
	var out []Tile
	for _, t := range tiles {
		if t.Type == tileType {
			out = append(out, t)
		}
	}
	slices.SortFunc(out, CompareTiles)
	return out
}
