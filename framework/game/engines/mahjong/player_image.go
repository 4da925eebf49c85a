package mahjong

import (
	"slices"

	"gomahjong/framework/game/share"
)

// PlayerImage 一个座位在本局中的私有状态，只由引擎修改
type PlayerImage struct {
	Seat          share.Seat
	AliveTiles    []share.Tile // 手中的牌
	LastDrawnTile *share.Tile  // 最新摸的牌
	DiscardPile   []share.Tile // 弃牌堆
	Melds         []Meld       // 碰、杠、吃的组合
	FlowerTiles   []share.Tile // 补出的花牌
	IsTing        bool         // 是否报听
}

// NewPlayerImage 创建座位状态
func NewPlayerImage(seat share.Seat) *PlayerImage {
	return &PlayerImage{
		Seat:        seat,
		AliveTiles:  make([]share.Tile, 0, 14),
		DiscardPile: make([]share.Tile, 0, 24),
		Melds:       make([]Meld, 0, 4),
	}
}

func (p *PlayerImage) AddTile(tile share.Tile) {
	p.AliveTiles = append(p.AliveTiles, tile)
}

// DrawTile 摸牌，同时记录最新摸到的牌
func (p *PlayerImage) DrawTile(tile share.Tile) {
	p.AliveTiles = append(p.AliveTiles, tile)
	newest := tile
	p.LastDrawnTile = &newest
}

// RemoveTiles 从手牌中按实体移除，任意一张不存在时不修改手牌
func (p *PlayerImage) RemoveTiles(tiles ...share.Tile) bool {
	rest, ok := share.RemoveTiles(p.AliveTiles, tiles...)
	if !ok {
		return false
	}
	p.AliveTiles = rest
	if p.LastDrawnTile != nil && slices.Contains(tiles, *p.LastDrawnTile) {
		p.LastDrawnTile = nil
	}
	return true
}

// DiscardTile 打出一张牌到弃牌堆
func (p *PlayerImage) DiscardTile(tile share.Tile) bool {
	if !p.RemoveTiles(tile) {
		return false
	}
	p.DiscardPile = append(p.DiscardPile, tile)
	p.LastDrawnTile = nil
	return true
}

// FixedMelds 已副露（含暗杠）的面子数
func (p *PlayerImage) FixedMelds() int {
	return len(p.Melds)
}

// Clone 深拷贝，用于只读视图
func (p *PlayerImage) Clone() PlayerImage {
	c := PlayerImage{
		Seat:        p.Seat,
		AliveTiles:  slices.Clone(p.AliveTiles),
		DiscardPile: slices.Clone(p.DiscardPile),
		FlowerTiles: slices.Clone(p.FlowerTiles),
		IsTing:      p.IsTing,
	}
	if p.LastDrawnTile != nil {
		t := *p.LastDrawnTile
		c.LastDrawnTile = &t
	}
	c.Melds = make([]Meld, len(p.Melds))
	for i, m := range p.Melds {
		c.Melds[i] = Meld{Type: m.Type, Tiles: slices.Clone(m.Tiles), From: m.From}
	}
	return c
}

// PublicImage 其他座位可见的部分：副露、牌河、花牌、手牌张数
type PublicImage struct {
	Seat        share.Seat
	TileCount   int
	DiscardPile []share.Tile
	Melds       []Meld
	FlowerTiles []share.Tile
	IsTing      bool
}

func (p *PlayerImage) Public() PublicImage {
	c := p.Clone()
	return PublicImage{
		Seat:        c.Seat,
		TileCount:   len(c.AliveTiles),
		DiscardPile: c.DiscardPile,
		Melds:       c.Melds,
		FlowerTiles: c.FlowerTiles,
		IsTing:      c.IsTing,
	}
}
