package bot

import (
	"context"
	"errors"
	"math/rand"
	"sync"

	"gomahjong/framework/game/engines/mahjong"
	"gomahjong/framework/game/share"
)

var errNoCandidate = errors.New("没有候选动作")

// RandomDeliberator 均匀随机选择
type RandomDeliberator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandomDeliberator(rng *rand.Rand) *RandomDeliberator {
	return &RandomDeliberator{rng: rng}
}

func (d *RandomDeliberator) Deliberate(ctx context.Context, _ *mahjong.ContextView, _ []*mahjong.ActionType, candidates []mahjong.Action) (mahjong.Action, error) {
	if err := ctx.Err(); err != nil {
		return mahjong.Action{}, err
	}
	if len(candidates) == 0 {
		return mahjong.Action{}, errNoCandidate
	}
	d.mu.Lock()
	i := d.rng.Intn(len(candidates))
	d.mu.Unlock()
	return candidates[i], nil
}

// GreedyDeliberator 牌效优先：向听数最小，其次有效进张最多，听牌时优先立直宣言
type GreedyDeliberator struct {
	searcher *mahjong.Searcher
}

func NewGreedyDeliberator(searcher *mahjong.Searcher) *GreedyDeliberator {
	return &GreedyDeliberator{searcher: searcher}
}

type evaluation struct {
	shanten int
	ukeire  int
	ting    bool
}

// better 向听数 > 进张数 > 是否宣言听牌
func (e evaluation) better(o evaluation) bool {
	if e.shanten != o.shanten {
		return e.shanten < o.shanten
	}
	if e.ukeire != o.ukeire {
		return e.ukeire > o.ukeire
	}
	return e.ting && !o.ting
}

func (d *GreedyDeliberator) Deliberate(ctx context.Context, view *mahjong.ContextView, _ []*mahjong.ActionType, candidates []mahjong.Action) (mahjong.Action, error) {
	if len(candidates) == 0 {
		return mahjong.Action{}, errNoCandidate
	}
	me := view.MyInfo()
	visible := visibleTiles(view)

	best := -1
	var bestEval evaluation
	for i, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return mahjong.Action{}, err
		}
		eval, ok := d.evaluate(me, candidate, visible)
		if !ok {
			continue
		}
		if best < 0 || eval.better(bestEval) {
			best, bestEval = i, eval
		}
	}
	if best < 0 {
		return candidates[0], nil
	}
	return candidates[best], nil
}

// evaluate 假设执行动作后的手牌评估
func (d *GreedyDeliberator) evaluate(me mahjong.PlayerImage, action mahjong.Action, visible *mahjong.Hand34) (evaluation, bool) {
	hand := me.AliveTiles
	fixedMelds := me.FixedMelds()

	switch action.Type {
	case mahjong.Pass:
	case mahjong.Discard, mahjong.DiscardWithTing:
		rest, ok := share.RemoveTiles(hand, action.Tiles...)
		if !ok {
			return evaluation{}, false
		}
		hand = rest
	case mahjong.Chi, mahjong.Peng, mahjong.Zhigang, mahjong.Angang:
		rest, ok := share.RemoveTiles(hand, action.Tiles...)
		if !ok {
			return evaluation{}, false
		}
		hand = rest
		fixedMelds++
	case mahjong.Bugang:
		rest, ok := share.RemoveTiles(hand, action.Tiles...)
		if !ok {
			return evaluation{}, false
		}
		hand = rest
	default:
		return evaluation{}, false
	}

	eval := evaluation{
		shanten: d.searcher.Shanten(hand, fixedMelds),
		ting:    action.Type == mahjong.DiscardWithTing,
	}
	if eval.shanten == 0 && len(hand)%3 == 1 {
		h13, _ := mahjong.Hand34FromTiles(hand)
		_, eval.ukeire = d.searcher.WaitsAndUkeire(h13, fixedMelds, visible)
	}
	return eval, true
}

// visibleTiles 所有座位的牌河和副露
func visibleTiles(view *mahjong.ContextView) *mahjong.Hand34 {
	var visible mahjong.Hand34
	add := func(tiles []share.Tile) {
		h, _ := mahjong.Hand34FromTiles(tiles)
		for i := range h {
			visible[i] += h[i]
		}
	}
	for _, seat := range share.AllSeats {
		public := view.PublicInfo(seat)
		add(public.DiscardPile)
		for _, meld := range public.Melds {
			add(meld.Tiles)
		}
	}
	return &visible
}
