package mahjong

import (
	"fmt"
	"time"

	"gomahjong/common/cache"
	"gomahjong/framework/game/share"
)

type Hand34 [share.OrdinaryTypeCount]uint8

// Candidate 打出某种牌后的听牌情况
type Candidate struct {
	DiscardType    share.TileType
	DiscardOptions []share.Tile     // 该类型在手中的实体牌
	Waits          []share.TileType // 听哪些牌
	Ukeire         int              // 有效张数
}

// SearcherCacheCost 搜索缓存的最大条目数（每个条目成本为 1）
const SearcherCacheCost = 1 << 16

// Searcher 和牌、向听、听牌搜索，结果按手牌组成缓存
// 同时实现 WinChecker
type Searcher struct {
	cache *cache.HandCache
}

// NewSearcher 创建搜索器，c 为 nil 时创建私有缓存
func NewSearcher(c *cache.HandCache) (*Searcher, error) {
	if c == nil {
		var err error
		c, err = cache.NewHandCache(SearcherCacheCost, 30*time.Minute)
		if err != nil {
			return nil, fmt.Errorf("创建搜索缓存失败: %w", err)
		}
	}
	return &Searcher{cache: c}, nil
}

// IsWin 实体牌是否和牌，手中有花牌时不和
func (s *Searcher) IsWin(tiles []share.Tile, fixedMelds int) bool {
	if len(tiles)%3 != 2 || hasFlower(tiles) {
		return false
	}
	h, _ := Hand34FromTiles(tiles)
	return s.IsAgariAll(h, fixedMelds)
}

// Shanten 实体牌的向听数，花牌不计入
func (s *Searcher) Shanten(tiles []share.Tile, fixedMelds int) int {
	h, _ := Hand34FromTiles(tiles)
	return s.ShantenAll(h, fixedMelds)
}

// SeekCandidates 弃牌后有哪些牌听牌
func (s *Searcher) SeekCandidates(hand14 []share.Tile, fixedMelds int, visible *Hand34) []Candidate {
	h14, discardOpts := Hand34FromTiles(hand14)
	var out []Candidate

	for i := 0; i < share.OrdinaryTypeCount; i++ {
		if h14[i] == 0 {
			continue
		}

		h13 := h14
		h13[i]--

		waits, ukeire := s.WaitsAndUkeire(h13, fixedMelds, visible)
		if len(waits) == 0 {
			continue
		}

		out = append(out, Candidate{
			DiscardType:    share.TileType(i),
			DiscardOptions: discardOpts[share.TileType(i)],
			Waits:          waits,
			Ukeire:         ukeire,
		})
	}

	return out
}

// WaitsAndUkeire 枚举听牌 + 计算进张
func (s *Searcher) WaitsAndUkeire(h13 Hand34, fixedMelds int, visible *Hand34) ([]share.TileType, int) {
	key := h13.keyWithFixedMelds(fixedMelds)
	if v, ok := s.cache.Lookup(cache.NsWaits, key); ok {
		cached := v.([]share.TileType)
		waits := make([]share.TileType, len(cached))
		copy(waits, cached)
		return waits, ukeireByWaits(h13, waits, visible)
	}

	var waits []share.TileType
	for t := 0; t < share.OrdinaryTypeCount; t++ {
		if h13[t] >= 4 {
			continue
		}
		work := h13
		work[t]++
		if s.IsAgariAll(work, fixedMelds) {
			waits = append(waits, share.TileType(t))
		}
	}

	s.cache.Remember(cache.NsWaits, key, append([]share.TileType(nil), waits...))
	return waits, ukeireByWaits(h13, waits, visible)
}

// ukeireByWaits 计算听牌的进张数
func ukeireByWaits(h13 Hand34, waits []share.TileType, visible *Hand34) int {
	ukeire := 0
	for _, tt := range waits {
		idx := int(tt)
		add := 4 - int(h13[idx])
		if visible != nil {
			add -= int((*visible)[idx])
			if add < 0 {
				add = 0
			}
		}
		ukeire += add
	}
	return ukeire
}

// IsAgariAll 是否和牌
func (s *Searcher) IsAgariAll(h Hand34, fixedMelds int) bool {
	key := h.keyWithFixedMelds(fixedMelds)
	if v, ok := s.cache.Lookup(cache.NsAgari, key); ok {
		return v.(bool)
	}

	var ok bool
	if fixedMelds > 0 {
		ok = IsAgariNormal(h, fixedMelds)
	} else {
		ok = IsAgariNormal(h, 0) || IsAgariQidui(h) || IsAgariShisanyao(h)
	}

	s.cache.Remember(cache.NsAgari, key, ok)
	return ok
}

// IsAgariNormal 普通牌型：一个雀头加 4-fixedMelds 个面子
func IsAgariNormal(h Hand34, fixedMelds int) bool {
	need := 4 - fixedMelds
	if need < 0 {
		return false
	}
	for pair := 0; pair < share.OrdinaryTypeCount; pair++ {
		if h[pair] < 2 {
			continue
		}
		work := h
		work[pair] -= 2
		if work.splitMelds(need) {
			return true
		}
	}
	return false
}

// IsAgariQidui 七对
func IsAgariQidui(h Hand34) bool {
	return h.pairs() >= 7
}

// IsAgariShisanyao 十三幺
func IsAgariShisanyao(h Hand34) bool {
	unique, pair := h.orphans()
	return unique == len(terminalTiles) && pair
}

// splitMelds 剩余的牌能否恰好拆成 need 个刻子或顺子
func (h *Hand34) splitMelds(need int) bool {
	i := h.first()
	if need == 0 || i < 0 {
		return need == 0 && i < 0
	}
	if h[i] >= 3 {
		h[i] -= 3
		ok := h.splitMelds(need - 1)
		h[i] += 3
		if ok {
			return true
		}
	}
	if h.takeRun(i) {
		ok := h.splitMelds(need - 1)
		h.putRun(i)
		return ok
	}
	return false
}

// Hand34FromTiles 按类型计数，同时返回每种类型对应的实体牌，花牌不计入
func Hand34FromTiles(tiles []share.Tile) (Hand34, map[share.TileType][]share.Tile) {
	var h Hand34
	byType := make(map[share.TileType][]share.Tile, share.OrdinaryTypeCount)
	for _, t := range tiles {
		if t.Type.IsFlower() {
			continue
		}
		h[t.Type]++
		byType[t.Type] = append(byType[t.Type], t)
	}
	return h, byType
}

// keyWithFixedMelds 缓存键：34 种计数加副露数
func (h Hand34) keyWithFixedMelds(fixedMelds int) string {
	b := make([]byte, 0, share.OrdinaryTypeCount+1)
	for _, n := range h {
		b = append(b, n)
	}
	return string(append(b, byte(fixedMelds)))
}

func (h *Hand34) first() int {
	for i, n := range h {
		if n > 0 {
			return i
		}
	}
	return -1
}

func (h *Hand34) pairs() int {
	n := 0
	for _, c := range h {
		n += int(c / 2)
	}
	return n
}

// orphans 幺九字牌的种类数，以及其中是否有对子
func (h *Hand34) orphans() (unique int, pair bool) {
	for _, idx := range terminalTiles {
		if h[idx] > 0 {
			unique++
		}
		if h[idx] >= 2 {
			pair = true
		}
	}
	return unique, pair
}

// takeRun 以 i 开头的顺子存在时把它拿走
func (h *Hand34) takeRun(i int) bool {
	if !sameSuitAhead(i, 2) || h[i] == 0 || h[i+1] == 0 || h[i+2] == 0 {
		return false
	}
	h[i]--
	h[i+1]--
	h[i+2]--
	return true
}

func (h *Hand34) putRun(i int) {
	h[i]++
	h[i+1]++
	h[i+2]++
}

// sameSuitAhead i 与 i+d 是否同一花色的数牌
func sameSuitAhead(i, d int) bool {
	t := share.TileType(i)
	return t.IsNumbered() && t.Rank()+d <= 9
}

var terminalTiles = [...]share.TileType{
	share.Man1, share.Man9, share.Pin1, share.Pin9, share.So1, share.So9,
	share.East, share.South, share.West, share.North, share.White, share.Green, share.Red,
}

// ShantenAll 向听数，带副露
func (s *Searcher) ShantenAll(h Hand34, fixedMelds int) int {
	key := h.keyWithFixedMelds(fixedMelds)
	if v, ok := s.cache.Lookup(cache.NsShanten, key); ok {
		return v.(int)
	}

	best := ShantenNormal(h, fixedMelds)
	if fixedMelds == 0 {
		if v := ShantenQidui(h); v < best {
			best = v
		}
		if v := ShantenShisanyao(h); v < best {
			best = v
		}
	}

	s.cache.Remember(cache.NsShanten, key, best)
	return best
}

// ShantenShisanyao 十三幺向听数
func ShantenShisanyao(h Hand34) int {
	unique, pair := h.orphans()
	sh := len(terminalTiles) - unique
	if pair {
		sh--
	}
	return sh
}

// ShantenQidui 七对向听数，种类不足七种时每缺一种多一向听
func ShantenQidui(h Hand34) int {
	unique := 0
	for _, n := range h {
		if n > 0 {
			unique++
		}
	}
	sh := 6 - h.pairs()
	if unique < 7 {
		sh += 7 - unique
	}
	return sh
}

// ShantenNormal 普通牌型向听数
func ShantenNormal(h Hand34, fixedMelds int) int {
	sr := shantenSearch{hand: h, best: 8}
	sr.walk(fixedMelds, 0, 0)
	return sr.best
}

// shantenSearch 逐张拆牌搜索最小向听
type shantenSearch struct {
	hand Hand34
	best int
}

// walk melds 已成面子数（含副露），pair 雀头数，partials 搭子数
func (sr *shantenSearch) walk(melds, pair, partials int) {
	if melds > 4 {
		return
	}
	sr.best = min(sr.best, 8-2*melds-min(partials, 4-melds)-pair)

	h := &sr.hand
	i := h.first()
	if i < 0 {
		return
	}

	if h[i] >= 3 {
		h[i] -= 3
		sr.walk(melds+1, pair, partials)
		h[i] += 3
	}
	if h.takeRun(i) {
		sr.walk(melds+1, pair, partials)
		h.putRun(i)
	}
	if pair == 0 && h[i] >= 2 {
		h[i] -= 2
		sr.walk(melds, 1, partials)
		h[i] += 2
	}
	for d := 1; d <= 2; d++ {
		if sameSuitAhead(i, d) && h[i+d] > 0 {
			h[i]--
			h[i+d]--
			sr.walk(melds, pair, partials+1)
			h[i]++
			h[i+d]++
		}
	}

	// 孤张
	h[i]--
	sr.walk(melds, pair, partials)
	h[i]++
}
