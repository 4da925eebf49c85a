package mahjong

import (
	"slices"

	"gomahjong/framework/game/share"
)

// ActionTypeAndSeat 参与优先级比较的候选：动作类型 + 座位 + 触发座位（上一个动作的座位）
type ActionTypeAndSeat struct {
	Type    *ActionType
	Seat    share.Seat
	Trigger share.Seat
}

// Comparator 返回值大于 0 表示 a 优先于 b，等于 0 只在 a、b 完全相同时出现
type Comparator func(a, b ActionTypeAndSeat) int

// DefaultPriorityList 动作类型优先级，先低后高，不在列表里的最低
var DefaultPriorityList = []*ActionType{Chi, Peng, Zhigang, Buhua, DrawBottom, Win}

// relationRank 与触发座位的关系，越大越优先；自己最弱
var relationRank = map[share.Relation]int{
	share.RelationSelf:   0,
	share.RelationPrev:   1,
	share.RelationAcross: 2,
	share.RelationNext:   3,
}

// NewPriorityComparator 和 > 补牌 > 补花 > 杠 > 碰 > 吃 > 其他
// 同级时比较与触发座位的关系，仍相同时座位序号小的优先
func NewPriorityComparator(priorityList []*ActionType) Comparator {
	list := slices.Clone(priorityList)
	return func(a, b ActionTypeAndSeat) int {
		if c := slices.Index(list, a.Type) - slices.Index(list, b.Type); c != 0 {
			return c
		}
		if c := relationRank[relationToTrigger(a)] - relationRank[relationToTrigger(b)]; c != 0 {
			return c
		}
		return int(b.Seat) - int(a.Seat)
	}
}

// relationToTrigger 没有触发座位或候选没有座位时视为自己
func relationToTrigger(c ActionTypeAndSeat) share.Relation {
	if !c.Trigger.Valid() || !c.Seat.Valid() {
		return share.RelationSelf
	}
	return c.Trigger.RelationOf(c.Seat)
}

// Best 按比较器选出优先级最高的候选，空集合返回 -1
func (c Comparator) Best(candidates []ActionTypeAndSeat) int {
	best := -1
	for i, candidate := range candidates {
		if best < 0 || c(candidate, candidates[best]) > 0 {
			best = i
		}
	}
	return best
}
