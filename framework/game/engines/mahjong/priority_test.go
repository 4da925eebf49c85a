package mahjong

import (
	"testing"

	"gomahjong/framework/game/share"
)

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func TestPriorityComparator_TypeRank(t *testing.T) {
	cmp := NewPriorityComparator(DefaultPriorityList)
	trigger := share.SeatEast
	order := []*ActionType{Discard, Chi, Peng, Zhigang, Buhua, DrawBottom, Win}
	for i := 1; i < len(order); i++ {
		low := ActionTypeAndSeat{Type: order[i-1], Seat: share.SeatSouth, Trigger: trigger}
		high := ActionTypeAndSeat{Type: order[i], Seat: share.SeatNorth, Trigger: trigger}
		if cmp(high, low) <= 0 {
			t.Fatalf("%s should beat %s", order[i], order[i-1])
		}
		if cmp(low, high) >= 0 {
			t.Fatalf("%s should lose to %s", order[i-1], order[i])
		}
	}
}

func TestPriorityComparator_RelationTieBreak(t *testing.T) {
	cmp := NewPriorityComparator(DefaultPriorityList)
	trigger := share.SeatEast

	// 东家打牌，南（下家）、西（对家）、北（上家）同时和牌：下家最优先
	candidates := []ActionTypeAndSeat{
		{Type: Win, Seat: share.SeatNorth, Trigger: trigger},
		{Type: Win, Seat: share.SeatWest, Trigger: trigger},
		{Type: Win, Seat: share.SeatSouth, Trigger: trigger},
	}
	if best := cmp.Best(candidates); candidates[best].Seat != share.SeatSouth {
		t.Fatalf("expected SOUTH, got %s", candidates[best].Seat)
	}

	across := ActionTypeAndSeat{Type: Win, Seat: share.SeatWest, Trigger: trigger}
	prev := ActionTypeAndSeat{Type: Win, Seat: share.SeatNorth, Trigger: trigger}
	if cmp(across, prev) <= 0 {
		t.Fatalf("ACROSS should beat PREV")
	}
}

func TestPriorityComparator_SeatTieBreakWithoutTrigger(t *testing.T) {
	cmp := NewPriorityComparator(DefaultPriorityList)
	a := ActionTypeAndSeat{Type: Draw, Seat: share.SeatWest, Trigger: share.NoSeat}
	b := ActionTypeAndSeat{Type: Draw, Seat: share.SeatSouth, Trigger: share.NoSeat}
	if cmp(b, a) <= 0 {
		t.Fatalf("lower seat ordinal should win the final tie-break")
	}
	if cmp(a, a) != 0 {
		t.Fatalf("identical candidates should compare equal")
	}
}

func TestPriorityComparator_TotalOrder(t *testing.T) {
	cmp := NewPriorityComparator(DefaultPriorityList)
	var all []ActionTypeAndSeat
	for _, tp := range []*ActionType{Discard, Chi, Peng, Zhigang, Win} {
		for _, seat := range share.AllSeats {
			for _, trigger := range []share.Seat{share.SeatEast, share.SeatWest} {
				all = append(all, ActionTypeAndSeat{Type: tp, Seat: seat, Trigger: trigger})
			}
		}
	}

	// 同一个触发座位下，比较结果反对称且可传递
	for _, a := range all {
		for _, b := range all {
			if a.Trigger != b.Trigger {
				continue
			}
			if sign(cmp(a, b)) != -sign(cmp(b, a)) {
				t.Fatalf("antisymmetry violated: %+v vs %+v", a, b)
			}
			for _, c := range all {
				if c.Trigger != a.Trigger {
					continue
				}
				if cmp(a, b) > 0 && cmp(b, c) > 0 && cmp(a, c) <= 0 {
					t.Fatalf("transitivity violated: %+v > %+v > %+v", a, b, c)
				}
			}
		}
	}
}

func TestComparator_BestEmpty(t *testing.T) {
	if got := NewPriorityComparator(nil).Best(nil); got != -1 {
		t.Fatalf("Best(nil) expected -1, got %d", got)
	}
}
