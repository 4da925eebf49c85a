package share

import "fmt"

// Seat 座位，四个座位按逆时针循环排列
type Seat int

const (
	SeatEast  Seat = iota // 东
	SeatSouth             // 南
	SeatWest              // 西
	SeatNorth             // 北

	NoSeat Seat = -1 // 自动动作（发牌、流局）没有座位
)

const SeatCount = 4

// AllSeats 按固定顺序返回所有座位
var AllSeats = [SeatCount]Seat{SeatEast, SeatSouth, SeatWest, SeatNorth}

// Relation 两个座位之间的相对关系
type Relation int

const (
	RelationSelf   Relation = iota // 自己
	RelationNext                   // 下家
	RelationAcross                 // 对家
	RelationPrev                   // 上家
)

func (s Seat) Valid() bool {
	return s >= SeatEast && s <= SeatNorth
}

// Next 下家
func (s Seat) Next() Seat {
	return (s + 1) % SeatCount
}

// Prev 上家
func (s Seat) Prev() Seat {
	return (s + SeatCount - 1) % SeatCount
}

// Across 对家
func (s Seat) Across() Seat {
	return (s + 2) % SeatCount
}

// RelationOf 返回 other 相对于 s 的关系，只由两个座位的循环距离决定
func (s Seat) RelationOf(other Seat) Relation {
	return Relation(((other-s)%SeatCount + SeatCount) % SeatCount)
}

func (s Seat) String() string {
	switch s {
	case SeatEast:
		return "东"
	case SeatSouth:
		return "南"
	case SeatWest:
		return "西"
	case SeatNorth:
		return "北"
	case NoSeat:
		return "-"
	default:
		return fmt.Sprintf("Seat(%d)", int(s))
	}
}

// ParseSeat 解析配置中的座位名
func ParseSeat(name string) (Seat, error) {
	switch name {
	case "east", "EAST", "东":
		return SeatEast, nil
	case "south", "SOUTH", "南":
		return SeatSouth, nil
	case "west", "WEST", "西":
		return SeatWest, nil
	case "north", "NORTH", "北":
		return SeatNorth, nil
	default:
		return NoSeat, fmt.Errorf("未知的座位: %q", name)
	}
}

func (r Relation) String() string {
	switch r {
	case RelationSelf:
		return "SELF"
	case RelationNext:
		return "NEXT"
	case RelationAcross:
		return "ACROSS"
	case RelationPrev:
		return "PREV"
	default:
		return fmt.Sprintf("Relation(%d)", int(r))
	}
}
