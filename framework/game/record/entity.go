package record

import (
	"time"
)

// TileRecord 一张牌
type TileRecord struct {
	Type int `json:"type" bson:"type"`
	ID   int `json:"id" bson:"id"`
}

// ActionEvent 一局中执行过的一个动作
type ActionEvent struct {
	Sequence  int          `json:"sequence" bson:"sequence"`
	Seat      int          `json:"seat" bson:"seat"` // 自动动作为 -1
	Type      string       `json:"type" bson:"type"`
	Tiles     []TileRecord `json:"tiles,omitempty" bson:"tiles,omitempty"`
	Stage     string       `json:"stage" bson:"stage"`
	Timestamp time.Time    `json:"timestamp" bson:"timestamp"`
}

// ResultRecord 一局的结果
type ResultRecord struct {
	Draw     bool         `json:"draw" bson:"draw"`
	Winner   int          `json:"winner" bson:"winner"`
	FromSeat int          `json:"fromSeat" bson:"from_seat"`
	WinTiles []TileRecord `json:"winTiles,omitempty" bson:"win_tiles,omitempty"`
}

// RoundRecord 一局的完整记录
type RoundRecord struct {
	RoundID   string        `json:"roundId" bson:"_id"`
	TableID   string        `json:"tableId" bson:"table_id"`
	Dealer    int           `json:"dealer" bson:"dealer"`
	Players   []string      `json:"players" bson:"players"`
	Events    []ActionEvent `json:"events" bson:"events"`
	Result    *ResultRecord `json:"result,omitempty" bson:"result,omitempty"`
	StartTime time.Time     `json:"startTime" bson:"start_time"`
	EndTime   time.Time     `json:"endTime" bson:"end_time"`
}
