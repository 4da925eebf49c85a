package mahjong

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"gomahjong/common/log"
	"gomahjong/framework/game/share"

	"github.com/google/uuid"
)

// Table 牌桌：管理四个座位上的玩家和牌墙
type Table struct {
	ID        string
	CreatedAt time.Time

	players [share.SeatCount]Player
	wall    *Wall
	rng     *rand.Rand
	mu      sync.RWMutex
}

// NewTable 创建牌桌，rng 用于洗牌，为 nil 时按当前时间播种
func NewTable(rng *rand.Rand) *Table {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Table{
		ID:        "table_" + uuid.NewString(),
		CreatedAt: time.Now(),
		rng:       rng,
	}
}

// SetPlayer 把玩家放到座位上
func (t *Table) SetPlayer(seat share.Seat, player Player) error {
	if !seat.Valid() {
		return fmt.Errorf("无效的座位: %d", int(seat))
	}
	if player == nil {
		return fmt.Errorf("座位 %s 的玩家为空", seat)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.players[seat] != nil {
		return fmt.Errorf("座位 %s 已有玩家 %s", seat, t.players[seat].Name())
	}
	t.players[seat] = player
	log.Debug("Table[%s] 玩家 %s 入座: %s", t.ID, player.Name(), seat)
	return nil
}

// RemovePlayer 离开座位
func (t *Table) RemovePlayer(seat share.Seat) {
	if !seat.Valid() {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	t.players[seat] = nil
}

// Player 获取座位上的玩家，没有时为 nil
func (t *Table) Player(seat share.Seat) Player {
	if !seat.Valid() {
		return nil
	}
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.players[seat]
}

// Occupied 座位上是否有玩家
func (t *Table) Occupied(seat share.Seat) bool {
	return t.Player(seat) != nil
}

// PlayerCount 已入座的玩家数
func (t *Table) PlayerCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n := 0
	for _, p := range t.players {
		if p != nil {
			n++
		}
	}
	return n
}

// IsFull 四个座位都有玩家
func (t *Table) IsFull() bool {
	return t.PlayerCount() == share.SeatCount
}

// ResetWall 用给定的牌洗出新的牌墙
func (t *Table) ResetWall(tiles []share.Tile) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.wall = NewWall(tiles, t.rng)
}

// SetWall 直接指定牌墙（不洗牌）
func (t *Table) SetWall(wall *Wall) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.wall = wall
}

func (t *Table) Wall() *Wall {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.wall
}

// WallSize 牌墙剩余张数
func (t *Table) WallSize() int {
	return t.Wall().Size()
}
