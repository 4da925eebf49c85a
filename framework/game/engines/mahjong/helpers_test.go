package mahjong

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"gomahjong/framework/game/share"
)

// tileBag 按类型依次分配 ID，保证同一个测试里的实体牌不重复
type tileBag struct {
	used map[share.TileType]int
}

func newTileBag() *tileBag {
	return &tileBag{used: make(map[share.TileType]int)}
}

func (b *tileBag) take(types ...share.TileType) []share.Tile {
	out := make([]share.Tile, 0, len(types))
	for _, t := range types {
		out = append(out, share.Tile{Type: t, ID: b.used[t]})
		b.used[t]++
	}
	return out
}

func (b *tileBag) one(t share.TileType) share.Tile {
	return b.take(t)[0]
}

// filler 生成 n 张互不成组的字牌和幺九牌，用作无关座位的手牌
func (b *tileBag) filler(n int) []share.Tile {
	pool := []share.TileType{
		share.East, share.South, share.West, share.North, share.White, share.Green, share.Red,
		share.Man1, share.Man9, share.Pin1, share.Pin9, share.So1, share.So9,
	}
	types := make([]share.TileType, 0, n)
	for i := 0; len(types) < n; i++ {
		types = append(types, pool[i%len(pool)])
	}
	return b.take(types...)
}

// scriptedPlayer 按脚本选择动作并记录收到的通知
type scriptedPlayer struct {
	name    string
	choose  func(view *ContextView, types []*ActionType) *Action
	block   bool // 一直等到 ctx 被取消
	illegal func(view *ContextView, types []*ActionType, illegal Action) *Action

	mu           sync.Mutex
	asked        int
	illegalAsked int
	done         []Action
	ticks        []int
}

func (p *scriptedPlayer) Name() string {
	return p.name
}

func (p *scriptedPlayer) ChooseAction(ctx context.Context, view *ContextView, types []*ActionType) (*Action, error) {
	p.mu.Lock()
	p.asked++
	p.mu.Unlock()
	if p.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if p.choose == nil {
		return nil, nil
	}
	return p.choose(view, types), nil
}

func (p *scriptedPlayer) ChooseActionAfterIllegal(_ context.Context, view *ContextView, types []*ActionType, illegal Action) (*Action, error) {
	p.mu.Lock()
	p.illegalAsked++
	p.mu.Unlock()
	if p.illegal == nil {
		return nil, nil
	}
	return p.illegal(view, types, illegal), nil
}

func (p *scriptedPlayer) ActionDone(_ *ContextView, action Action) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done = append(p.done, action)
}

func (p *scriptedPlayer) TimeLimit(_ *ContextView, secondsToGo int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ticks = append(p.ticks, secondsToGo)
}

func (p *scriptedPlayer) askedCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.asked
}

func (p *scriptedPlayer) doneCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.done)
}

// chooseType 选择给定类型的第一个合法动作，没有时选择过
func chooseType(t *ActionType) func(view *ContextView, types []*ActionType) *Action {
	return func(view *ContextView, types []*ActionType) *Action {
		if ContainsType(types, t) {
			if actions := LegalActions(view, []*ActionType{t}); len(actions) > 0 {
				return &actions[0]
			}
		}
		a := NewPlayerAction(view.MySeat(), Pass)
		return &a
	}
}

// eagerChoice 能和就和，否则选第一个不是过的动作
func eagerChoice(view *ContextView, types []*ActionType) *Action {
	if ContainsType(types, Win) {
		a := NewPlayerAction(view.MySeat(), Win)
		return &a
	}
	for _, a := range LegalActions(view, types) {
		if !a.IsPass() {
			return &a
		}
	}
	a := NewPlayerAction(view.MySeat(), Pass)
	return &a
}

func newTestSearcher(t *testing.T) *Searcher {
	t.Helper()
	s, err := NewSearcher(nil)
	if err != nil {
		t.Fatalf("NewSearcher: %v", err)
	}
	return s
}

func newTestStrategy(t *testing.T) *BaseStrategy {
	t.Helper()
	s, err := NewSimpleStrategy(newTestSearcher(t))
	if err != nil {
		t.Fatalf("NewSimpleStrategy: %v", err)
	}
	return s
}

func newTestTable(t *testing.T, players [share.SeatCount]*scriptedPlayer) *Table {
	t.Helper()
	table := NewTable(rand.New(rand.NewSource(1)))
	for _, seat := range share.AllSeats {
		p := players[seat]
		if p == nil {
			p = &scriptedPlayer{name: seat.String(), choose: chooseType(Pass)}
		}
		if err := table.SetPlayer(seat, p); err != nil {
			t.Fatalf("SetPlayer(%s): %v", seat, err)
		}
	}
	return table
}

// newPlayRound 出牌阶段中的一局，庄家为东，牌墙为 wall
func newPlayRound(t *testing.T, table *Table, wall []share.Tile, opts ...GameOption) *round {
	t.Helper()
	strategy := newTestStrategy(t)
	game := NewGame(strategy, opts...)
	gctx := NewGameContext(table, strategy, game.timeLimit, nil)
	gctx.Dealer = share.SeatEast
	gctx.StageName = StagePlay
	table.SetWall(NewWall(wall, nil))
	return &round{Game: game, gctx: gctx, turns: NewTurnManager()}
}

// discardBy 让座位打出一张牌，作为上一个动作
func discardBy(gctx *GameContext, seat share.Seat, tile share.Tile) {
	me := gctx.Player(seat)
	me.AddTile(tile)
	me.DiscardTile(tile)
	gctx.done(NewPlayerAction(seat, Discard, tile))
}

func playStage(t *testing.T, r *round) Stage {
	t.Helper()
	stage, ok := r.strategy.StageByName(StagePlay)
	if !ok {
		t.Fatalf("stage %s not registered", StagePlay)
	}
	return stage
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}
