package mahjong

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"gomahjong/framework/game/share"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ronTable 东打出五万：南家听五万（也可以吃），西家可以碰
type ronTable struct {
	players [share.SeatCount]*scriptedPlayer
	discard share.Tile
	r       *round
}

func newRonTable(t *testing.T, south, west *scriptedPlayer, opts ...GameOption) *ronTable {
	t.Helper()
	bag := newTileBag()
	players := [share.SeatCount]*scriptedPlayer{
		share.SeatEast:  {name: "east", choose: chooseType(Pass)},
		share.SeatSouth: south,
		share.SeatWest:  west,
		share.SeatNorth: {name: "north", choose: chooseType(Pass)},
	}
	table := newTestTable(t, players)
	r := newPlayRound(t, table, bag.filler(10), opts...)

	gctx := r.gctx
	for _, tile := range bag.filler(13) {
		gctx.Player(share.SeatEast).AddTile(tile)
	}
	for _, tile := range bag.take(
		share.Pin1, share.Pin2, share.Pin3, share.Pin4, share.Pin5, share.Pin6, share.Pin7, share.Pin8, share.Pin9,
		share.So1, share.So1, share.Man4, share.Man6,
	) {
		gctx.Player(share.SeatSouth).AddTile(tile)
	}
	for _, tile := range append(bag.take(share.Man5, share.Man5), bag.filler(11)...) {
		gctx.Player(share.SeatWest).AddTile(tile)
	}
	for _, tile := range bag.filler(13) {
		gctx.Player(share.SeatNorth).AddTile(tile)
	}

	discard := bag.one(share.Man5)
	discardBy(gctx, share.SeatEast, discard)
	return &ronTable{players: players, discard: discard, r: r}
}

func TestResolve_WinBeatsPeng(t *testing.T) {
	rt := newRonTable(t,
		&scriptedPlayer{name: "south", choose: chooseType(Win)},
		&scriptedPlayer{name: "west", choose: chooseType(Peng)},
	)
	ctx := testContext(t)
	stage := playStage(t, rt.r)

	action, err := rt.r.resolve(ctx, stage)
	require.NoError(t, err)
	assert.Equal(t, Win, action.Type)
	assert.Equal(t, share.SeatSouth, action.Seat)

	require.NoError(t, rt.r.doAction(ctx, stage, action))
	result := rt.r.gctx.Result
	require.NotNil(t, result)
	assert.Equal(t, share.SeatSouth, result.Winner)
	assert.Equal(t, share.SeatEast, result.FromSeat)
	assert.Len(t, result.WinTiles, 14)
	assert.True(t, rt.r.strategy.RoundEnded(rt.r.gctx))

	for _, seat := range share.AllSeats {
		assert.Equal(t, 1, rt.players[seat].doneCount(), "seat %s should be notified once", seat)
	}
	// 只有一个可选动作（过）的座位不会被询问
	assert.Equal(t, 0, rt.players[share.SeatNorth].askedCount())
	assert.Equal(t, 0, rt.players[share.SeatEast].askedCount())
}

func TestResolve_PengBeatsChi(t *testing.T) {
	rt := newRonTable(t,
		&scriptedPlayer{name: "south", choose: chooseType(Chi)},
		&scriptedPlayer{name: "west", choose: chooseType(Peng)},
	)
	ctx := testContext(t)
	stage := playStage(t, rt.r)

	action, err := rt.r.resolve(ctx, stage)
	require.NoError(t, err)
	assert.Equal(t, Peng, action.Type)
	assert.Equal(t, share.SeatWest, action.Seat)

	require.NoError(t, rt.r.doAction(ctx, stage, action))
	west := rt.r.gctx.Player(share.SeatWest)
	require.Len(t, west.Melds, 1)
	assert.Equal(t, MeldPeng, west.Melds[0].Type)
	assert.Equal(t, share.SeatEast, west.Melds[0].From)
	assert.Len(t, west.AliveTiles, 11)
	assert.Empty(t, rt.r.gctx.Player(share.SeatEast).DiscardPile)
	assert.Equal(t, StagePlay, rt.r.gctx.StageName)
}

func TestResolve_AllPassFallsBackToDraw(t *testing.T) {
	rt := newRonTable(t,
		&scriptedPlayer{name: "south", choose: chooseType(Pass)},
		&scriptedPlayer{name: "west", choose: chooseType(Pass)},
	)
	ctx := testContext(t)

	action, err := rt.r.resolve(ctx, playStage(t, rt.r))
	require.NoError(t, err)
	assert.Equal(t, Draw, action.Type)
	assert.Equal(t, share.SeatSouth, action.Seat)
}

func TestResolve_IllegalChoiceAskedAgain(t *testing.T) {
	south := &scriptedPlayer{
		name: "south",
		choose: func(view *ContextView, _ []*ActionType) *Action {
			a := NewPlayerAction(view.MySeat(), Discard, view.MyInfo().AliveTiles[0])
			return &a
		},
		illegal: func(view *ContextView, _ []*ActionType, _ Action) *Action {
			a := NewPlayerAction(view.MySeat(), Win)
			return &a
		},
	}
	rt := newRonTable(t, south, &scriptedPlayer{name: "west", choose: chooseType(Pass)})

	action, err := rt.r.resolve(testContext(t), playStage(t, rt.r))
	require.NoError(t, err)
	assert.Equal(t, Win, action.Type)
	assert.Equal(t, 1, south.illegalAsked)
}

func TestResolve_IllegalTwiceUsesDefault(t *testing.T) {
	illegalChi := func(view *ContextView, _ []*ActionType) *Action {
		a := NewPlayerAction(view.MySeat(), Chi, share.Tile{Type: share.Red, ID: 3})
		return &a
	}
	south := &scriptedPlayer{
		name:   "south",
		choose: illegalChi,
		illegal: func(view *ContextView, types []*ActionType, _ Action) *Action {
			return illegalChi(view, types)
		},
	}
	rt := newRonTable(t, south, &scriptedPlayer{name: "west", choose: chooseType(Pass)})

	action, err := rt.r.resolve(testContext(t), playStage(t, rt.r))
	require.NoError(t, err)
	assert.Equal(t, Draw, action.Type)
	assert.Equal(t, share.SeatSouth, action.Seat)
}

func TestResolve_TimeoutUsesDefault(t *testing.T) {
	south := &scriptedPlayer{name: "south", block: true}
	rt := newRonTable(t, south, &scriptedPlayer{name: "west", choose: chooseType(Pass)},
		WithTimeLimit(SimpleTimeLimit(50*time.Millisecond)))

	start := time.Now()
	action, err := rt.r.resolve(testContext(t), playStage(t, rt.r))
	require.NoError(t, err)
	assert.Equal(t, Draw, action.Type)
	assert.Equal(t, share.SeatSouth, action.Seat)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
	assert.Equal(t, StateTimeout, rt.r.turns.Ticker(share.SeatSouth).GetState())
	assert.Equal(t, StateTimeout, rt.r.turns.GetAllTickerStates()[share.SeatSouth])
}

func TestResolve_EmptyWallLiuju(t *testing.T) {
	rt := newRonTable(t,
		&scriptedPlayer{name: "south", choose: chooseType(Win)},
		&scriptedPlayer{name: "west", choose: chooseType(Peng)},
	)
	rt.r.gctx.Table.SetWall(NewWall(nil, nil))
	ctx := testContext(t)
	stage := playStage(t, rt.r)

	action, err := rt.r.resolve(ctx, stage)
	require.NoError(t, err)
	assert.Equal(t, Liuju, action.Type)
	assert.Equal(t, 0, rt.players[share.SeatSouth].askedCount())

	require.NoError(t, rt.r.doAction(ctx, stage, action))
	require.NotNil(t, rt.r.gctx.Result)
	assert.True(t, rt.r.gctx.Result.Draw)
	assert.Equal(t, share.NoSeat, rt.r.gctx.Result.Winner)
}

func TestResolve_ParentCancelled(t *testing.T) {
	south := &scriptedPlayer{name: "south", block: true}
	rt := newRonTable(t, south, &scriptedPlayer{name: "west", choose: chooseType(Pass)})

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(30*time.Millisecond, cancel)

	_, err := rt.r.resolve(ctx, playStage(t, rt.r))
	assert.ErrorIs(t, err, context.Canceled)
}

// countingRecorder 统计记录次数
type countingRecorder struct {
	mu      sync.Mutex
	actions int
	results int
	aborts  []error
}

func (c *countingRecorder) RecordAction(context.Context, *GameContext, Action) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.actions++
	return nil
}

func (c *countingRecorder) RecordResult(context.Context, *GameContext) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results++
	return nil
}

func (c *countingRecorder) RecordAbort(_ *GameContext, cause error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aborts = append(c.aborts, cause)
}

func TestPlay_FullRound(t *testing.T) {
	var players [share.SeatCount]*scriptedPlayer
	for _, seat := range share.AllSeats {
		players[seat] = &scriptedPlayer{name: seat.String(), choose: eagerChoice}
	}
	table := newTestTable(t, players)
	recorder := &countingRecorder{}
	game := NewGame(newTestStrategy(t), WithRecorder(recorder))

	gctx, err := game.Play(testContext(t), table, nil)
	require.NoError(t, err)
	require.NotNil(t, gctx.Result)
	assert.Equal(t, share.SeatEast, gctx.Dealer)
	require.NotEmpty(t, gctx.DoneActions)
	assert.Equal(t, Deal, gctx.DoneActions[0].Type)
	assert.Equal(t, len(gctx.DoneActions), recorder.actions)
	assert.Equal(t, 1, recorder.results)
	assert.Empty(t, recorder.aborts)
	for _, seat := range share.AllSeats {
		assert.Equal(t, len(gctx.DoneActions), players[seat].doneCount())
	}

	// 第二局按上一局结果坐庄
	next, err := game.Play(testContext(t), table, gctx)
	require.NoError(t, err)
	want := share.SeatSouth
	if !gctx.Result.Draw && gctx.Result.Winner == share.SeatEast {
		want = share.SeatEast
	}
	assert.Equal(t, want, next.Dealer)
}

func TestPlay_TableNotReady(t *testing.T) {
	game := NewGame(newTestStrategy(t))
	_, err := game.Play(testContext(t), NewTable(nil), nil)
	assert.True(t, errors.Is(err, ErrTableNotReady))

	table := newTestTable(t, [share.SeatCount]*scriptedPlayer{})
	table.RemovePlayer(share.SeatWest)
	assert.False(t, table.Occupied(share.SeatWest))
	_, err = game.Play(testContext(t), table, nil)
	assert.True(t, errors.Is(err, ErrTableNotReady))
}

func TestPlay_ParentCancelled(t *testing.T) {
	var players [share.SeatCount]*scriptedPlayer
	for _, seat := range share.AllSeats {
		players[seat] = &scriptedPlayer{name: seat.String(), block: true}
	}
	table := newTestTable(t, players)
	recorder := &countingRecorder{}
	game := NewGame(newTestStrategy(t), WithRecorder(recorder))

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(30*time.Millisecond, cancel)

	gctx, err := game.Play(ctx, table, nil)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, gctx)
	assert.Nil(t, gctx.Result)

	// 没有结果的局只通知中止，不记录结果
	assert.Equal(t, 0, recorder.results)
	require.Len(t, recorder.aborts, 1)
	assert.ErrorIs(t, recorder.aborts[0], context.Canceled)
}
