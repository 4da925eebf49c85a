package record

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"gomahjong/common/config"
	"gomahjong/common/database"
	"gomahjong/common/log"
	"gomahjong/framework/game/bot"
	"gomahjong/framework/game/engines/mahjong"
	"gomahjong/framework/game/share"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisRepo(t *testing.T, ttl time.Duration) (*RedisRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	cli := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisRepository(database.NewRedisWithClient(cli), ttl), mr
}

// repositoryContract 所有仓储实现共同的行为
func repositoryContract(t *testing.T, repo Repository) {
	ctx := context.Background()

	_, err := repo.FindRound(ctx, "missing")
	assert.ErrorIs(t, err, ErrRoundNotFound)

	for i := 1; i <= 3; i++ {
		require.NoError(t, repo.AppendEvent(ctx, "r1", ActionEvent{
			Sequence: i,
			Seat:     i % share.SeatCount,
			Type:     "DISCARD",
			Tiles:    []TileRecord{{Type: i, ID: 0}},
			Stage:    "PLAY",
		}))
	}
	require.NoError(t, repo.SaveRound(ctx, &RoundRecord{
		RoundID: "r1",
		TableID: "table_1",
		Dealer:  0,
		Players: []string{"a", "b", "c", "d"},
		Result:  &ResultRecord{Draw: true, Winner: -1, FromSeat: -1},
	}))

	round, err := repo.FindRound(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "table_1", round.TableID)
	assert.Equal(t, []string{"a", "b", "c", "d"}, round.Players)
	require.NotNil(t, round.Result)
	assert.True(t, round.Result.Draw)
	require.Len(t, round.Events, 3, "saving the round keeps appended events")
	for i, event := range round.Events {
		assert.Equal(t, i+1, event.Sequence)
	}
}

func TestMemoryRepository(t *testing.T) {
	repositoryContract(t, NewMemoryRepository())
}

func TestRedisRepository(t *testing.T) {
	repo, _ := newRedisRepo(t, 0)
	repositoryContract(t, repo)
}

func TestRedisRepository_TTL(t *testing.T) {
	repo, mr := newRedisRepo(t, time.Minute)
	ctx := context.Background()
	require.NoError(t, repo.AppendEvent(ctx, "r2", ActionEvent{Sequence: 1, Type: "DEAL", Seat: -1}))
	require.NoError(t, repo.SaveRound(ctx, &RoundRecord{RoundID: "r2"}))

	assert.Equal(t, time.Minute, mr.TTL(roundKey("r2")))
	assert.Equal(t, time.Minute, mr.TTL(eventsKey("r2")))

	mr.FastForward(2 * time.Minute)
	_, err := repo.FindRound(ctx, "r2")
	assert.ErrorIs(t, err, ErrRoundNotFound)
}

func TestOpen(t *testing.T) {
	repo, err := Open(context.Background(), config.RecordConf{})
	require.NoError(t, err)
	assert.Nil(t, repo)

	repo, err = Open(context.Background(), config.RecordConf{Driver: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryRepository{}, repo)

	mr := miniredis.RunT(t)
	repo, err = Open(context.Background(), config.RecordConf{Driver: "redis", RedisConf: config.RedisConf{Addr: mr.Addr()}})
	require.NoError(t, err)
	assert.IsType(t, &RedisRepository{}, repo)
	require.NoError(t, repo.Close(context.Background()))

	_, err = Open(context.Background(), config.RecordConf{Driver: "sqlite"})
	assert.Error(t, err)
}

func TestRecorder_FullRound(t *testing.T) {
	searcher, err := mahjong.NewSearcher(nil)
	require.NoError(t, err)
	strategy, err := mahjong.NewSimpleStrategy(searcher)
	require.NoError(t, err)

	table := mahjong.NewTable(rand.New(rand.NewSource(42)))
	for _, seat := range share.AllSeats {
		b := bot.New("bot-"+seat.String(), bot.NewRandomDeliberator(rand.New(rand.NewSource(int64(seat)))),
			log.Discard(), rand.New(rand.NewSource(int64(seat))))
		require.NoError(t, b.SetThinkingTime(0, 0))
		require.NoError(t, table.SetPlayer(seat, b))
	}

	repo, _ := newRedisRepo(t, 0)
	recorder := NewRecorder(repo)
	game := mahjong.NewGame(strategy, mahjong.WithRecorder(recorder))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	gctx, err := game.Play(ctx, table, nil)
	require.NoError(t, err)
	require.NotNil(t, gctx.Result)

	round, err := repo.FindRound(ctx, gctx.RoundID)
	require.NoError(t, err)
	assert.Equal(t, table.ID, round.TableID)
	assert.Equal(t, int(gctx.Dealer), round.Dealer)
	assert.Len(t, round.Players, share.SeatCount)
	require.Len(t, round.Events, len(gctx.DoneActions))
	assert.Equal(t, mahjong.Deal.Name(), round.Events[0].Type)
	assert.Equal(t, mahjong.StageDeal, round.Events[0].Stage)
	assert.Equal(t, -1, round.Events[0].Seat)
	require.NotNil(t, round.Result)
	assert.Equal(t, gctx.Result.Draw, round.Result.Draw)
	assert.Equal(t, int(gctx.Result.Winner), round.Result.Winner)
	assert.False(t, round.EndTime.Before(round.StartTime))
	assert.Zero(t, recorder.pending())
}

// blockingPlayer 一直等到 ctx 被取消
type blockingPlayer struct{ name string }

func (p blockingPlayer) Name() string { return p.name }

func (p blockingPlayer) ChooseAction(ctx context.Context, _ *mahjong.ContextView, _ []*mahjong.ActionType) (*mahjong.Action, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (p blockingPlayer) ChooseActionAfterIllegal(context.Context, *mahjong.ContextView, []*mahjong.ActionType, mahjong.Action) (*mahjong.Action, error) {
	return nil, nil
}

func (blockingPlayer) ActionDone(*mahjong.ContextView, mahjong.Action) {}

func (blockingPlayer) TimeLimit(*mahjong.ContextView, int) {}

func TestRecorder_AbortedRoundReleasesStart(t *testing.T) {
	searcher, err := mahjong.NewSearcher(nil)
	require.NoError(t, err)
	strategy, err := mahjong.NewSimpleStrategy(searcher)
	require.NoError(t, err)

	table := mahjong.NewTable(rand.New(rand.NewSource(5)))
	for _, seat := range share.AllSeats {
		require.NoError(t, table.SetPlayer(seat, blockingPlayer{name: seat.String()}))
	}

	repo := NewMemoryRepository()
	recorder := NewRecorder(repo)
	game := mahjong.NewGame(strategy, mahjong.WithRecorder(recorder))

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(30*time.Millisecond, cancel)
	gctx, err := game.Play(ctx, table, nil)
	require.ErrorIs(t, err, context.Canceled)

	assert.Zero(t, recorder.pending())
	// 发牌动作已经写入，但这一局没有结果
	round, err := repo.FindRound(context.Background(), gctx.RoundID)
	require.NoError(t, err)
	require.NotEmpty(t, round.Events)
	assert.Equal(t, mahjong.Deal.Name(), round.Events[0].Type)
	assert.Nil(t, round.Result)
}
