package local

import (
	"context"
	"errors"
	"testing"
	"time"

	"gomahjong/common/config"
	"gomahjong/framework/game/bot"
	"gomahjong/framework/game/record"
	"gomahjong/framework/game/share"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig(rounds int) *config.Config {
	conf := config.Default()
	conf.Game.Rounds = rounds
	conf.Game.Seed = 2024
	for i := range conf.Bots {
		conf.Bots[i].MinThinkingMs = 0
		conf.Bots[i].MaxThinkingMs = 1
	}
	conf.Bots[0].Kind = bot.KindGreedy
	return conf
}

func TestLocalGame_Run(t *testing.T) {
	repo := record.NewMemoryRepository()
	game, err := New(fastConfig(2), repo)
	require.NoError(t, err)
	defer game.Close()

	require.True(t, game.Table().IsFull())
	for _, seat := range share.AllSeats {
		require.NotNil(t, game.Bot(seat))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	rounds, err := game.Run(ctx)
	require.NoError(t, err)
	require.Len(t, rounds, 2)

	assert.Equal(t, share.SeatEast, rounds[0].Dealer)
	for _, gctx := range rounds {
		require.NotNil(t, gctx.Result)
		saved, err := repo.FindRound(ctx, gctx.RoundID)
		require.NoError(t, err)
		assert.Len(t, saved.Events, len(gctx.DoneActions))
	}
}

func TestLocalGame_UnknownBotKind(t *testing.T) {
	conf := fastConfig(1)
	conf.Bots[3].Kind = "oracle"
	_, err := New(conf, nil)
	assert.True(t, errors.Is(err, bot.ErrUnknownBotKind))
}

func TestLocalGame_Cancelled(t *testing.T) {
	conf := fastConfig(1)
	for i := range conf.Bots {
		conf.Bots[i].MinThinkingMs = 5000
		conf.Bots[i].MaxThinkingMs = 5000
	}
	game, err := New(conf, nil)
	require.NoError(t, err)
	defer game.Close()

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)
	rounds, err := game.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, rounds)
}
