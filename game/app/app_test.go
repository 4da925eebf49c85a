package app

import (
	"context"
	"testing"
	"time"

	"gomahjong/common/config"
	"gomahjong/framework/game/bot"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quickConf() *config.Config {
	conf := config.Default()
	conf.Game.Seed = 11
	conf.Record.Driver = "memory"
	for i := range conf.Bots {
		conf.Bots[i].MinThinkingMs = 0
		conf.Bots[i].MaxThinkingMs = 0
	}
	return conf
}

func TestRun_SetupErrorIsReturned(t *testing.T) {
	conf := quickConf()
	conf.Bots[2].Kind = "oracle"

	err := Run(context.Background(), conf)
	require.Error(t, err)
	assert.ErrorIs(t, err, bot.ErrUnknownBotKind)
}

func TestRun_OneRound(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	assert.NoError(t, Run(ctx, quickConf()))
}
