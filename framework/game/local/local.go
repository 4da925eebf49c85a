package local

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"gomahjong/common/cache"
	"gomahjong/common/config"
	"gomahjong/common/log"
	"gomahjong/framework/game/bot"
	"gomahjong/framework/game/engines/mahjong"
	"gomahjong/framework/game/record"
	"gomahjong/framework/game/share"
)

// LocalGame 本地对局：四个机器人坐满一张桌子，连续进行若干局
type LocalGame struct {
	conf  *config.Config
	game  *mahjong.Game
	table *mahjong.Table
	bots  [share.SeatCount]*bot.Bot
	cache *cache.HandCache
}

// New 按配置组装牌桌、规则和机器人，repo 为 nil 时不记录
func New(conf *config.Config, repo record.Repository) (*LocalGame, error) {
	seed := conf.Game.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	c, err := cache.NewHandCache(mahjong.SearcherCacheCost, 30*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("创建缓存失败: %w", err)
	}
	searcher, err := mahjong.NewSearcher(c)
	if err != nil {
		c.Close()
		return nil, err
	}
	strategy, err := mahjong.NewSimpleStrategy(searcher)
	if err != nil {
		c.Close()
		return nil, err
	}

	opts := []mahjong.GameOption{}
	if conf.Game.TimeLimitSeconds > 0 {
		opts = append(opts, mahjong.WithTimeLimit(mahjong.SimpleTimeLimit(time.Duration(conf.Game.TimeLimitSeconds)*time.Second)))
	}
	if repo != nil {
		opts = append(opts, mahjong.WithRecorder(record.NewRecorder(repo)))
	}

	l := &LocalGame{
		conf:  conf,
		game:  mahjong.NewGame(strategy, opts...),
		table: mahjong.NewTable(rand.New(rand.NewSource(seed))),
		cache: c,
	}

	for i, botConf := range conf.Bots {
		seat, err := share.ParseSeat(strings.ToLower(botConf.Seat))
		if err != nil {
			c.Close()
			return nil, err
		}
		b, err := bot.NewFromConf(botConf, bot.Deps{
			Logger:   log.Default(),
			Rand:     rand.New(rand.NewSource(seed + int64(i) + 1)),
			Searcher: searcher,
		})
		if err != nil {
			c.Close()
			return nil, err
		}
		if err := l.table.SetPlayer(seat, b); err != nil {
			c.Close()
			return nil, err
		}
		l.bots[seat] = b
	}
	if !l.table.IsFull() {
		c.Close()
		return nil, mahjong.ErrTableNotReady
	}
	return l, nil
}

func (l *LocalGame) Table() *mahjong.Table {
	return l.table
}

func (l *LocalGame) Bot(seat share.Seat) *bot.Bot {
	if !seat.Valid() {
		return nil
	}
	return l.bots[seat]
}

// Run 连续进行配置的局数，上一局的上下文用于决定下一局的庄家
func (l *LocalGame) Run(ctx context.Context) ([]*mahjong.GameContext, error) {
	rounds := make([]*mahjong.GameContext, 0, l.conf.Game.Rounds)
	var previous *mahjong.GameContext
	for i := 0; i < l.conf.Game.Rounds; i++ {
		gctx, err := l.game.Play(ctx, l.table, previous)
		if err != nil {
			return rounds, fmt.Errorf("第 %d 局出错: %w", i+1, err)
		}
		rounds = append(rounds, gctx)
		previous = gctx

		switch {
		case gctx.Result == nil:
		case gctx.Result.Draw:
			log.Info("第 %d 局流局", i+1)
		default:
			log.Info("第 %d 局 %s 和牌", i+1, gctx.Result.Winner)
		}
	}

	for _, seat := range share.AllSeats {
		b := l.bots[seat]
		if count := b.InvokeCount(); count > 0 {
			log.Info("%s 权衡 %d 次，平均耗时 %v", b.Name(), count, b.CostSum()/time.Duration(count))
		}
	}
	log.Debug("手牌缓存 %s", l.cache.Stats())
	return rounds, nil
}

func (l *LocalGame) Close() {
	l.cache.Close()
}
