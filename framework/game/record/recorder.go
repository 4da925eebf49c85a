package record

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gomahjong/common/config"
	"gomahjong/common/database"
	"gomahjong/common/log"
	"gomahjong/framework/game/engines/mahjong"
	"gomahjong/framework/game/share"
)

// Recorder 把引擎执行的动作写入仓储，实现 mahjong.Recorder
type Recorder struct {
	repo Repository

	mu     sync.Mutex
	starts map[string]time.Time // roundID -> 第一个动作的时间
}

func NewRecorder(repo Repository) *Recorder {
	return &Recorder{repo: repo, starts: make(map[string]time.Time)}
}

func (r *Recorder) Repository() Repository {
	return r.repo
}

func (r *Recorder) RecordAction(ctx context.Context, gctx *mahjong.GameContext, action mahjong.Action) error {
	now := time.Now()
	r.mu.Lock()
	if _, ok := r.starts[gctx.RoundID]; !ok {
		r.starts[gctx.RoundID] = now
	}
	r.mu.Unlock()

	event := ActionEvent{
		Sequence:  len(gctx.DoneActions),
		Seat:      int(action.Seat),
		Type:      action.Type.Name(),
		Tiles:     toTileRecords(action.Tiles),
		Stage:     gctx.StageName,
		Timestamp: now,
	}
	return r.repo.AppendEvent(ctx, gctx.RoundID, event)
}

func (r *Recorder) RecordResult(ctx context.Context, gctx *mahjong.GameContext) error {
	r.mu.Lock()
	start, ok := r.starts[gctx.RoundID]
	delete(r.starts, gctx.RoundID)
	r.mu.Unlock()
	end := time.Now()
	if !ok {
		start = end
	}

	round := &RoundRecord{
		RoundID:   gctx.RoundID,
		Dealer:    int(gctx.Dealer),
		StartTime: start,
		EndTime:   end,
	}
	if gctx.Table != nil {
		round.TableID = gctx.Table.ID
		for _, seat := range share.AllSeats {
			name := ""
			if p := gctx.Table.Player(seat); p != nil {
				name = p.Name()
			}
			round.Players = append(round.Players, name)
		}
	}
	if res := gctx.Result; res != nil {
		round.Result = &ResultRecord{
			Draw:     res.Draw,
			Winner:   int(res.Winner),
			FromSeat: int(res.FromSeat),
			WinTiles: toTileRecords(res.WinTiles),
		}
	}
	return r.repo.SaveRound(ctx, round)
}

// RecordAbort 丢弃没有结果的一局的开始时间，已写入的动作保留在仓储中
func (r *Recorder) RecordAbort(gctx *mahjong.GameContext, cause error) {
	r.mu.Lock()
	delete(r.starts, gctx.RoundID)
	r.mu.Unlock()
	log.Warn("Round[%s] 未完成，停止记录: %v", gctx.RoundID, cause)
}

// pending 尚未结束的局数
func (r *Recorder) pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.starts)
}

func toTileRecords(tiles []share.Tile) []TileRecord {
	if len(tiles) == 0 {
		return nil
	}
	out := make([]TileRecord, len(tiles))
	for i, t := range tiles {
		out[i] = TileRecord{Type: int(t.Type), ID: t.ID}
	}
	return out
}

// Open 按配置打开仓储，driver 为空时返回 nil
func Open(ctx context.Context, conf config.RecordConf) (Repository, error) {
	switch conf.Driver {
	case "":
		return nil, nil
	case "memory":
		return NewMemoryRepository(), nil
	case "redis":
		redis, err := database.NewRedis(ctx, conf.RedisConf)
		if err != nil {
			return nil, err
		}
		return NewRedisRepository(redis, time.Duration(conf.RedisConf.TTLSeconds)*time.Second), nil
	case "mongo":
		mongo, err := database.NewMongo(ctx, conf.MongoConf)
		if err != nil {
			return nil, err
		}
		if err := mongo.EnsureIndex(ctx, roundCollection, "table_id", "start_time"); err != nil {
			_ = mongo.Close(ctx)
			return nil, err
		}
		return NewMongoRepository(mongo), nil
	default:
		return nil, fmt.Errorf("未知的记录驱动: %s", conf.Driver)
	}
}
