package record

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gomahjong/common/database"
	"gomahjong/common/log"

	"github.com/redis/go-redis/v9"
)

const (
	roundKeyPrefix  = "mahjong:round:"
	eventsKeySuffix = ":events"
)

// RedisRepository 局元数据存为一个 JSON 字符串，动作按顺序存在列表中
type RedisRepository struct {
	redis *database.RedisManager
	ttl   time.Duration // 0 表示不过期
}

func NewRedisRepository(redis *database.RedisManager, ttl time.Duration) *RedisRepository {
	return &RedisRepository{redis: redis, ttl: ttl}
}

func roundKey(roundID string) string {
	return roundKeyPrefix + roundID
}

func eventsKey(roundID string) string {
	return roundKeyPrefix + roundID + eventsKeySuffix
}

func (r *RedisRepository) AppendEvent(ctx context.Context, roundID string, event ActionEvent) error {
	cli, err := r.redis.GetClient()
	if err != nil {
		return err
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("序列化动作失败: %w", err)
	}

	pipe := cli.TxPipeline()
	pipe.RPush(ctx, eventsKey(roundID), data)
	if r.ttl > 0 {
		pipe.Expire(ctx, eventsKey(roundID), r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		log.Error("保存动作失败: round=%s, err=%v", roundID, err)
		return err
	}
	return nil
}

func (r *RedisRepository) SaveRound(ctx context.Context, round *RoundRecord) error {
	cli, err := r.redis.GetClient()
	if err != nil {
		return err
	}
	meta := *round
	meta.Events = nil
	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("序列化局记录失败: %w", err)
	}
	if err := cli.Set(ctx, roundKey(round.RoundID), data, r.ttl).Err(); err != nil {
		log.Error("保存局记录失败: round=%s, err=%v", round.RoundID, err)
		return err
	}
	return nil
}

func (r *RedisRepository) FindRound(ctx context.Context, roundID string) (*RoundRecord, error) {
	cli, err := r.redis.GetClient()
	if err != nil {
		return nil, err
	}

	round := &RoundRecord{RoundID: roundID}
	data, err := cli.Get(ctx, roundKey(roundID)).Bytes()
	metaFound := true
	switch {
	case errors.Is(err, redis.Nil):
		metaFound = false
	case err != nil:
		return nil, err
	default:
		if err := json.Unmarshal(data, round); err != nil {
			return nil, fmt.Errorf("解析局记录失败: %w", err)
		}
	}

	items, err := cli.LRange(ctx, eventsKey(roundID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if !metaFound && len(items) == 0 {
		return nil, ErrRoundNotFound
	}
	round.Events = make([]ActionEvent, 0, len(items))
	for _, item := range items {
		var event ActionEvent
		if err := json.Unmarshal([]byte(item), &event); err != nil {
			return nil, fmt.Errorf("解析动作失败: %w", err)
		}
		round.Events = append(round.Events, event)
	}
	return round, nil
}

func (r *RedisRepository) Close(context.Context) error {
	return r.redis.Close()
}
