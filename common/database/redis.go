package database

import (
	"context"
	"fmt"
	"time"

	"gomahjong/common/config"
	"gomahjong/common/log"

	"github.com/redis/go-redis/v9"
)

type RedisManager struct {
	Cli *redis.Client
}

// NewRedis 连接 redis 并 Ping 一次
func NewRedis(ctx context.Context, redisConf config.RedisConf) (*RedisManager, error) {
	if redisConf.Addr == "" {
		return nil, fmt.Errorf("redis 配置出错: addr 为空")
	}
	cli := redis.NewClient(&redis.Options{
		Addr:         redisConf.Addr,
		Password:     redisConf.Password, // 如果没有密码，这个字段为空字符串，Redis会忽略
		DB:           redisConf.DB,
		PoolSize:     redisConf.PoolSize,
		MinIdleConns: redisConf.MinIdleConns,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := cli.Ping(pingCtx).Err(); err != nil {
		_ = cli.Close()
		return nil, fmt.Errorf("redis 连接错误: %w", err)
	}
	return &RedisManager{Cli: cli}, nil
}

// NewRedisWithClient 使用已有的客户端（测试中接 miniredis）
func NewRedisWithClient(cli *redis.Client) *RedisManager {
	return &RedisManager{Cli: cli}
}

func (r *RedisManager) GetClient() (redis.Cmdable, error) {
	if r == nil || r.Cli == nil {
		return nil, fmt.Errorf("redis 客户端未初始化")
	}
	return r.Cli, nil
}

func (r *RedisManager) Close() error {
	if r == nil || r.Cli == nil {
		return nil
	}
	if err := r.Cli.Close(); err != nil {
		log.Error("redis 关闭出错: %v", err)
		return err
	}
	return nil
}
