package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

var ErrInvalidConfig = errors.New("配置不合法")

// Conf 进程级配置，由 Load 填充
var Conf *Config

type Config struct {
	AppName    string     `mapstructure:"appName"`
	Log        LogConf    `mapstructure:"log"`
	MetricPort int        `mapstructure:"metricPort"`
	Game       GameConf   `mapstructure:"game"`
	Bots       []BotConf  `mapstructure:"bots"`
	Record     RecordConf `mapstructure:"record"`
}

type LogConf struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

type GameConf struct {
	Rounds           int   `mapstructure:"rounds"`
	Seed             int64 `mapstructure:"seed"`             // 0 表示按时间播种
	TimeLimitSeconds int   `mapstructure:"timeLimitSeconds"` // 0 表示不限时
}

// BotConf 一个座位上的机器人
type BotConf struct {
	Seat          string `mapstructure:"seat"`
	Name          string `mapstructure:"name"`
	Kind          string `mapstructure:"kind"`
	MinThinkingMs int    `mapstructure:"minThinkingMs"`
	MaxThinkingMs int    `mapstructure:"maxThinkingMs"`
}

type RecordConf struct {
	Driver    string    `mapstructure:"driver"` // memory | redis | mongo，为空时不记录
	MongoConf MongoConf `mapstructure:"mongo"`
	RedisConf RedisConf `mapstructure:"redis"`
}

type MongoConf struct {
	Url         string `mapstructure:"url"`
	Db          string `mapstructure:"db"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	MinPoolSize int    `mapstructure:"minPoolSize"`
	MaxPoolSize int    `mapstructure:"maxPoolSize"`
}

type RedisConf struct {
	Addr         string `mapstructure:"addr"`
	Password     string `mapstructure:"password"`
	DB           int    `mapstructure:"db"`
	PoolSize     int    `mapstructure:"poolSize"`
	MinIdleConns int    `mapstructure:"minIdleConns"`
	TTLSeconds   int    `mapstructure:"ttlSeconds"`
}

// Default 没有配置文件时使用的配置：四个随机机器人，不记录
func Default() *Config {
	cfg := &Config{
		AppName: "game",
		Log:     LogConf{Level: "info"},
		Game:    GameConf{Rounds: 1},
	}
	for _, seat := range []string{"east", "south", "west", "north"} {
		cfg.Bots = append(cfg.Bots, BotConf{
			Seat:          seat,
			Name:          "bot-" + seat,
			Kind:          "random",
			MinThinkingMs: 1000,
			MaxThinkingMs: 3000,
		})
	}
	return cfg
}

// Validate 启动前检查配置，任何错误都应终止启动
func (c *Config) Validate() error {
	if c.Game.Rounds <= 0 {
		return fmt.Errorf("%w: game.rounds 必须大于 0，当前 %d", ErrInvalidConfig, c.Game.Rounds)
	}
	if c.Game.TimeLimitSeconds < 0 {
		return fmt.Errorf("%w: game.timeLimitSeconds 不能为负数", ErrInvalidConfig)
	}
	if len(c.Bots) != 4 {
		return fmt.Errorf("%w: 需要 4 个座位的机器人配置，当前 %d 个", ErrInvalidConfig, len(c.Bots))
	}
	seats := make(map[string]struct{}, len(c.Bots))
	for i, bot := range c.Bots {
		if bot.Seat == "" || bot.Kind == "" {
			return fmt.Errorf("%w: bots[%d] 缺少 seat 或 kind", ErrInvalidConfig, i)
		}
		seat := strings.ToLower(bot.Seat)
		if _, dup := seats[seat]; dup {
			return fmt.Errorf("%w: 座位 %s 重复", ErrInvalidConfig, bot.Seat)
		}
		seats[seat] = struct{}{}
		if bot.MinThinkingMs < 0 || bot.MaxThinkingMs < 0 {
			return fmt.Errorf("%w: bots[%d] 思考时间不能为负数", ErrInvalidConfig, i)
		}
		if bot.MinThinkingMs > bot.MaxThinkingMs {
			return fmt.Errorf("%w: bots[%d] 最短思考时间 %dms 大于最长思考时间 %dms",
				ErrInvalidConfig, i, bot.MinThinkingMs, bot.MaxThinkingMs)
		}
	}
	switch c.Record.Driver {
	case "", "memory":
	case "redis":
		if c.Record.RedisConf.Addr == "" {
			return fmt.Errorf("%w: record.redis.addr 不能为空", ErrInvalidConfig)
		}
	case "mongo":
		if c.Record.MongoConf.Url == "" || c.Record.MongoConf.Db == "" {
			return fmt.Errorf("%w: record.mongo.url 和 record.mongo.db 不能为空", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: 未知的 record.driver: %s", ErrInvalidConfig, c.Record.Driver)
	}
	return nil
}

// Load 读取配置文件，环境变量可以覆盖（game.rounds -> GAME_ROUNDS）
// onLogLevelChange 不为空时监听文件变化，日志级别变化时回调
func Load(configFile string, onLogLevelChange func(level string)) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configFile)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件出错: %w", err)
	}

	cfg := Default()
	cfg.Bots = nil
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件出错: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if onLogLevelChange != nil {
		level := cfg.Log.Level
		v.OnConfigChange(func(in fsnotify.Event) {
			newLevel := v.GetString("log.level")
			if newLevel != "" && newLevel != level {
				level = newLevel
				onLogLevelChange(newLevel)
			}
		})
		v.WatchConfig()
	}

	Conf = cfg
	return cfg, nil
}
