package bot

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"gomahjong/common/config"
	"gomahjong/framework/game/engines/mahjong"

	"github.com/charmbracelet/log"
)

var ErrUnknownBotKind = errors.New("未知的机器人类型")

const (
	KindRandom = "random"
	KindGreedy = "greedy"
)

// Deps 创建机器人时注入的依赖
type Deps struct {
	Logger   *log.Logger
	Rand     *rand.Rand
	Searcher *mahjong.Searcher
}

// DeliberatorBuilder 按依赖创建 Deliberator
type DeliberatorBuilder func(deps Deps) (Deliberator, error)

var (
	buildersMu sync.RWMutex
	builders   = map[string]DeliberatorBuilder{
		KindRandom: func(deps Deps) (Deliberator, error) {
			return NewRandomDeliberator(deps.Rand), nil
		},
		KindGreedy: func(deps Deps) (Deliberator, error) {
			searcher := deps.Searcher
			if searcher == nil {
				var err error
				if searcher, err = mahjong.NewSearcher(nil); err != nil {
					return nil, err
				}
			}
			return NewGreedyDeliberator(searcher), nil
		},
	}
)

// Register 注册新的机器人类型，重复注册会覆盖
func Register(kind string, builder DeliberatorBuilder) {
	buildersMu.Lock()
	defer buildersMu.Unlock()
	builders[kind] = builder
}

// Kinds 已注册的机器人类型
func Kinds() []string {
	buildersMu.RLock()
	defer buildersMu.RUnlock()

	kinds := make([]string, 0, len(builders))
	for kind := range builders {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

// NewFromConf 按配置创建机器人
func NewFromConf(conf config.BotConf, deps Deps) (*Bot, error) {
	buildersMu.RLock()
	builder, ok := builders[conf.Kind]
	buildersMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBotKind, conf.Kind)
	}

	if deps.Rand == nil {
		deps.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	deliberator, err := builder(deps)
	if err != nil {
		return nil, fmt.Errorf("创建机器人 %s 失败: %w", conf.Name, err)
	}

	b := New(conf.Name, deliberator, deps.Logger, deps.Rand)
	if err := b.SetThinkingTime(
		time.Duration(conf.MinThinkingMs)*time.Millisecond,
		time.Duration(conf.MaxThinkingMs)*time.Millisecond,
	); err != nil {
		return nil, err
	}
	return b, nil
}
