package bot

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"gomahjong/framework/game/engines/mahjong"
	"gomahjong/framework/game/view"

	"github.com/charmbracelet/log"
)

var ErrInvalidThinkingTime = errors.New("思考时间不合法")

const (
	DefaultMinThinking = 1000 * time.Millisecond
	DefaultMaxThinking = 3000 * time.Millisecond
)

// Deliberator 在多个候选动作中选出一个，具体的牌效评估由实现决定
type Deliberator interface {
	Deliberate(ctx context.Context, view *mahjong.ContextView, types []*mahjong.ActionType, candidates []mahjong.Action) (mahjong.Action, error)
}

// DeliberatorFunc 函数形式的 Deliberator
type DeliberatorFunc func(ctx context.Context, view *mahjong.ContextView, types []*mahjong.ActionType, candidates []mahjong.Action) (mahjong.Action, error)

func (f DeliberatorFunc) Deliberate(ctx context.Context, view *mahjong.ContextView, types []*mahjong.ActionType, candidates []mahjong.Action) (mahjong.Action, error) {
	return f(ctx, view, types, candidates)
}

// cpgdTypes 吃碰杠打，需要在多个候选中权衡的动作类型
var cpgdTypes = []*mahjong.ActionType{
	mahjong.Chi, mahjong.Peng, mahjong.Zhigang, mahjong.Bugang, mahjong.Angang,
	mahjong.Discard, mahjong.DiscardWithTing,
}

// Bot 机器人玩家，实现 mahjong.Player
// 选择流程固定：和 > 补牌 > 补花 > 吃碰杠打（多选时交给 Deliberator） > 摸牌
// 每次决策的耗时不少于最短思考时间；需要权衡时补足到 [min, max] 内随机的目标时间
type Bot struct {
	name        string
	deliberator Deliberator
	logger      *log.Logger
	rng         *rand.Rand

	minThinking time.Duration
	maxThinking time.Duration

	mu          sync.Mutex
	costSum     time.Duration
	invokeCount int
}

// New 创建机器人，logger 和 rng 由调用方注入
func New(name string, deliberator Deliberator, logger *log.Logger, rng *rand.Rand) *Bot {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Bot{
		name:        name,
		deliberator: deliberator,
		logger:      logger,
		rng:         rng,
		minThinking: DefaultMinThinking,
		maxThinking: DefaultMaxThinking,
	}
}

// prefixed 每次从注入的日志派生带名字前缀的实例，使运行时调整的日志级别对机器人生效
func (b *Bot) prefixed() *log.Logger {
	return b.logger.WithPrefix(b.name)
}

func (b *Bot) Name() string {
	return b.name
}

// SetThinkingTime 设置思考时间范围，min > max 或为负数时返回错误
func (b *Bot) SetThinkingTime(min, max time.Duration) error {
	if min < 0 || max < 0 || min > max {
		return fmt.Errorf("%w: [%v, %v]", ErrInvalidThinkingTime, min, max)
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.minThinking, b.maxThinking = min, max
	return nil
}

// ThinkingTime 当前的思考时间范围
func (b *Bot) ThinkingTime() (time.Duration, time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.minThinking, b.maxThinking
}

// ResetCostStat 累计耗时和调用次数一起清零
func (b *Bot) ResetCostStat() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.costSum = 0
	b.invokeCount = 0
}

// CostSum 权衡的累计耗时
func (b *Bot) CostSum() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.costSum
}

// InvokeCount 权衡的调用次数
func (b *Bot) InvokeCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.invokeCount
}

func (b *Bot) ChooseAction(ctx context.Context, contextView *mahjong.ContextView, types []*mahjong.ActionType) (*mahjong.Action, error) {
	start := time.Now()
	b.prefixed().Infof("BOT 手牌: %s", view.AliveTiles(contextView.MyInfo()))

	action, candidates, err := b.choose(contextView, types)
	if err != nil {
		return nil, err
	}

	if len(candidates) <= 1 {
		// 不需要权衡，补足最短思考时间
		minThinking, _ := b.ThinkingTime()
		if err := wait(ctx, minThinking-time.Since(start)); err != nil {
			return nil, err
		}
		b.prefixed().Infof("BOT 选择动作: %v", action)
		return action, nil
	}

	deliberated, err := b.deliberate(ctx, contextView, types, candidates)
	if err != nil {
		return nil, err
	}
	b.prefixed().Infof("BOT 选择动作: %v", deliberated)
	return deliberated, nil
}

// choose 固定的选择流程；需要权衡时返回全部候选，由调用方交给 Deliberator
func (b *Bot) choose(contextView *mahjong.ContextView, types []*mahjong.ActionType) (*mahjong.Action, []mahjong.Action, error) {
	seat := contextView.MySeat()

	// 能和就和
	if mahjong.ContainsType(types, mahjong.Win) {
		a := mahjong.NewPlayerAction(seat, mahjong.Win)
		return &a, nil, nil
	}

	// 杠或补花之后补牌
	if mahjong.ContainsType(types, mahjong.DrawBottom) {
		a := mahjong.NewPlayerAction(seat, mahjong.DrawBottom)
		return &a, nil, nil
	}

	// 有花就补
	if mahjong.ContainsType(types, mahjong.Buhua) {
		if buhuas := mahjong.Buhua.LegalTiles(contextView); len(buhuas) > 0 {
			a := mahjong.NewPlayerAction(seat, mahjong.Buhua, buhuas[0]...)
			return &a, nil, nil
		}
	}

	// 吃碰杠打和过
	var offered []*mahjong.ActionType
	for _, t := range cpgdTypes {
		if mahjong.ContainsType(types, t) {
			offered = append(offered, t)
		}
	}
	candidates := mahjong.LegalActions(contextView, offered)
	if pass, ok := mahjong.PassAction(contextView); ok {
		candidates = append(candidates, pass)
	}
	switch len(candidates) {
	case 0:
	case 1:
		a := b.passThenDraw(candidates[0], contextView, types)
		return &a, candidates, nil
	default:
		return nil, candidates, nil
	}

	// 轮到自己摸牌
	if mahjong.ContainsType(types, mahjong.Draw) {
		a := mahjong.NewPlayerAction(seat, mahjong.Draw)
		return &a, nil, nil
	}

	return nil, nil, nil
}

// deliberate 交给 Deliberator 权衡，统计耗时，并补足到随机的目标思考时间
// 被取消时不计入统计
func (b *Bot) deliberate(ctx context.Context, contextView *mahjong.ContextView, types []*mahjong.ActionType, candidates []mahjong.Action) (*mahjong.Action, error) {
	b.prefixed().Debugf("BOT 候选: %s", view.FormatActions(candidates))
	start := time.Now()
	chosen, err := b.deliberator.Deliberate(ctx, contextView, types, candidates)
	cost := time.Since(start)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("机器人 %s 权衡失败: %w", b.name, err)
	}
	b.prefixed().Infof("BOT 权衡耗时(ms): %d", cost.Milliseconds())

	if err := wait(ctx, b.targetThinking()-cost); err != nil {
		return nil, err
	}

	b.mu.Lock()
	b.costSum += cost
	b.invokeCount++
	b.mu.Unlock()

	action := b.passThenDraw(chosen, contextView, types)
	return &action, nil
}

// passThenDraw 放弃吃碰杠时，如果可以摸牌就摸牌
func (b *Bot) passThenDraw(action mahjong.Action, contextView *mahjong.ContextView, types []*mahjong.ActionType) mahjong.Action {
	if action.IsPass() && mahjong.ContainsType(types, mahjong.Draw) {
		return mahjong.NewPlayerAction(contextView.MySeat(), mahjong.Draw)
	}
	return action
}

// targetThinking 在 [min, max] 内均匀随机
func (b *Bot) targetThinking() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()

	span := b.maxThinking - b.minThinking
	if span <= 0 {
		return b.minThinking
	}
	return b.minThinking + time.Duration(b.rng.Int63n(int64(span)+1))
}

func (b *Bot) ChooseActionAfterIllegal(_ context.Context, _ *mahjong.ContextView, _ []*mahjong.ActionType, illegal mahjong.Action) (*mahjong.Action, error) {
	b.prefixed().Errorf("BOT 选择了不合法的动作: %v", illegal)
	return nil, nil
}

func (b *Bot) ActionDone(contextView *mahjong.ContextView, action mahjong.Action) {
	if action.Seat == contextView.MySeat() {
		b.prefixed().Debugf("BOT 动作完成: %s", view.FormatAction(action))
	}
}

func (b *Bot) TimeLimit(_ *mahjong.ContextView, secondsToGo int) {
	b.prefixed().Debugf("BOT 剩余时间: %ds", secondsToGo)
}

// wait 可取消的等待，d <= 0 时不等待
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
