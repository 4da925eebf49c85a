package mahjong

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"gomahjong/framework/game/share"
)

// TimeLimitStrategy 每次决策的时间上限
type TimeLimitStrategy interface {
	// Limit 返回座位本次决策的上限，false 表示不限时
	Limit(ctx *GameContext, seat share.Seat) (time.Duration, bool)
}

// NoLimit 不限时
type NoLimit struct{}

func (NoLimit) Limit(*GameContext, share.Seat) (time.Duration, bool) {
	return 0, false
}

// SimpleTimeLimit 所有座位使用同一个上限
type SimpleTimeLimit time.Duration

func (l SimpleTimeLimit) Limit(*GameContext, share.Seat) (time.Duration, bool) {
	if l <= 0 {
		return 0, false
	}
	return time.Duration(l), true
}

type TickerState int

const (
	StateIdle    TickerState = iota // 空闲
	StateRunning                    // 计时中
	StateStopped                    // 已停止
	StateTimeout                    // 已超时
)

func (s TickerState) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateRunning:
		return "RUNNING"
	case StateStopped:
		return "STOPPED"
	case StateTimeout:
		return "TIMEOUT"
	default:
		return fmt.Sprintf("TickerState(%d)", int(s))
	}
}

// TickInterval 倒计时通知的间隔
const TickInterval = time.Second

// DecisionTicker 单个座位一次决策的计时器
// Start 返回带截止时间的 context，超时后决策被取消；计时期间每秒回调剩余秒数
type DecisionTicker struct {
	Seat      share.Seat
	StartTime time.Time
	Elapsed   time.Duration

	State     TickerState
	isRunning bool
	cancel    context.CancelFunc
	done      chan struct{}

	onTick    func(secondsToGo int)
	onTimeout func()

	sync.RWMutex
}

// NewDecisionTicker 创建座位计时器
func NewDecisionTicker(seat share.Seat) *DecisionTicker {
	return &DecisionTicker{
		Seat:  seat,
		State: StateIdle,
	}
}

// Start 启动计时，limit <= 0 表示不限时，只跟随 parent 取消
func (dt *DecisionTicker) Start(parent context.Context, limit time.Duration) (context.Context, error) {
	dt.Lock()
	defer dt.Unlock()

	if dt.isRunning {
		return nil, fmt.Errorf("座位 %s 计时已在运行，无法重复启动", dt.Seat)
	}

	start := time.Now()
	var ctx context.Context
	var cancel context.CancelFunc
	if limit > 0 {
		ctx, cancel = context.WithTimeout(parent, limit)
	} else {
		ctx, cancel = context.WithCancel(parent)
	}

	dt.isRunning = true
	dt.State = StateRunning
	dt.StartTime = start
	dt.Elapsed = 0
	dt.cancel = cancel
	dt.done = make(chan struct{})

	go dt.timerLoop(ctx, limit, dt.done)
	return ctx, nil
}

// timerLoop 计时循环（在 goroutine 中运行）
func (dt *DecisionTicker) timerLoop(ctx context.Context, limit time.Duration, done chan struct{}) {
	defer close(done)

	var tick <-chan time.Time
	if limit > 0 {
		ticker := time.NewTicker(TickInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-tick:
			dt.RLock()
			onTick := dt.onTick
			remaining := limit - time.Since(dt.StartTime)
			dt.RUnlock()
			if onTick != nil && remaining > 0 {
				onTick(int(remaining.Round(time.Second) / time.Second))
			}
		case <-ctx.Done():
			dt.Lock()
			dt.isRunning = false
			dt.Elapsed = time.Since(dt.StartTime)
			timeout := errors.Is(ctx.Err(), context.DeadlineExceeded) && limit > 0 && dt.Elapsed >= limit
			onTimeout := dt.onTimeout
			if timeout {
				dt.State = StateTimeout
			} else {
				dt.State = StateStopped
			}
			dt.Unlock()

			if timeout && onTimeout != nil {
				onTimeout()
			}
			return
		}
	}
}

// Stop 停止计时并等待计时循环退出，返回本次用时
func (dt *DecisionTicker) Stop() time.Duration {
	dt.RLock()
	cancel, done := dt.cancel, dt.done
	dt.RUnlock()

	if cancel == nil {
		return 0
	}
	cancel()
	<-done

	dt.RLock()
	defer dt.RUnlock()
	return dt.Elapsed
}

// TimedOut 最近一次计时是否以超时结束
func (dt *DecisionTicker) TimedOut() bool {
	return dt.GetState() == StateTimeout
}

// GetState 获取当前状态
func (dt *DecisionTicker) GetState() TickerState {
	dt.RLock()
	defer dt.RUnlock()

	return dt.State
}

// SetOnTick 设置倒计时回调
func (dt *DecisionTicker) SetOnTick(callback func(secondsToGo int)) {
	dt.Lock()
	defer dt.Unlock()

	dt.onTick = callback
}

// SetOnTimeout 设置超时回调
func (dt *DecisionTicker) SetOnTimeout(callback func()) {
	dt.Lock()
	defer dt.Unlock()

	dt.onTimeout = callback
}

// TurnManager 一张桌子四个座位的计时器
type TurnManager struct {
	Tickers [share.SeatCount]*DecisionTicker
}

// NewTurnManager 创建回合管理器
func NewTurnManager() *TurnManager {
	tm := &TurnManager{}
	for _, seat := range share.AllSeats {
		tm.Tickers[seat] = NewDecisionTicker(seat)
	}
	return tm
}

// Ticker 获取座位的计时器
func (tm *TurnManager) Ticker(seat share.Seat) *DecisionTicker {
	return tm.Tickers[seat]
}

// StopAll 停止所有计时器
func (tm *TurnManager) StopAll() {
	for _, ticker := range tm.Tickers {
		ticker.Stop()
	}
}

// GetAllTickerStates 获取所有座位的计时器状态
func (tm *TurnManager) GetAllTickerStates() [share.SeatCount]TickerState {
	var states [share.SeatCount]TickerState
	for i, ticker := range tm.Tickers {
		states[i] = ticker.GetState()
	}
	return states
}
