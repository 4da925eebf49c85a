package mahjong

import (
	"context"
	"errors"
	"fmt"

	"gomahjong/common/log"
	"gomahjong/framework/game/share"

	"golang.org/x/sync/errgroup"
)

var (
	ErrTableNotReady      = errors.New("牌桌没有坐满")
	ErrUnknownStage       = errors.New("未知的阶段")
	ErrNoResolvableAction = errors.New("没有可以执行的动作")
)

// Game 仲裁引擎：每个触发事件收集四个座位的选择，按规则的优先级选出一个动作执行
type Game struct {
	strategy  GameStrategy
	timeLimit TimeLimitStrategy
	recorder  Recorder
}

type GameOption func(*Game)

// WithTimeLimit 设置每次决策的时间上限
func WithTimeLimit(limit TimeLimitStrategy) GameOption {
	return func(g *Game) {
		g.timeLimit = limit
	}
}

// WithRecorder 设置动作记录器
func WithRecorder(recorder Recorder) GameOption {
	return func(g *Game) {
		g.recorder = recorder
	}
}

// NewGame 创建引擎，同一个引擎可以串行或并行地驱动多张桌子
func NewGame(strategy GameStrategy, opts ...GameOption) *Game {
	g := &Game{
		strategy:  strategy,
		timeLimit: NoLimit{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Game) Strategy() GameStrategy {
	return g.strategy
}

// round 一局进行中的状态
type round struct {
	*Game
	gctx  *GameContext
	turns *TurnManager
}

// Play 在牌桌上进行一局，直到规则判定结束或 ctx 被取消
// previous 为上一局的上下文（用于坐庄），第一局传 nil
func (g *Game) Play(ctx context.Context, table *Table, previous *GameContext) (gctx *GameContext, err error) {
	if !g.strategy.RoundReady(table) {
		return nil, ErrTableNotReady
	}

	gctx = NewGameContext(table, g.strategy, g.timeLimit, previous)
	g.strategy.PrepareRound(gctx)
	r := &round{Game: g, gctx: gctx, turns: NewTurnManager()}
	defer r.turns.StopAll()
	defer func() {
		if err != nil && g.recorder != nil {
			g.recorder.RecordAbort(gctx, err)
		}
	}()

	log.Info("Round[%s] 开局，庄家: %s，牌墙: %d 张", gctx.RoundID, gctx.Dealer, gctx.WallSize())

	for !g.strategy.RoundEnded(gctx) {
		if err := ctx.Err(); err != nil {
			return gctx, err
		}

		stage, ok := g.strategy.StageByName(gctx.StageName)
		if !ok {
			return gctx, fmt.Errorf("%w: %q", ErrUnknownStage, gctx.StageName)
		}

		if prior := stage.PriorAction(gctx); prior != nil {
			if err := r.doAction(ctx, stage, *prior); err != nil {
				return gctx, err
			}
			continue
		}

		action, err := r.resolve(ctx, stage)
		if err != nil {
			return gctx, err
		}
		if err := r.doAction(ctx, stage, action); err != nil {
			return gctx, err
		}
	}

	if g.recorder != nil {
		if err := g.recorder.RecordResult(ctx, gctx); err != nil {
			log.Error("Round[%s] 记录结果失败: %v", gctx.RoundID, err)
		}
	}
	log.Info("Round[%s] 结束，共 %d 个动作，结果: %+v", gctx.RoundID, len(gctx.DoneActions), gctx.Result)
	return gctx, nil
}

// resolve 选出本次事件要执行的动作
func (r *round) resolve(ctx context.Context, stage Stage) (Action, error) {
	gctx := r.gctx
	if forced := r.strategy.TableDefaultAction(gctx); forced != nil {
		log.Debug("Round[%s] 桌面强制动作: %s", gctx.RoundID, forced)
		return *forced, nil
	}

	offers := calculateAllOffers(gctx, stage.PlayerActionTypes())
	choices, err := r.collect(ctx, offers)
	if err != nil {
		return Action{}, err
	}

	candidates := make([]Action, 0, share.SeatCount)
	for _, choice := range choices {
		if choice != nil && !choice.IsPass() {
			candidates = append(candidates, *choice)
		}
	}

	// 所有座位都过时，使用各座位的默认动作
	if len(candidates) == 0 {
		for _, seat := range share.AllSeats {
			if offers[seat].Empty() {
				continue
			}
			if def := r.strategy.PlayerDefaultAction(gctx, seat, offers[seat].Types); def != nil && !def.IsPass() {
				candidates = append(candidates, *def)
			}
		}
	}

	switch len(candidates) {
	case 0:
		return Action{}, fmt.Errorf("%w: 阶段 %s，上一个动作 %v", ErrNoResolvableAction, stage.Name(), gctx.LastAction)
	case 1:
		return candidates[0], nil
	}

	trigger := gctx.LastActionSeat()
	keys := make([]ActionTypeAndSeat, len(candidates))
	for i, c := range candidates {
		keys[i] = ActionTypeAndSeat{Type: c.Type, Seat: c.Seat, Trigger: trigger}
	}
	best := r.strategy.PriorityComparator().Best(keys)
	log.Debug("Round[%s] %d 个候选，选中 %s", gctx.RoundID, len(candidates), candidates[best])
	return candidates[best], nil
}

// collect 并发询问有多个选择的座位，只有一个选择的座位直接采用
func (r *round) collect(ctx context.Context, offers [share.SeatCount]SeatOffers) ([share.SeatCount]*Action, error) {
	var choices [share.SeatCount]*Action
	eg, egCtx := errgroup.WithContext(ctx)

	for _, seat := range share.AllSeats {
		seatOffers := offers[seat]
		if seatOffers.Empty() {
			continue
		}
		if single, ok := seatOffers.Single(); ok {
			choices[seat] = &single
			continue
		}
		eg.Go(func() error {
			choice, err := r.decide(egCtx, seatOffers)
			if err != nil {
				return err
			}
			choices[seat] = choice
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return choices, err
	}
	return choices, nil
}

// decide 在时间上限内询问一个座位；超时、出错或不合法时使用默认动作
// 只有外部 ctx 被取消时返回错误
func (r *round) decide(ctx context.Context, offers SeatOffers) (*Action, error) {
	gctx, seat := r.gctx, offers.Seat
	player := gctx.Table.Player(seat)
	if player == nil {
		return r.strategy.PlayerDefaultAction(gctx, seat, offers.Types), nil
	}

	limit, limited := gctx.TimeLimit.Limit(gctx, seat)
	if !limited {
		limit = 0
	}
	ticker := r.turns.Ticker(seat)
	ticker.SetOnTick(pushTimeLimit(gctx, seat, player))
	decisionCtx, err := ticker.Start(ctx, limit)
	if err != nil {
		return nil, err
	}
	defer ticker.Stop()

	view := gctx.View(seat)
	choice, err := player.ChooseAction(decisionCtx, view, offers.Types)
	if err == nil && choice != nil {
		if matched, ok := offers.Match(*choice); ok {
			return &matched, nil
		}
		log.Warn("Round[%s] 座位 %s 选择了不合法的动作: %s", gctx.RoundID, seat, choice)
		choice, err = player.ChooseActionAfterIllegal(decisionCtx, view, offers.Types, *choice)
		if err == nil && choice != nil {
			matched, ok := offers.Match(*choice)
			if ok {
				return &matched, nil
			}
			choice = nil
		}
	}

	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		ticker.Stop()
		if ticker.TimedOut() {
			log.Warn("Round[%s] 座位 %s 决策超时 (%v)，使用默认动作", gctx.RoundID, seat, limit)
		} else {
			log.Error("Round[%s] 座位 %s 决策失败: %v，使用默认动作", gctx.RoundID, seat, err)
		}
		choice = nil
	}

	if choice == nil {
		return r.strategy.PlayerDefaultAction(gctx, seat, offers.Types), nil
	}
	return choice, nil
}

// doAction 执行动作、通知所有座位、推进阶段
func (r *round) doAction(ctx context.Context, stage Stage, action Action) error {
	gctx := r.gctx
	if action.Type == nil || action.Type.apply == nil {
		return fmt.Errorf("动作 %s 无法执行", action)
	}
	if err := action.Type.apply(gctx, action); err != nil {
		return fmt.Errorf("执行动作 %s 失败: %w", action, err)
	}
	gctx.done(action)
	log.Debug("Round[%s] 执行动作: %s，牌墙剩余 %d", gctx.RoundID, action, gctx.WallSize())

	broadcastActionDone(gctx, action)
	if r.recorder != nil {
		if err := r.recorder.RecordAction(ctx, gctx, action); err != nil {
			log.Error("Round[%s] 记录动作失败: %v", gctx.RoundID, err)
		}
	}

	gctx.StageName = stage.NextStage(gctx, action)
	return nil
}
