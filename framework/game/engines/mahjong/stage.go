package mahjong

// Stage 游戏阶段，不可变，按名字在规则中注册
type Stage interface {
	Name() string

	// PriorAction 进入阶段后、收集玩家动作之前先执行的自动动作，没有时返回 nil
	PriorAction(ctx *GameContext) *Action

	// PlayerActionTypes 本阶段可以提供给玩家的动作类型
	PlayerActionTypes() []*ActionType

	// NextStage 动作执行后进入的阶段名
	NextStage(ctx *GameContext, action Action) string
}

// StaticStage 由固定字段描述的阶段
type StaticStage struct {
	StageName   string
	Prior       *ActionType
	ActionTypes []*ActionType
	Next        string // 为空时停留在本阶段
}

func (s *StaticStage) Name() string {
	return s.StageName
}

func (s *StaticStage) PriorAction(*GameContext) *Action {
	if s.Prior == nil {
		return nil
	}
	a := NewAutoAction(s.Prior)
	return &a
}

func (s *StaticStage) PlayerActionTypes() []*ActionType {
	return s.ActionTypes
}

func (s *StaticStage) NextStage(*GameContext, Action) string {
	if s.Next == "" {
		return s.StageName
	}
	return s.Next
}
