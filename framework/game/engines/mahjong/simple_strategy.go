package mahjong

const (
	StageDeal = "DEAL"
	StagePlay = "PLAY"
)

// NewSimpleStrategy 最简单的可玩规则：发牌后进入出牌阶段，直到有人和牌或流局
// 使用花牌，庄家和牌连庄
func NewSimpleStrategy(checker WinChecker) (*BaseStrategy, error) {
	return NewBaseStrategy(BaseOptions{
		Stages: []Stage{
			&StaticStage{StageName: StageDeal, Prior: Deal, Next: StagePlay},
			&StaticStage{StageName: StagePlay, ActionTypes: PlayerActionTypes},
		},
		InitialStage: StageDeal,
		DealerRule:   KeepDealerOnWin,
		WinChecker:   checker,
		WithFlowers:  true,
	})
}
