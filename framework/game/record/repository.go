package record

import (
	"context"
	"errors"
)

var ErrRoundNotFound = errors.New("局记录不存在")

// Repository 局记录仓储接口
type Repository interface {
	// AppendEvent 追加一个动作，局记录不存在时创建
	AppendEvent(ctx context.Context, roundID string, event ActionEvent) error

	// SaveRound 保存局的元数据和结果，不覆盖已追加的动作
	SaveRound(ctx context.Context, round *RoundRecord) error

	// FindRound 查找局记录（含全部动作）
	FindRound(ctx context.Context, roundID string) (*RoundRecord, error)

	Close(ctx context.Context) error
}
