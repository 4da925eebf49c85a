package record

import (
	"context"
	"slices"
	"sync"
)

// MemoryRepository 进程内的局记录，本地对局和测试使用
type MemoryRepository struct {
	rounds map[string]*RoundRecord
	mu     sync.RWMutex
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{rounds: make(map[string]*RoundRecord)}
}

func (r *MemoryRepository) AppendEvent(_ context.Context, roundID string, event ActionEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	round, ok := r.rounds[roundID]
	if !ok {
		round = &RoundRecord{RoundID: roundID}
		r.rounds[roundID] = round
	}
	round.Events = append(round.Events, event)
	return nil
}

func (r *MemoryRepository) SaveRound(_ context.Context, round *RoundRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	saved := *round
	if existing, ok := r.rounds[round.RoundID]; ok {
		saved.Events = existing.Events
	}
	r.rounds[round.RoundID] = &saved
	return nil
}

func (r *MemoryRepository) FindRound(_ context.Context, roundID string) (*RoundRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	round, ok := r.rounds[roundID]
	if !ok {
		return nil, ErrRoundNotFound
	}
	found := *round
	found.Events = slices.Clone(round.Events)
	found.Players = slices.Clone(round.Players)
	return &found, nil
}

func (r *MemoryRepository) Close(context.Context) error {
	return nil
}
