package round

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/lox/wolfgoatpig/internal/game"
)

// memoryRepository implements the Repository interface with in-process maps.
// It backs single-process deployments and tests that do not need Redis.
type memoryRepository struct {
	mu    sync.RWMutex
	games map[string]*GameRecord
	holes map[string]map[int]game.HoleResult
}

// NewMemory creates an in-memory round repository.
func NewMemory() *memoryRepository {
	return &memoryRepository{
		games: make(map[string]*GameRecord),
		holes: make(map[string]map[int]game.HoleResult),
	}
}

func (r *memoryRepository) CreateGameRecord(ctx context.Context, input *CreateGameRecordInput) error {
	if input == nil || input.Record == nil {
		return errors.New("input and record cannot be nil")
	}
	record := *input.Record
	if record.ID == "" {
		return errors.New("game record ID cannot be empty")
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	record.Players = append([]game.PlayerConfig(nil), record.Players...)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.games[record.ID] = &record
	return nil
}

func (r *memoryRepository) GetGameRecord(ctx context.Context, input *GetGameRecordInput) (*GetGameRecordOutput, error) {
	if input == nil || input.GameID == "" {
		return nil, errors.New("input and game ID cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.games[input.GameID]
	if !ok {
		return nil, ErrGameNotFound
	}
	record := *stored
	record.Players = append([]game.PlayerConfig(nil), stored.Players...)
	return &GetGameRecordOutput{Record: &record}, nil
}

func (r *memoryRepository) ListGameRecords(ctx context.Context) (*ListGameRecordsOutput, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := &ListGameRecordsOutput{Records: make([]*GameRecord, 0, len(r.games))}
	for _, stored := range r.games {
		record := *stored
		record.Players = append([]game.PlayerConfig(nil), stored.Players...)
		out.Records = append(out.Records, &record)
	}
	sort.Slice(out.Records, func(i, j int) bool {
		a, b := out.Records[i], out.Records[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return out, nil
}

func (r *memoryRepository) SaveHoleResult(ctx context.Context, input *SaveHoleResultInput) error {
	if input == nil || input.GameID == "" || input.Result == nil {
		return errors.New("input, game ID and result cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	holes, ok := r.holes[input.GameID]
	if !ok {
		holes = make(map[int]game.HoleResult)
		r.holes[input.GameID] = holes
	}
	// The first settlement of a hole wins; a redelivered write is a no-op.
	if _, ok := holes[input.Result.HoleNumber]; ok {
		return nil
	}
	holes[input.Result.HoleNumber] = *input.Result
	return nil
}

func (r *memoryRepository) GetHoleResults(ctx context.Context, input *GetHoleResultsInput) (*GetHoleResultsOutput, error) {
	if input == nil || input.GameID == "" {
		return nil, errors.New("input and game ID cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	holes := r.holes[input.GameID]

	out := &GetHoleResultsOutput{Results: make([]game.HoleResult, 0, len(holes))}
	for _, result := range holes {
		out.Results = append(out.Results, result)
	}
	sort.Slice(out.Results, func(i, j int) bool {
		return out.Results[i].HoleNumber < out.Results[j].HoleNumber
	})
	return out, nil
}

func (r *memoryRepository) MarkGameComplete(ctx context.Context, input *MarkGameCompleteInput) error {
	if input == nil || input.GameID == "" {
		return errors.New("input and game ID cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.games[input.GameID]
	if !ok {
		return ErrGameNotFound
	}
	record.Complete = true
	return nil
}

func (r *memoryRepository) DeleteGame(ctx context.Context, input *DeleteGameInput) error {
	if input == nil || input.GameID == "" {
		return errors.New("input and game ID cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.games, input.GameID)
	delete(r.holes, input.GameID)
	return nil
}
