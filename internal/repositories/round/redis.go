package round

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lox/wolfgoatpig/internal/game"
)

const (
	// Key prefixes for Redis
	gameKeyPrefix  = "wgp:game:"
	holeKeyPrefix  = "wgp:hole:"
	holesKeyPrefix = "wgp:game_holes:"
	gamesIndexKey  = "wgp:games"
)

// ErrGameNotFound is returned when a game record is not found
var ErrGameNotFound = errors.New("game record not found")

// Config holds configuration for the Redis round repository
type Config struct {
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed round repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{client: cfg.RedisClient}, nil
}

func (r *redisRepository) CreateGameRecord(ctx context.Context, input *CreateGameRecordInput) error {
	if input == nil || input.Record == nil {
		return errors.New("input and record cannot be nil")
	}
	record := input.Record
	if record.ID == "" {
		return errors.New("game record ID cannot be empty")
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	recordJSON, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal game record: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, gameKeyPrefix+record.ID, recordJSON, 0)
	pipe.ZAdd(ctx, gamesIndexKey, redis.Z{
		Score:  float64(record.CreatedAt.Unix()),
		Member: record.ID,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store game record: %w", err)
	}
	return nil
}

func (r *redisRepository) GetGameRecord(ctx context.Context, input *GetGameRecordInput) (*GetGameRecordOutput, error) {
	if input == nil || input.GameID == "" {
		return nil, errors.New("input and game ID cannot be empty")
	}

	data, err := r.client.Get(ctx, gameKeyPrefix+input.GameID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to get game record: %w", err)
	}

	var record GameRecord
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game record: %w", err)
	}
	return &GetGameRecordOutput{Record: &record}, nil
}

func (r *redisRepository) ListGameRecords(ctx context.Context) (*ListGameRecordsOutput, error) {
	ids, err := r.client.ZRange(ctx, gamesIndexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list game IDs: %w", err)
	}

	out := &ListGameRecordsOutput{Records: make([]*GameRecord, 0, len(ids))}
	for _, id := range ids {
		result, err := r.GetGameRecord(ctx, &GetGameRecordInput{GameID: id})
		if err != nil {
			if errors.Is(err, ErrGameNotFound) {
				continue
			}
			return nil, err
		}
		out.Records = append(out.Records, result.Record)
	}
	return out, nil
}

func (r *redisRepository) SaveHoleResult(ctx context.Context, input *SaveHoleResultInput) error {
	if input == nil || input.GameID == "" || input.Result == nil {
		return errors.New("input, game ID and result cannot be empty")
	}
	result := input.Result

	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal hole result: %w", err)
	}

	holeKey := fmt.Sprintf("%s%s:%d", holeKeyPrefix, input.GameID, result.HoleNumber)

	// SetNX makes re-delivery after a crash harmless: the first settlement
	// of a hole wins and later writes are ignored.
	stored, err := r.client.SetNX(ctx, holeKey, resultJSON, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to store hole result: %w", err)
	}
	if !stored {
		return nil
	}

	holesKey := holesKeyPrefix + input.GameID
	if err := r.client.ZAdd(ctx, holesKey, redis.Z{
		Score:  float64(result.HoleNumber),
		Member: fmt.Sprintf("%d", result.HoleNumber),
	}).Err(); err != nil {
		return fmt.Errorf("failed to index hole result: %w", err)
	}
	return nil
}

func (r *redisRepository) GetHoleResults(ctx context.Context, input *GetHoleResultsInput) (*GetHoleResultsOutput, error) {
	if input == nil || input.GameID == "" {
		return nil, errors.New("input and game ID cannot be empty")
	}

	holesKey := holesKeyPrefix + input.GameID
	holes, err := r.client.ZRange(ctx, holesKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get hole index: %w", err)
	}

	out := &GetHoleResultsOutput{Results: make([]game.HoleResult, 0, len(holes))}
	for _, hole := range holes {
		holeKey := fmt.Sprintf("%s%s:%s", holeKeyPrefix, input.GameID, hole)
		data, err := r.client.Get(ctx, holeKey).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			return nil, fmt.Errorf("failed to get hole result: %w", err)
		}

		var result game.HoleResult
		if err := json.Unmarshal([]byte(data), &result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal hole result: %w", err)
		}
		out.Results = append(out.Results, result)
	}
	return out, nil
}

func (r *redisRepository) MarkGameComplete(ctx context.Context, input *MarkGameCompleteInput) error {
	if input == nil || input.GameID == "" {
		return errors.New("input and game ID cannot be empty")
	}

	result, err := r.GetGameRecord(ctx, &GetGameRecordInput{GameID: input.GameID})
	if err != nil {
		return err
	}
	result.Record.Complete = true

	recordJSON, err := json.Marshal(result.Record)
	if err != nil {
		return fmt.Errorf("failed to marshal game record: %w", err)
	}
	if err := r.client.Set(ctx, gameKeyPrefix+input.GameID, recordJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to update game record: %w", err)
	}
	return nil
}

func (r *redisRepository) DeleteGame(ctx context.Context, input *DeleteGameInput) error {
	if input == nil || input.GameID == "" {
		return errors.New("input and game ID cannot be empty")
	}

	holesKey := holesKeyPrefix + input.GameID
	holes, err := r.client.ZRange(ctx, holesKey, 0, -1).Result()
	if err != nil {
		return fmt.Errorf("failed to get hole index: %w", err)
	}

	pipe := r.client.Pipeline()
	for _, hole := range holes {
		pipe.Del(ctx, fmt.Sprintf("%s%s:%s", holeKeyPrefix, input.GameID, hole))
	}
	pipe.Del(ctx, holesKey)
	pipe.Del(ctx, gameKeyPrefix+input.GameID)
	pipe.ZRem(ctx, gamesIndexKey, input.GameID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}
	return nil
}
