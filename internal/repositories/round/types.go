package round

import (
	"time"

	"github.com/lox/wolfgoatpig/internal/game"
)

// GameRecord is the immutable setup of a stored game.
type GameRecord struct {
	ID        string              `json:"id"`
	CreatedAt time.Time           `json:"created_at"`
	Players   []game.PlayerConfig `json:"players"`
	Complete  bool                `json:"complete"`
}

type CreateGameRecordInput struct {
	Record *GameRecord
}

type GetGameRecordInput struct {
	GameID string
}

type GetGameRecordOutput struct {
	Record *GameRecord
}

type ListGameRecordsOutput struct {
	Records []*GameRecord
}

type SaveHoleResultInput struct {
	GameID string
	Result *game.HoleResult
}

type GetHoleResultsInput struct {
	GameID string
}

type GetHoleResultsOutput struct {
	Results []game.HoleResult
}

type MarkGameCompleteInput struct {
	GameID string
}

type DeleteGameInput struct {
	GameID string
}
