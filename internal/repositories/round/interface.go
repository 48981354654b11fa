// Package round persists games and their settled hole results so an
// in-flight round can be recovered after a restart and a finished round can
// be audited later.
package round

import (
	"context"
)

// Repository defines the interface for round data persistence
type Repository interface {
	// CreateGameRecord stores the immutable setup of a new game
	CreateGameRecord(ctx context.Context, input *CreateGameRecordInput) error

	// GetGameRecord retrieves a game's setup by ID
	GetGameRecord(ctx context.Context, input *GetGameRecordInput) (*GetGameRecordOutput, error)

	// ListGameRecords retrieves all stored games, oldest first
	ListGameRecords(ctx context.Context) (*ListGameRecordsOutput, error)

	// SaveHoleResult appends a settled hole. Writes are idempotent per
	// (game, hole): re-saving an already stored hole is a no-op.
	SaveHoleResult(ctx context.Context, input *SaveHoleResultInput) error

	// GetHoleResults retrieves all settled holes for a game in hole order
	GetHoleResults(ctx context.Context, input *GetHoleResultsInput) (*GetHoleResultsOutput, error)

	// MarkGameComplete flags a game as finished
	MarkGameComplete(ctx context.Context, input *MarkGameCompleteInput) error

	// DeleteGame removes a game and all its hole results
	DeleteGame(ctx context.Context, input *DeleteGameInput) error
}
