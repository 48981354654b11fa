package round

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/wolfgoatpig/internal/game"
)

func setupRedisRepo(t *testing.T) Repository {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo, err := NewRedis(&Config{RedisClient: client})
	require.NoError(t, err)
	return repo
}

// testRepositories builds a fresh instance of each Repository implementation
// so every behavioral test covers both backends.
func testRepositories(t *testing.T) map[string]Repository {
	t.Helper()
	return map[string]Repository{
		"redis":  setupRedisRepo(t),
		"memory": NewMemory(),
	}
}

func testRecord(id string) *GameRecord {
	return &GameRecord{
		ID: id,
		Players: []game.PlayerConfig{
			{ID: "p1", Name: "Bob", Handicap: 10.5},
			{ID: "p2", Name: "Scott"},
			{ID: "p3", Name: "Vince"},
			{ID: "p4", Name: "Mike"},
		},
	}
}

func testHoleResult(hole int, winner string) *game.HoleResult {
	return &game.HoleResult{
		HoleNumber:    hole,
		RotationOrder: []string{"p1", "p2", "p3", "p4"},
		CaptainID:     "p1",
		FinalWager:    2,
		Winner:        winner,
		RawScores:     map[string]int{"p1": 4, "p2": 5, "p3": 5, "p4": 6},
		PointsDelta:   map[string]float64{"p1": 3, "p2": -1, "p3": -1, "p4": -1},
	}
}

func TestGameRecordRoundTrip(t *testing.T) {
	for name, repo := range testRepositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, repo.CreateGameRecord(ctx, &CreateGameRecordInput{Record: testRecord("g1")}))

			out, err := repo.GetGameRecord(ctx, &GetGameRecordInput{GameID: "g1"})
			require.NoError(t, err)
			assert.Equal(t, "g1", out.Record.ID)
			assert.Len(t, out.Record.Players, 4)
			assert.Equal(t, 10.5, out.Record.Players[0].Handicap)
			assert.False(t, out.Record.Complete)
			assert.False(t, out.Record.CreatedAt.IsZero())
		})
	}
}

func TestGetGameRecordNotFound(t *testing.T) {
	for name, repo := range testRepositories(t) {
		t.Run(name, func(t *testing.T) {
			_, err := repo.GetGameRecord(context.Background(), &GetGameRecordInput{GameID: "missing"})
			assert.ErrorIs(t, err, ErrGameNotFound)
		})
	}
}

func TestSaveHoleResultIsIdempotent(t *testing.T) {
	for name, repo := range testRepositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, repo.CreateGameRecord(ctx, &CreateGameRecordInput{Record: testRecord("g1")}))
			require.NoError(t, repo.SaveHoleResult(ctx, &SaveHoleResultInput{GameID: "g1", Result: testHoleResult(1, "p1")}))

			// A redelivered settlement with different data must not overwrite
			// the first write.
			conflicting := testHoleResult(1, "opponents")
			require.NoError(t, repo.SaveHoleResult(ctx, &SaveHoleResultInput{GameID: "g1", Result: conflicting}))

			out, err := repo.GetHoleResults(ctx, &GetHoleResultsInput{GameID: "g1"})
			require.NoError(t, err)
			require.Len(t, out.Results, 1)
			assert.Equal(t, "p1", out.Results[0].Winner)
		})
	}
}

func TestGetHoleResultsOrderedByHole(t *testing.T) {
	for name, repo := range testRepositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, repo.CreateGameRecord(ctx, &CreateGameRecordInput{Record: testRecord("g1")}))
			for _, hole := range []int{3, 1, 2} {
				require.NoError(t, repo.SaveHoleResult(ctx, &SaveHoleResultInput{GameID: "g1", Result: testHoleResult(hole, "p1")}))
			}

			out, err := repo.GetHoleResults(ctx, &GetHoleResultsInput{GameID: "g1"})
			require.NoError(t, err)
			require.Len(t, out.Results, 3)
			for i, result := range out.Results {
				assert.Equal(t, i+1, result.HoleNumber)
			}
		})
	}
}

func TestHoleResultsIsolatedPerGame(t *testing.T) {
	for name, repo := range testRepositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, repo.SaveHoleResult(ctx, &SaveHoleResultInput{GameID: "g1", Result: testHoleResult(1, "p1")}))
			require.NoError(t, repo.SaveHoleResult(ctx, &SaveHoleResultInput{GameID: "g2", Result: testHoleResult(1, "opponents")}))

			out, err := repo.GetHoleResults(ctx, &GetHoleResultsInput{GameID: "g2"})
			require.NoError(t, err)
			require.Len(t, out.Results, 1)
			assert.Equal(t, "opponents", out.Results[0].Winner)
		})
	}
}

func TestMarkGameComplete(t *testing.T) {
	for name, repo := range testRepositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, repo.CreateGameRecord(ctx, &CreateGameRecordInput{Record: testRecord("g1")}))
			require.NoError(t, repo.MarkGameComplete(ctx, &MarkGameCompleteInput{GameID: "g1"}))

			out, err := repo.GetGameRecord(ctx, &GetGameRecordInput{GameID: "g1"})
			require.NoError(t, err)
			assert.True(t, out.Record.Complete)
		})
	}
}

func TestListGameRecords(t *testing.T) {
	for name, repo := range testRepositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, repo.CreateGameRecord(ctx, &CreateGameRecordInput{Record: testRecord("g1")}))
			require.NoError(t, repo.CreateGameRecord(ctx, &CreateGameRecordInput{Record: testRecord("g2")}))

			out, err := repo.ListGameRecords(ctx)
			require.NoError(t, err)
			assert.Len(t, out.Records, 2)
		})
	}
}

func TestDeleteGameRemovesEverything(t *testing.T) {
	for name, repo := range testRepositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, repo.CreateGameRecord(ctx, &CreateGameRecordInput{Record: testRecord("g1")}))
			require.NoError(t, repo.SaveHoleResult(ctx, &SaveHoleResultInput{GameID: "g1", Result: testHoleResult(1, "p1")}))
			require.NoError(t, repo.SaveHoleResult(ctx, &SaveHoleResultInput{GameID: "g1", Result: testHoleResult(2, "")}))

			require.NoError(t, repo.DeleteGame(ctx, &DeleteGameInput{GameID: "g1"}))

			_, err := repo.GetGameRecord(ctx, &GetGameRecordInput{GameID: "g1"})
			assert.ErrorIs(t, err, ErrGameNotFound)

			out, err := repo.GetHoleResults(ctx, &GetHoleResultsInput{GameID: "g1"})
			require.NoError(t, err)
			assert.Empty(t, out.Results)
		})
	}
}

func TestMemoryGetReturnsCopy(t *testing.T) {
	repo := NewMemory()
	ctx := context.Background()

	require.NoError(t, repo.CreateGameRecord(ctx, &CreateGameRecordInput{Record: testRecord("g1")}))

	out, err := repo.GetGameRecord(ctx, &GetGameRecordInput{GameID: "g1"})
	require.NoError(t, err)
	out.Record.Players[0].Name = "mutated"
	out.Record.Complete = true

	again, err := repo.GetGameRecord(ctx, &GetGameRecordInput{GameID: "g1"})
	require.NoError(t, err)
	assert.Equal(t, "Bob", again.Record.Players[0].Name)
	assert.False(t, again.Record.Complete)
}
