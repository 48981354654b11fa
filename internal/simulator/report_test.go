package simulator

import (
	"context"
	"testing"
	"time"
)

func TestNewReport(t *testing.T) {
	sim := New(Config{Rounds: 6, Players: 0, Seed: 4242, Workers: 2, Logger: testLogger()})

	stats, err := sim.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	report := NewReport(stats, 4242, 250*time.Millisecond)

	if report.Rounds != 6 {
		t.Errorf("Expected 6 rounds, got %d", report.Rounds)
	}
	if report.Seed != 4242 {
		t.Errorf("Expected seed 4242, got %d", report.Seed)
	}
	if report.ElapsedMS != 250 {
		t.Errorf("Expected 250ms elapsed, got %d", report.ElapsedMS)
	}
	if report.Spread.Mean != stats.Mean() {
		t.Errorf("Expected mean %f, got %f", stats.Mean(), report.Spread.Mean)
	}
	if report.Spread.CI95Low > report.Spread.CI95High {
		t.Errorf("Confidence interval inverted: [%f, %f]", report.Spread.CI95Low, report.Spread.CI95High)
	}
	if report.Wagers.Pushes != stats.Pushes {
		t.Errorf("Expected %d pushes, got %d", stats.Pushes, report.Wagers.Pushes)
	}

	// Mixed table sizes: 2 rounds each at 4, 5 and 6 players.
	if len(report.TableSizes) != 3 {
		t.Fatalf("Expected 3 table sizes, got %d", len(report.TableSizes))
	}
	for i, ts := range report.TableSizes {
		if ts.Players != 4+i {
			t.Errorf("Expected %d players at index %d, got %d", 4+i, i, ts.Players)
		}
		if ts.Rounds != 2 {
			t.Errorf("Expected 2 rounds for %d players, got %d", ts.Players, ts.Rounds)
		}
	}
}
