package game

import (
	"reflect"
	"testing"
)

func TestCaptainAdvancesEachHole(t *testing.T) {
	t.Parallel()

	order := []string{"p1", "p2", "p3", "p4"}
	for hole := 1; hole <= 18; hole++ {
		rot := ComputeRotation(hole, order)
		want := order[(hole-1)%4]
		if rot.CaptainID != want {
			t.Errorf("hole %d: captain = %s, want %s", hole, rot.CaptainID, want)
		}
		if rot.RotationOrder[0] != rot.CaptainID {
			t.Errorf("hole %d: captain %s does not lead the order %v", hole, rot.CaptainID, rot.RotationOrder)
		}
		if len(rot.RotationOrder) != 4 {
			t.Fatalf("hole %d: rotation has %d players", hole, len(rot.RotationOrder))
		}
	}
}

func TestRotationPreservesCyclicOrder(t *testing.T) {
	t.Parallel()

	order := []string{"a", "b", "c", "d", "e"}
	rot := ComputeRotation(3, order)
	want := []string{"c", "d", "e", "a", "b"}
	if !reflect.DeepEqual(rot.RotationOrder, want) {
		t.Errorf("hole 3 rotation = %v, want %v", rot.RotationOrder, want)
	}
}

func TestHoepfingerWindows(t *testing.T) {
	t.Parallel()

	tests := []struct {
		playerCount int
		startHole   int
	}{
		{4, 17},
		{5, 16},
		{6, 15},
	}

	for _, tt := range tests {
		if got := HoepfingerStart(tt.playerCount); got != tt.startHole {
			t.Errorf("HoepfingerStart(%d) = %d, want %d", tt.playerCount, got, tt.startHole)
		}
		if IsHoepfinger(tt.startHole-1, tt.playerCount) {
			t.Errorf("%d players: hole %d should still be normal phase", tt.playerCount, tt.startHole-1)
		}
		for hole := tt.startHole; hole <= 18; hole++ {
			if !IsHoepfinger(hole, tt.playerCount) {
				t.Errorf("%d players: hole %d should be hoepfinger", tt.playerCount, hole)
			}
		}
	}
}

func TestSelectGoatPosition(t *testing.T) {
	t.Parallel()

	rot := ComputeRotation(16, []string{"a", "b", "c", "d", "e"})
	// Hole 16 with 5 players: order is a,b,c,d,e (shift 15 % 5 == 0).
	if !rot.IsHoepfinger {
		t.Fatal("hole 16 with 5 players should be hoepfinger")
	}

	// Goat "c" elects to hit last.
	moved := SelectGoatPosition(rot, "c", 4)
	want := []string{"a", "b", "d", "e", "c"}
	if !reflect.DeepEqual(moved.RotationOrder, want) {
		t.Errorf("rotation after selection = %v, want %v", moved.RotationOrder, want)
	}
	if moved.CaptainID != "a" {
		t.Errorf("captain = %s, want a", moved.CaptainID)
	}

	// Selecting position 0 makes the goat captain.
	first := SelectGoatPosition(rot, "c", 0)
	if first.CaptainID != "c" {
		t.Errorf("captain = %s, want c", first.CaptainID)
	}
	if !reflect.DeepEqual(first.RotationOrder, []string{"c", "a", "b", "d", "e"}) {
		t.Errorf("rotation = %v", first.RotationOrder)
	}
}
