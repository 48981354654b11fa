package game

// Rotation computation: who hits when, who is captain, and when the
// Hoepfinger phase replaces the cyclic default with goat-selected
// positioning.

// HoepfingerStart returns the first Hoepfinger hole for a player count. The
// phase begins once the remaining holes are fewer than the player count:
// hole 17 for four players, 16 for five, 15 for six.
func HoepfingerStart(playerCount int) int {
	return 21 - playerCount
}

// IsHoepfinger reports whether a hole falls in the Hoepfinger window.
func IsHoepfinger(holeNumber, playerCount int) bool {
	return holeNumber >= HoepfingerStart(playerCount) && holeNumber <= 18
}

// ComputeRotation returns the default rotation for a hole: the hole-1 order
// cyclically shifted so the captaincy advances by one each hole. During
// Hoepfinger this is still the starting point; the goat may override it
// with SelectRotation before teams form.
func ComputeRotation(holeNumber int, order []string) RotationInfo {
	n := len(order)
	shift := (holeNumber - 1) % n
	rotated := make([]string, 0, n)
	rotated = append(rotated, order[shift:]...)
	rotated = append(rotated, order[:shift]...)
	return RotationInfo{
		HoleNumber:    holeNumber,
		RotationOrder: rotated,
		CaptainID:     rotated[0],
		IsHoepfinger:  IsHoepfinger(holeNumber, n),
	}
}

// SelectGoatPosition rebuilds a rotation with the goat moved to the chosen
// position (0-based), preserving the cyclic order of everyone else. The
// caller validates that the selection is legal; this only rearranges.
func SelectGoatPosition(rotation RotationInfo, goatID string, position int) RotationInfo {
	rest := make([]string, 0, len(rotation.RotationOrder)-1)
	for _, id := range rotation.RotationOrder {
		if id != goatID {
			rest = append(rest, id)
		}
	}
	order := make([]string, 0, len(rotation.RotationOrder))
	order = append(order, rest[:position]...)
	order = append(order, goatID)
	order = append(order, rest[position:]...)

	next := rotation
	next.RotationOrder = order
	next.CaptainID = order[0]
	return next
}
