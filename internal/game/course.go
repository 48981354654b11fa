package game

import "fmt"

// Hole describes a single hole on the course.
type Hole struct {
	Number      int
	Par         int
	StrokeIndex int // 1-18, unique within a course, 1 = hardest
	Yardage     int
}

// Course is an ordered set of 18 holes.
type Course struct {
	Name  string
	Holes [18]Hole
}

// Hole returns the hole with the given number (1-18).
func (c *Course) Hole(number int) (Hole, error) {
	if number < 1 || number > len(c.Holes) {
		return Hole{}, fmt.Errorf("hole number %d out of range", number)
	}
	return c.Holes[number-1], nil
}

// Validate checks that hole numbers are sequential and stroke indexes form a
// permutation of 1-18.
func (c *Course) Validate() error {
	seen := make(map[int]int, len(c.Holes))
	for i, h := range c.Holes {
		if h.Number != i+1 {
			return fmt.Errorf("hole at position %d numbered %d", i+1, h.Number)
		}
		if h.StrokeIndex < 1 || h.StrokeIndex > 18 {
			return fmt.Errorf("hole %d: stroke index %d out of range", h.Number, h.StrokeIndex)
		}
		if prev, dup := seen[h.StrokeIndex]; dup {
			return fmt.Errorf("holes %d and %d share stroke index %d", prev, h.Number, h.StrokeIndex)
		}
		seen[h.StrokeIndex] = h.Number
	}
	return nil
}

// DefaultCourse returns a plausible par-72 layout for games that don't load
// a course from config.
func DefaultCourse() *Course {
	pars := [18]int{4, 5, 3, 4, 4, 3, 5, 4, 4, 4, 3, 5, 4, 4, 5, 3, 4, 4}
	indexes := [18]int{9, 3, 17, 1, 11, 15, 5, 7, 13, 8, 16, 4, 2, 10, 6, 18, 12, 14}
	yardages := [18]int{390, 525, 165, 440, 370, 180, 540, 410, 385, 400, 170, 515, 450, 395, 530, 155, 420, 405}

	c := &Course{Name: "default"}
	for i := range c.Holes {
		c.Holes[i] = Hole{
			Number:      i + 1,
			Par:         pars[i],
			StrokeIndex: indexes[i],
			Yardage:     yardages[i],
		}
	}
	return c
}
