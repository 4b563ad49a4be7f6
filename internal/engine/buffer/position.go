package buffer

import "fmt"

// Point represents a row and column position in a buffer.
// Both Row and Col are 0-indexed. Col is measured in bytes
// from the start of the line.
type Point struct {
	Row int // 0-indexed row number
	Col int // 0-indexed column (byte offset within line)
}

// String returns a human-readable representation of the point.
func (p Point) String() string {
	return fmt.Sprintf("(%d:%d)", p.Row, p.Col)
}

// Compare returns -1 if p < other, 0 if p == other, 1 if p > other.
func (p Point) Compare(other Point) int {
	if p.Row < other.Row {
		return -1
	}
	if p.Row > other.Row {
		return 1
	}
	if p.Col < other.Col {
		return -1
	}
	if p.Col > other.Col {
		return 1
	}
	return 0
}

// Before returns true if p comes before other.
func (p Point) Before(other Point) bool {
	return p.Compare(other) < 0
}

// After returns true if p comes after other.
func (p Point) After(other Point) bool {
	return p.Compare(other) > 0
}

// Shifted returns the point moved by the given number of rows.
// The result is clamped at row zero.
func (p Point) Shifted(rows int) Point {
	row := p.Row + rows
	if row < 0 {
		row = 0
	}
	return Point{Row: row, Col: p.Col}
}
