package buffer

import "fmt"

// Range represents a region of a buffer between two points.
// Start is inclusive, End is exclusive: [Start, End).
type Range struct {
	Start Point // Inclusive start position
	End   Point // Exclusive end position
}

// NewRange creates a new Range from start and end points.
func NewRange(start, end Point) Range {
	return Range{Start: start, End: end}
}

// String returns a human-readable representation of the range.
func (r Range) String() string {
	return fmt.Sprintf("[%s:%s)", r.Start, r.End)
}

// IsValid returns true if the range is valid (Start <= End).
func (r Range) IsValid() bool {
	return r.Start.Compare(r.End) <= 0
}

// IsEmpty returns true if the range covers no content.
func (r Range) IsEmpty() bool {
	return r.Start.Compare(r.End) == 0
}

// Contains returns true if the given point is within the range.
func (r Range) Contains(p Point) bool {
	return p.Compare(r.Start) >= 0 && p.Compare(r.End) < 0
}

// Rows returns the number of rows the range spans.
func (r Range) Rows() int {
	return r.End.Row - r.Start.Row
}
