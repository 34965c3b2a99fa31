package domain

// Segment is the urgency classification of an article. It is a pure function
// of the current inputs: recomputing from the same inputs always yields the
// same segment.
type Segment string

const (
	SegmentCritical  Segment = "CRITICAL"
	SegmentUrgent    Segment = "URGENT"
	SegmentAttention Segment = "ATTENTION"
	SegmentOK        Segment = "OK"
	SegmentOverstock Segment = "OVERSTOCK"
)

// Segments lists all segments in urgency order, for summaries and validation.
var Segments = []Segment{
	SegmentCritical,
	SegmentUrgent,
	SegmentAttention,
	SegmentOK,
	SegmentOverstock,
}

// Valid reports whether s is one of the five known segments.
func (s Segment) Valid() bool {
	switch s {
	case SegmentCritical, SegmentUrgent, SegmentAttention, SegmentOK, SegmentOverstock:
		return true
	}
	return false
}
