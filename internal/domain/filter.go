package domain

// ArticleFilter narrows computed-record queries to a supplier or segment
// slice, with pagination.
type ArticleFilter struct {
	Segment  string `json:"segment"`
	Supplier string `json:"supplier"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}

// SegmentSummary is the per-segment article count of the latest run.
type SegmentSummary struct {
	Segment Segment `json:"segment" db:"segment"`
	Count   int     `json:"count" db:"count"`
}
