package feedback

import "context"

// Stats is the aggregate over all feedback records. Both fields are zero when
// no feedback exists.
type Stats struct {
	AverageRating float64
	ReviewCount   int64
}

// Repository defines read operations over customer feedback.
type Repository interface {
	Stats(ctx context.Context) (Stats, error)
}
