package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lunchcrew/lunch-api/internal/domain/feedback"
)

// COALESCE keeps the average at zero for an empty table instead of NULL.
const feedbackStatsSQL = `SELECT COALESCE(AVG(rating), 0)::float8, count(*) FROM feedback`

var _ feedback.Repository = (*FeedbackRepository)(nil)

// FeedbackRepository implements feedback.Repository backed by PostgreSQL.
type FeedbackRepository struct {
	pool *pgxpool.Pool
}

// NewFeedbackRepository returns a FeedbackRepository that uses the given pool.
func NewFeedbackRepository(pool *pgxpool.Pool) *FeedbackRepository {
	return &FeedbackRepository{pool: pool}
}

// Stats returns the average rating and review count across all feedback.
func (r *FeedbackRepository) Stats(ctx context.Context) (feedback.Stats, error) {
	var s feedback.Stats
	if err := r.pool.QueryRow(ctx, feedbackStatsSQL).Scan(&s.AverageRating, &s.ReviewCount); err != nil {
		return feedback.Stats{}, fmt.Errorf("feedback stats: %w", err)
	}
	return s, nil
}
