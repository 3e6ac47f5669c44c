package store

import (
	"context"

	"github.com/Tameralinada/ai-code-reviewer/internal/analyzer"
	"github.com/Tameralinada/ai-code-reviewer/internal/models"
)

// DefaultRecentLimit is the RecentReviews limit used when callers pass a
// non-positive value.
const DefaultRecentLimit = 10

// Store defines the persistence interface for reviews and their derived
// records. It is the sole writer of Review, Issue, Metric, and History rows;
// the analysis engine only produces plain result values.
type Store interface {
	// Reviews
	CreateReview(ctx context.Context, fileName, code string) (*models.Review, error)
	GetReview(ctx context.Context, id string) (*models.Review, error)
	RecordResult(ctx context.Context, reviewID string, res analyzer.Result) error
	RecentReviews(ctx context.Context, limit int) ([]*models.Review, error)

	// Derived records
	ListIssues(ctx context.Context, reviewID string) ([]*models.Issue, error)
	GetMetric(ctx context.Context, reviewID string) (*models.Metric, error)
	ListHistory(ctx context.Context, reviewID string) ([]*models.HistoryEntry, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
