package ports

import (
	"context"

	"github.com/notastartupanymore/companywatch/internal/core/domain"
)

// FeedService exposes the read-only projections of the remote API.
type FeedService interface {
	News(ctx context.Context) ([]domain.NewsItem, error)
	Companies(ctx context.Context) ([]domain.Company, error)
	FilterLabels(ctx context.Context) ([]string, error)
	Chart(ctx context.Context, q domain.ChartQuery) ([]domain.ChartPoint, error)
	// Interesting returns news whose topic or company is subscribed.
	Interesting(ctx context.Context) ([]domain.NewsItem, error)
	// Filtered returns news whose topic is an active filter, or all news
	// when no filter is active.
	Filtered(ctx context.Context) ([]domain.NewsItem, error)
}
