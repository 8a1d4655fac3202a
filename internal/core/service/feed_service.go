package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/notastartupanymore/companywatch/internal/core/domain"
	"github.com/notastartupanymore/companywatch/internal/core/ports"
	"github.com/notastartupanymore/companywatch/internal/core/validation"
)

// FeedService reads news, companies and charts and matches news against
// the user's subscriptions and filters.
type FeedService struct {
	api           ports.RemoteAPI
	session       ports.SessionService
	subscriptions ports.CollectionService
	filters       ports.CollectionService
	validate      *validator.Validate
}

func NewFeedService(api ports.RemoteAPI, session ports.SessionService, subscriptions, filters ports.CollectionService) *FeedService {
	return &FeedService{
		api:           api,
		session:       session,
		subscriptions: subscriptions,
		filters:       filters,
		validate:      validation.New(),
	}
}

func (s *FeedService) News(ctx context.Context) ([]domain.NewsItem, error) {
	items, err := s.api.News(ctx)
	if err != nil {
		return nil, fmt.Errorf("news: %w", err)
	}
	return items, nil
}

func (s *FeedService) Companies(ctx context.Context) ([]domain.Company, error) {
	items, err := s.api.Companies(ctx)
	if err != nil {
		return nil, fmt.Errorf("companies: %w", err)
	}
	return items, nil
}

func (s *FeedService) FilterLabels(ctx context.Context) ([]string, error) {
	labels, err := s.api.FilterLabels(ctx)
	if err != nil {
		return nil, fmt.Errorf("filter labels: %w", err)
	}
	return labels, nil
}

func (s *FeedService) Chart(ctx context.Context, q domain.ChartQuery) ([]domain.ChartPoint, error) {
	if err := validation.Struct(s.validate, q, ""); err != nil {
		return nil, err
	}
	var points []domain.ChartPoint
	err := withToken(ctx, s.session, func(token string) error {
		var err error
		points, err = s.api.Chart(ctx, token, q)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("chart: %w", err)
	}
	return points, nil
}

// Interesting needs a session: the subscription set lives on the server.
func (s *FeedService) Interesting(ctx context.Context) ([]domain.NewsItem, error) {
	if err := s.subscriptions.Ensure(ctx); err != nil {
		return nil, err
	}
	news, err := s.News(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.NewsItem, 0, len(news))
	for _, n := range news {
		if s.subscriptions.Contains(n.Topic) || s.subscriptions.Contains(n.Company) {
			out = append(out, n)
		}
	}
	return out, nil
}

// Filtered applies the user's filters when a session exists and returns
// every item otherwise.
func (s *FeedService) Filtered(ctx context.Context) ([]domain.NewsItem, error) {
	authenticated := s.session.Session().IsAuthenticated()
	if authenticated {
		if err := s.filters.Ensure(ctx); err != nil {
			return nil, err
		}
	}
	news, err := s.News(ctx)
	if err != nil {
		return nil, err
	}
	// a previous user's set may still be cached after logout
	if !authenticated || len(s.filters.Items()) == 0 {
		return news, nil
	}
	out := make([]domain.NewsItem, 0, len(news))
	for _, n := range news {
		if s.filters.Contains(n.Topic) {
			out = append(out, n)
		}
	}
	return out, nil
}
