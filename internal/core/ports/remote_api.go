package ports

import (
	"context"

	"github.com/notastartupanymore/companywatch/internal/core/domain"
)

// SubscriptionAction is the verb sent with a single-subscription mutation.
type SubscriptionAction string

const (
	ActionAdd    SubscriptionAction = "add"
	ActionRemove SubscriptionAction = "remove"
)

// ReportResponse is the raw answer of the report endpoint. The caller
// decides between file and acknowledgement from ContentType.
type ReportResponse struct {
	ContentType string
	Body        []byte
}

// RemoteAPI is the HTTP collaborator. Errors are domain.ErrNetworkFailure,
// domain.ErrAuthExpired or a *domain.ServerError.
type RemoteAPI interface {
	Login(ctx context.Context, email, password string) (*domain.Credentials, error)
	Register(ctx context.Context, reg domain.Registration) error
	VerifyEmail(ctx context.Context, token string) error
	Me(ctx context.Context, token string) (*domain.Profile, error)
	UpdateSubscription(ctx context.Context, token, subscription string, action SubscriptionAction) (*domain.Profile, error)
	ReplaceFilters(ctx context.Context, token string, filters []string) (*domain.Profile, error)
	News(ctx context.Context) ([]domain.NewsItem, error)
	Companies(ctx context.Context) ([]domain.Company, error)
	FilterLabels(ctx context.Context) ([]string, error)
	Chart(ctx context.Context, token string, q domain.ChartQuery) ([]domain.ChartPoint, error)
	GenerateReport(ctx context.Context, token string, req domain.ReportRequest) (*ReportResponse, error)
	SendContact(ctx context.Context, msg domain.ContactMessage) error
	DeleteAccount(ctx context.Context, token, id string) error
}
