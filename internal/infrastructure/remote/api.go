package remote

import (
	"context"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/notastartupanymore/companywatch/internal/core/domain"
	"github.com/notastartupanymore/companywatch/internal/core/ports"
)

var _ ports.RemoteAPI = (*Client)(nil)

func (c *Client) Login(ctx context.Context, email, password string) (*domain.Credentials, error) {
	var creds domain.Credentials
	err := c.decode(ctx, call{
		name:   "login",
		method: http.MethodPost,
		path:   c.endpoints.Login,
		body:   loginRequest{Email: email, Password: password},
	}, &creds)
	if err != nil {
		return nil, err
	}
	return &creds, nil
}

func (c *Client) Register(ctx context.Context, reg domain.Registration) error {
	return c.decode(ctx, call{
		name:   "register",
		method: http.MethodPost,
		path:   c.endpoints.Register,
		body:   reg,
	}, nil)
}

func (c *Client) VerifyEmail(ctx context.Context, token string) error {
	return c.decode(ctx, call{
		name:   "verify_email",
		method: http.MethodGet,
		path:   c.endpoints.VerifyEmail,
		query:  url.Values{"token": {token}},
	}, nil)
}

func (c *Client) Me(ctx context.Context, token string) (*domain.Profile, error) {
	var p domain.Profile
	err := c.decode(ctx, call{
		name:   "me",
		method: http.MethodGet,
		path:   c.endpoints.Me,
		token:  token,
	}, &p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateSubscription returns the updated profile, or nil when the server
// answers without a body.
func (c *Client) UpdateSubscription(ctx context.Context, token, subscription string, action ports.SubscriptionAction) (*domain.Profile, error) {
	return c.profileMutation(ctx, call{
		name:   "update_subscription",
		method: http.MethodPut,
		path:   c.endpoints.Me,
		token:  token,
		body:   subscriptionRequest{Subscription: subscription, Action: string(action)},
	})
}

// ReplaceFilters sends the whole filter set.
func (c *Client) ReplaceFilters(ctx context.Context, token string, filters []string) (*domain.Profile, error) {
	if filters == nil {
		filters = []string{}
	}
	return c.profileMutation(ctx, call{
		name:   "replace_filters",
		method: http.MethodPut,
		path:   c.endpoints.MeFilters,
		token:  token,
		body:   filtersRequest{Filters: filters},
	})
}

func (c *Client) profileMutation(ctx context.Context, in call) (*domain.Profile, error) {
	var p *domain.Profile
	if err := c.decode(ctx, in, &p); err != nil {
		return nil, err
	}
	return p, nil
}

func (c *Client) News(ctx context.Context) ([]domain.NewsItem, error) {
	var items []newsItem
	err := c.decode(ctx, call{name: "news", method: http.MethodGet, path: c.endpoints.News}, &items)
	if err != nil {
		return nil, err
	}
	out := make([]domain.NewsItem, 0, len(items))
	for _, it := range items {
		out = append(out, it.toDomain())
	}
	return out, nil
}

func (c *Client) Companies(ctx context.Context) ([]domain.Company, error) {
	var items []domain.Company
	err := c.decode(ctx, call{name: "companies", method: http.MethodGet, path: c.endpoints.Companies}, &items)
	return items, err
}

func (c *Client) FilterLabels(ctx context.Context) ([]string, error) {
	var labels []string
	err := c.decode(ctx, call{name: "filters", method: http.MethodGet, path: c.endpoints.FilterLabels}, &labels)
	return labels, err
}

func (c *Client) Chart(ctx context.Context, token string, q domain.ChartQuery) ([]domain.ChartPoint, error) {
	var points []domain.ChartPoint
	err := c.decode(ctx, call{
		name:   "charts",
		method: http.MethodGet,
		path:   c.endpoints.Charts,
		token:  token,
		query: url.Values{
			"dataType":    {q.DataType},
			"companyType": {q.CompanyType},
			"timePeriod":  {q.TimePeriod},
		},
	}, &points)
	return points, err
}

// GenerateReport returns the raw body with its media type, parameters stripped.
func (c *Client) GenerateReport(ctx context.Context, token string, req domain.ReportRequest) (*ports.ReportResponse, error) {
	resp, err := c.do(ctx, call{
		name:   "generate_pdf",
		method: http.MethodPost,
		path:   c.endpoints.GeneratePDF,
		token:  token,
		body:   newReportRequest(req),
	})
	if err != nil {
		return nil, err
	}
	contentType := resp.contentType
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mt
	}
	return &ports.ReportResponse{ContentType: strings.ToLower(contentType), Body: resp.body}, nil
}

func (c *Client) SendContact(ctx context.Context, msg domain.ContactMessage) error {
	return c.decode(ctx, call{
		name:   "contact_mail",
		method: http.MethodPost,
		path:   c.endpoints.ContactMail,
		body:   msg,
	}, nil)
}

func (c *Client) DeleteAccount(ctx context.Context, token, id string) error {
	return c.decode(ctx, call{
		name:   "delete_account",
		method: http.MethodDelete,
		path:   strings.TrimSuffix(c.endpoints.Account, "/") + "/" + url.PathEscape(id),
		token:  token,
	}, nil)
}
