package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/notastartupanymore/companywatch/internal/core/domain"
	"github.com/notastartupanymore/companywatch/internal/infrastructure/navigation"
)

type stubSession struct {
	snap      domain.Session
	logoutErr error
	loggedOut bool
}

func (s *stubSession) Session() domain.Session { return s.snap }
func (s *stubSession) Start(context.Context) (domain.Session, error) {
	return s.snap, nil
}
func (s *stubSession) Login(username string) {
	s.snap = domain.Session{State: domain.SessionAuthenticated, Username: username, HasToken: true}
}
func (s *stubSession) Logout(context.Context) error {
	s.loggedOut = true
	s.snap = domain.Session{State: domain.SessionAnonymous}
	return s.logoutErr
}
func (s *stubSession) Expire(context.Context, domain.ExpiryCause) {}
func (s *stubSession) Token(context.Context) (string, error)      { return "tok", nil }

type stubAccount struct {
	registerFn func(ctx context.Context, reg domain.Registration) error
	verifyFn   func(ctx context.Context, token string) error
	loginFn    func(ctx context.Context, email, password string) (domain.Session, error)
	profileFn  func(ctx context.Context) (*domain.Profile, error)
	deleteFn   func(ctx context.Context) error
	contactFn  func(ctx context.Context, msg domain.ContactMessage) error
}

func (s *stubAccount) Register(ctx context.Context, reg domain.Registration) error {
	return s.registerFn(ctx, reg)
}
func (s *stubAccount) VerifyEmail(ctx context.Context, token string) error {
	return s.verifyFn(ctx, token)
}
func (s *stubAccount) Login(ctx context.Context, email, password string) (domain.Session, error) {
	return s.loginFn(ctx, email, password)
}
func (s *stubAccount) Profile(ctx context.Context) (*domain.Profile, error) {
	return s.profileFn(ctx)
}
func (s *stubAccount) DeleteAccount(ctx context.Context) error {
	return s.deleteFn(ctx)
}
func (s *stubAccount) Contact(ctx context.Context, msg domain.ContactMessage) error {
	return s.contactFn(ctx, msg)
}

type stubCollection struct {
	name     string
	items    []string
	err      error
	lastOp   string
	lastItem string
}

func (s *stubCollection) Name() string                 { return s.name }
func (s *stubCollection) Items() []string              { return s.items }
func (s *stubCollection) Contains(item string) bool    { return false }
func (s *stubCollection) Load(*domain.Profile)         {}
func (s *stubCollection) Ensure(context.Context) error { return s.err }
func (s *stubCollection) Refresh(context.Context) ([]string, error) {
	s.lastOp = "refresh"
	return s.items, s.err
}
func (s *stubCollection) Add(_ context.Context, item string) ([]string, error) {
	return s.record("add", item)
}
func (s *stubCollection) Remove(_ context.Context, item string) ([]string, error) {
	return s.record("remove", item)
}
func (s *stubCollection) Toggle(_ context.Context, item string) ([]string, error) {
	return s.record("toggle", item)
}
func (s *stubCollection) record(op, item string) ([]string, error) {
	s.lastOp, s.lastItem = op, item
	if s.err != nil {
		return nil, s.err
	}
	return s.items, nil
}

type stubFeed struct {
	news      []domain.NewsItem
	companies []domain.Company
	labels    []string
	points    []domain.ChartPoint
	lastChart domain.ChartQuery
	err       error
}

func (s *stubFeed) News(context.Context) ([]domain.NewsItem, error)     { return s.news, s.err }
func (s *stubFeed) Companies(context.Context) ([]domain.Company, error) { return s.companies, s.err }
func (s *stubFeed) FilterLabels(context.Context) ([]string, error)      { return s.labels, s.err }
func (s *stubFeed) Chart(_ context.Context, q domain.ChartQuery) ([]domain.ChartPoint, error) {
	s.lastChart = q
	return s.points, s.err
}
func (s *stubFeed) Interesting(context.Context) ([]domain.NewsItem, error) { return s.news, s.err }
func (s *stubFeed) Filtered(context.Context) ([]domain.NewsItem, error)    { return s.news, s.err }

type stubReports struct {
	submitFn func(ctx context.Context, req domain.ReportRequest) (*domain.ReportResult, error)
}

func (s *stubReports) Validate(domain.ReportRequest) error { return nil }
func (s *stubReports) Submit(ctx context.Context, req domain.ReportRequest) (*domain.ReportResult, error) {
	return s.submitFn(ctx, req)
}

type stubRedirects struct {
	pending *navigation.Redirect
}

func (s *stubRedirects) Take() *navigation.Redirect {
	p := s.pending
	s.pending = nil
	return p
}

// newContext builds an echo context with the validator installed; body is
// sent as JSON when non-empty.
func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}
