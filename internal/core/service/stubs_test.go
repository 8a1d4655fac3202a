package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/notastartupanymore/companywatch/internal/core/domain"
	"github.com/notastartupanymore/companywatch/internal/core/ports"
)

type stubStore struct {
	mu    sync.Mutex
	token string
}

func (s *stubStore) Get(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *stubStore) Set(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *stubStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}

type redirect struct {
	cause         domain.ExpiryCause
	userInitiated bool
}

type recordingNavigator struct {
	mu        sync.Mutex
	redirects []redirect
}

func (n *recordingNavigator) ToLogin(cause domain.ExpiryCause, userInitiated bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.redirects = append(n.redirects, redirect{cause: cause, userInitiated: userInitiated})
}

func (n *recordingNavigator) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.redirects)
}

// inlineQueue serialises every key behind one mutex.
type inlineQueue struct {
	mu sync.Mutex
}

func (q *inlineQueue) Do(ctx context.Context, _ string, fn func(ctx context.Context) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return fn(ctx)
}

// stubAPI implements ports.RemoteAPI; unset functions panic when called.
type stubAPI struct {
	loginFn        func(ctx context.Context, email, password string) (*domain.Credentials, error)
	registerFn     func(ctx context.Context, reg domain.Registration) error
	verifyFn       func(ctx context.Context, token string) error
	meFn           func(ctx context.Context, token string) (*domain.Profile, error)
	subscriptionFn func(ctx context.Context, token, subscription string, action ports.SubscriptionAction) (*domain.Profile, error)
	filtersFn      func(ctx context.Context, token string, filters []string) (*domain.Profile, error)
	newsFn         func(ctx context.Context) ([]domain.NewsItem, error)
	companiesFn    func(ctx context.Context) ([]domain.Company, error)
	labelsFn       func(ctx context.Context) ([]string, error)
	chartFn        func(ctx context.Context, token string, q domain.ChartQuery) ([]domain.ChartPoint, error)
	reportFn       func(ctx context.Context, token string, req domain.ReportRequest) (*ports.ReportResponse, error)
	contactFn      func(ctx context.Context, msg domain.ContactMessage) error
	deleteFn       func(ctx context.Context, token, id string) error
}

func (s *stubAPI) Login(ctx context.Context, email, password string) (*domain.Credentials, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAPI) Register(ctx context.Context, reg domain.Registration) error {
	return s.registerFn(ctx, reg)
}

func (s *stubAPI) VerifyEmail(ctx context.Context, token string) error {
	return s.verifyFn(ctx, token)
}

func (s *stubAPI) Me(ctx context.Context, token string) (*domain.Profile, error) {
	return s.meFn(ctx, token)
}

func (s *stubAPI) UpdateSubscription(ctx context.Context, token, subscription string, action ports.SubscriptionAction) (*domain.Profile, error) {
	return s.subscriptionFn(ctx, token, subscription, action)
}

func (s *stubAPI) ReplaceFilters(ctx context.Context, token string, filters []string) (*domain.Profile, error) {
	return s.filtersFn(ctx, token, filters)
}

func (s *stubAPI) News(ctx context.Context) ([]domain.NewsItem, error) {
	return s.newsFn(ctx)
}

func (s *stubAPI) Companies(ctx context.Context) ([]domain.Company, error) {
	return s.companiesFn(ctx)
}

func (s *stubAPI) FilterLabels(ctx context.Context) ([]string, error) {
	return s.labelsFn(ctx)
}

func (s *stubAPI) Chart(ctx context.Context, token string, q domain.ChartQuery) ([]domain.ChartPoint, error) {
	return s.chartFn(ctx, token, q)
}

func (s *stubAPI) GenerateReport(ctx context.Context, token string, req domain.ReportRequest) (*ports.ReportResponse, error) {
	return s.reportFn(ctx, token, req)
}

func (s *stubAPI) SendContact(ctx context.Context, msg domain.ContactMessage) error {
	return s.contactFn(ctx, msg)
}

func (s *stubAPI) DeleteAccount(ctx context.Context, token, id string) error {
	return s.deleteFn(ctx, token, id)
}

type fixture struct {
	store   *stubStore
	api     *stubAPI
	nav     *recordingNavigator
	session *SessionManager
}

func newFixture(token string) *fixture {
	f := &fixture{
		store: &stubStore{token: token},
		api:   &stubAPI{},
		nav:   &recordingNavigator{},
	}
	f.session = NewSessionManager(f.store, f.api, f.nav, zerolog.Nop())
	return f
}

// authenticated returns a fixture already in the Authenticated state.
func authenticated(username string) *fixture {
	f := newFixture("tok-" + username)
	f.session.Login(username)
	return f
}
