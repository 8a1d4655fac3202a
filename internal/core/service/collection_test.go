package service

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/notastartupanymore/companywatch/internal/core/domain"
	"github.com/notastartupanymore/companywatch/internal/core/ports"
)

// fakeServer keeps the server-side sets and answers like the real endpoints.
type fakeServer struct {
	mu            sync.Mutex
	subscriptions []string
	filters       []string
	filterCalls   [][]string
}

func (s *fakeServer) install(api *stubAPI) {
	api.subscriptionFn = func(_ context.Context, _ string, item string, action ports.SubscriptionAction) (*domain.Profile, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.subscriptions = apply(s.subscriptions, item, action)
		return s.profile(), nil
	}
	api.filtersFn = func(_ context.Context, _ string, filters []string) (*domain.Profile, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.filterCalls = append(s.filterCalls, slices.Clone(filters))
		s.filters = slices.Clone(filters)
		return s.profile(), nil
	}
	api.meFn = func(context.Context, string) (*domain.Profile, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.profile(), nil
	}
}

func (s *fakeServer) profile() *domain.Profile {
	return &domain.Profile{
		Username:      "alice",
		Subscriptions: slices.Clone(s.subscriptions),
		Filters:       slices.Clone(s.filters),
	}
}

func TestCollection_AddIsIdempotent(t *testing.T) {
	f := authenticated("alice")
	srv := &fakeServer{}
	srv.install(f.api)
	subs := NewSubscriptions(f.session, f.api, &inlineQueue{}, zerolog.Nop())

	for i := 0; i < 2; i++ {
		if _, err := subs.Add(context.Background(), "Acme"); err != nil {
			t.Fatalf("Add returned error: %v", err)
		}
	}
	if got := subs.Items(); !slices.Equal(got, []string{"Acme"}) {
		t.Fatalf("unexpected items: %v", got)
	}
}

func TestCollection_ToggleTwiceRestoresMembership(t *testing.T) {
	for _, build := range []func(*fixture) *Collection{
		func(f *fixture) *Collection { return NewSubscriptions(f.session, f.api, &inlineQueue{}, zerolog.Nop()) },
		func(f *fixture) *Collection { return NewFilters(f.session, f.api, &inlineQueue{}, zerolog.Nop()) },
	} {
		f := authenticated("alice")
		srv := &fakeServer{subscriptions: []string{"Acme"}, filters: []string{"Acme"}}
		srv.install(f.api)
		c := build(f)
		c.Load(srv.profile())
		before := c.Items()

		for _, item := range []string{"Globex", "Globex", "Acme", "Acme"} {
			if _, err := c.Toggle(context.Background(), item); err != nil {
				t.Fatalf("%s: Toggle returned error: %v", c.Name(), err)
			}
		}
		if got := c.Items(); !slices.Equal(got, before) {
			t.Fatalf("%s: expected %v after paired toggles, got %v", c.Name(), before, got)
		}
	}
}

func TestCollection_FilterToggleSendsWholeSet(t *testing.T) {
	f := authenticated("alice")
	srv := &fakeServer{filters: []string{"creation", "growth"}}
	srv.install(f.api)
	filters := NewFilters(f.session, f.api, &inlineQueue{}, zerolog.Nop())
	filters.Load(srv.profile())

	if _, err := filters.Toggle(context.Background(), "relocation"); err != nil {
		t.Fatalf("Toggle returned error: %v", err)
	}
	if _, err := filters.Toggle(context.Background(), "creation"); err != nil {
		t.Fatalf("Toggle returned error: %v", err)
	}

	want := [][]string{
		{"creation", "growth", "relocation"},
		{"growth", "relocation"},
	}
	if len(srv.filterCalls) != len(want) {
		t.Fatalf("expected %d calls, got %d", len(want), len(srv.filterCalls))
	}
	for i := range want {
		if !slices.Equal(srv.filterCalls[i], want[i]) {
			t.Fatalf("call %d: expected payload %v, got %v", i, want[i], srv.filterCalls[i])
		}
	}
}

func TestCollection_SubscriptionSendsSingleItem(t *testing.T) {
	f := authenticated("alice")
	var gotItem string
	var gotAction ports.SubscriptionAction
	f.api.subscriptionFn = func(_ context.Context, _ string, item string, action ports.SubscriptionAction) (*domain.Profile, error) {
		gotItem, gotAction = item, action
		return nil, nil
	}
	subs := NewSubscriptions(f.session, f.api, &inlineQueue{}, zerolog.Nop())
	subs.Load(&domain.Profile{Subscriptions: []string{"Acme"}})

	items, err := subs.Toggle(context.Background(), "Acme")
	if err != nil {
		t.Fatalf("Toggle returned error: %v", err)
	}
	if gotItem != "Acme" || gotAction != ports.ActionRemove {
		t.Fatalf("unexpected mutation %q %q", gotItem, gotAction)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty set, got %v", items)
	}
}

func TestCollection_UnauthorizedLeavesSetAndRedirects(t *testing.T) {
	f := authenticated("alice")
	f.api.subscriptionFn = func(context.Context, string, string, ports.SubscriptionAction) (*domain.Profile, error) {
		return nil, domain.ErrAuthExpired
	}
	subs := NewSubscriptions(f.session, f.api, &inlineQueue{}, zerolog.Nop())
	subs.Load(&domain.Profile{Subscriptions: []string{"Acme"}})

	_, err := subs.Add(context.Background(), "Globex")
	if !errors.Is(err, domain.ErrAuthExpired) {
		t.Fatalf("expected ErrAuthExpired, got %v", err)
	}
	if got := subs.Items(); !slices.Equal(got, []string{"Acme"}) {
		t.Fatalf("set must be unchanged, got %v", got)
	}
	if f.nav.count() != 1 || f.nav.redirects[0].cause != domain.CauseUnauthorized {
		t.Fatalf("expected one expiry redirect, got %+v", f.nav.redirects)
	}
	if f.session.Session().State != domain.SessionAnonymous || f.store.token != "" {
		t.Fatalf("session must be reset")
	}
}

func TestCollection_FailedFilterRollsBackOptimisticUpdate(t *testing.T) {
	f := authenticated("alice")
	f.api.filtersFn = func(context.Context, string, []string) (*domain.Profile, error) {
		return nil, &domain.ServerError{Status: http.StatusInternalServerError, Detail: "boom"}
	}
	filters := NewFilters(f.session, f.api, &inlineQueue{}, zerolog.Nop())
	filters.Load(&domain.Profile{Filters: []string{"growth"}})

	_, err := filters.Toggle(context.Background(), "creation")
	var se *domain.ServerError
	if !errors.As(err, &se) || se.Detail != "boom" {
		t.Fatalf("expected server detail, got %v", err)
	}
	if got := filters.Items(); !slices.Equal(got, []string{"growth"}) {
		t.Fatalf("optimistic update must be rolled back, got %v", got)
	}
	if f.nav.count() != 0 {
		t.Fatalf("server rejection must not redirect")
	}
}

func TestCollection_WithoutTokenAborts(t *testing.T) {
	f := newFixture("")
	f.api.subscriptionFn = func(context.Context, string, string, ports.SubscriptionAction) (*domain.Profile, error) {
		t.Fatalf("no request may be sent without a token")
		return nil, nil
	}
	subs := NewSubscriptions(f.session, f.api, &inlineQueue{}, zerolog.Nop())

	if _, err := subs.Add(context.Background(), "Acme"); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
	if len(subs.Items()) != 0 || f.nav.count() != 1 {
		t.Fatalf("expected no mutation and one redirect")
	}
}

func TestCollection_ConcurrentTogglesAreSerialised(t *testing.T) {
	f := authenticated("alice")
	srv := &fakeServer{}
	srv.install(f.api)
	filters := NewFilters(f.session, f.api, &inlineQueue{}, zerolog.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := filters.Toggle(context.Background(), "creation"); err != nil {
				t.Errorf("Toggle returned error: %v", err)
			}
		}()
	}
	wg.Wait()

	if len(filters.Items()) != 0 {
		t.Fatalf("an even number of toggles must end empty, got %v", filters.Items())
	}
	if len(srv.filters) != 0 || len(srv.filterCalls) != 10 {
		t.Fatalf("server state diverged: %v after %d calls", srv.filters, len(srv.filterCalls))
	}
}

func TestCollection_RejectsBlankItem(t *testing.T) {
	f := authenticated("alice")
	subs := NewSubscriptions(f.session, f.api, &inlineQueue{}, zerolog.Nop())
	if _, err := subs.Add(context.Background(), "  "); !errors.Is(err, domain.ErrValidationFailure) {
		t.Fatalf("expected validation failure, got %v", err)
	}
}

func TestCollection_Refresh(t *testing.T) {
	f := authenticated("alice")
	srv := &fakeServer{subscriptions: []string{"Acme", "Globex"}}
	srv.install(f.api)
	subs := NewSubscriptions(f.session, f.api, &inlineQueue{}, zerolog.Nop())

	items, err := subs.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if !slices.Equal(items, []string{"Acme", "Globex"}) || !subs.Contains("Globex") {
		t.Fatalf("unexpected items: %v", items)
	}
}

func TestCollection_FirstMutationLoadsServerSet(t *testing.T) {
	f := authenticated("alice")
	srv := &fakeServer{filters: []string{"growth"}}
	srv.install(f.api)
	filters := NewFilters(f.session, f.api, &inlineQueue{}, zerolog.Nop())

	// Without the initial load the toggle would replace the server set with
	// just the new item.
	if _, err := filters.Toggle(context.Background(), "creation"); err != nil {
		t.Fatalf("Toggle returned error: %v", err)
	}
	if !slices.Equal(srv.filters, []string{"growth", "creation"}) {
		t.Fatalf("server set lost entries: %v", srv.filters)
	}
}

func TestCollection_OnlyFilterToggleIsOptimistic(t *testing.T) {
	cases := []struct {
		name       string
		op         func(*Collection, context.Context, string) ([]string, error)
		item       string
		wantDuring []string
	}{
		{"toggle", (*Collection).Toggle, "creation", []string{"growth", "creation"}},
		{"add", (*Collection).Add, "creation", []string{"growth"}},
		{"remove", (*Collection).Remove, "growth", []string{"growth"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := authenticated("alice")
			var filters *Collection
			var during []string
			f.api.filtersFn = func(context.Context, string, []string) (*domain.Profile, error) {
				during = filters.Items()
				return nil, &domain.ServerError{Status: http.StatusInternalServerError}
			}
			filters = NewFilters(f.session, f.api, &inlineQueue{}, zerolog.Nop())
			filters.Load(&domain.Profile{Filters: []string{"growth"}})

			if _, err := tc.op(filters, context.Background(), tc.item); err == nil {
				t.Fatalf("expected the server failure")
			}
			if !slices.Equal(during, tc.wantDuring) {
				t.Fatalf("local set while in flight: got %v, want %v", during, tc.wantDuring)
			}
			if got := filters.Items(); !slices.Equal(got, []string{"growth"}) {
				t.Fatalf("set must end unchanged, got %v", got)
			}
		})
	}
}

var errQueueStopped = errors.New("queue stopped")

// stoppingQueue gives up on the caller while the job is still running, the
// way a queue shutting down does.
type stoppingQueue struct {
	release chan struct{}
	done    chan struct{}
}

func (q *stoppingQueue) Do(ctx context.Context, _ string, fn func(ctx context.Context) error) error {
	go func() {
		defer close(q.done)
		<-q.release
		_ = fn(ctx)
	}()
	return errQueueStopped
}

func TestCollection_StoppedQueueDoesNotShareJobState(t *testing.T) {
	f := authenticated("alice")
	srv := &fakeServer{}
	srv.install(f.api)
	q := &stoppingQueue{release: make(chan struct{}), done: make(chan struct{})}
	filters := NewFilters(f.session, f.api, q, zerolog.Nop())
	filters.Load(srv.profile())

	// the job runs concurrently with the error path of Toggle
	close(q.release)
	_, err := filters.Toggle(context.Background(), "creation")
	<-q.done

	if !errors.Is(err, errQueueStopped) {
		t.Fatalf("expected the queue error, got %v", err)
	}
	if err.Error() != "filters toggle: queue stopped" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
