package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/notastartupanymore/companywatch/internal/core/domain"
	"github.com/notastartupanymore/companywatch/internal/core/ports"
)

const (
	SubscriptionsCollection = "subscriptions"
	FiltersCollection       = "filters"
)

// pushFunc sends one confirmed mutation to the server. next is the full
// set that results from applying action to item.
type pushFunc func(ctx context.Context, token, item string, action ports.SubscriptionAction, next []string) (*domain.Profile, error)

// Collection is a server-synchronised set of keys with insertion order.
// Mutations go through the mutation queue under the collection name, so
// two toggles on the same set never race.
type Collection struct {
	name       string
	session    ports.SessionService
	api        ports.RemoteAPI
	queue      ports.MutationQueue
	log        zerolog.Logger
	push       pushFunc
	pick       func(*domain.Profile) []string
	optimistic bool

	mu        sync.RWMutex
	items     []string
	loadedFor string
}

// NewSubscriptions returns the subscription collection. Each mutation sends
// a single item with an add or remove action.
func NewSubscriptions(session ports.SessionService, api ports.RemoteAPI, queue ports.MutationQueue, log zerolog.Logger) *Collection {
	return &Collection{
		name:    SubscriptionsCollection,
		session: session,
		api:     api,
		queue:   queue,
		log:     log.With().Str("collection", SubscriptionsCollection).Logger(),
		push: func(ctx context.Context, token, item string, action ports.SubscriptionAction, _ []string) (*domain.Profile, error) {
			return api.UpdateSubscription(ctx, token, item, action)
		},
		pick: func(p *domain.Profile) []string { return p.Subscriptions },
	}
}

// NewFilters returns the filter collection. Every mutation replaces the
// whole server-side set with the resulting membership; toggles update the
// local set optimistically until the server answers.
func NewFilters(session ports.SessionService, api ports.RemoteAPI, queue ports.MutationQueue, log zerolog.Logger) *Collection {
	return &Collection{
		name:    FiltersCollection,
		session: session,
		api:     api,
		queue:   queue,
		log:     log.With().Str("collection", FiltersCollection).Logger(),
		push: func(ctx context.Context, token, _ string, _ ports.SubscriptionAction, next []string) (*domain.Profile, error) {
			return api.ReplaceFilters(ctx, token, next)
		},
		pick:       func(p *domain.Profile) []string { return p.Filters },
		optimistic: true,
	}
}

func (c *Collection) Name() string { return c.name }

// Items returns a copy of the set in insertion order.
func (c *Collection) Items() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.items)
}

func (c *Collection) Contains(item string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Contains(c.items, item)
}

// Load replaces the local set with the one carried by profile and marks it
// as loaded for the current session user.
func (c *Collection) Load(profile *domain.Profile) {
	if profile == nil {
		return
	}
	owner := c.session.Session().Username
	c.set(c.pick(profile))
	c.mu.Lock()
	c.loadedFor = owner
	c.mu.Unlock()
}

// Ensure loads the set from the server unless it is already loaded for the
// current session user.
func (c *Collection) Ensure(ctx context.Context) error {
	err := withToken(ctx, c.session, func(token string) error {
		return c.ensureLoaded(ctx, token)
	})
	if err != nil {
		return fmt.Errorf("load %s: %w", c.name, err)
	}
	return nil
}

func (c *Collection) ensureLoaded(ctx context.Context, token string) error {
	owner := c.session.Session().Username
	c.mu.RLock()
	loaded := owner != "" && c.loadedFor == owner
	c.mu.RUnlock()
	if loaded {
		return nil
	}
	profile, err := c.api.Me(ctx, token)
	if err != nil {
		return err
	}
	c.Load(profile)
	return nil
}

// Refresh reloads the authoritative set from the profile endpoint.
func (c *Collection) Refresh(ctx context.Context) ([]string, error) {
	err := withToken(ctx, c.session, func(token string) error {
		profile, err := c.api.Me(ctx, token)
		if err != nil {
			return err
		}
		c.Load(profile)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("refresh %s: %w", c.name, err)
	}
	return c.Items(), nil
}

func (c *Collection) Add(ctx context.Context, item string) ([]string, error) {
	return c.mutate(ctx, "add", item, false, func(bool) ports.SubscriptionAction { return ports.ActionAdd })
}

func (c *Collection) Remove(ctx context.Context, item string) ([]string, error) {
	return c.mutate(ctx, "remove", item, false, func(bool) ports.SubscriptionAction { return ports.ActionRemove })
}

// Toggle adds item when absent and removes it when present. Membership is
// read when the mutation reaches the head of the queue, not when Toggle is
// called. On the filter collection the local set flips before the server
// answers and flips back if the round trip fails.
func (c *Collection) Toggle(ctx context.Context, item string) ([]string, error) {
	return c.mutate(ctx, "toggle", item, c.optimistic, func(present bool) ports.SubscriptionAction {
		if present {
			return ports.ActionRemove
		}
		return ports.ActionAdd
	})
}

// mutate runs one change on the queue. Only the job touches action and the
// log lines about it; the caller reads result once the queue reports success.
func (c *Collection) mutate(ctx context.Context, verb, item string, optimistic bool, choose func(present bool) ports.SubscriptionAction) ([]string, error) {
	item = strings.TrimSpace(item)
	if item == "" {
		return nil, domain.NewValidationError("missing_item", "%s item is required", c.name)
	}

	var result []string
	err := c.queue.Do(ctx, c.name, func(ctx context.Context) error {
		return withToken(ctx, c.session, func(token string) error {
			if err := c.ensureLoaded(ctx, token); err != nil {
				return err
			}
			current := c.Items()
			action := choose(slices.Contains(current, item))
			next := apply(current, item, action)

			if optimistic {
				c.set(next)
			}
			profile, err := c.push(ctx, token, item, action, next)
			if err != nil {
				if optimistic {
					c.set(current)
				}
				c.log.Warn().Err(err).Str("item", item).Str("action", string(action)).Msg("mutation failed")
				return err
			}

			if profile != nil {
				c.Load(profile)
			} else {
				c.set(next)
			}
			result = c.Items()
			c.log.Info().Str("item", item).Str("action", string(action)).Int("size", len(result)).Msg("mutation confirmed")
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", c.name, verb, err)
	}
	return result, nil
}

func (c *Collection) set(items []string) {
	deduped := make([]string, 0, len(items))
	for _, it := range items {
		if !slices.Contains(deduped, it) {
			deduped = append(deduped, it)
		}
	}
	c.mu.Lock()
	c.items = deduped
	c.mu.Unlock()
}

// apply returns a new slice with action applied to item.
func apply(items []string, item string, action ports.SubscriptionAction) []string {
	switch action {
	case ports.ActionAdd:
		if slices.Contains(items, item) {
			return slices.Clone(items)
		}
		return append(slices.Clone(items), item)
	case ports.ActionRemove:
		return slices.DeleteFunc(slices.Clone(items), func(s string) bool { return s == item })
	default:
		return slices.Clone(items)
	}
}
