// Package orderstore holds the client side copy of the shared list and
// applies mutations optimistically, reverting them when the API refuses.
package orderstore

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dejobratic/sharedorders/internal/orders/domain"
	"github.com/dejobratic/sharedorders/internal/orders/grouping"
	"github.com/dejobratic/sharedorders/internal/orders/ports"
)

// TempIDPrefix marks items that exist only locally until the next reload.
const TempIDPrefix = "temp-"

// OrderService is the remote side of the store.
type OrderService interface {
	FetchOrders(ctx context.Context) ([]domain.OrderItem, error)
	CreateOrder(ctx context.Context, input domain.NewOrder) (*domain.OrderItem, error)
	CompleteOrder(ctx context.Context, id string) (*domain.OrderItem, error)
	DeleteOrder(ctx context.Context, id string) (*domain.OrderItem, error)
}

// Store owns the in-memory list, the expanded group flags and the grouping
// mode. Operations run one at a time; readers may observe the optimistic
// state while an operation waits on the service.
type Store struct {
	op sync.Mutex

	mu       sync.RWMutex
	items    []domain.OrderItem
	expanded map[string]bool
	groupBy  grouping.Mode
	loading  bool

	service   OrderService
	notifier  Notifier
	now       func() time.Time
	newTempID func() string

	defaultLocations []string
	defaultProducts  []string
}

type Option func(*Store)

func WithNotifier(n Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

// WithClock sets the time source used for group labels.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithTempIDs replaces the generator for the part of temporary ids after the prefix.
func WithTempIDs(next func() string) Option {
	return func(s *Store) { s.newTempID = next }
}

// WithDefaults sets the suggestions offered before any order mentions them.
func WithDefaults(locations, products []string) Option {
	return func(s *Store) {
		s.defaultLocations = slices.Clone(locations)
		s.defaultProducts = slices.Clone(products)
	}
}

func New(service OrderService, opts ...Option) *Store {
	s := &Store{
		items:     []domain.OrderItem{},
		expanded:  map[string]bool{},
		groupBy:   grouping.ByDate,
		loading:   true,
		service:   service,
		notifier:  LogNotifier{},
		now:       time.Now,
		newTempID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the list with the server copy. On failure the current list
// is kept.
func (s *Store) Load(ctx context.Context) error {
	s.op.Lock()
	defer s.op.Unlock()
	return s.load(ctx)
}

func (s *Store) load(ctx context.Context) error {
	items, err := s.service.FetchOrders(ctx)

	s.mu.Lock()
	s.loading = false
	if err == nil {
		s.items = slices.Clone(items)
		if s.items == nil {
			s.items = []domain.OrderItem{}
		}
	}
	s.mu.Unlock()

	if err != nil {
		s.notifier.Failure(noticeLoadFailed, err)
		return fmt.Errorf("load orders: %w", err)
	}
	return nil
}

// AddOrder shows a temporary item at the top of the list and expands its
// group, then creates the order remotely. Success reloads the whole list;
// failure retracts the temporary item.
func (s *Store) AddOrder(ctx context.Context, content string, orderDate time.Time, location, product string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("%w: content is required", ports.ErrInvalidInput)
	}

	s.op.Lock()
	defer s.op.Unlock()

	input := domain.NewOrder{Content: content, Location: location, Product: product}
	shownDate := orderDate
	if orderDate.IsZero() {
		shownDate = s.now()
	} else {
		input.OrderDate = &orderDate
	}

	tempID := TempIDPrefix + s.newTempID()
	temp := domain.OrderItem{
		ID:        tempID,
		Content:   content,
		OrderDate: shownDate,
		Location:  location,
		Product:   product,
	}

	s.mu.Lock()
	s.items = append([]domain.OrderItem{temp}, s.items...)
	s.expanded[grouping.Label(temp, s.groupBy, s.now())] = true
	s.mu.Unlock()

	if _, err := s.service.CreateOrder(ctx, input); err != nil {
		s.mu.Lock()
		s.items = slices.DeleteFunc(s.items, func(item domain.OrderItem) bool {
			return item.ID == tempID
		})
		s.mu.Unlock()

		s.notifier.Failure(noticeAddFailed, err)
		return fmt.Errorf("add order: %w", err)
	}

	s.notifier.Success(noticeAdded)
	// A failed reload is already reported and leaves the temporary item shown.
	_ = s.load(ctx)
	return nil
}

// CheckOrder marks the item completed and restores the exact previous list
// if the service refuses.
func (s *Store) CheckOrder(ctx context.Context, id string) error {
	s.op.Lock()
	defer s.op.Unlock()

	snapshot := s.mutate(func(items []domain.OrderItem) []domain.OrderItem {
		for i := range items {
			if items[i].ID == id {
				items[i].Completed = true
			}
		}
		return items
	})

	if _, err := s.service.CompleteOrder(ctx, id); err != nil {
		s.restore(snapshot)
		s.notifier.Failure(noticeUpdateFailed, err)
		return fmt.Errorf("complete order %s: %w", id, err)
	}

	s.notifier.Success(noticeCompleted)
	return nil
}

// RemoveOrder drops the item locally and flags it deleted remotely.
func (s *Store) RemoveOrder(ctx context.Context, id string) error {
	s.op.Lock()
	defer s.op.Unlock()

	snapshot := s.mutate(func(items []domain.OrderItem) []domain.OrderItem {
		return slices.DeleteFunc(items, func(item domain.OrderItem) bool {
			return item.ID == id
		})
	})

	if _, err := s.service.DeleteOrder(ctx, id); err != nil {
		s.restore(snapshot)
		s.notifier.Failure(noticeRemoveFailed, err)
		return fmt.Errorf("remove order %s: %w", id, err)
	}

	s.notifier.Success(noticeRemoved)
	return nil
}

// mutate applies fn to a copy of the list and returns the list it replaced.
func (s *Store) mutate(fn func([]domain.OrderItem) []domain.OrderItem) []domain.OrderItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.items
	s.items = fn(slices.Clone(snapshot))
	return snapshot
}

func (s *Store) restore(snapshot []domain.OrderItem) {
	s.mu.Lock()
	s.items = snapshot
	s.mu.Unlock()
}

func (s *Store) ToggleGroup(label string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expanded[label] = !s.expanded[label]
}

// SetGroupBy switches the grouping axis. Changing the axis collapses every group.
func (s *Store) SetGroupBy(mode grouping.Mode) error {
	if mode != grouping.ByDate && mode != grouping.ByLocation {
		return fmt.Errorf("%w: unknown group mode %q", ports.ErrInvalidInput, mode)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if mode != s.groupBy {
		s.groupBy = mode
		s.expanded = map[string]bool{}
	}
	return nil
}

func (s *Store) GroupBy() grouping.Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.groupBy
}

func (s *Store) Expanded(label string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expanded[label]
}

func (s *Store) ExpandedGroups() map[string]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]bool, len(s.expanded))
	for label, open := range s.expanded {
		if open {
			out[label] = true
		}
	}
	return out
}

// Loading reports whether the first Load is still outstanding.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Items returns a copy of the list in its local order.
func (s *Store) Items() []domain.OrderItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items)
}

// Groups returns the list grouped under the active mode.
func (s *Store) Groups() []grouping.Group {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return grouping.GroupAndSort(s.items, s.groupBy, s.now())
}

// AvailableLocations lists the default locations followed by every other
// location used in the list, without duplicates.
func (s *Store) AvailableLocations() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return suggestions(s.defaultLocations, s.items, func(item domain.OrderItem) string { return item.Location })
}

// AvailableProducts lists the default products followed by every other
// product used in the list, without duplicates.
func (s *Store) AvailableProducts() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return suggestions(s.defaultProducts, s.items, func(item domain.OrderItem) string { return item.Product })
}

func suggestions(defaults []string, items []domain.OrderItem, field func(domain.OrderItem) string) []string {
	seen := make(map[string]bool, len(defaults)+len(items))
	out := make([]string, 0, len(defaults)+len(items))

	add := func(v string) {
		if strings.TrimSpace(v) == "" || seen[v] {
			return
		}
		seen[v] = true
		out = append(out, v)
	}

	for _, v := range defaults {
		add(v)
	}
	for _, item := range items {
		add(field(item))
	}
	return out
}
