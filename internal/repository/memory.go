package repository

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/RoGogDBD/inventory/internal/models"
	"github.com/RoGogDBD/inventory/internal/query"
)

// MemStorage хранит позиции и пользователей в памяти процесса.
// Используется, когда DSN не задан, и в тестах.
type MemStorage struct {
	mu     sync.RWMutex
	items  map[string]models.Item
	order  []string
	users  map[string]models.User
	emails map[string]string
	now    func() time.Time
}

func NewMemStorage() *MemStorage {
	return &MemStorage{
		items:  make(map[string]models.Item),
		users:  make(map[string]models.User),
		emails: make(map[string]string),
		now:    time.Now,
	}
}

func (s *MemStorage) Ping(context.Context) error { return nil }

func (s *MemStorage) Create(_ context.Context, in models.ItemInput) (*models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	item := models.Item{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now}
	in.Apply(&item)

	s.items[item.ID] = item
	s.order = append(s.order, item.ID)
	return &item, nil
}

func (s *MemStorage) GetByID(_ context.Context, id string) (*models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return nil, models.ErrItemNotFound
	}
	return &item, nil
}

func (s *MemStorage) Update(_ context.Context, id string, in models.ItemInput) (*models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return nil, models.ErrItemNotFound
	}
	in.Apply(&item)
	if now := s.now().UTC(); now.After(item.UpdatedAt) {
		item.UpdatedAt = now
	}
	s.items[id] = item
	return &item, nil
}

func (s *MemStorage) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return models.ErrItemNotFound
	}
	delete(s.items, id)
	s.order = slices.DeleteFunc(s.order, func(v string) bool { return v == id })
	return nil
}

func (s *MemStorage) List(_ context.Context, q query.ListQuery) ([]models.Item, int, error) {
	s.mu.RLock()
	matched := make([]models.Item, 0, len(s.order))
	for _, id := range s.order {
		if it := s.items[id]; q.Filter.Match(it) {
			matched = append(matched, it)
		}
	}
	s.mu.RUnlock()

	slices.SortStableFunc(matched, func(a, b models.Item) int {
		switch {
		case q.Sort.Less(a, b):
			return -1
		case q.Sort.Less(b, a):
			return 1
		default:
			return 0
		}
	})

	lo, hi := q.Page.Bounds(len(matched))
	return slices.Clone(matched[lo:hi]), len(matched), nil
}

func (s *MemStorage) All(context.Context) ([]models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Item, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id])
	}
	return out, nil
}

func (s *MemStorage) LowStock(ctx context.Context, threshold int) ([]models.Item, error) {
	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	return query.SelectLowStock(all, threshold), nil
}

func (s *MemStorage) CreateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := models.NormalizeEmail(u.Email)
	if _, taken := s.emails[email]; taken {
		return models.ErrEmailTaken
	}
	u.Email = email
	u.CreatedAt = s.now().UTC()
	s.users[u.ID] = *u
	s.emails[email] = u.ID
	return nil
}

func (s *MemStorage) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.emails[models.NormalizeEmail(email)]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	u := s.users[id]
	return &u, nil
}

func (s *MemStorage) GetUserByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	return &u, nil
}

// Len возвращает число позиций.
func (s *MemStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
