package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"store-api/internal/domain"
	"store-api/internal/repository"
)

type memUsers struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]domain.User
	err    error // returned by every call when set
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[int64]domain.User{}}
}

func (m *memUsers) Create(_ context.Context, user *domain.User) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	for _, u := range m.byID {
		if u.Email == user.Email {
			return 0, fmt.Errorf("insert user: %w", repository.ErrDuplicate)
		}
	}
	m.nextID++
	user.ID = m.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.byID[user.ID] = *user
	return user.ID, nil
}

func (m *memUsers) Update(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	cur, ok := m.byID[user.ID]
	if !ok {
		return repository.ErrNotFound
	}
	for id, u := range m.byID {
		if id != user.ID && u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	cur.Name, cur.Email = user.Name, user.Email
	m.byID[user.ID] = cur
	return nil
}

func (m *memUsers) UpdatePassword(_ context.Context, id int64, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	cur, ok := m.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	cur.PasswordHash = hash
	m.byID[id] = cur
	return nil
}

func (m *memUsers) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.byID {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("scan user: %w", repository.ErrNotFound)
}

func (m *memUsers) GetByID(_ context.Context, id int64) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (m *memUsers) List(_ context.Context, s domain.UserSort) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	users := make([]domain.User, 0, len(m.byID))
	for _, u := range m.byID {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		if s == domain.UserSortEmail {
			return users[i].Email < users[j].Email
		}
		return users[i].Name < users[j].Name
	})
	return users, nil
}

type memCategories struct {
	byID map[int64]domain.Category
}

func (m *memCategories) Create(_ context.Context, c *domain.Category) (int64, error) {
	c.ID = int64(len(m.byID) + 1)
	m.byID[c.ID] = *c
	return c.ID, nil
}

func (m *memCategories) Get(_ context.Context, id int64) (*domain.Category, error) {
	c, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (m *memCategories) List(_ context.Context) ([]domain.Category, error) {
	var out []domain.Category
	for _, c := range m.byID {
		out = append(out, c)
	}
	return out, nil
}

type memProducts struct {
	nextID int64
	byID   map[int64]domain.Product
}

func (m *memProducts) Create(_ context.Context, p *domain.Product) (int64, error) {
	m.nextID++
	p.ID = m.nextID
	m.byID[p.ID] = *p
	return p.ID, nil
}

func (m *memProducts) Update(_ context.Context, p *domain.Product) error {
	if _, ok := m.byID[p.ID]; !ok {
		return repository.ErrNotFound
	}
	m.byID[p.ID] = *p
	return nil
}

func (m *memProducts) SetImageKey(_ context.Context, id int64, key string) error {
	p, ok := m.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.ImageKey = key
	m.byID[id] = p
	return nil
}

func (m *memProducts) Delete(_ context.Context, id int64) error {
	if _, ok := m.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memProducts) Get(_ context.Context, id int64) (*domain.Product, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (m *memProducts) List(_ context.Context) ([]domain.Product, error) {
	var out []domain.Product
	for id := int64(1); id <= m.nextID; id++ {
		if p, ok := m.byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memProducts) ListByCategory(ctx context.Context, categoryID int64) ([]domain.Product, error) {
	all, _ := m.List(ctx)
	var out []domain.Product
	for _, p := range all {
		if p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	return out, nil
}

type memStorage struct {
	objects  map[string]string
	prefixes []string
}

func (m *memStorage) Put(_ context.Context, key, _ string, body io.Reader) error {
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.objects[key] = string(b)
	return nil
}

func (m *memStorage) Delete(_ context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func (m *memStorage) DeletePrefix(_ context.Context, prefix string) error {
	m.prefixes = append(m.prefixes, prefix)
	for k := range m.objects {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			delete(m.objects, k)
		}
	}
	return nil
}

func (m *memStorage) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://example.test/" + key, nil
}
