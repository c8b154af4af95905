package app

import (
	"context"
	"sort"
	"sync"

	"github.com/odyssey-erp/odyssey-users/internal/roles"
	"github.com/odyssey-erp/odyssey-users/internal/shared"
	"github.com/odyssey-erp/odyssey-users/internal/users"
)

type memoryRoles struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]roles.Role
}

func newMemoryRoles(seed ...roles.Role) *memoryRoles {
	m := &memoryRoles{rows: make(map[int64]roles.Role)}
	for _, r := range seed {
		m.rows[r.ID] = r
		if r.ID > m.nextID {
			m.nextID = r.ID
		}
	}
	return m
}

func (m *memoryRoles) WithTx(ctx context.Context, fn func(context.Context, roles.RepositoryPort) error) error {
	return fn(ctx, m)
}

func (m *memoryRoles) Find(_ context.Context, id int64) (*roles.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &r, nil
}

func (m *memoryRoles) FindOneByName(_ context.Context, name string) (*roles.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.Name == name {
			return &r, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *memoryRoles) FindByStatus(_ context.Context, active bool) ([]roles.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []roles.Role{}
	for _, r := range m.rows {
		if r.Active == active {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryRoles) Insert(_ context.Context, role *roles.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	role.ID = m.nextID
	m.rows[role.ID] = *role
	return nil
}

func (m *memoryRoles) Update(_ context.Context, role roles.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[role.ID]; !ok {
		return shared.ErrNotFound
	}
	m.rows[role.ID] = role
	return nil
}

func (m *memoryRoles) Remove(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

type memoryUsers struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]users.User
}

func newMemoryUsers(seed ...users.User) *memoryUsers {
	m := &memoryUsers{rows: make(map[int64]users.User)}
	for _, u := range seed {
		m.rows[u.ID] = u
		if u.ID > m.nextID {
			m.nextID = u.ID
		}
	}
	return m
}

func (m *memoryUsers) Get(_ context.Context, id int64) (*users.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &u, nil
}

func (m *memoryUsers) FindByEmail(_ context.Context, email string) (*users.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.rows {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *memoryUsers) FindByRole(_ context.Context, role string) ([]users.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []users.User{}
	for _, u := range m.rows {
		if u.Role == role {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryUsers) CountByRole(ctx context.Context, role string) (int, error) {
	list, err := m.FindByRole(ctx, role)
	return len(list), err
}

func (m *memoryUsers) Create(_ context.Context, user users.User) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	user.ID = m.nextID
	m.rows[user.ID] = user
	return user.ID, nil
}

func (m *memoryUsers) Update(_ context.Context, user users.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[user.ID]; !ok {
		return shared.ErrNotFound
	}
	m.rows[user.ID] = user
	return nil
}

func (m *memoryUsers) Deactivate(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[id]
	if !ok {
		return shared.ErrNotFound
	}
	u.IsActive = false
	m.rows[id] = u
	return nil
}
