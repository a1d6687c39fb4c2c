package router

import (
	"context"
	"sort"
	"sync"

	"github.com/oksasatya/jsonplaceholder-api/internal/domain/entity"
	repo "github.com/oksasatya/jsonplaceholder-api/internal/domain/repository"
)

type memCredentials struct {
	mu   sync.Mutex
	rows []entity.Credential
}

func (m *memCredentials) Create(_ context.Context, c *entity.Credential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.Email == c.Email {
			return &repo.DuplicateError{Field: "email"}
		}
	}
	c.ID = int64(len(m.rows) + 1)
	m.rows = append(m.rows, *c)
	return nil
}

func (m *memCredentials) GetByID(_ context.Context, id int64) (*entity.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.ID == id {
			r := r
			return &r, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *memCredentials) GetByEmail(_ context.Context, email string) (*entity.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.Email == email {
			r := r
			return &r, nil
		}
	}
	return nil, repo.ErrNotFound
}

// memUsers keeps deep copies so callers never share nested pointers with it.
type memUsers struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]entity.User
}

func newMemUsers() *memUsers {
	return &memUsers{rows: map[int64]entity.User{}}
}

func clone(u entity.User) *entity.User {
	if u.Address != nil {
		a := *u.Address
		if a.Geo != nil {
			g := *a.Geo
			a.Geo = &g
		}
		u.Address = &a
	}
	if u.Company != nil {
		c := *u.Company
		u.Company = &c
	}
	return &u
}

func (m *memUsers) unique(u *entity.User) error {
	for id, r := range m.rows {
		if id == u.ID {
			continue
		}
		if r.Email == u.Email {
			return &repo.DuplicateError{Field: "email"}
		}
		if r.Username == u.Username {
			return &repo.DuplicateError{Field: "username"}
		}
	}
	return nil
}

func (m *memUsers) List(context.Context) ([]*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*entity.User, 0, len(m.rows))
	for _, r := range m.rows {
		out = append(out, clone(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memUsers) GetByID(_ context.Context, id int64) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return clone(r), nil
}

func (m *memUsers) Create(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.unique(u); err != nil {
		return err
	}
	m.nextID++
	u.ID = m.nextID
	if u.Address != nil {
		u.Address.ID = u.ID
		u.Address.Geo.ID = u.ID
	}
	if u.Company != nil {
		u.Company.ID = u.ID
	}
	m.rows[u.ID] = *clone(*u)
	return nil
}

func (m *memUsers) Update(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[u.ID]; !ok {
		return repo.ErrNotFound
	}
	if err := m.unique(u); err != nil {
		return err
	}
	m.rows[u.ID] = *clone(*u)
	return nil
}

func (m *memUsers) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return repo.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memUsers) Count(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.rows)), nil
}
