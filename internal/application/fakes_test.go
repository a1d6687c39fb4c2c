package application

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/oksasatya/jsonplaceholder-api/internal/domain/entity"
	repo "github.com/oksasatya/jsonplaceholder-api/internal/domain/repository"
	"github.com/oksasatya/jsonplaceholder-api/pkg/mailer"
)

// memCredentials is an in-memory CredentialRepository.
type memCredentials struct {
	mu        sync.Mutex
	nextID    int64
	byID      map[int64]entity.Credential
	err       error
	createErr error // fails Create only
}

func newMemCredentials() *memCredentials {
	return &memCredentials{byID: map[int64]entity.Credential{}}
}

func (m *memCredentials) Create(_ context.Context, c *entity.Credential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.createErr != nil {
		return m.createErr
	}
	for _, existing := range m.byID {
		if existing.Email == c.Email {
			return &repo.DuplicateError{Field: "email"}
		}
	}
	m.nextID++
	c.ID = m.nextID
	m.byID[c.ID] = *c
	return nil
}

func (m *memCredentials) GetByID(_ context.Context, id int64) (*entity.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	c, ok := m.byID[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &c, nil
}

func (m *memCredentials) GetByEmail(_ context.Context, email string) (*entity.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, c := range m.byID {
		if c.Email == email {
			c := c
			return &c, nil
		}
	}
	return nil, repo.ErrNotFound
}

// memUsers is an in-memory UserRepository that mirrors the cascade of the
// SQL schema: nested rows live in their own maps and die with the user.
type memUsers struct {
	mu        sync.Mutex
	nextID    int64
	users     map[int64]entity.User
	addresses map[int64]entity.Address
	geos      map[int64]entity.Geo
	companies map[int64]entity.Company
	writeErr  error
}

func newMemUsers() *memUsers {
	return &memUsers{
		users:     map[int64]entity.User{},
		addresses: map[int64]entity.Address{},
		geos:      map[int64]entity.Geo{},
		companies: map[int64]entity.Company{},
	}
}

func (m *memUsers) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memUsers) checkUnique(u *entity.User) error {
	for id, other := range m.users {
		if id == u.ID {
			continue
		}
		if other.Email == u.Email {
			return &repo.DuplicateError{Field: "email"}
		}
		if other.Username == u.Username {
			return &repo.DuplicateError{Field: "username"}
		}
	}
	return nil
}

func (m *memUsers) store(u *entity.User) {
	if a := u.Address; a != nil {
		if a.ID == 0 {
			a.ID = m.id()
		}
		if a.Geo.ID == 0 {
			a.Geo.ID = m.id()
		}
		m.geos[a.Geo.ID] = *a.Geo
		flat := *a
		flat.Geo = &entity.Geo{ID: a.Geo.ID}
		m.addresses[a.ID] = flat
	}
	if c := u.Company; c != nil {
		if c.ID == 0 {
			c.ID = m.id()
		}
		m.companies[c.ID] = *c
	}
	flat := *u
	flat.Address, flat.Company = nil, nil
	if u.Address != nil {
		flat.Address = &entity.Address{ID: u.Address.ID}
	}
	if u.Company != nil {
		flat.Company = &entity.Company{ID: u.Company.ID}
	}
	m.users[u.ID] = flat
}

func (m *memUsers) load(id int64) (*entity.User, bool) {
	flat, ok := m.users[id]
	if !ok {
		return nil, false
	}
	u := flat
	if flat.Address != nil {
		a := m.addresses[flat.Address.ID]
		g := m.geos[a.Geo.ID]
		a.Geo = &g
		u.Address = &a
	}
	if flat.Company != nil {
		c := m.companies[flat.Company.ID]
		u.Company = &c
	}
	return &u, true
}

func (m *memUsers) List(context.Context) ([]*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]int64, 0, len(m.users))
	for id := range m.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]*entity.User, 0, len(ids))
	for _, id := range ids {
		u, _ := m.load(id)
		out = append(out, u)
	}
	return out, nil
}

func (m *memUsers) GetByID(_ context.Context, id int64) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.load(id)
	if !ok {
		return nil, repo.ErrNotFound
	}
	return u, nil
}

func (m *memUsers) Create(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	if err := m.checkUnique(u); err != nil {
		return err
	}
	u.ID = m.id()
	m.store(u)
	return nil
}

func (m *memUsers) Update(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; !ok {
		return repo.ErrNotFound
	}
	if m.writeErr != nil {
		return m.writeErr
	}
	if err := m.checkUnique(u); err != nil {
		return err
	}
	m.store(u)
	return nil
}

func (m *memUsers) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	flat, ok := m.users[id]
	if !ok {
		return repo.ErrNotFound
	}
	delete(m.users, id)
	if flat.Address != nil {
		a := m.addresses[flat.Address.ID]
		delete(m.addresses, a.ID)
		if a.Geo != nil {
			delete(m.geos, a.Geo.ID)
		}
	}
	if flat.Company != nil {
		delete(m.companies, flat.Company.ID)
	}
	return nil
}

func (m *memUsers) Count(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.users)), nil
}

type stubTokens struct {
	err error
}

func (s stubTokens) Issue(id int64, email string) (string, time.Time, error) {
	if s.err != nil {
		return "", time.Time{}, s.err
	}
	return "token-" + email, time.Now().Add(time.Hour), nil
}

type recordingEvents struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (r *recordingEvents) Publish(_ context.Context, ev Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return r.err
}

func (r *recordingEvents) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Type)
	}
	return out
}

type recordingMail struct {
	jobs []mailer.EmailJob
}

func (r *recordingMail) Enqueue(_ context.Context, job mailer.EmailJob) error {
	r.jobs = append(r.jobs, job)
	return nil
}

type fakeIndexer struct {
	indexed map[int64]string
	removed []int64
	hits    []map[string]any
	err     error
	lastQ   string
	lastN   int
}

func newFakeIndexer() *fakeIndexer {
	return &fakeIndexer{indexed: map[int64]string{}}
}

func (f *fakeIndexer) Index(_ context.Context, u *entity.User) error {
	if f.err != nil {
		return f.err
	}
	f.indexed[u.ID] = u.Username
	return nil
}

func (f *fakeIndexer) Remove(_ context.Context, id int64) error {
	f.removed = append(f.removed, id)
	return f.err
}

func (f *fakeIndexer) Search(_ context.Context, q string, size int) ([]map[string]any, error) {
	f.lastQ, f.lastN = q, size
	if f.err != nil {
		return nil, f.err
	}
	return f.hits, nil
}

var errBoom = errors.New("boom")
