package repo

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

var ErrDuplicate = errors.New("login or email already registered")

type memoryUser struct {
	id                     int
	login, email, password string
}

// MemoryRepository keeps users and calculations in process memory. It backs
// accounts when no database is configured; data is lost on restart.
type MemoryRepository struct {
	mu     sync.Mutex
	users  []memoryUser
	calcs  []Calculation
	nextID int
	now    func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{now: time.Now}
}

func (m *MemoryRepository) CreateUser(ctx context.Context, login, email, password string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.login == login || u.email == email {
			return 0, ErrDuplicate
		}
	}
	m.nextID++
	m.users = append(m.users, memoryUser{id: m.nextID, login: login, email: email, password: password})
	return m.nextID, nil
}

func (m *MemoryRepository) GetBylogin(ctx context.Context, login string) (int, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.login == login {
			return u.id, u.password, nil
		}
	}
	return 0, "", ErrNotFound
}

func (m *MemoryRepository) SaveCalculation(ctx context.Context, c Calculation) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	c.ID = m.nextID
	c.CreatedAt = m.now()
	m.calcs = append(m.calcs, c)
	return c.ID, nil
}

func (m *MemoryRepository) ListCalculations(ctx context.Context, userID, limit int) ([]Calculation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Calculation
	for _, c := range m.calcs {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryRepository) GetCalculation(ctx context.Context, userID, id int) (Calculation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.calcs {
		if c.ID == id && c.UserID == userID {
			return c, nil
		}
	}
	return Calculation{}, ErrNotFound
}
