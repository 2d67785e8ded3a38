// Package memstore holds the process-local data set behind the in-memory
// repositories. It is meant for tests and local development.
package memstore

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/tasklane/internal/server/models"
)

// Data is the full data set. Tasks and Contacts keep insertion order.
type Data struct {
	Users         map[string]models.User
	Tasks         []models.Task
	RefreshTokens map[string]models.RefreshToken
	Contacts      []models.ContactMessage
}

func newData() *Data {
	return &Data{
		Users:         make(map[string]models.User),
		RefreshTokens: make(map[string]models.RefreshToken),
	}
}

func (d *Data) clone() *Data {
	c := newData()
	for k, v := range d.Users {
		c.Users[k] = v
	}
	for k, v := range d.RefreshTokens {
		c.RefreshTokens[k] = v
	}
	c.Tasks = append([]models.Task(nil), d.Tasks...)
	c.Contacts = append([]models.ContactMessage(nil), d.Contacts...)
	return c
}

type txKey struct{}

// Store guards Data with a RWMutex. A transaction holds the write lock for
// its whole duration, so every other reader and writer waits for it to
// finish. Calls made with the transaction's context run under that lock.
type Store struct {
	mu   sync.RWMutex
	data *Data
}

func New() *Store {
	return &Store{data: newData()}
}

func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

// View runs fn with shared access. fn must not retain or modify d.
func (s *Store) View(ctx context.Context, fn func(d *Data) error) error {
	if s.inTx(ctx) {
		return fn(s.data)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.data)
}

// Update runs fn with exclusive access.
func (s *Store) Update(ctx context.Context, fn func(d *Data) error) error {
	if s.inTx(ctx) {
		return fn(s.data)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}

// WithTx runs fn and discards every change it made if it returns an error.
// fn must pass the context it receives to View and Update. A nested WithTx
// joins the outer transaction.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		s.data = snapshot
		return err
	}
	return nil
}
