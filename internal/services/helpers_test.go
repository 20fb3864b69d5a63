package services

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"financetrack/internal/core"
	"financetrack/internal/storage"
)

func newTestRepo(t *testing.T) *storage.SQLiteRepository {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "services.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func seedUser(t *testing.T, repo *storage.SQLiteRepository, id string) core.User {
	t.Helper()
	u, err := repo.CreateUser(context.Background(), core.User{
		ID: id, Name: "User " + id, Email: id + "@example.com", PasswordHash: "x", Role: core.RoleUser,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return u
}

func seedCategory(t *testing.T, repo *storage.SQLiteRepository, userID, id, name string, typ core.TxType) {
	t.Helper()
	_, err := repo.CreateCategory(context.Background(), core.Category{
		ID: id, UserID: userID, Name: name, Type: typ, Color: core.DefaultCategoryColor,
	})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
}

func seedTx(t *testing.T, repo *storage.SQLiteRepository, userID, id, categoryID string, typ core.TxType, cents int64, date core.Date) {
	t.Helper()
	_, err := repo.CreateTransaction(context.Background(), core.Transaction{
		ID: id, UserID: userID, Type: typ, CategoryID: categoryID, Amount: core.Money{Cents: cents}, Date: date,
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
}

type published struct {
	action  string
	id      string
	version int64
}

type fakePublisher struct {
	mu   sync.Mutex
	msgs []published
	err  error
}

func (p *fakePublisher) PublishSync(_ context.Context, id string, version int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, published{"sync", id, version})
	return p.err
}

func (p *fakePublisher) PublishDelete(_ context.Context, id, _ string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, published{"delete", id, 0})
	return p.err
}

type countingInvalidator struct {
	mu    sync.Mutex
	users []string
}

func (c *countingInvalidator) Invalidate(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.users = append(c.users, userID)
}

func (c *countingInvalidator) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.users)
}

var errBroker = errors.New("broker down")
