package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/accounts/internal/common"
	"github.com/dmitrijs2005/accounts/internal/dbx"
	"github.com/dmitrijs2005/accounts/internal/logging"
	"github.com/dmitrijs2005/accounts/internal/server/models"
	"github.com/dmitrijs2005/accounts/internal/server/repositories/accounts"
)

var errBoom = errors.New("boom")

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// fakeAccountsRepo is an in-memory accounts.Repository keyed by email.
type fakeAccountsRepo struct {
	mu   sync.Mutex
	rows map[string]models.Account

	createErr error
	getErr    error
	updateErr error
	setErr    error
	deleteErr error
	listErr   error

	// beforeSetImage runs inside SetImagePathIfEmpty before the check.
	beforeSetImage func()
	// beforeUpdate runs once at the start of UpdateFields.
	beforeUpdate func()
}

func newFakeAccountsRepo() *fakeAccountsRepo {
	return &fakeAccountsRepo{rows: map[string]models.Account{}}
}

func (f *fakeAccountsRepo) put(a models.Account) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[a.Email] = a
}

func (f *fakeAccountsRepo) get(email string) (models.Account, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.rows[email]
	return a, ok
}

func (f *fakeAccountsRepo) Create(_ context.Context, a *models.Account) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[a.Email]; ok {
		return common.ErrDuplicateEmail
	}
	f.rows[a.Email] = *a
	return nil
}

func (f *fakeAccountsRepo) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.rows[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &a, nil
}

func (f *fakeAccountsRepo) UpdateFields(_ context.Context, email string, p accounts.Patch) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if hook := f.beforeUpdate; hook != nil {
		f.beforeUpdate = nil
		hook()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.rows[email]
	if !ok {
		return common.ErrorNotFound
	}
	if p.FullName != nil {
		cur.FullName = *p.FullName
	}
	if p.PasswordHash != nil {
		cur.PasswordHash = *p.PasswordHash
	}
	cur.UpdatedAt = p.UpdatedAt
	f.rows[email] = cur
	return nil
}

func (f *fakeAccountsRepo) SetImagePathIfEmpty(_ context.Context, email, path string, at time.Time) (bool, error) {
	if f.setErr != nil {
		return false, f.setErr
	}
	if f.beforeSetImage != nil {
		f.beforeSetImage()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.rows[email]
	if !ok || a.ImagePath != "" {
		return false, nil
	}
	a.ImagePath = path
	a.UpdatedAt = at
	f.rows[email] = a
	return true, nil
}

func (f *fakeAccountsRepo) DeleteByEmail(_ context.Context, email string) (*models.Account, error) {
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.rows[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	delete(f.rows, email)
	return &a, nil
}

func (f *fakeAccountsRepo) List(context.Context) ([]*models.Account, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.Account, 0, len(f.rows))
	for _, a := range f.rows {
		a := a
		out = append(out, &a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

type fakeRepoManager struct {
	a *fakeAccountsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Accounts(dbx.DBTX) accounts.Repository        { return m.a }

// fakeStorage keeps objects in memory.
type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte

	putErr    error
	deleteErr error
	deletes   []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (s *fakeStorage) Put(_ context.Context, key string, data []byte, _ string) error {
	if s.putErr != nil {
		return s.putErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = append([]byte(nil), data...)
	return nil
}

func (s *fakeStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes = append(s.deletes, key)
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.objects, key)
	return nil
}

func (s *fakeStorage) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

// recLogger records messages by level.
type recLogger struct {
	mu    sync.Mutex
	warns []string
	args  [][]any
}

func (l *recLogger) Debug(context.Context, string, ...any) {}
func (l *recLogger) Info(context.Context, string, ...any)  {}
func (l *recLogger) Error(context.Context, string, ...any) {}
func (l *recLogger) Warn(_ context.Context, msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, msg)
	l.args = append(l.args, args)
}
func (l *recLogger) With(...any) logging.Logger { return l }

func (l *recLogger) warnErrors() []error {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []error
	for _, args := range l.args {
		for i := 0; i+1 < len(args); i += 2 {
			if err, ok := args[i+1].(error); ok && fmt.Sprint(args[i]) == "error" {
				out = append(out, err)
			}
		}
	}
	return out
}
