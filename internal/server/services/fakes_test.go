package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/studiosite/internal/common"
	"github.com/dmitrijs2005/studiosite/internal/dbx"
	"github.com/dmitrijs2005/studiosite/internal/server/models"
	"github.com/dmitrijs2005/studiosite/internal/server/repositories/admins"
	"github.com/dmitrijs2005/studiosite/internal/server/repositories/content"
	"github.com/dmitrijs2005/studiosite/internal/server/repositories/messages"
)

// --- in-memory repositories ---

type fakeAdmins struct {
	mu     sync.Mutex
	byName map[string]*models.Admin
	nextID int64
	err    error
}

func newFakeAdmins() *fakeAdmins { return &fakeAdmins{byName: map[string]*models.Admin{}} }

func (f *fakeAdmins) GetByUsername(_ context.Context, username string) (*models.Admin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	a, ok := f.byName[username]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAdmins) Upsert(_ context.Context, username, hash string, now time.Time) (*models.Admin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	a, ok := f.byName[username]
	if !ok {
		f.nextID++
		a = &models.Admin{ID: f.nextID, Username: username, CreatedAt: now}
		f.byName[username] = a
	}
	a.PasswordHash = hash
	a.UpdatedAt = now
	cp := *a
	return &cp, nil
}

func (f *fakeAdmins) CreateIfAbsent(_ context.Context, username, hash string, now time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	if _, ok := f.byName[username]; ok {
		return false, nil
	}
	f.nextID++
	f.byName[username] = &models.Admin{ID: f.nextID, Username: username, PasswordHash: hash, CreatedAt: now, UpdatedAt: now}
	return true, nil
}

type fakeContent struct {
	mu   sync.Mutex
	rows map[string]*models.ContentEntry
	puts int
	err  error
}

func newFakeContent() *fakeContent { return &fakeContent{rows: map[string]*models.ContentEntry{}} }

func (f *fakeContent) Get(_ context.Context, key string) (*models.ContentEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	e, ok := f.rows[key]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeContent) Upsert(_ context.Context, key, raw string, now time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.puts++
	f.rows[key] = &models.ContentEntry{SectionKey: key, RawValue: raw, UpdatedAt: now}
	return nil
}

func (f *fakeContent) List(_ context.Context) ([]*models.ContentEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*models.ContentEntry, 0, len(f.rows))
	for _, e := range f.rows {
		cp := *e
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SectionKey < out[j].SectionKey })
	return out, nil
}

func (f *fakeContent) InsertIfAbsent(_ context.Context, key, raw string, now time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	if _, ok := f.rows[key]; ok {
		return false, nil
	}
	f.rows[key] = &models.ContentEntry{SectionKey: key, RawValue: raw, UpdatedAt: now}
	return true, nil
}

type fakeMessages struct {
	mu     sync.Mutex
	rows   []*models.Message
	nextID int64
	err    error
}

func (f *fakeMessages) Create(_ context.Context, m *models.Message) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	f.nextID++
	cp := *m
	cp.ID = f.nextID
	f.rows = append(f.rows, &cp)
	return cp.ID, nil
}

func (f *fakeMessages) List(_ context.Context) ([]*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*models.Message, 0, len(f.rows))
	for _, m := range f.rows {
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (f *fakeMessages) find(id int64) int {
	for i, m := range f.rows {
		if m.ID == id {
			return i
		}
	}
	return -1
}

func (f *fakeMessages) UpdateStatus(_ context.Context, id int64, status models.MessageStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	i := f.find(id)
	if i < 0 {
		return common.ErrNotFound
	}
	f.rows[i].Status = status
	return nil
}

func (f *fakeMessages) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	i := f.find(id)
	if i < 0 {
		return common.ErrNotFound
	}
	f.rows = append(f.rows[:i], f.rows[i+1:]...)
	return nil
}

// --- repository manager ---

type fakeRepoManager struct {
	admins   *fakeAdmins
	content  *fakeContent
	messages *fakeMessages
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{admins: newFakeAdmins(), content: newFakeContent(), messages: &fakeMessages{}}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Admins(dbx.DBTX) admins.Repository           { return m.admins }
func (m *fakeRepoManager) Content(dbx.DBTX) content.Repository         { return m.content }
func (m *fakeRepoManager) Messages(dbx.DBTX) messages.Repository       { return m.messages }

// stepClock hands out strictly increasing times.
type stepClock struct {
	mu sync.Mutex
	t  time.Time
}

func newStepClock() *stepClock {
	return &stepClock{t: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}
