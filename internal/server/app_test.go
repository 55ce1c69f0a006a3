package server

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/studiosite/internal/logging"
	"github.com/dmitrijs2005/studiosite/internal/server/config"
	"github.com/dmitrijs2005/studiosite/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noMigrations struct {
	repomanager.RepositoryManager
	err error
}

func (m noMigrations) RunMigrations(context.Context, *sql.DB) error { return m.err }

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	c := &config.Config{}
	c.LoadDefaults()
	c.HTTPAddr = "127.0.0.1:0"
	c.HealthAddrGRPC = "127.0.0.1:0"
	c.UploadDir = filepath.Join(t.TempDir(), "uploads")
	c.AdminPassword = ""
	return c
}

func stubDB(t *testing.T, migrateErr error) sqlmock.Sqlmock {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	origOpen, origRM := openDB, newRepoManager
	t.Cleanup(func() { openDB, newRepoManager = origOpen, origRM })

	openDB = func(ctx context.Context, dsn string) (*sql.DB, error) { return db, nil }
	newRepoManager = func() repomanager.RepositoryManager {
		return noMigrations{RepositoryManager: repomanager.NewPostgresRepositoryManager(), err: migrateErr}
	}
	return mock
}

func expectSeed(mock sqlmock.Sqlmock) {
	mock.ExpectBegin()
	for i := 0; i < 5; i++ {
		mock.ExpectExec(`INSERT\s+INTO\s+content_entries`).WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()
}

func TestNewApp_DatabaseUnreachable(t *testing.T) {
	orig := openDB
	t.Cleanup(func() { openDB = orig })
	openDB = func(ctx context.Context, dsn string) (*sql.DB, error) {
		return nil, errors.New("connection refused")
	}

	_, err := NewApp(context.Background(), testConfig(t), logging.Nop{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db init error")
}

func TestNewApp_MigrationFailureClosesDB(t *testing.T) {
	mock := stubDB(t, errors.New("bad migration"))
	mock.ExpectClose()

	_, err := NewApp(context.Background(), testConfig(t), logging.Nop{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migrations")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewApp_SeedsAndRunsUntilCanceled(t *testing.T) {
	mock := stubDB(t, nil)
	expectSeed(mock)
	mock.ExpectClose()

	app, err := NewApp(context.Background(), testConfig(t), logging.Nop{})
	require.NoError(t, err)
	assert.NotEmpty(t, app.uploadDir)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(150 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop after cancel")
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRun_FailsOnBadAddress(t *testing.T) {
	mock := stubDB(t, nil)
	expectSeed(mock)
	mock.ExpectClose()

	c := testConfig(t)
	c.HTTPAddr = "127.0.0.1:99999"
	app, err := NewApp(context.Background(), c, logging.Nop{})
	require.NoError(t, err)

	assert.Error(t, app.Run(context.Background()))
}

func TestNewUploadBackend_Local(t *testing.T) {
	c := testConfig(t)
	b, dir, err := newUploadBackend(context.Background(), c)
	require.NoError(t, err)
	assert.NotNil(t, b)
	assert.Equal(t, c.UploadDir, dir)
}
