package content

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/studiosite/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock, db
}

var now = time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)

const (
	getQ    = `(?s)^SELECT\s+section_key,\s*raw_value,\s*updated_at\s+FROM\s+content_entries\s+WHERE\s+section_key\s*=\s*\$1$`
	upsertQ = `(?s)INSERT\s+INTO\s+content_entries\s*\(section_key,\s*raw_value,\s*updated_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*ON\s+CONFLICT\s*\(section_key\)\s*DO\s+UPDATE\s+SET\s+raw_value\s*=\s*EXCLUDED\.raw_value,\s*updated_at\s*=\s*EXCLUDED\.updated_at`
	listQ   = `(?s)^SELECT\s+section_key,\s*raw_value,\s*updated_at\s+FROM\s+content_entries\s+ORDER\s+BY\s+section_key$`
	insertQ = `(?s)INSERT\s+INTO\s+content_entries\b.*ON\s+CONFLICT\s*\(section_key\)\s*DO\s+NOTHING`
)

func TestGet_Found(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(getQ).WithArgs("hero_title").
		WillReturnRows(sqlmock.NewRows([]string{"section_key", "raw_value", "updated_at"}).
			AddRow("hero_title", "Hello", now))

	got, err := repo.Get(context.Background(), "hero_title")
	require.NoError(t, err)
	assert.Equal(t, "hero_title", got.SectionKey)
	assert.Equal(t, "Hello", got.RawValue)
	assert.True(t, got.UpdatedAt.Equal(now))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGet_NotFound(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)
	mock.ExpectQuery(getQ).WithArgs("missing").WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestGet_DBError(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)
	mock.ExpectQuery(getQ).WithArgs("k").WillReturnError(errors.New("db down"))

	_, err := repo.Get(context.Background(), "k")
	assert.ErrorIs(t, err, common.ErrStorage)
	assert.Contains(t, err.Error(), "db error: db down")
}

func TestUpsert_SingleStatement(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectExec(upsertQ).WithArgs("hero_title", "A", now).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(upsertQ).WithArgs("hero_title", "B", now).WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Upsert(context.Background(), "hero_title", "A", now))
	require.NoError(t, repo.Upsert(context.Background(), "hero_title", "B", now))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsert_DBError(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)
	mock.ExpectExec(upsertQ).WillReturnError(errors.New("boom"))

	err := repo.Upsert(context.Background(), "k", "v", now)
	assert.ErrorIs(t, err, common.ErrStorage)
}

func TestList_Ordered(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(listQ).WillReturnRows(sqlmock.NewRows([]string{"section_key", "raw_value", "updated_at"}).
		AddRow("hero_subtitle", "sub", now).
		AddRow("hero_title", "title", now))

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "hero_subtitle", got[0].SectionKey)
	assert.Equal(t, "hero_title", got[1].SectionKey)
}

func TestList_Empty(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)
	mock.ExpectQuery(listQ).WillReturnRows(sqlmock.NewRows([]string{"section_key", "raw_value", "updated_at"}))

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestList_ScanError(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)
	mock.ExpectQuery(listQ).WillReturnRows(sqlmock.NewRows([]string{"section_key", "raw_value", "updated_at"}).
		AddRow("k", "v", "not-a-time"))

	_, err := repo.List(context.Background())
	assert.ErrorIs(t, err, common.ErrStorage)
}

func TestList_RowsError(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)
	mock.ExpectQuery(listQ).WillReturnRows(sqlmock.NewRows([]string{"section_key", "raw_value", "updated_at"}).
		AddRow("k", "v", now).
		RowError(0, errors.New("iter fail")))

	_, err := repo.List(context.Background())
	assert.ErrorIs(t, err, common.ErrStorage)
}

func TestInsertIfAbsent(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectExec(insertQ).WithArgs("services", "[]", now).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(insertQ).WithArgs("services", "[]", now).WillReturnResult(sqlmock.NewResult(0, 0))

	created, err := repo.InsertIfAbsent(context.Background(), "services", "[]", now)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.InsertIfAbsent(context.Background(), "services", "[]", now)
	require.NoError(t, err)
	assert.False(t, created)
}
