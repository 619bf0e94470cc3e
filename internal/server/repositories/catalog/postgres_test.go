package catalog

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/bookshelf/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewPostgresRepository(db), mock
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		got, err := ParseKind(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := ParseKind("users")
	require.ErrorIs(t, err, common.ErrorValidation)
}

func TestSearch(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name FROM authors WHERE name ILIKE $1 ORDER BY name LIMIT $2`)).
		WithArgs(`%tol\_%`, searchLimit).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "J. R. R. Tolkien").AddRow(2, "Christopher Tolkien"))

	items, err := repo.Search(context.Background(), Authors, " tol_ ")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "J. R. R. Tolkien", items[0].Name)
}

func TestSearch_EmptyTermListsAll(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`FROM genres`).
		WithArgs("%%", searchLimit).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	items, err := repo.Search(context.Background(), Genres, "")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestSearch_UnknownKindNeverReachesSQL(t *testing.T) {
	repo, _ := newRepoWithMock(t)

	_, err := repo.Search(context.Background(), Kind("users; DROP TABLE books"), "")
	require.ErrorIs(t, err, common.ErrorValidation)
}

func TestCreate(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	insert := regexp.QuoteMeta(`INSERT INTO publishers (name) VALUES ($1) RETURNING id`)

	mock.ExpectQuery(insert).
		WithArgs("Penguin").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))

	it, err := repo.Create(context.Background(), Publishers, "Penguin")
	require.NoError(t, err)
	assert.Equal(t, int64(9), it.ID)
	assert.Equal(t, "Penguin", it.Name)

	mock.ExpectQuery(insert).
		WithArgs("Penguin").
		WillReturnError(&pgconn.PgError{Code: "23505"})
	_, err = repo.Create(context.Background(), Publishers, "Penguin")
	require.ErrorIs(t, err, common.ErrorAlreadyExists)

	mock.ExpectQuery(insert).
		WithArgs("Ace").
		WillReturnError(errors.New("db down"))
	_, err = repo.Create(context.Background(), Publishers, "Ace")
	require.ErrorContains(t, err, "db error: db down")
}
