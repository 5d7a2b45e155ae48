package books

import (
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupPostgresMock returns a repository speaking the postgres dialect to a
// sqlmock connection.
func setupPostgresMock(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return NewRepository(db), mock
}

func TestSearchBooksByAuthor_Postgres(t *testing.T) {
	repo, mock := setupPostgresMock(t)

	rows := sqlmock.NewRows([]string{"id", "title", "author"}).
		AddRow(1, "Rok 1984", "George Orwell")
	mock.ExpectQuery(regexp.QuoteMeta(`FROM "books" WHERE author LIKE $1 ESCAPE '\'`)).
		WithArgs(`%Orwell\_%`).
		WillReturnRows(rows)

	books, err := repo.SearchBooksByAuthor("Orwell_")
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "George Orwell", books[0].Author)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteBook_PostgresNotFoundRollsBack(t *testing.T) {
	repo, mock := setupPostgresMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM subject_books WHERE book_id = $1`)).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "books" WHERE "books"."id" = $1`)).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.DeleteBook(7)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteBook_PostgresMembershipFailureRollsBack(t *testing.T) {
	repo, mock := setupPostgresMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM subject_books WHERE book_id = $1`)).
		WithArgs(7).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := repo.DeleteBook(7)
	assert.ErrorContains(t, err, "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteBook_PostgresCommits(t *testing.T) {
	repo, mock := setupPostgresMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM subject_books WHERE book_id = $1`)).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "books" WHERE "books"."id" = $1`)).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.DeleteBook(3))
	assert.NoError(t, mock.ExpectationsWereMet())
}
