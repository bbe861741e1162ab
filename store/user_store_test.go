package store_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/api/store"
)

func TestUserStore_CreateUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("a@example.com", []byte("hash")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "created_at", "updated_at"}).
			AddRow("uuid-1", "a@example.com", now, now))

	user, err := store.NewUserStore(db).CreateUser(context.Background(), "a@example.com", []byte("hash"))
	require.NoError(t, err)
	assert.Equal(t, "uuid-1", user.ID)
}

func TestUserStore_CreateUserDuplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value"})

	_, err = store.NewUserStore(db).CreateUser(context.Background(), "a@example.com", []byte("hash"))
	assert.ErrorIs(t, err, store.ErrUserExists)
}

func TestUserStore_GetUserByEmailNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, email, hashed_password`).
		WithArgs("missing@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err = store.NewUserStore(db).GetUserByEmail(context.Background(), "missing@example.com")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}
