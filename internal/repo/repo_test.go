package repo

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/dbpg"

	"greenpledge/internal/model"
)

func newMockRepo(t *testing.T) (*repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := zerolog.Nop()
	return &repository{
		db:  &dbpg.DB{Master: db},
		log: &log,
	}, mock
}

func TestUpsertByEmailCreates(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM pledges WHERE email").
		WithArgs("a@x.com").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("INSERT INTO pledges").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created"}).AddRow(int64(7), true))
	mock.ExpectCommit()

	p := &model.Pledge{
		Name:       "Alice",
		Email:      "a@x.com",
		Phone:      "123",
		Pledge:     true,
		Interested: model.StringList{"Investment"},
	}
	id, created, err := r.UpsertByEmail(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.True(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Two concurrent first submits with the same email both miss the SELECT and
// take the insert branch; the loser resolves through ON CONFLICT. The merged
// row comes back with xmax set, so the loser must report created=false and
// no thank-you email is enqueued for it.
func TestUpsertByEmailConflictResolvedInsertIsNotACreate(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM pledges WHERE email").
		WithArgs("a@x.com").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("INSERT INTO pledges").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created"}).AddRow(int64(7), false))
	mock.ExpectCommit()

	id, created, err := r.UpsertByEmail(context.Background(), &model.Pledge{Name: "Alice", Email: "a@x.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.False(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertByEmailUpdatesExisting(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM pledges WHERE email").
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))
	mock.ExpectExec("UPDATE pledges SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	id, created, err := r.UpsertByEmail(context.Background(), &model.Pledge{Name: "Alice", Email: "a@x.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), id)
	assert.False(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertByEmailRollsBackOnInsertError(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM pledges WHERE email").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("INSERT INTO pledges").
		WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	_, _, err := r.UpsertByEmail(context.Background(), &model.Pledge{Email: "a@x.com"})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func pledgeRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "name", "email", "phone", "company", "country", "pledge",
		"interested", "looking_for", "photo_url", "created_at", "updated_at",
	}).
		AddRow(1, "Alice", "a@x.com", "123", "", "Germany", true, "Investment,Others", "Padel", "", now, now).
		AddRow(2, "Bob", "b@x.com", "", "", "", false, "", "", "http://x/b.png", now, now)
}

func TestGetAll(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM pledges ORDER BY id ASC").
		WillReturnRows(pledgeRows())

	pledges, err := r.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, pledges, 2)

	assert.Equal(t, "Alice", pledges[0].Name)
	assert.Equal(t, model.StringList{"Investment", "Others"}, pledges[0].Interested)
	assert.Equal(t, model.StringList{"Padel"}, pledges[0].LookingFor)
	assert.Nil(t, pledges[1].Interested)
	assert.Equal(t, "http://x/b.png", pledges[1].PhotoURL)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPledged(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM pledges WHERE pledge = TRUE").
		WillReturnRows(pledgeRows())

	pledges, err := r.GetPledged(context.Background())
	require.NoError(t, err)
	assert.Len(t, pledges, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByEmailNotFound(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM pledges WHERE email").
		WithArgs("missing@x.com").
		WillReturnError(sql.ErrNoRows)

	_, err := r.GetByEmail(context.Background(), "missing@x.com")
	assert.ErrorIs(t, err, ErrPledgeNotFound)
}
