package repository

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClassroomMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestClassroomRepositoryListActive(t *testing.T) {
	db, mock, cleanup := newClassroomMock(t)
	defer cleanup()
	repo := NewClassroomRepository(db)

	rows := sqlmock.NewRows([]string{"id", "building_id", "capacity", "active"}).
		AddRow("room-big", "bldg-1", 200, true).
		AddRow("room-small", "bldg-1", 30, true)
	mock.ExpectQuery("SELECT id, building_id, capacity, active FROM classrooms WHERE active").
		WillReturnRows(rows)

	classrooms, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, classrooms, 2)
	assert.Equal(t, "room-big", classrooms[0].ID)
	assert.Equal(t, 200, classrooms[0].Capacity)
	assert.NoError(t, mock.ExpectationsWereMet())
}
