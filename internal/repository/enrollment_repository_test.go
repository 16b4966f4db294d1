package repository

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEnrollmentMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestEnrollmentRepositoryStudentLoad(t *testing.T) {
	db, mock, cleanup := newEnrollmentMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	rows := sqlmock.NewRows([]string{"student_id", "section_id"}).
		AddRow("student-1", "sec-1").
		AddRow("student-1", "sec-2").
		AddRow("student-2", "sec-2")
	mock.ExpectQuery("SELECT student_id, section_id FROM section_enrollments").
		WithArgs("term-1", sqlmock.AnyArg()).
		WillReturnRows(rows)

	load, err := repo.StudentLoad(context.Background(), "term-1", []string{"sec-1", "sec-2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"sec-1", "sec-2"}, load["student-1"])
	assert.Equal(t, []string{"sec-2"}, load["student-2"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryStudentLoadEmptySections(t *testing.T) {
	db, mock, cleanup := newEnrollmentMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	load, err := repo.StudentLoad(context.Background(), "term-1", nil)
	require.NoError(t, err)
	assert.Empty(t, load)
	assert.NoError(t, mock.ExpectationsWereMet())
}
