package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/eduscan-api/internal/records"
)

func newSnapshotMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestPostgresSnapshotRepositoryLoad(t *testing.T) {
	db, mock, cleanup := newSnapshotMock(t)
	defer cleanup()
	repo := NewPostgresSnapshotRepository(db, "teacher_dashboard_data_v9")

	payload := `[{"id":"1001","name":"Budi Santoso","classGroup":"7-A","subjects":[{"subjectName":"Matematika","attendance":[],"grades":[],"behaviorHistory":[{"date":"2023-10-01","score":85}],"behaviorScore":85}]}]`
	mock.ExpectQuery(regexp.QuoteMeta("SELECT payload FROM record_snapshots WHERE key = $1")).
		WithArgs("teacher_dashboard_data_v9").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow([]byte(payload)))

	students, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "Budi Santoso", students[0].Name)
	assert.Equal(t, 85.0, students[0].Subjects[0].BehaviorScore())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSnapshotRepositoryLoadMissing(t *testing.T) {
	db, mock, cleanup := newSnapshotMock(t)
	defer cleanup()
	repo := NewPostgresSnapshotRepository(db, "k")

	mock.ExpectQuery("SELECT payload FROM record_snapshots").
		WithArgs("k").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Load(context.Background())
	assert.ErrorIs(t, err, records.ErrNoSnapshot)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSnapshotRepositorySave(t *testing.T) {
	db, mock, cleanup := newSnapshotMock(t)
	defer cleanup()
	repo := NewPostgresSnapshotRepository(db, "k")

	mock.ExpectExec("INSERT INTO record_snapshots").
		WithArgs("k", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Save(context.Background(), records.DemoStudents()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSnapshotRepositorySaveError(t *testing.T) {
	db, mock, cleanup := newSnapshotMock(t)
	defer cleanup()
	repo := NewPostgresSnapshotRepository(db, "k")

	mock.ExpectExec("INSERT INTO record_snapshots").WillReturnError(errors.New("connection reset"))

	err := repo.Save(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save snapshot")
}

func TestPostgresSnapshotRepositoryEnsureSchema(t *testing.T) {
	db, mock, cleanup := newSnapshotMock(t)
	defer cleanup()
	repo := NewPostgresSnapshotRepository(db, "k")

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS record_snapshots").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
