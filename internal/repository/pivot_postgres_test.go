package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// 校验 postgres 方言下生成的 upsert 语句
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db, mock
}

func TestPivotRepo_Postgres_Upsert(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPivotRepo(db)

	mock.ExpectExec(`INSERT INTO "genres" .*ON CONFLICT \("name"\) DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT "id" FROM "genres" WHERE name = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

	id, err := repo.Upsert(context.Background(), GenrePool, "RPG")
	require.NoError(t, err)
	require.Equal(t, uint(42), id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPivotRepo_Postgres_SyncOrdered(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPivotRepo(db)

	mock.ExpectExec(`DELETE FROM vacancy_requirement WHERE vacancy_id = \$1 AND requirement_item_id NOT IN \(\$2,\$3\)`).
		WithArgs(7, 1, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "vacancy_requirement" .*ON CONFLICT \("vacancy_id","requirement_item_id"\) DO UPDATE SET "sort_order"="excluded"."sort_order"`).
		WillReturnResult(sqlmock.NewResult(0, 2))

	err := repo.Sync(context.Background(), RequirementPool, 7, []Edge{{1, 0}, {2, 1}})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
