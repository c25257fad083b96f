package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"recruit-hub/backend/internal/model"
)

// newTestDB 创建内存 SQLite 库并完成建表
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// 内存库按连接隔离，固定单连接
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(model.All()...))
	return db
}

func seedVacancy(t *testing.T, db *gorm.DB) *model.Vacancy {
	t.Helper()
	dept := &model.Department{Name: "Dev"}
	require.NoError(t, db.Create(dept).Error)
	v := &model.Vacancy{Name: "Go developer", DepartmentID: dept.ID, Status: model.VacancyActive}
	require.NoError(t, db.Create(v).Error)
	return v
}
