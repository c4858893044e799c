package testutil

import (
	"fmt"
	"testing"

	"gigmarket_backend/internal/logger"
	"gigmarket_backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewTestDB открывает отдельную in-memory sqlite базу на тест и
// накатывает схему. Одно соединение: так sqlite ведет себя как
// сериализованная база, и транзакции не упираются в "database is locked".
// Внешние ключи включены, как в postgres.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	logger.Init("test")

	db, err := gorm.Open(sqlite.Open(MemoryDSN()), &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err, "Не удалось открыть тестовую базу")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.AllModels()...), "Миграция тестовой базы не должна падать")

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}

// MemoryDSN - уникальная in-memory sqlite база с включенными внешними ключами
func MemoryDSN() string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
}
