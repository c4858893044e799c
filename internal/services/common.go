package services

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"
)

// dbContext достает контекст запроса, привязанный к db через WithContext
func dbContext(db *gorm.DB) context.Context {
	if db != nil && db.Statement != nil && db.Statement.Context != nil {
		return db.Statement.Context
	}
	return context.Background()
}

// jsonColumn кодирует срез для обновления через map: в этом режиме
// gorm не применяет serializer:json.
func jsonColumn(values []string) string {
	if values == nil {
		values = []string{}
	}
	b, _ := json.Marshal(values)
	return string(b)
}
