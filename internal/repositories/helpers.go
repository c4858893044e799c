package repositories

import (
	"strings"

	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern строит шаблон LIKE для подстроки без учета регистра
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

// isDuplicateKey распознает нарушение уникального индекса
// (при TranslateError: true в gorm.Config)
func isDuplicateKey(err error) bool {
	return err != nil && (err == gorm.ErrDuplicatedKey || strings.Contains(strings.ToLower(err.Error()), "unique"))
}
