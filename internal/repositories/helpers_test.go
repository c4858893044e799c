package repositories

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestContainsPattern(t *testing.T) {
	tests := map[string]string{
		"Logo":     "%logo%",
		"50%":      `%50\%%`,
		"snake_ca": `%snake\_ca%`,
		`back\sl`:  `%back\\sl%`,
	}
	for in, want := range tests {
		assert.Equal(t, want, containsPattern(in), in)
	}
}

func TestIsDuplicateKey(t *testing.T) {
	assert.True(t, isDuplicateKey(gorm.ErrDuplicatedKey))
	assert.True(t, isDuplicateKey(errors.New("UNIQUE constraint failed: reviews.order_id")))
	assert.False(t, isDuplicateKey(errors.New("connection reset")))
	assert.False(t, isDuplicateKey(nil))
}
