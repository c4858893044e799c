package dto

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// PageQuery - простая пагинация skip/limit
type PageQuery struct {
	Page  int `form:"page" validate:"omitempty,min=1"`
	Limit int `form:"limit" validate:"omitempty,min=1,max=100"`
}

// Normalize подставляет значения по умолчанию
func (q PageQuery) Normalize() (page, limit int) {
	page, limit = q.Page, q.Limit
	if page <= 0 {
		page = defaultPage
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}

func (q PageQuery) Offset() int {
	page, limit := q.Normalize()
	return (page - 1) * limit
}

func TotalPages(total int64, limit int) int {
	if limit <= 0 || total == 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
