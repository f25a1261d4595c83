package shared

// Pagination bounds list queries. Offset-based, matching the HTTP layer.
type Pagination struct {
	Page     int
	PageSize int
}

// NewPagination normalizes raw page inputs, substituting defaults for
// zero values.
func NewPagination(page, pageSize int) Pagination {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	return Pagination{Page: page, PageSize: pageSize}
}

func (p Pagination) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit()
}

func (p Pagination) Limit() int {
	if p.PageSize < 1 {
		return 20
	}
	if p.PageSize > 200 {
		return 200
	}
	return p.PageSize
}
