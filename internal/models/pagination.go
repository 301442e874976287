package models

// Pagination describes a page window over a collection. TotalPages is
// ceil(TotalCount / Size); a page beyond TotalPages is valid and simply
// yields no items.
type Pagination struct {
	Page       int `json:"page"`
	Size       int `json:"size"`
	TotalCount int `json:"total"`
	TotalPages int `json:"pages"`
}

// NormalizePage clamps a requested page window: page is at least 1 and a
// non-positive size falls back to 10.
func NormalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 10
	}
	return page, size
}

// NewPagination builds the page descriptor for a collection of total rows.
func NewPagination(page, size, total int) *Pagination {
	page, size = NormalizePage(page, size)
	pages := 0
	if total > 0 {
		pages = (total + size - 1) / size
	}
	return &Pagination{Page: page, Size: size, TotalCount: total, TotalPages: pages}
}

// Offset returns the row offset of the page window.
func (p *Pagination) Offset() int {
	return (p.Page - 1) * p.Size
}
