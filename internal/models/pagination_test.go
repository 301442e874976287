package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePage(t *testing.T) {
	page, size := NormalizePage(0, 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, size)

	page, size = NormalizePage(-3, -1)
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, size)

	page, size = NormalizePage(4, 25)
	assert.Equal(t, 4, page)
	assert.Equal(t, 25, size)
}

func TestNewPaginationCeil(t *testing.T) {
	p := NewPagination(1, 10, 0)
	assert.Equal(t, 0, p.TotalPages)

	p = NewPagination(1, 10, 10)
	assert.Equal(t, 1, p.TotalPages)

	p = NewPagination(1, 10, 11)
	assert.Equal(t, 2, p.TotalPages)

	p = NewPagination(1, 3, 7)
	assert.Equal(t, 3, p.TotalPages)
}

func TestPaginationOffset(t *testing.T) {
	p := NewPagination(3, 20, 100)
	assert.Equal(t, 40, p.Offset())

	p = NewPagination(1, 20, 100)
	assert.Equal(t, 0, p.Offset())
}

func TestPaginationOutOfRangePage(t *testing.T) {
	p := NewPagination(9, 10, 15)
	assert.Equal(t, 9, p.Page)
	assert.Equal(t, 15, p.TotalCount)
	assert.Equal(t, 2, p.TotalPages)
}
