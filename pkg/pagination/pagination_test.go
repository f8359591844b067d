package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginationParamsValidate(t *testing.T) {
	t.Run("defaults applied to zero values", func(t *testing.T) {
		p := &PaginationParams{}
		p.Validate()
		assert.Equal(t, 1, p.Page)
		assert.Equal(t, 15, p.PerPage)
	})

	t.Run("per page is capped at 100", func(t *testing.T) {
		p := &PaginationParams{Page: 2, PerPage: 500}
		p.Validate()
		assert.Equal(t, 2, p.Page)
		assert.Equal(t, 100, p.PerPage)
	})

	t.Run("negative page resets to first", func(t *testing.T) {
		p := &PaginationParams{Page: -3, PerPage: 20}
		p.Validate()
		assert.Equal(t, 1, p.Page)
	})
}

func TestOffset(t *testing.T) {
	p := &PaginationParams{Page: 3, PerPage: 15}
	assert.Equal(t, 30, p.Offset())
}

func TestNewPagination(t *testing.T) {
	t.Run("middle page has next and prev", func(t *testing.T) {
		pag := NewPagination(2, 10, 35)
		assert.Equal(t, 4, pag.TotalPages)
		assert.True(t, pag.HasNext)
		assert.True(t, pag.HasPrev)
	})

	t.Run("last page has no next", func(t *testing.T) {
		pag := NewPagination(4, 10, 35)
		assert.False(t, pag.HasNext)
		assert.True(t, pag.HasPrev)
	})

	t.Run("empty result", func(t *testing.T) {
		pag := NewPagination(1, 10, 0)
		assert.Equal(t, 0, pag.TotalPages)
		assert.False(t, pag.HasNext)
		assert.False(t, pag.HasPrev)
	})
}
