package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	n := Params{}.Normalize()
	assert.Equal(t, 1, n.Page)
	assert.Equal(t, DefaultPageSize, n.PageSize)

	n = Params{Page: 3, PageSize: 500}.Normalize()
	assert.Equal(t, 3, n.Page)
	assert.Equal(t, MaxPageSize, n.PageSize)
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Params{Page: 1, PageSize: 10}.Offset())
	assert.Equal(t, 20, Params{Page: 3, PageSize: 10}.Offset())
}

func TestPageFor(t *testing.T) {
	page := PageFor(Params{Page: 2, PageSize: 10}, 25)
	assert.Equal(t, 2, page.Number)
	assert.Equal(t, int64(25), page.TotalRows)
	assert.Equal(t, 3, page.TotalPages)

	empty := PageFor(Params{}, 0)
	assert.Equal(t, 1, empty.TotalPages)
}
