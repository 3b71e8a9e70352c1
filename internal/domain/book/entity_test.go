package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTags(t *testing.T) {
	got := NormalizeTags([]string{" 科幻 ", "", "经典", "科幻", "  "})
	assert.Equal(t, []string{"科幻", "经典"}, got)
	assert.Empty(t, NormalizeTags(nil))
}

func TestPrice(t *testing.T) {
	tests := []struct {
		yuan  float64
		cents int64
		str   string
	}{
		{19.99, 1999, "19.99"},
		{0.1, 10, "0.10"},
		{100, 10000, "100.00"},
		{0.29, 29, "0.29"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.cents, PriceToCents(tt.yuan))
		assert.Equal(t, tt.str, FormatPrice(tt.cents))
	}
}

func TestPatch(t *testing.T) {
	assert.True(t, Patch{}.IsEmpty())

	empty := []string{}
	assert.False(t, Patch{Tags: &empty}.IsEmpty(), "空标签切片表示清空，不是空更新")

	title := "  三体  "
	b := NewBook(Draft{Title: "旧书名", Author: " 刘慈欣 "}, 1)
	b.ApplyScalars(Patch{Title: &title})
	assert.Equal(t, "三体", b.Title)
	assert.Equal(t, "刘慈欣", b.Author)
	assert.True(t, b.IsOwnedBy(1))
	assert.False(t, b.IsOwnedBy(2))
}

func TestListQuery_Normalize(t *testing.T) {
	q := ListQuery{Limit: 500, SortOrder: "sideways"}
	q.Normalize(SortDesc)
	assert.Equal(t, DefaultPage, q.Page)
	assert.Equal(t, MaxLimit, q.Limit)
	assert.Equal(t, SortDesc, q.SortOrder)

	q = ListQuery{Page: 3, Limit: 2, SortOrder: SortAsc}
	q.Normalize(SortDesc)
	assert.Equal(t, SortAsc, q.SortOrder)
	assert.Equal(t, 4, q.Offset())
}
