package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetPropertyType(t *testing.T) {
	text := GetPropertyType("Text")
	assert.NotNil(t, text)
	assert.Equal(t, "📄", text.Icon)
	assert.Nil(t, GetPropertyType("Ghost"))
}

func TestSingletonClassification(t *testing.T) {
	for _, tag := range []string{"Text", "Number", "Date", "URL", "Email"} {
		assert.False(t, IsSingletonType(tag), tag)
	}
	for _, tag := range []string{"Select", "Status", "Checkbox", "Formula", "Relation", "Rollup", "Created time", "Last edited time"} {
		assert.True(t, IsSingletonType(tag), tag)
	}
	assert.True(t, IsSingletonType("Ghost"), "unknown tags are singletons")
}

func TestDefaultValues(t *testing.T) {
	assert.Equal(t, false, GetPropertyType("Checkbox").DefaultValue())
	assert.Equal(t, "Todo", GetPropertyType("Status").DefaultValue())
	assert.Equal(t, "", GetPropertyType("Text").DefaultValue())
	assert.Equal(t, "", GetPropertyType("Number").DefaultValue())
}

func TestRenderDate(t *testing.T) {
	date := GetPropertyType("Date")
	assert.Equal(t, "10-03-2024", date.Render("2024-03-10"))
	assert.Equal(t, "", date.Render(""))
	// Unparsable values pass through untouched
	assert.Equal(t, "soonish", date.Render("soonish"))
}

func TestRenderNumber(t *testing.T) {
	number := GetPropertyType("Number")
	assert.Equal(t, "—", number.Render(""))
	assert.Equal(t, "—", number.Render(nil))
	assert.Equal(t, "42", number.Render("42"))
	assert.Equal(t, "3.5", number.Render(3.5))
}

func TestRenderCheckbox(t *testing.T) {
	checkbox := GetPropertyType("Checkbox")
	assert.Equal(t, "☑", checkbox.Render(true))
	assert.Equal(t, "☐", checkbox.Render(false))
	assert.Equal(t, "☐", checkbox.Render(nil))
}

func TestParseDateValue(t *testing.T) {
	got, ok := ParseDateValue("2024-03-10")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), got)

	_, ok = ParseDateValue("2024-03-10T08:30:00Z")
	assert.True(t, ok)
	_, ok = ParseDateValue("2024-03-10T08:30:00")
	assert.True(t, ok)
	_, ok = ParseDateValue("next tuesday")
	assert.False(t, ok)
}

func TestToggleSort(t *testing.T) {
	state := NewFilterState()
	state.ToggleSort("Name")
	assert.Equal(t, SortState{Key: "Name", Direction: "asc"}, state.Sort)

	state.ToggleSort("Name")
	assert.Equal(t, "desc", state.Sort.Direction)

	state.ToggleSort("Date")
	assert.Equal(t, SortState{Key: "Date", Direction: "asc"}, state.Sort)
}

func TestTemplateCatalogLookups(t *testing.T) {
	tt := GetTemplateTypeByFile("shopping-cart.html")
	assert.NotNil(t, tt)
	assert.Equal(t, "🛒", tt.Icon)
	assert.Nil(t, GetTemplateTypeByFile("unknown.html"))
}

func TestPaginationHelperClamps(t *testing.T) {
	p := NewPaginationHelper(0, 0)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.PageSize)
	assert.Equal(t, 0, p.Offset)

	p = NewPaginationHelper(3, 37)
	assert.Equal(t, 20, p.PageSize, "snaps down to nearest allowed size")
	assert.Equal(t, 40, p.Offset)

	resp := p.BuildResponse([]int{1, 2}, 45)
	assert.Equal(t, 3, resp.Pagination.TotalPages)
}
