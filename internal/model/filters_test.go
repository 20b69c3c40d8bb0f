package model

import (
	"testing"

	"github.com/psds-microservice/admin-console/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFiltersSetResetsPage(t *testing.T) {
	f := DefaultFilters()
	f.Page = 4

	for _, key := range []FilterKey{FilterSearch, FilterStatus, FilterSortBy, FilterSortOrder, FilterDateFrom, FilterDateTo, FilterLimit} {
		value := "x"
		switch key {
		case FilterLimit:
			value = "25"
		case FilterSortOrder:
			value = "desc"
		}
		got, err := f.Set(key, value)
		require.NoError(t, err, key)
		assert.Equal(t, 1, got.Page, key)
	}
}

func TestFiltersSetPage(t *testing.T) {
	f, err := DefaultFilters().Set(FilterPage, "3")
	require.NoError(t, err)
	assert.Equal(t, 3, f.Page)

	_, err = f.Set(FilterPage, "0")
	assert.ErrorIs(t, err, errs.ErrUnknownFilter)
}

func TestFiltersSetStatusAll(t *testing.T) {
	f, err := DefaultFilters().Set(FilterStatus, "submitted")
	require.NoError(t, err)
	assert.Equal(t, "submitted", f.Status)

	f, err = f.Set(FilterStatus, "all")
	require.NoError(t, err)
	assert.Empty(t, f.Status)
}

func TestFiltersSetUnknownKey(t *testing.T) {
	f := DefaultFilters()
	f.Page = 2
	got, err := f.Set("color", "red")
	assert.ErrorIs(t, err, errs.ErrUnknownFilter)
	assert.Equal(t, f, got)
}

func TestFiltersQuery(t *testing.T) {
	f := Filters{Page: 0, Limit: 500, Search: "acme", SortOrder: "DESC"}
	q := f.Query()
	assert.Equal(t, map[string]string{
		"page":      "1",
		"limit":     "100",
		"search":    "acme",
		"sortOrder": "desc",
	}, q)
}

func TestFiltersApplyQuery(t *testing.T) {
	f := DefaultFilters()
	f.Page = 3
	f.Status = "submitted"

	tests := []struct {
		name     string
		query    map[string][]string
		wantPage int
		want     func(t *testing.T, got Filters)
	}{
		{"empty keeps page", map[string][]string{}, 3, nil},
		{"same status keeps page", map[string][]string{"status": {"submitted"}}, 3, nil},
		{"new status resets page", map[string][]string{"status": {"approved"}}, 1, func(t *testing.T, got Filters) {
			assert.Equal(t, "approved", got.Status)
		}},
		{"status all clears", map[string][]string{"status": {"all"}}, 1, func(t *testing.T, got Filters) {
			assert.Empty(t, got.Status)
		}},
		{"explicit page wins", map[string][]string{"search": {"acme"}, "page": {"5"}}, 5, func(t *testing.T, got Filters) {
			assert.Equal(t, "acme", got.Search)
		}},
		{"page only", map[string][]string{"page": {"2"}}, 2, nil},
		{"unrelated keys ignored", map[string][]string{"_": {"123"}}, 3, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.ApplyQuery(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPage, got.Page)
			if tt.want != nil {
				tt.want(t, got)
			}
		})
	}
}

func TestFiltersApplyQueryInvalid(t *testing.T) {
	f := DefaultFilters()
	got, err := f.ApplyQuery(map[string][]string{"page": {"zero"}})
	var ve *errs.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "page")
	assert.Equal(t, f, got)
}
