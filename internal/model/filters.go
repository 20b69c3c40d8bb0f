package model

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/psds-microservice/admin-console/internal/errs"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

type FilterKey string

const (
	FilterPage      FilterKey = "page"
	FilterLimit     FilterKey = "limit"
	FilterSearch    FilterKey = "search"
	FilterStatus    FilterKey = "status"
	FilterSortBy    FilterKey = "sortBy"
	FilterSortOrder FilterKey = "sortOrder"
	FilterDateFrom  FilterKey = "dateFrom"
	FilterDateTo    FilterKey = "dateTo"
)

// Filters is the per-feature list query.
type Filters struct {
	Page      int    `json:"page"`
	Limit     int    `json:"limit"`
	Search    string `json:"search,omitempty"`
	Status    string `json:"status,omitempty"`
	SortBy    string `json:"sortBy,omitempty"`
	SortOrder string `json:"sortOrder,omitempty"`
	DateFrom  string `json:"dateFrom,omitempty"`
	DateTo    string `json:"dateTo,omitempty"`
}

func DefaultFilters() Filters {
	return Filters{Page: DefaultPage, Limit: DefaultLimit}
}

// Normalize clamps page and limit into their legal ranges.
func (f Filters) Normalize() Filters {
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	f.SortOrder = strings.ToLower(f.SortOrder)
	if f.SortOrder != "" && f.SortOrder != "asc" && f.SortOrder != "desc" {
		f.SortOrder = ""
	}
	return f
}

// Set returns a copy with key changed. Any change other than page sends the
// list back to page 1.
func (f Filters) Set(key FilterKey, value string) (Filters, error) {
	value = strings.TrimSpace(value)
	switch key {
	case FilterPage:
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return f, fmt.Errorf("page %q: %w", value, errs.ErrUnknownFilter)
		}
		f.Page = n
		return f, nil
	case FilterLimit:
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return f, fmt.Errorf("limit %q: %w", value, errs.ErrUnknownFilter)
		}
		f.Limit = n
	case FilterSearch:
		f.Search = value
	case FilterStatus:
		if value == "all" {
			value = ""
		}
		f.Status = value
	case FilterSortBy:
		f.SortBy = value
	case FilterSortOrder:
		f.SortOrder = value
	case FilterDateFrom:
		f.DateFrom = value
	case FilterDateTo:
		f.DateTo = value
	default:
		return f, fmt.Errorf("%q: %w", key, errs.ErrUnknownFilter)
	}
	f.Page = DefaultPage
	return f.Normalize(), nil
}

func (f Filters) value(key FilterKey) string {
	switch key {
	case FilterLimit:
		return strconv.Itoa(f.Limit)
	case FilterSearch:
		return f.Search
	case FilterStatus:
		return f.Status
	case FilterSortBy:
		return f.SortBy
	case FilterSortOrder:
		return f.SortOrder
	case FilterDateFrom:
		return f.DateFrom
	case FilterDateTo:
		return f.DateTo
	}
	return ""
}

var queryKeys = []FilterKey{FilterLimit, FilterSearch, FilterStatus, FilterSortBy, FilterSortOrder, FilterDateFrom, FilterDateTo}

// ApplyQuery folds list query parameters into f through Set, so a changed
// non-page field sends the list back to page 1. An explicit page is applied
// last. Keys that are absent or unchanged leave f alone.
func (f Filters) ApplyQuery(q map[string][]string) (Filters, error) {
	for _, key := range queryKeys {
		vals, ok := q[string(key)]
		if !ok || len(vals) == 0 {
			continue
		}
		v := strings.TrimSpace(vals[0])
		if key == FilterStatus && v == "all" {
			v = ""
		}
		if key == FilterSortOrder {
			v = strings.ToLower(v)
		}
		if v == f.value(key) {
			continue
		}
		next, err := f.Set(key, v)
		if err != nil {
			return f, &errs.ValidationError{Fields: map[string]string{string(key): err.Error()}}
		}
		f = next
	}
	if vals := q[string(FilterPage)]; len(vals) > 0 {
		next, err := f.Set(FilterPage, vals[0])
		if err != nil {
			return f, &errs.ValidationError{Fields: map[string]string{string(FilterPage): err.Error()}}
		}
		f = next
	}
	return f, nil
}

// Query renders the non-empty fields as upstream query parameters.
func (f Filters) Query() map[string]string {
	f = f.Normalize()
	q := map[string]string{
		string(FilterPage):  strconv.Itoa(f.Page),
		string(FilterLimit): strconv.Itoa(f.Limit),
	}
	add := func(k FilterKey, v string) {
		if v != "" {
			q[string(k)] = v
		}
	}
	add(FilterSearch, f.Search)
	add(FilterStatus, f.Status)
	add(FilterSortBy, f.SortBy)
	add(FilterSortOrder, f.SortOrder)
	add(FilterDateFrom, f.DateFrom)
	add(FilterDateTo, f.DateTo)
	return q
}

// Pagination is the metadata returned alongside every list page.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Stats is a read-only snapshot of counts by status.
type Stats struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"byStatus"`
}
