package domain

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Filter holds the user's filter inputs verbatim. PriceMin is textual and
// parsed by the server.
type Filter struct {
	StartDate     string `json:"startDate"`
	EndDate       string `json:"endDate"`
	PriceMin      string `json:"priceMin"`
	CustomerEmail string `json:"customerEmail"`
	CustomerPhone string `json:"customerPhone"`
}

// FilterPatch is a partial filter update; nil fields are left untouched.
type FilterPatch struct {
	StartDate     *string `json:"startDate,omitempty"`
	EndDate       *string `json:"endDate,omitempty"`
	PriceMin      *string `json:"priceMin,omitempty"`
	CustomerEmail *string `json:"customerEmail,omitempty"`
	CustomerPhone *string `json:"customerPhone,omitempty"`
}

// Apply overwrites the fields the patch carries. Values are kept as typed.
func (f Filter) Apply(p FilterPatch) Filter {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&f.StartDate, p.StartDate)
	set(&f.EndDate, p.EndDate)
	set(&f.PriceMin, p.PriceMin)
	set(&f.CustomerEmail, p.CustomerEmail)
	set(&f.CustomerPhone, p.CustomerPhone)
	return f
}

// Validate rejects malformed dates and inverted date ranges. Empty dates are allowed.
func (f Filter) Validate() error {
	start, err := parseDate("startDate", f.StartDate)
	if err != nil {
		return err
	}
	end, err := parseDate("endDate", f.EndDate)
	if err != nil {
		return err
	}
	if !start.IsZero() && !end.IsZero() && start.After(end) {
		return &ValidationError{Field: "startDate", Reason: "start date must not be after end date"}
	}
	return nil
}

func parseDate(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, &ValidationError{Field: field, Reason: fmt.Sprintf("%q is not a YYYY-MM-DD date", s)}
	}
	return t, nil
}

type SortField string

const (
	SortByDate  SortField = "date"
	SortByPrice SortField = "price"
)

func ParseSortField(s string) (SortField, error) {
	switch f := SortField(strings.ToLower(strings.TrimSpace(s))); f {
	case SortByDate, SortByPrice:
		return f, nil
	default:
		return "", &ValidationError{Field: "sortBy", Reason: fmt.Sprintf("unknown sort field %q", s)}
	}
}

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

type Sort struct {
	Field SortField `json:"field"`
	Order SortOrder `json:"order"`
}

func DefaultSort() Sort {
	return Sort{Field: SortByDate, Order: SortAsc}
}

// Toggle flips the order when field is already active and otherwise
// switches to field in ascending order.
func (s Sort) Toggle(field SortField) Sort {
	if s.Field == field {
		if s.Order == SortAsc {
			return Sort{Field: field, Order: SortDesc}
		}
		return Sort{Field: field, Order: SortAsc}
	}
	return Sort{Field: field, Order: SortAsc}
}

type Direction string

const (
	DirectionNone     Direction = "none"
	DirectionNext     Direction = "next"
	DirectionPrevious Direction = "previous"
)

// Cursor is the pagination token echoed back to the server. At most one of
// Before and After is set.
type Cursor struct {
	Before string `json:"before,omitempty"`
	After  string `json:"after,omitempty"`
}

func AfterCursor(token string) Cursor  { return Cursor{After: token} }
func BeforeCursor(token string) Cursor { return Cursor{Before: token} }

// QueryParams is the flattened request unit: filter, sort and a single cursor.
type QueryParams struct {
	Filter Filter
	Sort   Sort
	Cursor Cursor
}

func NewQueryParams(f Filter, s Sort, c Cursor) QueryParams {
	if c.After != "" {
		c.Before = ""
	}
	return QueryParams{Filter: f, Sort: s, Cursor: c}
}

// Values renders the fixed parameter set of the sales endpoint. Every key is
// always present, empty or not.
func (p QueryParams) Values() url.Values {
	return url.Values{
		"startDate": {p.Filter.StartDate},
		"endDate":   {p.Filter.EndDate},
		"priceMin":  {p.Filter.PriceMin},
		"email":     {p.Filter.CustomerEmail},
		"phone":     {p.Filter.CustomerPhone},
		"sortBy":    {string(p.Sort.Field)},
		"sortOrder": {string(p.Sort.Order)},
		"after":     {p.Cursor.After},
		"before":    {p.Cursor.Before},
	}
}

// CacheKey is canonical: url.Values.Encode sorts by key, so the key never
// depends on how the params were assembled.
func (p QueryParams) CacheKey() string {
	return BuildKey(p)
}

func BuildKey(p QueryParams) string {
	return "sales?" + p.Values().Encode()
}
