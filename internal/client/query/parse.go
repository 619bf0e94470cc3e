package query

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidTerm = errors.New("invalid query term")

// ParseFilter reads a filter written as field:operator[:value], for example
// "price:>:1000", "genre:isAnyOf:Fantasy,Horror" or "title:isEmpty".
func ParseFilter(term string) (FilterItem, error) {
	parts := strings.SplitN(term, ":", 3)
	if len(parts) < 2 || parts[0] == "" {
		return FilterItem{}, fmt.Errorf("%w: %q, want field:operator[:value]", ErrInvalidTerm, term)
	}

	f := FilterItem{Field: parts[0], Operator: Operator(parts[1])}
	if !f.Operator.Valid() {
		return FilterItem{}, fmt.Errorf("%w: unknown operator %q", ErrInvalidTerm, parts[1])
	}
	if f.Operator.takesNoValue() {
		return f, nil
	}
	if len(parts) < 3 || parts[2] == "" {
		return FilterItem{}, fmt.Errorf("%w: %q needs a value", ErrInvalidTerm, term)
	}

	if f.Operator == IsAnyOf {
		f.Value = strings.Split(parts[2], ",")
	} else {
		f.Value = parts[2]
	}
	return f, nil
}

// ParseSort reads "+field" or "field" as ascending and "-field" as descending.
func ParseSort(term string) (SortItem, error) {
	s := SortItem{Field: term, Direction: Asc}
	switch {
	case strings.HasPrefix(term, "-"):
		s.Field, s.Direction = term[1:], Desc
	case strings.HasPrefix(term, "+"):
		s.Field = term[1:]
	}
	if s.Field == "" {
		return SortItem{}, fmt.Errorf("%w: empty sort field", ErrInvalidTerm)
	}
	return s, nil
}

// ParseArgs reads command line style terms: page=N (one-based), size=N,
// +field/-field sorts and field:operator[:value] filters. Order among filters
// and among sorts is preserved.
func ParseArgs(args []string) (PageRequest, []FilterItem, []SortItem, error) {
	page := PageRequest{Index: 0, Size: DefaultPageSize}
	var (
		filters []FilterItem
		sorts   []SortItem
	)

	for _, arg := range args {
		switch {
		case strings.HasPrefix(arg, "page="):
			n, err := strconv.Atoi(strings.TrimPrefix(arg, "page="))
			if err != nil || n < 1 {
				return page, nil, nil, fmt.Errorf("%w: %q, page starts at 1", ErrInvalidTerm, arg)
			}
			page.Index = n - 1
		case strings.HasPrefix(arg, "size="):
			n, err := strconv.Atoi(strings.TrimPrefix(arg, "size="))
			if err != nil || n < 1 {
				return page, nil, nil, fmt.Errorf("%w: %q", ErrInvalidTerm, arg)
			}
			page.Size = n
		case strings.HasPrefix(arg, "+"), strings.HasPrefix(arg, "-"):
			s, err := ParseSort(arg)
			if err != nil {
				return page, nil, nil, err
			}
			sorts = append(sorts, s)
		default:
			f, err := ParseFilter(arg)
			if err != nil {
				return page, nil, nil, err
			}
			filters = append(filters, f)
		}
	}
	return page, filters, sorts, nil
}
