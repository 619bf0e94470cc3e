// Package listquery turns the list query string sent by bookshelf clients
// back into a validated, SQL-ready description of one page of rows.
//
// Accepted keys:
//
//	page=N             1-based page, default 1
//	limit=N            page size, default 10, at most 100
//	field[op]=value    filter, op is one of the Operator constants
//	field[in][]=value  membership filter, repeat the key once per value
//	sort[field]=ASC    sort key, ASC or DESC; earlier keys take precedence
//
// Keys without brackets other than page and limit are ignored. Operator
// tokens may arrive escaped (price[>%3D]=1) or raw (price[>=]=1).
package listquery

import (
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/bookshelf/internal/common"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	// MaxPage keeps the row offset within a Postgres integer.
	MaxPage = math.MaxInt32 / MaxLimit
)

type Operator string

const (
	Contains       Operator = "contains"
	NotContains    Operator = "notContains"
	Equals         Operator = "equals"
	NotEquals      Operator = "notEquals"
	StartsWith     Operator = "startsWith"
	EndsWith       Operator = "endsWith"
	IsEmpty        Operator = "isEmpty"
	IsNotEmpty     Operator = "isNotEmpty"
	In             Operator = "in"
	GreaterThan    Operator = ">"
	GreaterOrEqual Operator = ">="
	LessThan       Operator = "<"
	LessOrEqual    Operator = "<="
)

var operators = map[Operator]struct{}{
	Contains: {}, NotContains: {}, Equals: {}, NotEquals: {}, StartsWith: {}, EndsWith: {},
	IsEmpty: {}, IsNotEmpty: {}, In: {}, GreaterThan: {}, GreaterOrEqual: {}, LessThan: {}, LessOrEqual: {},
}

func (op Operator) pattern() bool {
	switch op {
	case Contains, NotContains, StartsWith, EndsWith:
		return true
	}
	return false
}

// Field maps a public field name onto a column. Numeric columns take
// numeric arguments and are cast to text for pattern operators.
type Field struct {
	Column  string
	Numeric bool
}

// Fields is the whitelist of filterable and sortable fields of one resource.
type Fields map[string]Field

type Filter struct {
	Field    Field
	Operator Operator
	Values   []string
}

type Sort struct {
	Field Field
	Desc  bool
}

// ListQuery is a parsed and validated list request.
type ListQuery struct {
	Page    int
	Limit   int
	Filters []Filter
	Sorts   []Sort
}

// Offset is the number of rows skipped before the current page.
func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

var bracketKey = regexp.MustCompile(`^([^\[\]]+)\[([^\[\]]+)\](\[\])?$`)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", common.ErrorValidation, fmt.Sprintf(format, args...))
}

// splitPair cuts pair at the first '=' outside brackets, so a raw operator
// such as >= stays in the key.
func splitPair(pair string) (key, value string) {
	depth := 0
	for i := 0; i < len(pair); i++ {
		switch pair[i] {
		case '[':
			depth++
		case ']':
			if depth > 0 {
				depth--
			}
		case '=':
			if depth == 0 {
				return pair[:i], pair[i+1:]
			}
		}
	}
	return pair, ""
}

// Parse reads rawQuery against the given field whitelist. The raw string is
// walked in order, so filters and sort keys keep the order the client sent
// them in. Failures wrap common.ErrorValidation.
func (fs Fields) Parse(rawQuery string) (ListQuery, error) {
	q := ListQuery{Page: DefaultPage, Limit: DefaultLimit}
	membership := map[string]int{}

	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		rawKey, rawValue := splitPair(pair)
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return ListQuery{}, invalid("bad key %q", rawKey)
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return ListQuery{}, invalid("bad value for %q", key)
		}

		switch key {
		case "page":
			if q.Page, err = strconv.Atoi(value); err != nil || q.Page < 1 || q.Page > MaxPage {
				return ListQuery{}, invalid("page must be between 1 and %d", MaxPage)
			}
			continue
		case "limit":
			if q.Limit, err = strconv.Atoi(value); err != nil || q.Limit < 1 || q.Limit > MaxLimit {
				return ListQuery{}, invalid("limit must be between 1 and %d", MaxLimit)
			}
			continue
		}

		m := bracketKey.FindStringSubmatch(key)
		if m == nil {
			if strings.ContainsAny(key, "[]") {
				return ListQuery{}, invalid("malformed key %q", key)
			}
			continue
		}
		name, arg, list := m[1], m[2], m[3] != ""

		if name == "sort" {
			f, ok := fs[arg]
			if !ok {
				return ListQuery{}, invalid("cannot sort by %q", arg)
			}
			switch strings.ToUpper(value) {
			case "ASC":
				q.Sorts = append(q.Sorts, Sort{Field: f})
			case "DESC":
				q.Sorts = append(q.Sorts, Sort{Field: f, Desc: true})
			default:
				return ListQuery{}, invalid("sort direction must be ASC or DESC, got %q", value)
			}
			continue
		}

		f, ok := fs[name]
		if !ok {
			return ListQuery{}, invalid("unknown field %q", name)
		}
		op := Operator(arg)
		if _, ok := operators[op]; !ok {
			return ListQuery{}, invalid("unknown operator %q", arg)
		}
		if list && op != In {
			return ListQuery{}, invalid("operator %q takes a single value", arg)
		}

		switch {
		case op == IsEmpty || op == IsNotEmpty:
			q.Filters = append(q.Filters, Filter{Field: f, Operator: op})
			continue
		case value == "":
			continue
		case f.Numeric && !op.pattern():
			if _, err := strconv.ParseFloat(value, 64); err != nil {
				return ListQuery{}, invalid("%s expects a number, got %q", name, value)
			}
		}

		if op == In {
			if i, ok := membership[name]; ok {
				q.Filters[i].Values = append(q.Filters[i].Values, value)
				continue
			}
			membership[name] = len(q.Filters)
		}
		q.Filters = append(q.Filters, Filter{Field: f, Operator: op, Values: []string{value}})
	}

	return q, nil
}
