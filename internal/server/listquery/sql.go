package listquery

import (
	"strconv"
	"strings"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type builder struct {
	args []any
}

func (b *builder) bind(v any) string {
	b.args = append(b.args, v)
	return "$" + strconv.Itoa(len(b.args))
}

// SQL renders the filters as a WHERE clause, empty when there are none, and
// the sorts as an ORDER BY clause. tiebreak is appended to ORDER BY so pages
// stay stable. Placeholders are numbered from $1 and args holds their values.
func (q ListQuery) SQL(tiebreak string) (where, orderBy string, args []any) {
	b := &builder{}

	preds := make([]string, 0, len(q.Filters))
	for _, f := range q.Filters {
		preds = append(preds, b.predicate(f))
	}
	if len(preds) > 0 {
		where = "WHERE " + strings.Join(preds, " AND ")
	}

	keys := make([]string, 0, len(q.Sorts)+1)
	for _, s := range q.Sorts {
		dir := "ASC"
		if s.Desc {
			dir = "DESC"
		}
		keys = append(keys, s.Field.Column+" "+dir)
	}
	if tiebreak != "" {
		keys = append(keys, tiebreak)
	}
	if len(keys) > 0 {
		orderBy = "ORDER BY " + strings.Join(keys, ", ")
	}

	return where, orderBy, b.args
}

func (b *builder) predicate(f Filter) string {
	col := f.Field.Column

	switch f.Operator {
	case IsEmpty:
		if f.Field.Numeric {
			return col + " IS NULL"
		}
		return "(" + col + " IS NULL OR " + col + " = '')"
	case IsNotEmpty:
		if f.Field.Numeric {
			return col + " IS NOT NULL"
		}
		return "(" + col + " IS NOT NULL AND " + col + " <> '')"
	}

	if f.Operator.pattern() {
		if f.Field.Numeric {
			col = "CAST(" + col + " AS TEXT)"
		}
		v := likeEscaper.Replace(f.Values[0])
		switch f.Operator {
		case Contains:
			return col + " ILIKE " + b.bind("%"+v+"%")
		case NotContains:
			return col + " NOT ILIKE " + b.bind("%"+v+"%")
		case StartsWith:
			return col + " ILIKE " + b.bind(v+"%")
		default:
			return col + " ILIKE " + b.bind("%"+v)
		}
	}

	if f.Operator == In {
		ph := make([]string, len(f.Values))
		for i, v := range f.Values {
			ph[i] = b.bind(b.value(f.Field, v))
		}
		return col + " IN (" + strings.Join(ph, ", ") + ")"
	}

	sym := string(f.Operator)
	switch f.Operator {
	case Equals:
		sym = "="
	case NotEquals:
		sym = "<>"
	}
	return col + " " + sym + " " + b.bind(b.value(f.Field, f.Values[0]))
}

// value converts v for binding. Parse has already checked numeric values.
func (b *builder) value(f Field, v string) any {
	if !f.Numeric {
		return v
	}
	n, _ := strconv.ParseFloat(v, 64)
	return n
}
