package listquery_test

import (
	"testing"

	"github.com/dmitrijs2005/bookshelf/internal/client/query"
	"github.com/dmitrijs2005/bookshelf/internal/server/listquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bookFields = listquery.Fields{
	"title": {Column: "title"},
	"price": {Column: "price", Numeric: true},
}

func TestParse_AcceptsCompiledQueries(t *testing.T) {
	tests := []struct {
		op     query.Operator
		field  string
		value  any
		wantOp listquery.Operator
		want   []string
	}{
		{query.Contains, "title", "dune", listquery.Contains, []string{"dune"}},
		{query.DoesNotContain, "title", "dune", listquery.NotContains, []string{"dune"}},
		{query.Equals, "title", "A & B = C", listquery.Equals, []string{"A & B = C"}},
		{query.DoesNotEqual, "title", "x", listquery.NotEquals, []string{"x"}},
		{query.StartsWith, "title", "the", listquery.StartsWith, []string{"the"}},
		{query.EndsWith, "title", "end", listquery.EndsWith, []string{"end"}},
		{query.IsEmpty, "title", nil, listquery.IsEmpty, nil},
		{query.IsNotEmpty, "title", nil, listquery.IsNotEmpty, nil},
		{query.IsAnyOf, "price", []float64{10, 12.5}, listquery.In, []string{"10", "12.5"}},
		{query.GreaterThan, "price", 10, listquery.GreaterThan, []string{"10"}},
		{query.GreaterOrEqual, "price", 10, listquery.GreaterOrEqual, []string{"10"}},
		{query.LessThan, "price", 20.5, listquery.LessThan, []string{"20.5"}},
		{query.LessOrEqual, "price", 20.5, listquery.LessOrEqual, []string{"20.5"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.op), func(t *testing.T) {
			raw := query.Compile(
				query.PageRequest{Index: 1, Size: 10},
				[]query.FilterItem{{Field: tt.field, Operator: tt.op, Value: tt.value}},
				[]query.SortItem{{Field: "title", Direction: query.Desc}},
			)

			q, err := bookFields.Parse(raw)
			require.NoError(t, err, raw)

			assert.Equal(t, 2, q.Page)
			assert.Equal(t, 10, q.Limit)
			require.Len(t, q.Filters, 1, raw)
			assert.Equal(t, tt.wantOp, q.Filters[0].Operator)
			assert.Equal(t, bookFields[tt.field], q.Filters[0].Field)
			assert.Equal(t, tt.want, q.Filters[0].Values)
			assert.Equal(t, []listquery.Sort{{Field: bookFields["title"], Desc: true}}, q.Sorts)
		})
	}
}
