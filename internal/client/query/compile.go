package query

import (
	"encoding"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
)

// Compile renders page, filters and sorts as a query string without the
// leading '?'.
//
// Filters whose value is nil or an empty string are dropped, except IsEmpty
// and IsNotEmpty which are always sent as field[op]=true. IsAnyOf expands to
// one field[in][]=v pair per element. Field names and values are escaped;
// bracket syntax is written as is and operator tokens only have the
// characters that would end a key escaped, so price[>]=1 stays readable
// while >= goes out as >%3D.
func Compile(page PageRequest, filters []FilterItem, sorts []SortItem) string {
	var b queryBuilder

	b.add("page", strconv.Itoa(page.Index+1))
	b.add("limit", strconv.Itoa(page.Size))

	for _, f := range filters {
		b.addFilter(f)
	}

	for _, s := range sorts {
		b.add("sort["+url.QueryEscape(s.Field)+"]", s.Direction.String())
	}

	return b.String()
}

type queryBuilder struct {
	strings.Builder
}

// add appends key=value. key must already be escaped.
func (b *queryBuilder) add(key, value string) {
	if b.Len() > 0 {
		b.WriteByte('&')
	}
	b.WriteString(key)
	b.WriteByte('=')
	b.WriteString(url.QueryEscape(value))
}

var operatorEscaper = strings.NewReplacer("%", "%25", "=", "%3D", "&", "%26", "#", "%23", "+", "%2B")

func (b *queryBuilder) addFilter(f FilterItem) {
	key := url.QueryEscape(f.Field) + "[" + operatorEscaper.Replace(f.Operator.wire()) + "]"

	switch {
	case f.Operator.takesNoValue():
		b.add(key, "true")
	case f.Operator == IsAnyOf:
		for _, v := range sequence(f.Value) {
			b.add(key+"[]", v)
		}
	default:
		if v, ok := scalar(f.Value); ok {
			b.add(key, v)
		}
	}
}

// sequence flattens an IsAnyOf value. A lone scalar counts as a sequence of
// one; empty elements are skipped.
func sequence(v any) []string {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		if s, ok := scalar(v); ok {
			return []string{s}
		}
		return nil
	}

	out := make([]string, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		if s, ok := scalar(rv.Index(i).Interface()); ok {
			out = append(out, s)
		}
	}
	return out
}

// scalar formats v for the wire. ok is false when v is absent or empty.
// Strings, numbers and bools are formatted by kind, so named types keep
// their underlying value; other types use MarshalText, then String.
func scalar(v any) (s string, ok bool) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return "", false
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Invalid:
		return "", false
	case reflect.String:
		s = rv.String()
		return s, s != ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), true
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 32), true
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), true
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), true
	}

	if !rv.CanInterface() {
		return "", false
	}
	switch v := rv.Interface().(type) {
	case encoding.TextMarshaler:
		text, err := v.MarshalText()
		if err != nil {
			return "", false
		}
		return string(text), len(text) > 0
	case fmt.Stringer:
		s = v.String()
		return s, s != ""
	}
	return fmt.Sprint(rv.Interface()), true
}
