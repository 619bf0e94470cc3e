// Package query turns page, filter and sort descriptors into the query
// string the resource server understands.
//
// The output is deterministic: page parameters come first, then filters and
// sorts in the order given.
package query

import (
	"errors"
	"fmt"
)

type Operator string

const (
	Contains       Operator = "contains"
	DoesNotContain Operator = "doesNotContain"
	Equals         Operator = "equals"
	DoesNotEqual   Operator = "doesNotEqual"
	StartsWith     Operator = "startsWith"
	EndsWith       Operator = "endsWith"
	IsEmpty        Operator = "isEmpty"
	IsNotEmpty     Operator = "isNotEmpty"
	IsAnyOf        Operator = "isAnyOf"
	GreaterThan    Operator = ">"
	GreaterOrEqual Operator = ">="
	LessThan       Operator = "<"
	LessOrEqual    Operator = "<="
)

var operators = map[Operator]struct{}{
	Contains: {}, DoesNotContain: {}, Equals: {}, DoesNotEqual: {},
	StartsWith: {}, EndsWith: {}, IsEmpty: {}, IsNotEmpty: {}, IsAnyOf: {},
	GreaterThan: {}, GreaterOrEqual: {}, LessThan: {}, LessOrEqual: {},
}

// Valid reports whether op is one of the known operators.
func (op Operator) Valid() bool {
	_, ok := operators[op]
	return ok
}

// takesNoValue is true for operators that are sent as field[op]=true.
func (op Operator) takesNoValue() bool {
	return op == IsEmpty || op == IsNotEmpty
}

// wire is the operator token the server expects.
func (op Operator) wire() string {
	switch op {
	case DoesNotContain:
		return "notContains"
	case DoesNotEqual:
		return "notEquals"
	case IsAnyOf:
		return "in"
	}
	return string(op)
}

// FilterItem restricts a list to rows whose Field matches Value under
// Operator. Value is nil for IsEmpty and IsNotEmpty, a slice for IsAnyOf and
// a string or number otherwise.
type FilterItem struct {
	Field    string
	Operator Operator
	Value    any
}

type Direction int

const (
	Asc Direction = iota
	Desc
)

func (d Direction) String() string {
	if d == Desc {
		return "DESC"
	}
	return "ASC"
}

// SortItem orders a list by Field. Earlier items take precedence.
type SortItem struct {
	Field     string
	Direction Direction
}

// PageRequest selects one page. Index is zero-based.
type PageRequest struct {
	Index int
	Size  int
}

const DefaultPageSize = 10

var ErrInvalidPage = errors.New("invalid page request")

func (p PageRequest) Validate() error {
	if p.Index < 0 {
		return fmt.Errorf("%w: negative page index %d", ErrInvalidPage, p.Index)
	}
	if p.Size <= 0 {
		return fmt.Errorf("%w: page size must be positive, got %d", ErrInvalidPage, p.Size)
	}
	return nil
}
