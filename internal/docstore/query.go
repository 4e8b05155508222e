package docstore

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
)

// FieldID filters or orders on the document id instead of a body field.
const FieldID = "__id__"

type Op string

const (
	OpEq  Op = "=="
	OpGte Op = ">="
	OpLt  Op = "<"
)

type Filter struct {
	Field string
	Op    Op
	Value any
}

func Where(field string, op Op, value any) Filter {
	return Filter{Field: field, Op: op, Value: value}
}

type Query struct {
	OwnerID    string
	Collection string
	Where      []Filter
	OrderBy    string
	Desc       bool
	// Limit <= 0 means no limit
	Limit int
}

func (q Query) Validate() error {
	if err := validateScope(q.OwnerID, q.Collection); err != nil {
		return err
	}
	for _, f := range q.Where {
		switch f.Op {
		case OpEq, OpGte, OpLt:
		default:
			return fmt.Errorf("%w: op %q", ErrUnsupportedFilter, f.Op)
		}
		if f.Field == "" {
			return fmt.Errorf("%w: empty field", ErrUnsupportedFilter)
		}
		if _, isNum := Numeric(f.Value); !isNum {
			switch f.Value.(type) {
			case string, bool:
			default:
				return fmt.Errorf("%w: value of type %T", ErrUnsupportedFilter, f.Value)
			}
		}
	}
	return nil
}

// Matches evaluates the where clauses against one document.
func (q Query) Matches(id string, doc Document) bool {
	for _, f := range q.Where {
		var actual any
		if f.Field == FieldID {
			actual = id
		} else {
			v, ok := doc[f.Field]
			if !ok {
				return false
			}
			actual = v
		}
		cmp, ok := compareValues(actual, f.Value)
		if !ok {
			return false
		}
		switch f.Op {
		case OpEq:
			if cmp != 0 {
				return false
			}
		case OpGte:
			if cmp < 0 {
				return false
			}
		case OpLt:
			if cmp >= 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// Apply filters, orders and limits snapshots in memory, for stores that
// cannot push the query down.
func (q Query) Apply(snaps []Snapshot) []Snapshot {
	out := make([]Snapshot, 0, len(snaps))
	for _, s := range snaps {
		if q.Matches(s.ID, s.Data) {
			out = append(out, s)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if q.OrderBy != "" {
			ri, vi := q.orderKey(out[i])
			rj, vj := q.orderKey(out[j])
			if ri != rj {
				return ri < rj
			}
			if ri != rankMissing {
				if cmp, _ := compareValues(vi, vj); cmp != 0 {
					if q.Desc {
						return cmp > 0
					}
					return cmp < 0
				}
			}
		}
		return out[i].ID < out[j].ID
	})

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}

// ordering ranks; the direction only applies within a rank, missing values always go last
const (
	rankNumber = iota
	rankString
	rankBool
	rankMissing
)

func (q Query) orderKey(s Snapshot) (int, any) {
	var v any
	if q.OrderBy == FieldID {
		v = s.ID
	} else {
		v = s.Data[q.OrderBy]
	}
	if _, ok := Numeric(v); ok {
		return rankNumber, v
	}
	switch v.(type) {
	case string:
		return rankString, v
	case bool:
		return rankBool, v
	default:
		return rankMissing, nil
	}
}

// Numeric reports v as float64 when it is any numeric type.
func Numeric(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int32:
		f = float64(t)
	case int64:
		f = float64(t)
	case uint:
		f = float64(t)
	case uint64:
		f = float64(t)
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// compareValues compares numbers with numbers, strings with strings and
// bools with bools; mixed types are incomparable.
func compareValues(a, b any) (int, bool) {
	if fa, ok := Numeric(a); ok {
		fb, ok := Numeric(b)
		if !ok {
			return 0, false
		}
		switch {
		case fa < fb:
			return -1, true
		case fa > fb:
			return 1, true
		default:
			return 0, true
		}
	}
	switch ta := a.(type) {
	case string:
		tb, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(ta, tb), true
	case bool:
		tb, ok := b.(bool)
		if !ok {
			return 0, false
		}
		switch {
		case ta == tb:
			return 0, true
		case !ta:
			return -1, true
		default:
			return 1, true
		}
	}
	return 0, false
}
