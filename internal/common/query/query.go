// Package query turns list-endpoint URL parameters into filters, ordering,
// pagination and field projection.
//
// Supported parameters:
//
//	select=title,slug        keep only these fields (id is always kept)
//	sort=-createdAt,title    order by whitelisted fields, "-" for descending
//	page=2&limit=10          pagination, limit defaults to 25 and caps at 100
//	status=pending           equality on a whitelisted field
//	date[gte]=2025-01-01     comparison: gt, gte, lt, lte, in (comma list)
package query

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"counsel_hub/internal/common"

	"github.com/google/uuid"
)

const (
	DefaultLimit = 25
	MaxLimit     = 100

	// MaxOffset bounds (page-1)*limit so the offset never overflows.
	MaxOffset = math.MaxInt32
)

type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindBool
	KindDate
	KindTimestamp
	KindStringArray
	KindUUID
)

// Field maps a client-facing name to a column.
type Field struct {
	Column string
	Kind   Kind
}

type Schema struct {
	Fields      map[string]Field
	DefaultSort string
}

type Op string

const (
	OpEq  Op = "eq"
	OpGt  Op = "gt"
	OpGte Op = "gte"
	OpLt  Op = "lt"
	OpLte Op = "lte"
	OpIn  Op = "in"
)

var sqlOps = map[Op]string{OpEq: "=", OpGt: ">", OpGte: ">=", OpLt: "<", OpLte: "<="}

type Filter struct {
	Field  Field
	Op     Op
	Values []interface{}
}

type SortField struct {
	Column string
	Desc   bool
}

type Options struct {
	Filters []Filter
	Sort    []SortField
	Page    int
	Limit   int
	Select  []string
}

// Parse validates values against schema. Unknown filter keys are ignored;
// unknown sort fields and malformed values are rejected.
func Parse(values url.Values, schema Schema) (*Options, error) {
	opts := &Options{Page: 1, Limit: DefaultLimit}

	if raw := values.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return nil, common.NewError(common.ErrBadRequest, "Invalid page parameter")
		}
		opts.Page = page
	}
	if raw := values.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return nil, common.NewError(common.ErrBadRequest, "Invalid limit parameter")
		}
		if limit > MaxLimit {
			limit = MaxLimit
		}
		opts.Limit = limit
	}
	if opts.Page-1 > MaxOffset/opts.Limit {
		return nil, common.NewError(common.ErrBadRequest, "Invalid page parameter")
	}

	if raw := values.Get("select"); raw != "" {
		for _, name := range splitList(raw) {
			if _, ok := schema.Fields[name]; ok {
				opts.Select = append(opts.Select, name)
			}
		}
	}

	sortRaw := values.Get("sort")
	if sortRaw == "" {
		sortRaw = schema.DefaultSort
	}
	for _, name := range splitList(sortRaw) {
		desc := strings.HasPrefix(name, "-")
		name = strings.TrimPrefix(name, "-")
		field, ok := schema.Fields[name]
		if !ok {
			return nil, common.NewError(common.ErrBadRequest, "Cannot sort by %s", name)
		}
		opts.Sort = append(opts.Sort, SortField{Column: field.Column, Desc: desc})
	}

	for key, vals := range values {
		name, op, ok := splitKey(key)
		if !ok {
			continue
		}
		field, known := schema.Fields[name]
		if !known || len(vals) == 0 {
			continue
		}
		filter, err := buildFilter(name, field, op, vals[0])
		if err != nil {
			return nil, err
		}
		opts.Filters = append(opts.Filters, filter)
	}

	return opts, nil
}

func splitKey(key string) (string, Op, bool) {
	switch key {
	case "select", "sort", "page", "limit":
		return "", "", false
	}
	open := strings.IndexByte(key, '[')
	if open < 0 {
		return key, OpEq, true
	}
	if !strings.HasSuffix(key, "]") {
		return "", "", false
	}
	op := Op(key[open+1 : len(key)-1])
	switch op {
	case OpGt, OpGte, OpLt, OpLte, OpIn:
		return key[:open], op, true
	}
	return "", "", false
}

func buildFilter(name string, field Field, op Op, raw string) (Filter, error) {
	raws := []string{raw}
	if op == OpIn {
		raws = splitList(raw)
	}
	filter := Filter{Field: field, Op: op}
	for _, r := range raws {
		v, err := convert(field.Kind, r)
		if err != nil {
			return Filter{}, common.NewError(common.ErrBadRequest, "Invalid value for %s", name)
		}
		filter.Values = append(filter.Values, v)
	}
	if len(filter.Values) == 0 {
		return Filter{}, common.NewError(common.ErrBadRequest, "Invalid value for %s", name)
	}
	return filter, nil
}

func convert(kind Kind, raw string) (interface{}, error) {
	switch kind {
	case KindNumber:
		return strconv.ParseFloat(raw, 64)
	case KindBool:
		return strconv.ParseBool(raw)
	case KindDate:
		return ParseDate(raw)
	case KindTimestamp:
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return t, nil
		}
		return time.Parse("2006-01-02", raw)
	case KindUUID:
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, err
		}
		return id.String(), nil
	default:
		return raw, nil
	}
}

// ParseDate accepts a calendar date or an RFC 3339 timestamp and returns
// midnight UTC of that calendar day.
func ParseDate(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (o *Options) Offset() int {
	return (o.Page - 1) * o.Limit
}

// Where renders the filters as a SQL condition list using placeholders from
// $start upward. It returns "" when there are no filters.
func (o *Options) Where(start int) (string, []interface{}) {
	var (
		conds []string
		args  []interface{}
	)
	n := start
	for _, f := range o.Filters {
		switch {
		case f.Field.Kind == KindStringArray && f.Op == OpIn:
			conds = append(conds, fmt.Sprintf("%s && $%d", f.Field.Column, n))
			args = append(args, toStrings(f.Values))
			n++
		case f.Field.Kind == KindStringArray:
			conds = append(conds, fmt.Sprintf("$%d = ANY(%s)", n, f.Field.Column))
			args = append(args, f.Values[0])
			n++
		case f.Op == OpIn:
			holders := make([]string, len(f.Values))
			for i, v := range f.Values {
				holders[i] = fmt.Sprintf("$%d", n)
				args = append(args, v)
				n++
			}
			conds = append(conds, fmt.Sprintf("%s IN (%s)", f.Field.Column, strings.Join(holders, ", ")))
		default:
			conds = append(conds, fmt.Sprintf("%s %s $%d", f.Field.Column, sqlOps[f.Op], n))
			args = append(args, f.Values[0])
			n++
		}
	}
	return strings.Join(conds, " AND "), args
}

// OrderBy renders the ORDER BY list, ending with tiebreaker for stable paging.
func (o *Options) OrderBy(tiebreaker string) string {
	parts := make([]string, 0, len(o.Sort)+1)
	for _, s := range o.Sort {
		dir := "ASC"
		if s.Desc {
			dir = "DESC"
		}
		parts = append(parts, s.Column+" "+dir)
	}
	parts = append(parts, tiebreaker+" ASC")
	return strings.Join(parts, ", ")
}

func toStrings(values []interface{}) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, fmt.Sprint(v))
	}
	return out
}
