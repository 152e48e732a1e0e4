package query

import (
	"encoding/json"
	"fmt"
)

type PageRef struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

type Pagination struct {
	Next *PageRef `json:"next,omitempty"`
	Prev *PageRef `json:"prev,omitempty"`
}

// Pagination describes neighbouring pages given the total number of matches.
func (o *Options) Pagination(total int) Pagination {
	var p Pagination
	if o.Page*o.Limit < total {
		p.Next = &PageRef{Page: o.Page + 1, Limit: o.Limit}
	}
	if o.Offset() > 0 {
		p.Prev = &PageRef{Page: o.Page - 1, Limit: o.Limit}
	}
	return p
}

// Project reduces each element of items to the selected JSON fields plus id.
// items is returned untouched when no fields were selected.
func (o *Options) Project(items interface{}) (interface{}, error) {
	if len(o.Select) == 0 {
		return items, nil
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("project marshal: %w", err)
	}
	var rows []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("project unmarshal: %w", err)
	}

	keep := map[string]bool{"id": true}
	for _, name := range o.Select {
		keep[name] = true
	}
	out := make([]map[string]json.RawMessage, 0, len(rows))
	for _, row := range rows {
		projected := make(map[string]json.RawMessage, len(keep))
		for k, v := range row {
			if keep[k] {
				projected[k] = v
			}
		}
		out = append(out, projected)
	}
	return out, nil
}
