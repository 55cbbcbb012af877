package tableview

import (
	"sort"
	"strings"

	"mutations/api/models/constants"
	s "mutations/api/models/constants/sort"
	"mutations/api/models/constants/visibility"
	"mutations/api/models/dtos"
	"mutations/api/models/indexes"
	"mutations/api/services/columns"
	"mutations/api/services/grouping"
	"mutations/api/services/mutationtable"

	"github.com/ahmetb/go-linq"
)

type Options struct {
	Filter    string
	SortBy    string
	Direction constants.SortDirection

	// 1-based; a Size of 0 or less returns every row
	Page int
	Size int

	// keys of hidden columns to show for this view
	ShowHidden []string
}

type entry struct {
	row   []indexes.Mutation
	key   string
	cells map[string]interface{}
}

/*
	Builds one page of the mutations table.

	Requested hidden columns are switched on in a copy of the
	registry, every row is rendered across the shown columns (the
	first render error aborts), then rows are filtered, sorted and
	paged, in that order.
*/
func Build(reg *mutationtable.Registry, rows [][]indexes.Mutation, opts Options) (dtos.MutationTableResponse, error) {
	view, err := showHidden(reg, opts.ShowHidden)
	if err != nil {
		return dtos.MutationTableResponse{}, err
	}

	ordered := view.OrderedVisibleColumns()
	shown := make([]mutationtable.Column, 0, len(ordered))
	for _, c := range ordered {
		if !c.Hidden() {
			shown = append(shown, c)
		}
	}

	entries := make([]entry, 0, len(rows))
	for _, row := range rows {
		e := entry{row: row, cells: make(map[string]interface{}, len(shown))}
		if len(row) > 0 {
			e.key = grouping.MutationKey(row[0])
		}
		for _, c := range shown {
			value, err := view.Render(c.Key, row)
			if err != nil {
				return dtos.MutationTableResponse{}, err
			}
			e.cells[c.Key] = value
		}
		entries = append(entries, e)
	}

	entries = filter(entries, shown, opts.Filter)

	if opts.SortBy != "" {
		if entries, err = sortEntries(view, entries, opts.SortBy, opts.Direction); err != nil {
			return dtos.MutationTableResponse{}, err
		}
	}

	total := len(entries)
	page := opts.Page
	if page < 1 {
		page = 1
	}
	if opts.Size > 0 {
		var paged []entry
		linq.From(entries).
			Skip((page - 1) * opts.Size).
			Take(opts.Size).
			ToSlice(&paged)
		entries = paged
	}

	resultRows := make([]dtos.MutationTableRow, 0, len(entries))
	for _, e := range entries {
		resultRows = append(resultRows, dtos.MutationTableRow{Key: e.key, Cells: e.cells})
	}

	return dtos.MutationTableResponse{
		Status:        200,
		Message:       "Success",
		Headers:       Headers(view),
		Rows:          resultRows,
		Total:         total,
		Page:          page,
		Size:          opts.Size,
		Filter:        opts.Filter,
		SortBy:        opts.SortBy,
		SortDirection: opts.Direction,
	}, nil
}

// Headers describes the columns a widget may show, hidden ones included
func Headers(reg *mutationtable.Registry) []dtos.ColumnHeader {
	ordered := reg.OrderedVisibleColumns()
	headers := make([]dtos.ColumnHeader, 0, len(ordered))
	for _, c := range ordered {
		headers = append(headers, dtos.ColumnHeader{
			Key:        c.Key,
			Name:       c.Descriptor.Name,
			Priority:   c.EffectivePriority(),
			Hidden:     c.Hidden(),
			Toggleable: c.Toggleable(),
			Sortable:   c.IsSortable(),
			Filterable: c.IsFilterable(),
			Props:      c.Descriptor.Props,
		})
	}
	return headers
}

func showHidden(reg *mutationtable.Registry, keys []string) (*mutationtable.Registry, error) {
	view := reg
	for _, key := range keys {
		c, err := view.Column(key)
		if err != nil {
			return nil, err
		}
		if c.Descriptor.Visibility == visibility.Visible {
			continue
		}
		if view, err = view.WithVisibility(key, visibility.Visible); err != nil {
			return nil, err
		}
	}
	return view, nil
}

// filter keeps rows where any filterable shown column contains the
// term, ignoring case
func filter(entries []entry, shown []mutationtable.Column, term string) []entry {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return entries
	}

	filterable := []string{}
	for _, c := range shown {
		if c.IsFilterable() {
			filterable = append(filterable, c.Key)
		}
	}

	var kept []entry
	linq.From(entries).
		Where(func(i interface{}) bool {
			e := i.(entry)
			for _, key := range filterable {
				if strings.Contains(strings.ToLower(columns.Text(e.cells[key])), term) {
					return true
				}
			}
			return false
		}).
		ToSlice(&kept)

	if kept == nil {
		kept = []entry{}
	}
	return kept
}

func sortEntries(reg *mutationtable.Registry, entries []entry, key string, direction constants.SortDirection) ([]entry, error) {
	if _, err := reg.Column(key); err != nil {
		return nil, err
	}
	if !reg.IsSortable(key) {
		return nil, &columns.NotSortableError{Column: key}
	}

	sorted := make([]entry, len(entries))
	copy(sorted, entries)

	var sortErr error
	sort.SliceStable(sorted, func(i, j int) bool {
		cmp, err := reg.Compare(key, sorted[i].row, sorted[j].row)
		if err != nil && sortErr == nil {
			sortErr = err
		}
		if direction == s.Descending {
			return cmp > 0
		}
		return cmp < 0
	})
	if sortErr != nil {
		return nil, sortErr
	}

	return sorted, nil
}
