package columns

import (
	"fmt"
	"math"
	"sort"

	"mutations/api/models/constants"
	"mutations/api/models/constants/visibility"
)

// Record is anything a column can look a field up on.
type Record interface {
	Field(key string) (interface{}, bool)
}

// Props are extra, column-specific parameters forwarded verbatim to the
// render and sort strategies. The registry never looks inside.
type Props map[string]interface{}

type RenderFunc[R Record] func(row []R, props Props) (interface{}, error)

// SortFunc orders two rows, returning a negative number, zero or a
// positive number. An error means the props could not be used.
type SortFunc[R Record] func(a []R, b []R, props Props) (int, error)

type Descriptor[R Record] struct {
	// ignored when the column is excluded
	Name       string
	Visibility constants.Visibility

	// lower comes first; nil means the column's insertion ordinal
	Priority *float64

	// nil means a direct field lookup on the row's first record
	Render RenderFunc[R]

	// Sort takes precedence over Sortable. Sortable alone enables
	// the default comparator over rendered values.
	Sort     SortFunc[R]
	Sortable bool

	// nil means filterable
	Filterable *bool

	Props Props
}

func Priority(p float64) *float64 {
	return &p
}

func Filterable(f bool) *bool {
	return &f
}

// Column is a (key, descriptor) pair in registry order.
type Column[R Record] struct {
	Key        string
	Descriptor Descriptor[R]

	ordinal int
}

func (c Column[R]) Hidden() bool {
	return c.Descriptor.Visibility == visibility.Hidden
}

// Toggleable reports whether a user may switch the column on or off
func (c Column[R]) Toggleable() bool {
	return c.Descriptor.Visibility == visibility.Visible || c.Descriptor.Visibility == visibility.Hidden
}

func (c Column[R]) IsSortable() bool {
	return c.Descriptor.Sort != nil || c.Descriptor.Sortable
}

func (c Column[R]) IsFilterable() bool {
	return c.Descriptor.Filterable == nil || *c.Descriptor.Filterable
}

func (c Column[R]) EffectivePriority() float64 {
	if c.Descriptor.Priority != nil {
		return *c.Descriptor.Priority
	}
	return float64(c.ordinal)
}

/*
	Registry is the column configuration of one rendering pass.

	It is immutable once built: every operation either reads or
	returns a fresh registry, so a registry may be shared across
	goroutines without coordination.
*/
type Registry[R Record] struct {
	columns []Column[R]
	index   map[string]int
}

// New builds a registry from columns in insertion order.
func New[R Record](entries ...Column[R]) (*Registry[R], error) {
	reg := &Registry[R]{
		columns: make([]Column[R], 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}

	for i, entry := range entries {
		if entry.Key == "" {
			return nil, &InvalidDescriptorError{Key: entry.Key, Reason: fmt.Sprintf("empty key at position %d", i)}
		}
		if _, exists := reg.index[entry.Key]; exists {
			return nil, &AmbiguousKeyError{Key: entry.Key}
		}

		d, err := normalize(entry.Key, entry.Descriptor)
		if err != nil {
			return nil, err
		}

		reg.index[entry.Key] = len(reg.columns)
		reg.columns = append(reg.columns, Column[R]{
			Key:        entry.Key,
			Descriptor: d,
			ordinal:    i,
		})
	}

	return reg, nil
}

func normalize[R Record](key string, d Descriptor[R]) (Descriptor[R], error) {
	switch d.Visibility {
	case visibility.Unknown:
		d.Visibility = visibility.Visible
	case visibility.Visible, visibility.Hidden, visibility.Excluded:
	default:
		return d, &InvalidDescriptorError{Key: key, Reason: fmt.Sprintf("unknown visibility '%s'", d.Visibility)}
	}

	if d.Priority != nil {
		if math.IsNaN(*d.Priority) {
			return d, &InvalidDescriptorError{Key: key, Reason: "priority is NaN"}
		}
		d.Priority = Priority(*d.Priority)
	}

	if d.Filterable == nil {
		d.Filterable = Filterable(true)
	} else {
		d.Filterable = Filterable(*d.Filterable)
	}

	d.Props = copyProps(d.Props)

	return d, nil
}

// detach gives a column its own priority, filterable flag and props so
// callers cannot reach back into the registry through them.
func detach[R Record](c Column[R]) Column[R] {
	if c.Descriptor.Priority != nil {
		c.Descriptor.Priority = Priority(*c.Descriptor.Priority)
	}
	if c.Descriptor.Filterable != nil {
		c.Descriptor.Filterable = Filterable(*c.Descriptor.Filterable)
	}
	c.Descriptor.Props = copyProps(c.Descriptor.Props)
	return c
}

func copyProps(props Props) Props {
	out := make(Props, len(props))
	for k, v := range props {
		out[k] = copyValue(v)
	}
	return out
}

// copyValue deep copies the container shapes props are built from;
// anything else is assumed immutable.
func copyValue(value interface{}) interface{} {
	switch v := value.(type) {
	case Props:
		return copyProps(v)
	case map[string]interface{}:
		return map[string]interface{}(copyProps(v))
	case map[string]string:
		out := make(map[string]string, len(v))
		for k, s := range v {
			out[k] = s
		}
		return out
	case map[string]int:
		out := make(map[string]int, len(v))
		for k, n := range v {
			out[k] = n
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, e := range v {
			out[i] = copyValue(e)
		}
		return out
	case []string:
		return append([]string(nil), v...)
	case []int:
		return append([]int(nil), v...)
	case []float64:
		return append([]float64(nil), v...)
	}
	return value
}

func (r *Registry[R]) column(key string) (Column[R], error) {
	i, ok := r.index[key]
	if !ok {
		return Column[R]{}, fmt.Errorf("%w: '%s'", ErrColumnNotFound, key)
	}
	return r.columns[i], nil
}

func (r *Registry[R]) Len() int {
	return len(r.columns)
}

// Keys returns every key, excluded columns included, in insertion order
func (r *Registry[R]) Keys() []string {
	keys := make([]string, len(r.columns))
	for i, c := range r.columns {
		keys[i] = c.Key
	}
	return keys
}

// Columns returns every column, excluded columns included, in insertion order
func (r *Registry[R]) Columns() []Column[R] {
	out := make([]Column[R], len(r.columns))
	for i, c := range r.columns {
		out[i] = detach(c)
	}
	return out
}

func (r *Registry[R]) Column(key string) (Column[R], error) {
	c, err := r.column(key)
	if err != nil {
		return c, err
	}
	return detach(c), nil
}

/*
	Columns a widget may show, in left-to-right order.

	Excluded columns are dropped; the rest are ordered by priority
	and then by insertion order. Hidden columns are kept and can be
	told apart with Column.Hidden.
*/
func (r *Registry[R]) OrderedVisibleColumns() []Column[R] {
	out := make([]Column[R], 0, len(r.columns))
	for _, c := range r.columns {
		if c.Descriptor.Visibility == visibility.Excluded {
			continue
		}
		out = append(out, detach(c))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EffectivePriority() < out[j].EffectivePriority()
	})

	return out
}

// Render produces the display value of one column for one row.
func (r *Registry[R]) Render(key string, row []R) (interface{}, error) {
	c, err := r.column(key)
	if err != nil {
		return nil, err
	}

	if c.Descriptor.Render != nil {
		return c.Descriptor.Render(row, c.Descriptor.Props)
	}
	return LookupField(key, row)
}

// LookupField is the default render strategy: the value of field `key`
// on the row's representative (first) record.
func LookupField[R Record](key string, row []R) (interface{}, error) {
	if len(row) == 0 {
		return nil, &MissingFieldError{Column: key, Field: key}
	}

	value, ok := row[0].Field(key)
	if !ok {
		return nil, &MissingFieldError{Column: key, Field: key}
	}
	return value, nil
}

// Compare orders two rows by one column. Non-sortable columns are rejected.
func (r *Registry[R]) Compare(key string, a []R, b []R) (int, error) {
	c, err := r.column(key)
	if err != nil {
		return 0, err
	}

	if c.Descriptor.Sort != nil {
		cmp, err := c.Descriptor.Sort(a, b, c.Descriptor.Props)
		if err != nil {
			return 0, fmt.Errorf("sorting by '%s': %w", key, err)
		}
		return cmp, nil
	}

	if !c.Descriptor.Sortable {
		return 0, &NotSortableError{Column: key}
	}

	aValue, err := r.Render(key, a)
	if err != nil {
		return 0, err
	}
	bValue, err := r.Render(key, b)
	if err != nil {
		return 0, err
	}

	return DefaultCompare(aValue, bValue), nil
}

func (r *Registry[R]) IsSortable(key string) bool {
	c, err := r.column(key)
	return err == nil && c.IsSortable()
}

func (r *Registry[R]) IsFilterable(key string) (bool, error) {
	c, err := r.column(key)
	if err != nil {
		return false, err
	}
	return c.IsFilterable(), nil
}

// Props returns a copy of the column's extra parameters
func (r *Registry[R]) Props(key string) (Props, error) {
	c, err := r.column(key)
	if err != nil {
		return nil, err
	}

	return copyProps(c.Descriptor.Props), nil
}

/*
	Returns a new registry with one column switched between visible
	and hidden; the receiver is left untouched. Excluded columns can
	never be toggled, and no column can be toggled into exclusion.
*/
func (r *Registry[R]) WithVisibility(key string, v constants.Visibility) (*Registry[R], error) {
	c, err := r.column(key)
	if err != nil {
		return nil, err
	}

	if !c.Toggleable() || (v != visibility.Visible && v != visibility.Hidden) {
		return nil, &NotToggleableError{Column: key, Visibility: v}
	}

	toggled := &Registry[R]{
		columns: make([]Column[R], len(r.columns)),
		index:   r.index, // never written after New
	}
	for i, c := range r.columns {
		toggled.columns[i] = detach(c)
	}
	toggled.columns[r.index[key]].Descriptor.Visibility = v

	return toggled, nil
}

// Builder collects columns in insertion order; errors surface at Build.
type Builder[R Record] struct {
	entries []Column[R]
}

func NewBuilder[R Record]() *Builder[R] {
	return &Builder[R]{}
}

func (b *Builder[R]) Add(key string, d Descriptor[R]) *Builder[R] {
	b.entries = append(b.entries, Column[R]{Key: key, Descriptor: d})
	return b
}

// Entries returns the collected columns, i.e. to apply config overrides
func (b *Builder[R]) Entries() []Column[R] {
	out := make([]Column[R], len(b.entries))
	copy(out, b.entries)
	return out
}

func (b *Builder[R]) Build() (*Registry[R], error) {
	return New(b.entries...)
}
