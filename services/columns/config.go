package columns

import (
	"fmt"
	"os"

	"mutations/api/models/constants/visibility"

	yaml "gopkg.in/yaml.v2"
)

// ColumnConfig is the declarative, file-based form of a column descriptor.
// Strategies cannot be expressed in a file; a configured key that is not
// already known renders through the default field lookup.
type ColumnConfig struct {
	Key         string                 `yaml:"key"`
	Name        string                 `yaml:"name"`
	Visibility  string                 `yaml:"visibility"`
	Priority    *float64               `yaml:"priority"`
	Sortable    *bool                  `yaml:"sortable"`
	Filterable  *bool                  `yaml:"filterable"`
	ColumnProps map[string]interface{} `yaml:"columnProps"`
}

type ColumnsFile struct {
	Columns []ColumnConfig `yaml:"columns"`
}

func LoadColumnConfigs(path string) ([]ColumnConfig, error) {
	fileBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading column config %s: %w", path, err)
	}
	return ParseColumnConfigs(fileBytes)
}

func ParseColumnConfigs(data []byte) ([]ColumnConfig, error) {
	var file ColumnsFile
	if err := yaml.UnmarshalStrict(data, &file); err != nil {
		return nil, fmt.Errorf("parsing column config: %w", err)
	}

	seen := make(map[string]bool, len(file.Columns))
	for i, cc := range file.Columns {
		if cc.Key == "" {
			return nil, &InvalidDescriptorError{Key: cc.Key, Reason: fmt.Sprintf("empty key at position %d", i)}
		}
		if seen[cc.Key] {
			return nil, &AmbiguousKeyError{Key: cc.Key}
		}
		seen[cc.Key] = true

		if cc.Visibility != "" && !visibility.IsKnownVisibility(cc.Visibility) {
			return nil, &InvalidDescriptorError{Key: cc.Key, Reason: fmt.Sprintf("unknown visibility '%s'", cc.Visibility)}
		}

		// yaml.v2 decodes nested maps with interface{} keys, which
		// neither encoding/json nor the formatters expect
		file.Columns[i].ColumnProps = normalizeYamlMap(cc.ColumnProps)
	}

	return file.Columns, nil
}

/*
	Overlays file-based configs onto a set of columns.

	Known keys keep their position and strategies and only have the
	configured metadata replaced (columnProps are merged key by key).
	Unknown keys are appended. Neither input is modified.
*/
func ApplyConfigs[R Record](base []Column[R], configs []ColumnConfig) ([]Column[R], error) {
	out := make([]Column[R], len(base))
	copy(out, base)

	positions := make(map[string]int, len(out))
	for i, c := range out {
		positions[c.Key] = i
	}

	applied := make(map[string]bool, len(configs))
	for _, cc := range configs {
		if applied[cc.Key] {
			return nil, &AmbiguousKeyError{Key: cc.Key}
		}
		applied[cc.Key] = true

		if i, exists := positions[cc.Key]; exists {
			out[i].Descriptor = overlay(out[i].Descriptor, cc)
			continue
		}

		positions[cc.Key] = len(out)
		out = append(out, Column[R]{
			Key:        cc.Key,
			Descriptor: overlay(Descriptor[R]{}, cc),
		})
	}

	return out, nil
}

func overlay[R Record](d Descriptor[R], cc ColumnConfig) Descriptor[R] {
	if cc.Name != "" {
		d.Name = cc.Name
	}
	if cc.Visibility != "" {
		d.Visibility = visibility.CastToVisibility(cc.Visibility)
	}
	if cc.Priority != nil {
		d.Priority = Priority(*cc.Priority)
	}
	if cc.Sortable != nil {
		d.Sortable = *cc.Sortable
		if !*cc.Sortable {
			d.Sort = nil
		}
	}
	if cc.Filterable != nil {
		d.Filterable = Filterable(*cc.Filterable)
	}

	if len(cc.ColumnProps) > 0 {
		merged := make(Props, len(d.Props)+len(cc.ColumnProps))
		for k, v := range d.Props {
			merged[k] = v
		}
		for k, v := range cc.ColumnProps {
			merged[k] = v
		}
		d.Props = merged
	}

	return d
}

func normalizeYamlMap(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return nil
	}
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = normalizeYamlValue(v)
	}
	return out
}

func normalizeYamlValue(v interface{}) interface{} {
	switch typed := v.(type) {
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(typed))
		for k, val := range typed {
			out[fmt.Sprint(k)] = normalizeYamlValue(val)
		}
		return out
	case map[string]interface{}:
		return normalizeYamlMap(typed)
	case []interface{}:
		out := make([]interface{}, len(typed))
		for i, val := range typed {
			out[i] = normalizeYamlValue(val)
		}
		return out
	default:
		return v
	}
}
