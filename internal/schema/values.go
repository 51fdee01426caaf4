package schema

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// Values is the flat key to value map exchanged between forms and domain
// mappers. Values are float64 for numeric controls, string for text and
// combo controls, bool for toggles and []int for integer lists.
type Values map[string]any

// Clone returns a copy of v that shares no slices with it.
func (v Values) Clone() Values {
	if v == nil {
		return nil
	}
	out := make(Values, len(v))
	for k, val := range v {
		if ids, ok := val.([]int); ok {
			val = append([]int(nil), ids...)
		}
		out[k] = val
	}
	return out
}

// Merge copies every entry of other into v and returns v.
func (v Values) Merge(other Values) Values {
	for k, val := range other {
		v[k] = val
	}
	return v
}

// Keys returns the keys of v in sorted order.
func (v Values) Keys() []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Only returns the subset of v whose keys are listed.
func (v Values) Only(keys ...string) Values {
	out := make(Values, len(keys))
	for _, k := range keys {
		if val, ok := v[k]; ok {
			out[k] = val
		}
	}
	return out
}

// Coerce converts a raw textual value into the type the field's control
// produces. It is used by command line updates of a form.
func (f SettingField) Coerce(raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	switch f.WidgetType {
	case WidgetSpinBox, WidgetDoubleSpinBox:
		n, err := cast.ToFloat64E(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %q is not a number", f.Key, raw)
		}
		if n < f.MinVal || n > f.MaxVal {
			return nil, fmt.Errorf("%s: %g is outside [%g, %g]", f.Key, n, f.MinVal, f.MaxVal)
		}
		return n, nil
	case WidgetToggle:
		b, err := cast.ToBoolE(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %q is not a boolean", f.Key, raw)
		}
		return b, nil
	case WidgetCombo:
		for _, c := range f.Choices {
			if c == raw {
				return raw, nil
			}
		}
		return nil, fmt.Errorf("%s: %q is not one of %s", f.Key, raw, strings.Join(f.Choices, ", "))
	case WidgetIntList:
		ids := []int{}
		for _, tok := range strings.FieldsFunc(strings.Trim(raw, "[]"), isListSeparator) {
			n, err := strconv.Atoi(tok)
			if err != nil {
				return nil, fmt.Errorf("%s: %q is not an integer", f.Key, tok)
			}
			ids = append(ids, n)
		}
		return ids, nil
	default:
		return raw, nil
	}
}

func isListSeparator(r rune) bool {
	return r == ',' || r == ';' || r == ' ' || r == '\t' || r == '\n'
}

// LoadGroupsYAML parses and validates a YAML list of groups.
func LoadGroupsYAML(data []byte) ([]SettingGroup, error) {
	var groups []SettingGroup
	if err := yaml.Unmarshal(data, &groups); err != nil {
		return nil, err
	}
	if err := ValidateGroups(groups...); err != nil {
		return nil, err
	}
	return groups, nil
}

// LoadTabsYAML parses and validates a YAML list of tabs.
func LoadTabsYAML(data []byte) ([]Tab, error) {
	var tabs []Tab
	if err := yaml.Unmarshal(data, &tabs); err != nil {
		return nil, err
	}
	if err := ValidateTabs(tabs...); err != nil {
		return nil, err
	}
	return tabs, nil
}

// MarshalTabsYAML renders tabs as a YAML document.
func MarshalTabsYAML(tabs []Tab) ([]byte, error) {
	return yaml.Marshal(tabs)
}
