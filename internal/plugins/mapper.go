package plugins

import (
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"

	"github.com/dtg01100/touch-settings/internal/schema"
)

// FlatTag is the struct tag naming the flat key of a record field.
// Embedded sections carry `flat:",squash"`; fields kept out of forms carry
// `flat:"-"`.
const FlatTag = "flat"

// Mapper converts between a settings record and the flat value map.
type Mapper[T any] interface {
	// ToFlat returns one entry per form field.
	ToFlat(record T) (schema.Values, error)
	// FromFlat applies values onto a copy of base. Keys missing from
	// values keep the base value; unknown keys are ignored.
	FromFlat(values schema.Values, base T) (T, error)
}

// StructMapper maps records through their flat struct tags.
type StructMapper[T any] struct{}

// ToFlat implements Mapper. Integers become float64 and fmt.Stringer values
// become their text, matching what form controls report.
func (StructMapper[T]) ToFlat(record T) (schema.Values, error) {
	raw := make(map[string]any)
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:              FlatTag,
		IgnoreUntaggedFields: true,
		Squash:               true,
		Result:               &raw,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(record); err != nil {
		return nil, fmt.Errorf("failed to flatten %T: %w", record, err)
	}
	values := make(schema.Values, len(raw))
	for k, v := range raw {
		values[k] = normalize(v)
	}
	return values, nil
}

// FromFlat implements Mapper.
func (StructMapper[T]) FromFlat(values schema.Values, base T) (T, error) {
	out := base
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:              FlatTag,
		IgnoreUntaggedFields: true,
		Squash:               true,
		WeaklyTypedInput:     true,
		ZeroFields:           true,
		Result:               &out,
	})
	if err != nil {
		return base, err
	}
	if err := dec.Decode(map[string]any(values)); err != nil {
		return base, fmt.Errorf("failed to apply values to %T: %w", base, err)
	}
	return out, nil
}

func normalize(v any) any {
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.Bool:
		return rv.Bool()
	case reflect.String:
		return rv.String()
	case reflect.Slice:
		if ids, ok := v.([]int); ok {
			return append([]int{}, ids...)
		}
	}
	return v
}
