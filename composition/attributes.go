package composition

import (
	"bytes"
	"fmt"
	"maps"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"

	"attr-composer/internal/inflect"
)

// StructTag is the struct tag consulted when Go structs are converted to and
// from Attributes.
const StructTag = "composition"

// Attributes is the map form of a value object, keyed by alias.
// Values of nested composed objects are themselves Attributes.
type Attributes map[string]any

// Exporter is implemented by values that can present themselves as
// Attributes. Objects implement it; the forward setter accepts any Exporter.
type Exporter interface {
	Attributes() (Attributes, error)
}

// Clone returns a shallow copy.
func (a Attributes) Clone() Attributes {
	if a == nil {
		return nil
	}

	return maps.Clone(a)
}

// normalized re-keys the map by inflect.Key so aliases compare the way
// accessor names do.
func (a Attributes) normalized() map[string]any {
	out := make(map[string]any, len(a))
	for k, v := range a {
		out[inflect.Key(k)] = v
	}

	return out
}

// IsBlank reports whether v counts as "no value": nil, a nil pointer, an
// empty or whitespace-only string, or an empty slice or map. false and 0
// are not blank.
func IsBlank(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case []byte:
		return len(bytes.TrimSpace(x)) == 0
	case *string:
		return x == nil || strings.TrimSpace(*x) == ""
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	case reflect.Map, reflect.Slice:
		return rv.Len() == 0
	default:
		return false
	}
}

// isNil reports a nil interface or a typed nil pointer or map.
func isNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}

// toAttributes extracts the attribute map from a setter value: an Exporter,
// an attribute map, or a struct (decoded by field name or StructTag).
func toAttributes(v any) (Attributes, error) {
	switch x := v.(type) {
	case Exporter:
		return x.Attributes()
	case Attributes:
		return x, nil
	case map[string]any:
		return Attributes(x), nil
	case map[string]string:
		out := make(Attributes, len(x))
		for k, s := range x {
			out[k] = s
		}

		return out, nil
	}

	if reflect.Indirect(reflect.ValueOf(v)).Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: cannot read attributes from %T", ErrUnsupportedValue, v)
	}

	out := map[string]any{}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: StructTag,
		Result:  &out,
	})
	if err != nil {
		return nil, err
	}

	if err := dec.Decode(v); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedValue, err)
	}

	return Attributes(out), nil
}

// decodeAttributes fills the struct pointed to by out from attrs, matching
// keys to fields by inflect.Key.
func decodeAttributes(attrs Attributes, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          StructTag,
		Result:           out,
		WeaklyTypedInput: true,
		MatchName: func(mapKey, fieldName string) bool {
			return inflect.Equal(mapKey, fieldName)
		},
	})
	if err != nil {
		return err
	}

	return dec.Decode(map[string]any(attrs))
}
