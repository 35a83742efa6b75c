// Package form flattens parameter structs into the key/value pairs of an
// application/x-www-form-urlencoded request body.
//
// Keys follow the bracket convention of the API:
//
//	cancel_url=...
//	payment_intent_data[transfer_data][destination]=acct_...
//	line_items[0][name]=Widget
//	payment_intent_data[metadata][order]=42
//
// Nil pointers, nil interfaces, empty slices and empty maps contribute nothing.
// Non-pointer scalars are treated as mandatory and always written, unless the
// field is tagged `form:"name,omitempty"` and holds its zero value.
package form

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

// ErrUnsupportedType is returned for values that have no text form on the wire.
var ErrUnsupportedType = errors.New("form: unsupported type")

// Valuer is implemented by types that render themselves as a single wire token,
// such as closed enumerations. A Valuer error aborts encoding.
type Valuer interface {
	FormValue() (string, error)
}

var valuerType = reflect.TypeFor[Valuer]()

type pair struct {
	key   string
	value string
}

// Values is an ordered list of form pairs.
//
// Unlike url.Values it keeps insertion order, so line_items[2] never sorts
// before line_items[10] and two encodings of one value are byte-identical.
type Values struct {
	pairs []pair
}

func (v *Values) Add(key, value string) {
	v.pairs = append(v.pairs, pair{key: key, value: value})
}

func (v *Values) Len() int {
	if v == nil {
		return 0
	}
	return len(v.pairs)
}

func (v *Values) Empty() bool { return v.Len() == 0 }

// Get returns the first value stored under key.
func (v *Values) Get(key string) (string, bool) {
	if v == nil {
		return "", false
	}
	for _, p := range v.pairs {
		if p.key == key {
			return p.value, true
		}
	}
	return "", false
}

// Keys returns the keys in insertion order.
func (v *Values) Keys() []string {
	if v == nil {
		return nil
	}
	out := make([]string, len(v.pairs))
	for i, p := range v.pairs {
		out[i] = p.key
	}
	return out
}

// Each calls fn for every pair in insertion order, repeated keys included.
func (v *Values) Each(fn func(key, value string)) {
	if v == nil {
		return
	}
	for _, p := range v.pairs {
		fn(p.key, p.value)
	}
}

// Encode renders the pairs as a URL-encoded body, preserving order.
func (v *Values) Encode() string {
	if v == nil {
		return ""
	}
	var b strings.Builder
	for i, p := range v.pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.value))
	}
	return b.String()
}

func (v *Values) ToValues() url.Values {
	out := url.Values{}
	if v == nil {
		return out
	}
	for _, p := range v.pairs {
		out.Add(p.key, p.value)
	}
	return out
}

// Marshal flattens v, which must be a struct, a string-keyed map or a pointer to one.
// A nil v yields empty Values.
func Marshal(v any) (*Values, error) {
	values := &Values{}
	if err := AppendTo(values, v); err != nil {
		return nil, err
	}
	return values, nil
}

// AppendTo flattens v into values. See Marshal.
func AppendTo(values *Values, v any) error {
	if values == nil {
		return errors.New("form: nil values")
	}
	switch p := v.(type) {
	case nil:
		return nil
	case *Values:
		if p != nil {
			values.pairs = append(values.pairs, p.pairs...)
		}
		return nil
	case url.Values:
		keys := make([]string, 0, len(p))
		for k := range p {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			for _, s := range p[k] {
				values.Add(k, s)
			}
		}
		return nil
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Struct, reflect.Map:
		return encode(values, "", rv)
	default:
		return fmt.Errorf("%w: top-level %s", ErrUnsupportedType, rv.Type())
	}
}

func encode(values *Values, key string, rv reflect.Value) error {
	if !rv.IsValid() {
		return nil
	}
	if rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil
		}
	}
	if rv.Type().Implements(valuerType) && rv.CanInterface() {
		s, err := rv.Interface().(Valuer).FormValue()
		if err != nil {
			return fmt.Errorf("form: %s: %w", key, err)
		}
		values.Add(key, s)
		return nil
	}

	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		return encode(values, key, rv.Elem())
	case reflect.String:
		values.Add(key, rv.String())
	case reflect.Bool:
		values.Add(key, strconv.FormatBool(rv.Bool()))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		values.Add(key, strconv.FormatInt(rv.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		values.Add(key, strconv.FormatUint(rv.Uint(), 10))
	case reflect.Float32, reflect.Float64:
		values.Add(key, strconv.FormatFloat(rv.Float(), 'f', -1, rv.Type().Bits()))
	case reflect.Struct:
		return encodeStruct(values, key, rv)
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if err := encode(values, indexKey(key, i), rv.Index(i)); err != nil {
				return err
			}
		}
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return fmt.Errorf("%w: map key %s at %q", ErrUnsupportedType, rv.Type().Key(), key)
		}
		keys := rv.MapKeys()
		slices.SortFunc(keys, func(a, b reflect.Value) int {
			return strings.Compare(a.String(), b.String())
		})
		for _, k := range keys {
			if err := encode(values, childKey(key, k.String()), rv.MapIndex(k)); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("%w: %s at %q", ErrUnsupportedType, rv.Type(), key)
	}
	return nil
}

func encodeStruct(values *Values, key string, rv reflect.Value) error {
	t := rv.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag := f.Tag.Get("form")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")
		fv := rv.Field(i)

		// Untagged embedded structs are flattened into the parent.
		if f.Anonymous && name == "" {
			ev := fv
			if ev.Kind() == reflect.Pointer {
				if ev.IsNil() {
					continue
				}
				ev = ev.Elem()
			}
			if ev.Kind() == reflect.Struct {
				if err := encodeStruct(values, key, ev); err != nil {
					return err
				}
				continue
			}
		}

		if name == "" {
			name = f.Name
		}
		if hasOption(opts, "omitempty") && fv.IsZero() {
			continue
		}
		if err := encode(values, childKey(key, name), fv); err != nil {
			return err
		}
	}
	return nil
}

func hasOption(opts, want string) bool {
	for opts != "" {
		var o string
		o, opts, _ = strings.Cut(opts, ",")
		if o == want {
			return true
		}
	}
	return false
}

func childKey(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "[" + name + "]"
}

func indexKey(parent string, i int) string {
	return parent + "[" + strconv.Itoa(i) + "]"
}
