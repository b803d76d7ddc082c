// Package decode rebuilds application objects from plain value trees.
//
// A value tree is what a sampling engine hands back after drawing a point:
// maps, sequences and scalars, where a map carrying a class identity stands
// for an object to construct. Two identity forms are accepted:
//
//	{"__class__": "pkg/path.Type", ...kwargs}
//	{"__module__": "pkg/path", "__name__": "Type", ...kwargs}
//
// Every other key of such a map is a keyword argument. Values are decoded
// bottom-up: all keyword values first, then the registered Factory for the
// identity is called with them.
//
// Plain maps and sequences are rebuilt with the same concrete type as the
// input (a Tuple stays a Tuple, a []float64 stays a []float64). Scalars pass
// through unchanged.
package decode

import (
	"fmt"
	"log/slog"
	"reflect"

	"github.com/katalvlaran/paramspace/expr"
)

// Tuple is a fixed sequence. It decodes to a Tuple, never to a []any.
type Tuple []any

// Option configures a Decoder.
type Option func(*Decoder)

// WithLogger sets the logger used for debug traces of constructed objects.
// Panics on nil.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic("decode: WithLogger(nil)")
	}
	return func(d *Decoder) {
		d.logger = l
	}
}

// WithConcurrency bounds the number of goroutines DecodeAll uses. n < 1 is
// ignored.
func WithConcurrency(n int) Option {
	return func(d *Decoder) {
		if n > 0 {
			d.limit = n
		}
	}
}

// Decoder resolves class identities through a Registry. It is stateless
// between calls and safe for concurrent use.
type Decoder struct {
	reg    *Registry
	logger *slog.Logger
	limit  int
}

// New creates a Decoder over reg; a nil reg selects Default().
func New(reg *Registry, opts ...Option) *Decoder {
	if reg == nil {
		reg = Default()
	}
	d := &Decoder{reg: reg, logger: slog.Default()}
	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Decode rebuilds v.
//
// Errors (all fatal, no partial result):
//   - ErrClassKey for a malformed class reference.
//   - ErrUnresolvedClass naming the identity nobody registered.
//   - ErrConstruct wrapping the factory's own error.
//   - ErrElemType when a decoded object cannot be stored back into a typed container.
func (d *Decoder) Decode(v any) (any, error) {
	out, err := d.decode(v)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (d *Decoder) decode(v any) (any, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return d.decodeMapping(t)
	case []any:
		if t == nil {
			return t, nil
		}
		out := make([]any, len(t))
		for i, e := range t {
			dv, err := d.decode(e)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = dv
		}
		return out, nil
	case string, bool, int, int64, float64:
		return v, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		return d.decodeMapValue(rv)
	case reflect.Slice:
		if rv.IsNil() || rv.Type().Elem().Kind() == reflect.Uint8 {
			return v, nil
		}
		return d.decodeSeq(rv, reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len()))
	case reflect.Array:
		return d.decodeSeq(rv, reflect.New(rv.Type()).Elem())
	default:
		return v, nil
	}
}

// decodeMapping handles the common map[string]any shape, which is the only
// shape that may carry a class identity.
func (d *Decoder) decodeMapping(m map[string]any) (any, error) {
	id, isClass, err := classOf(m)
	if err != nil {
		return nil, err
	}

	// 1) Decode every non-reserved value first.
	kwargs := make(map[string]any, len(m))
	for k, e := range m {
		if isClass && reserved(k) {
			continue
		}
		dv, err := d.decode(e)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", k, err)
		}
		kwargs[k] = dv
	}
	if !isClass {
		return kwargs, nil
	}

	// 2) Resolve, then construct.
	f, err := d.reg.Resolve(id.Module, id.Name)
	if err != nil {
		resolveFailures.Inc()
		return nil, err
	}
	obj, err := f(kwargs)
	if err != nil {
		return nil, fmt.Errorf("decode: construct %s: %w: %w", id, ErrConstruct, err)
	}
	objectsConstructed.WithLabelValues(id.String()).Inc()
	d.logger.Debug("decode: constructed object", slog.String("class", id.String()), slog.Int("kwargs", len(kwargs)))

	return obj, nil
}

// decodeMapValue rebuilds a map of any other concrete type, keeping that type.
func (d *Decoder) decodeMapValue(rv reflect.Value) (any, error) {
	if rv.IsNil() {
		return rv.Interface(), nil
	}
	elem := rv.Type().Elem()
	out := reflect.MakeMapWithSize(rv.Type(), rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		dv, err := d.decode(iter.Value().Interface())
		if err != nil {
			return nil, fmt.Errorf("%v: %w", iter.Key().Interface(), err)
		}
		ev, err := fit(dv, elem)
		if err != nil {
			return nil, fmt.Errorf("%v: %w", iter.Key().Interface(), err)
		}
		out.SetMapIndex(iter.Key(), ev)
	}

	return out.Interface(), nil
}

// decodeSeq fills dst (same type as src) with the decoded elements of src.
func (d *Decoder) decodeSeq(src, dst reflect.Value) (any, error) {
	elem := src.Type().Elem()
	for i := 0; i < src.Len(); i++ {
		dv, err := d.decode(src.Index(i).Interface())
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		ev, err := fit(dv, elem)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		dst.Index(i).Set(ev)
	}

	return dst.Interface(), nil
}

// fit converts a decoded value to a container element type.
func fit(v any, elem reflect.Type) (reflect.Value, error) {
	if v == nil {
		switch elem.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(elem), nil
		}
		return reflect.Value{}, fmt.Errorf("nil into %s: %w", elem, ErrElemType)
	}
	rv := reflect.ValueOf(v)
	if !rv.Type().AssignableTo(elem) {
		return reflect.Value{}, fmt.Errorf("%T into %s: %w", v, elem, ErrElemType)
	}
	return rv, nil
}

func reserved(k string) bool {
	return k == expr.ClassKey || k == expr.ModuleKey || k == expr.NameKey
}

// classOf reports the class identity m carries, if any.
func classOf(m map[string]any) (expr.ClassID, bool, error) {
	full, hasFull := m[expr.ClassKey]
	mod, hasMod := m[expr.ModuleKey]
	name, hasName := m[expr.NameKey]

	switch {
	case !hasFull && !hasMod && !hasName:
		return expr.ClassID{}, false, nil
	case hasFull && (hasMod || hasName):
		return expr.ClassID{}, false, fmt.Errorf("both %s and %s/%s present: %w",
			expr.ClassKey, expr.ModuleKey, expr.NameKey, ErrClassKey)
	case hasFull:
		s, ok := full.(string)
		if !ok {
			return expr.ClassID{}, false, fmt.Errorf("%s is %T: %w", expr.ClassKey, full, ErrClassKey)
		}
		id, err := expr.ParseClassID(s)
		if err != nil {
			return expr.ClassID{}, false, fmt.Errorf("%s %q: %w", expr.ClassKey, s, ErrClassKey)
		}
		return id, true, nil
	case hasMod != hasName:
		return expr.ClassID{}, false, fmt.Errorf("only one of %s/%s present: %w",
			expr.ModuleKey, expr.NameKey, ErrClassKey)
	}

	ms, okM := mod.(string)
	ns, okN := name.(string)
	if !okM || !okN || ns == "" {
		return expr.ClassID{}, false, fmt.Errorf("%s=%v %s=%v: %w",
			expr.ModuleKey, mod, expr.NameKey, name, ErrClassKey)
	}

	return expr.ClassID{Module: ms, Name: ns}, true, nil
}
