package decode

import (
	"github.com/go-viper/mapstructure/v2"

	"github.com/katalvlaran/paramspace/expr"
)

// TagName is the struct tag Struct factories read field names from.
const TagName = "param"

// Struct returns a Factory building a *T from keyword arguments. Keys are
// matched against `param:"..."` tags, falling back to a case-insensitive field
// name match. Unknown keywords are an error.
func Struct[T any]() Factory {
	return func(kwargs map[string]any) (any, error) {
		out := new(T)
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:      out,
			TagName:     TagName,
			ErrorUnused: true,
		})
		if err != nil {
			return nil, err
		}
		if err := dec.Decode(kwargs); err != nil {
			return nil, err
		}
		return out, nil
	}
}

// RegisterStruct binds the identity of T (see expr.ClassOf) to Struct[T] in reg.
func RegisterStruct[T any](reg *Registry) error {
	return reg.Register(expr.ClassOf[T](), Struct[T]())
}
