package expr

import (
	"fmt"
	"reflect"
	"strings"
)

// String renders "kind(args...)", or "kind[label](args...)" once labeled.
func (p *Parameter) String() string {
	var sb strings.Builder
	sb.WriteString(string(p.dist))
	if p.labeled {
		sb.WriteString("[" + p.label + "]")
	}
	writeArgs(&sb, p.args)
	return sb.String()
}

// String renders "op(args...)".
func (c *Call) String() string {
	var sb strings.Builder
	sb.WriteString(c.op)
	writeArgs(&sb, c.args)
	return sb.String()
}

// String renders "module.Name(k1=v1, k2=v2)".
func (in *Instance) String() string {
	var sb strings.Builder
	sb.WriteString(in.class.String())
	sb.WriteByte('(')
	for i, kw := range in.kwargs {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(kw.Name)
		sb.WriteByte('=')
		sb.WriteString(kw.Value.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

// String renders strings quoted and everything else with %v.
func (l *Literal) String() string {
	if s, ok := l.value.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("%v", l.value)
}

func writeArgs(sb *strings.Builder, args []Node) {
	sb.WriteByte('(')
	for i, a := range args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(a.String())
	}
	sb.WriteByte(')')
}

// Equal reports whether a and b have the same structure: same kinds, same
// distributions/operators/classes, same keyword order, same labels and equal
// literals. Numeric literals compare by value, so 0 and 0.0 are equal.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case *Parameter:
		y, ok := b.(*Parameter)
		return ok && x.dist == y.dist && x.labeled == y.labeled &&
			x.label == y.label && equalAll(x.args, y.args)
	case *Call:
		y, ok := b.(*Call)
		return ok && x.op == y.op && equalAll(x.args, y.args)
	case *Instance:
		y, ok := b.(*Instance)
		if !ok || x.class != y.class || len(x.kwargs) != len(y.kwargs) {
			return false
		}
		for i := range x.kwargs {
			if x.kwargs[i].Name != y.kwargs[i].Name || !Equal(x.kwargs[i].Value, y.kwargs[i].Value) {
				return false
			}
		}
		return true
	case *Literal:
		y, ok := b.(*Literal)
		return ok && equalValues(x.value, y.value)
	}
	return false
}

func equalAll(a, b []Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func equalValues(a, b any) bool {
	fa, aNum := AsFloat(a)
	fb, bNum := AsFloat(b)
	if aNum && bNum {
		return fa == fb
	}
	return reflect.DeepEqual(a, b)
}

// AsFloat converts any Go integer or float value to float64.
func AsFloat(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

// Children returns the direct children of n in traversal order:
// arguments for Parameter and Call, keyword values for Instance.
func Children(n Node) []Node {
	switch t := n.(type) {
	case *Parameter:
		return t.Args()
	case *Call:
		return t.Args()
	case *Instance:
		out := make([]Node, len(t.kwargs))
		for i, kw := range t.kwargs {
			out[i] = kw.Value
		}
		return out
	}
	return nil
}

// Inspect walks the tree depth-first in declaration order, calling fn before
// descending. Returning false from fn skips the node's children.
func Inspect(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range Children(n) {
		Inspect(c, fn)
	}
}

// Leaves returns every Parameter of the tree in declaration order, including
// parameters nested in the arguments of other parameters.
func Leaves(n Node) []*Parameter {
	var out []*Parameter
	Inspect(n, func(c Node) bool {
		if p, ok := c.(*Parameter); ok {
			out = append(out, p)
		}
		return true
	})
	return out
}
