// types.go - node kinds, distribution kinds, class identities and sentinels.
//
// Every node is created by a factory in api.go or param.go and never mutated
// afterwards. Walkers that need to "change" a tree (the labeler, for example)
// rebuild the affected nodes through the With* copy helpers.
//
// Errors:
//
//	ErrUnknownDist       - distribution kind is not one of the supported kinds.
//	ErrArity             - argument count does not match the distribution.
//	ErrHighRequired      - Param called without a distribution and without a high bound.
//	ErrDuplicateKeyword  - an Instance keyword was declared twice.
//	ErrEmptyKeyword      - an Instance keyword name is the empty string.
//	ErrEmptyClass        - a class identity has no name.
//	ErrNilNode           - a nil node was passed where a node is required.

package expr

import (
	"errors"
	"reflect"
	"strings"
)

// Sentinel errors for expression construction.
var (
	// ErrUnknownDist indicates a distribution kind outside the supported set.
	ErrUnknownDist = errors.New("expr: unknown distribution")

	// ErrArity indicates a wrong number of arguments for a distribution.
	ErrArity = errors.New("expr: wrong number of distribution arguments")

	// ErrHighRequired indicates Param was called with neither a distribution nor a high bound.
	ErrHighRequired = errors.New("expr: high must be specified when dist is absent")

	// ErrDuplicateKeyword indicates an Instance declares the same keyword twice.
	ErrDuplicateKeyword = errors.New("expr: duplicate keyword")

	// ErrEmptyKeyword indicates an Instance keyword with an empty name.
	ErrEmptyKeyword = errors.New("expr: keyword name is empty")

	// ErrEmptyClass indicates a class identity without a type name.
	ErrEmptyClass = errors.New("expr: class identity is empty")

	// ErrNilNode indicates a nil node where a node is required.
	ErrNilNode = errors.New("expr: node is nil")
)

// Node is one vertex of an expression tree.
//
// The set of node kinds is closed: Parameter, Call, Instance and Literal.
// The unexported marker method keeps other packages from adding kinds, and
// Accept dispatches to the Visitor method for the concrete kind.
type Node interface {
	// Accept calls the Visitor method matching the node kind.
	Accept(v Visitor) error

	// String renders the node in call notation, e.g. "min(5, uniform[x](0, 10))".
	String() string

	node()
}

// Visitor has one method per node kind.
type Visitor interface {
	VisitParameter(p *Parameter) error
	VisitCall(c *Call) error
	VisitInstance(in *Instance) error
	VisitLiteral(l *Literal) error
}

// Dist names a distribution kind understood by sampling engines.
type Dist string

// Supported distribution kinds.
const (
	DistChoice      Dist = "choice"
	DistRandInt     Dist = "randint"
	DistUniform     Dist = "uniform"
	DistLogUniform  Dist = "loguniform"
	DistNormal      Dist = "normal"
	DistLogNormal   Dist = "lognormal"
	DistQUniform    Dist = "quniform"
	DistQLogUniform Dist = "qloguniform"
	DistQNormal     Dist = "qnormal"
	DistQLogNormal  Dist = "qlognormal"
)

// variadic marks a distribution that takes one or more arguments.
const variadic = -1

// distArity maps each kind to its fixed argument count (or variadic).
var distArity = map[Dist]int{
	DistChoice:      variadic,
	DistRandInt:     1,
	DistUniform:     2,
	DistLogUniform:  2,
	DistNormal:      2,
	DistLogNormal:   2,
	DistQUniform:    3,
	DistQLogUniform: 3,
	DistQNormal:     3,
	DistQLogNormal:  3,
}

// Dists returns all supported kinds in a stable order.
func Dists() []Dist {
	return []Dist{
		DistChoice, DistRandInt,
		DistUniform, DistLogUniform, DistNormal, DistLogNormal,
		DistQUniform, DistQLogUniform, DistQNormal, DistQLogNormal,
	}
}

// Valid reports whether d is a supported kind.
func (d Dist) Valid() bool {
	_, ok := distArity[d]
	return ok
}

// Arity returns the argument count of d. For choice it returns (1, true):
// at least one argument, any number more.
func (d Dist) Arity() (n int, isVariadic bool) {
	a, ok := distArity[d]
	if !ok {
		return 0, false
	}
	if a == variadic {
		return 1, true
	}
	return a, false
}

// Combinator operator names with built-in meaning.
const (
	OpMin = "min"
	OpMax = "max"
)

// Reserved mapping keys carrying a class identity in engine and sampled
// value trees. ClassKey holds "module.Name"; ModuleKey + NameKey is the
// equivalent two-key form.
const (
	ClassKey  = "__class__"
	ModuleKey = "__module__"
	NameKey   = "__name__"
)

// ClassID is the two-part identity of a constructible type: the defining
// package path and the type name.
type ClassID struct {
	Module string
	Name   string
}

// String renders the identity as "module.Name" (or just "Name" without module).
func (c ClassID) String() string {
	if c.Module == "" {
		return c.Name
	}
	return c.Module + "." + c.Name
}

// IsZero reports whether c has neither module nor name.
func (c ClassID) IsZero() bool {
	return c.Module == "" && c.Name == ""
}

// ParseClassID splits "module.path.Name" on its last dot.
// A string without dots yields an empty Module.
func ParseClassID(s string) (ClassID, error) {
	i := strings.LastIndexByte(s, '.')
	id := ClassID{Module: s[:max(i, 0)], Name: s[i+1:]}
	if id.Name == "" {
		return ClassID{}, ErrEmptyClass
	}
	return id, nil
}

// ClassOf returns the identity of T (pointer types are dereferenced):
// the package import path plus the type name.
func ClassOf[T any]() ClassID {
	t := reflect.TypeFor[T]()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return ClassID{Module: t.PkgPath(), Name: t.Name()}
}

// Keyword is one named child of an Instance.
type Keyword struct {
	Name  string
	Value Node
}

// KW builds a Keyword, lifting v into a Node (see Lift).
func KW(name string, v any) Keyword {
	return Keyword{Name: name, Value: Lift(v)}
}

// Parameter is a leaf random variable: a distribution kind plus its arguments.
// A Parameter returned by a factory is unlabeled; labeling passes return
// labeled copies.
type Parameter struct {
	dist    Dist
	args    []Node
	label   string
	labeled bool
}

// Call is a combinator applying an operator to child expressions
// (min, max, or any name an engine namespace understands).
type Call struct {
	op   string
	args []Node
}

// Instance describes an object to construct later from keyword children.
// Keyword order is declaration order and drives labeling.
type Instance struct {
	class  ClassID
	kwargs []Keyword
}

// Literal is a constant: number, string, bool, nil or a plain sequence.
type Literal struct {
	value any
}

func (*Parameter) node() {}
func (*Call) node()      {}
func (*Instance) node()  {}
func (*Literal) node()   {}

// Accept implements Node.
func (p *Parameter) Accept(v Visitor) error { return v.VisitParameter(p) }

// Accept implements Node.
func (c *Call) Accept(v Visitor) error { return v.VisitCall(c) }

// Accept implements Node.
func (in *Instance) Accept(v Visitor) error { return v.VisitInstance(in) }

// Accept implements Node.
func (l *Literal) Accept(v Visitor) error { return v.VisitLiteral(l) }
