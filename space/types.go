// SPDX-License-Identifier: MIT
// Package: paramspace/space
//
// types.go - YAML forms of expression nodes and the shared validator.
//
// Every YAML mapping that stands for a node carries exactly one form key:
//
//	class:   "pkg/path.Type"      kwargs: {name: <node>, ...}
//	dist:    uniform              args: [<node>, ...]    label: optional
//	call:    min                  args: [<node>, ...]
//	param:   {name, low, high, dist}
//	literal: <any YAML value>
//
// Scalars and sequences outside a form are literals. Keyword order in
// kwargs is preserved.

package space

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/paramspace/expr"
)

// Form keys.
const (
	KeyClass   = "class"
	KeyKwargs  = "kwargs"
	KeyDist    = "dist"
	KeyLabel   = "label"
	KeyArgs    = "args"
	KeyCall    = "call"
	KeyParam   = "param"
	KeyLiteral = "literal"
)

var (
	// ErrEmpty is returned for a document with no node.
	ErrEmpty = errors.New("space: empty document")

	// ErrForm is returned for a mapping with no form key, several form keys,
	// or keys that do not belong to its form.
	ErrForm = errors.New("space: invalid node form")

	// ErrInvalid is returned when a form's fields fail validation.
	ErrInvalid = errors.New("space: invalid node")

	// ErrUnsupported is returned by Marshal for values YAML cannot carry back.
	ErrUnsupported = errors.New("space: node cannot be encoded")
)

// form is the decoded shape of a node mapping. Child nodes stay raw until the
// parser descends into them; a zero yaml.Node (Kind 0) means the key was absent.
type form struct {
	Class   string      `yaml:"class"   validate:"omitempty,classid"`
	Kwargs  yaml.Node   `yaml:"kwargs"  validate:"-"`
	Dist    string      `yaml:"dist"    validate:"omitempty,dist"`
	Label   *string     `yaml:"label"   validate:"omitempty"`
	Args    []yaml.Node `yaml:"args"    validate:"-"`
	Call    string      `yaml:"call"    validate:"omitempty,min=1"`
	Param   *paramForm  `yaml:"param"`
	Literal yaml.Node   `yaml:"literal" validate:"-"`
}

// paramForm mirrors expr.Param's options.
type paramForm struct {
	Name string    `yaml:"name" validate:"omitempty,min=1"`
	Low  yaml.Node `yaml:"low"  validate:"-"`
	High yaml.Node `yaml:"high" validate:"-"`
	Dist yaml.Node `yaml:"dist" validate:"-"`
}

// allowed lists the keys each form may carry, keyed by the form key.
var allowed = map[string]map[string]bool{
	KeyClass:   {KeyClass: true, KeyKwargs: true},
	KeyDist:    {KeyDist: true, KeyArgs: true, KeyLabel: true},
	KeyCall:    {KeyCall: true, KeyArgs: true},
	KeyParam:   {KeyParam: true},
	KeyLiteral: {KeyLiteral: true},
}

// specValidate checks decoded forms. Initialized in init() with the custom
// dist and classid validators.
var specValidate *validator.Validate

func init() {
	specValidate = validator.New()

	_ = specValidate.RegisterValidation("dist", func(fl validator.FieldLevel) bool {
		return expr.Dist(fl.Field().String()).Valid()
	})
	_ = specValidate.RegisterValidation("classid", func(fl validator.FieldLevel) bool {
		_, err := expr.ParseClassID(fl.Field().String())
		return err == nil
	})
}
