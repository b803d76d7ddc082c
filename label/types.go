// types.go - options, entries and results of a labeling pass.

package label

import (
	"errors"

	"github.com/katalvlaran/paramspace/expr"
)

// DefaultDelimiter separates keyword names in a path.
const DefaultDelimiter = "."

// SuffixSeparator joins a path and its disambiguation counter ("p_1").
const SuffixSeparator = "_"

var (
	// ErrNilTree is returned when Label receives a nil tree.
	ErrNilTree = errors.New("label: tree is nil")

	// ErrAmbiguousKeyword is returned under WithStrictKeywords when an
	// Instance keyword contains the delimiter.
	ErrAmbiguousKeyword = errors.New("label: keyword contains the path delimiter")
)

// Option configures a labeling pass.
type Option func(*Options)

// Options holds the knobs of one labeling pass.
type Options struct {
	// RootPath prefixes every path. Empty by default, in which case the
	// first keyword level produces bare keyword names.
	RootPath string

	// Delimiter joins keyword names; defaults to ".".
	Delimiter string

	// StrictKeywords rejects keywords that contain Delimiter. Off by default:
	// such names produce ambiguous labels and the caller owns that choice.
	StrictKeywords bool

	// OnLabel, if non-nil, is called once per variable after the variable
	// and its arguments are labeled (post-order). Returning an error aborts
	// the pass and no Result is returned.
	OnLabel func(e Entry) error
}

// DefaultOptions returns options with an empty root path, "." delimiter,
// lenient keyword checks and no hook.
func DefaultOptions() Options {
	return Options{
		RootPath:       "",
		Delimiter:      DefaultDelimiter,
		StrictKeywords: false,
		OnLabel:        nil,
	}
}

// WithRootPath sets the path of the tree root.
func WithRootPath(path string) Option {
	return func(o *Options) {
		o.RootPath = path
	}
}

// WithDelimiter sets the keyword delimiter. Panics on the empty string.
func WithDelimiter(d string) Option {
	if d == "" {
		panic("label: WithDelimiter(\"\")")
	}
	return func(o *Options) {
		o.Delimiter = d
	}
}

// WithStrictKeywords enables ErrAmbiguousKeyword checks.
func WithStrictKeywords() Option {
	return func(o *Options) {
		o.StrictKeywords = true
	}
}

// WithOnLabel installs a per-variable hook.
func WithOnLabel(fn func(e Entry) error) Option {
	return func(o *Options) {
		o.OnLabel = fn
	}
}

// Entry describes one labeled variable.
type Entry struct {
	// Label is unique within the pass.
	Label string

	// Path is the structural path the label was derived from.
	Path string

	// Param is the labeled copy of the variable, as it appears in Result.Tree.
	Param *expr.Parameter
}

// Result is the outcome of a labeling pass.
type Result struct {
	// Tree is a copy of the input with every Parameter labeled.
	Tree expr.Node

	// Entries lists the variables in traversal (declaration) order.
	Entries []Entry

	index map[string]int
}

// Lookup returns the entry for label.
func (r *Result) Lookup(label string) (Entry, bool) {
	i, ok := r.index[label]
	if !ok {
		return Entry{}, false
	}
	return r.Entries[i], true
}

// Labels returns all labels in traversal order.
func (r *Result) Labels() []string {
	out := make([]string, len(r.Entries))
	for i, e := range r.Entries {
		out[i] = e.Label
	}
	return out
}
