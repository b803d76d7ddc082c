package space

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/paramspace/expr"
)

// Load reads and parses the space file at path.
func Load(path string) (expr.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("space: Load: %w", err)
	}
	n, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return n, nil
}

// Parse builds an expression tree from a YAML document.
//
// Errors:
//   - ErrEmpty for a document without content.
//   - ErrForm / ErrInvalid for malformed nodes, prefixed with the YAML line.
//   - expr errors (ErrArity, ErrDuplicateKeyword, ...) from node construction.
func Parse(data []byte) (expr.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("space: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, ErrEmpty
	}
	return FromYAML(doc.Content[0])
}

// FromYAML builds an expression tree from a YAML node.
func FromYAML(n *yaml.Node) (expr.Node, error) {
	if n == nil {
		return nil, ErrEmpty
	}
	node, err := parseNode(n)
	if err != nil {
		return nil, fmt.Errorf("space: %w", err)
	}
	return node, nil
}

func parseNode(n *yaml.Node) (expr.Node, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return parseNode(n.Alias)
	case yaml.MappingNode:
		return parseForm(n)
	default:
		return literal(n)
	}
}

// literal decodes n as a plain value.
func literal(n *yaml.Node) (expr.Node, error) {
	var v any
	if err := n.Decode(&v); err != nil {
		return nil, fmt.Errorf("line %d: %w", n.Line, err)
	}
	return expr.NewLiteral(v), nil
}

func parseForm(n *yaml.Node) (expr.Node, error) {
	// 1) Identify the form by its key set.
	kind, err := formKind(n)
	if err != nil {
		return nil, err
	}

	// 2) Decode and validate the fields.
	var f form
	if err := n.Decode(&f); err != nil {
		return nil, fmt.Errorf("line %d: %w", n.Line, err)
	}
	if err := specValidate.Struct(f); err != nil {
		return nil, fmt.Errorf("line %d: %w: %w", n.Line, ErrInvalid, err)
	}

	// 3) Build the node, descending into children.
	var out expr.Node
	switch kind {
	case KeyLiteral:
		if f.Literal.Kind == 0 {
			return expr.NewLiteral(nil), nil
		}
		return literal(&f.Literal)
	case KeyClass:
		out, err = parseInstance(f)
	case KeyDist:
		out, err = parseParameter(f)
	case KeyCall:
		var args []expr.Node
		if args, err = parseArgs(f.Args); err == nil {
			out = expr.NewCall(f.Call, nodesToAny(args)...)
		}
	case KeyParam:
		out, err = parseParam(f.Param)
	}
	if err != nil {
		return nil, fmt.Errorf("line %d: %w", n.Line, err)
	}

	return out, nil
}

// formKind returns the single form key of mapping n.
func formKind(n *yaml.Node) (string, error) {
	var kind string
	keys := make([]string, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k := n.Content[i].Value
		keys = append(keys, k)
		if _, isForm := allowed[k]; !isForm {
			continue
		}
		if kind != "" {
			return "", fmt.Errorf("line %d: both %q and %q: %w", n.Line, kind, k, ErrForm)
		}
		kind = k
	}
	if kind == "" {
		return "", fmt.Errorf("line %d: none of class/dist/call/param/literal (use literal: for plain maps): %w", n.Line, ErrForm)
	}
	for _, k := range keys {
		if !allowed[kind][k] {
			return "", fmt.Errorf("line %d: key %q not allowed with %q: %w", n.Line, k, kind, ErrForm)
		}
	}

	return kind, nil
}

func parseInstance(f form) (expr.Node, error) {
	id, err := expr.ParseClassID(f.Class)
	if err != nil {
		return nil, err
	}
	var kws []expr.Keyword
	if f.Kwargs.Kind != 0 && f.Kwargs.Tag != "!!null" {
		if f.Kwargs.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("kwargs must be a mapping: %w", ErrForm)
		}
		for i := 0; i+1 < len(f.Kwargs.Content); i += 2 {
			name := f.Kwargs.Content[i].Value
			v, err := parseNode(f.Kwargs.Content[i+1])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			kws = append(kws, expr.Keyword{Name: name, Value: v})
		}
	}

	return expr.NewInstance(id, kws...)
}

func parseParameter(f form) (expr.Node, error) {
	args, err := parseArgs(f.Args)
	if err != nil {
		return nil, err
	}
	p, err := expr.NewParameter(expr.Dist(f.Dist), nodesToAny(args)...)
	if err != nil {
		return nil, err
	}
	if f.Label != nil {
		p = p.WithLabel(*f.Label, nil)
	}

	return p, nil
}

func parseParam(pf *paramForm) (expr.Node, error) {
	if pf == nil {
		return nil, fmt.Errorf("param needs a mapping: %w", ErrForm)
	}
	var opts []expr.ParamOption
	for _, b := range []struct {
		n   *yaml.Node
		opt func(expr.Node) expr.ParamOption
	}{
		{&pf.Low, func(v expr.Node) expr.ParamOption { return expr.WithLow(v) }},
		{&pf.High, func(v expr.Node) expr.ParamOption { return expr.WithHigh(v) }},
		{&pf.Dist, expr.WithDist},
	} {
		if b.n.Kind == 0 || b.n.Tag == "!!null" {
			continue
		}
		v, err := parseNode(b.n)
		if err != nil {
			return nil, err
		}
		opts = append(opts, b.opt(v))
	}

	return expr.Param(pf.Name, opts...)
}

func parseArgs(raw []yaml.Node) ([]expr.Node, error) {
	out := make([]expr.Node, len(raw))
	for i := range raw {
		v, err := parseNode(&raw[i])
		if err != nil {
			return nil, fmt.Errorf("args[%d]: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

func nodesToAny(ns []expr.Node) []any {
	out := make([]any, len(ns))
	for i, n := range ns {
		out[i] = n
	}
	return out
}
