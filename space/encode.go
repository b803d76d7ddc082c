package space

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/paramspace/expr"
)

// Marshal renders tree in the YAML forms Parse reads. Param helpers are not
// recovered: a clamped parameter comes back as nested min/max calls.
func Marshal(tree expr.Node) ([]byte, error) {
	n, err := ToYAML(tree)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(n); err != nil {
		return nil, fmt.Errorf("space: Marshal: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("space: Marshal: %w", err)
	}

	return buf.Bytes(), nil
}

// ToYAML converts tree to a YAML node.
func ToYAML(tree expr.Node) (*yaml.Node, error) {
	if expr.IsNil(tree) {
		return nil, fmt.Errorf("space: ToYAML: %w", expr.ErrNilNode)
	}
	e := &encoder{}
	if err := tree.Accept(e); err != nil {
		return nil, err
	}
	return e.out, nil
}

// encoder is a Visitor; out holds the YAML node of the last visit.
type encoder struct {
	out *yaml.Node
}

func (e *encoder) VisitParameter(p *expr.Parameter) error {
	m := mapping(KeyDist, str(string(p.Dist())))
	if p.Labeled() {
		m.Content = append(m.Content, str(KeyLabel), str(p.Label()))
	}
	args, err := e.seq(p.Args())
	if err != nil {
		return err
	}
	m.Content = append(m.Content, str(KeyArgs), args)
	e.out = m

	return nil
}

func (e *encoder) VisitCall(c *expr.Call) error {
	args, err := e.seq(c.Args())
	if err != nil {
		return err
	}
	e.out = mapping(KeyCall, str(c.Op()), KeyArgs, args)
	return nil
}

func (e *encoder) VisitInstance(in *expr.Instance) error {
	m := mapping(KeyClass, str(in.Class().String()))
	if in.Len() > 0 {
		kw := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range in.Keywords() {
			if err := k.Value.Accept(e); err != nil {
				return err
			}
			kw.Content = append(kw.Content, str(k.Name), e.out)
		}
		m.Content = append(m.Content, str(KeyKwargs), kw)
	}
	e.out = m

	return nil
}

func (e *encoder) VisitLiteral(l *expr.Literal) error {
	var n yaml.Node
	if err := n.Encode(l.Value()); err != nil {
		return fmt.Errorf("space: literal %s: %w: %w", l, ErrUnsupported, err)
	}
	// A bare mapping would read back as a node form.
	if n.Kind == yaml.MappingNode {
		e.out = mapping(KeyLiteral, &n)
		return nil
	}
	e.out = &n

	return nil
}

func (e *encoder) seq(nodes []expr.Node) (*yaml.Node, error) {
	s := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Style: yaml.FlowStyle}
	for _, n := range nodes {
		if err := n.Accept(e); err != nil {
			return nil, err
		}
		if e.out.Kind != yaml.ScalarNode {
			s.Style = 0
		}
		s.Content = append(s.Content, e.out)
	}
	return s, nil
}

func str(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

// mapping builds a mapping from alternating keys and values; string values
// become scalar nodes.
func mapping(kv ...any) *yaml.Node {
	m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for i := 0; i+1 < len(kv); i += 2 {
		v, ok := kv[i+1].(*yaml.Node)
		if !ok {
			v = str(fmt.Sprint(kv[i+1]))
		}
		m.Content = append(m.Content, str(kv[i].(string)), v)
	}
	return m
}
