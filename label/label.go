// Package label assigns every random variable of an expression tree a
// unique, reproducible label derived from its structural path.
//
// Key features:
//   - Label(tree, opts...): depth-first, left-to-right over declared keyword order
//   - Path = keyword names from the root joined by the delimiter
//   - Variables sharing a path get "path", "path_1", "path_2", ... in visit order
//   - Counters belong to one call; concurrent passes never share state
//   - OnLabel hook with error abort, optional strict keyword check
//
// Complexity:
//
//   - Time:   O(N) nodes, plus O(L) per label string built.
//   - Memory: O(N) for the rebuilt tree and O(V) for counters (V = variables).
//
// Errors:
//
//   - ErrNilTree            if tree is nil.
//   - ErrAmbiguousKeyword   under WithStrictKeywords.
//   - any error returned by OnLabel.
package label

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/katalvlaran/paramspace/expr"
)

// walker carries the state of one labeling pass.
type walker struct {
	opts     Options
	path     string              // path of the node being visited
	counters map[string]int      // path -> next suffix
	used     map[string]struct{} // labels already handed out
	out      expr.Node           // rebuilt node of the last visit
	res      *Result
}

// Label walks tree and returns a labeled copy plus the label table.
// The input tree is not modified.
func Label(tree expr.Node, opts ...Option) (*Result, error) {
	// 1. Validate input
	if expr.IsNil(tree) {
		return nil, ErrNilTree
	}

	// 2. Apply options
	lopts := DefaultOptions()
	for _, fn := range opts {
		fn(&lopts)
	}

	// 3. Fresh per-call state
	w := &walker{
		opts:     lopts,
		path:     lopts.RootPath,
		counters: make(map[string]int),
		used:     make(map[string]struct{}),
		res:      &Result{index: make(map[string]int)},
	}

	// 4. Traverse
	if err := tree.Accept(w); err != nil {
		labelPassErrors.Inc()
		return nil, err
	}

	w.res.Tree = w.out
	labelsAssigned.Add(float64(len(w.res.Entries)))

	return w.res, nil
}

// MustLabel is Label that panics on error.
func MustLabel(tree expr.Node, opts ...Option) *Result {
	res, err := Label(tree, opts...)
	if err != nil {
		panic(err)
	}
	return res
}

// VisitParameter labels p first, then its arguments under the same path,
// so a choice is labeled before the variables inside its options.
func (w *walker) VisitParameter(p *expr.Parameter) error {
	lbl := w.next(w.path)
	entryIdx := len(w.res.Entries)
	w.res.Entries = append(w.res.Entries, Entry{Label: lbl, Path: w.path})
	w.res.index[lbl] = entryIdx

	args, err := w.visitAll(p.Args())
	if err != nil {
		return err
	}

	labeled := p.WithLabel(lbl, args)
	w.res.Entries[entryIdx].Param = labeled
	w.out = labeled

	if w.opts.OnLabel != nil {
		if err = w.opts.OnLabel(w.res.Entries[entryIdx]); err != nil {
			return fmt.Errorf("label: OnLabel hook for %q: %w", lbl, err)
		}
	}

	return nil
}

// VisitCall keeps the current path for all children.
func (w *walker) VisitCall(c *expr.Call) error {
	args, err := w.visitAll(c.Args())
	if err != nil {
		return err
	}
	w.out = c.WithArgs(args)

	return nil
}

// VisitInstance extends the path with each keyword, in declaration order.
func (w *walker) VisitInstance(in *expr.Instance) error {
	parent := w.path
	defer func() { w.path = parent }()

	kwargs := in.Keywords()
	for i, kw := range kwargs {
		if w.opts.StrictKeywords && strings.Contains(kw.Name, w.opts.Delimiter) {
			return fmt.Errorf("label: keyword %q of %s: %w", kw.Name, in.Class(), ErrAmbiguousKeyword)
		}

		w.path = w.join(parent, kw.Name)
		if err := kw.Value.Accept(w); err != nil {
			return err
		}
		kwargs[i].Value = w.out
	}
	w.out = in.WithKeywords(kwargs)

	return nil
}

// VisitLiteral returns the literal unchanged; literals are immutable.
func (w *walker) VisitLiteral(l *expr.Literal) error {
	w.out = l
	return nil
}

func (w *walker) visitAll(nodes []expr.Node) ([]expr.Node, error) {
	out := make([]expr.Node, len(nodes))
	for i, n := range nodes {
		if err := n.Accept(w); err != nil {
			return nil, err
		}
		out[i] = w.out
	}
	return out, nil
}

func (w *walker) join(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + w.opts.Delimiter + key
}

// next returns the label for the next variable on path: the bare path on
// first use, then path_1, path_2, ... A candidate already handed out under a
// different path (keyword "p_1" next to two variables on "p") is skipped.
func (w *walker) next(path string) string {
	n := w.counters[path]
	for {
		lbl := path
		if n > 0 {
			lbl = path + SuffixSeparator + strconv.Itoa(n)
		}
		n++
		if _, taken := w.used[lbl]; !taken {
			w.counters[path] = n
			w.used[lbl] = struct{}{}
			return lbl
		}
	}
}
