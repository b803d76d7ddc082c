// Package paramspace describes hyper-parameter search spaces as expression
// trees and turns sampled points back into live objects.
//
// 🚀 What is paramspace?
//
//	A small pipeline with one package per stage:
//		• expr    - immutable space trees: random variables, min/max clamps, class instances
//		• label   - deterministic, path-derived labels for every variable
//		• sampler - translation of a labeled tree into a sampling engine's namespaces
//		• decode  - rebuilding objects from a sampled value tree via a class registry
//		• space   - YAML documents for spaces
//		• trial   - persisted evaluations (badger) that double as lookup scopes
//
// ✨ Typical flow:
//
//	tree := ...                                   // expr.InstanceOf[Model](expr.KW("lr", expr.LogUniform(-9, -2)))
//	res, _ := label.Label(tree, label.WithRootPath("model"))
//	rep, _ := sampler.New(dists, scope).Translate(res.Tree)
//	point := engine.Sample(rep)                   // external engine
//	obj, _ := decode.New(reg).Decode(point)       // *Model
//
// LoadParam bundles that flow and short-circuits it when a Scope already
// holds a value for the parameter name.
//
// Labels are canonical: the same tree labeled twice yields the same labels,
// and two variables never share one.
//
//	go get github.com/katalvlaran/paramspace
package paramspace
