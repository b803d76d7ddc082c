// Package expr is the expression model of a parameter space.
//
// What:
//
//   - Parameter: one independent random variable, e.g. Uniform(0, 1).
//   - Call:      a combinator over child expressions, e.g. Min(5, Normal(0, 1)).
//   - Instance:  an object to construct later, with ordered keyword children.
//   - Literal:   a constant argument or keyword value.
//
// Why:
//
//   - Declare "which knobs of which objects are random" once, as data.
//   - Keep the tree comparable and serializable: class identities are plain
//     (module, name) pairs, not live reflect.Type values.
//   - Give labelers and engine adapters a closed node set to dispatch on.
//
// Factories:
//
//	Choice(first, rest...)         RandInt(upper)         Bool()
//	Uniform(low, high)             LogUniform(low, high)
//	Normal(mu, sigma)              LogNormal(mu, sigma)
//	QUniform(low, high, q)         QLogUniform(low, high, q)
//	QNormal(mu, sigma, q)          QLogNormal(mu, sigma, q)
//	NewParameter(dist, args...)    checked form for loaders
//	Param(name, WithLow, WithHigh, WithDist)
//	NewInstance(ClassID, KW(...)...), InstanceOf[T](KW(...)...)
//	Min(a, b), Max(a, b), NewCall(op, args...)
//
// Keyword names must not contain the label delimiter ("." by default);
// labels built from such names are ambiguous and this is not detected here.
//
// Complexity:
//
//   - Construction: O(args) per node.
//   - Equal, Leaves, Inspect: O(nodes).
package expr
