package expr_test

import (
	"fmt"

	"github.com/katalvlaran/paramspace/expr"
)

// ExampleParam shows the three shapes Param can produce.
func ExampleParam() {
	plain, _ := expr.Param("width", expr.WithHigh(8))
	clamped, _ := expr.Param("rate", expr.WithLow(0), expr.WithHigh(1), expr.WithDist(expr.Normal(0.5, 0.2)))

	fmt.Println(plain)
	fmt.Println(clamped)

	_, err := expr.Param("depth")
	fmt.Println(err)

	// Output:
	// uniform(0, 8)
	// min(1, max(0, normal(0.5, 0.2)))
	// Param("depth"): expr: high must be specified when dist is absent
}

// ExampleNewInstance builds a two-level space.
func ExampleNewInstance() {
	opt, _ := expr.NewInstance(expr.ClassID{Module: "example.com/optim", Name: "SGD"},
		expr.KW("lr", expr.LogUniform(-9, -2)),
		expr.KW("momentum", expr.Uniform(0, 0.99)),
	)
	model, _ := expr.NewInstance(expr.ClassID{Module: "example.com/nn", Name: "MLP"},
		expr.KW("layers", expr.Choice(1, 2, 3)),
		expr.KW("optimizer", opt),
	)

	fmt.Println(model)
	fmt.Println(len(expr.Leaves(model)), "variables")

	// Output:
	// example.com/nn.MLP(layers=choice(1, 2, 3), optimizer=example.com/optim.SGD(lr=loguniform(-9, -2), momentum=uniform(0, 0.99)))
	// 3 variables
}
