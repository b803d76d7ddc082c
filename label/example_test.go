package label_test

import (
	"fmt"

	"github.com/katalvlaran/paramspace/expr"
	"github.com/katalvlaran/paramspace/label"
)

// ExampleLabel labels a small model space. Two variables share the path
// "dropout" through a clamp, so the second one gets a counter suffix.
//
//	Net
//	├── dropout = min(uniform, normal)
//	└── opt = SGD
//	    └── lr = loguniform
func ExampleLabel() {
	opt, _ := expr.NewInstance(expr.ClassID{Module: "example.com/optim", Name: "SGD"},
		expr.KW("lr", expr.LogUniform(-9, -2)))
	net, _ := expr.NewInstance(expr.ClassID{Module: "example.com/nn", Name: "Net"},
		expr.KW("dropout", expr.Min(expr.Uniform(0, 0.5), expr.Normal(0.2, 0.1))),
		expr.KW("opt", opt),
	)

	res, err := label.Label(net, label.WithRootPath("model"))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	for _, e := range res.Entries {
		fmt.Printf("%-20s %s\n", e.Label, e.Param)
	}

	// Output:
	// model.dropout        uniform[model.dropout](0, 0.5)
	// model.dropout_1      normal[model.dropout_1](0.2, 0.1)
	// model.opt.lr         loguniform[model.opt.lr](-9, -2)
}
