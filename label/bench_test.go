package label_test

import (
	"testing"

	"github.com/katalvlaran/paramspace/label"
)

// BenchmarkLabel_Wide200 measures one labeling pass over an Instance with 200
// keywords, each holding four variables (800 labels, many shared paths).
func BenchmarkLabel_Wide200(b *testing.B) {
	// 1. Build the tree once; labeling never mutates it.
	tree := buildWide(b, 200)

	// 2. Exclude construction from the measurement.
	b.ResetTimer()

	// 3. Each iteration is an independent pass with fresh counters.
	for i := 0; i < b.N; i++ {
		_, _ = label.Label(tree)
	}
}
