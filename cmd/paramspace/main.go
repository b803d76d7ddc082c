// Command paramspace inspects parameter spaces written in YAML: it labels
// them, renders them for sampling engines, evaluates them at a point and
// keeps evaluated points in a local trial store.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
