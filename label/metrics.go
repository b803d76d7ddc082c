package label

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	labelsAssigned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "paramspace_labels_assigned_total",
		Help: "Total variables labeled across all labeling passes",
	})

	labelPassErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "paramspace_label_pass_errors_total",
		Help: "Total labeling passes aborted by an error",
	})
)
