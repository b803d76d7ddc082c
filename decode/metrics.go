package decode

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	objectsConstructed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "paramspace_decode_objects_total",
		Help: "Objects constructed from class mappings, by class identity.",
	}, []string{"class"})

	resolveFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "paramspace_decode_unresolved_total",
		Help: "Class identities that no registry entry resolved.",
	})
)
