package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type uniqueActors struct {
	counter     prometheus.Gauge
	actorsCache map[string]struct{}
	mu          sync.RWMutex
}

const actorCountPerWeek = "actors_count_per_week"

var totalUniqueActorsPerWeekMetric = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Subsystem: talentflow,
		Name:      actorCountPerWeek,
		Help:      "number of distinct actors that issued calls this week",
	},
)

// UniqueActorsPerWeek counts the distinct actor headers seen by the simulator.
var UniqueActorsPerWeek = &uniqueActors{
	counter:     totalUniqueActorsPerWeekMetric,
	actorsCache: make(map[string]struct{}),
}

func (v *uniqueActors) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.actorsCache = make(map[string]struct{})
	v.counter.Set(0)
}

func (v *uniqueActors) Observe(actor string) {
	if actor == "" {
		return
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if _, exists := v.actorsCache[actor]; exists {
		return
	}

	v.actorsCache[actor] = struct{}{}
	v.counter.Inc()
}

func (v *uniqueActors) Count() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.actorsCache)
}
