// Copyright 2026 The VCStore Authors
// This file is part of VCStore.
//
// VCStore is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// VCStore is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with VCStore. If not, see <http://www.gnu.org/licenses/>.

// Package metrics instruments the collection engine with Prometheus
// counters and gauges. Durable size accounting is a spec Non-goal, but
// process-local observability of it is not: these metrics never touch
// the store and are lost on restart, same as currentGenerationNumber.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Recorder holds every metric the collection engine and lifecycle
// package report to. A nil *Recorder is valid everywhere it is used:
// every method is a safe no-op on a nil receiver.
type Recorder struct {
	collectionsCreated  prometheus.Counter
	collectionsDisposed prometheus.Counter
	entriesLive         *prometheus.GaugeVec
	ordinalOverflows    prometheus.Counter
	concurrentMods      prometheus.Counter
}

// NewRecorder builds a Recorder and registers its metrics with reg. Pass
// prometheus.NewRegistry() in tests to avoid collisions with the global
// default registry.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		collectionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vcstore_collections_created_total",
			Help: "Collections created via MakeCollection.",
		}),
		collectionsDisposed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vcstore_collections_disposed_total",
			Help: "Collections disposed via the drop-notification sweep.",
		}),
		entriesLive: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "vcstore_collection_entries",
			Help: "Live, non-metadata entries per collection (process-local, not persisted).",
		}, []string{"collection_id"}),
		ordinalOverflows: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vcstore_ordinal_overflows_total",
			Help: "OrdinalOverflow errors raised by the ordinal allocator.",
		}),
		concurrentMods: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vcstore_concurrent_modifications_total",
			Help: "ConcurrentModification errors raised by range iterators.",
		}),
	}
	reg.MustRegister(r.collectionsCreated, r.collectionsDisposed, r.entriesLive, r.ordinalOverflows, r.concurrentMods)
	return r
}

func (r *Recorder) CollectionCreated() {
	if r == nil {
		return
	}
	r.collectionsCreated.Inc()
}

func (r *Recorder) CollectionDisposed(collectionID string) {
	if r == nil {
		return
	}
	r.collectionsDisposed.Inc()
	r.entriesLive.DeleteLabelValues(collectionID)
}

func (r *Recorder) SetEntriesLive(collectionID string, n int) {
	if r == nil {
		return
	}
	r.entriesLive.WithLabelValues(collectionID).Set(float64(n))
}

func (r *Recorder) OrdinalOverflow() {
	if r == nil {
		return
	}
	r.ordinalOverflows.Inc()
}

func (r *Recorder) ConcurrentModification() {
	if r == nil {
		return
	}
	r.concurrentMods.Inc()
}
