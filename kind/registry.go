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

// Package kind persistently maps each of the four container kind names
// to a stable numeric kind ID, and registers each kind's reanimator with
// the host's reference manager.
package kind

import (
	"fmt"
	"sort"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/turbovault/vcstore/kv"
	"github.com/turbovault/vcstore/refs"
)

// The four known container kinds, carrying their weak-keys flag.
const (
	ScalarMapStore     = "scalarMapStore"
	ScalarWeakMapStore = "scalarWeakMapStore"
	ScalarSetStore     = "scalarSetStore"
	ScalarWeakSetStore = "scalarWeakSetStore"
)

// HasWeakKeys reports whether name's collection holds its keys weakly.
func HasWeakKeys(name string) bool {
	switch name {
	case ScalarWeakMapStore, ScalarWeakSetStore:
		return true
	default:
		return false
	}
}

// KnownKinds lists the four kind names in a fixed, deterministic order
// so first-use ID allocation is reproducible across a process's runs
// (absent any prior persisted table).
var KnownKinds = []string{ScalarMapStore, ScalarWeakMapStore, ScalarSetStore, ScalarWeakSetStore}

// ExportIDAllocator is the host's export-ID allocator, the only
// collaborator a fresh kind ID is sourced from.
type ExportIDAllocator interface {
	NextExportID() uint64
}

// Registry is the persistent kindName -> kindID mapping.
type Registry struct {
	store     kv.Store
	exportIDs ExportIDAllocator
	manager   refs.Manager
	log       *zap.Logger

	ids map[string]uint64
}

// New returns a Registry. Init must be called once before KindID is
// used.
func New(store kv.Store, exportIDs ExportIDAllocator, manager refs.Manager, log *zap.Logger) *Registry {
	return &Registry{store: store, exportIDs: exportIDs, manager: manager, log: log, ids: make(map[string]uint64)}
}

// Init loads storeKindIDTable, allocates export IDs for any of the four
// known kinds missing from it, persists the updated table, and registers
// reanimators supplied in reanimators (keyed by kind name) with the
// reference manager. Init is idempotent: re-running it never
// reallocates an ID for a name already present.
func (r *Registry) Init(reanimators map[string]refs.ReanimatorFunc) error {
	table := make(map[string]uint64)
	if raw, ok := r.store.Get(kv.KindIDTableKey); ok {
		if err := json.Unmarshal([]byte(raw), &table); err != nil {
			return fmt.Errorf("vcstore/kind: corrupt storeKindIDTable: %w", err)
		}
	}

	changed := false
	for _, name := range KnownKinds {
		if _, ok := table[name]; ok {
			continue
		}
		id := r.exportIDs.NextExportID()
		table[name] = id
		changed = true
		if r.log != nil {
			r.log.Info("allocated kind id", zap.String("kind", name), zap.Uint64("kindID", id))
		}
	}

	if changed {
		encoded, err := json.Marshal(table)
		if err != nil {
			return fmt.Errorf("vcstore/kind: encoding storeKindIDTable: %w", err)
		}
		r.store.Set(kv.KindIDTableKey, string(encoded))
	}

	r.ids = table
	for name, fn := range reanimators {
		id, ok := table[name]
		if !ok {
			continue
		}
		r.manager.RegisterReanimator(id, fn)
	}
	return nil
}

// KindID returns the persistent kind ID for name.
func (r *Registry) KindID(name string) (uint64, bool) {
	id, ok := r.ids[name]
	return id, ok
}

// NameForID returns the kind name registered under id, for diagnostics.
func (r *Registry) NameForID(id uint64) (string, bool) {
	names := make([]string, 0, len(r.ids))
	for name := range r.ids {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if r.ids[name] == id {
			return name, true
		}
	}
	return "", false
}
