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

package refs

import (
	"fmt"
	"reflect"
	"sync"
)

type recognizer struct {
	remotable string
	onReclaim func(slot string)
}

// MemManager is an in-memory reference Manager: real refcounts per slot
// and a recognizer registry, so weak-collection reclamation (§8
// property 7) and refcount balance (§8 property 6) are independently
// testable without a real virtual-reference host.
type MemManager struct {
	mu sync.Mutex

	refcounts   map[string]int
	recognizers map[string][]recognizer
	reanimators map[uint64]ReanimatorFunc
	disposers   map[string]func()
}

// NewMemManager returns an empty MemManager.
func NewMemManager() *MemManager {
	return &MemManager{
		refcounts:   make(map[string]int),
		recognizers: make(map[string][]recognizer),
		reanimators: make(map[uint64]ReanimatorFunc),
		disposers:   make(map[string]func()),
	}
}

// RegisterDisposal implements refs.DropRegistry.
func (m *MemManager) RegisterDisposal(keyPrefix string, disposer func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.disposers[keyPrefix] = disposer
}

// Drop simulates the host dropping the collection handle registered
// under keyPrefix: its disposer runs exactly once, then the
// registration is forgotten. Tests use this to exercise the lifecycle
// package's disposal sweep without a real virtual-reference host.
func (m *MemManager) Drop(keyPrefix string) {
	m.mu.Lock()
	disposer, ok := m.disposers[keyPrefix]
	delete(m.disposers, keyPrefix)
	m.mu.Unlock()
	if ok {
		disposer()
	}
}

func (m *MemManager) AddReachableVref(slot string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refcounts[slot]++
}

func (m *MemManager) RemoveReachableVref(slot string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refcounts[slot]--
	if m.refcounts[slot] <= 0 {
		delete(m.refcounts, slot)
	}
}

func (m *MemManager) UpdateReferenceCounts(beforeSlots, afterSlots []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range afterSlots {
		m.refcounts[s]++
	}
	for _, s := range beforeSlots {
		m.refcounts[s]--
		if m.refcounts[s] <= 0 {
			delete(m.refcounts, s)
		}
	}
}

// RefCount returns the current strong refcount for slot, for tests.
func (m *MemManager) RefCount(slot string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refcounts[slot]
}

func (m *MemManager) AddRecognizableValue(remotable string, onReclaim func(slot string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recognizers[remotable] = append(m.recognizers[remotable], recognizer{remotable: remotable, onReclaim: onReclaim})
}

func (m *MemManager) RemoveRecognizableValue(remotable string, onReclaim func(slot string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	regs := m.recognizers[remotable]
	for i, r := range regs {
		if sameFunc(r.onReclaim, onReclaim) {
			m.recognizers[remotable] = append(regs[:i], regs[i+1:]...)
			break
		}
	}
	if len(m.recognizers[remotable]) == 0 {
		delete(m.recognizers, remotable)
	}
}

// Reclaim simulates the host reclaiming remotable: every registered
// recognizer is invoked and then cleared. Tests use this to exercise
// weak-collection deletion-on-reclamation (§8 property 7).
func (m *MemManager) Reclaim(remotable string) {
	m.mu.Lock()
	regs := m.recognizers[remotable]
	delete(m.recognizers, remotable)
	m.mu.Unlock()

	for _, r := range regs {
		r.onReclaim(remotable)
	}
}

func (m *MemManager) RegisterReanimator(kindID uint64, fn ReanimatorFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reanimators[kindID] = fn
}

// Reanimate invokes the reanimator registered for kindID, simulating the
// host re-encountering a dangling external identifier.
func (m *MemManager) Reanimate(kindID, collectionID uint64) (any, error) {
	m.mu.Lock()
	fn, ok := m.reanimators[kindID]
	m.mu.Unlock()
	if !ok {
		return nil, errNoReanimator(kindID)
	}
	return fn(collectionID)
}

// sameFunc compares the underlying code pointers of two function values;
// Go forbids == on func values directly, so reflect is used for the
// equality check RemoveRecognizableValue needs. Closures created by the
// same function literal share a code pointer and so compare equal.
func sameFunc(a, b func(slot string)) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}

func errNoReanimator(kindID uint64) error {
	return fmt.Errorf("vcstore/refs: no reanimator registered for kind %d", kindID)
}
