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

package kv

import (
	"sync"

	"github.com/google/btree"
)

// MemStore is a reference Store backed by an in-memory B-tree, giving
// real ordered-successor semantics for GetAfter rather than a slice
// scan. It is meant for tests, the cmd/vcstore demo, and embedding hosts
// that do not otherwise have an external vat store to offer.
type MemStore struct {
	mu   sync.Mutex
	tree *btree.BTreeG[kvItem]
}

type kvItem struct {
	key   string
	value string
}

func lessItem(a, b kvItem) bool { return a.key < b.key }

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{tree: btree.NewG(32, lessItem)}
}

func (m *MemStore) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.tree.Get(kvItem{key: key})
	if !ok {
		return "", false
	}
	return item.value, true
}

func (m *MemStore) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tree.ReplaceOrInsert(kvItem{key: key, value: value})
}

func (m *MemStore) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tree.Delete(kvItem{key: key})
}

func (m *MemStore) GetAfter(priorKey, lowerBound, upperBound string) (string, string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	start := priorKey
	if lowerBound > start {
		start = lowerBound
	}

	var foundKey, foundValue string
	found := false
	m.tree.AscendGreaterOrEqual(kvItem{key: start}, func(item kvItem) bool {
		if item.key <= priorKey {
			return true
		}
		if upperBound != "" && item.key >= upperBound {
			return false
		}
		foundKey, foundValue = item.key, item.value
		found = true
		return false
	})
	return foundKey, foundValue, found
}

// KeysWithPrefix returns every key under the given prefix, in ascending
// order. A convenience for inspection tools; the collection engine
// itself always walks prefixes through GetAfter, so
// it works against any Store, not just this reference one.
func (m *MemStore) KeysWithPrefix(prefix string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var keys []string
	m.tree.AscendGreaterOrEqual(kvItem{key: prefix}, func(item kvItem) bool {
		if len(item.key) < len(prefix) || item.key[:len(prefix)] != prefix {
			return false
		}
		keys = append(keys, item.key)
		return true
	})
	return keys
}
