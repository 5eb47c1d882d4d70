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

// Package refs defines the host's virtual-reference manager collaborator
// and a reference in-memory implementation: refcounting for strongly
// held slots, recognizer registration for weak-keyed collections, and
// the reanimator table used to reconstruct collections on demand.
package refs

// ReanimatorFunc reconstructs a live collection handle from a persisted
// collectionID once a dropped external identifier is re-encountered.
type ReanimatorFunc func(collectionID uint64) (any, error)

// Manager is the host's virtual-reference manager, exactly as §6 of the
// design describes it.
type Manager interface {
	// AddReachableVref/RemoveReachableVref adjust the strong refcount on
	// slot by one.
	AddReachableVref(slot string)
	RemoveReachableVref(slot string)

	// UpdateReferenceCounts applies the symmetric difference between
	// beforeSlots and afterSlots atomically: every slot added then every
	// slot removed, so a slot present in both sets never transiently
	// drops to zero.
	UpdateReferenceCounts(beforeSlots, afterSlots []string)

	// AddRecognizableValue/RemoveRecognizableValue register or clear a
	// recognizer: a non-owning registration that invokes onReclaim when
	// remotable becomes unreachable elsewhere.
	AddRecognizableValue(remotable string, onReclaim func(slot string))
	RemoveRecognizableValue(remotable string, onReclaim func(slot string))

	// RegisterReanimator registers fn as the handle-reconstruction
	// callback for kindID.
	RegisterReanimator(kindID uint64, fn ReanimatorFunc)
}

// DropRegistry is the host's dropped-collection registry: a separate,
// optional collaborator a Manager implementation may also satisfy, so
// that the lifecycle package can be told to run a collection's disposer
// once its live handle becomes unreachable. A Manager that does not
// implement DropRegistry simply never gets disposal notifications;
// the lifecycle package still runs correctly, it just never sweeps.
type DropRegistry interface {
	// RegisterDisposal records disposer to run, at most once, when
	// keyPrefix's owning collection handle is dropped.
	RegisterDisposal(keyPrefix string, disposer func())
}
