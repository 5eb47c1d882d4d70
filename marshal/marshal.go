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

// Package marshal defines the external marshal collaborator (serialize
// values to/from transport form) and a reference JSON implementation of
// it. Marshaling semantics themselves are explicitly out of scope of
// the collection engine (spec §1); this package exists so the engine
// and its tests have a concrete Marshaler to run against.
package marshal

// Capsule is the {body, slots} envelope the collection engine stores:
// body is the marshaled form, slots lists every remotable referenced
// anywhere within it (the engine never inspects body itself).
type Capsule struct {
	Body  string   `json:"body"`
	Slots []string `json:"slots"`
}

// Marshaler serializes values to and from their Capsule form.
type Marshaler interface {
	Serialize(value any) (Capsule, error)
	Unserialize(c Capsule) (any, error)
}
