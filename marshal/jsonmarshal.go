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

package marshal

import (
	"fmt"

	"github.com/goccy/go-json"
)

// RemotableRef is a remote reference embedded inside a stored value. The
// JSONMarshaler replaces every RemotableRef with a {"@slot": slot}
// marker on the way into Body, and collects its slot into Slots so the
// collection engine can keep the reference manager's refcounts current
// without inspecting Body itself.
type RemotableRef struct {
	Slot string
}

// JSONMarshaler is the reference Marshaler: Body is JSON (via
// goccy/go-json, a drop-in faster encoding/json), Slots is the set of
// distinct slots any RemotableRef in value carried.
type JSONMarshaler struct{}

func (JSONMarshaler) Serialize(value any) (Capsule, error) {
	seen := make(map[string]bool)
	var slots []string
	transformed := replaceRemotables(value, seen, &slots)

	body, err := json.Marshal(transformed)
	if err != nil {
		return Capsule{}, fmt.Errorf("vcstore/marshal: encoding value: %w", err)
	}
	return Capsule{Body: string(body), Slots: slots}, nil
}

func (JSONMarshaler) Unserialize(c Capsule) (any, error) {
	var raw any
	if c.Body != "" {
		if err := json.Unmarshal([]byte(c.Body), &raw); err != nil {
			return nil, fmt.Errorf("vcstore/marshal: decoding value: %w", err)
		}
	}
	return restoreRemotables(raw), nil
}

func replaceRemotables(v any, seen map[string]bool, slots *[]string) any {
	switch val := v.(type) {
	case RemotableRef:
		if !seen[val.Slot] {
			seen[val.Slot] = true
			*slots = append(*slots, val.Slot)
		}
		return map[string]any{"@slot": val.Slot}
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, sub := range val {
			out[k] = replaceRemotables(sub, seen, slots)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, sub := range val {
			out[i] = replaceRemotables(sub, seen, slots)
		}
		return out
	default:
		return v
	}
}

func restoreRemotables(v any) any {
	switch val := v.(type) {
	case map[string]any:
		if len(val) == 1 {
			if slot, ok := val["@slot"].(string); ok {
				return RemotableRef{Slot: slot}
			}
		}
		out := make(map[string]any, len(val))
		for k, sub := range val {
			out[k] = restoreRemotables(sub)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, sub := range val {
			out[i] = restoreRemotables(sub)
		}
		return out
	default:
		return v
	}
}
