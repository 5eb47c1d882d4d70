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

package pattern

import (
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/turbovault/vcstore/codec"
)

// Compiled is a richer key pattern than Scalar(), evaluated by a
// compiled CEL expression over a key's decoded fields. This is the home
// the pattern kit's scalar()/any() builtins are reserved to grow into;
// the collection engine never installs one itself, and a Compiled
// pattern's RankCover is always the full key space, since an arbitrary
// CEL predicate cannot in general be translated into a tight encoded-key
// range.
type Compiled struct {
	expr    string
	program cel.Program
}

// NewCompiled compiles expr, a CEL boolean expression over the
// variables "kind" (string: one of "null","undefined","boolean",
// "number","bigint","string","symbol","remotable"), "str" (string
// payload for string/symbol keys), and "number" (float64 payload for
// number keys).
func NewCompiled(expr string) (*Compiled, error) {
	env, err := cel.NewEnv(
		cel.Variable("kind", cel.StringType),
		cel.Variable("str", cel.StringType),
		cel.Variable("number", cel.DoubleType),
	)
	if err != nil {
		return nil, fmt.Errorf("vcstore/pattern: building cel env: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("vcstore/pattern: compiling %q: %w", expr, issues.Err())
	}
	program, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("vcstore/pattern: building cel program for %q: %w", expr, err)
	}
	return &Compiled{expr: expr, program: program}, nil
}

func kindName(k codec.Key) string {
	switch k.Kind {
	case codec.KindNull:
		return "null"
	case codec.KindUndefined:
		return "undefined"
	case codec.KindBoolean:
		return "boolean"
	case codec.KindNumber:
		return "number"
	case codec.KindBigInt:
		return "bigint"
	case codec.KindString:
		return "string"
	case codec.KindSymbol:
		return "symbol"
	case codec.KindRemotable:
		return "remotable"
	default:
		return "unknown"
	}
}

func (c *Compiled) MatchKey(k codec.Key) bool {
	out, _, err := c.program.Eval(map[string]any{
		"kind":   kindName(k),
		"str":    k.Str,
		"number": k.Number,
	})
	if err != nil {
		return false
	}
	match, ok := out.Value().(bool)
	return ok && match
}

func (c *Compiled) RankCover() (string, string) {
	return lowestEncodedKey, aboveHighestEncodedKey
}

// Expr returns the source expression, for diagnostics.
func (c *Compiled) Expr() string { return c.expr }
