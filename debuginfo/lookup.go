package debuginfo

import "github.com/yangzhixuan/llvm-dsa/ir"

// SubprogramForScope returns the subprogram owning the given local scope,
// following the lexical block parent chain. Scopes outside the local scope
// family yield nil.
func SubprogramForScope(scope ir.Metadata) *ir.Subprogram {
	for scope != nil {
		switch s := scope.(type) {
		case *ir.Subprogram:
			return s
		case *ir.LexicalBlock:
			scope = s.Parent
		default:
			return nil
		}
	}
	return nil
}

// SubprogramForFunction looks for the first instruction of the function that
// carries a source location and resolves the location's inlined-at scope
// chain to its owning subprogram. The subprogram is returned only when it
// actually describes the queried function; a located instruction inlined
// from some other function yields nil rather than the callee's subprogram.
// A function with no located instruction yields nil.
func SubprogramForFunction(fn *ir.Function) *ir.Subprogram {
	for _, b := range fn.Blocks {
		for _, in := range b.Instructions {
			if in.Loc == nil {
				continue
			}
			sp := SubprogramForScope(in.Loc.InlinedAtScope())
			if sp != nil && sp.Describes(fn) {
				return sp
			}
			return nil
		}
	}
	return nil
}

// CompositeTypeForType unwraps derived types one level at a time until a
// composite type is reached. Weak base references are resolved through an
// empty identifier map, so this path cannot jump through forward-declared
// identifiers; known limitation, kept as is.
func CompositeTypeForType(t ir.Type) *ir.CompositeType {
	for t != nil {
		switch tt := t.(type) {
		case *ir.CompositeType:
			return tt
		case *ir.DerivedType:
			t = tt.BaseType.ResolveType(nil)
		default:
			return nil
		}
	}
	return nil
}

// DebugMetadataVersion reads the Debug Info Version module flag, returning
// zero when the flag is absent or not an integer.
func DebugMetadataVersion(m *ir.Module) int {
	if v, ok := m.Flag(ir.DebugVersionKey).(int); ok {
		return v
	}
	return 0
}

// SubprogramMap pairs every function named by a compile unit subprogram with
// that subprogram. Later compile units silently overwrite earlier ones on
// key collision.
func SubprogramMap(m *ir.Module) map[*ir.Function]*ir.Subprogram {
	out := make(map[*ir.Function]*ir.Subprogram)
	for _, cu := range m.DebugCompileUnits() {
		for _, sp := range cu.Subprograms {
			if sp.Function != nil {
				out[sp.Function] = sp
			}
		}
	}
	return out
}
