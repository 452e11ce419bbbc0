package debuginfo

import "github.com/yangzhixuan/llvm-dsa/ir"

// GenerateIdentifierMap builds the canonical identifier to composite type
// lookup from the retained types of the given compile units. A full
// definition always replaces a previously stored forward declaration; a
// stored definition is never replaced; among entries of the same kind the
// first one seen wins. Rebuilding from identical input yields an identical
// map.
func GenerateIdentifierMap(units []*ir.CompileUnit) map[string]*ir.CompositeType {
	m := make(map[string]*ir.CompositeType)
	for _, cu := range units {
		for _, rt := range cu.RetainedTypes {
			ct, ok := rt.(*ir.CompositeType)
			if !ok || ct.Identifier == "" {
				continue
			}
			stored, exists := m[ct.Identifier]
			if !exists {
				m[ct.Identifier] = ct
				continue
			}
			if stored.ForwardDecl && !ct.ForwardDecl {
				m[ct.Identifier] = ct
			}
		}
	}
	return m
}
