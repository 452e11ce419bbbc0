// Package debuginfo discovers, canonicalizes and strips the debug metadata
// attached to an ir module: it walks the heterogeneous, possibly cyclic
// graph of compile units, subprograms, types, scopes and variables exactly
// once per node in first-discovery order, resolves weak identifier
// references through a canonical identifier map, and implements the
// destructive strip-all-debug-info transform.
package debuginfo

import "github.com/yangzhixuan/llvm-dsa/ir"

// Finder discovers, deduplicates and orders every debug metadata node
// reachable from a module, a single source location or a single debug
// intrinsic record. All entry points share one session: output sequences
// grow monotonically in first-discovery order until Reset is called.
//
// A Finder is single-threaded and assumes exclusive access to the module for
// the duration of each call. Termination is guaranteed for cyclic graphs
// because every recursive entry checks the seen set before doing any work.
type Finder struct {
	compileUnits []*ir.CompileUnit
	subprograms  []*ir.Subprogram
	globals      []*ir.GlobalVariable
	types        []ir.Type
	scopes       []ir.Metadata

	seen       map[ir.Metadata]bool
	seenLocals map[ir.Metadata]bool

	identifiers      map[string]*ir.CompositeType
	identifiersBuilt bool
}

// NewFinder creates a pristine finder session.
func NewFinder() *Finder {
	f := &Finder{}
	f.Reset()
	return f
}

// Reset clears every output sequence, both seen sets, the identifier map and
// its built flag. Always safe to call.
func (f *Finder) Reset() {
	f.compileUnits = nil
	f.subprograms = nil
	f.globals = nil
	f.types = nil
	f.scopes = nil
	f.seen = make(map[ir.Metadata]bool)
	f.seenLocals = make(map[ir.Metadata]bool)
	f.identifiers = nil
	f.identifiersBuilt = false
}

// ensureIdentifierMap lazily builds the identifier map from the module's
// compile unit table. When no table exists yet the flag stays false so that
// a later entry point can still succeed once compile units appear.
func (f *Finder) ensureIdentifierMap(m *ir.Module) {
	if f.identifiersBuilt {
		return
	}
	units := m.DebugCompileUnits()
	if units == nil {
		return
	}
	f.identifiers = GenerateIdentifierMap(units)
	f.identifiersBuilt = true
}

// ProcessModule walks every compile unit of the module: its global
// variables, subprograms, enum and retained types and imported entities.
func (f *Finder) ProcessModule(m *ir.Module) {
	f.ensureIdentifierMap(m)
	for _, cu := range m.DebugCompileUnits() {
		f.addCompileUnit(cu)
		for _, gv := range cu.GlobalVariables {
			if f.addGlobalVariable(gv) {
				f.processScope(gv.Scope)
				f.processType(gv.Type.ResolveType(f.identifiers))
			}
		}
		for _, sp := range cu.Subprograms {
			f.processSubprogram(sp)
		}
		for _, et := range cu.EnumTypes {
			f.processType(et)
		}
		for _, rt := range cu.RetainedTypes {
			f.processType(rt)
		}
		for _, imp := range cu.ImportedEntities {
			switch entity := imp.Entity.Resolve(f.identifiers).(type) {
			case ir.Type:
				f.processType(entity)
			case *ir.Subprogram:
				f.processSubprogram(entity)
			case *ir.Namespace:
				f.processScope(entity.Parent)
			}
		}
	}
}

// ProcessLocation walks a source location's scope and then its chain of
// inlining parents. Locations themselves are never interned.
func (f *Finder) ProcessLocation(m *ir.Module, loc *ir.Location) {
	if loc == nil {
		return
	}
	f.ensureIdentifierMap(m)
	f.processScope(loc.Scope)
	f.ProcessLocation(m, loc.InlinedAt)
}

// ProcessDeclare walks the local variable referenced by a debug declare
// record.
func (f *Finder) ProcessDeclare(m *ir.Module, rec *ir.Instruction) {
	f.processVariableRecord(m, rec)
}

// ProcessValue walks the local variable referenced by a debug value record.
func (f *Finder) ProcessValue(m *ir.Module, rec *ir.Instruction) {
	f.processVariableRecord(m, rec)
}

func (f *Finder) processVariableRecord(m *ir.Module, rec *ir.Instruction) {
	if rec == nil {
		return
	}
	dv, ok := rec.DebugVariable().(*ir.LocalVariable)
	if !ok {
		return
	}
	f.ensureIdentifierMap(m)
	if f.seenLocals[dv] {
		return
	}
	f.seenLocals[dv] = true
	f.processScope(dv.Scope)
	f.processType(dv.Type.ResolveType(f.identifiers))
}

func (f *Finder) processType(t ir.Type) {
	if !f.addType(t) {
		return
	}
	f.processScope(t.TypeScope().Resolve(f.identifiers))
	switch t := t.(type) {
	case *ir.SubroutineType:
		for _, ref := range t.TypeArray {
			f.processType(ref.ResolveType(f.identifiers))
		}
	case *ir.CompositeType:
		f.processType(t.BaseType.ResolveType(f.identifiers))
		for _, el := range t.Elements {
			switch el := el.(type) {
			case ir.Type:
				f.processType(el)
			case *ir.Subprogram:
				f.processSubprogram(el)
			}
		}
	case *ir.DerivedType:
		f.processType(t.BaseType.ResolveType(f.identifiers))
	}
}

func (f *Finder) processScope(scope ir.Metadata) {
	if scope == nil {
		return
	}
	if t, ok := scope.(ir.Type); ok {
		f.processType(t)
		return
	}
	if cu, ok := scope.(*ir.CompileUnit); ok {
		f.addCompileUnit(cu)
		return
	}
	if sp, ok := scope.(*ir.Subprogram); ok {
		f.processSubprogram(sp)
		return
	}
	if !f.addScope(scope) {
		return
	}
	switch s := scope.(type) {
	case *ir.LexicalBlock:
		f.processScope(s.Parent)
	case *ir.Namespace:
		f.processScope(s.Parent)
	}
}

func (f *Finder) processSubprogram(sp *ir.Subprogram) {
	if !f.addSubprogram(sp) {
		return
	}
	f.processScope(sp.Scope.Resolve(f.identifiers))
	if sp.Type != nil {
		f.processType(sp.Type)
	}
	for _, param := range sp.TemplateParams {
		f.processType(param.Type.ResolveType(f.identifiers))
	}
}

func (f *Finder) addType(t ir.Type) bool {
	if t == nil {
		return false
	}
	if f.seen[t] {
		return false
	}
	f.seen[t] = true
	f.types = append(f.types, t)
	return true
}

func (f *Finder) addCompileUnit(cu *ir.CompileUnit) bool {
	if cu == nil {
		return false
	}
	if f.seen[cu] {
		return false
	}
	f.seen[cu] = true
	f.compileUnits = append(f.compileUnits, cu)
	return true
}

func (f *Finder) addGlobalVariable(gv *ir.GlobalVariable) bool {
	if gv == nil {
		return false
	}
	if f.seen[gv] {
		return false
	}
	f.seen[gv] = true
	f.globals = append(f.globals, gv)
	return true
}

func (f *Finder) addSubprogram(sp *ir.Subprogram) bool {
	if sp == nil {
		return false
	}
	if f.seen[sp] {
		return false
	}
	f.seen[sp] = true
	f.subprograms = append(f.subprograms, sp)
	return true
}

func (f *Finder) addScope(scope ir.Metadata) bool {
	if scope == nil {
		return false
	}
	// Some producers emit scopes with no content at all. Treat such a scope
	// as absent without marking it seen, so that a later well-formed scope
	// is still processed.
	if scope.NumOperands() == 0 {
		return false
	}
	if f.seen[scope] {
		return false
	}
	f.seen[scope] = true
	f.scopes = append(f.scopes, scope)
	return true
}

// CompileUnits returns the discovered compile units in first-discovery order.
func (f *Finder) CompileUnits() []*ir.CompileUnit {
	return f.compileUnits
}

// Subprograms returns the discovered subprograms in first-discovery order.
func (f *Finder) Subprograms() []*ir.Subprogram {
	return f.subprograms
}

// GlobalVariables returns the discovered global variables in first-discovery
// order.
func (f *Finder) GlobalVariables() []*ir.GlobalVariable {
	return f.globals
}

// Types returns the discovered types in first-discovery order.
func (f *Finder) Types() []ir.Type {
	return f.types
}

// Scopes returns the discovered lexical scopes in first-discovery order.
func (f *Finder) Scopes() []ir.Metadata {
	return f.scopes
}
