package debuginfo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yangzhixuan/llvm-dsa/debuginfo"
	"github.com/yangzhixuan/llvm-dsa/ir"
)

// fixture is a hand-built module graph: one compile unit carrying a global
// variable, a subprogram with a lexical block, an enum, an imported entity
// and a self-referential struct reachable only through its identifier.
type fixture struct {
	mod *ir.Module

	cu     *ir.CompileUnit
	intTy  *ir.BasicType
	nodeTy *ir.CompositeType
	value  *ir.DerivedType
	next   *ir.DerivedType
	ptr    *ir.DerivedType
	enum   *ir.CompositeType
	sig    *ir.SubroutineType
	sp     *ir.Subprogram
	block  *ir.LexicalBlock
	gv     *ir.GlobalVariable
	local  *ir.LocalVariable
	fn     *ir.Function
}

func buildFixture() *fixture {
	f := &fixture{}

	f.intTy = &ir.BasicType{Name: "int", SizeInBits: 32, Encoding: "signed"}

	// struct Node { int value; Node *next; }, next pointing back at the
	// struct through its identifier.
	f.ptr = &ir.DerivedType{Tag: ir.TagPointerType, BaseType: ir.RefByID("_ZTS4Node")}
	f.value = &ir.DerivedType{Tag: ir.TagMemberType, Name: "value", BaseType: ir.RefTo(f.intTy)}
	f.next = &ir.DerivedType{Tag: ir.TagMemberType, Name: "next", BaseType: ir.RefTo(f.ptr)}
	f.nodeTy = &ir.CompositeType{
		Tag:        ir.TagStructType,
		Name:       "Node",
		Identifier: "_ZTS4Node",
		Elements:   []ir.Metadata{f.value, f.next},
	}

	f.enum = &ir.CompositeType{Tag: ir.TagEnumType, Name: "Color"}
	f.sig = &ir.SubroutineType{TypeArray: []ir.TypeRef{ir.RefTo(f.intTy)}}

	f.fn = &ir.Function{Name: "main"}
	f.sp = &ir.Subprogram{Name: "main", File: "main.c", Line: 1, Type: f.sig, Function: f.fn}
	f.block = &ir.LexicalBlock{Parent: f.sp, File: "main.c", Line: 3}
	f.local = &ir.LocalVariable{Name: "x", Scope: f.block, Type: ir.RefTo(f.intTy)}
	f.gv = &ir.GlobalVariable{Name: "head", Type: ir.RefByID("_ZTS4Node")}

	f.cu = &ir.CompileUnit{
		File:             "main.c",
		Producer:         "clang",
		GlobalVariables:  []*ir.GlobalVariable{f.gv},
		Subprograms:      []*ir.Subprogram{f.sp},
		EnumTypes:        []ir.Type{f.enum},
		RetainedTypes:    []ir.Type{f.nodeTy},
		ImportedEntities: []*ir.ImportedEntity{{Name: "Color", Entity: ir.RefTo(f.enum)}},
	}

	f.mod = ir.NewModule("fixture")
	f.mod.GetOrInsertNamedMetadata(ir.DebugNodesName).AddOperand(f.cu)
	f.mod.AddFunction(f.fn)
	f.mod.SetFlag(ir.DebugVersionKey, 3)
	return f
}

func TestFinder_ProcessModuleOrder(t *testing.T) {
	f := buildFixture()
	finder := debuginfo.NewFinder()
	finder.ProcessModule(f.mod)

	assert.Equal(t, []*ir.CompileUnit{f.cu}, finder.CompileUnits())
	assert.Equal(t, []*ir.Subprogram{f.sp}, finder.Subprograms())
	assert.Equal(t, []*ir.GlobalVariable{f.gv}, finder.GlobalVariables())

	// Depth-first left-to-right: the struct is reached first through the
	// global's weak type reference, its members and their base types follow
	// in declaration order, then the subprogram signature and the enum.
	assert.Equal(t,
		[]ir.Type{f.nodeTy, f.value, f.intTy, f.next, f.ptr, f.sig, f.enum},
		finder.Types())
	assert.Empty(t, finder.Scopes())
}

func TestFinder_ProcessModuleIdempotent(t *testing.T) {
	f := buildFixture()
	finder := debuginfo.NewFinder()
	finder.ProcessModule(f.mod)

	types := len(finder.Types())
	finder.ProcessModule(f.mod)

	assert.Len(t, finder.CompileUnits(), 1)
	assert.Len(t, finder.Subprograms(), 1)
	assert.Len(t, finder.GlobalVariables(), 1)
	assert.Len(t, finder.Types(), types)
}

func TestFinder_NoDuplicates(t *testing.T) {
	f := buildFixture()
	finder := debuginfo.NewFinder()
	finder.ProcessModule(f.mod)
	finder.ProcessLocation(f.mod, &ir.Location{Line: 3, Scope: f.block})

	seen := map[ir.Metadata]bool{}
	for _, ty := range finder.Types() {
		assert.False(t, seen[ty], "type %v discovered twice", ty)
		seen[ty] = true
	}
	for _, scope := range finder.Scopes() {
		assert.False(t, seen[scope], "scope discovered twice")
		seen[scope] = true
	}
}

func TestFinder_CycleSafety(t *testing.T) {
	f := buildFixture()
	finder := debuginfo.NewFinder()
	finder.ProcessModule(f.mod)

	count := 0
	for _, ty := range finder.Types() {
		if ty == f.nodeTy {
			count++
		}
	}
	assert.Equal(t, 1, count, "self-referential struct must appear exactly once")
}

func TestFinder_ProcessLocation(t *testing.T) {
	f := buildFixture()
	finder := debuginfo.NewFinder()

	callerSP := &ir.Subprogram{Name: "caller", File: "main.c", Line: 10}
	loc := &ir.Location{
		Line:      4,
		Scope:     f.block,
		InlinedAt: &ir.Location{Line: 11, Scope: callerSP},
	}
	finder.ProcessLocation(f.mod, loc)

	assert.Equal(t, []ir.Metadata{f.block}, finder.Scopes())
	assert.Contains(t, finder.Subprograms(), f.sp, "block parent chain reaches the subprogram")
	assert.Contains(t, finder.Subprograms(), callerSP, "inlined-at chain reaches the caller")

	finder.ProcessLocation(f.mod, nil)
	assert.Len(t, finder.Scopes(), 1)
}

func TestFinder_EmptyScopeIgnored(t *testing.T) {
	f := buildFixture()
	finder := debuginfo.NewFinder()

	empty := &ir.LexicalBlock{}
	finder.ProcessLocation(f.mod, &ir.Location{Scope: empty})
	assert.Empty(t, finder.Scopes(), "scope with no content is treated as absent")

	// The node was not marked seen, so a location in a well-formed scope is
	// still processed afterwards.
	finder.ProcessLocation(f.mod, &ir.Location{Scope: f.block})
	assert.Equal(t, []ir.Metadata{f.block}, finder.Scopes())
}

func TestFinder_ProcessDeclare(t *testing.T) {
	f := buildFixture()
	finder := debuginfo.NewFinder()

	rec := &ir.Instruction{Op: "call", Operands: []ir.Metadata{f.local}}
	finder.ProcessDeclare(f.mod, rec)

	assert.Equal(t, []ir.Metadata{f.block}, finder.Scopes())
	assert.Contains(t, finder.Types(), f.intTy)
	assert.Contains(t, finder.Subprograms(), f.sp)

	// Same variable again: nothing grows.
	types := len(finder.Types())
	finder.ProcessDeclare(f.mod, rec)
	assert.Len(t, finder.Types(), types)

	// A record whose operand is not a local variable is a no-op.
	finder.ProcessValue(f.mod, &ir.Instruction{Op: "call", Operands: []ir.Metadata{f.enum}})
	assert.Len(t, finder.Types(), types)
	finder.ProcessValue(f.mod, nil)
	assert.Len(t, finder.Types(), types)
}

func TestFinder_IdentifierMapRetry(t *testing.T) {
	f := buildFixture()

	// A module with no compile unit table: the weak type reference cannot
	// resolve yet and the map build is retried on every entry point.
	bare := ir.NewModule("bare")
	finder := debuginfo.NewFinder()

	first := &ir.LocalVariable{Name: "a", Scope: f.block, Type: ir.RefByID("_ZTS4Node")}
	finder.ProcessDeclare(bare, &ir.Instruction{Op: "call", Operands: []ir.Metadata{first}})
	assert.NotContains(t, finder.Types(), f.nodeTy)

	// Once a compile unit list exists the same session resolves identifiers.
	second := &ir.LocalVariable{Name: "b", Scope: f.block, Type: ir.RefByID("_ZTS4Node")}
	finder.ProcessDeclare(f.mod, &ir.Instruction{Op: "call", Operands: []ir.Metadata{second}})
	assert.Contains(t, finder.Types(), f.nodeTy)
}

func TestFinder_Reset(t *testing.T) {
	f := buildFixture()
	finder := debuginfo.NewFinder()
	finder.ProcessModule(f.mod)
	finder.Reset()

	assert.Empty(t, finder.CompileUnits())
	assert.Empty(t, finder.Subprograms())
	assert.Empty(t, finder.GlobalVariables())
	assert.Empty(t, finder.Types())
	assert.Empty(t, finder.Scopes())

	// The session is usable again after reset.
	finder.ProcessModule(f.mod)
	assert.Len(t, finder.CompileUnits(), 1)
}
