package debuginfo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yangzhixuan/llvm-dsa/debuginfo"
	"github.com/yangzhixuan/llvm-dsa/ir"
)

func retaining(types ...ir.Type) *ir.CompileUnit {
	return &ir.CompileUnit{File: "unit.c", RetainedTypes: types}
}

func TestGenerateIdentifierMap(t *testing.T) {
	decl := &ir.CompositeType{Tag: ir.TagStructType, Name: "X", Identifier: "X", ForwardDecl: true}
	def := &ir.CompositeType{Tag: ir.TagStructType, Name: "X", Identifier: "X"}
	otherDecl := &ir.CompositeType{Tag: ir.TagStructType, Name: "X", Identifier: "X", ForwardDecl: true}
	otherDef := &ir.CompositeType{Tag: ir.TagStructType, Name: "X", Identifier: "X"}
	anonymous := &ir.CompositeType{Tag: ir.TagStructType, Name: "anon"}
	basic := &ir.BasicType{Name: "int"}

	testCases := []struct {
		description string
		units       []*ir.CompileUnit
		expect      map[string]*ir.CompositeType
	}{
		{
			description: "declaration then definition: definition wins",
			units:       []*ir.CompileUnit{retaining(decl, def)},
			expect:      map[string]*ir.CompositeType{"X": def},
		},
		{
			description: "definition then declaration: definition stays",
			units:       []*ir.CompileUnit{retaining(def, decl)},
			expect:      map[string]*ir.CompositeType{"X": def},
		},
		{
			description: "declaration and definition across units",
			units:       []*ir.CompileUnit{retaining(decl), retaining(def)},
			expect:      map[string]*ir.CompositeType{"X": def},
		},
		{
			description: "two declarations: first seen wins",
			units:       []*ir.CompileUnit{retaining(decl, otherDecl)},
			expect:      map[string]*ir.CompositeType{"X": decl},
		},
		{
			description: "two definitions: first seen wins",
			units:       []*ir.CompileUnit{retaining(def, otherDef)},
			expect:      map[string]*ir.CompositeType{"X": def},
		},
		{
			description: "non-composite and anonymous retained types skipped",
			units:       []*ir.CompileUnit{retaining(basic, anonymous)},
			expect:      map[string]*ir.CompositeType{},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			actual := debuginfo.GenerateIdentifierMap(testCase.units)
			assert.Equal(t, testCase.expect, actual)
		})
	}
}

func TestGenerateIdentifierMap_Idempotent(t *testing.T) {
	decl := &ir.CompositeType{Name: "X", Identifier: "X", ForwardDecl: true}
	def := &ir.CompositeType{Name: "X", Identifier: "X"}
	units := []*ir.CompileUnit{retaining(decl), retaining(def)}

	first := debuginfo.GenerateIdentifierMap(units)
	second := debuginfo.GenerateIdentifierMap(units)
	assert.Equal(t, first, second)
}
