// Package loader builds ir modules from YAML module descriptions. Nodes are
// declared with string ids and linked in a second pass, so the description
// can express cyclic and forward references.
package loader

import (
	"context"
	"fmt"

	"github.com/viant/afs"
	"gopkg.in/yaml.v3"

	"github.com/yangzhixuan/llvm-dsa/ir"
)

// Service loads module descriptions from URLs through the afs storage layer.
type Service struct {
	fs afs.Service
}

// New creates a loader service.
func New() *Service {
	return &Service{fs: afs.New()}
}

// Load reads and parses the module description at the given URL.
func (s *Service) Load(ctx context.Context, URL string) (*ir.Module, error) {
	data, err := s.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load module description %v: %w", URL, err)
	}
	return Parse(data)
}

// Parse builds a module from a YAML module description.
func Parse(data []byte) (*ir.Module, error) {
	spec := &moduleSpec{}
	if err := yaml.Unmarshal(data, spec); err != nil {
		return nil, fmt.Errorf("failed to parse module description: %w", err)
	}
	b := &builder{
		spec:  spec,
		mod:   ir.NewModule(spec.Name),
		nodes: make(map[string]ir.Metadata),
		specs: make(map[string]*nodeSpec),
	}
	return b.build()
}

type builder struct {
	spec  *moduleSpec
	mod   *ir.Module
	nodes map[string]ir.Metadata
	specs map[string]*nodeSpec
}

func (b *builder) build() (*ir.Module, error) {
	for key, value := range b.spec.Flags {
		b.mod.SetFlag(key, value)
	}
	for _, fn := range b.spec.Functions {
		b.mod.AddFunction(&ir.Function{Name: fn.Name})
	}
	if err := b.declareNodes(); err != nil {
		return nil, err
	}
	if err := b.linkNodes(); err != nil {
		return nil, err
	}
	if err := b.buildBodies(); err != nil {
		return nil, err
	}
	if err := b.buildTables(); err != nil {
		return nil, err
	}
	return b.mod, nil
}

// declareNodes creates an empty shell per node so that later links can refer
// to nodes in any order.
func (b *builder) declareNodes() error {
	for _, spec := range b.spec.Nodes {
		if spec.ID == "" {
			return fmt.Errorf("node without id")
		}
		if _, dup := b.nodes[spec.ID]; dup {
			return fmt.Errorf("duplicate node id %v", spec.ID)
		}
		var node ir.Metadata
		switch ir.Kind(spec.Kind) {
		case ir.KindCompileUnit:
			node = &ir.CompileUnit{}
		case ir.KindBasicType:
			node = &ir.BasicType{}
		case ir.KindDerivedType:
			node = &ir.DerivedType{}
		case ir.KindCompositeType:
			node = &ir.CompositeType{}
		case ir.KindSubroutineType:
			node = &ir.SubroutineType{}
		case ir.KindSubprogram:
			node = &ir.Subprogram{}
		case ir.KindLexicalBlock:
			node = &ir.LexicalBlock{}
		case ir.KindNamespace:
			node = &ir.Namespace{}
		case ir.KindGlobalVariable:
			node = &ir.GlobalVariable{}
		case ir.KindLocalVariable:
			node = &ir.LocalVariable{}
		case ir.KindTemplateParam:
			node = &ir.TemplateParameter{}
		case ir.KindImportedEntity:
			node = &ir.ImportedEntity{}
		default:
			return fmt.Errorf("node %v: unknown kind %v", spec.ID, spec.Kind)
		}
		b.nodes[spec.ID] = node
		b.specs[spec.ID] = spec
	}
	return nil
}

func (b *builder) linkNodes() error {
	for _, spec := range b.spec.Nodes {
		if err := b.linkNode(spec); err != nil {
			return fmt.Errorf("node %v: %w", spec.ID, err)
		}
	}
	return nil
}

func (b *builder) linkNode(spec *nodeSpec) error {
	switch node := b.nodes[spec.ID].(type) {
	case *ir.CompileUnit:
		node.File = spec.File
		node.Directory = spec.Directory
		node.Producer = spec.Producer
		for _, id := range spec.Globals {
			gv, err := b.globalVariable(id)
			if err != nil {
				return err
			}
			node.GlobalVariables = append(node.GlobalVariables, gv)
		}
		for _, id := range spec.Subprograms {
			sp, err := b.subprogram(id)
			if err != nil {
				return err
			}
			node.Subprograms = append(node.Subprograms, sp)
		}
		var err error
		if node.EnumTypes, err = b.typeList(spec.EnumTypes); err != nil {
			return err
		}
		if node.RetainedTypes, err = b.typeList(spec.RetainedTypes); err != nil {
			return err
		}
		for _, id := range spec.Imports {
			raw, err := b.node(id)
			if err != nil {
				return err
			}
			ie, ok := raw.(*ir.ImportedEntity)
			if !ok {
				return fmt.Errorf("import %v is not an imported entity", id)
			}
			node.ImportedEntities = append(node.ImportedEntities, ie)
		}
	case *ir.BasicType:
		node.Name = spec.Name
		node.SizeInBits = spec.SizeInBits
		node.Encoding = spec.Encoding
	case *ir.DerivedType:
		node.Tag = ir.Tag(spec.Tag)
		node.Name = spec.Name
		var err error
		if node.Scope, err = b.typeRef(spec.Scope); err != nil {
			return err
		}
		if node.BaseType, err = b.typeRef(spec.BaseType); err != nil {
			return err
		}
	case *ir.CompositeType:
		node.Tag = ir.Tag(spec.Tag)
		node.Name = spec.Name
		node.Identifier = spec.Identifier
		node.ForwardDecl = spec.ForwardDecl
		var err error
		if node.Scope, err = b.typeRef(spec.Scope); err != nil {
			return err
		}
		if node.BaseType, err = b.typeRef(spec.BaseType); err != nil {
			return err
		}
		for _, id := range spec.Elements {
			el, err := b.node(id)
			if err != nil {
				return err
			}
			node.Elements = append(node.Elements, el)
		}
	case *ir.SubroutineType:
		for i := range spec.TypeArray {
			ref, err := b.typeRef(&spec.TypeArray[i])
			if err != nil {
				return err
			}
			node.TypeArray = append(node.TypeArray, ref)
		}
	case *ir.Subprogram:
		node.Name = spec.Name
		node.LinkageName = spec.LinkageName
		node.File = spec.File
		node.Line = spec.Line
		var err error
		if node.Scope, err = b.typeRef(spec.Scope); err != nil {
			return err
		}
		if spec.Type != nil {
			raw, err := b.refNode(spec.Type)
			if err != nil {
				return err
			}
			st, ok := raw.(*ir.SubroutineType)
			if !ok {
				return fmt.Errorf("subprogram type is not a subroutine type")
			}
			node.Type = st
		}
		if spec.Function != "" {
			fn := b.mod.Function(spec.Function)
			if fn == nil {
				return fmt.Errorf("unknown function %v", spec.Function)
			}
			node.Function = fn
		}
		for _, id := range spec.TemplateParams {
			raw, err := b.node(id)
			if err != nil {
				return err
			}
			tp, ok := raw.(*ir.TemplateParameter)
			if !ok {
				return fmt.Errorf("template parameter %v has wrong kind", id)
			}
			node.TemplateParams = append(node.TemplateParams, tp)
		}
	case *ir.LexicalBlock:
		node.File = spec.File
		node.Line = spec.Line
		node.Column = spec.Column
		parent, err := b.directScope(spec.Scope)
		if err != nil {
			return err
		}
		node.Parent = parent
	case *ir.Namespace:
		node.Name = spec.Name
		node.File = spec.File
		node.Line = spec.Line
		parent, err := b.directScope(spec.Scope)
		if err != nil {
			return err
		}
		node.Parent = parent
	case *ir.GlobalVariable:
		node.Name = spec.Name
		node.LinkageName = spec.LinkageName
		var err error
		if node.Type, err = b.typeRef(spec.Type); err != nil {
			return err
		}
		if node.Scope, err = b.directScope(spec.Scope); err != nil {
			return err
		}
	case *ir.LocalVariable:
		node.Name = spec.Name
		node.Arg = spec.Arg
		var err error
		if node.Type, err = b.typeRef(spec.Type); err != nil {
			return err
		}
		if node.Scope, err = b.directScope(spec.Scope); err != nil {
			return err
		}
	case *ir.TemplateParameter:
		node.Name = spec.Name
		node.Value = spec.Value
		var err error
		if node.Type, err = b.typeRef(spec.Type); err != nil {
			return err
		}
	case *ir.ImportedEntity:
		node.Name = spec.Name
		node.Line = spec.Line
		var err error
		if node.Entity, err = b.typeRef(spec.Entity); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) buildBodies() error {
	for _, fnSpec := range b.spec.Functions {
		fn := b.mod.Function(fnSpec.Name)
		for _, blockSpec := range fnSpec.Blocks {
			block := &ir.Block{Label: blockSpec.Label}
			for _, inSpec := range blockSpec.Instructions {
				in := &ir.Instruction{Op: inSpec.Op}
				if inSpec.Callee != "" {
					callee := b.mod.Function(inSpec.Callee)
					if callee == nil {
						return fmt.Errorf("function %v: unknown callee %v", fnSpec.Name, inSpec.Callee)
					}
					in.Callee = callee
				}
				for _, id := range inSpec.Operands {
					op, err := b.node(id)
					if err != nil {
						return fmt.Errorf("function %v: %w", fnSpec.Name, err)
					}
					in.Operands = append(in.Operands, op)
				}
				loc, err := b.location(inSpec.Loc)
				if err != nil {
					return fmt.Errorf("function %v: %w", fnSpec.Name, err)
				}
				in.Loc = loc
				block.AddInstruction(in)
			}
			fn.AddBlock(block)
		}
	}
	return nil
}

func (b *builder) buildTables() error {
	if len(b.spec.CompileUnits) > 0 {
		table := b.mod.GetOrInsertNamedMetadata(ir.DebugNodesName)
		for _, id := range b.spec.CompileUnits {
			cu, err := b.node(id)
			if err != nil {
				return err
			}
			table.AddOperand(cu)
		}
	}
	for _, tableSpec := range b.spec.NamedMetadata {
		table := b.mod.GetOrInsertNamedMetadata(tableSpec.Name)
		for _, id := range tableSpec.Nodes {
			node, err := b.node(id)
			if err != nil {
				return err
			}
			table.AddOperand(node)
		}
	}
	return nil
}

func (b *builder) location(spec *locSpec) (*ir.Location, error) {
	if spec == nil {
		return nil, nil
	}
	loc := &ir.Location{Line: spec.Line, Column: spec.Column}
	if spec.Scope != "" {
		scope, err := b.node(spec.Scope)
		if err != nil {
			return nil, err
		}
		loc.Scope = scope
	}
	parent, err := b.location(spec.InlinedAt)
	if err != nil {
		return nil, err
	}
	loc.InlinedAt = parent
	return loc, nil
}

func (b *builder) node(id string) (ir.Metadata, error) {
	node, ok := b.nodes[id]
	if !ok {
		return nil, fmt.Errorf("unresolved node reference %v", id)
	}
	return node, nil
}

// directScope resolves a scope reference that must be a concrete node; an
// absent reference resolves to nil.
func (b *builder) directScope(ref *refSpec) (ir.Metadata, error) {
	if ref == nil || ref.Node == "" {
		return nil, nil
	}
	return b.node(ref.Node)
}

// refNode resolves a reference spec to a direct node; weak identifier refs
// are not allowed where a concrete node is required.
func (b *builder) refNode(ref *refSpec) (ir.Metadata, error) {
	if ref == nil || ref.Node == "" {
		return nil, fmt.Errorf("missing node reference")
	}
	return b.node(ref.Node)
}

func (b *builder) typeRef(ref *refSpec) (ir.TypeRef, error) {
	if ref == nil {
		return ir.TypeRef{}, nil
	}
	if ref.ID != "" {
		return ir.RefByID(ref.ID), nil
	}
	if ref.Node == "" {
		return ir.TypeRef{}, nil
	}
	node, err := b.node(ref.Node)
	if err != nil {
		return ir.TypeRef{}, err
	}
	return ir.RefTo(node), nil
}

func (b *builder) typeList(ids []string) ([]ir.Type, error) {
	var out []ir.Type
	for _, id := range ids {
		raw, err := b.node(id)
		if err != nil {
			return nil, err
		}
		t, ok := raw.(ir.Type)
		if !ok {
			return nil, fmt.Errorf("node %v is not a type", id)
		}
		out = append(out, t)
	}
	return out, nil
}

func (b *builder) globalVariable(id string) (*ir.GlobalVariable, error) {
	raw, err := b.node(id)
	if err != nil {
		return nil, err
	}
	gv, ok := raw.(*ir.GlobalVariable)
	if !ok {
		return nil, fmt.Errorf("node %v is not a global variable", id)
	}
	return gv, nil
}

func (b *builder) subprogram(id string) (*ir.Subprogram, error) {
	raw, err := b.node(id)
	if err != nil {
		return nil, err
	}
	sp, ok := raw.(*ir.Subprogram)
	if !ok {
		return nil, fmt.Errorf("node %v is not a subprogram", id)
	}
	return sp, nil
}
