package ir

// Reserved identifiers shared between the module layer and debug info
// consumers.
const (
	// DebugNodesName is the named metadata table holding compile units.
	DebugNodesName = "llvm.dbg.cu"

	// DebugPrefix marks named metadata tables carrying debug info.
	DebugPrefix = "llvm.dbg."

	// DebugDeclareName and DebugValueName are the reserved debug intrinsics.
	DebugDeclareName = "llvm.dbg.declare"
	DebugValueName   = "llvm.dbg.value"

	// DebugVersionKey is the module flag recording the debug metadata version.
	DebugVersionKey = "Debug Info Version"
)

// NamedMetadata is a module-level metadata table addressed by name.
type NamedMetadata struct {
	Name     string
	Operands []Metadata
}

// AddOperand appends a node to the table.
func (n *NamedMetadata) AddOperand(node Metadata) {
	n.Operands = append(n.Operands, node)
}

// Materializer lazily materializes function bodies on demand. The debug info
// stripper notifies it so that bodies materialized later omit debug info too.
type Materializer interface {
	SetStripDebugInfo()
}

// Module owns the named metadata tables, module flags and functions of one
// translation unit. Exclusive access is assumed for the duration of any
// traversal or mutation.
type Module struct {
	Name string

	named      []*NamedMetadata
	namedIndex map[string]int

	funcs     []*Function
	funcIndex map[string]int

	flags map[string]interface{}

	materializer Materializer
}

// NewModule creates an empty module.
func NewModule(name string) *Module {
	return &Module{
		Name:       name,
		namedIndex: make(map[string]int),
		funcIndex:  make(map[string]int),
		flags:      make(map[string]interface{}),
	}
}

// NamedMetadata returns the table with the given name, or nil.
func (m *Module) NamedMetadata(name string) *NamedMetadata {
	if idx, ok := m.namedIndex[name]; ok && idx < len(m.named) {
		return m.named[idx]
	}
	return nil
}

// GetOrInsertNamedMetadata returns the table with the given name, creating
// it at the end of the table list when missing.
func (m *Module) GetOrInsertNamedMetadata(name string) *NamedMetadata {
	if nmd := m.NamedMetadata(name); nmd != nil {
		return nmd
	}
	nmd := &NamedMetadata{Name: name}
	m.named = append(m.named, nmd)
	m.namedIndex[name] = len(m.named) - 1
	return nmd
}

// EraseNamedMetadata removes the table with the given name, preserving the
// order of the remaining tables.
func (m *Module) EraseNamedMetadata(name string) bool {
	idx, ok := m.namedIndex[name]
	if !ok {
		return false
	}
	m.named = append(m.named[:idx], m.named[idx+1:]...)
	delete(m.namedIndex, name)
	for i := idx; i < len(m.named); i++ {
		m.namedIndex[m.named[i].Name] = i
	}
	return true
}

// NamedMetadataList returns the tables in insertion order.
func (m *Module) NamedMetadataList() []*NamedMetadata {
	return m.named
}

// DebugCompileUnits returns the compile units registered in the reserved
// llvm.dbg.cu table, skipping operands of any other kind. Returns nil when
// the table does not exist, which callers treat as "no compile unit list
// available yet".
func (m *Module) DebugCompileUnits() []*CompileUnit {
	nmd := m.NamedMetadata(DebugNodesName)
	if nmd == nil {
		return nil
	}
	units := make([]*CompileUnit, 0, len(nmd.Operands))
	for _, op := range nmd.Operands {
		if cu, ok := op.(*CompileUnit); ok {
			units = append(units, cu)
		}
	}
	return units
}

// AddFunction appends a function to the module.
func (m *Module) AddFunction(fn *Function) {
	m.funcs = append(m.funcs, fn)
	m.funcIndex[fn.Name] = len(m.funcs) - 1
}

// Function returns the function with the given name, or nil.
func (m *Module) Function(name string) *Function {
	if idx, ok := m.funcIndex[name]; ok && idx < len(m.funcs) {
		return m.funcs[idx]
	}
	return nil
}

// RemoveFunction detaches the function from the module.
func (m *Module) RemoveFunction(fn *Function) bool {
	idx, ok := m.funcIndex[fn.Name]
	if !ok || m.funcs[idx] != fn {
		return false
	}
	m.funcs = append(m.funcs[:idx], m.funcs[idx+1:]...)
	delete(m.funcIndex, fn.Name)
	for i := idx; i < len(m.funcs); i++ {
		m.funcIndex[m.funcs[i].Name] = i
	}
	return true
}

// Functions returns the module functions in insertion order.
func (m *Module) Functions() []*Function {
	return m.funcs
}

// SetFlag records a module-level flag under the given key.
func (m *Module) SetFlag(key string, value interface{}) {
	m.flags[key] = value
}

// Flag returns the module flag stored under the key, or nil.
func (m *Module) Flag(key string) interface{} {
	return m.flags[key]
}

// SetMaterializer attaches a lazy function materializer.
func (m *Module) SetMaterializer(mat Materializer) {
	m.materializer = mat
}

// Materializer returns the attached materializer, or nil.
func (m *Module) Materializer() Materializer {
	return m.materializer
}
