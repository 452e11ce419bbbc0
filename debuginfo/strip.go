package debuginfo

import (
	"strings"

	"github.com/yangzhixuan/llvm-dsa/ir"
)

// StripFunctionDebugInfo clears the source location tag from every
// instruction of the function, reporting whether anything changed.
func StripFunctionDebugInfo(fn *ir.Function) bool {
	changed := false
	for _, b := range fn.Blocks {
		for _, in := range b.Instructions {
			if in.Loc != nil {
				in.Loc = nil
				changed = true
			}
		}
	}
	return changed
}

// StripDebugInfo removes all debug info from the module: every call to the
// reserved debug intrinsics and their declarations, every named metadata
// table with the reserved debug prefix, and every per-instruction source
// location tag. An attached materializer is notified so that functions
// materialized later omit debug info as well. The transform is one-shot and
// non-reversible; stripping an already stripped module reports false.
func StripDebugInfo(m *ir.Module) bool {
	changed := false

	if removeDebugIntrinsic(m, ir.DebugDeclareName) {
		changed = true
	}
	if removeDebugIntrinsic(m, ir.DebugValueName) {
		changed = true
	}

	// Snapshot the doomed table names first, then erase, so the table list
	// is never mutated mid-iteration.
	var doomed []string
	for _, nmd := range m.NamedMetadataList() {
		if strings.HasPrefix(nmd.Name, ir.DebugPrefix) {
			doomed = append(doomed, nmd.Name)
		}
	}
	for _, name := range doomed {
		if m.EraseNamedMetadata(name) {
			changed = true
		}
	}

	for _, fn := range m.Functions() {
		if StripFunctionDebugInfo(fn) {
			changed = true
		}
	}

	if mat := m.Materializer(); mat != nil {
		mat.SetStripDebugInfo()
	}

	return changed
}

// removeDebugIntrinsic erases every call site of the named intrinsic and
// then the declaration itself. Call sites are collected per block before any
// deletion.
func removeDebugIntrinsic(m *ir.Module, name string) bool {
	decl := m.Function(name)
	if decl == nil {
		return false
	}
	for _, fn := range m.Functions() {
		for _, b := range fn.Blocks {
			var calls []*ir.Instruction
			for _, in := range b.Instructions {
				if in.Calls(decl) {
					calls = append(calls, in)
				}
			}
			for _, in := range calls {
				b.RemoveInstruction(in)
			}
		}
	}
	m.RemoveFunction(decl)
	return true
}
