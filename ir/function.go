package ir

// Function is an ordered list of basic blocks. A function with no blocks is
// a declaration.
type Function struct {
	Name   string
	Blocks []*Block
}

// IsDeclaration reports whether the function has no body.
func (f *Function) IsDeclaration() bool {
	return len(f.Blocks) == 0
}

// AddBlock appends a basic block to the function.
func (f *Function) AddBlock(b *Block) {
	f.Blocks = append(f.Blocks, b)
}

// Instructions returns every instruction of the function in program order.
func (f *Function) Instructions() []*Instruction {
	var out []*Instruction
	for _, b := range f.Blocks {
		out = append(out, b.Instructions...)
	}
	return out
}

// Block is a basic block holding instructions in program order.
type Block struct {
	Label        string
	Instructions []*Instruction
}

// AddInstruction appends an instruction to the block.
func (b *Block) AddInstruction(in *Instruction) {
	b.Instructions = append(b.Instructions, in)
}

// RemoveInstruction detaches the instruction from the block.
func (b *Block) RemoveInstruction(in *Instruction) bool {
	for i, cand := range b.Instructions {
		if cand == in {
			b.Instructions = append(b.Instructions[:i], b.Instructions[i+1:]...)
			return true
		}
	}
	return false
}

// Instruction is a single operation. Call instructions carry their callee;
// debug intrinsic calls additionally carry metadata operands, the first of
// which is the variable descriptor. Loc is the attached source location tag,
// nil when the instruction carries none.
type Instruction struct {
	Op       string
	Callee   *Function
	Operands []Metadata
	Loc      *Location
}

// Calls reports whether the instruction is a call to the given function.
func (in *Instruction) Calls(fn *Function) bool {
	return fn != nil && in.Callee == fn
}

// DebugVariable returns the variable descriptor operand of a debug intrinsic
// call, or nil when the instruction carries no metadata operands.
func (in *Instruction) DebugVariable() Metadata {
	if len(in.Operands) == 0 {
		return nil
	}
	return in.Operands[0]
}
