package ir

// Metadata is a node in the debug metadata graph. The set of implementations
// is closed; consumers dispatch on the concrete variant.
type Metadata interface {
	// MetadataKind returns the variant discriminant.
	MetadataKind() Kind

	// NumOperands reports how many descriptive fields the node carries.
	// Lax producers occasionally emit nodes with no content at all;
	// tolerant consumers treat a zero-operand node as absent.
	NumOperands() int
}

// Type is implemented by the type-kind metadata variants: basic, derived,
// composite and subroutine types.
type Type interface {
	Metadata

	// TypeScope returns the scope in which the type is declared.
	TypeScope() TypeRef
}

// CompileUnit is the top-level descriptor for one translated source module.
type CompileUnit struct {
	File             string
	Directory        string
	Producer         string
	GlobalVariables  []*GlobalVariable
	Subprograms      []*Subprogram
	EnumTypes        []Type
	RetainedTypes    []Type
	ImportedEntities []*ImportedEntity
}

func (c *CompileUnit) MetadataKind() Kind { return KindCompileUnit }

func (c *CompileUnit) NumOperands() int {
	n := len(c.GlobalVariables) + len(c.Subprograms) + len(c.EnumTypes) +
		len(c.RetainedTypes) + len(c.ImportedEntities)
	if c.File != "" {
		n++
	}
	if c.Producer != "" {
		n++
	}
	return n
}

// BasicType describes a fundamental type such as an integer or float.
type BasicType struct {
	Name       string
	SizeInBits uint64
	Encoding   string
}

func (b *BasicType) MetadataKind() Kind { return KindBasicType }
func (b *BasicType) TypeScope() TypeRef { return TypeRef{} }

func (b *BasicType) NumOperands() int {
	n := 0
	if b.Name != "" {
		n++
	}
	if b.SizeInBits != 0 {
		n++
	}
	if b.Encoding != "" {
		n++
	}
	return n
}

// DerivedType wraps another type: pointers, qualifiers, typedefs and members.
type DerivedType struct {
	Tag      Tag
	Name     string
	Scope    TypeRef
	BaseType TypeRef
}

func (d *DerivedType) MetadataKind() Kind { return KindDerivedType }
func (d *DerivedType) TypeScope() TypeRef { return d.Scope }

func (d *DerivedType) NumOperands() int {
	n := 0
	if d.Tag != "" {
		n++
	}
	if d.Name != "" {
		n++
	}
	if !d.Scope.IsZero() {
		n++
	}
	if !d.BaseType.IsZero() {
		n++
	}
	return n
}

// CompositeType describes an aggregate: struct, union, class, enumeration or
// array. A composite may carry a unique string identifier so that other nodes
// can refer to it weakly, breaking reference cycles.
type CompositeType struct {
	Tag         Tag
	Name        string
	Identifier  string
	ForwardDecl bool
	Scope       TypeRef
	BaseType    TypeRef
	Elements    []Metadata
}

func (c *CompositeType) MetadataKind() Kind { return KindCompositeType }
func (c *CompositeType) TypeScope() TypeRef { return c.Scope }

func (c *CompositeType) NumOperands() int {
	n := len(c.Elements)
	if c.Tag != "" {
		n++
	}
	if c.Name != "" {
		n++
	}
	if c.Identifier != "" {
		n++
	}
	if !c.Scope.IsZero() {
		n++
	}
	if !c.BaseType.IsZero() {
		n++
	}
	return n
}

// SubroutineType describes a function signature. TypeArray holds the return
// type followed by the parameter types; entries may be absent for void.
type SubroutineType struct {
	TypeArray []TypeRef
}

func (s *SubroutineType) MetadataKind() Kind { return KindSubroutineType }
func (s *SubroutineType) TypeScope() TypeRef { return TypeRef{} }
func (s *SubroutineType) NumOperands() int   { return len(s.TypeArray) }

// Subprogram describes a function definition or declaration.
type Subprogram struct {
	Name           string
	LinkageName    string
	File           string
	Line           int
	Scope          TypeRef
	Type           *SubroutineType
	Function       *Function
	TemplateParams []*TemplateParameter
}

func (s *Subprogram) MetadataKind() Kind { return KindSubprogram }

func (s *Subprogram) NumOperands() int {
	n := len(s.TemplateParams)
	if s.Name != "" {
		n++
	}
	if s.LinkageName != "" {
		n++
	}
	if s.File != "" {
		n++
	}
	if !s.Scope.IsZero() {
		n++
	}
	if s.Type != nil {
		n++
	}
	if s.Function != nil {
		n++
	}
	return n
}

// Describes reports whether the subprogram declares the given function,
// matching on the concrete defining function or the linkage name.
func (s *Subprogram) Describes(fn *Function) bool {
	if fn == nil {
		return false
	}
	if s.Function != nil {
		return s.Function == fn
	}
	if s.LinkageName != "" {
		return s.LinkageName == fn.Name
	}
	return s.Name == fn.Name
}

// LexicalBlock is an anonymous scope nested inside a subprogram.
type LexicalBlock struct {
	Parent Metadata
	File   string
	Line   int
	Column int
}

func (l *LexicalBlock) MetadataKind() Kind { return KindLexicalBlock }

func (l *LexicalBlock) NumOperands() int {
	n := 0
	if l.Parent != nil {
		n++
	}
	if l.File != "" {
		n++
	}
	if l.Line != 0 {
		n++
	}
	if l.Column != 0 {
		n++
	}
	return n
}

// Namespace is a named scope container.
type Namespace struct {
	Parent Metadata
	Name   string
	File   string
	Line   int
}

func (ns *Namespace) MetadataKind() Kind { return KindNamespace }

func (ns *Namespace) NumOperands() int {
	n := 0
	if ns.Parent != nil {
		n++
	}
	if ns.Name != "" {
		n++
	}
	if ns.File != "" {
		n++
	}
	if ns.Line != 0 {
		n++
	}
	return n
}

// GlobalVariable describes a module-level variable.
type GlobalVariable struct {
	Name        string
	LinkageName string
	Scope       Metadata
	Type        TypeRef
}

func (g *GlobalVariable) MetadataKind() Kind { return KindGlobalVariable }

func (g *GlobalVariable) NumOperands() int {
	n := 0
	if g.Name != "" {
		n++
	}
	if g.LinkageName != "" {
		n++
	}
	if g.Scope != nil {
		n++
	}
	if !g.Type.IsZero() {
		n++
	}
	return n
}

// LocalVariable describes a function-local variable or formal parameter.
// Arg is the one-based parameter position, zero for plain locals.
type LocalVariable struct {
	Name  string
	Scope Metadata
	Type  TypeRef
	Arg   int
}

func (l *LocalVariable) MetadataKind() Kind { return KindLocalVariable }

func (l *LocalVariable) NumOperands() int {
	n := 0
	if l.Name != "" {
		n++
	}
	if l.Scope != nil {
		n++
	}
	if !l.Type.IsZero() {
		n++
	}
	if l.Arg != 0 {
		n++
	}
	return n
}

// TemplateParameter describes a template type or value parameter of a
// subprogram or composite type. Value is non-empty for value parameters;
// both flavors carry a declared type.
type TemplateParameter struct {
	Name  string
	Type  TypeRef
	Value string
}

func (t *TemplateParameter) MetadataKind() Kind { return KindTemplateParam }

func (t *TemplateParameter) NumOperands() int {
	n := 0
	if t.Name != "" {
		n++
	}
	if !t.Type.IsZero() {
		n++
	}
	if t.Value != "" {
		n++
	}
	return n
}

// ImportedEntity records a using-declaration or module import whose target
// may be a type, a subprogram or a namespace.
type ImportedEntity struct {
	Name   string
	Entity TypeRef
	Line   int
}

func (i *ImportedEntity) MetadataKind() Kind { return KindImportedEntity }

func (i *ImportedEntity) NumOperands() int {
	n := 0
	if i.Name != "" {
		n++
	}
	if !i.Entity.IsZero() {
		n++
	}
	if i.Line != 0 {
		n++
	}
	return n
}

// Location is a source position attached to an instruction. InlinedAt links
// to the call-site location when the instruction was inlined from elsewhere.
// Locations are not metadata graph nodes and are never interned.
type Location struct {
	Line      int
	Column    int
	Scope     Metadata
	InlinedAt *Location
}

// InlinedAtScope returns the scope of the deepest location on the inlined-at
// chain: the scope of the original call site for inlined code, or the
// location's own scope otherwise.
func (l *Location) InlinedAtScope() Metadata {
	cur := l
	for cur.InlinedAt != nil {
		cur = cur.InlinedAt
	}
	return cur.Scope
}
