package loader

// moduleSpec is the YAML module description. Nodes carry string ids; every
// reference between nodes is an id, so declaration order does not matter and
// cycles are expressible.
type moduleSpec struct {
	Name          string                 `yaml:"name"`
	Flags         map[string]interface{} `yaml:"flags,omitempty"`
	Nodes         []*nodeSpec            `yaml:"nodes,omitempty"`
	CompileUnits  []string               `yaml:"compileUnits,omitempty"`
	NamedMetadata []*tableSpec           `yaml:"namedMetadata,omitempty"`
	Functions     []*functionSpec        `yaml:"functions,omitempty"`
}

// refSpec is a type reference: either a direct node id or a weak composite
// type identifier resolved later through an identifier map.
type refSpec struct {
	Node string `yaml:"node,omitempty"`
	ID   string `yaml:"id,omitempty"`
}

// nodeSpec is the union of fields across node kinds; Kind selects which
// fields are meaningful.
type nodeSpec struct {
	ID   string `yaml:"id"`
	Kind string `yaml:"kind"`

	Name        string `yaml:"name,omitempty"`
	LinkageName string `yaml:"linkageName,omitempty"`
	File        string `yaml:"file,omitempty"`
	Directory   string `yaml:"directory,omitempty"`
	Producer    string `yaml:"producer,omitempty"`
	Line        int    `yaml:"line,omitempty"`
	Column      int    `yaml:"column,omitempty"`

	Tag         string `yaml:"tag,omitempty"`
	Identifier  string `yaml:"identifier,omitempty"`
	ForwardDecl bool   `yaml:"forwardDecl,omitempty"`
	Encoding    string `yaml:"encoding,omitempty"`
	SizeInBits  uint64 `yaml:"sizeInBits,omitempty"`
	Value       string `yaml:"value,omitempty"`
	Arg         int    `yaml:"arg,omitempty"`

	Scope     *refSpec  `yaml:"scope,omitempty"`
	BaseType  *refSpec  `yaml:"baseType,omitempty"`
	Type      *refSpec  `yaml:"type,omitempty"`
	Entity    *refSpec  `yaml:"entity,omitempty"`
	Elements  []string  `yaml:"elements,omitempty"`
	TypeArray []refSpec `yaml:"typeArray,omitempty"`

	Globals        []string `yaml:"globals,omitempty"`
	Subprograms    []string `yaml:"subprograms,omitempty"`
	EnumTypes      []string `yaml:"enumTypes,omitempty"`
	RetainedTypes  []string `yaml:"retainedTypes,omitempty"`
	Imports        []string `yaml:"imports,omitempty"`
	TemplateParams []string `yaml:"templateParams,omitempty"`

	Function string `yaml:"function,omitempty"`
}

// tableSpec declares a named metadata table and its operands.
type tableSpec struct {
	Name  string   `yaml:"name"`
	Nodes []string `yaml:"nodes,omitempty"`
}

type functionSpec struct {
	Name   string       `yaml:"name"`
	Blocks []*blockSpec `yaml:"blocks,omitempty"`
}

type blockSpec struct {
	Label        string       `yaml:"label,omitempty"`
	Instructions []*instrSpec `yaml:"instructions,omitempty"`
}

type instrSpec struct {
	Op       string   `yaml:"op"`
	Callee   string   `yaml:"callee,omitempty"`
	Operands []string `yaml:"operands,omitempty"`
	Loc      *locSpec `yaml:"loc,omitempty"`
}

type locSpec struct {
	Line      int      `yaml:"line,omitempty"`
	Column    int      `yaml:"column,omitempty"`
	Scope     string   `yaml:"scope,omitempty"`
	InlinedAt *locSpec `yaml:"inlinedAt,omitempty"`
}
