package ir

// Kind discriminates the closed set of debug metadata node variants.
type Kind string

const (
	KindCompileUnit    Kind = "compileUnit"
	KindBasicType      Kind = "basicType"
	KindDerivedType    Kind = "derivedType"
	KindCompositeType  Kind = "compositeType"
	KindSubroutineType Kind = "subroutineType"
	KindSubprogram     Kind = "subprogram"
	KindLexicalBlock   Kind = "lexicalBlock"
	KindNamespace      Kind = "namespace"
	KindGlobalVariable Kind = "globalVariable"
	KindLocalVariable  Kind = "localVariable"
	KindTemplateParam  Kind = "templateParameter"
	KindImportedEntity Kind = "importedEntity"
)

// Tag refines derived and composite types, mirroring DWARF tag names.
type Tag string

const (
	TagStructType     Tag = "structure"
	TagUnionType      Tag = "union"
	TagClassType      Tag = "class"
	TagEnumType       Tag = "enumeration"
	TagArrayType      Tag = "array"
	TagPointerType    Tag = "pointer"
	TagReferenceType  Tag = "reference"
	TagTypedef        Tag = "typedef"
	TagConstType      Tag = "const"
	TagVolatileType   Tag = "volatile"
	TagRestrictType   Tag = "restrict"
	TagMemberType     Tag = "member"
	TagInheritance    Tag = "inheritance"
)
