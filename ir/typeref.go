package ir

// TypeRef refers to a metadata node either directly or weakly through the
// unique string identifier of a composite type. Weak references break cycles
// between mutually recursive aggregates and support forward declaration; they
// carry no ownership and must be resolved against an identifier map.
type TypeRef struct {
	Node       Metadata
	Identifier string
}

// RefTo builds a direct reference to the given node.
func RefTo(node Metadata) TypeRef {
	return TypeRef{Node: node}
}

// RefByID builds a weak reference carrying only a composite type identifier.
func RefByID(identifier string) TypeRef {
	return TypeRef{Identifier: identifier}
}

// IsZero reports whether the reference points at nothing at all.
func (r TypeRef) IsZero() bool {
	return r.Node == nil && r.Identifier == ""
}

// Resolve returns the referenced node. A direct reference resolves to its
// node; a weak reference is looked up in the identifier map. An identifier
// with no map entry resolves to nil, which callers treat as absent.
func (r TypeRef) Resolve(identifiers map[string]*CompositeType) Metadata {
	if r.Node != nil {
		return r.Node
	}
	if r.Identifier == "" {
		return nil
	}
	if ct, ok := identifiers[r.Identifier]; ok {
		return ct
	}
	return nil
}

// ResolveType resolves the reference and narrows it to a type node,
// returning nil when the target is absent or not a type.
func (r TypeRef) ResolveType(identifiers map[string]*CompositeType) Type {
	if t, ok := r.Resolve(identifiers).(Type); ok {
		return t
	}
	return nil
}
