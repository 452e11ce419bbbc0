package debuginfo

import (
	"fmt"
	"strconv"

	"github.com/minio/highwayhash"
	"gopkg.in/yaml.v3"

	"github.com/yangzhixuan/llvm-dsa/ir"
)

var fingerprintKey = []byte("0123456789ABCDEF0123456789ABCDEF")

// NodeSummary describes one discovered node in a report.
type NodeSummary struct {
	ID   string `yaml:"id"`
	Kind string `yaml:"kind"`
	Name string `yaml:"name,omitempty"`
}

// Report is a serializable summary of one finder session, listing the
// discovered nodes per category in first-discovery order. Node IDs are
// stable fingerprints: the same session always yields the same report.
type Report struct {
	CompileUnits    []NodeSummary `yaml:"compileUnits,omitempty"`
	Subprograms     []NodeSummary `yaml:"subprograms,omitempty"`
	GlobalVariables []NodeSummary `yaml:"globalVariables,omitempty"`
	Types           []NodeSummary `yaml:"types,omitempty"`
	Scopes          []NodeSummary `yaml:"scopes,omitempty"`
}

// NewReport summarizes the accumulated output of the finder session.
func NewReport(f *Finder) (*Report, error) {
	r := &Report{}
	for i, cu := range f.CompileUnits() {
		s, err := summarize(cu, i)
		if err != nil {
			return nil, err
		}
		r.CompileUnits = append(r.CompileUnits, s)
	}
	for i, sp := range f.Subprograms() {
		s, err := summarize(sp, i)
		if err != nil {
			return nil, err
		}
		r.Subprograms = append(r.Subprograms, s)
	}
	for i, gv := range f.GlobalVariables() {
		s, err := summarize(gv, i)
		if err != nil {
			return nil, err
		}
		r.GlobalVariables = append(r.GlobalVariables, s)
	}
	for i, t := range f.Types() {
		s, err := summarize(t, i)
		if err != nil {
			return nil, err
		}
		r.Types = append(r.Types, s)
	}
	for i, scope := range f.Scopes() {
		s, err := summarize(scope, i)
		if err != nil {
			return nil, err
		}
		r.Scopes = append(r.Scopes, s)
	}
	return r, nil
}

// Marshal renders the report as YAML.
func (r *Report) Marshal() ([]byte, error) {
	return yaml.Marshal(r)
}

func summarize(node ir.Metadata, ordinal int) (NodeSummary, error) {
	kind := string(node.MetadataKind())
	name := nodeName(node)
	id, err := fingerprint(kind, name, strconv.Itoa(ordinal))
	if err != nil {
		return NodeSummary{}, err
	}
	return NodeSummary{ID: id, Kind: kind, Name: name}, nil
}

func nodeName(node ir.Metadata) string {
	switch n := node.(type) {
	case *ir.CompileUnit:
		return n.File
	case *ir.Subprogram:
		return n.Name
	case *ir.GlobalVariable:
		return n.Name
	case *ir.BasicType:
		return n.Name
	case *ir.DerivedType:
		return n.Name
	case *ir.CompositeType:
		return n.Name
	case *ir.Namespace:
		return n.Name
	case *ir.LexicalBlock:
		return fmt.Sprintf("%s:%d", n.File, n.Line)
	}
	return ""
}

func fingerprint(parts ...string) (string, error) {
	h, err := highwayhash.New64(fingerprintKey)
	if err != nil {
		return "", err
	}
	for _, part := range parts {
		if _, err := h.Write([]byte(part)); err != nil {
			return "", err
		}
		if _, err := h.Write([]byte{0}); err != nil {
			return "", err
		}
	}
	return fmt.Sprintf("%016x", h.Sum64()), nil
}
