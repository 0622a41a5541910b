package model

import (
	"fmt"
	"slices"
	"strings"
)

// Separator joins namespace segments in qualified IDL names.
const Separator = "::"

// Kind distinguishes the IDL construct a class is emitted as. A class is
// always exactly one kind.
type Kind int

const (
	// KindStruct is a plain IDL struct. It is the zero value.
	KindStruct Kind = iota
	// KindEnum is an enumeration; its attributes are the literals.
	KindEnum
	// KindUnion is a discriminated union. Class.UnionEnum names the discriminator.
	KindUnion
	// KindTypedef aliases Class.ParentType.
	KindTypedef
	// KindMap is a key/value container type. Attributes referencing it are
	// rewritten to IDL map<> members by the map transform.
	KindMap
)

var kindNames = [...]string{
	KindStruct:  "struct",
	KindEnum:    "enum",
	KindUnion:   "union",
	KindTypedef: "typedef",
	KindMap:     "map",
}

// String returns the lower-case kind name used in model documents.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler. An empty string decodes
// to KindStruct.
func (k *Kind) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	if s == "" {
		*k = KindStruct
		return nil
	}
	for i, name := range kindNames {
		if name == s {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown class kind %q", string(text))
}

// ConnectionEnd describes one side of a relationship.
type ConnectionEnd struct {
	Role        string `json:"role,omitempty" yaml:"role,omitempty"`
	Cardinality string `json:"cardinality,omitempty" yaml:"cardinality,omitempty"`
}

// Connection is a directed relationship between two model objects. It only
// feeds dependency edges and diagnostics.
type Connection struct {
	ConnectorID   int64         `json:"connector_id" yaml:"connector_id"`
	ConnectorType string        `json:"connector_type" yaml:"connector_type"`
	StartObjectID int64         `json:"start_object_id" yaml:"start_object_id"`
	EndObjectID   int64         `json:"end_object_id" yaml:"end_object_id"`
	Source        ConnectionEnd `json:"source,omitzero" yaml:"source,omitempty"`
	Destination   ConnectionEnd `json:"destination,omitzero" yaml:"destination,omitempty"`
}

// Attribute is a named, typed member of a class.
//
// Type is resolved against Namespace, which is the namespace of the target
// type and not of the owning class. Connector is nil for primitives and enum
// literals.
type Attribute struct {
	Name         string      `json:"name" yaml:"name"`
	Type         string      `json:"type,omitempty" yaml:"type,omitempty"`
	Namespace    []string    `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	IsCollection bool        `json:"is_collection,omitempty" yaml:"is_collection,omitempty"`
	IsOptional   bool        `json:"is_optional,omitempty" yaml:"is_optional,omitempty"`
	IsMap        bool        `json:"is_map,omitempty" yaml:"is_map,omitempty"`
	MapKeyType   string      `json:"map_key_type,omitempty" yaml:"map_key_type,omitempty"`
	MapValueType string      `json:"map_value_type,omitempty" yaml:"map_value_type,omitempty"`
	Stereotypes  []string    `json:"stereotypes,omitempty" yaml:"stereotypes,omitempty"`
	Connector    *Connection `json:"connector,omitempty" yaml:"connector,omitempty"`
}

// QualifiedType returns the namespace-qualified type name, or the bare type
// when the attribute has no namespace (primitives).
func (a *Attribute) QualifiedType() string {
	if len(a.Namespace) == 0 {
		return a.Type
	}
	return strings.Join(a.Namespace, Separator) + Separator + a.Type
}

// HasStereotype reports whether the attribute carries stereotype s.
func (a *Attribute) HasStereotype(s string) bool { return slices.Contains(a.Stereotypes, s) }

// Clone returns a deep copy of the attribute.
func (a *Attribute) Clone() *Attribute {
	c := *a
	c.Namespace = slices.Clone(a.Namespace)
	c.Stereotypes = slices.Clone(a.Stereotypes)
	if a.Connector != nil {
		conn := *a.Connector
		c.Connector = &conn
	}
	return &c
}

// Class is a graph node: a struct, enum, union, typedef or map.
//
// Cross references (DependsOn, PackageID) are object ids, never pointers, so
// removing a class only requires pruning ids.
type Class struct {
	ObjectID       int64             `json:"object_id" yaml:"object_id"`
	Name           string            `json:"name" yaml:"name"`
	Namespace      []string          `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Kind           Kind              `json:"kind" yaml:"kind"`
	Stereotypes    []string          `json:"stereotypes,omitempty" yaml:"stereotypes,omitempty"`
	Attributes     []*Attribute      `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	DependsOn      []int64           `json:"depends_on,omitempty" yaml:"depends_on,omitempty"`
	Generalization []string          `json:"generalization,omitempty" yaml:"generalization,omitempty"`
	ParentType     string            `json:"parent_type,omitempty" yaml:"parent_type,omitempty"`
	UnionEnum      string            `json:"union_enum,omitempty" yaml:"union_enum,omitempty"`
	ValuesEnums    []string          `json:"values_enums,omitempty" yaml:"values_enums,omitempty"`
	IsAbstract     bool              `json:"is_abstract,omitempty" yaml:"is_abstract,omitempty"`
	Properties     map[string]string `json:"properties,omitempty" yaml:"properties,omitempty"`

	// PackageID is a non-owning back-reference set by Link.
	PackageID int64 `json:"-" yaml:"-"`
}

func (c *Class) IsStruct() bool  { return c.Kind == KindStruct }
func (c *Class) IsEnum() bool    { return c.Kind == KindEnum }
func (c *Class) IsUnion() bool   { return c.Kind == KindUnion }
func (c *Class) IsTypedef() bool { return c.Kind == KindTypedef }
func (c *Class) IsMap() bool     { return c.Kind == KindMap }

// FullName returns the namespace-qualified class name, e.g. "core::data::Point".
func (c *Class) FullName() string {
	if len(c.Namespace) == 0 {
		return c.Name
	}
	return strings.Join(c.Namespace, Separator) + Separator + c.Name
}

// Path returns Namespace followed by Name, the form used by Generalization.
func (c *Class) Path() []string {
	return append(slices.Clone(c.Namespace), c.Name)
}

// HasStereotype reports whether the class carries stereotype s.
func (c *Class) HasStereotype(s string) bool { return slices.Contains(c.Stereotypes, s) }

// HasProperty reports whether the class has the named property (tag).
func (c *Class) HasProperty(name string) bool {
	_, ok := c.Properties[name]
	return ok
}

// Attribute returns the attribute with the given name, or nil.
func (c *Class) Attribute(name string) *Attribute {
	for _, a := range c.Attributes {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// AddDependency appends id to DependsOn unless it is already present or is
// the class itself.
func (c *Class) AddDependency(id int64) {
	if id == c.ObjectID || slices.Contains(c.DependsOn, id) {
		return
	}
	c.DependsOn = append(c.DependsOn, id)
}

// PackageInfo holds per-package statistics consumed by renderers.
type PackageInfo struct {
	Structs  int `json:"structs" yaml:"structs"`
	Typedefs int `json:"typedefs" yaml:"typedefs"`
	Unions   int `json:"unions" yaml:"unions"`
	Maps     int `json:"maps" yaml:"maps"`
	Enums    int `json:"enums" yaml:"enums"`
	Packages int `json:"packages" yaml:"packages"`

	// CreateDefinition is false for modules that would be empty in IDL.
	CreateDefinition  bool `json:"create_definition" yaml:"create_definition"`
	CreateDeclaration bool `json:"create_declaration" yaml:"create_declaration"`
}

// Package is a namespace node owning child packages and classes.
type Package struct {
	PackageID   int64        `json:"package_id" yaml:"package_id"`
	ObjectID    int64        `json:"object_id" yaml:"object_id"`
	Name        string       `json:"name" yaml:"name"`
	GUID        string       `json:"guid,omitempty" yaml:"guid,omitempty"`
	Stereotypes []string     `json:"stereotypes,omitempty" yaml:"stereotypes,omitempty"`
	Packages    []*Package   `json:"packages,omitempty" yaml:"packages,omitempty"`
	Classes     []*Class     `json:"classes,omitempty" yaml:"classes,omitempty"`
	DependsOn   []int64      `json:"depends_on,omitempty" yaml:"depends_on,omitempty"`
	Info        *PackageInfo `json:"info,omitempty" yaml:"info,omitempty"`

	// Namespace and ParentID are derived by Link. ParentID is zero for roots.
	Namespace []string `json:"-" yaml:"-"`
	ParentID  int64    `json:"-" yaml:"-"`
}

// HasStereotype reports whether the package carries stereotype s.
func (p *Package) HasStereotype(s string) bool { return slices.Contains(p.Stereotypes, s) }

// FullName returns the qualified package name.
func (p *Package) FullName() string { return strings.Join(p.Namespace, Separator) }

// Forest is an ordered list of root packages.
type Forest []*Package
