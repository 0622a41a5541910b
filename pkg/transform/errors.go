package transform

import (
	"fmt"

	"github.com/matzehuels/idlgraph/pkg/errors"
)

// AttributeConflictError is returned by FlattenAbstractClasses when an
// inherited attribute has the same name as another attribute of the class.
type AttributeConflictError struct {
	Class     string // qualified name of the class being flattened
	Attribute string
	Ancestor  string // qualified name of the ancestor contributing the duplicate
}

func (e *AttributeConflictError) Error() string {
	return fmt.Sprintf("attribute %q inherited by %s from %s is already defined", e.Attribute, e.Class, e.Ancestor)
}

// ErrorCode implements errors.Coder.
func (e *AttributeConflictError) ErrorCode() errors.Code { return errors.ErrCodeAttributeConflict }

// AbstractFieldTypeError is returned by FlattenAbstractClasses when an
// attribute is typed by an abstract class. Abstract classes disappear from
// the output, so such a field would have no type.
type AbstractFieldTypeError struct {
	Class     string
	Attribute string
	Type      string // qualified name of the abstract class
}

func (e *AbstractFieldTypeError) Error() string {
	return fmt.Sprintf("attribute %s.%s has abstract type %s", e.Class, e.Attribute, e.Type)
}

// ErrorCode implements errors.Coder.
func (e *AbstractFieldTypeError) ErrorCode() errors.Code { return errors.ErrCodeAbstractFieldType }

// MissingMapMemberError is returned by ConvertMapStereotype when a map class
// lacks its key or value attribute.
type MissingMapMemberError struct {
	Map       string // qualified name of the map class
	Member    string // the missing attribute name
	Attribute string // the referencing attribute as owner.name
}

func (e *MissingMapMemberError) Error() string {
	return fmt.Sprintf("map %s referenced by %s has no %q attribute", e.Map, e.Attribute, e.Member)
}

// ErrorCode implements errors.Coder.
func (e *MissingMapMemberError) ErrorCode() errors.Code { return errors.ErrCodeMissingMapMember }
