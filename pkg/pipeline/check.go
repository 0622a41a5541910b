package pipeline

import (
	"strings"

	"github.com/matzehuels/idlgraph/pkg/config"
	"github.com/matzehuels/idlgraph/pkg/errors"
	"github.com/matzehuels/idlgraph/pkg/model"
)

// EnumLiteralName returns the enum literal a union member selects: the enum
// name and the upper-cased member name joined by an underscore, e.g.
// member "temperature" of enum MeasurementKind selects
// MeasurementKind_TEMPERATURE.
func EnumLiteralName(enum, member string) string {
	return enum + "_" + strings.ToUpper(member)
}

// CheckUnions verifies every union discriminated by an enum. The UnionEnum
// name must resolve to an enum class (or be a primitive), the enum must have
// at least as many literals as the union has members, and every member must
// have its literal (see [EnumLiteralName]). Violations are reported as
// errors.ErrCodeInvalidModel.
func CheckUnions(f model.Forest, cfg *config.Config) error {
	idx := model.NewIndex(f)
	var err error
	model.WalkClasses(f, func(c *model.Class, _ *model.Package) {
		if err != nil || !c.IsUnion() || c.UnionEnum == "" {
			return
		}
		enum, ok := idx.Resolve(c.UnionEnum, c.Namespace)
		if !ok {
			if !cfg.IsPrimitive(c.UnionEnum) {
				err = errors.New(errors.ErrCodeInvalidModel, "union %s: discriminator %q does not resolve", c.FullName(), c.UnionEnum)
			}
			return
		}
		if !enum.IsEnum() {
			err = errors.New(errors.ErrCodeInvalidModel, "union %s: discriminator %s is a %s, not an enum", c.FullName(), enum.FullName(), enum.Kind)
			return
		}
		if len(enum.Attributes) < len(c.Attributes) {
			err = errors.New(errors.ErrCodeInvalidModel, "union %s has %d members but enum %s only %d literals",
				c.FullName(), len(c.Attributes), enum.FullName(), len(enum.Attributes))
			return
		}
		for _, a := range c.Attributes {
			literal := EnumLiteralName(enum.Name, a.Name)
			if enum.Attribute(literal) == nil {
				err = errors.New(errors.ErrCodeInvalidModel, "union %s: member %s has no literal %s in %s",
					c.FullName(), a.Name, literal, enum.FullName())
				return
			}
		}
	})
	return err
}
