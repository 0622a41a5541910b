package transform

import (
	"github.com/matzehuels/idlgraph/pkg/config"
	"github.com/matzehuels/idlgraph/pkg/model"
)

type mapConversion struct {
	attr       *model.Attribute
	key, value string
}

// ConvertMapStereotype marks every attribute typed by a map class as an IDL
// map. A map class is a class of kind map or one carrying the configured map
// stereotype; its key and value attributes (named by cfg.Stereotypes.MapKey
// and MapValue) give the fully qualified MapKeyType and MapValueType.
//
// A map class missing either member yields *MissingMapMemberError before any
// attribute is changed.
func ConvertMapStereotype(f *model.Forest, cfg *config.Config) (Result, error) {
	var res Result
	idx := model.NewIndex(*f)
	isMap := func(c *model.Class) bool {
		return c.IsMap() || c.HasStereotype(cfg.Stereotypes.Map)
	}

	var plan []mapConversion
	var err error
	model.WalkClasses(*f, func(c *model.Class, _ *model.Package) {
		if err != nil {
			return
		}
		for _, a := range c.Attributes {
			target, ok := idx.AttributeTarget(c, a)
			if !ok || !isMap(target) {
				continue
			}
			key := target.Attribute(cfg.Stereotypes.MapKey)
			value := target.Attribute(cfg.Stereotypes.MapValue)
			missing := ""
			switch {
			case key == nil:
				missing = cfg.Stereotypes.MapKey
			case value == nil:
				missing = cfg.Stereotypes.MapValue
			}
			if missing != "" {
				err = &MissingMapMemberError{Map: target.FullName(), Member: missing, Attribute: c.FullName() + "." + a.Name}
				return
			}
			plan = append(plan, mapConversion{attr: a, key: key.QualifiedType(), value: value.QualifiedType()})
		}
	})
	if err != nil {
		return res, err
	}

	for _, m := range plan {
		m.attr.IsMap = true
		if m.key != "" {
			m.attr.MapKeyType = m.key
		}
		if m.value != "" {
			m.attr.MapValueType = m.value
		}
	}
	res.MapsConverted = len(plan)
	return res, nil
}
