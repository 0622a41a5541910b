package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/idlgraph/pkg/config"
	"github.com/matzehuels/idlgraph/pkg/errors"
	"github.com/matzehuels/idlgraph/pkg/model"
)

func linked(packages ...*model.Package) model.Forest {
	f := model.Forest(packages)
	model.Link(f)
	return f
}

func attr(name, typ string) *model.Attribute {
	return &model.Attribute{Name: name, Type: typ}
}

func conn(from, to int64) *model.Connection {
	return &model.Connection{ConnectorType: "Association", StartObjectID: from, EndObjectID: to}
}

func attrNames(c *model.Class) []string {
	var out []string
	for _, a := range c.Attributes {
		out = append(out, a.Name)
	}
	return out
}

func TestFilterStereotypes(t *testing.T) {
	cfg := config.Default()
	cfg.FilterStereotypes = []string{"lobw"}

	hidden := &model.Class{ObjectID: 3, Name: "Hidden"}
	internal := &model.Class{ObjectID: 4, Name: "Internal", Stereotypes: []string{"lobw"}}
	user := &model.Class{ObjectID: 1, Name: "User", DependsOn: []int64{3, 4},
		Attributes: []*model.Attribute{
			{Name: "attr_1", Type: "long", Stereotypes: []string{"lobw"}},
			{Name: "attr_2", Type: "long"},
			{Name: "hidden", Type: "Hidden", Connector: conn(1, 3)},
			{Name: "internal", Type: "Internal", Namespace: []string{"root"}},
		}}
	f := linked(&model.Package{PackageID: 1, Name: "root",
		Classes: []*model.Class{user, internal},
		Packages: []*model.Package{
			{PackageID: 2, Name: "private", Stereotypes: []string{"lobw"}, Classes: []*model.Class{hidden}},
		},
	})

	res, err := FilterStereotypes(&f, cfg)
	require.NoError(t, err)

	assert.Equal(t, 1, res.PackagesRemoved)
	assert.Equal(t, 2, res.ClassesRemoved)
	assert.Equal(t, 3, res.AttributesRemoved)
	assert.ElementsMatch(t, []string{"root::private::Hidden", "root::Internal"}, res.Removed)
	assert.Empty(t, f[0].Packages)
	assert.Equal(t, []string{"attr_2"}, attrNames(user))
	assert.Empty(t, user.DependsOn)

	// Idempotent.
	res, err = FilterStereotypes(&f, cfg)
	require.NoError(t, err)
	assert.Zero(t, res.ClassesRemoved+res.AttributesRemoved+res.PackagesRemoved)
}

func TestFilterStereotypesRootPackage(t *testing.T) {
	cfg := config.Default()
	cfg.FilterStereotypes = []string{"skip"}
	f := linked(
		&model.Package{PackageID: 1, Name: "keep"},
		&model.Package{PackageID: 2, Name: "drop", Stereotypes: []string{"skip"}},
	)

	_, err := FilterStereotypes(&f, cfg)
	require.NoError(t, err)
	require.Len(t, f, 1)
	assert.Equal(t, "keep", f[0].Name)
}

// flattenForest builds Base (abstract) <- Middle (abstract) <- Leaf, with
// Middle depending on Dep and Concrete deriving from a concrete class.
func flattenForest() model.Forest {
	dep := &model.Class{ObjectID: 1, Name: "Dep"}
	base := &model.Class{ObjectID: 2, Name: "Base", IsAbstract: true,
		Attributes: []*model.Attribute{attr("id", "long")}}
	middle := &model.Class{ObjectID: 3, Name: "Middle", IsAbstract: true,
		Generalization: []string{"root", "Base"},
		DependsOn:      []int64{2, 1},
		Attributes: []*model.Attribute{
			{Name: "dep", Type: "Dep", Connector: conn(3, 1)},
		}}
	leaf := &model.Class{ObjectID: 4, Name: "Leaf",
		Generalization: []string{"root", "Middle"},
		DependsOn:      []int64{3},
		Attributes:     []*model.Attribute{attr("name", "string")}}
	parent := &model.Class{ObjectID: 5, Name: "Parent", Attributes: []*model.Attribute{attr("p", "long")}}
	concrete := &model.Class{ObjectID: 6, Name: "Concrete",
		Generalization: []string{"root", "Parent"},
		DependsOn:      []int64{5}}
	return linked(&model.Package{PackageID: 1, Name: "root",
		Classes: []*model.Class{dep, base, middle, leaf, parent, concrete}})
}

func TestFlattenAbstractClasses(t *testing.T) {
	f := flattenForest()
	cfg := config.Default()
	base := model.ClassByID(f, 2)

	res, err := FlattenAbstractClasses(&f, cfg)
	require.NoError(t, err)

	leaf := model.ClassByID(f, 4)
	require.NotNil(t, leaf)
	assert.Equal(t, []string{"id", "dep", "name"}, attrNames(leaf))
	assert.Nil(t, leaf.Generalization)
	assert.Equal(t, []int64{1}, leaf.DependsOn)
	assert.Equal(t, int64(4), leaf.Attributes[1].Connector.StartObjectID)
	assert.Equal(t, 2, res.AttributesInherited)
	assert.Equal(t, 2, res.ClassesRemoved)

	model.WalkClasses(f, func(c *model.Class, _ *model.Package) {
		assert.False(t, c.IsAbstract, "%s is still abstract", c.Name)
	})

	concrete := model.ClassByID(f, 6)
	assert.Equal(t, []string{"root", "Parent"}, concrete.Generalization)
	assert.Empty(t, concrete.Attributes)

	// Inherited attributes are copies.
	leaf.Attributes[0].Name = "changed"
	assert.Equal(t, "id", base.Attributes[0].Name)
	assert.Nil(t, model.ClassByID(f, 2))

	again, err := FlattenAbstractClasses(&f, cfg)
	require.NoError(t, err)
	assert.Zero(t, again.AttributesInherited)
	assert.Len(t, leaf.Attributes, 3)
}

func TestFlattenKeepsConcreteAncestor(t *testing.T) {
	// Leaf -> Abstract -> Root (concrete): generalization moves to Root.
	root := &model.Class{ObjectID: 1, Name: "Root"}
	abstract := &model.Class{ObjectID: 2, Name: "Mid", IsAbstract: true,
		Generalization: []string{"m", "Root"},
		Attributes:     []*model.Attribute{attr("x", "long")}}
	leaf := &model.Class{ObjectID: 3, Name: "Leaf", Generalization: []string{"m", "Mid"}}
	f := linked(&model.Package{PackageID: 1, Name: "m", Classes: []*model.Class{root, abstract, leaf}})

	_, err := FlattenAbstractClasses(&f, config.Default())
	require.NoError(t, err)
	assert.Equal(t, []string{"m", "Root"}, leaf.Generalization)
	assert.Equal(t, []string{"x"}, attrNames(leaf))
}

func TestFlattenErrors(t *testing.T) {
	t.Run("attribute conflict", func(t *testing.T) {
		f := flattenForest()
		leaf := model.ClassByID(f, 4)
		leaf.Attributes = append(leaf.Attributes, attr("id", "long"))

		_, err := FlattenAbstractClasses(&f, config.Default())

		var conflict *AttributeConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, "id", conflict.Attribute)
		assert.Equal(t, "root::Base", conflict.Ancestor)
		assert.Equal(t, errors.ErrCodeAttributeConflict, errors.GetCode(err))
		// Nothing changed.
		assert.NotNil(t, model.ClassByID(f, 2))
		assert.Len(t, leaf.Attributes, 2)
	})

	t.Run("abstract field type", func(t *testing.T) {
		f := flattenForest()
		user := &model.Class{ObjectID: 9, Name: "User", Attributes: []*model.Attribute{attr("base", "Base")}}
		f[0].Classes = append(f[0].Classes, user)
		model.Link(f)

		_, err := FlattenAbstractClasses(&f, config.Default())

		var aft *AbstractFieldTypeError
		require.ErrorAs(t, err, &aft)
		assert.Equal(t, "root::Base", aft.Type)
		assert.True(t, errors.Is(err, errors.ErrCodeAbstractFieldType))
		assert.NotNil(t, model.ClassByID(f, 3))
	})

	t.Run("abstract typedef parent", func(t *testing.T) {
		f := flattenForest()
		list := &model.Class{ObjectID: 9, Name: "BaseList", Kind: model.KindTypedef, ParentType: "sequence<Base>"}
		f[0].Classes = append(f[0].Classes, list)
		model.Link(f)

		_, err := FlattenAbstractClasses(&f, config.Default())

		var aft *AbstractFieldTypeError
		require.ErrorAs(t, err, &aft)
		assert.Equal(t, "root::BaseList", aft.Class)
		assert.Equal(t, "parent_type", aft.Attribute)
		assert.Equal(t, "root::Base", aft.Type)
		assert.Equal(t, "sequence<Base>", list.ParentType)
		assert.NotNil(t, model.ClassByID(f, 2))
	})
}

// unionForest mirrors a union referenced from three packages.
func unionForest(members ...*model.Attribute) model.Forest {
	union := &model.Class{ObjectID: 1, Name: "ClassUnion", Kind: model.KindUnion, Attributes: members}
	ref := func(id int64, name string) *model.Class {
		return &model.Class{ObjectID: id, Name: name, DependsOn: []int64{1},
			Attributes: []*model.Attribute{{Name: "attr_1", Type: "ClassUnion", Connector: conn(id, 1)}}}
	}
	return linked(&model.Package{PackageID: 0, Name: "root",
		Classes: []*model.Class{ref(2, "ClassName2")},
		Packages: []*model.Package{
			{PackageID: 1, Name: "child_1", Classes: []*model.Class{union, ref(3, "ClassName3")}},
			{PackageID: 2, Name: "child_2", Classes: []*model.Class{ref(4, "ClassName4")}},
		},
	})
}

func TestFilterEmptyUnions(t *testing.T) {
	f := unionForest()

	res, err := FilterEmptyUnions(&f, config.Default())
	require.NoError(t, err)

	assert.Nil(t, model.ClassByID(f, 1))
	assert.Equal(t, 3, res.AttributesRemoved)
	for _, id := range []int64{2, 3, 4} {
		c := model.ClassByID(f, id)
		assert.Empty(t, c.Attributes, c.Name)
		assert.Empty(t, c.DependsOn, c.Name)
	}
}

func TestFilterEmptyUnionsRemovesTypedefs(t *testing.T) {
	f := unionForest()
	alias := &model.Class{ObjectID: 8, Name: "UnionAlias", Kind: model.KindTypedef, ParentType: "ClassUnion", DependsOn: []int64{1}}
	list := &model.Class{ObjectID: 9, Name: "AliasList", Kind: model.KindTypedef, ParentType: "sequence<UnionAlias>", DependsOn: []int64{8}}
	user := &model.Class{ObjectID: 10, Name: "User", DependsOn: []int64{9},
		Attributes: []*model.Attribute{attr("items", "AliasList"), attr("n", "long")}}
	f[0].Packages[0].Classes = append(f[0].Packages[0].Classes, alias, list, user)
	model.Link(f)

	res, err := FilterEmptyUnions(&f, config.Default())
	require.NoError(t, err)

	for _, id := range []int64{1, 8, 9} {
		assert.Nil(t, model.ClassByID(f, id), "class %d", id)
	}
	assert.Equal(t, 3, res.ClassesRemoved)
	assert.Equal(t, []string{"n"}, attrNames(user))
	assert.Empty(t, user.DependsOn)
}

func TestFilterEmptyUnionsKeepStereotype(t *testing.T) {
	f := unionForest()
	model.ClassByID(f, 1).Stereotypes = []string{"keep"}
	cfg := config.Default()
	cfg.KeepUnionStereotypes = []string{"keep"}

	res, err := FilterEmptyUnions(&f, cfg)
	require.NoError(t, err)
	assert.Zero(t, res.ClassesRemoved)
	assert.NotNil(t, model.ClassByID(f, 1))
}

func TestCollapseSingleMemberUnion(t *testing.T) {
	t.Run("primitive member", func(t *testing.T) {
		f := unionForest(attr("member", "string"))

		res, err := FilterEmptyUnions(&f, config.Default())
		require.NoError(t, err)

		assert.Nil(t, model.ClassByID(f, 1))
		assert.Equal(t, 1, res.UnionsCollapsed)
		assert.Equal(t, 3, res.AttributesRewritten)
		for _, id := range []int64{2, 3, 4} {
			a := model.ClassByID(f, id).Attributes[0]
			assert.Equal(t, "string", a.Type)
			assert.Nil(t, a.Connector)
			assert.Empty(t, model.ClassByID(f, id).DependsOn)
		}
	})

	t.Run("class member", func(t *testing.T) {
		f := unionForest(&model.Attribute{Name: "member", Type: "Target", Connector: conn(1, 7)})
		target := &model.Class{ObjectID: 7, Name: "Target"}
		f[0].Packages[1].Classes = append(f[0].Packages[1].Classes, target)
		model.Link(f)

		_, err := FilterEmptyUnions(&f, config.Default())
		require.NoError(t, err)

		c := model.ClassByID(f, 3)
		a := c.Attributes[0]
		assert.Equal(t, "Target", a.Type)
		assert.Equal(t, []string{"root", "child_2"}, a.Namespace)
		assert.Equal(t, int64(3), a.Connector.StartObjectID)
		assert.Equal(t, int64(7), a.Connector.EndObjectID)
		assert.Equal(t, []int64{7}, c.DependsOn)
	})

	t.Run("typedef parent type", func(t *testing.T) {
		f := unionForest(&model.Attribute{Name: "member", Type: "Target", Connector: conn(1, 7)})
		target := &model.Class{ObjectID: 7, Name: "Target"}
		list := &model.Class{ObjectID: 8, Name: "UnionList", Kind: model.KindTypedef,
			ParentType: "sequence<ClassUnion>", DependsOn: []int64{1}}
		f[0].Packages[1].Classes = append(f[0].Packages[1].Classes, target)
		f[0].Packages[0].Classes = append(f[0].Packages[0].Classes, list)
		model.Link(f)

		_, err := FilterEmptyUnions(&f, config.Default())
		require.NoError(t, err)

		assert.Nil(t, model.ClassByID(f, 1))
		assert.Equal(t, "sequence<root::child_2::Target>", list.ParentType)
		assert.Equal(t, []int64{7}, list.DependsOn)
	})

	t.Run("chained unions", func(t *testing.T) {
		outer := &model.Class{ObjectID: 1, Name: "Outer", Kind: model.KindUnion,
			Attributes: []*model.Attribute{attr("inner", "Inner")}}
		inner := &model.Class{ObjectID: 2, Name: "Inner", Kind: model.KindUnion,
			Attributes: []*model.Attribute{attr("value", "double")}}
		user := &model.Class{ObjectID: 3, Name: "User", Attributes: []*model.Attribute{attr("v", "Outer")}}
		f := linked(&model.Package{PackageID: 1, Name: "u", Classes: []*model.Class{outer, inner, user}})

		res, err := FilterEmptyUnions(&f, config.Default())
		require.NoError(t, err)
		assert.Equal(t, 2, res.UnionsCollapsed)
		assert.Equal(t, "double", user.Attributes[0].Type)
		assert.Len(t, f[0].Classes, 1)
	})
}

func TestConvertMapStereotype(t *testing.T) {
	cfg := config.Default()
	typedef := &model.Class{ObjectID: 3, Name: "ClassTypedef", Kind: model.KindTypedef, ParentType: "long"}
	m := &model.Class{ObjectID: 2, Name: "ClassMap", Stereotypes: []string{cfg.Stereotypes.Map},
		Attributes: []*model.Attribute{
			{Name: "key", Type: "string"},
			{Name: "value", Type: "ClassTypedef", Namespace: []string{"root"}},
		}}
	user := &model.Class{ObjectID: 1, Name: "User", Attributes: []*model.Attribute{
		{Name: "map_attr", Type: "ClassMap", Connector: conn(1, 2)},
		attr("plain", "long"),
	}}
	f := linked(&model.Package{PackageID: 1, Name: "root", Classes: []*model.Class{user, m, typedef}})

	res, err := ConvertMapStereotype(&f, cfg)
	require.NoError(t, err)

	a := user.Attributes[0]
	assert.True(t, a.IsMap)
	assert.Equal(t, "string", a.MapKeyType)
	assert.Equal(t, "root::ClassTypedef", a.MapValueType)
	assert.False(t, user.Attributes[1].IsMap)
	assert.Equal(t, 1, res.MapsConverted)
}

func TestConvertMapStereotypeMissingMember(t *testing.T) {
	m := &model.Class{ObjectID: 2, Name: "Broken", Kind: model.KindMap,
		Attributes: []*model.Attribute{attr("key", "string")}}
	user := &model.Class{ObjectID: 1, Name: "User", Attributes: []*model.Attribute{attr("m", "Broken")}}
	f := linked(&model.Package{PackageID: 1, Name: "root", Classes: []*model.Class{user, m}})

	_, err := ConvertMapStereotype(&f, config.Default())

	var missing *MissingMapMemberError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "value", missing.Member)
	assert.Equal(t, "root::User.m", missing.Attribute)
	assert.False(t, user.Attributes[0].IsMap)
}

func unusedForest() model.Forest {
	root := &model.Class{ObjectID: 1, Name: "RootClass",
		Properties: map[string]string{"ext::interface": ""},
		Attributes: []*model.Attribute{
			{Name: "used_field", Type: "UsedClass", Namespace: []string{"root"}, Connector: conn(1, 2)},
			attr("union_field", "MyUnion"),
		}}
	used := &model.Class{ObjectID: 2, Name: "UsedClass", Generalization: []string{"root", "BaseClass"}}
	base := &model.Class{ObjectID: 3, Name: "BaseClass"}
	union := &model.Class{ObjectID: 4, Name: "MyUnion", Kind: model.KindUnion, UnionEnum: "root::MyUnionTypeEnum"}
	enum := &model.Class{ObjectID: 5, Name: "MyUnionTypeEnum", Kind: model.KindEnum}
	values := &model.Class{ObjectID: 6, Name: "FlexibleNameValues", Kind: model.KindEnum}
	used.ValuesEnums = []string{"root::FlexibleNameValues"}
	unused := &model.Class{ObjectID: 7, Name: "UnusedClass", DependsOn: []int64{2}}
	return linked(&model.Package{PackageID: 1, Name: "root",
		Classes: []*model.Class{root, used, base, union, enum, values, unused}})
}

func TestFindUnusedClasses(t *testing.T) {
	cfg := config.Default()
	cfg.UnusedRootProperty = "ext::interface"

	unused, roots := FindUnusedClasses(unusedForest(), cfg)

	assert.Equal(t, 1, roots)
	require.Len(t, unused, 1)
	assert.Equal(t, "UnusedClass", unused[0].Name)
}

func TestFindUnusedClassesMonotonic(t *testing.T) {
	cfg := config.Default()
	cfg.UnusedRootProperty = "ext::interface"
	f := unusedForest()

	root := model.ClassByID(f, 1)
	root.Attributes = append(root.Attributes, attr("now_used", "UnusedClass"))

	unused, _ := FindUnusedClasses(f, cfg)
	assert.Empty(t, unused)
}

func TestFindUnusedClassesWithoutRoots(t *testing.T) {
	cfg := config.Default()
	cfg.UnusedRootProperty = "ext::missing"
	f := unusedForest()

	unused, roots := FindUnusedClasses(f, cfg)
	assert.Zero(t, roots)
	assert.Len(t, unused, len(model.Classes(f)))

	cfg.UnusedRootProperty = ""
	unused, _ = FindUnusedClasses(f, cfg)
	assert.Nil(t, unused)
}

func TestFilterUnusedClasses(t *testing.T) {
	cfg := config.Default()
	cfg.UnusedRootProperty = "ext::interface"
	f := unusedForest()

	res, err := FilterUnusedClasses(&f, cfg)
	require.NoError(t, err)

	assert.Equal(t, []string{"root::UnusedClass"}, res.Removed)
	assert.Len(t, f[0].Classes, 6)
	assert.Equal(t, 1, res.Roots)
}

func TestApply(t *testing.T) {
	cfg := config.Default()
	cfg.FilterStereotypes = []string{"lobw"}
	cfg.UnusedRootProperty = "ext::interface"

	f := unusedForest()
	f[0].Classes = append(f[0].Classes, &model.Class{ObjectID: 8, Name: "Filtered", Stereotypes: []string{"lobw"}})

	res, err := Apply(&f, cfg)
	require.NoError(t, err)

	// MyUnion has no members and disappears together with union_field,
	// which leaves its discriminator enum unused as well.
	assert.ElementsMatch(t,
		[]string{"root::Filtered", "root::MyUnion", "root::MyUnionTypeEnum", "root::UnusedClass"},
		res.Removed)
	assert.Equal(t, []string{"used_field"}, attrNames(model.ClassByID(f, 1)))
}

func TestApplyWrapsStepName(t *testing.T) {
	m := &model.Class{ObjectID: 2, Name: "Broken", Kind: model.KindMap}
	user := &model.Class{ObjectID: 1, Name: "User", Attributes: []*model.Attribute{attr("m", "Broken")}}
	f := linked(&model.Package{PackageID: 1, Name: "root", Classes: []*model.Class{user, m}})

	_, err := Apply(&f, config.Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "convert_map_stereotype: ")
	assert.Equal(t, errors.ErrCodeMissingMapMember, errors.GetCode(err))
}
