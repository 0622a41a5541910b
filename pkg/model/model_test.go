package model

import (
	"encoding/json"
	"slices"
	"testing"
)

func testForest() Forest {
	point := &Class{ObjectID: 1, Name: "Point"}
	line := &Class{ObjectID: 2, Name: "Line", DependsOn: []int64{1}}
	shape := &Class{ObjectID: 3, Name: "Shape", DependsOn: []int64{2, 1}}
	geo := &Package{PackageID: 2, ObjectID: 20, Name: "geo", Classes: []*Class{point, line}}
	draw := &Package{PackageID: 3, ObjectID: 30, Name: "draw", Classes: []*Class{shape}}
	root := &Package{PackageID: 1, ObjectID: 10, Name: "core", Packages: []*Package{geo, draw}}
	f := Forest{root}
	Link(f)
	return f
}

func TestLink(t *testing.T) {
	f := testForest()
	geo := f[0].Packages[0]

	if got := geo.FullName(); got != "core::geo" {
		t.Errorf("FullName() = %q, want %q", got, "core::geo")
	}
	if geo.ParentID != 1 {
		t.Errorf("ParentID = %d, want 1", geo.ParentID)
	}
	if f[0].ParentID != 0 {
		t.Errorf("root ParentID = %d, want 0", f[0].ParentID)
	}
	point := geo.Classes[0]
	if got := point.FullName(); got != "core::geo::Point" {
		t.Errorf("class FullName() = %q, want %q", got, "core::geo::Point")
	}
	if point.PackageID != 2 {
		t.Errorf("PackageID = %d, want 2", point.PackageID)
	}
}

func TestLinkKeepsExplicitNamespace(t *testing.T) {
	c := &Class{ObjectID: 1, Name: "A", Namespace: []string{"elsewhere"}}
	f := Forest{{PackageID: 1, Name: "root", Classes: []*Class{c}}}
	Link(f)
	if got := c.FullName(); got != "elsewhere::A" {
		t.Errorf("FullName() = %q, want %q", got, "elsewhere::A")
	}
}

func TestContainedIDsAndAllDependsOn(t *testing.T) {
	f := testForest()

	if got := ContainedIDs(f[0]); !slices.Equal(got, []int64{1, 2, 3}) {
		t.Errorf("ContainedIDs(root) = %v, want [1 2 3]", got)
	}
	if got := ContainedIDs(f[0].Packages[1]); !slices.Equal(got, []int64{3}) {
		t.Errorf("ContainedIDs(draw) = %v, want [3]", got)
	}
	if got := AllDependsOn(f[0].Packages[1]); !slices.Equal(got, []int64{1, 2}) {
		t.Errorf("AllDependsOn(draw) = %v, want [1 2]", got)
	}
}

func TestRemoveClasses(t *testing.T) {
	f := testForest()

	removed := RemoveClasses(f, map[int64]bool{2: true})

	if len(removed) != 1 || removed[0].Name != "Line" {
		t.Fatalf("removed = %v, want [Line]", removed)
	}
	if ClassByID(f, 2) != nil {
		t.Error("Line still present after RemoveClasses")
	}
	shape := ClassByID(f, 3)
	if !slices.Equal(shape.DependsOn, []int64{1}) {
		t.Errorf("Shape.DependsOn = %v, want [1]", shape.DependsOn)
	}
}

func TestRemovePackages(t *testing.T) {
	f := testForest()
	f = append(f, &Package{PackageID: 9, Name: "extra"})

	removed := RemovePackages(&f, func(p *Package) bool { return p.Name == "geo" || p.Name == "extra" })

	if len(removed) != 2 {
		t.Fatalf("removed %d packages, want 2", len(removed))
	}
	if len(f) != 1 || len(f[0].Packages) != 1 || f[0].Packages[0].Name != "draw" {
		t.Errorf("unexpected forest after RemovePackages: %d roots", len(f))
	}
	if ClassByID(f, 1) != nil {
		t.Error("classes of a removed package are still reachable")
	}
}

func TestPruneDependencies(t *testing.T) {
	f := testForest()
	ClassByID(f, 1).DependsOn = []int64{99}

	if n := PruneDependencies(f); n != 1 {
		t.Errorf("PruneDependencies() = %d, want 1", n)
	}
	if deps := ClassByID(f, 1).DependsOn; len(deps) != 0 {
		t.Errorf("Point.DependsOn = %v, want empty", deps)
	}
}

func TestRefreshPackageDependencies(t *testing.T) {
	f := testForest()
	f[0].DependsOn = []int64{42}

	RefreshPackageDependencies(f)

	if len(f[0].DependsOn) != 0 {
		t.Errorf("root.DependsOn = %v, want empty (all ids contained)", f[0].DependsOn)
	}
	draw := f[0].Packages[1]
	if !slices.Equal(draw.DependsOn, []int64{1, 2}) {
		t.Errorf("draw.DependsOn = %v, want [1 2]", draw.DependsOn)
	}
	geo := f[0].Packages[0]
	if len(geo.DependsOn) != 0 {
		t.Errorf("geo.DependsOn = %v, want empty", geo.DependsOn)
	}
}

func TestComputeInfo(t *testing.T) {
	f := testForest()
	f[0].Packages = append(f[0].Packages, &Package{PackageID: 4, Name: "empty"})

	ComputeInfo(f)

	if !f[0].Info.CreateDefinition {
		t.Error("root should create a definition (has child packages)")
	}
	if got := f[0].Packages[0].Info.Structs; got != 2 {
		t.Errorf("geo structs = %d, want 2", got)
	}
	empty := f[0].Packages[2].Info
	if empty.CreateDefinition {
		t.Error("empty package should not create a definition")
	}
	if !empty.CreateDeclaration {
		t.Error("CreateDeclaration should always be set")
	}
}

func TestAddDependency(t *testing.T) {
	c := &Class{ObjectID: 5}
	c.AddDependency(5)
	c.AddDependency(6)
	c.AddDependency(6)
	if !slices.Equal(c.DependsOn, []int64{6}) {
		t.Errorf("DependsOn = %v, want [6]", c.DependsOn)
	}
}

func TestAttributeClone(t *testing.T) {
	a := &Attribute{
		Name:      "x",
		Namespace: []string{"core"},
		Connector: &Connection{EndObjectID: 3},
	}
	c := a.Clone()
	c.Namespace[0] = "other"
	c.Connector.EndObjectID = 4

	if a.Namespace[0] != "core" {
		t.Error("Clone shares Namespace with original")
	}
	if a.Connector.EndObjectID != 3 {
		t.Error("Clone shares Connector with original")
	}
}

func TestKindText(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"struct", KindStruct, false},
		{"Union", KindUnion, false},
		{"typedef", KindTypedef, false},
		{"", KindStruct, false},
		{"interface", 0, true},
	}
	for _, tt := range tests {
		var k Kind
		err := k.UnmarshalText([]byte(tt.in))
		if (err != nil) != tt.wantErr {
			t.Errorf("UnmarshalText(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && k != tt.want {
			t.Errorf("UnmarshalText(%q) = %v, want %v", tt.in, k, tt.want)
		}
	}
}

func TestClassJSON(t *testing.T) {
	var c Class
	data := `{"object_id": 7, "name": "Shape", "kind": "union", "union_enum": "core::ShapeKind"}`
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !c.IsUnion() || c.UnionEnum != "core::ShapeKind" {
		t.Errorf("decoded %+v, want union with discriminator core::ShapeKind", c)
	}
}

func TestTypeNames(t *testing.T) {
	tests := []struct {
		expr      string
		want      []string
		container bool
	}{
		{"sequence<core::Point>", []string{"core::Point"}, true},
		{"sequence<Point, 10>", []string{"Point"}, true},
		{"map<string, Item>", []string{"string", "Item"}, true},
		{"core::Point", []string{"core::Point"}, false},
		{"string", []string{"string"}, false},
	}
	for _, tt := range tests {
		if got := TypeNames(tt.expr); !slices.Equal(got, tt.want) {
			t.Errorf("TypeNames(%q) = %v, want %v", tt.expr, got, tt.want)
		}
		if got := IsContainerType(tt.expr); got != tt.container {
			t.Errorf("IsContainerType(%q) = %v, want %v", tt.expr, got, tt.container)
		}
	}
}

func TestRewriteTypeNames(t *testing.T) {
	rename := func(name string) string {
		if name == "U" {
			return "core::Item"
		}
		return name
	}
	tests := []struct {
		expr string
		want string
	}{
		{"U", "core::Item"},
		{"sequence<U>", "sequence<core::Item>"},
		{"sequence< U , 4>", "sequence< core::Item , 4>"},
		{"map<string, U>", "map<string, core::Item>"},
		{"sequence<UU>", "sequence<UU>"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := RewriteTypeNames(tt.expr, rename); got != tt.want {
			t.Errorf("RewriteTypeNames(%q) = %q, want %q", tt.expr, got, tt.want)
		}
	}
}
