package model

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultResolveCacheSize bounds the number of memoised name resolutions.
const DefaultResolveCacheSize = 4096

// Index is a read-only lookup view over a forest snapshot. It must be rebuilt
// after the forest is mutated.
type Index struct {
	byID   map[int64]*Class
	byName map[string]*Class
	cache  *lru.Cache[string, *Class]
}

// NewIndex indexes every class of f by object id and qualified name. When two
// classes share a qualified name the first one in walk order wins.
func NewIndex(f Forest) *Index {
	cache, _ := lru.New[string, *Class](DefaultResolveCacheSize)
	x := &Index{
		byID:   make(map[int64]*Class),
		byName: make(map[string]*Class),
		cache:  cache,
	}
	WalkClasses(f, func(c *Class, _ *Package) {
		x.byID[c.ObjectID] = c
		if _, dup := x.byName[c.FullName()]; !dup {
			x.byName[c.FullName()] = c
		}
	})
	return x
}

// Class returns the class with object id id.
func (x *Index) Class(id int64) (*Class, bool) {
	c, ok := x.byID[id]
	return c, ok
}

// Has reports whether id names an indexed class.
func (x *Index) Has(id int64) bool {
	_, ok := x.byID[id]
	return ok
}

// Len returns the number of indexed classes.
func (x *Index) Len() int { return len(x.byID) }

// Lookup returns the class with the exact qualified name.
func (x *Index) Lookup(qualified string) (*Class, bool) {
	c, ok := x.byName[qualified]
	return c, ok
}

// LookupPath returns the class whose Path equals path.
func (x *Index) LookupPath(path []string) (*Class, bool) {
	return x.Lookup(strings.Join(path, Separator))
}

// Resolve finds the class a type name refers to when written inside
// namespace. Like IDL scoping, the innermost enclosing namespace is tried
// first, then each outer one, then the name as given.
func (x *Index) Resolve(name string, namespace []string) (*Class, bool) {
	if name == "" {
		return nil, false
	}
	key := strings.Join(namespace, Separator) + "|" + name
	if c, ok := x.cache.Get(key); ok {
		return c, c != nil
	}
	c := x.resolve(name, namespace)
	x.cache.Add(key, c)
	return c, c != nil
}

func (x *Index) resolve(name string, namespace []string) *Class {
	name = strings.TrimPrefix(name, Separator)
	for i := len(namespace); i > 0; i-- {
		qualified := strings.Join(namespace[:i], Separator) + Separator + name
		if c, ok := x.byName[qualified]; ok {
			return c
		}
	}
	return x.byName[name]
}

// AttributeTarget returns the class an attribute refers to. A connector is
// authoritative: when its end is not indexed the attribute has no target.
// Without a connector the type is resolved in the attribute namespace, or in
// the owner namespace when the attribute has none.
func (x *Index) AttributeTarget(owner *Class, a *Attribute) (*Class, bool) {
	if a.Connector != nil {
		c, ok := x.byID[a.Connector.EndObjectID]
		return c, ok
	}
	if len(a.Namespace) > 0 {
		return x.Resolve(a.Type, a.Namespace)
	}
	return x.Resolve(a.Type, owner.Namespace)
}
