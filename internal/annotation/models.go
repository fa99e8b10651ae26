package annotation

import "github.com/samber/lo"

// Annotation kinds recognized by the document assembler.
const (
	KindRoute            = "ApiRoute"
	KindMethod           = "ApiMethod"
	KindDescription      = "ApiDescription"
	KindParams           = "ApiParams"
	KindReturnObject     = "ApiReturnObject"
	KindReturnRootSample = "ApiReturnRootSample"
	KindReturn           = "ApiReturn"
)

// Annotation is one declared instance of an annotation kind.
type Annotation map[string]string

// Bag maps an annotation kind to its instances, in declaration order.
type Bag map[string][]Annotation

type Method struct {
	Name string
	Bag  Bag
}

type Class struct {
	Name    string
	Methods []Method
}

// Store is the extracted annotation data of a project. Classes and methods
// keep the order in which they were supplied.
type Store struct {
	Classes []Class
}

func (a Annotation) Get(field string) (string, bool) {
	v, ok := a[field]
	return v, ok
}

func (a Annotation) Has(field string) bool {
	_, ok := a[field]
	return ok
}

// Lookup resolves an optional field, falling back to def when absent.
func (a Annotation) Lookup(field, def string) string {
	if v, ok := a[field]; ok {
		return v
	}
	return def
}

// First returns the first instance of kind.
func (b Bag) First(kind string) (Annotation, bool) {
	instances, ok := b[kind]
	if !ok || len(instances) == 0 {
		return nil, false
	}
	return instances[0], true
}

func (b Bag) Has(kind string) bool {
	_, ok := b[kind]
	return ok
}

func (b Bag) Empty() bool {
	return len(b) == 0
}

// Merge concatenates the classes of others after those of s.
func (s *Store) Merge(others ...*Store) *Store {
	merged := &Store{Classes: append([]Class{}, s.Classes...)}
	for _, o := range others {
		if o == nil {
			continue
		}
		merged.Classes = append(merged.Classes, o.Classes...)
	}
	return merged
}

// MethodCount is the number of methods across all classes.
func (s *Store) MethodCount() int {
	return lo.SumBy(s.Classes, func(c Class) int { return len(c.Methods) })
}
