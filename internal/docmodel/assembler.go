package docmodel

import (
	"github.com/hashicorp/go-multierror"

	"github.com/apidocgen/apidocgen/internal/annotation"
)

// Assemble builds the document model of store. Classes and methods are
// visited in the order the store supplies them; every class is documented.
// Any data-integrity error aborts the run and no document is returned.
func Assemble(store *annotation.Store) (*Document, error) {
	j := newJoiner(store)
	for _, class := range store.Classes {
		j.addClass(projectClass(class))
	}
	return j.finish()
}

// methodResult is the id-free projection of one method. Producing it
// depends on nothing but the method's bag.
type methodResult struct {
	section    string
	hasSection bool
	skip       bool
	entry      *EndpointEntry
	err        error
}

func projectClass(class annotation.Class) []methodResult {
	results := make([]methodResult, 0, len(class.Methods))
	for _, m := range class.Methods {
		results = append(results, projectMethod(class.Name, m))
	}
	return results
}

func projectMethod(class string, m annotation.Method) methodResult {
	var r methodResult
	if d, ok := m.Bag.First(annotation.KindDescription); ok {
		r.section, r.hasSection = d.Get("section")
	}
	if m.Bag.Empty() {
		r.skip = true
		return r
	}
	r.entry, r.err = projectEntry(class, m.Name, m.Bag)
	return r
}

// emitter writes section markers to the content and navigation streams
// together, so both always see the same transitions at the same id.
type emitter struct {
	doc *Document
}

func (e emitter) section(name string, id int) {
	marker := SectionMarker{Section: name, ID: id}
	e.doc.Content = append(e.doc.Content, Block{Marker: &marker})
	e.doc.Navigation = append(e.doc.Navigation, marker)
	e.doc.Stats.Sections++
}

func (e emitter) entry(entry *EndpointEntry) {
	e.doc.Content = append(e.doc.Content, Block{Entry: entry})
	e.doc.Stats.Entries++
}

// joiner is the single-threaded pass that tracks sections and assigns ids.
type joiner struct {
	doc     *Document
	emit    emitter
	tracker *SectionTracker
	counter int
	errs    *multierror.Error
}

func newJoiner(store *annotation.Store) *joiner {
	doc := &Document{
		Content:    []Block{},
		Navigation: []SectionMarker{},
		Stats: Stats{
			Classes: len(store.Classes),
			Methods: store.MethodCount(),
		},
	}
	return &joiner{
		doc:     doc,
		emit:    emitter{doc: doc},
		tracker: NewSectionTracker(),
	}
}

func (j *joiner) addClass(results []methodResult) {
	for _, r := range results {
		j.add(r)
	}
}

func (j *joiner) add(r methodResult) {
	if j.tracker.Transition(r.section, r.hasSection) {
		j.emit.section(r.section, j.counter)
	}
	if r.skip {
		j.doc.Stats.Skipped++
		return
	}
	if r.err != nil {
		j.errs = multierror.Append(j.errs, r.err)
		j.counter++
		return
	}

	entry := *r.entry
	entry.ID = j.counter
	entry.Section, _ = j.tracker.Current()
	j.emit.entry(&entry)
	j.counter++
}

func (j *joiner) finish() (*Document, error) {
	if err := j.errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return j.doc, nil
}
