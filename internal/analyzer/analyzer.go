package analyzer

import (
	"fmt"
	"go/token"

	"github.com/hashicorp/go-hclog"

	"github.com/apidocgen/apidocgen/internal/annotation"
)

// Analyzer extracts annotations from the doc comments of Go handler
// methods. Receiver types become classes.
type Analyzer struct {
	projectPath string
	fileSet     *token.FileSet
	logger      hclog.Logger
}

func New(projectPath string, logger hclog.Logger) *Analyzer {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Analyzer{
		projectPath: projectPath,
		fileSet:     token.NewFileSet(),
		logger:      logger.Named("analyzer"),
	}
}

// Analyze walks the project and returns its annotation store. Classes are
// ordered by the first file position of their methods and only types with
// at least one annotated method are kept.
func (a *Analyzer) Analyze() (*annotation.Store, error) {
	idx := newClassIndex()

	files, err := a.sourceFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to list source files: %w", err)
	}

	for _, path := range files {
		if err := a.parseSourceFile(path, idx); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	store := idx.store()
	a.logger.Debug("analysis complete", "files", len(files), "classes", len(store.Classes), "methods", store.MethodCount())
	return store, nil
}

// classIndex accumulates methods per class in first-seen order.
type classIndex struct {
	order     []string
	methods   map[string][]annotation.Method
	annotated map[string]bool
}

func newClassIndex() *classIndex {
	return &classIndex{
		methods:   make(map[string][]annotation.Method),
		annotated: make(map[string]bool),
	}
}

func (c *classIndex) add(class string, m annotation.Method) {
	if _, ok := c.methods[class]; !ok {
		c.order = append(c.order, class)
		c.methods[class] = []annotation.Method{}
	}
	c.methods[class] = append(c.methods[class], m)
	if !m.Bag.Empty() {
		c.annotated[class] = true
	}
}

func (c *classIndex) store() *annotation.Store {
	store := &annotation.Store{}
	for _, name := range c.order {
		if !c.annotated[name] {
			continue
		}
		store.Classes = append(store.Classes, annotation.Class{Name: name, Methods: c.methods[name]})
	}
	return store
}
