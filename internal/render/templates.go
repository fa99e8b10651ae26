package render

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Template names. Each one is a placeholder layout the renderer fills with
// one element of the document model.
const (
	TplLayout        = "layout"
	TplSectionTitle  = "section_title"
	TplAnchor        = "anchor"
	TplContentMain   = "content_main"
	TplParamsTable   = "params_table"
	TplParamsRow     = "params_row"
	TplParamPopover  = "param_popover"
	TplReturnsTable  = "returns_table"
	TplReturnsHeader = "returns_header"
	TplReturnsRow    = "returns_row"
	TplReturnsLink   = "returns_link"
	TplRootSample    = "root_sample"
	TplSample        = "sample"
)

var templateNames = []string{
	TplLayout, TplSectionTitle, TplAnchor, TplContentMain,
	TplParamsTable, TplParamsRow, TplParamPopover,
	TplReturnsTable, TplReturnsHeader, TplReturnsRow, TplReturnsLink,
	TplRootSample, TplSample,
}

//go:embed templates
var builtin embed.FS

// Templates is a named set of template sources.
type Templates map[string]string

// DefaultTemplates returns the built-in template set of format.
func DefaultTemplates(format Format) (Templates, error) {
	ext, err := format.extension()
	if err != nil {
		return nil, err
	}

	tpls := Templates{}
	for _, name := range templateNames {
		src, err := builtin.ReadFile("templates/" + string(format) + "/" + name + ext)
		if err != nil {
			return nil, fmt.Errorf("failed to read builtin template %s: %w", name, err)
		}
		tpls[name] = string(src)
	}
	return tpls, nil
}

// Override replaces templates with files named <name><ext> found in dir.
// Names without a file keep their current source.
func (t Templates) Override(dir string, format Format) error {
	ext, err := format.extension()
	if err != nil {
		return err
	}

	for _, name := range templateNames {
		src, err := os.ReadFile(filepath.Join(dir, name+ext))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to read template %s: %w", name, err)
		}
		t[name] = string(src)
	}
	return nil
}

func (t Templates) validate() error {
	for _, name := range templateNames {
		if _, ok := t[name]; !ok {
			return fmt.Errorf("%w: %s", ErrMissingTemplate, name)
		}
	}
	return nil
}
